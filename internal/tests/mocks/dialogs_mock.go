package mocks

import "sync"

type DialogsMock struct {
	AlertFunc   func(title, message string)
	ConfirmFunc func(title, message string) (bool, error)

	mu       sync.Mutex
	alerts   []string
	confirms []string
}

func (m *DialogsMock) Alert(title, message string) {
	m.mu.Lock()
	m.alerts = append(m.alerts, message)
	m.mu.Unlock()
	if m.AlertFunc != nil {
		m.AlertFunc(title, message)
	}
}

// Confirm answers yes unless ConfirmFunc says otherwise.
func (m *DialogsMock) Confirm(title, message string) (bool, error) {
	m.mu.Lock()
	m.confirms = append(m.confirms, message)
	m.mu.Unlock()
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(title, message)
	}
	return true, nil
}

func (m *DialogsMock) Alerts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.alerts...)
}

func (m *DialogsMock) Confirms() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.confirms...)
}
