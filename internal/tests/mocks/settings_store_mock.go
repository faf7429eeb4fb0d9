package mocks

import (
	"context"
	"sync"

	"modelshelf/internal/models"
)

// SettingsStoreMock is an in-memory settings store that records every Save.
type SettingsStoreMock struct {
	LoadErr error

	mu       sync.Mutex
	settings *models.GeneralSettings
	saves    []models.SettingsPatch
	subs     map[int]func(*models.GeneralSettings, models.SettingsPatch)
	nextSub  int
}

func NewSettingsStoreMock(settings *models.GeneralSettings) *SettingsStoreMock {
	if settings == nil {
		settings = &models.GeneralSettings{ID: 1}
	}
	return &SettingsStoreMock{
		settings: settings.Clone(),
		subs:     make(map[int]func(*models.GeneralSettings, models.SettingsPatch)),
	}
}

func (m *SettingsStoreMock) Startup(ctx context.Context) {}

func (m *SettingsStoreMock) Load(ctx context.Context) (*models.GeneralSettings, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Clone(), nil
}

func (m *SettingsStoreMock) Save(patch models.SettingsPatch) {
	m.mu.Lock()
	patch.Apply(m.settings)
	m.saves = append(m.saves, patch)
	snapshot := m.settings.Clone()
	subs := make([]func(*models.GeneralSettings, models.SettingsPatch), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot.Clone(), patch)
	}
}

func (m *SettingsStoreMock) Subscribe(fn func(*models.GeneralSettings, models.SettingsPatch)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSub++
	id := m.nextSub
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *SettingsStoreMock) Flush(ctx context.Context) error { return nil }

func (m *SettingsStoreMock) LastSaveError() error { return nil }

func (m *SettingsStoreMock) Close(ctx context.Context) error { return nil }

// Saves returns the patches passed to Save so far.
func (m *SettingsStoreMock) Saves() []models.SettingsPatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SettingsPatch, len(m.saves))
	copy(out, m.saves)
	return out
}

// SaveCount returns how many times Save was called.
func (m *SettingsStoreMock) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

// Current returns a copy of the merged settings.
func (m *SettingsStoreMock) Current() *models.GeneralSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Clone()
}
