package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Dialogs shows blocking messages that need the user's acknowledgment.
type Dialogs interface {
	Alert(title, message string)
	Confirm(title, message string) (bool, error)
}

type messageDialogFunc func(ctx context.Context, opts runtime.MessageDialogOptions) (string, error)

// WailsDialogs shows native message dialogs through the Wails runtime.
type WailsDialogs struct {
	log  logrus.FieldLogger
	show messageDialogFunc

	mu  sync.Mutex
	ctx context.Context
}

func NewWailsDialogs(log logrus.FieldLogger) *WailsDialogs {
	return &WailsDialogs{
		log:  log.WithField("component", "dialogs"),
		show: runtime.MessageDialog,
	}
}

func (d *WailsDialogs) Startup(ctx context.Context) {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
}

func (d *WailsDialogs) context() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctx
}

func (d *WailsDialogs) Alert(title, message string) {
	ctx := d.context()
	if ctx == nil {
		d.log.WithField("title", title).Warn("alert before startup, not shown")
		return
	}
	_, err := d.show(ctx, runtime.MessageDialogOptions{
		Type:    runtime.WarningDialog,
		Title:   title,
		Message: message,
	})
	if err != nil {
		d.log.WithError(err).WithField("title", title).Error("alert dialog failed")
	}
}

func (d *WailsDialogs) Confirm(title, message string) (bool, error) {
	ctx := d.context()
	if ctx == nil {
		return false, errors.New("dialogs are not available before startup")
	}
	choice, err := d.show(ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         title,
		Message:       message,
		Buttons:       []string{"Yes", "No"},
		DefaultButton: "No",
		CancelButton:  "No",
	})
	if err != nil {
		return false, err
	}
	switch strings.ToLower(choice) {
	case "yes", "ok":
		return true, nil
	}
	return false, nil
}
