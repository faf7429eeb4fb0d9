package main

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"modelshelf/internal/events"
	"modelshelf/internal/models"
	"modelshelf/internal/services"
)

// App struct
type App struct {
	ctx         context.Context
	log         logrus.FieldLogger
	svc         *services.DbServices
	dialogs     *services.WailsDialogs
	dbClose     func() error
	logClose    io.Closer
	unsubscribe func()
}

// NewApp creates a new App application struct
func NewApp(svc *services.DbServices, dialogs *services.WailsDialogs, log logrus.FieldLogger) *App {
	return &App{svc: svc, dialogs: dialogs, log: log}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	events.EnableRuntimeEmitter()
	a.dialogs.Startup(ctx)

	if err := a.svc.StartDbServices(ctx); err != nil {
		a.log.WithError(err).Error("failed to start settings services")
		return
	}

	// Push every committed settings change to the frontend.
	a.unsubscribe = a.svc.Settings.Subscribe(func(s *models.GeneralSettings, _ models.SettingsPatch) {
		events.Emit(ctx, events.SettingsChanged, s)
	})
	a.svc.ModelList.Render()
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.svc.Shutdown(flushCtx); err != nil {
		a.log.WithError(err).Error("settings were not fully saved")
	}

	// Close database connection pool
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.log.WithError(err).Error("failed to close database")
		} else {
			a.log.Info("database closed")
		}
		a.dbClose = nil
	}
	if a.logClose != nil {
		_ = a.logClose.Close()
	}
}

// GetSettings returns the current in-memory settings.
func (a *App) GetSettings() (*models.GeneralSettings, error) {
	return a.svc.Settings.Load(a.ctx)
}

// LastSaveError reports the most recent failed settings write, or "".
func (a *App) LastSaveError() string {
	if err := a.svc.Settings.LastSaveError(); err != nil {
		return err.Error()
	}
	return ""
}
