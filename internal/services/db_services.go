package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"modelshelf/internal/repositories"
)

// Options configures NewDbServices.
type Options struct {
	Log         logrus.FieldLogger
	QuietPeriod time.Duration
	// Vault keeps API keys out of the database when set.
	Vault   SecretVault
	Dialogs Dialogs
}

// DbServices aggregates the settings services backed by the database.
type DbServices struct {
	Settings  SettingsStore
	Registry  ModelRegistry
	ModelList ModelListService
	Modal     ModelModalService
	AutoSave  AutoSaveService
}

// NewDbServices wires the settings services over db.
func NewDbServices(db *gorm.DB, opts Options) *DbServices {
	return NewServicesWithRepository(repositories.NewGeneralSettingsRepository(db), opts)
}

// NewServicesWithRepository wires the settings services over repo.
func NewServicesWithRepository(repo repositories.GeneralSettingsRepository, opts Options) *DbServices {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.QuietPeriod <= 0 {
		opts.QuietPeriod = 500 * time.Millisecond
	}

	store := NewSettingsStore(repo, opts.Vault, opts.Log)
	registry := NewModelRegistry(store, opts.Log)
	modal := NewModelModalService(registry, opts.Dialogs, opts.Log)

	return &DbServices{
		Settings:  store,
		Registry:  registry,
		Modal:     modal,
		ModelList: NewModelListService(registry, modal, opts.Dialogs, opts.Log),
		AutoSave:  NewAutoSaveService(store, opts.QuietPeriod, opts.Log),
	}
}

// StartDbServices loads the settings and hands ctx to every service.
func (s *DbServices) StartDbServices(ctx context.Context) error {
	s.Settings.Startup(ctx)
	if err := s.Registry.Startup(ctx); err != nil {
		return fmt.Errorf("start model registry: %w", err)
	}
	s.Modal.Startup(ctx)
	s.ModelList.Startup(ctx)
	s.AutoSave.Startup(ctx)
	return nil
}

// Shutdown flushes a pending autosave and waits for the store to drain.
func (s *DbServices) Shutdown(ctx context.Context) error {
	s.AutoSave.Flush()
	return s.Settings.Close(ctx)
}
