package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"modelshelf/internal/models"
)

type GeneralSettingsRepository interface {
	// Get returns the stored settings, or the defaults (with seeded built-in
	// models) when nothing has been saved yet.
	Get(ctx context.Context) (*models.GeneralSettings, error)
	Save(ctx context.Context, settings *models.GeneralSettings) error
}

type generalSettingsRepository struct {
	db *gorm.DB
}

func NewGeneralSettingsRepository(db *gorm.DB) GeneralSettingsRepository {
	return &generalSettingsRepository{db: db}
}

func (r *generalSettingsRepository) Get(ctx context.Context) (*models.GeneralSettings, error) {
	var settings models.GeneralSettings
	if err := r.db.WithContext(ctx).First(&settings, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultGeneralSettings(), nil
		}
		return nil, fmt.Errorf("getting general settings: %w", err)
	}
	if settings.Models == nil {
		settings.Models = []models.ModelConfig{}
	}
	return &settings, nil
}

func (r *generalSettingsRepository) Save(ctx context.Context, settings *models.GeneralSettings) error {
	// Ensure ID is set to 1 for single-row table
	settings.ID = 1
	if settings.Models == nil {
		settings.Models = []models.ModelConfig{}
	}
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return fmt.Errorf("saving general settings: %w", err)
	}
	return nil
}
