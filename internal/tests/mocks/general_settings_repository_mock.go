package mocks

import (
	"context"

	"modelshelf/internal/models"
)

type GeneralSettingsRepositoryMock struct {
	GetFunc  func(ctx context.Context) (*models.GeneralSettings, error)
	SaveFunc func(ctx context.Context, settings *models.GeneralSettings) error
}

func (m *GeneralSettingsRepositoryMock) Get(ctx context.Context) (*models.GeneralSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return models.DefaultGeneralSettings(), nil
}

func (m *GeneralSettingsRepositoryMock) Save(ctx context.Context, settings *models.GeneralSettings) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, settings)
	}
	return nil
}
