package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"modelshelf/internal/database"
	"modelshelf/internal/models"
)

func newTestRepo(t *testing.T) GeneralSettingsRepository {
	t.Helper()
	log, _ := test.NewNullLogger()
	db, err := database.Init(database.Config{
		Path:     filepath.Join(t.TempDir(), "settings.db"),
		LogLevel: logger.Silent,
		Log:      log,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewGeneralSettingsRepository(db)
}

func TestGeneralSettingsRepository_Get_DefaultsWhenEmpty(t *testing.T) {
	repo := newTestRepo(t)

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(1), settings.ID)
	assert.Equal(t, models.DefaultPromptContext, settings.DefaultPromptContext)
	require.Len(t, settings.Models, 2)
	assert.True(t, settings.Models[0].IsProtected())
	assert.True(t, settings.Models[1].IsProtected())
}

func TestGeneralSettingsRepository_SaveThenGet_PreservesOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := &models.GeneralSettings{
		OpenAIAPIKey:       "sk-1",
		InterpreterEnabled: true,
		Models: []models.ModelConfig{
			{ID: "c", Name: "Third", BaseURL: "http://c", Enabled: true},
			{ID: "a", Name: "First", BaseURL: "http://a"},
			{ID: "b", Name: "Second", Provider: "Ollama", BaseURL: "http://b", APIKey: "k", Enabled: true},
		},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-1", out.OpenAIAPIKey)
	assert.True(t, out.InterpreterEnabled)
	assert.Equal(t, in.Models, out.Models)
}

func TestGeneralSettingsRepository_Save_Overwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.GeneralSettings{DefaultPromptContext: "one"}))
	require.NoError(t, repo.Save(ctx, &models.GeneralSettings{DefaultPromptContext: "two"}))

	out, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", out.DefaultPromptContext)
	assert.Empty(t, out.Models)
}
