package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelshelf/internal/models"
	"modelshelf/internal/services"
	"modelshelf/internal/tests/mocks"
)

const testQuietPeriod = 50 * time.Millisecond

func newAutoSave(t *testing.T, settings *models.GeneralSettings) (services.AutoSaveService, *mocks.SettingsStoreMock) {
	t.Helper()
	log, _ := newTestLogger()
	store := mocks.NewSettingsStoreMock(settings)
	svc := services.NewAutoSaveService(store, testQuietPeriod, log)
	svc.Startup(context.Background())
	return svc, store
}

func TestAutoSave_Initialize_SeedsForm(t *testing.T) {
	svc, store := newAutoSave(t, &models.GeneralSettings{
		OpenAIAPIKey:       "sk-o",
		AnthropicAPIKey:    "sk-a",
		InterpreterEnabled: true,
		InterpreterAutoRun: false,
	})

	view, err := svc.Initialize()
	require.NoError(t, err)

	assert.Equal(t, models.InterpreterForm{
		OpenAIAPIKey:         "sk-o",
		AnthropicAPIKey:      "sk-a",
		InterpreterEnabled:   true,
		DefaultPromptContext: models.DefaultPromptContext,
	}, view.Form)
	assert.True(t, view.PromptContextVisible)
	assert.Equal(t, "is-enabled", view.InterpreterToggle)
	assert.Equal(t, "", view.AutoRunToggle)
	assert.Zero(t, store.SaveCount())
}

func TestAutoSave_Initialize_KeepsCustomPrompt(t *testing.T) {
	svc, _ := newAutoSave(t, &models.GeneralSettings{DefaultPromptContext: "Summarize tersely."})

	view, err := svc.Initialize()
	require.NoError(t, err)
	assert.Equal(t, "Summarize tersely.", view.Form.DefaultPromptContext)
	assert.False(t, view.PromptContextVisible)
}

func TestAutoSave_Initialize_LoadError(t *testing.T) {
	log, _ := newTestLogger()
	store := mocks.NewSettingsStoreMock(nil)
	store.LoadErr = assert.AnError
	svc := services.NewAutoSaveService(store, testQuietPeriod, log)

	_, err := svc.Initialize()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAutoSave_Input_CoalescesBurst(t *testing.T) {
	svc, store := newAutoSave(t, &models.GeneralSettings{})
	_, err := svc.Initialize()
	require.NoError(t, err)

	for i := 1; i <= 10; i++ {
		svc.Input(models.InterpreterForm{
			OpenAIAPIKey:         fmt.Sprintf("sk-%d", i),
			DefaultPromptContext: "prompt",
		})
	}
	assert.Zero(t, store.SaveCount())

	require.Eventually(t, func() bool { return store.SaveCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testQuietPeriod)
	require.Equal(t, 1, store.SaveCount())

	saved := store.Current()
	assert.Equal(t, "sk-10", saved.OpenAIAPIKey)
	assert.Equal(t, "prompt", saved.DefaultPromptContext)
	patch := store.Saves()[0]
	assert.Nil(t, patch.Models)
	require.NotNil(t, patch.InterpreterEnabled)
	assert.False(t, *patch.InterpreterEnabled)
}

func TestAutoSave_Input_SeparateBursts(t *testing.T) {
	svc, store := newAutoSave(t, &models.GeneralSettings{})

	svc.Input(models.InterpreterForm{AnthropicAPIKey: "a"})
	require.Eventually(t, func() bool { return store.SaveCount() == 1 }, time.Second, 5*time.Millisecond)

	svc.Input(models.InterpreterForm{AnthropicAPIKey: "ab"})
	require.Eventually(t, func() bool { return store.SaveCount() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "ab", store.Current().AnthropicAPIKey)
}

func TestAutoSave_ToggleChanged_SavesImmediately(t *testing.T) {
	svc, store := newAutoSave(t, &models.GeneralSettings{})

	view := svc.ToggleChanged(models.InterpreterForm{InterpreterEnabled: true, InterpreterAutoRun: true})

	assert.Equal(t, 1, store.SaveCount())
	assert.True(t, view.PromptContextVisible)
	assert.Equal(t, "is-enabled", view.InterpreterToggle)
	assert.Equal(t, "is-enabled", view.AutoRunToggle)
	assert.True(t, store.Current().InterpreterEnabled)

	view = svc.ToggleChanged(models.InterpreterForm{InterpreterEnabled: false, InterpreterAutoRun: true})
	assert.False(t, view.PromptContextVisible)
	assert.Equal(t, "", view.InterpreterToggle)
	assert.Equal(t, 2, store.SaveCount())
}

func TestAutoSave_ToggleSupersedesPendingInput(t *testing.T) {
	svc, store := newAutoSave(t, &models.GeneralSettings{})

	svc.Input(models.InterpreterForm{OpenAIAPIKey: "typed"})
	svc.ToggleChanged(models.InterpreterForm{OpenAIAPIKey: "typed", InterpreterEnabled: true})

	time.Sleep(3 * testQuietPeriod)
	assert.Equal(t, 1, store.SaveCount())
	assert.Equal(t, "typed", store.Current().OpenAIAPIKey)
	assert.True(t, store.Current().InterpreterEnabled)
}

func TestAutoSave_Flush(t *testing.T) {
	svc, store := newAutoSave(t, &models.GeneralSettings{})

	svc.Flush()
	assert.Zero(t, store.SaveCount())

	svc.Input(models.InterpreterForm{DefaultPromptContext: "draft"})
	svc.Flush()
	assert.Equal(t, 1, store.SaveCount())
	assert.Equal(t, "draft", store.Current().DefaultPromptContext)

	time.Sleep(3 * testQuietPeriod)
	assert.Equal(t, 1, store.SaveCount())
}
