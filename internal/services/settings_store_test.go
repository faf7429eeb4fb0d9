package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"modelshelf/internal/events"
	"modelshelf/internal/models"
	"modelshelf/internal/services"
	"modelshelf/internal/tests/mocks"
)

type recordingRepo struct {
	mocks.GeneralSettingsRepositoryMock
	mu    sync.Mutex
	saved []*models.GeneralSettings
	gets  atomic.Int32
}

func newRecordingRepo(initial *models.GeneralSettings) *recordingRepo {
	r := &recordingRepo{}
	r.GetFunc = func(ctx context.Context) (*models.GeneralSettings, error) {
		r.gets.Add(1)
		return initial.Clone(), nil
	}
	r.SaveFunc = func(ctx context.Context, s *models.GeneralSettings) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.saved = append(r.saved, s.Clone())
		return nil
	}
	return r
}

func (r *recordingRepo) last() *models.GeneralSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) == 0 {
		return nil
	}
	return r.saved[len(r.saved)-1]
}

func (r *recordingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func newStore(t *testing.T, repo *recordingRepo, vault services.SecretVault) services.SettingsStore {
	t.Helper()
	log, _ := newTestLogger()
	store := services.NewSettingsStore(repo, vault, log)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func strPtr(s string) *string { return &s }

func TestSettingsStore_LoadOnce(t *testing.T) {
	repo := newRecordingRepo(mixedModels())
	store := newStore(t, repo, nil)
	ctx := context.Background()

	first, err := store.Load(ctx)
	require.NoError(t, err)
	first.Models[0].Name = "mutated by caller"

	second, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), repo.gets.Load())
	assert.Equal(t, "OpenAI", second.Models[0].Name)
}

func TestSettingsStore_LoadError(t *testing.T) {
	repo := newRecordingRepo(nil)
	repo.GetFunc = func(ctx context.Context) (*models.GeneralSettings, error) { return nil, assert.AnError }
	store := newStore(t, repo, nil)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSettingsStore_SaveMergesAndPersists(t *testing.T) {
	repo := newRecordingRepo(mixedModels())
	store := newStore(t, repo, nil)
	ctx := context.Background()
	_, err := store.Load(ctx)
	require.NoError(t, err)

	store.Save(models.SettingsPatch{OpenAIAPIKey: strPtr("sk-new")})

	current, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-new", current.OpenAIAPIKey)

	require.NoError(t, store.Flush(ctx))
	last := repo.last()
	require.NotNil(t, last)
	assert.Equal(t, "sk-new", last.OpenAIAPIKey)
	assert.Equal(t, mixedModels().Models, last.Models)
}

func TestSettingsStore_SaveBeforeLoadIsDropped(t *testing.T) {
	repo := newRecordingRepo(mixedModels())
	store := newStore(t, repo, nil)

	store.Save(models.SettingsPatch{OpenAIAPIKey: strPtr("x")})

	require.NoError(t, store.Flush(context.Background()))
	assert.Zero(t, repo.count())
}

func TestSettingsStore_LastWriterWins(t *testing.T) {
	repo := newRecordingRepo(&models.GeneralSettings{})
	store := newStore(t, repo, nil)
	ctx := context.Background()
	_, err := store.Load(ctx)
	require.NoError(t, err)

	for _, v := range []string{"a", "ab", "abc", "abcd"} {
		store.Save(models.SettingsPatch{DefaultPromptContext: strPtr(v)})
	}
	require.NoError(t, store.Flush(ctx))

	assert.Equal(t, "abcd", repo.last().DefaultPromptContext)
	assert.LessOrEqual(t, repo.count(), 4)
}

func TestSettingsStore_Subscribe(t *testing.T) {
	repo := newRecordingRepo(mixedModels())
	store := newStore(t, repo, nil)
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	var seen []models.SettingsPatch
	unsubscribe := store.Subscribe(func(s *models.GeneralSettings, p models.SettingsPatch) {
		assert.Equal(t, 4, len(s.Models))
		seen = append(seen, p)
	})

	enabled := true
	store.Save(models.SettingsPatch{InterpreterEnabled: &enabled})
	unsubscribe()
	unsubscribe()
	store.Save(models.SettingsPatch{InterpreterEnabled: &enabled})

	require.Len(t, seen, 1)
	assert.False(t, seen[0].TouchesModels())
}

func TestSettingsStore_WriteFailureIsReported(t *testing.T) {
	got := captureEvents(t)
	repo := newRecordingRepo(&models.GeneralSettings{})
	repo.SaveFunc = func(ctx context.Context, s *models.GeneralSettings) error { return assert.AnError }
	store := newStore(t, repo, nil)
	ctx := context.Background()
	_, err := store.Load(ctx)
	require.NoError(t, err)

	store.Save(models.SettingsPatch{AnthropicAPIKey: strPtr("k")})

	assert.ErrorIs(t, store.Flush(ctx), assert.AnError)
	assert.ErrorIs(t, store.LastSaveError(), assert.AnError)
	assert.Equal(t, 1, countNamed(got(), events.SettingsSaveError))

	current, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "k", current.AnthropicAPIKey)
}

func TestSettingsStore_CloseDrainsPendingWrite(t *testing.T) {
	repo := newRecordingRepo(&models.GeneralSettings{})
	log, _ := newTestLogger()
	store := services.NewSettingsStore(repo, nil, log)
	ctx := context.Background()
	_, err := store.Load(ctx)
	require.NoError(t, err)

	store.Save(models.SettingsPatch{DefaultPromptContext: strPtr("final")})
	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, store.Close(closeCtx))

	assert.Equal(t, "final", repo.last().DefaultPromptContext)
}

func TestSettingsStore_VaultHoldsSecrets(t *testing.T) {
	keyring.MockInit()
	vault := services.NewKeyringService()
	repo := newRecordingRepo(mixedModels())
	store := newStore(t, repo, vault)
	ctx := context.Background()
	_, err := store.Load(ctx)
	require.NoError(t, err)

	list := mixedModels().Models
	list[1].APIKey = "local-key"
	store.Save(models.SettingsPatch{OpenAIAPIKey: strPtr("sk-o"), Models: &list})
	require.NoError(t, store.Flush(ctx))

	last := repo.last()
	assert.Empty(t, last.OpenAIAPIKey)
	for _, m := range last.Models {
		assert.Empty(t, m.APIKey)
	}
	v, err := vault.GetSecret("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-o", v)
	v, err = vault.GetSecret("model:local")
	require.NoError(t, err)
	assert.Equal(t, "local-key", v)

	current, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-o", current.OpenAIAPIKey)

	trimmed := list[:1]
	store.Save(models.SettingsPatch{Models: &trimmed})
	require.NoError(t, store.Flush(ctx))
	v, err = vault.GetSecret("model:local")
	require.NoError(t, err)
	assert.Empty(t, v)
}
