package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"modelshelf/internal/events"
	"modelshelf/internal/models"
	"modelshelf/internal/repositories"
)

// SettingsStore owns GeneralSettings: loaded once, mutated in memory, and
// written to the repository in the background after every Save.
type SettingsStore interface {
	Startup(ctx context.Context)
	// Load reads the settings on first call and returns a copy of the
	// in-memory state afterwards.
	Load(ctx context.Context) (*models.GeneralSettings, error)
	// Save merges patch into the in-memory settings, notifies subscribers and
	// schedules a write. It does not wait for the write.
	Save(patch models.SettingsPatch)
	// Subscribe registers fn to run after every Save. The returned func
	// unregisters it.
	Subscribe(fn func(settings *models.GeneralSettings, patch models.SettingsPatch)) func()
	// Flush blocks until every Save issued so far has been written, and
	// returns the last write error, if any.
	Flush(ctx context.Context) error
	LastSaveError() error
	Close(ctx context.Context) error
}

type subscriber struct {
	id uint64
	fn func(*models.GeneralSettings, models.SettingsPatch)
}

type settingsStore struct {
	repo  repositories.GeneralSettingsRepository
	vault SecretVault
	log   logrus.FieldLogger
	ctx   context.Context

	mu          sync.Mutex
	current     *models.GeneralSettings
	version     uint64
	persisted   uint64
	lastErr     error
	flushed     chan struct{}
	subscribers []subscriber
	nextSubID   uint64
	vaultIDs    []string

	dirty    chan struct{}
	quit     chan struct{}
	stopped  chan struct{}
	quitOnce sync.Once
}

// NewSettingsStore starts the background writer. vault may be nil, in which
// case API keys are stored with the rest of the settings.
func NewSettingsStore(repo repositories.GeneralSettingsRepository, vault SecretVault, log logrus.FieldLogger) SettingsStore {
	s := &settingsStore{
		repo:    repo,
		vault:   vault,
		log:     log.WithField("component", "settings-store"),
		ctx:     context.Background(),
		flushed: make(chan struct{}),
		dirty:   make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *settingsStore) Startup(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *settingsStore) Load(ctx context.Context) (*models.GeneralSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return s.current.Clone(), nil
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if s.vault != nil {
		if err := s.readSecrets(settings); err != nil {
			return nil, fmt.Errorf("load settings secrets: %w", err)
		}
	}
	s.current = settings
	s.log.WithField("models", len(settings.Models)).Debug("settings loaded")
	return settings.Clone(), nil
}

func (s *settingsStore) Save(patch models.SettingsPatch) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		s.log.WithError(ErrNotLoaded).Error("save dropped")
		return
	}
	patch.Apply(s.current)
	s.version++
	snapshot := s.current.Clone()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snapshot.Clone(), patch)
	}

	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *settingsStore) Subscribe(fn func(*models.GeneralSettings, models.SettingsPatch)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subscribers = lo.Reject(s.subscribers, func(sub subscriber, _ int) bool {
				return sub.id == id
			})
		})
	}
}

func (s *settingsStore) Flush(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.persisted >= s.version {
			err := s.lastErr
			s.mu.Unlock()
			return err
		}
		ch := s.flushed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-s.stopped:
			s.mu.Lock()
			pending := s.persisted < s.version
			s.mu.Unlock()
			if pending {
				return errors.New("settings store closed with unsaved changes")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *settingsStore) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close writes any pending state and stops the background writer.
func (s *settingsStore) Close(ctx context.Context) error {
	s.quitOnce.Do(func() { close(s.quit) })
	select {
	case <-s.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.LastSaveError()
}

func (s *settingsStore) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.dirty:
			s.persist()
		case <-s.quit:
			s.persist()
			return
		}
	}
}

// persist writes the newest snapshot. Intermediate versions are skipped, so
// the last writer wins.
func (s *settingsStore) persist() {
	s.mu.Lock()
	if s.current == nil || s.persisted >= s.version {
		s.mu.Unlock()
		return
	}
	snapshot := s.current.Clone()
	version := s.version
	ctx := s.ctx
	s.mu.Unlock()

	err := s.write(ctx, snapshot)
	if err != nil {
		s.log.WithError(err).Error("settings write failed")
		events.Emit(ctx, events.SettingsSaveError, events.NewSaveFailedEvent(err))
	}

	s.mu.Lock()
	s.persisted = version
	s.lastErr = err
	close(s.flushed)
	s.flushed = make(chan struct{})
	s.mu.Unlock()
}

func (s *settingsStore) write(ctx context.Context, snapshot *models.GeneralSettings) error {
	if s.vault != nil {
		if err := s.writeSecrets(snapshot); err != nil {
			return err
		}
	}
	return s.repo.Save(context.WithoutCancel(ctx), snapshot)
}

func (s *settingsStore) readSecrets(settings *models.GeneralSettings) error {
	var err error
	if settings.OpenAIAPIKey, err = s.preferVault(secretOpenAI, settings.OpenAIAPIKey); err != nil {
		return err
	}
	if settings.AnthropicAPIKey, err = s.preferVault(secretAnthropic, settings.AnthropicAPIKey); err != nil {
		return err
	}
	for i := range settings.Models {
		m := &settings.Models[i]
		if m.APIKey, err = s.preferVault(modelSecretName(m.ID), m.APIKey); err != nil {
			return err
		}
	}
	s.vaultIDs = lo.Map(settings.Models, func(m models.ModelConfig, _ int) string { return m.ID })
	return nil
}

// preferVault returns the vault value when present, otherwise the stored one
// (rows written before the vault was enabled).
func (s *settingsStore) preferVault(name, stored string) (string, error) {
	v, err := s.vault.GetSecret(name)
	if err != nil {
		return "", err
	}
	if v == "" {
		return stored, nil
	}
	return v, nil
}

// writeSecrets moves API keys from snapshot into the vault and blanks them
// in the snapshot. Keys of removed models are deleted.
func (s *settingsStore) writeSecrets(snapshot *models.GeneralSettings) error {
	if err := s.vault.SetSecret(secretOpenAI, snapshot.OpenAIAPIKey); err != nil {
		return fmt.Errorf("store %s key: %w", secretOpenAI, err)
	}
	if err := s.vault.SetSecret(secretAnthropic, snapshot.AnthropicAPIKey); err != nil {
		return fmt.Errorf("store %s key: %w", secretAnthropic, err)
	}
	snapshot.OpenAIAPIKey = ""
	snapshot.AnthropicAPIKey = ""

	ids := make([]string, 0, len(snapshot.Models))
	for i := range snapshot.Models {
		m := &snapshot.Models[i]
		if err := s.vault.SetSecret(modelSecretName(m.ID), m.APIKey); err != nil {
			return fmt.Errorf("store key for model %s: %w", m.ID, err)
		}
		m.APIKey = ""
		ids = append(ids, m.ID)
	}
	for _, gone := range lo.Without(s.vaultIDs, ids...) {
		if err := s.vault.DeleteSecret(modelSecretName(gone)); err != nil {
			s.log.WithError(err).WithField("id", gone).Warn("could not delete key of removed model")
		}
	}
	s.vaultIDs = ids
	return nil
}
