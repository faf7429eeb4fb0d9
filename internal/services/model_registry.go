package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"modelshelf/internal/models"
)

// ModelRegistry is the single writer of the ordered model list. Every
// successful mutation saves the whole list and notifies change listeners,
// which are expected to re-render from scratch.
//
// Index-addressed methods exist for callers that work on positions; UI row
// actions use the ID-addressed twins so that a structural change between
// render and click cannot hit the wrong entry.
type ModelRegistry interface {
	Startup(ctx context.Context) error
	Models() []models.ModelConfig
	Len() int
	Get(index int) (models.ModelConfig, error)
	IndexOf(id string) int

	Append(cfg models.ModelConfig)
	ReplaceAt(index int, cfg models.ModelConfig) error
	RemoveAt(index int) error
	SetEnabled(index int, enabled bool) error

	ReplaceByID(id string, cfg models.ModelConfig) error
	RemoveByID(id string) error
	SetEnabledByID(id string, enabled bool) error

	OnChange(fn func()) func()
}

type modelRegistry struct {
	store SettingsStore
	log   logrus.FieldLogger

	mu        sync.Mutex
	models    []models.ModelConfig
	listeners []listener
	nextID    uint64
}

type listener struct {
	id uint64
	fn func()
}

func NewModelRegistry(store SettingsStore, log logrus.FieldLogger) ModelRegistry {
	return &modelRegistry{
		store: store,
		log:   log.WithField("component", "model-registry"),
	}
}

// Startup loads the model list from the store.
func (r *modelRegistry) Startup(ctx context.Context) error {
	settings, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	r.mu.Lock()
	r.models = models.CloneModels(settings.Models)
	r.mu.Unlock()
	return nil
}

func (r *modelRegistry) Models() []models.ModelConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.CloneModels(r.models)
}

func (r *modelRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.models)
}

func (r *modelRegistry) Get(index int) (models.ModelConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inBounds(index) {
		return models.ModelConfig{}, fmt.Errorf("index %d: %w", index, ErrStaleEntry)
	}
	return r.models[index], nil
}

// IndexOf returns the position of the first entry with id, or -1.
func (r *modelRegistry) IndexOf(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexOf(id)
}

func (r *modelRegistry) Append(cfg models.ModelConfig) {
	r.mu.Lock()
	r.models = append(r.models, cfg)
	r.log.WithFields(logrus.Fields{"id": cfg.ID, "index": len(r.models) - 1}).Info("model added")
	r.commitLocked()
}

// ReplaceAt overwrites the entry at index. ID and Enabled are kept from the
// existing entry; Enabled only changes through SetEnabled.
func (r *modelRegistry) ReplaceAt(index int, cfg models.ModelConfig) error {
	r.mu.Lock()
	if err := r.checkEditableLocked(index, "replace"); err != nil {
		r.mu.Unlock()
		return err
	}
	r.replaceLocked(index, cfg)
	r.commitLocked()
	return nil
}

// RemoveAt deletes the entry at index; later entries shift down by one.
func (r *modelRegistry) RemoveAt(index int) error {
	r.mu.Lock()
	if err := r.checkEditableLocked(index, "remove"); err != nil {
		r.mu.Unlock()
		return err
	}
	r.removeLocked(index)
	r.commitLocked()
	return nil
}

// SetEnabled toggles the entry at index. Protected entries may be toggled.
func (r *modelRegistry) SetEnabled(index int, enabled bool) error {
	r.mu.Lock()
	if !r.inBounds(index) {
		r.mu.Unlock()
		r.log.WithField("index", index).Warn("toggle on missing model, reverting")
		return fmt.Errorf("index %d: %w", index, ErrStaleEntry)
	}
	r.models[index].Enabled = enabled
	r.commitLocked()
	return nil
}

func (r *modelRegistry) ReplaceByID(id string, cfg models.ModelConfig) error {
	r.mu.Lock()
	index := r.indexOf(id)
	if err := r.checkEditableLocked(index, "replace"); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("model %s: %w", id, err)
	}
	r.replaceLocked(index, cfg)
	r.commitLocked()
	return nil
}

func (r *modelRegistry) RemoveByID(id string) error {
	r.mu.Lock()
	index := r.indexOf(id)
	if err := r.checkEditableLocked(index, "remove"); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("model %s: %w", id, err)
	}
	r.removeLocked(index)
	r.commitLocked()
	return nil
}

func (r *modelRegistry) SetEnabledByID(id string, enabled bool) error {
	r.mu.Lock()
	index := r.indexOf(id)
	if index < 0 {
		r.mu.Unlock()
		r.log.WithField("id", id).Warn("toggle on missing model, reverting")
		return fmt.Errorf("model %s: %w", id, ErrStaleEntry)
	}
	r.models[index].Enabled = enabled
	r.commitLocked()
	return nil
}

// OnChange registers fn to run after every successful mutation.
func (r *modelRegistry) OnChange(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.listeners = lo.Reject(r.listeners, func(l listener, _ int) bool { return l.id == id })
	}
}

func (r *modelRegistry) inBounds(index int) bool {
	return index >= 0 && index < len(r.models)
}

func (r *modelRegistry) indexOf(id string) int {
	_, index, ok := lo.FindIndexOf(r.models, func(m models.ModelConfig) bool { return m.ID == id })
	if !ok {
		return -1
	}
	return index
}

func (r *modelRegistry) checkEditableLocked(index int, op string) error {
	if !r.inBounds(index) {
		r.log.WithFields(logrus.Fields{"index": index, "op": op}).Warn("model entry not found, ignoring")
		return fmt.Errorf("index %d: %w", index, ErrStaleEntry)
	}
	if m := r.models[index]; m.IsProtected() {
		r.log.WithFields(logrus.Fields{"index": index, "op": op, "provider": m.Provider}).
			Warn("attempted to change a built-in model, this operation is not allowed")
		return ErrProtectedEntry
	}
	return nil
}

func (r *modelRegistry) replaceLocked(index int, cfg models.ModelConfig) {
	existing := r.models[index]
	if cfg.ID != "" && cfg.ID != existing.ID {
		r.log.WithFields(logrus.Fields{"id": existing.ID, "requested": cfg.ID}).Warn("model id cannot change, keeping existing")
	}
	cfg.ID = existing.ID
	cfg.Enabled = existing.Enabled
	r.models[index] = cfg
	r.log.WithFields(logrus.Fields{"id": cfg.ID, "index": index}).Info("model updated")
}

func (r *modelRegistry) removeLocked(index int) {
	removed := r.models[index]
	r.models = append(r.models[:index:index], r.models[index+1:]...)
	r.log.WithFields(logrus.Fields{"id": removed.ID, "index": index}).Info("model removed")
}

// commitLocked saves the list and notifies listeners. It releases r.mu.
// The save happens under the lock so the store sees snapshots in mutation
// order; listeners run after it is released.
func (r *modelRegistry) commitLocked() {
	snapshot := models.CloneModels(r.models)
	fns := lo.Map(r.listeners, func(l listener, _ int) func() { return l.fn })
	r.store.Save(models.SettingsPatch{Models: &snapshot})
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
