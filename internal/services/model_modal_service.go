package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"modelshelf/internal/events"
	"modelshelf/internal/models"
)

const (
	addModelTitle  = "Add model"
	editModelTitle = "Edit model"

	requiredFieldsTitle   = "Missing fields"
	requiredFieldsMessage = "Model name and Base URL are required."
)

// ModalActions are the commit and dismiss handlers bound to one opening of
// the dialog. Every open replaces them.
type ModalActions struct {
	Confirm func(cfg models.ModelConfig) error
	Cancel  func()
}

// ModelModalService drives the single reusable add/edit dialog:
// Closed -> OpenForAdd | OpenForEdit(index) -> Closed.
type ModelModalService interface {
	Startup(ctx context.Context)
	OpenForAdd() models.ModalView
	OpenForEdit(index int) (models.ModalView, error)
	OpenForEditByID(id string) (models.ModalView, error)
	Confirm(form models.ModelForm) (models.ModalView, error)
	Cancel() models.ModalView
	State() models.ModalView
}

type modelModalService struct {
	registry ModelRegistry
	dialogs  Dialogs
	log      logrus.FieldLogger
	ctx      context.Context

	mu      sync.Mutex
	view    models.ModalView
	draft   models.ModelConfig
	actions ModalActions
}

func NewModelModalService(registry ModelRegistry, dialogs Dialogs, log logrus.FieldLogger) ModelModalService {
	return &modelModalService{
		registry: registry,
		dialogs:  dialogs,
		log:      log.WithField("component", "model-modal"),
		ctx:      context.Background(),
		view:     closedView(),
	}
}

func (s *modelModalService) Startup(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

// OpenForAdd opens the dialog on a blank draft with a fresh ID.
func (s *modelModalService) OpenForAdd() models.ModalView {
	draft := models.ModelConfig{
		ID:      uuid.NewString(),
		Enabled: true,
	}
	return s.open(models.ModalAdd, addModelTitle, -1, draft, ModalActions{
		Confirm: func(cfg models.ModelConfig) error {
			s.registry.Append(cfg)
			return nil
		},
	})
}

// OpenForEdit opens the dialog on the entry at index. Protected and missing
// entries leave the dialog closed.
func (s *modelModalService) OpenForEdit(index int) (models.ModalView, error) {
	entry, err := s.registry.Get(index)
	if err != nil {
		s.log.WithField("index", index).Warn("edit requested for missing model")
		return s.State(), err
	}
	return s.openEdit(index, entry)
}

func (s *modelModalService) OpenForEditByID(id string) (models.ModalView, error) {
	index := s.registry.IndexOf(id)
	if index < 0 {
		s.log.WithField("id", id).Warn("edit requested for missing model")
		return s.State(), fmt.Errorf("model %s: %w", id, ErrStaleEntry)
	}
	entry, err := s.registry.Get(index)
	if err != nil {
		return s.State(), err
	}
	return s.openEdit(index, entry)
}

func (s *modelModalService) openEdit(index int, entry models.ModelConfig) (models.ModalView, error) {
	if entry.IsProtected() {
		s.log.WithFields(logrus.Fields{"index": index, "provider": entry.Provider}).
			Warn("attempted to edit a built-in model, this operation is not allowed")
		return s.State(), ErrProtectedEntry
	}
	id := entry.ID
	return s.open(models.ModalEdit, editModelTitle, index, entry, ModalActions{
		Confirm: func(cfg models.ModelConfig) error {
			return s.registry.ReplaceByID(id, cfg)
		},
	}), nil
}

func (s *modelModalService) open(mode models.ModalMode, title string, index int, draft models.ModelConfig, actions ModalActions) models.ModalView {
	s.mu.Lock()
	s.draft = draft
	s.actions = actions
	s.view = models.ModalView{
		Mode:  mode,
		Title: title,
		Index: index,
		Form: models.ModelForm{
			Name:     draft.Name,
			Provider: draft.Provider,
			BaseURL:  draft.BaseURL,
			APIKey:   draft.APIKey,
		},
	}
	view := s.view
	ctx := s.ctx
	s.mu.Unlock()

	events.Emit(ctx, events.ModelModalChanged, view)
	return view
}

// Confirm validates form and commits it through the action bound at open
// time. Validation failures keep the dialog open.
func (s *modelModalService) Confirm(form models.ModelForm) (models.ModalView, error) {
	s.mu.Lock()
	ctx := s.ctx
	if !s.view.Open() {
		view := s.view
		s.mu.Unlock()
		return view, ErrModalClosed
	}

	form.Name = strings.TrimSpace(form.Name)
	form.BaseURL = strings.TrimSpace(form.BaseURL)
	form.Provider = strings.TrimSpace(form.Provider)

	if verr := validateModelForm(form); verr != nil {
		s.view.Form = form
		s.view.Error = requiredFieldsMessage
		view := s.view
		s.mu.Unlock()

		s.dialogs.Alert(requiredFieldsTitle, requiredFieldsMessage)
		events.Emit(ctx, events.ModelModalChanged, view)
		return view, verr
	}

	cfg := models.ModelConfig{
		ID:       s.draft.ID,
		Name:     form.Name,
		Provider: form.Provider,
		BaseURL:  form.BaseURL,
		APIKey:   form.APIKey,
		Enabled:  s.draft.Enabled,
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	commit := s.actions.Confirm
	s.closeLocked()
	view := s.view
	s.mu.Unlock()

	var err error
	if commit != nil {
		err = commit(cfg)
	}
	events.Emit(ctx, events.ModelModalChanged, view)
	if err != nil {
		// The entry changed under the dialog; nothing to retry against.
		s.log.WithError(err).WithField("id", cfg.ID).Warn("model commit dropped")
		return view, err
	}
	return view, nil
}

// Cancel closes the dialog without touching the registry.
func (s *modelModalService) Cancel() models.ModalView {
	s.mu.Lock()
	cancel := s.actions.Cancel
	s.closeLocked()
	view := s.view
	ctx := s.ctx
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	events.Emit(ctx, events.ModelModalChanged, view)
	return view
}

func (s *modelModalService) State() models.ModalView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *modelModalService) closeLocked() {
	s.view = closedView()
	s.draft = models.ModelConfig{}
	s.actions = ModalActions{}
}

func closedView() models.ModalView {
	return models.ModalView{Mode: models.ModalClosed, Index: -1}
}

// validateModelForm expects trimmed fields, so whitespace-only values count
// as missing and stored values never carry surrounding spaces.
func validateModelForm(form models.ModelForm) *ValidationError {
	var missing []string
	if form.Name == "" {
		missing = append(missing, "name")
	}
	if form.BaseURL == "" {
		missing = append(missing, "baseUrl")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
