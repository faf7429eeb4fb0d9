package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"modelshelf/internal/events"
	"modelshelf/internal/models"
)

const (
	deleteModelTitle   = "Delete model"
	deleteModelMessage = "Are you sure you want to delete this model?"
)

// ModelListService projects the registry into list rows and handles row
// actions. Rows hold no state of their own; every change re-renders the whole
// list.
type ModelListService interface {
	Startup(ctx context.Context)
	Render() []models.ModelRow
	// ToggleModel sets the enabled flag and returns the checkbox state the
	// row should show (the previous state when the entry is gone).
	ToggleModel(id string, checked bool) bool
	AddModel() models.ModalView
	EditModel(id string) (models.ModalView, error)
	DeleteModel(id string) ([]models.ModelRow, error)
}

type modelListService struct {
	registry ModelRegistry
	modal    ModelModalService
	dialogs  Dialogs
	log      logrus.FieldLogger

	mu  sync.Mutex
	ctx context.Context
}

func NewModelListService(registry ModelRegistry, modal ModelModalService, dialogs Dialogs, log logrus.FieldLogger) ModelListService {
	s := &modelListService{
		registry: registry,
		modal:    modal,
		dialogs:  dialogs,
		log:      log.WithField("component", "model-list"),
		ctx:      context.Background(),
	}
	registry.OnChange(func() { s.Render() })
	return s
}

func (s *modelListService) Startup(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *modelListService) Render() []models.ModelRow {
	rows := RenderModelRows(s.registry.Models())
	events.Emit(s.context(), events.ModelsRendered, rows)
	return rows
}

// RenderModelRows builds rows for list. Edit/delete actions appear only on
// unprotected entries.
func RenderModelRows(list []models.ModelConfig) []models.ModelRow {
	return lo.Map(list, func(m models.ModelConfig, index int) models.ModelRow {
		row := models.ModelRow{
			Index:         index,
			ID:            m.ID,
			Name:          m.Name,
			ProviderLabel: m.ProviderLabel(),
			Enabled:       m.Enabled,
			CheckboxID:    fmt.Sprintf("model-%d", index),
			Actions:       []models.RowAction{},
		}
		if !m.IsProtected() {
			row.Actions = append(row.Actions,
				models.RowAction{Kind: models.RowActionEdit, Icon: "pen-line", AriaLabel: "Edit model"},
				models.RowAction{Kind: models.RowActionDelete, Icon: "trash-2", AriaLabel: "Delete model"},
			)
		}
		return row
	})
}

func (s *modelListService) ToggleModel(id string, checked bool) bool {
	if err := s.registry.SetEnabledByID(id, checked); err != nil {
		// The registry already logged it; put the checkbox back.
		s.Render()
		return !checked
	}
	return checked
}

func (s *modelListService) AddModel() models.ModalView {
	return s.modal.OpenForAdd()
}

func (s *modelListService) EditModel(id string) (models.ModalView, error) {
	return s.modal.OpenForEditByID(id)
}

// DeleteModel asks for confirmation and removes the entry. Protected and
// missing entries are left alone with a warning.
func (s *modelListService) DeleteModel(id string) ([]models.ModelRow, error) {
	index := s.registry.IndexOf(id)
	if index < 0 {
		s.log.WithField("id", id).Warn("delete requested for missing model")
		return s.Render(), nil
	}
	entry, err := s.registry.Get(index)
	if err != nil {
		return s.Render(), nil
	}
	if entry.IsProtected() {
		s.log.WithFields(logrus.Fields{"id": id, "provider": entry.Provider}).
			Warn("attempted to delete a built-in model, this operation is not allowed")
		return s.Render(), nil
	}

	ok, err := s.dialogs.Confirm(deleteModelTitle, deleteModelMessage)
	if err != nil {
		return s.Render(), fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return s.Render(), nil
	}

	if err := s.registry.RemoveByID(id); err != nil {
		return s.Render(), nil
	}
	return RenderModelRows(s.registry.Models()), nil
}

func (s *modelListService) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}
