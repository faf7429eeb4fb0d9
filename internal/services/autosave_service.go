package services

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"

	"modelshelf/internal/models"
)

// AutoSaveService writes the interpreter form through the settings store.
// Text input is coalesced into one save per quiet period; toggle changes
// save at once.
type AutoSaveService interface {
	Startup(ctx context.Context)
	// Initialize loads the settings and returns the seeded form.
	Initialize() (models.InterpreterFormView, error)
	// Input records the form after a keystroke and (re)starts the quiet period.
	Input(form models.InterpreterForm)
	// ToggleChanged saves immediately and returns the recomputed view.
	ToggleChanged(form models.InterpreterForm) models.InterpreterFormView
	// Flush saves a pending debounced form now.
	Flush()
}

type autoSaveService struct {
	store     SettingsStore
	log       logrus.FieldLogger
	debounced func(f func())

	mu      sync.Mutex
	ctx     context.Context
	latest  models.InterpreterForm
	pending bool
}

func NewAutoSaveService(store SettingsStore, quietPeriod time.Duration, log logrus.FieldLogger) AutoSaveService {
	return &autoSaveService{
		store:     store,
		log:       log.WithField("component", "autosave"),
		debounced: debounce.New(quietPeriod),
		ctx:       context.Background(),
	}
}

func (s *autoSaveService) Startup(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *autoSaveService) Initialize() (models.InterpreterFormView, error) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	settings, err := s.store.Load(ctx)
	if err != nil {
		return models.InterpreterFormView{}, err
	}
	form := models.InterpreterForm{
		OpenAIAPIKey:         settings.OpenAIAPIKey,
		AnthropicAPIKey:      settings.AnthropicAPIKey,
		InterpreterEnabled:   settings.InterpreterEnabled,
		InterpreterAutoRun:   settings.InterpreterAutoRun,
		DefaultPromptContext: settings.PromptContext(),
	}

	s.mu.Lock()
	s.latest = form
	s.pending = false
	s.mu.Unlock()
	return formView(form), nil
}

func (s *autoSaveService) Input(form models.InterpreterForm) {
	s.mu.Lock()
	s.latest = form
	s.pending = true
	s.mu.Unlock()
	s.debounced(s.fire)
}

func (s *autoSaveService) ToggleChanged(form models.InterpreterForm) models.InterpreterFormView {
	s.mu.Lock()
	s.latest = form
	// The immediate save carries every field, so a queued debounced save
	// would only repeat it.
	s.pending = false
	s.mu.Unlock()

	s.store.Save(form.Patch())
	s.log.WithFields(logrus.Fields{
		"interpreterEnabled": form.InterpreterEnabled,
		"interpreterAutoRun": form.InterpreterAutoRun,
	}).Debug("toggle saved")
	return formView(form)
}

func (s *autoSaveService) Flush() {
	s.fire()
}

func (s *autoSaveService) fire() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	form := s.latest
	s.pending = false
	s.mu.Unlock()

	s.store.Save(form.Patch())
	s.log.Debug("interpreter settings autosaved")
}

// formView derives the visual state: the prompt-context panel is shown only
// while the interpreter is enabled.
func formView(form models.InterpreterForm) models.InterpreterFormView {
	return models.InterpreterFormView{
		Form:                 form,
		PromptContextVisible: form.InterpreterEnabled,
		InterpreterToggle:    ToggleClass(form.InterpreterEnabled),
		AutoRunToggle:        ToggleClass(form.InterpreterAutoRun),
	}
}
