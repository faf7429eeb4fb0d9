package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"modelshelf/internal/events"
	"modelshelf/internal/models"
)

func newTestLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

func warnings(hook *test.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e)
		}
	}
	return out
}

func openAIOnly() *models.GeneralSettings {
	return &models.GeneralSettings{
		ID: 1,
		Models: []models.ModelConfig{
			{ID: "1", Name: "OpenAI", Provider: models.ProviderOpenAI, BaseURL: "https://api.openai.com/v1", Enabled: true},
		},
	}
}

func mixedModels() *models.GeneralSettings {
	return &models.GeneralSettings{
		ID: 1,
		Models: []models.ModelConfig{
			{ID: "openai", Name: "OpenAI", Provider: models.ProviderOpenAI, BaseURL: "https://api.openai.com/v1", Enabled: true},
			{ID: "local", Name: "Local", BaseURL: "http://localhost:11434", Enabled: true},
			{ID: "anthropic", Name: "Anthropic", Provider: models.ProviderAnthropic, BaseURL: "https://api.anthropic.com/v1", Enabled: false},
			{ID: "groq", Name: "Groq", Provider: "Groq", BaseURL: "https://api.groq.com/openai/v1", APIKey: "gk", Enabled: false},
		},
	}
}

type emitted struct {
	name    string
	payload any
}

// captureEvents swaps the package emitter for the duration of the test.
func captureEvents(t *testing.T) func() []emitted {
	t.Helper()
	var mu sync.Mutex
	var got []emitted
	events.SetCustomEmitter(func(_ context.Context, name string, payload any) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, emitted{name: name, payload: payload})
	})
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	return func() []emitted {
		mu.Lock()
		defer mu.Unlock()
		return append([]emitted(nil), got...)
	}
}

func countNamed(list []emitted, name string) int {
	n := 0
	for _, e := range list {
		if e.name == name {
			n++
		}
	}
	return n
}
