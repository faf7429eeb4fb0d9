package models

import "time"

const DefaultPromptContext = "You are a helpful assistant. Please analyze the following content and provide a concise summary."

// GeneralSettings is the parent preference bag. Single-row table (ID=1).
type GeneralSettings struct {
	ID                   uint          `gorm:"primaryKey" json:"-"`
	OpenAIAPIKey         string        `gorm:"column:openai_api_key" json:"openaiApiKey"`
	AnthropicAPIKey      string        `json:"anthropicApiKey"`
	InterpreterEnabled   bool          `gorm:"not null;default:false" json:"interpreterEnabled"`
	InterpreterAutoRun   bool          `gorm:"not null;default:false" json:"interpreterAutoRun"`
	DefaultPromptContext string        `gorm:"type:text" json:"defaultPromptContext"`
	Models               []ModelConfig `gorm:"serializer:json;type:text" json:"models"`
	UpdatedAt            time.Time     `json:"-"`
}

func (GeneralSettings) TableName() string {
	return "general_settings"
}

// DefaultGeneralSettings returns the settings used before anything was saved.
func DefaultGeneralSettings() *GeneralSettings {
	return &GeneralSettings{
		ID:                   1,
		DefaultPromptContext: DefaultPromptContext,
		Models: []ModelConfig{
			{ID: "openai", Name: "OpenAI", Provider: ProviderOpenAI, BaseURL: "https://api.openai.com/v1", Enabled: true},
			{ID: "anthropic", Name: "Anthropic", Provider: ProviderAnthropic, BaseURL: "https://api.anthropic.com/v1", Enabled: true},
		},
	}
}

// PromptContext returns DefaultPromptContext, falling back to the built-in prompt.
func (s *GeneralSettings) PromptContext() string {
	if s.DefaultPromptContext == "" {
		return DefaultPromptContext
	}
	return s.DefaultPromptContext
}

// Clone returns a deep copy safe to hand out of a lock.
func (s *GeneralSettings) Clone() *GeneralSettings {
	if s == nil {
		return nil
	}
	out := *s
	out.Models = CloneModels(s.Models)
	return &out
}

// CloneModels copies a model sequence.
func CloneModels(in []ModelConfig) []ModelConfig {
	if in == nil {
		return nil
	}
	out := make([]ModelConfig, len(in))
	copy(out, in)
	return out
}

// SettingsPatch is a partial update of GeneralSettings; nil fields are left untouched.
type SettingsPatch struct {
	OpenAIAPIKey         *string        `json:"openaiApiKey,omitempty"`
	AnthropicAPIKey      *string        `json:"anthropicApiKey,omitempty"`
	InterpreterEnabled   *bool          `json:"interpreterEnabled,omitempty"`
	InterpreterAutoRun   *bool          `json:"interpreterAutoRun,omitempty"`
	DefaultPromptContext *string        `json:"defaultPromptContext,omitempty"`
	Models               *[]ModelConfig `json:"models,omitempty"`
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s *GeneralSettings) {
	if p.OpenAIAPIKey != nil {
		s.OpenAIAPIKey = *p.OpenAIAPIKey
	}
	if p.AnthropicAPIKey != nil {
		s.AnthropicAPIKey = *p.AnthropicAPIKey
	}
	if p.InterpreterEnabled != nil {
		s.InterpreterEnabled = *p.InterpreterEnabled
	}
	if p.InterpreterAutoRun != nil {
		s.InterpreterAutoRun = *p.InterpreterAutoRun
	}
	if p.DefaultPromptContext != nil {
		s.DefaultPromptContext = *p.DefaultPromptContext
	}
	if p.Models != nil {
		s.Models = CloneModels(*p.Models)
	}
}

// TouchesModels reports whether the patch replaces the model sequence.
func (p SettingsPatch) TouchesModels() bool {
	return p.Models != nil
}
