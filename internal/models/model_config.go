package models

const (
	ProviderOpenAI    = "OpenAI"
	ProviderAnthropic = "Anthropic"

	// CustomProviderLabel is shown for entries without a provider.
	CustomProviderLabel = "Custom"
)

// ModelConfig is one configured model/provider entry.
type ModelConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider,omitempty"`
	BaseURL  string `json:"baseUrl"`
	APIKey   string `json:"apiKey,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// IsProtected reports whether the entry is a built-in provider that can only be toggled.
func (m ModelConfig) IsProtected() bool {
	return m.Provider == ProviderOpenAI || m.Provider == ProviderAnthropic
}

// ProviderLabel returns the provider for display.
func (m ModelConfig) ProviderLabel() string {
	if m.Provider == "" {
		return CustomProviderLabel
	}
	return m.Provider
}
