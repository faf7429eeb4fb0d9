package models

// InterpreterForm mirrors the interpreter settings form fields.
type InterpreterForm struct {
	OpenAIAPIKey         string `json:"openaiApiKey"`
	AnthropicAPIKey      string `json:"anthropicApiKey"`
	InterpreterEnabled   bool   `json:"interpreterEnabled"`
	InterpreterAutoRun   bool   `json:"interpreterAutoRun"`
	DefaultPromptContext string `json:"defaultPromptContext"`
}

// Patch converts the form to a settings patch covering every form field.
func (f InterpreterForm) Patch() SettingsPatch {
	openai := f.OpenAIAPIKey
	anthropic := f.AnthropicAPIKey
	enabled := f.InterpreterEnabled
	autoRun := f.InterpreterAutoRun
	prompt := f.DefaultPromptContext
	return SettingsPatch{
		OpenAIAPIKey:         &openai,
		AnthropicAPIKey:      &anthropic,
		InterpreterEnabled:   &enabled,
		InterpreterAutoRun:   &autoRun,
		DefaultPromptContext: &prompt,
	}
}

// InterpreterFormView is the seeded form plus derived visual state.
type InterpreterFormView struct {
	Form                 InterpreterForm `json:"form"`
	PromptContextVisible bool            `json:"promptContextVisible"`
	InterpreterToggle    string          `json:"interpreterToggleClass"`
	AutoRunToggle        string          `json:"autoRunToggleClass"`
}
