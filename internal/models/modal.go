package models

// ModalMode is the state of the model edit dialog.
type ModalMode string

const (
	ModalClosed ModalMode = "closed"
	ModalAdd    ModalMode = "add"
	ModalEdit   ModalMode = "edit"
)

// ModelForm holds the dialog's input fields.
type ModelForm struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	BaseURL  string `json:"baseUrl"`
	APIKey   string `json:"apiKey"`
}

// ModalView is what the frontend needs to draw the dialog.
type ModalView struct {
	Mode  ModalMode `json:"mode"`
	Title string    `json:"title"`
	Index int       `json:"index"`
	Form  ModelForm `json:"form"`
	Error string    `json:"error,omitempty"`
}

// Open reports whether the dialog is visible.
func (v ModalView) Open() bool {
	return v.Mode != ModalClosed
}
