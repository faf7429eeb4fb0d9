package models

// ModelRow is one rendered row of the model list.
type ModelRow struct {
	Index         int         `json:"index"`
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	ProviderLabel string      `json:"providerLabel"`
	Enabled       bool        `json:"enabled"`
	CheckboxID    string      `json:"checkboxId"`
	Actions       []RowAction `json:"actions"`
}

// RowAction is an edit/delete control on a row. Icon is a lucide icon name.
type RowAction struct {
	Kind      string `json:"kind"`
	Icon      string `json:"icon"`
	AriaLabel string `json:"ariaLabel"`
}

const (
	RowActionEdit   = "edit"
	RowActionDelete = "delete"
)
