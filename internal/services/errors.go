package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStaleEntry is returned when a captured index or id no longer
	// addresses an entry in the model list.
	ErrStaleEntry = errors.New("model entry not found")
	// ErrProtectedEntry is returned when a built-in provider entry would be
	// edited or removed.
	ErrProtectedEntry = errors.New("built-in model entries cannot be edited or deleted")
	ErrNotLoaded      = errors.New("settings have not been loaded")
	ErrModalClosed    = errors.New("model dialog is not open")
)

// ValidationError reports required fields missing on commit.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields missing: %s", strings.Join(e.Fields, ", "))
}
