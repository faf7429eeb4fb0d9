package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	ModelsRendered    = "settings:models:rendered"
	ModelModalChanged = "settings:model-modal"
	SettingsChanged   = "settings:changed"
	SettingsSaveError = "settings:save-failed"
)

// Emit publishes a payload to the frontend. It is a no-op until
// EnableRuntimeEmitter is called, so services stay usable outside a Wails
// context (tests, the CLI).
var Emit = func(ctx context.Context, name string, payload any) {}

// EnableRuntimeEmitter routes Emit through the Wails runtime.
func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, payload any) {
		if ctx == nil {
			return
		}
		runtime.EventsEmit(ctx, name, payload)
	}
}

// SetCustomEmitter replaces Emit; nil restores the no-op emitter.
func SetCustomEmitter(f func(ctx context.Context, name string, payload any)) {
	if f == nil {
		Emit = func(context.Context, string, any) {}
		return
	}
	Emit = f
}
