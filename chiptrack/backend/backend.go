package backend

import (
	"github.com/valerio/go-chiptrack/chiptrack/debug"
	"github.com/valerio/go-chiptrack/chiptrack/input/action"
)

// Backend is a front end for the player (terminal UI, headless runner, ...).
// Backends are responsible for:
// - Presenting the latest player snapshot on their specific output
// - Translating platform-specific input events to Events
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config Config) error

	// Update presents snap and returns the input events collected since the last call.
	Update(snap *debug.Snapshot) ([]Event, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// Config holds configuration for backends
type Config struct {
	Title string
	// FirstEffectBar is the bar played by the first effect key.
	FirstEffectBar int
	Verbose        bool
}

// Event is an input action produced by a backend.
type Event struct {
	Action action.Action
	Value  int
}
