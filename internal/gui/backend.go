// Package gui defines the windowing-system-facing clipboard interface (spec
// §4.7) and the noop fallback backend used when no GUI is reachable.
//
// Grounded on internal/clipboard/clipboard.go's Read()/Write() two-method
// Clipboard interface, generalized to a preferred-MIME get and a
// content-typed set.
package gui

import "github.com/berrythewa/clipman-daemon/internal/clip"

// Backend is the interface the action routines see; each windowing system
// gets its own implementation (x11, wayland, simple, osc52), selected once
// at startup by app.SelectBackend using SelectKind.
type Backend interface {
	// Get retrieves the GUI selection, requesting preferredMime if
	// non-empty (mimereg.ChooseBestType otherwise). Returns clip.Empty()
	// and a nil error when the backend is reachable but holds nothing;
	// returns an error only for operational failures (timeout, backend
	// unavailable).
	Get(preferredMime string) (clip.Content, error)

	// Set publishes content to the GUI selection. It may fork a paste
	// daemon that keeps running after Set returns (spec §4.7); ok is
	// false if the backend could not take ownership at all.
	Set(content clip.Content) (ok bool, err error)

	// SupportsCut is true for backends that can express a GNOME-style
	// cut marker (x-special/gnome-copied-files with the "cut" action
	// line); false for backends limited to plain copy semantics.
	SupportsCut() bool

	// Name identifies the backend for diagnostics (status/info output).
	Name() string

	// Close releases any backend resources (X11 display connection,
	// Wayland socket). Safe to call multiple times.
	Close() error
}

// Noop is the fallback backend used when no GUI is reachable: Get always
// returns Empty, Set always fails, matching spec §4.7's "backend
// unavailable" failure mode.
type Noop struct{}

func (Noop) Get(string) (clip.Content, error) { return clip.Empty(), nil }
func (Noop) Set(clip.Content) (bool, error)    { return false, nil }
func (Noop) SupportsCut() bool                 { return false }
func (Noop) Name() string                      { return "noop" }
func (Noop) Close() error                      { return nil }
