// Package simple wraps github.com/atotto/clipboard, the thin cross-platform
// shim spec §4.7 treats as sufficient for macOS's pasteboard and Win32's
// clipboard (as opposed to the X11/Wayland protocols this repo implements
// directly).
//
// Grounded on the teacher's go.mod listing atotto/clipboard as its GUI read
// /write backend.
package simple

import (
	"github.com/atotto/clipboard"
	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// Backend adapts atotto/clipboard to gui.Backend. It only ever carries
// plain text: the spec treats this shim as text-only, deferring path/cut
// semantics to the protocol-level X11/Wayland backends.
type Backend struct{}

// New returns a simple text-only backend, or an error if the platform
// clipboard API is unreachable (e.g. headless CI without pbcopy/a display).
func New() (*Backend, error) {
	if _, err := clipboard.ReadAll(); err != nil {
		return nil, err
	}
	return &Backend{}, nil
}

func (b *Backend) Name() string        { return "simple" }
func (b *Backend) SupportsCut() bool   { return false }
func (b *Backend) Close() error        { return nil }

// Get ignores preferredMime: the underlying API exposes only plain text.
func (b *Backend) Get(_ string) (clip.Content, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return clip.Empty(), err
	}
	if text == "" {
		return clip.Empty(), nil
	}
	return clip.Content{Kind: clip.KindText, Text: []byte(text), Mime: "text/plain;charset=utf-8"}, nil
}

// Set only handles text content; paths content is rejected (ok=false) since
// the platform shim has no path/uri-list negotiation of its own.
func (b *Backend) Set(content clip.Content) (bool, error) {
	if content.Kind != clip.KindText {
		return false, nil
	}
	if err := clipboard.WriteAll(string(content.Text)); err != nil {
		return false, err
	}
	return true, nil
}
