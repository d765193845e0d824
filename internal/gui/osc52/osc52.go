// Package osc52 implements the OSC-52 "remote clipboard" terminal bridge
// (spec §4.7.3): base64-encoded selection read/write over the host
// terminal's escape sequence channel, including kitty's chunked variant.
//
// Grounded on spec §4.7.3 directly; no teacher or pack file implements this
// protocol, so the wire-framing constants (ESC ] 52 ; c ; ... BEL/ST) are
// taken verbatim from the spec.
package osc52

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/termio"
)

const (
	esc = "\x1b"
	bel = "\x07"
	// kittyChunkSize is the maximum payload size, in base64 bytes, kitty's
	// terminal emulator will accept per OSC-52 escape sequence.
	kittyChunkSize = 4096
	// responseTimeout bounds how long Get waits for the terminal to answer
	// the selection query, matching spec §5's 5-second windowing-system
	// timeout budget.
	responseTimeout = 5 * time.Second
)

// Backend implements gui.Backend over the terminal's OSC-52 channel. It
// never round-trips paths content (spec §4.7.3: "never used for non-text
// content").
type Backend struct {
	io     termio.IO
	kitty  bool
	noop   bool // true when CLIPBOARD_NOREMOTE is set; Get/Set become no-ops
}

// New builds the OSC-52 backend. disabled should be the truthiness of
// CLIPBOARD_NOREMOTE (spec §4.7.3).
func New(io termio.IO, term string, disabled bool) *Backend {
	return &Backend{io: io, kitty: term == "xterm-kitty", noop: disabled}
}

func (b *Backend) Name() string      { return "osc52" }
func (b *Backend) SupportsCut() bool { return false }
func (b *Backend) Close() error      { return nil }

// Get queries the terminal for its current selection via OSC-52 and parses
// the reply. preferredMime is ignored: OSC-52 only ever carries plain text.
func (b *Backend) Get(_ string) (clip.Content, error) {
	if b.noop {
		return clip.Empty(), nil
	}

	var reply []byte
	err := termio.RawMode(b.io.In, func() error {
		if _, err := fmt.Fprint(b.io.Out, esc+"]52;c;?"+bel); err != nil {
			return err
		}
		r, err := readResponse(b.io.In, responseTimeout)
		reply = r
		return err
	})
	if err != nil {
		return clip.Empty(), nil // timeout/unsupported terminal: degrade to empty, not fatal
	}

	payload, ok := parseResponse(reply)
	if !ok || payload == "" {
		return clip.Empty(), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return clip.Empty(), nil
	}
	return clip.Content{Kind: clip.KindText, Text: decoded, Mime: "text/plain;charset=utf-8"}, nil
}

// Set publishes content to the terminal's selection via OSC-52. Non-text
// content is rejected (ok=false) per spec §4.7.3.
func (b *Backend) Set(content clip.Content) (bool, error) {
	if b.noop {
		return false, nil
	}
	if content.Kind != clip.KindText {
		return false, nil
	}

	// Clear first, matching the spec's "print clear, then the payload"
	// write sequence.
	if _, err := fmt.Fprint(b.io.Out, esc+"]52;c;"+bel); err != nil {
		return false, err
	}

	encoded := base64.StdEncoding.EncodeToString(content.Text)
	if !b.kitty {
		if _, err := fmt.Fprint(b.io.Out, esc+"]52;c;"+encoded+bel); err != nil {
			return false, err
		}
		return true, nil
	}

	for len(encoded) > 0 {
		n := kittyChunkSize
		if n > len(encoded) {
			n = len(encoded)
		}
		chunk := encoded[:n]
		encoded = encoded[n:]
		if _, err := fmt.Fprint(b.io.Out, esc+"]52;c;"+chunk+bel); err != nil {
			return false, err
		}
	}
	return true, nil
}

// readResponse reads from in until a BEL or ST terminator, or timeout
// elapses. It runs in a goroutine so a terminal that never answers can't
// hang the process past the deadline.
func readResponse(in io.Reader, timeout time.Duration) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		r := bufio.NewReader(in)
		var buf bytes.Buffer
		for {
			b, err := r.ReadByte()
			if err != nil {
				ch <- result{buf.Bytes(), err}
				return
			}
			buf.WriteByte(b)
			if b == 0x07 { // BEL
				ch <- result{buf.Bytes(), nil}
				return
			}
			if buf.Len() >= 2 && buf.Bytes()[buf.Len()-2] == 0x1b && b == '\\' { // ST: ESC \
				ch <- result{buf.Bytes(), nil}
				return
			}
		}
	}()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("timed out waiting for OSC-52 response")
	}
}

// parseResponse extracts the base64 payload from a terminal's
// "ESC ] 52 ; c ; <base64> BEL" (or ST) reply.
func parseResponse(reply []byte) (string, bool) {
	s := string(reply)
	idx := strings.Index(s, "]52;")
	if idx == -1 {
		return "", false
	}
	s = s[idx+len("]52;"):]
	parts := strings.SplitN(s, ";", 2)
	if len(parts) != 2 {
		return "", false
	}
	payload := parts[1]
	payload = strings.TrimSuffix(payload, bel)
	payload = strings.TrimSuffix(payload, esc+"\\")
	return payload, true
}

// DetectEnabled reports whether the OSC-52 backend should be considered at
// all: not disabled by CLIPBOARD_NOREMOTE and not running with stdout
// redirected away from a terminal (osc52 writes escape sequences that a
// non-terminal consumer would just see as garbage bytes).
func DetectEnabled(io termio.IO, noRemote bool) bool {
	if noRemote {
		return false
	}
	return io.IsTTYOut()
}

// Term reads the TERM environment variable, used to select kitty chunking.
func Term() string { return os.Getenv("TERM") }
