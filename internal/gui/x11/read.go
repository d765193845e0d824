package x11

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/mimereg"
)

// selectionTimeout bounds every round-trip to the selection owner; spec
// §4.7's "timeout talking to the windowing system" failure mode maps to this.
const selectionTimeout = 5 * time.Second

// get implements spec §4.7.1's "Reading" procedure.
func (s *session) get(preferredMime string) (clip.Content, error) {
	offered, err := s.queryTargets()
	if err != nil {
		return clip.Empty(), err
	}
	if len(offered) == 0 {
		return clip.Empty(), nil
	}

	best := mimereg.FindBest(offered, preferredMime)
	if best == "" {
		return clip.Empty(), nil
	}
	entry, ok := mimereg.Lookup(best)
	if !ok {
		return clip.Empty(), nil
	}

	data, err := s.convertAndRead(best)
	if err != nil {
		return clip.Empty(), err
	}
	if data == nil {
		return clip.Empty(), nil
	}

	return mimereg.Decode(entry, bytesReader(data))
}

// queryTargets asks the owner for its TARGETS list and returns the MIME
// names it recognizes from the registry (unknown atoms are dropped).
func (s *session) queryTargets() ([]string, error) {
	raw, err := s.convertAndReadRaw(s.atoms.atom("TARGETS"))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var names []string
	for i := 0; i+4 <= len(raw); i += 4 {
		atomID := xproto.Atom(leUint32(raw[i : i+4]))
		name := atomNameOf(s.conn, atomID)
		if name == "" {
			continue
		}
		if _, ok := mimereg.Lookup(name); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// convertAndRead resolves a MIME name to its atom and performs the
// convert-selection round trip, returning the raw property bytes.
func (s *session) convertAndRead(mime string) ([]byte, error) {
	target, err := internMime(s.conn, mime)
	if err != nil {
		return nil, err
	}
	return s.convertAndReadRaw(target)
}

// convertAndReadRaw sends ConvertSelection for target, waits for the
// SelectionNotify, and reads (and handles INCR for) the resulting property.
func (s *session) convertAndReadRaw(target xproto.Atom) ([]byte, error) {
	prop := s.atoms.atom("CLIPMAN_SELECTION")
	xproto.DeleteProperty(s.conn, s.win, prop)

	err := xproto.ConvertSelectionChecked(
		s.conn, s.win, s.atoms.atom("CLIPBOARD"), target, prop, xproto.TimeCurrentTime,
	).Check()
	if err != nil {
		return nil, fmt.Errorf("sending ConvertSelection: %w", err)
	}

	notify, err := s.waitForSelectionNotify()
	if err != nil {
		return nil, err
	}
	if notify.Property == 0 {
		// Refusal: SelectionNotify with property = None.
		return nil, nil
	}

	return s.readProperty(notify.Property)
}

func (s *session) waitForSelectionNotify() (*xproto.SelectionNotifyEvent, error) {
	type result struct {
		ev  *xproto.SelectionNotifyEvent
		err error
	}
	ch := make(chan result, 1)
	go func() {
		for {
			ev, err := s.conn.WaitForEvent()
			if err != nil {
				ch <- result{nil, err}
				return
			}
			if sn, ok := ev.(xproto.SelectionNotifyEvent); ok {
				ch <- result{&sn, nil}
				return
			}
		}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("waiting for SelectionNotify: %w", r.err)
		}
		return r.ev, nil
	case <-time.After(selectionTimeout):
		return nil, fmt.Errorf("timed out waiting for selection owner")
	}
}

// readProperty reads the named property off s.win, transparently following
// the INCR protocol when the property's type is INCR.
func (s *session) readProperty(prop xproto.Atom) ([]byte, error) {
	reply, err := xproto.GetProperty(s.conn, false, s.win, prop, xproto.GetPropertyTypeAny, 0, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("reading property: %w", err)
	}

	if reply.Type == s.atoms.atom("INCR") {
		return s.readIncr(prop)
	}

	data := append([]byte(nil), reply.Value...)
	xproto.DeleteProperty(s.conn, s.win, prop)
	return data, nil
}

// readIncr implements spec §4.7.1's INCR read loop: delete the size-hint
// property, then accumulate each PropertyNewValue chunk until a zero-sized
// one terminates the transfer.
func (s *session) readIncr(prop xproto.Atom) ([]byte, error) {
	xproto.DeleteProperty(s.conn, s.win, prop)

	var out []byte
	for {
		ev, err := s.waitForPropertyNewValue(prop)
		if err != nil {
			return nil, err
		}

		reply, err := xproto.GetProperty(s.conn, false, s.win, prop, xproto.GetPropertyTypeAny, 0, ^uint32(0)).Reply()
		if err != nil {
			return nil, fmt.Errorf("reading INCR chunk: %w", err)
		}
		_ = ev

		if len(reply.Value) == 0 {
			xproto.DeleteProperty(s.conn, s.win, prop)
			return out, nil
		}
		out = append(out, reply.Value...)
		xproto.DeleteProperty(s.conn, s.win, prop)
	}
}

func (s *session) waitForPropertyNewValue(prop xproto.Atom) (*xproto.PropertyNotifyEvent, error) {
	type result struct {
		ev  *xproto.PropertyNotifyEvent
		err error
	}
	ch := make(chan result, 1)
	go func() {
		for {
			ev, err := s.conn.WaitForEvent()
			if err != nil {
				ch <- result{nil, err}
				return
			}
			if pn, ok := ev.(xproto.PropertyNotifyEvent); ok {
				if pn.Atom == prop && pn.State == xproto.PropertyNewValue {
					ch <- result{&pn, nil}
					return
				}
			}
		}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("waiting for INCR chunk: %w", r.err)
		}
		return r.ev, nil
	case <-time.After(selectionTimeout):
		return nil, fmt.Errorf("timed out waiting for INCR chunk")
	}
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

type byteReader struct {
	data []byte
	pos  int
}

func bytesReader(b []byte) *byteReader { return &byteReader{data: b} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
