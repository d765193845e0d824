package x11

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/mimereg"
)

// ownAndServe implements spec §4.7.1's "Writing (daemon)" procedure: acquire
// a server timestamp, take ownership, and service SelectionRequest events
// until ownership is lost and every in-flight INCR transfer has drained.
// ready receives nil once ownership is confirmed, or the error that
// prevented it, so the forking parent can unblock its SIGUSR1 wait.
func (s *session) ownAndServe(content clip.Content, ready chan<- error) error {
	acquireTime, err := s.acquireTimestamp()
	if err != nil {
		ready <- err
		return err
	}

	clipboardAtom := s.atoms.atom("CLIPBOARD")
	err = xproto.SetSelectionOwnerChecked(s.conn, s.win, clipboardAtom, acquireTime).Check()
	if err != nil {
		ready <- fmt.Errorf("SetSelectionOwner: %w", err)
		return err
	}

	owner, err := xproto.GetSelectionOwner(s.conn, clipboardAtom).Reply()
	if err != nil || owner.Owner != s.win {
		e := fmt.Errorf("failed to verify selection ownership")
		ready <- e
		return e
	}
	ready <- nil

	w := &owner_{s: s, content: content, acquireTime: acquireTime, incr: map[xproto.Atom]*incrTransfer{}}
	return w.serve()
}

// acquireTimestamp performs the round-trip property change that yields a
// current server timestamp: change a property on our own window and read
// back the PropertyNotify's timestamp.
func (s *session) acquireTimestamp() (xproto.Timestamp, error) {
	prop := s.atoms.atom("CLIPMAN_SELECTION")
	err := xproto.ChangePropertyChecked(
		s.conn, xproto.PropModeReplace, s.win, prop, xproto.AtomString, 8, 0, nil,
	).Check()
	if err != nil {
		return 0, fmt.Errorf("timestamp round-trip: %w", err)
	}

	type result struct {
		ts  xproto.Timestamp
		err error
	}
	ch := make(chan result, 1)
	go func() {
		for {
			ev, err := s.conn.WaitForEvent()
			if err != nil {
				ch <- result{0, err}
				return
			}
			if pn, ok := ev.(xproto.PropertyNotifyEvent); ok && pn.Atom == prop {
				ch <- result{pn.Time, nil}
				return
			}
		}
	}()
	select {
	case r := <-ch:
		return r.ts, r.err
	case <-time.After(selectionTimeout):
		return 0, fmt.Errorf("timed out acquiring timestamp")
	}
}

// incrTransfer tracks one in-flight INCR chunked write to a requestor.
type incrTransfer struct {
	requestor xproto.Window
	prop      xproto.Atom
	remaining []byte
}

type owner_ struct {
	s           *session
	content     clip.Content
	acquireTime xproto.Timestamp
	incr        map[xproto.Atom]*incrTransfer // keyed by property atom; the transfer's requestor is checked on each PropertyNotify
}

// serve is the owner's event loop (spec §4.7.1 "Writing" bullet list).
func (o *owner_) serve() error {
	lost := false
	for {
		ev, err := o.s.conn.WaitForEvent()
		if err != nil {
			return err
		}
		switch e := ev.(type) {
		case xproto.SelectionClearEvent:
			lost = true
			if len(o.incr) == 0 {
				return nil
			}
		case xproto.SelectionRequestEvent:
			o.handleRequest(e)
		case xproto.PropertyNotifyEvent:
			if e.State == xproto.PropertyDelete {
				o.continueIncr(e.Window, e.Atom)
				if lost && len(o.incr) == 0 {
					return nil
				}
			}
		}
	}
}

func (o *owner_) handleRequest(req xproto.SelectionRequestEvent) {
	if !o.validRequest(req) {
		o.refuse(req)
		return
	}

	switch req.Target {
	case o.s.atoms.atom("TARGETS"):
		o.replyTargets(req)
	case o.s.atoms.atom("TIMESTAMP"):
		o.replyTimestamp(req)
	case o.s.atoms.atom("MULTIPLE"):
		o.replyMultiple(req)
	default:
		o.replyData(req)
	}
}

// validRequest implements the request-time validation bullet: owner window
// must be ours, selection must match, and time must be CurrentTime or no
// earlier than our acquisition time.
func (o *owner_) validRequest(req xproto.SelectionRequestEvent) bool {
	if req.Owner != o.s.win {
		return false
	}
	if req.Selection != o.s.atoms.atom("CLIPBOARD") {
		return false
	}
	if req.Time != xproto.TimeCurrentTime && req.Time < o.acquireTime {
		return false
	}
	return true
}

func (o *owner_) refuse(req xproto.SelectionRequestEvent) {
	o.notify(req, 0)
}

func (o *owner_) notify(req xproto.SelectionRequestEvent, property xproto.Atom) {
	ev := xproto.SelectionNotifyEvent{
		Time:      req.Time,
		Requestor: req.Requestor,
		Selection: req.Selection,
		Target:    req.Target,
		Property:  property,
	}
	xproto.SendEvent(o.s.conn, false, req.Requestor, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

func (o *owner_) replyTargets(req xproto.SelectionRequestEvent) {
	atoms := []xproto.Atom{
		o.s.atoms.atom("TARGETS"),
		o.s.atoms.atom("MULTIPLE"),
		o.s.atoms.atom("TIMESTAMP"),
	}
	for _, entry := range mimereg.Table() {
		if mimereg.Supports(entry, o.content) {
			a, err := internMime(o.s.conn, entry.Name)
			if err == nil {
				atoms = append(atoms, a)
			}
		}
	}
	buf := make([]byte, 4*len(atoms))
	for i, a := range atoms {
		putLeUint32(buf[i*4:], uint32(a))
	}
	xproto.ChangeProperty(o.s.conn, xproto.PropModeReplace, req.Requestor, req.Property, xproto.AtomAtom, 32, uint32(len(atoms)), buf)
	o.notify(req, req.Property)
}

func (o *owner_) replyTimestamp(req xproto.SelectionRequestEvent) {
	buf := make([]byte, 4)
	putLeUint32(buf, uint32(o.acquireTime))
	xproto.ChangeProperty(o.s.conn, xproto.PropModeReplace, req.Requestor, req.Property, xproto.AtomInteger, 32, 1, buf)
	o.notify(req, req.Property)
}

// replyMultiple implements the MULTIPLE bullet: read the ATOM_PAIR property
// off the requestor and recursively answer each (target, property) pair,
// writing None into the pair for any refused entry.
func (o *owner_) replyMultiple(req xproto.SelectionRequestEvent) {
	reply, err := xproto.GetProperty(o.s.conn, false, req.Requestor, req.Property, o.s.atoms.atom("ATOM_PAIR"), 0, ^uint32(0)).Reply()
	if err != nil {
		o.refuse(req)
		return
	}

	pairs := append([]byte(nil), reply.Value...)
	for i := 0; i+8 <= len(pairs); i += 8 {
		target := xproto.Atom(leUint32(pairs[i : i+4]))
		prop := xproto.Atom(leUint32(pairs[i+4 : i+8]))

		sub := xproto.SelectionRequestEvent{
			Time: req.Time, Owner: req.Owner, Requestor: req.Requestor,
			Selection: req.Selection, Target: target, Property: prop,
		}
		ok := o.replyOne(sub)
		if !ok {
			putLeUint32(pairs[i+4:i+8], 0)
		}
	}
	xproto.ChangeProperty(o.s.conn, xproto.PropModeReplace, req.Requestor, req.Property, o.s.atoms.atom("ATOM_PAIR"), 32, uint32(len(pairs)/4), pairs)
	o.notify(req, req.Property)
}

// replyOne answers a single sub-request of a MULTIPLE without sending its
// own SelectionNotify, returning whether it was satisfied.
func (o *owner_) replyOne(req xproto.SelectionRequestEvent) bool {
	switch req.Target {
	case o.s.atoms.atom("TIMESTAMP"):
		buf := make([]byte, 4)
		putLeUint32(buf, uint32(o.acquireTime))
		xproto.ChangeProperty(o.s.conn, xproto.PropModeReplace, req.Requestor, req.Property, xproto.AtomInteger, 32, 1, buf)
		return true
	default:
		return o.writeData(req)
	}
}

func (o *owner_) replyData(req xproto.SelectionRequestEvent) {
	if o.writeData(req) {
		o.notify(req, req.Property)
	} else {
		o.refuse(req)
	}
}

// writeData encodes content for the requested target and either writes it
// directly or starts an INCR transfer if it exceeds half the max request
// size (spec §4.7.1's "Any other target" bullet).
func (o *owner_) writeData(req xproto.SelectionRequestEvent) bool {
	name := atomNameOf(o.s.conn, req.Target)
	entry, ok := mimereg.Lookup(name)
	if !ok || !mimereg.Supports(entry, o.content) {
		return false
	}

	var buf bytes.Buffer
	encoded, err := mimereg.Encode(entry, o.content, &buf)
	if err != nil || !encoded {
		return false
	}
	data := buf.Bytes()

	if len(data) <= o.s.maxRequestBytes() {
		xproto.ChangeProperty(o.s.conn, xproto.PropModeReplace, req.Requestor, req.Property, req.Target, 8, uint32(len(data)), data)
		return true
	}

	// INCR: place the size hint, notify, then push chunks as the
	// requestor deletes the property.
	sizeBuf := make([]byte, 4)
	putLeUint32(sizeBuf, uint32(len(data)))
	xproto.ChangeProperty(o.s.conn, xproto.PropModeReplace, req.Requestor, req.Property, o.s.atoms.atom("INCR"), 32, 1, sizeBuf)
	o.incr[req.Property] = &incrTransfer{requestor: req.Requestor, prop: req.Property, remaining: data}
	return true
}

// continueIncr pushes the next chunk of an in-flight INCR transfer once the
// requestor signals it consumed the previous one by deleting the property.
func (o *owner_) continueIncr(requestor xproto.Window, prop xproto.Atom) {
	t, ok := o.incr[prop]
	if !ok || t.requestor != requestor {
		return
	}

	chunk := o.s.maxRequestBytes()
	if chunk > len(t.remaining) {
		chunk = len(t.remaining)
	}
	piece := t.remaining[:chunk]
	t.remaining = t.remaining[chunk:]

	xproto.ChangeProperty(o.s.conn, xproto.PropModeReplace, requestor, prop, xproto.AtomString, 8, uint32(len(piece)), piece)

	// A zero-length piece is the end-of-transfer marker; once sent, this
	// property is done regardless of whether remaining was already empty.
	if len(piece) == 0 {
		delete(o.incr, prop)
	}
}

func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
