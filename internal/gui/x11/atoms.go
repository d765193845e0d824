// Package x11 implements the CLIPBOARD selection protocol described in spec
// §4.7.1: a requestor side (Get) that negotiates TARGETS/INCR with whatever
// owns the selection, and an owner side (Set) that forks a paste daemon
// holding the selection until another application claims it.
//
// Grounded on spec §4.7.1's design-level protocol description, reshaped from
// the teacher's cgo Xlib calls in internal/platform/linux/clipboard_direct.go
// (same atom table, same TARGETS/INCR shape) into pure-Go xgb/xproto calls —
// idiomatic Go forbids the teacher's cgo here.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// atomNames lists every atom the protocol needs interned up front.
var atomNames = []string{
	"CLIPBOARD",
	"TARGETS",
	"MULTIPLE",
	"TIMESTAMP",
	"INCR",
	"ATOM_PAIR",
	"CLIPMAN_SELECTION", // property name used on our own windows for transfers
}

// atomTable resolves atom names to ids and back, interned once per
// connection.
type atomTable struct {
	byName map[string]xproto.Atom
	byID   map[xproto.Atom]string
}

func internAtoms(conn *xgb.Conn, names []string) (*atomTable, error) {
	t := &atomTable{byName: make(map[string]xproto.Atom), byID: make(map[xproto.Atom]string)}
	for _, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return nil, fmt.Errorf("interning atom %s: %w", name, err)
		}
		t.byName[name] = reply.Atom
		t.byID[reply.Atom] = name
	}
	return t, nil
}

func (t *atomTable) atom(name string) xproto.Atom { return t.byName[name] }

func (t *atomTable) name(a xproto.Atom) string {
	if n, ok := t.byID[a]; ok {
		return n
	}
	return ""
}

// internMime interns a MIME type name the registry knows about, on demand
// (these aren't in the fixed atomNames list since the set is open-ended).
func internMime(conn *xgb.Conn, mime string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(mime)), mime).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func atomNameOf(conn *xgb.Conn, a xproto.Atom) string {
	reply, err := xproto.GetAtomName(conn, a).Reply()
	if err != nil {
		return ""
	}
	return string(reply.Name)
}
