package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// session wraps one X connection plus the resources every operation needs: a
// window of our own to own properties and receive events on, and the atom
// table.
type session struct {
	conn   *xgb.Conn
	win    xproto.Window
	root   xproto.Window
	atoms  *atomTable
	screen *xproto.ScreenInfo
}

// dial opens a connection, creates an input-only-ish window for property
// storage and event delivery, and interns the fixed atom set.
func dial() (*session, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	win, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	mask := uint32(xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify)
	err = xproto.CreateWindowChecked(
		conn, screen.RootDepth, win, screen.Root,
		-10, -10, 1, 1, 0,
		xproto.WindowClassInputOnly, screen.RootVisual,
		xproto.CwEventMask, []uint32{mask},
	).Check()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating clipboard window: %w", err)
	}

	atoms, err := internAtoms(conn, atomNames)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &session{conn: conn, win: win, root: screen.Root, atoms: atoms, screen: screen}, nil
}

func (s *session) close() {
	xproto.DestroyWindow(s.conn, s.win)
	s.conn.Close()
}

// maxRequestBytes returns half the server's maximum request length in
// bytes, the INCR threshold spec §4.7.1 names.
func (s *session) maxRequestBytes() int {
	setup := xproto.Setup(s.conn)
	return int(setup.MaximumRequestLength) * 4 / 2
}
