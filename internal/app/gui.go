package app

import (
	"fmt"

	"github.com/berrythewa/clipman-daemon/internal/gui"
	"github.com/berrythewa/clipman-daemon/internal/gui/osc52"
	"github.com/berrythewa/clipman-daemon/internal/gui/simple"
	"github.com/berrythewa/clipman-daemon/internal/gui/wayland"
	"github.com/berrythewa/clipman-daemon/internal/gui/x11"
	"github.com/berrythewa/clipman-daemon/internal/termio"
	"github.com/berrythewa/clipman-daemon/pkg/utils"
)

// SelectBackend picks and constructs the GUI backend per spec §4.7/§9's
// "small plugin table" redesign note: the choice of which backend to try
// is made by internal/gui.SelectKind from the display environment, but the
// actual construction happens here since internal/gui can't import its own
// platform subpackages without a cycle.
//
// If CLIPBOARD_NOGUI is set, the noop backend is always returned. The X11
// and Wayland constructors do not connect and cannot fail; a connection
// failure shows up later from Get/Set, where callers debug-log it and carry
// on whatever CLIPBOARD_REQUIRE* says. CLIPBOARD_REQUIREX11 and
// CLIPBOARD_REQUIREWAYLAND make selection fail only when no backend kind is
// detected at all. A failing simple constructor is a debug-logged
// downgrade to noop.
func SelectBackend(io termio.IO, logDebug func(string, ...any)) (gui.Backend, error) {
	if utils.EnvTruthy("CLIPBOARD_NOGUI") {
		return gui.Noop{}, nil
	}

	env := gui.EnvironmentFromOS()
	kind := gui.SelectKind(env)

	requireX11 := utils.EnvTruthy("CLIPBOARD_REQUIREX11")
	requireWayland := utils.EnvTruthy("CLIPBOARD_REQUIREWAYLAND")

	switch kind {
	case gui.KindWayland:
		b := wayland.New()
		return b, nil
	case gui.KindX11:
		b := x11.New()
		return b, nil
	case gui.KindSimple:
		b, err := simple.New()
		if err != nil {
			logDebug("simple GUI backend unavailable: %v", err)
			return gui.Noop{}, nil
		}
		return b, nil
	case gui.KindOSC52:
		if env.NoRemote {
			return gui.Noop{}, nil
		}
		return osc52.New(io, osc52.Term(), false), nil
	default:
		if requireX11 {
			return nil, fmt.Errorf("CLIPBOARD_REQUIREX11 set but no X11 display is reachable")
		}
		if requireWayland {
			return nil, fmt.Errorf("CLIPBOARD_REQUIREWAYLAND set but no Wayland display is reachable")
		}
		return gui.Noop{}, nil
	}
}
