package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectKindPrefersWaylandOverX11(t *testing.T) {
	env := Environment{WaylandDisplay: ":wayland-0", X11Display: ":0"}
	assert.Equal(t, KindWayland, SelectKind(env))
}

func TestSelectKindX11WhenOnlyDisplaySet(t *testing.T) {
	env := Environment{X11Display: ":0"}
	assert.Equal(t, KindX11, SelectKind(env))
}

func TestSelectKindSimpleOnDarwin(t *testing.T) {
	env := Environment{GOOS: "darwin"}
	assert.Equal(t, KindSimple, SelectKind(env))
}

func TestSelectKindOSC52OverSSHWithoutDisplay(t *testing.T) {
	env := Environment{GOOS: "linux", SSHConnection: "10.0.0.1 22 10.0.0.2 2222"}
	assert.Equal(t, KindOSC52, SelectKind(env))
}

func TestSelectKindNoRemoteSuppressesOSC52(t *testing.T) {
	env := Environment{GOOS: "linux", SSHConnection: "x", NoRemote: true}
	assert.Equal(t, KindNoop, SelectKind(env))
}

func TestSelectKindNoopWhenNothingMatches(t *testing.T) {
	env := Environment{GOOS: "linux"}
	assert.Equal(t, KindNoop, SelectKind(env))
}
