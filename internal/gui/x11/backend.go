package x11

import (
	"encoding/gob"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// daemonEnvVar, when set in a child's environment, tells main() (wired in
// cmd/cb) to skip straight to RunPasteDaemon instead of normal
// dispatch; daemonDataVar names the temp file holding the gob-encoded
// content to serve.
const (
	daemonEnvVar  = "CLIPMAN_X11_PASTE_DAEMON"
	daemonDataVar = "CLIPMAN_X11_PASTE_DATA"
)

// IsDaemonInvocation reports whether the current process was re-exec'd to
// become a paste daemon, so main() knows to call RunPasteDaemon instead of
// normal dispatch.
func IsDaemonInvocation() bool { return os.Getenv(daemonEnvVar) != "" }

// Backend adapts the session-level protocol to gui.Backend.
type Backend struct{}

// New always succeeds; connection failures surface per-call from Get/Set so
// a transient X server hiccup doesn't wedge backend selection.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string      { return "x11" }
func (b *Backend) SupportsCut() bool { return true }
func (b *Backend) Close() error      { return nil }

func (b *Backend) Get(preferredMime string) (clip.Content, error) {
	s, err := dial()
	if err != nil {
		return clip.Empty(), err
	}
	defer s.close()
	return s.get(preferredMime)
}

// Set forks a paste daemon (spec §4.7) that re-execs the running binary with
// daemonEnvVar set, waits for its SIGUSR1 readiness signal with a bounded
// timeout, and returns whether ownership was confirmed. The daemon keeps
// running detached from the parent after Set returns.
func (b *Backend) Set(content clip.Content) (bool, error) {
	tmp, err := os.CreateTemp("", "clipman-x11-*.gob")
	if err != nil {
		return false, err
	}
	defer tmp.Close()
	if err := gob.NewEncoder(tmp).Encode(content); err != nil {
		os.Remove(tmp.Name())
		return false, err
	}

	exe, err := os.Executable()
	if err != nil {
		os.Remove(tmp.Name())
		return false, err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1)
	defer signal.Stop(sigCh)

	env := append(os.Environ(),
		daemonEnvVar+"=1",
		daemonDataVar+"="+tmp.Name(),
		fmt.Sprintf("CLIPMAN_X11_PASTE_PPID=%d", os.Getpid()),
	)

	proc, err := os.StartProcess(exe, os.Args, &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys:   &syscall.SysProcAttr{Setsid: true},
	})
	if err != nil {
		os.Remove(tmp.Name())
		return false, err
	}

	select {
	case <-sigCh:
		return true, nil
	case <-time.After(5 * time.Second):
		proc.Kill()
		os.Remove(tmp.Name())
		return false, fmt.Errorf("paste daemon did not signal readiness")
	}
}

// RunPasteDaemon is the entry point a re-exec'd process lands in when
// daemonEnvVar is set (wired from cmd/cb's main before normal
// dispatch). It decodes the content from daemonDataVar, takes selection
// ownership, signals the parent named by CLIPMAN_X11_PASTE_PPID, and serves
// SelectionRequest events until it loses ownership.
func RunPasteDaemon() error {
	dataPath := os.Getenv(daemonDataVar)
	f, err := os.Open(dataPath)
	if err != nil {
		return err
	}
	var content clip.Content
	err = gob.NewDecoder(f).Decode(&content)
	f.Close()
	os.Remove(dataPath)
	if err != nil {
		return err
	}

	s, err := dial()
	if err != nil {
		return err
	}
	defer s.close()

	ready := make(chan error, 1)
	done := make(chan error, 1)
	go func() { done <- s.ownAndServe(content, ready) }()

	if err := <-ready; err != nil {
		return err
	}

	if ppid := os.Getenv("CLIPMAN_X11_PASTE_PPID"); ppid != "" {
		var pid int
		fmt.Sscanf(ppid, "%d", &pid)
		if p, err := os.FindProcess(pid); err == nil {
			p.Signal(syscall.SIGUSR1)
		}
	}

	// Block until serve() returns: ownership lost and every in-flight
	// INCR transfer drained (spec §4.7.1), at which point the daemon's
	// job is done and the process can exit.
	return <-done
}
