// Package progress implements the cooperative single-consumer progress
// spinner (spec §4.9): one background goroutine driven by a CAS-based
// atomic state machine, coordinated with the worker (main) goroutine.
//
// Grounded on the teacher's internal/clipboard/monitor.go background-
// goroutine-plus-stop-channel shape. Per spec §9's own redesign note ("model
// [the thread+condvar+atomic indicator] as a single-consumer channel from
// worker to indicator carrying 'poke' events, plus a shared AtomicEnum for
// the overall state; avoid locking during the SIGINT path"), this is built
// on a buffered wake channel rather than a raw sync.Cond: a condvar requires
// holding its mutex to wait on it, which is exactly the lock the SIGINT path
// must not touch, whereas a non-blocking channel send is always safe from a
// signal handler.
package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/berrythewa/clipman-daemon/pkg/format"
)

// State is the indicator's lifecycle state (spec §4.9).
type State int32

const (
	Done State = iota
	Active
	Cancel
)

// ClipboardState is the coarser invocation-phase state also tracked as an
// atomic, used for reporting (e.g. an Error phase lets the indicator render
// differently if a fatal error occurred while it was still spinning).
type ClipboardState int32

const (
	Setup ClipboardState = iota
	ActionPhase
	ErrorPhase
)

// frameCount is the number of spinner frames the indicator cycles through
// (spec §4.9: "advances frame index modulo 22"); the frames' actual glyphs
// are this project's concern only insofar as a fallback is needed, the rest
// of the rendering vocabulary belongs to the out-of-scope terminal layer.
const frameCount = 22

// IOKind selects the display format the indicator renders: a percentage for
// File-mode actions that can estimate total bytes, a running byte count for
// Pipe-mode streaming, or a bare spinner otherwise.
type IOKind int

const (
	DisplaySpinner IOKind = iota
	DisplayPercent
	DisplayBytes
)

// Successes mirrors clip's invocation-scoped atomic counters (spec §3): read
// with relaxed ordering from the indicator goroutine, written from the
// worker. Cosmetic only — a lagging read is acceptable (spec §5).
type Successes struct {
	Files       int64
	Directories int64
	Bytes       int64
	Clipboards  int64
}

func (s *Successes) AddFiles(n int64)       { atomic.AddInt64(&s.Files, n) }
func (s *Successes) AddDirectories(n int64) { atomic.AddInt64(&s.Directories, n) }
func (s *Successes) AddBytes(n int64)       { atomic.AddInt64(&s.Bytes, n) }
func (s *Successes) AddClipboards(n int64)  { atomic.AddInt64(&s.Clipboards, n) }

func (s *Successes) snapshot() (files, dirs, bytesDone, clipboards int64) {
	return atomic.LoadInt64(&s.Files), atomic.LoadInt64(&s.Directories),
		atomic.LoadInt64(&s.Bytes), atomic.LoadInt64(&s.Clipboards)
}

// Indicator drives the spinner goroutine. Zero value is not usable; build
// with New.
type Indicator struct {
	state atomic.Int32
	phase atomic.Int32
	wake  chan struct{} // buffered 1; a non-blocking "poke" signal
	done  chan struct{} // closed when the goroutine has exited

	out     io.Writer
	display IOKind
	total   int64 // expected total bytes, for DisplayPercent; 0 if unknown
	succ    *Successes
	enabled bool
	frame   int

	startOnce sync.Once
}

// New builds an Indicator writing to out, tracking succ, rendering as
// display (total is only consulted for DisplayPercent). enabled mirrors the
// spec §4.9 TTY/env disablement checks — when false, Start/Stop are no-ops
// so callers don't need to branch on it themselves.
func New(out io.Writer, succ *Successes, display IOKind, total int64, enabled bool) *Indicator {
	ind := &Indicator{
		out:     out,
		display: display,
		total:   total,
		succ:    succ,
		enabled: enabled,
		wake:    make(chan struct{}, 1),
	}
	ind.state.Store(int32(Done))
	return ind
}

// Start CAS-transitions Done->Active and spawns the spinner goroutine. A
// second call while already Active is a no-op.
func (ind *Indicator) Start() {
	if !ind.enabled {
		return
	}
	if !ind.state.CompareAndSwap(int32(Done), int32(Active)) {
		return
	}
	ind.startOnce.Do(func() {
		ind.done = make(chan struct{})
		go ind.loop()
	})
}

// Stop transitions the indicator out of Active. When changeCV is true (the
// normal worker-thread path), it CAS's Active->Done, pokes the wake
// channel, and waits for the goroutine to exit. When false (the SIGINT
// handler path), it CAS's Active->Cancel and returns immediately — no
// channel send, no lock — and reports whether the indicator was actually
// running, per spec §4.9.
func (ind *Indicator) Stop(changeCV bool) (wasActive bool) {
	if !changeCV {
		return ind.state.CompareAndSwap(int32(Active), int32(Cancel))
	}
	wasActive = ind.state.CompareAndSwap(int32(Active), int32(Done))
	ind.poke()
	if ind.done != nil {
		<-ind.done
	}
	return wasActive
}

func (ind *Indicator) poke() {
	select {
	case ind.wake <- struct{}{}:
	default:
	}
}

// SetClipboardState records the invocation's coarse phase.
func (ind *Indicator) SetClipboardState(s ClipboardState) { ind.phase.Store(int32(s)) }

// Cancelled reports whether the indicator observed a SIGINT cancellation —
// cmd/cb's run checks this once the action routine returns.
func (ind *Indicator) Cancelled() bool { return State(ind.state.Load()) == Cancel }

func (ind *Indicator) loop() {
	defer close(ind.done)
	timer := time.NewTimer(20 * time.Millisecond)
	defer timer.Stop()

	for State(ind.state.Load()) == Active {
		ind.render()
		ind.frame = (ind.frame + 1) % frameCount

		timer.Reset(20 * time.Millisecond)
		select {
		case <-timer.C:
		case <-ind.wake:
		}
	}
}

func (ind *Indicator) render() {
	files, dirs, bytesDone, clipboards := ind.succ.snapshot()
	spinnerChar := spinnerFrames[ind.frame%len(spinnerFrames)]

	var line string
	switch ind.display {
	case DisplayPercent:
		pct := 0.0
		if ind.total > 0 {
			pct = float64(bytesDone) / float64(ind.total) * 100
			if pct > 100 {
				pct = 100
			}
		}
		line = fmt.Sprintf("\r%s %.0f%% (%d files, %d dirs)", spinnerChar, pct, files, dirs)
	case DisplayBytes:
		line = fmt.Sprintf("\r%s %s copied", spinnerChar, format.FormatSize(bytesDone))
	default:
		line = fmt.Sprintf("\r%s working... (%d clipboards)", spinnerChar, clipboards)
	}
	fmt.Fprint(ind.out, line)
}

// spinnerFrames is a minimal braille-style spinner; the richer box-drawing,
// color theme, and spinner-frame vocabulary is owned by the out-of-scope
// terminal-rendering layer per spec §1.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
