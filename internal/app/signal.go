package app

import (
	"os"
	"os/signal"
	"syscall"
)

// InstallSignalHandler wires SIGINT to the spec §4.9/§5 cancellation path:
// if the indicator was actively spinning, Stop(false) flips it to Cancel,
// and cmd/cb's run checks Indicator.Cancelled once the action routine
// returns and exits with 130, its deferred cleanup releasing the lock; if
// the indicator wasn't
// running at all, there's no cooperative point left to cancel at, so the
// handler releases the lock itself and terminates immediately, matching
// spec §4.9's "release lock and _exit" branch.
//
// Returns a function to deregister the handler once the invocation
// completes normally.
func (inv *Invocation) InstallSignalHandler() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT)
	stopped := make(chan struct{})

	go func() {
		select {
		case <-ch:
			wasActive := false
			if inv.Indicator != nil {
				wasActive = inv.Indicator.Stop(false)
			}
			if !wasActive {
				inv.Close()
				os.Exit(130) // 128 + SIGINT, conventional shell exit code
			}
			// wasActive: cmd/cb's run sees Cancelled() once the routine
			// returns and exits with 130; its deferred cleanup calls
			// inv.Close() and so releases the lock.
		case <-stopped:
		}
	}()

	return func() {
		close(stopped)
		signal.Stop(ch)
	}
}
