//go:build !windows

package clip

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// processAlive probes liveness with a signal-0 kill, the standard POSIX idiom:
// it delivers no signal but still fails with ESRCH if the process is gone.
func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	if err == nil {
		return true
	}
	// EPERM means the process exists but we can't signal it: still alive.
	return err == syscall.EPERM
}

// inSameProcessGroup reports whether pid shares our process group, the
// signal for "this is a pipeline sibling of our own invocation" (spec §4.3).
func inSameProcessGroup(pid int) bool {
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		return false
	}
	return pgid == unix.Getpgrp() || pid == os.Getpid()
}
