//go:build windows

package clip

import (
	"os"

	"golang.org/x/sys/windows"
)

// processAlive opens the process with a minimal access right and waits on it
// for an instant; a signaled handle (or a failed open) means it's gone.
// Windows has no process-group concept analogous to POSIX, so
// inSameProcessGroup below only recognizes our own PID.
func processAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	event, err := windows.WaitForSingleObject(h, 0)
	if err != nil {
		return false
	}
	return event == uint32(windows.WAIT_TIMEOUT)
}

func inSameProcessGroup(pid int) bool {
	return pid == os.Getpid()
}
