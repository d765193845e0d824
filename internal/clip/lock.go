package clip

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LockFileName is the metadata file whose presence marks a clipboard as
// locked by some process.
const LockFileName = "lock"

// Lock is a cross-process advisory lock at clipboard granularity, backed by
// metadata/lock holding the owning PID as decimal ASCII (spec §4.3).
type Lock struct {
	path        string
	acquiredPID int
	reentrant   bool // true if we found our own PID already in the file
}

const pollInterval = 250 * time.Millisecond

// Acquire takes the lock for metadataDir, blocking (by polling, no hard
// timeout) until it can. A lock file holding the PID of a process in our own
// process group is treated as re-entrant — acquired without waiting, so a
// pipeline like "cb copy | cb paste" doesn't deadlock a process against
// itself.
func Acquire(metadataDir string) (*Lock, error) {
	path := filepath.Join(metadataDir, LockFileName)
	self := os.Getpid()

	for {
		if err := writeLockFile(path, self); err == nil {
			return &Lock{path: path, acquiredPID: self}, nil
		} else if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lock file: %w", err)
		}

		owner, err := readLockPID(path)
		if err != nil {
			// Garbage or unreadable lock file: treat as stale, reclaim it.
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				return nil, fmt.Errorf("reclaiming unreadable lock: %w", rmErr)
			}
			continue
		}

		if inSameProcessGroup(owner) {
			return &Lock{path: path, acquiredPID: self, reentrant: true}, nil
		}

		if !processAlive(owner) {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				return nil, fmt.Errorf("reclaiming dead owner's lock: %w", rmErr)
			}
			continue
		}

		time.Sleep(pollInterval)
	}
}

// Release removes the lock file, unless this Lock was acquired re-entrantly
// (someone else in our process group still legitimately owns it).
func (l *Lock) Release() error {
	if l == nil || l.reentrant {
		return nil
	}
	err := os.Remove(l.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func writeLockFile(path string, pid int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strconv.Itoa(pid))
	return err
}

func readLockPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("garbage lock file contents: %w", err)
	}
	return pid, nil
}
