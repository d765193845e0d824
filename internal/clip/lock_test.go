package clip

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, LockFileName))

	require.NoError(t, l.Release())
	_, err = os.Stat(filepath.Join(dir, LockFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestAcquireReentrantInSameProcessGroup(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir)
	require.NoError(t, err)
	defer first.Release()

	// A second Acquire call from the same process is, by construction, the
	// same process group as the lock's owner: it must not block.
	second, err := Acquire(dir)
	require.NoError(t, err)
	assert.True(t, second.reentrant)

	// The reentrant holder releasing must not remove the real owner's lock.
	require.NoError(t, second.Release())
	assert.FileExists(t, filepath.Join(dir, LockFileName))
}

func TestAcquireReclaimsStaleLockFromDeadProcess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)

	// A PID that cannot belong to this process or its group and is not
	// alive: reusing pid 1 would be a live process on most systems, so pick
	// a value unlikely to be assigned (beyond a typical pid_max).
	deadPID := 999999
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(deadPID)), 0644))

	l, err := Acquire(dir)
	require.NoError(t, err)
	defer l.Release()

	got, err := readLockPID(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), got)
}

func TestAcquireReclaimsGarbageLockFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0644))

	l, err := Acquire(dir)
	require.NoError(t, err)
	defer l.Release()

	got, err := readLockPID(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), got)
}
