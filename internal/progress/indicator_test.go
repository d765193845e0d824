package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartStopTransitionsToDone(t *testing.T) {
	var buf bytes.Buffer
	succ := &Successes{}
	ind := New(&buf, succ, DisplaySpinner, 0, true)

	ind.Start()
	// Let the goroutine render at least once before stopping.
	time.Sleep(30 * time.Millisecond)
	wasActive := ind.Stop(true)

	assert.True(t, wasActive)
	assert.False(t, ind.Cancelled())
	assert.NotEmpty(t, buf.String())
}

func TestStopWithoutStartIsANoOp(t *testing.T) {
	ind := New(&bytes.Buffer{}, &Successes{}, DisplaySpinner, 0, true)
	wasActive := ind.Stop(true)
	assert.False(t, wasActive)
}

func TestDisabledIndicatorNeverStarts(t *testing.T) {
	var buf bytes.Buffer
	ind := New(&buf, &Successes{}, DisplaySpinner, 0, false)
	ind.Start()
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, buf.String())
	assert.False(t, ind.Stop(true))
}

func TestSIGINTPathCancelsWithoutBlocking(t *testing.T) {
	ind := New(&bytes.Buffer{}, &Successes{}, DisplaySpinner, 0, true)
	ind.Start()
	time.Sleep(10 * time.Millisecond)

	wasActive := ind.Stop(false)
	assert.True(t, wasActive)
	assert.True(t, ind.Cancelled())
}

func TestSuccessesCounters(t *testing.T) {
	s := &Successes{}
	s.AddFiles(3)
	s.AddDirectories(1)
	s.AddBytes(1024)
	s.AddClipboards(2)

	files, dirs, bytesDone, clipboards := s.snapshot()
	assert.Equal(t, int64(3), files)
	assert.Equal(t, int64(1), dirs)
	assert.Equal(t, int64(1024), bytesDone)
	assert.Equal(t, int64(2), clipboards)
}
