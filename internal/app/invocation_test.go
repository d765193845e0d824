package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/config"
	"github.com/berrythewa/clipman-daemon/internal/copyengine"
	"github.com/berrythewa/clipman-daemon/internal/termio"
)

func devNull(t *testing.T) *os.File {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func newTestInvocation(t *testing.T, scriptBody string) *Invocation {
	t.Helper()
	metaDir := t.TempDir()
	cb := &clip.Clipboard{Name: "work", MetadataDir: metaDir}

	if scriptBody != "" {
		require.NoError(t, os.WriteFile(clip.ScriptFile(metaDir), []byte(scriptBody), 0755))
	}

	return &Invocation{
		Clipboard: cb,
		Config:    config.Config{ScriptRunner: "sh"},
		TTY:       termio.IO{Err: devNull(t)},
	}
}

func TestRunScriptHookMissingScriptIsNoop(t *testing.T) {
	inv := newTestInvocation(t, "")
	assert.NoError(t, inv.RunScriptHook("pre", "copy"))
}

func TestRunScriptHookPreFailureIsFatal(t *testing.T) {
	inv := newTestInvocation(t, "#!/bin/sh\nexit 1\n")
	err := inv.RunScriptHook("pre", "copy")
	require.Error(t, err)
	var coreErr *CoreError
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, KindUserInput, coreErr.Kind)
}

func TestRunScriptHookPostFailureIsWarningOnly(t *testing.T) {
	inv := newTestInvocation(t, "#!/bin/sh\nexit 1\n")
	assert.NoError(t, inv.RunScriptHook("post", "copy"))
}

func TestRunScriptHookSuccess(t *testing.T) {
	inv := newTestInvocation(t, "#!/bin/sh\nexit 0\n")
	assert.NoError(t, inv.RunScriptHook("pre", "copy"))
}

func TestRecordFailedDrainsEngine(t *testing.T) {
	inv := &Invocation{Engine: &copyengine.Engine{}}
	inv.Engine.Failed = []copyengine.FailedItem{{Path: "a", Err: assertErr("boom")}}

	assert.False(t, inv.HasFailures())
	inv.RecordFailed()

	assert.True(t, inv.HasFailures())
	require.Len(t, inv.Failed, 1)
	assert.Empty(t, inv.Engine.Failed)

	// A second routine call with no new failures must not re-append.
	inv.RecordFailed()
	assert.Len(t, inv.Failed, 1)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
