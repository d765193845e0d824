// invocation.go implements spec §9's redesign of the teacher's global
// mutable singletons (path, copying, successes, is_tty, flags) into one
// Invocation context value threaded through the dispatcher and every action
// routine. The indicator goroutine only ever sees the immutable
// *progress.Successes handle inside it, never the Invocation itself.
package app

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/config"
	"github.com/berrythewa/clipman-daemon/internal/copyengine"
	"github.com/berrythewa/clipman-daemon/internal/gui"
	"github.com/berrythewa/clipman-daemon/internal/ignore"
	"github.com/berrythewa/clipman-daemon/internal/progress"
	"github.com/berrythewa/clipman-daemon/internal/searchindex"
	"github.com/berrythewa/clipman-daemon/internal/termio"
)

// Invocation is the single context value a CLI run threads through the
// dispatcher and every action routine (spec §9 redesign note).
type Invocation struct {
	Flags  Flags
	TTY    termio.IO
	Config config.Config
	Logger *zap.Logger
	GUI    gui.Backend
	Index  *searchindex.Index

	Engine    *copyengine.Engine
	Policy    copyengine.CopyPolicy
	Indicator *progress.Indicator
	Succ      *progress.Successes

	Clipboard *clip.Clipboard
	Ignore    *ignore.Filter

	Failed []copyengine.FailedItem
	Silent bool
}

// Debugf logs to the ambient logger at debug level — the sink spec §7
// directs GUI-backend and lock-contention chatter to, never stdout/stderr.
func (inv *Invocation) Debugf(format string, args ...any) {
	if inv.Logger != nil {
		inv.Logger.Sugar().Debugf(format, args...)
	}
}

// OpenClipboard resolves name, acquires its lock, and loads its entry
// index and ignore filter, storing the result on the Invocation. Any
// previously open clipboard must be closed first by the caller.
func (inv *Invocation) OpenClipboard(name string, selectedEntry *uint64) error {
	cb, err := clip.Open(name, selectedEntry)
	if err != nil {
		return err
	}
	filt, err := ignore.Load(cb.MetadataDir)
	if err != nil {
		cb.Close()
		return err
	}
	inv.Clipboard = cb
	inv.Ignore = filt
	return nil
}

// Close releases the open clipboard's lock and the search index handle.
// Safe to call multiple times / on a zero Invocation.
func (inv *Invocation) Close() {
	if inv.Clipboard != nil {
		inv.Clipboard.Close()
		inv.Clipboard = nil
	}
	if inv.Index != nil {
		inv.Index.Close()
	}
}

// RecordFailed appends engine failures accumulated by a routine call onto
// the invocation-scoped failed-items list (spec §3 FailedItem), draining
// the engine's own list so repeated routine calls (e.g. multiple items)
// don't double-count.
func (inv *Invocation) RecordFailed() {
	if inv.Engine == nil {
		return
	}
	inv.Failed = append(inv.Failed, inv.Engine.Failed...)
	inv.Engine.Failed = nil
}

// HasFailures reports whether any item failed during this invocation —
// per spec §6, this alone is enough to make the exit code non-zero even
// without a fatal CoreError.
func (inv *Invocation) HasFailures() bool { return len(inv.Failed) > 0 }

// Report prints the bulk failed-items summary and success counts to
// stderr, honoring Silent (CLIPBOARD_SILENT or the config file's silent
// setting) (spec §7 kind 2: "item-level
// filesystem errors ... reported in bulk after the action").
func (inv *Invocation) Report() {
	if inv.Silent {
		return
	}
	for _, f := range inv.Failed {
		fmt.Fprintf(inv.TTY.Err, "failed: %s: %v\n", f.Path, f.Err)
	}
	if inv.Succ != nil {
		files, dirs, bytesDone, clipboards := inv.Succ.Files, inv.Succ.Directories, inv.Succ.Bytes, inv.Succ.Clipboards
		if files > 0 || dirs > 0 || bytesDone > 0 || clipboards > 0 {
			fmt.Fprintf(inv.TTY.Err, "%d files, %d directories, %d bytes, %d clipboards\n",
				files, dirs, bytesDone, clipboards)
		}
	}
}

// RunScriptHook invokes metadata/script before ("pre") or after ("post")
// an action that mutates clipboard storage, per SPEC_FULL.md §4.11. A
// missing script file, or on POSIX one without an execute bit, is a silent
// no-op. A non-zero
// pre-script exit is fatal; a non-zero post-script exit is a warning only.
func (inv *Invocation) RunScriptHook(phase, actionName string) error {
	if inv.Clipboard == nil {
		return nil
	}
	path := clip.ScriptFile(inv.Clipboard.MetadataDir)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0111 == 0 {
		return nil
	}

	runner := inv.Config.ScriptRunner
	if runner == "" {
		runner = config.DefaultScriptRunner()
	}

	cmd := scriptCommand(runner, path, phase, actionName, inv.Clipboard.Name)
	cmd.Stdout = inv.TTY.Err
	cmd.Stderr = inv.TTY.Err
	err = cmd.Run()
	if err == nil {
		return nil
	}
	if phase == "pre" {
		return WrapFatal(KindUserInput, "pre-action script failed", err)
	}
	inv.Debugf("post-action script failed: %v", err)
	fmt.Fprintf(inv.TTY.Err, "warning: post-action script failed: %v\n", err)
	return nil
}
