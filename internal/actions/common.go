// Package actions implements the 19 action routines (spec §4.10): the
// per-verb operations the dispatcher's (action, io_mode) table resolves to.
//
// Grounded on spec §4.10; the one-file-per-verb-family layout follows
// pedrohgmacedo-pb's cmd/copy.go / cmd/paste.go convention more closely
// than the teacher's single grouped internal/cli/cmd/clip.go, per
// SPEC_FULL.md §4's enrichment note.
package actions

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/copyengine"
	"github.com/berrythewa/clipman-daemon/internal/mimereg"
)

// Routine is the function shape every (action, io-mode) table entry in
// cmd/cb's routineFor table is wired to (spec §4.8 "performAction is a
// dispatch table from (action, io_mode) to routine").
type Routine func(inv *app.Invocation, items []string) error

// publishToGUI encodes content with the best-supported registry MIME and
// hands it to the GUI backend, swallowing (but debug-logging) failures per
// spec §7 kind 5: GUI errors degrade rather than abort the action.
func publishToGUI(inv *app.Invocation, content clip.Content) {
	if inv.GUI == nil || content.IsEmpty() {
		return
	}
	ok, err := inv.GUI.Set(content)
	if err != nil {
		inv.Debugf("GUI publish failed: %v", err)
		return
	}
	if !ok {
		inv.Debugf("GUI backend declined to publish content")
	}
}

// syncFromGUI fetches the GUI backend's current selection (the --mime type
// when given, otherwise the backend's best type) and applies the ignore
// filter to it (spec §4.4 "from GUI ingest"). It returns the content and
// writes nothing into the clipboard's entries. Used by show and status.
func syncFromGUI(inv *app.Invocation) (clip.Content, error) {
	if inv.GUI == nil {
		return clip.Empty(), nil
	}
	mime := mimereg.ChooseBestType
	if inv.Flags.Mime != "" {
		mime = inv.Flags.Mime
	}
	content, err := inv.GUI.Get(mime)
	if err != nil {
		inv.Debugf("GUI sync-in failed: %v", err)
		return clip.Empty(), nil
	}
	content = applyIngestIgnore(inv, content)
	return content, nil
}

// applyIngestIgnore drops GUI-ingested paths/text matching the ignore
// filter (spec §4.4 "candidate paths and texts matching any regex are
// dropped / the ingest becomes a no-op").
func applyIngestIgnore(inv *app.Invocation, content clip.Content) clip.Content {
	if inv.Ignore == nil || inv.Ignore.Empty() {
		return content
	}
	switch content.Kind {
	case clip.KindPaths:
		content.Paths = inv.Ignore.FilterPaths(content.Paths)
		if len(content.Paths) == 0 {
			return clip.Empty()
		}
	case clip.KindText:
		if inv.Ignore.MatchesPath(string(content.Text)) {
			return clip.Empty()
		}
	}
	return content
}

// applyIgnoreToEntry runs the post-write ignore pass (spec §4.4
// "post-write") over the current entry: text content gets its matches
// stripped, file content gets matching entries pruned.
func applyIgnoreToEntry(inv *app.Invocation) error {
	if inv.Ignore == nil || inv.Ignore.Empty() {
		return nil
	}
	holdsRaw, err := inv.Clipboard.HoldsRawData()
	if err != nil {
		return err
	}
	if holdsRaw {
		data, err := os.ReadFile(inv.Clipboard.RawDataPath())
		if err != nil {
			return err
		}
		cleaned := inv.Ignore.ReplaceInText(data)
		return os.WriteFile(inv.Clipboard.RawDataPath(), cleaned, 0644)
	}
	_, err = inv.Ignore.PruneEntryDir(inv.Clipboard.CurrentEntryDir())
	return err
}

// preflightStorage implements spec §7 kind 6: compares the total size of
// items against the destination filesystem's free space, failing fatally
// before any IO if there isn't enough room.
func preflightStorage(items []string, destDir string) error {
	var total int64
	for _, item := range items {
		total += dirSize(item)
	}
	if total == 0 {
		return nil
	}
	free, err := freeSpace(destDir)
	if err != nil {
		return nil // can't determine free space: don't block on it
	}
	if uint64(total) > free {
		return app.WrapFatal(app.KindStorage, "not enough free space", fmt.Errorf("need %d bytes, have %d", total, free))
	}
	return nil
}

func dirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// readAllStdin reads stdin to EOF, used by the pipe-in cut/copy/add
// routines.
func readAllStdin(inv *app.Invocation) ([]byte, error) {
	return io.ReadAll(inv.TTY.In)
}

// pathExists reports whether path exists (an Lstat that succeeds), for
// routines that need an existence check.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// writeFileAtomic writes data to path via a sibling temp file plus rename,
// so a reader never observes a partially written rawdata.clipboard.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// readFileIfExists returns nil, nil for a missing file instead of an error,
// used when building on top of a rawdata.clipboard that may not exist yet.
func readFileIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// readDirNames lists the immediate child names of dir, or an empty slice
// if it doesn't exist.
func readDirNames(dir string) ([]string, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name())
	}
	return names, nil
}

// absPath resolves item to an absolute path for recording alongside the
// content published to the GUI backend.
func absPath(item string) (string, error) {
	return filepath.Abs(item)
}

// failedItem builds a copyengine.FailedItem for routines that record
// item-level failures outside the copy engine itself (regex removal,
// history, load, clear --all, import/export).
func failedItem(path string, err error) copyengine.FailedItem {
	return copyengine.FailedItem{Path: path, Err: err}
}
