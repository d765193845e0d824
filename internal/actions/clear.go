package actions

import (
	"os"
	"strings"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/termio"
)

// Clear branches on --all: the dispatch table routes both ModeText and
// ModePipe here, since --all is a flag, not an I/O-mode decision.
func Clear(inv *app.Invocation, items []string) error {
	if inv.Flags.All {
		return ClearAll(inv, items)
	}
	return ClearMetadata(inv, items)
}

// ClearMetadata deletes the current clipboard's originals/notes/ignore
// metadata files, leaving stored entries untouched (spec §4.10 "Clear
// ... without --all").
func ClearMetadata(inv *app.Invocation, items []string) error {
	meta := inv.Clipboard.MetadataDir
	for _, path := range []string{
		clip.Originals(meta),
		clip.Notes(meta),
		clip.IgnoreFile(meta),
	} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return app.WrapFatal(app.KindInternal, "clearing metadata", err)
		}
	}
	inv.Ignore = nil
	return nil
}

// ClearAll recursively deletes every clipboard directory under both storage
// roots, counting how many had held data (spec §4.10 "Clear --all").
// When stdin, stdout and stderr are all terminals and --no-confirmation is
// not given, it asks first and deletes nothing unless the answer starts
// with "y".
func ClearAll(inv *app.Invocation, items []string) error {
	if p := termio.NewPrompter(inv.TTY); !inv.Flags.NoConfirmation && p.IsTTY() {
		answer, err := p.Ask("clear every clipboard? [y/N] ")
		if err != nil || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			return nil
		}
	}
	roots, err := clip.AllRoots()
	if err != nil {
		return app.WrapFatal(app.KindInternal, "resolving clipboard roots", err)
	}

	cleared := 0
	for _, root := range roots {
		children, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return app.WrapFatal(app.KindInternal, "listing clipboard root", err)
		}
		for _, child := range children {
			dir := root + string(os.PathSeparator) + child.Name()
			if hadData, _ := dirHoldsAnything(dir); hadData {
				cleared++
			}
			if err := os.RemoveAll(dir); err != nil {
				inv.Failed = append(inv.Failed, failedItem(dir, err))
			}
		}
	}
	if inv.Succ != nil {
		inv.Succ.AddClipboards(int64(cleared))
	}
	return nil
}

func dirHoldsAnything(dir string) (bool, error) {
	data, err := os.ReadDir(dir + string(os.PathSeparator) + "data")
	if err != nil {
		return false, nil
	}
	return len(data) > 0, nil
}
