package actions

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// Swap exchanges the current clipboard's data/ directory with the named
// target clipboard's with three renames through a `.swap-<uuid>` staging
// directory beside the current data directory (spec §4.10 "Swap"); between
// the renames each side's data directory is briefly absent.
func Swap(inv *app.Invocation, items []string) error {
	if len(items) != 1 {
		return app.NewUserError("swap requires exactly one target clipboard name")
	}
	targetName := items[0]
	if targetName == inv.Clipboard.Name {
		return app.NewUserError("cannot swap a clipboard with itself")
	}

	target, err := clip.Open(targetName, nil)
	if err != nil {
		return err
	}
	defer target.Close()

	staging := filepath.Join(filepath.Dir(inv.Clipboard.DataDir), ".swap-"+uuid.NewString())
	if err := os.Rename(inv.Clipboard.DataDir, staging); err != nil {
		return app.WrapFatal(app.KindInternal, "staging current clipboard data", err)
	}
	if err := os.Rename(target.DataDir, inv.Clipboard.DataDir); err != nil {
		os.Rename(staging, inv.Clipboard.DataDir) // best-effort unwind
		return app.WrapFatal(app.KindInternal, "moving target clipboard data", err)
	}
	if err := os.Rename(staging, target.DataDir); err != nil {
		return app.WrapFatal(app.KindInternal, "finishing swap", err)
	}

	idx, err := clip.LoadEntryIndex(inv.Clipboard.DataDir)
	if err != nil {
		return err
	}
	inv.Clipboard.Index = idx
	return nil
}
