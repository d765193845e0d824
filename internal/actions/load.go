package actions

import (
	"os"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/ignore"
)

// Load copies the active clipboard's current entry into each named
// destination clipboard's current entry, refusing a self-load and applying
// the destination's own ignore regexes to the result (spec §4.10 "Load").
func Load(inv *app.Invocation, items []string) error {
	if len(items) == 0 {
		return app.NewUserError("load requires at least one destination clipboard")
	}

	srcDir := inv.Clipboard.CurrentEntryDir()
	children, err := os.ReadDir(srcDir)
	if err != nil {
		return app.WrapFatal(app.KindInternal, "reading source entry", err)
	}

	for _, name := range items {
		if name == inv.Clipboard.Name {
			inv.Failed = append(inv.Failed, failedItem(name, app.NewUserError("cannot load a clipboard into itself")))
			continue
		}
		if err := loadInto(inv, name, srcDir, children); err != nil {
			inv.Failed = append(inv.Failed, failedItem(name, err))
		}
	}
	return nil
}

func loadInto(inv *app.Invocation, name, srcDir string, children []os.DirEntry) error {
	dest, err := clip.Open(name, nil)
	if err != nil {
		return err
	}
	defer dest.Close()

	filt, err := ignore.Load(dest.MetadataDir)
	if err != nil {
		return err
	}

	destDir, err := dest.MakeNewEntry()
	if err != nil {
		return err
	}

	for _, c := range children {
		if filt.MatchesFilename(c.Name()) {
			continue
		}
		inv.Engine.CopyItem(srcDir+string(os.PathSeparator)+c.Name(), destDir, dest.MetadataDir, clip.ActionCopy)
	}
	return nil
}
