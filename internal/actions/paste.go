package actions

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/copyengine"
	"github.com/berrythewa/clipman-daemon/internal/termio"
)

// PasteFile copies the current entry's files into the current working
// directory via the collision-aware copy engine, then removes the recorded
// originals if the entry was populated by a cut (spec §4.5 "Paste",
// §4.10 "Paste (file)").
func PasteFile(inv *app.Invocation, items []string) error {
	holdsRaw, err := inv.Clipboard.HoldsRawData()
	if err != nil {
		return err
	}
	if holdsRaw {
		return app.NewUserError("current entry holds text, not files")
	}

	if err := inv.RunScriptHook("pre", "paste"); err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return app.WrapFatal(app.KindInternal, "resolving working directory", err)
	}

	entryDir := inv.Clipboard.CurrentEntryDir()
	var prompter copyengine.Prompter = termio.NewPrompter(inv.TTY)
	if inv.Flags.NoConfirmation {
		prompter = nil
	}
	inv.Policy = inv.Engine.Paste(entryDir, cwd, inv.Policy, prompter)
	inv.RecordFailed()

	if err := inv.Engine.RemoveOriginals(clip.Originals(inv.Clipboard.MetadataDir)); err != nil {
		return err
	}

	return inv.RunScriptHook("post", "paste")
}

// PastePipe streams the current entry to stdout (spec §4.10 "Paste
// (pipe)"): its raw text, or, for an entry holding files, the contents of
// every regular file under the entry directory, concatenated in walk order.
// A missing entry directory writes nothing.
func PastePipe(inv *app.Invocation, items []string) error {
	holdsRaw, err := inv.Clipboard.HoldsRawData()
	if err != nil {
		return err
	}
	if !holdsRaw {
		return filepath.WalkDir(inv.Clipboard.CurrentEntryDir(), func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				if os.IsNotExist(err) {
					err = nil
				}
				return err
			}
			data, err := os.ReadFile(path)
			if err == nil {
				_, err = inv.TTY.Out.Write(data)
			}
			return err
		})
	}
	data, err := os.ReadFile(inv.Clipboard.RawDataPath())
	if err != nil {
		return app.WrapFatal(app.KindInternal, "reading clipboard content", err)
	}
	if _, err := inv.TTY.Out.Write(data); err != nil {
		return app.WrapFatal(app.KindInternal, "writing to stdout", err)
	}
	return nil
}
