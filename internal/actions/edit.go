package actions

import (
	"os"
	"os/exec"

	"github.com/berrythewa/clipman-daemon/internal/app"
)

// fallbackEditors is tried in order when neither the config file's editor
// nor any of CLIPBOARD_EDITOR, EDITOR, or VISUAL is set.
var fallbackEditors = []string{"nano", "vim", "vi"}

// Edit launches an interactive editor on the current entry's raw-data file,
// refusing when the entry holds files instead of text (spec §4.10 "Edit").
func Edit(inv *app.Invocation, items []string) error {
	holdsRaw, err := inv.Clipboard.HoldsRawData()
	if err != nil {
		return err
	}
	if !holdsRaw {
		return app.NewUserError("current entry holds files, not raw text")
	}

	editor := inv.Config.Editor
	if editor == "" {
		editor, err = resolveEditor()
		if err != nil {
			return err
		}
	}

	path := inv.Clipboard.RawDataPath()
	cmd := exec.Command(editor, path)
	cmd.Stdin = inv.TTY.In
	cmd.Stdout = inv.TTY.Out
	cmd.Stderr = inv.TTY.Err
	if err := cmd.Run(); err != nil {
		return app.WrapFatal(app.KindInternal, "running editor", err)
	}
	return applyIgnoreToEntry(inv)
}

func resolveEditor() (string, error) {
	for _, env := range []string{"CLIPBOARD_EDITOR", "EDITOR", "VISUAL"} {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	for _, candidate := range fallbackEditors {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", app.NewUserError("no editor found: set CLIPBOARD_EDITOR, EDITOR, or VISUAL")
}
