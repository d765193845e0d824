package actions

import (
	"fmt"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/config"
)

// Status prints a short health summary, one field per line: clipboard name, current entry
// number, whether it holds text or files, and whether a GUI backend is
// wired in (spec §4.10 "Status is a diagnostic output").
func Status(inv *app.Invocation, items []string) error {
	syncFromGUI(inv) // sync-in allowed, result intentionally unused: diagnostics never write

	holdsRaw, _ := inv.Clipboard.HoldsRawData()
	kind := "empty"
	if holdsRaw {
		kind = "text"
	} else if holds, _ := inv.Clipboard.HoldsFiles(); holds {
		kind = "files"
	}

	guiName := "none"
	if inv.GUI != nil {
		guiName = inv.GUI.Name()
	}

	fmt.Fprintf(inv.TTY.Out, "clipboard: %s\nentry: %d\ncontent: %s\ngui: %s\n",
		inv.Clipboard.Name, inv.Clipboard.CurrentEntry(), kind, guiName)
	return nil
}

// Info prints the clipboard's storage layout (root directory, entry count,
// whether it's persistent, the active ignore pattern count) plus the
// operator's effective settings: the original cb's "config" diagnostic
// (original_source/src/cb/src/actions/config.cpp) is folded in here rather
// than kept as a separate action, since both surfaces exist to answer
// "what is this invocation actually configured to do" (SPEC_FULL.md §4.11).
func Info(inv *app.Invocation, items []string) error {
	fmt.Fprintf(inv.TTY.Out, "root: %s\npersistent: %t\nentries: %d\nignore patterns: %d\n",
		inv.Clipboard.Root, inv.Clipboard.Persistent,
		len(inv.Clipboard.Index.Entries()), len(inv.Ignore.Patterns()))

	editor := inv.Config.Editor
	if editor == "" {
		editor = "(none)"
	}
	runner := inv.Config.ScriptRunner
	if runner == "" {
		runner = config.DefaultScriptRunner()
	}
	fmt.Fprintf(inv.TTY.Out, "editor: %s\nscript runner: %s\nmaximum history size: %d\ngui: %t\nprogress: %t\nsilent: %t\n",
		editor, runner, inv.Config.MaximumHistorySize, !inv.Config.NoGui, !inv.Config.NoProgress, inv.Config.Silent)
	return nil
}

// Show prints the current entry's content: raw text to stdout, or the
// names of its files one per line. When the GUI backend offers non-empty
// content, that content is printed instead of the stored entry.
func Show(inv *app.Invocation, items []string) error {
	content, _ := syncFromGUI(inv)
	if !content.IsEmpty() {
		switch content.Kind {
		case clip.KindText:
			inv.TTY.Out.Write(content.Text)
			fmt.Fprintln(inv.TTY.Out)
		default:
			for _, p := range content.Paths {
				fmt.Fprintln(inv.TTY.Out, p)
			}
		}
		return nil
	}
	return showStored(inv)
}

func showStored(inv *app.Invocation) error {
	holdsRaw, err := inv.Clipboard.HoldsRawData()
	if err != nil {
		return err
	}
	if holdsRaw {
		data, err := readFileIfExists(inv.Clipboard.RawDataPath())
		if err != nil {
			return err
		}
		inv.TTY.Out.Write(data)
		fmt.Fprintln(inv.TTY.Out)
		return nil
	}
	entries, err := readDirNames(inv.Clipboard.CurrentEntryDir())
	if err != nil {
		return err
	}
	for _, name := range entries {
		fmt.Fprintln(inv.TTY.Out, name)
	}
	return nil
}
