package actions

import (
	"fmt"
	"os"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// scriptExecMode is the permission metadata/script is written with so
// RunScriptHook, which skips a script without an execute bit, runs it,
// matching the original
// cb script action's chmod-after-write behavior (SPEC_FULL.md §4.11).
const scriptExecMode = 0755

// Script implements the text-mode shapes of the `script` verb (SPEC_FULL.md
// §4.11, grounded on original_source/src/cb/src/actions/script.cpp): no
// items prints the current script, one empty-string item clears it, any
// other items are joined with spaces and written as the new script body.
func Script(inv *app.Invocation, items []string) error {
	switch len(items) {
	case 0:
		return scriptView(inv)
	case 1:
		if items[0] == "" {
			return scriptClear(inv)
		}
		return writeScript(inv, []byte(items[0]))
	default:
		return writeScript(inv, []byte(joinSpace(items)))
	}
}

// ScriptFile sets the script from items[0]'s file content; more than one
// item is a user error (the original accepts exactly one file argument).
func ScriptFile(inv *app.Invocation, items []string) error {
	if len(items) != 1 {
		return app.NewUserError("script accepts exactly one file")
	}
	data, err := os.ReadFile(items[0])
	if err != nil {
		return app.WrapFatal(app.KindUserInput, "reading script source", err)
	}
	return writeScript(inv, data)
}

// ScriptPipe sets the script from stdin, read to EOF.
func ScriptPipe(inv *app.Invocation, items []string) error {
	data, err := readAllStdin(inv)
	if err != nil {
		return app.WrapFatal(app.KindInternal, "reading stdin", err)
	}
	return writeScript(inv, data)
}

func scriptView(inv *app.Invocation) error {
	path := clip.ScriptFile(inv.Clipboard.MetadataDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(inv.TTY.Out, "no script set")
			return nil
		}
		return app.WrapFatal(app.KindInternal, "reading script", err)
	}
	inv.TTY.Out.Write(data)
	fmt.Fprintln(inv.TTY.Out)
	return nil
}

func scriptClear(inv *app.Invocation) error {
	path := clip.ScriptFile(inv.Clipboard.MetadataDir)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return app.WrapFatal(app.KindInternal, "clearing script", err)
	}
	return nil
}

func writeScript(inv *app.Invocation, data []byte) error {
	path := clip.ScriptFile(inv.Clipboard.MetadataDir)
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	if err := os.Chmod(path, scriptExecMode); err != nil {
		return app.WrapFatal(app.KindInternal, "marking script executable", err)
	}
	return nil
}
