package app

import "os/exec"

// scriptCommand builds the metadata/script invocation per SPEC_FULL.md
// §4.11: runner (sh on POSIX, cmd /C on Windows) invokes the script with
// the phase ("pre" or "post"), the action name and the clipboard name as
// arguments.
func scriptCommand(runner, scriptPath, phase, actionName, clipboardName string) *exec.Cmd {
	if runner == "cmd" {
		return exec.Command(runner, "/C", scriptPath, phase, actionName, clipboardName)
	}
	return exec.Command(runner, scriptPath, phase, actionName, clipboardName)
}
