package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func noPaths(string) bool { return false }

func TestGetIOTypeCutCopyAdd(t *testing.T) {
	tty := TTYState{StdinIsTTY: true, StdoutIsTTY: true}

	// Existing path arguments: file mode.
	exists := func(p string) bool { return p == "a.txt" }
	assert.Equal(t, ModeFile, GetIOType(ActionCopy, []string{"a.txt"}, tty, exists))

	// Non-path arguments: text mode.
	assert.Equal(t, ModeText, GetIOType(ActionCopy, []string{"hello"}, tty, noPaths))

	// No arguments, stdin piped: pipe mode.
	piped := TTYState{StdinIsTTY: false, StdoutIsTTY: true}
	assert.Equal(t, ModePipe, GetIOType(ActionCut, nil, piped, noPaths))

	// No arguments, interactive: file mode (spec §4.8 default for this group).
	assert.Equal(t, ModeFile, GetIOType(ActionAdd, nil, tty, noPaths))
}

func TestGetIOTypeOutputGroup(t *testing.T) {
	interactive := TTYState{StdinIsTTY: true, StdoutIsTTY: true}
	piped := TTYState{StdinIsTTY: true, StdoutIsTTY: false}

	assert.Equal(t, ModeText, GetIOType(ActionPaste, nil, interactive, noPaths))
	assert.Equal(t, ModePipe, GetIOType(ActionPaste, nil, piped, noPaths))
	assert.Equal(t, ModeText, GetIOType(ActionStatus, nil, interactive, noPaths))
	assert.Equal(t, ModePipe, GetIOType(ActionSearch, []string{"q"}, piped, noPaths))
}

func TestGetIOTypeMetadataGroup(t *testing.T) {
	interactive := TTYState{StdinIsTTY: true, StdoutIsTTY: true}
	pipedIn := TTYState{StdinIsTTY: false, StdoutIsTTY: true}

	assert.Equal(t, ModeText, GetIOType(ActionNote, []string{"hi"}, interactive, noPaths))
	assert.Equal(t, ModePipe, GetIOType(ActionIgnore, nil, pipedIn, noPaths))
}

func TestGetIOTypeScript(t *testing.T) {
	interactive := TTYState{StdinIsTTY: true, StdoutIsTTY: true}
	pipedIn := TTYState{StdinIsTTY: false, StdoutIsTTY: true}
	exists := func(p string) bool { return p == "hook.sh" }

	// A single existing path: set-from-file.
	assert.Equal(t, ModeFile, GetIOType(ActionScript, []string{"hook.sh"}, interactive, exists))
	// No items, stdin piped: set-from-pipe.
	assert.Equal(t, ModePipe, GetIOType(ActionScript, nil, pipedIn, noPaths))
	// No items, interactive: view.
	assert.Equal(t, ModeText, GetIOType(ActionScript, nil, interactive, noPaths))
	// Inline text, not an existing path: set-from-text.
	assert.Equal(t, ModeText, GetIOType(ActionScript, []string{"echo hi"}, interactive, noPaths))
	// Single empty string: clear, still text mode.
	assert.Equal(t, ModeText, GetIOType(ActionScript, []string{""}, interactive, noPaths))
}

func TestValidateIOModeRejectsMultiItemPipe(t *testing.T) {
	err := ValidateIOMode(ActionCopy, ModePipe, []string{"a", "b"})
	assert.Error(t, err)

	// Show is the documented exception.
	assert.NoError(t, ValidateIOMode(ActionShow, ModePipe, []string{"a", "b"}))

	assert.NoError(t, ValidateIOMode(ActionCopy, ModePipe, []string{"a"}))
}
