package clip

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNameRejectsForbiddenChars(t *testing.T) {
	for _, name := range []string{"a/b", "a\\b", "a:b", "a*b", "a?b", "a|b", `a"b`, "a<b", "a>b"} {
		assert.Error(t, ValidateName(name), "expected %q to be rejected", name)
	}
}

func TestValidateNameRejectsReservedWindowsNames(t *testing.T) {
	for _, name := range []string{"CON", "con", "PRN", "COM1", "LPT9", "nul.txt"} {
		assert.Error(t, ValidateName(name), "expected %q to be rejected", name)
	}
}

func TestValidateNameRejectsEmpty(t *testing.T) {
	assert.Error(t, ValidateName(""))
}

func TestValidateNameAcceptsOrdinaryNames(t *testing.T) {
	assert.NoError(t, ValidateName("work"))
	assert.NoError(t, ValidateName("_work"))
	assert.NoError(t, ValidateName("clipboard-1"))
}

func TestIsPersistentName(t *testing.T) {
	assert.True(t, IsPersistentName("_work"))
	assert.True(t, IsPersistentName("work_2"))
	assert.False(t, IsPersistentName("work"))
}

func TestIsPersistentNameAlwaysPersistEnv(t *testing.T) {
	t.Setenv("CLIPBOARD_ALWAYS_PERSIST", "1")
	assert.True(t, IsPersistentName("work"))
}

func TestTempRootPrefersCLIPBOARD_TMPDIR(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("CLIPBOARD_TMPDIR", tmp)
	t.Setenv("XDG_RUNTIME_DIR", "")

	root, err := TempRoot()
	require.NoError(t, err)
	assert.Equal(t, tmp+"/Clipboard", root)
}

func TestTempRootFallsBackToXDGRuntimeDir(t *testing.T) {
	t.Setenv("CLIPBOARD_TMPDIR", "")
	xdg := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", xdg)

	root, err := TempRoot()
	require.NoError(t, err)
	assert.Equal(t, xdg+"/Clipboard", root)
}

func TestPersistentRootPrefersCLIPBOARD_PERSISTDIR(t *testing.T) {
	p := t.TempDir()
	t.Setenv("CLIPBOARD_PERSISTDIR", p)
	t.Setenv("XDG_STATE_HOME", "")

	root, err := PersistentRoot()
	require.NoError(t, err)
	assert.Equal(t, p+"/.clipboard", root)
}

func TestClipboardRootCreatesParentRoot(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("CLIPBOARD_TMPDIR", tmp)

	root, err := ClipboardRoot("work")
	require.NoError(t, err)
	assert.Equal(t, tmp+"/Clipboard/work", root)

	info, err := os.Stat(tmp + "/Clipboard")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
