package copyengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyItemFileRecordsOriginalOnCut(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	meta := t.TempDir()

	srcFile := filepath.Join(src, "a.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("hello"), 0644))

	e := New(false)
	e.CopyItem(srcFile, dest, meta, clip.ActionCut)

	assert.Empty(t, e.Failed)
	assert.Equal(t, 1, e.Successes.Files)

	got, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	lines, err := clip.ReadLines(clip.Originals(meta))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "a.txt")
}

func TestCopyItemDirRecursive(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	meta := t.TempDir()

	sub := filepath.Join(src, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "f1.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested", "f2.txt"), []byte("y"), 0644))

	e := New(false)
	e.CopyItem(sub, dest, meta, clip.ActionCopy)

	assert.Empty(t, e.Failed)
	assert.Equal(t, 2, e.Successes.Files)
	assert.Equal(t, 2, e.Successes.Directories) // "tree" and "nested"

	got, err := os.ReadFile(filepath.Join(dest, "tree", "nested", "f2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "y", string(got))

	lines, err := clip.ReadLines(clip.Originals(meta))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCopyItemMissingSourceFails(t *testing.T) {
	dest := t.TempDir()
	meta := t.TempDir()

	e := New(false)
	e.CopyItem(filepath.Join(dest, "nope"), dest, meta, clip.ActionCopy)

	require.Len(t, e.Failed, 1)
	assert.Equal(t, 0, e.Successes.Files)
}

type fakePrompt struct {
	tty     bool
	answers []string
	i       int
}

func (f *fakePrompt) IsTTY() bool { return f.tty }
func (f *fakePrompt) Ask(string) (string, error) {
	a := f.answers[f.i]
	f.i++
	return a, nil
}

func TestPasteNonTTYDefaultsToReplaceAll(t *testing.T) {
	entryDir := t.TempDir()
	cwd := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(entryDir, "f.txt"), []byte("new"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "f.txt"), []byte("old"), 0644))

	e := New(false)
	policy := e.Paste(entryDir, cwd, Unknown, &fakePrompt{tty: false})

	assert.Equal(t, ReplaceAll, policy)
	got, err := os.ReadFile(filepath.Join(cwd, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestPastePromptSkipAll(t *testing.T) {
	entryDir := t.TempDir()
	cwd := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(entryDir, "f.txt"), []byte("new"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "f.txt"), []byte("old"), 0644))

	e := New(false)
	policy := e.Paste(entryDir, cwd, Unknown, &fakePrompt{tty: true, answers: []string{"skip"}})

	assert.Equal(t, SkipAll, policy)
	got, err := os.ReadFile(filepath.Join(cwd, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}

func TestPasteSkipsTransparentlyWhenDestIsSameFile(t *testing.T) {
	cwd := t.TempDir()
	entryDir := t.TempDir()

	original := filepath.Join(cwd, "f.txt")
	require.NoError(t, os.WriteFile(original, []byte("data"), 0644))
	require.NoError(t, os.Link(original, filepath.Join(entryDir, "f.txt")))

	e := New(false)
	// No answers queued: a prompt call would panic on an empty slice index,
	// proving the same-file case never reaches the collision prompt.
	policy := e.Paste(entryDir, cwd, Unknown, &fakePrompt{tty: true})

	assert.Equal(t, Unknown, policy, "same-file skip must not consume the policy")
	assert.Empty(t, e.Failed)
	got, err := os.ReadFile(original)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestCopyFileNonEXDEVLinkErrorIsReportedNotMasked(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	// dest already exists as a non-empty directory: os.Link against it fails
	// with something other than EXDEV, and must not be swallowed by a
	// fallback safe-copy that reports success.
	destDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(destDir, "child"), []byte("y"), 0644))

	e := New(false)
	info, err := os.Lstat(src)
	require.NoError(t, err)

	err = e.copyFile(src, destDir, info)
	assert.Error(t, err)
}

func TestRemoveOriginalsDeletesFileOnFullSuccess(t *testing.T) {
	meta := t.TempDir()
	victim := filepath.Join(t.TempDir(), "victim.txt")
	require.NoError(t, os.WriteFile(victim, []byte("x"), 0644))

	require.NoError(t, clip.AppendLine(clip.Originals(meta), victim))

	e := New(false)
	require.NoError(t, e.RemoveOriginals(clip.Originals(meta)))

	_, err := os.Stat(victim)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(clip.Originals(meta))
	assert.True(t, os.IsNotExist(err))
}
