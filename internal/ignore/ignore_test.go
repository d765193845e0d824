package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	patterns := []string{`\.tmp$`, `^secret`}

	_, err := Set(dir, patterns)
	require.NoError(t, err)

	f, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, patterns, f.Patterns())
	assert.False(t, f.Empty())
}

func TestMatchesPathAndFilename(t *testing.T) {
	f, err := compile([]string{`\.log$`})
	require.NoError(t, err)

	assert.True(t, f.MatchesPath("/var/log/foo.log"))
	assert.False(t, f.MatchesPath("/var/log/foo.txt"))
	assert.True(t, f.MatchesFilename("foo.log"))
}

func TestFilterPaths(t *testing.T) {
	f, err := compile([]string{`ignored`})
	require.NoError(t, err)

	in := []string{"a/ignored.txt", "b/keep.txt", "c/ignored2"}
	out := f.FilterPaths(in)
	assert.Equal(t, []string{"b/keep.txt"}, out)
}

func TestPruneEntryDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drop.log"), []byte("x"), 0644))

	f, err := compile([]string{`\.log$`})
	require.NoError(t, err)

	n, err := f.PruneEntryDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "drop.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	_, err := Set(dir, []string{"a"})
	require.NoError(t, err)

	require.NoError(t, Clear(dir))

	f, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, f.Empty())
}

func TestEmptyFilterNeverMatches(t *testing.T) {
	var f *Filter
	assert.False(t, f.MatchesPath("anything"))
	assert.False(t, f.MatchesFilename("anything"))
	assert.True(t, f.Empty())
}
