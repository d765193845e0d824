package actions

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/copyengine"
)

func newHistoryInvocation(t *testing.T) (*app.Invocation, string) {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	metaDir := filepath.Join(root, "metadata")
	require.NoError(t, os.MkdirAll(metaDir, 0755))

	index, err := clip.LoadEntryIndex(dataDir)
	require.NoError(t, err)

	cb := &clip.Clipboard{Name: "work", DataDir: dataDir, MetadataDir: metaDir, Index: index}
	inv := &app.Invocation{Clipboard: cb, Engine: copyengine.New(false)}
	return inv, dataDir
}

func seedEntry(t *testing.T, dataDir string, n uint64, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, strconv.FormatUint(n, 10))
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rawdata.clipboard"), []byte(content), 0644))
}

func TestPromoteEntryCopiesIntoFreshNewestEntry(t *testing.T) {
	inv, dataDir := newHistoryInvocation(t)
	seedEntry(t, dataDir, 0, "promote me")

	require.NoError(t, History(inv, []string{"0"}))
	assert.False(t, inv.HasFailures())

	entries := inv.Clipboard.Index.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, []uint64{1, 0}, entries)

	promoted, err := os.ReadFile(filepath.Join(dataDir, "1", "rawdata.clipboard"))
	require.NoError(t, err)
	assert.Equal(t, "promote me", string(promoted))

	original, err := os.ReadFile(filepath.Join(dataDir, "0", "rawdata.clipboard"))
	require.NoError(t, err)
	assert.Equal(t, "promote me", string(original))
}

func TestPromoteEntryUnknownNumberIsFailedItem(t *testing.T) {
	inv, _ := newHistoryInvocation(t)

	require.NoError(t, History(inv, []string{"7"}))
	assert.True(t, inv.HasFailures())
}

func TestHistoryNonNumericItemIsFailedItem(t *testing.T) {
	inv, dataDir := newHistoryInvocation(t)
	seedEntry(t, dataDir, 0, "x")

	require.NoError(t, History(inv, []string{"not-a-number"}))
	assert.True(t, inv.HasFailures())
}
