package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeNewEntryOnFreshIndexYieldsOneZero(t *testing.T) {
	dir := t.TempDir()
	ix, err := LoadEntryIndex(dir)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, ix.Entries())

	n, entryDir, err := ix.MakeNewEntry()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	assert.DirExists(t, entryDir)
	assert.Equal(t, []uint64{1, 0}, ix.Entries())
}

func TestMakeNewEntryNumbersIncreaseMonotonically(t *testing.T) {
	dir := t.TempDir()
	ix, err := LoadEntryIndex(dir)
	require.NoError(t, err)

	n1, _, err := ix.MakeNewEntry()
	require.NoError(t, err)
	n2, _, err := ix.MakeNewEntry()
	require.NoError(t, err)

	assert.Equal(t, uint64(1), n1)
	assert.Equal(t, uint64(2), n2)
	assert.Equal(t, []uint64{2, 1, 0}, ix.Entries())
	assert.Equal(t, uint64(2), ix.Current())
}

func TestLoadEntryIndexRebuildsFromDiskDescending(t *testing.T) {
	dir := t.TempDir()
	ix, err := LoadEntryIndex(dir)
	require.NoError(t, err)
	_, _, err = ix.MakeNewEntry()
	require.NoError(t, err)
	_, _, err = ix.MakeNewEntry()
	require.NoError(t, err)

	reloaded, err := LoadEntryIndex(dir)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, reloaded.Entries())
}

func TestTrimHistoryKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	ix, err := LoadEntryIndex(dir)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, _, err := ix.MakeNewEntry()
		require.NoError(t, err)
	}
	require.Equal(t, []uint64{3, 2, 1, 0}, ix.Entries())

	require.NoError(t, ix.TrimHistory(2))
	assert.Equal(t, []uint64{3, 2}, ix.Entries())
	assert.False(t, ix.Has(1))
	assert.False(t, ix.Has(0))
}

func TestTrimHistoryZeroIsUnlimited(t *testing.T) {
	dir := t.TempDir()
	ix, err := LoadEntryIndex(dir)
	require.NoError(t, err)
	_, _, err = ix.MakeNewEntry()
	require.NoError(t, err)

	require.NoError(t, ix.TrimHistory(0))
	assert.Equal(t, []uint64{1, 0}, ix.Entries())
}
