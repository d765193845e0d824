package clip

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/berrythewa/clipman-daemon/pkg/utils"
)

// EntryIndex is the in-memory mirror of a clipboard's data/ directory: the
// set of numbered entry directories on disk, sorted newest (highest number)
// first. Per spec §4.2 it is always rebuilt by listing the directory, never
// cached across processes.
type EntryIndex struct {
	dataDir string
	entries []uint64 // sorted descending; synthesised as [0] when empty
}

// LoadEntryIndex builds an EntryIndex by reading dataDir's children and
// parsing each as an unsigned decimal entry number.
func LoadEntryIndex(dataDir string) (*EntryIndex, error) {
	if err := utils.EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	children, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var entries []uint64
	for _, c := range children {
		if !c.IsDir() {
			continue
		}
		n, err := strconv.ParseUint(c.Name(), 10, 64)
		if err != nil {
			continue // ignore anything that isn't a plain numbered entry
		}
		entries = append(entries, n)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i] > entries[j] })
	if len(entries) == 0 {
		entries = []uint64{0}
	}
	return &EntryIndex{dataDir: dataDir, entries: entries}, nil
}

// Entries returns the full sorted-descending entry number list.
func (ix *EntryIndex) Entries() []uint64 { return append([]uint64(nil), ix.entries...) }

// Current returns entry 0's conventional number — the newest entry, which is
// always ix.entries[0] since the list is sorted descending.
func (ix *EntryIndex) Current() uint64 { return ix.entries[0] }

// Has reports whether entry n exists in the index.
func (ix *EntryIndex) Has(n uint64) bool {
	for _, e := range ix.entries {
		if e == n {
			return true
		}
	}
	return false
}

// EntryDir returns the directory path for entry number n, whether or not it
// currently exists.
func (ix *EntryIndex) EntryDir(n uint64) string {
	return filepath.Join(ix.dataDir, strconv.FormatUint(n, 10))
}

// MakeNewEntry allocates and creates a new entry directory numbered
// max(existing)+1, pushing it to the front of the index (newest-first).
func (ix *EntryIndex) MakeNewEntry() (uint64, string, error) {
	next := ix.entries[0] + 1
	dir := ix.EntryDir(next)
	if err := utils.EnsureDir(dir); err != nil {
		return 0, "", fmt.Errorf("creating entry %d: %w", next, err)
	}
	ix.entries = append([]uint64{next}, ix.entries...)
	return next, dir, nil
}

// TrimHistory removes the oldest entries until at most max remain (0 means
// unlimited, a no-op). The newest entries are always preserved.
func (ix *EntryIndex) TrimHistory(max int) error {
	if max <= 0 || len(ix.entries) <= max {
		return nil
	}
	keep := ix.entries[:max]
	drop := ix.entries[max:]
	for _, n := range drop {
		if err := os.RemoveAll(ix.EntryDir(n)); err != nil {
			return fmt.Errorf("trimming entry %d: %w", n, err)
		}
	}
	ix.entries = keep
	return nil
}

// HoldsData reports whether entry n's directory contains anything at all.
func (ix *EntryIndex) HoldsData(n uint64) (bool, error) {
	entries, err := os.ReadDir(ix.EntryDir(n))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return len(entries) > 0, nil
}

// HoldsRawData reports whether entry n holds a non-empty rawdata.clipboard
// file — the marker for text/binary content as opposed to user files.
func (ix *EntryIndex) HoldsRawData(n uint64) (bool, error) {
	info, err := os.Stat(filepath.Join(ix.EntryDir(n), RawDataFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Size() > 0, nil
}

// RawDataFileName is the fixed name of the single-file raw payload an entry
// holds for text or binary clipboard content.
const RawDataFileName = "rawdata.clipboard"
