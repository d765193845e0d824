package clip

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/berrythewa/clipman-daemon/pkg/utils"
)

// Clipboard is an open handle on one named clipboard: its resolved root
// directory, its entry index, and (while the process runs) its lock. The
// Clipboard value owns the paths it describes and the lock file handle for
// its process; releasing it (Close) removes the lock (spec §3 Ownership).
type Clipboard struct {
	Name       string
	Persistent bool
	Root       string
	DataDir    string
	MetadataDir string

	Index *EntryIndex
	lock  *Lock

	// SelectedEntry is non-nil when the invocation's selector named a
	// specific history entry (the "-N" suffix, or -e/--entry).
	SelectedEntry *uint64
}

// Open resolves name to a clipboard root, acquires the cross-process lock,
// and loads the entry index. selectedEntry, if non-nil, pins the clipboard
// to a specific history entry instead of entry 0.
func Open(name string, selectedEntry *uint64) (*Clipboard, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	root, err := ClipboardRoot(name)
	if err != nil {
		return nil, err
	}

	data := dataDir(root)
	meta := metadataDir(root)
	if err := utils.EnsureDir(meta); err != nil {
		return nil, fmt.Errorf("creating metadata dir: %w", err)
	}

	lock, err := Acquire(meta)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock for clipboard %q: %w", name, err)
	}

	index, err := LoadEntryIndex(data)
	if err != nil {
		lock.Release()
		return nil, err
	}

	if selectedEntry != nil && !index.Has(*selectedEntry) {
		lock.Release()
		return nil, fmt.Errorf("clipboard %q has no entry %d", name, *selectedEntry)
	}

	return &Clipboard{
		Name:          name,
		Persistent:    IsPersistentName(name),
		Root:          root,
		DataDir:       data,
		MetadataDir:   meta,
		Index:         index,
		lock:          lock,
		SelectedEntry: selectedEntry,
	}, nil
}

// Close releases the clipboard's lock. Safe to call on a nil Clipboard.
func (c *Clipboard) Close() error {
	if c == nil {
		return nil
	}
	return c.lock.Release()
}

// CurrentEntry returns the entry number this handle currently addresses:
// SelectedEntry if pinned, otherwise the index's newest entry.
func (c *Clipboard) CurrentEntry() uint64 {
	if c.SelectedEntry != nil {
		return *c.SelectedEntry
	}
	return c.Index.Current()
}

// CurrentEntryDir returns the directory for CurrentEntry().
func (c *Clipboard) CurrentEntryDir() string {
	return c.Index.EntryDir(c.CurrentEntry())
}

// HoldsRawData reports whether the current entry holds non-empty
// rawdata.clipboard.
func (c *Clipboard) HoldsRawData() (bool, error) {
	return c.Index.HoldsRawData(c.CurrentEntry())
}

// HoldsFiles reports whether the current entry holds user files/directories
// (i.e. it holds data but not raw data) — the invariant in spec §8 requires
// these two predicates be mutually exclusive for a non-empty entry.
func (c *Clipboard) HoldsFiles() (bool, error) {
	holds, err := c.Index.HoldsData(c.CurrentEntry())
	if err != nil || !holds {
		return false, err
	}
	raw, err := c.HoldsRawData()
	if err != nil {
		return false, err
	}
	return !raw, nil
}

// MakeNewEntry allocates a new entry and repoints this handle's selection at
// it (entry 0 semantics: the newest entry becomes current).
func (c *Clipboard) MakeNewEntry() (string, error) {
	_, dir, err := c.Index.MakeNewEntry()
	if err != nil {
		return "", err
	}
	c.SelectedEntry = nil
	return dir, nil
}

// TrimHistory applies maximumHistorySize, removing the oldest entries.
func (c *Clipboard) TrimHistory(max int) error {
	return c.Index.TrimHistory(max)
}

// RawDataPath returns the rawdata.clipboard path for the current entry.
func (c *Clipboard) RawDataPath() string {
	return filepath.Join(c.CurrentEntryDir(), RawDataFileName)
}

// ListEntryFiles lists the immediate children of the current entry's
// directory (used by paste and by the ignore filter's post-write pass).
func (c *Clipboard) ListEntryFiles() ([]os.DirEntry, error) {
	entries, err := os.ReadDir(c.CurrentEntryDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}
