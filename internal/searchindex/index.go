// Package searchindex implements a rebuildable secondary index of content
// hash -> (clipboard, entry). The search action records hashes here with
// Put; Lookup and ForEach are not called by the search action. The
// filesystem data/<n>/ tree under internal/clip remains the sole source of
// truth (spec §3); this index is disposable, and Lookup and ForEach
// self-heal by stat-checking before trusting a cached hit.
//
// Grounded on the teacher's internal/storage/boltdb.go: a single bucket
// keyed by a content fingerprint, db.Update/db.View transaction shape,
// opened with a short Timeout so a stale lock from a crashed process
// doesn't hang the caller forever.
package searchindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/berrythewa/clipman-daemon/pkg/utils"
)

const bucketName = "contenthash"

// FileName is the bbolt database's name under the persistent root.
const FileName = "searchindex.db"

// Record is one indexed (clipboard, entry) pointing at a piece of content
// already seen, keyed by its SHA-256 hash.
type Record struct {
	Clipboard string `json:"clipboard"`
	Entry     uint64 `json:"entry"`
	EntryDir  string `json:"entry_dir"` // stat-checked before trusting Record
}

// Index wraps a bbolt database for content-hash lookups.
type Index struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the index database under persistDir.
func Open(persistDir string) (*Index, error) {
	if err := utils.EnsureDir(persistDir); err != nil {
		return nil, fmt.Errorf("creating persistent root: %w", err)
	}
	db, err := bbolt.Open(filepath.Join(persistDir, FileName), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating search index bucket: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Put records that contentHash maps to (clipboard, entry, entryDir),
// overwriting any prior record for the same hash.
func (ix *Index) Put(contentHash string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return ix.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(contentHash), data)
	})
}

// Lookup returns the record for contentHash if present and its entry
// directory still exists on disk; a stale record (directory removed since
// indexing) is treated as a miss and pruned lazily.
func (ix *Index) Lookup(contentHash string) (Record, bool, error) {
	var rec Record
	var found bool
	err := ix.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		data := b.Get([]byte(contentHash))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return b.Delete([]byte(contentHash))
		}
		if _, err := os.Stat(rec.EntryDir); err != nil {
			return b.Delete([]byte(contentHash))
		}
		found = true
		return nil
	})
	return rec, found, err
}

// Delete removes any record for contentHash.
func (ix *Index) Delete(contentHash string) error {
	return ix.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(contentHash))
	})
}

// ForEach visits every (hash, record) pair whose entry directory still
// exists, skipping stale ones and pruning them once the visit finishes.
func (ix *Index) ForEach(fn func(hash string, rec Record) error) error {
	var stale [][]byte
	err := ix.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			if _, err := os.Stat(rec.EntryDir); err != nil {
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			return fn(string(k), rec)
		})
	})
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		_ = ix.db.Update(func(tx *bbolt.Tx) error {
			b := tx.Bucket([]byte(bucketName))
			for _, k := range stale {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return nil
}
