// Package ignore implements the per-clipboard regex ignore list (spec §4.4):
// loading metadata/ignore, and applying it to incoming items, stored files,
// and GUI-ingested content.
//
// Grounded on spec §4.4 directly; the one-file-per-concern metadata
// convention follows internal/config/config.go's per-field treatment in the
// teacher.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// Filter holds the compiled regex list for one clipboard.
type Filter struct {
	patterns []string
	regexes  []*regexp.Regexp
}

// Load reads and compiles metadata/ignore for a clipboard.
func Load(metadataDir string) (*Filter, error) {
	lines, err := clip.ReadLines(clip.IgnoreFile(metadataDir))
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return compile(lines)
}

func compile(patterns []string) (*Filter, error) {
	f := &Filter{patterns: patterns}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore regex %q: %w", p, err)
		}
		f.regexes = append(f.regexes, re)
	}
	return f, nil
}

// Patterns returns the raw, uncompiled pattern list.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.patterns...)
}

// Empty reports whether no ignore rules are configured.
func (f *Filter) Empty() bool { return f == nil || len(f.regexes) == 0 }

// MatchesPath reports whether an absolute path is ignored. Per the spec §9
// Open Question resolution, the whole path string is matched — this is the
// rule used for incoming items (which are paths, not yet filenames inside a
// clipboard) and for GUI-ingest candidates.
func (f *Filter) MatchesPath(path string) bool {
	if f.Empty() {
		return false
	}
	for _, re := range f.regexes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// MatchesFilename reports whether a stored filename (no directory
// components) is ignored. Per the §9 resolution, post-write pruning inside a
// clipboard entry matches only the filename component.
func (f *Filter) MatchesFilename(name string) bool {
	if f.Empty() {
		return false
	}
	for _, re := range f.regexes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// FilterPaths drops every path in items that MatchesPath, preserving order.
// Used preemptively before any IO on Cut/Copy/Add's positional arguments.
func (f *Filter) FilterPaths(items []string) []string {
	if f.Empty() {
		return items
	}
	out := items[:0:0]
	for _, item := range items {
		if !f.MatchesPath(item) {
			out = append(out, item)
		}
	}
	return out
}

// ReplaceInText removes every regex match from content, used for the
// post-write pass on text entries.
func (f *Filter) ReplaceInText(content []byte) []byte {
	if f.Empty() {
		return content
	}
	for _, re := range f.regexes {
		content = re.ReplaceAll(content, nil)
	}
	return content
}

// PruneEntryDir removes every file/directory directly under dir whose
// filename matches a pattern. Used as the post-write pass for file entries.
func (f *Filter) PruneEntryDir(dir string) (int, error) {
	if f.Empty() {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if f.MatchesFilename(e.Name()) {
			if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
				return removed, fmt.Errorf("pruning ignored file %s: %w", e.Name(), err)
			}
			removed++
		}
	}
	return removed, nil
}

// Set validates and persists a new pattern list, replacing any existing one.
func Set(metadataDir string, patterns []string) (*Filter, error) {
	f, err := compile(patterns)
	if err != nil {
		return nil, err
	}
	if err := clip.WriteLines(clip.IgnoreFile(metadataDir), patterns); err != nil {
		return nil, fmt.Errorf("writing ignore file: %w", err)
	}
	return f, nil
}

// Clear removes metadata/ignore entirely.
func Clear(metadataDir string) error {
	return clip.WriteLines(clip.IgnoreFile(metadataDir), nil)
}
