package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/dispatch"
	"github.com/berrythewa/clipman-daemon/internal/searchindex"
	"github.com/berrythewa/clipman-daemon/pkg/utils"
)

type searchHit struct {
	clipboard string
	entry     uint64
	score     int
	preview   string
}

// Search fuzzy-matches items[0] against every entry in the active clipboard,
// or across every clipboard on disk with --all, scoring each per spec
// §4.10 "Search" and printing hits best-first. Each text entry's content
// hash is recorded in the search index as it is scanned; the scan itself
// always reads every entry from disk and never consults the index.
func Search(inv *app.Invocation, items []string) error {
	if len(items) != 1 {
		return app.NewUserError("search requires exactly one query")
	}
	query := items[0]
	re, reErr := regexp.Compile(query)

	var targets []*clip.Clipboard
	if inv.Flags.All {
		all, err := allClipboards(inv)
		if err != nil {
			return err
		}
		targets = all
		defer func() {
			for _, cb := range all {
				if cb != inv.Clipboard {
					cb.Close()
				}
			}
		}()
	} else {
		targets = []*clip.Clipboard{inv.Clipboard}
	}

	var hits []searchHit
	for _, cb := range targets {
		for _, n := range cb.Index.Entries() {
			content, isText := entryPreview(cb.Index.EntryDir(n))
			if content == "" {
				continue
			}
			score, preview := scoreEntry(query, re, reErr == nil, content)
			if score <= 0 {
				continue
			}
			hits = append(hits, searchHit{clipboard: cb.Name, entry: n, score: score, preview: preview})
			if isText && inv.Index != nil {
				hash := utils.HashContent([]byte(content))
				inv.Index.Put(hash, searchindex.Record{Clipboard: cb.Name, Entry: n, EntryDir: cb.Index.EntryDir(n)})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	for _, h := range hits {
		fmt.Fprintf(inv.TTY.Out, "%s-%d\t%d\t%s\n", h.clipboard, h.entry, h.score, h.preview)
	}
	return nil
}

func scoreEntry(query string, re *regexp.Regexp, reOK bool, content string) (int, string) {
	if content == query {
		return 1000, content
	}
	if reOK {
		if loc := re.FindStringIndex(content); loc != nil {
			if loc[0] == 0 && loc[1] == len(content) {
				return 800, content
			}
			highlighted := content[:loc[0]] + "[" + content[loc[0]:loc[1]] + "]" + content[loc[1]:]
			return 600, highlighted
		}
	}
	if len(content) < 1000 {
		dist := dispatch.Levenshtein(query, content)
		if dist < 100 {
			return 400 - dist, content
		}
	}
	return 0, ""
}

// entryPreview returns a representative string for an entry: its raw text
// if it holds one, otherwise its filenames joined by a space. isText
// reports which form it was, used to decide whether the content hash is
// worth indexing (file-entry names aren't stable content fingerprints).
func entryPreview(entryDir string) (string, bool) {
	if data, err := os.ReadFile(filepath.Join(entryDir, clip.RawDataFileName)); err == nil {
		return string(data), true
	}
	children, err := os.ReadDir(entryDir)
	if err != nil {
		return "", false
	}
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name())
	}
	return strings.Join(names, " "), false
}

func allClipboards(inv *app.Invocation) ([]*clip.Clipboard, error) {
	roots, err := clip.AllRoots()
	if err != nil {
		return nil, err
	}
	var out []*clip.Clipboard
	for _, root := range roots {
		children, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, c := range children {
			name := c.Name()
			if name == inv.Clipboard.Name {
				out = append(out, inv.Clipboard)
				continue
			}
			cb, err := clip.Open(name, nil)
			if err != nil {
				continue
			}
			out = append(out, cb)
		}
	}
	return out, nil
}
