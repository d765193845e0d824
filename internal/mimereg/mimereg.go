// Package mimereg implements the static MIME type registry (spec §4.6) used
// to translate between ClipboardContent and the wire formats GUI selection
// backends exchange: gnome-copied-files, uri-list, and the various
// plain-text aliases.
//
// Grounded on spec §4.6 directly; the priority-ordered table mirrors the
// teacher's pkg/format package's "one static table, several small pure
// functions over it" shape.
package mimereg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// Flag is a bitmask of the MIME registry's per-entry option flags.
type Flag int

const (
	// ChooseBestType is a sentinel preferred-type value meaning "ask the
	// backend to offer its best type rather than a specific name".
	ChooseBestType = ""

	FlagNone Flag = 0
	// FlagIncludeAction prefixes an encoded paths payload with a line
	// reading "copy" or "cut".
	FlagIncludeAction Flag = 1 << iota
	// FlagEncodePaths serializes paths as file://-URIs, percent-encoded.
	FlagEncodePaths
)

// Entry is one row of the static registry table.
type Entry struct {
	Name     string
	Target   clip.Kind
	Flags    Flag
	Priority int // ascending; lower is preferred
}

// table is the required registry from spec §4.6, in ascending priority
// order (index doubles as priority since ties never occur here).
var table = []Entry{
	{Name: "x-special/gnome-copied-files", Target: clip.KindPaths, Flags: FlagIncludeAction | FlagEncodePaths},
	{Name: "text/uri-list", Target: clip.KindPaths, Flags: FlagEncodePaths},
	{Name: "text/plain;charset=utf-8", Target: clip.KindText, Flags: FlagNone},
	{Name: "UTF8_STRING", Target: clip.KindText, Flags: FlagNone},
	{Name: "text/plain", Target: clip.KindText, Flags: FlagNone},
	{Name: "STRING", Target: clip.KindText, Flags: FlagNone},
	{Name: "TEXT", Target: clip.KindText, Flags: FlagNone},
}

func init() {
	for i := range table {
		table[i].Priority = i
	}
}

// Table returns the registry's entries in priority order.
func Table() []Entry { return append([]Entry(nil), table...) }

// Lookup finds a registry entry by MIME name.
func Lookup(name string) (Entry, bool) {
	for _, e := range table {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Supports reports whether content can be encoded as entry's type: the
// content kind must match the entry's target, and IncludeAction only ever
// applies to paths content (spec §4.6 "supports").
func Supports(entry Entry, content clip.Content) bool {
	if content.Kind != entry.Target {
		return false
	}
	if entry.Flags&FlagIncludeAction != 0 && entry.Target != clip.KindPaths {
		return false
	}
	return true
}

// Encode writes content to out per entry's flags, returning false if entry
// doesn't support content.
func Encode(entry Entry, content clip.Content, out io.Writer) (bool, error) {
	if !Supports(entry, content) {
		return false, nil
	}
	switch entry.Target {
	case clip.KindText:
		_, err := out.Write(content.Text)
		return err == nil, err
	case clip.KindPaths:
		return true, encodePaths(entry, content, out)
	default:
		return false, nil
	}
}

func encodePaths(entry Entry, content clip.Content, out io.Writer) error {
	w := bufio.NewWriter(out)
	if entry.Flags&FlagIncludeAction != 0 {
		if _, err := fmt.Fprintln(w, content.PathAction.String()); err != nil {
			return err
		}
	}
	for _, p := range content.Paths {
		line := p
		if entry.Flags&FlagEncodePaths != 0 {
			line = encodeFileURI(p)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Decode reads entry's wire format from in and produces a ClipboardContent.
func Decode(entry Entry, in io.Reader) (clip.Content, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return clip.Content{}, err
	}
	switch entry.Target {
	case clip.KindText:
		return clip.Content{Kind: clip.KindText, Text: data, Mime: entry.Name}, nil
	case clip.KindPaths:
		return decodePaths(entry, data)
	default:
		return clip.Empty(), nil
	}
}

func decodePaths(entry Entry, data []byte) (clip.Content, error) {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	content := clip.Content{Kind: clip.KindPaths, PathAction: clip.ActionCopy}

	if entry.Flags&FlagIncludeAction != 0 && len(lines) > 0 {
		switch strings.TrimSpace(lines[0]) {
		case "cut":
			content.PathAction = clip.ActionCut
		case "copy":
			content.PathAction = clip.ActionCopy
		}
		lines = lines[1:]
	}

	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if entry.Flags&FlagEncodePaths != 0 {
			p, err := decodeFileURI(l)
			if err != nil {
				continue // tolerant decode: skip unparsable lines
			}
			l = p
		}
		content.Paths = append(content.Paths, l)
	}
	return content, nil
}

// FindBest implements §4.6's findBest: if preferred is non-empty it's used
// as a raw MIME name verbatim (even if unknown to the registry); otherwise
// the offered type with the lowest table priority wins. Returns "" if
// nothing offered is known and preferred is empty.
func FindBest(offered []string, preferred string) string {
	if preferred != ChooseBestType {
		return preferred
	}
	best := ""
	bestPriority := -1
	for _, name := range offered {
		entry, ok := Lookup(name)
		if !ok {
			continue
		}
		if bestPriority == -1 || entry.Priority < bestPriority {
			best = name
			bestPriority = entry.Priority
		}
	}
	return best
}

// isUnreserved reports whether b is in the RFC 3986 unreserved set or is
// '/'; such bytes are left unencoded.
func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '.' || b == '_' || b == '~' || b == '/':
		return true
	}
	return false
}

// encodeFileURI percent-encodes path's bytes outside the unreserved set and
// prefixes it with file://.
func encodeFileURI(path string) string {
	var b strings.Builder
	b.WriteString("file://")
	for i := 0; i < len(path); i++ {
		c := path[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// decodeFileURI reverses encodeFileURI, tolerating undecodable %-sequences
// by leaving them as literal text rather than failing outright.
func decodeFileURI(uri string) (string, error) {
	rest := strings.TrimPrefix(uri, "file://")
	var b bytes.Buffer
	for i := 0; i < len(rest); i++ {
		if rest[i] == '%' && i+2 < len(rest) {
			if decoded, err := url.PathUnescape(rest[i : i+3]); err == nil && len(decoded) == 1 {
				b.WriteString(decoded)
				i += 2
				continue
			}
		}
		b.WriteByte(rest[i])
	}
	return b.String(), nil
}
