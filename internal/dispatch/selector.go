package dispatch

import (
	"strconv"
	"strings"
)

// Selector is the parsed clipboard-name/entry suffix appended directly to
// an action token (spec §4.8, §6): "<action><name-or-number>[-<entry>]".
type Selector struct {
	// Name is the bare clipboard name, "" if none was given (the caller
	// falls back to the default clipboard name).
	Name string
	// Persistent is true if the selector used the "_" persistence prefix
	// convention (spec §6 "_ prefix means persistent").
	Persistent bool
	// Entry is non-nil when an explicit "-N" entry suffix was given.
	Entry *uint64
}

// SplitActionToken splits a raw first-positional-argument token into the
// bare verb and the trailing selector text, e.g. "cp5-2" -> ("cp", "5-2"),
// "copy_work" -> ("copy", "_work"), "paste" -> ("paste", "").
//
// The verb is the longest leading run of letters; spec §4.8's examples
// (cp, cp5, copy5-2, paste_work) are all consistent with "verb is letters,
// selector is whatever follows".
func SplitActionToken(token string) (verb, selector string) {
	i := 0
	for i < len(token) && isLetter(token[i]) {
		i++
	}
	return token[:i], token[i:]
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ParseSelector parses the suffix grammar: `_|[0-9]+(-[0-9]+)?` optionally
// preceded by a name. Per spec §6's grammar and §3's "name-suffix of the
// form -N selects a specific history entry", the forms are:
//
//	""           -> no selector at all
//	"_"          -> persistent, unnamed (default persistent clipboard)
//	"_name"      -> persistent, named "name"
//	"5"          -> clipboard named "5" (numeric names are just names)
//	"name-3"     -> clipboard "name", entry 3
//	"-3"         -> default clipboard, entry 3
func ParseSelector(suffix string) Selector {
	if suffix == "" {
		return Selector{}
	}

	sel := Selector{}
	rest := suffix
	if strings.HasPrefix(rest, "_") {
		sel.Persistent = true
		rest = rest[1:]
	}

	// Split off a trailing "-N" entry suffix, if the tail after the last
	// "-" is all digits.
	if idx := strings.LastIndex(rest, "-"); idx >= 0 {
		if n, err := strconv.ParseUint(rest[idx+1:], 10, 64); err == nil {
			sel.Entry = &n
			rest = rest[:idx]
		}
	}

	sel.Name = rest
	return sel
}

// ResolveName combines a parsed Selector with the -c/--clipboard flag and
// the implied default name, returning the final bare clipboard name to
// open. An explicit Persistent marker forces an underscore into the name
// so clip.IsPersistentName recognizes it even if the bare name itself
// contains none.
func (s Selector) ResolveName(flagName, defaultName string) string {
	name := s.Name
	if name == "" {
		name = flagName
	}
	if name == "" {
		name = defaultName
	}
	if s.Persistent && !strings.Contains(name, "_") {
		name = "_" + name
	}
	return name
}
