// Package dispatch implements the action dispatcher (spec §4.8): resolving
// an Action and IoMode from argv and TTY state, and the verb-matching
// "did you mean" diagnostic.
//
// Grounded on spec §4.8 directly; the pre-cobra argv surgery for the
// selector grammar follows the teacher's internal/cli/cmd/root.go
// PersistentFlags registration pattern, generalized to run before cobra
// ever sees the args (cobra's subcommand tree can't express "<action>5-2").
package dispatch

import "strings"

// Action is the fixed verb enum (spec §3, plus the `script` verb SPEC_FULL.md
// §4.11 adds from original_source/ research), plus the two reserved-but-
// unimplemented variants named in spec §9's Open Questions.
type Action int

const (
	ActionUnknown Action = iota
	ActionCut
	ActionCopy
	ActionPaste
	ActionAdd
	ActionRemove
	ActionClear
	ActionNote
	ActionSwap
	ActionLoad
	ActionImport
	ActionExport
	ActionHistory
	ActionIgnore
	ActionSearch
	ActionStatus
	ActionInfo
	ActionShow
	ActionEdit
	ActionScript
	// ActionUndo and ActionRedo are reserved per spec §9 Open Questions:
	// they parse (so Levenshtein "did you mean" can surface them) but route
	// to a fixed "not implemented" diagnostic rather than a table entry.
	ActionUndo
	ActionRedo
)

// verbNames is the canonical-English (name, short-name) table (spec §3
// "Action enum"). The localised forms this table is also matched against
// come from the out-of-scope message catalogue (spec §1); callers running
// under a non-English locale pass its additional names into MatchVerb via
// the localizedNames parameter.
var verbNames = map[Action][2]string{
	ActionCut:     {"cut", "ct"},
	ActionCopy:    {"copy", "cp"},
	ActionPaste:   {"paste", "p"},
	ActionAdd:     {"add", "ad"},
	ActionRemove:  {"remove", "rm"},
	ActionClear:   {"clear", "clr"},
	ActionNote:    {"note", "nt"},
	ActionSwap:    {"swap", "sw"},
	ActionLoad:    {"load", "ld"},
	ActionImport:  {"import", "im"},
	ActionExport:  {"export", "ex"},
	ActionHistory: {"history", "hs"},
	ActionIgnore:  {"ignore", "ig"},
	ActionSearch:  {"search", "sr"},
	ActionStatus:  {"status", "st"},
	ActionInfo:    {"info", "in"},
	ActionShow:    {"show", "sh"},
	ActionEdit:    {"edit", "ed"},
	ActionScript:  {"script", "sc"},
	ActionUndo:    {"undo", "un"},
	ActionRedo:    {"redo", "rd"},
}

// allActions lists every verb in a stable order, used by MatchVerb's
// Levenshtein fallback.
var allActions = []Action{
	ActionCut, ActionCopy, ActionPaste, ActionAdd, ActionRemove, ActionClear,
	ActionNote, ActionSwap, ActionLoad, ActionImport, ActionExport,
	ActionHistory, ActionIgnore, ActionSearch, ActionStatus, ActionInfo,
	ActionShow, ActionEdit, ActionScript, ActionUndo, ActionRedo,
}

// Name returns the canonical English verb name.
func (a Action) Name() string {
	if n, ok := verbNames[a]; ok {
		return n[0]
	}
	return "unknown"
}

// ShortName returns the canonical English short-name.
func (a Action) ShortName() string {
	if n, ok := verbNames[a]; ok {
		return n[1]
	}
	return "?"
}

// Reserved reports whether a is a parseable-but-unimplemented variant.
func (a Action) Reserved() bool {
	return a == ActionUndo || a == ActionRedo
}

// MatchResult is the outcome of resolving a raw verb token.
type MatchResult struct {
	Action Action
	// Suggestion is set when no exact match was found but a canonical verb
	// was within Levenshtein distance 2 (spec §4.8's "did you mean").
	Suggestion Action
	HasSuggestion bool
}

// MatchVerb resolves a verb token (already stripped of its selector suffix)
// against the canonical English names/short-names plus any additional
// localised names supplied by the caller. An exact match (case-sensitive,
// matching the spec's literal token comparison) wins outright; otherwise
// the nearest canonical verb within edit distance 2 is offered as a
// suggestion.
func MatchVerb(token string, localizedNames map[Action][2]string) MatchResult {
	for _, a := range allActions {
		if matchesName(a, token, localizedNames) {
			return MatchResult{Action: a}
		}
	}

	best := ActionUnknown
	bestDist := -1
	for _, a := range allActions {
		for _, name := range candidateNames(a, localizedNames) {
			d := levenshtein(token, name)
			if bestDist == -1 || d < bestDist {
				bestDist = d
				best = a
			}
		}
	}
	if bestDist >= 0 && bestDist <= 2 {
		return MatchResult{Suggestion: best, HasSuggestion: true}
	}
	return MatchResult{}
}

func matchesName(a Action, token string, localized map[Action][2]string) bool {
	for _, name := range candidateNames(a, localized) {
		if token == name {
			return true
		}
	}
	return false
}

func candidateNames(a Action, localized map[Action][2]string) []string {
	names := []string{}
	if n, ok := verbNames[a]; ok {
		names = append(names, n[0], n[1])
	}
	if localized != nil {
		if n, ok := localized[a]; ok {
			names = append(names, n[0], n[1])
		}
	}
	return names
}

// DefaultAction resolves the action token omitted case (spec §4.8): Copy
// when stdin is a pipe, Paste when stdout is a pipe, else Status.
func DefaultAction(stdinIsPipe, stdoutIsPipe bool) Action {
	switch {
	case stdinIsPipe:
		return ActionCopy
	case stdoutIsPipe:
		return ActionPaste
	default:
		return ActionStatus
	}
}

// IsActionToken reports whether s could plausibly be an action token (as
// opposed to a flag or positional item) — used by ParseSelector to decide
// whether argv[0] should be treated as the action slot at all. Any token
// not starting with "-" and not empty qualifies; the verb-matching step
// itself is what actually validates it.
func IsActionToken(s string) bool {
	return s != "" && !strings.HasPrefix(s, "-")
}
