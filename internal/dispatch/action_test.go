package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchVerbExact(t *testing.T) {
	r := MatchVerb("copy", nil)
	assert.Equal(t, ActionCopy, r.Action)
	assert.False(t, r.HasSuggestion)

	r = MatchVerb("cp", nil)
	assert.Equal(t, ActionCopy, r.Action)
}

func TestMatchVerbSuggestsCloseTypo(t *testing.T) {
	r := MatchVerb("cpy", nil)
	assert.Equal(t, ActionUnknown, r.Action)
	assert.True(t, r.HasSuggestion)
	assert.Equal(t, ActionCopy, r.Suggestion)
}

func TestMatchVerbNoSuggestionWhenFarOff(t *testing.T) {
	r := MatchVerb("zzzzzzzzzz", nil)
	assert.Equal(t, ActionUnknown, r.Action)
	assert.False(t, r.HasSuggestion)
}

func TestMatchVerbScript(t *testing.T) {
	r := MatchVerb("script", nil)
	assert.Equal(t, ActionScript, r.Action)
	r = MatchVerb("sc", nil)
	assert.Equal(t, ActionScript, r.Action)
}

func TestReservedActions(t *testing.T) {
	assert.True(t, ActionUndo.Reserved())
	assert.True(t, ActionRedo.Reserved())
	assert.False(t, ActionScript.Reserved())
}

func TestDefaultAction(t *testing.T) {
	assert.Equal(t, ActionCopy, DefaultAction(true, false))
	assert.Equal(t, ActionPaste, DefaultAction(false, true))
	assert.Equal(t, ActionStatus, DefaultAction(false, false))
}
