package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitActionToken(t *testing.T) {
	verb, sel := SplitActionToken("cp5-2")
	assert.Equal(t, "cp", verb)
	assert.Equal(t, "5-2", sel)

	verb, sel = SplitActionToken("copy_work")
	assert.Equal(t, "copy", verb)
	assert.Equal(t, "_work", sel)

	verb, sel = SplitActionToken("paste")
	assert.Equal(t, "paste", verb)
	assert.Equal(t, "", sel)
}

func TestParseSelectorForms(t *testing.T) {
	assert.Equal(t, Selector{}, ParseSelector(""))

	sel := ParseSelector("_")
	assert.True(t, sel.Persistent)
	assert.Equal(t, "", sel.Name)

	sel = ParseSelector("_name")
	assert.True(t, sel.Persistent)
	assert.Equal(t, "name", sel.Name)

	sel = ParseSelector("5")
	assert.False(t, sel.Persistent)
	assert.Equal(t, "5", sel.Name)
	assert.Nil(t, sel.Entry)

	sel = ParseSelector("name-3")
	assert.Equal(t, "name", sel.Name)
	require.NotNil(t, sel.Entry)
	assert.Equal(t, uint64(3), *sel.Entry)

	sel = ParseSelector("-3")
	assert.Equal(t, "", sel.Name)
	require.NotNil(t, sel.Entry)
	assert.Equal(t, uint64(3), *sel.Entry)
}

func TestResolveName(t *testing.T) {
	sel := Selector{}
	assert.Equal(t, "flagname", sel.ResolveName("flagname", "default"))
	assert.Equal(t, "default", sel.ResolveName("", "default"))

	sel = Selector{Name: "work"}
	assert.Equal(t, "work", sel.ResolveName("", "default"))

	sel = Selector{Persistent: true, Name: "work"}
	assert.Equal(t, "_work", sel.ResolveName("", "default"))

	sel = Selector{Persistent: true, Name: "al_ready"}
	assert.Equal(t, "al_ready", sel.ResolveName("", "default"))
}
