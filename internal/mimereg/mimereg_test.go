package mimereg

import (
	"bytes"
	"testing"

	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableOrderAndPriority(t *testing.T) {
	tbl := Table()
	require.Len(t, tbl, 7)
	assert.Equal(t, "x-special/gnome-copied-files", tbl[0].Name)
	assert.Equal(t, "TEXT", tbl[6].Name)
	for i, e := range tbl {
		assert.Equal(t, i, e.Priority)
	}
}

func TestSupportsRejectsMismatchedKind(t *testing.T) {
	entry, ok := Lookup("text/plain")
	require.True(t, ok)
	assert.False(t, Supports(entry, clip.Content{Kind: clip.KindPaths}))
	assert.True(t, Supports(entry, clip.Content{Kind: clip.KindText}))
}

func TestSupportsRejectsIncludeActionOnText(t *testing.T) {
	// Synthetic entry: IncludeAction only ever valid for Paths.
	entry := Entry{Name: "bogus", Target: clip.KindText, Flags: FlagIncludeAction}
	assert.False(t, Supports(entry, clip.Content{Kind: clip.KindText}))
}

func TestEncodeDecodeTextRoundTrip(t *testing.T) {
	entry, _ := Lookup("text/plain;charset=utf-8")
	content := clip.Content{Kind: clip.KindText, Text: []byte("hello world")}

	var buf bytes.Buffer
	ok, err := Encode(entry, content, &buf)
	require.NoError(t, err)
	require.True(t, ok)

	decoded, err := Decode(entry, &buf)
	require.NoError(t, err)
	assert.Equal(t, content.Text, decoded.Text)
}

func TestEncodeDecodeGnomeCopiedFilesRoundTrip(t *testing.T) {
	entry, _ := Lookup("x-special/gnome-copied-files")
	content := clip.Content{
		Kind:       clip.KindPaths,
		PathAction: clip.ActionCut,
		Paths:      []string{"/tmp/a file.txt", "/tmp/b"},
	}

	var buf bytes.Buffer
	ok, err := Encode(entry, content, &buf)
	require.NoError(t, err)
	require.True(t, ok)

	decoded, err := Decode(entry, &buf)
	require.NoError(t, err)
	assert.Equal(t, clip.ActionCut, decoded.PathAction)
	assert.Equal(t, content.Paths, decoded.Paths)
}

func TestEncodeDecodeUriListRoundTrip(t *testing.T) {
	entry, _ := Lookup("text/uri-list")
	content := clip.Content{Kind: clip.KindPaths, Paths: []string{"/a/b", "/c d/e"}}

	var buf bytes.Buffer
	ok, err := Encode(entry, content, &buf)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, buf.String(), "file:///a/b")
	assert.Contains(t, buf.String(), "%20")

	decoded, err := Decode(entry, &buf)
	require.NoError(t, err)
	assert.Equal(t, content.Paths, decoded.Paths)
}

func TestDecodeTolerantOfBadPercentEscape(t *testing.T) {
	got, err := decodeFileURI("file:///a%zzb")
	require.NoError(t, err)
	assert.Equal(t, "/a%zzb", got)
}

func TestFindBestUsesPreferredVerbatim(t *testing.T) {
	assert.Equal(t, "text/plain", FindBest([]string{"STRING", "TEXT"}, "text/plain"))
}

func TestFindBestPicksLowestPriorityOffered(t *testing.T) {
	got := FindBest([]string{"TEXT", "STRING", "text/plain"}, ChooseBestType)
	assert.Equal(t, "text/plain", got)
}

func TestFindBestIgnoresUnknownOffers(t *testing.T) {
	got := FindBest([]string{"application/x-bogus", "STRING"}, ChooseBestType)
	assert.Equal(t, "STRING", got)
}
