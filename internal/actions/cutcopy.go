package actions

import (
	"bytes"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// CopyFile and CutFile both allocate a fresh history entry and copy each
// item into it via the copy engine (spec §4.5, §4.10 "Cut/Copy (file)").
func CopyFile(inv *app.Invocation, items []string) error { return copyItemsFile(inv, items, clip.ActionCopy) }
func CutFile(inv *app.Invocation, items []string) error  { return copyItemsFile(inv, items, clip.ActionCut) }

func copyItemsFile(inv *app.Invocation, items []string, action clip.PathAction) error {
	if len(items) == 0 {
		return app.NewUserError("no items given")
	}
	items = inv.Ignore.FilterPaths(items)
	if len(items) == 0 {
		return nil // everything was ignored: a quiet no-op per spec §4.4
	}

	if err := inv.RunScriptHook("pre", action.String()); err != nil {
		return err
	}

	destDir, err := inv.Clipboard.MakeNewEntry()
	if err != nil {
		return err
	}
	if err := preflightStorage(items, destDir); err != nil {
		return err
	}

	for _, item := range items {
		inv.Engine.CopyItem(item, destDir, inv.Clipboard.MetadataDir, action)
	}
	inv.RecordFailed()

	if err := applyIgnoreToEntry(inv); err != nil {
		return err
	}
	if err := inv.Clipboard.TrimHistory(inv.Config.MaximumHistorySize); err != nil {
		return err
	}

	content := clip.Content{Kind: clip.KindPaths, Paths: absPaths(items), PathAction: action}
	publishToGUI(inv, content)

	return inv.RunScriptHook("post", action.String())
}

// AddFile appends items to the current entry without allocating a new one,
// refusing to mix text and file content in one entry (spec §4.10 "Add").
func AddFile(inv *app.Invocation, items []string) error {
	if len(items) == 0 {
		return app.NewUserError("no items given")
	}
	items = inv.Ignore.FilterPaths(items)
	if len(items) == 0 {
		return nil
	}

	holdsRaw, err := inv.Clipboard.HoldsRawData()
	if err != nil {
		return err
	}
	if holdsRaw {
		return app.NewUserError("cannot add files: current entry already holds text content")
	}

	destDir := inv.Clipboard.CurrentEntryDir()
	if err := preflightStorage(items, destDir); err != nil {
		return err
	}
	for _, item := range items {
		inv.Engine.CopyItem(item, destDir, inv.Clipboard.MetadataDir, clip.ActionCopy)
	}
	inv.RecordFailed()

	if err := applyIgnoreToEntry(inv); err != nil {
		return err
	}
	content := clip.Content{Kind: clip.KindPaths, Paths: absPaths(items), PathAction: clip.ActionCopy}
	publishToGUI(inv, content)
	return nil
}

// CopyText and CutText concatenate items with a single-space separator into
// a fresh entry's rawdata.clipboard (spec §4.10 "Cut/Copy (text)").
func CopyText(inv *app.Invocation, items []string) error { return textEntry(inv, items, clip.ActionCopy, true) }
func CutText(inv *app.Invocation, items []string) error  { return textEntry(inv, items, clip.ActionCut, true) }

// AddText appends to the current entry's rawdata.clipboard instead of
// allocating a new entry.
func AddText(inv *app.Invocation, items []string) error {
	holdsFiles, err := inv.Clipboard.HoldsFiles()
	if err != nil {
		return err
	}
	if holdsFiles {
		return app.NewUserError("cannot add text: current entry already holds file content")
	}
	payload := []byte(joinSpace(items))
	if inv.Ignore.MatchesPath(string(payload)) {
		return nil
	}
	existing, _ := readFileIfExists(inv.Clipboard.RawDataPath())
	combined := append(existing, payload...)
	if err := writeRaw(inv, combined); err != nil {
		return err
	}
	publishToGUI(inv, clip.Content{Kind: clip.KindText, Text: combined})
	return nil
}

func textEntry(inv *app.Invocation, items []string, action clip.PathAction, newEntry bool) error {
	payload := []byte(joinSpace(items))
	if inv.Ignore.MatchesPath(string(payload)) {
		return nil
	}

	if err := inv.RunScriptHook("pre", action.String()); err != nil {
		return err
	}

	if newEntry {
		if _, err := inv.Clipboard.MakeNewEntry(); err != nil {
			return err
		}
	}
	if err := writeRaw(inv, payload); err != nil {
		return err
	}
	// Text cut has no filesystem originals to delete; cut vs. copy only
	// changes the action name passed to the script hooks.
	if err := inv.Clipboard.TrimHistory(inv.Config.MaximumHistorySize); err != nil {
		return err
	}
	publishToGUI(inv, clip.Content{Kind: clip.KindText, Text: payload})
	return inv.RunScriptHook("post", action.String())
}

// CopyPipe and CutPipe read stdin to EOF into a fresh entry's
// rawdata.clipboard (spec §4.10 "Cut/Copy (pipe in)").
func CopyPipe(inv *app.Invocation, items []string) error { return pipeEntry(inv, clip.ActionCopy) }
func CutPipe(inv *app.Invocation, items []string) error  { return pipeEntry(inv, clip.ActionCut) }

// AddPipe reads stdin to EOF and appends it to the current entry's
// rawdata.clipboard.
func AddPipe(inv *app.Invocation, items []string) error {
	holdsFiles, err := inv.Clipboard.HoldsFiles()
	if err != nil {
		return err
	}
	if holdsFiles {
		return app.NewUserError("cannot add text: current entry already holds file content")
	}
	data, err := readAllStdin(inv)
	if err != nil {
		return app.WrapFatal(app.KindInternal, "reading stdin", err)
	}
	existing, _ := readFileIfExists(inv.Clipboard.RawDataPath())
	combined := append(existing, data...)
	if err := writeRaw(inv, combined); err != nil {
		return err
	}
	publishToGUI(inv, clip.Content{Kind: clip.KindText, Text: combined})
	return nil
}

func pipeEntry(inv *app.Invocation, action clip.PathAction) error {
	data, err := readAllStdin(inv)
	if err != nil {
		return app.WrapFatal(app.KindInternal, "reading stdin", err)
	}
	if _, err := inv.Clipboard.MakeNewEntry(); err != nil {
		return err
	}
	if err := writeRaw(inv, data); err != nil {
		return err
	}
	if err := inv.Clipboard.TrimHistory(inv.Config.MaximumHistorySize); err != nil {
		return err
	}
	publishToGUI(inv, clip.Content{Kind: clip.KindText, Text: data})
	return nil
}

func writeRaw(inv *app.Invocation, data []byte) error {
	if err := writeFileAtomic(inv.Clipboard.RawDataPath(), data); err != nil {
		return err
	}
	return applyIgnoreToEntry(inv)
}

func joinSpace(items []string) string {
	var b bytes.Buffer
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item)
	}
	return b.String()
}

func absPaths(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		p, err := absPath(item)
		if err != nil {
			out = append(out, item)
			continue
		}
		out = append(out, p)
	}
	return out
}

