package actions

import (
	"os"
	"regexp"

	"github.com/berrythewa/clipman-daemon/internal/app"
)

// Remove branches on the current entry's content kind — the spec's
// text-mode/file-mode split for this action is a content-kind decision,
// not an I/O-mode one, so the dispatch table routes both ModeText and
// ModePipe here.
func Remove(inv *app.Invocation, items []string) error {
	holdsRaw, err := inv.Clipboard.HoldsRawData()
	if err != nil {
		return err
	}
	if holdsRaw {
		return RemoveText(inv, items)
	}
	return RemoveFile(inv, items)
}

// RemoveText regex-replaces every match against the current entry's raw
// text with nothing. An item that fails to compile as a regex is a fatal
// user error; a regex that matches nothing across all items is also fatal
// (spec §4.10 "Remove ... if nothing matches: error exit").
func RemoveText(inv *app.Invocation, items []string) error {
	if len(items) == 0 {
		return app.NewUserError("remove requires at least one pattern")
	}
	regexes, err := compileAll(items)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inv.Clipboard.RawDataPath())
	if err != nil {
		return app.WrapFatal(app.KindInternal, "reading clipboard content", err)
	}

	matched := false
	for _, re := range regexes {
		if re.Match(data) {
			matched = true
		}
		data = re.ReplaceAll(data, nil)
	}
	if !matched {
		return app.NewUserError("no match for any given pattern")
	}
	if err := writeFileAtomic(inv.Clipboard.RawDataPath(), data); err != nil {
		return err
	}
	return nil
}

// RemoveFile removes every direct child of the current entry whose name
// matches any of the given regexes.
func RemoveFile(inv *app.Invocation, items []string) error {
	if len(items) == 0 {
		return app.NewUserError("remove requires at least one pattern")
	}
	regexes, err := compileAll(items)
	if err != nil {
		return err
	}

	dir := inv.Clipboard.CurrentEntryDir()
	children, err := os.ReadDir(dir)
	if err != nil {
		return app.WrapFatal(app.KindInternal, "reading entry directory", err)
	}

	removed := 0
	for _, child := range children {
		name := child.Name()
		for _, re := range regexes {
			if re.MatchString(name) {
				if err := os.RemoveAll(dir + string(os.PathSeparator) + name); err != nil {
					inv.Failed = append(inv.Failed, failedItem(name, err))
					continue
				}
				removed++
				break
			}
		}
	}
	if removed == 0 {
		return app.NewUserError("no entry matched any given pattern")
	}
	return nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, app.NewUserError("invalid pattern %q: %v", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
