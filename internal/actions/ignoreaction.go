package actions

import (
	"fmt"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/ignore"
)

// Ignore lists the current clipboard's ignore patterns with no items,
// replaces the pattern list with items otherwise, validating each as a
// syntactically correct regex before persisting any of them (spec §4.10
// "Ignore"). A single empty-string item clears the list.
func Ignore(inv *app.Invocation, items []string) error {
	if len(items) == 0 {
		for _, p := range inv.Ignore.Patterns() {
			fmt.Fprintln(inv.TTY.Out, p)
		}
		return nil
	}
	if len(items) == 1 && items[0] == "" {
		if err := ignore.Clear(inv.Clipboard.MetadataDir); err != nil {
			return app.WrapFatal(app.KindInternal, "clearing ignore list", err)
		}
		inv.Ignore, _ = ignore.Load(inv.Clipboard.MetadataDir)
		return nil
	}

	filt, err := ignore.Set(inv.Clipboard.MetadataDir, items)
	if err != nil {
		return app.NewUserError("%v", err)
	}
	inv.Ignore = filt
	return nil
}
