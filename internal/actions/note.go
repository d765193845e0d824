package actions

import (
	"fmt"
	"os"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// Note implements spec §4.10 "Note": no items prints the current note,
// one item sets it (an empty string deletes it), more than one is a user
// error.
func Note(inv *app.Invocation, items []string) error {
	path := clip.Notes(inv.Clipboard.MetadataDir)
	switch len(items) {
	case 0:
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return app.WrapFatal(app.KindInternal, "reading note", err)
		}
		fmt.Fprintln(inv.TTY.Out, string(data))
		return nil
	case 1:
		if items[0] == "" {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return app.WrapFatal(app.KindInternal, "deleting note", err)
			}
			return nil
		}
		return writeFileAtomic(path, []byte(items[0]))
	default:
		return app.NewUserError("note accepts at most one item")
	}
}
