package actions

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
)

// History with no items lists every entry with its age formatted as
// "Ny Nd Nh Nm Ns". With items, each is parsed as a positional entry
// number and re-promoted: copied into a fresh new entry (spec §4.10
// "History").
func History(inv *app.Invocation, items []string) error {
	if len(items) == 0 {
		return listHistory(inv)
	}
	for _, item := range items {
		n, err := strconv.ParseUint(item, 10, 64)
		if err != nil {
			inv.Failed = append(inv.Failed, failedItem(item, app.NewUserError("not an entry number: %q", item)))
			continue
		}
		if err := promoteEntry(inv, n); err != nil {
			inv.Failed = append(inv.Failed, failedItem(item, err))
		}
	}
	return nil
}

func listHistory(inv *app.Invocation) error {
	for _, n := range inv.Clipboard.Index.Entries() {
		dir := inv.Clipboard.Index.EntryDir(n)
		info, err := os.Stat(dir)
		age := "unknown"
		if err == nil {
			age = formatAge(time.Since(info.ModTime()))
		}
		fmt.Fprintf(inv.TTY.Out, "%d\t%s\n", n, age)
	}
	return nil
}

func promoteEntry(inv *app.Invocation, n uint64) error {
	if !inv.Clipboard.Index.Has(n) {
		return app.NewUserError("no entry %d", n)
	}
	srcDir := inv.Clipboard.Index.EntryDir(n)
	children, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}
	destDir, err := inv.Clipboard.MakeNewEntry()
	if err != nil {
		return err
	}
	for _, c := range children {
		inv.Engine.CopyItem(srcDir+string(os.PathSeparator)+c.Name(), destDir, inv.Clipboard.MetadataDir, clip.ActionCopy)
	}
	return nil
}

// formatAge renders a duration as "Ny Nd Nh Nm Ns", dropping leading
// zero-valued units (so a five-second-old entry prints just "5s").
func formatAge(d time.Duration) string {
	years := int(d.Hours() / (24 * 365))
	d -= time.Duration(years) * 365 * 24 * time.Hour
	days := int(d.Hours() / 24)
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d.Hours())
	d -= time.Duration(hours) * time.Hour
	minutes := int(d.Minutes())
	d -= time.Duration(minutes) * time.Minute
	seconds := int(d.Seconds())

	units := []struct {
		n int
		s string
	}{{years, "y"}, {days, "d"}, {hours, "h"}, {minutes, "m"}, {seconds, "s"}}

	out := ""
	started := false
	for _, u := range units {
		if !started && u.n == 0 {
			continue
		}
		started = true
		out += fmt.Sprintf("%d%s ", u.n, u.s)
	}
	if out == "" {
		return "0s"
	}
	return out[:len(out)-1]
}
