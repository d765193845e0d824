package actions

import (
	"os"
	"path/filepath"

	"github.com/berrythewa/clipman-daemon/internal/app"
	"github.com/berrythewa/clipman-daemon/internal/clip"
)

const exportDirName = "Exported_Clipboards"

// Export bulk-copies each named clipboard's whole tree into
// ./Exported_Clipboards/<name>, dropping the lock file from the copy since
// a lock is only ever meaningful for the live clipboard it was acquired in
// (spec §4.10 "Import/Export").
func Export(inv *app.Invocation, items []string) error {
	if len(items) == 0 {
		return app.NewUserError("export requires at least one clipboard name")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return app.WrapFatal(app.KindInternal, "resolving working directory", err)
	}
	outRoot := filepath.Join(cwd, exportDirName)

	for _, name := range items {
		if err := exportOne(inv, name, outRoot); err != nil {
			inv.Failed = append(inv.Failed, failedItem(name, err))
		}
	}
	return nil
}

func exportOne(inv *app.Invocation, name, outRoot string) error {
	if err := clip.ValidateName(name); err != nil {
		return err
	}
	root, err := clip.ClipboardRoot(name)
	if err != nil {
		return err
	}
	dest := filepath.Join(outRoot, name)
	if err := inv.Engine.CopyTree(root, dest); err != nil {
		return err
	}
	lockPath := filepath.Join(dest, "metadata", clip.LockFileName)
	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Import bulk-copies each named ./Exported_Clipboards/<name> tree back into
// the appropriate storage root, honoring the name-to-persistent mapping
// (an underscore in the name routes it under the persistent root).
func Import(inv *app.Invocation, items []string) error {
	if len(items) == 0 {
		return app.NewUserError("import requires at least one clipboard name")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return app.WrapFatal(app.KindInternal, "resolving working directory", err)
	}
	inRoot := filepath.Join(cwd, exportDirName)

	for _, name := range items {
		if err := importOne(inv, name, inRoot); err != nil {
			inv.Failed = append(inv.Failed, failedItem(name, err))
		}
	}
	return nil
}

func importOne(inv *app.Invocation, name, inRoot string) error {
	if err := clip.ValidateName(name); err != nil {
		return err
	}
	src := filepath.Join(inRoot, name)
	if _, err := os.Stat(src); err != nil {
		return err
	}
	dest, err := clip.ClipboardRoot(name)
	if err != nil {
		return err
	}
	return inv.Engine.CopyTree(src, dest)
}
