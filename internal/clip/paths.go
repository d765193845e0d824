// Package clip implements the on-disk clipboard store: path resolution, the
// entry-history index, the cross-process lock, and the Clipboard/Entry
// lifecycle described by the clipboard store component of the spec.
//
// Grounded on internal/config/config.go's GetConfigPaths (env-var-first
// resolution order, per-OS switch on runtime.GOOS).
package clip

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/berrythewa/clipman-daemon/pkg/utils"
)

// tempDirName and persistDirName are the directory names the temporary and
// persistent roots are suffixed with.
const tempDirName = "Clipboard"
const persistDirName = ".clipboard"

// ErrInvalidName is returned when a clipboard name is rejected outright.
var ErrInvalidName = errors.New("invalid clipboard name")

// forbiddenNameChars mirrors the characters rejected across Windows, macOS
// and Linux filesystems; rejecting the union is simpler and safer than
// special-casing per OS.
const forbiddenNameChars = `<>:"/\|?*`

var reservedWindowsNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidateName rejects clipboard names containing forbidden filename
// characters or matching a reserved Windows device name, independent of the
// host OS (the spec treats rejection as a portable, not per-OS, concern).
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, forbiddenNameChars) {
		return fmt.Errorf("%w: %q contains a forbidden character", ErrInvalidName, name)
	}
	upper := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
	if reservedWindowsNames[upper] {
		return fmt.Errorf("%w: %q is a reserved device name", ErrInvalidName, name)
	}
	return nil
}

// IsPersistentName reports whether a bare clipboard name (selector suffix
// already stripped) denotes a persistent clipboard: it contains an
// underscore, or CLIPBOARD_ALWAYS_PERSIST is truthy.
func IsPersistentName(name string) bool {
	if strings.Contains(name, "_") {
		return true
	}
	return utils.EnvTruthy("CLIPBOARD_ALWAYS_PERSIST")
}

// TempRoot resolves the temporary storage root: CLIPBOARD_TMPDIR ->
// XDG_RUNTIME_DIR -> os.TempDir(), each suffixed with "Clipboard".
func TempRoot() (string, error) {
	if v := os.Getenv("CLIPBOARD_TMPDIR"); v != "" {
		return filepath.Join(v, tempDirName), nil
	}
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return filepath.Join(v, tempDirName), nil
	}
	return filepath.Join(os.TempDir(), tempDirName), nil
}

// PersistentRoot resolves the persistent storage root: CLIPBOARD_PERSISTDIR
// -> XDG_STATE_HOME -> $HOME/$USERPROFILE, each suffixed with ".clipboard".
func PersistentRoot() (string, error) {
	if v := os.Getenv("CLIPBOARD_PERSISTDIR"); v != "" {
		return filepath.Join(v, persistDirName), nil
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, persistDirName), nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving persistent root: %w", err)
		}
	}
	return filepath.Join(home, persistDirName), nil
}

// ClipboardRoot returns the directory a clipboard of the given bare name
// lives under, creating the parent root (temp or persistent) if needed. The
// name must already be validated by ValidateName.
func ClipboardRoot(name string) (string, error) {
	var (
		root string
		err  error
	)
	if IsPersistentName(name) {
		root, err = PersistentRoot()
	} else {
		root, err = TempRoot()
	}
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(root); err != nil {
		return "", fmt.Errorf("creating clipboard root %s: %w", root, err)
	}
	return filepath.Join(root, name), nil
}

// AllRoots returns both storage roots, used by clear --all and search
// --all, which walk every clipboard on disk.
func AllRoots() ([]string, error) {
	temp, err := TempRoot()
	if err != nil {
		return nil, err
	}
	persist, err := PersistentRoot()
	if err != nil {
		return nil, err
	}
	return []string{temp, persist}, nil
}

func dataDir(root string) string     { return filepath.Join(root, "data") }
func metadataDir(root string) string { return filepath.Join(root, "metadata") }

func isWindows() bool { return runtime.GOOS == "windows" }
