// Package utils holds small stdlib-only helpers shared across the clipboard
// store, the copy engine, and the action routines.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ExpandPath expands a leading ~ to the user's home directory and resolves
// the result to an absolute path.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = homeDir
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	return absPath, nil
}

// EnsureDir creates a directory (and its parents) if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// HashContent returns a hex-encoded SHA-256 digest, used by the search index
// to recognize identical content without comparing full payloads.
func HashContent(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Truthy reports whether an environment variable value should be treated as
// "on", per the spec's truthy vocabulary: 1 true yes y on enabled
// (case-insensitive). Anything else, including an empty string, is false.
func Truthy(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y", "on", "enabled":
		return true
	default:
		return false
	}
}

// EnvTruthy looks up name in the environment and reports Truthy(val).
func EnvTruthy(name string) bool {
	return Truthy(os.Getenv(name))
}

// GetHostname returns the machine's hostname, or "unknown-host" if it can't
// be determined.
func GetHostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "unknown-host"
	}
	return name
}
