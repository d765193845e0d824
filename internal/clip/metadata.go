package clip

import (
	"os"
	"path/filepath"
	"strings"
)

// Metadata file names, one concern per file (spec §3).
const (
	OriginalsFileName = "originals"
	NotesFileName     = "notes"
	IgnoreFileName    = "ignore"
	MimeFileName      = "mime"
	ScriptFileName    = "script"
)

// ReadLines reads a metadata file as LF-separated lines, dropping blank
// lines, or returns an empty slice if the file doesn't exist.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimRight(l, "\r"); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// WriteLines writes lines LF-separated, overwriting the file, or removes the
// file entirely if lines is empty.
func WriteLines(path string, lines []string) error {
	if len(lines) == 0 {
		err := os.Remove(path)
		if err != nil && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// AppendLine appends a single line to a metadata file, creating it if
// necessary.
func AppendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	return err
}

// Originals returns the metadata/originals path for a clipboard's metadata
// directory.
func Originals(metadataDir string) string { return filepath.Join(metadataDir, OriginalsFileName) }

// Notes returns the metadata/notes path.
func Notes(metadataDir string) string { return filepath.Join(metadataDir, NotesFileName) }

// IgnoreFile returns the metadata/ignore path.
func IgnoreFile(metadataDir string) string { return filepath.Join(metadataDir, IgnoreFileName) }

// MimeFile returns the metadata/mime path.
func MimeFile(metadataDir string) string { return filepath.Join(metadataDir, MimeFileName) }

// ScriptFile returns the metadata/script path.
func ScriptFile(metadataDir string) string { return filepath.Join(metadataDir, ScriptFileName) }
