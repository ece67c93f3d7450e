package fileutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// UnknownSetName is used when a mix has no usable title.
const UnknownSetName = "Unknown_Set"

var (
	// setNameStrip keeps letters, digits, underscore, whitespace and hyphen.
	setNameStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

	filenameReplacer = strings.NewReplacer(
		":", " -",
		"/", "-",
		"\\", "-",
		"<", "",
		">", "",
		"|", "-",
		"?", "",
		"*", "",
		"\"", "'",
	)
)

// SanitizeFilename cleans a filename by replacing characters that are
// invalid on common filesystems.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(name)
	name = filenameReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	return strings.Trim(strings.TrimSpace(name), ".")
}

// SetFolderName turns a mix title into the folder name used for its tracks.
func SetFolderName(title string) string {
	name := setNameStrip.ReplaceAllString(norm.NFC.String(title), "")
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return UnknownSetName
	}
	return name
}

// FileExists checks if a regular file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EnsureDir creates dir and its parents. It succeeds if dir already exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", dir)
	}
	return nil
}

// WriteJSONFile writes data as indented JSON, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped.
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("JSON file already exists, skipping", "filename", filePath)
		return false, nil
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return false, err
	}

	slog.Debug("Writing JSON file", "filename", filePath)
	if err := os.WriteFile(filePath, jsonData, 0o644); err != nil {
		return false, fmt.Errorf("failed to write JSON file: %w", err)
	}
	return true, nil
}
