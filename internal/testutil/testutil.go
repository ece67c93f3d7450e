// Package testutil provides sandboxed file and config helpers for mixdl tests.
package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// TestEnv is a temporary directory that refuses paths escaping it.
// It is removed when the test completes.
type TestEnv struct {
	tb   testing.TB
	root string
}

func NewTestEnv(tb testing.TB) *TestEnv {
	tb.Helper()
	return &TestEnv{tb: tb, root: tb.TempDir()}
}

func (e *TestEnv) RootDir() string {
	return e.root
}

// Path joins elem below the root and fails the test if the result escapes it.
func (e *TestEnv) Path(elem ...string) string {
	e.tb.Helper()

	p := filepath.Join(append([]string{e.root}, elem...)...)
	if p != e.root && !strings.HasPrefix(p, e.root+string(filepath.Separator)) {
		e.tb.Fatalf("path %q escapes test sandbox %q", p, e.root)
	}
	return p
}

// WriteFileString writes content below the root, creating parent directories.
func (e *TestEnv) WriteFileString(path, content string) {
	e.tb.Helper()

	p := e.Path(path)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		e.tb.Fatalf("mkdir for %s: %v", p, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		e.tb.Fatalf("write %s: %v", p, err)
	}
}

func (e *TestEnv) ReadFile(path string) []byte {
	e.tb.Helper()

	data, err := os.ReadFile(e.Path(path))
	if err != nil {
		e.tb.Fatalf("read %s: %v", path, err)
	}
	return data
}

func (e *TestEnv) ReadFileString(path string) string {
	e.tb.Helper()
	return string(e.ReadFile(path))
}

func (e *TestEnv) MkdirAll(path string) {
	e.tb.Helper()
	if err := os.MkdirAll(e.Path(path), 0o755); err != nil {
		e.tb.Fatalf("mkdir %s: %v", path, err)
	}
}

func (e *TestEnv) FileExists(path string) bool {
	e.tb.Helper()
	_, err := os.Stat(e.Path(path))
	return err == nil
}

// ListFiles returns the sorted entry names of a directory, lock files included.
func (e *TestEnv) ListFiles(path string) []string {
	e.tb.Helper()

	entries, err := os.ReadDir(e.Path(path))
	if err != nil {
		e.tb.Fatalf("list %s: %v", path, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names
}

// Chdir moves into path for the rest of the test. Tests using it cannot
// run in parallel.
func (e *TestEnv) Chdir(path string) {
	e.tb.Helper()
	e.tb.Chdir(e.Path(path))
}

// SetEnv sets an environment variable until the test ends.
func (e *TestEnv) SetEnv(key, value string) {
	e.tb.Helper()
	e.tb.Setenv(key, value)
}
