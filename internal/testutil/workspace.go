// Package testutil provides reusable test utilities for Roost integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestWorkspace represents a temporary workspace for testing.
type TestWorkspace struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestWorkspace creates a new test workspace builder.
// Call Build() to create the actual workspace directory.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the workspace.
// The path is relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// WithCatalog adds a spawn catalog file to the workspace.
func (w *TestWorkspace) WithCatalog(relPath, content string) *TestWorkspace {
	w.files[relPath] = content
	return w
}

// WithRoostYAML sets the roost.yaml content for the workspace.
func (w *TestWorkspace) WithRoostYAML(yaml string) *TestWorkspace {
	w.files["roost.yaml"] = yaml
	return w
}

// Build creates the workspace directory and all configured files.
// A roost.yaml marker is always written so commands recognize the
// directory as a workspace.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	w.Path = w.t.TempDir()

	if _, ok := w.files["roost.yaml"]; !ok {
		w.writeFile("roost.yaml", "")
	}

	for path, content := range w.files {
		w.writeFile(path, content)
	}

	return w
}

// writeFile writes a file to the workspace, creating directories as needed.
func (w *TestWorkspace) writeFile(relPath, content string) {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the workspace.
// Returns the content as a string.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the workspace.
func (w *TestWorkspace) FileExists(relPath string) bool {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, relPath)
	_, err := os.Stat(fullPath)
	return err == nil
}

// SampleCatalog returns a small catalog with root records, two folders,
// and both record kinds.
func SampleCatalog() string {
	return `bot spawn 1 Sentry 0 0 0 180
# arena
bot spawn 1 Goblin 10 0 5 90
bot spawn 1 Goblin 12 0 5 90
spawn 1 Torch 9 3 5 0 0 0
## props
spawn 1 Barrel 2 0 3 0 45 0
spawn 1 Crate 3 0 3 0 0 0
# hub
bot spawn 1 Guard 0 0 -4
`
}

// TypedRoostYAML returns a roost.yaml restricting entity types to a
// small allow-list.
func TypedRoostYAML() string {
	return `types:
  actors:
    - Goblin
    - Guard
    - Sentry
  props:
    - Barrel
    - Crate
    - Torch
`
}
