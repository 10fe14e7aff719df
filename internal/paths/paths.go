// Package paths provides canonical helpers for workspace-relative catalog
// paths (e.g. "maps/arena.spawn").
//
// It centralizes normalization and containment checks so that CLI
// operations, indexing, and watching stay consistent.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathOutsideWorkspace is returned when a path escapes the workspace root.
var ErrPathOutsideWorkspace = errors.New("path is outside the workspace")

// NormalizeRelPath normalizes a workspace-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func NormalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// ValidateWithinWorkspace checks that candidate resolves to a location under
// workspacePath. Both arguments may be relative; they are compared after
// conversion to absolute form.
func ValidateWithinWorkspace(workspacePath, candidate string) error {
	absRoot, err := filepath.Abs(workspacePath)
	if err != nil {
		return fmt.Errorf("resolve workspace path: %w", err)
	}
	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return fmt.Errorf("resolve candidate path: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absCandidate)
	if err != nil {
		return ErrPathOutsideWorkspace
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrPathOutsideWorkspace
	}
	return nil
}

// IsHiddenPath reports whether any segment of a workspace-relative path
// starts with a dot. Hidden trees (.roost, .git) are skipped during
// discovery and watching.
func IsHiddenPath(rel string) bool {
	for _, segment := range strings.Split(NormalizeRelPath(rel), "/") {
		if strings.HasPrefix(segment, ".") && segment != "." {
			return true
		}
	}
	return false
}
