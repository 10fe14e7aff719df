// Package session owns the open/mutate/save lifecycle of one catalog file.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/roostlabs/roost/internal/atomicfile"
	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/config"
	"github.com/roostlabs/roost/internal/paths"
)

// ErrCatalogNotFound indicates the referenced catalog file does not exist.
var ErrCatalogNotFound = errors.New("catalog file not found")

// Session holds one open catalog file: its parsed records, the
// diagnostics from the parse, and enough file state to save it back
// atomically.
type Session struct {
	workspacePath string
	relPath       string
	absPath       string
	cat           *catalog.Catalog
	diagnostics   []catalog.Diagnostic
	mtime         int64
	existed       bool
}

// Open reads and parses relPath under workspacePath. A missing file
// opens as an empty catalog so the first mutation can create it.
func Open(workspacePath, relPath string) (*Session, error) {
	rel := paths.NormalizeRelPath(relPath)
	abs := filepath.Join(workspacePath, filepath.FromSlash(rel))
	if err := paths.ValidateWithinWorkspace(workspacePath, abs); err != nil {
		return nil, err
	}

	s := &Session{workspacePath: workspacePath, relPath: rel, absPath: abs}

	data, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		s.cat = catalog.New()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	if info, statErr := os.Stat(abs); statErr == nil {
		s.mtime = info.ModTime().Unix()
	}

	res := catalog.Parse(data)
	s.cat = catalog.FromParse(res)
	s.diagnostics = res.Diagnostics
	s.existed = true
	return s, nil
}

// OpenExisting is Open, but fails with ErrCatalogNotFound when the file
// does not exist.
func OpenExisting(workspacePath, relPath string) (*Session, error) {
	s, err := Open(workspacePath, relPath)
	if err != nil {
		return nil, err
	}
	if !s.existed {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, s.relPath)
	}
	return s, nil
}

// Resolve maps a catalog reference (named alias, bare name, or relative
// path) to a workspace-relative file path via the workspace config.
func Resolve(workspacePath string, wcfg *config.WorkspaceConfig, ref string) (string, error) {
	rel := paths.NormalizeRelPath(wcfg.ResolveCatalog(ref))
	abs := filepath.Join(workspacePath, filepath.FromSlash(rel))
	if err := paths.ValidateWithinWorkspace(workspacePath, abs); err != nil {
		return "", fmt.Errorf("catalog reference %q escapes the workspace: %w", ref, err)
	}
	return rel, nil
}

// OpenRef resolves ref through the workspace config and opens it.
func OpenRef(workspacePath string, wcfg *config.WorkspaceConfig, ref string) (*Session, error) {
	rel, err := Resolve(workspacePath, wcfg, ref)
	if err != nil {
		return nil, err
	}
	return Open(workspacePath, rel)
}

// Catalog returns the open catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.cat
}

// Diagnostics returns the skipped-line diagnostics from the last parse.
func (s *Session) Diagnostics() []catalog.Diagnostic {
	return s.diagnostics
}

// RelPath returns the workspace-relative slash-form file path.
func (s *Session) RelPath() string {
	return s.relPath
}

// AbsPath returns the absolute file path.
func (s *Session) AbsPath() string {
	return s.absPath
}

// Existed reports whether the file existed when the session opened.
func (s *Session) Existed() bool {
	return s.existed
}

// Mtime returns the file's modification time at open (Unix seconds),
// or 0 for a file that did not exist.
func (s *Session) Mtime() int64 {
	return s.mtime
}

// Save encodes the catalog and atomically replaces the file, copying
// the previous content into the backup directory first. Pass nil
// backups to skip the backup step.
func (s *Session) Save(backups *config.BackupConfig) error {
	data, err := s.cat.Encode()
	if err != nil {
		return err
	}

	if backups.IsEnabled() && s.existed {
		if err := s.writeBackup(backups); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.absPath), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := atomicfile.WriteFile(s.absPath, data, 0); err != nil {
		return err
	}

	if info, statErr := os.Stat(s.absPath); statErr == nil {
		s.mtime = info.ModTime().Unix()
	}
	s.existed = true
	// The file is canonical now; the parse diagnostics no longer
	// describe its content.
	s.diagnostics = nil
	return nil
}

func (s *Session) writeBackup(backups *config.BackupConfig) error {
	prev, err := os.ReadFile(s.absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read catalog for backup: %w", err)
	}

	// Backups mirror the catalog's directory layout under the backup dir.
	relDir := filepath.Dir(filepath.FromSlash(s.relPath))
	backupDir := filepath.Join(s.workspacePath, filepath.FromSlash(backups.Dir), relDir)
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	base := filepath.Base(s.relPath)
	name := base + "." + time.Now().Format("2006-01-02T15-04-05")
	backupPath := filepath.Join(backupDir, name)
	for i := 2; ; i++ {
		if _, statErr := os.Stat(backupPath); errors.Is(statErr, os.ErrNotExist) {
			break
		}
		backupPath = filepath.Join(backupDir, fmt.Sprintf("%s-%d", name, i))
	}

	if err := atomicfile.WriteFile(backupPath, prev, 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return pruneBackups(backupDir, base, backups.Keep)
}

// pruneBackups removes the oldest backups of base beyond keep. The
// timestamp suffix is zero-padded, so lexicographic order is age order.
func pruneBackups(dir, base string, keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), base+".") {
			names = append(names, entry.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
