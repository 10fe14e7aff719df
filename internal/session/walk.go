package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/paths"
)

// WalkResult contains the result of processing one catalog file.
type WalkResult struct {
	Path         string
	RelativePath string
	Result       *catalog.ParseResult
	FileMtime    int64 // File modification time as Unix timestamp
	Error        error
}

// WalkCatalogFiles walks every catalog file under workspacePath and
// calls the handler for each. It automatically:
//   - Skips hidden directories (.roost, .git, ...)
//   - Only processes files whose base name matches one of the patterns
//     (default *.spawn)
//   - Verifies files are within the workspace (security check)
//   - Parses each file
func WalkCatalogFiles(workspacePath string, patterns []string, handler func(result WalkResult) error) error {
	if len(patterns) == 0 {
		patterns = []string{"*.spawn"}
	}
	root := filepath.Clean(workspacePath)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			relativePath, _ := filepath.Rel(root, path)
			return handler(WalkResult{
				Path:         path,
				RelativePath: filepath.ToSlash(relativePath),
				Error:        err,
			})
		}

		if d.IsDir() {
			// The workspace root itself may be a dot directory.
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchesAny(patterns, d.Name()) {
			return nil
		}

		// Security: verify file is within the workspace
		if err := paths.ValidateWithinWorkspace(root, path); err != nil {
			if errors.Is(err, paths.ErrPathOutsideWorkspace) {
				return nil
			}
			relativePath, _ := filepath.Rel(root, path)
			return handler(WalkResult{
				Path:         path,
				RelativePath: filepath.ToSlash(relativePath),
				Error:        err,
			})
		}

		relativePath, _ := filepath.Rel(root, path)
		rel := filepath.ToSlash(relativePath)

		info, err := d.Info()
		if err != nil {
			return handler(WalkResult{Path: path, RelativePath: rel, Error: err})
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return handler(WalkResult{Path: path, RelativePath: rel, Error: err})
		}

		return handler(WalkResult{
			Path:         path,
			RelativePath: rel,
			Result:       catalog.Parse(content),
			FileMtime:    info.ModTime().Unix(),
		})
	})
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
