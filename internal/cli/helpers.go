package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/config"
	"github.com/roostlabs/roost/internal/index"
	"github.com/roostlabs/roost/internal/session"
)

// loadWorkspaceConfigSafe loads the workspace config.
// Returns an error if roost.yaml exists but is invalid.
func loadWorkspaceConfigSafe(workspacePath string) (*config.WorkspaceConfig, error) {
	wcfg, err := config.LoadWorkspaceConfig(workspacePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load roost.yaml: %w", err)
	}
	if wcfg == nil {
		return config.DefaultWorkspaceConfig(), nil
	}
	return wcfg, nil
}

// openSession resolves a catalog reference and opens it, creating an empty
// in-memory catalog when the file does not exist yet.
func openSession(ref string, wcfg *config.WorkspaceConfig) (*session.Session, error) {
	return session.OpenRef(getWorkspacePath(), wcfg, ref)
}

// openExistingSession resolves a catalog reference and opens it, failing when
// the file does not exist.
func openExistingSession(ref string, wcfg *config.WorkspaceConfig) (*session.Session, error) {
	relPath, err := session.Resolve(getWorkspacePath(), wcfg, ref)
	if err != nil {
		return nil, err
	}
	return session.OpenExisting(getWorkspacePath(), relPath)
}

// parseSelector splits a "<folder-path>:<order>" selector. The folder part
// may itself contain colons in theory, so the split is on the last colon.
func parseSelector(s string) (catalog.Path, int, error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return nil, 0, fmt.Errorf("selector %q must have the form <folder-path>:<order>", s)
	}
	order, err := strconv.Atoi(s[idx+1:])
	if err != nil || order < 0 {
		return nil, 0, fmt.Errorf("selector %q has an invalid order (want a non-negative integer)", s)
	}
	return catalog.ParsePath(s[:idx]), order, nil
}

// findRecord looks up a record by selector in an open catalog.
func findRecord(cat *catalog.Catalog, selector string) (*catalog.Record, error) {
	path, order, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	rec := cat.Find(path, order)
	if rec == nil {
		return nil, fmt.Errorf("no record at %q", selector)
	}
	return rec, nil
}

// maybeReindex refreshes the index entry for a just-saved catalog if
// auto-reindex is enabled in the workspace config.
// Errors are logged but not returned (best-effort reindexing).
func maybeReindex(sess *session.Session, wcfg *config.WorkspaceConfig) {
	if wcfg == nil || !wcfg.IsAutoReindexEnabled() {
		return
	}
	if err := reindexSavedCatalog(sess); err != nil {
		if !isJSONOutput() {
			fmt.Printf("  (reindex failed: %v)\n", err)
		}
	}
}

// reindexSavedCatalog writes the session's canonical state into the index.
func reindexSavedCatalog(sess *session.Session) error {
	db, err := index.Open(getWorkspacePath())
	if err != nil {
		return err
	}
	defer db.Close()
	return db.IndexCatalog(sess.RelPath(), sess.Mtime(), sess.Catalog())
}

// diagnosticWarnings converts parse diagnostics into response warnings.
func diagnosticWarnings(relPath string, diags []catalog.Diagnostic) []Warning {
	if len(diags) == 0 {
		return nil
	}
	warnings := make([]Warning, 0, len(diags))
	for _, d := range diags {
		warnings = append(warnings, Warning{
			Code:    WarnSkippedLine,
			Message: fmt.Sprintf("line %d skipped (%s): %s", d.Line, d.Reason, d.Text),
			File:    relPath,
			Line:    d.Line,
		})
	}
	return warnings
}

// printDiagnostics reports skipped lines in text mode.
func printDiagnostics(relPath string, diags []catalog.Diagnostic) {
	for _, d := range diags {
		fmt.Printf("  %s:%d skipped (%s): %s\n", relPath, d.Line, d.Reason, d.Text)
	}
}
