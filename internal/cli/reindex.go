package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/index"
	"github.com/roostlabs/roost/internal/session"
	"github.com/roostlabs/roost/internal/ui"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Reindex all catalog files",
	Long: `Parses the workspace's catalog files and rebuilds the SQLite index.

The default run is incremental: only catalogs whose mtime changed since the
last index are re-parsed, and catalogs that disappeared from disk are dropped
from the index. --full clears the index and rebuilds it from scratch.

Examples:
  # Incremental reindex (changed and deleted files only)
  roost reindex

  # Rebuild the entire index
  roost reindex --full

  # Report what would change without touching the index
  roost reindex --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath := getWorkspacePath()
		ctx := cmd.Context()
		fullReindex, _ := cmd.Flags().GetBool("full")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		incremental := !fullReindex

		if !jsonOutput && !dryRun {
			verb := "Reindexing"
			if fullReindex {
				verb = "Full reindexing"
			}
			fmt.Printf("%s workspace: %s\n", verb, ui.FilePath(workspacePath))
		}

		wcfg, err := loadWorkspaceConfigSafe(workspacePath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix roost.yaml and try again")
		}

		db, wasRebuilt, err := index.OpenWithRebuild(workspacePath)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		if wasRebuilt {
			// A schema bump invalidates mtime bookkeeping along with
			// everything else, so incremental would miss files.
			incremental = false
			if !jsonOutput {
				fmt.Println(ui.Info("Index schema was outdated - performing full reindex."))
			}
		}

		if !incremental && !dryRun {
			if err := db.ClearAllData(); err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
		}

		var (
			indexed, upToDate, failed int
			failures                  []string
			staleFiles                []string
			deletedFiles              []string
		)

		// Deleted catalogs first, so their records never shadow a rename.
		if incremental {
			if dryRun {
				deletedFiles = probeDeletedFiles(db, workspacePath)
			} else {
				deletedFiles, err = db.RemoveDeletedFiles(workspacePath)
				if err != nil && !jsonOutput {
					fmt.Fprintf(os.Stderr, "Warning: could not drop deleted files from the index: %v\n", err)
				}
				if len(deletedFiles) > 0 && !jsonOutput {
					fmt.Println(ui.Infof("Removed %d deleted files from index", len(deletedFiles)))
				}
			}
		}

		var spinner *ui.Spinner
		if !jsonOutput && !dryRun {
			spinner = ui.NewSpinner("Indexing catalogs")
			spinner.Start()
		}

		walkErr := session.WalkCatalogFiles(workspacePath, wcfg.GetPatterns(), func(result session.WalkResult) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if result.Error != nil {
				if !jsonOutput {
					fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", result.RelativePath, result.Error)
				}
				failures = append(failures, fmt.Sprintf("%s: %v", result.RelativePath, result.Error))
				failed++
				return nil
			}

			if incremental {
				indexedMtime, err := db.FileMtime(result.RelativePath)
				if err == nil && indexedMtime > 0 && result.FileMtime <= indexedMtime {
					upToDate++
					return nil
				}
				staleFiles = append(staleFiles, result.RelativePath)
			}

			if dryRun {
				if !jsonOutput {
					fmt.Printf("  Would reindex: %s\n", result.RelativePath)
				}
				indexed++
				return nil
			}

			if err := db.IndexParse(result.RelativePath, result.FileMtime, result.Result); err != nil {
				if !jsonOutput {
					fmt.Fprintf(os.Stderr, "Error indexing %s: %v\n", result.RelativePath, err)
				}
				failures = append(failures, fmt.Sprintf("%s: %v", result.RelativePath, err))
				failed++
				return nil
			}

			indexed++
			return nil
		})

		if spinner != nil {
			spinner.Stop()
		}
		if walkErr != nil {
			return handleError(ErrInternal, walkErr, "")
		}

		// Refresh query planner statistics after bulk writes.
		if !dryRun && indexed > 0 {
			if err := db.Analyze(); err != nil && !jsonOutput {
				fmt.Fprintf(os.Stderr, "Warning: failed to analyze database: %v\n", err)
			}
		}

		stats, err := db.Stats()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if jsonOutput {
			data := map[string]interface{}{
				"files_indexed":  indexed,
				"files_skipped":  upToDate,
				"files_deleted":  len(deletedFiles),
				"records":        stats.RecordCount,
				"folders":        stats.FolderCount,
				"schema_rebuilt": wasRebuilt,
				"incremental":    incremental,
				"dry_run":        dryRun,
				"errors":         failures,
			}
			if incremental {
				data["stale_files"] = staleFiles
				data["deleted_files"] = deletedFiles
			}
			outputSuccess(data, nil)
			return nil
		}

		if dryRun {
			if incremental {
				fmt.Printf("\nDry run: %d files would be reindexed, %d deleted, %d up-to-date\n",
					indexed, len(deletedFiles), upToDate)
			} else {
				fmt.Printf("\nDry run: %d files would be reindexed\n", indexed)
			}
			return nil
		}

		fmt.Println()
		switch {
		case incremental && len(deletedFiles) > 0:
			fmt.Println(ui.Checkf("Indexed %d changed files, removed %d deleted %s",
				indexed, len(deletedFiles), ui.Hint(fmt.Sprintf("(%d up-to-date)", upToDate))))
		case incremental && upToDate > 0:
			fmt.Println(ui.Checkf("Indexed %d changed files %s",
				indexed, ui.Hint(fmt.Sprintf("(%d up-to-date)", upToDate))))
		default:
			fmt.Println(ui.Checkf("Indexed %d files", indexed))
		}
		fmt.Printf("  %s records\n", ui.Bold.Render(fmt.Sprintf("%d", stats.RecordCount)))
		fmt.Printf("  %s folders\n", ui.Bold.Render(fmt.Sprintf("%d", stats.FolderCount)))
		if stats.DiagnosticCount > 0 {
			fmt.Printf("  %s\n", ui.Warningf("%d skipped lines (run 'roost check')", stats.DiagnosticCount))
		}
		if failed > 0 {
			fmt.Printf("  %s\n", ui.Errorf("%d errors", failed))
		}

		return nil
	},
}

// probeDeletedFiles reports indexed catalogs that no longer exist on disk,
// without mutating the index.
func probeDeletedFiles(db *index.Database, workspacePath string) []string {
	indexedPaths, err := db.AllIndexedFilePaths()
	if err != nil {
		if !jsonOutput {
			fmt.Fprintf(os.Stderr, "Warning: failed to check for deleted files: %v\n", err)
		}
		return nil
	}

	var deleted []string
	for _, relPath := range indexedPaths {
		fullPath := filepath.Join(workspacePath, filepath.FromSlash(relPath))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			deleted = append(deleted, relPath)
			if !jsonOutput {
				fmt.Printf("  Would remove (deleted): %s\n", relPath)
			}
		}
	}
	return deleted
}

func init() {
	rootCmd.AddCommand(reindexCmd)
	reindexCmd.Flags().Bool("full", false, "Clear the index and re-parse every catalog")
	reindexCmd.Flags().Bool("dry-run", false, "Report what would change without touching the index")
}
