package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/index"
	"github.com/roostlabs/roost/internal/ui"
	"github.com/roostlabs/roost/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace for changes and auto-reindex",
	Long: `Runs in the foreground and reindexes catalogs as they are saved.

Files matching the roost.yaml patterns (default *.spawn) are watched across
the whole workspace tree, except inside dot-directories like .roost/ and
.git/. Rapid saves are debounced so each file is parsed once, and deleted
files are dropped from the index.

Examples:
  # Watch the default workspace
  roost watch

  # Watch with debug output
  roost watch --debug

  # Watch a specific workspace
  roost watch --workspace-path /path/to/workspace`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		workspacePath := getWorkspacePath()

		wcfg, err := loadWorkspaceConfigSafe(workspacePath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix roost.yaml and try again")
		}

		db, err := index.Open(workspacePath)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		w, err := watcher.New(watcher.Config{
			WorkspacePath: workspacePath,
			Database:      db,
			Patterns:      wcfg.GetPatterns(),
			Debug:         debug,
			OnReindex: func(path string, err error) {
				if err != nil {
					fmt.Fprintln(os.Stderr, ui.Errorf("reindex %s: %v", path, err))
				} else if debug {
					fmt.Printf("Reindexed: %s\n", path)
				}
			},
		})
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching workspace: %s\n", ui.FilePath(workspacePath))
		fmt.Println("Press Ctrl+C to stop")

		err = w.Start(ctx)
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nWatcher stopped.")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("debug", false, "Enable debug logging")
}
