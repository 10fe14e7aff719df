package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/index"
	"github.com/roostlabs/roost/internal/ui"
)

// StatsResult is the JSON shape of the stats command.
type StatsResult struct {
	FileCount       int `json:"file_count"`
	RecordCount     int `json:"record_count"`
	ActorCount      int `json:"actor_count"`
	PropCount       int `json:"prop_count"`
	FolderCount     int `json:"folder_count"`
	DiagnosticCount int `json:"diagnostic_count"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Long: `Displays statistics about the workspace index.

Examples:
  roost stats
  roost stats --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath := getWorkspacePath()
		start := time.Now()

		db, err := index.Open(workspacePath)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'roost reindex' to rebuild the index")
		}
		defer db.Close()

		stats, err := db.Stats()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccess(StatsResult{
				FileCount:       stats.FileCount,
				RecordCount:     stats.RecordCount,
				ActorCount:      stats.ActorCount,
				PropCount:       stats.PropCount,
				FolderCount:     stats.FolderCount,
				DiagnosticCount: stats.DiagnosticCount,
			}, &Meta{QueryTimeMs: elapsed})
			return nil
		}

		rows := []struct {
			label string
			n     int
		}{
			{"Catalogs", stats.FileCount},
			{"Records", stats.RecordCount},
			{"  actors", stats.ActorCount},
			{"  props", stats.PropCount},
			{"Folders", stats.FolderCount},
			{"Diagnostics", stats.DiagnosticCount},
		}

		fmt.Println(ui.Header("Workspace Statistics"))
		for _, row := range rows {
			label := fmt.Sprintf("%-12s", row.label+":")
			fmt.Printf("%s  %s\n", ui.Muted.Render(label), ui.Accent.Render(fmt.Sprintf("%d", row.n)))
		}

		if stats.FileCount == 0 {
			fmt.Println()
			fmt.Println(ui.Hint("Empty index. Run 'roost reindex' to scan the workspace."))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
