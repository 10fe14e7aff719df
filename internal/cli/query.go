package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/index"
	"github.com/roostlabs/roost/internal/session"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	queryIDs   bool
	queryLimit int
)

var queryCmd = &cobra.Command{
	Use:   "query <expr>...",
	Short: "Query indexed records across catalogs",
	Long: `Query the workspace index with filter tokens:

  kind:actor|prop     record kind, | for OR
  type:<glob>         entity type glob, repeatable (ORed)
  folder:<prefix>     folder and everything under it
  catalog:<name>      one catalog, by name or relative path
  <bare-token>        shorthand for type:<token>

--ids prints bare selectors, one per line, for piping into other
commands scoped to the same catalog.

Examples:
  roost query kind:actor
  roost query "type:Goblin*" folder:arena
  roost query catalog:arena kind:prop --ids`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath := getWorkspacePath()
		start := time.Now()

		filter, err := index.ParseQuery(args)
		if err != nil {
			return handleError(ErrQueryInvalid, err, "See 'roost query --help' for the filter forms")
		}
		filter.Limit = queryLimit

		wcfg, err := loadWorkspaceConfigSafe(workspacePath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		// catalog:<name> arrives unresolved; map it to the indexed
		// workspace-relative path.
		if filter.File != "" {
			filter.File, err = session.Resolve(workspacePath, wcfg, filter.File)
			if err != nil {
				return handleError(ErrCatalogNotFound, err, "")
			}
		}

		db, err := index.Open(workspacePath)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'roost reindex' to rebuild the index")
		}
		defer db.Close()

		results, err := db.QueryRecords(filter)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			out := make([]map[string]interface{}, 0, len(results))
			for _, r := range results {
				out = append(out, queryResultJSON(r))
			}
			outputSuccess(map[string]interface{}{"records": out}, &Meta{Count: len(results), QueryTimeMs: elapsed})
			return nil
		}

		if queryIDs {
			for _, r := range results {
				fmt.Println(r.Selector())
			}
			return nil
		}

		if len(results) == 0 {
			fmt.Println(ui.Info("No records match."))
			if stats, err := db.Stats(); err == nil && stats.FileCount == 0 {
				fmt.Println(ui.Hint("The index is empty. Run 'roost reindex' to scan the workspace."))
			}
			return nil
		}

		fmt.Printf("%s  %s\n\n", ui.SectionHeader("query results"), ui.Count(len(results), "record", "records"))

		display := ui.NewDisplayContext()
		table := ui.NewRecordsTable(display, ui.QueryLayout)
		for i, r := range results {
			table.AddRow(ui.RecordRow{
				Num: i + 1,
				Cells: []string{
					ui.FormatRowNum(i+1, len(results)),
					r.FilePath,
					r.Selector(),
					r.Kind,
					r.Type,
					queryPlacement(r),
				},
			})
		}
		fmt.Println(table.Render())
		return nil
	},
}

func queryPlacement(r index.RecordResult) string {
	suffix := ""
	switch r.Kind {
	case "actor":
		suffix = fmt.Sprintf("%g°", r.Orientation)
	case "prop":
		if r.RotX != 0 || r.RotY != 0 || r.RotZ != 0 {
			suffix = fmt.Sprintf("rot %g,%g,%g", r.RotX, r.RotY, r.RotZ)
		}
	}
	return ui.FormatPlacement(r.X, r.Y, r.Z, suffix)
}

func queryResultJSON(r index.RecordResult) map[string]interface{} {
	out := map[string]interface{}{
		"file":     r.FilePath,
		"selector": r.Selector(),
		"folder":   r.Folder,
		"order":    r.Order,
		"kind":     r.Kind,
		"type":     r.Type,
		"x":        r.X,
		"y":        r.Y,
		"z":        r.Z,
	}
	switch r.Kind {
	case "actor":
		out["orientation"] = r.Orientation
	case "prop":
		out["rot_x"] = r.RotX
		out["rot_y"] = r.RotY
		out["rot_z"] = r.RotZ
	}
	return out
}

func init() {
	queryCmd.Flags().BoolVar(&queryIDs, "ids", false, "Print bare selectors, one per line")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum results (0 = unlimited)")

	rootCmd.AddCommand(queryCmd)
}
