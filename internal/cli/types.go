package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/index"
	"github.com/roostlabs/roost/internal/session"
	"github.com/roostlabs/roost/internal/ui"
)

var typesCatalog string

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List distinct entity types with record counts",
	Long: `List every distinct entity type in the index with its record count,
most frequent first. Types outside the roost.yaml allow-lists are
flagged.

Examples:
  roost types
  roost types --catalog arena
  roost types --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath := getWorkspacePath()
		start := time.Now()

		wcfg, err := loadWorkspaceConfigSafe(workspacePath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		file := ""
		if typesCatalog != "" {
			file, err = session.Resolve(workspacePath, wcfg, typesCatalog)
			if err != nil {
				return handleError(ErrCatalogNotFound, err, "")
			}
		}

		db, err := index.Open(workspacePath)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'roost reindex' to rebuild the index")
		}
		defer db.Close()

		counts, err := db.TypeCounts(file)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		allowed := func(tc index.TypeCount) bool {
			if tc.Kind == "prop" {
				return wcfg.Types.AllowsProp(tc.Type)
			}
			return wcfg.Types.AllowsActor(tc.Type)
		}

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			out := make([]map[string]interface{}, 0, len(counts))
			for _, tc := range counts {
				out = append(out, map[string]interface{}{
					"kind":    tc.Kind,
					"type":    tc.Type,
					"count":   tc.Count,
					"allowed": allowed(tc),
				})
			}
			outputSuccess(map[string]interface{}{"types": out}, &Meta{Count: len(out), QueryTimeMs: elapsed})
			return nil
		}

		if len(counts) == 0 {
			fmt.Println(ui.Info("No records in the index."))
			fmt.Println(ui.Hint("Run 'roost reindex' to scan the workspace."))
			return nil
		}

		scope := "workspace"
		if file != "" {
			scope = file
		}
		fmt.Printf("%s  %s\n\n", ui.SectionHeader(scope), ui.Count(len(counts), "type", "types"))

		table := ui.NewTable(4).RightAlign(2)
		flagged := 0
		for _, tc := range counts {
			mark := ""
			if !allowed(tc) {
				mark = "⚠ not in allow-list"
				flagged++
			}
			table.AddRow(tc.Kind, tc.Type, fmt.Sprintf("%d", tc.Count), mark)
		}
		fmt.Print(table.String())

		if flagged > 0 {
			fmt.Println()
			fmt.Println(ui.Warningf("%d %s outside the roost.yaml allow-lists", flagged, ui.Pluralize("type", flagged)))
		}
		return nil
	},
}

func init() {
	typesCmd.Flags().StringVarP(&typesCatalog, "catalog", "c", "", "Limit to one catalog (name or relative path)")
	_ = typesCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(typesCmd)
}
