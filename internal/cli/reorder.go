package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	reorderUp      bool
	reorderDown    bool
	reorderSteps   int
	reorderCatalog string
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <selector> --up|--down [--steps N]",
	Short: "Move a record up or down within its folder",
	Long: `Swap a record with its neighbor within its folder, one step at a time.

Reordering stops quietly at the first or last position, so moving a
record further than the folder allows is not an error.

Examples:
  roost reorder arena/waves:2 --up
  roost reorder hub:0 --down --steps 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if reorderUp == reorderDown {
			return handleErrorMsg(ErrMissingArgument, "exactly one of --up or --down is required", "")
		}
		if reorderSteps < 1 {
			return handleErrorMsg(ErrInvalidValue, "--steps must be at least 1", "")
		}

		dir := catalog.Later
		if reorderUp {
			dir = catalog.Earlier
		}

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(reorderCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		cat := sess.Catalog()

		rec, err := findRecord(cat, args[0])
		if err != nil {
			return handleError(ErrRecordNotFound, err, "Run 'roost list --recursive' to see selectors")
		}

		moved := 0
		for i := 0; i < reorderSteps; i++ {
			swapped, err := cat.Reorder(rec, dir)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			if !swapped {
				break
			}
			moved++
		}

		if moved == 0 {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{
					"file":     sess.RelPath(),
					"selector": rec.Selector(),
					"moved":    0,
				}, nil)
				return nil
			}
			fmt.Println(ui.Info("Record is already at the edge of its folder; nothing to do."))
			return nil
		}

		if err := sess.Save(wcfg.GetBackupConfig()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		maybeReindex(sess, wcfg)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"file":     sess.RelPath(),
				"selector": rec.Selector(),
				"moved":    moved,
			}, nil)
			return nil
		}

		direction := "down"
		if reorderUp {
			direction = "up"
		}
		fmt.Println(ui.Checkf("Moved %s %s %s %d step(s); now at %s", rec.Kind, rec.Type, direction, moved, ui.Selector(rec.Selector())))
		return nil
	},
}

func init() {
	reorderCmd.Flags().BoolVar(&reorderUp, "up", false, "Swap toward the front of the folder")
	reorderCmd.Flags().BoolVar(&reorderDown, "down", false, "Swap toward the back of the folder")
	reorderCmd.Flags().IntVar(&reorderSteps, "steps", 1, "Number of positions to move")
	reorderCmd.Flags().StringVarP(&reorderCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	_ = reorderCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(reorderCmd)
}
