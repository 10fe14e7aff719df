package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	moveTo      string
	moveCatalog string
)

var moveCmd = &cobra.Command{
	Use:   "move <selector>... --to <folder>",
	Short: "Move records to another folder",
	Long: `Move one or more records to a destination folder.

Moved records are placed after the destination's existing records, in
the order given. Afterwards every folder's records are renumbered
contiguously from 0, so selectors for other records may change.

The destination folder is created if it does not exist.

Examples:
  roost move arena/waves:2 --to arena/boss
  roost move :0 :1 --to hub --catalog arena`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("to") {
			return handleErrorMsg(ErrMissingArgument, "--to <folder> is required", "Pass the destination folder, e.g. --to arena/boss")
		}
		dest := catalog.ParsePath(moveTo)

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(moveCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		cat := sess.Catalog()

		recs := make([]*catalog.Record, 0, len(args))
		for _, selector := range args {
			rec, err := findRecord(cat, selector)
			if err != nil {
				return handleError(ErrRecordNotFound, err, "Run 'roost list --recursive' to see selectors")
			}
			recs = append(recs, rec)
		}

		if err := cat.Move(recs, dest); err != nil {
			return handleError(ErrValidationFailed, err, "")
		}

		if err := sess.Save(wcfg.GetBackupConfig()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		maybeReindex(sess, wcfg)

		if isJSONOutput() {
			moved := make([]map[string]interface{}, 0, len(recs))
			for _, rec := range recs {
				moved = append(moved, map[string]interface{}{
					"selector": rec.Selector(),
					"kind":     rec.Kind.String(),
					"type":     rec.Type,
				})
			}
			outputSuccess(map[string]interface{}{
				"file":    sess.RelPath(),
				"folder":  dest.String(),
				"records": moved,
			}, &Meta{Count: len(recs)})
			return nil
		}

		fmt.Println(ui.Checkf("Moved %s to %s in %s",
			ui.Count(len(recs), "record", "records"),
			ui.Selector(dest.String()+":*"),
			ui.FilePath(sess.RelPath())))
		for _, rec := range recs {
			fmt.Println(ui.Bullet(fmt.Sprintf("%s %s now at %s", rec.Kind, rec.Type, rec.Selector())))
		}
		return nil
	},
}

func init() {
	moveCmd.Flags().StringVar(&moveTo, "to", "", "Destination folder path (required; empty means the catalog root)")
	moveCmd.Flags().StringVarP(&moveCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	_ = moveCmd.RegisterFlagCompletionFunc("to", completeFolderFlag)
	_ = moveCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(moveCmd)
}
