package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/ui"
)

var renameCatalog string

var renameCmd = &cobra.Command{
	Use:   "rename <folder> <new-name>",
	Short: "Rename a folder",
	Long: `Rename a folder, rewriting the renamed segment in every record and
subfolder under it. Record orders are unchanged.

Renaming onto an existing sibling folder fails: merging folders would
collide their record orders.

Examples:
  roost rename arena/waves surges
  roost rename hub plaza --catalog arena`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeFolderArgAt(0, cobra.ShellCompDirectiveNoFileComp),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := catalog.ParsePath(args[0])
		newName := args[1]

		if folder.IsRoot() {
			return handleErrorMsg(ErrInvalidInput, "cannot rename the catalog root", "Name a folder, e.g. arena/waves")
		}

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(renameCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		cat := sess.Catalog()

		renamed, err := cat.Rename(folder, newName)
		if err != nil {
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				return handleError(ErrFolderNotFound, err, "Run 'roost tree' to see folders")
			case errors.Is(err, catalog.ErrFolderExists):
				return handleError(ErrFolderExists, err, "Use 'roost move' to merge records into an existing folder")
			default:
				return handleError(ErrValidationFailed, err, "")
			}
		}

		if err := sess.Save(wcfg.GetBackupConfig()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		maybeReindex(sess, wcfg)

		newPath := folder.Parent().Child(newName)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"file":            sess.RelPath(),
				"folder":          folder.String(),
				"renamed_to":      newPath.String(),
				"records_updated": renamed,
			}, nil)
			return nil
		}

		fmt.Println(ui.Checkf("Renamed %s to %s (%s updated) in %s",
			ui.Selector(folder.String()),
			ui.Selector(newPath.String()),
			ui.Count(renamed, "record", "records"),
			ui.FilePath(sess.RelPath())))
		return nil
	},
}

func init() {
	renameCmd.Flags().StringVarP(&renameCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	_ = renameCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(renameCmd)
}
