package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	deleteCatalog   string
	deleteFolder    string
	deleteRecursive bool
	deleteForce     bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete [<selector>...]",
	Short: "Delete records from a catalog",
	Long: `Delete records by selector, or every record in a folder with --folder.

Surviving records keep their order values, so selectors in scripts and
queries stay stable; the gaps close on the next 'roost move' into the
folder. Folders are never deleted, even when emptied.

Prompts for confirmation on a terminal; use --force to skip, or when
running non-interactively.

Examples:
  roost delete arena:2
  roost delete arena:2 hub/vendors:0 --force
  roost delete --folder arena/waves
  roost delete --folder arena --recursive --force`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !cmd.Flags().Changed("folder") {
			return handleErrorMsg(ErrMissingArgument, "requires selectors or --folder", "Usage: roost delete <selector>... or roost delete --folder <path>")
		}
		if deleteRecursive && !cmd.Flags().Changed("folder") {
			return handleErrorMsg(ErrInvalidInput, "--recursive requires --folder", "")
		}

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(deleteCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		cat := sess.Catalog()

		seen := make(map[*catalog.Record]bool)
		var recs []*catalog.Record
		collect := func(rs ...*catalog.Record) {
			for _, r := range rs {
				if !seen[r] {
					seen[r] = true
					recs = append(recs, r)
				}
			}
		}

		for _, sel := range args {
			rec, err := findRecord(cat, sel)
			if err != nil {
				return handleError(ErrRecordNotFound, err, "Run 'roost list --recursive' to see selectors")
			}
			collect(rec)
		}

		if cmd.Flags().Changed("folder") {
			p := catalog.ParsePath(deleteFolder)
			if !p.IsRoot() && !cat.HasFolder(p) {
				return handleErrorMsg(ErrFolderNotFound, fmt.Sprintf("folder not found: %s", p), "Run 'roost tree' to see folders")
			}
			if deleteRecursive {
				collect(cat.Under(p)...)
			} else {
				collect(cat.At(p)...)
			}
		}

		if len(recs) == 0 {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{
					"file":    sess.RelPath(),
					"deleted": 0,
				}, &Meta{Count: 0})
				return nil
			}
			fmt.Println(ui.Info("No matching records; nothing to delete."))
			return nil
		}

		if !deleteForce && !isJSONOutput() {
			if !shouldPromptForConfirm() {
				return handleErrorMsg(ErrConfirmationRequired,
					fmt.Sprintf("refusing to delete %s without confirmation", ui.Count(len(recs), "record", "records")),
					"Re-run with --force")
			}
			fmt.Printf("Deleting from %s:\n", ui.FilePath(sess.RelPath()))
			for _, rec := range recs {
				fmt.Println(ui.Bullet(fmt.Sprintf("%s %s %s", ui.Selector(rec.Selector()), rec.Kind, rec.Type)))
			}
			if !promptForConfirm(fmt.Sprintf("Delete %s?", ui.Count(len(recs), "record", "records"))) {
				fmt.Println(ui.Info("Cancelled."))
				return nil
			}
		}

		// Remember folders before the records vanish so emptied ones can
		// be reported afterwards.
		folders := make(map[string]catalog.Path)
		deletedSelectors := make([]map[string]interface{}, 0, len(recs))
		for _, rec := range recs {
			folders[rec.Path.Key()] = rec.Path
			deletedSelectors = append(deletedSelectors, map[string]interface{}{
				"selector": rec.Selector(),
				"kind":     rec.Kind.String(),
				"type":     rec.Type,
			})
		}

		deleted := cat.Delete(recs)

		var warnings []Warning
		for _, p := range folders {
			if !p.IsRoot() && cat.HasFolder(p) && len(cat.At(p)) == 0 {
				warnings = append(warnings, Warning{
					Code:    WarnEmptyFolder,
					Message: fmt.Sprintf("Folder %s has no records left; the folder line is kept", p),
					File:    sess.RelPath(),
				})
			}
		}

		if err := sess.Save(wcfg.GetBackupConfig()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		maybeReindex(sess, wcfg)

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"file":    sess.RelPath(),
				"deleted": deleted,
				"records": deletedSelectors,
			}, warnings, &Meta{Count: deleted})
			return nil
		}

		fmt.Println(ui.Checkf("Deleted %s from %s",
			ui.Count(deleted, "record", "records"),
			ui.FilePath(sess.RelPath())))
		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	deleteCmd.Flags().StringVar(&deleteFolder, "folder", "", "Delete every record at this folder path")
	deleteCmd.Flags().BoolVar(&deleteRecursive, "recursive", false, "With --folder, include records in subfolders")
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip the confirmation prompt")
	_ = deleteCmd.RegisterFlagCompletionFunc("folder", completeFolderFlag)
	_ = deleteCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(deleteCmd)
}
