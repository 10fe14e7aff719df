package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/extract"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	importCatalog string
	importFolder  string
)

var importCmd = &cobra.Command{
	Use:   "import <file.md>",
	Short: "Import spawn commands from a markdown file",
	Long: `Extract spawn command lines from the fenced code blocks of a markdown
file and append them to a catalog.

Blocks tagged ` + "```spawn" + ` are always imported; untagged blocks are
imported when they contain at least one parseable command. Folder
headers inside a block nest the records under the block's own paths;
--folder puts everything under a prefix on top of that.

Appended records take orders continuing from each folder's current
maximum, so imports never disturb existing selectors.

Examples:
  roost import notes/boss-ideas.md
  roost import drop.md --folder inbox
  roost import drop.md --catalog arena --folder imported`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mdPath := args[0]
		content, err := os.ReadFile(mdPath)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		result := extract.FromMarkdown(content)
		records := result.Records()

		warnings := diagnosticWarnings(filepath.Base(mdPath), result.Diagnostics())

		if len(records) == 0 {
			if isJSONOutput() {
				outputSuccessWithWarnings(map[string]interface{}{
					"source":   mdPath,
					"imported": 0,
					"blocks":   len(result.Blocks),
				}, warnings, &Meta{Count: 0})
				return nil
			}
			fmt.Println(ui.Info("No spawn commands found."))
			fmt.Println(ui.Hint("Commands are read from fenced code blocks; tag them with ```spawn to force parsing."))
			return nil
		}

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openSession(importCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		cat := sess.Catalog()

		// Group by destination folder, preserving document order both
		// across groups and within each group.
		prefix := catalog.ParsePath(importFolder)
		var order []string
		groups := make(map[string][]*catalog.Record)
		targets := make(map[string]catalog.Path)
		for _, rec := range records {
			dest := append(prefix.Clone(), rec.Path...)
			key := dest.Key()
			if _, ok := groups[key]; !ok {
				order = append(order, key)
				targets[key] = dest
			}
			groups[key] = append(groups[key], rec)
		}

		for _, key := range order {
			if err := cat.Append(groups[key], targets[key]); err != nil {
				return handleError(ErrValidationFailed, err, "")
			}
		}

		if err := sess.Save(wcfg.GetBackupConfig()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		maybeReindex(sess, wcfg)

		if isJSONOutput() {
			selectors := make([]string, 0, len(records))
			for _, rec := range records {
				selectors = append(selectors, rec.Selector())
			}
			outputSuccessWithWarnings(map[string]interface{}{
				"source":    mdPath,
				"file":      sess.RelPath(),
				"imported":  len(records),
				"blocks":    len(result.Blocks),
				"selectors": selectors,
			}, warnings, &Meta{Count: len(records)})
			return nil
		}

		fmt.Println(ui.Checkf("Imported %s from %s into %s",
			ui.Count(len(records), "record", "records"),
			ui.FilePath(mdPath),
			ui.FilePath(sess.RelPath())))
		for _, key := range order {
			dest := targets[key]
			name := dest.String()
			if name == "" {
				name = "(root)"
			}
			fmt.Println(ui.Bullet(fmt.Sprintf("%s: %s", name, ui.Count(len(groups[key]), "record", "records"))))
		}
		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	importCmd.Flags().StringVarP(&importFolder, "folder", "f", "", "Folder prefix for imported records")
	_ = importCmd.RegisterFlagCompletionFunc("folder", completeFolderFlag)
	_ = importCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(importCmd)
}
