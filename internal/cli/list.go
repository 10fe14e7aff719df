package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	listCatalog   string
	listKind      string
	listType      string
	listRecursive bool
	listLines     bool
)

var listCmd = &cobra.Command{
	Use:   "list [folder]",
	Short: "List records in a catalog",
	Long: `List the records of a catalog as a table. With a folder argument,
only that folder's records are shown; --recursive includes subfolders.

--lines prints the raw serialized command lines instead of the table,
ready to paste into another catalog file.

Examples:
  roost list
  roost list arena --recursive
  roost list --kind prop --type Barrel
  roost list arena/waves --lines`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeFolderArgAt(0, cobra.ShellCompDirectiveNoFileComp),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := catalog.Path{}
		if len(args) == 1 {
			folder = catalog.ParsePath(args[0])
		}
		if listKind != "" && listKind != "actor" && listKind != "prop" {
			return handleErrorMsg(ErrInvalidValue, fmt.Sprintf("unknown kind '%s'", listKind), "Use --kind actor or --kind prop")
		}

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(listCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		cat := sess.Catalog()

		if !folder.IsRoot() && !cat.HasFolder(folder) {
			return handleErrorMsg(ErrFolderNotFound, fmt.Sprintf("folder not found: %s", folder), "Run 'roost tree' to see folders")
		}

		recs := cat.At(folder)
		if listRecursive {
			recs = cat.Under(folder)
		}

		filtered := recs[:0:0]
		for _, rec := range recs {
			if listKind != "" && rec.Kind.String() != listKind {
				continue
			}
			if listType != "" && rec.Type != listType {
				continue
			}
			filtered = append(filtered, rec)
		}
		recs = filtered

		if isJSONOutput() {
			out := make([]map[string]interface{}, 0, len(recs))
			for _, rec := range recs {
				out = append(out, recordJSON(rec))
			}
			outputSuccess(map[string]interface{}{
				"file":    sess.RelPath(),
				"folder":  folder.String(),
				"records": out,
			}, &Meta{Count: len(recs)})
			return nil
		}

		if listLines {
			for _, rec := range recs {
				fmt.Println(rec.Line())
			}
			return nil
		}

		if len(recs) == 0 {
			fmt.Println(ui.Info("No records found."))
			return nil
		}

		scope := sess.RelPath()
		if !folder.IsRoot() {
			scope += " " + folder.String()
		}
		fmt.Printf("%s  %s\n\n", ui.SectionHeader(scope), ui.Count(len(recs), "record", "records"))

		display := ui.NewDisplayContext()
		table := ui.NewRecordsTable(display, ui.RecordLayout)
		for i, rec := range recs {
			table.AddRow(ui.RecordRow{
				Num: i + 1,
				Cells: []string{
					ui.FormatRowNum(i+1, len(recs)),
					rec.Selector(),
					rec.Kind.String(),
					rec.Type,
					placementCell(rec),
				},
			})
		}
		fmt.Println(table.Render())
		return nil
	},
}

// placementCell renders a record's position plus its angle fields for
// table output.
func placementCell(rec *catalog.Record) string {
	suffix := ""
	switch rec.Kind {
	case catalog.KindActor:
		suffix = fmt.Sprintf("%g°", rec.Orientation)
	case catalog.KindProp:
		if rec.Rotation != (catalog.Rotation{}) {
			suffix = fmt.Sprintf("rot %g,%g,%g", rec.Rotation.X, rec.Rotation.Y, rec.Rotation.Z)
		}
	}
	return ui.FormatPlacement(rec.Position.X, rec.Position.Y, rec.Position.Z, suffix)
}

// recordJSON is the JSON shape shared by list and query output.
func recordJSON(rec *catalog.Record) map[string]interface{} {
	out := map[string]interface{}{
		"selector": rec.Selector(),
		"folder":   rec.Path.String(),
		"order":    rec.Order,
		"kind":     rec.Kind.String(),
		"type":     rec.Type,
		"x":        rec.Position.X,
		"y":        rec.Position.Y,
		"z":        rec.Position.Z,
		"line":     rec.Line(),
	}
	switch rec.Kind {
	case catalog.KindActor:
		out["orientation"] = rec.Orientation
	case catalog.KindProp:
		out["rot_x"] = rec.Rotation.X
		out["rot_y"] = rec.Rotation.Y
		out["rot_z"] = rec.Rotation.Z
	}
	return out
}

func init() {
	listCmd.Flags().StringVarP(&listCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	listCmd.Flags().StringVar(&listKind, "kind", "", "Only records of this kind (actor or prop)")
	listCmd.Flags().StringVar(&listType, "type", "", "Only records of this entity type")
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "Include records in subfolders")
	listCmd.Flags().BoolVar(&listLines, "lines", false, "Print raw command lines instead of a table")
	_ = listCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(listCmd)
}
