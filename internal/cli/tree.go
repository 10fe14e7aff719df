package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/ui"
)

var treeCatalog string

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the folder tree of a catalog",
	Long: `Show the catalog's folder hierarchy with per-folder record counts.
Empty folders appear too; they are part of the file, not an artifact
of the records.

Examples:
  roost tree
  roost tree --catalog arena`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(treeCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		cat := sess.Catalog()
		t := cat.Tree()

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"file": sess.RelPath(),
				"tree": treeJSON(t.Root),
			}, &Meta{Count: cat.Len()})
			return nil
		}

		fmt.Printf("%s  %s\n\n", ui.SectionHeader(sess.RelPath()), ui.Count(cat.Len(), "record", "records"))
		t.Walk(func(n *catalog.Node) error {
			if n.Path.IsRoot() {
				if len(n.Records) > 0 {
					fmt.Printf("  %s  %s\n", ui.Muted.Render("."), ui.Count(len(n.Records), "record", "records"))
				}
				return nil
			}
			indent := strings.Repeat("  ", n.Path.Depth())
			count := ""
			if len(n.Records) > 0 {
				count = "  " + ui.Count(len(n.Records), "record", "records")
			}
			fmt.Printf("  %s%s%s\n", indent, ui.Accent.Render(n.Name+"/"), count)
			return nil
		})
		return nil
	},
}

// treeJSON converts a tree node to the nested JSON shape.
func treeJSON(n *catalog.Node) map[string]interface{} {
	children := make([]map[string]interface{}, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, treeJSON(c))
	}
	return map[string]interface{}{
		"name":          n.Name,
		"path":          n.Path.String(),
		"records":       len(n.Records),
		"total_records": n.TotalRecords(),
		"children":      children,
	}
}

func init() {
	treeCmd.Flags().StringVarP(&treeCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	_ = treeCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(treeCmd)
}
