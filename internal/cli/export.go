package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/slugs"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	exportCatalog string
	exportFormat  string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a catalog's records to JSON or CSV",
	Long: `Dump every record of a catalog to a machine-readable file.

The default output name is derived from the catalog's path ("maps/Boss
Arena.spawn" becomes "maps-boss-arena.json"); --out overrides it, and
--out - writes to stdout.

Examples:
  roost export
  roost export --format csv
  roost export --catalog arena --out arena-dump.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "json" && exportFormat != "csv" {
			return handleErrorMsg(ErrInvalidValue, fmt.Sprintf("unknown format '%s'", exportFormat), "Use --format json or --format csv")
		}

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(exportCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		recs := sess.Catalog().Records()

		var data []byte
		switch exportFormat {
		case "csv":
			data, err = exportCSV(recs)
		default:
			data, err = exportJSON(sess.RelPath(), recs)
		}
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		out := exportOut
		if out == "" {
			out = slugs.ExportName(sess.RelPath()) + "." + exportFormat
		}

		if out == "-" {
			os.Stdout.Write(data)
			return nil
		}

		if err := os.WriteFile(out, data, 0644); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"file":     sess.RelPath(),
				"out":      out,
				"format":   exportFormat,
				"exported": len(recs),
			}, &Meta{Count: len(recs)})
			return nil
		}

		fmt.Println(ui.Checkf("Exported %s to %s",
			ui.Count(len(recs), "record", "records"),
			ui.FilePath(out)))
		return nil
	},
}

func exportJSON(relPath string, recs []*catalog.Record) ([]byte, error) {
	rows := make([]map[string]interface{}, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, recordJSON(rec))
	}
	return json.MarshalIndent(map[string]interface{}{
		"file":    relPath,
		"records": rows,
	}, "", "  ")
}

func exportCSV(recs []*catalog.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"folder", "order", "kind", "type", "x", "y", "z", "orientation", "rot_x", "rot_y", "rot_z"}); err != nil {
		return nil, err
	}
	for _, rec := range recs {
		row := []string{
			rec.Path.String(),
			strconv.Itoa(rec.Order),
			rec.Kind.String(),
			rec.Type,
			formatCoord(rec.Position.X),
			formatCoord(rec.Position.Y),
			formatCoord(rec.Position.Z),
			"",
			"",
			"",
			"",
		}
		switch rec.Kind {
		case catalog.KindActor:
			row[7] = formatCoord(rec.Orientation)
		case catalog.KindProp:
			row[8] = formatCoord(rec.Rotation.X)
			row[9] = formatCoord(rec.Rotation.Y)
			row[10] = formatCoord(rec.Rotation.Z)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func init() {
	exportCmd.Flags().StringVarP(&exportCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default derived from the catalog name, - for stdout)")
	_ = exportCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(exportCmd)
}
