package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/ui"
)

var (
	fmtCatalog string
	fmtCheck   bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Rewrite a catalog in canonical form",
	Long: `Parse a catalog and rewrite it in canonical form: folder headers
before their records, two-space indent per depth, records in order,
minimal header lines.

Lines the parser skips (malformed or unknown directives) are dropped
by the rewrite; run 'roost check' first if the file is hand-edited.

--check reports whether the file is canonical without touching it and
exits nonzero when it is not, for use in CI and hooks.

Examples:
  roost fmt
  roost fmt --check
  roost fmt --catalog arena`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(fmtCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}

		raw, err := os.ReadFile(sess.AbsPath())
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		canonical, err := sess.Catalog().Encode()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		warnings := diagnosticWarnings(sess.RelPath(), sess.Diagnostics())

		if bytes.Equal(raw, canonical) {
			if isJSONOutput() {
				outputSuccessWithWarnings(map[string]interface{}{
					"file":      sess.RelPath(),
					"canonical": true,
					"rewritten": false,
				}, warnings, nil)
				return nil
			}
			fmt.Println(ui.Checkf("%s is already canonical", ui.FilePath(sess.RelPath())))
			return nil
		}

		if fmtCheck {
			return handleErrorWithDetails(ErrValidationFailed,
				fmt.Sprintf("%s is not in canonical form", sess.RelPath()),
				"Run 'roost fmt' to rewrite it",
				map[string]interface{}{"file": sess.RelPath()})
		}

		if err := sess.Save(wcfg.GetBackupConfig()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		maybeReindex(sess, wcfg)

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"file":      sess.RelPath(),
				"canonical": false,
				"rewritten": true,
			}, warnings, nil)
			return nil
		}

		fmt.Println(ui.Checkf("Rewrote %s in canonical form", ui.FilePath(sess.RelPath())))
		printDiagnostics(sess.RelPath(), sess.Diagnostics())
		return nil
	},
}

func init() {
	fmtCmd.Flags().StringVarP(&fmtCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Exit nonzero if the file is not canonical; do not rewrite")
	_ = fmtCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(fmtCmd)
}
