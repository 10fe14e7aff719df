package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	setCatalog     string
	setType        string
	setPos         string
	setOrientation float64
	setRot         string
)

var setCmd = &cobra.Command{
	Use:   "set <selector> [--type T] [--pos x,y,z] [--orientation deg | --rot rx,ry,rz]",
	Short: "Edit fields of a record in place",
	Long: `Edit one or more fields of a record. The record keeps its folder,
order, and kind; only the named fields change.

--orientation applies to actors and --rot to props. Setting the wrong
one for the record's kind is an error, not a kind change.

Examples:
  roost set arena:0 --type Orc
  roost set arena:0 --pos 12,0,4.5 --orientation 180
  roost set hub/market:1 --rot 0,45,0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("type") && !flags.Changed("pos") && !flags.Changed("orientation") && !flags.Changed("rot") {
			return handleErrorMsg(ErrMissingArgument, "no fields to set", "Pass at least one of --type, --pos, --orientation, --rot")
		}
		if flags.Changed("orientation") && flags.Changed("rot") {
			return handleErrorMsg(ErrInvalidInput, "--orientation and --rot are mutually exclusive", "Actors take --orientation, props take --rot")
		}

		var edit catalog.FieldEdit
		var changed []string
		if flags.Changed("type") {
			if strings.TrimSpace(setType) == "" {
				return handleErrorMsg(ErrInvalidValue, "--type must not be empty", "")
			}
			edit.Type = &setType
			changed = append(changed, fmt.Sprintf("type=%s", setType))
		}
		if flags.Changed("pos") {
			pos, err := parsePositionFlag(setPos)
			if err != nil {
				return handleError(ErrInvalidValue, err, "")
			}
			edit.Position = &pos
			changed = append(changed, fmt.Sprintf("pos=%s", setPos))
		}
		if flags.Changed("orientation") {
			edit.Orientation = &setOrientation
			changed = append(changed, fmt.Sprintf("orientation=%v", setOrientation))
		}
		if flags.Changed("rot") {
			rot, err := parseRotation(setRot)
			if err != nil {
				return handleError(ErrInvalidValue, err, "")
			}
			edit.Rotation = &rot
			changed = append(changed, fmt.Sprintf("rot=%s", setRot))
		}

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openExistingSession(setCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}
		cat := sess.Catalog()

		rec, err := findRecord(cat, args[0])
		if err != nil {
			return handleError(ErrRecordNotFound, err, "Run 'roost list --recursive' to see selectors")
		}

		if err := cat.SetFields(rec, edit); err != nil {
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				return handleError(ErrRecordNotFound, err, "")
			default:
				return handleError(ErrValidationFailed, err, "")
			}
		}

		var warnings []Warning
		if edit.Type != nil {
			allowed := wcfg.Types.AllowsActor(rec.Type)
			if rec.Kind == catalog.KindProp {
				allowed = wcfg.Types.AllowsProp(rec.Type)
			}
			if !allowed {
				warnings = append(warnings, Warning{
					Code:     WarnUnknownType,
					Message:  fmt.Sprintf("type '%s' is not in the workspace %s allow-list", rec.Type, rec.Kind),
					File:     sess.RelPath(),
					Selector: rec.Selector(),
				})
			}
		}

		if err := sess.Save(wcfg.GetBackupConfig()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		maybeReindex(sess, wcfg)

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"file":     sess.RelPath(),
				"selector": rec.Selector(),
				"kind":     rec.Kind.String(),
				"type":     rec.Type,
				"line":     rec.Line(),
			}, warnings, nil)
			return nil
		}

		fmt.Println(ui.Checkf("Updated %s in %s (%s)",
			ui.Selector(rec.Selector()),
			ui.FilePath(sess.RelPath()),
			strings.Join(changed, ", ")))
		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		return nil
	},
}

func init() {
	setCmd.Flags().StringVarP(&setCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	setCmd.Flags().StringVar(&setType, "type", "", "New entity type")
	setCmd.Flags().StringVar(&setPos, "pos", "", "New position as x,y,z")
	setCmd.Flags().Float64Var(&setOrientation, "orientation", 0, "New facing in degrees (actors)")
	setCmd.Flags().StringVar(&setRot, "rot", "", "New rotation as rx,ry,rz (props)")
	_ = setCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(setCmd)
}
