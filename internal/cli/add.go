package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	addFolder  string
	addCatalog string
	addProp    bool
	addRot     string
)

var addCmd = &cobra.Command{
	Use:   "add <entity-type> <x> <y> <z> [orientation]",
	Short: "Add a spawn record to a catalog",
	Long: `Add a spawn record to a catalog.

Records are actors by default and take an optional orientation in
degrees. Pass --prop for a prop; props take a full rotation via
--rot instead of an orientation.

The record is appended at the end of the target folder. The catalog
file is created if it does not exist yet.

Examples:
  roost add Goblin 10 0 5
  roost add Goblin 10 0 5 90 --folder arena/waves
  roost add Barrel 1.5 0 -2 --prop --rot 0,45,0 --catalog arena`,
	Args: cobra.RangeArgs(4, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityType := args[0]
		nums, err := parseFloatArgs(args[1:])
		if err != nil {
			return handleError(ErrInvalidValue, err, "Positions and angles must be finite numbers")
		}
		pos := catalog.Position{X: nums[0], Y: nums[1], Z: nums[2]}

		var rec *catalog.Record
		if addProp {
			if len(nums) > 3 {
				return handleErrorMsg(ErrInvalidInput,
					"props take a rotation via --rot, not a positional orientation",
					"Use: roost add <type> <x> <y> <z> --prop --rot rx,ry,rz")
			}
			var rot catalog.Rotation
			if addRot != "" {
				rot, err = parseRotation(addRot)
				if err != nil {
					return handleError(ErrInvalidValue, err, "Use --rot rx,ry,rz")
				}
			}
			rec, err = catalog.NewProp(entityType, pos, rot)
		} else {
			if addRot != "" {
				return handleErrorMsg(ErrInvalidInput,
					"--rot applies to props; actors take a positional orientation",
					"Use: roost add <type> <x> <y> <z> [orientation]")
			}
			orientation := 0.0
			if len(nums) == 4 {
				orientation = nums[3]
			}
			rec, err = catalog.NewActor(entityType, pos, orientation)
		}
		if err != nil {
			return handleError(ErrValidationFailed, err, "")
		}

		wcfg, err := loadWorkspaceConfigSafe(getWorkspacePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		sess, err := openSession(addCatalog, wcfg)
		if err != nil {
			return handleError(ErrCatalogNotFound, err, "")
		}

		folder := catalog.ParsePath(addFolder)
		if err := sess.Catalog().Append([]*catalog.Record{rec}, folder); err != nil {
			return handleError(ErrValidationFailed, err, "")
		}

		var warnings []Warning
		allowed := wcfg.Types.AllowsActor(entityType)
		if rec.Kind == catalog.KindProp {
			allowed = wcfg.Types.AllowsProp(entityType)
		}
		if !allowed {
			warnings = append(warnings, Warning{
				Code:     WarnUnknownType,
				Message:  fmt.Sprintf("type '%s' is not in the workspace %s allow-list", entityType, rec.Kind),
				File:     sess.RelPath(),
				Selector: rec.Selector(),
			})
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

		fmt.Println(ui.Checkf("Added %s %s at %s in %s", rec.Kind, rec.Type, ui.Selector(rec.Selector()), ui.FilePath(sess.RelPath())))
		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		return nil
	},
}

// parseFloatArgs parses a run of numeric CLI arguments.
func parseFloatArgs(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a number", a)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseRotation parses a "rx,ry,rz" flag value.
func parseRotation(s string) (catalog.Rotation, error) {
	nums, err := parseFloatList(s, 3)
	if err != nil {
		return catalog.Rotation{}, err
	}
	return catalog.Rotation{X: nums[0], Y: nums[1], Z: nums[2]}, nil
}

// parsePositionFlag parses an "x,y,z" flag value.
func parsePositionFlag(s string) (catalog.Position, error) {
	nums, err := parseFloatList(s, 3)
	if err != nil {
		return catalog.Position{}, err
	}
	return catalog.Position{X: nums[0], Y: nums[1], Z: nums[2]}, nil
}

// parseFloatList parses a comma-separated list of exactly n numbers.
func parseFloatList(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("'%s' must be %d comma-separated numbers", s, n)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a number", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func init() {
	addCmd.Flags().StringVarP(&addFolder, "folder", "f", "", "Folder path for the record (default: catalog root)")
	addCmd.Flags().StringVarP(&addCatalog, "catalog", "c", "", "Catalog name or relative path (default: workspace default catalog)")
	addCmd.Flags().BoolVar(&addProp, "prop", false, "Add a prop instead of an actor")
	addCmd.Flags().StringVar(&addRot, "rot", "", "Prop rotation as rx,ry,rz (default 0,0,0)")
	_ = addCmd.RegisterFlagCompletionFunc("folder", completeFolderFlag)
	_ = addCmd.RegisterFlagCompletionFunc("catalog", completeCatalogFlag)

	rootCmd.AddCommand(addCmd)
}
