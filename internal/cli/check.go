package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/config"
	"github.com/roostlabs/roost/internal/session"
	"github.com/roostlabs/roost/internal/ui"
)

var checkStrict bool

// checkIssue is one finding from the catalog lint.
type checkIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Hint     string `json:"hint,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every catalog file in the workspace",
	Long: `Parse every catalog file and report structured issues: malformed
command lines, unknown directives, duplicate per-folder orders, and
entity types outside the roost.yaml allow lists.

Unknown directives are warnings; the parser skips them so files stay
forward-compatible with newer tools. Malformed lines are errors: they
look like spawn commands but will be silently dropped by any rewrite.

Exits nonzero when errors are found; --strict makes warnings fatal
too.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workspacePath := getWorkspacePath()
		wcfg, err := loadWorkspaceConfigSafe(workspacePath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if !isJSONOutput() {
			fmt.Printf("Checking workspace: %s\n\n", workspacePath)
		}

		var issues []checkIssue
		var fileCount int

		err = session.WalkCatalogFiles(workspacePath, wcfg.GetPatterns(), func(res session.WalkResult) error {
			if res.Error != nil {
				issues = append(issues, checkIssue{
					File:     res.RelativePath,
					Severity: "error",
					Code:     "read_error",
					Message:  fmt.Sprintf("failed to read: %v", res.Error),
				})
				return nil
			}
			fileCount++
			for _, d := range res.Result.Diagnostics {
				issues = append(issues, diagnosticIssue(res.RelativePath, d))
			}
			issues = append(issues, duplicateOrderIssues(res.RelativePath, res.Result.Records)...)
			issues = append(issues, unlistedTypeIssues(res.RelativePath, wcfg.Types, res.Result.Records)...)
			return nil
		})
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		var errorCount, warningCount int
		for _, issue := range issues {
			if issue.Severity == "warning" {
				warningCount++
			} else {
				errorCount++
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"files":    fileCount,
				"issues":   issues,
				"errors":   errorCount,
				"warnings": warningCount,
			}, &Meta{Count: len(issues)})
		} else {
			for _, issue := range issues {
				prefix := "ERROR"
				if issue.Severity == "warning" {
					prefix = "WARN"
				}
				if issue.Line > 0 {
					fmt.Printf("%s:  %s:%d - %s\n", prefix, issue.File, issue.Line, issue.Message)
				} else {
					fmt.Printf("%s:  %s - %s\n", prefix, issue.File, issue.Message)
				}
				if issue.Hint != "" {
					fmt.Printf("       %s\n", ui.Hint(issue.Hint))
				}
			}

			fmt.Println()
			if errorCount == 0 && warningCount == 0 {
				fmt.Println(ui.Checkf("No issues found in %s.", ui.Count(fileCount, "catalog file", "catalog files")))
			} else {
				fmt.Printf("Found %s in %s.\n",
					ui.ErrorWarningCounts(errorCount, warningCount),
					ui.Count(fileCount, "catalog file", "catalog files"))
			}
		}

		if errorCount > 0 || (checkStrict && warningCount > 0) {
			os.Exit(1)
		}
		return nil
	},
}

func diagnosticIssue(relPath string, d catalog.Diagnostic) checkIssue {
	switch d.Reason {
	case catalog.DiagMalformed:
		return checkIssue{
			File:     relPath,
			Line:     d.Line,
			Severity: "error",
			Code:     "malformed_line",
			Message:  fmt.Sprintf("malformed spawn command: %q", d.Text),
			Hint:     "Fix the numeric fields; 'roost fmt' drops lines it cannot parse",
		}
	default:
		return checkIssue{
			File:     relPath,
			Line:     d.Line,
			Severity: "warning",
			Code:     "unknown_directive",
			Message:  fmt.Sprintf("unknown directive: %q", d.Text),
			Hint:     "The parser ignores this line; delete it if it is not meant for another tool",
		}
	}
}

// duplicateOrderIssues flags records sharing a folder and order. A
// parsed file cannot produce these, but catalogs assembled through the
// API can, and the file would round-trip with shuffled selectors.
func duplicateOrderIssues(relPath string, recs []*catalog.Record) []checkIssue {
	byFolder := make(map[string][]*catalog.Record)
	for _, r := range recs {
		key := r.Path.Key()
		byFolder[key] = append(byFolder[key], r)
	}

	keys := make([]string, 0, len(byFolder))
	for k := range byFolder {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var issues []checkIssue
	for _, k := range keys {
		group := byFolder[k]
		seen := make(map[int]bool)
		for _, r := range group {
			if seen[r.Order] {
				issues = append(issues, checkIssue{
					File:     relPath,
					Severity: "error",
					Code:     "duplicate_order",
					Message:  fmt.Sprintf("duplicate order %d in folder %q", r.Order, r.Path.String()),
					Hint:     "Run 'roost fmt' to rewrite the file; orders are reassigned from line sequence on parse",
				})
			}
			seen[r.Order] = true
		}
	}
	return issues
}

// unlistedTypeIssues flags entity types outside the roost.yaml allow
// lists, one warning per distinct kind and type with an occurrence
// count. A nil rule set permits everything.
func unlistedTypeIssues(relPath string, rules *config.TypeRules, recs []*catalog.Record) []checkIssue {
	if rules == nil {
		return nil
	}

	type offender struct {
		kind catalog.Kind
		name string
	}
	counts := make(map[offender]int)
	for _, r := range recs {
		ok := rules.AllowsActor(r.Type)
		if r.Kind == catalog.KindProp {
			ok = rules.AllowsProp(r.Type)
		}
		if !ok {
			counts[offender{r.Kind, r.Type}]++
		}
	}

	offenders := make([]offender, 0, len(counts))
	for o := range counts {
		offenders = append(offenders, o)
	}
	sort.Slice(offenders, func(i, j int) bool {
		if offenders[i].kind != offenders[j].kind {
			return offenders[i].kind < offenders[j].kind
		}
		return offenders[i].name < offenders[j].name
	})

	issues := make([]checkIssue, 0, len(offenders))
	for _, o := range offenders {
		issues = append(issues, checkIssue{
			File:     relPath,
			Severity: "warning",
			Code:     "unlisted_type",
			Message:  fmt.Sprintf("%s type %q is not in the roost.yaml allow list %s", o.kind, o.name, ui.Count(counts[o], "record", "records")),
			Hint:     "Add it under types in roost.yaml, or fix the type with 'roost set'",
		})
	}
	return issues
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Treat warnings as errors")

	rootCmd.AddCommand(checkCmd)
}
