package cli

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/config"
	"github.com/roostlabs/roost/internal/index"
)

const maxCompletionResults = 200

// completeFolderArgAt completes a folder path for one positional
// argument, using the indexed folder set. Other positions fall through
// to the given directive.
func completeFolderArgAt(argIndex int, nonTarget cobra.ShellCompDirective) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != argIndex {
			return nil, nonTarget
		}
		return completeFolderValues(cmd, toComplete)
	}
}

// completeFolderFlag completes folder paths for --folder / --to flags.
func completeFolderFlag(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFolderValues(cmd, toComplete)
}

func completeFolderValues(cmd *cobra.Command, toComplete string) ([]string, cobra.ShellCompDirective) {
	workspacePath := completionWorkspacePath(cmd)
	if workspacePath == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	db, err := index.Open(workspacePath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer db.Close()

	folders, err := db.AllFolderPaths()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	matches := filterCompletionCandidates(folders, toComplete)
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeCatalogFlag completes -c values: short names from the
// roost.yaml catalogs map plus indexed file paths, with and without
// the .spawn extension.
func completeCatalogFlag(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	workspacePath := completionWorkspacePath(cmd)
	if workspacePath == "" {
		return nil, cobra.ShellCompDirectiveDefault
	}

	var candidates []string
	if wcfg, err := config.LoadWorkspaceConfig(workspacePath); err == nil {
		for name := range wcfg.Catalogs {
			candidates = append(candidates, name)
		}
	}

	if db, err := index.Open(workspacePath); err == nil {
		if paths, err := db.AllIndexedFilePaths(); err == nil {
			for _, p := range paths {
				candidates = append(candidates, p)
				if short := strings.TrimSuffix(p, ".spawn"); short != p {
					candidates = append(candidates, short)
				}
			}
		}
		db.Close()
	}

	matches := filterCompletionCandidates(candidates, toComplete)
	if len(matches) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

func filterCompletionCandidates(candidates []string, toComplete string) []string {
	seen := make(map[string]struct{})
	var matches []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if !matchesCompletion(c, toComplete) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		matches = append(matches, c)
	}
	sort.Strings(matches)
	if len(matches) > maxCompletionResults {
		matches = matches[:maxCompletionResults]
	}
	return matches
}

func matchesCompletion(candidate, input string) bool {
	if input == "" {
		return true
	}

	candidate = strings.ToLower(candidate)
	input = strings.ToLower(input)

	if strings.HasPrefix(candidate, input) {
		return true
	}

	// Allow segment-wise shorthand for nested folders:
	// "ar/pr" matches "arena/props".
	if strings.Contains(input, "/") && strings.Contains(candidate, "/") {
		inputParts := strings.Split(input, "/")
		candidateParts := strings.Split(candidate, "/")
		if len(candidateParts) >= len(inputParts) {
			for i, part := range inputParts {
				if part == "" {
					continue
				}
				if !strings.HasPrefix(candidateParts[i], part) {
					return false
				}
			}
			return true
		}
	}

	return false
}

// completionWorkspacePath resolves the workspace for a completion
// request. Completions run outside PersistentPreRunE, so the
// resolution is redone from raw flags; any failure returns "" and the
// completion degrades to the shell default.
func completionWorkspacePath(cmd *cobra.Command) string {
	if explicit := strings.TrimSpace(getFlagString(cmd, "workspace-path")); explicit != "" {
		return explicit
	}

	cfgPath := strings.TrimSpace(getFlagString(cmd, "config"))
	statePath := strings.TrimSpace(getFlagString(cmd, "state"))
	namedWorkspace := strings.TrimSpace(getFlagString(cmd, "workspace"))

	resolvedConfigPath := config.ResolveConfigPath(cfgPath)

	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.LoadFrom(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil || cfg == nil {
		return ""
	}

	if namedWorkspace != "" {
		path, err := cfg.GetWorkspacePath(namedWorkspace)
		if err == nil {
			return path
		}
		return ""
	}

	if envPath := strings.TrimSpace(os.Getenv("ROOST_WORKSPACE")); envPath != "" {
		return envPath
	}

	resolvedStatePath := config.ResolveStatePath(statePath, resolvedConfigPath, cfg)
	state, err := config.LoadState(resolvedStatePath)
	if err == nil {
		activeName := strings.TrimSpace(state.ActiveWorkspace)
		if activeName != "" {
			path, err := cfg.GetWorkspacePath(activeName)
			if err == nil {
				return path
			}
		}
	}

	defaultPath, err := cfg.GetDefaultWorkspacePath()
	if err == nil {
		return defaultPath
	}

	return ""
}

func getFlagString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return value
}
