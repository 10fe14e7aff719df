// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/config"
	"github.com/roostlabs/roost/internal/ui"
)

var (
	// Global flags
	workspaceName     string // Named workspace from config
	workspacePathFlag string // Explicit path (rare)
	configPath        string
	statePathFlag     string

	// Resolved values
	resolvedWorkspacePath string
	resolvedConfigPath    string
	resolvedStatePath     string
	cfg                   *config.Config
)

// workspaceExempt lists command names that run without a resolved workspace.
// Subcommands inherit the exemption from their parents.
var workspaceExempt = map[string]bool{
	"init":       true,
	"workspace":  true,
	"completion": true,
	"help":       true,
	"version":    true,
	"docs":       true,
}

func needsWorkspace(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if workspaceExempt[c.Name()] {
			return false
		}
	}
	return true
}

var rootCmd = &cobra.Command{
	Use:   "roost",
	Short: "Roost - A spawn catalog manager",
	Long: `Roost manages hierarchical spawn catalogs for game levels.
Plain-text spawn files are the source of truth; roost keeps them
organized, queryable, and canonically formatted.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsWorkspace(cmd) {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		resolvedWorkspacePath, err = resolveWorkspace()
		if err != nil {
			return err
		}

		if _, err := os.Stat(resolvedWorkspacePath); os.IsNotExist(err) {
			return fmt.Errorf("workspace not found: %s\n\nRun 'roost init %s' to create it", resolvedWorkspacePath, resolvedWorkspacePath)
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceName, "workspace", "w", "", "Named workspace from config")
	rootCmd.PersistentFlags().StringVar(&workspacePathFlag, "workspace-path", "", "Explicit path to workspace directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getWorkspacePath returns the workspace path resolved in PersistentPreRunE.
func getWorkspacePath() string { return resolvedWorkspacePath }

// resolveWorkspace applies the workspace precedence chain:
// --workspace-path > --workspace > ROOST_WORKSPACE > active state > default.
func resolveWorkspace() (string, error) {
	if workspacePathFlag != "" {
		return workspacePathFlag, nil
	}
	if workspaceName != "" {
		path, err := cfg.GetWorkspacePath(workspaceName)
		if err != nil {
			return "", fmt.Errorf("workspace '%s' not found\n\nRun 'roost workspace list' to see configured workspaces", workspaceName)
		}
		return path, nil
	}
	if envPath := strings.TrimSpace(os.Getenv("ROOST_WORKSPACE")); envPath != "" {
		return envPath, nil
	}

	// state.toml is only consulted when no flag or env override applies.
	state, err := config.LoadState(resolvedStatePath)
	if err != nil {
		return "", fmt.Errorf("failed to load state: %w", err)
	}

	if active := strings.TrimSpace(state.ActiveWorkspace); active != "" {
		path, err := cfg.GetWorkspacePath(active)
		if err == nil {
			return path, nil
		}
		// Stale active workspace: fall back to the default if there is one.
		path, defErr := cfg.GetDefaultWorkspacePath()
		if defErr != nil {
			return "", fmt.Errorf("active workspace '%s' not found in config and no default workspace configured\n\nRun 'roost workspace use <name>' or set default_workspace in config.toml", active)
		}
		if !jsonOutput {
			fmt.Fprintf(os.Stderr, "warning: active workspace '%s' not found in config, falling back to default\n", active)
		}
		return path, nil
	}

	path, err := cfg.GetDefaultWorkspacePath()
	if err != nil {
		return "", fmt.Errorf(`no workspace specified

Either:
  1. Use --workspace <name> (from config)
  2. Use --workspace-path /path/to/workspace
  3. Set the ROOST_WORKSPACE environment variable
  4. Run 'roost workspace use <name>' to set active_workspace in state.toml
  5. Set default_workspace in ~/.config/roost/config.toml
  6. Run 'roost init /path/to/new/workspace' to create one`)
	}
	return path, nil
}

// loadGlobalConfig loads config.toml, honoring --config, and reports the
// path it resolved to.
func loadGlobalConfig() (*config.Config, string, error) {
	resolved := config.ResolveConfigPath(configPath)

	load := config.Load
	if strings.TrimSpace(configPath) != "" {
		load = func() (*config.Config, error) { return config.LoadFrom(configPath) }
	}

	loaded, err := load()
	if err != nil {
		return nil, "", err
	}
	if loaded == nil {
		loaded = &config.Config{}
	}
	return loaded, resolved, nil
}
