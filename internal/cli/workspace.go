package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roostlabs/roost/internal/config"
)

type workspaceContext struct {
	cfg        *config.Config
	state      *config.State
	configPath string
	statePath  string
}

type workspaceRow struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
}

type currentWorkspaceInfo struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Source        string `json:"source"`
	ActiveMissing bool   `json:"active_missing"`
}

var (
	workspaceAddReplace         bool
	workspaceAddPin             bool
	workspaceRemoveClearDefault bool
	workspaceRemoveClearActive  bool
)

func loadWorkspaceContext() (*workspaceContext, error) {
	loadedCfg, resolvedPath, err := loadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	statePath := config.ResolveStatePath(statePathFlag, resolvedPath, loadedCfg)
	state, err := config.LoadState(statePath)
	if err != nil {
		return nil, err
	}

	return &workspaceContext{
		cfg:        loadedCfg,
		state:      state,
		configPath: resolvedPath,
		statePath:  statePath,
	}, nil
}

func defaultWorkspaceName(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	if strings.TrimSpace(cfg.DefaultWorkspace) != "" {
		return strings.TrimSpace(cfg.DefaultWorkspace)
	}
	if strings.TrimSpace(cfg.Workspace) != "" && len(cfg.Workspaces) == 0 {
		return "default"
	}
	return ""
}

func workspaceRows(cfg *config.Config, state *config.State) ([]workspaceRow, string, string, bool) {
	workspaces := cfg.ListWorkspaces()
	defaultName := defaultWorkspaceName(cfg)
	activeName := ""
	if state != nil {
		activeName = strings.TrimSpace(state.ActiveWorkspace)
	}

	rows := make([]workspaceRow, 0, len(workspaces))
	names := make([]string, 0, len(workspaces))
	for name := range workspaces {
		names = append(names, name)
	}
	sort.Strings(names)

	activeMissing := activeName != ""
	for _, name := range names {
		rows = append(rows, workspaceRow{
			Name:      name,
			Path:      workspaces[name],
			IsDefault: name == defaultName,
			IsActive:  name == activeName,
		})
		if name == activeName {
			activeMissing = false
		}
	}

	return rows, defaultName, activeName, activeMissing
}

func resolveCurrentWorkspace(cfg *config.Config, state *config.State) (*currentWorkspaceInfo, error) {
	activeName := ""
	if state != nil {
		activeName = strings.TrimSpace(state.ActiveWorkspace)
	}

	if activeName != "" {
		path, err := cfg.GetWorkspacePath(activeName)
		if err == nil {
			return &currentWorkspaceInfo{
				Name:   activeName,
				Path:   path,
				Source: "active_workspace",
			}, nil
		}
	}

	defaultPath, err := cfg.GetDefaultWorkspacePath()
	if err != nil {
		if activeName != "" {
			return nil, fmt.Errorf("active workspace '%s' not found in config and no default workspace configured", activeName)
		}
		return nil, err
	}

	source := "default_workspace"
	activeMissing := false
	if activeName != "" {
		source = "default_workspace_fallback"
		activeMissing = true
	}

	return &currentWorkspaceInfo{
		Name:          defaultWorkspaceName(cfg),
		Path:          defaultPath,
		Source:        source,
		ActiveMissing: activeMissing,
	}, nil
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	ctx, err := loadWorkspaceContext()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	rows, defaultName, activeName, activeMissing := workspaceRows(ctx.cfg, ctx.state)
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path":       ctx.configPath,
			"state_path":        ctx.statePath,
			"default_workspace": defaultName,
			"active_workspace":  activeName,
			"active_missing":    activeMissing,
			"workspaces":        rows,
		}, &Meta{Count: len(rows)})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println("No workspaces configured.")
		fmt.Printf("Config: %s\n", ctx.configPath)
		fmt.Println()
		fmt.Println("Add workspaces to config.toml:")
		fmt.Println()
		fmt.Println("  default_workspace = \"shooter\"")
		fmt.Println()
		fmt.Println("  [workspaces]")
		fmt.Println("  shooter = \"/path/to/your/levels\"")
		return nil
	}

	for _, row := range rows {
		prefix := "  "
		if row.IsActive && row.IsDefault {
			prefix = ">*"
		} else if row.IsActive {
			prefix = "> "
		} else if row.IsDefault {
			prefix = " *"
		}
		fmt.Printf("%s %-12s -> %s\n", prefix, row.Name, row.Path)
	}

	fmt.Println()
	fmt.Println("> = active workspace (state)")
	fmt.Println("* = default workspace (config)")
	fmt.Printf("config: %s\n", ctx.configPath)
	fmt.Printf("state:  %s\n", ctx.statePath)
	if activeMissing {
		fmt.Printf("warning: active workspace '%s' in state is not configured\n", activeName)
	}

	return nil
}

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage configured workspaces and active selection",
	Long: `Manage configured workspaces and active selection.

The active workspace is stored in state.toml.
The default workspace is stored in config.toml and used as fallback.`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceList,
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured workspaces",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceList,
}

var workspaceCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current resolved workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadWorkspaceContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		current, err := resolveCurrentWorkspace(ctx.cfg, ctx.state)
		if err != nil {
			return handleError(ErrWorkspaceNotSpecified, err, "Use 'roost workspace use <name>' or set default_workspace in config.toml")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":           current.Name,
				"path":           current.Path,
				"source":         current.Source,
				"active_missing": current.ActiveMissing,
				"config_path":    ctx.configPath,
				"state_path":     ctx.statePath,
			}, nil)
			return nil
		}

		fmt.Printf("current: %s\n", current.Name)
		fmt.Printf("path:    %s\n", current.Path)
		fmt.Printf("source:  %s\n", current.Source)
		if current.ActiveMissing {
			fmt.Printf("warning: active workspace '%s' is missing; using default\n", strings.TrimSpace(ctx.state.ActiveWorkspace))
		}
		return nil
	},
}

var workspaceUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active workspace in state.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		ctx, err := loadWorkspaceContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		path, err := ctx.cfg.GetWorkspacePath(name)
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Run 'roost workspace list' to see configured workspaces")
		}

		ctx.state.ActiveWorkspace = name
		if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"active_workspace": name,
				"path":             path,
				"state_path":       ctx.statePath,
			}, nil)
			return nil
		}

		fmt.Printf("Active workspace set to '%s' -> %s\n", name, path)
		fmt.Printf("state: %s\n", ctx.statePath)
		return nil
	},
}

var workspaceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear active workspace from state.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadWorkspaceContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		prev := strings.TrimSpace(ctx.state.ActiveWorkspace)
		ctx.state.ActiveWorkspace = ""
		if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"cleared":    true,
				"previous":   prev,
				"state_path": ctx.statePath,
			}, nil)
			return nil
		}

		if prev == "" {
			fmt.Println("Active workspace already clear.")
		} else {
			fmt.Printf("Cleared active workspace '%s'.\n", prev)
		}
		fmt.Printf("state: %s\n", ctx.statePath)
		return nil
	},
}

var workspacePinCmd = &cobra.Command{
	Use:   "pin <name>",
	Short: "Set default_workspace in config.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		ctx, err := loadWorkspaceContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		path, err := ctx.cfg.GetWorkspacePath(name)
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Run 'roost workspace list' to see configured workspaces")
		}

		ctx.cfg.DefaultWorkspace = name
		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default_workspace": name,
				"path":              path,
				"config_path":       ctx.configPath,
			}, nil)
			return nil
		}

		fmt.Printf("Default workspace set to '%s' -> %s\n", name, path)
		fmt.Printf("config: %s\n", ctx.configPath)
		return nil
	},
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add a workspace to config.toml",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		rawPath := strings.TrimSpace(args[1])
		if name == "" {
			return handleErrorMsg(ErrMissingArgument, "workspace name is required", "")
		}
		if rawPath == "" {
			return handleErrorMsg(ErrMissingArgument, "workspace path is required", "")
		}

		ctx, err := loadWorkspaceContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		absPath, err := filepath.Abs(rawPath)
		if err != nil {
			return handleError(ErrInvalidInput, fmt.Errorf("failed to resolve workspace path: %w", err), "")
		}

		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("workspace path does not exist: %s", absPath), "Run 'roost init "+absPath+"' to create it first")
			}
			return handleError(ErrFileReadError, err, "")
		}
		if !info.IsDir() {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("workspace path must be a directory: %s", absPath), "")
		}

		if ctx.cfg.Workspaces == nil {
			ctx.cfg.Workspaces = make(map[string]string)
		}

		prevPath, existed := ctx.cfg.Workspaces[name]
		if existed && !workspaceAddReplace {
			return handleErrorMsg(ErrDuplicateName, fmt.Sprintf("workspace '%s' already exists", name), "Use --replace to update the path")
		}

		ctx.cfg.Workspaces[name] = absPath
		if workspaceAddPin {
			ctx.cfg.DefaultWorkspace = name
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":              name,
				"path":              absPath,
				"config_path":       ctx.configPath,
				"replaced":          existed,
				"previous_path":     prevPath,
				"pinned":            workspaceAddPin,
				"default_workspace": ctx.cfg.DefaultWorkspace,
			}, nil)
			return nil
		}

		if existed {
			fmt.Printf("Updated workspace '%s' -> %s\n", name, absPath)
		} else {
			fmt.Printf("Added workspace '%s' -> %s\n", name, absPath)
		}
		if workspaceAddPin {
			fmt.Printf("Default workspace set to '%s'.\n", name)
		}
		fmt.Printf("config: %s\n", ctx.configPath)
		return nil
	},
}

var workspaceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a workspace from config.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return handleErrorMsg(ErrMissingArgument, "workspace name is required", "")
		}

		ctx, err := loadWorkspaceContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		activeName := strings.TrimSpace(ctx.state.ActiveWorkspace)
		defaultName := defaultWorkspaceName(ctx.cfg)
		removingActive := activeName != "" && name == activeName
		removingDefault := defaultName != "" && name == defaultName

		if removingDefault && !workspaceRemoveClearDefault {
			return handleErrorMsg(ErrConfirmationRequired, fmt.Sprintf("workspace '%s' is the current default workspace", name), "Use --clear-default to clear default_workspace as part of removal, or pin another workspace first")
		}
		if removingActive && !workspaceRemoveClearActive {
			return handleErrorMsg(ErrConfirmationRequired, fmt.Sprintf("workspace '%s' is the current active workspace", name), "Use --clear-active to clear active_workspace as part of removal, or switch active workspace first")
		}

		removedPath := ""
		removedLegacy := false
		if ctx.cfg.Workspaces != nil {
			if p, ok := ctx.cfg.Workspaces[name]; ok {
				removedPath = p
				delete(ctx.cfg.Workspaces, name)
			}
		}
		if removedPath == "" && name == "default" && strings.TrimSpace(ctx.cfg.Workspace) != "" && len(ctx.cfg.Workspaces) == 0 {
			removedPath = strings.TrimSpace(ctx.cfg.Workspace)
			ctx.cfg.Workspace = ""
			removedLegacy = true
		}
		if removedPath == "" {
			return handleErrorMsg(ErrWorkspaceNotFound, fmt.Sprintf("workspace '%s' not found in config", name), "Run 'roost workspace list' to see configured workspaces")
		}

		defaultCleared := false
		if removingDefault && workspaceRemoveClearDefault {
			if strings.TrimSpace(ctx.cfg.DefaultWorkspace) == name {
				ctx.cfg.DefaultWorkspace = ""
			}
			defaultCleared = true
		}

		activeCleared := false
		if removingActive && workspaceRemoveClearActive {
			ctx.state.ActiveWorkspace = ""
			activeCleared = true
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if activeCleared {
			if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":            name,
				"removed_path":    removedPath,
				"removed_legacy":  removedLegacy,
				"default_cleared": defaultCleared,
				"active_cleared":  activeCleared,
				"config_path":     ctx.configPath,
				"state_path":      ctx.statePath,
			}, nil)
			return nil
		}

		fmt.Printf("Removed workspace '%s' (%s)\n", name, removedPath)
		if defaultCleared {
			fmt.Println("Cleared default workspace.")
		}
		if activeCleared {
			fmt.Println("Cleared active workspace.")
		}
		fmt.Printf("config: %s\n", ctx.configPath)
		if activeCleared {
			fmt.Printf("state:  %s\n", ctx.statePath)
		}
		return nil
	},
}

func init() {
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceCurrentCmd)
	workspaceCmd.AddCommand(workspaceUseCmd)
	workspaceCmd.AddCommand(workspacePinCmd)
	workspaceCmd.AddCommand(workspaceClearCmd)
	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceRemoveCmd)

	workspaceAddCmd.Flags().BoolVar(&workspaceAddReplace, "replace", false, "Replace existing workspace path if name already exists")
	workspaceAddCmd.Flags().BoolVar(&workspaceAddPin, "pin", false, "Also set this workspace as default_workspace")
	workspaceRemoveCmd.Flags().BoolVar(&workspaceRemoveClearDefault, "clear-default", false, "Clear default_workspace when removing the default")
	workspaceRemoveCmd.Flags().BoolVar(&workspaceRemoveClearActive, "clear-active", false, "Clear active_workspace when removing the active workspace")

	rootCmd.AddCommand(workspaceCmd)
}
