// Package config handles the global roost configuration plus the
// machine-local state that rides alongside it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the global roost configuration, loaded from config.toml.
type Config struct {
	// DefaultWorkspace names the workspace used when none is selected,
	// set by `roost workspace pin`. Must be a key of Workspaces.
	DefaultWorkspace string `toml:"default_workspace"`

	// Workspace is a single-workspace path shorthand. When set and no
	// named workspaces exist, it acts as the sole workspace.
	Workspace string `toml:"workspace"`

	// Workspaces maps workspace names to directories.
	Workspaces map[string]string `toml:"workspaces"`

	// StateFile overrides where machine-local state is stored.
	// Relative values resolve against the config file's directory.
	StateFile string `toml:"state_file"`

	// UI holds optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig holds optional CLI theming preferences.
type UIConfig struct {
	// Accent is an accent color for CLI output and markdown rendering:
	// an ANSI color code ("0" to "255") or a hex color ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme is the Chroma theme for rendered markdown code blocks,
	// e.g. "monokai", "dracula", "github", "nord".
	CodeTheme string `toml:"code_theme"`
}

// GetWorkspacePath resolves a workspace name to its directory. An empty
// name means the default workspace.
func (c *Config) GetWorkspacePath(name string) (string, error) {
	if name == "" {
		name = c.DefaultWorkspace
	}

	// Bare path shorthand covers the unnamed case.
	if name == "" && c.Workspace != "" {
		return c.Workspace, nil
	}

	if path, ok := c.Workspaces[name]; ok {
		return path, nil
	}

	if name == "" {
		return "", fmt.Errorf("no default workspace configured")
	}
	return "", fmt.Errorf("workspace '%s' not found in config", name)
}

// GetDefaultWorkspacePath resolves the default workspace directory.
func (c *Config) GetDefaultWorkspacePath() (string, error) {
	return c.GetWorkspacePath("")
}

// ListWorkspaces returns all configured workspaces with their paths.
func (c *Config) ListWorkspaces() map[string]string {
	result := make(map[string]string, len(c.Workspaces))
	for name, path := range c.Workspaces {
		result[name] = path
	}

	// Surface the bare shorthand when nothing is named.
	if len(result) == 0 && c.Workspace != "" {
		result["default"] = c.Workspace
	}
	return result
}

// Load reads the config from the default location. A missing file yields
// an empty config: roost works without any global configuration.
func Load() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path. Unlike Load, a missing
// file is an error: the caller asked for that file specifically.
func LoadFrom(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var config Config
	if err := toml.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the config file location: ~/.config/roost/config.toml
// when it exists (XDG style on every OS), otherwise the OS-specific user
// config dir.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "roost", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "roost", "config.toml")
	}

	// Last resort when no home directory is resolvable.
	return filepath.Join(".", "config.toml")
}
