package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/roostlabs/roost/internal/atomicfile"
)

// persistedConfig mirrors Config with pointer fields so zero values are
// omitted from the written file instead of appearing as empty strings.
type persistedConfig struct {
	DefaultWorkspace *string              `toml:"default_workspace,omitempty"`
	StateFile        *string              `toml:"state_file,omitempty"`
	Workspace        *string              `toml:"workspace,omitempty"`
	Workspaces       map[string]string    `toml:"workspaces,omitempty"`
	UI               *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

// optStr returns nil for blank values so omitempty drops the key.
func optStr(value string) *string {
	if v := strings.TrimSpace(value); v != "" {
		return &v
	}
	return nil
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to path atomically, creating parent
// directories as needed.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DefaultWorkspace: optStr(cfg.DefaultWorkspace),
		StateFile:        optStr(cfg.StateFile),
		Workspace:        optStr(cfg.Workspace),
	}
	if len(cfg.Workspaces) > 0 {
		out.Workspaces = cfg.Workspaces
	}
	if ui := (persistedUISettings{
		Accent:    optStr(cfg.UI.Accent),
		CodeTheme: optStr(cfg.UI.CodeTheme),
	}); ui.Accent != nil || ui.CodeTheme != nil {
		out.UI = &ui
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
