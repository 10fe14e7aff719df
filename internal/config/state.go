package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/roostlabs/roost/internal/atomicfile"
)

// StateVersion is the current state file schema version.
const StateVersion = 1

// State is the mutable machine-local runtime state kept in state.toml,
// separate from config.toml so `workspace use` never rewrites user config.
type State struct {
	Version         int    `toml:"version"`
	ActiveWorkspace string `toml:"active_workspace,omitempty"`
}

// ResolveConfigPath returns the explicit override when set, otherwise the
// default config location.
func ResolveConfigPath(explicitConfigPath string) string {
	if p := strings.TrimSpace(explicitConfigPath); p != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// ResolveStatePath resolves the state.toml path with precedence:
//  1. explicitStatePath flag
//  2. cfg.StateFile from config.toml (relative to the config dir when not absolute)
//  3. sibling state.toml next to config.toml
func ResolveStatePath(explicitStatePath, configPath string, cfg *Config) string {
	if strings.TrimSpace(explicitStatePath) != "" {
		return explicitStatePath
	}

	configDir := filepath.Dir(ResolveConfigPath(configPath))

	var fromConfig string
	if cfg != nil {
		fromConfig = strings.TrimSpace(cfg.StateFile)
	}
	switch {
	case fromConfig == "":
		return filepath.Join(configDir, "state.toml")
	case isAbsoluteStatePath(fromConfig):
		return filepath.Clean(filepath.FromSlash(fromConfig))
	default:
		return filepath.Join(configDir, filepath.FromSlash(fromConfig))
	}
}

// isAbsoluteStatePath treats slash-rooted config values as absolute on every
// OS, in addition to native absolute paths.
func isAbsoluteStatePath(p string) bool {
	p = strings.TrimSpace(p)
	return filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/")
}

// LoadState loads state.toml from path. A missing file yields a default
// state rather than an error.
func LoadState(path string) (*State, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state path is required")
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &State{Version: StateVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", path, err)
	}

	var state State
	if err := toml.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
	}

	if state.Version == 0 {
		state.Version = StateVersion
	}
	state.ActiveWorkspace = strings.TrimSpace(state.ActiveWorkspace)

	return &state, nil
}

// SaveState writes state.toml atomically, creating parent directories as
// needed.
func SaveState(path string, state *State) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("state path is required")
	}

	normalized := State{Version: StateVersion}
	if state != nil {
		normalized = *state
		if normalized.Version == 0 {
			normalized.Version = StateVersion
		}
		normalized.ActiveWorkspace = strings.TrimSpace(normalized.ActiveWorkspace)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(normalized); err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write state %s: %w", path, err)
	}

	return nil
}
