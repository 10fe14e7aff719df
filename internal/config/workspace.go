package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roostlabs/roost/internal/atomicfile"
)

const (
	// WorkspaceMarker is the file that marks a directory as a Roost workspace.
	WorkspaceMarker = "roost.yaml"

	// DefaultCatalogFile is the catalog opened when none is configured or named.
	DefaultCatalogFile = "spawns.spawn"
)

// WorkspaceConfig represents workspace-level configuration from roost.yaml.
type WorkspaceConfig struct {
	// DefaultCatalog is the catalog file opened when no catalog is named
	// (default: "spawns.spawn").
	DefaultCatalog string `yaml:"default_catalog,omitempty"`

	// Catalogs maps short names to workspace-relative catalog files,
	// so `roost list arena` can stand in for `roost list maps/arena.spawn`.
	Catalogs map[string]string `yaml:"catalogs,omitempty"`

	// Patterns are shell glob patterns matched against file names during
	// catalog discovery (default: "*.spawn").
	Patterns []string `yaml:"patterns,omitempty"`

	// AutoReindex triggers an incremental reindex after CLI operations that
	// modify catalogs (default: true).
	AutoReindex *bool `yaml:"auto_reindex,omitempty"`

	// Backups configures pre-save catalog backups.
	Backups *BackupConfig `yaml:"backups,omitempty"`

	// Types restricts which entity type names `roost check` accepts.
	// Empty lists allow any name.
	Types *TypeRules `yaml:"types,omitempty"`
}

// BackupConfig configures how catalog backups are handled.
type BackupConfig struct {
	// Enabled turns pre-save backups on or off (default: true).
	Enabled *bool `yaml:"enabled,omitempty"`

	// Dir is the directory within the workspace where backups go
	// (default: ".roost/backups").
	Dir string `yaml:"dir,omitempty"`

	// Keep is how many backups to retain per catalog (default: 10).
	Keep int `yaml:"keep,omitempty"`
}

// TypeRules lists the entity type names a workspace permits.
type TypeRules struct {
	// Actors are permitted actor type names.
	Actors []string `yaml:"actors,omitempty"`

	// Props are permitted prop type names.
	Props []string `yaml:"props,omitempty"`
}

// AllowsActor reports whether name is a permitted actor type.
// An empty list permits everything.
func (tr *TypeRules) AllowsActor(name string) bool {
	return tr == nil || allowsName(tr.Actors, name)
}

// AllowsProp reports whether name is a permitted prop type.
// An empty list permits everything.
func (tr *TypeRules) AllowsProp(name string) bool {
	return tr == nil || allowsName(tr.Props, name)
}

func allowsName(allowed []string, name string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if candidate == name {
			return true
		}
	}
	return false
}

// IsEnabled reports whether pre-save backups are on (default: true).
func (bc *BackupConfig) IsEnabled() bool {
	return bc != nil && (bc.Enabled == nil || *bc.Enabled)
}

// GetBackupConfig returns the backup config with defaults applied.
func (wc *WorkspaceConfig) GetBackupConfig() *BackupConfig {
	cfg := BackupConfig{}
	if wc.Backups != nil {
		cfg = *wc.Backups
	}
	if cfg.Enabled == nil {
		cfg.Enabled = boolPtr(true)
	}
	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(".roost", "backups")
	}
	if cfg.Keep <= 0 {
		cfg.Keep = 10
	}
	return &cfg
}

// IsAutoReindexEnabled returns true if auto-reindexing is enabled (default: true).
func (wc *WorkspaceConfig) IsAutoReindexEnabled() bool {
	if wc.AutoReindex == nil {
		return true // Enabled by default
	}
	return *wc.AutoReindex
}

// GetPatterns returns the discovery patterns with defaults applied.
func (wc *WorkspaceConfig) GetPatterns() []string {
	if len(wc.Patterns) == 0 {
		return []string{"*.spawn"}
	}
	return wc.Patterns
}

// MatchesCatalog reports whether a file name matches any discovery pattern.
func (wc *WorkspaceConfig) MatchesCatalog(fileName string) bool {
	for _, pattern := range wc.GetPatterns() {
		if ok, err := filepath.Match(pattern, fileName); err == nil && ok {
			return true
		}
	}
	return false
}

// ResolveCatalog maps a catalog argument to a workspace-relative file path.
// Empty input resolves to the default catalog; named entries from the
// catalogs map win over literal paths; a bare name without an extension
// gets ".spawn" appended.
func (wc *WorkspaceConfig) ResolveCatalog(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		if wc.DefaultCatalog != "" {
			return wc.DefaultCatalog
		}
		return DefaultCatalogFile
	}

	if wc.Catalogs != nil {
		if rel, ok := wc.Catalogs[name]; ok {
			return rel
		}
	}

	if filepath.Ext(name) == "" {
		return name + ".spawn"
	}
	return name
}

func boolPtr(b bool) *bool {
	return &b
}

// DefaultWorkspaceConfig returns the default workspace configuration.
func DefaultWorkspaceConfig() *WorkspaceConfig {
	return &WorkspaceConfig{
		DefaultCatalog: DefaultCatalogFile,
	}
}

// LoadWorkspaceConfig loads workspace configuration from roost.yaml.
// Returns default config if the file doesn't exist.
func LoadWorkspaceConfig(workspacePath string) (*WorkspaceConfig, error) {
	configPath := filepath.Join(workspacePath, WorkspaceMarker)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultWorkspaceConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace config %s: %w", configPath, err)
	}

	var config WorkspaceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse workspace config %s: %w", configPath, err)
	}

	if config.DefaultCatalog == "" {
		config.DefaultCatalog = DefaultCatalogFile
	}

	return &config, nil
}

// CreateDefaultWorkspaceConfig creates a default roost.yaml file in the workspace.
// Returns true if a new file was created, false if one already existed.
func CreateDefaultWorkspaceConfig(workspacePath string) (bool, error) {
	configPath := filepath.Join(workspacePath, WorkspaceMarker)

	// Skip if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	defaultConfig := `# Roost Workspace Configuration
# These settings control workspace-level behavior.

# Catalog opened when no catalog is named
default_catalog: spawns.spawn

# Short names for catalog files
# catalogs:
#   arena: maps/arena.spawn
#   hub: maps/hub_town.spawn

# File name patterns used for catalog discovery (default: "*.spawn")
# patterns:
#   - "*.spawn"

# Auto-reindex after CLI operations that modify catalogs (default: true)
# When enabled, commands like 'roost add', 'roost move', 'roost set'
# refresh the index automatically. Disable for manual 'roost reindex'.
auto_reindex: true

# Pre-save backups
# backups:
#   enabled: true
#   dir: .roost/backups
#   keep: 10

# Restrict entity type names accepted by 'roost check'
# Empty lists allow any name.
# types:
#   actors:
#     - Goblin
#     - Skeleton
#   props:
#     - Barrel
#     - Crate
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write workspace config: %w", err)
	}

	return true, nil
}

// SaveWorkspaceConfig writes the workspace config back to roost.yaml.
func SaveWorkspaceConfig(workspacePath string, cfg *WorkspaceConfig) error {
	configPath := filepath.Join(workspacePath, WorkspaceMarker)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", WorkspaceMarker, err)
	}

	return nil
}

// CatalogPath returns the absolute path of a workspace-relative catalog file.
func CatalogPath(workspacePath, rel string) string {
	return filepath.Join(workspacePath, filepath.FromSlash(rel))
}
