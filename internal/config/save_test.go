package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{
		DefaultWorkspace: "levels",
		Workspaces: map[string]string{
			"levels":  "/srv/game/levels",
			"staging": "/srv/game/staging",
		},
		UI: UIConfig{
			Accent:    "#A78BFA",
			CodeTheme: "monokai",
		},
	}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if loaded.DefaultWorkspace != "levels" {
		t.Fatalf("expected default_workspace=levels, got %q", loaded.DefaultWorkspace)
	}
	if loaded.Workspaces["staging"] != "/srv/game/staging" {
		t.Fatalf("expected workspaces.staging, got %#v", loaded.Workspaces)
	}
	if loaded.UI.Accent != "#A78BFA" {
		t.Fatalf("expected ui.accent, got %q", loaded.UI.Accent)
	}
	if loaded.UI.CodeTheme != "monokai" {
		t.Fatalf("expected ui.code_theme, got %q", loaded.UI.CodeTheme)
	}
}

func TestSaveToSkipsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := SaveTo(path, &Config{Workspace: "/solo"}); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if loaded.Workspace != "/solo" {
		t.Fatalf("expected workspace=/solo, got %q", loaded.Workspace)
	}
	if loaded.DefaultWorkspace != "" {
		t.Fatalf("expected empty default_workspace, got %q", loaded.DefaultWorkspace)
	}
	if len(loaded.Workspaces) != 0 {
		t.Fatalf("expected no named workspaces, got %#v", loaded.Workspaces)
	}

	// The file itself carries no empty keys or ui table.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(raw), "[ui]") {
		t.Fatalf("expected no ui table in output, got:\n%s", raw)
	}
	if strings.Contains(string(raw), "default_workspace") {
		t.Fatalf("expected no default_workspace key in output, got:\n%s", raw)
	}
}
