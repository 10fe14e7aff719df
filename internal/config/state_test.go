package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveStatePath(t *testing.T) {
	configPath := "/tmp/roost/config.toml"

	t.Run("explicit state path wins", func(t *testing.T) {
		got := ResolveStatePath("/tmp/custom/state.toml", configPath, &Config{
			StateFile: "state-from-config.toml",
		})
		if got != "/tmp/custom/state.toml" {
			t.Fatalf("expected explicit state path, got %q", got)
		}
	})

	t.Run("config state_file absolute", func(t *testing.T) {
		got := ResolveStatePath("", configPath, &Config{
			StateFile: "/var/tmp/roost-state.toml",
		})
		if got != "/var/tmp/roost-state.toml" {
			t.Fatalf("expected absolute state path, got %q", got)
		}
	})

	t.Run("config state_file relative to config dir", func(t *testing.T) {
		got := ResolveStatePath("", "/home/dev/.config/roost/config.toml", &Config{
			StateFile: "runtime/state.toml",
		})
		want := "/home/dev/.config/roost/runtime/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("fallback sibling state.toml", func(t *testing.T) {
		got := ResolveStatePath("", "/home/dev/.config/roost/config.toml", &Config{})
		want := "/home/dev/.config/roost/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestLoadStateMissingReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, state.Version)
	}
	if state.ActiveWorkspace != "" {
		t.Fatalf("expected empty active workspace, got %q", state.ActiveWorkspace)
	}
}

func TestLoadStateTrimsActiveWorkspace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	content := "version = 1\nactive_workspace = \"  levels \"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if state.ActiveWorkspace != "levels" {
		t.Fatalf("expected trimmed active_workspace, got %q", state.ActiveWorkspace)
	}
}

func TestLoadStateRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	if err := os.WriteFile(path, []byte("version = [not toml"), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}

	if _, err := LoadState(path); err == nil {
		t.Fatal("expected parse error for malformed state file")
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	if err := SaveState(path, &State{ActiveWorkspace: "levels"}); err != nil {
		t.Fatalf("save state: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if loaded.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, loaded.Version)
	}
	if loaded.ActiveWorkspace != "levels" {
		t.Fatalf("expected active_workspace=levels, got %q", loaded.ActiveWorkspace)
	}
}

func TestSaveToWritesConfiguredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	err := SaveTo(path, &Config{
		DefaultWorkspace: "levels",
		StateFile:        "state.toml",
		Workspaces: map[string]string{
			"levels": "/srv/game/levels",
		},
	})
	if err != nil {
		t.Fatalf("save config: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `default_workspace = "levels"`) {
		t.Fatalf("expected default_workspace in output, got:\n%s", content)
	}
	if !strings.Contains(content, `state_file = "state.toml"`) {
		t.Fatalf("expected state_file in output, got:\n%s", content)
	}
	if !strings.Contains(content, "[workspaces]") {
		t.Fatalf("expected workspaces table in output, got:\n%s", content)
	}
}
