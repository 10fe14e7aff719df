package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureGitignore(t *testing.T) {
	t.Run("creates file when missing", func(t *testing.T) {
		dir := t.TempDir()

		status, err := ensureGitignore(dir)
		if err != nil {
			t.Fatalf("ensureGitignore: %v", err)
		}
		if status != "created" {
			t.Errorf("expected status created, got %q", status)
		}

		content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
		if err != nil {
			t.Fatalf("read .gitignore: %v", err)
		}
		if !strings.Contains(string(content), ".roost/") {
			t.Errorf(".gitignore missing .roost/ entry:\n%s", content)
		}
	})

	t.Run("appends to existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".gitignore")
		if err := os.WriteFile(path, []byte("build/\n*.log\n"), 0644); err != nil {
			t.Fatalf("write .gitignore: %v", err)
		}

		status, err := ensureGitignore(dir)
		if err != nil {
			t.Fatalf("ensureGitignore: %v", err)
		}
		if status != "updated" {
			t.Errorf("expected status updated, got %q", status)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read .gitignore: %v", err)
		}
		got := string(content)
		if !strings.Contains(got, "build/") || !strings.Contains(got, "*.log") {
			t.Errorf("existing entries lost:\n%s", got)
		}
		if !strings.Contains(got, ".roost/") {
			t.Errorf(".roost/ entry not appended:\n%s", got)
		}
	})

	t.Run("leaves covered file alone", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".gitignore")
		original := "# mine\n.roost/\n"
		if err := os.WriteFile(path, []byte(original), 0644); err != nil {
			t.Fatalf("write .gitignore: %v", err)
		}

		status, err := ensureGitignore(dir)
		if err != nil {
			t.Fatalf("ensureGitignore: %v", err)
		}
		if status != "unchanged" {
			t.Errorf("expected status unchanged, got %q", status)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read .gitignore: %v", err)
		}
		if string(content) != original {
			t.Errorf("covered .gitignore was rewritten:\n%s", content)
		}
	})
}
