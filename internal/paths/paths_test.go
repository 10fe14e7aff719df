package paths

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"maps/arena.spawn", "maps/arena.spawn"},
		{"./maps/arena.spawn", "maps/arena.spawn"},
		{"/maps/arena.spawn", "maps/arena.spawn"},
		{"maps//arena.spawn", "maps/arena.spawn"},
		{"maps///deep//arena.spawn", "maps/deep/arena.spawn"},
	}
	for _, tc := range tests {
		if got := NormalizeRelPath(tc.in); got != tc.want {
			t.Fatalf("NormalizeRelPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateWithinWorkspace(t *testing.T) {
	root := t.TempDir()

	t.Run("inside", func(t *testing.T) {
		inside := filepath.Join(root, "maps", "arena.spawn")
		if err := ValidateWithinWorkspace(root, inside); err != nil {
			t.Fatalf("unexpected error for inside path: %v", err)
		}
	})

	t.Run("root itself", func(t *testing.T) {
		if err := ValidateWithinWorkspace(root, root); err != nil {
			t.Fatalf("unexpected error for root path: %v", err)
		}
	})

	t.Run("outside", func(t *testing.T) {
		outside := filepath.Join(root, "..", "elsewhere.spawn")
		err := ValidateWithinWorkspace(root, outside)
		if !errors.Is(err, ErrPathOutsideWorkspace) {
			t.Fatalf("expected ErrPathOutsideWorkspace, got %v", err)
		}
	})

	t.Run("traversal", func(t *testing.T) {
		sneaky := filepath.Join(root, "maps", "..", "..", "secret.spawn")
		err := ValidateWithinWorkspace(root, sneaky)
		if !errors.Is(err, ErrPathOutsideWorkspace) {
			t.Fatalf("expected ErrPathOutsideWorkspace, got %v", err)
		}
	})
}

func TestIsHiddenPath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"maps/arena.spawn", false},
		{".roost/index.db", true},
		{"maps/.backup/arena.spawn", true},
		{".git/config", true},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsHiddenPath(tc.in); got != tc.want {
			t.Fatalf("IsHiddenPath(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
