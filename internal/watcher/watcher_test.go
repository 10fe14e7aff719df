package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/roostlabs/roost/internal/index"
)

const sampleCatalog = `# arena
bot spawn 1 Goblin 10 0 5 90
spawn 1 Barrel 1.5 0 -2 0 45 0
`

func newTestWatcher(t *testing.T, workspacePath string, cfg Config) (*Watcher, *index.Database) {
	t.Helper()

	db, err := index.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg.WorkspacePath = workspacePath
	cfg.Database = db
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	return w, db
}

func TestNew(t *testing.T) {
	t.Run("requires workspace path", func(t *testing.T) {
		_, err := New(Config{Database: &index.Database{}})
		if err == nil {
			t.Fatal("expected error for missing workspace path")
		}
	})

	t.Run("requires database", func(t *testing.T) {
		_, err := New(Config{WorkspacePath: "/tmp/ws"})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		w, _ := newTestWatcher(t, t.TempDir(), Config{})
		if w.debounceDelay != 100*time.Millisecond {
			t.Errorf("expected default debounce of 100ms, got %v", w.debounceDelay)
		}
		if len(w.patterns) != 1 || w.patterns[0] != "*.spawn" {
			t.Errorf("expected default patterns [*.spawn], got %v", w.patterns)
		}
	})
}

func TestReindexFile(t *testing.T) {
	workspace := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspace, "spawns.spawn"), []byte(sampleCatalog), 0644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	w, db := newTestWatcher(t, workspace, Config{})

	t.Run("indexes catalog file", func(t *testing.T) {
		if err := w.ReindexFile("spawns.spawn"); err != nil {
			t.Fatalf("ReindexFile failed: %v", err)
		}

		stats, err := db.Stats()
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.FileCount != 1 {
			t.Errorf("expected 1 indexed file, got %d", stats.FileCount)
		}
		if stats.RecordCount != 2 {
			t.Errorf("expected 2 indexed records, got %d", stats.RecordCount)
		}
	})

	t.Run("skips non-catalog files", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(workspace, "notes.md"), []byte("# notes"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if err := w.ReindexFile("notes.md"); err != nil {
			t.Fatalf("ReindexFile failed: %v", err)
		}

		paths, err := db.AllIndexedFilePaths()
		if err != nil {
			t.Fatalf("AllIndexedFilePaths failed: %v", err)
		}
		if len(paths) != 1 || paths[0] != "spawns.spawn" {
			t.Errorf("expected only spawns.spawn indexed, got %v", paths)
		}
	})

	t.Run("skips hidden directories", func(t *testing.T) {
		hiddenDir := filepath.Join(workspace, ".roost", "backups")
		if err := os.MkdirAll(hiddenDir, 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		hidden := filepath.Join(hiddenDir, "old.spawn")
		if err := os.WriteFile(hidden, []byte(sampleCatalog), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if err := w.ReindexFile(hidden); err != nil {
			t.Fatalf("ReindexFile failed: %v", err)
		}

		paths, err := db.AllIndexedFilePaths()
		if err != nil {
			t.Fatalf("AllIndexedFilePaths failed: %v", err)
		}
		if len(paths) != 1 {
			t.Errorf("expected hidden file to be skipped, indexed paths: %v", paths)
		}
	})
}

func TestRemoveFromIndex(t *testing.T) {
	workspace := t.TempDir()
	path := filepath.Join(workspace, "spawns.spawn")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	w, db := newTestWatcher(t, workspace, Config{})
	if err := w.ReindexFile(path); err != nil {
		t.Fatalf("ReindexFile failed: %v", err)
	}

	if err := w.RemoveFromIndex(path); err != nil {
		t.Fatalf("RemoveFromIndex failed: %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.FileCount != 0 {
		t.Errorf("expected 0 indexed files after removal, got %d", stats.FileCount)
	}
}

func TestProcessPendingDebounce(t *testing.T) {
	workspace := t.TempDir()
	path := filepath.Join(workspace, "spawns.spawn")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	var reindexed []string
	w, db := newTestWatcher(t, workspace, Config{
		OnReindex: func(p string, err error) {
			if err != nil {
				t.Errorf("unexpected reindex error for %s: %v", p, err)
			}
			reindexed = append(reindexed, p)
		},
	})

	w.scheduleReindex(path)

	// Still inside the debounce window: nothing should flush.
	w.processPending()
	if len(reindexed) != 0 {
		t.Fatalf("expected no reindex before debounce delay, got %v", reindexed)
	}

	// Backdate the pending entry past the debounce delay.
	w.mu.Lock()
	w.pending[path] = time.Now().Add(-time.Second)
	w.mu.Unlock()

	w.processPending()
	if len(reindexed) != 1 || reindexed[0] != path {
		t.Fatalf("expected %s reindexed, got %v", path, reindexed)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.RecordCount != 2 {
		t.Errorf("expected 2 indexed records, got %d", stats.RecordCount)
	}

	// Queue is drained after the flush.
	w.mu.Lock()
	remaining := len(w.pending)
	w.mu.Unlock()
	if remaining != 0 {
		t.Errorf("expected empty pending queue, got %d entries", remaining)
	}
}
