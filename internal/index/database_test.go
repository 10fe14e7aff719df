package index

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roostlabs/roost/internal/catalog"
)

const sampleSpawnFile = `# arena
## waves
bot spawn 1 Goblin 10 0 5 90
bot spawn 1 Goblin 12 0 5
spawn 1 Barrel 1.5 0 -2 0 45 0
# hub
spawn 1 Crate 0 0 0 0 0 0
`

func indexSample(t *testing.T, db *Database, relPath string) {
	t.Helper()
	res := catalog.Parse([]byte(sampleSpawnFile))
	if len(res.Diagnostics) != 0 {
		t.Fatalf("sample file has diagnostics: %v", res.Diagnostics)
	}
	if err := db.IndexParse(relPath, 1700000000, res); err != nil {
		t.Fatalf("failed to index %s: %v", relPath, err)
	}
}

func TestDatabase(t *testing.T) {
	t.Run("initialization", func(t *testing.T) {
		db, err := OpenInMemory()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		stats, err := db.Stats()
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}

		if stats.FileCount != 0 {
			t.Errorf("expected 0 files, got %d", stats.FileCount)
		}
		if stats.RecordCount != 0 {
			t.Errorf("expected 0 records, got %d", stats.RecordCount)
		}
	})

	t.Run("index parse", func(t *testing.T) {
		db, err := OpenInMemory()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		indexSample(t, db, "spawns.spawn")

		stats, err := db.Stats()
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}

		if stats.FileCount != 1 {
			t.Errorf("expected 1 file, got %d", stats.FileCount)
		}
		if stats.RecordCount != 4 {
			t.Errorf("expected 4 records, got %d", stats.RecordCount)
		}
		if stats.ActorCount != 2 {
			t.Errorf("expected 2 actors, got %d", stats.ActorCount)
		}
		if stats.PropCount != 2 {
			t.Errorf("expected 2 props, got %d", stats.PropCount)
		}
		if stats.FolderCount != 3 {
			t.Errorf("expected 3 folders, got %d", stats.FolderCount)
		}
	})

	t.Run("reindex replaces data", func(t *testing.T) {
		db, err := OpenInMemory()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		indexSample(t, db, "spawns.spawn")
		indexSample(t, db, "spawns.spawn")

		stats, _ := db.Stats()
		if stats.RecordCount != 4 {
			t.Errorf("expected 4 records after reindex, got %d", stats.RecordCount)
		}
		if stats.FileCount != 1 {
			t.Errorf("expected 1 file after reindex, got %d", stats.FileCount)
		}
	})

	t.Run("diagnostics counted", func(t *testing.T) {
		db, err := OpenInMemory()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		res := catalog.Parse([]byte("bot spawn 1 Goblin 0 0 0\nteleport 1 2 3\n"))
		if len(res.Diagnostics) != 1 {
			t.Fatalf("expected 1 diagnostic, got %d", len(res.Diagnostics))
		}
		if err := db.IndexParse("broken.spawn", 0, res); err != nil {
			t.Fatalf("failed to index: %v", err)
		}

		stats, _ := db.Stats()
		if stats.DiagnosticCount != 1 {
			t.Errorf("expected 1 diagnostic in stats, got %d", stats.DiagnosticCount)
		}
	})

	t.Run("index catalog clears diagnostics", func(t *testing.T) {
		db, err := OpenInMemory()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		res := catalog.Parse([]byte("bot spawn 1 Goblin 0 0 0\nnot a command\n"))
		if err := db.IndexParse("broken.spawn", 0, res); err != nil {
			t.Fatalf("failed to index: %v", err)
		}

		// After a canonical save the junk line is gone from the file.
		cat := catalog.FromParse(res)
		if err := db.IndexCatalog("broken.spawn", 0, cat); err != nil {
			t.Fatalf("failed to reindex: %v", err)
		}

		stats, _ := db.Stats()
		if stats.DiagnosticCount != 0 {
			t.Errorf("expected 0 diagnostics after catalog index, got %d", stats.DiagnosticCount)
		}
		if stats.RecordCount != 1 {
			t.Errorf("expected 1 record, got %d", stats.RecordCount)
		}
	})

	t.Run("remove file", func(t *testing.T) {
		db, err := OpenInMemory()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		indexSample(t, db, "a.spawn")
		indexSample(t, db, "b.spawn")

		if err := db.RemoveFile("a.spawn"); err != nil {
			t.Fatalf("failed to remove file: %v", err)
		}

		stats, _ := db.Stats()
		if stats.FileCount != 1 {
			t.Errorf("expected 1 file after removal, got %d", stats.FileCount)
		}
		if stats.RecordCount != 4 {
			t.Errorf("expected 4 records after removal, got %d", stats.RecordCount)
		}

		results, err := db.QueryRecords(RecordFilter{File: "a.spawn"})
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no records for removed file, got %d", len(results))
		}
	})

	t.Run("clear all data", func(t *testing.T) {
		db, err := OpenInMemory()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		indexSample(t, db, "spawns.spawn")

		if err := db.ClearAllData(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		stats, _ := db.Stats()
		if stats.FileCount != 0 || stats.RecordCount != 0 || stats.FolderCount != 0 {
			t.Errorf("expected empty stats after clear, got %+v", stats)
		}
	})

	t.Run("file mtime", func(t *testing.T) {
		db, err := OpenInMemory()
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		indexSample(t, db, "spawns.spawn")

		mtime, err := db.FileMtime("spawns.spawn")
		if err != nil {
			t.Fatalf("failed to get mtime: %v", err)
		}
		if mtime != 1700000000 {
			t.Errorf("expected mtime 1700000000, got %d", mtime)
		}

		missing, err := db.FileMtime("nope.spawn")
		if err != nil {
			t.Fatalf("unexpected error for missing file: %v", err)
		}
		if missing != 0 {
			t.Errorf("expected 0 for unindexed file, got %d", missing)
		}
	})
}

func TestAllIndexedFilePaths(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	indexSample(t, db, "b.spawn")
	indexSample(t, db, "a.spawn")

	paths, err := db.AllIndexedFilePaths()
	if err != nil {
		t.Fatalf("failed to get indexed paths: %v", err)
	}

	if len(paths) != 2 || paths[0] != "a.spawn" || paths[1] != "b.spawn" {
		t.Errorf("expected sorted [a.spawn b.spawn], got %v", paths)
	}
}

func TestRemoveDeletedFiles(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	workspace := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspace, "kept.spawn"), []byte(sampleSpawnFile), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	indexSample(t, db, "kept.spawn")
	indexSample(t, db, "ghost.spawn")

	removed, err := db.RemoveDeletedFiles(workspace)
	if err != nil {
		t.Fatalf("failed to remove deleted files: %v", err)
	}

	if len(removed) != 1 || removed[0] != "ghost.spawn" {
		t.Errorf("expected [ghost.spawn] removed, got %v", removed)
	}

	paths, _ := db.AllIndexedFilePaths()
	if len(paths) != 1 || paths[0] != "kept.spawn" {
		t.Errorf("expected [kept.spawn] to remain, got %v", paths)
	}
}

func TestOpenWithRebuild(t *testing.T) {
	t.Run("fresh open", func(t *testing.T) {
		workspace := t.TempDir()

		db, rebuilt, err := OpenWithRebuild(workspace)
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		defer db.Close()

		if rebuilt {
			t.Error("fresh open should not report a rebuild")
		}
	})

	t.Run("compatible schema is kept", func(t *testing.T) {
		workspace := t.TempDir()

		db, _, err := OpenWithRebuild(workspace)
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		indexSample(t, db, "spawns.spawn")
		db.Close()

		db2, rebuilt, err := OpenWithRebuild(workspace)
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer db2.Close()

		if rebuilt {
			t.Error("compatible schema should not trigger a rebuild")
		}
		stats, _ := db2.Stats()
		if stats.RecordCount != 4 {
			t.Errorf("expected indexed data to survive reopen, got %d records", stats.RecordCount)
		}
	})

	t.Run("incompatible schema is rebuilt", func(t *testing.T) {
		workspace := t.TempDir()
		dbDir := filepath.Join(workspace, ".roost")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}

		// Old schema: records without the orientation column.
		raw, err := sql.Open("sqlite", filepath.Join(dbDir, "index.db"))
		if err != nil {
			t.Fatalf("failed to open raw db: %v", err)
		}
		if _, err := raw.Exec("CREATE TABLE records (file_path TEXT, folder_path TEXT, ord INTEGER)"); err != nil {
			t.Fatalf("failed to create old schema: %v", err)
		}
		raw.Close()

		db, rebuilt, err := OpenWithRebuild(workspace)
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		defer db.Close()

		if !rebuilt {
			t.Error("incompatible schema should trigger a rebuild")
		}

		stats, err := db.Stats()
		if err != nil {
			t.Fatalf("rebuilt database is not usable: %v", err)
		}
		if stats.RecordCount != 0 {
			t.Errorf("expected empty rebuilt database, got %d records", stats.RecordCount)
		}
	})

	t.Run("locked index", func(t *testing.T) {
		workspace := t.TempDir()
		dbDir := filepath.Join(workspace, ".roost")

		lock, err := acquireIndexLock(dbDir)
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}
		defer lock.Release()

		_, _, err = OpenWithRebuild(workspace)
		if !errors.Is(err, ErrIndexLocked) {
			t.Errorf("expected ErrIndexLocked, got %v", err)
		}
	})
}
