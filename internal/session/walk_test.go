package session

import (
	"testing"
)

func TestWalkCatalogFiles(t *testing.T) {
	workspace := t.TempDir()

	// workspace/
	//   spawns.spawn
	//   maps/
	//     arena.spawn
	//   .roost/
	//     index.db        (skipped: hidden directory)
	//   notes.md          (skipped: pattern mismatch)
	writeWorkspaceFile(t, workspace, "spawns.spawn", sampleCatalogFile)
	writeWorkspaceFile(t, workspace, "maps/arena.spawn", "bot spawn 1 Goblin 0 0 0\n")
	writeWorkspaceFile(t, workspace, ".roost/index.db", "fake db")
	writeWorkspaceFile(t, workspace, "notes.md", "# notes\n")

	var seen []WalkResult
	err := WalkCatalogFiles(workspace, nil, func(result WalkResult) error {
		seen = append(seen, result)
		return nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 catalog files, got %d: %+v", len(seen), seen)
	}

	byRel := make(map[string]WalkResult)
	for _, result := range seen {
		if result.Error != nil {
			t.Fatalf("unexpected walk error for %s: %v", result.RelativePath, result.Error)
		}
		byRel[result.RelativePath] = result
	}

	root, ok := byRel["spawns.spawn"]
	if !ok {
		t.Fatal("expected spawns.spawn in results")
	}
	if len(root.Result.Records) != 3 {
		t.Errorf("expected 3 records in spawns.spawn, got %d", len(root.Result.Records))
	}
	if root.FileMtime == 0 {
		t.Error("expected a file mtime")
	}

	nested, ok := byRel["maps/arena.spawn"]
	if !ok {
		t.Fatal("expected maps/arena.spawn in results")
	}
	if len(nested.Result.Records) != 1 {
		t.Errorf("expected 1 record in arena.spawn, got %d", len(nested.Result.Records))
	}
}

func TestWalkCatalogFilesPatterns(t *testing.T) {
	workspace := t.TempDir()
	writeWorkspaceFile(t, workspace, "old-format.txt", "bot spawn 1 Goblin 0 0 0\n")
	writeWorkspaceFile(t, workspace, "spawns.spawn", sampleCatalogFile)

	var rels []string
	err := WalkCatalogFiles(workspace, []string{"*.txt"}, func(result WalkResult) error {
		rels = append(rels, result.RelativePath)
		return nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if len(rels) != 1 || rels[0] != "old-format.txt" {
		t.Errorf("expected only old-format.txt with a custom pattern, got %v", rels)
	}
}

func TestWalkCatalogFilesEmptyWorkspace(t *testing.T) {
	workspace := t.TempDir()

	calls := 0
	err := WalkCatalogFiles(workspace, nil, func(result WalkResult) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no handler calls, got %d", calls)
	}
}
