//go:build integration

package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roostlabs/roost/internal/testutil"
)

// TestIntegration_RecordLifecycle tests adding, listing, editing, and
// deleting a record through the binary.
func TestIntegration_RecordLifecycle(t *testing.T) {
	w := testutil.NewTestWorkspace(t).Build()

	// Add an actor to a fresh folder
	result := w.RunCLI("add", "Goblin", "10", "0", "5", "90", "--folder", "arena")
	result.MustSucceed(t)
	if got := result.DataString("selector"); got != "arena:0" {
		t.Fatalf("expected selector arena:0, got %q", got)
	}
	w.AssertFileExists("spawns.spawn")
	w.AssertFileContains("spawns.spawn", "# arena")
	w.AssertFileContains("spawns.spawn", "bot spawn 1 Goblin 10 0 5 90")

	// List it back
	w.AssertListCount("arena", 1)

	// Edit position and orientation in place
	result = w.RunCLI("set", "arena:0", "--pos", "12,0,4", "--orientation", "180")
	result.MustSucceed(t)
	w.AssertFileContains("spawns.spawn", "bot spawn 1 Goblin 12 0 4 180")
	w.AssertFileNotContains("spawns.spawn", "10 0 5 90")

	// Delete it
	result = w.RunCLI("delete", "arena:0", "--force")
	result.MustSucceed(t)
	result.AssertHasWarning(t, "EMPTY_FOLDER")
	w.AssertListCount("arena", 0)

	// The folder header survives the deletion
	w.AssertFileContains("spawns.spawn", "# arena")
}

// TestIntegration_SelectorNumbering tests per-folder order assignment
// across adds.
func TestIntegration_SelectorNumbering(t *testing.T) {
	w := testutil.NewTestWorkspace(t).Build()

	first := w.RunCLI("add", "Goblin", "1", "0", "1", "--folder", "arena").MustSucceed(t)
	second := w.RunCLI("add", "Guard", "2", "0", "2", "--folder", "arena").MustSucceed(t)
	other := w.RunCLI("add", "Barrel", "3", "0", "3", "--prop", "--rot", "0,45,0", "--folder", "arena/props").MustSucceed(t)

	if got := first.DataString("selector"); got != "arena:0" {
		t.Errorf("first add: expected arena:0, got %q", got)
	}
	if got := second.DataString("selector"); got != "arena:1" {
		t.Errorf("second add: expected arena:1, got %q", got)
	}
	if got := other.DataString("selector"); got != "arena/props:0" {
		t.Errorf("prop add: expected arena/props:0, got %q", got)
	}

	w.AssertFileContains("spawns.spawn", "## props")
	w.AssertFileContains("spawns.spawn", "spawn 1 Barrel 3 0 3 0 45 0")
}

// TestIntegration_MoveRenumbersAfterDestination tests that moved
// records append after the destination's existing records.
func TestIntegration_MoveRenumbersAfterDestination(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	result := w.RunCLI("move", "arena:0", "--to", "hub")
	result.MustSucceed(t)

	// hub had one record at hub:0; the moved Goblin lands at hub:1
	w.AssertListCount("hub", 2)
	w.AssertListCount("arena", 2)

	list := w.RunCLI("list", "hub").MustSucceed(t)
	records := list.DataList("records")
	last, ok := records[len(records)-1].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected record shape: %#v", records[len(records)-1])
	}
	if last["selector"] != "hub:1" || last["type"] != "Goblin" {
		t.Errorf("expected moved Goblin at hub:1, got %v", last)
	}
}

// TestIntegration_ReorderWithinFolder tests neighbor swaps.
func TestIntegration_ReorderWithinFolder(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	// Torch sits at arena:2; two steps up puts it first
	result := w.RunCLI("reorder", "arena:2", "--up", "--steps", "2")
	result.MustSucceed(t)
	if got := result.DataString("selector"); got != "arena:0" {
		t.Fatalf("expected selector arena:0 after reorder, got %q", got)
	}

	list := w.RunCLI("list", "arena").MustSucceed(t)
	records := list.DataList("records")
	if len(records) == 0 {
		t.Fatalf("expected records in arena, got none\nRaw: %s", list.RawJSON)
	}
	head, _ := records[0].(map[string]interface{})
	if head["type"] != "Torch" {
		t.Errorf("expected Torch first in arena, got %v", head["type"])
	}
}

// TestIntegration_RenameFolder tests renames and sibling collisions.
func TestIntegration_RenameFolder(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	result := w.RunCLI("rename", "arena/props", "crates")
	result.MustSucceed(t)
	w.AssertFileContains("spawns.spawn", "## crates")
	w.AssertFileNotContains("spawns.spawn", "## props")
	w.AssertListCount("arena/crates", 2)

	// Renaming onto an existing sibling folder is refused
	result = w.RunCLI("rename", "hub", "arena")
	result.MustFail(t, "FOLDER_EXISTS")

	// Renaming a missing folder is refused
	result = w.RunCLI("rename", "nowhere", "somewhere")
	result.MustFail(t, "FOLDER_NOT_FOUND")
}

// TestIntegration_DeleteFolderRecursive tests folder-scoped deletion.
func TestIntegration_DeleteFolderRecursive(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	result := w.RunCLI("delete", "--folder", "arena", "--recursive", "--force")
	result.MustSucceed(t)
	result.AssertResultCount(t, "records", 5)

	// Root record and hub survive
	w.AssertListCount("", 1)
	w.AssertListCount("hub", 1)

	// Folder headers are kept even when emptied
	w.AssertFileContains("spawns.spawn", "# arena")
	w.AssertFileContains("spawns.spawn", "## props")
}

// TestIntegration_FmtCanonicalizes tests the canonical rewrite.
func TestIntegration_FmtCanonicalizes(t *testing.T) {
	messy := `// editor comment
# arena

bot spawn 7 Goblin 1 0 1 90
# arena
bot spawn 3 Goblin 2 0 2 45
`
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", messy).
		Build()

	result := w.RunCLI("fmt")
	result.MustSucceed(t)
	if result.Data["rewritten"] != true {
		t.Fatalf("expected rewritten:true, got %v\nRaw: %s", result.Data["rewritten"], result.RawJSON)
	}

	// Comments are dropped, the duplicate header collapses, and the
	// count field normalizes to 1
	w.AssertFileNotContains("spawns.spawn", "// editor comment")
	w.AssertFileContains("spawns.spawn", "bot spawn 1 Goblin 1 0 1 90")
	content := w.ReadFile("spawns.spawn")
	if strings.Count(content, "# arena") != 1 {
		t.Errorf("expected a single arena header, got:\n%s", content)
	}

	// A second fmt is a no-op
	result = w.RunCLI("fmt")
	result.MustSucceed(t)
	if result.Data["canonical"] != true {
		t.Errorf("expected canonical:true on second fmt, got %v", result.Data["canonical"])
	}
}

// TestIntegration_CheckReportsSkippedLines tests workspace validation.
func TestIntegration_CheckReportsSkippedLines(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", `bot spawn 1 Goblin 1.2.3 0 0
random directive
bot spawn 1 Guard 0 0 0
`).
		Build()

	result := w.RunCLI("check")
	if result.RawJSON == "" {
		t.Fatal("expected check to produce output")
	}
	// Exit code 1: the malformed line counts as an error
	if result.ExitCode == 0 {
		t.Errorf("expected nonzero exit for malformed line")
	}
	if !strings.Contains(result.RawJSON, "malformed_line") {
		t.Errorf("expected a malformed_line issue\nRaw: %s", result.RawJSON)
	}
	if !strings.Contains(result.RawJSON, "unknown_directive") {
		t.Errorf("expected an unknown_directive issue\nRaw: %s", result.RawJSON)
	}
}

// TestIntegration_QueryWorkspace tests cross-catalog index queries.
func TestIntegration_QueryWorkspace(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("alpha.spawn", testutil.SampleCatalog()).
		WithCatalog("beta.spawn", `# camp
bot spawn 1 Golem 5 0 5 0
`).
		Build()

	w.RunCLI("reindex").MustSucceed(t)

	// SampleCatalog has 4 actors; beta adds one more
	w.AssertQueryCount("kind:actor", 5)
	w.AssertQueryCount("type:G*", 4)
	w.AssertQueryCount("kind:prop", 3)

	result := w.RunCLI("query", "kind:actor", "catalog:beta")
	result.MustSucceed(t)
	result.AssertResultCount(t, "records", 1)

	result = w.RunCLI("query", "folder:arena", "kind:prop")
	result.MustSucceed(t)
	result.AssertResultCount(t, "records", 3)

	// Bad expressions carry the help hint
	result = w.RunCLI("query", "kind:wizard")
	result.MustFail(t, "QUERY_INVALID")
}

// TestIntegration_TypeAllowList tests roost.yaml type rules.
func TestIntegration_TypeAllowList(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithRoostYAML(testutil.TypedRoostYAML()).
		Build()

	// An allow-listed type adds cleanly
	result := w.RunCLI("add", "Goblin", "0", "0", "0", "--folder", "arena")
	result.MustSucceed(t)
	result.AssertNoWarnings(t)

	// An unknown type adds with a warning
	result = w.RunCLI("add", "Dragon", "1", "0", "1", "--folder", "arena")
	result.MustSucceed(t)
	result.AssertHasWarning(t, "UNKNOWN_TYPE")

	// types flags it against the allow-list
	w.RunCLI("reindex").MustSucceed(t)
	result = w.RunCLI("types").MustSucceed(t)
	var sawDragon bool
	for _, item := range result.DataList("types") {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if m["type"] == "Dragon" {
			sawDragon = true
			if m["allowed"] != false {
				t.Errorf("expected Dragon to be flagged, got %v", m)
			}
		}
	}
	if !sawDragon {
		t.Errorf("expected Dragon in types output\nRaw: %s", result.RawJSON)
	}

	// check lints it too, as a warning (exit stays zero)
	result = w.RunCLI("check")
	if result.ExitCode != 0 {
		t.Errorf("expected zero exit, unlisted types are warnings\nRaw: %s", result.RawJSON)
	}
	if !strings.Contains(result.RawJSON, "unlisted_type") {
		t.Errorf("expected an unlisted_type issue for Dragon\nRaw: %s", result.RawJSON)
	}
}

// TestIntegration_ImportMarkdown tests extracting spawn commands from
// fenced code blocks.
func TestIntegration_ImportMarkdown(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithFile("notes.md", "# Layout sketch\n\n```spawn\n# waves\nbot spawn 1 Goblin 1 0 1 90\nbot spawn 1 Goblin 2 0 2 90\n```\n\n```\nspawn 1 Barrel 0 0 0 0 0 0\n```\n").
		Build()

	result := w.RunCLI("import", "notes.md", "--folder", "imported")
	result.MustSucceed(t)
	if got := result.DataNumber("imported"); got != 3 {
		t.Fatalf("expected 3 imported records, got %v\nRaw: %s", got, result.RawJSON)
	}

	w.AssertListCount("imported/waves", 2)
	w.AssertListCount("imported", 1)
	w.AssertFileContains("spawns.spawn", "bot spawn 1 Goblin 1 0 1 90")
}

// TestIntegration_ExportCSV tests the CSV export.
func TestIntegration_ExportCSV(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	result := w.RunCLI("export", "--format", "csv", "--out", "out.csv")
	result.MustSucceed(t)
	if got := result.DataNumber("exported"); got != 7 {
		t.Fatalf("expected 7 exported records, got %v", got)
	}

	w.AssertFileExists("out.csv")
	w.AssertFileContains("out.csv", "folder,order,kind,type,x,y,z,orientation,rot_x,rot_y,rot_z")
	w.AssertFileContains("out.csv", "arena/props,0,prop,Barrel,2,0,3,,0,45,0")
}

// TestIntegration_BackupOnMutation tests the pre-save backup.
func TestIntegration_BackupOnMutation(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	w.RunCLI("set", "arena:0", "--type", "Guard").MustSucceed(t)

	backupDir := filepath.Join(w.Path, ".roost", "backups")
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		t.Fatalf("expected backup directory after mutation: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected at least one backup file after mutation")
	}
}

// TestIntegration_StatsAfterReindex tests index statistics.
func TestIntegration_StatsAfterReindex(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	result := w.RunCLI("reindex")
	result.MustSucceed(t)
	if got := result.DataNumber("files_indexed"); got != 1 {
		t.Errorf("expected 1 file indexed, got %v\nRaw: %s", got, result.RawJSON)
	}

	result = w.RunCLI("stats").MustSucceed(t)
	if got := result.DataNumber("record_count"); got != 7 {
		t.Errorf("expected 7 records in stats, got %v", got)
	}
	if got := result.DataNumber("actor_count"); got != 4 {
		t.Errorf("expected 4 actors in stats, got %v", got)
	}
	if got := result.DataNumber("folder_count"); got != 3 {
		t.Errorf("expected 3 folders in stats, got %v", got)
	}
}

// TestIntegration_MissingRecordErrors tests selector error reporting.
func TestIntegration_MissingRecordErrors(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	w.RunCLI("set", "arena:99", "--type", "Guard").MustFail(t, "RECORD_NOT_FOUND")
	w.RunCLI("delete", "arena:99", "--force").MustFail(t, "RECORD_NOT_FOUND")
	w.RunCLI("move", "nowhere:0", "--to", "hub").MustFail(t, "RECORD_NOT_FOUND")
	w.RunCLI("list", "nowhere").MustFail(t, "FOLDER_NOT_FOUND")
}

// TestIntegration_TreeStructure tests the tree command output.
func TestIntegration_TreeStructure(t *testing.T) {
	w := testutil.NewTestWorkspace(t).
		WithCatalog("spawns.spawn", testutil.SampleCatalog()).
		Build()

	result := w.RunCLI("tree").MustSucceed(t)
	root, ok := result.Data["tree"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected tree object in data\nRaw: %s", result.RawJSON)
	}
	if got := root["total_records"]; got != float64(7) {
		t.Errorf("expected 7 total records, got %v\nRaw: %s", got, result.RawJSON)
	}

	children, _ := root["children"].([]interface{})
	if len(children) != 2 {
		t.Fatalf("expected 2 top-level folders, got %d\nRaw: %s", len(children), result.RawJSON)
	}
	first, _ := children[0].(map[string]interface{})
	if first["name"] != "arena" {
		t.Errorf("expected arena first in tree, got %v", first["name"])
	}
}
