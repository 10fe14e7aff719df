package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertFileExists fails the test when relPath is missing from the workspace.
func (w *TestWorkspace) AssertFileExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(filepath.Join(w.Path, relPath)); err != nil {
		w.t.Errorf("missing workspace file %s: %v", relPath, err)
	}
}

// AssertFileContains fails the test unless the file holds substr.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	if got := w.ReadFile(relPath); !strings.Contains(got, substr) {
		w.t.Errorf("%s should contain %q; file is:\n%s", relPath, substr, got)
	}
}

// AssertFileNotContains fails the test if the file holds substr.
func (w *TestWorkspace) AssertFileNotContains(relPath, substr string) {
	w.t.Helper()
	if got := w.ReadFile(relPath); strings.Contains(got, substr) {
		w.t.Errorf("%s should not contain %q; file is:\n%s", relPath, substr, got)
	}
}

// AssertListCount runs `roost list [folder]` and checks the record count.
// Extra arguments are appended to the command line as given.
func (w *TestWorkspace) AssertListCount(folder string, expectedCount int, extraArgs ...string) {
	w.t.Helper()
	args := []string{"list"}
	if folder != "" {
		args = append(args, folder)
	}
	w.assertRecordCount(append(args, extraArgs...), expectedCount)
}

// AssertQueryCount runs `roost query` and checks the result count.
func (w *TestWorkspace) AssertQueryCount(query string, expectedCount int) {
	w.t.Helper()
	w.assertRecordCount([]string{"query", query}, expectedCount)
}

func (w *TestWorkspace) assertRecordCount(args []string, want int) {
	w.t.Helper()
	result := w.RunCLI(args...)
	result.MustSucceed(w.t)
	if records := result.DataList("records"); len(records) != want {
		w.t.Errorf("%s returned %d records, want %d\nRaw: %s",
			strings.Join(args, " "), len(records), want, result.RawJSON)
	}
}

// AssertHasWarning fails the test unless a warning with the code is present.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	codes := make([]string, 0, len(r.Warnings))
	for _, warn := range r.Warnings {
		if warn.Code == code {
			return
		}
		codes = append(codes, warn.Code)
	}
	t.Errorf("no %s warning; got codes %v", code, codes)
}

// AssertNoWarnings fails the test if the result carries any warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("unexpected warnings: %+v", r.Warnings)
	}
}

// AssertResultCount checks the length of a list under the given data key.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	if results := r.DataList(key); len(results) != expected {
		t.Errorf("data[%q] has %d entries, want %d\nRaw: %s", key, len(results), expected, r.RawJSON)
	}
}
