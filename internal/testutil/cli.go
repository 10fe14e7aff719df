package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	buildMu    sync.Mutex
	binaryPath string
)

// CLIResult is the parsed JSON envelope from one roost invocation, plus
// the raw output and process exit code.
type CLIResult struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data"`
	Error    *CLIError              `json:"error"`
	Warnings []CLIWarning           `json:"warnings"`
	Meta     *CLIMeta               `json:"meta"`
	RawJSON  string                 `json:"-"`
	ExitCode int                    `json:"-"`
}

// CLIError mirrors the error object in the JSON envelope.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// CLIWarning mirrors a warning entry in the JSON envelope.
type CLIWarning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Selector string `json:"selector,omitempty"`
}

// CLIMeta mirrors the meta object in the JSON envelope.
type CLIMeta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

// BuildCLI builds the roost binary once per test run and returns its path.
// RunCLI calls it implicitly.
func BuildCLI(t *testing.T) string {
	t.Helper()

	buildMu.Lock()
	defer buildMu.Unlock()

	// Reuse the cached binary unless something removed it (seen with
	// aggressive temp cleanup on Windows runners).
	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err == nil {
			return binaryPath
		}
		binaryPath = ""
	}

	root, err := moduleRoot()
	if err != nil {
		t.Fatalf("locating module root: %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "roost-cli-bin-*")
	if err != nil {
		t.Fatalf("creating binary dir: %v", err)
	}

	name := "roost"
	if runtime.GOOS == "windows" {
		name = "roost.exe"
	}
	out := filepath.Join(tmpDir, name)

	cmd := exec.Command("go", "build", "-o", out, "./cmd/roost")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build ./cmd/roost: %v\n%s", err, output)
	}

	binaryPath = out
	return binaryPath
}

// moduleRoot walks up from this source file to the directory holding go.mod.
func moduleRoot() (string, error) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime.Caller failed")
	}

	dir := filepath.Dir(thisFile)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod above %s", filepath.Dir(thisFile))
		}
		dir = parent
	}
}

// RunCLI runs roost against the workspace with --json and returns the
// parsed result.
func (w *TestWorkspace) RunCLI(args ...string) *CLIResult {
	w.t.Helper()
	return w.run("", args)
}

// RunCLIWithStdin is RunCLI with the given stdin content.
func (w *TestWorkspace) RunCLIWithStdin(stdin string, args ...string) *CLIResult {
	w.t.Helper()
	return w.run(stdin, args)
}

func (w *TestWorkspace) run(stdin string, args []string) *CLIResult {
	w.t.Helper()

	cmdArgs := append([]string{"--workspace-path", w.Path, "--json"}, args...)
	cmd := exec.Command(BuildCLI(w.t), cmdArgs...)
	cmd.Dir = w.Path
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	output, runErr := cmd.CombinedOutput()

	res := &CLIResult{RawJSON: string(output), ExitCode: exitCode(runErr)}
	if err := json.Unmarshal(output, res); err != nil {
		res.OK = false
		res.Data = nil
		res.Warnings = nil
		res.Meta = nil
		res.Error = &CLIError{
			Code:    "NON_JSON_OUTPUT",
			Message: "output is not a JSON envelope: " + err.Error(),
			Details: map[string]interface{}{"raw": string(output)},
		}
	}
	return res
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// MustSucceed fails the test unless the command reported ok.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		msg := "unknown error"
		if r.Error != nil {
			msg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("command failed: %s\nraw output: %s", msg, r.RawJSON)
	}
	return r
}

// MustFail fails the test unless the command failed with the given code.
func (r *CLIResult) MustFail(t *testing.T, wantCode string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected failure with code %s, command succeeded\nraw output: %s", wantCode, r.RawJSON)
	}
	if r.Error == nil {
		t.Fatalf("expected error with code %s, error is nil\nraw output: %s", wantCode, r.RawJSON)
	}
	if r.Error.Code != wantCode {
		t.Fatalf("error code = %s (%s), want %s\nraw output: %s", r.Error.Code, r.Error.Message, wantCode, r.RawJSON)
	}
	return r
}

// MustFailWithMessage fails the test unless the command failed and its
// error message or suggestion contains substr.
func (r *CLIResult) MustFailWithMessage(t *testing.T, substr string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected failure, command succeeded\nraw output: %s", r.RawJSON)
	}
	if substr != "" && r.Error != nil {
		if !strings.Contains(r.Error.Message, substr) && !strings.Contains(r.Error.Suggestion, substr) {
			t.Errorf("error %q (suggestion %q) does not mention %q", r.Error.Message, r.Error.Suggestion, substr)
		}
	}
	return r
}

// DataList returns Data[key] as a list, or nil.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns Data[key] as a string, or "".
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// DataNumber returns Data[key] as a float64 (JSON numbers decode as
// float64), or 0.
func (r *CLIResult) DataNumber(key string) float64 {
	n, _ := r.Data[key].(float64)
	return n
}
