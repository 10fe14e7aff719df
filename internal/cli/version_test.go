package cli

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/roostlabs/roost/internal/buildinfo"
)

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	prevRead := readBuildInfo
	t.Cleanup(func() {
		readBuildInfo = prevRead
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.24.1",
			Main: debug.Module{
				Path:    "github.com/roostlabs/roost",
				Version: "v0.4.0",
			},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "9f2c41e"},
				{Key: "vcs.time", Value: "2026-06-03T09:30:00Z"},
				{Key: "vcs.modified", Value: "true"},
				{Key: "GOOS", Value: "freebsd"},
				{Key: "GOARCH", Value: "arm64"},
			},
		}, true
	}

	got := currentVersionInfo()
	want := versionInfo{
		Version:    "v0.4.0",
		ModulePath: "github.com/roostlabs/roost",
		Commit:     "9f2c41e",
		CommitTime: "2026-06-03T09:30:00Z",
		Modified:   true,
		GoVersion:  "go1.24.1",
		GOOS:       "freebsd",
		GOARCH:     "arm64",
	}
	if got != want {
		t.Fatalf("currentVersionInfo() = %+v, want %+v", got, want)
	}
}

func TestCurrentVersionInfoFallbackWhenBuildInfoMissing(t *testing.T) {
	prevRead := readBuildInfo
	t.Cleanup(func() {
		readBuildInfo = prevRead
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return nil, false
	}

	got := currentVersionInfo()
	want := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	if got != want {
		t.Fatalf("currentVersionInfo() = %+v, want %+v", got, want)
	}
}

func TestCurrentVersionInfoPrefersReleaseLdflags(t *testing.T) {
	prevRead := readBuildInfo
	prevVersion, prevCommit, prevDate := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() {
		readBuildInfo = prevRead
		buildinfo.Version, buildinfo.Commit, buildinfo.Date = prevVersion, prevCommit, prevDate
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Path: "github.com/roostlabs/roost", Version: "v0.4.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "9f2c41e"},
			},
		}, true
	}
	buildinfo.Version = "v2.0.0"
	buildinfo.Commit = "f00dfeed"
	buildinfo.Date = "2026-08-01T00:00:00Z"

	info := currentVersionInfo()
	if info.Version != "v2.0.0" {
		t.Errorf("Version = %q, want ldflags value %q", info.Version, "v2.0.0")
	}
	if info.Commit != "f00dfeed" {
		t.Errorf("Commit = %q, want ldflags value %q", info.Commit, "f00dfeed")
	}
	if info.CommitTime != "2026-08-01T00:00:00Z" {
		t.Errorf("CommitTime = %q, want ldflags value %q", info.CommitTime, "2026-08-01T00:00:00Z")
	}
}

func TestVersionCommandJSONOutput(t *testing.T) {
	prevRead := readBuildInfo
	prevJSON := jsonOutput
	t.Cleanup(func() {
		readBuildInfo = prevRead
		jsonOutput = prevJSON
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.24.1",
			Main: debug.Module{
				Path:    "github.com/roostlabs/roost",
				Version: "(devel)",
			},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "deadbeef"},
				{Key: "vcs.time", Value: "2026-06-03T09:30:00Z"},
				{Key: "vcs.modified", Value: "false"},
				{Key: "GOOS", Value: "darwin"},
				{Key: "GOARCH", Value: "arm64"},
			},
		}, true
	}
	jsonOutput = true

	out := captureStdout(t, func() {
		if err := versionCmd.RunE(versionCmd, nil); err != nil {
			t.Fatalf("versionCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK   bool        `json:"ok"`
		Data versionInfo `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if resp.Data.Version != "devel" {
		t.Fatalf("Version = %q, want %q", resp.Data.Version, "devel")
	}
	if resp.Data.Commit != "deadbeef" {
		t.Fatalf("Commit = %q, want %q", resp.Data.Commit, "deadbeef")
	}
	if resp.Data.GOOS != "darwin" || resp.Data.GOARCH != "arm64" {
		t.Fatalf("platform = %s/%s, want darwin/arm64", resp.Data.GOOS, resp.Data.GOARCH)
	}
}
