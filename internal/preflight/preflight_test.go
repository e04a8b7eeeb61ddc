package preflight

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"av3atool/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, t.TempDir()); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ChecksOutputAndState(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()

	results := RunAll(context.Background(), &cfg, t.TempDir())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if failed, ok := FirstFailure(results); ok {
		t.Fatalf("check %q failed: %s", failed.Name, failed.Detail)
	}
}

func TestRunAll_SkipsStateWhenHistoryDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = false
	cfg.Paths.StateDir = filepath.Join(t.TempDir(), "missing")

	results := RunAll(context.Background(), &cfg, t.TempDir())
	if len(results) != 1 || results[0].Name != "Output directory" {
		t.Fatalf("expected only the output directory check, got %#v", results)
	}
}

func TestRunAll_ReportsMissingOutputDir(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = false

	results := RunAll(context.Background(), &cfg, filepath.Join(t.TempDir(), "gone"))
	failed, ok := FirstFailure(results)
	if !ok || failed.Name != "Output directory" {
		t.Fatalf("expected output directory failure, got %#v", results)
	}
}

func TestCheckSystemDeps(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries require a POSIX shell")
	}
	bin := t.TempDir()
	if err := os.WriteFile(filepath.Join(bin, "av3a_decoder"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", "")

	cfg := config.Default()
	cfg.Tools.SearchDirs = []string{bin}

	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	byName := map[string]bool{}
	for _, s := range statuses {
		byName[s.Name] = s.Available
	}
	if !byName[NameDecoder] {
		t.Error("decoder should be available from search dir")
	}
	if byName[NameFFmpegAV3A] {
		t.Error("ffmpeg_av3a should be missing")
	}
}
