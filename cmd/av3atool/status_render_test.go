package main

import (
	"fmt"
	"strings"
	"testing"

	"av3atool/internal/console"
	"av3atool/internal/deps"
	"av3atool/internal/history"
	"av3atool/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("State directory", console.KindError, "missing", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "State directory:", "[ERROR] missing")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Tools", false)
	if len(lines) != 2 || lines[0] != "== Tools ==" || lines[1] != strings.Repeat("-", len("== Tools ==")) {
		t.Fatalf("unexpected header %#v", lines)
	}
	colored := renderSectionHeader("Tools", true)
	if !strings.HasPrefix(colored[0], ansiBlue) {
		t.Fatalf("expected blue header, got %q", colored[0])
	}
}

func TestDependencyRows(t *testing.T) {
	rows, missing := dependencyRows([]deps.Status{
		{Name: "FFmpeg", Command: "ffmpeg", Available: true, Path: "/usr/bin/ffmpeg"},
		{Name: "AV3A decoder", Command: "av3a_decoder", Detail: `binary "av3a_decoder" not found`},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][2] != "ready" || rows[0][3] != "/usr/bin/ffmpeg" {
		t.Fatalf("unexpected ready row %v", rows[0])
	}
	if rows[1][2] != "missing" || !strings.Contains(rows[1][3], "not found") {
		t.Fatalf("unexpected missing row %v", rows[1])
	}
	if len(missing) != 1 || missing[0] != "AV3A decoder" {
		t.Fatalf("unexpected missing list %v", missing)
	}
}

func TestDirectoryLines(t *testing.T) {
	lines := directoryLines([]preflight.Result{
		{Name: "State directory", Passed: true, Detail: "/s (read/write ok)"},
		{Name: "Log directory", Detail: "/l (error: does not exist)"},
	}, false)
	if !strings.Contains(lines[0], "[OK] /s") || !strings.Contains(lines[1], "[ERROR] /l") {
		t.Fatalf("unexpected lines %#v", lines)
	}
}

func TestSummarizeStats(t *testing.T) {
	if got := summarizeStats(nil); got != "none recorded" {
		t.Fatalf("unexpected empty summary %q", got)
	}
	got := summarizeStats(map[history.Status]int{history.StatusSucceeded: 3, history.StatusFailed: 1})
	if got != "1 failed, 3 succeeded" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestRenderTableWrapsPaths(t *testing.T) {
	long := "/" + strings.Repeat("a", pathColumnWidth+20)
	out := renderTable([]tableColumn{{header: "Name"}, {header: "Path", isPath: true}}, [][]string{{"x", long}})
	if strings.Contains(out, long) {
		t.Fatal("expected long path to wrap")
	}
	if !strings.Contains(out, "Name") {
		t.Fatalf("missing header in %q", out)
	}
}
