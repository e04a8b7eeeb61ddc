package job

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"av3atool/internal/services"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExtractOutputAlongsideInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "foo.mp4")
	touch(t, input)

	j, err := New(FlowExtract, input)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := j.AV3APath(); got != filepath.Join(dir, "foo.av3a") {
		t.Fatalf("AV3APath = %q", got)
	}
	outputs := j.Outputs()
	if len(outputs) != 1 || filepath.Base(outputs[0]) != "foo.av3a" {
		t.Fatalf("unexpected outputs %v", outputs)
	}
	if j.ID == "" {
		t.Fatal("expected job id")
	}
}

func TestDecodeOutputs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "foo.av3a")
	touch(t, input)

	j, err := New(FlowDecode, input)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []string{
		filepath.Join(dir, "foo.wav"),
		filepath.Join(dir, "foo_8ch.wav"),
		filepath.Join(dir, "foo_6ch.wav"),
	}
	got := j.Outputs()
	if len(got) != len(want) {
		t.Fatalf("Outputs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output %d = %q, want %q", i, got[i], want[i])
		}
	}
	if j.DecodeInput() != input {
		t.Fatalf("DecodeInput = %q, want input", j.DecodeInput())
	}
}

func TestConvertDecodesExtractedStream(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mkv")
	touch(t, input)

	j, err := New(FlowConvert, input)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if j.DecodeInput() != filepath.Join(dir, "movie.av3a") {
		t.Fatalf("DecodeInput = %q", j.DecodeInput())
	}
	if len(j.Outputs()) != 4 {
		t.Fatalf("expected 4 outputs, got %v", j.Outputs())
	}
}

func TestCheckInputRejectsMissingInput(t *testing.T) {
	j, err := New(FlowDecode, filepath.Join(t.TempDir(), "nope.av3a"))
	if err != nil {
		t.Fatalf("New should not stat the input: %v", err)
	}
	if err := j.CheckInput(); !errors.Is(err, services.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}

	j, err = New(FlowDecode, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := j.CheckInput(); !errors.Is(err, services.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput for directory, got %v", err)
	}

	_, err = New(FlowDecode, "  ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank input, got %v", err)
	}
}

func TestNewRejectsOutputOverwritingInput(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		flow  Flow
		input string
	}{
		{FlowDecode, "foo.wav"},
		{FlowExtract, "foo.av3a"},
		{FlowConvert, "foo.av3a"},
		{FlowDecode, "foo_8ch.wav"},
	}
	for _, tt := range tests {
		_, err := New(tt.flow, filepath.Join(dir, tt.input))
		if !errors.Is(err, services.ErrValidation) {
			t.Errorf("%s %s: expected ErrValidation, got %v", tt.flow, tt.input, err)
			continue
		}
		if !strings.Contains(err.Error(), "would overwrite the input file") {
			t.Errorf("%s %s: unexpected message %q", tt.flow, tt.input, err.Error())
		}
	}

	if _, err := New(FlowDecode, filepath.Join(dir, "foo.av3a")); err != nil {
		t.Fatalf("decode of an .av3a input should be accepted: %v", err)
	}
}

func TestNewResolvesRelativeInput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	touch(t, "clip.mp4")

	j, err := New(FlowExtract, "clip.mp4")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !filepath.IsAbs(j.Input) {
		t.Fatalf("expected absolute input, got %q", j.Input)
	}
	if filepath.Base(j.AV3APath()) != "clip.av3a" {
		t.Fatalf("unexpected output %q", j.AV3APath())
	}
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"/a/foo.mp4":        "foo",
		"/a/foo.bar.av3a":   "foo.bar",
		"/a/noext":          "noext",
		"/a/.hidden":        ".hidden",
		"relative/clip.mkv": "clip",
	}
	for in, want := range tests {
		if got := BaseName(in); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}
