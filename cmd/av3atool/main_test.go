package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"av3atool/internal/config"
	"av3atool/internal/pipeline"
	"av3atool/internal/services"
)

func TestExtractCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeInput(t, "foo.mp4")

	out, _, err := runCLI(t, []string{"extract", "-i", input}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "[OK] FFmpeg AV3A found.")
	requireContains(t, out, "[INFO] Running command: "+filepath.Join(env.binDir, "ffmpeg_av3a"))
	requireContains(t, out, "[SUCCESS] Audio extracted: "+filepath.Join(env.mediaDir, "foo.av3a"))
}

func TestDecodeCommandRendersProgress(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeStub(t, "av3a_decoder", "#!/bin/sh\n"+
		"printf 'loading model\\n'\n"+
		"printf 'Decoding::  50%%|#####     | 5/10 [00:01<00:00:05, 1.00it/s]\\r' 1>&2\n"+
		"printf 'Decoding:: 100%%|##########| 10/10 [00:02<00:00:00, 1.00it/s]\\r' 1>&2\n"+
		"printf 'done\\n'\n"+
		"exit 0\n")
	input := env.writeInput(t, "foo.av3a")

	out, _, err := runCLI(t, []string{"decode", "--input", input}, env.configPath)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	requireContains(t, out, "[INFO] Decoding started...")
	requireContains(t, out, "] 50% Elapsed: ")
	requireContains(t, out, "Remaining: 00:00:05")
	requireContains(t, out, "[SUCCESS] Decoding completed successfully.")
	requireContains(t, out, "→ Mapping to FL+FR+FC+LFE+SL+SR (6 channels)")
	requireContains(t, out, "[SUCCESS] Output created: "+filepath.Join(env.mediaDir, "foo_8ch.wav"))
	if strings.Contains(out, "loading model") {
		t.Fatal("decoder chatter must not reach stdout")
	}
}

func TestDecodeFailureExitsNonZero(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeStub(t, "av3a_decoder", "#!/bin/sh\nexit 3\n")
	input := env.writeInput(t, "foo.av3a")

	out, _, err := runCLI(t, []string{"decode", "-i", input}, env.configPath)
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if services.ExitCode(err) != 1 || services.Label(err) != "ERROR" {
		t.Fatalf("unexpected classification for %v", err)
	}
	if err.Error() != "Decoder exited with code 3" {
		t.Fatalf("unexpected error %q", err.Error())
	}
	if strings.Contains(out, "Creating 7.1 WAV") {
		t.Fatal("remap stages must not run after decoder failure")
	}

	var buf bytes.Buffer
	reportError(&buf, err, true)
	if buf.String() != "[ERROR] Decoder exited with code 3\n" {
		t.Fatalf("unexpected report %q", buf.String())
	}

	histOut, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, histOut, "failed at Decode (exit 3)")
	requireContains(t, histOut, "foo.av3a")
}

func TestMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"extract", "-i", filepath.Join(env.mediaDir, "nope.mp4")}, env.configPath)
	if !errors.Is(err, services.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	requireContains(t, err.Error(), "Input file not found")
	requireContains(t, out, "[OK] FFmpeg AV3A found.")
}

func TestMissingExecutableReportedBeforeMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(filepath.Join(env.binDir, "ffmpeg_av3a")); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", env.binDir)

	_, _, err := runCLI(t, []string{"extract", "-i", filepath.Join(env.mediaDir, "nope.mp4")}, env.configPath)
	if !errors.Is(err, services.ErrMissingExecutable) {
		t.Fatalf("expected ErrMissingExecutable, got %v", err)
	}
}

func TestDecodeRefusesToOverwriteInput(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeInput(t, "foo.wav")

	_, _, err := runCLI(t, []string{"decode", "-i", input}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	requireContains(t, err.Error(), "would overwrite the input file")
}

func TestInputFlagRequired(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"decode"}, env.configPath); err == nil {
		t.Fatal("expected error when --input is missing")
	}
}

func TestMissingExecutable(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(filepath.Join(env.binDir, "ffmpeg_av3a")); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", env.binDir)
	input := env.writeInput(t, "foo.mp4")

	_, _, err := runCLI(t, []string{"extract", "-i", input}, env.configPath)
	if !errors.Is(err, services.ErrMissingExecutable) {
		t.Fatalf("expected ErrMissingExecutable, got %v", err)
	}
	requireContains(t, err.Error(), "FFmpeg AV3A not found: ffmpeg_av3a")
}

func TestRunRejectedWhileLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeInput(t, "foo.mp4")

	lock, err := pipeline.AcquireLock(filepath.Join(env.stateDir, "av3atool.lock"))
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"extract", "-i", input}, env.configPath)
	if !errors.Is(err, services.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestDryRunDoesNotRecordHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeInput(t, "movie.mkv")

	out, _, err := runCLI(t, []string{"convert", "-i", input, "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("convert --dry-run: %v", err)
	}
	requireContains(t, out, "Extract: ")
	requireContains(t, out, filepath.Join(env.mediaDir, "movie.av3a"))

	histOut, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, histOut, "No runs recorded")
}

func TestHistoryListAndClear(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeInput(t, "foo.mp4")
	if _, _, err := runCLI(t, []string{"extract", "-i", input}, env.configPath); err != nil {
		t.Fatalf("extract: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--limit", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "succeeded")
	requireContains(t, out, "extract")

	out, _, err = runCLI(t, []string{"history", "--clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history --clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 run(s)")
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Tools ==")
	requireContains(t, out, "AV3A decoder")
	requireContains(t, out, "ready")
	requireContains(t, out, "State directory:")
	requireContains(t, out, "[OK] "+env.stateDir)
	requireContains(t, out, "none recorded")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "State directory: "+env.stateDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}
}

func TestInvalidConfigIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[logging]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, []string{"status"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
