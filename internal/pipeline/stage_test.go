package pipeline

import (
	"context"
	"errors"
	"testing"

	"av3atool/internal/job"
	"av3atool/internal/services"
)

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"extract":   "Extract",
		"decode":    "Decode",
		"stage_one": "Stage One",
		"":          "",
	}
	for in, want := range cases {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlanNilJob(t *testing.T) {
	if Plan(nil) != nil {
		t.Fatal("expected no stages for nil job")
	}
}

func TestPlanExtractUsesAV3ATool(t *testing.T) {
	j := &job.Job{Flow: job.FlowExtract, Input: "/m/foo.mp4", Dir: "/m", Base: "foo"}
	stages := Plan(j)
	if len(stages) != 1 || stages[0].Name != StageExtract || stages[0].Output != "/m/foo.av3a" {
		t.Fatalf("unexpected plan %#v", stages)
	}
	if stages[0].Monitored {
		t.Fatal("extraction output is not monitored")
	}
}

func TestFailureMessages(t *testing.T) {
	cancelled := Stage{Name: StageDecode}.failureMessage(-1, context.Canceled)
	if cancelled != "Decoder failed: context canceled" {
		t.Fatalf("unexpected message %q", cancelled)
	}
	if got := (Stage{Name: StageExtract}).failureMessage(2, errors.New("exit status 2")); got != "Extraction failed: exit status 2" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestStageErrorMatchesCause(t *testing.T) {
	err := error(&StageError{Stage: StageDecode, ExitCode: -1, Err: context.Canceled})
	if !errors.Is(err, services.ErrSubprocess) || !errors.Is(err, context.Canceled) {
		t.Fatal("stage error should match both the subprocess marker and its cause")
	}
	if services.Label(err) != "ERROR" {
		t.Fatalf("expected ERROR label, got %s", services.Label(err))
	}
	if err.Error() != "Decode failed" {
		t.Fatalf("unexpected default message %q", err.Error())
	}
}
