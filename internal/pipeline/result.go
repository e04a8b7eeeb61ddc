package pipeline

import (
	"time"

	"av3atool/internal/services"
)

// StageResult records how one stage ran.
type StageResult struct {
	Stage    string
	Command  string
	ExitCode int
	Err      error
	Duration time.Duration
}

// Success reports whether the stage exited with status zero.
func (r StageResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// StageError is returned when a stage's command fails. It matches
// services.ErrSubprocess and the underlying cause.
type StageError struct {
	Stage    string
	ExitCode int
	Message  string
	Err      error
}

func (e *StageError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return Label(e.Stage) + " failed"
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrSubprocess}
	}
	return []error{services.ErrSubprocess, e.Err}
}

// Report summarizes a pipeline run.
type Report struct {
	JobID    string
	Flow     string
	Results  []StageResult
	Outputs  []string
	DryRun   bool
	Duration time.Duration
}

// FailedStage returns the failing stage result, if any.
func (r *Report) FailedStage() (StageResult, bool) {
	if r == nil {
		return StageResult{}, false
	}
	for _, res := range r.Results {
		if !res.Success() {
			return res, true
		}
	}
	return StageResult{}, false
}
