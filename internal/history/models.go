package history

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record is one persisted run.
type Record struct {
	ID           int64
	JobID        string
	Flow         string
	Input        string
	Outputs      []string
	Status       Status
	FailedStage  string
	ExitCode     int
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Duration reports how long the run took, or zero while it is still running.
func (r *Record) Duration() time.Duration {
	if r == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// IsTerminal reports whether the run has finished.
func (r *Record) IsTerminal() bool {
	return r != nil && r.Status != StatusRunning
}

// Outcome captures how a run ended.
type Outcome struct {
	FailedStage string
	ExitCode    int
	Err         error
}

// Status derives the final status from the outcome.
func (o Outcome) Status() Status {
	if o.Err != nil || o.ExitCode != 0 || strings.TrimSpace(o.FailedStage) != "" {
		return StatusFailed
	}
	return StatusSucceeded
}
