package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingExecutable = errors.New("missing executable")
	ErrMissingInput      = errors.New("missing input file")
	ErrSubprocess        = errors.New("subprocess failure")
	ErrUnhandled         = errors.New("unhandled exception")
	ErrValidation        = errors.New("validation error")
	ErrConfiguration     = errors.New("configuration error")
	ErrLocked            = errors.New("another run in progress")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUnhandled
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Label returns the console label used when err terminates a run. Known
// failure classes print as ERROR; anything else is an unhandled EXCEPTION.
func Label(err error) string {
	switch {
	case err == nil:
		return "SUCCESS"
	case errors.Is(err, ErrMissingExecutable),
		errors.Is(err, ErrMissingInput),
		errors.Is(err, ErrSubprocess),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrLocked):
		return "ERROR"
	default:
		return "EXCEPTION"
	}
}

// ExitCode maps a terminal error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
