package preflight

import (
	"context"
	"strings"

	"av3atool/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for a run writing into outputDir.
// The state directory is only checked when history is enabled.
func RunAll(ctx context.Context, cfg *config.Config, outputDir string) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result

	if strings.TrimSpace(outputDir) != "" {
		results = append(results, CheckDirectoryAccess("Output directory", outputDir))
	}
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	if ctx != nil && ctx.Err() != nil {
		results = append(results, Result{Name: "Context", Detail: ctx.Err().Error()})
	}
	return results
}

// FirstFailure returns the first failed result, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed {
			return r, true
		}
	}
	return Result{}, false
}
