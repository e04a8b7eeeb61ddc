package main

import (
	"fmt"
	"strings"

	"av3atool/internal/console"
	"av3atool/internal/deps"
	"av3atool/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind console.Kind, message string, colorize bool) string {
	return fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", console.RenderLine(kind, message, colorize))
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// dependencyRows renders the tool table and returns the names that are missing.
func dependencyRows(statuses []deps.Status) ([][]string, []string) {
	rows := make([][]string, 0, len(statuses))
	var missing []string
	for _, status := range statuses {
		state := "ready"
		location := status.Path
		if !status.Available {
			state = "missing"
			location = strings.TrimSpace(status.Detail)
			missing = append(missing, status.Name)
		}
		rows = append(rows, []string{status.Name, status.Command, state, location})
	}
	return rows, missing
}

func directoryLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		kind := console.KindOK
		if !r.Passed {
			kind = console.KindError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}
