package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"av3atool/internal/console"
	"av3atool/internal/history"
	"av3atool/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show external tool availability and directory health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := ctx.printer(out).Colorize()

			for _, line := range renderSectionHeader("Tools", colorize) {
				fmt.Fprintln(out, line)
			}
			rows, missing := dependencyRows(preflight.CheckSystemDeps(cfg))
			fmt.Fprintln(out, renderTable([]tableColumn{
				{header: "Tool"},
				{header: "Command"},
				{header: "Status"},
				{header: "Location", isPath: true},
			}, rows))
			if len(missing) > 0 {
				fmt.Fprintln(out, renderStatusLine("Missing tools", console.KindWarn, strings.Join(missing, ", "), colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(out, line)
			}
			dirs := []preflight.Result{
				preflight.CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
				preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
			}
			for _, line := range directoryLines(dirs, colorize) {
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("History", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Enabled", console.KindInfo, yesNo(cfg.History.Enabled), colorize))
			if !cfg.History.Enabled {
				return nil
			}
			store, err := ctx.openHistory()
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Database", console.KindError, err.Error(), colorize))
				return nil
			}
			defer store.Close()
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Database", console.KindError, err.Error(), colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Runs", console.KindInfo, summarizeStats(stats), colorize))
			return nil
		},
	}
}

func summarizeStats(stats map[history.Status]int) string {
	if len(stats) == 0 {
		return "none recorded"
	}
	keys := make([]string, 0, len(stats))
	for status := range stats {
		keys = append(keys, string(status))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", stats[history.Status(key)], key))
	}
	return strings.Join(parts, ", ")
}
