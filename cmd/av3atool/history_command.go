package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"av3atool/internal/history"
	"av3atool/internal/pipeline"
	"av3atool/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History is disabled (history.enabled = false)")
				return nil
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			if clearAll {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return services.Wrap(services.ErrUnhandled, "history", "clear", "", err)
				}
				fmt.Fprintf(out, "Cleared %d run(s)\n", removed)
				return nil
			}

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return services.Wrap(services.ErrUnhandled, "history", "list", "", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{header: "ID", align: alignRight},
				{header: "Started"},
				{header: "Flow"},
				{header: "Status"},
				{header: "Input", isPath: true},
				{header: "Duration", align: alignRight},
			}, historyRows(records)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all recorded runs")
	return cmd
}

func historyRows(records []*history.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Flow,
			historyStatus(rec),
			filepath.Base(rec.Input),
			formatDuration(rec.Duration()),
		})
	}
	return rows
}

func historyStatus(rec *history.Record) string {
	if rec.Status != history.StatusFailed {
		return string(rec.Status)
	}
	if rec.FailedStage == "" {
		return "failed"
	}
	return fmt.Sprintf("failed at %s (exit %d)", pipeline.Label(rec.FailedStage), rec.ExitCode)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
