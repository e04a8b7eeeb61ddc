package main

import (
	"strings"

	"github.com/spf13/cobra"

	"av3atool/internal/job"
	"av3atool/internal/logging"
	"av3atool/internal/pipeline"
)

type flowDef struct {
	flow  job.Flow
	short string
	long  string
}

var flowDefs = []flowDef{
	{
		flow:  job.FlowExtract,
		short: "Copy the AV3A audio stream out of a video file",
		long:  "Runs ffmpeg_av3a to copy the AV3A stream into <input dir>/<base>.av3a without re-encoding.",
	},
	{
		flow:  job.FlowDecode,
		short: "Decode an AV3A file to WAV and remap it to 7.1 and 5.1",
		long: "Runs av3a_decoder with a progress bar, then ffmpeg channelmap twice to write " +
			"<base>.wav, <base>_8ch.wav and <base>_6ch.wav next to the input.",
	},
	{
		flow:  job.FlowConvert,
		short: "Extract and decode in one run",
		long:  "Runs extract followed by decode, using the extracted .av3a as the decoder input.",
	},
}

func newFlowCommands(ctx *commandContext) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(flowDefs))
	for _, def := range flowDefs {
		cmds = append(cmds, newFlowCommand(ctx, def))
	}
	return cmds
}

func newFlowCommand(ctx *commandContext, def flowDef) *cobra.Command {
	var (
		input  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   string(def.flow) + " -i <input>",
		Short: def.short,
		Long:  def.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlow(cmd, ctx, def.flow, input, dryRun)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the planned commands without running them")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runFlow(cmd *cobra.Command, ctx *commandContext, flow job.Flow, input string, dryRun bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	j, err := job.New(flow, strings.TrimSpace(input))
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithConsole(ctx.printer(cmd.OutOrStdout())),
		pipeline.WithLogger(logging.NewComponentLogger(logger, "pipeline")),
		pipeline.WithDryRun(dryRun),
	}
	if !dryRun {
		store, err := ctx.openHistory()
		if err != nil {
			logger.Warn("history unavailable", logging.Error(err))
		} else if store != nil {
			defer store.Close()
			opts = append(opts, pipeline.WithHistory(store))
		}
	}

	p, err := pipeline.New(cfg, j, opts...)
	if err != nil {
		return err
	}
	if _, err := p.Run(cmd.Context()); err != nil {
		return err
	}
	return nil
}
