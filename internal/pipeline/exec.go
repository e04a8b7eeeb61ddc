package pipeline

import (
	"context"

	"av3atool/internal/logging"
	"av3atool/internal/procrun"
	"av3atool/internal/progress"
	"av3atool/internal/services"
)

// runStage executes one stage and applies the console and log conventions
// shared by every stage.
func (p *Pipeline) runStage(ctx context.Context, st Stage, binary string) (StageResult, error) {
	stageCtx := services.WithStage(ctx, st.Name)
	stageLogger := logging.WithContext(stageCtx, p.logger)
	cmd := procrun.Command{Binary: binary, Args: st.Args}

	if st.Intro != "" {
		p.console.Info("%s", st.Intro)
	} else {
		p.console.Info("Running command: %s", cmd.String())
	}
	if st.Detail != "" {
		p.console.Detail("%s", st.Detail)
	}

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("command", cmd.String()),
		logging.String("output", st.Output),
	)

	var onLine func(string)
	if st.Monitored {
		p.console.Blank()
		monitor := progress.NewMonitor(
			p.console.Writer(),
			progress.WithClock(p.now),
			progress.WithLogger(stageLogger, st.Name),
			progress.WithRedraw(p.console.Terminal()),
		)
		onLine = func(line string) {
			if !monitor.HandleLine(line) {
				stageLogger.Debug("tool output", logging.String("line", line))
			}
		}
	}

	res := p.executor.Run(stageCtx, cmd, onLine)
	result := StageResult{
		Stage:    st.Name,
		Command:  cmd.String(),
		ExitCode: res.ExitCode,
		Err:      res.Err,
		Duration: res.Duration,
	}
	if !res.Success() {
		message := st.failureMessage(res.ExitCode, res.Err)
		stageLogger.Error(
			"stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Int("exit_code", res.ExitCode),
			logging.String("error_message", message),
			logging.Error(res.Err),
		)
		return result, &StageError{Stage: st.Name, ExitCode: res.ExitCode, Message: message, Err: res.Err}
	}

	p.console.Success("%s", st.Done)
	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("duration", res.Duration),
	)
	return result, nil
}
