package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"av3atool/internal/config"
	"av3atool/internal/console"
	"av3atool/internal/deps"
	"av3atool/internal/history"
	"av3atool/internal/job"
	"av3atool/internal/logging"
	"av3atool/internal/preflight"
	"av3atool/internal/procrun"
	"av3atool/internal/services"
)

// Pseudo-stage names used when a run fails before any command starts.
const (
	stageLocate    = "locate"
	stageInput     = "input"
	stagePreflight = "preflight"
)

// Pipeline runs the stages of one job.
type Pipeline struct {
	cfg      *config.Config
	job      *job.Job
	stages   []Stage
	executor procrun.Executor
	locator  *deps.Locator
	console  *console.Printer
	logger   *slog.Logger
	history  *history.Store
	dryRun   bool
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExecutor overrides the command executor.
func WithExecutor(executor procrun.Executor) Option {
	return func(p *Pipeline) {
		if executor != nil {
			p.executor = executor
		}
	}
}

// WithLocator overrides executable lookup.
func WithLocator(locator *deps.Locator) Option {
	return func(p *Pipeline) {
		if locator != nil {
			p.locator = locator
		}
	}
}

// WithConsole sets where user-facing lines and the progress bar go.
func WithConsole(printer *console.Printer) Option {
	return func(p *Pipeline) {
		if printer != nil {
			p.console = printer
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHistory records the run in store.
func WithHistory(store *history.Store) Option {
	return func(p *Pipeline) {
		p.history = store
	}
}

// WithDryRun prints the planned commands instead of running them.
func WithDryRun(dryRun bool) Option {
	return func(p *Pipeline) {
		p.dryRun = dryRun
	}
}

// WithClock injects the time source used for elapsed progress.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New builds a pipeline for j.
func New(cfg *config.Config, j *job.Job, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "", "config is required", nil)
	}
	if j == nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "", "job is required", nil)
	}
	p := &Pipeline{
		cfg:      cfg,
		job:      j,
		stages:   Plan(j),
		executor: procrun.NewRunner(),
		locator:  deps.NewLocator(cfg.Tools.SearchDirs),
		console:  console.New(os.Stdout, false),
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if len(p.stages) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "", "no stages for flow "+string(j.Flow), nil)
	}
	return p, nil
}

// Job returns the job being processed.
func (p *Pipeline) Job() *job.Job { return p.job }

// Stages returns the planned stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Run executes every stage in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := p.now()
	ctx = services.WithJobID(ctx, p.job.ID)
	ctx = services.WithFlow(ctx, string(p.job.Flow))
	logger := logging.WithContext(ctx, p.logger)

	report := &Report{
		JobID:   p.job.ID,
		Flow:    string(p.job.Flow),
		Outputs: p.job.Outputs(),
		DryRun:  p.dryRun,
	}
	if p.dryRun {
		if err := p.job.CheckInput(); err != nil {
			return report, err
		}
		p.printPlan()
		return report, nil
	}

	lock, err := AcquireLock(p.cfg.LockPath())
	if err != nil {
		logger.Warn("run lock unavailable",
			logging.String(logging.FieldEventType, "lock_contended"),
			logging.Error(err),
		)
		return report, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", logging.String("path", lock.Path()), logging.Error(err))
		}
	}()

	logger.Info("pipeline started",
		logging.String(logging.FieldEventType, "pipeline_start"),
		logging.String("input", p.job.Input),
		logging.Int("stages", len(p.stages)),
	)

	rec := p.startHistory(ctx, logger)
	failedStage, exitCode, runErr := p.execute(ctx, report)
	report.Duration = p.now().Sub(started)
	p.finishHistory(ctx, logger, rec, history.Outcome{FailedStage: failedStage, ExitCode: exitCode, Err: runErr})

	if runErr != nil {
		attrs := []logging.Attr{
			logging.String("failed_stage", failedStage),
			logging.Int("exit_code", exitCode),
			logging.Error(runErr),
		}
		if hint := failureHint(runErr); hint != "" {
			attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
		}
		if res, ok := report.FailedStage(); ok {
			attrs = append(attrs, logging.String("command", res.Command))
		}
		logging.ErrorWithContext(logger, "pipeline failed", "pipeline_failure", attrs...)
		return report, runErr
	}
	logger.Info("pipeline completed",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.Strings("outputs", report.Outputs),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

func (p *Pipeline) execute(ctx context.Context, report *Report) (string, int, error) {
	paths, err := p.resolveTools()
	if err != nil {
		return stageLocate, services.ExitCode(err), err
	}
	if err := p.job.CheckInput(); err != nil {
		return stageInput, services.ExitCode(err), err
	}

	if failed, ok := preflight.FirstFailure(preflight.RunAll(ctx, p.cfg, p.job.Dir)); ok {
		err := services.Wrap(services.ErrValidation, stagePreflight, failed.Name, failed.Detail, nil)
		return stagePreflight, services.ExitCode(err), err
	}

	for _, st := range p.stages {
		result, err := p.runStage(ctx, st, paths[st.Tool])
		report.Results = append(report.Results, result)
		if err != nil {
			return st.Name, result.ExitCode, err
		}
	}
	return "", 0, nil
}

// failureHint names the next step for the user after a failed run.
func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingExecutable):
		return "install the tool or set its path under [tools] in the config"
	case errors.Is(err, services.ErrMissingInput):
		return "check the --input path"
	case errors.Is(err, services.ErrSubprocess):
		return "rerun with --verbose to see the tool output"
	case errors.Is(err, services.ErrValidation):
		return "check that the output and state directories are writable"
	default:
		return ""
	}
}

// resolveTools locates each distinct tool the stages need, printing a
// confirmation per tool until the first missing one.
func (p *Pipeline) resolveTools() (map[string]string, error) {
	reqs := p.requirements()
	paths, statuses, err := p.locator.Require(reqs)
	for _, status := range statuses {
		if !status.Available {
			break
		}
		p.console.OK("%s found.", status.Name)
	}
	return paths, err
}

func (p *Pipeline) requirements() []deps.Requirement {
	seen := make(map[string]bool, len(p.stages))
	var reqs []deps.Requirement
	for _, st := range p.stages {
		if seen[st.Tool] {
			continue
		}
		seen[st.Tool] = true
		reqs = append(reqs, requirementFor(p.cfg, st.Tool))
	}
	return reqs
}

func requirementFor(cfg *config.Config, tool string) deps.Requirement {
	switch tool {
	case preflight.NameFFmpegAV3A:
		return preflight.FFmpegAV3ARequirement(cfg)
	case preflight.NameDecoder:
		return preflight.DecoderRequirement(cfg)
	default:
		return preflight.FFmpegRequirement(cfg)
	}
}

func (p *Pipeline) printPlan() {
	p.console.Info("Dry run for %s (job %s)", p.job.Flow, p.job.ID)
	for _, st := range p.stages {
		req := requirementFor(p.cfg, st.Tool)
		binary := req.Command
		if located, err := p.locator.Locate(req.Command); err == nil {
			binary = located
		}
		cmd := procrun.Command{Binary: binary, Args: st.Args}
		p.console.Info("%s: %s", Label(st.Name), cmd.String())
	}
}

func (p *Pipeline) startHistory(ctx context.Context, logger *slog.Logger) *history.Record {
	if p.history == nil {
		return nil
	}
	if n, err := p.history.ReclaimInterrupted(ctx); err != nil {
		logger.Warn("failed to reclaim interrupted runs", logging.Error(err))
	} else if n > 0 {
		logger.Info("marked interrupted runs as failed", logging.Int64("count", n))
	}
	rec, err := p.history.Start(ctx, p.job.ID, string(p.job.Flow), p.job.Input, p.job.Outputs())
	if err != nil {
		logger.Warn("failed to record run start", logging.Error(err))
		return nil
	}
	return rec
}

func (p *Pipeline) finishHistory(ctx context.Context, logger *slog.Logger, rec *history.Record, outcome history.Outcome) {
	if p.history == nil || rec == nil {
		return
	}
	// Record the outcome even when the run was cancelled.
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		ctx = context.WithoutCancel(ctx)
	}
	if err := p.history.Finish(ctx, rec.ID, outcome); err != nil {
		logger.Warn("failed to record run outcome", logging.Error(err))
		return
	}
	if removed, err := p.history.Prune(ctx, p.cfg.History.MaxEntries); err != nil {
		logger.Warn("failed to prune history", logging.Error(err))
	} else if removed > 0 {
		logger.Debug("pruned history", logging.Int64("removed", removed))
	}
}
