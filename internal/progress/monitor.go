package progress

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"av3atool/internal/logging"
)

// Monitor consumes decoder output lines and renders progress. Its only state
// is the job start time and, in log mode, the sampler that throttles records.
type Monitor struct {
	out     io.Writer
	start   time.Time
	now     func() time.Time
	redraw  bool
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	stage   string
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock injects the time source (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger records sampled progress to logger in addition to the console.
func WithLogger(logger *slog.Logger, stage string) Option {
	return func(m *Monitor) {
		m.logger = logger
		m.stage = stage
	}
}

// WithRedraw selects carriage-return redraws (terminals) or one line per
// sampled update (pipes and files).
func WithRedraw(redraw bool) Option {
	return func(m *Monitor) {
		m.redraw = redraw
	}
}

// NewMonitor constructs a monitor whose elapsed clock starts now.
func NewMonitor(out io.Writer, opts ...Option) *Monitor {
	m := &Monitor{
		out:     out,
		now:     time.Now,
		redraw:  true,
		sampler: logging.NewProgressSampler(5),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.start = m.now()
	return m
}

// Elapsed returns the wall-clock time since the monitor started, truncated to
// whole seconds.
func (m *Monitor) Elapsed() time.Duration {
	return m.now().Sub(m.start).Truncate(time.Second)
}

// HandleLine processes one output line. It reports whether anything was
// rendered; non-matching lines are ignored.
func (m *Monitor) HandleLine(line string) bool {
	rendered := false
	if sample, ok := ParseLine(line); ok {
		m.render(sample)
		rendered = true
	}
	if IsDone(line) {
		m.complete()
		rendered = true
	}
	return rendered
}

func (m *Monitor) render(sample Sample) {
	elapsed := m.Elapsed()
	emit := m.sampler.ShouldLog(sample.Percent, m.stage)
	bar := RenderBar(sample.Percent, elapsed, sample.ETA)
	if m.redraw {
		m.write(bar + "\r")
	} else if emit {
		m.write(bar + "\n")
	}
	if emit && m.logger != nil {
		m.logProgress(sample, elapsed)
	}
}

func (m *Monitor) complete() {
	elapsed := m.Elapsed()
	line := RenderBar(100, elapsed, 0)
	if m.redraw {
		m.write("\n" + line + "\n")
	} else {
		m.write(line + "\n")
	}
	if m.logger != nil {
		m.logger.Info("decoding complete",
			logging.String(logging.FieldEventType, "progress_complete"),
			logging.Duration("elapsed", elapsed),
		)
	}
}

func (m *Monitor) logProgress(sample Sample, elapsed time.Duration) {
	m.logger.Debug("decoding progress",
		logging.String(logging.FieldEventType, "progress"),
		logging.Int("percent", sample.Percent),
		logging.Duration("elapsed", elapsed),
		logging.Duration("eta", sample.ETA),
	)
}

func (m *Monitor) write(s string) {
	if m.out == nil {
		return
	}
	_, _ = fmt.Fprint(m.out, s)
}
