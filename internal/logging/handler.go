package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"av3atool/internal/console"
)

const lineTimeLayout = "2006-01-02 15:04:05"

// lineHandler writes one human-readable line per record:
//
//	2026-10-16 09:12:44 [INFO] pipeline decode/remap_8ch #1a2b3c4d: stage started output=/a/foo_8ch.wav
//
// The tag follows the console's labels. Component, flow, stage and a short
// job id are hoisted into the scope, progress events render like the bar
// text, and error_hint trails the line after an arrow.
type lineHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	attrs     []slog.Attr
	prefix    string
}

func newLineHandler(w io.Writer, level slog.Leveler, addSource bool) *lineHandler {
	return &lineHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(attr))
	}
	return &clone
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *lineHandler) qualify(attr slog.Attr) slog.Attr {
	if h.prefix != "" {
		attr.Key = h.prefix + attr.Key
	}
	return attr
}

// lineFields splits a record's attributes into the hoisted scope fields and
// the trailing key=value pairs.
type lineFields struct {
	component string
	flow      string
	stage     string
	jobID     string
	eventType string
	hint      string
	percent   int
	elapsed   time.Duration
	eta       time.Duration
	hasEta    bool
	rest      []slog.Attr
}

func (f *lineFields) take(attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		for _, inner := range attr.Value.Group() {
			if attr.Key != "" {
				inner.Key = attr.Key + "." + inner.Key
			}
			f.take(inner)
		}
		return
	}
	switch attr.Key {
	case "":
	case FieldComponent:
		f.component = attr.Value.String()
	case FieldFlow:
		f.flow = attr.Value.String()
	case FieldStage:
		f.stage = attr.Value.String()
	case FieldJobID:
		f.jobID = attr.Value.String()
	case FieldEventType:
		f.eventType = attr.Value.String()
	case FieldErrorHint:
		f.hint = attr.Value.String()
	default:
		f.rest = append(f.rest, attr)
	}
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	var f lineFields
	for _, attr := range h.attrs {
		f.take(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		f.take(h.qualify(attr))
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(ts.UTC().Format(lineTimeLayout))
	b.WriteByte(' ')
	b.WriteString("[" + lineTag(record.Level, f.eventType) + "]")
	if scope := f.scope(); scope != "" {
		b.WriteByte(' ')
		b.WriteString(scope)
		b.WriteByte(':')
	}
	b.WriteByte(' ')
	b.WriteString(f.message(record.Message))

	for _, attr := range f.rest {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteByte('=')
		b.WriteString(renderValue(attr.Value))
	}
	if f.hint != "" {
		b.WriteString(" → ")
		b.WriteString(f.hint)
	}
	if h.addSource && record.PC != 0 {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&b, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (f *lineFields) scope() string {
	parts := make([]string, 0, 3)
	if f.component != "" {
		parts = append(parts, f.component)
	}
	switch {
	case f.flow != "" && f.stage != "":
		parts = append(parts, f.flow+"/"+f.stage)
	case f.flow != "":
		parts = append(parts, f.flow)
	case f.stage != "":
		parts = append(parts, f.stage)
	}
	if f.jobID != "" {
		parts = append(parts, "#"+shortID(f.jobID))
	}
	return strings.Join(parts, " ")
}

// message renders progress events like the bar's trailing text and leaves
// every other message as logged.
func (f *lineFields) message(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = "(no message)"
	}
	if f.eventType != "progress" && f.eventType != "progress_complete" {
		return msg
	}
	rest := f.rest[:0]
	for _, attr := range f.rest {
		switch {
		case attr.Key == "percent" && attr.Value.Kind() == slog.KindInt64:
			f.percent = int(attr.Value.Int64())
		case attr.Key == "elapsed" && attr.Value.Kind() == slog.KindDuration:
			f.elapsed = attr.Value.Duration()
		case attr.Key == "eta" && attr.Value.Kind() == slog.KindDuration:
			f.eta = attr.Value.Duration()
			f.hasEta = true
		default:
			rest = append(rest, attr)
		}
	}
	f.rest = rest
	if f.eventType == "progress_complete" {
		return fmt.Sprintf("%s 100%% Elapsed: %s", msg, clock(f.elapsed))
	}
	line := fmt.Sprintf("%s %d%% Elapsed: %s", msg, f.percent, clock(f.elapsed))
	if f.hasEta {
		line += " | Remaining: " + clock(f.eta)
	}
	return line
}

// lineTag picks the console tag for a record. Event types refine the level:
// completions read as OK or SUCCESS, failures as ERROR.
func lineTag(level slog.Level, eventType string) string {
	switch {
	case eventType == "pipeline_complete":
		return console.KindSuccess.Label()
	case strings.HasSuffix(eventType, "_complete"):
		return console.KindOK.Label()
	case strings.HasSuffix(eventType, "_failure"):
		return console.KindError.Label()
	}
	switch {
	case level >= slog.LevelError:
		return console.KindError.Label()
	case level >= slog.LevelWarn:
		return console.KindWarn.Label()
	case level >= slog.LevelInfo:
		return console.KindInfo.Label()
	default:
		return "DEBUG"
	}
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func renderValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		switch val := v.Any().(type) {
		case error:
			s = val.Error()
		case []string:
			s = strings.Join(val, ",")
		default:
			s = fmt.Sprint(val)
		}
	default:
		return v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
