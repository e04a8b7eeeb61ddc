// Package console prints the labeled, optionally colorized lines users see
// while a flow runs.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Kind classifies a console line.
type Kind int

const (
	KindInfo Kind = iota
	KindOK
	KindSuccess
	KindWarn
	KindError
	KindException
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// Label returns the bracketed tag text for kind.
func (k Kind) Label() string {
	switch k {
	case KindOK:
		return "OK"
	case KindSuccess:
		return "SUCCESS"
	case KindWarn:
		return "WARN"
	case KindError:
		return "ERROR"
	case KindException:
		return "EXCEPTION"
	default:
		return "INFO"
	}
}

func (k Kind) color() string {
	switch k {
	case KindOK, KindSuccess:
		return ansiGreen
	case KindWarn:
		return ansiYellow
	case KindError, KindException:
		return ansiRed
	default:
		return ansiCyan
	}
}

// KindForLabel maps a label such as "ERROR" back to its Kind.
func KindForLabel(label string) Kind {
	for _, k := range []Kind{KindOK, KindSuccess, KindWarn, KindError, KindException} {
		if k.Label() == label {
			return k
		}
	}
	return KindInfo
}

// RenderLine formats "[LABEL] message", coloring only the tag.
func RenderLine(kind Kind, message string, colorize bool) string {
	tag := "[" + kind.Label() + "]"
	if colorize {
		tag = kind.color() + tag + ansiReset
	}
	if message == "" {
		return tag
	}
	return tag + " " + message
}

// Printer writes console lines. It is safe for concurrent use.
type Printer struct {
	mu       sync.Mutex
	out      io.Writer
	colorize bool
	terminal bool
}

// New returns a Printer for out. Color and bar redraws are enabled only when
// out is a terminal and color is not disabled.
func New(out io.Writer, noColor bool) *Printer {
	terminal := IsTerminal(out)
	return &Printer{out: out, colorize: terminal && !noColor, terminal: terminal}
}

// NewPlain returns a Printer that never colors or redraws.
func NewPlain(out io.Writer) *Printer {
	return &Printer{out: out}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Terminal reports whether the printer's output supports redraws.
func (p *Printer) Terminal() bool { return p.terminal }

// Colorize reports whether lines are colored.
func (p *Printer) Colorize() bool { return p.colorize }

// Writer exposes the underlying output for progress rendering.
func (p *Printer) Writer() io.Writer { return p.out }

// Print writes one labeled line.
func (p *Printer) Print(kind Kind, format string, args ...any) {
	p.write(RenderLine(kind, fmt.Sprintf(format, args...), p.colorize) + "\n")
}

// Detail writes an indented, highlighted note under the previous line.
func (p *Printer) Detail(format string, args ...any) {
	msg := "→ " + fmt.Sprintf(format, args...)
	if p.colorize {
		msg = ansiYellow + msg + ansiReset
	}
	p.write(msg + "\n")
}

// Blank writes an empty line.
func (p *Printer) Blank() {
	p.write("\n")
}

func (p *Printer) Info(format string, args ...any)    { p.Print(KindInfo, format, args...) }
func (p *Printer) OK(format string, args ...any)      { p.Print(KindOK, format, args...) }
func (p *Printer) Success(format string, args ...any) { p.Print(KindSuccess, format, args...) }
func (p *Printer) Warn(format string, args ...any)    { p.Print(KindWarn, format, args...) }
func (p *Printer) Error(format string, args ...any)   { p.Print(KindError, format, args...) }

func (p *Printer) write(s string) {
	if p == nil || p.out == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, s)
}
