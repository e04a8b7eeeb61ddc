package procrun

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Command describes one external invocation.
type Command struct {
	Binary string
	Args   []string
	Dir    string
}

// String renders the command line for display and logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Binary))
	for _, arg := range c.Args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\"'") {
		return fmt.Sprintf("%q", arg)
	}
	return arg
}

// Result captures the outcome of a command. ExitCode is -1 when the process
// could not be started or was killed by a signal.
type Result struct {
	ExitCode int
	Err      error
	Duration time.Duration
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd Command, onLine func(string)) Result
}

// Runner executes commands through os/exec. When onLine is nil the child
// inherits Stdout and Stderr so tools that draw their own statistics stay
// visible.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a Runner attached to the process console.
func NewRunner() *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts cmd and blocks until it exits.
func (r *Runner) Run(ctx context.Context, cmd Command, onLine func(string)) Result {
	started := time.Now()
	result := r.run(ctx, cmd, onLine)
	result.Duration = time.Since(started)
	return result
}

func (r *Runner) run(ctx context.Context, cmd Command, onLine func(string)) Result {
	if strings.TrimSpace(cmd.Binary) == "" {
		return Result{ExitCode: -1, Err: errors.New("command binary required")}
	}
	execCmd := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec
	execCmd.Dir = cmd.Dir

	if onLine == nil {
		execCmd.Stdout = r.Stdout
		execCmd.Stderr = r.Stderr
		if err := execCmd.Run(); err != nil {
			return exitResult(ctx, err)
		}
		return Result{}
	}

	reader, writer, err := os.Pipe()
	if err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("output pipe: %w", err)}
	}
	defer reader.Close()

	execCmd.Stdout = writer
	execCmd.Stderr = writer
	if err := execCmd.Start(); err != nil {
		_ = writer.Close()
		return Result{ExitCode: -1, Err: fmt.Errorf("start command: %w", err)}
	}
	// The child holds its own copy; closing ours lets the reader see EOF.
	_ = writer.Close()

	scanErr := ScanLines(reader, onLine)
	if scanErr != nil {
		// Keep the child from blocking on a full pipe.
		_, _ = io.Copy(io.Discard, reader)
	}

	waitErr := execCmd.Wait()
	if waitErr != nil {
		return exitResult(ctx, waitErr)
	}
	if scanErr != nil {
		return Result{ExitCode: 0, Err: fmt.Errorf("scan output: %w", scanErr)}
	}
	return Result{}
}

func exitResult(ctx context.Context, err error) Result {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{ExitCode: -1, Err: ctxErr}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return Result{ExitCode: code, Err: fmt.Errorf("exit status %d", code)}
	}
	return Result{ExitCode: -1, Err: fmt.Errorf("start command: %w", err)}
}

// maxLineBytes bounds a single delivered line. Longer runs without a
// terminator are delivered in chunks of this size.
const maxLineBytes = 1024 * 1024

// ScanLines feeds every non-empty line of r to onLine, treating "\r", "\n",
// and "\r\n" as terminators. Reading continues until EOF.
func ScanLines(r io.Reader, onLine func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(splitLinesOrCR)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		onLine(line)
	}
	return scanner.Err()
}

func splitLinesOrCR(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance := i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance++
		}
		return advance, data[:i], nil
	}
	if atEOF || len(data) >= maxLineBytes {
		return len(data), data, nil
	}
	return 0, nil, nil
}
