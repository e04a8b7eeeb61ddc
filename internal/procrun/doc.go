// Package procrun launches external commands and reports their outcome as a
// typed Result instead of terminating the process.
//
// Monitored commands have stdout and stderr merged into a single pipe that is
// drained line by line before the runner waits on the exit status, so a chatty
// child can never block on a full buffer. Lines are split on both '\n' and
// '\r' because progress-bar tools redraw with carriage returns.
package procrun
