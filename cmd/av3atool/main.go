package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"av3atool/internal/console"
	"av3atool/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			noColor, _ := cmd.PersistentFlags().GetBool("no-color")
			reportError(os.Stderr, err, noColor)
		}
		os.Exit(services.ExitCode(err))
	}
}

// reportError prints the terminal error with its console label.
func reportError(w io.Writer, err error, noColor bool) {
	printer := console.New(w, noColor)
	printer.Print(console.KindForLabel(services.Label(err)), "%s", err)
}
