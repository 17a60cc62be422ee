package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/lunar/internal/cmd"
	"github.com/felixgeelhaar/lunar/internal/exitcode"
	"github.com/felixgeelhaar/lunar/internal/log"
	"github.com/felixgeelhaar/lunar/internal/ux"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		// Check if error was due to context cancellation (e.g., Ctrl+C)
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
			exitcode.Exit(exitcode.Interrupted)
		}

		// The task has already reported its own failure.
		var taskExit *exitcode.TaskExit
		if !errors.As(err, &taskExit) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", ux.EnhanceError(err))
		}
		code := exitcode.DetermineExitCode(err)
		log.DefaultLogger().Debug("Exiting", "code", code, "reason", exitcode.GetExitCodeDescription(code))
		exitcode.Exit(code)
	}
	exitcode.Exit(exitcode.Success)
}
