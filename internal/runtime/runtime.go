// Package runtime drives the external script runtime that actually executes
// task scripts and repository setup scripts.
package runtime

import (
	"context"
	"io"
	"os"

	"github.com/felixgeelhaar/lunar/internal/command"
)

// DefaultBinary is the runtime used when none is configured.
const DefaultBinary = "lune"

// Runtime invokes the script runtime binary.
type Runtime struct {
	bin    string
	runner command.Runner

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a runtime for bin. Task runs inherit the process streams.
func New(bin string, runner command.Runner) *Runtime {
	if bin == "" {
		bin = DefaultBinary
	}
	if runner == nil {
		runner = command.NewExecRunner()
	}
	return &Runtime{
		bin:    bin,
		runner: runner,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Binary returns the runtime binary name.
func (r *Runtime) Binary() string {
	return r.bin
}

// RunSetup runs script with dir as the working directory, capturing its
// output. A failure surfaces the exit code and captured output.
func (r *Runtime) RunSetup(ctx context.Context, dir, script string) error {
	_, err := r.runner.Output(ctx, dir, r.bin, "run", script)
	return err
}

// Run executes the script at path in dir with the process streams. The fixed
// subtask arguments come before the user supplied ones. A non-zero exit is
// returned as a *command.ExitError.
func (r *Runtime) Run(ctx context.Context, dir, path string, subtaskArgs, args []string) error {
	return command.Run(ctx, dir, r.Stdin, r.Stdout, r.Stderr, r.bin, RunArgs(path, subtaskArgs, args)...)
}

// RunArgs builds the runtime argument list for a task run.
func RunArgs(path string, subtaskArgs, args []string) []string {
	out := make([]string, 0, 3+len(subtaskArgs)+len(args))
	out = append(out, "run", path, "--")
	out = append(out, subtaskArgs...)
	return append(out, args...)
}
