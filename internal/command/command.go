// Package command runs external collaborators (git, the script runtime) and
// turns a non-zero exit status into an error carrying the captured output.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ExitError reports a command that could not be started or exited non-zero.
type ExitError struct {
	// Command is the command line that was run.
	Command string
	// Code is the exit status, or -1 when the process never ran.
	Code   int
	Stdout []byte
	Stderr []byte
	// Err is the underlying start or wait error.
	Err error
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("Failed with exit code %d\n%s\n%s",
		e.Code, strings.TrimRight(string(e.Stderr), "\n"), strings.TrimRight(string(e.Stdout), "\n"))
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner executes a command in dir and returns its stdout.
type Runner interface {
	Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	// Env is appended to the parent environment when non-empty.
	Env []string
}

// NewExecRunner creates a runner that inherits the parent environment.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Output runs name with args in dir and captures stdout and stderr.
func (r *ExecRunner) Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), newExitError(commandLine(name, args), err, stdout.Bytes(), stderr.Bytes())
	}

	return stdout.Bytes(), nil
}

// Run executes name with args in dir with the given standard streams. A
// non-zero exit status is returned as an *ExitError without captured output.
func Run(ctx context.Context, dir string, stdin io.Reader, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return newExitError(commandLine(name, args), err, nil, nil)
	}
	return nil
}

func newExitError(cmdline string, err error, stdout, stderr []byte) *ExitError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal.
			code = 1
		}
	}

	return &ExitError{
		Command: cmdline,
		Code:    code,
		Stdout:  append([]byte(nil), stdout...),
		Stderr:  append([]byte(nil), stderr...),
		Err:     err,
	}
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
