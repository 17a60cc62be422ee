package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lunar/internal/command"
)

type recordingRunner struct {
	dir  string
	name string
	args []string
	err  error
}

func (r *recordingRunner) Output(_ context.Context, dir string, name string, args ...string) ([]byte, error) {
	r.dir, r.name, r.args = dir, name, args
	return nil, r.err
}

func TestRunArgs(t *testing.T) {
	tests := []struct {
		name        string
		subtaskArgs []string
		args        []string
		want        []string
	}{
		{"no args", nil, nil, []string{"run", "task.luau", "--"}},
		{"user args", nil, []string{"a", "--flag"}, []string{"run", "task.luau", "--", "a", "--flag"}},
		{"subtask first", []string{"build", "release"}, []string{"x"}, []string{"run", "task.luau", "--", "build", "release", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RunArgs("task.luau", tt.subtaskArgs, tt.args))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	rt := New("", nil)
	assert.Equal(t, DefaultBinary, rt.Binary())
	assert.Equal(t, os.Stdout, rt.Stdout)
}

func TestRunSetup(t *testing.T) {
	runner := &recordingRunner{}
	rt := New("lune", runner)

	require.NoError(t, rt.RunSetup(context.Background(), "/tmp/clone", "/tmp/clone/lunar-setup.luau"))
	assert.Equal(t, "/tmp/clone", runner.dir)
	assert.Equal(t, "lune", runner.name)
	assert.Equal(t, []string{"run", "/tmp/clone/lunar-setup.luau"}, runner.args)
}

func TestRunSetupFailure(t *testing.T) {
	failure := &command.ExitError{Command: "lune run setup", Code: 2, Stderr: []byte("bad")}
	rt := New("lune", &recordingRunner{err: failure})

	err := rt.RunSetup(context.Background(), t.TempDir(), "setup")
	var exitErr *command.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}

// The runtime binary is replaced by sh, which treats "run" as a script file
// in the working directory.
func newShellRuntime(t *testing.T, body string) (*Runtime, string, *bytes.Buffer) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run"), []byte(body), 0644))

	var stdout bytes.Buffer
	rt := New("sh", nil)
	rt.Stdin = bytes.NewReader(nil)
	rt.Stdout = &stdout
	rt.Stderr = &bytes.Buffer{}
	return rt, dir, &stdout
}

func TestRunPassesArguments(t *testing.T) {
	rt, dir, stdout := newShellRuntime(t, `echo "$@"`+"\n")

	err := rt.Run(context.Background(), dir, "task.luau", []string{"sub"}, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "task.luau -- sub x y\n", stdout.String())
}

func TestRunExitCode(t *testing.T) {
	rt, dir, _ := newShellRuntime(t, "exit 7\n")

	err := rt.Run(context.Background(), dir, "task.luau", nil, nil)
	var exitErr *command.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 7, exitErr.Code)
}
