package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lunar/internal/command"
)

type call struct {
	dir  string
	name string
	args []string
}

type recordingRunner struct {
	calls  []call
	output map[string]string
	fail   map[string]error
}

func (r *recordingRunner) Output(_ context.Context, dir string, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, call{dir: dir, name: name, args: args})
	key := strings.Join(args, " ")
	if err, ok := r.fail[args[0]]; ok {
		return nil, err
	}
	return []byte(r.output[key]), nil
}

const (
	hashA = "0123456789abcdef0123456789abcdef01234567"
	hashB = "89abcdef0123456789abcdef0123456789abcdef"
)

func TestParseLsRemote(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		wantOK bool
	}{
		{"single ref", hashA + "\tHEAD\n", hashA, true},
		{"first of many", hashA + "\trefs/heads/main\n" + hashB + "\trefs/tags/main\n", hashA, true},
		{"peeled tag", hashA + "\trefs/tags/v1\n" + hashB + "\trefs/tags/v1^{}\n", hashB, true},
		{"empty", "", "", false},
		{"garbage", "fatal: nope\n", "", false},
		{"uppercase is not a hash", strings.ToUpper(hashA) + "\tHEAD\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLsRemote([]byte(tt.output))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLsRemote(t *testing.T) {
	runner := &recordingRunner{output: map[string]string{
		"ls-remote https://example.com/r.git v2": hashA + "\trefs/tags/v2\n",
	}}
	client := NewClient("git", runner)

	hash, err := client.LsRemote(context.Background(), "https://example.com/r.git", "v2")
	require.NoError(t, err)
	assert.Equal(t, hashA, hash)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "git", runner.calls[0].name)
}

func TestLsRemoteNoResults(t *testing.T) {
	client := NewClient("git", &recordingRunner{})

	_, err := client.LsRemote(context.Background(), "https://example.com/r.git", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no results for 'git ls-remote https://example.com/r.git missing'")
}

func TestCloneAtSequence(t *testing.T) {
	runner := &recordingRunner{}
	client := NewClient("/usr/bin/git", runner)

	require.NoError(t, client.CloneAt(context.Background(), "/tmp/clone", "https://example.com/r.git", hashA))

	want := [][]string{
		{"init"},
		{"remote", "add", "origin", "https://example.com/r.git"},
		{"fetch", "--depth", "1", "origin", hashA},
		{"reset", "--hard", "FETCH_HEAD"},
	}
	require.Len(t, runner.calls, len(want))
	for i, c := range runner.calls {
		assert.Equal(t, "/tmp/clone", c.dir)
		assert.Equal(t, "/usr/bin/git", c.name)
		assert.Equal(t, want[i], c.args)
	}
}

func TestCloneAtStopsOnFailure(t *testing.T) {
	failure := &command.ExitError{Command: "git fetch", Code: 128, Stderr: []byte("fatal: remote error")}
	runner := &recordingRunner{fail: map[string]error{"fetch": failure}}
	client := NewClient("git", runner)

	err := client.CloneAt(context.Background(), "/tmp/clone", "https://example.com/r.git", hashA)
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure))
	assert.Contains(t, err.Error(), "git fetch")
	assert.Len(t, runner.calls, 3)
}
