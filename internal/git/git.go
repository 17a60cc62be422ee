// Package git drives the git binary for the handful of plumbing commands the
// repository cache needs.
package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/felixgeelhaar/lunar/internal/command"
)

var lsRemoteLine = regexp.MustCompile(`^\s*([a-f0-9]{40})\s+(\S+)\s*$`)

// Client runs git commands through a command.Runner.
type Client struct {
	bin    string
	runner command.Runner
}

// NewClient creates a client for the given git binary.
func NewClient(bin string, runner command.Runner) *Client {
	if bin == "" {
		bin = "git"
	}
	if runner == nil {
		runner = command.NewExecRunner()
	}
	return &Client{bin: bin, runner: runner}
}

// LsRemote returns the commit hash ref points to on the remote url. When the
// remote reports a peeled entry (annotated tags), the peeled commit wins.
func (c *Client) LsRemote(ctx context.Context, url, ref string) (string, error) {
	out, err := c.runner.Output(ctx, "", c.bin, "ls-remote", url, ref)
	if err != nil {
		return "", err
	}

	hash, ok := ParseLsRemote(out)
	if !ok {
		return "", fmt.Errorf("failed to fetch repo hash online: no results for 'git ls-remote %s %s'", url, ref)
	}
	return hash, nil
}

// ParseLsRemote picks the hash of the first ref in ls-remote output,
// preferring its peeled "^{}" entry when present.
func ParseLsRemote(out []byte) (string, bool) {
	var firstHash, firstRef string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := lsRemoteLine.FindSubmatch(scanner.Bytes())
		if m == nil {
			continue
		}
		hash, ref := string(m[1]), string(m[2])
		if firstRef == "" {
			firstHash, firstRef = hash, ref
			continue
		}
		if ref == firstRef+"^{}" {
			return hash, true
		}
	}
	return firstHash, firstHash != ""
}

// Init creates an empty repository in dir.
func (c *Client) Init(ctx context.Context, dir string) error {
	_, err := c.runner.Output(ctx, dir, c.bin, "init")
	return err
}

// AddOrigin registers url as the origin remote of the repository in dir.
func (c *Client) AddOrigin(ctx context.Context, dir, url string) error {
	_, err := c.runner.Output(ctx, dir, c.bin, "remote", "add", "origin", url)
	return err
}

// FetchCommit shallow-fetches exactly hash from origin.
func (c *Client) FetchCommit(ctx context.Context, dir, hash string) error {
	_, err := c.runner.Output(ctx, dir, c.bin, "fetch", "--depth", "1", "origin", hash)
	return err
}

// ResetToFetchHead hard-resets the work tree to FETCH_HEAD.
func (c *Client) ResetToFetchHead(ctx context.Context, dir string) error {
	_, err := c.runner.Output(ctx, dir, c.bin, "reset", "--hard", "FETCH_HEAD")
	return err
}

// CloneAt fills the empty directory dir with a depth-1 clone of url pinned
// to hash.
func (c *Client) CloneAt(ctx context.Context, dir, url, hash string) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"init", func() error { return c.Init(ctx, dir) }},
		{"remote add", func() error { return c.AddOrigin(ctx, dir, url) }},
		{"fetch", func() error { return c.FetchCommit(ctx, dir, hash) }},
		{"reset", func() error { return c.ResetToFetchHead(ctx, dir) }},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("git %s: %w", step.name, err)
		}
	}
	return nil
}
