package health

import (
	"context"
	"os/exec"
	"strings"

	"github.com/felixgeelhaar/lunar/internal/command"
)

// BinaryChecker checks that an external program is installed and runs.
type BinaryChecker struct {
	name       string
	bin        string
	suggestion string
	runner     command.Runner
	lookPath   func(string) (string, error)
}

// NewBinaryChecker creates a checker that runs `bin --version`.
func NewBinaryChecker(name, bin, suggestion string, runner command.Runner) *BinaryChecker {
	if runner == nil {
		runner = command.NewExecRunner()
	}
	return &BinaryChecker{
		name:       name,
		bin:        bin,
		suggestion: suggestion,
		runner:     runner,
		lookPath:   exec.LookPath,
	}
}

// Name returns the name of this health check.
func (c *BinaryChecker) Name() string {
	return c.name
}

// Check verifies the binary is installed and accessible.
// Returns:
//   - Healthy if the binary runs and reports a version
//   - Degraded if it runs but the version cannot be parsed
//   - Unhealthy if it is not installed or fails to run
func (c *BinaryChecker) Check(ctx context.Context) *Result {
	path, err := c.lookPath(c.bin)
	if err != nil {
		return Unhealthy(c.bin+" command not found in PATH").
			WithDetail("error", err.Error()).
			WithDetail("suggestion", c.suggestion)
	}

	output, err := c.runner.Output(ctx, "", path, "--version")
	if err != nil {
		return Unhealthy("failed to execute "+c.bin).
			WithDetail("error", err.Error()).
			WithDetail("path", path)
	}

	version := parseVersion(string(output))
	if version == "" {
		return Degraded(c.bin+" installed but version cannot be parsed").
			WithDetail("path", path).
			WithDetail("version_output", strings.TrimSpace(string(output)))
	}

	return Healthy(c.bin+" is installed and accessible").
		WithDetail("path", path).
		WithDetail("version", version)
}

// parseVersion extracts the first version-looking field from output such as
// "git version 2.42.0.windows.1" or "lune 0.8.9".
func parseVersion(output string) string {
	for _, field := range strings.Fields(output) {
		field = strings.TrimPrefix(field, "v")
		if field == "" || field[0] < '0' || field[0] > '9' {
			continue
		}

		// Strip platform suffixes like ".windows.1".
		for _, platform := range []string{".windows", ".darwin", ".linux"} {
			if idx := strings.Index(field, platform); idx > 0 {
				field = field[:idx]
			}
		}
		return field
	}
	return ""
}
