// Package health backs lunar --doctor. It checks the git binary, the
// script runtime and the cache root and reports each result.
package health

import (
	"context"
	"time"
)

// Checker verifies one external dependency.
type Checker interface {
	// Name identifies the check in reports, e.g. "git-binary".
	Name() string
	// Check must honor the context deadline.
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

// severity orders statuses so the worst one can be picked.
func (s Status) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Result is what a Checker reports. Details carries structured extras such
// as the binary path, its version or a "suggestion" shown to the user.
type Result struct {
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency" yaml:"latency"`
}

func newResult(status Status, message string) *Result {
	return &Result{Status: status, Message: message, Details: map[string]any{}}
}

func Healthy(message string) *Result   { return newResult(StatusHealthy, message) }
func Degraded(message string) *Result  { return newResult(StatusDegraded, message) }
func Unhealthy(message string) *Result { return newResult(StatusUnhealthy, message) }

// WithDetail sets a detail and returns r for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}
