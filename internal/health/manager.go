package health

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// DefaultTimeout bounds each check unless WithTimeout says otherwise.
const DefaultTimeout = 5 * time.Second

// Manager runs a set of checks concurrently.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
}

func NewManager() *Manager {
	return &Manager{timeout: DefaultTimeout}
}

// WithTimeout sets the per-check timeout.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.timeout = timeout
	return m
}

func (m *Manager) AddChecker(checker Checker) {
	m.checkers = append(m.checkers, checker)
}

// Check runs every checker in parallel, each under its own timeout, and
// returns the results keyed by checker name. A result without a latency
// gets the measured wall time.
func (m *Manager) Check(ctx context.Context) map[string]*Result {
	results := make(map[string]*Result, len(m.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range m.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			start := time.Now()
			result := checker.Check(checkCtx)
			if result.Latency == 0 {
				result.Latency = time.Since(start)
			}

			mu.Lock()
			results[checker.Name()] = result
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

// OverallStatus is the worst status among results, healthy when empty.
func (m *Manager) OverallStatus(results map[string]*Result) Status {
	overall := StatusHealthy
	for _, result := range results {
		if result.Status.severity() > overall.severity() {
			overall = result.Status
		}
	}
	return overall
}

// NamedResult is a result together with the name of its check.
type NamedResult struct {
	Name   string `json:"name" yaml:"name"`
	Result `yaml:",inline"`
}

// Report is the outcome of a full run, checks sorted by name.
type Report struct {
	Status Status        `json:"status" yaml:"status"`
	Checks []NamedResult `json:"checks" yaml:"checks"`
}

func (m *Manager) Report(ctx context.Context) *Report {
	results := m.Check(ctx)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	report := &Report{Status: m.OverallStatus(results)}
	for _, name := range names {
		report.Checks = append(report.Checks, NamedResult{Name: name, Result: *results[name]})
	}
	return report
}

// RenderText writes one line per check, the suggestion under any check
// that is not healthy, and the overall status last.
func (r *Report) RenderText(w io.Writer) error {
	for _, check := range r.Checks {
		if _, err := fmt.Fprintf(w, "%-10s %-15s %s\n", check.Status, check.Name, check.Message); err != nil {
			return err
		}
		if suggestion, ok := check.Details["suggestion"]; ok && check.Status != StatusHealthy {
			if _, err := fmt.Fprintf(w, "%27s%v\n", "", suggestion); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\noverall: %s\n", r.Status)
	return err
}
