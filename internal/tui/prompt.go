package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ConfirmPrompter asks trust questions with an interactive huh form.
type ConfirmPrompter struct {
	// Title is shown above the question. Defaults to "Trust?".
	Title string
}

// NewConfirmPrompter creates an interactive trust prompter.
func NewConfirmPrompter() *ConfirmPrompter {
	return &ConfirmPrompter{Title: "Trust?"}
}

// Confirm shows query and returns the answer. Aborting the form declines.
func (p *ConfirmPrompter) Confirm(query string) (bool, error) {
	var confirmed bool

	confirm := huh.NewConfirm().
		Title(p.Title).
		Description(query).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm)).WithOutput(os.Stderr)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// IsInteractive returns true if stdin and stderr are both terminals
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// ShouldPrompt returns true if the interactive form should be used.
// CI environments and piped stdin get the plain line prompt instead.
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
