package ux

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a recovery suggestion to errors coming from the
// environment (missing binaries, permissions, network).
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		switch execErr.Name {
		case "git":
			return NewErrorWithSuggestion(err, "Install git and make sure it is on your PATH")
		case "lune":
			return NewErrorWithSuggestion(err, "Install the Lune runtime or set 'runtime' in the lunar config")
		default:
			return NewErrorWithSuggestion(err, fmt.Sprintf("Make sure %s is installed and on your PATH", execErr.Name))
		}
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check file permissions, or point LUNAR_TR_DIR at a writable directory")
	}

	if strings.Contains(errMsg, "Could not resolve host") ||
		strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no route to host") {
		return NewErrorWithSuggestion(err,
			"Check your network connection; previously resolved tags keep working offline")
	}

	return err
}
