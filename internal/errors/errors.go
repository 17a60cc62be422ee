package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Commit hash errors (HASH-001 to HASH-099)
	ErrCodeHashInvalid      ErrorCode = "HASH-001"
	ErrCodeHashUnresolvable ErrorCode = "HASH-002"

	// Repository cache errors (REPO-001 to REPO-099)
	ErrCodeRepoCloneFailed    ErrorCode = "REPO-001"
	ErrCodeRepoSetupUntrusted ErrorCode = "REPO-002"
	ErrCodeRepoSetupFailed    ErrorCode = "REPO-003"
	ErrCodeRepoRenameFailed   ErrorCode = "REPO-004"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigParse   ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"

	// Local data errors (CACHE-001 to CACHE-099)
	ErrCodeCacheUnavailable ErrorCode = "CACHE-001"

	// Task errors (TASK-001 to TASK-099)
	ErrCodeTaskNotFound    ErrorCode = "TASK-001"
	ErrCodeTaskNotRunnable ErrorCode = "TASK-002"

	// External command errors (EXEC-001 to EXEC-099)
	ErrCodeExecFailed ErrorCode = "EXEC-001"
)

// Category returns the prefix of the code ("HASH", "REPO", ...)
func (c ErrorCode) Category() string {
	if i := strings.IndexByte(string(c), '-'); i > 0 {
		return string(c)[:i]
	}
	return string(c)
}

// LunarError represents an enhanced error with code and suggestions
type LunarError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *LunarError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(":\n%v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *LunarError) Unwrap() error {
	return e.Cause
}

// New creates a new LunarError
func New(code ErrorCode, message string) *LunarError {
	return &LunarError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new LunarError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *LunarError {
	return &LunarError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *LunarError) WithSuggestion(suggestion string) *LunarError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *LunarError) WithSuggestions(suggestions ...string) *LunarError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors for frequently used errors

// NewInvalidHashError creates an error for a malformed explicit commit hash
func NewInvalidHashError(hash string) *LunarError {
	return New(ErrCodeHashInvalid, fmt.Sprintf("Invalid hash: %s; expected full 40-character hash", hash)).
		WithSuggestion("Use the full lowercase commit hash, e.g. from 'git rev-parse HEAD'")
}

// NewHashUnresolvableError creates an error for a reference that could not be
// resolved online nor from the hash cache
func NewHashUnresolvableError(url, tag string, cause error) *LunarError {
	return Wrap(ErrCodeHashUnresolvable,
		fmt.Sprintf("Could not fetch hash online or from local cache for %s on %s", tag, url), cause).
		WithSuggestion("Check your network connection").
		WithSuggestion(fmt.Sprintf("Verify the ref exists: git ls-remote %s %s", url, tag))
}

// NewTaskNotFoundError creates an unknown task error
func NewTaskNotFoundError(name string) *LunarError {
	return New(ErrCodeTaskNotFound, fmt.Sprintf("task not found: %s", name)).
		WithSuggestion("List available tasks: lunar --list")
}

// NewTaskNotRunnableError creates an error for a task without a backing script
func NewTaskNotRunnableError(name string) *LunarError {
	return New(ErrCodeTaskNotRunnable, fmt.Sprintf("task not runnable: %s", name))
}

// NewConfigParseError creates a task config parse error
func NewConfigParseError(path string, cause error) *LunarError {
	return Wrap(ErrCodeConfigParse, fmt.Sprintf("failed to parse task config: %s", path), cause).
		WithSuggestion("Check the TOML syntax of the file")
}

// NewCacheUnavailableError creates an error for an unusable local cache root
func NewCacheUnavailableError(path string, cause error) *LunarError {
	return Wrap(ErrCodeCacheUnavailable, fmt.Sprintf("could not create local data directory: %s", path), cause).
		WithSuggestion("Set LUNAR_TR_DIR to a writable directory")
}
