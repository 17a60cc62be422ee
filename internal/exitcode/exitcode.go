package exitcode

import (
	"errors"
	"fmt"
	"os"
	"strings"

	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, unknown task, etc.)
	UsageError = 2

	// ConfigError indicates an unreadable task or runner configuration
	ConfigError = 3

	// Untrusted indicates remote content was refused by the trust gate
	Untrusted = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// Interrupted indicates the run was cancelled by a signal
	Interrupted = 130
)

// TaskExit reports the exit status of a dispatched task so it can be passed
// through as the exit status of lunar itself.
type TaskExit struct {
	Task string
	Code int
}

func (e *TaskExit) Error() string {
	return fmt.Sprintf("task %s exited with code %d", e.Task, e.Code)
}

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var taskExit *TaskExit
	if errors.As(err, &taskExit) {
		return taskExit.Code
	}

	var lunarErr *lunarerrors.LunarError
	if errors.As(err, &lunarErr) {
		switch lunarErr.Code {
		case lunarerrors.ErrCodeTaskNotFound, lunarerrors.ErrCodeTaskNotRunnable:
			return UsageError
		case lunarerrors.ErrCodeRepoSetupUntrusted:
			return Untrusted
		case lunarerrors.ErrCodeHashUnresolvable:
			return NetworkError
		}
		switch lunarErr.Code.Category() {
		case "CONFIG":
			return ConfigError
		}
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())

	// Usage errors reported by cobra
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "unknown shorthand flag") || strings.Contains(errMsg, "requires at least") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or task)"
	case ConfigError:
		return "Configuration error"
	case Untrusted:
		return "Remote content not trusted"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
