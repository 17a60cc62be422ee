package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeTaskNotFound, "test error message")

	if err.Code != ErrCodeTaskNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeTaskNotFound, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeRepoCloneFailed, "clone failed", cause)

	if err.Code != ErrCodeRepoCloneFailed {
		t.Errorf("expected code %s, got %s", ErrCodeRepoCloneFailed, err.Code)
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *LunarError
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeTaskNotRunnable, "task not runnable: build"),
			contains: []string{"[TASK-002]", "task not runnable: build"},
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeRepoSetupFailed, "setup failed", fmt.Errorf("exit status 3")),
			contains: []string{"[REPO-003]", "setup failed", "exit status 3"},
		},
		{
			name:     "error with suggestions",
			err:      New(ErrCodeHashInvalid, "bad hash").WithSuggestions("first", "second"),
			contains: []string{"Suggestions:", "• first", "• second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("expected %q in error message, got:\n%s", want, msg)
				}
			}
		})
	}
}

func TestErrorCodeCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeHashInvalid:      "HASH",
		ErrCodeRepoRenameFailed: "REPO",
		ErrCodeConfigParse:      "CONFIG",
		ErrCodeExecFailed:       "EXEC",
		ErrorCode("PLAIN"):      "PLAIN",
	}

	for code, want := range tests {
		if got := code.Category(); got != want {
			t.Errorf("Category(%s) = %s, want %s", code, got, want)
		}
	}
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("resolving: %w", NewInvalidHashError("abc"))

	var lunarErr *LunarError
	if !errors.As(wrapped, &lunarErr) {
		t.Fatal("expected errors.As to find LunarError")
	}
	if lunarErr.Code != ErrCodeHashInvalid {
		t.Errorf("expected code %s, got %s", ErrCodeHashInvalid, lunarErr.Code)
	}
	if !strings.Contains(lunarErr.Message, "expected full 40-character hash") {
		t.Errorf("unexpected message: %s", lunarErr.Message)
	}
}

func TestCommonConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *LunarError
		code ErrorCode
	}{
		{"hash unresolvable", NewHashUnresolvableError("https://x/y", "HEAD", fmt.Errorf("offline")), ErrCodeHashUnresolvable},
		{"task not found", NewTaskNotFoundError("build"), ErrCodeTaskNotFound},
		{"task not runnable", NewTaskNotRunnableError("build"), ErrCodeTaskNotRunnable},
		{"config parse", NewConfigParseError("a.lunar.toml", fmt.Errorf("bad")), ErrCodeConfigParse},
		{"cache unavailable", NewCacheUnavailableError("/nope", fmt.Errorf("denied")), ErrCodeCacheUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.Message == "" {
				t.Error("expected a message")
			}
		})
	}
}
