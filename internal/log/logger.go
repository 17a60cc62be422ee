// Package log is a structured logger on top of log/slog.
package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
)

// Logger wraps slog with helpers that expand coded errors into
// error_code, suggestions and cause attributes.
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New builds a logger from config.
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     config.Level.ToSlogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == FormatJSON {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &Logger{slog: slog.New(handler), config: config}
}

// Default creates a logger with DefaultConfig.
func Default() *Logger {
	return New(DefaultConfig())
}

// Discard creates a logger that drops every record.
func Discard() *Logger {
	cfg := DefaultConfig()
	cfg.Output = io.Discard
	return New(cfg)
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), config: l.config}
}

// WithError attaches err to the logger. Coded errors also contribute
// error_code, suggestions and cause.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	var lunarErr *lunarerrors.LunarError
	if !errors.As(err, &lunarErr) {
		return l.With("error", err.Error())
	}

	args := []any{"error", lunarErr.Message, "error_code", string(lunarErr.Code)}
	if len(lunarErr.Suggestions) > 0 {
		args = append(args, "suggestions", lunarErr.Suggestions)
	}
	if lunarErr.Cause != nil {
		args = append(args, "cause", lunarErr.Cause.Error())
	}
	return l.With(args...)
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// Enabled reports whether records at level would be written.
func (l *Logger) Enabled(ctx context.Context, level Level) bool {
	return l.slog.Enabled(ctx, level.ToSlogLevel())
}

// Config returns the configuration the logger was built with.
func (l *Logger) Config() Config {
	return l.config
}
