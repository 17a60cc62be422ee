package log

import "sync/atomic"

var defaultLogger atomic.Pointer[Logger]

// SetDefaultLogger replaces the process-wide logger used by packages that
// were not handed one explicitly. Nil resets it.
func SetDefaultLogger(logger *Logger) {
	defaultLogger.Store(logger)
}

// DefaultLogger returns the process-wide logger, creating one with
// default settings on first use.
func DefaultLogger() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	logger := Default()
	if !defaultLogger.CompareAndSwap(nil, logger) {
		if current := defaultLogger.Load(); current != nil {
			return current
		}
	}
	return logger
}
