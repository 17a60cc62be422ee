package log

import (
	"log/slog"
	"strings"
)

// Level is the severity of a log record.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the upper-case name used in log output.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return strings.ToUpper(name)
	}
	return "UNKNOWN"
}

// ToSlogLevel maps the level onto slog. Unknown levels map to info.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel reads a level name case-insensitively. "warning" is accepted
// as warn and anything unrecognized falls back to info.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn
	}
	for level, name := range levelNames {
		if name == s {
			return level
		}
	}
	return LevelInfo
}

// LevelNames lists the accepted level names from most to least verbose.
func LevelNames() []string {
	return []string{"debug", "info", "warn", "error"}
}
