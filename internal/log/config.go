package log

import (
	"io"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat reads "json" case-insensitively; anything else is text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Config controls how records are filtered and encoded.
type Config struct {
	Level  Level
	Format Format
	// Output receives every record. Nil means stderr, which keeps stdout
	// free for task output and listings.
	Output io.Writer
	// AddSource adds the caller's file and line to each record.
	AddSource bool
}

// DefaultConfig is used until the runner config has been loaded.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}
