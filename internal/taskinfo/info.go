// Package taskinfo reads the metadata block embedded in task scripts and
// flattens it into the task records shown and dispatched by the CLI.
package taskinfo

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// The block looks like
//
//	--[=[ lunar
//	about = "..."
//	--]=]
//
// where the closing dashes are optional and blanks around "lunar" are ignored.
var infoBlock = regexp.MustCompile(`(?s)--\[=\[[^\S\r\n]*lunar[^\S\n]*\n(.*?)-*\]=\]`)

// Info is the metadata of a script. Tasks declares sub-tasks backed by the
// same script.
type Info struct {
	Args  *string         `toml:"args"`
	About *string         `toml:"about"`
	Hide  bool            `toml:"hide"`
	Tasks map[string]Info `toml:"tasks"`
}

// Extract reads the metadata block of the script at path. A script without a
// block yields a zero Info. A block that does not parse yields an Info whose
// About describes the problem; only a read failure is returned as an error.
func Extract(path string) (Info, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	return Parse(contents), nil
}

// Parse extracts the metadata block from script contents. Invalid UTF-8 is
// replaced with U+FFFD before parsing.
func Parse(contents []byte) Info {
	text := strings.ToValidUTF8(string(contents), "\uFFFD")
	m := infoBlock.FindStringSubmatch(text)
	if m == nil {
		return Info{}
	}

	var info Info
	if err := toml.Unmarshal([]byte(m[1]), &info); err != nil {
		return Info{About: ptr(fmt.Sprintf("failed to parse info: %s", parseMessage(err)))}
	}
	return info
}

func parseMessage(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("%s (line %d, column %d)", decodeErr.Error(), row, col)
	}
	return err.Error()
}

func ptr(s string) *string {
	return &s
}
