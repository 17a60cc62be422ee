package cmd

import (
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/lunar/internal/log"
	"github.com/felixgeelhaar/lunar/internal/ux"
)

// CommandContext holds the global flags. They are parsed before the task
// commands exist, since building those commands requires the cache and the
// trust settings the flags control.
type CommandContext struct {
	TrustNew   bool
	ClearCache bool
	Doctor     bool
	List       bool
	ShowConfig bool
	Version    bool
	Format     ux.Format
	format     string
	LogLevel   string
	ConfigPath string
}

// newGlobalFlags defines the global flags bound to cc.
func newGlobalFlags(cc *CommandContext) *pflag.FlagSet {
	fs := pflag.NewFlagSet("lunar", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVarP(&cc.TrustNew, "trust-new", "y", false, "Trust new repos by default")
	fs.BoolVar(&cc.ClearCache, "clear-cache", false, "Clear repo data cache, repo hash cache, and trust cache")
	fs.BoolVar(&cc.List, "list", false, "List resolved tasks and exit")
	fs.StringVar(&cc.format, "format", "text", "Output format for --list and --doctor (text, json, yaml)")
	fs.BoolVar(&cc.Doctor, "doctor", false, "Check git, the script runtime and the cache directory")
	fs.BoolVar(&cc.ShowConfig, "show-config", false, "Print the effective configuration and exit")
	fs.StringVar(&cc.LogLevel, "log-level", "", "Log level ("+strings.Join(log.LevelNames(), ", ")+")")
	fs.StringVar(&cc.ConfigPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/lunar/config.yaml)")
	fs.BoolVarP(&cc.Version, "version", "v", false, "Print version information")

	return fs
}

// parseGlobalFlags parses the flags in front of the task name and returns
// the remaining arguments, starting at the task name. Everything after the
// task name belongs to the task.
func parseGlobalFlags(args []string) (*CommandContext, []string, error) {
	cc := &CommandContext{}
	fs := newGlobalFlags(cc)
	fs.SetInterspersed(false)

	// Leave -h/--help to the command tree.
	var help bool
	fs.BoolVarP(&help, "help", "h", false, "")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	format, err := ux.ParseFormat(cc.format)
	if err != nil {
		return nil, nil, err
	}
	cc.Format = format

	rest := fs.Args()
	if help {
		rest = append([]string{"help"}, rest...)
	}
	return cc, rest, nil
}
