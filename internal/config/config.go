// Package config loads the runner configuration from an optional YAML file,
// LUNAR_* environment variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
	"github.com/felixgeelhaar/lunar/internal/localdata"
)

// DefaultMaxDepth bounds how deep directory and repository selectors may nest.
const DefaultMaxDepth = 16

// Config holds the runner configuration.
type Config struct {
	// CacheDir is the base directory of the local cache root. Empty means the
	// platform local data directory.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir,omitempty"`

	// TrustNew trusts every new subject without prompting.
	TrustNew bool `mapstructure:"trust_new" yaml:"trust_new"`

	// Runtime is the script runtime binary.
	Runtime string `mapstructure:"runtime" yaml:"runtime"`

	// Git is the git binary.
	Git string `mapstructure:"git" yaml:"git"`

	// MaxDepth bounds selector recursion.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Overrides are values from the command line. Zero values leave the loaded
// configuration untouched.
type Overrides struct {
	TrustNew bool
	LogLevel string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TrustNew: false,
		Runtime:  "lune",
		Git:      "git",
		MaxDepth: DefaultMaxDepth,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lunar", "config.yaml"), nil
}

// Load reads configuration from path (or the default location when empty)
// and the environment. A missing file is not an error.
func Load(path string, overrides Overrides) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	v.SetEnvPrefix("LUNAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("cache_dir", localdata.EnvVar); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if !missing || explicit {
				return nil, lunarerrors.Wrap(lunarerrors.ErrCodeConfigInvalid,
					fmt.Sprintf("failed to read config file: %s", path), err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, lunarerrors.Wrap(lunarerrors.ErrCodeConfigInvalid, "failed to decode config", err)
	}

	if overrides.TrustNew {
		cfg.TrustNew = true
	}
	if overrides.LogLevel != "" {
		cfg.Log.Level = overrides.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("cache_dir", "")
	v.SetDefault("trust_new", d.TrustNew)
	v.SetDefault("runtime", d.Runtime)
	v.SetDefault("git", d.Git)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate checks the configuration for values the runner cannot work with.
func (c *Config) Validate() error {
	if c.Runtime == "" {
		return lunarerrors.New(lunarerrors.ErrCodeConfigInvalid, "runtime must not be empty")
	}
	if c.Git == "" {
		return lunarerrors.New(lunarerrors.ErrCodeConfigInvalid, "git must not be empty")
	}
	if c.MaxDepth < 1 {
		return lunarerrors.New(lunarerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("max_depth must be at least 1, got %d", c.MaxDepth))
	}
	return nil
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
