package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"LUNAR_TR_DIR", "LUNAR_TRUST_NEW", "LUNAR_RUNTIME", "LUNAR_GIT", "LUNAR_MAX_DEPTH", "LUNAR_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.TrustNew)
	assert.Equal(t, "lune", cfg.Runtime)
	assert.Equal(t, "git", cfg.Git)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingDefaultFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Overrides{})
	require.Error(t, err)

	var lunarErr *lunarerrors.LunarError
	require.ErrorAs(t, err, &lunarErr)
	assert.Equal(t, lunarerrors.ErrCodeConfigInvalid, lunarErr.Code)
}

func TestLoadFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
cache_dir: /tmp/lunar-cache
trust_new: true
runtime: lune-nightly
max_depth: 4
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lunar-cache", cfg.CacheDir)
	assert.True(t, cfg.TrustNew)
	assert.Equal(t, "lune-nightly", cfg.Runtime)
	assert.Equal(t, "git", cfg.Git)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)

	t.Setenv("LUNAR_TR_DIR", "/data/lunar")
	t.Setenv("LUNAR_TRUST_NEW", "true")
	t.Setenv("LUNAR_RUNTIME", "/opt/lune")

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "/data/lunar", cfg.CacheDir)
	assert.True(t, cfg.TrustNew)
	assert.Equal(t, "/opt/lune", cfg.Runtime)
}

func TestLoadOverrides(t *testing.T) {
	isolate(t)

	cfg, err := Load("", Overrides{TrustNew: true, LogLevel: "warn"})
	require.NoError(t, err)
	assert.True(t, cfg.TrustNew)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadInvalid(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 0\n"), 0644))

	_, err := Load(path, Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_depth")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty runtime", func(c *Config) { c.Runtime = "" }},
		{"empty git", func(c *Config) { c.Git = "" }},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestYAML(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, *Default(), decoded)
}
