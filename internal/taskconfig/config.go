// Package taskconfig discovers tasks from script directories and declarative
// *.lunar.toml files, following repository and directory selectors.
package taskconfig

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/felixgeelhaar/lunar/internal/repo"
)

// ConfigSuffix marks a standalone task config file.
const ConfigSuffix = ".lunar.toml"

// Selector picks tasks out of a directory. When Script is set, even to an
// empty string, a single script becomes the task; otherwise every task found
// is taken, narrowed by Tasks when non-nil and renamed with Prefix.
type Selector struct {
	Script *string  `toml:"script"`
	Tasks  []string `toml:"tasks"`
	Prefix string   `toml:"prefix"`
}

// RepoConfig selects tasks from a git repository.
type RepoConfig struct {
	URL  string `toml:"url"`
	Tag  string `toml:"tag"`
	Hash string `toml:"hash"`

	Selector
}

// Reference returns the repository reference to fetch.
func (c *RepoConfig) Reference() repo.Reference {
	return repo.Reference{URL: c.URL, Tag: c.Tag, Hash: c.Hash}
}

// DirectoryConfig selects tasks from a local directory.
type DirectoryConfig struct {
	Path string `toml:"path"`

	Selector
}

// StandaloneConfig is the content of a *.lunar.toml file. Each populated
// source contributes tasks on its own.
type StandaloneConfig struct {
	Name      string           `toml:"name"`
	Repo      *RepoConfig      `toml:"repo"`
	Directory *DirectoryConfig `toml:"directory"`
	Script    *string          `toml:"script"`
}

// LoadConfig reads and parses a standalone config file.
func LoadConfig(path string) (*StandaloneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses standalone config contents.
func ParseConfig(data []byte) (*StandaloneConfig, error) {
	var cfg StandaloneConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configName returns the fallback task name of a config file, or false when
// the file is not a config file.
func configName(fileName string) (string, bool) {
	if !strings.HasSuffix(fileName, ConfigSuffix) {
		return "", false
	}
	return strings.TrimSuffix(fileName, ConfigSuffix), true
}
