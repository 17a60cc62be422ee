// Package localdata owns the writable directory shared by every cache of the
// runner: the repository clones, the commit hash cache and the trust cache.
//
// Names are kept short so that paths inside cloned repositories stay under
// the 260 character limit on Windows, which otherwise breaks git.
package localdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
)

const (
	// EnvVar overrides the base directory the cache root is created in.
	EnvVar = "LUNAR_TR_DIR"

	// DirName is the cache root directory name: [lunar]-[t]ask[r]unner.
	DirName = ".lunar-tr"

	// ReposDir holds the pinned repository clones.
	ReposDir = "repos"

	// HashCacheFile maps "{tag} on {url}" to a resolved commit hash.
	HashCacheFile = "repo_hash_cache.json"

	// TrustCacheFile holds the set of trusted subjects.
	TrustCacheFile = "trust_cache.json"
)

// Root is the resolved and created cache root. It is constructed once at
// startup and passed to every component that reads or writes a cache.
type Root struct {
	dir string
}

// Open resolves the cache root under baseDir (the platform local data
// directory when empty) and creates it together with its repos directory.
func Open(baseDir string) (*Root, error) {
	if baseDir == "" {
		var err error
		baseDir, err = DefaultBaseDir()
		if err != nil {
			return nil, lunarerrors.NewCacheUnavailableError(DirName, err)
		}
	}

	dir := filepath.Join(baseDir, DirName)
	if err := os.MkdirAll(filepath.Join(dir, ReposDir), 0755); err != nil {
		return nil, lunarerrors.NewCacheUnavailableError(dir, err)
	}

	return &Root{dir: dir}, nil
}

// Dir returns the cache root directory.
func (r *Root) Dir() string {
	return r.dir
}

// ReposDir returns the directory holding pinned repository clones.
func (r *Root) ReposDir() string {
	return filepath.Join(r.dir, ReposDir)
}

// HashCachePath returns the path of the commit hash cache file.
func (r *Root) HashCachePath() string {
	return filepath.Join(r.dir, HashCacheFile)
}

// TrustCachePath returns the path of the trust cache file.
func (r *Root) TrustCachePath() string {
	return filepath.Join(r.dir, TrustCacheFile)
}

// Purge removes the repository clones, the hash cache and the trust cache.
// The repos directory is recreated so the root stays usable.
func (r *Root) Purge() error {
	if err := os.RemoveAll(r.ReposDir()); err != nil {
		return fmt.Errorf("remove repo cache: %w", err)
	}

	for _, path := range []string{r.HashCachePath(), r.TrustCachePath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", filepath.Base(path), err)
		}
	}

	if err := os.MkdirAll(r.ReposDir(), 0755); err != nil {
		return fmt.Errorf("recreate repo cache: %w", err)
	}

	return nil
}

// DefaultBaseDir returns the platform local data directory:
// %LOCALAPPDATA% on Windows, ~/Library/Application Support on macOS and
// $XDG_DATA_HOME (or ~/.local/share) elsewhere. The environment is read on
// every call.
func DefaultBaseDir() (string, error) {
	xdg.Reload()
	if dir := xdg.DataHome; filepath.IsAbs(dir) {
		return dir, nil
	}
	// A relative XDG_DATA_HOME is invalid and ignored.
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}
