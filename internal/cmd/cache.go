package cmd

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/lunar/internal/config"
	"github.com/felixgeelhaar/lunar/internal/localdata"
)

// openCacheRoot opens the cache root under the configured base directory,
// or the platform local data directory when none is configured.
func openCacheRoot(cfg *config.Config) (*localdata.Root, error) {
	return localdata.Open(cfg.CacheDir)
}

func clearCache(root *localdata.Root, w io.Writer) error {
	if err := root.Purge(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "Repo data cache, repo hash cache, and trust cache cleared.")
	return err
}
