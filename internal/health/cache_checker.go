package health

import (
	"context"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/lunar/internal/localdata"
)

// CacheChecker checks that the cache root accepts writes.
type CacheChecker struct {
	dir string
}

// NewCacheChecker creates a checker for the cache root dir.
func NewCacheChecker(dir string) *CacheChecker {
	return &CacheChecker{dir: dir}
}

// Name returns the name of this health check.
func (c *CacheChecker) Name() string {
	return "cache-root"
}

// Check writes and removes a probe file in the cache root.
func (c *CacheChecker) Check(ctx context.Context) *Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("check cancelled").WithDetail("error", err.Error())
	}

	probe := filepath.Join(c.dir, ".doctor-probe")
	if err := localdata.WriteFileAtomic(probe, []byte("ok")); err != nil {
		return Unhealthy("cache root is not writable").
			WithDetail("path", c.dir).
			WithDetail("error", err.Error()).
			WithDetail("suggestion", "Set "+localdata.EnvVar+" to a writable directory")
	}
	_ = os.Remove(probe)

	result := Healthy("cache root is writable").WithDetail("path", c.dir)
	if entries, err := os.ReadDir(filepath.Join(c.dir, localdata.ReposDir)); err == nil {
		result.WithDetail("repos", len(entries))
	}
	return result
}
