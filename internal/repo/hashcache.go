package repo

import (
	"github.com/felixgeelhaar/lunar/internal/localdata"
)

// hashCacheFile is the on-disk shape of repo_hash_cache.json.
type hashCacheFile struct {
	Repos map[string]string `json:"repos"`
}

// HashCache memoizes resolved commit hashes by Reference.CacheKey. It has no
// lock: concurrent writers may drop each other's entries, which only costs a
// later re-resolution.
type HashCache struct {
	path string
}

// NewHashCache creates a cache backed by the JSON file at path.
func NewHashCache(path string) *HashCache {
	return &HashCache{path: path}
}

// Get returns the cached hash for key. A missing or unparsable file is an
// empty cache; only I/O failures are returned as errors.
func (c *HashCache) Get(key string) (string, bool, error) {
	f, err := c.load()
	if err != nil {
		return "", false, err
	}
	hash, ok := f.Repos[key]
	return hash, ok, nil
}

// Put stores hash under key.
func (c *HashCache) Put(key, hash string) error {
	f, err := c.load()
	if err != nil {
		return err
	}
	f.Repos[key] = hash
	return localdata.WriteJSON(c.path, f)
}

func (c *HashCache) load() (*hashCacheFile, error) {
	f := &hashCacheFile{}
	found, err := localdata.ReadJSON(c.path, f)
	if err != nil && !found {
		return nil, err
	}
	if err != nil || f.Repos == nil {
		// Corrupt content is replaced on the next write.
		f.Repos = make(map[string]string)
	}
	return f, nil
}
