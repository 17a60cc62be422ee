package repo

import (
	"context"

	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
	"github.com/felixgeelhaar/lunar/internal/log"
)

// RemoteLookup resolves a ref on a remote repository to a commit hash.
type RemoteLookup interface {
	LsRemote(ctx context.Context, url, ref string) (string, error)
}

// HashResolver turns a Reference into a commit hash. An online answer always
// wins and refreshes the cache; the cache is only a fallback for when the
// remote cannot be reached.
type HashResolver struct {
	remote RemoteLookup
	cache  *HashCache
	logger *log.Logger
}

// NewHashResolver creates a resolver. A nil logger uses the default logger.
func NewHashResolver(remote RemoteLookup, cache *HashCache, logger *log.Logger) *HashResolver {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &HashResolver{remote: remote, cache: cache, logger: logger}
}

// Resolve returns the commit hash of ref.
func (r *HashResolver) Resolve(ctx context.Context, ref Reference) (string, error) {
	if ref.Hash != "" {
		if !IsFullHash(ref.Hash) {
			return "", lunarerrors.NewInvalidHashError(ref.Hash)
		}
		return ref.Hash, nil
	}

	key := ref.CacheKey()
	online, onlineErr := r.remote.LsRemote(ctx, ref.URL, ref.Ref())

	cached, found, cacheErr := r.cache.Get(key)
	if cacheErr != nil {
		r.logger.WithError(cacheErr).Warn("Failed to read hash cache (continuing anyways)")
		found = false
	}

	if onlineErr == nil {
		if !found || cached != online {
			if err := r.cache.Put(key, online); err != nil {
				r.logger.WithError(err).Warn("Failed to update hash cache (continuing anyways)")
			}
		}
		return online, nil
	}

	if found {
		r.logger.WithError(onlineErr).Warn("Using cached commit hash, online lookup failed",
			"repo", ref.URL, "ref", ref.Ref(), "hash", cached)
		return cached, nil
	}

	return "", lunarerrors.NewHashUnresolvableError(ref.URL, ref.Ref(), onlineErr)
}
