package httputil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/observability"
)

// Cache stores JSON-marshalable API responses in a byte-level
// [cache.Cache] backend (file, Redis, or null).
//
// Use [Cache.Namespace] to create scoped views that automatically prefix
// keys, avoiding collisions between endpoints:
//
//	repos := c.Namespace("repos:")
//	readme := c.Namespace("readme:")
//	repos.Set(ctx, "octocat", data)  // key becomes "http:repos:octocat"
//
// Cache is safe for concurrent use if its backend is.
type Cache struct {
	backend cache.Cache
	ttl     time.Duration
	prefix  string
}

// NewCache returns a Cache writing to backend with the given TTL.
// A nil backend disables caching. A TTL of 0 means entries never expire.
func NewCache(backend cache.Cache, ttl time.Duration) *Cache {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Cache{backend: backend, ttl: ttl, prefix: "http:"}
}

// TTL returns the time-to-live applied to new entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get looks up key and unmarshals the entry into v.
//
// It returns (true, nil) on a hit, (false, nil) on a miss, and
// (false, err) on a backend or decode error, in which case v may be
// partially modified.
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, hit, err := c.backend.Get(ctx, c.prefix+key)
	if err != nil {
		return false, err
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "http")
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	observability.Cache().OnCacheHit(ctx, "http")
	return true, nil
}

// Set marshals v and stores it under key, replacing any existing entry.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.backend.Set(ctx, c.prefix+key, data, c.ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "http", len(data))
	return nil
}

// Namespace returns a view of the cache whose keys are prefixed with prefix.
// Calls can be chained: c.Namespace("github:").Namespace("readme:").
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		backend: c.backend,
		ttl:     c.ttl,
		prefix:  c.prefix + prefix,
	}
}
