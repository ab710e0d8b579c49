// Package cache provides byte-level cache backends shared by the GitHub
// client and the project runner.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for CLI use
//   - [RedisCache]: a Redis server, for the HTTP server and shared deployments
//   - [NullCache]: never stores anything, for --no-cache and tests
//
// Keys are produced by a [Keyer] so that every component namespaces its
// entries the same way.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
// A TTL of zero means the entry does not expire.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
