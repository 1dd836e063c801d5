// Package cache defines the key-value cache consumed by the cached
// repositories in internal/repo. Implementations may use in-memory maps
// (default, tests) or Redis. The interface carries byte slices, leaving
// encoding to the caller.
//
// The cache is a disposable projection of the authoritative store: every
// implementation error is recoverable by falling through to the store,
// and callers are expected to treat failures as misses.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in the cache.
// A missing key is a miss, never a failure.
var ErrNotFound = errors.New("cache: key not found")

// Cache abstracts a key-value cache with TTL support.
// All operations are safe for concurrent use.
type Cache interface {
	// Get retrieves the value associated with key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL means the entry
	// does not expire (or uses the implementation's default expiration).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys from the cache. It is not an error to delete
	// a key that does not exist.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	// (e.g. "timeline:u1:*"). Patterns are only ever used for bulk
	// invalidation, never for point reads.
	DeletePattern(ctx context.Context, pattern string) error

	// Exists reports whether the key exists and has not expired.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies connectivity to the underlying cache backend.
	Ping(ctx context.Context) error

	// Close releases all resources held by the cache implementation.
	Close() error
}
