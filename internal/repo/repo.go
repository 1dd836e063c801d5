// Package repo wraps the authoritative store with cache-aside reads and
// write-through invalidation. One decorator exists per relationship type
// (Like, Follow, Retweet) plus User and the aggregate tier; each holds a
// plain store interface and a cache.Cache as injected dependencies.
//
// The contract, uniformly applied:
//
//   - Reads compute a key, consult the cache, and fall through to the
//     store on miss or on any cache error. There is exactly one
//     implementation of each real query — the store fetch closure — so
//     the cached and uncached paths cannot drift.
//   - Writes hit the store first, then strike every key whose value the
//     mutation could have changed, concurrently. A failed strike is
//     logged and counted, never surfaced: the TTL bounds the staleness.
//   - Point entities cache confirmed absence (a tagged envelope), so a
//     repeated lookup of a missing row short-circuits the store. Counts
//     and lists always cache, including zero and empty.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/logging"
	"github.com/finch-social/finch/internal/metrics"
)

// TTLConfig holds the cache TTL tiers.
type TTLConfig struct {
	Entity    time.Duration // point entities and pair states
	List      time.Duration // counts, lists, stats
	Aggregate time.Duration // trending, timelines, suggestions
}

// DefaultTTLs returns the standard tiering.
func DefaultTTLs() TTLConfig {
	return TTLConfig{
		Entity:    15 * time.Minute,
		List:      5 * time.Minute,
		Aggregate: 60 * time.Second,
	}
}

func (t TTLConfig) normalized() TTLConfig {
	d := DefaultTTLs()
	if t.Entity <= 0 {
		t.Entity = d.Entity
	}
	if t.List <= 0 {
		t.List = d.List
	}
	if t.Aggregate <= 0 {
		t.Aggregate = d.Aggregate
	}
	return t
}

// Publisher broadcasts struck keys to other instances (see
// cache.Invalidator). Optional; nil disables publication.
type Publisher interface {
	PublishKey(ctx context.Context, key string) error
	PublishPattern(ctx context.Context, pattern string) error
}

// envelope tags cached values so a cached "confirmed absent" is
// distinguishable from a cache miss, and falsy-but-valid values (zero
// counts, empty lists) round-trip without being mistaken for misses.
type envelope struct {
	Found bool            `json:"found"`
	Value json.RawMessage `json:"value,omitempty"`
}

// readThrough is the single cache-aside read path. notFound, when
// non-nil, is the store sentinel whose occurrence is cached as a
// negative entry; pass nil to leave negative results uncached.
func readThrough[T any](ctx context.Context, c cache.Cache, resource, key string, ttl time.Duration, notFound error, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	data, err := c.Get(ctx, key)
	if err == nil {
		var env envelope
		if uerr := json.Unmarshal(data, &env); uerr == nil {
			if !env.Found {
				metrics.CacheHit(resource)
				return zero, notFound
			}
			var v T
			if uerr := json.Unmarshal(env.Value, &v); uerr == nil {
				metrics.CacheHit(resource)
				return v, nil
			}
		}
		// Corrupt entry; treat as a miss and overwrite below.
		metrics.CacheError(resource)
	} else if errors.Is(err, cache.ErrNotFound) {
		metrics.CacheMiss(resource)
	} else {
		metrics.CacheError(resource)
		logging.Op().Warn("cache get failed, falling back to store", "key", key, "error", err)
	}

	start := time.Now()
	v, err := fetch(ctx)
	metrics.ObserveStore(resource, time.Since(start))
	if err != nil {
		if notFound != nil && errors.Is(err, notFound) {
			cacheSet(ctx, c, resource, key, envelope{Found: false}, ttl)
		}
		return zero, err
	}

	raw, merr := json.Marshal(v)
	if merr != nil {
		logging.Op().Warn("cache value not serializable", "key", key, "error", merr)
		return v, nil
	}
	cacheSet(ctx, c, resource, key, envelope{Found: true, Value: raw}, ttl)
	return v, nil
}

// cacheSet is best-effort: a failed set degrades to an uncached read.
func cacheSet(ctx context.Context, c cache.Cache, resource, key string, env envelope, ttl time.Duration) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		metrics.CacheError(resource)
		logging.Op().Warn("cache set failed", "key", key, "error", err)
	}
}

// invalidation is the key set a single mutation fans out over.
type invalidation struct {
	keys     []string
	patterns []string
}

// invalidate strikes all keys and patterns concurrently, after the store
// mutation has committed. Deletions are idempotent so their relative
// order is irrelevant; the group waits for all of them to bound the
// stale window. Failures are logged, counted, and dropped — the entries
// self-correct when their TTL expires.
func invalidate(ctx context.Context, c cache.Cache, pub Publisher, resource string, inv invalidation) {
	var g errgroup.Group

	for _, key := range inv.keys {
		g.Go(func() error {
			if err := c.Delete(ctx, key); err != nil {
				metrics.InvalidationError(resource)
				logging.Op().Warn("cache invalidation failed", "resource", resource, "key", key, "error", err)
				return nil
			}
			if pub != nil {
				_ = pub.PublishKey(ctx, key)
			}
			return nil
		})
	}
	for _, pattern := range inv.patterns {
		g.Go(func() error {
			if err := c.DeletePattern(ctx, pattern); err != nil {
				metrics.InvalidationError(resource)
				logging.Op().Warn("cache invalidation failed", "resource", resource, "pattern", pattern, "error", err)
				return nil
			}
			if pub != nil {
				_ = pub.PublishPattern(ctx, pattern)
			}
			return nil
		})
	}

	_ = g.Wait()
	metrics.Invalidations(resource, len(inv.keys)+len(inv.patterns))
}
