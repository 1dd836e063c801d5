package repo

import (
	"context"
	"time"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

const aggregateResource = "aggregate"

// CachedAggregateStore serves the multi-collection read-only queries
// from the short-TTL tier. Unlike entity state, these are not precisely
// invalidated: a rank shift from any single like is rarely worth a
// recompute, so the engagement lists rely on their short TTL plus the
// coarse pattern strikes in the like/retweet fan-outs.
type CachedAggregateStore struct {
	next store.AggregateStore
	c    cache.Cache
	ttl  TTLConfig
}

var _ store.AggregateStore = (*CachedAggregateStore)(nil)

// NewCachedAggregateStore wraps next with the short-TTL cache tier.
func NewCachedAggregateStore(next store.AggregateStore, c cache.Cache, ttl TTLConfig) *CachedAggregateStore {
	return &CachedAggregateStore{next: next, c: c, ttl: ttl.normalized()}
}

func (r *CachedAggregateStore) TrendingTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	return readThrough(ctx, r.c, aggregateResource, trendingKey(limit, window), r.ttl.Aggregate, nil,
		func(ctx context.Context) ([]*domain.Tweet, error) {
			return r.next.TrendingTweets(ctx, limit, window)
		})
}

func (r *CachedAggregateStore) MostLikedTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	return readThrough(ctx, r.c, aggregateResource, mostLikedKey(limit, window), r.ttl.Aggregate, nil,
		func(ctx context.Context) ([]*domain.Tweet, error) {
			return r.next.MostLikedTweets(ctx, limit, window)
		})
}

func (r *CachedAggregateStore) MostRetweetedTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	return readThrough(ctx, r.c, aggregateResource, mostRetweetedKey(limit, window), r.ttl.Aggregate, nil,
		func(ctx context.Context) ([]*domain.Tweet, error) {
			return r.next.MostRetweetedTweets(ctx, limit, window)
		})
}

// MutualFollowers is a plain read-only query; it is cheap enough and
// rare enough that caching it buys nothing.
func (r *CachedAggregateStore) MutualFollowers(ctx context.Context, userA, userB string, opts store.ListOptions) ([]*domain.User, error) {
	return r.next.MutualFollowers(ctx, userA, userB, opts)
}

func (r *CachedAggregateStore) FollowSuggestions(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.User, error) {
	return readThrough(ctx, r.c, aggregateResource, suggestionsKey(userID, opts), r.ttl.Aggregate, nil,
		func(ctx context.Context) ([]*domain.User, error) {
			return r.next.FollowSuggestions(ctx, userID, opts)
		})
}

func (r *CachedAggregateStore) HomeTimeline(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.Tweet, error) {
	return readThrough(ctx, r.c, aggregateResource, timelineKey(userID, opts), r.ttl.Aggregate, nil,
		func(ctx context.Context) ([]*domain.Tweet, error) {
			return r.next.HomeTimeline(ctx, userID, opts)
		})
}
