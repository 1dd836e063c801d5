package repo

import (
	"context"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

const retweetResource = "retweet"

// CachedRetweetStore decorates a store.RetweetStore with cache-aside
// reads and write-through invalidation.
type CachedRetweetStore struct {
	next store.RetweetStore
	c    cache.Cache
	pub  Publisher
	ttl  TTLConfig
}

var _ store.RetweetStore = (*CachedRetweetStore)(nil)

// NewCachedRetweetStore wraps next with the caching layer.
func NewCachedRetweetStore(next store.RetweetStore, c cache.Cache, pub Publisher, ttl TTLConfig) *CachedRetweetStore {
	return &CachedRetweetStore{next: next, c: c, pub: pub, ttl: ttl.normalized()}
}

// GetRetweet is the point lookup backing the retweet toggle; absence is
// cached explicitly.
func (r *CachedRetweetStore) GetRetweet(ctx context.Context, userID, tweetID string) (*domain.Retweet, error) {
	return readThrough(ctx, r.c, retweetResource, retweetStateKey(userID, tweetID), r.ttl.Entity, store.ErrRetweetNotFound,
		func(ctx context.Context) (*domain.Retweet, error) {
			return r.next.GetRetweet(ctx, userID, tweetID)
		})
}

// GetRetweetByID always reads the store; it serves DeleteRetweetByID.
func (r *CachedRetweetStore) GetRetweetByID(ctx context.Context, id string) (*domain.Retweet, error) {
	return r.next.GetRetweetByID(ctx, id)
}

func (r *CachedRetweetStore) CountRetweetsByTweet(ctx context.Context, tweetID string) (int64, error) {
	return readThrough(ctx, r.c, retweetResource, retweetCountKey(tweetID), r.ttl.List, nil,
		func(ctx context.Context) (int64, error) {
			return r.next.CountRetweetsByTweet(ctx, tweetID)
		})
}

func (r *CachedRetweetStore) ListUserRetweets(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.Retweet, error) {
	return readThrough(ctx, r.c, retweetResource, retweetListKey(userID, opts), r.ttl.List, nil,
		func(ctx context.Context) ([]*domain.Retweet, error) {
			return r.next.ListUserRetweets(ctx, userID, opts)
		})
}

func (r *CachedRetweetStore) CreateRetweet(ctx context.Context, retweet *domain.Retweet) error {
	if err := r.next.CreateRetweet(ctx, retweet); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, retweetResource, r.fanout(retweet.UserID, retweet.TweetID))
	return nil
}

func (r *CachedRetweetStore) DeleteRetweet(ctx context.Context, userID, tweetID string) error {
	if err := r.next.DeleteRetweet(ctx, userID, tweetID); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, retweetResource, r.fanout(userID, tweetID))
	return nil
}

// DeleteRetweetByID learns the (user, tweet) pair from the store — not
// the cache — immediately before deleting.
func (r *CachedRetweetStore) DeleteRetweetByID(ctx context.Context, id string) error {
	retweet, err := r.next.GetRetweetByID(ctx, id)
	if err != nil {
		return err
	}
	return r.DeleteRetweet(ctx, retweet.UserID, retweet.TweetID)
}

// fanout covers the pair state, the tweet's retweet count and cached
// document, the user's stats row (it embeds retweet_count), the user's
// retweet list variants, the engagement aggregates, and the retweeting
// user's own timeline (retweets surface there).
func (r *CachedRetweetStore) fanout(userID, tweetID string) invalidation {
	return invalidation{
		keys: []string{
			retweetStateKey(userID, tweetID),
			retweetCountKey(tweetID),
			tweetKey(tweetID),
			userStatsKey(userID),
		},
		patterns: []string{
			retweetListPattern(userID),
			trendingPattern(),
			mostRetweetedPattern(),
			timelinePattern(userID),
		},
	}
}
