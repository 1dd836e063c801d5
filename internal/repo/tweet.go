package repo

import (
	"context"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

const tweetResource = "tweet"

// CachedTweetStore decorates a store.TweetStore. Only the point read is
// cached; author lists go straight to the store. The tweet:<id> entry it
// populates embeds the denormalized counters, which is why the like and
// retweet fan-outs strike it on every toggle.
type CachedTweetStore struct {
	next store.TweetStore
	c    cache.Cache
	pub  Publisher
	ttl  TTLConfig
}

var _ store.TweetStore = (*CachedTweetStore)(nil)

// NewCachedTweetStore wraps next with the caching layer.
func NewCachedTweetStore(next store.TweetStore, c cache.Cache, pub Publisher, ttl TTLConfig) *CachedTweetStore {
	return &CachedTweetStore{next: next, c: c, pub: pub, ttl: ttl.normalized()}
}

func (r *CachedTweetStore) GetTweet(ctx context.Context, id string) (*domain.Tweet, error) {
	return readThrough(ctx, r.c, tweetResource, tweetKey(id), r.ttl.Entity, store.ErrTweetNotFound,
		func(ctx context.Context) (*domain.Tweet, error) {
			return r.next.GetTweet(ctx, id)
		})
}

func (r *CachedTweetStore) ListTweetsByAuthor(ctx context.Context, authorID string, opts store.ListOptions) ([]*domain.Tweet, error) {
	return r.next.ListTweetsByAuthor(ctx, authorID, opts)
}

func (r *CachedTweetStore) CreateTweet(ctx context.Context, tweet *domain.Tweet) error {
	if err := r.next.CreateTweet(ctx, tweet); err != nil {
		return err
	}
	inv := invalidation{
		// The author's stats row embeds tweet_count.
		keys:     []string{tweetKey(tweet.ID), userStatsKey(tweet.AuthorID)},
		patterns: []string{timelinePattern(tweet.AuthorID)},
	}
	// A reply bumps the parent's replies_count.
	if tweet.ParentTweetID != "" {
		inv.keys = append(inv.keys, tweetKey(tweet.ParentTweetID))
	}
	invalidate(ctx, r.c, r.pub, tweetResource, inv)
	return nil
}

func (r *CachedTweetStore) UpdateTweetContent(ctx context.Context, id, content string) (*domain.Tweet, error) {
	tweet, err := r.next.UpdateTweetContent(ctx, id, content)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.c, r.pub, tweetResource, invalidation{
		keys:     []string{tweetKey(id)},
		patterns: []string{allTimelinesPattern()},
	})
	return tweet, nil
}

// DeleteTweet learns the author from the store — not the cache —
// immediately before deleting, so the stats strike uses the freshest
// ownership data.
func (r *CachedTweetStore) DeleteTweet(ctx context.Context, id string) error {
	tweet, err := r.next.GetTweet(ctx, id)
	if err != nil {
		return err
	}
	if err := r.next.DeleteTweet(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, tweetResource, invalidation{
		keys: []string{tweetKey(id), userStatsKey(tweet.AuthorID)},
		patterns: []string{
			allTimelinesPattern(),
			trendingPattern(),
			mostLikedPattern(),
			mostRetweetedPattern(),
		},
	})
	return nil
}
