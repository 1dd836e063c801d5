package repo

import (
	"context"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

const likeResource = "like"

// CachedLikeStore decorates a store.LikeStore with cache-aside reads and
// write-through invalidation.
type CachedLikeStore struct {
	next store.LikeStore
	c    cache.Cache
	pub  Publisher
	ttl  TTLConfig
}

var _ store.LikeStore = (*CachedLikeStore)(nil)

// NewCachedLikeStore wraps next with the caching layer.
func NewCachedLikeStore(next store.LikeStore, c cache.Cache, pub Publisher, ttl TTLConfig) *CachedLikeStore {
	return &CachedLikeStore{next: next, c: c, pub: pub, ttl: ttl.normalized()}
}

// GetLike is the point lookup backing the like toggle. Absence is cached
// explicitly so repeated "is this liked?" checks of an unliked tweet
// never touch the store.
func (r *CachedLikeStore) GetLike(ctx context.Context, userID, tweetID string) (*domain.Like, error) {
	return readThrough(ctx, r.c, likeResource, likeStateKey(userID, tweetID), r.ttl.Entity, store.ErrLikeNotFound,
		func(ctx context.Context) (*domain.Like, error) {
			return r.next.GetLike(ctx, userID, tweetID)
		})
}

// GetLikeByID always reads the store: it exists to serve deletes, which
// need the freshest relationship data (see DeleteLikeByID).
func (r *CachedLikeStore) GetLikeByID(ctx context.Context, id string) (*domain.Like, error) {
	return r.next.GetLikeByID(ctx, id)
}

func (r *CachedLikeStore) CountLikesByTweet(ctx context.Context, tweetID string) (int64, error) {
	return readThrough(ctx, r.c, likeResource, likeCountKey(tweetID), r.ttl.List, nil,
		func(ctx context.Context) (int64, error) {
			return r.next.CountLikesByTweet(ctx, tweetID)
		})
}

func (r *CachedLikeStore) ListUserLikes(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.Tweet, error) {
	return readThrough(ctx, r.c, likeResource, likeListKey(userID, opts), r.ttl.List, nil,
		func(ctx context.Context) ([]*domain.Tweet, error) {
			return r.next.ListUserLikes(ctx, userID, opts)
		})
}

func (r *CachedLikeStore) CreateLike(ctx context.Context, like *domain.Like) error {
	if err := r.next.CreateLike(ctx, like); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, likeResource, r.fanout(like.UserID, like.TweetID))
	return nil
}

func (r *CachedLikeStore) DeleteLike(ctx context.Context, userID, tweetID string) error {
	if err := r.next.DeleteLike(ctx, userID, tweetID); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, likeResource, r.fanout(userID, tweetID))
	return nil
}

// DeleteLikeByID learns the (user, tweet) pair from the store — not the
// cache — immediately before deleting, so the fan-out uses the freshest
// relationship data.
func (r *CachedLikeStore) DeleteLikeByID(ctx context.Context, id string) error {
	like, err := r.next.GetLikeByID(ctx, id)
	if err != nil {
		return err
	}
	return r.DeleteLike(ctx, like.UserID, like.TweetID)
}

// fanout is the full key set a like mutation can affect: the pair state,
// the tweet's like count, every option-variant of the user's likes list,
// the tweet's own cached document (it embeds likes_count), the user's
// stats row (it embeds like_count), and the engagement aggregates whose
// ranking could shift.
func (r *CachedLikeStore) fanout(userID, tweetID string) invalidation {
	return invalidation{
		keys: []string{
			likeStateKey(userID, tweetID),
			likeCountKey(tweetID),
			tweetKey(tweetID),
			userStatsKey(userID),
		},
		patterns: []string{
			likeListPattern(userID),
			trendingPattern(),
			mostLikedPattern(),
		},
	}
}
