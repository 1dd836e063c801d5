package repo

import (
	"context"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

const followResource = "follow"

// CachedFollowStore decorates a store.FollowStore with cache-aside reads
// and write-through invalidation. Follow mutations touch both endpoints
// of the edge: the follower's "following" projections and the followee's
// "followers" projections.
type CachedFollowStore struct {
	next store.FollowStore
	c    cache.Cache
	pub  Publisher
	ttl  TTLConfig
}

var _ store.FollowStore = (*CachedFollowStore)(nil)

// NewCachedFollowStore wraps next with the caching layer.
func NewCachedFollowStore(next store.FollowStore, c cache.Cache, pub Publisher, ttl TTLConfig) *CachedFollowStore {
	return &CachedFollowStore{next: next, c: c, pub: pub, ttl: ttl.normalized()}
}

// GetFollow is the point lookup backing the follow toggle; absence is
// cached explicitly.
func (r *CachedFollowStore) GetFollow(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	return readThrough(ctx, r.c, followResource, followStateKey(followerID, followeeID), r.ttl.Entity, store.ErrFollowNotFound,
		func(ctx context.Context) (*domain.Follow, error) {
			return r.next.GetFollow(ctx, followerID, followeeID)
		})
}

// GetFollowByID always reads the store; it serves DeleteFollowByID.
func (r *CachedFollowStore) GetFollowByID(ctx context.Context, id string) (*domain.Follow, error) {
	return r.next.GetFollowByID(ctx, id)
}

func (r *CachedFollowStore) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return readThrough(ctx, r.c, followResource, followersCountKey(userID), r.ttl.List, nil,
		func(ctx context.Context) (int64, error) {
			return r.next.CountFollowers(ctx, userID)
		})
}

func (r *CachedFollowStore) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return readThrough(ctx, r.c, followResource, followingCountKey(userID), r.ttl.List, nil,
		func(ctx context.Context) (int64, error) {
			return r.next.CountFollowing(ctx, userID)
		})
}

func (r *CachedFollowStore) ListFollowers(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.User, error) {
	return readThrough(ctx, r.c, followResource, followersListKey(userID, opts), r.ttl.List, nil,
		func(ctx context.Context) ([]*domain.User, error) {
			return r.next.ListFollowers(ctx, userID, opts)
		})
}

func (r *CachedFollowStore) ListFollowing(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.User, error) {
	return readThrough(ctx, r.c, followResource, followingListKey(userID, opts), r.ttl.List, nil,
		func(ctx context.Context) ([]*domain.User, error) {
			return r.next.ListFollowing(ctx, userID, opts)
		})
}

func (r *CachedFollowStore) CreateFollow(ctx context.Context, follow *domain.Follow) error {
	if err := r.next.CreateFollow(ctx, follow); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, followResource, r.fanout(follow.FollowerID, follow.FolloweeID))
	return nil
}

func (r *CachedFollowStore) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	if err := r.next.DeleteFollow(ctx, followerID, followeeID); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, followResource, r.fanout(followerID, followeeID))
	return nil
}

// DeleteFollowByID learns the edge's endpoints from the store — not the
// cache — immediately before deleting.
func (r *CachedFollowStore) DeleteFollowByID(ctx context.Context, id string) error {
	follow, err := r.next.GetFollowByID(ctx, id)
	if err != nil {
		return err
	}
	return r.DeleteFollow(ctx, follow.FollowerID, follow.FolloweeID)
}

// fanout strikes both endpoints: the pair state, both direction counts,
// every option-variant of both lists, both users' stats, and the
// follower's timeline (whose content is a function of who they follow).
func (r *CachedFollowStore) fanout(followerID, followeeID string) invalidation {
	return invalidation{
		keys: []string{
			followStateKey(followerID, followeeID),
			followersCountKey(followeeID),
			followingCountKey(followerID),
			userStatsKey(followerID),
			userStatsKey(followeeID),
		},
		patterns: []string{
			followersListPattern(followeeID),
			followingListPattern(followerID),
			timelinePattern(followerID),
		},
	}
}
