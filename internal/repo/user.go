package repo

import (
	"context"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

const userResource = "user"

// CachedUserStore decorates a store.UserStore with cache-aside reads and
// write-through invalidation. Users are cached under two point keys (by
// id and by username) that are kept in lockstep by the fan-out.
type CachedUserStore struct {
	next store.UserStore
	c    cache.Cache
	pub  Publisher
	ttl  TTLConfig
}

var _ store.UserStore = (*CachedUserStore)(nil)

// NewCachedUserStore wraps next with the caching layer.
func NewCachedUserStore(next store.UserStore, c cache.Cache, pub Publisher, ttl TTLConfig) *CachedUserStore {
	return &CachedUserStore{next: next, c: c, pub: pub, ttl: ttl.normalized()}
}

func (r *CachedUserStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return readThrough(ctx, r.c, userResource, userIDKey(id), r.ttl.Entity, store.ErrUserNotFound,
		func(ctx context.Context) (*domain.User, error) {
			return r.next.GetUser(ctx, id)
		})
}

// GetUserByUsername caches absence too: registration flows probe free
// usernames far more often than they hit existing ones.
func (r *CachedUserStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return readThrough(ctx, r.c, userResource, userNameKey(username), r.ttl.Entity, store.ErrUserNotFound,
		func(ctx context.Context) (*domain.User, error) {
			return r.next.GetUserByUsername(ctx, username)
		})
}

func (r *CachedUserStore) GetUserStats(ctx context.Context, id string) (*domain.UserStats, error) {
	return readThrough(ctx, r.c, userResource, userStatsKey(id), r.ttl.List, nil,
		func(ctx context.Context) (*domain.UserStats, error) {
			return r.next.GetUserStats(ctx, id)
		})
}

// CreateUser strikes the point keys so a previously cached "confirmed
// absent" entry for this id or username cannot shadow the new account.
func (r *CachedUserStore) CreateUser(ctx context.Context, user *domain.User) error {
	if err := r.next.CreateUser(ctx, user); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, userResource, invalidation{
		keys: []string{userIDKey(user.ID), userNameKey(user.Username)},
	})
	return nil
}

func (r *CachedUserStore) UpdateUser(ctx context.Context, id string, update *store.UserUpdate) (*domain.User, error) {
	user, err := r.next.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.c, r.pub, userResource, invalidation{
		keys: []string{
			userIDKey(id),
			userNameKey(user.Username),
			userStatsKey(id),
		},
		// Profile changes surface in everyone's suggestions.
		patterns: []string{suggestionsPattern()},
	})
	return user, nil
}

// DeleteUser reads the account from the store first to learn its
// username, then deletes and fans out. The store cascades the user's
// follows, likes, and retweets; their per-pair cache entries are left to
// expire by TTL, while every timeline is struck because any of them may
// embed the deleted account's tweets.
func (r *CachedUserStore) DeleteUser(ctx context.Context, id string) error {
	user, err := r.next.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := r.next.DeleteUser(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, r.c, r.pub, userResource, invalidation{
		keys: []string{
			userIDKey(id),
			userNameKey(user.Username),
			userStatsKey(id),
		},
		patterns: []string{
			suggestionsPattern(),
			allTimelinesPattern(),
		},
	})
	return nil
}
