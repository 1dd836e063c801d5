// Package store defines the authoritative persistence layer for the
// social graph. The Postgres implementation is the single source of
// truth; the cached decorators in internal/repo wrap these interfaces
// and are free to drop their projections at any time.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/finch-social/finch/internal/domain"
)

// ListOptions controls pagination and ordering of list reads. The zero
// value means "store defaults" (newest first, DefaultListLimit rows).
type ListOptions struct {
	Limit  int
	Offset int
	Sort   string // "newest" (default) or "oldest"
}

// DefaultListLimit bounds unpaginated list reads.
const DefaultListLimit = 50

// Normalize returns a copy with defaults applied. Cache key digests are
// computed from the normalized form so that {} and {Limit:50} share an
// entry.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 || o.Limit > 200 {
		o.Limit = DefaultListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.Sort != "oldest" {
		o.Sort = "newest"
	}
	return o
}

// Canonical returns the deterministic serialization used for cache key
// digests.
func (o ListOptions) Canonical() string {
	n := o.Normalize()
	return fmt.Sprintf("limit=%d&offset=%d&sort=%s", n.Limit, n.Offset, n.Sort)
}

func (o ListOptions) orderBy(column string) string {
	if o.Normalize().Sort == "oldest" {
		return column + " ASC"
	}
	return column + " DESC"
}

// UserUpdate contains optional fields for updating a user. Nil fields are
// left untouched.
type UserUpdate struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	Email       *string
	Password    *string // pre-hashed by the auth layer
	Confirmed   *bool
	Deactivated *bool
	ResetToken  *string
	ResetExpiry *time.Time
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, update *UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	GetUserStats(ctx context.Context, id string) (*domain.UserStats, error)
}

// TweetStore persists posts. Tweets are not wrapped by a cached
// decorator of their own; the tweet:<id> cache entry is owned by the
// like/retweet decorators that invalidate it.
type TweetStore interface {
	CreateTweet(ctx context.Context, tweet *domain.Tweet) error
	GetTweet(ctx context.Context, id string) (*domain.Tweet, error)
	UpdateTweetContent(ctx context.Context, id, content string) (*domain.Tweet, error)
	DeleteTweet(ctx context.Context, id string) error
	ListTweetsByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]*domain.Tweet, error)
}

// FollowStore persists the follower graph.
type FollowStore interface {
	CreateFollow(ctx context.Context, follow *domain.Follow) error
	GetFollow(ctx context.Context, followerID, followeeID string) (*domain.Follow, error)
	GetFollowByID(ctx context.Context, id string) (*domain.Follow, error)
	DeleteFollow(ctx context.Context, followerID, followeeID string) error
	ListFollowers(ctx context.Context, userID string, opts ListOptions) ([]*domain.User, error)
	ListFollowing(ctx context.Context, userID string, opts ListOptions) ([]*domain.User, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

// LikeStore persists likes and maintains the denormalized likes_count on
// the liked tweet within the same transaction.
type LikeStore interface {
	CreateLike(ctx context.Context, like *domain.Like) error
	GetLike(ctx context.Context, userID, tweetID string) (*domain.Like, error)
	GetLikeByID(ctx context.Context, id string) (*domain.Like, error)
	DeleteLike(ctx context.Context, userID, tweetID string) error
	ListUserLikes(ctx context.Context, userID string, opts ListOptions) ([]*domain.Tweet, error)
	CountLikesByTweet(ctx context.Context, tweetID string) (int64, error)
}

// RetweetStore persists retweets and maintains the denormalized
// retweets_count on the retweeted tweet within the same transaction.
type RetweetStore interface {
	CreateRetweet(ctx context.Context, retweet *domain.Retweet) error
	GetRetweet(ctx context.Context, userID, tweetID string) (*domain.Retweet, error)
	GetRetweetByID(ctx context.Context, id string) (*domain.Retweet, error)
	DeleteRetweet(ctx context.Context, userID, tweetID string) error
	ListUserRetweets(ctx context.Context, userID string, opts ListOptions) ([]*domain.Retweet, error)
	CountRetweetsByTweet(ctx context.Context, tweetID string) (int64, error)
}

// AggregateStore exposes the read-only multi-collection queries. These
// are served from the short-TTL cache tier and never point-invalidated
// beyond the pattern deletes in the fan-out tables.
type AggregateStore interface {
	TrendingTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error)
	MostLikedTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error)
	MostRetweetedTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error)
	MutualFollowers(ctx context.Context, userA, userB string, opts ListOptions) ([]*domain.User, error)
	FollowSuggestions(ctx context.Context, userID string, opts ListOptions) ([]*domain.User, error)
	HomeTimeline(ctx context.Context, userID string, opts ListOptions) ([]*domain.Tweet, error)
}

// Store is the full authoritative store surface.
type Store interface {
	UserStore
	TweetStore
	FollowStore
	LikeStore
	RetweetStore
	AggregateStore

	Ping(ctx context.Context) error
	Close() error
}
