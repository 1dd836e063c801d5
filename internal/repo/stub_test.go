package repo

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

// The stubs embed the store interface they implement so that any method
// a test does not expect to be called panics if exercised.

type stubLikeStore struct {
	store.LikeStore

	getCalls    atomic.Int64
	countCalls  atomic.Int64
	listCalls   atomic.Int64
	createCalls atomic.Int64
	deleteCalls atomic.Int64

	like  *domain.Like // nil means absent
	count int64
	list  []*domain.Tweet
}

func (s *stubLikeStore) GetLike(_ context.Context, _, _ string) (*domain.Like, error) {
	s.getCalls.Add(1)
	if s.like == nil {
		return nil, store.ErrLikeNotFound
	}
	return s.like, nil
}

func (s *stubLikeStore) GetLikeByID(_ context.Context, _ string) (*domain.Like, error) {
	if s.like == nil {
		return nil, store.ErrLikeNotFound
	}
	return s.like, nil
}

func (s *stubLikeStore) CountLikesByTweet(_ context.Context, _ string) (int64, error) {
	s.countCalls.Add(1)
	return s.count, nil
}

func (s *stubLikeStore) ListUserLikes(_ context.Context, _ string, _ store.ListOptions) ([]*domain.Tweet, error) {
	s.listCalls.Add(1)
	return s.list, nil
}

func (s *stubLikeStore) CreateLike(_ context.Context, like *domain.Like) error {
	s.createCalls.Add(1)
	s.like = like
	return nil
}

func (s *stubLikeStore) DeleteLike(_ context.Context, _, _ string) error {
	s.deleteCalls.Add(1)
	if s.like == nil {
		return store.ErrLikeNotFound
	}
	s.like = nil
	return nil
}

type stubFollowStore struct {
	store.FollowStore

	getCalls           atomic.Int64
	followersCntCalls  atomic.Int64
	followingCntCalls  atomic.Int64
	listFollowerCalls  atomic.Int64
	listFollowingCalls atomic.Int64

	follow    *domain.Follow
	followers int64
	following int64
	users     []*domain.User
}

func (s *stubFollowStore) GetFollow(_ context.Context, _, _ string) (*domain.Follow, error) {
	s.getCalls.Add(1)
	if s.follow == nil {
		return nil, store.ErrFollowNotFound
	}
	return s.follow, nil
}

func (s *stubFollowStore) CountFollowers(_ context.Context, _ string) (int64, error) {
	s.followersCntCalls.Add(1)
	return s.followers, nil
}

func (s *stubFollowStore) CountFollowing(_ context.Context, _ string) (int64, error) {
	s.followingCntCalls.Add(1)
	return s.following, nil
}

func (s *stubFollowStore) ListFollowers(_ context.Context, _ string, _ store.ListOptions) ([]*domain.User, error) {
	s.listFollowerCalls.Add(1)
	return s.users, nil
}

func (s *stubFollowStore) ListFollowing(_ context.Context, _ string, _ store.ListOptions) ([]*domain.User, error) {
	s.listFollowingCalls.Add(1)
	return s.users, nil
}

func (s *stubFollowStore) CreateFollow(_ context.Context, follow *domain.Follow) error {
	s.follow = follow
	return nil
}

func (s *stubFollowStore) DeleteFollow(_ context.Context, _, _ string) error {
	if s.follow == nil {
		return store.ErrFollowNotFound
	}
	s.follow = nil
	return nil
}

type stubRetweetStore struct {
	store.RetweetStore

	getCalls   atomic.Int64
	countCalls atomic.Int64

	retweet *domain.Retweet
	count   int64
}

func (s *stubRetweetStore) GetRetweet(_ context.Context, _, _ string) (*domain.Retweet, error) {
	s.getCalls.Add(1)
	if s.retweet == nil {
		return nil, store.ErrRetweetNotFound
	}
	return s.retweet, nil
}

func (s *stubRetweetStore) GetRetweetByID(_ context.Context, _ string) (*domain.Retweet, error) {
	if s.retweet == nil {
		return nil, store.ErrRetweetNotFound
	}
	return s.retweet, nil
}

func (s *stubRetweetStore) CountRetweetsByTweet(_ context.Context, _ string) (int64, error) {
	s.countCalls.Add(1)
	return s.count, nil
}

func (s *stubRetweetStore) CreateRetweet(_ context.Context, retweet *domain.Retweet) error {
	s.retweet = retweet
	return nil
}

func (s *stubRetweetStore) DeleteRetweet(_ context.Context, _, _ string) error {
	if s.retweet == nil {
		return store.ErrRetweetNotFound
	}
	s.retweet = nil
	return nil
}

type stubUserStore struct {
	store.UserStore

	getCalls    atomic.Int64
	byNameCalls atomic.Int64
	statsCalls  atomic.Int64

	user  *domain.User
	stats *domain.UserStats
}

func (s *stubUserStore) GetUser(_ context.Context, _ string) (*domain.User, error) {
	s.getCalls.Add(1)
	if s.user == nil {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) GetUserByUsername(_ context.Context, _ string) (*domain.User, error) {
	s.byNameCalls.Add(1)
	if s.user == nil {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) GetUserStats(_ context.Context, _ string) (*domain.UserStats, error) {
	s.statsCalls.Add(1)
	return s.stats, nil
}

func (s *stubUserStore) CreateUser(_ context.Context, user *domain.User) error {
	s.user = user
	return nil
}

func (s *stubUserStore) UpdateUser(_ context.Context, _ string, _ *store.UserUpdate) (*domain.User, error) {
	if s.user == nil {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) DeleteUser(_ context.Context, _ string) error {
	if s.user == nil {
		return store.ErrUserNotFound
	}
	s.user = nil
	return nil
}

type stubTweetStore struct {
	store.TweetStore

	getCalls atomic.Int64

	tweet *domain.Tweet
}

func (s *stubTweetStore) GetTweet(_ context.Context, _ string) (*domain.Tweet, error) {
	s.getCalls.Add(1)
	if s.tweet == nil {
		return nil, store.ErrTweetNotFound
	}
	return s.tweet, nil
}

func (s *stubTweetStore) CreateTweet(_ context.Context, tweet *domain.Tweet) error {
	s.tweet = tweet
	return nil
}

func (s *stubTweetStore) DeleteTweet(_ context.Context, _ string) error {
	s.tweet = nil
	return nil
}

// errCache fails every operation. Used to assert that a dead cache
// degrades reads to the store instead of failing them.
type errCache struct{}

var errCacheDown = errors.New("cache down")

func (errCache) Get(_ context.Context, _ string) ([]byte, error) { return nil, errCacheDown }
func (errCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return errCacheDown
}
func (errCache) Delete(_ context.Context, _ ...string) error       { return errCacheDown }
func (errCache) DeletePattern(_ context.Context, _ string) error   { return errCacheDown }
func (errCache) Exists(_ context.Context, _ string) (bool, error)  { return false, errCacheDown }
func (errCache) Ping(_ context.Context) error                      { return errCacheDown }
func (errCache) Close() error                                      { return nil }

var _ cache.Cache = errCache{}
