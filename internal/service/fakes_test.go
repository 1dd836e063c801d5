package service

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

// In-memory fakes backing the service tests. They model the store
// invariants that matter here: unique pairs surface the duplicate
// sentinels, deletes of missing rows surface not-found. Embedding the
// interface makes any unexpected call panic.

type fakeUserStore struct {
	store.UserStore

	calls atomic.Int64
	users map[string]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *domain.User) error {
	f.calls.Add(1)
	for _, u := range f.users {
		if u.Username == user.Username {
			return store.ErrDuplicateUsername
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	f.calls.Add(1)
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	f.calls.Add(1)
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) UpdateUser(_ context.Context, id string, update *store.UserUpdate) (*domain.User, error) {
	f.calls.Add(1)
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	if update.Password != nil {
		u.PasswordHash = *update.Password
	}
	if update.Confirmed != nil {
		u.Confirmed = *update.Confirmed
	}
	if update.Deactivated != nil {
		u.Deactivated = *update.Deactivated
	}
	if update.ResetToken != nil {
		u.ResetToken = *update.ResetToken
	}
	if update.ResetExpiry != nil {
		expiry := *update.ResetExpiry
		if expiry.IsZero() {
			u.ResetExpiry = nil
		} else {
			u.ResetExpiry = &expiry
		}
	}
	if update.DisplayName != nil {
		u.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	return u, nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, id string) error {
	f.calls.Add(1)
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeTweetStore struct {
	store.TweetStore

	tweets map[string]*domain.Tweet
}

func newFakeTweetStore(tweets ...*domain.Tweet) *fakeTweetStore {
	f := &fakeTweetStore{tweets: make(map[string]*domain.Tweet)}
	for _, tw := range tweets {
		f.tweets[tw.ID] = tw
	}
	return f
}

func (f *fakeTweetStore) CreateTweet(_ context.Context, tweet *domain.Tweet) error {
	if tweet.ID == "" {
		tweet.ID = uuid.NewString()
	}
	f.tweets[tweet.ID] = tweet
	return nil
}

func (f *fakeTweetStore) GetTweet(_ context.Context, id string) (*domain.Tweet, error) {
	tw, ok := f.tweets[id]
	if !ok || tw.IsDeleted {
		return nil, store.ErrTweetNotFound
	}
	return tw, nil
}

func (f *fakeTweetStore) UpdateTweetContent(_ context.Context, id, content string) (*domain.Tweet, error) {
	tw, ok := f.tweets[id]
	if !ok {
		return nil, store.ErrTweetNotFound
	}
	tw.Content = content
	return tw, nil
}

func (f *fakeTweetStore) DeleteTweet(_ context.Context, id string) error {
	tw, ok := f.tweets[id]
	if !ok {
		return store.ErrTweetNotFound
	}
	tw.IsDeleted = true
	return nil
}

type fakeLikeStore struct {
	store.LikeStore

	likes map[string]*domain.Like // keyed userID+":"+tweetID
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: make(map[string]*domain.Like)}
}

func (f *fakeLikeStore) CreateLike(_ context.Context, like *domain.Like) error {
	key := like.UserID + ":" + like.TweetID
	if _, ok := f.likes[key]; ok {
		return store.ErrDuplicateLike
	}
	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	f.likes[key] = like
	return nil
}

func (f *fakeLikeStore) GetLike(_ context.Context, userID, tweetID string) (*domain.Like, error) {
	like, ok := f.likes[userID+":"+tweetID]
	if !ok {
		return nil, store.ErrLikeNotFound
	}
	return like, nil
}

func (f *fakeLikeStore) DeleteLike(_ context.Context, userID, tweetID string) error {
	key := userID + ":" + tweetID
	if _, ok := f.likes[key]; !ok {
		return store.ErrLikeNotFound
	}
	delete(f.likes, key)
	return nil
}

func (f *fakeLikeStore) CountLikesByTweet(_ context.Context, tweetID string) (int64, error) {
	var n int64
	for _, like := range f.likes {
		if like.TweetID == tweetID {
			n++
		}
	}
	return n, nil
}

type fakeFollowStore struct {
	store.FollowStore

	calls   atomic.Int64
	follows map[string]*domain.Follow // keyed followerID+":"+followeeID
}

func newFakeFollowStore() *fakeFollowStore {
	return &fakeFollowStore{follows: make(map[string]*domain.Follow)}
}

func (f *fakeFollowStore) CreateFollow(_ context.Context, follow *domain.Follow) error {
	f.calls.Add(1)
	key := follow.FollowerID + ":" + follow.FolloweeID
	if _, ok := f.follows[key]; ok {
		return store.ErrDuplicateFollow
	}
	if follow.ID == "" {
		follow.ID = uuid.NewString()
	}
	f.follows[key] = follow
	return nil
}

func (f *fakeFollowStore) GetFollow(_ context.Context, followerID, followeeID string) (*domain.Follow, error) {
	f.calls.Add(1)
	follow, ok := f.follows[followerID+":"+followeeID]
	if !ok {
		return nil, store.ErrFollowNotFound
	}
	return follow, nil
}

func (f *fakeFollowStore) DeleteFollow(_ context.Context, followerID, followeeID string) error {
	f.calls.Add(1)
	key := followerID + ":" + followeeID
	if _, ok := f.follows[key]; !ok {
		return store.ErrFollowNotFound
	}
	delete(f.follows, key)
	return nil
}

func (f *fakeFollowStore) CountFollowers(_ context.Context, userID string) (int64, error) {
	f.calls.Add(1)
	var n int64
	for _, follow := range f.follows {
		if follow.FolloweeID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollowStore) CountFollowing(_ context.Context, userID string) (int64, error) {
	f.calls.Add(1)
	var n int64
	for _, follow := range f.follows {
		if follow.FollowerID == userID {
			n++
		}
	}
	return n, nil
}

type fakeRetweetStore struct {
	store.RetweetStore

	retweets map[string]*domain.Retweet // keyed userID+":"+tweetID
}

func newFakeRetweetStore() *fakeRetweetStore {
	return &fakeRetweetStore{retweets: make(map[string]*domain.Retweet)}
}

func (f *fakeRetweetStore) CreateRetweet(_ context.Context, retweet *domain.Retweet) error {
	key := retweet.UserID + ":" + retweet.TweetID
	if _, ok := f.retweets[key]; ok {
		return store.ErrDuplicateRetweet
	}
	if retweet.ID == "" {
		retweet.ID = uuid.NewString()
	}
	f.retweets[key] = retweet
	return nil
}

func (f *fakeRetweetStore) GetRetweet(_ context.Context, userID, tweetID string) (*domain.Retweet, error) {
	retweet, ok := f.retweets[userID+":"+tweetID]
	if !ok {
		return nil, store.ErrRetweetNotFound
	}
	return retweet, nil
}

func (f *fakeRetweetStore) DeleteRetweet(_ context.Context, userID, tweetID string) error {
	key := userID + ":" + tweetID
	if _, ok := f.retweets[key]; !ok {
		return store.ErrRetweetNotFound
	}
	delete(f.retweets, key)
	return nil
}

func (f *fakeRetweetStore) CountRetweetsByTweet(_ context.Context, tweetID string) (int64, error) {
	var n int64
	for _, retweet := range f.retweets {
		if retweet.TweetID == tweetID {
			n++
		}
	}
	return n, nil
}
