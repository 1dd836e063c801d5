package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

// ErrNotAuthor rejects edits and deletes by anyone but the tweet's
// author.
var ErrNotAuthor = errors.New("only the author can modify a tweet")

// TweetService orchestrates posting and timeline reads.
type TweetService struct {
	tweets     store.TweetStore
	users      store.UserStore
	aggregates store.AggregateStore
}

// NewTweetService builds the service on the cached stores.
func NewTweetService(tweets store.TweetStore, users store.UserStore, aggregates store.AggregateStore) *TweetService {
	return &TweetService{tweets: tweets, users: users, aggregates: aggregates}
}

// Post creates a tweet, or a reply when parentID is set.
func (s *TweetService) Post(ctx context.Context, authorID, content, parentID string) (*domain.Tweet, error) {
	if err := domain.ValidateContent(content); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, authorID); err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}

	tweet := &domain.Tweet{
		AuthorID: authorID,
		Content:  content,
	}
	if parentID != "" {
		parent, err := s.tweets.GetTweet(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("post reply: %w", err)
		}
		tweet.ParentTweetID = parent.ID
		tweet.ThreadID = parent.ThreadID
		if tweet.ThreadID == "" {
			tweet.ThreadID = parent.ID
		}
	}

	if err := s.tweets.CreateTweet(ctx, tweet); err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	return tweet, nil
}

// Get returns a tweet by id.
func (s *TweetService) Get(ctx context.Context, id string) (*domain.Tweet, error) {
	return s.tweets.GetTweet(ctx, id)
}

// Edit replaces a tweet's content; only the author may edit.
func (s *TweetService) Edit(ctx context.Context, authorID, id, content string) (*domain.Tweet, error) {
	if err := domain.ValidateContent(content); err != nil {
		return nil, err
	}
	tweet, err := s.tweets.GetTweet(ctx, id)
	if err != nil {
		return nil, err
	}
	if tweet.AuthorID != authorID {
		return nil, ErrNotAuthor
	}
	return s.tweets.UpdateTweetContent(ctx, id, content)
}

// Delete soft-deletes a tweet; only the author may delete.
func (s *TweetService) Delete(ctx context.Context, authorID, id string) error {
	tweet, err := s.tweets.GetTweet(ctx, id)
	if err != nil {
		return err
	}
	if tweet.AuthorID != authorID {
		return ErrNotAuthor
	}
	return s.tweets.DeleteTweet(ctx, id)
}

// ListByAuthor returns a user's tweets.
func (s *TweetService) ListByAuthor(ctx context.Context, authorID string, opts store.ListOptions) ([]*domain.Tweet, error) {
	return s.tweets.ListTweetsByAuthor(ctx, authorID, opts)
}

// Timeline returns the user's home timeline.
func (s *TweetService) Timeline(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.Tweet, error) {
	return s.aggregates.HomeTimeline(ctx, userID, opts)
}

// Trending returns the trending tweets for the window.
func (s *TweetService) Trending(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	return s.aggregates.TrendingTweets(ctx, limit, window)
}

// MostLiked returns the most liked tweets in the window.
func (s *TweetService) MostLiked(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	return s.aggregates.MostLikedTweets(ctx, limit, window)
}

// MostRetweeted returns the most retweeted tweets in the window.
func (s *TweetService) MostRetweeted(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	return s.aggregates.MostRetweetedTweets(ctx, limit, window)
}
