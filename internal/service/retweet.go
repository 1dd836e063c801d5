package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

// RetweetService orchestrates the retweet toggle.
type RetweetService struct {
	retweets store.RetweetStore
	tweets   store.TweetStore
}

// NewRetweetService builds the service on the cached stores.
func NewRetweetService(retweets store.RetweetStore, tweets store.TweetStore) *RetweetService {
	return &RetweetService{retweets: retweets, tweets: tweets}
}

// Toggle flips the retweet state for (userID, tweetID) and returns the
// resulting state. A non-empty comment makes the new record a quote;
// toggling off ignores the comment. Comment edits are not modeled as new
// records — a second toggle with a different comment simply removes the
// existing retweet.
func (s *RetweetService) Toggle(ctx context.Context, userID, tweetID, comment string) (bool, error) {
	if err := domain.ValidateRetweetComment(comment); err != nil {
		return false, err
	}
	if _, err := s.tweets.GetTweet(ctx, tweetID); err != nil {
		return false, fmt.Errorf("toggle retweet: %w", err)
	}

	_, err := s.retweets.GetRetweet(ctx, userID, tweetID)
	switch {
	case err == nil:
		if err := s.retweets.DeleteRetweet(ctx, userID, tweetID); err != nil {
			if errors.Is(err, store.ErrRetweetNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("toggle retweet: %w", err)
		}
		return false, nil
	case errors.Is(err, store.ErrRetweetNotFound):
		retweet := &domain.Retweet{UserID: userID, TweetID: tweetID, Comment: comment}
		if err := s.retweets.CreateRetweet(ctx, retweet); err != nil {
			return false, fmt.Errorf("toggle retweet: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("toggle retweet: %w", err)
	}
}

// IsRetweeted reports the current retweet state for the pair.
func (s *RetweetService) IsRetweeted(ctx context.Context, userID, tweetID string) (bool, error) {
	_, err := s.retweets.GetRetweet(ctx, userID, tweetID)
	if errors.Is(err, store.ErrRetweetNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of retweets of a tweet.
func (s *RetweetService) Count(ctx context.Context, tweetID string) (int64, error) {
	return s.retweets.CountRetweetsByTweet(ctx, tweetID)
}

// ListByUser returns a user's retweets, quotes included.
func (s *RetweetService) ListByUser(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.Retweet, error) {
	return s.retweets.ListUserRetweets(ctx, userID, opts)
}
