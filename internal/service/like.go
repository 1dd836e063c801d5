// Package service holds the thin orchestration layer: existence checks,
// toggle state machines, and conflict translation. All data access goes
// through the cached decorators in internal/repo; services never touch
// cache keys directly.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

// LikeService orchestrates the like toggle.
type LikeService struct {
	likes  store.LikeStore
	tweets store.TweetStore
}

// NewLikeService builds the service on the cached stores.
func NewLikeService(likes store.LikeStore, tweets store.TweetStore) *LikeService {
	return &LikeService{likes: likes, tweets: tweets}
}

// Toggle flips the like state for (userID, tweetID) and returns the
// resulting state: true if the tweet is now liked. The point lookup and
// the mutation are not atomic against concurrent callers; the store's
// unique (user, tweet) index is the backstop, and a losing racer
// surfaces ErrDuplicateLike.
func (s *LikeService) Toggle(ctx context.Context, userID, tweetID string) (bool, error) {
	if _, err := s.tweets.GetTweet(ctx, tweetID); err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}

	_, err := s.likes.GetLike(ctx, userID, tweetID)
	switch {
	case err == nil:
		if err := s.likes.DeleteLike(ctx, userID, tweetID); err != nil {
			// A concurrent unlike got there first; the net state matches
			// the caller's intent.
			if errors.Is(err, store.ErrLikeNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("toggle like: %w", err)
		}
		return false, nil
	case errors.Is(err, store.ErrLikeNotFound):
		like := &domain.Like{UserID: userID, TweetID: tweetID}
		if err := s.likes.CreateLike(ctx, like); err != nil {
			return false, fmt.Errorf("toggle like: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("toggle like: %w", err)
	}
}

// IsLiked reports the current like state for the pair.
func (s *LikeService) IsLiked(ctx context.Context, userID, tweetID string) (bool, error) {
	_, err := s.likes.GetLike(ctx, userID, tweetID)
	if errors.Is(err, store.ErrLikeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of likes on a tweet.
func (s *LikeService) Count(ctx context.Context, tweetID string) (int64, error) {
	return s.likes.CountLikesByTweet(ctx, tweetID)
}

// ListByUser returns the tweets a user has liked.
func (s *LikeService) ListByUser(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.Tweet, error) {
	return s.likes.ListUserLikes(ctx, userID, opts)
}
