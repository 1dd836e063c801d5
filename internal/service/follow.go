package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

// FollowService orchestrates the follow toggle and graph reads.
type FollowService struct {
	follows    store.FollowStore
	users      store.UserStore
	aggregates store.AggregateStore
}

// NewFollowService builds the service on the cached stores.
func NewFollowService(follows store.FollowStore, users store.UserStore, aggregates store.AggregateStore) *FollowService {
	return &FollowService{follows: follows, users: users, aggregates: aggregates}
}

// Toggle flips the follow state for (followerID, followeeID) and returns
// the resulting state: true if the follower now follows the followee.
// Self-follows fail validation before any store or cache traffic.
func (s *FollowService) Toggle(ctx context.Context, followerID, followeeID string) (bool, error) {
	if err := domain.ValidateFollow(followerID, followeeID); err != nil {
		return false, err
	}
	if _, err := s.users.GetUser(ctx, followeeID); err != nil {
		return false, fmt.Errorf("toggle follow: %w", err)
	}

	_, err := s.follows.GetFollow(ctx, followerID, followeeID)
	switch {
	case err == nil:
		if err := s.follows.DeleteFollow(ctx, followerID, followeeID); err != nil {
			if errors.Is(err, store.ErrFollowNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("toggle follow: %w", err)
		}
		return false, nil
	case errors.Is(err, store.ErrFollowNotFound):
		follow := &domain.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := s.follows.CreateFollow(ctx, follow); err != nil {
			return false, fmt.Errorf("toggle follow: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("toggle follow: %w", err)
	}
}

// IsFollowing reports whether followerID currently follows followeeID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	_, err := s.follows.GetFollow(ctx, followerID, followeeID)
	if errors.Is(err, store.ErrFollowNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Followers lists the accounts following userID.
func (s *FollowService) Followers(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.User, error) {
	return s.follows.ListFollowers(ctx, userID, opts)
}

// Following lists the accounts userID follows.
func (s *FollowService) Following(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.User, error) {
	return s.follows.ListFollowing(ctx, userID, opts)
}

// Suggestions recommends accounts to follow, friends-of-friends first.
func (s *FollowService) Suggestions(ctx context.Context, userID string, opts store.ListOptions) ([]*domain.User, error) {
	return s.aggregates.FollowSuggestions(ctx, userID, opts)
}

// Mutuals lists accounts that follow both users.
func (s *FollowService) Mutuals(ctx context.Context, userA, userB string, opts store.ListOptions) ([]*domain.User, error) {
	return s.aggregates.MutualFollowers(ctx, userA, userB, opts)
}

// Counts returns (followers, following) for a user.
func (s *FollowService) Counts(ctx context.Context, userID string) (int64, int64, error) {
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
