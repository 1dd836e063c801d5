package domain

import (
	"fmt"
	"time"
)

// Follow records that FollowerID follows FolloweeID. The (follower,
// followee) pair is unique and enforced by the store schema; the
// application-level check here only rejects the degenerate self-follow
// before any store or cache traffic happens.
type Follow struct {
	ID         string    `json:"id"`
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidateFollow rejects self-follows and empty ids.
func ValidateFollow(followerID, followeeID string) error {
	if followerID == "" || followeeID == "" {
		return fmt.Errorf("follower and followee ids are required")
	}
	if followerID == followeeID {
		return fmt.Errorf("users cannot follow themselves")
	}
	return nil
}

// Like records that UserID liked TweetID. The (user, tweet) pair is
// unique, enforced by the store schema.
type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TweetID   string    `json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Retweet records that UserID retweeted TweetID, optionally with a quote
// comment. A non-empty comment distinguishes a quote from a simple
// retweet. One record per (user, tweet) pair, enforced by the store.
type Retweet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TweetID   string    `json:"tweet_id"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsQuote reports whether the retweet carries a quote comment.
func (r *Retweet) IsQuote() bool {
	return r.Comment != ""
}

// ValidateRetweetComment enforces the quote-comment length limit.
func ValidateRetweetComment(comment string) error {
	if len([]rune(comment)) > MaxTweetLength {
		return fmt.Errorf("comment exceeds %d characters", MaxTweetLength)
	}
	return nil
}
