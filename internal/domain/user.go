package domain

import (
	"fmt"
	"regexp"
	"time"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,30}$`)

// ValidateUsername enforces the accepted username format.
func ValidateUsername(name string) error {
	if name == "" {
		return fmt.Errorf("username is required")
	}
	if !usernamePattern.MatchString(name) {
		return fmt.Errorf("invalid username: must match %s", usernamePattern.String())
	}
	return nil
}

// User is an account holder. Username is unique across the system.
// PasswordHash is opaque to this layer; hashing belongs to the auth layer.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Confirmed    bool       `json:"confirmed"`
	Deactivated  bool       `json:"deactivated"`
	ResetToken   string     `json:"-"`
	ResetExpiry  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserStats summarizes a user's social-graph activity. Derived from the
// follow, like, and retweet collections; cached with a TTL, never stored.
type UserStats struct {
	UserID         string `json:"user_id"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	LikeCount      int64  `json:"like_count"`
	RetweetCount   int64  `json:"retweet_count"`
	TweetCount     int64  `json:"tweet_count"`
}
