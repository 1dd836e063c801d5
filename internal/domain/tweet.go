package domain

import (
	"fmt"
	"regexp"
	"time"
)

// MaxTweetLength is the hard limit on tweet and quote-comment bodies.
const MaxTweetLength = 280

var (
	mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_]{1,30})`)
	hashtagPattern = regexp.MustCompile(`#([\p{L}0-9_]+)`)
)

// ValidateContent enforces the tweet body constraints.
func ValidateContent(content string) error {
	if content == "" {
		return fmt.Errorf("content is required")
	}
	if len([]rune(content)) > MaxTweetLength {
		return fmt.Errorf("content exceeds %d characters", MaxTweetLength)
	}
	return nil
}

// ExtractMentions returns the usernames mentioned in a tweet body.
func ExtractMentions(content string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// ExtractHashtags returns the hashtags used in a tweet body, without the
// leading '#'.
func ExtractHashtags(content string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Tweet is a post. LikesCount, RetweetsCount and RepliesCount are
// denormalized counters maintained by the store alongside the
// like/retweet/reply mutations themselves.
type Tweet struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Content       string    `json:"content"`
	Mentions      []string  `json:"mentions,omitempty"`
	Hashtags      []string  `json:"hashtags,omitempty"`
	ParentTweetID string    `json:"parent_tweet_id,omitempty"`
	ThreadID      string    `json:"thread_id,omitempty"`
	LikesCount    int64     `json:"likes_count"`
	RetweetsCount int64     `json:"retweets_count"`
	RepliesCount  int64     `json:"replies_count"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
