package repo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/finch-social/finch/internal/store"
)

// Cache key builders. Every cached resource has exactly one builder;
// kinds are disjoint by construction so keys never collide across
// resources. List keys embed a digest of the normalized query options so
// distinct option sets occupy distinct entries, and each list family has
// a glob pattern that strikes every option variant at once.
//
// Pattern builders are only ever used for bulk deletes, never for reads.

// optionsDigest returns a short deterministic digest of the normalized
// list options.
func optionsDigest(opts store.ListOptions) string {
	sum := sha256.Sum256([]byte(opts.Canonical()))
	return hex.EncodeToString(sum[:])[:16]
}

func likeStateKey(userID, tweetID string) string {
	return "like:state:" + userID + ":" + tweetID
}

func likeCountKey(tweetID string) string {
	return "like:count:tweet:" + tweetID
}

func likeListKey(userID string, opts store.ListOptions) string {
	return "like:list:user:" + userID + ":" + optionsDigest(opts)
}

func likeListPattern(userID string) string {
	return "like:list:user:" + userID + ":*"
}

func followStateKey(followerID, followeeID string) string {
	return "follow:state:" + followerID + ":" + followeeID
}

func followersCountKey(userID string) string {
	return "follow:count:followers:" + userID
}

func followingCountKey(userID string) string {
	return "follow:count:following:" + userID
}

func followersListKey(userID string, opts store.ListOptions) string {
	return "follow:list:followers:" + userID + ":" + optionsDigest(opts)
}

func followersListPattern(userID string) string {
	return "follow:list:followers:" + userID + ":*"
}

func followingListKey(userID string, opts store.ListOptions) string {
	return "follow:list:following:" + userID + ":" + optionsDigest(opts)
}

func followingListPattern(userID string) string {
	return "follow:list:following:" + userID + ":*"
}

func retweetStateKey(userID, tweetID string) string {
	return "retweet:state:" + userID + ":" + tweetID
}

func retweetCountKey(tweetID string) string {
	return "retweet:count:tweet:" + tweetID
}

func retweetListKey(userID string, opts store.ListOptions) string {
	return "retweet:list:user:" + userID + ":" + optionsDigest(opts)
}

func retweetListPattern(userID string) string {
	return "retweet:list:user:" + userID + ":*"
}

func tweetKey(tweetID string) string {
	return "tweet:" + tweetID
}

func userIDKey(userID string) string {
	return "user:id:" + userID
}

func userNameKey(username string) string {
	return "user:name:" + username
}

func userStatsKey(userID string) string {
	return "user:stats:" + userID
}

func suggestionsKey(userID string, opts store.ListOptions) string {
	return "user:suggest:" + userID + ":" + optionsDigest(opts)
}

func suggestionsPattern() string {
	return "user:suggest:*"
}

func timelineKey(userID string, opts store.ListOptions) string {
	return "timeline:" + userID + ":" + optionsDigest(opts)
}

func timelinePattern(userID string) string {
	return "timeline:" + userID + ":*"
}

func allTimelinesPattern() string {
	return "timeline:*"
}

func trendingKey(limit int, window time.Duration) string {
	return fmt.Sprintf("agg:trending:%d:%d", limit, int(window.Seconds()))
}

func trendingPattern() string {
	return "agg:trending:*"
}

func mostLikedKey(limit int, window time.Duration) string {
	return fmt.Sprintf("agg:mostliked:%d:%d", limit, int(window.Seconds()))
}

func mostLikedPattern() string {
	return "agg:mostliked:*"
}

func mostRetweetedKey(limit int, window time.Duration) string {
	return fmt.Sprintf("agg:mostretweeted:%d:%d", limit, int(window.Seconds()))
}

func mostRetweetedPattern() string {
	return "agg:mostretweeted:*"
}
