package store

import (
	"context"
	"fmt"
	"time"

	"github.com/finch-social/finch/internal/domain"
)

// TrendingTweets ranks tweets by engagement (likes + retweets + replies)
// received inside the window, newest window activity first.
func (s *PostgresStore) TrendingTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	limit, since := aggregateParams(limit, window)
	rows, err := s.pool.Query(ctx, `
		SELECT `+tweetColumnsFor("t")+`
		FROM tweets t
		LEFT JOIN likes l ON l.tweet_id = t.id AND l.created_at >= $1
		LEFT JOIN retweets r ON r.tweet_id = t.id AND r.created_at >= $1
		WHERE NOT t.is_deleted AND t.created_at >= $1 - INTERVAL '7 days'
		GROUP BY t.id
		ORDER BY COUNT(DISTINCT l.id) + COUNT(DISTINCT r.id) DESC, t.created_at DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("trending tweets: %w", err)
	}
	return collectTweets(rows)
}

// MostLikedTweets ranks tweets created inside the window by likes_count.
func (s *PostgresStore) MostLikedTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	limit, since := aggregateParams(limit, window)
	rows, err := s.pool.Query(ctx, `
		SELECT `+tweetColumns+`
		FROM tweets
		WHERE NOT is_deleted AND created_at >= $1
		ORDER BY likes_count DESC, created_at DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("most liked tweets: %w", err)
	}
	return collectTweets(rows)
}

// MostRetweetedTweets ranks tweets created inside the window by
// retweets_count.
func (s *PostgresStore) MostRetweetedTweets(ctx context.Context, limit int, window time.Duration) ([]*domain.Tweet, error) {
	limit, since := aggregateParams(limit, window)
	rows, err := s.pool.Query(ctx, `
		SELECT `+tweetColumns+`
		FROM tweets
		WHERE NOT is_deleted AND created_at >= $1
		ORDER BY retweets_count DESC, created_at DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("most retweeted tweets: %w", err)
	}
	return collectTweets(rows)
}

// MutualFollowers returns users following both userA and userB.
func (s *PostgresStore) MutualFollowers(ctx context.Context, userA, userB string, opts ListOptions) ([]*domain.User, error) {
	opts = opts.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumnsFor("u")+`
		FROM users u
		JOIN follows fa ON fa.follower_id = u.id AND fa.followee_id = $1
		JOIN follows fb ON fb.follower_id = u.id AND fb.followee_id = $2
		ORDER BY u.username ASC
		LIMIT $3 OFFSET $4
	`, userA, userB, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("mutual followers: %w", err)
	}
	return collectUsers(rows)
}

// FollowSuggestions returns accounts followed by people the user follows,
// excluding accounts the user already follows, ranked by how many of the
// user's follows lead there.
func (s *PostgresStore) FollowSuggestions(ctx context.Context, userID string, opts ListOptions) ([]*domain.User, error) {
	opts = opts.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumnsFor("u")+`
		FROM follows f1
		JOIN follows f2 ON f2.follower_id = f1.followee_id
		JOIN users u ON u.id = f2.followee_id
		WHERE f1.follower_id = $1
		  AND f2.followee_id <> $1
		  AND NOT u.deactivated
		  AND NOT EXISTS (
			SELECT 1 FROM follows fx
			WHERE fx.follower_id = $1 AND fx.followee_id = f2.followee_id
		  )
		GROUP BY u.id
		ORDER BY COUNT(*) DESC, u.username ASC
		LIMIT $2 OFFSET $3
	`, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("follow suggestions: %w", err)
	}
	return collectUsers(rows)
}

// HomeTimeline returns recent tweets authored or retweeted by accounts
// the user follows.
func (s *PostgresStore) HomeTimeline(ctx context.Context, userID string, opts ListOptions) ([]*domain.Tweet, error) {
	opts = opts.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT `+tweetColumnsFor("t")+`
		FROM tweets t
		WHERE NOT t.is_deleted AND (
			t.author_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)
			OR t.id IN (
				SELECT r.tweet_id FROM retweets r
				JOIN follows f ON f.followee_id = r.user_id
				WHERE f.follower_id = $1
			)
		)
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("home timeline: %w", err)
	}
	return collectTweets(rows)
}

func aggregateParams(limit int, window time.Duration) (int, time.Time) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return limit, time.Now().Add(-window)
}
