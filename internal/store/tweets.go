package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finch-social/finch/internal/domain"
)

const tweetColumns = `id, author_id, content, mentions, hashtags,
	COALESCE(parent_tweet_id, ''), COALESCE(thread_id, ''),
	likes_count, retweets_count, replies_count, is_deleted, created_at, updated_at`

// tweetColumnsFor renders the tweet column list qualified with a table
// alias, for joined queries.
func tweetColumnsFor(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.author_id, %[1]s.content, %[1]s.mentions,
	%[1]s.hashtags, COALESCE(%[1]s.parent_tweet_id, ''), COALESCE(%[1]s.thread_id, ''),
	%[1]s.likes_count, %[1]s.retweets_count, %[1]s.replies_count, %[1]s.is_deleted,
	%[1]s.created_at, %[1]s.updated_at`, alias)
}

func scanTweet(row rowScanner) (*domain.Tweet, error) {
	var t domain.Tweet
	err := row.Scan(
		&t.ID, &t.AuthorID, &t.Content, &t.Mentions, &t.Hashtags,
		&t.ParentTweetID, &t.ThreadID,
		&t.LikesCount, &t.RetweetsCount, &t.RepliesCount, &t.IsDeleted,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTweets(rows pgx.Rows) ([]*domain.Tweet, error) {
	defer rows.Close()
	tweets := []*domain.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

func (s *PostgresStore) CreateTweet(ctx context.Context, tweet *domain.Tweet) error {
	if err := domain.ValidateContent(tweet.Content); err != nil {
		return err
	}
	if tweet.ID == "" {
		tweet.ID = uuid.NewString()
	}
	if tweet.Mentions == nil {
		tweet.Mentions = domain.ExtractMentions(tweet.Content)
	}
	if tweet.Hashtags == nil {
		tweet.Hashtags = domain.ExtractHashtags(tweet.Content)
	}
	now := time.Now()
	if tweet.CreatedAt.IsZero() {
		tweet.CreatedAt = now
	}
	tweet.UpdatedAt = now

	var parent, thread any
	if tweet.ParentTweetID != "" {
		parent = tweet.ParentTweetID
	}
	if tweet.ThreadID != "" {
		thread = tweet.ThreadID
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create tweet: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tweets (id, author_id, content, mentions, hashtags,
			parent_tweet_id, thread_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, tweet.ID, tweet.AuthorID, tweet.Content, tweet.Mentions, tweet.Hashtags,
		parent, thread, tweet.CreatedAt, tweet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create tweet: %w", err)
	}

	// Replies bump the parent's counter in the same transaction.
	if tweet.ParentTweetID != "" {
		_, err = tx.Exec(ctx, `
			UPDATE tweets SET replies_count = replies_count + 1 WHERE id = $1
		`, tweet.ParentTweetID)
		if err != nil {
			return fmt.Errorf("create tweet: bump replies: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetTweet(ctx context.Context, id string) (*domain.Tweet, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+tweetColumns+` FROM tweets WHERE id = $1 AND NOT is_deleted`, id)
	t, err := scanTweet(row)
	if err == pgx.ErrNoRows {
		return nil, ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tweet: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) UpdateTweetContent(ctx context.Context, id, content string) (*domain.Tweet, error) {
	if err := domain.ValidateContent(content); err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE tweets
		SET content = $2, mentions = $3, hashtags = $4, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
		RETURNING `+tweetColumns,
		id, content, domain.ExtractMentions(content), domain.ExtractHashtags(content))
	t, err := scanTweet(row)
	if err == pgx.ErrNoRows {
		return nil, ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update tweet: %w", err)
	}
	return t, nil
}

// DeleteTweet soft-deletes. Likes and retweets of the tweet stay in
// place; reads exclude the tweet from that point on.
func (s *PostgresStore) DeleteTweet(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tweets SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
	`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTweetNotFound
	}
	return nil
}

func (s *PostgresStore) ListTweetsByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]*domain.Tweet, error) {
	opts = opts.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+tweetColumns+`
		FROM tweets
		WHERE author_id = $1 AND NOT is_deleted
		ORDER BY `+opts.orderBy("created_at")+`
		LIMIT $2 OFFSET $3
	`, authorID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list tweets by author: %w", err)
	}
	return collectTweets(rows)
}
