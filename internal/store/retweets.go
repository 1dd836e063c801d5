package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finch-social/finch/internal/domain"
)

const retweetColumns = `id, user_id, tweet_id, comment, created_at`

func scanRetweet(row rowScanner) (*domain.Retweet, error) {
	var r domain.Retweet
	if err := row.Scan(&r.ID, &r.UserID, &r.TweetID, &r.Comment, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRetweet inserts the retweet row and bumps the tweet's
// denormalized retweets_count in one transaction.
func (s *PostgresStore) CreateRetweet(ctx context.Context, retweet *domain.Retweet) error {
	if retweet.UserID == "" || retweet.TweetID == "" {
		return fmt.Errorf("retweet user and tweet ids are required")
	}
	if err := domain.ValidateRetweetComment(retweet.Comment); err != nil {
		return err
	}
	if retweet.ID == "" {
		retweet.ID = uuid.NewString()
	}
	if retweet.CreatedAt.IsZero() {
		retweet.CreatedAt = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create retweet: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO retweets (id, user_id, tweet_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, retweet.ID, retweet.UserID, retweet.TweetID, retweet.Comment, retweet.CreatedAt)
	if uniqueViolation(err) {
		return ErrDuplicateRetweet
	}
	if err != nil {
		return fmt.Errorf("create retweet: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE tweets SET retweets_count = retweets_count + 1 WHERE id = $1
	`, retweet.TweetID)
	if err != nil {
		return fmt.Errorf("create retweet: bump count: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetRetweet(ctx context.Context, userID, tweetID string) (*domain.Retweet, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+retweetColumns+` FROM retweets WHERE user_id = $1 AND tweet_id = $2
	`, userID, tweetID)
	r, err := scanRetweet(row)
	if err == pgx.ErrNoRows {
		return nil, ErrRetweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get retweet: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) GetRetweetByID(ctx context.Context, id string) (*domain.Retweet, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+retweetColumns+` FROM retweets WHERE id = $1`, id)
	r, err := scanRetweet(row)
	if err == pgx.ErrNoRows {
		return nil, ErrRetweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get retweet by id: %w", err)
	}
	return r, nil
}

// DeleteRetweet removes the retweet row and decrements the tweet's
// counter in one transaction.
func (s *PostgresStore) DeleteRetweet(ctx context.Context, userID, tweetID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete retweet: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM retweets WHERE user_id = $1 AND tweet_id = $2
	`, userID, tweetID)
	if err != nil {
		return fmt.Errorf("delete retweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRetweetNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE tweets SET retweets_count = GREATEST(retweets_count - 1, 0) WHERE id = $1
	`, tweetID)
	if err != nil {
		return fmt.Errorf("delete retweet: drop count: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) ListUserRetweets(ctx context.Context, userID string, opts ListOptions) ([]*domain.Retweet, error) {
	opts = opts.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+retweetColumns+`
		FROM retweets
		WHERE user_id = $1
		ORDER BY `+opts.orderBy("created_at")+`
		LIMIT $2 OFFSET $3
	`, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list user retweets: %w", err)
	}
	defer rows.Close()

	retweets := []*domain.Retweet{}
	for rows.Next() {
		r, err := scanRetweet(rows)
		if err != nil {
			return nil, err
		}
		retweets = append(retweets, r)
	}
	return retweets, rows.Err()
}

func (s *PostgresStore) CountRetweetsByTweet(ctx context.Context, tweetID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM retweets WHERE tweet_id = $1`, tweetID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count retweets: %w", err)
	}
	return n, nil
}
