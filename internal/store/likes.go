package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finch-social/finch/internal/domain"
)

const likeColumns = `id, user_id, tweet_id, created_at`

func scanLike(row rowScanner) (*domain.Like, error) {
	var l domain.Like
	if err := row.Scan(&l.ID, &l.UserID, &l.TweetID, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLike inserts the like row and bumps the tweet's denormalized
// likes_count in one transaction. A duplicate (user, tweet) pair fails
// with ErrDuplicateLike and leaves the counter untouched.
func (s *PostgresStore) CreateLike(ctx context.Context, like *domain.Like) error {
	if like.UserID == "" || like.TweetID == "" {
		return fmt.Errorf("like user and tweet ids are required")
	}
	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO likes (id, user_id, tweet_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, like.ID, like.UserID, like.TweetID, like.CreatedAt)
	if uniqueViolation(err) {
		return ErrDuplicateLike
	}
	if err != nil {
		return fmt.Errorf("create like: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE tweets SET likes_count = likes_count + 1 WHERE id = $1
	`, like.TweetID)
	if err != nil {
		return fmt.Errorf("create like: bump count: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetLike(ctx context.Context, userID, tweetID string) (*domain.Like, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+likeColumns+` FROM likes WHERE user_id = $1 AND tweet_id = $2
	`, userID, tweetID)
	l, err := scanLike(row)
	if err == pgx.ErrNoRows {
		return nil, ErrLikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get like: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) GetLikeByID(ctx context.Context, id string) (*domain.Like, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+likeColumns+` FROM likes WHERE id = $1`, id)
	l, err := scanLike(row)
	if err == pgx.ErrNoRows {
		return nil, ErrLikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get like by id: %w", err)
	}
	return l, nil
}

// DeleteLike removes the like row and decrements the tweet's counter in
// one transaction.
func (s *PostgresStore) DeleteLike(ctx context.Context, userID, tweetID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND tweet_id = $2
	`, userID, tweetID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLikeNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE tweets SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1
	`, tweetID)
	if err != nil {
		return fmt.Errorf("delete like: drop count: %w", err)
	}

	return tx.Commit(ctx)
}

// ListUserLikes returns the tweets a user has liked, newest like first.
func (s *PostgresStore) ListUserLikes(ctx context.Context, userID string, opts ListOptions) ([]*domain.Tweet, error) {
	opts = opts.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+tweetColumnsFor("t")+`
		FROM likes l
		JOIN tweets t ON t.id = l.tweet_id
		WHERE l.user_id = $1 AND NOT t.is_deleted
		ORDER BY `+opts.orderBy("l.created_at")+`
		LIMIT $2 OFFSET $3
	`, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list user likes: %w", err)
	}
	return collectTweets(rows)
}

func (s *PostgresStore) CountLikesByTweet(ctx context.Context, tweetID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE tweet_id = $1`, tweetID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}
