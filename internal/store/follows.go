package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finch-social/finch/internal/domain"
)

const followColumns = `id, follower_id, followee_id, created_at`

func scanFollow(row rowScanner) (*domain.Follow, error) {
	var f domain.Follow
	if err := row.Scan(&f.ID, &f.FollowerID, &f.FolloweeID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func collectUsers(rows pgx.Rows) ([]*domain.User, error) {
	defer rows.Close()
	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) CreateFollow(ctx context.Context, follow *domain.Follow) error {
	if err := domain.ValidateFollow(follow.FollowerID, follow.FolloweeID); err != nil {
		return err
	}
	if follow.ID == "" {
		follow.ID = uuid.NewString()
	}
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO follows (id, follower_id, followee_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, follow.ID, follow.FollowerID, follow.FolloweeID, follow.CreatedAt)
	if uniqueViolation(err) {
		return ErrDuplicateFollow
	}
	if err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetFollow(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+followColumns+` FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	f, err := scanFollow(row)
	if err == pgx.ErrNoRows {
		return nil, ErrFollowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get follow: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) GetFollowByID(ctx context.Context, id string) (*domain.Follow, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+followColumns+` FROM follows WHERE id = $1`, id)
	f, err := scanFollow(row)
	if err == pgx.ErrNoRows {
		return nil, ErrFollowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get follow by id: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFollowNotFound
	}
	return nil
}

func (s *PostgresStore) ListFollowers(ctx context.Context, userID string, opts ListOptions) ([]*domain.User, error) {
	opts = opts.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumnsFor("u")+`
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY `+opts.orderBy("f.created_at")+`
		LIMIT $2 OFFSET $3
	`, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return collectUsers(rows)
}

func (s *PostgresStore) ListFollowing(ctx context.Context, userID string, opts ListOptions) ([]*domain.User, error) {
	opts = opts.Normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumnsFor("u")+`
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY `+opts.orderBy("f.created_at")+`
		LIMIT $2 OFFSET $3
	`, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return collectUsers(rows)
}

func (s *PostgresStore) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE followee_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count following: %w", err)
	}
	return n, nil
}
