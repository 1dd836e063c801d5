package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finch-social/finch/internal/domain"
)

const userColumns = `id, username, display_name, bio, avatar_url, email,
	password_hash, confirmed, deactivated, COALESCE(reset_token, ''), reset_expiry,
	created_at, updated_at`

// userColumnsFor renders the user column list qualified with a table
// alias, for joined queries.
func userColumnsFor(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.username, %[1]s.display_name, %[1]s.bio,
	%[1]s.avatar_url, %[1]s.email, %[1]s.password_hash, %[1]s.confirmed,
	%[1]s.deactivated, COALESCE(%[1]s.reset_token, ''), %[1]s.reset_expiry,
	%[1]s.created_at, %[1]s.updated_at`, alias)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.DisplayName, &u.Bio, &u.AvatarURL, &u.Email,
		&u.PasswordHash, &u.Confirmed, &u.Deactivated, &u.ResetToken, &u.ResetExpiry,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) error {
	if err := domain.ValidateUsername(user.Username); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, display_name, bio, avatar_url, email,
			password_hash, confirmed, deactivated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, user.ID, user.Username, user.DisplayName, user.Bio, user.AvatarURL, user.Email,
		user.PasswordHash, user.Confirmed, user.Deactivated, user.CreatedAt, user.UpdatedAt)
	if uniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id string, update *UserUpdate) (*domain.User, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{id}

	add := func(col string, val any) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if update.DisplayName != nil {
		add("display_name", *update.DisplayName)
	}
	if update.Bio != nil {
		add("bio", *update.Bio)
	}
	if update.AvatarURL != nil {
		add("avatar_url", *update.AvatarURL)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.Password != nil {
		add("password_hash", *update.Password)
	}
	if update.Confirmed != nil {
		add("confirmed", *update.Confirmed)
	}
	if update.Deactivated != nil {
		add("deactivated", *update.Deactivated)
	}
	if update.ResetToken != nil {
		add("reset_token", *update.ResetToken)
	}
	if update.ResetExpiry != nil {
		add("reset_expiry", *update.ResetExpiry)
	}

	query := `UPDATE users SET ` + strings.Join(set, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, args...)
	u, err := scanUser(row)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) GetUserStats(ctx context.Context, id string) (*domain.UserStats, error) {
	stats := &domain.UserStats{UserID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followee_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1),
			(SELECT COUNT(*) FROM likes WHERE user_id = $1),
			(SELECT COUNT(*) FROM retweets WHERE user_id = $1),
			(SELECT COUNT(*) FROM tweets WHERE author_id = $1 AND NOT is_deleted)
	`, id).Scan(
		&stats.FollowerCount, &stats.FollowingCount,
		&stats.LikeCount, &stats.RetweetCount, &stats.TweetCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return stats, nil
}
