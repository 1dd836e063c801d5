package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to Postgres and bootstraps the schema,
// including the unique indexes that back the pair-uniqueness invariants.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	s := &PostgresStore{pool: pool}

	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("postgres not initialized")
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			deactivated BOOLEAN NOT NULL DEFAULT FALSE,
			reset_token TEXT,
			reset_expiry TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_username ON users (LOWER(username))`,
		`CREATE TABLE IF NOT EXISTS tweets (
			id TEXT PRIMARY KEY,
			author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			mentions TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
			hashtags TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
			parent_tweet_id TEXT,
			thread_id TEXT,
			likes_count BIGINT NOT NULL DEFAULT 0,
			retweets_count BIGINT NOT NULL DEFAULT 0,
			replies_count BIGINT NOT NULL DEFAULT 0,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tweets_author ON tweets(author_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_tweets_created_at ON tweets(created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS follows (
			id TEXT PRIMARY KEY,
			follower_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			followee_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uq_follows_pair UNIQUE (follower_id, followee_id),
			CONSTRAINT ck_follows_not_self CHECK (follower_id <> followee_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS likes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			tweet_id TEXT NOT NULL REFERENCES tweets(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uq_likes_pair UNIQUE (user_id, tweet_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_likes_tweet ON likes(tweet_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS retweets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			tweet_id TEXT NOT NULL REFERENCES tweets(id) ON DELETE CASCADE,
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uq_retweets_pair UNIQUE (user_id, tweet_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_retweets_tweet ON retweets(tweet_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
