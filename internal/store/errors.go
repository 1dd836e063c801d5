package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Not-found sentinels. Reads return these when no matching row exists;
// the cache layer treats them as a confirmed-absent result, not a failure.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTweetNotFound   = errors.New("tweet not found")
	ErrFollowNotFound  = errors.New("follow not found")
	ErrLikeNotFound    = errors.New("like not found")
	ErrRetweetNotFound = errors.New("retweet not found")
)

// Conflict sentinels. The unique indexes created in ensureSchema are the
// final backstop against the non-atomic lookup-then-mutate toggle; a
// losing racer gets one of these rather than a silent second row.
var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateFollow   = errors.New("already following")
	ErrDuplicateLike     = errors.New("already liked")
	ErrDuplicateRetweet  = errors.New("already retweeted")
)

// IsNotFound reports whether err is one of the store's not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTweetNotFound) ||
		errors.Is(err, ErrFollowNotFound) ||
		errors.Is(err, ErrLikeNotFound) ||
		errors.Is(err, ErrRetweetNotFound)
}

// IsConflict reports whether err is one of the store's duplicate sentinels.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrDuplicateFollow) ||
		errors.Is(err, ErrDuplicateLike) ||
		errors.Is(err, ErrDuplicateRetweet)
}

// uniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
