package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{
		ErrUserNotFound, ErrTweetNotFound, ErrFollowNotFound,
		ErrLikeNotFound, ErrRetweetNotFound,
	} {
		if !IsNotFound(err) {
			t.Errorf("expected IsNotFound(%v)", err)
		}
		// Wrapping survives the check.
		if !IsNotFound(fmt.Errorf("toggle: %w", err)) {
			t.Errorf("expected IsNotFound of wrapped %v", err)
		}
	}
	if IsNotFound(ErrDuplicateLike) {
		t.Error("conflict misclassified as not-found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("arbitrary error misclassified as not-found")
	}
}

func TestIsConflict(t *testing.T) {
	for _, err := range []error{
		ErrDuplicateUsername, ErrDuplicateFollow,
		ErrDuplicateLike, ErrDuplicateRetweet,
	} {
		if !IsConflict(err) {
			t.Errorf("expected IsConflict(%v)", err)
		}
		if !IsConflict(fmt.Errorf("toggle: %w", err)) {
			t.Errorf("expected IsConflict of wrapped %v", err)
		}
	}
	if IsConflict(ErrLikeNotFound) {
		t.Error("not-found misclassified as conflict")
	}
}

func TestUniqueViolation(t *testing.T) {
	if !uniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected 23505 detected")
	}
	if !uniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})) {
		t.Error("expected wrapped 23505 detected")
	}
	if uniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation misclassified")
	}
	if uniqueViolation(errors.New("boom")) {
		t.Error("arbitrary error misclassified")
	}
}
