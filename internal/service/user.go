package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

// UserService orchestrates account lifecycle operations. Profile reads
// go through the cached store; credential flows read raw, because the
// cached serialization deliberately drops PasswordHash and the reset
// token fields.
type UserService struct {
	users store.UserStore
	raw   store.UserStore
}

// NewUserService builds the service. users is the cached store; raw is
// the authoritative store underneath it.
func NewUserService(users, raw store.UserStore) *UserService {
	return &UserService{users: users, raw: raw}
}

// RegisterRequest carries the fields for account creation. PasswordHash
// is produced by the auth layer; this core never sees plaintext.
type RegisterRequest struct {
	Username     string
	DisplayName  string
	Email        string
	PasswordHash string
}

// Register creates an unconfirmed account. A taken username surfaces
// store.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := domain.ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}

// GetByUsername returns a user by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetUserByUsername(ctx, username)
}

// Stats returns the user's social-graph statistics.
func (s *UserService) Stats(ctx context.Context, id string) (*domain.UserStats, error) {
	return s.users.GetUserStats(ctx, id)
}

// UpdateProfile applies profile field changes.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update *store.UserUpdate) (*domain.User, error) {
	return s.users.UpdateUser(ctx, id, update)
}

// Confirm marks the account's email as verified.
func (s *UserService) Confirm(ctx context.Context, id string) (*domain.User, error) {
	confirmed := true
	return s.users.UpdateUser(ctx, id, &store.UserUpdate{Confirmed: &confirmed})
}

// RequestPasswordReset issues a reset token valid for one hour and
// returns it for the mail layer to deliver.
func (s *UserService) RequestPasswordReset(ctx context.Context, id string) (string, error) {
	token := uuid.NewString()
	expiry := time.Now().Add(time.Hour)
	_, err := s.users.UpdateUser(ctx, id, &store.UserUpdate{
		ResetToken:  &token,
		ResetExpiry: &expiry,
	})
	if err != nil {
		return "", fmt.Errorf("request password reset: %w", err)
	}
	return token, nil
}

// ResetPassword consumes a valid reset token and installs the new hash.
// The token check reads the raw store: a cached copy never carries it.
func (s *UserService) ResetPassword(ctx context.Context, id, token, newHash string) error {
	user, err := s.raw.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.ResetToken == "" || user.ResetToken != token {
		return fmt.Errorf("invalid reset token")
	}
	if user.ResetExpiry == nil || time.Now().After(*user.ResetExpiry) {
		return fmt.Errorf("reset token expired")
	}
	cleared := ""
	epoch := time.Time{}
	_, err = s.users.UpdateUser(ctx, id, &store.UserUpdate{
		Password:    &newHash,
		ResetToken:  &cleared,
		ResetExpiry: &epoch,
	})
	return err
}

// Deactivate hides the account without deleting its data.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	deactivated := true
	_, err := s.users.UpdateUser(ctx, id, &store.UserUpdate{Deactivated: &deactivated})
	return err
}

// Delete removes the account; the store cascades its graph edges.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.DeleteUser(ctx, id)
}
