package api

import (
	"fmt"
	"net/http"

	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/service"
	"github.com/finch-social/finch/internal/store"
)

type registerRequest struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// RegisterUser handles POST /users
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if err := domain.ValidateUsername(req.Username); err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.Users.Register(r.Context(), service.RegisterRequest{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUserByUsername handles GET /users/by-name/{username}
func (h *Handler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Email       *string `json:"email"`
}

// UpdateUser handles PATCH /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), r.PathValue("id"), &store.UserUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Email:       req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UserStats handles GET /users/{id}/stats
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Users.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
