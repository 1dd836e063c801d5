package api

import (
	"fmt"
	"net/http"

	"github.com/finch-social/finch/internal/domain"
)

type actorRequest struct {
	UserID string `json:"user_id"`
}

// ToggleLike handles PUT /tweets/{id}/like
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	var req actorRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if req.UserID == "" {
		badRequest(w, fmt.Errorf("%w: user_id", errMissingField))
		return
	}

	liked, err := h.Likes.Toggle(r.Context(), req.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// LikeState handles GET /tweets/{id}/like?user_id=
func (h *Handler) LikeState(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, fmt.Errorf("%w: user_id", errMissingField))
		return
	}

	liked, err := h.Likes.IsLiked(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// LikeCount handles GET /tweets/{id}/likes/count
func (h *Handler) LikeCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Likes.Count(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// UserLikes handles GET /users/{id}/likes
func (h *Handler) UserLikes(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.Likes.ListByUser(r.Context(), r.PathValue("id"), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tweets": tweets})
}

type retweetRequest struct {
	UserID  string `json:"user_id"`
	Comment string `json:"comment,omitempty"`
}

// ToggleRetweet handles PUT /tweets/{id}/retweet
func (h *Handler) ToggleRetweet(w http.ResponseWriter, r *http.Request) {
	var req retweetRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if req.UserID == "" {
		badRequest(w, fmt.Errorf("%w: user_id", errMissingField))
		return
	}
	if err := domain.ValidateRetweetComment(req.Comment); err != nil {
		badRequest(w, err)
		return
	}

	retweeted, err := h.Retweets.Toggle(r.Context(), req.UserID, r.PathValue("id"), req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"retweeted": retweeted})
}

// RetweetCount handles GET /tweets/{id}/retweets/count
func (h *Handler) RetweetCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Retweets.Count(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// UserRetweets handles GET /users/{id}/retweets
func (h *Handler) UserRetweets(w http.ResponseWriter, r *http.Request) {
	retweets, err := h.Retweets.ListByUser(r.Context(), r.PathValue("id"), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"retweets": retweets})
}

// ToggleFollow handles PUT /users/{id}/follow, where {id} is the
// account being followed.
func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	var req actorRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	followeeID := r.PathValue("id")
	if err := domain.ValidateFollow(req.UserID, followeeID); err != nil {
		badRequest(w, err)
		return
	}

	following, err := h.Follows.Toggle(r.Context(), req.UserID, followeeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// Followers handles GET /users/{id}/followers
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Follows.Followers(r.Context(), r.PathValue("id"), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Following handles GET /users/{id}/following
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	users, err := h.Follows.Following(r.Context(), r.PathValue("id"), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// FollowCounts handles GET /users/{id}/follow-counts
func (h *Handler) FollowCounts(w http.ResponseWriter, r *http.Request) {
	followers, following, err := h.Follows.Counts(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"followers": followers,
		"following": following,
	})
}

// Suggestions handles GET /users/{id}/suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	users, err := h.Follows.Suggestions(r.Context(), r.PathValue("id"), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Mutuals handles GET /users/{a}/mutuals/{b}
func (h *Handler) Mutuals(w http.ResponseWriter, r *http.Request) {
	users, err := h.Follows.Mutuals(r.Context(), r.PathValue("a"), r.PathValue("b"), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}
