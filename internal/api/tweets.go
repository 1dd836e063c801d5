package api

import (
	"fmt"
	"net/http"

	"github.com/finch-social/finch/internal/domain"
)

type postTweetRequest struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
}

// PostTweet handles POST /tweets
func (h *Handler) PostTweet(w http.ResponseWriter, r *http.Request) {
	var req postTweetRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if req.AuthorID == "" {
		badRequest(w, fmt.Errorf("%w: author_id", errMissingField))
		return
	}
	if err := domain.ValidateContent(req.Content); err != nil {
		badRequest(w, err)
		return
	}

	tweet, err := h.Tweets.Post(r.Context(), req.AuthorID, req.Content, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tweet)
}

// GetTweet handles GET /tweets/{id}
func (h *Handler) GetTweet(w http.ResponseWriter, r *http.Request) {
	tweet, err := h.Tweets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tweet)
}

type editTweetRequest struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content"`
}

// EditTweet handles PATCH /tweets/{id}
func (h *Handler) EditTweet(w http.ResponseWriter, r *http.Request) {
	var req editTweetRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if req.AuthorID == "" {
		badRequest(w, fmt.Errorf("%w: author_id", errMissingField))
		return
	}
	if err := domain.ValidateContent(req.Content); err != nil {
		badRequest(w, err)
		return
	}

	tweet, err := h.Tweets.Edit(r.Context(), req.AuthorID, r.PathValue("id"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tweet)
}

type deleteTweetRequest struct {
	AuthorID string `json:"author_id"`
}

// DeleteTweet handles DELETE /tweets/{id}
func (h *Handler) DeleteTweet(w http.ResponseWriter, r *http.Request) {
	var req deleteTweetRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if req.AuthorID == "" {
		badRequest(w, fmt.Errorf("%w: author_id", errMissingField))
		return
	}

	if err := h.Tweets.Delete(r.Context(), req.AuthorID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UserTweets handles GET /users/{id}/tweets
func (h *Handler) UserTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.Tweets.ListByAuthor(r.Context(), r.PathValue("id"), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tweets": tweets})
}

// Timeline handles GET /users/{id}/timeline
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.Tweets.Timeline(r.Context(), r.PathValue("id"), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tweets": tweets})
}

// Trending handles GET /trending
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, window := windowParams(r)
	tweets, err := h.Tweets.Trending(r.Context(), limit, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tweets": tweets})
}

// MostLiked handles GET /most-liked
func (h *Handler) MostLiked(w http.ResponseWriter, r *http.Request) {
	limit, window := windowParams(r)
	tweets, err := h.Tweets.MostLiked(r.Context(), limit, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tweets": tweets})
}

// MostRetweeted handles GET /most-retweeted
func (h *Handler) MostRetweeted(w http.ResponseWriter, r *http.Request) {
	limit, window := windowParams(r)
	tweets, err := h.Tweets.MostRetweeted(r.Context(), limit, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tweets": tweets})
}
