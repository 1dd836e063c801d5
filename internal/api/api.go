// Package api exposes the HTTP surface: account, tweet, and engagement
// routes plus health probes. Handlers stay thin; everything of substance
// happens in the service layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/logging"
	"github.com/finch-social/finch/internal/service"
	"github.com/finch-social/finch/internal/store"
)

// Handler holds the wired services and the infrastructure handles the
// health probes report on.
type Handler struct {
	Users    *service.UserService
	Tweets   *service.TweetService
	Follows  *service.FollowService
	Likes    *service.LikeService
	Retweets *service.RetweetService

	Store store.Store
	Cache cache.Cache
}

// RegisterRoutes mounts every route on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Accounts
	mux.HandleFunc("POST /users", h.RegisterUser)
	mux.HandleFunc("GET /users/{id}", h.GetUser)
	mux.HandleFunc("GET /users/by-name/{username}", h.GetUserByUsername)
	mux.HandleFunc("PATCH /users/{id}", h.UpdateUser)
	mux.HandleFunc("DELETE /users/{id}", h.DeleteUser)
	mux.HandleFunc("GET /users/{id}/stats", h.UserStats)

	// Tweets and timelines
	mux.HandleFunc("POST /tweets", h.PostTweet)
	mux.HandleFunc("GET /tweets/{id}", h.GetTweet)
	mux.HandleFunc("PATCH /tweets/{id}", h.EditTweet)
	mux.HandleFunc("DELETE /tweets/{id}", h.DeleteTweet)
	mux.HandleFunc("GET /users/{id}/tweets", h.UserTweets)
	mux.HandleFunc("GET /users/{id}/timeline", h.Timeline)
	mux.HandleFunc("GET /trending", h.Trending)
	mux.HandleFunc("GET /most-liked", h.MostLiked)
	mux.HandleFunc("GET /most-retweeted", h.MostRetweeted)

	// Engagement
	mux.HandleFunc("PUT /tweets/{id}/like", h.ToggleLike)
	mux.HandleFunc("GET /tweets/{id}/like", h.LikeState)
	mux.HandleFunc("GET /tweets/{id}/likes/count", h.LikeCount)
	mux.HandleFunc("GET /users/{id}/likes", h.UserLikes)
	mux.HandleFunc("PUT /tweets/{id}/retweet", h.ToggleRetweet)
	mux.HandleFunc("GET /tweets/{id}/retweets/count", h.RetweetCount)
	mux.HandleFunc("GET /users/{id}/retweets", h.UserRetweets)

	// Graph
	mux.HandleFunc("PUT /users/{id}/follow", h.ToggleFollow)
	mux.HandleFunc("GET /users/{id}/followers", h.Followers)
	mux.HandleFunc("GET /users/{id}/following", h.Following)
	mux.HandleFunc("GET /users/{id}/follow-counts", h.FollowCounts)
	mux.HandleFunc("GET /users/{id}/suggestions", h.Suggestions)
	mux.HandleFunc("GET /users/{a}/mutuals/{b}", h.Mutuals)

	// Health probes
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /health/live", h.HealthLive)
	mux.HandleFunc("GET /health/ready", h.HealthReady)
}

// Health reports component status; a dead cache degrades reads but does
// not fail the daemon, so it only downgrades the status to "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	storeOK := h.Store.Ping(ctx) == nil
	cacheOK := h.Cache.Ping(ctx) == nil

	status := "ok"
	if !storeOK {
		status = "unavailable"
	} else if !cacheOK {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"components": map[string]bool{
			"store": storeOK,
			"cache": cacheOK,
		},
	})
}

func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"error":  "store unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Op().Warn("response encode failed", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeError maps service errors onto HTTP statuses: not-found
// sentinels to 404, toggle-race conflicts to 409, ownership rejections
// to 403, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case store.IsConflict(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotAuthor):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		logging.Op().Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

var errMissingField = errors.New("missing required field")

// listOptions parses limit, offset, and sort from the query string. Bad
// values fall back to defaults rather than erroring; the store clamps.
func listOptions(r *http.Request) store.ListOptions {
	q := r.URL.Query()
	var opts store.ListOptions
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = v
	}
	opts.Sort = q.Get("sort")
	return opts
}

// windowParams parses limit and window_secs for the aggregate routes.
func windowParams(r *http.Request) (int, time.Duration) {
	q := r.URL.Query()
	limit := 20
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	window := 24 * time.Hour
	if v, err := strconv.Atoi(q.Get("window_secs")); err == nil && v > 0 {
		window = time.Duration(v) * time.Second
	}
	return limit, window
}
