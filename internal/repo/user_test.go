package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
	"github.com/finch-social/finch/internal/store"
)

func TestCachedUserStore_GetUser_CacheHit(t *testing.T) {
	stub := &stubUserStore{user: &domain.User{ID: "u1", Username: "alice"}}
	cached := NewCachedUserStore(stub, cache.NewInMemoryCache(), nil, DefaultTTLs())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		user, err := cached.GetUser(ctx, "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Username != "alice" {
			t.Fatalf("expected alice, got %s", user.Username)
		}
	}
	if stub.getCalls.Load() != 1 {
		t.Fatalf("expected 1 underlying call, got %d", stub.getCalls.Load())
	}
}

func TestCachedUserStore_IDAndNameKeysAreIndependent(t *testing.T) {
	stub := &stubUserStore{user: &domain.User{ID: "u1", Username: "alice"}}
	cached := NewCachedUserStore(stub, cache.NewInMemoryCache(), nil, DefaultTTLs())
	ctx := context.Background()

	_, _ = cached.GetUser(ctx, "u1")
	_, _ = cached.GetUserByUsername(ctx, "alice")
	if stub.getCalls.Load() != 1 || stub.byNameCalls.Load() != 1 {
		t.Fatalf("expected one call per key, got %d/%d", stub.getCalls.Load(), stub.byNameCalls.Load())
	}
}

func TestCachedUserStore_CreateUser_ClearsNegativeShadow(t *testing.T) {
	stub := &stubUserStore{}
	cached := NewCachedUserStore(stub, cache.NewInMemoryCache(), nil, DefaultTTLs())
	ctx := context.Background()

	// A registration flow probes the username first; the miss is cached.
	if _, err := cached.GetUserByUsername(ctx, "alice"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := cached.CreateUser(ctx, &domain.User{ID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The cached absence must not shadow the new account.
	user, err := cached.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("stale negative entry survived create: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("expected u1, got %s", user.ID)
	}
}

func TestCachedUserStore_UpdateUser_StrikesBothPointKeys(t *testing.T) {
	stub := &stubUserStore{user: &domain.User{ID: "u1", Username: "alice"}}
	cached := NewCachedUserStore(stub, cache.NewInMemoryCache(), nil, DefaultTTLs())
	ctx := context.Background()

	_, _ = cached.GetUser(ctx, "u1")
	_, _ = cached.GetUserByUsername(ctx, "alice")

	bio := "hello"
	if _, err := cached.UpdateUser(ctx, "u1", &store.UserUpdate{Bio: &bio}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _ = cached.GetUser(ctx, "u1")
	_, _ = cached.GetUserByUsername(ctx, "alice")
	if stub.getCalls.Load() != 2 || stub.byNameCalls.Load() != 2 {
		t.Fatalf("expected both point keys struck, got %d/%d calls",
			stub.getCalls.Load(), stub.byNameCalls.Load())
	}
}

func TestCachedUserStore_DeleteUser_StrikesProjections(t *testing.T) {
	stub := &stubUserStore{user: &domain.User{ID: "u1", Username: "alice"}}
	c := cache.NewInMemoryCache()
	cached := NewCachedUserStore(stub, c, nil, DefaultTTLs())
	ctx := context.Background()

	_, _ = cached.GetUser(ctx, "u1")
	_ = c.Set(ctx, timelineKey("u2", store.ListOptions{}), []byte("{}"), 0)
	_ = c.Set(ctx, suggestionsKey("u2", store.ListOptions{}), []byte("{}"), 0)

	if err := cached.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Any timeline may embed the deleted account's tweets; suggestions
	// may recommend it.
	if ok, _ := c.Exists(ctx, timelineKey("u2", store.ListOptions{})); ok {
		t.Fatal("expected timelines to be struck")
	}
	if ok, _ := c.Exists(ctx, suggestionsKey("u2", store.ListOptions{})); ok {
		t.Fatal("expected suggestions to be struck")
	}
	if _, err := cached.GetUser(ctx, "u1"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}

func TestCachedUserStore_Stats_Cached(t *testing.T) {
	stub := &stubUserStore{
		user:  &domain.User{ID: "u1", Username: "alice"},
		stats: &domain.UserStats{UserID: "u1", TweetCount: 2, FollowerCount: 3},
	}
	cached := NewCachedUserStore(stub, cache.NewInMemoryCache(), nil, DefaultTTLs())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		stats, err := cached.GetUserStats(ctx, "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.FollowerCount != 3 {
			t.Fatalf("expected 3 followers, got %d", stats.FollowerCount)
		}
	}
	if stub.statsCalls.Load() != 1 {
		t.Fatalf("expected 1 underlying call, got %d", stub.statsCalls.Load())
	}
}
