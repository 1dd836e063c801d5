package repo

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/domain"
)

// recordingPublisher captures everything broadcast by the fan-out.
type recordingPublisher struct {
	mu       sync.Mutex
	keys     []string
	patterns []string
}

func (p *recordingPublisher) PublishKey(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) PublishPattern(_ context.Context, pattern string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.patterns = append(p.patterns, pattern)
	return nil
}

func TestInvalidate_BroadcastsEveryStrike(t *testing.T) {
	stub := &stubLikeStore{}
	pub := &recordingPublisher{}
	cached := NewCachedLikeStore(stub, cache.NewInMemoryCache(), pub, DefaultTTLs())

	if err := cached.CreateLike(context.Background(), &domain.Like{ID: "l1", UserID: "u1", TweetID: "t1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	sort.Strings(pub.keys)
	sort.Strings(pub.patterns)

	wantKeys := []string{likeCountKey("t1"), likeStateKey("u1", "t1"), tweetKey("t1"), userStatsKey("u1")}
	sort.Strings(wantKeys)
	if len(pub.keys) != len(wantKeys) {
		t.Fatalf("expected %d published keys, got %v", len(wantKeys), pub.keys)
	}
	for i, k := range wantKeys {
		if pub.keys[i] != k {
			t.Fatalf("expected key %s, got %s", k, pub.keys[i])
		}
	}

	wantPatterns := []string{likeListPattern("u1"), mostLikedPattern(), trendingPattern()}
	sort.Strings(wantPatterns)
	if len(pub.patterns) != len(wantPatterns) {
		t.Fatalf("expected %d published patterns, got %v", len(wantPatterns), pub.patterns)
	}
	for i, p := range wantPatterns {
		if pub.patterns[i] != p {
			t.Fatalf("expected pattern %s, got %s", p, pub.patterns[i])
		}
	}
}

func TestInvalidate_PublisherSkippedOnFailedStrike(t *testing.T) {
	stub := &stubLikeStore{}
	pub := &recordingPublisher{}
	cached := NewCachedLikeStore(stub, errCache{}, pub, DefaultTTLs())

	// A strike that never landed locally must not be broadcast: the
	// remote instances would drop entries this one still holds.
	if err := cached.CreateLike(context.Background(), &domain.Like{ID: "l1", UserID: "u1", TweetID: "t1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.keys) != 0 || len(pub.patterns) != 0 {
		t.Fatalf("expected no broadcasts, got keys=%v patterns=%v", pub.keys, pub.patterns)
	}
}

func TestTTLConfig_Normalized(t *testing.T) {
	d := DefaultTTLs()
	got := TTLConfig{}.normalized()
	if got != d {
		t.Fatalf("expected defaults, got %+v", got)
	}

	partial := TTLConfig{Entity: d.Entity * 2}.normalized()
	if partial.Entity != d.Entity*2 {
		t.Fatal("explicit entity TTL overridden")
	}
	if partial.List != d.List || partial.Aggregate != d.Aggregate {
		t.Fatal("unset tiers not defaulted")
	}
}
