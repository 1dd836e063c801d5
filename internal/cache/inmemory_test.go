package cache

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryCache_SetAndGet(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Fatalf("expected 'value1', got '%s'", string(val))
	}
}

func TestInMemoryCache_GetMissing(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	_, err := c.Get(context.Background(), "nonexistent")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "expiring", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, "expiring")
	if err != nil {
		t.Fatalf("Get failed immediately after set: %v", err)
	}
	if string(val) != "value" {
		t.Fatalf("expected 'value', got '%s'", string(val))
	}

	time.Sleep(20 * time.Millisecond)

	_, err = c.Get(ctx, "expiring")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got: %v", err)
	}
}

func TestInMemoryCache_DeleteMultiple(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	ctx := context.Background()

	c.Set(ctx, "k1", []byte("v1"), time.Minute)
	c.Set(ctx, "k2", []byte("v2"), time.Minute)
	c.Set(ctx, "k3", []byte("v3"), time.Minute)

	if err := c.Delete(ctx, "k1", "k2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, key := range []string{"k1", "k2"} {
		if _, err := c.Get(ctx, key); err != ErrNotFound {
			t.Fatalf("expected ErrNotFound for %s after delete, got: %v", key, err)
		}
	}
	if _, err := c.Get(ctx, "k3"); err != nil {
		t.Fatalf("expected k3 to survive, got: %v", err)
	}

	// Deleting a non-existent key is a no-op, not an error.
	if err := c.Delete(ctx, "nonexistent"); err != nil {
		t.Fatalf("Delete non-existent should not fail: %v", err)
	}
}

func TestInMemoryCache_DeletePattern(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	ctx := context.Background()

	c.Set(ctx, "like:list:user:u1:aaaa", []byte("1"), time.Minute)
	c.Set(ctx, "like:list:user:u1:bbbb", []byte("2"), time.Minute)
	c.Set(ctx, "like:list:user:u2:aaaa", []byte("3"), time.Minute)

	if err := c.DeletePattern(ctx, "like:list:user:u1:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	for _, key := range []string{"like:list:user:u1:aaaa", "like:list:user:u1:bbbb"} {
		if _, err := c.Get(ctx, key); err != ErrNotFound {
			t.Fatalf("expected %s struck, got: %v", key, err)
		}
	}
	if _, err := c.Get(ctx, "like:list:user:u2:aaaa"); err != nil {
		t.Fatalf("expected other user's entry to survive, got: %v", err)
	}
}

func TestInMemoryCache_Exists(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	ctx := context.Background()

	exists, err := c.Exists(ctx, "missing")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing key to not exist")
	}

	c.Set(ctx, "present", []byte("value"), time.Minute)

	exists, err = c.Exists(ctx, "present")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected present key to exist")
	}
}

func TestInMemoryCache_Ping(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestInMemoryCache_ValueIsolation(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	ctx := context.Background()

	original := []byte("original")
	c.Set(ctx, "iso", original, time.Minute)

	// Mutate original - should not affect cached value
	original[0] = 'X'

	val, _ := c.Get(ctx, "iso")
	if string(val) != "original" {
		t.Fatal("cache should store a copy, not reference to original slice")
	}

	// Mutate returned value - should not affect cached value
	val[0] = 'Z'
	val2, _ := c.Get(ctx, "iso")
	if string(val2) != "original" {
		t.Fatal("cache should return a copy, not reference to internal slice")
	}
}

func TestInMemoryCache_ZeroTTL(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	ctx := context.Background()

	// Zero TTL = no expiration
	if err := c.Set(ctx, "forever", []byte("value"), 0); err != nil {
		t.Fatalf("Set with zero TTL failed: %v", err)
	}

	val, err := c.Get(ctx, "forever")
	if err != nil {
		t.Fatalf("Get with zero TTL failed: %v", err)
	}
	if string(val) != "value" {
		t.Fatalf("expected 'value', got '%s'", string(val))
	}
}
