package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	// InvalidationChannel is the Redis Pub/Sub channel used for cache
	// invalidation signals. When one finch instance strikes cache keys
	// after a write, it publishes the affected keys to this channel so
	// every other instance evicts them from its L1 cache instead of
	// waiting for the L1 TTL.
	InvalidationChannel = "finch:cache:invalidate"

	// patternMarker prefixes payloads that carry a glob pattern rather
	// than a literal key.
	patternMarker = "glob:"
)

// Invalidator listens for invalidation signals over Redis Pub/Sub and
// evicts the corresponding keys from a local cache (typically the L1
// in-memory cache in a tiered setup).
type Invalidator struct {
	local  Cache
	client *redis.Client
	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewInvalidator creates a cache invalidator that subscribes to Redis
// Pub/Sub and invalidates keys in the local cache when signals arrive.
func NewInvalidator(local Cache, client *redis.Client) *Invalidator {
	return &Invalidator{
		local:  local,
		client: client,
	}
}

// Start begins listening for invalidation signals. It blocks until the
// context is cancelled or Close is called.
func (iv *Invalidator) Start(ctx context.Context) {
	subCtx, cancel := context.WithCancel(ctx)
	iv.mu.Lock()
	iv.cancel = cancel
	iv.mu.Unlock()

	pubsub := iv.client.Subscribe(subCtx, InvalidationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if pattern, isGlob := strings.CutPrefix(msg.Payload, patternMarker); isGlob {
				_ = iv.local.DeletePattern(subCtx, pattern)
			} else {
				_ = iv.local.Delete(subCtx, msg.Payload)
			}
		}
	}
}

// PublishKey publishes an invalidation signal for a single key.
func (iv *Invalidator) PublishKey(ctx context.Context, key string) error {
	return iv.client.Publish(ctx, InvalidationChannel, key).Err()
}

// PublishPattern publishes an invalidation signal for a glob pattern.
func (iv *Invalidator) PublishPattern(ctx context.Context, pattern string) error {
	return iv.client.Publish(ctx, InvalidationChannel, patternMarker+pattern).Err()
}

// Close stops the invalidation listener.
func (iv *Invalidator) Close() error {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.closed {
		return nil
	}
	iv.closed = true
	if iv.cancel != nil {
		iv.cancel()
	}
	return nil
}
