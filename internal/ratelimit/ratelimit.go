// Package ratelimit implements per-client token bucket rate limiting
// for the HTTP API, backed by Redis so the budget is shared across
// instances. When Redis is unavailable the limiter fails open.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token bucket script, executed atomically in Redis.
// KEYS[1] = bucket key
// ARGV[1] = burst size (max tokens)
// ARGV[2] = refill rate (tokens per second)
// ARGV[3] = now (unix seconds)
// ARGV[4] = tokens requested
// Returns {allowed (0/1), remaining tokens}
var tokenBucketScript = redis.NewScript(`
local bucket = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
local tokens = tonumber(bucket[1]) or tonumber(ARGV[1])
local last = tonumber(bucket[2]) or tonumber(ARGV[3])

local elapsed = tonumber(ARGV[3]) - last
tokens = math.min(tonumber(ARGV[1]), tokens + elapsed * tonumber(ARGV[2]))

local allowed = 0
if tokens >= tonumber(ARGV[4]) then
    tokens = tokens - tonumber(ARGV[4])
    allowed = 1
end

redis.call('HMSET', KEYS[1], 'tokens', tokens, 'last_refill', ARGV[3])
redis.call('EXPIRE', KEYS[1], math.ceil(tonumber(ARGV[1]) / tonumber(ARGV[2])) + 10)

return {allowed, math.floor(tokens)}
`)

// Config holds the bucket parameters applied to every client.
type Config struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig is the standing API budget.
func DefaultConfig() Config {
	return Config{RequestsPerSecond: 10, Burst: 30}
}

// Limiter is a Redis-backed token bucket limiter.
type Limiter struct {
	client *redis.Client
	cfg    Config
	prefix string
}

// New creates a limiter on the given Redis client.
func New(client *redis.Client, cfg Config) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultConfig().Burst
	}
	return &Limiter{client: client, cfg: cfg, prefix: "finch:ratelimit:"}
}

// Result describes a rate limit decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Allow consumes one token from the client's bucket.
func (l *Limiter) Allow(ctx context.Context, clientID string) (Result, error) {
	now := float64(time.Now().Unix())

	vals, err := tokenBucketScript.Run(ctx, l.client, []string{l.prefix + clientID},
		l.cfg.Burst,
		l.cfg.RequestsPerSecond,
		now,
		1,
	).Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check: %w", err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("rate limit check: unexpected reply length %d", len(vals))
	}

	allowed, _ := vals[0].(int64)
	remaining, _ := vals[1].(int64)

	refillSeconds := (float64(l.cfg.Burst) - float64(remaining)) / l.cfg.RequestsPerSecond
	return Result{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetAt:   time.Now().Add(time.Duration(refillSeconds * float64(time.Second))),
	}, nil
}
