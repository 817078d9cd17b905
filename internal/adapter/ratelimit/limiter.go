package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every bucket stored in Redis.
const KeyPrefix = "ratelimit:tb:"

// Config holds configuration for the token bucket.
type Config struct {
	RequestsPerSecond float64 // refill rate
	BurstCapacity     int     // bucket size
	Enabled           bool
}

// tokenBucket refills a bucket of ARGV[2] tokens at ARGV[1] tokens per second
// and tries to take one. State is {last_refill, tokens} in a hash.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = ARGV[4]

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
redis.call('EXPIRE', key, ttl)
return allowed
`)

// Limiter is a Redis backed token bucket shared by the HTTP and gRPC
// transports. It fails open: a Redis error lets the request through.
type Limiter struct {
	client *redis.Client
	config Config
	log    *zap.Logger
	now    func() time.Time
}

// NewLimiter creates a Limiter. A nil client disables limiting.
func NewLimiter(client *redis.Client, config Config, log *zap.Logger) *Limiter {
	return &Limiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// Enabled reports whether Allow can ever deny a request.
func (l *Limiter) Enabled() bool {
	return l != nil && l.client != nil && l.config.Enabled
}

// Config returns the bucket parameters.
func (l *Limiter) Config() Config {
	return l.config
}

// Allow takes one token from the bucket identified by key.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if !l.Enabled() {
		return true
	}

	now := float64(l.now().UnixMilli()) / 1000

	allowed, err := tokenBucket.Run(ctx, l.client, []string{KeyPrefix + key},
		l.config.RequestsPerSecond,
		l.config.BurstCapacity,
		now,
		l.ttlSeconds(),
	).Int64()
	if err != nil {
		l.log.Warn("rate limiter redis error, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}

	if allowed == 0 {
		l.log.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Float64("requests_per_second", l.config.RequestsPerSecond),
			zap.Int("burst_capacity", l.config.BurstCapacity),
		)
		return false
	}
	return true
}

// ttlSeconds keeps a bucket alive until it would have refilled completely.
func (l *Limiter) ttlSeconds() int {
	ttl := int(math.Ceil(float64(l.config.BurstCapacity)/l.config.RequestsPerSecond)) + 1
	if ttl < 1 {
		ttl = 1
	}
	return ttl
}
