package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-api/internal/domain/user"
)

// InvalidationHold is how long an invalidated key refuses fills. A read that
// started before a write and finishes within this window cannot put its
// snapshot back into the cache.
const InvalidationHold = 5 * time.Second

// tombstone marks an invalidated key. Cached users are JSON objects, so the
// value can never collide with one.
const tombstone = "-"

// UserCache defines the interface for user caching operations.
type UserCache interface {
	// Get retrieves a user from cache by ID.
	// Returns nil if user is not found in cache or the key is invalidated.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// Fill stores a user with the configured TTL only when the key is empty.
	// It reports whether the user was stored.
	Fill(ctx context.Context, user *domain.User) (bool, error)

	// Invalidate replaces the cached user with a short-lived tombstone.
	Invalidate(ctx context.Context, id int64) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	hold   time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		hold:   InvalidationHold,
		log:    log,
	}
}

// Key generates the Redis key for a user ID.
func Key(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.Int64("user_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	if string(data) == tombstone {
		c.log.Debug("cache miss on invalidated key", zap.Int64("user_id", id))
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.Int64("user_id", id))
	return &user, nil
}

// Fill stores a user in Redis with TTL unless the key already holds a value
// or a tombstone.
func (c *RedisUserCache) Fill(ctx context.Context, user *domain.User) (bool, error) {
	if user == nil {
		return false, errors.New("cannot cache nil user")
	}

	data, err := json.Marshal(user)
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.Int64("user_id", user.ID), zap.Error(err))
		return false, err
	}

	ok, err := c.client.SetNX(ctx, Key(user.ID), data, c.ttl).Result()
	if err != nil {
		c.log.Error("failed to fill cache", zap.Int64("user_id", user.ID), zap.Error(err))
		return false, err
	}

	if ok {
		c.log.Debug("cached user", zap.Int64("user_id", user.ID), zap.Duration("ttl", c.ttl))
	} else {
		c.log.Debug("cache fill skipped", zap.Int64("user_id", user.ID))
	}
	return ok, nil
}

// Invalidate overwrites the key with a tombstone that expires after the hold.
func (c *RedisUserCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Set(ctx, Key(id), tombstone, c.hold).Err(); err != nil {
		c.log.Error("failed to invalidate cache", zap.Int64("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("invalidated cache", zap.Int64("user_id", id), zap.Duration("hold", c.hold))
	return nil
}
