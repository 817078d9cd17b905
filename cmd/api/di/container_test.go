package di

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-api/internal/adapter/cache"
	"user-api/internal/config"
	"user-api/internal/usecase/user"
)

func sqliteConfig(t *testing.T) *config.Config {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "users.db")
	cfg.DB.MaxOpenConns = 1
	return cfg
}

func TestNewContainer_SQLiteWithoutRedis(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(ctx, sqliteConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.RedisClient)
	assert.Nil(t, c.RateLimiter)
	assert.Contains(t, c.HealthChecks(), "database")
	assert.NotContains(t, c.HealthChecks(), "redis")

	created, err := c.UserUC.Create(ctx, user.UserDTO{Name: "Valdir", Email: "valdir@mail.com", Password: "123"})
	require.NoError(t, err)

	found, err := c.UserUC.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "valdir@mail.com", found.Email)

	for name, check := range c.HealthChecks() {
		assert.NoError(t, check(ctx), name)
	}
}

func TestNewContainer_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()
	cfg.RateLimit.Enabled = true

	ctx := context.Background()
	c, err := NewContainer(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NotNil(t, c.RedisClient)
	assert.True(t, c.RateLimiter.Enabled())
	assert.Contains(t, c.HealthChecks(), "redis")

	created, err := c.UserUC.Create(ctx, user.UserDTO{Name: "Valdir", Email: "valdir@mail.com", Password: "123"})
	require.NoError(t, err)
	mr.FastForward(cache.InvalidationHold + time.Second)
	assert.False(t, mr.Exists(cache.Key(created.ID)))

	_, err = c.UserUC.FindByID(ctx, created.ID)
	require.NoError(t, err)

	assert.True(t, mr.Exists(cache.Key(created.ID)))
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DB.Driver = "mysql"

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
