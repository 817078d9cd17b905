package middleware

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"user-api/internal/adapter/ratelimit"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

// mockHandler is a simple handler that returns a constant
func mockHandler(ctx context.Context, req any) (any, error) {
	return "success", nil
}

func peerContext(t *testing.T, addr string) context.Context {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	require.NoError(t, err)
	return peer.NewContext(context.Background(), &peer.Peer{Addr: tcpAddr})
}

var getUserInfo = &grpc.UnaryServerInfo{FullMethod: "/user.v1.UserService/GetUser"}

func TestRateLimitInterceptor_WithinLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	limiter := ratelimit.NewLimiter(client, ratelimit.Config{RequestsPerSecond: 1, BurstCapacity: 5, Enabled: true}, logger)
	interceptor := RateLimitInterceptor(limiter, logger)
	ctx := peerContext(t, "127.0.0.1:12345")

	for i := 0; i < 5; i++ {
		resp, err := interceptor(ctx, nil, getUserInfo, mockHandler)
		require.NoError(t, err, "request %d should succeed", i+1)
		assert.Equal(t, "success", resp)
	}
}

func TestRateLimitInterceptor_ExceedsLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	limiter := ratelimit.NewLimiter(client, ratelimit.Config{RequestsPerSecond: 0.001, BurstCapacity: 2, Enabled: true}, logger)
	interceptor := RateLimitInterceptor(limiter, logger)
	ctx := peerContext(t, "127.0.0.1:12345")

	for i := 0; i < 2; i++ {
		_, err := interceptor(ctx, nil, getUserInfo, mockHandler)
		require.NoError(t, err)
	}

	resp, err := interceptor(ctx, nil, getUserInfo, mockHandler)
	assert.Nil(t, resp)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.ResourceExhausted, st.Code())
	assert.Contains(t, st.Message(), "rate limit exceeded")
}

func TestRateLimitInterceptor_Disabled(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	limiter := ratelimit.NewLimiter(client, ratelimit.Config{RequestsPerSecond: 0.001, BurstCapacity: 1, Enabled: false}, logger)
	interceptor := RateLimitInterceptor(limiter, logger)
	ctx := peerContext(t, "127.0.0.1:12345")

	for i := 0; i < 5; i++ {
		_, err := interceptor(ctx, nil, getUserInfo, mockHandler)
		require.NoError(t, err)
	}
}

func TestRateLimitInterceptor_NilLimiter(t *testing.T) {
	interceptor := RateLimitInterceptor(nil, zaptest.NewLogger(t))

	resp, err := interceptor(context.Background(), nil, getUserInfo, mockHandler)
	require.NoError(t, err)
	assert.Equal(t, "success", resp)
}

func TestRateLimitInterceptor_SeparateClients(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	limiter := ratelimit.NewLimiter(client, ratelimit.Config{RequestsPerSecond: 0.001, BurstCapacity: 1, Enabled: true}, logger)
	interceptor := RateLimitInterceptor(limiter, logger)

	ctx1 := peerContext(t, "127.0.0.1:1111")
	ctx2 := peerContext(t, "127.0.0.2:2222")

	_, err := interceptor(ctx1, nil, getUserInfo, mockHandler)
	require.NoError(t, err)
	_, err = interceptor(ctx1, nil, getUserInfo, mockHandler)
	require.Error(t, err)

	_, err = interceptor(ctx2, nil, getUserInfo, mockHandler)
	assert.NoError(t, err)
}

func TestRateLimitInterceptor_FailOpen(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	limiter := ratelimit.NewLimiter(client, ratelimit.Config{RequestsPerSecond: 0.001, BurstCapacity: 1, Enabled: true}, logger)
	interceptor := RateLimitInterceptor(limiter, logger)

	mr.Close()

	for i := 0; i < 3; i++ {
		_, err := interceptor(peerContext(t, "127.0.0.1:12345"), nil, getUserInfo, mockHandler)
		require.NoError(t, err)
	}
}

func TestGetClientIP(t *testing.T) {
	t.Run("x-forwarded-for wins", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(peerContext(t, "127.0.0.1:1"), metadata.Pairs("x-forwarded-for", "10.0.0.1"))
		assert.Equal(t, "10.0.0.1", getClientIP(ctx))
	})

	t.Run("x-real-ip", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "10.0.0.2"))
		assert.Equal(t, "10.0.0.2", getClientIP(ctx))
	})

	t.Run("peer address", func(t *testing.T) {
		assert.Equal(t, "127.0.0.1:1", getClientIP(peerContext(t, "127.0.0.1:1")))
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Equal(t, "unknown", getClientIP(context.Background()))
	})
}
