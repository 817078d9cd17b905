package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"user-api/internal/adapter/ratelimit"
	apperrors "user-api/pkg/errors"
	"user-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeStandardError(t *testing.T, w *httptest.ResponseRecorder) apperrors.StandardError {
	var body apperrors.StandardError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_TranslatesErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"not found", apperrors.NewNotFoundError(apperrors.MsgObjectNotFound), http.StatusNotFound, "Object not found"},
		{"duplicate email", apperrors.NewDuplicateEmailError("a@mail.com", apperrors.MsgEmailExists), http.StatusBadRequest, "Email already registered in the system"},
		{"validation", apperrors.NewValidationError("id", "must be a number"), http.StatusBadRequest, "validation failed: id - must be a number"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, apperrors.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(zaptest.NewLogger(t)))
			r.GET("/user/:id", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/99", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeStandardError(t, w)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, "/user/99", body.Path)
			assert.False(t, body.Timestamp.IsZero())
		})
	}
}

func TestErrorHandler_LeavesSuccessAlone(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(zaptest.NewLogger(t)))
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestErrorHandler_LogLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(ErrorHandler(zap.New(core)))
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.NewNotFoundError("")) })
	r.GET("/broken", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zaptest.NewLogger(t)))
	r.GET("/panic", func(c *gin.Context) {
		panic("something broke")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeStandardError(t, w)
	assert.Equal(t, apperrors.MsgInternal, body.Error)
	assert.NotContains(t, w.Body.String(), "something broke")
}

func TestRequestID(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) {
		seen = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(logger.RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(logger.RequestIDHeader))
	})
}

func TestLogger_LogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/user", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/user?x=1", nil))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/user?x=1", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.NewLimiter(client, ratelimit.Config{
		RequestsPerSecond: 0.001,
		BurstCapacity:     2,
		Enabled:           true,
	}, zaptest.NewLogger(t))

	r := gin.New()
	r.Use(RateLimiter(limiter))
	r.GET("/user", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decodeStandardError(t, w)
	assert.Equal(t, http.StatusTooManyRequests, body.Status)
	assert.Contains(t, body.Error, "Rate limit exceeded")
}

func TestRateLimiter_NilLimiterPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(nil))
	r.GET("/user", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
