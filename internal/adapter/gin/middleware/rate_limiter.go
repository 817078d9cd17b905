package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"user-api/internal/adapter/ratelimit"
	apperrors "user-api/pkg/errors"
)

// RateLimiter returns a Gin middleware that takes one token per request from
// the bucket of the client IP, method and route. Denied requests get 429.
func RateLimiter(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("http:%s:%s:%s", c.Request.Method, route, c.ClientIP())

		if !limiter.Allow(c.Request.Context(), key) {
			cfg := limiter.Config()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperrors.StandardError{
				Timestamp: time.Now(),
				Status:    http.StatusTooManyRequests,
				Error: fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)",
					cfg.RequestsPerSecond, cfg.BurstCapacity),
				Path: c.Request.URL.Path,
			})
			return
		}

		c.Next()
	}
}
