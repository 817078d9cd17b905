package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-api/pkg/errors"
	"user-api/pkg/logger"
)

// ErrorHandler turns the last error attached with c.Error into a
// StandardError response. Handlers never write error bodies themselves.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		code, body := apperrors.Translate(err, c.Request.URL.Path)

		reqLog := logger.WithContext(c.Request.Context(), log)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", code),
			zap.Error(err),
		}
		if code >= http.StatusInternalServerError {
			reqLog.Error("request failed", fields...)
		} else {
			reqLog.Warn("request rejected", fields...)
		}

		c.AbortWithStatusJSON(code, body)
	}
}
