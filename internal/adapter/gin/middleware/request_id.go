package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-api/pkg/logger"
)

// RequestID reuses the X-Request-ID header of the request or generates one,
// echoes it on the response and stores it in the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(logger.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header(logger.RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
