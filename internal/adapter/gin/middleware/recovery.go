package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-api/pkg/errors"
	"user-api/pkg/logger"
)

// Recovery converts a panic in a later handler into the generic 500
// StandardError response.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered in http handler",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)

				err := apperrors.NewInternalError("panic", fmt.Errorf("%v", r))
				code, body := apperrors.Translate(err, c.Request.URL.Path)
				c.AbortWithStatusJSON(code, body)
			}
		}()

		c.Next()
	}
}
