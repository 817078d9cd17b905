package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-api/cmd/api/di"
	ginrouter "user-api/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(c *di.Container, ginAddr string, l *zap.Logger) *http.Server {
	if c.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(c.GinHandler, c.RateLimiter, ginrouter.Config{
		BasePath:    c.Config.App.BasePath,
		ServiceName: c.Config.Logger.ServiceName,
		Checks:      c.HealthChecks(),
	}, l)

	l.Info("Gin REST API configured",
		zap.String("address", ginAddr),
		zap.String("base_path", c.Config.App.BasePath),
	)

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
