package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-api/api"
	"user-api/internal/adapter/gin/handler"
	"user-api/internal/adapter/gin/middleware"
	"user-api/internal/adapter/ratelimit"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds the router parameters.
type Config struct {
	BasePath    string
	ServiceName string
	Checks      map[string]HealthCheck
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *ratelimit.Limiter,
	cfg Config,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Recovery runs first so a panic anywhere below still gets a StandardError
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", healthHandler(cfg))

	router.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", api.OpenAPI)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/openapi.json"),
	)))

	users := router.Group(cfg.BasePath)
	users.Use(middleware.RateLimiter(rateLimiter))
	userHandler.Register(users)

	return router
}

func healthHandler(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		code := http.StatusOK
		status := "healthy"
		deps := make(map[string]string, len(cfg.Checks))
		for name, check := range cfg.Checks {
			if err := check(ctx); err != nil {
				deps[name] = err.Error()
				code = http.StatusServiceUnavailable
				status = "unhealthy"
				continue
			}
			deps[name] = "up"
		}

		c.JSON(code, gin.H{
			"status":       status,
			"service":      cfg.ServiceName,
			"dependencies": deps,
		})
	}
}
