package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"user-api/cmd/api/di"
	grpcadapter "user-api/internal/adapter/grpc"
	"user-api/internal/adapter/grpc/middleware"
	"user-api/pkg/logger"
)

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(c *di.Container, l *zap.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			middleware.RateLimitInterceptor(c.RateLimiter, l),
		),
	)
	grpcadapter.RegisterUserServiceServer(grpcServer, c.GRPCServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer
}
