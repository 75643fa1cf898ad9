package grpc

import (
	"sync"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name tracking scheduled cleaning runs.
const ServiceName = "showcleaner.v1.Cleaner"

var (
	grpcServerMetrics         *grpcprom.ServerMetrics
	registerServerMetricsOnce sync.Once
)

// RunHealth reports the outcome of scheduled runs through the gRPC health
// service, so orchestrators can probe the cleaner like any other gRPC service.
type RunHealth struct {
	server *health.Server
}

// ReportRun marks the service NOT_SERVING after a failed run and SERVING
// after a successful one.
func (h *RunHealth) ReportRun(err error) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err != nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus(ServiceName, status)
}

// Shutdown marks every service NOT_SERVING ahead of a graceful stop.
func (h *RunHealth) Shutdown() {
	h.server.Shutdown()
}

// NewGRPCServer creates a gRPC server exposing health checking and reflection,
// instrumented with Prometheus metrics.
func NewGRPCServer() (*grpc.Server, *RunHealth) {
	registerServerMetricsOnce.Do(func() {
		grpcServerMetrics = grpcprom.NewServerMetrics(
			grpcprom.WithServerHandlingTimeHistogram(),
		)
		prometheus.MustRegister(grpcServerMetrics)
	})
	srvMetrics := grpcServerMetrics

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(srvMetrics.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(srvMetrics.StreamServerInterceptor()),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// grpcurl and friends
	reflection.Register(grpcServer)

	srvMetrics.InitializeMetrics(grpcServer)

	return grpcServer, &RunHealth{server: healthServer}
}
