package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/cache"
	"github.com/Belphemur/ShowCleaner/internal/config"
	grpcserver "github.com/Belphemur/ShowCleaner/internal/grpc"
	"github.com/Belphemur/ShowCleaner/internal/history"
	"github.com/Belphemur/ShowCleaner/internal/metrics"
	"github.com/Belphemur/ShowCleaner/internal/models"
	"github.com/Belphemur/ShowCleaner/internal/pipeline"
	"github.com/Belphemur/ShowCleaner/internal/scheduler"
	"github.com/Belphemur/ShowCleaner/internal/server"
)

var version = "dev"

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("version", version).
		Str("server_address", cfg.Server.Address).
		Int("server_port", cfg.Server.Port).
		Int("grpc_port", cfg.Server.GRPCPort).
		Str("cache_provider", cfg.Cache.Provider).
		Bool("history", cfg.History.Enabled).
		Str("schedule", cfg.Schedule.Cron).
		Msg("Application started with configuration")

	if err := apperrors.InitReporting(cfg.SentryDSN, version); err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize error reporting")
	}
	defer apperrors.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Report cache
	reportCache, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           cfg.CacheTTL(),
		Logger:        logger,
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		PingRetries:   3,
		Group:         "reports",
	})
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.Cache.Provider).Msg("Report cache disabled")
	}
	reports := cache.NewReports(reportCache, logger)
	defer reports.Close()

	// Run history
	var runs server.RunStore
	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(ctx, cfg.History.Path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.History.Path).Msg("Failed to open run history")
		}
		defer store.Close()
		runs = store
	}

	grpcServer, runHealth := grpcserver.NewGRPCServer()

	// Scheduled cleaning
	var sched *scheduler.Scheduler
	if cfg.Schedule.Cron != "" {
		opts := pipeline.OptionsFromConfig(cfg)
		if store != nil {
			opts.History = store
		}
		job := &pipeline.Job{
			Options: opts,
			OnComplete: func(_ *models.RunResult, err error) {
				runHealth.ReportRun(err)
				if err != nil {
					apperrors.Capture(err)
				}
			},
		}
		sched = scheduler.New(0)
		if err := sched.AddJob(cfg.Schedule.Cron, job); err != nil {
			logger.Fatal().Err(err).Str("spec", cfg.Schedule.Cron).Msg("Invalid schedule")
		}
		sched.Start()
	}

	// Prometheus metrics
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer shutdown(metricsServer, "metrics")
	}

	// HTTP API
	gin.SetMode(gin.ReleaseMode)
	handler := server.NewHandler(server.OptionsFromConfig(cfg), reports, runs)
	httpServer := server.NewHTTPServer(cfg.Server.Address, cfg.Server.Port, server.NewRouter(handler))
	go func() {
		logger.Info().Str("address", httpServer.Addr).Msg("Starting HTTP API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to serve HTTP API")
		}
	}()

	// gRPC health
	grpcAddress := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.GRPCPort)
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		logger.Fatal().Err(err).Str("address", grpcAddress).Msg("Failed to create listener")
	}
	go func() {
		logger.Info().Str("address", grpcAddress).Msg("Starting gRPC server")
		if err := grpcServer.Serve(listener); err != nil {
			logger.Fatal().Err(err).Msg("Failed to serve gRPC")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Received shutdown signal")

	runHealth.Shutdown()
	if sched != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := sched.Stop(stopCtx); err != nil {
			logger.Warn().Err(err).Msg("Scheduled run still in progress at shutdown")
		}
		cancel()
	}
	shutdown(httpServer, "HTTP API")
	grpcServer.GracefulStop()

	logger.Info().Msg("Server stopped gracefully")
}

func shutdown(srv *http.Server, name string) {
	logger := config.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Str("server", name).Msg("Failed to shutdown server")
	}
}
