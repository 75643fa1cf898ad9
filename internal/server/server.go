// Package server exposes the cleaning pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowCleaner/internal/cache"
	"github.com/Belphemur/ShowCleaner/internal/config"
	"github.com/Belphemur/ShowCleaner/internal/models"
)

// RunStore is the read side of the run history.
type RunStore interface {
	Get(ctx context.Context, id string) (*models.RunResult, error)
	List(ctx context.Context, limit int) ([]*models.RunResult, error)
}

// Options tune request handling.
type Options struct {
	KeyColumn    string // used when a request has no key parameter
	Examples     int
	TopN         int
	MaxBodyBytes int64
}

// OptionsFromConfig builds handler options from the application configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		KeyColumn:    cfg.Input.KeyColumn,
		Examples:     cfg.Report.Examples,
		TopN:         cfg.Report.TopN,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}
}

// Handler serves the HTTP API. Reports and Runs may be nil, which disables
// report caching and the run history endpoints respectively.
type Handler struct {
	opts    Options
	reports *cache.Reports
	runs    RunStore
	logger  zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(opts Options, reports *cache.Reports, runs RunStore) *Handler {
	if opts.KeyColumn == "" {
		opts.KeyColumn = config.DefaultKeyColumn
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 32 << 20
	}
	return &Handler{
		opts:    opts,
		reports: reports,
		runs:    runs,
		logger:  config.GetLogger(),
	}
}

// RegisterRoutes mounts the API on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/clean", h.clean)   // POST /api/v1/clean
	rg.POST("/report", h.report) // POST /api/v1/report
	rg.GET("/runs", h.listRuns)  // GET /api/v1/runs
	rg.GET("/runs/:id", h.getRun)
}

// NewRouter builds the gin engine with logging, recovery and every route.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(h.logger), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// NewHTTPServer wraps router in an http.Server listening on address:port.
func NewHTTPServer(address string, port int, router http.Handler) *http.Server {
	if port == 0 {
		port = 8080
	}
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", address, port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// requestLogger logs one line per request.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Int("size", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
