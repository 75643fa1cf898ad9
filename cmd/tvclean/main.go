package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/config"
	"github.com/Belphemur/ShowCleaner/internal/history"
	"github.com/Belphemur/ShowCleaner/internal/metrics"
	"github.com/Belphemur/ShowCleaner/internal/pipeline"
	"github.com/Belphemur/ShowCleaner/internal/report"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("version", version).
		Str("input", cfg.Input.Path).
		Str("output", cfg.Output.Path).
		Str("key_column", cfg.Input.KeyColumn).
		Msg("Cleaning TV shows dataset")

	if err := apperrors.InitReporting(cfg.SentryDSN, version); err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize error reporting")
	}
	defer apperrors.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pipeline.OptionsFromConfig(cfg)
	if cfg.History.Enabled {
		store, err := history.Open(ctx, cfg.History.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.History.Path).Msg("Run history unavailable")
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	result, err := pipeline.Run(ctx, opts)
	writeTextfile(cfg.Metrics.Textfile)
	if err != nil {
		apperrors.Capture(err)
		logger.Error().Err(err).Msg("Cleaning failed")
		return 1
	}

	if err := report.RenderText(os.Stdout, result, report.TextOptions{TopN: cfg.Report.TopN}); err != nil {
		logger.Error().Err(err).Msg("Failed to print report")
		return 1
	}
	return 0
}

func writeTextfile(path string) {
	if path == "" {
		return
	}
	logger := config.GetLogger()
	if err := metrics.WriteTextfile(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics textfile")
	}
}
