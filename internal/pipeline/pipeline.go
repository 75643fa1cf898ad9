// Package pipeline runs the cleaning procedure end to end: load the dataset,
// drop exact duplicates, drop key duplicates, summarise and save.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/config"
	"github.com/Belphemur/ShowCleaner/internal/dataset"
	"github.com/Belphemur/ShowCleaner/internal/dedupe"
	"github.com/Belphemur/ShowCleaner/internal/metrics"
	"github.com/Belphemur/ShowCleaner/internal/models"
	"github.com/Belphemur/ShowCleaner/internal/report"
)

// Outcome holds every intermediate product of a cleaning pass.
type Outcome struct {
	Original        *models.Dataset
	Cleaned         *models.Dataset
	ExactDuplicates int
	KeyDuplicates   int
	Examples        *models.Dataset
	Summary         *models.Summary
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run *models.RunResult) error
}

// Options configure a Run.
type Options struct {
	InputPath  string
	OutputPath string // empty skips saving
	Encoding   string
	KeyColumn  string
	Examples   int      // duplicate examples kept for the report, <= 0 keeps all
	History    Recorder // optional
}

// OptionsFromConfig builds run options from the application configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InputPath:  cfg.Input.Path,
		OutputPath: cfg.Output.Path,
		Encoding:   cfg.Input.Encoding,
		KeyColumn:  cfg.Input.KeyColumn,
		Examples:   cfg.Report.Examples,
	}
}

// Clean deduplicates ds in two passes, exact duplicates first, then records
// sharing a value in the key column. Duplicate counts describe ds itself.
// The schema is checked before any work so a missing column fails fast.
func Clean(ds *models.Dataset, key string, examples int) (*Outcome, error) {
	if key == "" {
		key = config.DefaultKeyColumn
	}
	if err := report.CheckSchema(ds, key); err != nil {
		return nil, err
	}

	keyMask, err := dedupe.KeyMask(ds, key)
	if err != nil {
		return nil, err
	}
	cleaned, err := dedupe.ByKey(dedupe.Exact(ds), key)
	if err != nil {
		return nil, err
	}
	dupExamples, err := report.DuplicateExamples(ds, key, examples)
	if err != nil {
		return nil, err
	}
	summary, err := report.Summarize(ds, cleaned)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Original:        ds,
		Cleaned:         cleaned,
		ExactDuplicates: dedupe.Count(dedupe.ExactMask(ds)),
		KeyDuplicates:   dedupe.Count(keyMask),
		Examples:        dupExamples,
		Summary:         summary,
	}, nil
}

// Result describes the outcome as a run result. Identity, timing and paths
// are left to the caller.
func (o *Outcome) Result(key string) *models.RunResult {
	if key == "" {
		key = config.DefaultKeyColumn
	}
	return &models.RunResult{
		KeyColumn:       key,
		Fingerprint:     dataset.Fingerprint(o.Original),
		OriginalColumns: len(o.Original.Header),
		ExactDuplicates: o.ExactDuplicates,
		KeyDuplicates:   o.KeyDuplicates,
		Examples:        o.Examples,
		Summary:         o.Summary,
	}
}

// Run loads opts.InputPath, cleans it and writes the result to
// opts.OutputPath. Metrics are recorded for both outcomes. A history failure
// is logged but does not fail the run.
func Run(ctx context.Context, opts Options) (*models.RunResult, error) {
	id := uuid.NewString()
	started := time.Now()
	logger := config.GetLogger().With().Str("run_id", id).Logger()

	result, err := run(ctx, opts)
	if err != nil {
		metrics.ObserveFailure()
		logger.Error().Err(err).Str("input", opts.InputPath).Msg("Cleaning run failed")
		return nil, err
	}

	finished := time.Now()
	result.ID = id
	result.StartedAt = started.UTC()
	result.Duration = finished.Sub(started)
	metrics.ObserveRun(result.Summary.OriginalCount, result.Summary.CleanedCount,
		result.ExactDuplicates, result.KeyDuplicates, result.Duration, finished)

	logger.Info().
		Str("input", result.InputPath).
		Str("output", result.OutputPath).
		Int("original", result.Summary.OriginalCount).
		Int("cleaned", result.Summary.CleanedCount).
		Int("exact_duplicates", result.ExactDuplicates).
		Int("key_duplicates", result.KeyDuplicates).
		Dur("duration", result.Duration).
		Msg("Cleaning run completed")

	if opts.History != nil {
		if err := opts.History.Record(ctx, result); err != nil {
			logger.Warn().Err(err).Msg("Failed to record run in history")
			apperrors.Capture(err)
		}
	}
	return result, nil
}

func run(ctx context.Context, opts Options) (*models.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := dataset.Load(opts.InputPath, dataset.Options{Encoding: opts.Encoding})
	if err != nil {
		return nil, err
	}

	outcome, err := Clean(ds, opts.KeyColumn, opts.Examples)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.OutputPath != "" {
		if err := dataset.Save(outcome.Cleaned, opts.OutputPath); err != nil {
			return nil, err
		}
	}

	result := outcome.Result(opts.KeyColumn)
	result.InputPath = opts.InputPath
	result.OutputPath = opts.OutputPath
	return result, nil
}
