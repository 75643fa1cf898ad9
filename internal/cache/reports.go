package cache

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowCleaner/internal/models"
)

// Reports caches run results by dataset fingerprint and key column.
type Reports struct {
	cache  Cache
	logger zerolog.Logger
}

// NewReports wraps c. A nil c yields a cache that never hits.
func NewReports(c Cache, logger zerolog.Logger) *Reports {
	return &Reports{cache: c, logger: logger}
}

func reportKey(fingerprint, keyColumn string) string {
	return "report:" + keyColumn + ":" + fingerprint
}

// Get returns the cached result for a dataset, if any.
func (r *Reports) Get(ctx context.Context, fingerprint, keyColumn string) (*models.RunResult, bool) {
	if r == nil || r.cache == nil {
		return nil, false
	}
	data, ok := r.cache.Get(ctx, reportKey(fingerprint, keyColumn))
	if !ok {
		return nil, false
	}
	var result models.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("Discarding unreadable cached report")
		return nil, false
	}
	return &result, true
}

// Put stores result under its fingerprint and key column. Duplicate examples
// are not cached.
func (r *Reports) Put(ctx context.Context, result *models.RunResult) {
	if r == nil || r.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Error().Err(err).Str("fingerprint", result.Fingerprint).Msg("Failed to encode report for cache")
		return
	}
	r.cache.Set(ctx, reportKey(result.Fingerprint, result.KeyColumn), data)
}

// Close closes the underlying cache.
func (r *Reports) Close() error {
	if r == nil || r.cache == nil {
		return nil
	}
	return r.cache.Close()
}
