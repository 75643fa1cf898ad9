// Package history keeps a record of finished cleaning runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/config"
	"github.com/Belphemur/ShowCleaner/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

// Store persists run results.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and applies pending
// migrations. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger := config.GetLogger()
	logger.Debug().Str("path", path).Msg("History database ready")
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger := config.GetLogger()
	for _, r := range results {
		logger.Info().Str("migration", r.Source.Path).Dur("duration", r.Duration).Msg("Applied history migration")
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished run. Duplicate examples are not kept.
func (s *Store) Record(ctx context.Context, run *models.RunResult) error {
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	var original, cleaned int
	if run.Summary != nil {
		original, cleaned = run.Summary.OriginalCount, run.Summary.CleanedCount
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, duration_ns, input_path, output_path, key_column,
			fingerprint, original_columns, exact_duplicates, key_duplicates,
			original_count, cleaned_count, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixNano(), int64(run.Duration), run.InputPath, run.OutputPath, run.KeyColumn,
		run.Fingerprint, run.OriginalColumns, run.ExactDuplicates, run.KeyDuplicates,
		original, cleaned, string(summary),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

const selectRuns = `
	SELECT id, started_at, duration_ns, input_path, output_path, key_column,
		fingerprint, original_columns, exact_duplicates, key_duplicates, summary
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.RunResult, error) {
	var (
		run      models.RunResult
		started  int64
		duration int64
		summary  string
	)
	err := row.Scan(&run.ID, &started, &duration, &run.InputPath, &run.OutputPath, &run.KeyColumn,
		&run.Fingerprint, &run.OriginalColumns, &run.ExactDuplicates, &run.KeyDuplicates, &summary)
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.Unix(0, started).UTC()
	run.Duration = time.Duration(duration)
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary of run %s: %w", run.ID, err)
	}
	return &run, nil
}

// Get returns the run with the given id, or an *apperrors.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.RunResult, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewRunNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs first. limit <= 0 uses DefaultListLimit.
func (s *Store) List(ctx context.Context, limit int) ([]*models.RunResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*models.RunResult, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
