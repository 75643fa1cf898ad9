package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/config"
	"github.com/Belphemur/ShowCleaner/internal/models"
)

// lockTimeout bounds how long Save waits for another writer of the same path.
const lockTimeout = 5 * time.Second

// Save writes ds to path in the same comma-delimited format it was read from.
//
// The data is written to a temporary file in the destination directory and
// renamed into place, so a failed save never leaves a partial output file.
// Concurrent writers of the same path are serialised with an advisory lock
// kept in the system temp directory, so only the output file lands next to
// it. A .gz, .zst or .br suffix compresses the output.
func Save(ds *models.Dataset, path string) error {
	logger := config.GetLogger()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewDataWriteError(path, err)
	}

	fl := flock.New(lockPath(path))
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil || !locked {
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return apperrors.NewDataWriteError(path, fmt.Errorf("could not lock output, another process may be writing it: %w", err))
	}
	defer fl.Unlock()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewDataWriteError(path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	cw, err := newCompressor(compressionFromPath(path), tmp)
	if err != nil {
		return apperrors.NewDataWriteError(path, err)
	}
	if err := Write(cw, ds); err != nil {
		return apperrors.NewDataWriteError(path, err)
	}
	if err := cw.Close(); err != nil {
		return apperrors.NewDataWriteError(path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return apperrors.NewDataWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewDataWriteError(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return apperrors.NewDataWriteError(path, err)
	}
	committed = true

	logger.Debug().Str("path", path).Int("rows", ds.Len()).Msg("Saved dataset")
	return nil
}

// lockPath names the lock file guarding path. Every spelling of the same
// destination maps to the same lock.
func lockPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return filepath.Join(os.TempDir(), "showcleaner-"+hex.EncodeToString(sum[:8])+".lock")
}

// emptyRow is how a single empty field has to be spelled: csv.Writer emits a
// blank line for it, which csv.Reader then skips.
const emptyRow = "\"\"\n"

// Write serialises the header and records of ds as CSV.
func Write(w io.Writer, ds *models.Dataset) error {
	cw := csv.NewWriter(w)
	write := func(fields []string) error {
		if len(fields) != 1 || fields[0] != "" {
			return cw.Write(fields)
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		_, err := io.WriteString(w, emptyRow)
		return err
	}

	if err := write(ds.Header); err != nil {
		return err
	}
	for _, r := range ds.Records {
		if err := write(r.Fields); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
