package apperrors

import (
	"time"

	"github.com/getsentry/sentry-go"
)

var reportingEnabled bool

// InitReporting configures Sentry error reporting. An empty DSN leaves
// reporting disabled and Capture becomes a no-op.
func InitReporting(dsn, release string) error {
	if dsn == "" {
		reportingEnabled = false
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: release,
	}); err != nil {
		return err
	}
	reportingEnabled = true
	return nil
}

// Capture forwards a terminal error to Sentry when reporting is enabled.
func Capture(err error) {
	if err == nil || !reportingEnabled {
		return
	}
	sentry.CaptureException(err)
}

// Flush waits for buffered events to be delivered.
func Flush(timeout time.Duration) bool {
	if !reportingEnabled {
		return true
	}
	return sentry.Flush(timeout)
}
