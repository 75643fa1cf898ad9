package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cleaning run metrics
var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcleaner_runs_total",
			Help: "Total number of cleaning runs.",
		},
		[]string{"status"},
	)

	RowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcleaner_rows_total",
			Help: "Total number of dataset rows seen per stage (loaded, cleaned, removed).",
		},
		[]string{"stage"},
	)

	DuplicatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcleaner_duplicates_total",
			Help: "Total number of duplicate rows found per policy (exact, key).",
		},
		[]string{"policy"},
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "showcleaner_run_duration_seconds",
			Help:    "Duration of cleaning runs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "showcleaner_last_run_timestamp_seconds",
			Help: "Unix time of the last successful cleaning run.",
		},
	)
)

// Run statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func init() {
	prometheus.MustRegister(
		RunsTotal,
		RowsTotal,
		DuplicatesTotal,
		RunDuration,
		LastRunTimestamp,
	)
}

// ObserveRun records the figures of a successful run.
func ObserveRun(loaded, cleaned, exact, key int, took time.Duration, finishedAt time.Time) {
	RunsTotal.WithLabelValues(StatusSuccess).Inc()
	RowsTotal.WithLabelValues("loaded").Add(float64(loaded))
	RowsTotal.WithLabelValues("cleaned").Add(float64(cleaned))
	RowsTotal.WithLabelValues("removed").Add(float64(loaded - cleaned))
	DuplicatesTotal.WithLabelValues("exact").Add(float64(exact))
	DuplicatesTotal.WithLabelValues("key").Add(float64(key))
	RunDuration.Observe(took.Seconds())
	LastRunTimestamp.Set(float64(finishedAt.Unix()))
}

// ObserveFailure records a run that ended with an error.
func ObserveFailure() {
	RunsTotal.WithLabelValues(StatusError).Inc()
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
// Batch runs use it where no scraper can reach the process.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
