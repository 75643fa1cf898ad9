package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache metrics carry a "cache" label set from ProviderConfig.Group.
var (
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcleaner_cache_hits_total",
			Help: "Total number of report cache hits.",
		},
		[]string{"cache"},
	)

	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcleaner_cache_misses_total",
			Help: "Total number of report cache misses.",
		},
		[]string{"cache"},
	)

	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showcleaner_cache_evictions_total",
			Help: "Total number of entries evicted from the report cache.",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(
		HitsTotal,
		MissesTotal,
		EvictionsTotal,
	)
}

var (
	entriesMu sync.Mutex
	entries   = make(map[string]prometheus.Collector)
	// entriesReg is swapped for an isolated registry in tests.
	entriesReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntries exposes the size of a cache group as a gauge read at
// scrape time. A previous gauge for the same group is replaced.
func registerEntries(group string, size func() int) {
	g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "showcleaner_cache_entries",
		Help:        "Current number of entries in the report cache.",
		ConstLabels: prometheus.Labels{"cache": group},
	}, func() float64 { return float64(size()) })

	entriesMu.Lock()
	defer entriesMu.Unlock()

	if old, ok := entries[group]; ok {
		entriesReg.Unregister(old)
	}
	entries[group] = g
	_ = entriesReg.Register(g)
}

func unregisterEntries(group string) {
	entriesMu.Lock()
	defer entriesMu.Unlock()

	if g, ok := entries[group]; ok {
		entriesReg.Unregister(g)
		delete(entries, group)
	}
}
