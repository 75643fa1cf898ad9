package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterVecValue(cv *prometheus.CounterVec, label string) float64 {
	c, err := cv.GetMetricWithLabelValues(label)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func gatherEntries(t *testing.T, reg *prometheus.Registry, group string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "showcleaner_cache_entries" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "cache" && lp.GetValue() == group {
					return m.GetGauge().GetValue(), true
				}
			}
		}
	}
	return 0, false
}

func newInstrumentedTestCache(t *testing.T, group string, size int) Cache {
	t.Helper()
	c, err := New("memory", ProviderConfig{Size: size, TTL: time.Hour, Group: group})
	if err != nil {
		t.Fatalf("New instrumented cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestInstrumentedCache_HitsAndMisses(t *testing.T) {
	ctx := context.Background()
	c := newInstrumentedTestCache(t, "test-hits", 10)
	hitsBefore := getCounterVecValue(HitsTotal, "test-hits")
	missesBefore := getCounterVecValue(MissesTotal, "test-hits")

	c.Set(ctx, "k", []byte("v"))
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "absent")

	if diff := getCounterVecValue(HitsTotal, "test-hits") - hitsBefore; diff != 1 {
		t.Errorf("Expected hits to increment by 1, got diff %.0f", diff)
	}
	if diff := getCounterVecValue(MissesTotal, "test-hits") - missesBefore; diff != 1 {
		t.Errorf("Expected misses to increment by 1, got diff %.0f", diff)
	}
}

func TestInstrumentedCache_Evictions(t *testing.T) {
	ctx := context.Background()
	c := newInstrumentedTestCache(t, "test-evictions", 1)
	before := getCounterVecValue(EvictionsTotal, "test-evictions")

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))

	if diff := getCounterVecValue(EvictionsTotal, "test-evictions") - before; diff != 1 {
		t.Errorf("Expected evictions to increment by 1, got diff %.0f", diff)
	}
}

// Not parallel: swaps the package-level registerer.
func TestInstrumentedCache_EntriesGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	previous := entriesReg
	entriesReg = reg
	t.Cleanup(func() { entriesReg = previous })

	ctx := context.Background()
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour, Group: "test-entries"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))

	got, ok := gatherEntries(t, reg, "test-entries")
	if !ok || got != 2 {
		t.Fatalf("Expected entries gauge 2, got %v (found %v)", got, ok)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := gatherEntries(t, reg, "test-entries"); ok {
		t.Error("Entries gauge should be unregistered after Close")
	}
}
