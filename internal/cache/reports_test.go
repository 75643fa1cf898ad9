package cache

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowCleaner/internal/models"
)

func TestReports_PutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	reports := NewReports(c, zerolog.Nop())
	defer reports.Close()

	result := &models.RunResult{
		Fingerprint:     "abc",
		KeyColumn:       "Name",
		ExactDuplicates: 1,
		KeyDuplicates:   2,
		Examples:        models.NewDataset("x", []string{"Name"}),
		Summary: &models.Summary{
			OriginalCount: 9,
			CleanedCount:  7,
			RemovedCount:  2,
			MeanRating:    models.NullableFloat(math.NaN()),
		},
	}
	reports.Put(ctx, result)

	got, ok := reports.Get(ctx, "abc", "Name")
	if !ok {
		t.Fatal("Expected cached report")
	}
	if got.KeyDuplicates != 2 || got.Summary.CleanedCount != 7 {
		t.Errorf("Unexpected cached report: %+v", got)
	}
	if got.Summary.MeanRating.Valid() {
		t.Error("NaN mean rating should survive the cache")
	}
	if got.Examples != nil {
		t.Error("Duplicate examples should not be cached")
	}

	if _, ok := reports.Get(ctx, "abc", "Network"); ok {
		t.Error("A different key column must not hit")
	}
}

func TestReports_CorruptEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Set(ctx, reportKey("abc", "Name"), []byte("{not json"))

	if _, ok := NewReports(c, zerolog.Nop()).Get(ctx, "abc", "Name"); ok {
		t.Error("Corrupt entries should be reported as misses")
	}
}

func TestReports_NilCache(t *testing.T) {
	t.Parallel()
	reports := NewReports(nil, zerolog.Nop())
	reports.Put(context.Background(), &models.RunResult{Fingerprint: "abc"})
	if _, ok := reports.Get(context.Background(), "abc", "Name"); ok {
		t.Error("A disabled cache must never hit")
	}
	if err := reports.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
