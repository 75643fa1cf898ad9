package report

import (
	"math"
	"sort"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/config"
	"github.com/Belphemur/ShowCleaner/internal/dataset"
	"github.com/Belphemur/ShowCleaner/internal/models"
)

// Columns read by the summary.
const (
	ColumnRating   = "Rating"
	ColumnNetwork  = "Network"
	ColumnType     = "Type"
	ColumnLanguage = "Language"
)

// RequiredColumns lists the columns Summarize cannot work without.
var RequiredColumns = []string{ColumnRating, ColumnNetwork, ColumnType, ColumnLanguage}

// CheckSchema verifies that ds has the key column and every column the summary reads.
func CheckSchema(ds *models.Dataset, key string) error {
	for _, col := range append([]string{key}, RequiredColumns...) {
		if !ds.HasColumn(col) {
			return apperrors.NewSchemaError(col, ds.Header)
		}
	}
	return nil
}

// Summarize computes the aggregate statistics of a cleaning run. Counts
// compare original and cleaned; every other figure describes cleaned.
// It never modifies either dataset.
func Summarize(original, cleaned *models.Dataset) (*models.Summary, error) {
	for _, col := range RequiredColumns {
		if !cleaned.HasColumn(col) {
			return nil, apperrors.NewSchemaError(col, cleaned.Header)
		}
	}

	mean, rated := meanOf(cleaned, ColumnRating)
	summary := &models.Summary{
		OriginalCount: original.Len(),
		CleanedCount:  cleaned.Len(),
		RemovedCount:  original.Len() - cleaned.Len(),
		MeanRating:    models.NullableFloat(mean),
		RatingCount:   rated,
		Missing:       MissingCounts(cleaned),
		Networks:      ValueCounts(cleaned, ColumnNetwork),
		Types:         ValueCounts(cleaned, ColumnType),
		Languages:     ValueCounts(cleaned, ColumnLanguage),
	}
	return summary, nil
}

// meanOf averages the numeric values of a column, skipping missing ones.
// Returns NaN when the column holds no number at all.
func meanOf(ds *models.Dataset, column string) (float64, int) {
	col, ok := ds.ColumnIndex(column)
	if !ok {
		return math.NaN(), 0
	}

	var (
		sum      float64
		n        int
		invalid  int
		firstBad string
	)
	for _, r := range ds.Records {
		v := r.Field(col)
		if dataset.IsMissing(v) {
			continue
		}
		f, ok := dataset.ParseNumber(v)
		if !ok {
			if invalid == 0 {
				firstBad = v
			}
			invalid++
			continue
		}
		sum += f
		n++
	}

	if invalid > 0 {
		logger := config.GetLogger()
		logger.Warn().
			Str("column", column).
			Int("invalid", invalid).
			Str("example", firstBad).
			Msg("Ignoring non-numeric values in mean")
	}
	if n == 0 {
		return math.NaN(), 0
	}
	return sum / float64(n), n
}

// MissingCounts returns the number of missing values of every column, in column order.
func MissingCounts(ds *models.Dataset) []models.ColumnMissing {
	kinds := dataset.InferKinds(ds)
	out := make([]models.ColumnMissing, len(ds.Header))
	for col, name := range ds.Header {
		count := 0
		for _, r := range ds.Records {
			if dataset.IsMissing(r.Field(col)) {
				count++
			}
		}
		out[col] = models.ColumnMissing{
			Column:     name,
			Kind:       kinds[col],
			Count:      count,
			AllMissing: ds.Len() > 0 && count == ds.Len(),
		}
	}
	return out
}

// ValueCounts counts the distinct non-missing values of a column, most
// frequent first. Values with equal counts keep the order in which they first
// appear. Returns nil when the column does not exist.
func ValueCounts(ds *models.Dataset, column string) []models.FrequencyEntry {
	col, ok := ds.ColumnIndex(column)
	if !ok {
		return nil
	}

	index := make(map[string]int)
	var entries []models.FrequencyEntry
	for _, r := range ds.Records {
		v := r.Field(col)
		if dataset.IsMissing(v) {
			continue
		}
		if i, seen := index[v]; seen {
			entries[i].Count++
			continue
		}
		index[v] = len(entries)
		entries = append(entries, models.FrequencyEntry{Value: v, Count: 1})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Top returns at most n leading entries; n <= 0 returns all of them.
func Top(entries []models.FrequencyEntry, n int) []models.FrequencyEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}
