package report

import (
	"sort"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/dataset"
	"github.com/Belphemur/ShowCleaner/internal/models"
)

// exampleColumns are shown next to the key for duplicate examples, when present.
var exampleColumns = []string{"Premiere Date", "Network", "Total Seasons"}

// DuplicateExamples lists every record whose key value occurs more than once
// (all occurrences, not only the later ones), sorted by key so that
// duplicates sit next to each other. Only the key and a few identifying
// columns are kept. limit <= 0 returns every such record.
func DuplicateExamples(ds *models.Dataset, key string, limit int) (*models.Dataset, error) {
	keyCol, ok := ds.ColumnIndex(key)
	if !ok {
		return nil, apperrors.NewSchemaError(key, ds.Header)
	}

	cols := []int{keyCol}
	header := []string{key}
	for _, name := range exampleColumns {
		if idx, ok := ds.ColumnIndex(name); ok && name != key {
			cols = append(cols, idx)
			header = append(header, name)
		}
	}

	kind := dataset.InferKinds(ds)[keyCol]
	occurrences := make(map[string]int, ds.Len())
	for _, r := range ds.Records {
		occurrences[dataset.Canonical(r.Field(keyCol), kind)]++
	}

	var dups []models.Record
	for _, r := range ds.Records {
		if occurrences[dataset.Canonical(r.Field(keyCol), kind)] > 1 {
			dups = append(dups, r)
		}
	}

	// Missing keys sort last, the rest by their text.
	sort.SliceStable(dups, func(i, j int) bool {
		a, b := dups[i].Field(keyCol), dups[j].Field(keyCol)
		am, bm := dataset.IsMissing(a), dataset.IsMissing(b)
		if am != bm {
			return bm
		}
		return a < b
	})

	if limit > 0 && len(dups) > limit {
		dups = dups[:limit]
	}

	out := models.NewDataset(ds.Name, header)
	out.Records = make([]models.Record, 0, len(dups))
	for _, r := range dups {
		fields := make([]string, len(cols))
		for i, c := range cols {
			fields[i] = r.Field(c)
		}
		out.Records = append(out.Records, models.Record{Fields: fields, Line: r.Line})
	}
	return out, nil
}
