// Package dedupe removes duplicate records from a dataset.
//
// Two policies exist: Exact drops records whose every field equals an earlier
// record, ByKey drops records whose key column equals an earlier record's.
// Both keep the first occurrence and preserve the original order. Fields are
// compared in canonical form (see dataset.Canonical), so missing-value markers
// match each other and numbers match regardless of formatting.
//
// ByKey removes a superset of what Exact removes: applying Exact before ByKey
// never changes the final result.
package dedupe

import (
	"strconv"
	"strings"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/dataset"
	"github.com/Belphemur/ShowCleaner/internal/models"
)

// ExactMask flags every record that repeats an earlier, fully identical record.
func ExactMask(ds *models.Dataset) []bool {
	kinds := dataset.InferKinds(ds)
	seen := make(map[string]struct{}, ds.Len())
	mask := make([]bool, ds.Len())

	var b strings.Builder
	for i, r := range ds.Records {
		b.Reset()
		for col, kind := range kinds {
			// Length-prefixed so that field boundaries cannot collide.
			v := dataset.Canonical(r.Field(col), kind)
			b.WriteString(strconv.Itoa(len(v)))
			b.WriteByte(':')
			b.WriteString(v)
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			mask[i] = true
			continue
		}
		seen[key] = struct{}{}
	}
	return mask
}

// KeyMask flags every record whose key value was already seen in an earlier record.
func KeyMask(ds *models.Dataset, key string) ([]bool, error) {
	col, ok := ds.ColumnIndex(key)
	if !ok {
		return nil, apperrors.NewSchemaError(key, ds.Header)
	}

	kind := dataset.InferKinds(ds)[col]
	seen := make(map[string]struct{}, ds.Len())
	mask := make([]bool, ds.Len())
	for i, r := range ds.Records {
		value := dataset.Canonical(r.Field(col), kind)
		if _, dup := seen[value]; dup {
			mask[i] = true
			continue
		}
		seen[value] = struct{}{}
	}
	return mask, nil
}

// Count returns the number of flagged entries of a mask.
func Count(mask []bool) int {
	n := 0
	for _, dup := range mask {
		if dup {
			n++
		}
	}
	return n
}

// Exact returns a new dataset with only the first occurrence of each fully
// identical record.
func Exact(ds *models.Dataset) *models.Dataset {
	return keep(ds, ExactMask(ds))
}

// ByKey returns a new dataset with only the first record for each distinct
// value of the key column. Fails with *apperrors.SchemaError when the column
// does not exist.
func ByKey(ds *models.Dataset, key string) (*models.Dataset, error) {
	mask, err := KeyMask(ds, key)
	if err != nil {
		return nil, err
	}
	return keep(ds, mask), nil
}

// keep copies the records not flagged by mask into a new dataset.
func keep(ds *models.Dataset, mask []bool) *models.Dataset {
	out := ds.Derive()
	out.Records = make([]models.Record, 0, ds.Len()-Count(mask))
	for i, r := range ds.Records {
		if !mask[i] {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
