package dataset

import (
	"math"
	"strconv"

	"github.com/Belphemur/ShowCleaner/internal/models"
)

// missingMarkers are the field texts treated as "no value".
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// missingSentinel replaces every missing marker in canonical form so that
// "" and "NA" compare equal. It cannot appear in CSV text read from a file.
const missingSentinel = "\x00NA\x00"

// IsMissing reports whether a field holds one of the missing-value markers.
func IsMissing(value string) bool {
	_, ok := missingMarkers[value]
	return ok
}

// ParseNumber parses a non-missing field as a float. NaN and infinities
// spelled out as text are rejected so they never enter an aggregate.
func ParseNumber(value string) (float64, bool) {
	if IsMissing(value) {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// InferKinds classifies every column: numeric when each non-missing value
// parses as a number, text otherwise. A column with no values at all is numeric,
// the same way an all-empty column loads as floats in a dataframe.
func InferKinds(ds *models.Dataset) []models.ColumnKind {
	kinds := make([]models.ColumnKind, len(ds.Header))
	for col := range ds.Header {
		kinds[col] = models.ColumnKindNumeric
		for _, r := range ds.Records {
			v := r.Field(col)
			if IsMissing(v) {
				continue
			}
			if _, ok := ParseNumber(v); !ok {
				kinds[col] = models.ColumnKindText
				break
			}
		}
	}
	return kinds
}

// Canonical returns the comparison form of a field: missing markers collapse
// to one sentinel, numbers in numeric columns to their shortest formatting
// ("7.0" == "7"), and text is kept verbatim.
func Canonical(value string, kind models.ColumnKind) string {
	if IsMissing(value) {
		return missingSentinel
	}
	if kind == models.ColumnKindNumeric {
		if f, ok := ParseNumber(value); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return value
}
