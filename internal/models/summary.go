package models

import (
	"bytes"
	"math"
	"strconv"
	"time"
)

// NullableFloat is a float64 that encodes NaN as JSON null.
type NullableFloat float64

// Valid reports whether the value is defined (not NaN).
func (f NullableFloat) Valid() bool {
	return !math.IsNaN(float64(f))
}

// MarshalJSON implements json.Marshaler interface
func (f NullableFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid() || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(f), 'f', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (f *NullableFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = NullableFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = NullableFloat(v)
	return nil
}

// FrequencyEntry is one row of a value-count table.
type FrequencyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnMissing holds the number of missing values of one column.
type ColumnMissing struct {
	Column string     `json:"column"`
	Kind   ColumnKind `json:"kind"`
	Count  int        `json:"count"`
	// AllMissing is set when every record lacks a value (and the dataset is not empty).
	AllMissing bool `json:"allMissing"`
}

// Summary holds the aggregate statistics computed over a cleaned dataset.
type Summary struct {
	OriginalCount int              `json:"originalCount"`
	CleanedCount  int              `json:"cleanedCount"`
	RemovedCount  int              `json:"removedCount"`
	MeanRating    NullableFloat    `json:"meanRating"` // NaN when no rating is present
	RatingCount   int              `json:"ratingCount"`
	Missing       []ColumnMissing  `json:"missing"`
	Networks      []FrequencyEntry `json:"networks"`
	Types         []FrequencyEntry `json:"types"`
	Languages     []FrequencyEntry `json:"languages"`
}

// RunResult describes one complete cleaning run.
type RunResult struct {
	ID              string        `json:"id"`
	StartedAt       time.Time     `json:"startedAt"`
	Duration        time.Duration `json:"duration"`
	InputPath       string        `json:"inputPath"`
	OutputPath      string        `json:"outputPath"`
	KeyColumn       string        `json:"keyColumn"`
	Fingerprint     string        `json:"fingerprint"`
	OriginalColumns int           `json:"originalColumns"`
	ExactDuplicates int           `json:"exactDuplicates"` // fully identical rows in the original dataset
	KeyDuplicates   int           `json:"keyDuplicates"`   // repeated key values in the original dataset
	Examples        *Dataset      `json:"-"`               // rows sharing a key, sorted by key
	Summary         *Summary      `json:"summary"`
}
