package models

import "strings"

// ColumnKind is the inferred type of a dataset column
type ColumnKind int

const (
	ColumnKindText ColumnKind = iota
	ColumnKindNumeric
)

// String returns the string representation of the column kind
func (k ColumnKind) String() string {
	switch k {
	case ColumnKindNumeric:
		return "numeric"
	default:
		return "text"
	}
}

// ParseColumnKind converts a kind string to ColumnKind
func ParseColumnKind(kind string) ColumnKind {
	switch strings.ToLower(kind) {
	case "numeric", "number", "float":
		return ColumnKindNumeric
	default:
		return ColumnKindText
	}
}

// MarshalJSON implements json.Marshaler interface
func (k ColumnKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (k *ColumnKind) UnmarshalJSON(data []byte) error {
	*k = ParseColumnKind(strings.Trim(string(data), `"`))
	return nil
}
