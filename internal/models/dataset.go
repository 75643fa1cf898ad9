package models

// Record is one row of a dataset, i.e. one TV show entry.
type Record struct {
	Fields []string // Values in header order
	Line   int      // 1-based line in the source file, 0 when built in memory
}

// Field returns the value at the given column index, or "" when out of range.
func (r Record) Field(index int) string {
	if index < 0 || index >= len(r.Fields) {
		return ""
	}
	return r.Fields[index]
}

// Dataset is an ordered sequence of records sharing one header.
type Dataset struct {
	Name    string   // Source name (file path or upload name), informational only
	Header  []string // Column names in file order
	Records []Record // Records in file order
}

// NewDataset creates an empty dataset with a copy of header.
func NewDataset(name string, header []string) *Dataset {
	return &Dataset{
		Name:   name,
		Header: append([]string(nil), header...),
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Shape returns (rows, columns) like the console report prints it.
func (d *Dataset) Shape() (int, int) {
	return len(d.Records), len(d.Header)
}

// ColumnIndex returns the index of the named column. The first matching
// header wins when a header is repeated.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, h := range d.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the header contains name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.ColumnIndex(name)
	return ok
}

// Derive returns an empty dataset with the same name and header, ready to
// receive a subset of the records.
func (d *Dataset) Derive() *Dataset {
	return &Dataset{
		Name:   d.Name,
		Header: append([]string(nil), d.Header...),
	}
}

// Column returns every value of the column at index, in record order.
func (d *Dataset) Column(index int) []string {
	values := make([]string, len(d.Records))
	for i, r := range d.Records {
		values[i] = r.Field(index)
	}
	return values
}
