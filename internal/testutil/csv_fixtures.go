package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ShowsHeader is the header row of the TV shows dataset.
const ShowsHeader = "Name,Premiere Date,Network,Total Seasons,Rating,Type,Language"

// SampleShowsCSV is a small dataset exercising both duplicate policies:
//   - "Breaking Bad" appears twice with different ratings (key duplicate only)
//   - "Firefly" appears twice with identical fields (exact and key duplicate)
//   - "Gravity Falls" has no rating
//
// Original rows: 9, exact duplicates: 1, duplicate names: 2, cleaned rows: 7.
const SampleShowsCSV = ShowsHeader + `
Breaking Bad,2008-01-20,AMC,5,9.2,Scripted,English
The Wire,2002-06-02,HBO,5,8.9,Scripted,English
Firefly,2002-09-20,FOX,1,9.0,Scripted,English
Breaking Bad,2008-01-20,AMC,5,9.1,Scripted,English
Firefly,2002-09-20,FOX,1,9.0,Scripted,English
Attack on Titan,2013-04-07,MBS,4,8.9,Animation,Japanese
Sherlock,2010-07-25,BBC One,4,8.9,Scripted,English
Gravity Falls,2012-06-15,Disney Channel,2,,Animation,English
Band of Brothers,2001-09-09,HBO,1,8.9,Miniseries,English
`

// SampleCleanedNames lists the names left after cleaning SampleShowsCSV, in order.
var SampleCleanedNames = []string{
	"Breaking Bad",
	"The Wire",
	"Firefly",
	"Attack on Titan",
	"Sherlock",
	"Gravity Falls",
	"Band of Brothers",
}

// ShowsCSV builds a dataset text from the standard header and the given rows.
func ShowsCSV(rows ...string) string {
	var b strings.Builder
	b.WriteString(ShowsHeader)
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}
