package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Belphemur/ShowCleaner/internal/models"
)

// TextOptions tune the console report.
type TextOptions struct {
	// TopN limits the Network and Language tables. The Type table is always complete.
	TopN int
}

const banner = "=================================================="

// errWriter remembers the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// RenderText writes the human-readable report of a run. The layout is meant
// for people and carries no machine-readable contract.
func RenderText(w io.Writer, run *models.RunResult, opts TextOptions) error {
	ew := &errWriter{w: w}
	s := run.Summary

	ew.printf("Original dataset shape: (%d, %d)\n", s.OriginalCount, run.OriginalColumns)
	ew.printf("Total rows: %d\n", s.OriginalCount)
	ew.printf("\nTotal duplicate rows (exact duplicates): %d\n", run.ExactDuplicates)
	ew.printf("%s: %d\n", duplicateKeyLabel(run.KeyColumn), run.KeyDuplicates)

	if run.KeyDuplicates > 0 && run.Examples != nil && run.Examples.Len() > 0 {
		ew.printf("\nExamples of %s:\n", strings.ToLower(duplicateKeyLabel(run.KeyColumn)))
		if ew.err == nil {
			ew.err = writeTable(w, run.Examples)
		}
	}

	ew.printf("\nCleaned dataset shape: (%d, %d)\n", s.CleanedCount, run.OriginalColumns)
	ew.printf("Total rows after cleaning: %d\n", s.CleanedCount)
	ew.printf("Rows removed: %d\n", s.RemovedCount)
	if run.OutputPath != "" {
		ew.printf("\nCleaned dataset saved to: %s\n", run.OutputPath)
	}
	if ew.err != nil {
		return ew.err
	}
	return RenderSummary(w, s, opts)
}

// RenderSummary writes the "CLEANED DATASET SUMMARY" block.
func RenderSummary(w io.Writer, s *models.Summary, opts TextOptions) error {
	ew := &errWriter{w: w}

	ew.printf("\n%s\nCLEANED DATASET SUMMARY\n%s\n", banner, banner)
	ew.printf("Total TV Shows: %d\n", s.CleanedCount)
	ew.printf("Average Rating: %.2f\n", float64(s.MeanRating))
	ew.printf("Missing values per column:\n")
	if ew.err != nil {
		return ew.err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range s.Missing {
		note := ""
		if m.AllMissing {
			note = "\t(all values missing)"
		}
		fmt.Fprintf(tw, "%s\t%d%s\n", m.Column, m.Count, note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sections := []struct {
		title   string
		entries []models.FrequencyEntry
	}{
		{fmt.Sprintf("Top %d Networks by number of shows:", topLabel(opts.TopN, len(s.Networks))), Top(s.Networks, opts.TopN)},
		{"Show Type Distribution:", s.Types},
		{"Top Languages:", Top(s.Languages, opts.TopN)},
	}
	for _, sec := range sections {
		ew.printf("\n%s\n", sec.title)
		if ew.err != nil {
			return ew.err
		}
		if err := writeCounts(w, sec.entries); err != nil {
			return err
		}
	}
	return nil
}

func duplicateKeyLabel(key string) string {
	if key == "" || key == "Name" {
		return "Duplicate show names"
	}
	return fmt.Sprintf("Duplicate %s values", key)
}

func topLabel(n, available int) int {
	if n <= 0 || n > available {
		return available
	}
	return n
}

func writeCounts(w io.Writer, entries []models.FrequencyEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\n", e.Value, e.Count)
	}
	return tw.Flush()
}

func writeTable(w io.Writer, ds *models.Dataset) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", strings.Join(ds.Header, "\t"))
	for _, r := range ds.Records {
		fmt.Fprintf(tw, "%s\n", strings.Join(r.Fields, "\t"))
	}
	return tw.Flush()
}
