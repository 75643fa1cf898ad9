package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/dataset"
	"github.com/Belphemur/ShowCleaner/internal/models"
	"github.com/Belphemur/ShowCleaner/internal/testutil"
)

type recorderFunc func(ctx context.Context, run *models.RunResult) error

func (f recorderFunc) Record(ctx context.Context, run *models.RunResult) error {
	return f(ctx, run)
}

func names(ds *models.Dataset) []string {
	col, _ := ds.ColumnIndex("Name")
	return ds.Column(col)
}

func TestClean_SampleDataset(t *testing.T) {
	t.Parallel()
	ds, err := dataset.Read(strings.NewReader(testutil.SampleShowsCSV), "sample.csv", dataset.Options{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	out, err := Clean(ds, "Name", 20)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if out.ExactDuplicates != 1 {
		t.Errorf("ExactDuplicates = %d, want 1", out.ExactDuplicates)
	}
	if out.KeyDuplicates != 2 {
		t.Errorf("KeyDuplicates = %d, want 2", out.KeyDuplicates)
	}
	if got := strings.Join(names(out.Cleaned), "|"); got != strings.Join(testutil.SampleCleanedNames, "|") {
		t.Errorf("cleaned names = %s", got)
	}
	if out.Examples.Len() != 4 {
		t.Errorf("Examples = %d rows, want 4", out.Examples.Len())
	}
	if out.Summary.RemovedCount != 2 {
		t.Errorf("RemovedCount = %d, want 2", out.Summary.RemovedCount)
	}
	if ds.Len() != 9 {
		t.Error("Clean must not modify its input")
	}

	result := out.Result("Name")
	if result.Fingerprint != dataset.Fingerprint(ds) {
		t.Error("Result fingerprint should describe the original dataset")
	}
	if result.OriginalColumns != 7 {
		t.Errorf("OriginalColumns = %d, want 7", result.OriginalColumns)
	}
}

func TestClean_DefaultsToNameColumn(t *testing.T) {
	t.Parallel()
	ds, err := dataset.Read(strings.NewReader(testutil.SampleShowsCSV), "sample.csv", dataset.Options{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	out, err := Clean(ds, "", 0)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if out.Cleaned.Len() != 7 {
		t.Errorf("Cleaned = %d rows, want 7", out.Cleaned.Len())
	}
	if out.Result("").KeyColumn != "Name" {
		t.Error("Result should report the default key column")
	}
}

func TestClean_SchemaErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		csv    string
		key    string
		column string
	}{
		{"missing key column", testutil.SampleShowsCSV, "Title", "Title"},
		{"missing rating column", "Name,Network,Type,Language\nLost,ABC,Scripted,English\n", "Name", "Rating"},
		{"missing language column", "Name,Rating,Network,Type\nLost,8.3,ABC,Scripted\n", "Name", "Language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ds, err := dataset.Read(strings.NewReader(tt.csv), "x.csv", dataset.Options{})
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			_, err = Clean(ds, tt.key, 0)
			var schemaErr *apperrors.SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Expected SchemaError, got %v", err)
			}
			if schemaErr.Column != tt.column {
				t.Errorf("Column = %q, want %q", schemaErr.Column, tt.column)
			}
		})
	}
}

func TestRun_WritesCleanedDataset(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "shows.csv", []byte(testutil.SampleShowsCSV))
	output := filepath.Join(dir, "out", "shows_cleaned.csv")

	var recorded *models.RunResult
	result, err := Run(context.Background(), Options{
		InputPath:  input,
		OutputPath: output,
		KeyColumn:  "Name",
		Examples:   20,
		History: recorderFunc(func(_ context.Context, run *models.RunResult) error {
			recorded = run
			return nil
		}),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ID == "" {
		t.Error("Run should assign an id")
	}
	if result.StartedAt.IsZero() {
		t.Error("Run should record its start time")
	}
	if result.InputPath != input || result.OutputPath != output {
		t.Errorf("paths = %s -> %s", result.InputPath, result.OutputPath)
	}
	if recorded != result {
		t.Error("Run should hand its result to the history recorder")
	}

	saved, err := dataset.Load(output, dataset.Options{})
	if err != nil {
		t.Fatalf("Failed to reload output: %v", err)
	}
	if got := strings.Join(names(saved), "|"); got != strings.Join(testutil.SampleCleanedNames, "|") {
		t.Errorf("saved names = %s", got)
	}
}

func TestRun_HistoryFailureDoesNotFailRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "shows.csv", []byte(testutil.SampleShowsCSV))

	result, err := Run(context.Background(), Options{
		InputPath: input,
		KeyColumn: "Name",
		History: recorderFunc(func(context.Context, *models.RunResult) error {
			return errors.New("database is locked")
		}),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.OutputPath != "" {
		t.Error("No output path was configured")
	}
}

func TestRun_MissingInput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	output := filepath.Join(dir, "out.csv")

	_, err := Run(context.Background(), Options{
		InputPath:  filepath.Join(dir, "nope.csv"),
		OutputPath: output,
	})
	if !errors.Is(err, &apperrors.DataLoadError{}) {
		t.Fatalf("Expected DataLoadError, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("No output should be written when loading fails")
	}
}

func TestRun_SchemaErrorWritesNothing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "shows.csv", []byte("Name,Network\nLost,ABC\n"))
	output := filepath.Join(dir, "out.csv")

	_, err := Run(context.Background(), Options{InputPath: input, OutputPath: output, KeyColumn: "Name"})
	if !errors.Is(err, &apperrors.SchemaError{}) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("No output should be written on schema errors")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "shows.csv", []byte(testutil.SampleShowsCSV))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Options{InputPath: input}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestJob_Run(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "shows.csv", []byte(testutil.SampleShowsCSV))

	var (
		gotResult *models.RunResult
		gotErr    error
		calls     int
	)
	job := &Job{
		Options: Options{InputPath: input, KeyColumn: "Name"},
		OnComplete: func(result *models.RunResult, err error) {
			calls++
			gotResult, gotErr = result, err
		},
	}
	if job.Name() == "" {
		t.Error("Job needs a name")
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if calls != 1 || gotErr != nil || gotResult == nil || gotResult.Summary.CleanedCount != 7 {
		t.Errorf("OnComplete got (%v, %v) after %d calls", gotResult, gotErr, calls)
	}

	job.Options.InputPath = filepath.Join(dir, "missing.csv")
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Expected an error for a missing input")
	}
	if calls != 2 || gotErr == nil || gotResult != nil {
		t.Errorf("OnComplete should receive the failure, got (%v, %v)", gotResult, gotErr)
	}
}
