package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/config"
	"github.com/Belphemur/ShowCleaner/internal/models"
)

// Options control how a dataset is decoded.
type Options struct {
	// Encoding is the WHATWG label of the source text encoding. Empty means UTF-8.
	Encoding string
}

// errNoHeader is returned for a file without even a header row.
var errNoHeader = errors.New("file is empty, expected a header row")

// Load reads the dataset at path. Plain, compressed (.gz, .zst, .br) and
// archived (.zip, .rar) files are supported. All failures are reported as
// *apperrors.DataLoadError.
func Load(path string, opts Options) (*models.Dataset, error) {
	logger := config.GetLogger()

	var (
		rc     io.ReadCloser
		member = path
		err    error
	)
	if isArchive(path) {
		rc, member, err = openArchiveMember(path)
	} else {
		rc, err = os.Open(path)
	}
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, 0, err)
	}
	defer rc.Close()

	body, err := NewDecompressor(compressionFromPath(member), rc)
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, 0, err)
	}
	defer body.Close()

	ds, err := Read(body, path, opts)
	if err != nil {
		return nil, err
	}

	rows, cols := ds.Shape()
	logger.Debug().
		Str("path", path).
		Str("member", member).
		Int("rows", rows).
		Int("columns", cols).
		Msg("Loaded dataset")
	return ds, nil
}

// Read parses comma-delimited text with a header row from r. name is used
// for the dataset name and in error messages.
func Read(r io.Reader, name string, opts Options) (*models.Dataset, error) {
	text, err := NewUTF8Reader(r, opts.Encoding)
	if err != nil {
		return nil, apperrors.NewDataLoadError(name, 0, err)
	}

	cr := csv.NewReader(text)
	// Every record must have as many fields as the header.
	cr.FieldsPerRecord = 0
	// A quote inside an unquoted field is kept as text, e.g. The "Office".
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewDataLoadError(name, 0, errNoHeader)
	}
	if err != nil {
		return nil, loadError(name, err)
	}
	if err := checkUTF8(header); err != nil {
		return nil, apperrors.NewDataLoadError(name, 1, err)
	}

	ds := models.NewDataset(name, header)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadError(name, err)
		}
		line, _ := cr.FieldPos(0)
		if err := checkUTF8(fields); err != nil {
			return nil, apperrors.NewDataLoadError(name, line, err)
		}
		ds.Records = append(ds.Records, models.Record{Fields: fields, Line: line})
	}

	return ds, nil
}

// loadError converts csv parse errors into DataLoadErrors carrying the line.
func loadError(name string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return apperrors.NewDataLoadError(name, parseErr.StartLine, parseErr.Err)
	}
	return apperrors.NewDataLoadError(name, 0, err)
}

func checkUTF8(fields []string) error {
	for i, f := range fields {
		if !utf8.ValidString(f) {
			return fmt.Errorf("field %d is not valid UTF-8 (wrong input encoding?)", i+1)
		}
	}
	return nil
}
