package dataset

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"
)

// errNoCSVMember is returned when an archive contains no *.csv file.
var errNoCSVMember = errors.New("archive contains no .csv file")

// isArchive reports whether path points to a supported archive.
func isArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar":
		return true
	}
	return false
}

func isCSVMember(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// openArchiveMember opens the first CSV file inside a ZIP or RAR archive.
// Datasets published as downloads are usually a folder zipped with one CSV
// (plus readme files), so directories and non-CSV members are skipped.
func openArchiveMember(path string) (io.ReadCloser, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZipMember(path)
	case ".rar":
		return openRarMember(path)
	default:
		return nil, "", fmt.Errorf("unsupported archive %q", filepath.Ext(path))
	}
}

// zipMember closes the member and the archive file together.
type zipMember struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipMember) Close() error {
	memberErr := z.ReadCloser.Close()
	archiveErr := z.archive.Close()
	if memberErr != nil {
		return memberErr
	}
	return archiveErr
}

func openZipMember(path string) (io.ReadCloser, string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open ZIP archive: %w", err)
	}

	for _, file := range archive.File {
		if file.FileInfo().IsDir() || !isCSVMember(file.Name) {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			archive.Close()
			return nil, "", fmt.Errorf("failed to open %s in ZIP: %w", file.Name, err)
		}
		return &zipMember{ReadCloser: rc, archive: archive}, file.Name, nil
	}

	archive.Close()
	return nil, "", fmt.Errorf("%w (searched %d files)", errNoCSVMember, len(archive.File))
}

// rarMember reads the current entry of a RAR stream and closes the file afterwards.
type rarMember struct {
	*rardecode.Reader
	file *os.File
}

func (r *rarMember) Close() error {
	return r.file.Close()
}

func openRarMember(path string) (io.ReadCloser, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}

	rr, err := rardecode.NewReader(f)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to open RAR archive: %w", err)
	}

	searched := 0
	for {
		header, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			f.Close()
			return nil, "", fmt.Errorf("failed to read RAR archive: %w", err)
		}
		searched++
		if header.IsDir || !isCSVMember(header.Name) {
			continue
		}
		return &rarMember{Reader: rr, file: f}, header.Name, nil
	}

	f.Close()
	return nil, "", fmt.Errorf("%w (searched %d files)", errNoCSVMember, searched)
}
