package dataset

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Supported compression encodings, named like their Content-Encoding tokens.
const (
	EncodingGzip   = "gzip"
	EncodingBrotli = "br"
	EncodingZstd   = "zstd"
)

// ErrUnsupportedCompression is wrapped by errors for unknown compression encodings.
var ErrUnsupportedCompression = errors.New("unsupported compression")

// compressionFromPath derives the compression encoding from a file suffix.
// Returns "" for uncompressed files.
func compressionFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return EncodingGzip
	case ".br":
		return EncodingBrotli
	case ".zst", ".zstd":
		return EncodingZstd
	default:
		return ""
	}
}

// ParseContentEncoding extracts the outermost encoding from a Content-Encoding header.
// Handles comma-separated lists and whitespace (e.g., "gzip, br" or "gzip ").
// Returns the encoding normalized to lowercase, or "" when none (or "identity") is set.
func ParseContentEncoding(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}

	// The last encoding was applied last and must be removed first.
	parts := strings.Split(header, ",")
	encoding := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if encoding == "identity" {
		return ""
	}
	return encoding
}

// NewDecompressor wraps r with a decoder for encoding. An empty encoding
// returns r unchanged; an unknown one is an error.
func NewDecompressor(encoding string, r io.Reader) (io.ReadCloser, error) {
	switch encoding {
	case "":
		return io.NopCloser(r), nil
	case EncodingGzip, "x-gzip":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gr, nil
	case EncodingBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case EncodingZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedCompression, encoding)
	}
}

// nopWriteCloser adapts an io.Writer for uncompressed output.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// newCompressor wraps w with an encoder for encoding. Close must be called
// to flush the compressed stream; it does not close w.
func newCompressor(encoding string, w io.Writer) (io.WriteCloser, error) {
	switch encoding {
	case "":
		return nopWriteCloser{w}, nil
	case EncodingGzip:
		return gzip.NewWriter(w), nil
	case EncodingBrotli:
		return brotli.NewWriter(w), nil
	case EncodingZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedCompression, encoding)
	}
}
