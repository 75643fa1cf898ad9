package dataset

import (
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// isUTF8Label reports whether label names UTF-8 (or is empty, which defaults to it).
func isUTF8Label(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}

// NewUTF8Reader wraps r so that it yields UTF-8 text.
//
// A leading byte order mark is always consumed (a UTF-16 BOM also switches
// decoding to UTF-16). For UTF-8 the bytes are passed through untouched so
// that invalid sequences can still be detected by the caller; any other WHATWG
// label (for example "windows-1252" or "iso-8859-2") is decoded with
// golang.org/x/net/html/charset.
func NewUTF8Reader(r io.Reader, label string) (io.Reader, error) {
	if !isUTF8Label(label) {
		decoded, err := charset.NewReaderLabel(label, r)
		if err != nil {
			return nil, err
		}
		r = decoded
	}
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop)), nil
}
