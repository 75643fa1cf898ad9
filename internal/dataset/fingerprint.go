package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"

	"github.com/Belphemur/ShowCleaner/internal/models"
)

// Fingerprint returns a SHA-256 hex digest of the header and records of ds.
// Two datasets with the same content share a fingerprint regardless of the
// file they came from or its compression.
func Fingerprint(ds *models.Dataset) string {
	h := sha256.New()
	writeRow(h, ds.Header)
	for _, r := range ds.Records {
		writeRow(h, r.Fields)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeRow length-prefixes the row and each field so no two distinct rows
// hash the same byte stream.
func writeRow(w io.Writer, fields []string) {
	io.WriteString(w, strconv.Itoa(len(fields))+";")
	for _, f := range fields {
		io.WriteString(w, strconv.Itoa(len(f))+":")
		io.WriteString(w, f)
	}
}
