package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Belphemur/ShowCleaner/internal/apperrors"
	"github.com/Belphemur/ShowCleaner/internal/dataset"
	"github.com/Belphemur/ShowCleaner/internal/models"
	"github.com/Belphemur/ShowCleaner/internal/pipeline"
	"github.com/Belphemur/ShowCleaner/internal/report"
)

// Response headers carrying the figures of a clean request.
const (
	HeaderRowsOriginal    = "X-Rows-Original"
	HeaderRowsRemoved     = "X-Rows-Removed"
	HeaderExactDuplicates = "X-Exact-Duplicates"
	HeaderKeyDuplicates   = "X-Key-Duplicates"
	HeaderCache           = "X-Cache"
)

// readUpload decodes the request body as a dataset. The body may be
// compressed (Content-Encoding) and in any text encoding named by the
// "encoding" query parameter.
func (h *Handler) readUpload(c *gin.Context) (*models.Dataset, error) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxBodyBytes)
	defer body.Close()

	rc, err := dataset.NewDecompressor(dataset.ParseContentEncoding(c.GetHeader("Content-Encoding")), body)
	if err != nil {
		if errors.Is(err, dataset.ErrUnsupportedCompression) {
			return nil, err
		}
		return nil, apperrors.NewDataLoadError("upload", 0, err)
	}
	// The limit applies to the inflated text too, not only to the wire bytes.
	decoded := http.MaxBytesReader(c.Writer, rc, h.opts.MaxBodyBytes)
	defer decoded.Close()

	return dataset.Read(decoded, "upload", dataset.Options{Encoding: c.Query("encoding")})
}

func (h *Handler) keyColumn(c *gin.Context) string {
	if key := c.Query("key"); key != "" {
		return key
	}
	return h.opts.KeyColumn
}

// clean returns the deduplicated dataset as CSV.
func (h *Handler) clean(c *gin.Context) {
	ds, err := h.readUpload(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out, err := pipeline.Clean(ds, h.keyColumn(c), h.opts.Examples)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header(HeaderRowsOriginal, strconv.Itoa(out.Summary.OriginalCount))
	c.Header(HeaderRowsRemoved, strconv.Itoa(out.Summary.RemovedCount))
	c.Header(HeaderExactDuplicates, strconv.Itoa(out.ExactDuplicates))
	c.Header(HeaderKeyDuplicates, strconv.Itoa(out.KeyDuplicates))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := dataset.Write(c.Writer, out.Cleaned); err != nil {
		h.logger.Error().Err(err).Msg("Failed to stream cleaned dataset")
	}
}

// report returns the run summary as JSON, or as an HTML page with format=html.
// Results are cached by dataset fingerprint and key column.
func (h *Handler) report(c *gin.Context) {
	ds, err := h.readUpload(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	key := h.keyColumn(c)
	ctx := c.Request.Context()
	fingerprint := dataset.Fingerprint(ds)

	result, hit := h.reports.Get(ctx, fingerprint, key)
	if hit {
		c.Header(HeaderCache, "HIT")
	} else {
		started := time.Now()
		out, err := pipeline.Clean(ds, key, h.opts.Examples)
		if err != nil {
			h.writeError(c, err)
			return
		}
		result = out.Result(key)
		result.StartedAt = started.UTC()
		result.Duration = time.Since(started)
		h.reports.Put(ctx, result)
		c.Header(HeaderCache, "MISS")
	}

	if strings.EqualFold(c.Query("format"), "html") {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := report.RenderHTML(c.Writer, result.Summary, report.TextOptions{TopN: h.opts.TopN}); err != nil {
			h.logger.Error().Err(err).Msg("Failed to render HTML report")
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) listRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is disabled"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}
	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *Handler) getRun(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is disabled"})
		return
	}
	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// writeError maps err to a status code and a JSON body.
func (h *Handler) writeError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, dataset.ErrUnsupportedCompression):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, &apperrors.SchemaError{}):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, &apperrors.DataLoadError{}):
		status = http.StatusBadRequest
	case errors.Is(err, &apperrors.ErrNotFound{}):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		apperrors.Capture(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
