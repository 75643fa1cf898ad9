package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Belphemur/ShowCleaner/internal/models"
)

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"rating": func(f models.NullableFloat) string {
		if !f.Valid() {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", float64(f))
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Cleaned dataset summary</title></head>
<body>
<h1>Cleaned dataset summary</h1>
<dl id="counts">
  <dt>Original rows</dt><dd id="original">{{.Summary.OriginalCount}}</dd>
  <dt>Cleaned rows</dt><dd id="cleaned">{{.Summary.CleanedCount}}</dd>
  <dt>Rows removed</dt><dd id="removed">{{.Summary.RemovedCount}}</dd>
  <dt>Average rating</dt><dd id="mean-rating">{{rating .Summary.MeanRating}}</dd>
</dl>
<h2>Missing values</h2>
<table id="missing">
{{- range .Summary.Missing}}
  <tr{{if .AllMissing}} class="all-missing"{{end}}><th>{{.Column}}</th><td>{{.Count}}</td></tr>
{{- end}}
</table>
{{- range .Tables}}
<h2>{{.Title}}</h2>
<table id="{{.ID}}">
{{- range .Entries}}
  <tr><th>{{.Value}}</th><td>{{.Count}}</td></tr>
{{- end}}
</table>
{{- end}}
</body>
</html>
`))

type htmlTable struct {
	ID      string
	Title   string
	Entries []models.FrequencyEntry
}

// RenderHTML writes the summary as a standalone HTML page.
func RenderHTML(w io.Writer, s *models.Summary, opts TextOptions) error {
	return summaryTemplate.Execute(w, struct {
		Summary *models.Summary
		Tables  []htmlTable
	}{
		Summary: s,
		Tables: []htmlTable{
			{ID: "networks", Title: "Top networks", Entries: Top(s.Networks, opts.TopN)},
			{ID: "types", Title: "Show types", Entries: s.Types},
			{ID: "languages", Title: "Top languages", Entries: Top(s.Languages, opts.TopN)},
		},
	})
}
