package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(
	template.New("pages").
		Funcs(template.FuncMap{
			"chart": inlineChart,
			"date": func(t time.Time) string { return t.Format("2006-01-02") },
			"f1":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
		}).
		ParseFS(templateFS, "templates/*.html"),
)

// Page names.
const (
	PageHome         = "home.html"
	PageContributors = "contributors.html"
	PageCommits      = "commits.html"
	PageError        = "error.html"
	PageIndex        = "index.html"
)

// ErrorData is the data of the error page.
type ErrorData struct {
	Status  int
	Title   string
	Message string
}

// IndexItem is one report of the standalone report index.
type IndexItem struct {
	Title string
	File  string
	Lines []string
	Note  string
}

// IndexData is the data of the standalone report index.
type IndexData struct {
	Repository string
	Generated  time.Time
	Items      []IndexItem
}

// Page executes the named page template.
func Page(w io.Writer, name string, data any) error {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render page %s: %w", name, err)
	}
	return nil
}

// inlineChart embeds a result's SVG into a page. Data-derived labels are
// escaped when the chart is built, which keeps the SVG safe to inline.
func inlineChart(res *domain.Result) template.HTML {
	if res == nil {
		return ""
	}
	svg, err := SVG(res)
	switch {
	case errors.Is(err, ErrNoData):
		return template.HTML(`<p class="empty">No data.</p>`)
	case err != nil:
		return template.HTML(`<p class="error">` + template.HTMLEscapeString(err.Error()) + `</p>`)
	}
	return template.HTML(svg)
}
