package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/UnknownOlympus/cityscore/internal/score"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex     = "index"
	pageResult    = "result"
	pageCost      = "details_cost"
	pageAir       = "details_air"
	pageEducation = "details_education"
	pageSafety    = "details_safety"
	pageHealth    = "details_health"
)

var pageNames = []string{pageIndex, pageResult, pageCost, pageAir, pageEducation, pageSafety, pageHealth}

var templateFuncs = template.FuncMap{
	"score": func(s score.Score) string { return s.String() },
	"num":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"opt": func(v *float64) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
}

// parsePages parses every page together with the shared layout.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return pages, nil
}

// render executes a page into a buffer so that template errors never leave a partial response.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := h.pages[name]
	if !ok {
		h.log.ErrorContext(r.Context(), "Unknown page template", "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
