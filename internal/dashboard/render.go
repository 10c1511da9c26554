package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/lueurxax/media-dashboard/internal/dataset"
	"github.com/lueurxax/media-dashboard/internal/platform/htmlutils"
)

const (
	fmtDateISO  = "2006-01-02"
	fmtDateTime = "2006-01-02 15:04"
	fmtFloat1   = "%.1f"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format(fmtDateTime)
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format(fmtDateISO)
	},
	"formatFloat": func(val float64) string {
		return fmt.Sprintf(fmtFloat1, val)
	},
	"truncate": htmlutils.Truncate,
	"isAll": func(v string) bool {
		return v == dataset.All
	},
}

// Renderer renders dashboard HTML templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a renderer for the embedded dashboard templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("dashboard").
		Funcs(templateFuncs).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render renders a named template.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	return nil
}

// RenderBytes renders a named template into memory.
func (r *Renderer) RenderBytes(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
