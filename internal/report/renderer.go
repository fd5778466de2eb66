// Package report renders aggregated survey analytics into static HTML pages
// and PNG charts. Rendering is a pure mapping from a Summary to documents:
// no statistics are recomputed here.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"os"
	"path/filepath"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes the static report pages for one pipeline run.
type Renderer struct {
	logger    *slog.Logger
	templates *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"f2":  formatFloat(2),
		"f3":  formatFloat(3),
		"pct": formatPct,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{logger: logger, templates: tmpl}, nil
}

// pageContext is the data handed to every template execution.
type pageContext struct {
	Title string
	S     *Summary
	Q     *QuestionPage
}

// Render writes every report page into dir and returns the file names
// written, index first.
func (r *Renderer) Render(dir string, s *Summary) ([]string, error) {
	pages := []struct {
		template string
		file     string
		title    string
		question *QuestionPage
	}{
		{"index.html", "index.html", "Course Evaluation Report", nil},
		{"demographics.html", "demographics.html", "Demographics", nil},
		{"performance.html", "performance.html", "Performance", nil},
		{"evaluation.html", "evaluation.html", "Evaluation", nil},
		{"findings.html", "findings.html", "Findings", nil},
	}
	for i := range s.Questions {
		q := &s.Questions[i]
		pages = append(pages, struct {
			template string
			file     string
			title    string
			question *QuestionPage
		}{"question.html", q.Page, q.Title, q})
	}

	written := make([]string, 0, len(pages))
	for _, page := range pages {
		ctx := pageContext{Title: page.title, S: s, Q: page.question}
		if err := r.renderPage(filepath.Join(dir, page.file), page.template, ctx); err != nil {
			return nil, fmt.Errorf("render %s: %w", page.file, err)
		}
		written = append(written, page.file)
	}

	r.logger.Info("report pages rendered", "dir", dir, "pages", len(written))
	return written, nil
}

func (r *Renderer) renderPage(path, name string, ctx pageContext) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.templates.ExecuteTemplate(f, name, ctx)
}

func formatFloat(prec int) func(float64) string {
	return func(v float64) string {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "-"
		}
		return fmt.Sprintf("%.*f", prec, v)
	}
}

func formatPct(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", v)
}
