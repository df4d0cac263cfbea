package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/doeshing/medilogic/assets"
	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// Renderer produces result fragments and printable reports.
type Renderer struct {
	templates *template.Template
	empty     string
	now       func() time.Time
}

type fragmentData struct {
	Rows       []domain.AnalysisResultRow
	Chart      ChartLayout
	CapturedAt string
	Source     string
	Disclaimer string
}

type reportData struct {
	Title    string
	Fragment template.HTML
}

// NewRenderer parses the embedded fragment and report templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(assets.Templates, "templates/fragment.tmpl", "templates/report.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	// The notice is static, so it is rendered once.
	var empty bytes.Buffer
	if err := tmpl.ExecuteTemplate(&empty, "empty", domain.MsgNoMatches); err != nil {
		return nil, fmt.Errorf("execute empty template: %w", err)
	}
	return &Renderer{templates: tmpl, empty: empty.String(), now: time.Now}, nil
}

// WithClock overrides the capture-time clock.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Render builds the table, chart and metadata block for rows. An empty slice
// yields the "no matches" notice only.
func (r *Renderer) Render(rows []domain.AnalysisResultRow) (domain.Fragment, error) {
	if len(rows) == 0 {
		return r.RenderEmpty(), nil
	}

	rows = domain.CloneRows(rows)
	capturedAt := r.now().UTC()
	var buf bytes.Buffer
	err := r.templates.ExecuteTemplate(&buf, "fragment", fragmentData{
		Rows:       rows,
		Chart:      Layout(rows),
		CapturedAt: capturedAt.Format(domain.TimestampFormat),
		Source:     domain.ReportSource,
		Disclaimer: domain.ReportDisclaimer,
	})
	if err != nil {
		return domain.Fragment{}, fmt.Errorf("execute fragment template: %w", err)
	}

	return domain.Fragment{
		Markup:     buf.String(),
		Rows:       rows,
		CapturedAt: capturedAt,
	}, nil
}

// RenderEmpty returns the "no matches" notice.
func (r *Renderer) RenderEmpty() domain.Fragment {
	return domain.Fragment{
		Markup:     r.empty,
		Empty:      true,
		Rows:       []domain.AnalysisResultRow{},
		CapturedAt: r.now().UTC(),
	}
}

// Report wraps a rendered fragment into a standalone printable document. It
// reads only the fragment markup.
func (r *Renderer) Report(title string, fragment domain.Fragment) ([]byte, error) {
	if !fragment.Rendered() {
		return nil, fmt.Errorf("nothing to export: no results have been rendered")
	}
	var buf bytes.Buffer
	err := r.templates.ExecuteTemplate(&buf, "report", reportData{
		Title:    title,
		Fragment: template.HTML(fragment.Markup),
	})
	if err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

var _ ports.ResultRenderer = (*Renderer)(nil)
