package render

import (
	"errors"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/doeshing/medilogic/internal/domain"
)

// ErrNoRows is returned when a chart is requested for an empty result.
var ErrNoRows = errors.New("no result rows to chart")

// ChartPNG draws the affinity chart as a PNG using the same bar geometry as
// the inline SVG.
func ChartPNG(w io.Writer, rows []domain.AnalysisResultRow) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	layout := Layout(rows)
	bars := make([]chart.Value, 0, len(layout.Bars))
	for _, bar := range layout.Bars {
		bars = append(bars, chart.Value{Value: float64(bar.Value), Label: bar.Label})
	}

	graph := chart.BarChart{
		Title:      "Affinity (%)",
		Width:      layout.Width + 96,
		Height:     layout.Height + 64,
		BarWidth:   layout.BarWidth,
		BarSpacing: barGap,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: domain.MinAffinity, Max: domain.MaxAffinity}},
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}
