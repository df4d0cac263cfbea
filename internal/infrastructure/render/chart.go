package render

import (
	"github.com/doeshing/medilogic/internal/domain"
)

// Chart geometry, in SVG user units.
const (
	chartWidth      = 640
	chartTopPad     = 24
	chartPlotHeight = 200
	chartLabelBand  = 32
	barGap          = 12
	minBarWidth     = 28
	labelRuneBudget = 14
	ellipsis        = "…"
)

// ChartBar is one bar of the affinity chart.
type ChartBar struct {
	X, Y          int
	Width, Height int
	CenterX       int
	ValueY        int
	LabelY        int
	Value         int
	Label         string
	Disease       string
}

// ChartLayout is the computed geometry of the affinity bar chart.
type ChartLayout struct {
	Width     int
	Height    int
	BaselineY int
	BarWidth  int
	Bars      []ChartBar
}

// Layout places one bar per row, in row order. Bars share the available
// width evenly but never get narrower than minBarWidth; the chart widens
// instead.
func Layout(rows []domain.AnalysisResultRow) ChartLayout {
	layout := ChartLayout{
		Width:     chartWidth,
		Height:    chartTopPad + chartPlotHeight + chartLabelBand,
		BaselineY: chartTopPad + chartPlotHeight,
	}
	n := len(rows)
	if n == 0 {
		return layout
	}

	layout.BarWidth = barWidth(n)
	if total := n*layout.BarWidth + (n-1)*barGap; total > layout.Width {
		layout.Width = total
	}

	layout.Bars = make([]ChartBar, 0, n)
	for i, row := range rows {
		value := domain.ClampAffinity(row.Affinity)
		height := barHeight(value)
		x := i * (layout.BarWidth + barGap)
		layout.Bars = append(layout.Bars, ChartBar{
			X:       x,
			Y:       layout.BaselineY - height,
			Width:   layout.BarWidth,
			Height:  height,
			CenterX: x + layout.BarWidth/2,
			ValueY:  layout.BaselineY - height - 6,
			LabelY:  layout.BaselineY + 18,
			Value:   value,
			Label:   truncateLabel(row.Disease),
			Disease: row.Disease,
		})
	}
	return layout
}

func barWidth(n int) int {
	if n <= 0 {
		return 0
	}
	width := (chartWidth - barGap*(n-1)) / n
	if width < minBarWidth {
		return minBarWidth
	}
	return width
}

func barHeight(value int) int {
	return (value*chartPlotHeight + domain.MaxAffinity/2) / domain.MaxAffinity
}

func truncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= labelRuneBudget {
		return name
	}
	return string(runes[:labelRuneBudget]) + ellipsis
}
