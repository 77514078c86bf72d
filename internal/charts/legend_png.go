package charts

import (
	"fmt"
	"io"

	"energydash/internal/dashboard"
	"energydash/internal/format"
	"energydash/internal/models"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// LegendPNG renders the heat legend as a row of equal bars, one per
// gradient stop, labelled with the stop value in display units.
func (cg *ChartGenerator) LegendPNG(w io.Writer, view dashboard.LegendView) error {
	if len(view.Stops) == 0 {
		return fmt.Errorf("legend has no stops")
	}

	bars := make([]chart.Value, 0, len(view.Stops))
	for _, s := range view.Stops {
		c := drawingColor(s.Color)
		bars = append(bars, chart.Value{
			Value: 1,
			Label: format.ValueText(models.Some(s.Value), view.Unit, false),
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		})
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Heat scale (%s)", view.Label),
		TitleStyle: chart.Style{FontSize: 14, FontColor: drawing.ColorBlack},
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Width:      cg.Width / 2,
		Height:     160,
		BarWidth:   (cg.Width/2 - 80) / len(bars),
		BarSpacing: 0,
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render legend: %w", err)
	}
	return nil
}
