package charts

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"energydash/internal/colorscale"
	"energydash/internal/dashboard"
	"energydash/internal/format"
	"energydash/internal/transition"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// stackRect is one filled segment in data coordinates.
type stackRect struct {
	x0, x1 float64
	y0, y1 float64
	color  drawing.Color
}

// stackSeries draws stacked rectangles. go-chart's own stacked bars
// normalize each bar to 100%, which loses the absolute scale.
type stackSeries struct {
	Rects []stackRect
}

func (ss stackSeries) GetName() string           { return "stack" }
func (ss stackSeries) GetStyle() chart.Style     { return chart.Style{} }
func (ss stackSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (ss stackSeries) Len() int                  { return len(ss.Rects) }
func (ss stackSeries) Validate() error           { return nil }
func (ss stackSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	for _, rc := range ss.Rects {
		x0 := canvasBox.Left + xrange.Translate(rc.x0)
		x1 := canvasBox.Left + xrange.Translate(rc.x1)
		y0 := canvasBox.Bottom - yrange.Translate(rc.y0)
		y1 := canvasBox.Bottom - yrange.Translate(rc.y1)
		if y1 == y0 {
			continue
		}
		r.SetFillColor(rc.color)
		r.SetStrokeWidth(0)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.Close()
		r.Fill()
	}
}

// legendOnlySeries populates the chart legend without drawing anything.
type legendOnlySeries struct {
	name  string
	color drawing.Color
}

func (ls legendOnlySeries) GetName() string { return ls.name }
func (ls legendOnlySeries) GetStyle() chart.Style {
	return chart.Style{FillColor: ls.color, StrokeColor: ls.color}
}
func (ls legendOnlySeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (ls legendOnlySeries) Len() int                  { return 0 }
func (ls legendOnlySeries) Validate() error           { return nil }
func (ls legendOnlySeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
}

// StackPNG renders the stacked chart's target geometry as a PNG. Heights
// are in display units with the y axis fixed to the chart maximum.
func (cg *ChartGenerator) StackPNG(w io.Writer, view dashboard.StackView) error {
	if len(view.Bars) == 0 {
		return fmt.Errorf("stack view has no years")
	}
	exp, label := format.Scale(view.Unit)
	divisor := math.Pow10(exp)

	max := 1.0
	if m, ok := scaled(view.Max, divisor); ok && m > 0 {
		max = m
	}

	series := stackSeries{}
	minYear, maxYear := math.MaxInt, math.MinInt
	for _, b := range view.Bars {
		if b.Year < minYear {
			minYear = b.Year
		}
		if b.Year > maxYear {
			maxYear = b.Year
		}
		x := float64(b.Year)
		offset := 0.0
		for _, s := range b.Segments {
			v, ok := scaled(s.Value, divisor)
			if !ok || v <= 0 {
				continue
			}
			series.Rects = append(series.Rects, stackRect{
				x0: x - 0.45, x1: x + 0.45,
				y0: offset, y1: offset + v,
				color: drawingColor(colorscale.SourceColor(s.Source)),
			})
			offset += v
		}
	}

	ticks := make([]chart.Tick, 0, len(view.Bars))
	for year := minYear; year <= maxYear; year++ {
		text := ""
		if (year-minYear)%5 == 0 || year == maxYear {
			text = strconv.Itoa(year)
		}
		ticks = append(ticks, chart.Tick{Value: float64(year), Label: text})
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("Electricity generation by source (%s)", view.Unit),
		TitleStyle: chart.Style{FontSize: 16, FontColor: drawing.ColorBlack},
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 40, Bottom: 80}},
		Width:      cg.Width,
		Height:     cg.Height,
		XAxis: chart.XAxis{
			Name:  "Year",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: float64(minYear) - 0.5, Max: float64(maxYear) + 0.5},
		},
		YAxis: chart.YAxis{
			Name:           label,
			Range:          &chart.ContinuousRange{Min: 0, Max: max},
			GridMajorStyle: chart.Style{StrokeColor: drawing.Color{R: 230, G: 230, B: 230, A: 255}, StrokeWidth: 1},
		},
		Series: []chart.Series{series},
	}
	for _, src := range transition.StackOrder() {
		graph.Series = append(graph.Series, legendOnlySeries{name: string(src), color: drawingColor(colorscale.SourceColor(src))})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render stack chart: %w", err)
	}
	return nil
}
