package transition

import (
	"math"

	"energydash/internal/models"
)

// Layout describes the stacked chart's view box.
type Layout struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	LegendOffset float64 `json:"legend_offset"`
	TopOffset    float64 `json:"top_offset"`
	BarFill      float64 `json:"bar_fill"`
}

// DefaultLayout is the 1000x100 strip used by the dashboard.
var DefaultLayout = Layout{
	Width:        1000,
	Height:       100,
	LegendOffset: 60,
	TopOffset:    10,
	BarFill:      0.9,
}

// ChartHeight is the drawable height below the top offset.
func (l Layout) ChartHeight() float64 {
	return l.Height - l.TopOffset
}

// Baseline is the y coordinate of the chart bottom.
func (l Layout) Baseline() float64 {
	return l.Height
}

// YearOffsets returns the left edge of every year's bar.
func (l Layout) YearOffsets(span models.YearSpan) []float64 {
	return models.Linspace(l.LegendOffset, l.Width, span.Len()+1)
}

// BarWidth is the width of one year's bar.
func (l Layout) BarWidth(span models.YearSpan) float64 {
	if span.Len() == 0 {
		return 0
	}
	return (l.Width - l.LegendOffset) / float64(span.Len()) * l.BarFill
}

// StackOrder is the painting order within a year, bottom segment first.
// Offsets accumulate along it, so it fixes each segment's position.
func StackOrder() []models.Source {
	order := make([]models.Source, 0, models.NumSources)
	for i := models.NumSources - 1; i >= 0; i-- {
		order = append(order, models.KnownSources[i])
	}
	return order
}

// Segment is one source's rectangle in one year's bar.
type Segment struct {
	Year   int           `json:"year"`
	Source models.Source `json:"source"`
	Value  models.Value  `json:"value"`
	X      float64       `json:"x"`
	Width  float64       `json:"width"`
	Frame  Frame         `json:"frame"`
}

// StackYear lays out one year's bar in StackOrder and advances each cell.
// value supplies the (filtered) continental total per source; max scales
// the bar. Missing values and a missing or non-positive max give zero
// height.
func (p *Pass) StackYear(l Layout, span models.YearSpan, year int, max models.Value, value func(models.Source) models.Value) []Segment {
	offsets := l.YearOffsets(span)
	x := l.LegendOffset
	if i := year - span.Min; i >= 0 && i < len(offsets) {
		x = offsets[i]
	}
	width := l.BarWidth(span)

	segments := make([]Segment, 0, models.NumSources)
	offset := 0.0
	for _, src := range StackOrder() {
		v := value(src)
		h := barHeight(v, max, l.ChartHeight())
		y := l.ChartHeight() - h - offset + l.TopOffset
		segments = append(segments, Segment{
			Year:   year,
			Source: src,
			Value:  v,
			X:      x,
			Width:  width,
			Frame:  p.ReadAndAdvance(year, src, y, h),
		})
		offset += h
	}
	return segments
}

func barHeight(v, max models.Value, chartHeight float64) float64 {
	n, ok := v.Get()
	m, mok := max.Get()
	if !ok || !mok || m <= 0 || math.IsNaN(n) || math.IsNaN(m) {
		return 0
	}
	return n / m * chartHeight
}
