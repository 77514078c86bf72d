// Package charts renders dashboard views as ECharts pages and snippets and
// as static PNG images.
package charts

import (
	"energydash/internal/colorscale"
	"energydash/internal/models"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartGenerator renders dashboard views.
type ChartGenerator struct {
	// Width and Height size the PNG images in pixels.
	Width  int
	Height int
}

// NewChartGenerator returns a generator producing 1200x480 images.
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{Width: 1200, Height: 480}
}

// drawingColor converts a palette color name or hex code for go-chart.
// Unknown names render gray.
func drawingColor(name string) drawing.Color {
	c, err := colorscale.Resolve(name)
	if err != nil {
		return drawing.Color{R: 128, G: 128, B: 128, A: 255}
	}
	r, g, b := c.Clamped().RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}

// scaled converts a raw value to display units, reporting false for
// missing values.
func scaled(v models.Value, divisor float64) (float64, bool) {
	n, ok := v.Get()
	if !ok {
		return 0, false
	}
	return n / divisor, true
}
