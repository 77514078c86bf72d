package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"energydash/internal/colorscale"
	"energydash/internal/dashboard"
	"energydash/internal/format"
	"energydash/internal/transition"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// StackPage renders the continental stacked chart as a standalone ECharts
// page, one series per source in stacking order.
func (cg *ChartGenerator) StackPage(w io.Writer, view dashboard.StackView) error {
	exp, label := format.Scale(view.Unit)
	divisor := math.Pow10(exp)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Electricity generation by source",
			Theme:     types.ThemeWesteros,
			Width:     "1000px",
			Height:    "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Electricity generation by source",
			Subtitle: fmt.Sprintf("%s, selected year %d", view.Unit, view.Year),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Bottom: "0"}),
		charts.WithYAxisOpts(opts.YAxis{Name: label}),
	)

	years := make([]string, 0, len(view.Bars))
	for _, b := range view.Bars {
		years = append(years, strconv.Itoa(b.Year))
	}
	bar.SetXAxis(years)

	for i, src := range transition.StackOrder() {
		data := make([]opts.BarData, 0, len(view.Bars))
		for _, b := range view.Bars {
			d := opts.BarData{Name: strconv.Itoa(b.Year), Value: "-"}
			if i < len(b.Segments) {
				if v, ok := scaled(b.Segments[i].Value, divisor); ok {
					d.Value = v
				}
			}
			data = append(data, d)
		}
		bar.AddSeries(string(src), data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "total"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorscale.SourceColor(src)}),
		)
	}

	return bar.Render(w)
}

// StackPageHTML is StackPage into a string.
func (cg *ChartGenerator) StackPageHTML(view dashboard.StackView) (string, error) {
	var buf bytes.Buffer
	if err := cg.StackPage(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render stack page: %w", err)
	}
	return buf.String(), nil
}
