package charts

import (
	"math"

	"energydash/internal/dashboard"
	"energydash/internal/format"
)

// HoverSnippet renders a country's per-source breakdown as a bar chart
// snippet. Bars are in display units; missing values are left empty.
func (cg *ChartGenerator) HoverSnippet(view dashboard.HoverView) (ChartSnippet, error) {
	exp, label := format.Scale(view.Unit)
	divisor := math.Pow10(exp)

	names := make([]string, 0, len(view.Bars))
	data := make([]interface{}, 0, len(view.Bars))
	for _, b := range view.Bars {
		names = append(names, string(b.Source))
		item := map[string]interface{}{
			"value":     "-",
			"itemStyle": map[string]interface{}{"color": b.Color},
		}
		if v, ok := scaled(b.Value, divisor); ok {
			item["value"] = v
		}
		data = append(data, item)
	}

	option := map[string]interface{}{
		"title": map[string]interface{}{
			"text":    view.Name,
			"subtext": "Total: " + view.TotalText + "   Population: " + view.PopulationText,
		},
		"tooltip": map[string]interface{}{"trigger": "axis"},
		"xAxis":   map[string]interface{}{"type": "category", "data": names},
		"yAxis": map[string]interface{}{
			"type": "value",
			"name": label,
			"max":  view.Max / divisor,
		},
		"series": []interface{}{
			map[string]interface{}{
				"type":  "bar",
				"name":  view.Name,
				"data":  data,
				"label": map[string]interface{}{"show": true, "position": "top"},
			},
		},
	}
	return newSnippet("chart-hover-"+view.Country, view.Name, "300px", option)
}
