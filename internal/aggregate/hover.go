package aggregate

import (
	"math"

	"energydash/internal/models"
)

// Hover panel geometry in its 100x75 view box.
const (
	hoverBarLeft   = 33.0
	hoverBarRight  = 90.0
	hoverBarArea   = 50.0
	hoverBarFill   = 0.8
	HoverMaxHeight = 20.0
	HoverBaseline  = 49.75
)

// HoverBar is one source's bar in the country hover panel.
type HoverBar struct {
	Source models.Source `json:"source"`
	Value  models.Value  `json:"value"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
}

// HoverPanel is the per-country breakdown shown when a map region is
// hovered. Every figure ignores the source filter.
type HoverPanel struct {
	Country    string       `json:"country"`
	Unit       models.Unit  `json:"unit"`
	Year       int          `json:"year"`
	Max        float64      `json:"max"`
	HalfMax    float64      `json:"half_max"`
	Bars       []HoverBar   `json:"bars"`
	Total      models.Value `json:"total"`
	Population models.Value `json:"population"`
}

// Hover builds the hover panel for a country. A max that cannot scale a
// chart is replaced by 1 so every bar has a finite height.
func (a *Aggregator) Hover(country string, unit models.Unit, year int) HoverPanel {
	max := 1.0
	if m := a.MaxSourceValue(country, unit, year); HasChart(m) {
		max, _ = m.Get()
	}

	offsets := models.Linspace(hoverBarLeft, hoverBarRight, models.NumSources+1)
	width := hoverBarArea / models.NumSources * hoverBarFill

	bars := make([]HoverBar, 0, models.NumSources)
	for i, src := range models.KnownSources {
		v := a.SourceValue(country, src, unit, year, true)
		h := v.Or(0) / max * HoverMaxHeight
		if math.IsNaN(h) {
			h = 0
		}
		bars = append(bars, HoverBar{
			Source: src,
			Value:  v,
			X:      offsets[i],
			Y:      HoverBaseline - h,
			Width:  width,
			Height: h,
		})
	}

	return HoverPanel{
		Country:    country,
		Unit:       unit,
		Year:       year,
		Max:        max,
		HalfMax:    max / 2,
		Bars:       bars,
		Total:      a.CountrySum(country, unit, year, true),
		Population: a.store.Population(country, year),
	}
}
