// Package colorscale maps values to heat-map colors and holds the fixed
// source palette.
package colorscale

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"energydash/internal/models"
)

// HeatRamp is the color ramp of the heat map, low to high.
var HeatRamp = []string{"darkpurple", "blue", "lightblue", "yellow", "orange", "darkorange", "darkred"}

// Domain is a closed numeric interval.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Degenerate reports whether the domain cannot be normalized over.
func (d Domain) Degenerate() bool {
	if math.IsNaN(d.Min) || math.IsNaN(d.Max) || math.IsInf(d.Min, 0) || math.IsInf(d.Max, 0) {
		return true
	}
	return d.Max <= d.Min
}

// HeatScale is a sequential scale through HeatRamp with uniform B-spline
// interpolation of each RGB channel.
type HeatScale struct {
	domain   Domain
	constant bool
	r, g, b  func(float64) float64
}

// BuildHeatScale returns a scale over d. A degenerate domain is widened to
// [min, min+1] and every value maps to the ramp midpoint.
func BuildHeatScale(d Domain) *HeatScale {
	n := len(HeatRamp)
	rs, gs, bs := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, name := range HeatRamp {
		c := MustResolve(name)
		rs[i], gs[i], bs[i] = c.R, c.G, c.B
	}
	h := &HeatScale{domain: d, r: basis(rs), g: basis(gs), b: basis(bs)}
	if d.Degenerate() {
		lo := d.Min
		if math.IsNaN(lo) || math.IsInf(lo, 0) {
			lo = 0
		}
		h.domain = Domain{Min: lo, Max: lo + 1}
		h.constant = true
	}
	return h
}

// Domain returns the effective domain.
func (h *HeatScale) Domain() Domain {
	return h.domain
}

// Constant reports whether the scale was built from a degenerate domain.
func (h *HeatScale) Constant() bool {
	return h.constant
}

// normalize maps v into [0,1] space; values outside the domain are clamped
// by the spline.
func (h *HeatScale) normalize(v float64) float64 {
	if h.constant {
		return 0.5
	}
	return (v - h.domain.Min) / (h.domain.Max - h.domain.Min)
}

// At returns the color for v.
func (h *HeatScale) At(v float64) colorful.Color {
	t := h.normalize(v)
	return colorful.Color{R: h.r(t), G: h.g(t), B: h.b(t)}.Clamped()
}

// Color returns the hex color for v, or NoDataColor for NaN.
func (h *HeatScale) Color(v float64) string {
	if math.IsNaN(v) {
		return NoDataColor
	}
	return h.At(v).Hex()
}

// ColorForValue returns NoDataColor for a missing value and the scale's
// color otherwise.
func ColorForValue(v models.Value, h *HeatScale) string {
	n, ok := v.Get()
	if !ok {
		return NoDataColor
	}
	return h.Color(n)
}

// Stop is one gradient stop of the heat legend.
type Stop struct {
	Offset float64 `json:"offset"`
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
}

// Stops samples the scale at n evenly spaced domain values, paired with
// evenly spaced 0..100 percentage offsets.
func (h *HeatScale) Stops(n int) []Stop {
	values := models.Linspace(h.domain.Min, h.domain.Max, n)
	offsets := models.Linspace(0, 100, n)
	stops := make([]Stop, len(values))
	for i := range values {
		stops[i] = Stop{Offset: offsets[i], Value: values[i], Color: h.Color(values[i])}
	}
	return stops
}

// basis returns a uniform cubic B-spline through values over t in [0,1].
// The end segments use reflected phantom points so the curve starts at the
// first value and ends at the last.
func basis(values []float64) func(float64) float64 {
	n := len(values) - 1
	return func(t float64) float64 {
		var i int
		switch {
		case t <= 0 || math.IsNaN(t):
			t, i = 0, 0
		case t >= 1:
			t, i = 1, n-1
		default:
			i = int(math.Floor(t * float64(n)))
		}
		v1, v2 := values[i], values[i+1]
		v0 := 2*v1 - v2
		if i > 0 {
			v0 = values[i-1]
		}
		v3 := 2*v2 - v1
		if i < n-1 {
			v3 = values[i+2]
		}
		return splineSegment((t-float64(i)/float64(n))*float64(n), v0, v1, v2, v3)
	}
}

func splineSegment(t1, v0, v1, v2, v3 float64) float64 {
	t2 := t1 * t1
	t3 := t2 * t1
	return ((1-3*t1+3*t2-t3)*v0 +
		(4-6*t2+3*t3)*v1 +
		(1+3*t1+3*t2-3*t3)*v2 +
		t3*v3) / 6
}
