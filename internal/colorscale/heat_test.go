package colorscale

import (
	"math"
	"strings"
	"testing"

	"energydash/internal/models"
)

func TestHeatScaleEndpoints(t *testing.T) {
	h := BuildHeatScale(Domain{Min: 0, Max: 500})
	if h.Constant() {
		t.Fatal("non-degenerate domain built a constant scale")
	}

	if got := h.Color(0); got != "#301934" {
		t.Errorf("Color(min) = %s, want the first ramp color #301934", got)
	}
	if got := h.Color(500); got != "#8b0000" {
		t.Errorf("Color(max) = %s, want the last ramp color #8b0000", got)
	}
	// Out-of-domain values clamp to the ends.
	if got := h.Color(-10); got != h.Color(0) {
		t.Errorf("Color(-10) = %s, want %s", got, h.Color(0))
	}
	if got := h.Color(1e9); got != h.Color(500) {
		t.Errorf("Color(1e9) = %s, want %s", got, h.Color(500))
	}
}

func TestHeatScaleIsSmooth(t *testing.T) {
	h := BuildHeatScale(Domain{Min: 0, Max: 1})
	prev := h.At(0)
	for i := 1; i <= 1000; i++ {
		c := h.At(float64(i) / 1000)
		if d := math.Abs(c.R-prev.R) + math.Abs(c.G-prev.G) + math.Abs(c.B-prev.B); d > 0.05 {
			t.Fatalf("color jump of %v at step %d", d, i)
		}
		prev = c
	}

	// The basis spline approximates rather than interpolates interior
	// colors: the midpoint is not exactly the middle ramp color.
	mid := h.Color(0.5)
	if mid == "#ffff00" {
		t.Errorf("midpoint equals the yellow control point; spline should smooth it")
	}
	if !strings.HasPrefix(mid, "#") || len(mid) != 7 {
		t.Errorf("Color() = %q, want #rrggbb", mid)
	}
}

func TestHeatScaleDegenerateDomain(t *testing.T) {
	domains := []Domain{
		{Min: 0, Max: 0},
		{Min: 5, Max: 2},
		{Min: 0, Max: math.NaN()},
		{Min: 0, Max: math.Inf(1)},
	}
	for _, d := range domains {
		h := BuildHeatScale(d)
		if !h.Constant() {
			t.Errorf("domain %+v should build a constant scale", d)
		}
		got := h.Domain()
		if got.Max-got.Min != 1 {
			t.Errorf("domain %+v widened to %+v, want width 1", d, got)
		}
		first := h.Color(0)
		for _, v := range []float64{-1, 0, 0.5, 1, 1e6} {
			if c := h.Color(v); c != first {
				t.Errorf("domain %+v: Color(%v) = %s, want constant %s", d, v, c, first)
			}
		}
	}
}

func TestColorForValue(t *testing.T) {
	h := BuildHeatScale(Domain{Min: 0, Max: 10})
	if got := ColorForValue(models.None, h); got != NoDataColor {
		t.Errorf("ColorForValue(None) = %s, want %s", got, NoDataColor)
	}
	if got := ColorForValue(models.Some(0), h); got != h.Color(0) {
		t.Errorf("ColorForValue(0) = %s, want %s", got, h.Color(0))
	}
	if got := ColorForValue(models.Some(math.NaN()), h); got != NoDataColor {
		t.Errorf("ColorForValue(NaN) = %s, want %s", got, NoDataColor)
	}
}

func TestStops(t *testing.T) {
	h := BuildHeatScale(Domain{Min: 0, Max: 90})
	stops := h.Stops(10)
	if len(stops) != 10 {
		t.Fatalf("len(stops) = %d, want 10", len(stops))
	}
	if stops[0].Offset != 0 || stops[9].Offset != 100 {
		t.Errorf("offsets span %v..%v, want 0..100", stops[0].Offset, stops[9].Offset)
	}
	if stops[0].Value != 0 || math.Abs(stops[9].Value-90) > 1e-9 {
		t.Errorf("values span %v..%v, want 0..90", stops[0].Value, stops[9].Value)
	}
	if math.Abs(stops[1].Value-10) > 1e-9 {
		t.Errorf("stops[1].Value = %v, want 10", stops[1].Value)
	}
	for _, s := range stops {
		if s.Color != h.Color(s.Value) {
			t.Errorf("stop %v color %s, want %s", s.Value, s.Color, h.Color(s.Value))
		}
	}
}
