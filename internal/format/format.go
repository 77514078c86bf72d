// Package format renders dashboard quantities as display text.
package format

import (
	"math"
	"strconv"

	"energydash/internal/models"
)

// Scale returns the power-of-ten divisor exponent and unit label for a
// display mode. Absolute values are shown in PWh, per-capita in MWh.
func Scale(unit models.Unit) (exp int, label string) {
	if unit == models.PerCapita {
		return 3, "MWh"
	}
	return 9, "PWh"
}

// ValueText renders v scaled to the mode's unit with one decimal. Missing
// values render as "NaN".
func ValueText(v models.Value, unit models.Unit, withUnit bool) string {
	n, ok := v.Get()
	if !ok {
		return "NaN"
	}
	exp, label := Scale(unit)
	text := fixed1(n / math.Pow10(exp))
	if withUnit {
		text += " " + label
	}
	return text
}

// PopulationText renders a head count in thousands below one million and
// in millions otherwise.
func PopulationText(v models.Value) string {
	n, ok := v.Get()
	if !ok || math.IsNaN(n) {
		return "NaN"
	}
	if n < 1e6 {
		return fixed1(n/1e3) + " thousands"
	}
	return fixed1(n/1e6) + " millions"
}

func fixed1(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', 1, 64)
}
