package format

import (
	"math"
	"testing"

	"energydash/internal/models"
)

func TestValueText(t *testing.T) {
	tests := []struct {
		name     string
		v        models.Value
		unit     models.Unit
		withUnit bool
		want     string
	}{
		{"absolute with unit", models.Some(2.5e9), models.Absolute, true, "2.5 PWh"},
		{"absolute bare", models.Some(2.5e9), models.Absolute, false, "2.5"},
		{"per-capita", models.Some(1234), models.PerCapita, true, "1.2 MWh"},
		{"exact half rounds to even", models.Some(1.25e9), models.Absolute, false, "1.2"},
		{"zero", models.Some(0), models.PerCapita, true, "0.0 MWh"},
		{"missing", models.None, models.Absolute, true, "NaN"},
		{"nan", models.Some(math.NaN()), models.Absolute, false, "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueText(tt.v, tt.unit, tt.withUnit); got != tt.want {
				t.Errorf("ValueText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPopulationText(t *testing.T) {
	tests := []struct {
		v    models.Value
		want string
	}{
		{models.Some(8_500), "8.5 thousands"},
		{models.Some(999_999), "1000.0 thousands"},
		{models.Some(1_000_000), "1.0 millions"},
		{models.Some(10_650_000), "10.7 millions"},
		{models.None, "NaN"},
	}
	for _, tt := range tests {
		if got := PopulationText(tt.v); got != tt.want {
			t.Errorf("PopulationText(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestScale(t *testing.T) {
	if exp, label := Scale(models.Absolute); exp != 9 || label != "PWh" {
		t.Errorf("Scale(absolute) = %d %s", exp, label)
	}
	if exp, label := Scale(models.PerCapita); exp != 3 || label != "MWh" {
		t.Errorf("Scale(per-capita) = %d %s", exp, label)
	}
}
