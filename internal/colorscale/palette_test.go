package colorscale

import (
	"testing"

	"energydash/internal/models"
)

func TestSourcePalette(t *testing.T) {
	want := map[models.Source]string{
		models.Biofuel: "green",
		models.Coal:    "#7C7C7D",
		models.Gas:     "#D0FDDB",
		models.Hydro:   "#0080FF",
		models.Nuclear: "orange",
		models.Oil:     "#B38E37",
		models.Solar:   "yellow",
		models.Wind:    "#00CCCC",
		models.All:     "white",
	}
	palette := SourcePalette()
	if len(palette) != len(want) {
		t.Errorf("palette has %d entries, want %d", len(palette), len(want))
	}
	for src, color := range want {
		if got := SourceColor(src); got != color {
			t.Errorf("SourceColor(%s) = %s, want %s", src, got, color)
		}
		if _, err := Resolve(palette[src]); err != nil {
			t.Errorf("palette color for %s does not resolve: %v", src, err)
		}
	}

	palette[models.Coal] = "pink"
	if SourceColor(models.Coal) != "#7C7C7D" {
		t.Error("SourcePalette must return a copy")
	}
}

func TestToggleColors(t *testing.T) {
	if got := ToggleColor(models.Hydro, true); got != "#0080FF" {
		t.Errorf("active hydro toggle = %s", got)
	}
	if got := ToggleColor(models.Hydro, false); got != InactiveColor {
		t.Errorf("inactive hydro toggle = %s", got)
	}
	if got := ToggleColor(models.All, true); got != "white" {
		t.Errorf("active all toggle = %s", got)
	}
	if PerCapitaToggleColor(true) != "green" || PerCapitaToggleColor(false) != InactiveColor {
		t.Error("unexpected per-capita toggle colors")
	}
	if SourceColor(models.Source("tidal")) != InactiveColor {
		t.Error("unknown source should fall back to the inactive color")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#7C7C7D", "#7c7c7d", false},
		{"orange", "#ffa500", false},
		{" LightGray ", "#d3d3d3", false},
		{"#fff", "#ffffff", false},
		{"chartreuse-ish", "", true},
	}
	for _, tt := range tests {
		c, err := Resolve(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Resolve(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && c.Hex() != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.in, c.Hex(), tt.want)
		}
	}
}
