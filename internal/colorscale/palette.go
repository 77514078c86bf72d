package colorscale

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"energydash/internal/models"
)

const (
	// NoDataColor fills regions whose value is missing.
	NoDataColor = "lightgray"
	// InactiveColor fills a switched-off toggle.
	InactiveColor = "#4E4E4E"
	// PerCapitaOnColor fills the per-capita toggle when it is on.
	PerCapitaOnColor = "green"
)

// sourceColors is the fixed palette for sources and the all toggle.
var sourceColors = map[models.Source]string{
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

// namedColors resolves the CSS color keywords used by the palettes.
// "darkpurple" is not a CSS keyword; it maps to a deep purple.
var namedColors = map[string]string{
	"black":      "#000000",
	"white":      "#ffffff",
	"green":      "#008000",
	"orange":     "#ffa500",
	"yellow":     "#ffff00",
	"blue":       "#0000ff",
	"lightblue":  "#add8e6",
	"darkorange": "#ff8c00",
	"darkred":    "#8b0000",
	"darkpurple": "#301934",
	"lightgray":  "#d3d3d3",
	"darkgrey":   "#a9a9a9",
	"red":        "#ff0000",
}

// SourceColor returns the palette entry for src, or InactiveColor for an
// unknown source.
func SourceColor(src models.Source) string {
	if c, ok := sourceColors[src]; ok {
		return c
	}
	return InactiveColor
}

// ToggleColor is the fill for a source toggle button.
func ToggleColor(src models.Source, active bool) string {
	if !active {
		return InactiveColor
	}
	return SourceColor(src)
}

// PerCapitaToggleColor is the fill for the per-capita button.
func PerCapitaToggleColor(on bool) string {
	if on {
		return PerCapitaOnColor
	}
	return InactiveColor
}

// SourcePalette returns a copy of the source palette.
func SourcePalette() map[models.Source]string {
	out := make(map[models.Source]string, len(sourceColors))
	for k, v := range sourceColors {
		out[k] = v
	}
	return out
}

// Resolve parses a hex color or one of the palette's CSS keywords.
func Resolve(name string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if hex, ok := namedColors[key]; ok {
		key = hex
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("unknown color %q: %w", name, err)
	}
	return c, nil
}

// MustResolve is Resolve for the package's own constants.
func MustResolve(name string) colorful.Color {
	c, err := Resolve(name)
	if err != nil {
		panic(err)
	}
	return c
}
