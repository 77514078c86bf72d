package reports

import (
	"fmt"
	"sort"
	"strings"

	"energydash/internal/dashboard"
	"energydash/internal/models"
	"energydash/internal/selection"

	"github.com/MakeNowJust/heredoc"
)

// SummaryMarkdown describes a dashboard state: the selection, the legend
// range and the top countries by filtered generation. top <= 0 lists every
// country with data.
func SummaryMarkdown(state dashboard.State, top int) string {
	sel := state.Selection

	var b strings.Builder
	b.WriteString(heredoc.Docf(`
		# Electricity generation, %d

		| | |
		|---|---|
		| Mode | %s |
		| Sources | %s |
		| Scale | %s to %s |

		## Top countries

	`, sel.Year, modeName(sel.Mode), activeSources(sel), state.Legend.MinText, state.Legend.MaxText))

	fills := TopCountries(state.Map, top)
	if len(fills) == 0 {
		b.WriteString("No country has data for this year.\n")
		return b.String()
	}

	b.WriteString("| # | Country | Code | Generation |\n|---|---|---|---|\n")
	for i, f := range fills {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, tableCell(f.Name), tableCell(f.Code), tableCell(f.Text))
	}
	return b.String()
}

// tableCell escapes the column separator so a name cannot split its row.
func tableCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// TopCountries returns the countries with data ordered by value, largest
// first, at most n when n is positive.
func TopCountries(m dashboard.MapView, n int) []dashboard.CountryFill {
	fills := make([]dashboard.CountryFill, 0, len(m.Fills))
	for _, f := range m.Fills {
		if !f.Value.IsNone() {
			fills = append(fills, f)
		}
	}
	sort.SliceStable(fills, func(i, j int) bool {
		return fills[i].Value.Or(0) > fills[j].Value.Or(0)
	})
	if n > 0 && n < len(fills) {
		fills = fills[:n]
	}
	return fills
}

func modeName(u models.Unit) string {
	if u == models.PerCapita {
		return "per capita"
	}
	return "absolute"
}

func activeSources(sel selection.Snapshot) string {
	if sel.All {
		return "all"
	}
	var on []string
	for _, src := range models.KnownSources {
		if sel.Sources[src] {
			on = append(on, string(src))
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ", ")
}
