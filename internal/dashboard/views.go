package dashboard

import (
	"energydash/internal/aggregate"
	"energydash/internal/colorscale"
	"energydash/internal/models"
	"energydash/internal/selection"
	"energydash/internal/transition"
)

// CountryFill is one map region's color under the current selection.
type CountryFill struct {
	Code  string       `json:"code"`
	Name  string       `json:"name"`
	Value models.Value `json:"value"`
	Text  string       `json:"text"`
	Color string       `json:"color"`
}

// MapView colors every country by its filtered sum for the selected year.
type MapView struct {
	Year   int               `json:"year"`
	Unit   models.Unit       `json:"unit"`
	Domain colorscale.Domain `json:"domain"`
	Fills  []CountryFill     `json:"fills"`
}

// LegendView is the heat-map gradient with its end labels.
type LegendView struct {
	Unit    models.Unit       `json:"unit"`
	Label   string            `json:"label"`
	Domain  colorscale.Domain `json:"domain"`
	Stops   []colorscale.Stop `json:"stops"`
	MaxText string            `json:"max_text"`
	MinText string            `json:"min_text"`
}

// StackSegment is a transition segment with its display text and fill.
type StackSegment struct {
	transition.Segment
	Color string `json:"color"`
	Title string `json:"title"`
}

// StackBar is one year's stacked bar.
type StackBar struct {
	Year     int            `json:"year"`
	Selected bool           `json:"selected"`
	Total    models.Value   `json:"total"`
	Segments []StackSegment `json:"segments"`
}

// StackView is one full redraw of the continental stacked chart.
type StackView struct {
	Unit     models.Unit       `json:"unit"`
	Year     int               `json:"year"`
	Layout   transition.Layout `json:"layout"`
	Max      models.Value      `json:"max"`
	MaxText  string            `json:"max_text"`
	BarWidth float64           `json:"bar_width"`
	Bars     []StackBar        `json:"bars"`
}

// HoverBarView is a hover bar with its label and fill.
type HoverBarView struct {
	aggregate.HoverBar
	Color string `json:"color"`
	Text  string `json:"text"`
}

// HoverView is the country hover panel ready for display.
type HoverView struct {
	Country        string         `json:"country"`
	Name           string         `json:"name"`
	Unit           models.Unit    `json:"unit"`
	Year           int            `json:"year"`
	Max            float64        `json:"max"`
	MaxText        string         `json:"max_text"`
	HalfMaxText    string         `json:"half_max_text"`
	Bars           []HoverBarView `json:"bars"`
	Total          models.Value   `json:"total"`
	TotalText      string         `json:"total_text"`
	Population     models.Value   `json:"population"`
	PopulationText string         `json:"population_text"`
}

// Toggle is one button of the source selector.
type Toggle struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
	Color  string `json:"color"`
}

// ToggleView lists the selector buttons, "all" first, then per-capita.
type ToggleView struct {
	Sources   []Toggle `json:"sources"`
	PerCapita Toggle   `json:"per_capita"`
}

// State bundles the selection and everything drawn from it.
type State struct {
	Selection selection.Snapshot `json:"selection"`
	Toggles   ToggleView         `json:"toggles"`
	Map       MapView            `json:"map"`
	Legend    LegendView         `json:"legend"`
}

// Capture is one consistent read for static exports.
type Capture struct {
	State  State       `json:"state"`
	Stack  StackView   `json:"stack"`
	Hovers []HoverView `json:"hovers"`
}
