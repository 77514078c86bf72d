// Package dashboard owns the selection, the aggregator and the stack
// transition cache, and turns them into the views the map, legend, stack
// chart and hover panel draw. All mutations and redraws go through one
// mutex, so requests behave like events on a single loop.
package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"energydash/internal/aggregate"
	"energydash/internal/colorscale"
	"energydash/internal/format"
	"energydash/internal/logger"
	"energydash/internal/metrics"
	"energydash/internal/models"
	"energydash/internal/selection"
	"energydash/internal/transition"
)

// ErrUnknownCountry is returned for hover requests on codes the store does
// not know.
var ErrUnknownCountry = errors.New("unknown country")

// LegendStops is the number of gradient stops in the heat legend.
const LegendStops = 10

// Dashboard is the single owner of mutable dashboard state.
type Dashboard struct {
	mu     sync.Mutex
	store  *metrics.Store
	names  models.NameMap
	sel    *selection.State
	agg    *aggregate.Aggregator
	cache  *transition.Cache
	layout transition.Layout
	log    *logger.Logger
}

// New builds a dashboard over store with every source selected, absolute
// mode and year selected.
func New(store *metrics.Store, names models.NameMap, year int, log *logger.Logger) (*Dashboard, error) {
	span := store.Span()
	sel, err := selection.New(span, year)
	if err != nil {
		return nil, fmt.Errorf("failed to create selection: %w", err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	layout := transition.DefaultLayout
	return &Dashboard{
		store:  store,
		names:  names,
		sel:    sel,
		agg:    aggregate.New(store, sel),
		cache:  transition.New(span, layout.Baseline()),
		layout: layout,
		log:    log.WithComponent("dashboard"),
	}, nil
}

// Replace swaps in a rebuilt store and name map. The selection and the
// transition cache are kept so the next redraw animates from what was last
// shown. The store's span must match the current one.
func (d *Dashboard) Replace(store *metrics.Store, names models.NameMap) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if store.Span() != d.sel.Span() {
		return fmt.Errorf("cannot replace store: span %d..%d differs from %d..%d",
			store.Span().Min, store.Span().Max, d.sel.Span().Min, d.sel.Span().Max)
	}
	d.store = store
	d.names = names
	d.agg = aggregate.New(store, d.sel)
	d.log.Info("metrics store replaced", logger.Fields{"countries": len(store.Countries())})
	return nil
}

// Span returns the selectable years.
func (d *Dashboard) Span() models.YearSpan {
	return d.sel.Span()
}

// Layout returns the stack chart geometry.
func (d *Dashboard) Layout() transition.Layout {
	return d.layout
}

// Selection returns a copy of the current selection.
func (d *Dashboard) Selection() selection.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sel.Snapshot()
}

// ToggleSource flips the source named id ("all" included).
func (d *Dashboard) ToggleSource(id string) (selection.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	src, ok := models.ParseSource(id)
	if !ok {
		return d.sel.Snapshot(), fmt.Errorf("%w: %q", selection.ErrUnknownSource, id)
	}
	if err := d.sel.ToggleSource(src); err != nil {
		return d.sel.Snapshot(), err
	}
	d.log.Debug("source toggled", logger.Fields{"source": string(src), "active": d.sel.IsActive(src)})
	return d.sel.Snapshot(), nil
}

// ToggleMode switches between absolute and per-capita display.
func (d *Dashboard) ToggleMode() selection.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sel.ToggleMode()
	d.log.Debug("mode toggled", logger.Fields{"mode": d.sel.Mode().String()})
	return d.sel.Snapshot()
}

// SetYear selects a year inside the span.
func (d *Dashboard) SetYear(year int) (selection.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.sel.SetYear(year); err != nil {
		return d.sel.Snapshot(), err
	}
	d.log.Debug("year selected", logger.Fields{"year": year})
	return d.sel.Snapshot(), nil
}

// heatScale fixes the map scale over [0, MaxCountrySum(mode)].
func (d *Dashboard) heatScale(unit models.Unit) *colorscale.HeatScale {
	return colorscale.BuildHeatScale(colorscale.Domain{Min: 0, Max: d.agg.MaxCountrySum(unit)})
}

// Map returns the country fills for the current selection.
func (d *Dashboard) Map() MapView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mapView()
}

func (d *Dashboard) mapView() MapView {
	unit, year := d.sel.Mode(), d.sel.Year()
	scale := d.heatScale(unit)
	countries := d.store.Countries()
	fills := make([]CountryFill, 0, len(countries))
	for _, code := range countries {
		sum := d.agg.CountrySum(code, unit, year, false)
		fills = append(fills, CountryFill{
			Code:  code,
			Name:  d.names.Name(code),
			Value: sum,
			Text:  format.ValueText(sum, unit, true),
			Color: colorscale.ColorForValue(sum, scale),
		})
	}
	return MapView{Year: year, Unit: unit, Domain: scale.Domain(), Fills: fills}
}

// Legend returns the heat legend gradient with n stops.
func (d *Dashboard) Legend(n int) LegendView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.legendView(n)
}

func (d *Dashboard) legendView(n int) LegendView {
	if n <= 0 {
		n = LegendStops
	}
	unit := d.sel.Mode()
	scale := d.heatScale(unit)
	domain := scale.Domain()
	_, label := format.Scale(unit)
	return LegendView{
		Unit:    unit,
		Label:   label,
		Domain:  domain,
		Stops:   scale.Stops(n),
		MaxText: format.ValueText(models.Some(domain.Max), unit, true),
		MinText: strconv.FormatFloat(domain.Min, 'f', 1, 64),
	}
}

// Stack performs one redraw of the stacked chart: every year's segments
// with the geometry they animate from and to. The transition cache
// advances as a side effect, so calling Stack twice without a selection
// change yields frames that no longer move.
func (d *Dashboard) Stack() StackView {
	d.mu.Lock()
	defer d.mu.Unlock()
	view := d.stackView(d.cache.Redraw)
	d.log.Debug("stack redrawn", logger.Fields{"unit": view.Unit.String(), "years": len(view.Bars)})
	return view
}

// StackValues lays out the stacked chart like Stack but leaves the
// transition cache alone. Static renderers use it so the next Stack still
// animates from what the painter last drew.
func (d *Dashboard) StackValues() StackView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stackView(d.cache.View)
}

func (d *Dashboard) stackView(pass func(func(*transition.Pass))) StackView {
	unit, selected := d.sel.Mode(), d.sel.Year()
	span := d.sel.Span()
	max := d.agg.MaxContinentalTotal(unit)

	view := StackView{
		Unit:     unit,
		Year:     selected,
		Layout:   d.layout,
		Max:      max,
		MaxText:  format.ValueText(max, unit, true),
		BarWidth: d.layout.BarWidth(span),
		Bars:     make([]StackBar, 0, span.Len()),
	}

	pass(func(p *transition.Pass) {
		for year := span.Min; year <= span.Max; year++ {
			value := func(src models.Source) models.Value {
				return d.agg.ContinentalSourceTotal(src, unit, year, false)
			}
			segments := p.StackYear(d.layout, span, year, max, value)

			bar := StackBar{Year: year, Selected: year == selected}
			var total models.Sum
			for _, s := range segments {
				total.Add(s.Value)
				bar.Segments = append(bar.Segments, StackSegment{
					Segment: s,
					Color:   colorscale.SourceColor(s.Source),
					Title:   string(s.Source) + ": " + format.ValueText(s.Value, unit, true),
				})
			}
			bar.Total = total.Value()
			view.Bars = append(view.Bars, bar)
		}
	})
	return view
}

// Hover returns the hover panel for a country in the selected year and
// mode. Figures ignore the source filter.
func (d *Dashboard) Hover(code string) (HoverView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.store.Has(code) {
		return HoverView{}, fmt.Errorf("%w: %q", ErrUnknownCountry, code)
	}
	return d.hoverView(code), nil
}

func (d *Dashboard) hoverView(code string) HoverView {
	unit := d.sel.Mode()
	p := d.agg.Hover(code, unit, d.sel.Year())
	bars := make([]HoverBarView, 0, len(p.Bars))
	for _, b := range p.Bars {
		bars = append(bars, HoverBarView{
			HoverBar: b,
			Color:    colorscale.SourceColor(b.Source),
			Text:     format.ValueText(b.Value, unit, false),
		})
	}
	return HoverView{
		Country:        code,
		Name:           d.names.Name(code),
		Unit:           unit,
		Year:           p.Year,
		Max:            p.Max,
		MaxText:        format.ValueText(models.Some(p.Max), unit, true),
		HalfMaxText:    format.ValueText(models.Some(p.HalfMax), unit, true),
		Bars:           bars,
		Total:          p.Total,
		TotalText:      format.ValueText(p.Total, unit, true),
		Population:     p.Population,
		PopulationText: format.PopulationText(p.Population),
	}
}

// Toggles returns the selector buttons with their current colors.
func (d *Dashboard) Toggles() ToggleView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.toggleView()
}

func (d *Dashboard) toggleView() ToggleView {
	sources := make([]Toggle, 0, models.NumSources+1)
	for _, src := range append([]models.Source{models.All}, models.KnownSources[:]...) {
		active := d.sel.IsActive(src)
		sources = append(sources, Toggle{
			ID:     string(src),
			Label:  string(src),
			Active: active,
			Color:  colorscale.ToggleColor(src, active),
		})
	}
	perCapita := d.sel.Mode() == models.PerCapita
	return ToggleView{
		Sources: sources,
		PerCapita: Toggle{
			ID:     "per-capita",
			Label:  "Per Capita",
			Active: perCapita,
			Color:  colorscale.PerCapitaToggleColor(perCapita),
		},
	}
}

// State returns the selection with the map, legend and toggles drawn from
// it in one consistent read.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateView()
}

func (d *Dashboard) stateView() State {
	return State{
		Selection: d.sel.Snapshot(),
		Toggles:   d.toggleView(),
		Map:       d.mapView(),
		Legend:    d.legendView(LegendStops),
	}
}

// Capture reads the state, the stack values and the hover panels of the
// countries pick chooses from the map, all under one lock, so a toggle
// cannot land between them. The transition cache is not advanced.
func (d *Dashboard) Capture(pick func(MapView) []string) Capture {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := Capture{State: d.stateView(), Stack: d.stackView(d.cache.View)}
	if pick != nil {
		for _, code := range pick(c.State.Map) {
			if d.store.Has(code) {
				c.Hovers = append(c.Hovers, d.hoverView(code))
			}
		}
	}
	return c
}

// Name returns the display name of a country code.
func (d *Dashboard) Name(code string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.names.Name(code)
}
