// Package aggregate answers the dashboard's read queries: per-source
// values under the active filter, per-country and continental sums, and
// the maxima that fix the chart scales.
//
// Every sum uses models.Sum, so an aggregate with no present addend is
// None rather than zero.
package aggregate

import (
	"math"
	"sync"

	"energydash/internal/metrics"
	"energydash/internal/models"
	"energydash/internal/selection"
)

// Aggregator combines a metrics Store with a selection. The selection only
// supplies the source filter; unit and year are explicit arguments.
type Aggregator struct {
	store *metrics.Store
	sel   *selection.State

	mu           sync.Mutex
	maxCountry   [2]*float64
	maxContinent [2]*models.Value
}

// New returns an aggregator over store filtered by sel.
func New(store *metrics.Store, sel *selection.State) *Aggregator {
	return &Aggregator{store: store, sel: sel}
}

// Store returns the underlying metrics store.
func (a *Aggregator) Store() *metrics.Store {
	return a.store
}

// SourceValue returns the derived value of src for (country, year). A
// source filtered out by the selection yields Some(0), not None, unless
// override is set.
func (a *Aggregator) SourceValue(country string, src models.Source, unit models.Unit, year int, override bool) models.Value {
	if !override && !a.sel.IsActive(src) {
		return models.Some(0)
	}
	return a.store.Source(country, year, src, unit)
}

// CountrySum sums SourceValue over every known source.
func (a *Aggregator) CountrySum(country string, unit models.Unit, year int, override bool) models.Value {
	var sum models.Sum
	for _, src := range models.KnownSources {
		sum.Add(a.SourceValue(country, src, unit, year, override))
	}
	return sum.Value()
}

// ContinentalSourceTotal sums SourceValue for src across every country in
// the given year. The selection's own year is not consulted or changed.
func (a *Aggregator) ContinentalSourceTotal(src models.Source, unit models.Unit, year int, override bool) models.Value {
	var sum models.Sum
	for _, country := range a.store.Countries() {
		sum.Add(a.SourceValue(country, src, unit, year, override))
	}
	return sum.Value()
}

// MaxCountrySum is the largest unfiltered CountrySum over all countries and
// years. It ignores the source filter so the heat-map domain stays fixed
// while sources are toggled. Zero when nothing has data.
func (a *Aggregator) MaxCountrySum(unit models.Unit) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cached := a.maxCountry[unit]; cached != nil {
		return *cached
	}

	var best models.Max
	span := a.store.Span()
	for _, country := range a.store.Countries() {
		for year := span.Min; year <= span.Max; year++ {
			best.Add(a.CountrySum(country, unit, year, true))
		}
	}
	v := best.Value().Or(0)
	a.maxCountry[unit] = &v
	return v
}

// MaxContinentalTotal is the largest yearly continental total across every
// source, unfiltered. None when no year has data.
func (a *Aggregator) MaxContinentalTotal(unit models.Unit) models.Value {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cached := a.maxContinent[unit]; cached != nil {
		return *cached
	}

	var best models.Max
	span := a.store.Span()
	for year := span.Min; year <= span.Max; year++ {
		best.Add(a.YearTotal(unit, year, true))
	}
	v := best.Value()
	a.maxContinent[unit] = &v
	return v
}

// YearTotal sums ContinentalSourceTotal over every known source.
func (a *Aggregator) YearTotal(unit models.Unit, year int, override bool) models.Value {
	var sum models.Sum
	for _, src := range models.KnownSources {
		sum.Add(a.ContinentalSourceTotal(src, unit, year, override))
	}
	return sum.Value()
}

// MaxSourceValue is the largest unfiltered single-source value for a
// country and year, None if no source has data.
func (a *Aggregator) MaxSourceValue(country string, unit models.Unit, year int) models.Value {
	var best models.Max
	for _, src := range models.KnownSources {
		best.Add(a.SourceValue(country, src, unit, year, true))
	}
	return best.Value()
}

// HasChart reports whether v can scale a chart. None, zero and NaN all mean
// "no chart".
func HasChart(v models.Value) bool {
	n, ok := v.Get()
	return ok && n != 0 && !math.IsNaN(n)
}
