// Package metrics derives absolute and per-capita generation figures from
// the raw dataset. A Store is built once per dataset load and is read-only
// afterwards, so it can be shared between goroutines without locking.
package metrics

import (
	"energydash/internal/models"
)

// Record holds the derived quantities for one (country, year).
type Record struct {
	Population      models.Value
	ElectricityPerc models.Value
	ElectricityAbs  models.Value
	Abs             [models.NumSources]models.Value
	Perc            [models.NumSources]models.Value
}

type cellKey struct {
	country string
	year    int
}

// Store holds a Record for every country and every year in its span.
type Store struct {
	countries []string
	span      models.YearSpan
	records   map[cellKey]Record
}

// Build derives every (country, year, source) quantity in span. Years with
// no raw record produce all-missing Records; the function never fails.
func Build(ds *models.Dataset, span models.YearSpan) *Store {
	st := &Store{
		countries: ds.Countries(),
		span:      span,
		records:   make(map[cellKey]Record, ds.Len()*span.Len()),
	}
	for _, country := range st.countries {
		for year := span.Min; year <= span.Max; year++ {
			raw, _ := ds.Record(country, year)
			st.records[cellKey{country, year}] = derive(raw)
		}
	}
	return st
}

// derive applies the derivation rules:
//
//	electricity_abs = population * electricity_perc
//	<source>_abs    = <source>_pct * electricity_abs / 100
//	<source>_perc   = <source>_pct * electricity_perc / 100
//
// The per-capita figure is a share of a share and is not divided by
// population.
func derive(raw models.RawRecord) Record {
	rec := Record{
		Population:      raw.Population,
		ElectricityPerc: raw.ElectricityPct,
		ElectricityAbs:  raw.Population.Mul(raw.ElectricityPct),
	}
	for i, pct := range raw.SourcePct {
		rec.Abs[i] = pct.Mul(rec.ElectricityAbs).Div(100)
		rec.Perc[i] = pct.Mul(raw.ElectricityPct).Div(100)
	}
	return rec
}

// Countries returns the country codes in sorted order.
func (s *Store) Countries() []string {
	return s.countries
}

// Span returns the years the store covers.
func (s *Store) Span() models.YearSpan {
	return s.span
}

// Has reports whether country is part of the dataset.
func (s *Store) Has(country string) bool {
	_, ok := s.records[cellKey{country, s.span.Min}]
	return ok
}

// Record returns the derived record for (country, year). Unknown cells
// return an all-missing record.
func (s *Store) Record(country string, year int) Record {
	return s.records[cellKey{country, year}]
}

// Source returns a single derived source value in the given unit.
func (s *Store) Source(country string, year int, src models.Source, unit models.Unit) models.Value {
	i := src.Index()
	if i < 0 {
		return models.None
	}
	rec := s.records[cellKey{country, year}]
	if unit == models.PerCapita {
		return rec.Perc[i]
	}
	return rec.Abs[i]
}

// Electricity returns the overall electricity figure in the given unit:
// the absolute product for Absolute, the raw share for PerCapita.
func (s *Store) Electricity(country string, year int, unit models.Unit) models.Value {
	rec := s.records[cellKey{country, year}]
	if unit == models.PerCapita {
		return rec.ElectricityPerc
	}
	return rec.ElectricityAbs
}

// Population returns the raw population figure.
func (s *Store) Population(country string, year int) models.Value {
	return s.records[cellKey{country, year}].Population
}
