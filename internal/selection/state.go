// Package selection holds the dashboard's selection: the active source
// filter, the absolute/per-capita mode and the selected year.
package selection

import (
	"errors"
	"fmt"

	"energydash/internal/models"
)

var (
	// ErrUnknownSource is returned when toggling a source id that is neither a
	// known source nor "all".
	ErrUnknownSource = errors.New("unknown source")
	// ErrYearOutOfRange is returned by SetYear for years outside the span.
	ErrYearOutOfRange = errors.New("year out of range")
)

// State is the selection. It is mutated only through ToggleSource,
// ToggleMode and SetYear. The all flag is kept consistent with the
// per-source flags by ToggleSource.
type State struct {
	active [models.NumSources]bool
	all    bool
	mode   models.Unit
	year   int
	span   models.YearSpan
}

// New returns a selection with every source active, absolute mode and the
// given year.
func New(span models.YearSpan, year int) (*State, error) {
	if span.Len() == 0 {
		return nil, fmt.Errorf("empty year span %d..%d", span.Min, span.Max)
	}
	if !span.Contains(year) {
		return nil, fmt.Errorf("%w: %d not in %d..%d", ErrYearOutOfRange, year, span.Min, span.Max)
	}
	s := &State{all: true, mode: models.Absolute, year: year, span: span}
	for i := range s.active {
		s.active[i] = true
	}
	return s, nil
}

// ToggleSource flips one source, or every source when id is "all".
//
// Toggling all sets each source to the new all value. Switching a single
// source off clears all; switching one on sets all once every source is on.
func (s *State) ToggleSource(src models.Source) error {
	if src == models.All {
		s.all = !s.all
		for i := range s.active {
			s.active[i] = s.all
		}
		return nil
	}
	i := src.Index()
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSource, src)
	}
	s.active[i] = !s.active[i]
	if !s.active[i] {
		s.all = false
		return nil
	}
	for _, on := range s.active {
		if !on {
			return nil
		}
	}
	s.all = true
	return nil
}

// ToggleMode switches between absolute and per-capita.
func (s *State) ToggleMode() {
	if s.mode == models.PerCapita {
		s.mode = models.Absolute
	} else {
		s.mode = models.PerCapita
	}
}

// SetYear selects a year inside the span.
func (s *State) SetYear(year int) error {
	if !s.span.Contains(year) {
		return fmt.Errorf("%w: %d not in %d..%d", ErrYearOutOfRange, year, s.span.Min, s.span.Max)
	}
	s.year = year
	return nil
}

// IsActive reports whether src passes the filter. For All it reports the
// meta toggle.
func (s *State) IsActive(src models.Source) bool {
	if src == models.All {
		return s.all
	}
	i := src.Index()
	return i >= 0 && s.active[i]
}

// Mode returns the selected unit.
func (s *State) Mode() models.Unit { return s.mode }

// Year returns the selected year.
func (s *State) Year() int { return s.year }

// Span returns the selectable years.
func (s *State) Span() models.YearSpan { return s.span }

// Snapshot is a serializable copy of the selection.
type Snapshot struct {
	Sources   map[models.Source]bool `json:"sources"`
	All       bool                   `json:"all"`
	Mode      models.Unit            `json:"mode"`
	PerCapita bool                   `json:"per_capita"`
	Year      int                    `json:"year"`
	Span      models.YearSpan        `json:"span"`
}

// Snapshot copies the current selection.
func (s *State) Snapshot() Snapshot {
	sources := make(map[models.Source]bool, models.NumSources)
	for i, src := range models.KnownSources {
		sources[src] = s.active[i]
	}
	return Snapshot{
		Sources:   sources,
		All:       s.all,
		Mode:      s.mode,
		PerCapita: s.mode == models.PerCapita,
		Year:      s.year,
		Span:      s.span,
	}
}
