package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Source is an electricity generation method, or the synthetic All toggle.
type Source string

const (
	Biofuel Source = "biofuel"
	Coal    Source = "coal"
	Gas     Source = "gas"
	Hydro   Source = "hydro"
	Nuclear Source = "nuclear"
	Oil     Source = "oil"
	Solar   Source = "solar"
	Wind    Source = "wind"

	// All is the meta toggle covering every known source.
	All Source = "all"
)

// NumSources is the number of real generation sources.
const NumSources = 8

// KnownSources lists the generation sources in their canonical order.
var KnownSources = [NumSources]Source{Biofuel, Coal, Gas, Hydro, Nuclear, Oil, Solar, Wind}

// Index returns the position of s in KnownSources, or -1 for All and
// unknown sources.
func (s Source) Index() int {
	for i, k := range KnownSources {
		if k == s {
			return i
		}
	}
	return -1
}

// ParseSource resolves a source id, including "all".
func ParseSource(id string) (Source, bool) {
	s := Source(strings.ToLower(strings.TrimSpace(id)))
	if s == All || s.Index() >= 0 {
		return s, true
	}
	return "", false
}

// Unit selects between absolute and per-capita quantities.
type Unit int

const (
	Absolute Unit = iota
	PerCapita
)

// String returns the unit name used in the API.
func (u Unit) String() string {
	if u == PerCapita {
		return "per-capita"
	}
	return "absolute"
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "absolute", "abs":
		*u = Absolute
	case "per-capita", "per_capita", "percapita", "perc":
		*u = PerCapita
	default:
		return fmt.Errorf("unknown unit %q", b)
	}
	return nil
}

// YearSpan is an inclusive range of years.
type YearSpan struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies in the span.
func (s YearSpan) Contains(year int) bool {
	return year >= s.Min && year <= s.Max
}

// Len is the number of years in the span; zero for an inverted span.
func (s YearSpan) Len() int {
	if s.Max < s.Min {
		return 0
	}
	return s.Max - s.Min + 1
}

// RawRecord holds one country's inputs for one year. Every field may be
// missing.
type RawRecord struct {
	Population     Value
	ElectricityPct Value
	SourcePct      [NumSources]Value
}

// UnmarshalJSON reads the flat record layout
// {"population":…, "electricity_perc":…, "<source>_pct":…}.
// Unknown keys are ignored.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]Value
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = RawRecord{
		Population: fields["population"],
	}
	if v, ok := fields["electricity_perc"]; ok {
		r.ElectricityPct = v
	} else {
		r.ElectricityPct = fields["electricity_pct"]
	}
	for i, src := range KnownSources {
		r.SourcePct[i] = fields[string(src)+"_pct"]
	}
	return nil
}

// MarshalJSON writes the same flat layout UnmarshalJSON reads.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	fields := make(map[string]Value, NumSources+2)
	fields["population"] = r.Population
	fields["electricity_perc"] = r.ElectricityPct
	for i, src := range KnownSources {
		fields[string(src)+"_pct"] = r.SourcePct[i]
	}
	return json.Marshal(fields)
}

// Dataset is the immutable raw input: country code -> year -> record.
type Dataset struct {
	records map[string]map[int]RawRecord
}

// NewDataset wraps an already decoded record table.
func NewDataset(records map[string]map[int]RawRecord) *Dataset {
	if records == nil {
		records = map[string]map[int]RawRecord{}
	}
	return &Dataset{records: records}
}

// UnmarshalJSON decodes {"AUT": {"1985": {...}, ...}, ...}.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode dataset: %w", err)
	}
	records := make(map[string]map[int]RawRecord, len(raw))
	for country, years := range raw {
		byYear := make(map[int]RawRecord, len(years))
		for key, rec := range years {
			year, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil {
				return fmt.Errorf("country %s: invalid year %q: %w", country, key, err)
			}
			byYear[year] = rec
		}
		records[country] = byYear
	}
	d.records = records
	return nil
}

// MarshalJSON encodes the dataset with string year keys.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]RawRecord, len(d.records))
	for country, years := range d.records {
		byYear := make(map[string]RawRecord, len(years))
		for year, rec := range years {
			byYear[strconv.Itoa(year)] = rec
		}
		out[country] = byYear
	}
	return json.Marshal(out)
}

// Countries returns the country codes in sorted order.
func (d *Dataset) Countries() []string {
	if d == nil {
		return nil
	}
	codes := make([]string, 0, len(d.records))
	for code := range d.records {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Record returns the record for (country, year), if any.
func (d *Dataset) Record(country string, year int) (RawRecord, bool) {
	if d == nil {
		return RawRecord{}, false
	}
	rec, ok := d.records[country][year]
	return rec, ok
}

// Span returns the smallest span covering every year in the dataset.
func (d *Dataset) Span() (YearSpan, bool) {
	var span YearSpan
	found := false
	if d == nil {
		return span, false
	}
	for _, years := range d.records {
		for year := range years {
			if !found || year < span.Min {
				span.Min = year
			}
			if !found || year > span.Max {
				span.Max = year
			}
			found = true
		}
	}
	return span, found
}

// Len returns the number of countries.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// NameMap maps country codes to display names.
type NameMap map[string]string

// Name returns the display name for code, falling back to the code itself.
func (m NameMap) Name(code string) string {
	if name, ok := m[code]; ok && name != "" {
		return name
	}
	return code
}
