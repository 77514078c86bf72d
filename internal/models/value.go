package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a nullable quantity. The zero Value is None, meaning "no data",
// which is distinct from Some(0).
type Value struct {
	v     float64
	valid bool
}

// None is the missing value.
var None = Value{}

// Some wraps a present value.
func Some(v float64) Value {
	return Value{v: v, valid: true}
}

// Get returns the wrapped number and whether it is present.
func (x Value) Get() (float64, bool) {
	return x.v, x.valid
}

// IsNone reports whether the value is missing.
func (x Value) IsNone() bool {
	return !x.valid
}

// Or returns the wrapped number, or def when missing.
func (x Value) Or(def float64) float64 {
	if !x.valid {
		return def
	}
	return x.v
}

// Mul returns x*y, or None if either operand is None.
func (x Value) Mul(y Value) Value {
	if !x.valid || !y.valid {
		return None
	}
	return Some(x.v * y.v)
}

// Div returns x/k; None stays None.
func (x Value) Div(k float64) Value {
	if !x.valid {
		return None
	}
	return Some(x.v / k)
}

// String renders the number, or "null" when missing.
func (x Value) String() string {
	if !x.valid {
		return "null"
	}
	return strconv.FormatFloat(x.v, 'g', -1, 64)
}

// MarshalJSON encodes None as null. NaN and infinities have no JSON form and
// are encoded as null too.
func (x Value) MarshalJSON() ([]byte, error) {
	if !x.valid || math.IsNaN(x.v) || math.IsInf(x.v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(x.v, 'g', -1, 64)), nil
}

// UnmarshalJSON accepts a number or null.
func (x *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*x = None
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", data, err)
	}
	*x = Some(f)
	return nil
}

// Sum accumulates values with null propagation: it stays None until the
// first present addend, after which missing addends are skipped.
// The zero Sum is ready to use.
type Sum struct {
	total Value
}

// Add folds v into the sum.
func (s *Sum) Add(v Value) {
	n, ok := v.Get()
	if !ok {
		return
	}
	if !s.total.valid {
		s.total = Some(n)
		return
	}
	s.total.v += n
}

// Value returns the accumulated total.
func (s Sum) Value() Value {
	return s.total
}

// Max tracks the largest present value. The zero Max is None.
type Max struct {
	best Value
}

// Add folds v into the maximum. NaN is ignored.
func (m *Max) Add(v Value) {
	n, ok := v.Get()
	if !ok || math.IsNaN(n) {
		return
	}
	if !m.best.valid || n > m.best.v {
		m.best = Some(n)
	}
}

// Value returns the maximum seen so far.
func (m Max) Value() Value {
	return m.best
}

// Linspace returns steps evenly spaced values from min to max inclusive.
func Linspace(min, max float64, steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	if steps == 1 {
		return []float64{min}
	}
	vals := make([]float64, steps)
	span := max - min
	for i := range vals {
		vals[i] = span/float64(steps-1)*float64(i) + min
	}
	return vals
}
