// Package transition keeps the previously rendered geometry of every
// stacked-bar segment so a painter can animate from the old rectangle to
// the new one.
package transition

import (
	"sync"

	"energydash/internal/models"
)

// Geometry is a segment's vertical placement in chart coordinates.
type Geometry struct {
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// Frame pairs the stored ("from") geometry with the new ("to") geometry.
type Frame struct {
	FromY      float64 `json:"from_y"`
	FromHeight float64 `json:"from_height"`
	ToY        float64 `json:"to_y"`
	ToHeight   float64 `json:"to_height"`
}

// Cache stores one Geometry per (year, source) in a flat table indexed by
// (year-min)*NumSources + source index. Cells start at zero height on the
// baseline.
type Cache struct {
	mu       sync.Mutex
	span     models.YearSpan
	baseline float64
	cells    []Geometry
}

// New returns a cache for span with every cell at rest on baseline.
func New(span models.YearSpan, baseline float64) *Cache {
	c := &Cache{span: span, baseline: baseline}
	c.cells = make([]Geometry, span.Len()*models.NumSources)
	c.reset()
	return c
}

func (c *Cache) reset() {
	for i := range c.cells {
		c.cells[i] = Geometry{Y: c.baseline, Height: 0}
	}
}

// Reset returns every cell to the baseline.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Cache) index(year int, src models.Source) (int, bool) {
	si := src.Index()
	if si < 0 || !c.span.Contains(year) {
		return 0, false
	}
	return (year-c.span.Min)*models.NumSources + si, true
}

// Peek returns the stored geometry without advancing it.
func (c *Cache) Peek(year int, src models.Source) Geometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index(year, src)
	if !ok {
		return Geometry{Y: c.baseline}
	}
	return c.cells[i]
}

// ReadAndAdvance returns the stored geometry as "from", stores the new one
// and returns it as "to". Cells outside the cache animate from the
// baseline and are not stored.
func (c *Cache) ReadAndAdvance(year int, src models.Source, newY, newHeight float64) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advance(year, src, newY, newHeight)
}

func (c *Cache) advance(year int, src models.Source, newY, newHeight float64) Frame {
	from := Geometry{Y: c.baseline}
	if i, ok := c.index(year, src); ok {
		from = c.cells[i]
		c.cells[i] = Geometry{Y: newY, Height: newHeight}
	}
	return Frame{FromY: from.Y, FromHeight: from.Height, ToY: newY, ToHeight: newHeight}
}

func (c *Cache) peek(year int, src models.Source, newY, newHeight float64) Frame {
	from := Geometry{Y: c.baseline}
	if i, ok := c.index(year, src); ok {
		from = c.cells[i]
	}
	return Frame{FromY: from.Y, FromHeight: from.Height, ToY: newY, ToHeight: newHeight}
}

// Pass is one redraw cycle with exclusive access to the cache.
type Pass struct {
	c        *Cache
	readOnly bool
}

// ReadAndAdvance is Cache.ReadAndAdvance within the pass. In a View pass
// the frame is computed the same way but the cell keeps its geometry.
func (p *Pass) ReadAndAdvance(year int, src models.Source, newY, newHeight float64) Frame {
	if p.readOnly {
		return p.c.peek(year, src, newY, newHeight)
	}
	return p.c.advance(year, src, newY, newHeight)
}

// Redraw runs fn while holding the cache, so one redraw's reads and writes
// never interleave with another's.
func (c *Cache) Redraw(fn func(p *Pass)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&Pass{c: c})
}

// View runs fn like Redraw but leaves every cell as it was. Renderers that
// never animate lay out through it so the painter keeps its "from" state.
func (c *Cache) View(fn func(p *Pass)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&Pass{c: c, readOnly: true})
}
