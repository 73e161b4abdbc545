// Package catalog holds the weighted unit size catalog and its seeded picker.
//
// Sizes are identified by a type tag (XS through XL). Width runs along the
// row; depth is shared by every size so rows stay straight. Draws come from
// an explicit *rand.Rand; the package never touches the global source.
package catalog

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
)

// Standard row-wise widths in meters.
var StandardWidths = map[string]float64{
	"XS": 1.0,
	"S":  1.5,
	"M":  2.0,
	"L":  2.5,
	"XL": 3.0,
}

// DefaultDistribution is the default relative mix of unit types.
func DefaultDistribution() map[string]float64 {
	return map[string]float64{"XS": 10, "S": 25, "M": 30, "L": 25, "XL": 10}
}

// Size is one unit footprint.
type Size struct {
	Type  string  `json:"type"`
	Width float64 `json:"width"` // along the row
	Depth float64 `json:"depth"` // across the row
}

// Area returns width * depth.
func (s Size) Area() float64 { return s.Width * s.Depth }

// Entry is a size with its relative weight.
type Entry struct {
	Size
	Weight float64 `json:"weight"`
}

// Catalog is an immutable weighted set of sizes.
type Catalog struct {
	entries []Entry
	cum     []float64
	total   float64
}

// New builds a catalog from a type->weight distribution. Types without a
// standard width are returned in unknown and left out, as are non-positive
// weights. Type names match case-insensitively.
func New(dist map[string]float64, depth float64) (*Catalog, []string) {
	c := &Catalog{}
	var unknown []string
	for typ, w := range dist {
		name := strings.ToUpper(strings.TrimSpace(typ))
		width, ok := StandardWidths[name]
		if !ok {
			unknown = append(unknown, typ)
			continue
		}
		if w <= 0 {
			continue
		}
		c.entries = append(c.entries, Entry{Size: Size{Type: name, Width: width, Depth: depth}, Weight: w})
	}
	slices.Sort(unknown)

	// Map iteration order is random; sort so draws are reproducible.
	slices.SortFunc(c.entries, func(a, b Entry) int {
		if r := cmp.Compare(a.Width, b.Width); r != 0 {
			return r
		}
		return cmp.Compare(a.Type, b.Type)
	})
	for _, e := range c.entries {
		c.total += e.Weight
		c.cum = append(c.cum, c.total)
	}
	return c, unknown
}

// Len returns the number of sizes.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns the sizes ordered by width.
func (c *Catalog) Entries() []Entry { return slices.Clone(c.entries) }

// Pick draws a size with probability proportional to its weight.
// ok is false for an empty catalog.
func (c *Catalog) Pick(rng *rand.Rand) (Size, bool) {
	if len(c.entries) == 0 {
		return Size{}, false
	}
	x := rng.Float64() * c.total
	i, _ := slices.BinarySearchFunc(c.cum, x, func(cum, target float64) int {
		if cum <= target {
			return -1
		}
		return 1
	})
	return c.entries[min(i, len(c.entries)-1)].Size, true
}

// LargestFitting returns the widest size no wider than maxWidth.
func (c *Catalog) LargestFitting(maxWidth float64) (Size, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Width <= maxWidth+1e-9 {
			return c.entries[i].Size, true
		}
	}
	return Size{}, false
}

// MinWidth returns the narrowest width, or zero for an empty catalog.
func (c *Catalog) MinWidth() float64 {
	if len(c.entries) == 0 {
		return 0
	}
	return c.entries[0].Width
}

// NewRand returns the deterministic generator used for size draws.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
