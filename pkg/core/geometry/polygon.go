package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Polygon is a simple closed outline. The closing edge from the last vertex
// back to the first is implicit.
type Polygon []Point

// Ring converts the polygon to a closed orb ring.
func (p Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p)+1)
	for _, v := range p {
		ring = append(ring, orb.Point{v.X, v.Y})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Valid reports whether the polygon has at least three vertices.
func (p Polygon) Valid() bool { return len(p) >= 3 }

// Bound returns the polygon's bounding rectangle.
func (p Polygon) Bound() Rect {
	b := p.Ring().Bound()
	return Rect{MinX: b.Min.X(), MinY: b.Min.Y(), MaxX: b.Max.X(), MaxY: b.Max.Y()}
}

// Contains reports whether pt lies inside the polygon.
func (p Polygon) Contains(pt Point) bool {
	if !p.Valid() {
		return false
	}
	return planar.RingContains(p.Ring(), orb.Point{pt.X, pt.Y})
}

// Edges returns the polygon's boundary segments including the closing edge.
func (p Polygon) Edges() []Segment {
	if len(p) < 2 {
		return nil
	}
	edges := make([]Segment, 0, len(p))
	for i := range p {
		edges = append(edges, Segment{A: p[i], B: p[(i+1)%len(p)]})
	}
	return edges
}

// Distance returns the distance from pt to the polygon boundary, or zero if
// pt is inside.
func (p Polygon) Distance(pt Point) float64 {
	if p.Contains(pt) {
		return 0
	}
	best := math.Inf(1)
	for _, e := range p.Edges() {
		best = math.Min(best, PointSegmentDistance(pt, e))
	}
	return best
}
