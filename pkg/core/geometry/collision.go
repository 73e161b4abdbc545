package geometry

import "math"

// PointInRect reports whether p lies inside r or on its boundary.
func PointInRect(p Point, r Rect) bool {
	return p.X >= r.MinX-Tolerance && p.X <= r.MaxX+Tolerance &&
		p.Y >= r.MinY-Tolerance && p.Y <= r.MaxY+Tolerance
}

// RectsOverlap reports whether a and b share a region of positive area.
// Rectangles that only touch along an edge or a corner do not overlap.
func RectsOverlap(a, b Rect) bool {
	return a.MinX < b.MaxX-Tolerance && b.MinX < a.MaxX-Tolerance &&
		a.MinY < b.MaxY-Tolerance && b.MinY < a.MaxY-Tolerance
}

// SegmentsIntersect reports whether s and t share at least one point.
func SegmentsIntersect(s, t Segment) bool {
	d1 := orient(t.A, t.B, s.A)
	d2 := orient(t.A, t.B, s.B)
	d3 := orient(s.A, s.B, t.A)
	d4 := orient(s.A, s.B, t.B)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(t, s.A):
		return true
	case d2 == 0 && onSegment(t, s.B):
		return true
	case d3 == 0 && onSegment(s, t.A):
		return true
	case d4 == 0 && onSegment(s, t.B):
		return true
	}
	return false
}

// SegmentIntersectsRect reports whether any point of s lies inside r or on
// its boundary.
func SegmentIntersectsRect(s Segment, r Rect) bool {
	if PointInRect(s.A, r) || PointInRect(s.B, r) {
		return true
	}
	if !boundsTouch(s.Bound(), r) {
		return false
	}
	for _, e := range r.Edges() {
		if SegmentsIntersect(s, e) {
			return true
		}
	}
	return false
}

// PointSegmentDistance returns the shortest distance from p to s.
func PointSegmentDistance(p Point, s Segment) float64 {
	d := s.B.Sub(s.A)
	l2 := d.Dot(d)
	if l2 < Tolerance*Tolerance {
		return Dist(p, s.A)
	}
	t := math.Max(0, math.Min(1, p.Sub(s.A).Dot(d)/l2))
	return Dist(p, s.At(t))
}

// orient returns the signed area of the triangle abc, snapped to zero inside
// the tolerance band so near-collinear triples are treated as collinear.
func orient(a, b, c Point) float64 {
	v := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(v) < Tolerance*Tolerance {
		return 0
	}
	return v
}

// onSegment reports whether a point already known to be collinear with s lies
// within its extent.
func onSegment(s Segment, p Point) bool {
	return PointInRect(p, s.Bound())
}

func boundsTouch(a, b Rect) bool {
	return a.MinX <= b.MaxX+Tolerance && b.MinX <= a.MaxX+Tolerance &&
		a.MinY <= b.MaxY+Tolerance && b.MinY <= a.MaxY+Tolerance
}
