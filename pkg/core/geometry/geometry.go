package geometry

import (
	"fmt"
	"math"
)

// Tolerance absorbs floating point noise in geometric comparisons.
const Tolerance = 1e-6

// Point is a location in meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Dist returns the euclidean distance between a and b.
func Dist(a, b Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// Axis names one of the two coordinate axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// MarshalText encodes the axis as "x" or "y".
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes "x" or "y".
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "x", "X":
		*a = AxisX
	case "y", "Y":
		*a = AxisY
	default:
		return fmt.Errorf("invalid axis %q", b)
	}
	return nil
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// Segment is a straight wall piece between two endpoints.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Seg builds a segment from raw coordinates.
func Seg(x1, y1, x2, y2 float64) Segment {
	return Segment{A: Point{x1, y1}, B: Point{x2, y2}}
}

// Length returns the segment length.
func (s Segment) Length() float64 { return Dist(s.A, s.B) }

// Midpoint returns the segment midpoint.
func (s Segment) Midpoint() Point { return Point{(s.A.X + s.B.X) / 2, (s.A.Y + s.B.Y) / 2} }

// Direction returns the unit vector from A to B, or the zero point for a
// degenerate segment.
func (s Segment) Direction() Point {
	l := s.Length()
	if l < Tolerance {
		return Point{}
	}
	return s.B.Sub(s.A).Scale(1 / l)
}

// At returns the point at parameter t in [0,1] along the segment.
func (s Segment) At(t float64) Point {
	return Point{s.A.X + (s.B.X-s.A.X)*t, s.A.Y + (s.B.Y-s.A.Y)*t}
}

// Bound returns the axis-aligned bounding rectangle of the segment.
func (s Segment) Bound() Rect {
	return Rect{
		MinX: math.Min(s.A.X, s.B.X), MinY: math.Min(s.A.Y, s.B.Y),
		MaxX: math.Max(s.A.X, s.B.X), MaxY: math.Max(s.A.Y, s.B.Y),
	}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// RectXYWH builds a rectangle from its minimum corner and size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }
func (r Rect) Area() float64   { return r.Width() * r.Height() }

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool { return r.Width() <= Tolerance || r.Height() <= Tolerance }

// Center returns the rectangle center.
func (r Rect) Center() Point { return Point{(r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2} }

// Inflate grows the rectangle by d on every side. Negative d shrinks it.
func (r Rect) Inflate(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Span returns the rectangle's extent along axis.
func (r Rect) Span(a Axis) (lo, hi float64) {
	if a == AxisX {
		return r.MinX, r.MaxX
	}
	return r.MinY, r.MaxY
}

// Size returns the rectangle's length along axis.
func (r Rect) Size(a Axis) float64 {
	lo, hi := r.Span(a)
	return hi - lo
}

// Intersect returns the overlap of r and o. The result may be Empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		MinX: math.Max(r.MinX, o.MinX), MinY: math.Max(r.MinY, o.MinY),
		MaxX: math.Min(r.MaxX, o.MaxX), MaxY: math.Min(r.MaxY, o.MaxY),
	}
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX), MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX), MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Edges returns the four boundary segments: bottom, right, top, left.
func (r Rect) Edges() [4]Segment {
	return [4]Segment{
		Seg(r.MinX, r.MinY, r.MaxX, r.MinY),
		Seg(r.MaxX, r.MinY, r.MaxX, r.MaxY),
		Seg(r.MaxX, r.MaxY, r.MinX, r.MaxY),
		Seg(r.MinX, r.MaxY, r.MinX, r.MinY),
	}
}

// AxisRect builds a rectangle from a span along axis a and a span along the
// other axis.
func AxisRect(a Axis, alo, ahi, blo, bhi float64) Rect {
	if a == AxisX {
		return Rect{MinX: alo, MaxX: ahi, MinY: blo, MaxY: bhi}
	}
	return Rect{MinY: alo, MaxY: ahi, MinX: blo, MaxX: bhi}
}
