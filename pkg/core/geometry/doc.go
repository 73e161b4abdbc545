// Package geometry is the collision kernel shared by every layout stage.
//
// All coordinates are meters in a single consistent frame (y-up or y-down,
// chosen by the caller). Every shape is axis-aligned except wall segments,
// which may have any direction.
//
// # Primitives
//
//   - [Point], [Segment], [Rect] and [Polygon] value types
//   - [SegmentsIntersect]: closed segment–segment test (touching counts)
//   - [SegmentIntersectsRect]: closed segment–rectangle test
//   - [RectsOverlap]: open rectangle–rectangle test (shared edges do not count)
//   - [PointInRect]: closed point containment
//
// The functions are pure and allocation-free; they hold no state and are safe
// for concurrent use.
//
// Callers that need "touching is fine" semantics against a closed test shrink
// the inflation by [Tolerance], e.g. r.Inflate(clearance - Tolerance).
package geometry
