package placement

import (
	"math"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
)

// Classify returns PartitionStructural when an edge of rect runs parallel to
// and within tol of an axis-aligned wall whose extent overlaps the edge, and
// PartitionShared otherwise. Diagonal walls are ignored.
func Classify(rect geometry.Rect, walls []geometry.Segment, tol float64) string {
	for _, w := range walls {
		b := w.Bound()
		switch {
		case b.Height() <= geometry.Tolerance: // horizontal wall
			if !overlaps(b.MinX, b.MaxX, rect.MinX, rect.MaxX) {
				continue
			}
			if math.Abs(b.MinY-rect.MinY) <= tol || math.Abs(b.MinY-rect.MaxY) <= tol {
				return PartitionStructural
			}
		case b.Width() <= geometry.Tolerance: // vertical wall
			if !overlaps(b.MinY, b.MaxY, rect.MinY, rect.MaxY) {
				continue
			}
			if math.Abs(b.MinX-rect.MinX) <= tol || math.Abs(b.MinX-rect.MaxX) <= tol {
				return PartitionStructural
			}
		}
	}
	return PartitionShared
}

// overlaps reports whether [alo,ahi] and [blo,bhi] share a positive length.
func overlaps(alo, ahi, blo, bhi float64) bool {
	return math.Min(ahi, bhi)-math.Max(alo, blo) > geometry.Tolerance
}
