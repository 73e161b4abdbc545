package corridor

import (
	"math"
)

// optimise drops undersized corridors and merges aligned neighbours until
// no pair can be merged.
func optimise(cs []Corridor, opts Options) Result {
	var res Result
	for _, c := range cs {
		if c.Rect.Area() < opts.MinArea {
			res.Dropped++
			continue
		}
		res.Corridors = append(res.Corridors, c)
	}

	for {
		i, j, ok := findMergeable(res.Corridors, opts.MergeTolerance)
		if !ok {
			break
		}
		a, b := res.Corridors[i], res.Corridors[j]
		a.Rect = a.Rect.Union(b.Rect)
		a.ClusterIDs = mergeIDs(a.ClusterIDs, b.ClusterIDs)
		if b.Zone < a.Zone {
			a.Zone = b.Zone
		}
		res.Corridors[i] = a
		res.Corridors = append(res.Corridors[:j], res.Corridors[j+1:]...)
		res.Merged++
	}
	return res
}

func findMergeable(cs []Corridor, tol float64) (int, int, bool) {
	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			if mergeable(cs[i], cs[j], tol) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// mergeable reports whether a and b share type and orientation, cover the
// same cross extent, and touch or overlap end to end.
func mergeable(a, b Corridor, tol float64) bool {
	if a.Type != b.Type || a.Orientation != b.Orientation {
		return false
	}
	ar, br := a.Rect, b.Rect
	if a.Orientation == Horizontal {
		return near(ar.MinY, br.MinY, tol) && near(ar.MaxY, br.MaxY, tol) &&
			ar.MinX <= br.MaxX+tol && br.MinX <= ar.MaxX+tol
	}
	return near(ar.MinX, br.MinX, tol) && near(ar.MaxX, br.MaxX, tol) &&
		ar.MinY <= br.MaxY+tol && br.MinY <= ar.MaxY+tol
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }
