// Package annotate derives annotation geometry: radiator zigzags along
// perimeter wall runs and directed circulation paths through corridors.
// Annotations carry no placement semantics.
package annotate

import (
	"math"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
)

// Default radiator parameters in meters.
const (
	DefaultStandoff           = 0.25
	DefaultAmplitude          = 0.15
	DefaultWavelength         = 0.5
	DefaultPerimeterTolerance = 0.5
	DefaultMinPerimeterWalls  = 3
	DefaultMinRun             = 1.0
	DefaultAngleTolerance     = 5.0 // degrees
	DefaultAdjacencyTolerance = 0.1
)

// RadiatorOptions configures radiator generation.
type RadiatorOptions struct {
	Standoff           float64
	Amplitude          float64
	Wavelength         float64
	PerimeterTolerance float64
	MinPerimeterWalls  int
	MinRun             float64
	AngleTolerance     float64 // degrees
	AdjacencyTolerance float64
}

// DefaultRadiatorOptions returns the standard settings.
func DefaultRadiatorOptions() RadiatorOptions {
	return RadiatorOptions{
		Standoff:           DefaultStandoff,
		Amplitude:          DefaultAmplitude,
		Wavelength:         DefaultWavelength,
		PerimeterTolerance: DefaultPerimeterTolerance,
		MinPerimeterWalls:  DefaultMinPerimeterWalls,
		MinRun:             DefaultMinRun,
		AngleTolerance:     DefaultAngleTolerance,
		AdjacencyTolerance: DefaultAdjacencyTolerance,
	}
}

// Radiator is a zigzag polyline offset inward from a perimeter wall run.
type Radiator struct {
	Wall geometry.Segment `json:"wall"`
	// Normal is the unit inward normal of Wall.
	Normal geometry.Point   `json:"normal"`
	Path   []geometry.Point `json:"path"`
}

// Radiators emits one radiator per merged perimeter run of at least MinRun.
func Radiators(walls []geometry.Segment, bounds geometry.Rect, opts RadiatorOptions) []Radiator {
	if bounds.Empty() || opts.Wavelength <= 0 {
		return nil
	}
	perim := PerimeterWalls(walls, bounds, opts.PerimeterTolerance)
	if len(perim) < opts.MinPerimeterWalls {
		e := bounds.Edges()
		perim = e[:]
	}

	centroid := bounds.Center()
	var out []Radiator
	for _, run := range MergeRuns(perim, opts.AngleTolerance, opts.AdjacencyTolerance) {
		if run.Length() < opts.MinRun {
			continue
		}
		n := InwardNormal(run, centroid)
		out = append(out, Radiator{Wall: run, Normal: n, Path: zigzag(run, n, opts)})
	}
	return out
}

// PerimeterWalls returns walls whose midpoint lies within tol of a bounds
// edge.
func PerimeterWalls(walls []geometry.Segment, bounds geometry.Rect, tol float64) []geometry.Segment {
	var out []geometry.Segment
	for _, w := range walls {
		if w.Length() < geometry.Tolerance {
			continue
		}
		m := w.Midpoint()
		if math.Abs(m.X-bounds.MinX) <= tol || math.Abs(m.X-bounds.MaxX) <= tol ||
			math.Abs(m.Y-bounds.MinY) <= tol || math.Abs(m.Y-bounds.MaxY) <= tol {
			out = append(out, w)
		}
	}
	return out
}

// MergeRuns joins collinear segments that meet end to end. Two segments merge
// when their directions differ by at most angleTol degrees, each lies within
// adjTol of the other's line, and an endpoint of one is within adjTol of an
// endpoint of the other.
func MergeRuns(segs []geometry.Segment, angleTol, adjTol float64) []geometry.Segment {
	runs := append([]geometry.Segment(nil), segs...)
	for {
		i, j, ok := findRunPair(runs, angleTol, adjTol)
		if !ok {
			return runs
		}
		runs[i] = span(runs[i], runs[j])
		runs = append(runs[:j], runs[j+1:]...)
	}
}

func findRunPair(runs []geometry.Segment, angleTol, adjTol float64) (int, int, bool) {
	for i := range runs {
		for j := i + 1; j < len(runs); j++ {
			if joinable(runs[i], runs[j], angleTol, adjTol) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func joinable(a, b geometry.Segment, angleTol, adjTol float64) bool {
	da, db := a.Direction(), b.Direction()
	// |cos| handles segments drawn in opposite directions.
	if math.Abs(da.Dot(db)) < math.Cos(angleTol*math.Pi/180) {
		return false
	}
	if lineDistance(a, b.A) > adjTol || lineDistance(a, b.B) > adjTol {
		return false
	}
	for _, p := range []geometry.Point{a.A, a.B} {
		for _, q := range []geometry.Point{b.A, b.B} {
			if geometry.Dist(p, q) <= adjTol {
				return true
			}
		}
	}
	return false
}

// lineDistance returns the distance from p to the infinite line through s.
func lineDistance(s geometry.Segment, p geometry.Point) float64 {
	d := s.Direction()
	v := p.Sub(s.A)
	return math.Abs(d.X*v.Y - d.Y*v.X)
}

// span returns the segment between the two farthest-apart endpoints of a
// and b, keeping a's direction.
func span(a, b geometry.Segment) geometry.Segment {
	d := a.Direction()
	pts := []geometry.Point{a.A, a.B, b.A, b.B}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		if p.Sub(a.A).Dot(d) < lo.Sub(a.A).Dot(d) {
			lo = p
		}
		if p.Sub(a.A).Dot(d) > hi.Sub(a.A).Dot(d) {
			hi = p
		}
	}
	return geometry.Segment{A: lo, B: hi}
}

// InwardNormal returns the unit normal of s pointing toward centroid.
func InwardNormal(s geometry.Segment, centroid geometry.Point) geometry.Point {
	d := s.Direction()
	n := geometry.Point{X: -d.Y, Y: d.X}
	if n.Dot(centroid.Sub(s.Midpoint())) < 0 {
		n = n.Scale(-1)
	}
	return n
}

// zigzag samples run every half wavelength and offsets each sample inward
// by the standoff, plus the amplitude on even samples and minus it on odd.
func zigzag(run geometry.Segment, n geometry.Point, opts RadiatorOptions) []geometry.Point {
	step := opts.Wavelength / 2
	length := run.Length()
	count := int(math.Floor(length/step+1e-9)) + 1

	path := make([]geometry.Point, 0, count)
	for i := 0; i < count; i++ {
		off := opts.Standoff + opts.Amplitude
		if i%2 == 1 {
			off = opts.Standoff - opts.Amplitude
		}
		t := math.Min(1, float64(i)*step/length)
		path = append(path, run.At(t).Add(n.Scale(off)))
	}
	return path
}
