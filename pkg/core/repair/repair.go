// Package repair closes small gaps between wall endpoints so that rooms read
// as enclosed once the walls are rasterized.
//
// Repair is a bounded fixed-point iteration. Each pass detects open endpoints,
// pairs each with its nearest endpoint on another wall within the gap
// threshold, and bridges pairs that are long enough with synthetic segments.
// Iteration stops when no gaps remain, when the gap count fails to strictly
// decrease, or when the pass cap is reached. Gaps shorter than the minimum
// fill length are detected but never bridged.
package repair

import (
	"cmp"
	"slices"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
)

// Default tuning values.
const (
	DefaultGapThreshold = 1.0
	DefaultMinFill      = 0.05
	DefaultMaxPasses    = 3
)

// joinTolerance is the distance under which an endpoint counts as attached to
// another wall.
const joinTolerance = 1e-3

// StopReason records why the iteration ended.
type StopReason string

const (
	StopConverged StopReason = "converged" // no gaps left
	StopStalled   StopReason = "stalled"   // gap count did not strictly decrease
	StopCap       StopReason = "cap"       // pass cap reached
)

// Options configures a repair run.
type Options struct {
	GapThreshold float64 // max endpoint distance treated as a gap
	MinFill      float64 // gaps shorter than this are not bridged
	MaxPasses    int
}

// DefaultOptions returns the standard repair settings.
func DefaultOptions() Options {
	return Options{GapThreshold: DefaultGapThreshold, MinFill: DefaultMinFill, MaxPasses: DefaultMaxPasses}
}

// Gap is a detected pair of nearby endpoints on different walls.
type Gap struct {
	A, B     geometry.Point
	Distance float64
	Filled   bool
}

// Pass summarises one executed detect-and-fill pass.
type Pass struct {
	Gaps   int `json:"gaps"`
	Filled int `json:"filled"`
}

// Result is the outcome of [Repair].
type Result struct {
	// Walls holds the input walls followed by the synthetic segments.
	Walls []geometry.Segment
	// Synthetic holds only the segments added by repair.
	Synthetic []geometry.Segment
	// Passes holds one entry per executed pass; Gaps strictly decreases.
	Passes []Pass
	// Remaining holds gaps still open after the last detection.
	Remaining []Gap
	Stop      StopReason
}

// IsSynthetic reports whether Walls[i] was added by repair.
func (r Result) IsSynthetic(i int) bool {
	return i >= len(r.Walls)-len(r.Synthetic)
}

// Repair bridges wall gaps. The input slice is not modified.
func Repair(walls []geometry.Segment, opts Options) Result {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}

	res := Result{Walls: slices.Clone(walls), Stop: StopCap}
	prev := -1
	for pass := 1; pass <= opts.MaxPasses; pass++ {
		gaps := Detect(res.Walls, opts.GapThreshold)
		res.Remaining = gaps
		if len(gaps) == 0 {
			res.Stop = StopConverged
			return res
		}
		if prev >= 0 && len(gaps) >= prev {
			res.Stop = StopStalled
			return res
		}
		prev = len(gaps)

		filled := 0
		for i := range gaps {
			if gaps[i].Distance < opts.MinFill {
				continue
			}
			seg := geometry.Segment{A: gaps[i].A, B: gaps[i].B}
			res.Walls = append(res.Walls, seg)
			res.Synthetic = append(res.Synthetic, seg)
			gaps[i].Filled = true
			filled++
		}
		res.Passes = append(res.Passes, Pass{Gaps: len(gaps), Filled: filled})
		if filled == 0 {
			res.Stop = StopStalled
			return res
		}
	}

	// The cap pass may have closed everything; report that as convergence.
	if len(Detect(res.Walls, opts.GapThreshold)) == 0 {
		res.Stop = StopConverged
		res.Remaining = nil
	}
	return res
}

type endpoint struct {
	wall int
	pt   geometry.Point
}

type candidate struct {
	from, to int // endpoint indices
	dist     float64
}

// Detect returns the gaps in walls: open endpoints paired greedily, nearest
// first, with endpoints of other walls within threshold. Each endpoint joins
// at most one gap.
func Detect(walls []geometry.Segment, threshold float64) []Gap {
	eps := make([]endpoint, 0, 2*len(walls))
	for i, w := range walls {
		if w.Length() < geometry.Tolerance {
			continue
		}
		eps = append(eps, endpoint{i, w.A}, endpoint{i, w.B})
	}

	var cands []candidate
	for i, e := range eps {
		if attached(e, walls) {
			continue
		}
		for j, o := range eps {
			if o.wall == e.wall {
				continue
			}
			d := geometry.Dist(e.pt, o.pt)
			if d > threshold || d < geometry.Tolerance {
				continue
			}
			a, b := i, j
			if b < a {
				a, b = b, a
			}
			cands = append(cands, candidate{a, b, d})
		}
	}

	slices.SortFunc(cands, func(x, y candidate) int {
		if c := cmp.Compare(x.dist, y.dist); c != 0 {
			return c
		}
		if c := cmp.Compare(x.from, y.from); c != 0 {
			return c
		}
		return cmp.Compare(x.to, y.to)
	})

	used := make([]bool, len(eps))
	var gaps []Gap
	for _, c := range cands {
		if used[c.from] || used[c.to] {
			continue
		}
		used[c.from], used[c.to] = true, true
		gaps = append(gaps, Gap{A: eps[c.from].pt, B: eps[c.to].pt, Distance: c.dist})
	}
	return gaps
}

// attached reports whether e touches any other wall, at an endpoint or along
// its length.
func attached(e endpoint, walls []geometry.Segment) bool {
	for i, w := range walls {
		if i == e.wall {
			continue
		}
		if geometry.PointSegmentDistance(e.pt, w) <= joinTolerance {
			return true
		}
	}
	return false
}
