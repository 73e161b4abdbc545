// Package zones extracts axis-aligned placement zones from an occupancy grid.
//
// Two strategies are available and neither is derived from the other:
//
//   - [FloodFill] finds 4-connected regions of free cells and keeps each
//     region's bounding box when it is large and dense enough. It detects
//     rooms.
//   - [GreedyRectangle] repeatedly takes the largest unused free rectangle.
//     Its zones never overlap and pack irregular footprints more densely.
//
// When nothing qualifies, [Extract] falls back to the grid bounds inset by
// the wall clearance.
package zones

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/core/grid"
	"github.com/matzehuels/boxplan/pkg/errors"
)

// Strategy selects the extraction algorithm.
type Strategy string

const (
	FloodFill       Strategy = "flood_fill"
	GreedyRectangle Strategy = "greedy_rectangle"
)

// Strategies lists the valid strategies.
var Strategies = []Strategy{FloodFill, GreedyRectangle}

// ParseStrategy validates a strategy name. Matching is case-insensitive and
// accepts dashes for underscores.
func ParseStrategy(s string) (Strategy, error) {
	norm := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if slices.Contains(Strategies, norm) {
		return norm, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown zone extraction strategy %q (want flood_fill or greedy_rectangle)", s)
}

// Default thresholds.
const (
	DefaultMinWidth     = 2.5
	DefaultMinHeight    = 2.5
	DefaultMinFillRatio = 0.7
	DefaultMaxPasses    = 100
)

// Options configures extraction.
type Options struct {
	Strategy     Strategy
	MinWidth     float64
	MinHeight    float64
	MinArea      float64 // greedy stop threshold; defaults to MinWidth*MinHeight
	MinFillRatio float64 // flood fill density threshold
	MaxPasses    int     // greedy pass cap
	Clearance    float64 // inset for the fallback zone
}

// Zone is a free rectangle eligible for cluster planning.
type Zone struct {
	ID        int           `json:"id"`
	Rect      geometry.Rect `json:"rect"`
	Cells     int           `json:"cells"`
	FillRatio float64       `json:"fillRatio"`
}

// Result is the outcome of [Extract].
type Result struct {
	Zones    []Zone   `json:"zones"`
	Strategy Strategy `json:"strategy"`
	Fallback bool     `json:"fallback"`
	// Passes is the number of greedy passes run, or regions visited by
	// flood fill.
	Passes int `json:"passes"`
}

// Area returns the summed area of all zones.
func (r Result) Area() float64 {
	total := 0.0
	for _, z := range r.Zones {
		total += z.Rect.Area()
	}
	return total
}

// Extract runs the configured strategy over g. An unknown strategy is
// treated as FloodFill; hosts validate the name beforehand.
func Extract(g *grid.Grid, opts Options) Result {
	opts = opts.withDefaults()

	var res Result
	switch opts.Strategy {
	case GreedyRectangle:
		res = greedyRectangles(g, opts)
	default:
		opts.Strategy = FloodFill
		res = floodFill(g, opts)
	}
	res.Strategy = opts.Strategy

	if len(res.Zones) == 0 {
		res.Zones = fallback(g.Bounds, opts.Clearance)
		res.Fallback = len(res.Zones) > 0
	}
	for i := range res.Zones {
		res.Zones[i].ID = i
	}
	return res
}

func (o Options) withDefaults() Options {
	if o.MinWidth <= 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.MinHeight <= 0 {
		o.MinHeight = DefaultMinHeight
	}
	if o.MinArea <= 0 {
		o.MinArea = o.MinWidth * o.MinHeight
	}
	if o.MinFillRatio <= 0 {
		o.MinFillRatio = DefaultMinFillRatio
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	return o
}

func (o Options) bigEnough(r geometry.Rect) bool {
	return r.Width() >= o.MinWidth-geometry.Tolerance && r.Height() >= o.MinHeight-geometry.Tolerance
}

func fallback(bounds geometry.Rect, clearance float64) []Zone {
	r := bounds.Inflate(-clearance)
	if bounds.Empty() || r.Empty() {
		return nil
	}
	return []Zone{{Rect: r, FillRatio: 1}}
}

// sortZones orders zones by area descending, then bottom-left first.
func sortZones(zs []Zone) {
	slices.SortStableFunc(zs, func(a, b Zone) int {
		if c := cmp.Compare(b.Rect.Area(), a.Rect.Area()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Rect.MinY, b.Rect.MinY); c != 0 {
			return c
		}
		return cmp.Compare(a.Rect.MinX, b.Rect.MinX)
	})
}
