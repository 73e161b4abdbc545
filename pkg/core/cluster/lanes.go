package cluster

import (
	"math"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/core/zones"
)

// Zone edges.
const (
	EdgeSouth = "south" // MinY
	EdgeEast  = "east"  // MaxX
	EdgeNorth = "north" // MaxY
	EdgeWest  = "west"  // MinX
)

// LaneOptions configures main corridor reservation.
type LaneOptions struct {
	Width float64 // main corridor width
	// Reach is how far a zone edge may sit from the bounds edge and still
	// count as perimeter-facing.
	Reach float64
}

// Lane is a main corridor strip reserved along a zone edge.
type Lane struct {
	Zone int           `json:"zone"`
	Edge string        `json:"edge"`
	Rect geometry.Rect `json:"rect"`
}

// Horizontal reports whether the lane runs along X.
func (l Lane) Horizontal() bool { return l.Edge == EdgeSouth || l.Edge == EdgeNorth }

// Lanes returns the main corridor lanes along the perimeter-facing edges of
// z. South and north lanes span the full zone width; east and west lanes
// fill the height between them. Lanes mark egress over the zone band and do
// not shrink the area clusters are planned in: lanes on the stack-axis edges
// fall inside the centring margins when those are at least Width wide, and
// lanes on the row-axis edges overlay the row ends.
func Lanes(z zones.Zone, bounds geometry.Rect, opts LaneOptions) []Lane {
	r := z.Rect
	if opts.Width <= 0 {
		return nil
	}
	facing := func(v, edge float64) bool { return math.Abs(v-edge) <= opts.Reach+geometry.Tolerance }

	// inner is the part of the zone left between the lanes emitted so far.
	inner := r
	var lanes []Lane
	add := func(edge string, lane geometry.Rect) {
		lanes = append(lanes, Lane{Zone: z.ID, Edge: edge, Rect: lane})
	}

	if facing(r.MinY, bounds.MinY) && r.Height() > opts.Width {
		add(EdgeSouth, geometry.Rect{MinX: r.MinX, MinY: r.MinY, MaxX: r.MaxX, MaxY: r.MinY + opts.Width})
		inner.MinY += opts.Width
	}
	if facing(r.MaxY, bounds.MaxY) && inner.Height() > opts.Width {
		add(EdgeNorth, geometry.Rect{MinX: r.MinX, MinY: r.MaxY - opts.Width, MaxX: r.MaxX, MaxY: r.MaxY})
		inner.MaxY -= opts.Width
	}
	if facing(r.MinX, bounds.MinX) && r.Width() > opts.Width {
		add(EdgeWest, geometry.Rect{MinX: r.MinX, MinY: inner.MinY, MaxX: r.MinX + opts.Width, MaxY: inner.MaxY})
		inner.MinX += opts.Width
	}
	if facing(r.MaxX, bounds.MaxX) && inner.Width() > opts.Width {
		add(EdgeEast, geometry.Rect{MinX: r.MaxX - opts.Width, MinY: inner.MinY, MaxX: r.MaxX, MaxY: inner.MaxY})
	}
	return lanes
}
