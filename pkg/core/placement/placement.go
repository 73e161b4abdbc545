// Package placement fills planned clusters with storage units.
//
// The placer walks each row along its fill axis. At every step it draws a
// size from the catalog (falling back to the widest size that still fits),
// builds the candidate for the left row and its mirror in the right row, and
// validates each against walls, forbidden zones, entrances, obstacles,
// already placed units and the occupancy grid. Walls and placed units are
// looked up through an orb quadtree. The cursor advances by the unit width
// plus spacing whether or not the candidate was accepted, so a row walk
// always terminates.
package placement

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/boxplan/pkg/core/catalog"
	"github.com/matzehuels/boxplan/pkg/core/cluster"
	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/core/grid"
	"github.com/matzehuels/boxplan/pkg/floorplan"
	"github.com/matzehuels/boxplan/pkg/observability"
)

// Partition types.
const (
	PartitionStructural = "blanche" // an edge abuts a building wall
	PartitionShared     = "grise"   // internal partition shared with units
)

// Rejection reasons.
const (
	RejectWall      = "wall"
	RejectForbidden = "forbidden"
	RejectEntrance  = "entrance"
	RejectObstacle  = "obstacle"
	RejectUnit      = "unit"
	RejectGrid      = "grid"
)

// Options configures placement.
type Options struct {
	WallClearance      float64
	EntranceClearance  float64
	ObstacleClearance  float64
	ForbiddenClearance float64
	Spacing            float64
	// TargetCount stops placement once reached. Zero means unlimited.
	TargetCount        int
	PartitionTolerance float64
}

// Env is the geometry candidates are checked against.
type Env struct {
	Plan  floorplan.Plan     // forbidden zones, entrances and obstacles
	Walls []geometry.Segment // repaired walls
	Grid  *grid.Grid         // optional
}

// Unit is a placed storage unit.
type Unit struct {
	ID        string        `json:"id"`
	Rect      geometry.Rect `json:"rect"`
	Type      string        `json:"type"`
	Partition string        `json:"partitionType"`
	ClusterID string        `json:"clusterId"`
	Row       string        `json:"row"`
}

// Result is the outcome of [Place].
type Result struct {
	Units      []Unit
	Attempts   int
	Rejections map[string]int
	// PerCluster counts placed units by cluster ID.
	PerCluster map[string]int
	// TargetReached is true when placement stopped at TargetCount.
	TargetReached bool
}

// SuccessRate returns placed units over attempted candidates.
func (r Result) SuccessRate() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(len(r.Units)) / float64(r.Attempts)
}

// Active reports whether the cluster received at least one unit.
func (r Result) Active(clusterID string) bool { return r.PerCluster[clusterID] > 0 }

type placer struct {
	env   Env
	cat   *catalog.Catalog
	rng   *rand.Rand
	opts  Options
	hooks observability.PipelineHooks
	res   Result

	walls *rectIndex // env.Walls by index
	units *rectIndex // res.Units by index
}

// Place fills every cluster of every plan in order. All randomness comes
// from rng.
func Place(plans []cluster.Plan, env Env, cat *catalog.Catalog, rng *rand.Rand, opts Options, hooks observability.PipelineHooks) Result {
	p := &placer{
		env:   env,
		cat:   cat,
		rng:   rng,
		opts:  opts,
		hooks: observability.OrNoop(hooks),
		res: Result{
			Rejections: make(map[string]int),
			PerCluster: make(map[string]int),
		},
	}
	if cat == nil || cat.Len() == 0 {
		return p.res
	}

	areas := make([]geometry.Rect, len(plans))
	for i, plan := range plans {
		areas[i] = plan.Area
	}
	b := indexBounds(env, areas)
	p.walls, p.units = newRectIndex(b), newRectIndex(b)
	for i, w := range env.Walls {
		p.walls.add(i, w.Bound())
	}

	for _, plan := range plans {
		for _, c := range plan.Clusters {
			if p.done() {
				return p.res
			}
			p.fill(c)
		}
	}
	return p.res
}

func (p *placer) done() bool {
	return p.opts.TargetCount > 0 && len(p.res.Units) >= p.opts.TargetCount
}

// fill walks the cluster's fill axis and tries each row at every step.
func (p *placer) fill(c cluster.Cluster) {
	axis := c.RowAxis
	cursor, end := c.Rect.Span(axis)
	minWidth := p.cat.MinWidth()

	for end-cursor >= minWidth-geometry.Tolerance {
		size, _ := p.cat.Pick(p.rng)
		if size.Width > end-cursor+geometry.Tolerance {
			var ok bool
			if size, ok = p.cat.LargestFitting(end - cursor); !ok {
				return
			}
		}

		for _, row := range c.Rows {
			if p.done() {
				p.res.TargetReached = true
				return
			}
			// Left and single rows back onto the low side of their band,
			// right rows onto the high side.
			lo, hi := row.Rect.Span(c.StackAxis())
			if row.Side == cluster.SideRight {
				lo = hi - size.Depth
			}
			rect := geometry.AxisRect(axis, cursor, cursor+size.Width, lo, lo+size.Depth)
			p.try(c.ID, row.Side, size.Type, rect)
		}
		if p.done() {
			p.res.TargetReached = true
			return
		}
		cursor += size.Width + p.opts.Spacing
	}
}

func (p *placer) try(clusterID, side, unitType string, rect geometry.Rect) {
	p.res.Attempts++
	if reason := p.collides(rect); reason != "" {
		p.res.Rejections[reason]++
		p.hooks.OnUnitRejected(clusterID, reason)
		return
	}
	u := Unit{
		ID:        fmt.Sprintf("unit-%04d", len(p.res.Units)+1),
		Rect:      rect,
		Type:      unitType,
		Partition: Classify(rect, p.env.Walls, p.opts.PartitionTolerance),
		ClusterID: clusterID,
		Row:       side,
	}
	p.units.add(len(p.res.Units), rect)
	p.res.Units = append(p.res.Units, u)
	p.res.PerCluster[clusterID]++
	p.hooks.OnUnitPlaced(clusterID, unitType)
}

// collides returns the first rejection reason for rect, or "".
func (p *placer) collides(rect geometry.Rect) string {
	// Shrink by the tolerance so geometry exactly at clearance distance passes.
	walled := rect.Inflate(p.opts.WallClearance - geometry.Tolerance)
	if p.walls.any(walled, func(i int) bool { return geometry.SegmentIntersectsRect(p.env.Walls[i], walled) }) {
		return RejectWall
	}

	forbidden := rect.Inflate(p.opts.ForbiddenClearance)
	for _, z := range p.env.Plan.ForbiddenZones {
		if z.Polygon.Valid() {
			if PolygonHitsRect(z.Polygon, forbidden.Inflate(-geometry.Tolerance)) {
				return RejectForbidden
			}
			continue
		}
		if geometry.RectsOverlap(forbidden, z.Rect) {
			return RejectForbidden
		}
	}

	entrance := rect.Inflate(p.opts.EntranceClearance)
	for _, e := range p.env.Plan.Entrances {
		if geometry.RectsOverlap(entrance, e) {
			return RejectEntrance
		}
	}

	obstacle := rect.Inflate(p.opts.ObstacleClearance)
	for _, o := range p.env.Plan.Obstacles {
		if geometry.RectsOverlap(obstacle, o) {
			return RejectObstacle
		}
	}

	half := p.opts.Spacing / 2
	spaced := rect.Inflate(half)
	if p.units.any(spaced.Inflate(half), func(i int) bool { return geometry.RectsOverlap(spaced, p.res.Units[i].Rect.Inflate(half)) }) {
		return RejectUnit
	}

	if p.env.Grid != nil && !p.env.Grid.RectFree(rect) {
		return RejectGrid
	}
	return ""
}

// PolygonHitsRect reports whether poly and r share any point.
func PolygonHitsRect(poly geometry.Polygon, r geometry.Rect) bool {
	for _, e := range poly.Edges() {
		if geometry.SegmentIntersectsRect(e, r) {
			return true
		}
	}
	return poly.Contains(r.Center())
}
