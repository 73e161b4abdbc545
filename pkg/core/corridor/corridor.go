// Package corridor derives corridors from what was actually placed.
//
// Only clusters holding at least one unit take part. Each active cluster's
// aisle becomes an ACCESS corridor trimmed to the filled extent of its rows;
// adjacent active clusters separated by a gap at least one corridor wide get
// an ACCESS corridor between them; zones whose active clusters span more
// than CrossMinSpan get one CROSS corridor perpendicular to the rows. MAIN
// corridors come from the lanes reserved along perimeter-facing zone edges
// and are emitted whether or not anything was placed.
//
// After routing, corridors smaller than MinArea are dropped and aligned,
// touching corridors of the same type are merged.
package corridor

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/boxplan/pkg/core/cluster"
	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/core/placement"
	"github.com/matzehuels/boxplan/pkg/observability"
)

// Type classifies a corridor.
type Type string

const (
	Access Type = "ACCESS"
	Main   Type = "MAIN"
	Cross  Type = "CROSS"
)

// Orientations.
const (
	Horizontal = "horizontal"
	Vertical   = "vertical"
)

// Default thresholds.
const (
	DefaultCrossMinSpan   = 12.0
	DefaultMinArea        = 2.0
	DefaultMergeTolerance = 0.1
)

// Options configures routing.
type Options struct {
	AccessWidth    float64
	CrossMinSpan   float64
	MinArea        float64
	MergeTolerance float64
}

// Corridor is a routed corridor.
type Corridor struct {
	ID          string        `json:"id"`
	Type        Type          `json:"type"`
	Zone        int           `json:"zone"`
	Rect        geometry.Rect `json:"rect"`
	Orientation string        `json:"orientation"`
	ClusterIDs  []string      `json:"clusterIds,omitempty"`
}

// Centerline returns the corridor's centre line along its orientation.
func (c Corridor) Centerline() geometry.Segment {
	m := c.Rect.Center()
	if c.Orientation == Horizontal {
		return geometry.Seg(c.Rect.MinX, m.Y, c.Rect.MaxX, m.Y)
	}
	return geometry.Seg(m.X, c.Rect.MinY, m.X, c.Rect.MaxY)
}

// Result is the outcome of [Route].
type Result struct {
	Corridors []Corridor
	Dropped   int
	Merged    int
}

// Count returns the number of corridors of type t.
func (r Result) Count(t Type) int {
	n := 0
	for _, c := range r.Corridors {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Area returns the summed corridor area.
func (r Result) Area() float64 {
	total := 0.0
	for _, c := range r.Corridors {
		total += c.Rect.Area()
	}
	return total
}

// Route builds, filters and merges corridors.
func Route(plans []cluster.Plan, lanes []cluster.Lane, units []placement.Unit, opts Options, hooks observability.PipelineHooks) Result {
	hooks = observability.OrNoop(hooks)
	if opts.MergeTolerance <= 0 {
		opts.MergeTolerance = DefaultMergeTolerance
	}

	byCluster := make(map[string][]geometry.Rect)
	for _, u := range units {
		byCluster[u.ClusterID] = append(byCluster[u.ClusterID], u.Rect)
	}

	var out []Corridor
	for _, plan := range plans {
		for _, l := range lanes {
			if l.Zone == plan.Zone {
				out = append(out, Corridor{Type: Main, Zone: l.Zone, Rect: l.Rect, Orientation: laneOrientation(l)})
			}
		}
		out = append(out, routeZone(plan, byCluster, opts, hooks)...)
	}

	res := optimise(out, opts)
	for i := range res.Corridors {
		res.Corridors[i].ID = fmt.Sprintf("corridor-%03d", i+1)
	}
	hooks.OnCorridorsRouted(len(res.Corridors), res.Dropped, res.Merged)
	return res
}

// active is a cluster holding units, with the filled extent of its rows
// along the row axis.
type active struct {
	c      cluster.Cluster
	lo, hi float64
}

func routeZone(plan cluster.Plan, byCluster map[string][]geometry.Rect, opts Options, hooks observability.PipelineHooks) []Corridor {
	var act []active
	for _, c := range plan.Clusters {
		rects := byCluster[c.ID]
		if len(rects) == 0 {
			continue
		}
		a := active{c: c, lo: math.Inf(1), hi: math.Inf(-1)}
		for _, r := range rects {
			lo, hi := r.Span(c.RowAxis)
			a.lo, a.hi = math.Min(a.lo, lo), math.Max(a.hi, hi)
		}
		act = append(act, a)
	}
	if len(act) == 0 {
		return nil
	}

	rowAxis := plan.RowAxis
	stack := rowAxis.Other()
	along := orientation(rowAxis)

	var out []Corridor
	for _, a := range act {
		if a.c.Aisle.Empty() {
			continue
		}
		slo, shi := a.c.Aisle.Span(stack)
		out = append(out, Corridor{
			Type: Access, Zone: plan.Zone, Orientation: along,
			Rect:       geometry.AxisRect(rowAxis, a.lo, a.hi, slo, shi),
			ClusterIDs: []string{a.c.ID},
		})
	}

	// Gaps left by empty clusters between active neighbours.
	for i := 1; i < len(act); i++ {
		prev, next := act[i-1], act[i]
		_, gapLo := prev.c.Rect.Span(stack)
		gapHi, _ := next.c.Rect.Span(stack)
		if gapHi-gapLo < opts.AccessWidth-geometry.Tolerance {
			continue
		}
		mid := (gapLo + gapHi) / 2
		out = append(out, Corridor{
			Type: Access, Zone: plan.Zone, Orientation: along,
			Rect: geometry.AxisRect(rowAxis, math.Min(prev.lo, next.lo), math.Max(prev.hi, next.hi),
				mid-opts.AccessWidth/2, mid+opts.AccessWidth/2),
			ClusterIDs: []string{prev.c.ID, next.c.ID},
		})
	}

	if c, ok := crossCorridor(plan, act, opts, hooks); ok {
		out = append(out, c)
	}
	return out
}

// crossCorridor places one corridor perpendicular to the rows, past the
// furthest unit end or else before the first unit start.
func crossCorridor(plan cluster.Plan, act []active, opts Options, hooks observability.PipelineHooks) (Corridor, bool) {
	if len(act) < 2 {
		return Corridor{}, false
	}
	rowAxis := plan.RowAxis
	stack := rowAxis.Other()

	slo, _ := act[0].c.Rect.Span(stack)
	_, shi := act[len(act)-1].c.Rect.Span(stack)
	if shi-slo <= opts.CrossMinSpan {
		return Corridor{}, false
	}

	first, last := math.Inf(1), math.Inf(-1)
	for _, a := range act {
		first, last = math.Min(first, a.lo), math.Max(last, a.hi)
	}
	rlo, rhi := plan.Area.Span(rowAxis)
	w := opts.AccessWidth

	var lo float64
	switch {
	case last+w <= rhi+geometry.Tolerance:
		lo = last
	case first-w >= rlo-geometry.Tolerance:
		lo = first - w
	default:
		hooks.OnDiagnostic(observability.StageCorridors,
			fmt.Sprintf("zone %d: no room for a cross corridor", plan.Zone))
		return Corridor{}, false
	}

	ids := make([]string, len(act))
	for i, a := range act {
		ids[i] = a.c.ID
	}
	return Corridor{
		Type: Cross, Zone: plan.Zone, Orientation: orientation(stack),
		Rect:       geometry.AxisRect(rowAxis, lo, lo+w, slo, shi),
		ClusterIDs: ids,
	}, true
}

func orientation(a geometry.Axis) string {
	if a == geometry.AxisX {
		return Horizontal
	}
	return Vertical
}

func laneOrientation(l cluster.Lane) string {
	if l.Horizontal() {
		return Horizontal
	}
	return Vertical
}

// mergeIDs returns the sorted union of two cluster ID lists.
func mergeIDs(a, b []string) []string {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}
