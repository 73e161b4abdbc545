// Package cluster subdivides placement zones into double-row clusters.
//
// A cluster (strip) is two unit rows separated by an access aisle:
//
//	| left row | aisle | right row |
//	   depth     width     depth
//
// Rows run along the cluster's RowAxis; clusters stack side by side along
// the other axis, so the right row of one cluster backs onto the left row of
// the next with only the unit spacing between them. Strips are centred on the
// full zone, so the leftover margins sit on the two stack-axis edges. Main
// corridor lanes are laid along zone edges that face the building perimeter
// (see [Lanes]).
package cluster

import (
	"fmt"
	"math"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/core/zones"
)

// Row sides.
const (
	SideLeft   = "left"
	SideRight  = "right"
	SideSingle = "single"
)

// Options configures planning.
type Options struct {
	UnitDepth  float64
	AisleWidth float64 // access corridor width
	Spacing    float64 // gap between back-to-back clusters
}

// StripWidth returns 2*depth + aisle.
func (o Options) StripWidth() float64 { return 2*o.UnitDepth + o.AisleWidth }

// fit returns how many strips fit in span, with Spacing between neighbours.
func (o Options) fit(span float64) int {
	return int(math.Floor((span+o.Spacing)/(o.StripWidth()+o.Spacing) + 1e-9))
}

// Row is one band of units inside a cluster.
type Row struct {
	Side string        `json:"side"`
	Rect geometry.Rect `json:"rect"`
}

// Cluster is a double (or degraded single) row strip inside a zone.
type Cluster struct {
	ID      string        `json:"id"`
	Zone    int           `json:"zone"`
	Index   int           `json:"index"`
	Rect    geometry.Rect `json:"rect"`
	RowAxis geometry.Axis `json:"rowAxis"`
	Rows    []Row         `json:"rows"`
	// Aisle is the access corridor between the rows. It is empty for a
	// single row without room for one.
	Aisle geometry.Rect `json:"aisle"`
	// Center is the shared centre line of the cluster along RowAxis.
	Center geometry.Segment `json:"center"`
}

// StackAxis returns the axis clusters are laid out along.
func (c Cluster) StackAxis() geometry.Axis { return c.RowAxis.Other() }

// Single reports whether the cluster degraded to one row.
func (c Cluster) Single() bool { return len(c.Rows) == 1 }

// Plan is the set of clusters for one zone.
type Plan struct {
	Zone     int           `json:"zone"`
	Area     geometry.Rect `json:"area"` // the zone rect
	RowAxis  geometry.Axis `json:"rowAxis"`
	Clusters []Cluster     `json:"clusters"`
	Margin   float64       `json:"margin"`
}

// Orientation picks the row axis for a w x h area. It returns the number of
// strips that fit and false when not even one does.
//
// Strips stack along X (rows run along Y) when that fits strictly more
// strips, or the same number and the area is at least as wide as it is tall.
func Orientation(w, h float64, opts Options) (rowAxis geometry.Axis, n int, ok bool) {
	if opts.StripWidth() <= 0 {
		return geometry.AxisX, 0, false
	}
	nX, nY := opts.fit(w), opts.fit(h)
	if nX > nY || (nX == nY && w >= h) {
		return geometry.AxisY, nX, nX >= 1
	}
	return geometry.AxisX, nY, nY >= 1
}

// PlanZone subdivides area (a zone rect) into
// clusters centred along the stack axis. When no full strip fits, a single
// row runs along the longer axis if the cross span holds one unit depth.
func PlanZone(zone int, area geometry.Rect, opts Options) Plan {
	plan := Plan{Zone: zone, Area: area}
	if area.Empty() || opts.UnitDepth <= 0 {
		return plan
	}

	rowAxis, n, ok := Orientation(area.Width(), area.Height(), opts)
	if !ok {
		return planSingle(plan, opts)
	}
	plan.RowAxis = rowAxis
	stack := rowAxis.Other()

	strip := opts.StripWidth()
	lo, hi := area.Span(stack)
	rlo, rhi := area.Span(rowAxis)
	used := float64(n)*strip + float64(n-1)*opts.Spacing
	plan.Margin = (hi - lo - used) / 2

	for i := 0; i < n; i++ {
		s := lo + plan.Margin + float64(i)*(strip+opts.Spacing)
		c := Cluster{
			ID:      clusterID(zone, i),
			Zone:    zone,
			Index:   i,
			Rect:    geometry.AxisRect(stack, s, s+strip, rlo, rhi),
			RowAxis: rowAxis,
			Rows: []Row{
				{Side: SideLeft, Rect: geometry.AxisRect(stack, s, s+opts.UnitDepth, rlo, rhi)},
				{Side: SideRight, Rect: geometry.AxisRect(stack, s+strip-opts.UnitDepth, s+strip, rlo, rhi)},
			},
			Aisle: geometry.AxisRect(stack, s+opts.UnitDepth, s+opts.UnitDepth+opts.AisleWidth, rlo, rhi),
		}
		c.Center = centerLine(c.Rect, rowAxis)
		plan.Clusters = append(plan.Clusters, c)
	}
	return plan
}

func planSingle(plan Plan, opts Options) Plan {
	area := plan.Area
	rowAxis := geometry.AxisX
	if area.Height() > area.Width() {
		rowAxis = geometry.AxisY
	}
	stack := rowAxis.Other()
	plan.RowAxis = rowAxis

	lo, hi := area.Span(stack)
	span := hi - lo
	if span < opts.UnitDepth-geometry.Tolerance {
		return plan
	}
	rlo, rhi := area.Span(rowAxis)

	c := Cluster{
		ID:      clusterID(plan.Zone, 0),
		Zone:    plan.Zone,
		RowAxis: rowAxis,
		Rows:    []Row{{Side: SideSingle, Rect: geometry.AxisRect(stack, lo, lo+opts.UnitDepth, rlo, rhi)}},
	}
	end := lo + opts.UnitDepth
	if opts.AisleWidth > 0 && span >= opts.UnitDepth+opts.AisleWidth-geometry.Tolerance {
		c.Aisle = geometry.AxisRect(stack, end, end+opts.AisleWidth, rlo, rhi)
		end += opts.AisleWidth
	}
	c.Rect = geometry.AxisRect(stack, lo, end, rlo, rhi)
	c.Center = centerLine(c.Rect, rowAxis)
	plan.Clusters = []Cluster{c}
	return plan
}

func centerLine(r geometry.Rect, rowAxis geometry.Axis) geometry.Segment {
	c := r.Center()
	if rowAxis == geometry.AxisX {
		return geometry.Seg(r.MinX, c.Y, r.MaxX, c.Y)
	}
	return geometry.Seg(c.X, r.MinY, c.X, r.MaxY)
}

func clusterID(zone, i int) string { return fmt.Sprintf("cluster-%d-%d", zone, i) }

// PlanAll plans clusters on every zone and collects its main lanes.
func PlanAll(zs []zones.Zone, bounds geometry.Rect, lanes LaneOptions, opts Options) ([]Plan, []Lane) {
	var (
		plans []Plan
		all   []Lane
	)
	for _, z := range zs {
		all = append(all, Lanes(z, bounds, lanes)...)
		plans = append(plans, PlanZone(z.ID, z.Rect, opts))
	}
	return plans, all
}
