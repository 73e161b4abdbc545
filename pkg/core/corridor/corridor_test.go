package corridor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxplan/pkg/core/cluster"
	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/core/placement"
	"github.com/matzehuels/boxplan/pkg/core/zones"
	"github.com/matzehuels/boxplan/pkg/observability"
)

var (
	clusterOpts = cluster.Options{UnitDepth: 2.5, AisleWidth: 1.2, Spacing: 0.1}
	routeOpts   = Options{AccessWidth: 1.2, CrossMinSpan: DefaultCrossMinSpan, MinArea: DefaultMinArea}
)

// leftUnit places a unit in the left row of c covering [lo, hi] along the
// row axis.
func leftUnit(c cluster.Cluster, lo, hi float64) placement.Unit {
	slo, _ := c.Rows[0].Rect.Span(c.StackAxis())
	return placement.Unit{
		ID:        c.ID + "-u",
		Rect:      geometry.AxisRect(c.RowAxis, lo, hi, slo, slo+2.5),
		ClusterID: c.ID,
		Row:       cluster.SideLeft,
	}
}

// threeClusters plans a 20x6 area: three clusters with rows along Y.
func threeClusters(t *testing.T) cluster.Plan {
	t.Helper()
	plan := cluster.PlanZone(0, geometry.RectXYWH(0, 0, 20, 6), clusterOpts)
	require.Len(t, plan.Clusters, 3)
	require.Equal(t, geometry.AxisY, plan.RowAxis)
	return plan
}

func TestRouteSingleClusterWithLanes(t *testing.T) {
	bounds := geometry.Rect{MaxX: 10, MaxY: 8}
	z := zones.Zone{Rect: geometry.Rect{MinX: 0.3, MinY: 0.3, MaxX: 9.7, MaxY: 7.7}}
	lanes := cluster.Lanes(z, bounds, cluster.LaneOptions{Width: 1.5, Reach: 0.5})
	plan := cluster.PlanZone(0, z.Rect, clusterOpts)
	require.Len(t, plan.Clusters, 1)

	c := plan.Clusters[0]
	lo, _ := c.Rect.Span(c.RowAxis)
	units := []placement.Unit{leftUnit(c, lo, lo+2)}

	res := Route([]cluster.Plan{plan}, lanes, units, routeOpts, nil)
	assert.Equal(t, 4, res.Count(Main))
	assert.Equal(t, 1, res.Count(Access))
	assert.Equal(t, 0, res.Count(Cross))

	for _, cor := range res.Corridors {
		if cor.Type != Access {
			continue
		}
		assert.InDelta(t, 1.2, cor.Rect.Width(), 1e-9)
		assert.InDelta(t, 2.0, cor.Rect.Height(), 1e-9, "trimmed to the filled extent")
		assert.Equal(t, []string{c.ID}, cor.ClusterIDs)
		assert.Equal(t, Vertical, cor.Orientation)
	}
	assert.Equal(t, "corridor-001", res.Corridors[0].ID)
}

func TestRouteMainWithoutUnits(t *testing.T) {
	bounds := geometry.Rect{MaxX: 10, MaxY: 8}
	z := zones.Zone{Rect: geometry.Rect{MinX: 0.3, MinY: 0.3, MaxX: 9.7, MaxY: 7.7}}
	lanes := cluster.Lanes(z, bounds, cluster.LaneOptions{Width: 1.5, Reach: 0.5})
	plan := cluster.PlanZone(0, z.Rect, clusterOpts)

	res := Route([]cluster.Plan{plan}, lanes, nil, routeOpts, nil)
	assert.Equal(t, 4, res.Count(Main))
	assert.Len(t, res.Corridors, 4)
}

func TestRouteSkipsInactiveClusters(t *testing.T) {
	plan := threeClusters(t)
	c0, c2 := plan.Clusters[0], plan.Clusters[2]
	units := []placement.Unit{leftUnit(c0, 0, 2), leftUnit(c2, 0, 2)}

	res := Route([]cluster.Plan{plan}, nil, units, routeOpts, nil)
	require.Equal(t, 3, res.Count(Access))

	var between *Corridor
	for i, cor := range res.Corridors {
		for _, id := range cor.ClusterIDs {
			assert.NotEqual(t, plan.Clusters[1].ID, id, "empty cluster must not be referenced")
		}
		if cor.Type == Access && len(cor.ClusterIDs) == 2 {
			between = &res.Corridors[i]
		}
	}
	require.NotNil(t, between, "gap corridor between active clusters")
	assert.Equal(t, []string{c0.ID, c2.ID}, between.ClusterIDs)
	assert.InDelta(t, 1.2, between.Rect.Width(), 1e-9)
	assert.InDelta(t, 10.0, between.Rect.Center().X, 1e-9)
}

func TestRouteCross(t *testing.T) {
	plan := threeClusters(t)
	var units []placement.Unit
	for _, c := range plan.Clusters {
		units = append(units, leftUnit(c, 0, 2))
	}

	res := Route([]cluster.Plan{plan}, nil, units, routeOpts, nil)
	require.Equal(t, 1, res.Count(Cross))
	for _, cor := range res.Corridors {
		if cor.Type != Cross {
			continue
		}
		assert.Equal(t, Horizontal, cor.Orientation)
		assert.InDelta(t, 2.0, cor.Rect.MinY, 1e-9, "placed past the furthest unit end")
		assert.InDelta(t, 1.2, cor.Rect.Height(), 1e-9)
		assert.Len(t, cor.ClusterIDs, 3)
	}
}

func TestRouteCrossNeedsRoom(t *testing.T) {
	plan := threeClusters(t)
	var units []placement.Unit
	for _, c := range plan.Clusters {
		units = append(units, leftUnit(c, 0, 6))
	}

	rec := observability.NewRecorder()
	res := Route([]cluster.Plan{plan}, nil, units, routeOpts, rec)
	assert.Equal(t, 0, res.Count(Cross))
	require.Len(t, rec.Diagnostics(), 1)
	assert.True(t, strings.Contains(rec.Diagnostics()[0], "cross corridor"))
}

func TestRouteCrossNeedsTwoClusters(t *testing.T) {
	plan := threeClusters(t)
	units := []placement.Unit{leftUnit(plan.Clusters[1], 0, 2)}
	res := Route([]cluster.Plan{plan}, nil, units, routeOpts, nil)
	assert.Equal(t, 0, res.Count(Cross))
}

func TestRouteDropsSmallCorridors(t *testing.T) {
	plan := cluster.PlanZone(0, geometry.RectXYWH(0, 0, 6.2, 6), clusterOpts)
	require.Len(t, plan.Clusters, 1)
	units := []placement.Unit{leftUnit(plan.Clusters[0], 0, 1)}

	res := Route([]cluster.Plan{plan}, nil, units, routeOpts, nil)
	assert.Empty(t, res.Corridors)
	assert.Equal(t, 1, res.Dropped)
}

func TestOptimiseMerges(t *testing.T) {
	cs := []Corridor{
		{Type: Main, Orientation: Horizontal, Rect: geometry.Rect{MinX: 0, MinY: 0, MaxX: 5, MaxY: 1.5}, Zone: 1},
		{Type: Access, Orientation: Vertical, Rect: geometry.Rect{MinX: 0, MinY: 2, MaxX: 1.2, MaxY: 6}, ClusterIDs: []string{"b"}},
		{Type: Main, Orientation: Horizontal, Rect: geometry.Rect{MinX: 5.05, MinY: 0.02, MaxX: 9, MaxY: 1.5}, Zone: 0},
		{Type: Access, Orientation: Vertical, Rect: geometry.Rect{MinX: 0, MinY: 6, MaxX: 1.2, MaxY: 9}, ClusterIDs: []string{"a", "b"}},
		{Type: Main, Orientation: Horizontal, Rect: geometry.Rect{MinX: 0, MinY: 5, MaxX: 9, MaxY: 6.5}},
	}
	res := optimise(cs, routeOpts)

	assert.Equal(t, 2, res.Merged)
	require.Len(t, res.Corridors, 3)
	assert.InDelta(t, 9.0, res.Corridors[0].Rect.MaxX, 1e-9)
	assert.Equal(t, 0, res.Corridors[0].Zone)
	assert.Equal(t, []string{"a", "b"}, res.Corridors[1].ClusterIDs)
	assert.InDelta(t, 9.0, res.Corridors[1].Rect.MaxY, 1e-9)
}

func TestCenterline(t *testing.T) {
	h := Corridor{Orientation: Horizontal, Rect: geometry.Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 1}}
	assert.Equal(t, geometry.Seg(0, 0.5, 4, 0.5), h.Centerline())
	v := Corridor{Orientation: Vertical, Rect: geometry.Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 4}}
	assert.Equal(t, geometry.Seg(0.5, 0, 0.5, 4), v.Centerline())
}
