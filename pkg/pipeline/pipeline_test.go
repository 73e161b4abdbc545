package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/errors"
	"github.com/matzehuels/boxplan/pkg/floorplan"
	"github.com/matzehuels/boxplan/pkg/layout"
	"github.com/matzehuels/boxplan/pkg/observability"
)

// room is a 10m x 8m room with a 1m entrance centred on the south wall.
func room() floorplan.Plan {
	return floorplan.Plan{
		Bounds: geometry.Rect{MaxX: 10, MaxY: 8},
		Walls: []geometry.Segment{
			geometry.Seg(0, 0, 10, 0),
			geometry.Seg(10, 0, 10, 8),
			geometry.Seg(10, 8, 0, 8),
			geometry.Seg(0, 8, 0, 0),
		},
		Entrances: []geometry.Rect{geometry.RectXYWH(4.5, 0, 1, 0.2)},
	}
}

func roomOptions() Options {
	return Options{UnitDepth: 2.5, AccessCorridorWidth: 1.2, WallClearance: 0.3}
}

func countType(cs []layout.Corridor, typ string) int {
	n := 0
	for _, c := range cs {
		if c.Type == typ {
			n++
		}
	}
	return n
}

func TestSynthesizeRoom(t *testing.T) {
	rec := observability.NewRecorder()
	res, err := Synthesize(room(), roomOptions(), rec)
	require.NoError(t, err)

	require.Len(t, res.Zones, 1)
	assert.InDelta(t, 9.4, res.Zones[0].Width, 0.2)
	assert.InDelta(t, 7.4, res.Zones[0].Height, 0.2)

	require.Len(t, res.Clusters, 1)
	cl := res.Clusters[0]
	assert.Equal(t, "cluster-0-0", cl.ID)
	assert.Equal(t, "y", cl.RowAxis)
	assert.InDelta(t, 7.4, cl.Height, 0.2, "rows run along the full zone height")
	assert.InDelta(t, 6.2, cl.Width, 1e-6)
	assert.InDelta(t, 5.0, cl.X+cl.Width/2, 0.1, "strip centred on the zone")

	assert.GreaterOrEqual(t, len(res.Units), 4)
	top := 0.0
	for _, u := range res.Units {
		assert.Equal(t, "cluster-0-0", u.ClusterID)
		assert.Contains(t, []string{"left", "right"}, u.Row)
		assert.InDelta(t, u.Width*u.Height, u.Area, 1e-6)
		top = max(top, u.Y+u.Height)
	}
	assert.Greater(t, top, 6.5, "rows fill to within one XS width of the zone end")

	assert.Equal(t, 4, countType(res.Corridors, "MAIN"))
	assert.Equal(t, 1, countType(res.Corridors, "ACCESS"))
	assert.Equal(t, 0, countType(res.Corridors, "CROSS"))
	for _, c := range res.Corridors {
		if c.Type == "ACCESS" {
			assert.Equal(t, "vertical", c.Orientation)
			assert.InDelta(t, 1.2, c.Width, 1e-6)
			assert.Equal(t, []string{"cluster-0-0"}, c.ClusterIDs)
		}
	}

	assert.Len(t, res.Radiators, 4)
	assert.Len(t, res.CirculationPaths, len(res.Corridors))

	s := res.Stats
	assert.Equal(t, len(res.Units), s.PlacedCount)
	assert.Equal(t, 5, s.CorridorCount)
	assert.Equal(t, 1, s.ClusterCount)
	assert.Equal(t, 1, s.ActiveClusterCount)
	assert.Equal(t, 1, s.ZoneCount)
	assert.Equal(t, 80.0, s.FloorArea)
	assert.Equal(t, "flood_fill", s.Strategy)
	assert.Equal(t, "converged", s.RepairStop)
	assert.Zero(t, s.SyntheticWalls)
	assert.Greater(t, s.Coverage, 0.0)
	assert.LessOrEqual(t, s.Coverage, 1.0)
	placed := 0
	for _, n := range rec.Placed() {
		placed += n
	}
	assert.Equal(t, len(res.Units), placed)
	assert.Equal(t, s.CorridorCount, rec.Corridors())
	assert.Equal(t, 1, rec.Zones())
	assert.NotEmpty(t, res.ID)

	for _, stage := range []string{
		observability.StageRepair, observability.StageGrid, observability.StageZones,
		observability.StageClusters, observability.StagePlacement,
		observability.StageCorridors, observability.StageAnnotate,
	} {
		assert.Contains(t, rec.Stages(), stage)
	}
}

func TestSynthesizeRoomWallAdjacentUnitsAreStructural(t *testing.T) {
	plan := room()
	plan.Entrances = nil

	res, err := Synthesize(plan, roomOptions(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.Units)

	partitions := map[string]int{}
	for _, u := range res.Units {
		partitions[u.PartitionType]++
		top := u.Y + u.Height
		if math.Abs(top-7.5) < 1e-3 {
			continue // on the partition tolerance boundary
		}
		if u.Y <= 0.5 || top > 7.5 {
			assert.Equal(t, "blanche", u.PartitionType, "%s at y=%.2f abuts a wall", u.ID, u.Y)
		} else {
			assert.Equal(t, "grise", u.PartitionType, "%s at y=%.2f is internal", u.ID, u.Y)
		}
	}
	// Both rows start against the south wall.
	assert.GreaterOrEqual(t, partitions["blanche"], 2)
	assert.Positive(t, partitions["grise"])
}

func TestSynthesizeInvariants(t *testing.T) {
	plan := room()
	plan.Bounds = geometry.Rect{MaxX: 30, MaxY: 20}
	plan.Walls = []geometry.Segment{
		geometry.Seg(0, 0, 30, 0), geometry.Seg(30, 0, 30, 20),
		geometry.Seg(30, 20, 0, 20), geometry.Seg(0, 20, 0, 0),
		geometry.Seg(15, 0, 15, 8),
	}
	plan.Obstacles = []geometry.Rect{geometry.RectXYWH(22, 12, 1, 1)}
	plan.ForbiddenZones = []floorplan.ForbiddenZone{{Rect: geometry.RectXYWH(4, 14, 2, 2)}}

	for _, strategy := range []string{"flood_fill", "greedy_rectangle"} {
		t.Run(strategy, func(t *testing.T) {
			opts := roomOptions()
			opts.ZoneExtractionStrategy = strategy
			s, err := Build(plan, opts, nil)
			require.NoError(t, err)
			o := s.Options

			units := s.Placement.Units
			require.NotEmpty(t, units)
			for i := range units {
				a := units[i].Rect
				for j := i + 1; j < len(units); j++ {
					b := units[j].Rect
					assert.False(t, geometry.RectsOverlap(a.Inflate(o.UnitSpacing/2-1e-6), b.Inflate(o.UnitSpacing/2-1e-6)),
						"%s overlaps %s", units[i].ID, units[j].ID)
				}
				inflated := a.Inflate(o.WallClearance - 1e-6)
				for _, w := range s.Repair.Walls {
					assert.False(t, geometry.SegmentIntersectsRect(w, inflated), "%s too close to wall", units[i].ID)
				}
				for _, z := range plan.ForbiddenZones {
					assert.False(t, geometry.RectsOverlap(inflated, z.Rect), "%s in forbidden zone", units[i].ID)
				}
				for _, e := range plan.Entrances {
					assert.False(t, geometry.RectsOverlap(a, e.Inflate(o.EntranceClearance-1e-6)), "%s blocks entrance", units[i].ID)
				}
			}

			if !s.Zones.Fallback {
				for _, z := range s.Zones.Zones {
					assert.GreaterOrEqual(t, z.Rect.Width(), o.MinZoneWidth-1e-9)
					assert.GreaterOrEqual(t, z.Rect.Height(), o.MinZoneHeight-1e-9)
				}
			}

			for _, c := range s.Corridors.Corridors {
				if c.Type == "MAIN" {
					continue
				}
				active := false
				for _, id := range c.ClusterIDs {
					active = active || s.Placement.Active(id)
				}
				assert.True(t, active, "%s serves no active cluster", c.ID)
			}

			centroid := plan.Bounds.Center()
			for _, r := range s.Radiators {
				mid := r.Wall.Midpoint()
				toCentroid := centroid.Sub(mid)
				for _, p := range r.Path {
					assert.GreaterOrEqual(t, p.Sub(mid).Dot(toCentroid), -1e-9)
				}
			}
		})
	}
}

func TestSynthesizeIdempotent(t *testing.T) {
	opts := roomOptions()
	opts.RandomSeed = 7

	first, err := Synthesize(room(), opts, nil)
	require.NoError(t, err)
	second, err := Synthesize(room(), opts, nil)
	require.NoError(t, err)

	a, err := layout.Marshal(first)
	require.NoError(t, err)
	b, err := layout.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestSynthesizeTargetCount(t *testing.T) {
	opts := roomOptions()
	opts.TargetUnitCount = 2
	rec := observability.NewRecorder()

	res, err := Synthesize(room(), opts, rec)
	require.NoError(t, err)
	assert.Len(t, res.Units, 2)
	assert.Equal(t, 2, res.Stats.TargetCount)
	assert.Empty(t, rec.Diagnostics())
}

func TestSynthesizeEmptyPlan(t *testing.T) {
	res, err := Synthesize(floorplan.Plan{}, Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Units)
	assert.Empty(t, res.Corridors)
	assert.Empty(t, res.Zones)
	assert.Empty(t, res.Radiators)
}

func TestSynthesizeInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"NegativeDepth", Options{UnitDepth: -1}, errors.ErrCodeInvalidConfig},
		{"UnknownStrategy", Options{ZoneExtractionStrategy: "voronoi"}, errors.ErrCodeInvalidStrategy},
		{"UnknownTypesOnly", Options{SizeDistribution: map[string]float64{"XXL": 1}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(room(), tt.opts, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "err = %v", err)
		})
	}
}

func TestSynthesizeUnknownTypeDiagnostic(t *testing.T) {
	opts := roomOptions()
	opts.SizeDistribution = map[string]float64{"M": 1, "XXL": 1}
	rec := observability.NewRecorder()

	res, err := Synthesize(room(), opts, rec)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"M": len(res.Units)}, res.Stats.TypeCounts)
	assert.Contains(t, rec.Diagnostics(), `placement: unknown unit type "XXL" ignored`)
}

func TestSynthesizeDocumentSkipsMalformedRecords(t *testing.T) {
	doc := floorplan.FromPlan(room())
	doc.Walls = append(doc.Walls, floorplan.WallRecord{})
	rec := observability.NewRecorder()

	res, err := SynthesizeDocument(doc, roomOptions(), rec)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.SkippedRecords)
	require.NotEmpty(t, rec.Diagnostics())
	assert.Contains(t, rec.Diagnostics()[0], "1 walls")
}

func TestExtractZones(t *testing.T) {
	s, err := ExtractZones(room(), Options{ZoneExtractionStrategy: "greedy-rectangle"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "greedy_rectangle", string(s.Zones.Strategy))
	assert.NotEmpty(t, s.Zones.Zones)
	assert.Nil(t, s.Plans)
}

func TestLayoutID(t *testing.T) {
	opts := roomOptions()
	opts.SetDefaults()
	id := LayoutID(room(), opts)
	assert.Equal(t, id, LayoutID(room(), opts))

	refreshed := opts
	refreshed.Refresh = true
	assert.Equal(t, id, LayoutID(room(), refreshed))

	reseeded := opts
	reseeded.RandomSeed = 1
	assert.NotEqual(t, id, LayoutID(room(), reseeded))
}

func TestSynthesizeRejectsOversizedGrid(t *testing.T) {
	huge := floorplan.Plan{Bounds: geometry.Rect{MaxX: 1e5, MaxY: 1e5}}

	_, err := Synthesize(huge, Options{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry), "err = %v", err)
	assert.Contains(t, err.Error(), "maxGridCells")

	_, err = ExtractZones(huge, Options{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry), "err = %v", err)

	nonFinite := floorplan.Plan{Bounds: geometry.Rect{MaxX: math.Inf(1), MaxY: 10}}
	_, err = Synthesize(nonFinite, Options{}, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry), "err = %v", err)
}

func TestSynthesizeGridLimitIsConfigurable(t *testing.T) {
	opts := roomOptions()
	opts.MaxGridCells = 100 // the 10x8 room needs 8000 cells at 0.1 m
	_, err := Synthesize(room(), opts, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry), "err = %v", err)

	opts.GridCellSize = 1
	_, err = Synthesize(room(), opts, nil)
	require.NoError(t, err)
}

func TestSynthesizeSeedZeroMeansDefault(t *testing.T) {
	zero := roomOptions()
	zero.RandomSeed = 0
	def := roomOptions()
	def.RandomSeed = DefaultSeed

	a, err := Synthesize(room(), zero, nil)
	require.NoError(t, err)
	b, err := Synthesize(room(), def, nil)
	require.NoError(t, err)
	assert.Equal(t, b.Units, a.Units)
	assert.Equal(t, b.ID, a.ID)
}
