package pipeline

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/boxplan/pkg/cache"
	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/floorplan"
	"github.com/matzehuels/boxplan/pkg/layout"
)

// layoutNamespace seeds deterministic layout IDs.
var layoutNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/boxplan/layout"))

// LayoutID derives the deterministic ID of the layout for plan and opts.
func LayoutID(plan floorplan.Plan, opts Options) string {
	return uuid.NewSHA1(layoutNamespace, []byte(PlanHash(plan)+":"+opts.Hash())).String()
}

// PlanHash hashes the normalised plan. Plans that normalise to the same
// document hash alike, whatever file format they came from.
func PlanHash(plan floorplan.Plan) string {
	h, _ := cache.HashJSON(floorplan.FromPlan(plan))
	return h
}

// Result exports the stages to the output contract. Coordinates and areas
// are rounded for stable output; inspection data (zones, clusters, synthetic
// walls) is included so the graph and inspect commands can work from a
// layout file alone.
func (s *Stages) Result() layout.Result {
	r := layout.Result{
		ID:               LayoutID(s.Plan, s.Options),
		Units:            make([]layout.Unit, 0, len(s.Placement.Units)),
		Corridors:        make([]layout.Corridor, 0, len(s.Corridors.Corridors)),
		Radiators:        make([]layout.Radiator, 0, len(s.Radiators)),
		CirculationPaths: make([]layout.CirculationPath, 0, len(s.Circulation)),
	}

	typeCounts := make(map[string]int)
	placedArea := 0.0
	for _, u := range s.Placement.Units {
		x, y, w, h := rectXYWH(u.Rect)
		r.Units = append(r.Units, layout.Unit{
			ID:            u.ID,
			X:             x,
			Y:             y,
			Width:         w,
			Height:        h,
			Area:          round(u.Rect.Area()),
			Type:          u.Type,
			PartitionType: u.Partition,
			ClusterID:     u.ClusterID,
			Row:           u.Row,
		})
		typeCounts[u.Type]++
		placedArea += u.Rect.Area()
	}

	for _, c := range s.Corridors.Corridors {
		x, y, w, h := rectXYWH(c.Rect)
		r.Corridors = append(r.Corridors, layout.Corridor{
			ID:          c.ID,
			Type:        string(c.Type),
			X:           x,
			Y:           y,
			Width:       w,
			Height:      h,
			Orientation: c.Orientation,
			Zone:        c.Zone,
			ClusterIDs:  c.ClusterIDs,
		})
	}

	for _, rad := range s.Radiators {
		r.Radiators = append(r.Radiators, layout.Radiator{
			WallSegment: wallSegment(rad.Wall),
			Path:        points(rad.Path),
		})
	}
	for _, c := range s.Circulation {
		r.CirculationPaths = append(r.CirculationPaths, layout.CirculationPath{
			Type:       string(c.Type),
			CorridorID: c.CorridorID,
			Path:       points(c.Path),
		})
	}

	r.Zones = s.exportZones()
	clusters, active := 0, 0
	for _, p := range s.Plans {
		for _, c := range p.Clusters {
			x, y, w, h := rectXYWH(c.Rect)
			n := s.Placement.PerCluster[c.ID]
			r.Clusters = append(r.Clusters, layout.Cluster{
				ID: c.ID, Zone: c.Zone, X: x, Y: y, Width: w, Height: h,
				RowAxis: c.RowAxis.String(), Units: n,
			})
			clusters++
			if n > 0 {
				active++
			}
		}
	}
	r.SyntheticWalls = s.exportSynthetic()

	usable := s.Zones.Area()
	r.Stats = layout.Stats{
		PlacedCount:        len(r.Units),
		TargetCount:        s.Options.TargetUnitCount,
		CorridorCount:      len(r.Corridors),
		ClusterCount:       clusters,
		ActiveClusterCount: active,
		ZoneCount:          len(r.Zones),
		Strategy:           string(s.Zones.Strategy),
		FallbackZone:       s.Zones.Fallback,
		FloorArea:          round(s.Plan.Bounds.Area()),
		UsableArea:         round(usable),
		PlacedArea:         round(placedArea),
		CorridorArea:       round(s.Corridors.Area()),
		Coverage:           round(ratio(placedArea, usable)),
		Attempts:           s.Placement.Attempts,
		SuccessRate:        round(s.Placement.SuccessRate()),
		RadiatorCount:      len(r.Radiators),
		CirculationCount:   len(r.CirculationPaths),
		RepairPasses:       len(s.Repair.Passes),
		RepairStop:         string(s.Repair.Stop),
		SyntheticWalls:     len(s.Repair.Synthetic),
		CorridorsDropped:   s.Corridors.Dropped,
		CorridorsMerged:    s.Corridors.Merged,
		SkippedRecords:     s.Report.Skipped(),
		TypeCounts:         typeCounts,
		Rejections:         copyCounts(s.Placement.Rejections),
	}
	return r
}

// ZoneResult exports the zone extraction stages.
func (s *Stages) ZoneResult() layout.ZoneResult {
	return layout.ZoneResult{
		Strategy:       string(s.Zones.Strategy),
		Fallback:       s.Zones.Fallback,
		Zones:          s.exportZones(),
		UsableArea:     round(s.Zones.Area()),
		SyntheticWalls: s.exportSynthetic(),
	}
}

func (s *Stages) exportZones() []layout.Zone {
	var out []layout.Zone
	for _, z := range s.Zones.Zones {
		x, y, w, h := rectXYWH(z.Rect)
		out = append(out, layout.Zone{ID: z.ID, X: x, Y: y, Width: w, Height: h})
	}
	return out
}

func (s *Stages) exportSynthetic() []layout.WallSegment {
	var out []layout.WallSegment
	for _, w := range s.Repair.Synthetic {
		out = append(out, wallSegment(w))
	}
	return out
}

// precision is the coordinate resolution of exported values (1 µm).
const precision = 1e6

func round(v float64) float64 {
	r := math.Round(v*precision) / precision
	if r == 0 {
		return 0 // normalise -0
	}
	return r
}

func rectXYWH(r geometry.Rect) (x, y, w, h float64) {
	return round(r.MinX), round(r.MinY), round(r.Width()), round(r.Height())
}

func wallSegment(s geometry.Segment) layout.WallSegment {
	return layout.WallSegment{X1: round(s.A.X), Y1: round(s.A.Y), X2: round(s.B.X), Y2: round(s.B.Y)}
}

func points(ps []geometry.Point) []layout.Point {
	out := make([]layout.Point, len(ps))
	for i, p := range ps {
		out[i] = layout.Point{X: round(p.X), Y: round(p.Y)}
	}
	return out
}

func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

func copyCounts(m map[string]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
