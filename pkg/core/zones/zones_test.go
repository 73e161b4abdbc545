package zones

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/core/grid"
	"github.com/matzehuels/boxplan/pkg/errors"
	"github.com/matzehuels/boxplan/pkg/floorplan"
)

var gridOpts = grid.Options{
	CellSize:           0.1,
	WallClearance:      0.3,
	EntranceClearance:  1.0,
	ObstacleClearance:  0.3,
	ForbiddenClearance: 0.3,
	MinWallLength:      0.05,
}

func rasterize(plan floorplan.Plan) *grid.Grid {
	return grid.Rasterize(plan, plan.Walls, gridOpts)
}

func exampleRoom() floorplan.Plan {
	b := geometry.Rect{MaxX: 10, MaxY: 8}
	e := b.Edges()
	return floorplan.Plan{
		Bounds:    b,
		Walls:     e[:],
		Entrances: []geometry.Rect{geometry.RectXYWH(4.5, 0, 1, 0.2)},
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
		ok   bool
	}{
		{"flood_fill", FloodFill, true},
		{"Greedy-Rectangle", GreedyRectangle, true},
		{" greedy_rectangle ", GreedyRectangle, true},
		{"hybrid", "", false},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, %v; want %q, ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidStrategy) {
			t.Errorf("ParseStrategy(%q) code = %q", tt.in, errors.GetCode(err))
		}
	}
}

func TestExtractExampleRoom(t *testing.T) {
	g := rasterize(exampleRoom())
	for _, s := range Strategies {
		t.Run(string(s), func(t *testing.T) {
			res := Extract(g, Options{Strategy: s, Clearance: 0.3})
			if res.Fallback {
				t.Fatal("unexpected fallback")
			}
			if s == FloodFill && len(res.Zones) != 1 {
				t.Fatalf("zones = %d, want 1", len(res.Zones))
			}
			z := res.Zones[0].Rect
			if s == FloodFill && (!near(z.Width(), 9.4) || !near(z.Height(), 7.4)) {
				t.Errorf("zone = %.3f x %.3f, want 9.4 x 7.4", z.Width(), z.Height())
			}
			if !near(z.MinX, 0.3) || !near(z.MaxY, 7.7) {
				t.Errorf("zone = %+v, want clearance inset", z)
			}
		})
	}
}

func TestFloodFillTwoRooms(t *testing.T) {
	plan := floorplan.Plan{
		Bounds: geometry.Rect{MaxX: 20, MaxY: 8},
		Walls:  []geometry.Segment{geometry.Seg(12, 0, 12, 8)},
	}
	res := Extract(rasterize(plan), Options{Strategy: FloodFill})
	if len(res.Zones) != 2 {
		t.Fatalf("zones = %d, want 2", len(res.Zones))
	}
	if res.Zones[0].Rect.Area() < res.Zones[1].Rect.Area() {
		t.Error("zones should be sorted by area descending")
	}
	if res.Zones[0].ID != 0 || res.Zones[1].ID != 1 {
		t.Error("zone IDs should follow sorted order")
	}
	if res.Zones[0].Rect.MaxX > 12 {
		t.Errorf("largest zone %+v should be the west room", res.Zones[0].Rect)
	}
}

func TestFloodFillRejectsSparseRegion(t *testing.T) {
	// An L-shaped free region: two 3m-wide arms of a 10x10 square.
	g := grid.New(geometry.Rect{MaxX: 10, MaxY: 10}, 0.5)
	g.BlockRect(geometry.Rect{MinX: 3, MinY: 3, MaxX: 10, MaxY: 10})

	res := Extract(g, Options{Strategy: FloodFill, MinFillRatio: 0.7})
	if !res.Fallback {
		t.Errorf("L-shaped region should be rejected, got %+v", res.Zones)
	}

	res = Extract(g, Options{Strategy: GreedyRectangle})
	if res.Fallback || len(res.Zones) != 2 {
		t.Errorf("greedy should split the L into 2 zones, got %+v", res.Zones)
	}
}

func TestGreedyPassCap(t *testing.T) {
	g := grid.New(geometry.Rect{MaxX: 30, MaxY: 30}, 0.5)
	for x := 5.0; x < 30; x += 5 {
		g.BlockRect(geometry.Rect{MinX: x, MinY: 0, MaxX: x + 0.5, MaxY: 30})
	}
	res := Extract(g, Options{Strategy: GreedyRectangle, MaxPasses: 2})
	if res.Passes > 2 || len(res.Zones) > 2 {
		t.Errorf("passes = %d, zones = %d, want <= 2", res.Passes, len(res.Zones))
	}
}

func TestFallback(t *testing.T) {
	g := grid.New(geometry.Rect{MaxX: 10, MaxY: 8}, 0.5)
	g.BlockRect(g.Bounds)

	res := Extract(g, Options{Clearance: 0.3})
	if !res.Fallback || len(res.Zones) != 1 {
		t.Fatalf("Fallback = %v, zones = %d, want true, 1", res.Fallback, len(res.Zones))
	}
	want := geometry.Rect{MinX: 0.3, MinY: 0.3, MaxX: 9.7, MaxY: 7.7}
	if got := res.Zones[0].Rect; !near(got.MinX, want.MinX) || !near(got.MinY, want.MinY) || !near(got.MaxX, want.MaxX) || !near(got.MaxY, want.MaxY) {
		t.Errorf("fallback = %+v, want %+v", res.Zones[0].Rect, want)
	}

	res = Extract(grid.New(geometry.Rect{}, 0.1), Options{Clearance: 0.3})
	if res.Fallback || len(res.Zones) != 0 {
		t.Errorf("empty bounds: Fallback = %v, zones = %d, want false, 0", res.Fallback, len(res.Zones))
	}
}

func TestZonesMeetMinimumAndGreedyDisjoint(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))
	for trial := 0; trial < 20; trial++ {
		plan := floorplan.Plan{Bounds: geometry.Rect{MaxX: 30, MaxY: 20}}
		for i := 0; i < 6; i++ {
			plan.Obstacles = append(plan.Obstacles,
				geometry.RectXYWH(rng.Float64()*28, rng.Float64()*18, 0.5+rng.Float64()*2, 0.5+rng.Float64()*2))
		}
		g := rasterize(plan)

		for _, s := range Strategies {
			opts := Options{Strategy: s, Clearance: 0.3}
			res := Extract(g, opts)
			if res.Fallback {
				continue
			}
			for _, z := range res.Zones {
				if z.Rect.Width() < DefaultMinWidth-geometry.Tolerance || z.Rect.Height() < DefaultMinHeight-geometry.Tolerance {
					t.Errorf("trial %d %s: zone %+v below minimum", trial, s, z.Rect)
				}
			}
			if s != GreedyRectangle {
				continue
			}
			for i := range res.Zones {
				for j := i + 1; j < len(res.Zones); j++ {
					if geometry.RectsOverlap(res.Zones[i].Rect, res.Zones[j].Rect) {
						t.Errorf("trial %d: greedy zones %d and %d overlap", trial, i, j)
					}
				}
			}
		}
	}
}
