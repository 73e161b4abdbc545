package annotate

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/boxplan/pkg/core/corridor"
	"github.com/matzehuels/boxplan/pkg/core/geometry"
)

func roomWalls(b geometry.Rect) []geometry.Segment {
	e := b.Edges()
	return e[:]
}

func TestRadiatorsExampleRoom(t *testing.T) {
	bounds := geometry.Rect{MaxX: 10, MaxY: 8}
	rads := Radiators(roomWalls(bounds), bounds, DefaultRadiatorOptions())
	if len(rads) != 4 {
		t.Fatalf("radiators = %d, want 4", len(rads))
	}

	south := rads[0]
	if south.Wall != geometry.Seg(0, 0, 10, 0) {
		t.Fatalf("first radiator wall = %+v, want the south wall", south.Wall)
	}
	if got := len(south.Path); got != 41 {
		t.Errorf("path points = %d, want 41", got)
	}
	if got := south.Path[0].Y; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("even sample offset = %v, want 0.4", got)
	}
	if got := south.Path[1].Y; math.Abs(got-0.1) > 1e-9 {
		t.Errorf("odd sample offset = %v, want 0.1", got)
	}
	if got := south.Path[40].X; math.Abs(got-10) > 1e-9 {
		t.Errorf("last sample x = %v, want 10", got)
	}
}

func TestRadiatorsFallbackToBounds(t *testing.T) {
	bounds := geometry.Rect{MaxX: 6, MaxY: 4}
	walls := []geometry.Segment{geometry.Seg(3, 1, 3, 3)} // interior only
	rads := Radiators(walls, bounds, DefaultRadiatorOptions())
	if len(rads) != 4 {
		t.Errorf("radiators = %d, want 4 from the bounds edges", len(rads))
	}
}

func TestMergeRuns(t *testing.T) {
	tests := []struct {
		name string
		segs []geometry.Segment
		want int
	}{
		{"collinear touching", []geometry.Segment{geometry.Seg(0, 0, 5, 0), geometry.Seg(5, 0, 10, 0)}, 1},
		{"opposite direction", []geometry.Segment{geometry.Seg(0, 0, 5, 0), geometry.Seg(10, 0, 5.05, 0)}, 1},
		{"chain of three", []geometry.Segment{geometry.Seg(0, 0, 2, 0), geometry.Seg(4, 0, 6, 0), geometry.Seg(2, 0, 4, 0)}, 1},
		{"door gap", []geometry.Segment{geometry.Seg(0, 0, 4.5, 0), geometry.Seg(5.5, 0, 10, 0)}, 2},
		{"perpendicular corner", []geometry.Segment{geometry.Seg(0, 0, 5, 0), geometry.Seg(5, 0, 5, 5)}, 2},
		{"parallel offset", []geometry.Segment{geometry.Seg(0, 0, 5, 0), geometry.Seg(5, 0.5, 10, 0.5)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeRuns(tt.segs, DefaultAngleTolerance, DefaultAdjacencyTolerance)
			if len(got) != tt.want {
				t.Errorf("runs = %d (%+v), want %d", len(got), got, tt.want)
			}
		})
	}

	merged := MergeRuns([]geometry.Segment{geometry.Seg(0, 0, 5, 0), geometry.Seg(10, 0, 5, 0)}, 5, 0.1)
	if merged[0] != geometry.Seg(0, 0, 10, 0) {
		t.Errorf("merged run = %+v, want 0..10", merged[0])
	}
}

func TestRadiatorsSkipShortRuns(t *testing.T) {
	bounds := geometry.Rect{MaxX: 10, MaxY: 8}
	walls := append(roomWalls(bounds)[1:],
		geometry.Seg(0, 0, 4.5, 0),
		geometry.Seg(5.5, 0, 9.5, 0),
		geometry.Seg(9.7, 0, 10, 0), // 0.3m stub, too far to merge
	)
	rads := Radiators(walls, bounds, DefaultRadiatorOptions())
	if len(rads) != 5 {
		t.Errorf("radiators = %d, want 5", len(rads))
	}
}

func TestRadiatorsPointInward(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3^0xdeadbeef))
	opts := DefaultRadiatorOptions()

	for trial := 0; trial < 20; trial++ {
		w, h := 5+rng.Float64()*20, 5+rng.Float64()*20
		bounds := geometry.Rect{MaxX: w, MaxY: h}
		var walls []geometry.Segment
		for _, e := range bounds.Edges() {
			cut := 0.3 + rng.Float64()*0.4
			walls = append(walls, geometry.Segment{A: e.A, B: e.At(cut)}, geometry.Segment{A: e.At(cut), B: e.B})
		}
		centroid := bounds.Center()

		for _, r := range Radiators(walls, bounds, opts) {
			toCentroid := centroid.Sub(r.Wall.Midpoint())
			if r.Normal.Dot(toCentroid) < 0 {
				t.Fatalf("trial %d: normal %+v points away from centroid", trial, r.Normal)
			}
			for _, p := range r.Path {
				if off := p.Sub(r.Wall.A).Dot(r.Normal); off < 0 {
					t.Fatalf("trial %d: path point %+v lies outside wall %+v", trial, p, r.Wall)
				}
			}
		}
	}
}

func TestInwardNormal(t *testing.T) {
	c := geometry.Point{X: 5, Y: 4}
	tests := []struct {
		s    geometry.Segment
		want geometry.Point
	}{
		{geometry.Seg(0, 0, 10, 0), geometry.Point{X: 0, Y: 1}},
		{geometry.Seg(10, 0, 0, 0), geometry.Point{X: 0, Y: 1}},
		{geometry.Seg(10, 0, 10, 8), geometry.Point{X: -1, Y: 0}},
		{geometry.Seg(0, 8, 0, 0), geometry.Point{X: 1, Y: 0}},
	}
	for _, tt := range tests {
		got := InwardNormal(tt.s, c)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("InwardNormal(%+v) = %+v, want %+v", tt.s, got, tt.want)
		}
	}
}

func TestCirculation(t *testing.T) {
	cs := []corridor.Corridor{
		{ID: "corridor-001", Type: corridor.Access, Orientation: corridor.Vertical,
			Rect: geometry.Rect{MinX: 0.4, MinY: 0, MaxX: 1.6, MaxY: 10}},
		{ID: "corridor-002", Type: corridor.Main, Orientation: corridor.Horizontal,
			Rect: geometry.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 1.5}},
	}

	paths := Circulation(cs, geometry.Point{X: 9, Y: 0}, true)
	if len(paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(paths))
	}
	if got := paths[0].Path; got[0].Y != 10 || got[1].Y != 0 {
		t.Errorf("vertical path = %+v, want toward the entrance (y=10 to y=0)", got)
	}
	if got := paths[1].Path; got[0].X != 0 || got[1].X != 10 {
		t.Errorf("horizontal path = %+v, want toward the entrance (x=0 to x=10)", got)
	}
	if paths[0].Type != corridor.Access || paths[0].CorridorID != "corridor-001" {
		t.Errorf("path metadata = %+v", paths[0])
	}

	paths = Circulation(cs, geometry.Point{}, false)
	if got := paths[0].Path; got[0].Y != 0 || got[1].Y != 10 {
		t.Errorf("no entrance: path = %+v, want low to high", got)
	}
}
