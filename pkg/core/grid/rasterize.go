package grid

import (
	"math"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/floorplan"
)

// Options configures rasterization. Each obstacle kind carries its own
// clearance; entrances need the widest standoff.
type Options struct {
	CellSize           float64
	WallClearance      float64
	EntranceClearance  float64
	ObstacleClearance  float64
	ForbiddenClearance float64
	MinWallLength      float64 // shorter walls are treated as noise
}

// Rasterize bakes the plan into a grid. walls replaces plan.Walls so callers
// can pass the repaired wall set.
//
// Burn order: perimeter band, walls, forbidden zones, entrances, obstacles.
func Rasterize(plan floorplan.Plan, walls []geometry.Segment, opts Options) *Grid {
	g := New(plan.Bounds, opts.CellSize)
	if g.Empty() {
		return g
	}

	g.burnPerimeter(opts.WallClearance)

	buf := g.CellsFor(opts.WallClearance)
	for _, w := range walls {
		if w.Length() < opts.MinWallLength || g.onPerimeter(w) {
			continue
		}
		g.burnSegment(w, buf)
	}

	for _, z := range plan.ForbiddenZones {
		if z.Polygon.Valid() {
			g.burnPolygon(z.Polygon, opts.ForbiddenClearance)
			continue
		}
		g.BlockRect(z.Rect.Inflate(opts.ForbiddenClearance))
	}
	for _, e := range plan.Entrances {
		g.BlockRect(e.Inflate(opts.EntranceClearance))
	}
	for _, o := range plan.Obstacles {
		g.BlockRect(o.Inflate(opts.ObstacleClearance))
	}
	return g
}

// burnPerimeter blocks a band of clearance width along all four bounds edges.
func (g *Grid) burnPerimeter(clearance float64) {
	b := g.CellsFor(clearance)
	if b == 0 {
		return
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if row < b || row >= g.Rows-b || col < b || col >= g.Cols-b {
				g.blocked[row*g.Cols+col] = true
			}
		}
	}
}

// onPerimeter reports whether w runs along one of the bounds edges, where the
// perimeter band already covers it.
func (g *Grid) onPerimeter(w geometry.Segment) bool {
	tol := g.CellSize / 2
	b := g.Bounds
	near := func(v, edge float64) bool { return math.Abs(v-edge) <= tol }
	switch {
	case near(w.A.X, b.MinX) && near(w.B.X, b.MinX),
		near(w.A.X, b.MaxX) && near(w.B.X, b.MaxX),
		near(w.A.Y, b.MinY) && near(w.B.Y, b.MinY),
		near(w.A.Y, b.MaxY) && near(w.B.Y, b.MaxY):
		return true
	}
	return false
}

// burnSegment walks w in half-cell steps and blocks a square of buf cells
// around each sample.
func (g *Grid) burnSegment(w geometry.Segment, buf int) {
	step := g.CellSize / 2
	n := max(1, int(math.Ceil(w.Length()/step)))
	for i := 0; i <= n; i++ {
		row, col := g.ToCell(w.At(float64(i) / float64(n)))
		for r := row - buf; r <= row+buf; r++ {
			for c := col - buf; c <= col+buf; c++ {
				g.Block(r, c)
			}
		}
	}
}

// burnPolygon blocks cells whose center lies inside poly or close enough that
// some part of the cell falls within clearance.
func (g *Grid) burnPolygon(poly geometry.Polygon, clearance float64) {
	reach := clearance + g.CellSize*math.Sqrt2/2
	g.eachOverlapping(poly.Bound().Inflate(reach), func(row, col int) bool {
		if poly.Distance(g.CellCenter(row, col)) <= reach {
			g.blocked[row*g.Cols+col] = true
		}
		return true
	})
}
