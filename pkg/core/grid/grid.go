// Package grid rasterizes a floor plan into a uniform boolean occupancy grid.
//
// A cell is blocked when it lies within clearance distance of a wall, a
// forbidden zone, an entrance, an obstacle or the building perimeter. The
// grid origin is the bounds minimum; row r covers y in
// [MinY+r*cell, MinY+(r+1)*cell) and column c covers x likewise.
package grid

import (
	"math"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
)

// Grid is a row-major occupancy grid. The zero value is an empty grid.
type Grid struct {
	Origin   geometry.Point
	CellSize float64
	Rows     int
	Cols     int
	Bounds   geometry.Rect

	blocked []bool
}

// New allocates an all-free grid covering bounds. Rows and columns are
// ceil(extent/cellSize). Degenerate bounds or cell size yield an empty grid.
// Callers bound the allocation with [CellCount] first.
func New(bounds geometry.Rect, cellSize float64) *Grid {
	g := &Grid{Origin: geometry.Point{X: bounds.MinX, Y: bounds.MinY}, CellSize: cellSize, Bounds: bounds}
	rows, cols := dims(bounds, cellSize)
	if !(rows > 0 && cols > 0) || math.IsInf(rows*cols, 0) {
		return g
	}
	g.Rows, g.Cols = int(rows), int(cols)
	g.blocked = make([]bool, g.Rows*g.Cols)
	return g
}

// CellCount returns rows*cols for a grid over bounds, as a float so huge
// extents do not overflow. Non-finite bounds count as +Inf.
func CellCount(bounds geometry.Rect, cellSize float64) float64 {
	rows, cols := dims(bounds, cellSize)
	if math.IsNaN(rows) || math.IsNaN(cols) {
		return math.Inf(1)
	}
	return rows * cols
}

func dims(bounds geometry.Rect, cellSize float64) (rows, cols float64) {
	if cellSize <= 0 || bounds.Empty() {
		return 0, 0
	}
	return math.Ceil(bounds.Height()/cellSize - 1e-9), math.Ceil(bounds.Width()/cellSize - 1e-9)
}

// Empty reports whether the grid has no cells.
func (g *Grid) Empty() bool { return g.Rows == 0 || g.Cols == 0 }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// Blocked reports whether a cell is blocked. Out-of-range cells are blocked.
func (g *Grid) Blocked(row, col int) bool {
	if !g.InBounds(row, col) {
		return true
	}
	return g.blocked[row*g.Cols+col]
}

// Block marks a cell blocked. Out-of-range cells are ignored.
func (g *Grid) Block(row, col int) {
	if g.InBounds(row, col) {
		g.blocked[row*g.Cols+col] = true
	}
}

// BlockedCount returns the number of blocked cells.
func (g *Grid) BlockedCount() int {
	n := 0
	for _, b := range g.blocked {
		if b {
			n++
		}
	}
	return n
}

// FreeCount returns the number of free cells.
func (g *Grid) FreeCount() int { return len(g.blocked) - g.BlockedCount() }

// CellsFor returns how many whole cells cover distance d.
func (g *Grid) CellsFor(d float64) int {
	if d <= 0 || g.CellSize <= 0 {
		return 0
	}
	return int(math.Ceil(d/g.CellSize - 1e-9))
}

// ToCell returns the cell containing p, clamped to the grid.
func (g *Grid) ToCell(p geometry.Point) (row, col int) {
	col = int(math.Floor((p.X - g.Origin.X) / g.CellSize))
	row = int(math.Floor((p.Y - g.Origin.Y) / g.CellSize))
	return clamp(row, 0, g.Rows-1), clamp(col, 0, g.Cols-1)
}

// CellRect returns the world rectangle of a cell.
func (g *Grid) CellRect(row, col int) geometry.Rect {
	x := g.Origin.X + float64(col)*g.CellSize
	y := g.Origin.Y + float64(row)*g.CellSize
	return geometry.Rect{MinX: x, MinY: y, MaxX: x + g.CellSize, MaxY: y + g.CellSize}
}

// CellCenter returns the world center of a cell.
func (g *Grid) CellCenter(row, col int) geometry.Point {
	return g.CellRect(row, col).Center()
}

// SpanRect returns the world rectangle covered by the inclusive cell range,
// clipped to the grid bounds.
func (g *Grid) SpanRect(r0, c0, r1, c1 int) geometry.Rect {
	lo := g.CellRect(r0, c0)
	hi := g.CellRect(r1, c1)
	return lo.Union(hi).Intersect(g.Bounds)
}

// cellRange returns the inclusive cell range of cells whose area overlaps r.
// ok is false when no cell overlaps.
func (g *Grid) cellRange(r geometry.Rect) (r0, c0, r1, c1 int, ok bool) {
	if g.Empty() {
		return 0, 0, 0, 0, false
	}
	c0 = int(math.Floor((r.MinX - g.Origin.X) / g.CellSize))
	c1 = int(math.Ceil((r.MaxX-g.Origin.X)/g.CellSize)) - 1
	r0 = int(math.Floor((r.MinY - g.Origin.Y) / g.CellSize))
	r1 = int(math.Ceil((r.MaxY-g.Origin.Y)/g.CellSize)) - 1
	c0, c1 = max(c0, 0), min(c1, g.Cols-1)
	r0, r1 = max(r0, 0), min(r1, g.Rows-1)
	return r0, c0, r1, c1, r0 <= r1 && c0 <= c1
}

// BlockRect blocks every cell whose area overlaps r.
func (g *Grid) BlockRect(r geometry.Rect) {
	g.eachOverlapping(r, func(row, col int) bool {
		g.blocked[row*g.Cols+col] = true
		return true
	})
}

// RectFree reports whether every cell overlapping r is free. Parts of r
// outside the grid count as blocked.
func (g *Grid) RectFree(r geometry.Rect) bool {
	if g.Empty() {
		return false
	}
	if r.MinX < g.Bounds.MinX-geometry.Tolerance || r.MinY < g.Bounds.MinY-geometry.Tolerance ||
		r.MaxX > g.Bounds.MaxX+geometry.Tolerance || r.MaxY > g.Bounds.MaxY+geometry.Tolerance {
		return false
	}
	free := true
	g.eachOverlapping(r, func(row, col int) bool {
		if g.blocked[row*g.Cols+col] {
			free = false
		}
		return free
	})
	return free
}

func (g *Grid) eachOverlapping(r geometry.Rect, fn func(row, col int) bool) {
	r0, c0, r1, c1, ok := g.cellRange(r)
	if !ok {
		return
	}
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if !geometry.RectsOverlap(g.CellRect(row, col), r) {
				continue
			}
			if !fn(row, col) {
				return
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
