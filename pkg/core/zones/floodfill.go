package zones

import (
	"github.com/matzehuels/boxplan/pkg/core/grid"
)

type cell struct{ row, col int }

var neighbours = [4]cell{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func floodFill(g *grid.Grid, opts Options) Result {
	var res Result
	if g.Empty() {
		return res
	}

	visited := make([]bool, g.Rows*g.Cols)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if visited[row*g.Cols+col] || g.Blocked(row, col) {
				continue
			}
			res.Passes++
			if z, ok := region(g, visited, cell{row, col}, opts); ok {
				res.Zones = append(res.Zones, z)
			}
		}
	}
	sortZones(res.Zones)
	return res
}

// region walks the component containing start and returns its bounding box
// as a zone when it passes the size and fill thresholds.
func region(g *grid.Grid, visited []bool, start cell, opts Options) (Zone, bool) {
	minR, maxR, minC, maxC := start.row, start.row, start.col, start.col
	count := 0

	visited[start.row*g.Cols+start.col] = true
	queue := []cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		count++

		minR, maxR = min(minR, cur.row), max(maxR, cur.row)
		minC, maxC = min(minC, cur.col), max(maxC, cur.col)

		for _, d := range neighbours {
			n := cell{cur.row + d.row, cur.col + d.col}
			if !g.InBounds(n.row, n.col) || g.Blocked(n.row, n.col) {
				continue
			}
			if idx := n.row*g.Cols + n.col; !visited[idx] {
				visited[idx] = true
				queue = append(queue, n)
			}
		}
	}

	rect := g.SpanRect(minR, minC, maxR, maxC)
	fill := float64(count) / float64((maxR-minR+1)*(maxC-minC+1))
	if !opts.bigEnough(rect) || fill < opts.MinFillRatio {
		return Zone{}, false
	}
	return Zone{Rect: rect, Cells: count, FillRatio: fill}, true
}
