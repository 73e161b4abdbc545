package zones

import (
	"github.com/matzehuels/boxplan/pkg/core/grid"
)

// span is an inclusive cell rectangle.
type span struct {
	r0, c0, r1, c1 int
}

func (s span) cells() int { return (s.r1 - s.r0 + 1) * (s.c1 - s.c0 + 1) }

func greedyRectangles(g *grid.Grid, opts Options) Result {
	var res Result
	if g.Empty() {
		return res
	}

	used := make([]bool, g.Rows*g.Cols)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			used[row*g.Cols+col] = g.Blocked(row, col)
		}
	}

	heights := make([]int, g.Cols)
	for res.Passes < opts.MaxPasses {
		best, ok := largestFree(used, g.Rows, g.Cols, heights)
		if !ok {
			break
		}
		rect := g.SpanRect(best.r0, best.c0, best.r1, best.c1)
		if rect.Area() < opts.MinArea {
			break
		}
		res.Passes++

		for row := best.r0; row <= best.r1; row++ {
			for col := best.c0; col <= best.c1; col++ {
				used[row*g.Cols+col] = true
			}
		}
		// Too thin to host a cluster; consumed so the next pass moves on.
		if !opts.bigEnough(rect) {
			continue
		}
		res.Zones = append(res.Zones, Zone{Rect: rect, Cells: best.cells(), FillRatio: 1})
	}
	sortZones(res.Zones)
	return res
}

// largestFree returns the largest all-free cell rectangle using the
// histogram-and-stack method, one row at a time. Ties keep the first
// rectangle found in row-major scan order.
func largestFree(used []bool, rows, cols int, heights []int) (span, bool) {
	clear(heights)
	var (
		best  span
		area  int
		stack []int
	)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if used[row*cols+col] {
				heights[col] = 0
			} else {
				heights[col]++
			}
		}

		stack = stack[:0]
		for col := 0; col <= cols; col++ {
			h := 0
			if col < cols {
				h = heights[col]
			}
			for len(stack) > 0 && heights[stack[len(stack)-1]] >= h {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				height := heights[top]
				left := 0
				if len(stack) > 0 {
					left = stack[len(stack)-1] + 1
				}
				if a := height * (col - left); height > 0 && a > area {
					area = a
					best = span{r0: row - height + 1, c0: left, r1: row, c1: col - 1}
				}
			}
			stack = append(stack, col)
		}
	}
	return best, area > 0
}
