package placement

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
)

// indexed is one rectIndex item, keyed by the centre of its bound.
type indexed struct {
	center orb.Point
	id     int
}

func (e *indexed) Point() orb.Point { return e.center }

// rectIndex finds the items whose bound may meet a query box. Bound centres
// live in an orb quadtree; a query widens the box by the largest half-extent
// added so far, which makes the candidate set a superset of the true hits.
// Items centred outside the tree bound go to a side list that every query
// scans.
type rectIndex struct {
	tree         *quadtree.Quadtree
	halfW, halfH float64
	outside      []int
	buf          []orb.Pointer
}

func newRectIndex(bounds geometry.Rect) *rectIndex {
	return &rectIndex{tree: quadtree.New(toBound(bounds))}
}

func (x *rectIndex) add(id int, bound geometry.Rect) {
	c := bound.Center()
	x.halfW = math.Max(x.halfW, bound.Width()/2)
	x.halfH = math.Max(x.halfH, bound.Height()/2)
	if err := x.tree.Add(&indexed{center: orb.Point{c.X, c.Y}, id: id}); err != nil {
		x.outside = append(x.outside, id)
	}
}

// any reports whether hit accepts some candidate near box. Candidates come
// in no particular order.
func (x *rectIndex) any(box geometry.Rect, hit func(id int) bool) bool {
	pad := geometry.Tolerance
	q := geometry.Rect{
		MinX: box.MinX - x.halfW - pad, MinY: box.MinY - x.halfH - pad,
		MaxX: box.MaxX + x.halfW + pad, MaxY: box.MaxY + x.halfH + pad,
	}
	x.buf = x.tree.InBound(x.buf, toBound(q))
	for _, p := range x.buf {
		if hit(p.(*indexed).id) {
			return true
		}
	}
	for _, id := range x.outside {
		if hit(id) {
			return true
		}
	}
	return false
}

func toBound(r geometry.Rect) orb.Bound {
	return orb.Bound{Min: orb.Point{r.MinX, r.MinY}, Max: orb.Point{r.MaxX, r.MaxY}}
}

// indexBounds covers the plan, its walls and every planned area, so most
// items land inside the tree.
func indexBounds(env Env, areas []geometry.Rect) geometry.Rect {
	b := env.Plan.Bounds
	for _, w := range env.Walls {
		b = b.Union(w.Bound())
	}
	for _, a := range areas {
		b = b.Union(a)
	}
	return b
}
