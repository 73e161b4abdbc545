package floorplan

import (
	"github.com/matzehuels/boxplan/pkg/core/geometry"
)

// =============================================================================
// Document - Wire Format
// =============================================================================

// Document is the wire representation of a floor plan. Coordinates are
// pointers so missing values can be told apart from zeros.
type Document struct {
	Bounds         *BoundsRecord `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Walls          []WallRecord  `json:"walls,omitempty" yaml:"walls,omitempty"`
	ForbiddenZones []ZoneRecord  `json:"forbiddenZones,omitempty" yaml:"forbiddenZones,omitempty"`
	Entrances      []RectRecord  `json:"entrances,omitempty" yaml:"entrances,omitempty"`
	Obstacles      []RectRecord  `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
}

// BoundsRecord is the footprint bounding rectangle.
type BoundsRecord struct {
	MinX *float64 `json:"minX" yaml:"minX"`
	MinY *float64 `json:"minY" yaml:"minY"`
	MaxX *float64 `json:"maxX" yaml:"maxX"`
	MaxY *float64 `json:"maxY" yaml:"maxY"`
}

// WallRecord is one wall segment.
type WallRecord struct {
	X1 *float64 `json:"x1" yaml:"x1"`
	Y1 *float64 `json:"y1" yaml:"y1"`
	X2 *float64 `json:"x2" yaml:"x2"`
	Y2 *float64 `json:"y2" yaml:"y2"`
}

// RectRecord is an axis-aligned rectangle given by corner and size.
type RectRecord struct {
	X      *float64 `json:"x" yaml:"x"`
	Y      *float64 `json:"y" yaml:"y"`
	Width  *float64 `json:"width" yaml:"width"`
	Height *float64 `json:"height" yaml:"height"`
}

// PointRecord is a polygon vertex.
type PointRecord struct {
	X *float64 `json:"x" yaml:"x"`
	Y *float64 `json:"y" yaml:"y"`
}

// ZoneRecord is a forbidden zone given either as a rectangle or as a polygon.
// When Polygon has three or more valid vertices it wins over the rectangle.
type ZoneRecord struct {
	RectRecord `yaml:",inline"`
	Polygon    []PointRecord `json:"polygon,omitempty" yaml:"polygon,omitempty"`
}

// =============================================================================
// Plan - Normalised Geometry
// =============================================================================

// Plan is the immutable, normalised floor plan geometry.
type Plan struct {
	Bounds         geometry.Rect      `json:"bounds"`
	Walls          []geometry.Segment `json:"walls"`
	ForbiddenZones []ForbiddenZone    `json:"forbiddenZones"`
	Entrances      []geometry.Rect    `json:"entrances"`
	Obstacles      []geometry.Rect    `json:"obstacles"`
}

// ForbiddenZone is a region no unit may occupy. Polygon is nil for
// rectangular zones; Rect is always the zone's bounding rectangle.
type ForbiddenZone struct {
	Rect    geometry.Rect    `json:"rect"`
	Polygon geometry.Polygon `json:"polygon,omitempty"`
}

// EntranceCentroid returns the mean of all entrance centers. ok is false when
// the plan has no entrances.
func (p Plan) EntranceCentroid() (c geometry.Point, ok bool) {
	if len(p.Entrances) == 0 {
		return geometry.Point{}, false
	}
	for _, e := range p.Entrances {
		c = c.Add(e.Center())
	}
	return c.Scale(1 / float64(len(p.Entrances))), true
}

// Empty reports whether the plan has no usable footprint.
func (p Plan) Empty() bool { return p.Bounds.Empty() }

// Report counts records dropped by [Normalize].
type Report struct {
	SkippedWalls     int  `json:"skippedWalls"`
	SkippedZones     int  `json:"skippedZones"`
	SkippedEntrances int  `json:"skippedEntrances"`
	SkippedObstacles int  `json:"skippedObstacles"`
	BoundsInferred   bool `json:"boundsInferred"`
}

// Skipped returns the total number of dropped records.
func (r Report) Skipped() int {
	return r.SkippedWalls + r.SkippedZones + r.SkippedEntrances + r.SkippedObstacles
}

// Normalize converts a wire document into a Plan, skipping malformed records.
// Missing bounds are inferred from the extent of all walls.
func Normalize(doc Document) (Plan, Report) {
	var (
		plan   Plan
		report Report
	)

	for _, w := range doc.Walls {
		if !allSet(w.X1, w.Y1, w.X2, w.Y2) {
			report.SkippedWalls++
			continue
		}
		plan.Walls = append(plan.Walls, geometry.Seg(*w.X1, *w.Y1, *w.X2, *w.Y2))
	}

	for _, z := range doc.ForbiddenZones {
		zone, ok := z.zone()
		if !ok {
			report.SkippedZones++
			continue
		}
		plan.ForbiddenZones = append(plan.ForbiddenZones, zone)
	}

	for _, e := range doc.Entrances {
		r, ok := e.rect()
		if !ok {
			report.SkippedEntrances++
			continue
		}
		plan.Entrances = append(plan.Entrances, r)
	}

	for _, o := range doc.Obstacles {
		r, ok := o.rect()
		if !ok {
			report.SkippedObstacles++
			continue
		}
		plan.Obstacles = append(plan.Obstacles, r)
	}

	if b := doc.Bounds; b != nil && allSet(b.MinX, b.MinY, b.MaxX, b.MaxY) {
		plan.Bounds = geometry.Rect{MinX: *b.MinX, MinY: *b.MinY, MaxX: *b.MaxX, MaxY: *b.MaxY}
	} else if len(plan.Walls) > 0 {
		plan.Bounds = wallExtent(plan.Walls)
		report.BoundsInferred = true
	}

	return plan, report
}

func (r RectRecord) rect() (geometry.Rect, bool) {
	if !allSet(r.X, r.Y, r.Width, r.Height) || *r.Width <= 0 || *r.Height <= 0 {
		return geometry.Rect{}, false
	}
	return geometry.RectXYWH(*r.X, *r.Y, *r.Width, *r.Height), true
}

func (z ZoneRecord) zone() (ForbiddenZone, bool) {
	var poly geometry.Polygon
	for _, p := range z.Polygon {
		if allSet(p.X, p.Y) {
			poly = append(poly, geometry.Point{X: *p.X, Y: *p.Y})
		}
	}
	if poly.Valid() {
		return ForbiddenZone{Rect: poly.Bound(), Polygon: poly}, true
	}
	r, ok := z.rect()
	if !ok {
		return ForbiddenZone{}, false
	}
	return ForbiddenZone{Rect: r}, true
}

func wallExtent(walls []geometry.Segment) geometry.Rect {
	b := walls[0].Bound()
	for _, w := range walls[1:] {
		b = b.Union(w.Bound())
	}
	return b
}

func allSet(vals ...*float64) bool {
	for _, v := range vals {
		if v == nil {
			return false
		}
	}
	return true
}
