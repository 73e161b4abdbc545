// Package pkg provides the core libraries for Boxplan storage layout synthesis.
//
// # Overview
//
// Boxplan turns an architectural floor plan (walls, forbidden zones,
// entrances and obstacles) into a self-storage layout: placed units, access
// and main corridors, radiators along perimeter walls and circulation paths.
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML plan
//	     ↓
//	[floorplan] (decode, skip malformed records, normalise)
//	     ↓
//	[core/repair] → [core/grid] → [core/zones]
//	     ↓
//	[core/cluster] → [core/placement] → [core/corridor] → [core/annotate]
//	     ↓
//	[layout] (JSON result, DOT/SVG debug graph)
//
// [pipeline] strings the stages together and [pipeline.Runner] adds caching
// ([cache]) and parallel per-floor runs. [observability] carries the hook
// interfaces every stage reports to.
//
// # Quick Start
//
//	plan, _, err := floorplan.LoadPlan("floor.json")
//	if err != nil {
//	    return err
//	}
//	result, err := pipeline.Synthesize(plan, pipeline.Options{UnitDepth: 2.5}, nil)
//	if err != nil {
//	    return err
//	}
//	return layout.WriteFile(result, "floor.layout.json")
//
// # Main Packages
//
// ## Geometry and Stages
//
// [core/geometry] - Points, segments, rectangles and polygons with a shared
// 1e-6 tolerance.
//
// [core/repair] - Bridges gaps between wall endpoints with synthetic walls.
//
// [core/grid] - Rasterizes walls, forbidden zones, entrances and obstacles
// into an occupancy grid.
//
// [core/zones] - Extracts placement zones by flood fill or greedy rectangle.
//
// [core/cluster] - Plans double-row strips on zones and lays main corridor lanes.
//
// [core/catalog] - Unit sizes and seeded weighted size selection.
//
// [core/placement] - Fills cluster rows with units and classifies partitions.
//
// [core/corridor] - Routes ACCESS, MAIN and CROSS corridors, then drops and
// merges them.
//
// [core/annotate] - Radiator zigzags and circulation paths.
//
// ## Infrastructure
//
// [pipeline] - Options, validation, the stage runner and result export.
//
// [cache] - File, Redis and MongoDB result caches.
//
// [errors] - Coded errors (INVALID_CONFIG, NOT_FOUND, ...).
//
// [observability] - Pipeline, cache and HTTP hooks with log and recorder
// implementations.
//
// [core/geometry]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/geometry
// [core/repair]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/repair
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/grid
// [core/zones]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/zones
// [core/cluster]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/cluster
// [core/catalog]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/catalog
// [core/placement]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/placement
// [core/corridor]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/corridor
// [core/annotate]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/core/annotate
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/observability
//
// [floorplan]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/floorplan
// [layout]: https://pkg.go.dev/github.com/matzehuels/boxplan/pkg/layout
package pkg
