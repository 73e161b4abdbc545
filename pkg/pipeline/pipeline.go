// Package pipeline runs layout synthesis end to end.
//
// One configurable pipeline replaces per-strategy engines. Its stages are:
//
//  1. Repair: bridge wall gaps (pkg/core/repair)
//  2. Grid: rasterize walls, zones, entrances and obstacles (pkg/core/grid)
//  3. Zones: extract free rectangles by flood fill or greedy rectangle
//  4. Clusters: plan double-row strips and lay main lanes on zone edges
//  5. Placement: fill rows with seeded random sizes
//  6. Corridors: route ACCESS, MAIN and CROSS corridors and merge them
//  7. Annotate: radiators and circulation paths
//
// Every stage reports to the [observability.PipelineHooks] passed in; the
// pipeline never logs on its own and holds no package-level state, so
// concurrent runs are safe.
//
// # Errors
//
// Synthesis rejects two kinds of input up front: options that fail
// [Options.Validate], and plans whose occupancy grid would exceed
// [Options.MaxGridCells] cells (INVALID_GEOMETRY). Past those checks every
// geometric problem degrades the layout and surfaces as a diagnostic.
//
// # Usage
//
//	opts := pipeline.Options{UnitDepth: 2.5, ZoneExtractionStrategy: "flood_fill"}
//	result, err := pipeline.Synthesize(plan, opts, hooks)
//
// With caching and batch execution:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	results, err := runner.RunBatch(ctx, floors, opts)
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/boxplan/pkg/core/annotate"
	"github.com/matzehuels/boxplan/pkg/core/catalog"
	"github.com/matzehuels/boxplan/pkg/core/cluster"
	"github.com/matzehuels/boxplan/pkg/core/corridor"
	"github.com/matzehuels/boxplan/pkg/core/grid"
	"github.com/matzehuels/boxplan/pkg/core/placement"
	"github.com/matzehuels/boxplan/pkg/core/repair"
	"github.com/matzehuels/boxplan/pkg/core/zones"
	"github.com/matzehuels/boxplan/pkg/errors"
	"github.com/matzehuels/boxplan/pkg/floorplan"
	"github.com/matzehuels/boxplan/pkg/layout"
	"github.com/matzehuels/boxplan/pkg/observability"
)

// Stages holds every intermediate product of one run. The CLI's zones and
// graph commands read the intermediates; API callers usually want only
// [Stages.Result].
type Stages struct {
	Plan        floorplan.Plan
	Report      floorplan.Report
	Options     Options
	Repair      repair.Result
	Grid        *grid.Grid
	Zones       zones.Result
	Plans       []cluster.Plan
	Lanes       []cluster.Lane
	Placement   placement.Result
	Corridors   corridor.Result
	Radiators   []annotate.Radiator
	Circulation []annotate.CirculationPath
}

// Synthesize runs the full pipeline and exports the result. It fails only
// for invalid options or an oversized plan; other geometry problems degrade
// the output instead.
func Synthesize(plan floorplan.Plan, opts Options, hooks observability.PipelineHooks) (layout.Result, error) {
	s, err := Build(plan, opts, hooks)
	if err != nil {
		return layout.Result{}, err
	}
	return s.Result(), nil
}

// SynthesizeDocument normalises a wire document, reports skipped records as
// diagnostics and synthesizes it.
func SynthesizeDocument(doc floorplan.Document, opts Options, hooks observability.PipelineHooks) (layout.Result, error) {
	plan, report := floorplan.Normalize(doc)
	s, err := buildWithReport(plan, report, opts, hooks)
	if err != nil {
		return layout.Result{}, err
	}
	return s.Result(), nil
}

// Build runs every stage and returns the intermediates.
func Build(plan floorplan.Plan, opts Options, hooks observability.PipelineHooks) (*Stages, error) {
	return buildWithReport(plan, floorplan.Report{}, opts, hooks)
}

func buildWithReport(plan floorplan.Plan, report floorplan.Report, opts Options, hooks observability.PipelineHooks) (*Stages, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := checkGridSize(plan, opts); err != nil {
		return nil, err
	}
	hooks = observability.OrNoop(hooks)
	reportSkipped(report, hooks)

	s := &Stages{Plan: plan, Report: report, Options: opts}
	s.extract(hooks)
	s.layOut(hooks)
	return s, nil
}

// ExtractZones runs repair, rasterization and zone extraction only.
func ExtractZones(plan floorplan.Plan, opts Options, hooks observability.PipelineHooks) (*Stages, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := checkGridSize(plan, opts); err != nil {
		return nil, err
	}
	hooks = observability.OrNoop(hooks)
	s := &Stages{Plan: plan, Options: opts}
	s.extract(hooks)
	return s, nil
}

// checkGridSize rejects plans whose occupancy grid would exceed
// opts.MaxGridCells. It runs before the grid is allocated.
func checkGridSize(plan floorplan.Plan, opts Options) error {
	n := grid.CellCount(plan.Bounds, opts.GridCellSize)
	if n <= float64(opts.MaxGridCells) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidGeometry,
		"plan bounds %.6g x %.6g m need %.3g grid cells at cell size %v, above the limit of %d; raise gridCellSize or maxGridCells",
		plan.Bounds.Width(), plan.Bounds.Height(), n, opts.GridCellSize, opts.MaxGridCells)
}

func reportSkipped(r floorplan.Report, hooks observability.PipelineHooks) {
	if r.Skipped() > 0 {
		hooks.OnDiagnostic(observability.StageRepair, fmt.Sprintf(
			"skipped malformed records: %d walls, %d zones, %d entrances, %d obstacles",
			r.SkippedWalls, r.SkippedZones, r.SkippedEntrances, r.SkippedObstacles))
	}
	if r.BoundsInferred {
		hooks.OnDiagnostic(observability.StageRepair, "bounds missing; inferred from wall extent")
	}
}

// extract runs repair, grid and zones. Options are already defaulted and
// validated.
func (s *Stages) extract(hooks observability.PipelineHooks) {
	o := s.Options

	start := time.Now()
	s.Repair = repair.Repair(s.Plan.Walls, repair.Options{
		GapThreshold: o.GapThreshold,
		MinFill:      o.MinGapFill,
		MaxPasses:    o.MaxRepairPasses,
	})
	for i, p := range s.Repair.Passes {
		hooks.OnRepairPass(i+1, p.Gaps, p.Filled)
	}
	hooks.OnRepairDone(len(s.Repair.Passes), len(s.Repair.Synthetic), string(s.Repair.Stop))
	if s.Repair.Stop != repair.StopConverged && len(s.Repair.Remaining) > 0 {
		hooks.OnDiagnostic(observability.StageRepair, fmt.Sprintf(
			"repair stopped (%s) with %d gaps open", s.Repair.Stop, len(s.Repair.Remaining)))
	}
	hooks.OnStage(observability.StageRepair, time.Since(start))

	start = time.Now()
	s.Grid = grid.Rasterize(s.Plan, s.Repair.Walls, grid.Options{
		CellSize:           o.GridCellSize,
		WallClearance:      o.WallClearance,
		EntranceClearance:  o.EntranceClearance,
		ObstacleClearance:  o.ObstacleClearance,
		ForbiddenClearance: o.ForbiddenClearance,
		MinWallLength:      o.MinWallLength,
	})
	hooks.OnGridBuilt(s.Grid.Rows, s.Grid.Cols, s.Grid.BlockedCount())
	hooks.OnStage(observability.StageGrid, time.Since(start))

	start = time.Now()
	strategy, _ := zones.ParseStrategy(o.ZoneExtractionStrategy)
	s.Zones = zones.Extract(s.Grid, zones.Options{
		Strategy:     strategy,
		MinWidth:     o.MinZoneWidth,
		MinHeight:    o.MinZoneHeight,
		MinArea:      o.MinZoneArea,
		MinFillRatio: o.MinFillRatio,
		MaxPasses:    o.MaxZonePasses,
		Clearance:    o.WallClearance,
	})
	hooks.OnZonesExtracted(string(s.Zones.Strategy), len(s.Zones.Zones), s.Zones.Fallback)
	if s.Zones.Fallback {
		hooks.OnDiagnostic(observability.StageZones, "no zone passed the thresholds; using bounds inset by wall clearance")
	}
	hooks.OnStage(observability.StageZones, time.Since(start))
}

// layOut runs clusters, placement, corridors and annotation. Each stage
// reads only what earlier stages stored on s.
func (s *Stages) layOut(hooks observability.PipelineHooks) {
	o := s.Options

	start := time.Now()
	s.Plans, s.Lanes = cluster.PlanAll(s.Zones.Zones, s.Plan.Bounds,
		cluster.LaneOptions{
			Width: o.MainCorridorWidth,
			Reach: o.WallClearance + 2*o.GridCellSize,
		},
		cluster.Options{
			UnitDepth:  o.UnitDepth,
			AisleWidth: o.AccessCorridorWidth,
			Spacing:    o.UnitSpacing,
		})
	for _, p := range s.Plans {
		hooks.OnClustersPlanned(p.Zone, len(p.Clusters), p.RowAxis.String())
	}
	hooks.OnStage(observability.StageClusters, time.Since(start))

	start = time.Now()
	cat, unknown := catalog.New(o.SizeDistribution, o.UnitDepth)
	for _, u := range unknown {
		hooks.OnDiagnostic(observability.StagePlacement, fmt.Sprintf("unknown unit type %q ignored", u))
	}
	s.Placement = placement.Place(s.Plans, placement.Env{
		Plan:  s.Plan,
		Walls: s.Repair.Walls,
		Grid:  s.Grid,
	}, cat, catalog.NewRand(o.RandomSeed), placement.Options{
		WallClearance:      o.WallClearance,
		EntranceClearance:  o.EntranceClearance,
		ObstacleClearance:  o.ObstacleClearance,
		ForbiddenClearance: o.ForbiddenClearance,
		Spacing:            o.UnitSpacing,
		TargetCount:        o.TargetUnitCount,
		PartitionTolerance: o.PartitionTolerance,
	}, hooks)
	if o.TargetUnitCount > 0 && !s.Placement.TargetReached {
		hooks.OnDiagnostic(observability.StagePlacement, fmt.Sprintf(
			"placed %d of %d target units", len(s.Placement.Units), o.TargetUnitCount))
	}
	hooks.OnStage(observability.StagePlacement, time.Since(start))

	start = time.Now()
	s.Corridors = corridor.Route(s.Plans, s.Lanes, s.Placement.Units, corridor.Options{
		AccessWidth:  o.AccessCorridorWidth,
		CrossMinSpan: o.CrossCorridorMinSpan,
		MinArea:      o.MinCorridorArea,
	}, hooks)
	hooks.OnStage(observability.StageCorridors, time.Since(start))

	start = time.Now()
	s.Radiators = annotate.Radiators(s.Plan.Walls, s.Plan.Bounds, annotate.RadiatorOptions{
		Standoff:           o.RadiatorStandoff,
		Amplitude:          o.RadiatorAmplitude,
		Wavelength:         o.RadiatorWavelength,
		PerimeterTolerance: o.PerimeterTolerance,
		MinPerimeterWalls:  o.MinPerimeterWalls,
		MinRun:             o.MinRadiatorRun,
		AngleTolerance:     annotate.DefaultAngleTolerance,
		AdjacencyTolerance: annotate.DefaultAdjacencyTolerance,
	})
	entrance, ok := s.Plan.EntranceCentroid()
	s.Circulation = annotate.Circulation(s.Corridors.Corridors, entrance, ok)
	hooks.OnStage(observability.StageAnnotate, time.Since(start))
}
