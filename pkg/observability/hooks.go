// Package observability provides the diagnostics sink for layout synthesis.
//
// The layout pipeline never writes to a console. Every stage reports what it
// did (repair passes, zone yields, rejected placements, corridor counts) to a
// [PipelineHooks] value passed in by the caller. Hosts pick an implementation:
//
//   - [NoopPipelineHooks] discards everything (the default)
//   - [LogHooks] forwards events to a charmbracelet/log logger
//   - [Recorder] counts events in memory, safe for concurrent use
//   - [Multi] fans events out to several sinks
//
// There is no global registry: hooks travel with the request, so concurrent
// syntheses (one per floor, say) never share mutable state.
//
// # Usage
//
//	rec := observability.NewRecorder()
//	hooks := observability.Multi(observability.NewLogHooks(logger), rec)
//	result, err := pipeline.Synthesize(plan, opts, hooks)
//	fmt.Println(rec.Rejections())
//
// [CacheHooks] and [HTTPHooks] follow the same pattern for the runner's cache
// and the HTTP server.
package observability

import (
	"context"
	"time"
)

// Pipeline stage names passed to OnStage and OnDiagnostic.
const (
	StageRepair    = "repair"
	StageGrid      = "grid"
	StageZones     = "zones"
	StageClusters  = "clusters"
	StagePlacement = "placement"
	StageCorridors = "corridors"
	StageAnnotate  = "annotate"
)

// Stages lists the stage names in pipeline order.
var Stages = []string{StageRepair, StageGrid, StageZones, StageClusters, StagePlacement, StageCorridors, StageAnnotate}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the layout synthesis pipeline.
// Calls are synchronous and made from the synthesising goroutine.
type PipelineHooks interface {
	// Repair events
	OnRepairPass(pass, gaps, filled int)
	OnRepairDone(passes, synthetic int, reason string)

	// Grid and zone events
	OnGridBuilt(rows, cols, blocked int)
	OnZonesExtracted(strategy string, count int, fallback bool)
	OnClustersPlanned(zone, count int, rowAxis string)

	// Placement events
	OnUnitPlaced(clusterID, unitType string)
	OnUnitRejected(clusterID, reason string)

	// Corridor events
	OnCorridorsRouted(count, dropped, merged int)

	// OnStage records the wall time of a completed stage.
	OnStage(stage string, duration time.Duration)

	// OnDiagnostic records a non-fatal anomaly (unknown size type, cross
	// corridor without room, repair cap reached).
	OnDiagnostic(stage, message string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRepairPass(int, int, int)         {}
func (NoopPipelineHooks) OnRepairDone(int, int, string)      {}
func (NoopPipelineHooks) OnGridBuilt(int, int, int)          {}
func (NoopPipelineHooks) OnZonesExtracted(string, int, bool) {}
func (NoopPipelineHooks) OnClustersPlanned(int, int, string) {}
func (NoopPipelineHooks) OnUnitPlaced(string, string)        {}
func (NoopPipelineHooks) OnUnitRejected(string, string)      {}
func (NoopPipelineHooks) OnCorridorsRouted(int, int, int)    {}
func (NoopPipelineHooks) OnStage(string, time.Duration)      {}
func (NoopPipelineHooks) OnDiagnostic(string, string)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// OrNoop returns h, or NoopPipelineHooks when h is nil.
func OrNoop(h PipelineHooks) PipelineHooks {
	if h == nil {
		return NoopPipelineHooks{}
	}
	return h
}

// =============================================================================
// Fan-out
// =============================================================================

type multi []PipelineHooks

// Multi returns hooks that forward every event to each of hs in order.
// Nil entries are ignored.
func Multi(hs ...PipelineHooks) PipelineHooks {
	var m multi
	for _, h := range hs {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}

func (m multi) OnRepairPass(pass, gaps, filled int) {
	for _, h := range m {
		h.OnRepairPass(pass, gaps, filled)
	}
}

func (m multi) OnRepairDone(passes, synthetic int, reason string) {
	for _, h := range m {
		h.OnRepairDone(passes, synthetic, reason)
	}
}

func (m multi) OnGridBuilt(rows, cols, blocked int) {
	for _, h := range m {
		h.OnGridBuilt(rows, cols, blocked)
	}
}

func (m multi) OnZonesExtracted(strategy string, count int, fallback bool) {
	for _, h := range m {
		h.OnZonesExtracted(strategy, count, fallback)
	}
}

func (m multi) OnClustersPlanned(zone, count int, rowAxis string) {
	for _, h := range m {
		h.OnClustersPlanned(zone, count, rowAxis)
	}
}

func (m multi) OnUnitPlaced(clusterID, unitType string) {
	for _, h := range m {
		h.OnUnitPlaced(clusterID, unitType)
	}
}

func (m multi) OnUnitRejected(clusterID, reason string) {
	for _, h := range m {
		h.OnUnitRejected(clusterID, reason)
	}
}

func (m multi) OnCorridorsRouted(count, dropped, merged int) {
	for _, h := range m {
		h.OnCorridorsRouted(count, dropped, merged)
	}
}

func (m multi) OnStage(stage string, d time.Duration) {
	for _, h := range m {
		h.OnStage(stage, d)
	}
}

func (m multi) OnDiagnostic(stage, message string) {
	for _, h := range m {
		h.OnDiagnostic(stage, message)
	}
}
