package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks forwards pipeline events to a charmbracelet logger. Per-candidate
// events log at debug level; stage summaries log at info.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or nil when logger is nil.
func NewLogHooks(logger *log.Logger) PipelineHooks {
	if logger == nil {
		return nil
	}
	return &LogHooks{Logger: logger}
}

// OnRepairPass logs "repair pass" at debug level.
func (h *LogHooks) OnRepairPass(pass, gaps, filled int) {
	h.Logger.Debug("repair pass", "pass", pass, "gaps", gaps, "filled", filled)
}

// OnRepairDone logs "walls repaired" at info level.
func (h *LogHooks) OnRepairDone(passes, synthetic int, reason string) {
	h.Logger.Info("walls repaired", "passes", passes, "synthetic", synthetic, "stop", reason)
}

// OnGridBuilt logs "grid built" at debug level.
func (h *LogHooks) OnGridBuilt(rows, cols, blocked int) {
	h.Logger.Debug("grid built", "rows", rows, "cols", cols, "blocked", blocked)
}

// OnZonesExtracted logs "zones extracted" at info level.
func (h *LogHooks) OnZonesExtracted(strategy string, count int, fallback bool) {
	h.Logger.Info("zones extracted", "strategy", strategy, "count", count, "fallback", fallback)
}

// OnClustersPlanned logs "clusters planned" at debug level.
func (h *LogHooks) OnClustersPlanned(zone, count int, rowAxis string) {
	h.Logger.Debug("clusters planned", "zone", zone, "count", count, "rows", rowAxis)
}

// OnUnitPlaced logs "unit placed" at debug level.
func (h *LogHooks) OnUnitPlaced(clusterID, unitType string) {
	h.Logger.Debug("unit placed", "cluster", clusterID, "type", unitType)
}

// OnUnitRejected logs "unit rejected" at debug level.
func (h *LogHooks) OnUnitRejected(clusterID, reason string) {
	h.Logger.Debug("unit rejected", "cluster", clusterID, "reason", reason)
}

// OnCorridorsRouted logs "corridors routed" at info level.
func (h *LogHooks) OnCorridorsRouted(count, dropped, merged int) {
	h.Logger.Info("corridors routed", "count", count, "dropped", dropped, "merged", merged)
}

// OnStage logs "stage complete" at debug level.
func (h *LogHooks) OnStage(stage string, d time.Duration) {
	h.Logger.Debug("stage complete", "stage", stage, "took", d)
}

// OnDiagnostic logs message at warn level, tagged with its stage.
func (h *LogHooks) OnDiagnostic(stage, message string) {
	h.Logger.Warn(message, "stage", stage)
}

// LogHTTPHooks logs API requests. Responses log at info, or warn for 5xx.
type LogHTTPHooks struct {
	Logger *log.Logger
}

// NewLogHTTPHooks returns HTTP hooks writing to logger.
func NewLogHTTPHooks(logger *log.Logger) HTTPHooks {
	if logger == nil {
		return NoopHTTPHooks{}
	}
	return &LogHTTPHooks{Logger: logger}
}

// OnRequest logs "request" at debug level.
func (h *LogHTTPHooks) OnRequest(ctx context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path, "id", RequestID(ctx))
}

// OnResponse logs the status and latency of a finished request.
func (h *LogHTTPHooks) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	logf := h.Logger.Info
	if status >= 500 {
		logf = h.Logger.Warn
	}
	logf("response", "method", method, "path", path, "status", status, "took", d, "id", RequestID(ctx))
}

// requestIDKey is the context key for request IDs.
type requestIDKey struct{}

// WithRequestID attaches a request ID to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
