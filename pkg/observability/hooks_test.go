package observability

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnRepairPass(1, 4, 2)
	p.OnRepairDone(2, 2, "converged")
	p.OnGridBuilt(80, 100, 1200)
	p.OnZonesExtracted("flood_fill", 1, false)
	p.OnClustersPlanned(0, 1, "y")
	p.OnUnitPlaced("cluster-0-0", "M")
	p.OnUnitRejected("cluster-0-0", "wall")
	p.OnCorridorsRouted(5, 0, 0)
	p.OnStage(StageGrid, time.Millisecond)
	p.OnDiagnostic(StageRepair, "cap reached")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/synthesize")
	h.OnResponse(ctx, "POST", "/v1/synthesize", 200, time.Second)
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(NoopPipelineHooks); !ok {
		t.Error("OrNoop(nil) should return NoopPipelineHooks")
	}
	rec := NewRecorder()
	if OrNoop(rec) != rec {
		t.Error("OrNoop should pass non-nil hooks through")
	}
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi(a, nil, b)

	m.OnUnitPlaced("c", "S")
	m.OnUnitRejected("c", "unit")
	m.OnUnitRejected("c", "unit")
	m.OnDiagnostic(StageCorridors, "no room for cross corridor")

	for name, r := range map[string]*Recorder{"a": a, "b": b} {
		if got := r.Placed()["S"]; got != 1 {
			t.Errorf("%s: Placed[S] = %d, want 1", name, got)
		}
		if got := r.Rejections()["unit"]; got != 2 {
			t.Errorf("%s: Rejections[unit] = %d, want 2", name, got)
		}
		if got := len(r.Diagnostics()); got != 1 {
			t.Errorf("%s: diagnostics = %d, want 1", name, got)
		}
	}
}

func TestRecorderConcurrent(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rec.OnUnitPlaced("c", "M")
				rec.OnRepairPass(1, 0, 0)
			}
		}()
	}
	wg.Wait()

	if got := rec.Placed()["M"]; got != 800 {
		t.Errorf("Placed[M] = %d, want 800", got)
	}
	if got := rec.RepairPasses(); got != 800 {
		t.Errorf("RepairPasses() = %d, want 800", got)
	}
}

func TestLogHooks(t *testing.T) {
	if NewLogHooks(nil) != nil {
		t.Error("NewLogHooks(nil) should return nil")
	}

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)

	h.OnZonesExtracted("greedy_rectangle", 3, false)
	h.OnDiagnostic(StageRepair, "repair cap reached")

	out := buf.String()
	for _, want := range []string{"zones extracted", "greedy_rectangle", "repair cap reached"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHTTPHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	h := NewLogHTTPHooks(logger)

	ctx := WithRequestID(context.Background(), "req-1")
	h.OnResponse(ctx, "POST", "/v1/zones", 500, time.Millisecond)

	out := buf.String()
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "req-1") {
		t.Errorf("log output = %q, want warn line with request id", out)
	}
	if RequestID(context.Background()) != "" {
		t.Error("RequestID on empty context should be empty")
	}
	if _, ok := NewLogHTTPHooks(nil).(NoopHTTPHooks); !ok {
		t.Error("NewLogHTTPHooks(nil) should return NoopHTTPHooks")
	}
}
