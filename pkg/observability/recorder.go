package observability

import (
	"maps"
	"sync"
	"time"
)

// Recorder counts pipeline events in memory. It is safe for concurrent use,
// so one Recorder can observe a batch of parallel runs.
type Recorder struct {
	mu          sync.Mutex
	repairPass  int
	synthetic   int
	placed      map[string]int
	rejections  map[string]int
	zones       int
	corridors   int
	diagnostics []string
	stages      map[string]time.Duration
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		placed:     make(map[string]int),
		rejections: make(map[string]int),
		stages:     make(map[string]time.Duration),
	}
}

// OnRepairPass counts repair passes.
func (r *Recorder) OnRepairPass(int, int, int) {
	r.mu.Lock()
	r.repairPass++
	r.mu.Unlock()
}

// OnRepairDone adds the synthetic walls of a run.
func (r *Recorder) OnRepairDone(_ int, synthetic int, _ string) {
	r.mu.Lock()
	r.synthetic += synthetic
	r.mu.Unlock()
}

// OnGridBuilt is ignored.
func (r *Recorder) OnGridBuilt(int, int, int) {}

// OnZonesExtracted adds the zones of a run.
func (r *Recorder) OnZonesExtracted(_ string, count int, _ bool) {
	r.mu.Lock()
	r.zones += count
	r.mu.Unlock()
}

// OnClustersPlanned is ignored.
func (r *Recorder) OnClustersPlanned(int, int, string) {}

// OnUnitPlaced counts placements by unit type.
func (r *Recorder) OnUnitPlaced(_, unitType string) {
	r.mu.Lock()
	r.placed[unitType]++
	r.mu.Unlock()
}

// OnUnitRejected counts rejections by reason.
func (r *Recorder) OnUnitRejected(_, reason string) {
	r.mu.Lock()
	r.rejections[reason]++
	r.mu.Unlock()
}

// OnCorridorsRouted adds the corridors of a run.
func (r *Recorder) OnCorridorsRouted(count, _, _ int) {
	r.mu.Lock()
	r.corridors += count
	r.mu.Unlock()
}

// OnStage accumulates wall time per stage across runs.
func (r *Recorder) OnStage(stage string, d time.Duration) {
	r.mu.Lock()
	r.stages[stage] += d
	r.mu.Unlock()
}

// OnDiagnostic keeps message prefixed with its stage.
func (r *Recorder) OnDiagnostic(stage, message string) {
	r.mu.Lock()
	r.diagnostics = append(r.diagnostics, stage+": "+message)
	r.mu.Unlock()
}

// RepairPasses returns the number of repair passes observed.
func (r *Recorder) RepairPasses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.repairPass
}

// SyntheticWalls returns the number of gap-fill segments observed.
func (r *Recorder) SyntheticWalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.synthetic
}

// Zones returns the number of zones observed.
func (r *Recorder) Zones() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zones
}

// Corridors returns the number of corridors observed.
func (r *Recorder) Corridors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.corridors
}

// Placed returns a copy of placed-unit counts by type.
func (r *Recorder) Placed() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.placed)
}

// Rejections returns a copy of rejection counts by reason.
func (r *Recorder) Rejections() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.rejections)
}

// Diagnostics returns the recorded diagnostics as "stage: message" lines.
func (r *Recorder) Diagnostics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.diagnostics...)
}

// Stages returns accumulated wall time per stage.
func (r *Recorder) Stages() map[string]time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.stages)
}
