package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/boxplan/pkg/layout"
)

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, layout.Stats{PlacedCount: 4, TargetCount: 6, CorridorCount: 5, ZoneCount: 1, Coverage: 0.4567}, true)

	out := buf.String()
	assert.Contains(t, out, "4/6 units")
	assert.Contains(t, out, "5 corridors")
	assert.Contains(t, out, "45.7% coverage")
	assert.Contains(t, out, "cached")
}

func TestTypeSummary(t *testing.T) {
	assert.Equal(t, "L×2 XS×1", typeSummary(map[string]int{"XS": 1, "L": 2}))
	assert.Equal(t, "", typeSummary(nil))
}

func TestZoneTable(t *testing.T) {
	zones := []layout.Zone{{ID: 0, X: 0.3, Y: 0.3, Width: 9.4, Height: 7.4}}

	plain := zoneTable(zones, nil)
	assert.Contains(t, plain, "9.40 × 7.40")
	assert.NotContains(t, plain, "Clusters")

	withClusters := zoneTable(zones, []layout.Cluster{{Zone: 0, Units: 3}, {Zone: 0}})
	assert.Contains(t, withClusters, "1/2")
}

func TestStageTable(t *testing.T) {
	assert.Contains(t, stageTable(nil), "no stages ran")

	got := stageTable(map[string]time.Duration{"grid": 2 * time.Millisecond, "repair": time.Millisecond})
	assert.Contains(t, got, "repair")
	assert.Contains(t, got, "3ms")
	assert.Less(t, strings.Index(got, "repair"), strings.Index(got, "grid"), "pipeline order")
}
