package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Result - Synthesis Output
// =============================================================================

// Result is the output of one synthesis run.
type Result struct {
	ID               string            `json:"id" bson:"id"`
	Units            []Unit            `json:"units" bson:"units"`
	Corridors        []Corridor        `json:"corridors" bson:"corridors"`
	Radiators        []Radiator        `json:"radiators" bson:"radiators"`
	CirculationPaths []CirculationPath `json:"circulationPaths" bson:"circulationPaths"`
	Stats            Stats             `json:"stats" bson:"stats"`

	// Inspection data
	Zones          []Zone        `json:"zones,omitempty" bson:"zones,omitempty"`
	Clusters       []Cluster     `json:"clusters,omitempty" bson:"clusters,omitempty"`
	SyntheticWalls []WallSegment `json:"syntheticWalls,omitempty" bson:"syntheticWalls,omitempty"`
}

// Unit is a placed storage unit.
type Unit struct {
	ID            string  `json:"id" bson:"id"`
	X             float64 `json:"x" bson:"x"`
	Y             float64 `json:"y" bson:"y"`
	Width         float64 `json:"width" bson:"width"`
	Height        float64 `json:"height" bson:"height"`
	Area          float64 `json:"area" bson:"area"`
	Type          string  `json:"type" bson:"type"`
	PartitionType string  `json:"partitionType" bson:"partitionType"`
	ClusterID     string  `json:"clusterId" bson:"clusterId"`
	Row           string  `json:"row" bson:"row"`
}

// Corridor is an ACCESS, MAIN or CROSS corridor.
type Corridor struct {
	ID          string   `json:"id" bson:"id"`
	Type        string   `json:"type" bson:"type"`
	X           float64  `json:"x" bson:"x"`
	Y           float64  `json:"y" bson:"y"`
	Width       float64  `json:"width" bson:"width"`
	Height      float64  `json:"height" bson:"height"`
	Orientation string   `json:"orientation" bson:"orientation"`
	Zone        int      `json:"zone" bson:"zone"`
	ClusterIDs  []string `json:"clusterIds,omitempty" bson:"clusterIds,omitempty"`
}

// Point is a polyline vertex.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// WallSegment is a wall given by its endpoints.
type WallSegment struct {
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// Radiator is a zigzag heating run along a perimeter wall.
type Radiator struct {
	WallSegment WallSegment `json:"wallSegment" bson:"wallSegment"`
	Path        []Point     `json:"path" bson:"path"`
}

// CirculationPath is a directed centre line through a corridor.
type CirculationPath struct {
	Type       string  `json:"type" bson:"type"`
	CorridorID string  `json:"corridorId,omitempty" bson:"corridorId,omitempty"`
	Path       []Point `json:"path" bson:"path"`
}

// Zone is an extracted placement zone.
type Zone struct {
	ID     int     `json:"id" bson:"id"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Cluster is a planned double-row strip.
type Cluster struct {
	ID      string  `json:"id" bson:"id"`
	Zone    int     `json:"zone" bson:"zone"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	RowAxis string  `json:"rowAxis" bson:"rowAxis"`
	Units   int     `json:"units" bson:"units"`
}

// Active reports whether the cluster holds units.
func (c Cluster) Active() bool { return c.Units > 0 }

// ZoneResult is the output of zone extraction alone.
type ZoneResult struct {
	Strategy       string        `json:"strategy" bson:"strategy"`
	Fallback       bool          `json:"fallback,omitempty" bson:"fallback,omitempty"`
	Zones          []Zone        `json:"zones" bson:"zones"`
	UsableArea     float64       `json:"usableArea" bson:"usableArea"`
	SyntheticWalls []WallSegment `json:"syntheticWalls,omitempty" bson:"syntheticWalls,omitempty"`
}

// =============================================================================
// Stats
// =============================================================================

// Stats summarises a run.
type Stats struct {
	PlacedCount        int     `json:"placedCount" bson:"placedCount"`
	TargetCount        int     `json:"targetCount" bson:"targetCount"`
	CorridorCount      int     `json:"corridorCount" bson:"corridorCount"`
	ClusterCount       int     `json:"clusterCount" bson:"clusterCount"`
	ActiveClusterCount int     `json:"activeClusterCount" bson:"activeClusterCount"`
	ZoneCount          int     `json:"zoneCount" bson:"zoneCount"`
	Strategy           string  `json:"strategy" bson:"strategy"`
	FallbackZone       bool    `json:"fallbackZone,omitempty" bson:"fallbackZone,omitempty"`
	FloorArea          float64 `json:"floorArea" bson:"floorArea"`
	UsableArea         float64 `json:"usableArea" bson:"usableArea"`
	PlacedArea         float64 `json:"placedArea" bson:"placedArea"`
	CorridorArea       float64 `json:"corridorArea" bson:"corridorArea"`
	Coverage           float64 `json:"coverage" bson:"coverage"`
	Attempts           int     `json:"attempts" bson:"attempts"`
	SuccessRate        float64 `json:"successRate" bson:"successRate"`
	RadiatorCount      int     `json:"radiatorCount" bson:"radiatorCount"`
	CirculationCount   int     `json:"circulationCount" bson:"circulationCount"`
	RepairPasses       int     `json:"repairPasses" bson:"repairPasses"`
	RepairStop         string  `json:"repairStop" bson:"repairStop"`
	SyntheticWalls     int     `json:"syntheticWalls" bson:"syntheticWalls"`
	CorridorsDropped   int     `json:"corridorsDropped" bson:"corridorsDropped"`
	CorridorsMerged    int     `json:"corridorsMerged" bson:"corridorsMerged"`
	SkippedRecords     int     `json:"skippedRecords" bson:"skippedRecords"`

	TypeCounts map[string]int `json:"typeCounts,omitempty" bson:"typeCounts,omitempty"`
	Rejections map[string]int `json:"rejections,omitempty" bson:"rejections,omitempty"`
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Result to pretty-printed JSON bytes.
func Marshal(r Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Result. Every unit must reference
// a cluster ID.
func Unmarshal(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	for _, u := range r.Units {
		if u.ClusterID == "" {
			return Result{}, fmt.Errorf("unit %q has no cluster", u.ID)
		}
	}
	return r, nil
}

// WriteFile writes a Result to a JSON file.
func WriteFile(r Result, path string) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Result from a JSON file.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
