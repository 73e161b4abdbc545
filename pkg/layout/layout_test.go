package layout

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleResult() Result {
	return Result{
		ID: "abc",
		Units: []Unit{
			{ID: "unit-0001", X: 1.8, Y: 1.8, Width: 2, Height: 2, Area: 4, Type: "M", PartitionType: "grise", ClusterID: "cluster-0-0", Row: "left"},
		},
		Corridors: []Corridor{
			{ID: "corridor-001", Type: "MAIN", X: 0.2, Y: 0.2, Width: 9.6, Height: 1.2, Orientation: "horizontal"},
			{ID: "corridor-002", Type: "ACCESS", X: 1.8, Y: 3.8, Width: 6.4, Height: 1.2, Orientation: "horizontal", ClusterIDs: []string{"cluster-0-0"}},
		},
		Zones:    []Zone{{ID: 0, X: 0.2, Y: 0.2, Width: 9.6, Height: 7.6}},
		Clusters: []Cluster{{ID: "cluster-0-0", Zone: 0, Width: 6.4, Height: 4.4, RowAxis: "x", Units: 1}, {ID: "cluster-0-1", Zone: 0, RowAxis: "x"}},
		Stats: Stats{
			PlacedCount: 1,
			TypeCounts:  map[string]int{"M": 1},
		},
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	r := sampleResult()
	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, key := range []string{`"partitionType"`, `"clusterId"`, `"clusterIds"`, `"circulationPaths"`, `"placedCount"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("output missing %s", key)
		}
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Units) != 1 || got.Units[0].PartitionType != "grise" {
		t.Errorf("units = %+v", got.Units)
	}
	if got.Stats.TypeCounts["M"] != 1 {
		t.Errorf("typeCounts = %v", got.Stats.TypeCounts)
	}

	again, _ := Marshal(got)
	if !bytes.Equal(data, again) {
		t.Error("re-marshal is not byte-identical")
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"InvalidJSON", `{`},
		{"UnitWithoutCluster", `{"units":[{"id":"unit-0001"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteFile(sampleResult(), path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.ID != "abc" || len(got.Corridors) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !os.IsNotExist(unwrapAll(err)) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleResult())

	want := []string{
		"digraph layout {",
		`"zone-0" -> "cluster-0-0";`,
		`"zone-0" -> "corridor-001";`,
		`"cluster-0-0" -> "corridor-002";`,
		`"cluster-0-1" [label="cluster-0-1\n0 units", style="rounded,dashed"];`,
	}
	for _, w := range want {
		if !strings.Contains(dot, w) {
			t.Errorf("DOT missing %q\n%s", w, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT not terminated")
	}
}
