// Package layout defines the serialized output of layout synthesis.
//
// [Result] is the wire contract consumed by renderers, exporters and the
// compliance validator. It is produced by pkg/pipeline and must be treated
// as read-only by consumers. All coordinates are in meters in the input's
// coordinate frame.
//
// # Output Shape
//
//	{
//	  "id": "5c1f...",
//	  "units": [{"id": "unit-0001", "x": 1.9, "y": 1.8, "width": 2.5, "height": 2,
//	             "area": 5, "type": "M", "partitionType": "grise",
//	             "clusterId": "cluster-0-0", "row": "left"}],
//	  "corridors": [{"id": "corridor-001", "type": "MAIN", ...}],
//	  "radiators": [{"wallSegment": {"x1": 0, "y1": 0, "x2": 10, "y2": 0}, "path": [...]}],
//	  "circulationPaths": [{"type": "ACCESS", "path": [{"x": 5, "y": 6.2}, {"x": 5, "y": 1.8}]}],
//	  "stats": {"placedCount": 8, "targetCount": 0, "corridorCount": 5, ...}
//	}
//
// Zones and clusters are included for inspection tools; renderers may
// ignore them.
//
// # Serialization
//
//	data, _ := layout.Marshal(result)
//	result, _ := layout.ReadFile("level-0.layout.json")
//
// # Debug Graph
//
// [ToDOT] describes the zone, cluster and corridor hierarchy as a Graphviz
// graph; [RenderSVG] renders it. This is a debugging aid, not an export of
// the floor plan.
package layout
