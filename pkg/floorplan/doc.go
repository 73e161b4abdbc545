// Package floorplan defines the vector input consumed by the layout pipeline.
//
// A floor plan is a bounding rectangle plus wall segments, forbidden zones
// (rectangles or polygons), entrances and optional obstacles, all in meters.
// The geometry-ingestion component (CAD parsing) lives outside this module and
// hands over a [Document]; this package turns it into a normalised [Plan].
//
// # Malformed Records
//
// Records with missing coordinates are skipped, not rejected. [Normalize]
// reports how many of each kind were dropped so hosts can surface it:
//
//	doc, err := floorplan.Load("level-0.yaml")
//	plan, report := floorplan.Normalize(doc)
//	if report.Skipped() > 0 {
//	    logger.Warn("skipped malformed records", "count", report.Skipped())
//	}
//
// # Formats
//
// [Load] and [Read] accept JSON and YAML with identical field names
// (camelCase, matching the external input contract).
package floorplan
