package floorplan

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boxplan/pkg/core/geometry"
	"github.com/matzehuels/boxplan/pkg/errors"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported plan format: %s", path)
}

// Read decodes a document in the given format.
func Read(r io.Reader, format string) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode json plan")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode yaml plan")
		}
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unknown plan format %q", format)
	}
	return doc, nil
}

// Load reads a document from a JSON or YAML file.
func Load(path string) (Document, error) {
	if err := errors.ValidatePlanPath(path); err != nil {
		return Document{}, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read plan %s", path)
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read plan %s", path)
	}
	return Read(bytes.NewReader(data), format)
}

// LoadPlan reads and normalises a floor plan file.
func LoadPlan(path string) (Plan, Report, error) {
	doc, err := Load(path)
	if err != nil {
		return Plan{}, Report{}, err
	}
	plan, report := Normalize(doc)
	return plan, report, nil
}

// FromPlan converts a normalised plan back into its wire document.
// Polygon zones keep their vertices; the bounding rectangle is also written.
func FromPlan(p Plan) Document {
	doc := Document{Bounds: &BoundsRecord{
		MinX: ptr(p.Bounds.MinX), MinY: ptr(p.Bounds.MinY),
		MaxX: ptr(p.Bounds.MaxX), MaxY: ptr(p.Bounds.MaxY),
	}}
	for _, w := range p.Walls {
		doc.Walls = append(doc.Walls, WallRecord{X1: ptr(w.A.X), Y1: ptr(w.A.Y), X2: ptr(w.B.X), Y2: ptr(w.B.Y)})
	}
	for _, z := range p.ForbiddenZones {
		rec := ZoneRecord{RectRecord: rectRecord(z.Rect)}
		for _, v := range z.Polygon {
			rec.Polygon = append(rec.Polygon, PointRecord{X: ptr(v.X), Y: ptr(v.Y)})
		}
		doc.ForbiddenZones = append(doc.ForbiddenZones, rec)
	}
	for _, e := range p.Entrances {
		doc.Entrances = append(doc.Entrances, rectRecord(e))
	}
	for _, o := range p.Obstacles {
		doc.Obstacles = append(doc.Obstacles, rectRecord(o))
	}
	return doc
}

func rectRecord(r geometry.Rect) RectRecord {
	return RectRecord{X: ptr(r.MinX), Y: ptr(r.MinY), Width: ptr(r.Width()), Height: ptr(r.Height())}
}

func ptr(v float64) *float64 { return &v }
