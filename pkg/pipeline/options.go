package pipeline

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/boxplan/pkg/cache"
	"github.com/matzehuels/boxplan/pkg/core/annotate"
	"github.com/matzehuels/boxplan/pkg/core/catalog"
	"github.com/matzehuels/boxplan/pkg/core/corridor"
	"github.com/matzehuels/boxplan/pkg/core/repair"
	"github.com/matzehuels/boxplan/pkg/core/zones"
	"github.com/matzehuels/boxplan/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Config Files
// =============================================================================

const (
	DefaultMainCorridorWidth   = 1.5
	DefaultAccessCorridorWidth = 1.2
	DefaultWallClearance       = 0.3
	DefaultUnitDepth           = 2.5
	DefaultUnitSpacing         = 0.1
	DefaultGridCellSize        = 0.1
	DefaultStrategy            = string(zones.FloodFill)
	DefaultSeed                = uint64(42)
	DefaultMaxGridCells        = 20_000_000

	DefaultEntranceClearance  = 1.0
	DefaultMinWallLength      = 0.05
	DefaultPartitionTolerance = 0.5
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options holds every synthesis knob. JSON names follow the API contract;
// TOML names are used by options files.
//
// Zero values mean "use the default", so an explicit zero for a knob with a
// non-zero default (UnitSpacing, say) cannot be expressed.
type Options struct {
	// Core configuration. Lengths are metres.
	//
	// MainCorridorWidth sizes the lanes along perimeter-facing zone edges and
	// AccessCorridorWidth the aisle between a cluster's two rows. UnitDepth is
	// the depth of every unit across its row. GridCellSize is the occupancy
	// raster resolution and MaxGridCells caps the cells a plan may need at
	// that resolution. TargetUnitCount stops placement early; zero fills
	// every row. SizeDistribution weights unit types (XS to XL) by name.
	MainCorridorWidth      float64            `json:"mainCorridorWidth,omitempty" toml:"main_corridor_width"`
	AccessCorridorWidth    float64            `json:"accessCorridorWidth,omitempty" toml:"access_corridor_width"`
	WallClearance          float64            `json:"wallClearance,omitempty" toml:"wall_clearance"`
	UnitDepth              float64            `json:"unitDepth,omitempty" toml:"unit_depth"`
	UnitSpacing            float64            `json:"unitSpacing,omitempty" toml:"unit_spacing"`
	GridCellSize           float64            `json:"gridCellSize,omitempty" toml:"grid_cell_size"`
	MaxGridCells           int                `json:"maxGridCells,omitempty" toml:"max_grid_cells"`
	TargetUnitCount        int                `json:"targetUnitCount,omitempty" toml:"target_unit_count"`
	SizeDistribution       map[string]float64 `json:"sizeDistribution,omitempty" toml:"size_distribution"`
	ZoneExtractionStrategy string             `json:"zoneExtractionStrategy,omitempty" toml:"zone_extraction_strategy"`
	// RandomSeed seeds unit size selection. Zero selects DefaultSeed (42),
	// so seed 0 itself cannot be requested and the two produce one layout.
	RandomSeed uint64 `json:"randomSeed,omitempty" toml:"random_seed"`

	// Clearances keep units away from each kind of obstruction. Obstacle and
	// forbidden clearances default to WallClearance. Walls shorter than
	// MinWallLength are ignored when rasterizing.
	EntranceClearance  float64 `json:"entranceClearance,omitempty" toml:"entrance_clearance"`
	ObstacleClearance  float64 `json:"obstacleClearance,omitempty" toml:"obstacle_clearance"`
	ForbiddenClearance float64 `json:"forbiddenClearance,omitempty" toml:"forbidden_clearance"`
	MinWallLength      float64 `json:"minWallLength,omitempty" toml:"min_wall_length"`

	// Zone extraction thresholds. Zones narrower, shorter or smaller than the
	// minimums are dropped; MinFillRatio is the free share a flood-filled
	// region's bounding box needs to count as one zone.
	MinZoneWidth  float64 `json:"minZoneWidth,omitempty" toml:"min_zone_width"`
	MinZoneHeight float64 `json:"minZoneHeight,omitempty" toml:"min_zone_height"`
	MinZoneArea   float64 `json:"minZoneArea,omitempty" toml:"min_zone_area"`
	MinFillRatio  float64 `json:"minFillRatio,omitempty" toml:"min_fill_ratio"`
	MaxZonePasses int     `json:"maxZonePasses,omitempty" toml:"max_zone_passes"`

	// Boundary repair bridges wall gaps up to GapThreshold long, ignoring
	// gaps shorter than MinGapFill, for at most MaxRepairPasses passes.
	GapThreshold    float64 `json:"gapThreshold,omitempty" toml:"gap_threshold"`
	MinGapFill      float64 `json:"minGapFill,omitempty" toml:"min_gap_fill"`
	MaxRepairPasses int     `json:"maxRepairPasses,omitempty" toml:"max_repair_passes"`

	// Placement and corridors. PartitionTolerance is how close a unit edge
	// must sit to a wall to count as structural (blanche). CROSS corridors
	// need rows longer than CrossCorridorMinSpan; corridors below
	// MinCorridorArea are dropped.
	PartitionTolerance   float64 `json:"partitionTolerance,omitempty" toml:"partition_tolerance"`
	CrossCorridorMinSpan float64 `json:"crossCorridorMinSpan,omitempty" toml:"cross_corridor_min_span"`
	MinCorridorArea      float64 `json:"minCorridorArea,omitempty" toml:"min_corridor_area"`

	// Radiators are zigzag paths run RadiatorStandoff inside perimeter walls.
	// A wall counts as perimeter within PerimeterTolerance of the bounds;
	// fewer than MinPerimeterWalls such walls disables radiators, and runs
	// shorter than MinRadiatorRun get none.
	RadiatorStandoff   float64 `json:"radiatorStandoff,omitempty" toml:"radiator_standoff"`
	RadiatorAmplitude  float64 `json:"radiatorAmplitude,omitempty" toml:"radiator_amplitude"`
	RadiatorWavelength float64 `json:"radiatorWavelength,omitempty" toml:"radiator_wavelength"`
	PerimeterTolerance float64 `json:"perimeterTolerance,omitempty" toml:"perimeter_tolerance"`
	MinPerimeterWalls  int     `json:"minPerimeterWalls,omitempty" toml:"min_perimeter_walls"`
	MinRadiatorRun     float64 `json:"minRadiatorRun,omitempty" toml:"min_radiator_run"`

	// Refresh bypasses cached results. It does not affect the output.
	Refresh bool `json:"refresh,omitempty" toml:"-"`
}

// SetDefaults fills every unset knob. It is idempotent.
//
// Derived defaults follow the knobs they depend on: ObstacleClearance and
// ForbiddenClearance copy WallClearance, and MinZoneArea is
// MinZoneWidth*MinZoneHeight.
func (o *Options) SetDefaults() {
	setF := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	setI := func(v *int, d int) {
		if *v == 0 {
			*v = d
		}
	}

	setF(&o.MainCorridorWidth, DefaultMainCorridorWidth)
	setF(&o.AccessCorridorWidth, DefaultAccessCorridorWidth)
	setF(&o.WallClearance, DefaultWallClearance)
	setF(&o.UnitDepth, DefaultUnitDepth)
	setF(&o.UnitSpacing, DefaultUnitSpacing)
	setF(&o.GridCellSize, DefaultGridCellSize)
	setI(&o.MaxGridCells, DefaultMaxGridCells)
	if len(o.SizeDistribution) == 0 {
		o.SizeDistribution = catalog.DefaultDistribution()
	}
	if o.ZoneExtractionStrategy == "" {
		o.ZoneExtractionStrategy = DefaultStrategy
	}
	if o.RandomSeed == 0 {
		o.RandomSeed = DefaultSeed
	}

	setF(&o.EntranceClearance, DefaultEntranceClearance)
	setF(&o.ObstacleClearance, o.WallClearance)
	setF(&o.ForbiddenClearance, o.WallClearance)
	setF(&o.MinWallLength, DefaultMinWallLength)

	setF(&o.MinZoneWidth, zones.DefaultMinWidth)
	setF(&o.MinZoneHeight, zones.DefaultMinHeight)
	setF(&o.MinZoneArea, o.MinZoneWidth*o.MinZoneHeight)
	setF(&o.MinFillRatio, zones.DefaultMinFillRatio)
	setI(&o.MaxZonePasses, zones.DefaultMaxPasses)

	setF(&o.GapThreshold, repair.DefaultGapThreshold)
	setF(&o.MinGapFill, repair.DefaultMinFill)
	setI(&o.MaxRepairPasses, repair.DefaultMaxPasses)

	setF(&o.PartitionTolerance, DefaultPartitionTolerance)
	setF(&o.CrossCorridorMinSpan, corridor.DefaultCrossMinSpan)
	setF(&o.MinCorridorArea, corridor.DefaultMinArea)

	setF(&o.RadiatorStandoff, annotate.DefaultStandoff)
	setF(&o.RadiatorAmplitude, annotate.DefaultAmplitude)
	setF(&o.RadiatorWavelength, annotate.DefaultWavelength)
	setF(&o.PerimeterTolerance, annotate.DefaultPerimeterTolerance)
	setI(&o.MinPerimeterWalls, annotate.DefaultMinPerimeterWalls)
	setF(&o.MinRadiatorRun, annotate.DefaultMinRun)
}

// Validate rejects configurations the pipeline cannot honour. Call it after
// SetDefaults.
//
// Errors carry INVALID_CONFIG, or INVALID_STRATEGY for an unknown zone
// extraction strategy. A size distribution naming no known type is rejected;
// unknown names beside known ones only produce a diagnostic at run time.
func (o *Options) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"mainCorridorWidth", o.MainCorridorWidth},
		{"accessCorridorWidth", o.AccessCorridorWidth},
		{"unitDepth", o.UnitDepth},
		{"gridCellSize", o.GridCellSize},
		{"minZoneWidth", o.MinZoneWidth},
		{"minZoneHeight", o.MinZoneHeight},
		{"radiatorWavelength", o.RadiatorWavelength},
	}
	for _, p := range positive {
		if err := errors.ValidatePositive(p.name, p.v); err != nil {
			return err
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"wallClearance", o.WallClearance},
		{"unitSpacing", o.UnitSpacing},
		{"entranceClearance", o.EntranceClearance},
		{"obstacleClearance", o.ObstacleClearance},
		{"forbiddenClearance", o.ForbiddenClearance},
		{"minWallLength", o.MinWallLength},
		{"minZoneArea", o.MinZoneArea},
		{"gapThreshold", o.GapThreshold},
		{"minGapFill", o.MinGapFill},
		{"partitionTolerance", o.PartitionTolerance},
		{"crossCorridorMinSpan", o.CrossCorridorMinSpan},
		{"minCorridorArea", o.MinCorridorArea},
		{"radiatorStandoff", o.RadiatorStandoff},
		{"radiatorAmplitude", o.RadiatorAmplitude},
		{"perimeterTolerance", o.PerimeterTolerance},
		{"minRadiatorRun", o.MinRadiatorRun},
	}
	for _, p := range nonNegative {
		if err := errors.ValidateNonNegative(p.name, p.v); err != nil {
			return err
		}
	}

	if err := errors.ValidateFraction("minFillRatio", o.MinFillRatio); err != nil {
		return err
	}
	if o.TargetUnitCount < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "targetUnitCount must not be negative, got %d", o.TargetUnitCount)
	}
	if o.MaxGridCells < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "maxGridCells must not be negative, got %d", o.MaxGridCells)
	}
	if o.MaxZonePasses < 0 || o.MaxRepairPasses < 0 || o.MinPerimeterWalls < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pass caps and wall counts must not be negative")
	}
	if o.GridCellSize > o.UnitDepth {
		return errors.New(errors.ErrCodeInvalidConfig, "gridCellSize %v is coarser than unitDepth %v", o.GridCellSize, o.UnitDepth)
	}
	if o.RadiatorAmplitude > o.RadiatorStandoff {
		return errors.New(errors.ErrCodeInvalidConfig, "radiatorAmplitude %v exceeds radiatorStandoff %v; the zigzag would cross its wall", o.RadiatorAmplitude, o.RadiatorStandoff)
	}
	if _, err := zones.ParseStrategy(o.ZoneExtractionStrategy); err != nil {
		return err
	}
	if err := errors.ValidateDistribution(o.SizeDistribution); err != nil {
		return err
	}
	if cat, _ := catalog.New(o.SizeDistribution, o.UnitDepth); cat.Len() == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "size distribution names no known unit type (want %s)", strings.Join(knownTypes(), ", "))
	}
	return nil
}

// ValidateAndSetDefaults applies defaults then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// Hash identifies the options for caching. Refresh is excluded because it
// does not change the output. Call it on defaulted options so an explicit
// default and an unset knob hash alike.
func (o Options) Hash() string {
	o.Refresh = false
	h, _ := cache.HashJSON(o)
	return h
}

// knownTypes lists the catalog's unit type names, narrowest first.
func knownTypes() []string {
	cat, _ := catalog.New(catalog.DefaultDistribution(), 1)
	var names []string
	for _, e := range cat.Entries() {
		names = append(names, e.Type)
	}
	return names
}

// =============================================================================
// Options Files
// =============================================================================

// LoadOptionsFile reads options from a TOML file. Unknown keys are rejected
// so typos do not silently fall back to defaults.
func LoadOptionsFile(path string) (Options, error) {
	var o Options
	md, err := toml.DecodeFile(path, &o)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read options %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown option keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return o, nil
}

// WriteOptions encodes o as TOML. The output loads back through
// [LoadOptionsFile].
func WriteOptions(o Options) (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(o); err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	return b.String(), nil
}
