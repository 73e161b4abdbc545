package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/boxplan/pkg/errors"
	"github.com/matzehuels/boxplan/pkg/pipeline"
)

// floatOption maps a float flag to its field in [pipeline.Options].
type floatOption struct {
	name, usage string
	field       func(*pipeline.Options) *float64
}

// floatOptions are the float knobs exposed as flags. The rest stay
// file-only to keep --help readable.
var floatOptions = []floatOption{
	{"main-corridor-width", "main corridor width (m)", func(o *pipeline.Options) *float64 { return &o.MainCorridorWidth }},
	{"access-corridor-width", "access corridor width (m)", func(o *pipeline.Options) *float64 { return &o.AccessCorridorWidth }},
	{"wall-clearance", "clearance between units and walls (m)", func(o *pipeline.Options) *float64 { return &o.WallClearance }},
	{"entrance-clearance", "clearance around entrances (m)", func(o *pipeline.Options) *float64 { return &o.EntranceClearance }},
	{"unit-depth", "unit depth across the row (m)", func(o *pipeline.Options) *float64 { return &o.UnitDepth }},
	{"unit-spacing", "gap between neighbouring units (m)", func(o *pipeline.Options) *float64 { return &o.UnitSpacing }},
	{"cell-size", "occupancy grid cell size (m)", func(o *pipeline.Options) *float64 { return &o.GridCellSize }},
	{"min-zone-width", "minimum zone width (m)", func(o *pipeline.Options) *float64 { return &o.MinZoneWidth }},
	{"min-zone-height", "minimum zone height (m)", func(o *pipeline.Options) *float64 { return &o.MinZoneHeight }},
}

// optionFlags binds synthesis options to a command. Only flags the user
// actually set override the config file.
type optionFlags struct {
	config   string
	sizes    map[string]string
	values   pipeline.Options
	refresh  bool
	strategy string
}

// bind registers the option flags on fs. Flag defaults show the pipeline
// defaults so --help documents them.
func (f *optionFlags) bind(fs *pflag.FlagSet) {
	var defaults pipeline.Options
	defaults.SetDefaults()

	fs.StringVarP(&f.config, "config", "c", "", "TOML options file")
	for _, o := range floatOptions {
		fs.Float64Var(o.field(&f.values), o.name, *o.field(&defaults), o.usage)
	}
	fs.IntVar(&f.values.TargetUnitCount, "target", 0, "stop after this many units (0 = fill)")
	fs.Uint64Var(&f.values.RandomSeed, "seed", defaults.RandomSeed, "random seed for size selection (0 = default)")
	fs.IntVar(&f.values.MaxGridCells, "max-grid-cells", defaults.MaxGridCells, "reject plans whose occupancy grid exceeds this many cells")
	fs.StringVarP(&f.strategy, "strategy", "s", defaults.ZoneExtractionStrategy, "zone extraction: flood_fill, greedy_rectangle")
	fs.StringToStringVar(&f.sizes, "sizes", nil, "size distribution, e.g. XS=10,M=30,XL=5")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")

	_ = cobra.MarkFlagFilename(fs, "config", "toml")
}

// resolve merges defaults, the config file and changed flags.
func (f *optionFlags) resolve(fs *pflag.FlagSet) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		loaded, err := pipeline.LoadOptionsFile(f.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = loaded
	}

	for _, o := range floatOptions {
		if fs.Changed(o.name) {
			*o.field(&opts) = *o.field(&f.values)
		}
	}
	if fs.Changed("target") {
		opts.TargetUnitCount = f.values.TargetUnitCount
	}
	if fs.Changed("seed") {
		opts.RandomSeed = f.values.RandomSeed
	}
	if fs.Changed("max-grid-cells") {
		opts.MaxGridCells = f.values.MaxGridCells
	}
	if fs.Changed("strategy") {
		opts.ZoneExtractionStrategy = f.strategy
	}
	if fs.Changed("sizes") {
		dist, err := parseSizes(f.sizes)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.SizeDistribution = dist
	}
	opts.Refresh = f.refresh

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// parseSizes converts --sizes NAME=WEIGHT pairs into a size distribution.
// Names are upper-cased; weights must parse as floats.
func parseSizes(raw map[string]string) (map[string]float64, error) {
	dist := make(map[string]float64, len(raw))
	for k, v := range raw {
		w, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "size weight for %s", k)
		}
		dist[strings.ToUpper(strings.TrimSpace(k))] = w
	}
	return dist, nil
}

// describeOptions renders the options a run used, for --verbose output.
func describeOptions(o pipeline.Options) string {
	return fmt.Sprintf("strategy=%s depth=%.2f aisle=%.2f main=%.2f clearance=%.2f seed=%d",
		o.ZoneExtractionStrategy, o.UnitDepth, o.AccessCorridorWidth, o.MainCorridorWidth, o.WallClearance, o.RandomSeed)
}
