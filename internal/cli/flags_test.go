package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxplan/pkg/errors"
	"github.com/matzehuels/boxplan/pkg/pipeline"
)

func parseOptionFlags(t *testing.T, args ...string) (pipeline.Options, error) {
	t.Helper()
	var f optionFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.bind(fs)
	require.NoError(t, fs.Parse(args))
	return f.resolve(fs)
}

func TestOptionFlagsDefaults(t *testing.T) {
	opts, err := parseOptionFlags(t)
	require.NoError(t, err)

	var want pipeline.Options
	want.SetDefaults()
	assert.Equal(t, want.Hash(), opts.Hash())
}

func TestOptionFlagsOverride(t *testing.T) {
	opts, err := parseOptionFlags(t,
		"--unit-depth", "3",
		"--strategy", "greedy-rectangle",
		"--target", "12",
		"--seed", "7",
		"--max-grid-cells", "5000",
		"--sizes", "s=2,M=1",
		"--refresh",
	)
	require.NoError(t, err)

	assert.Equal(t, 3.0, opts.UnitDepth)
	assert.Equal(t, 12, opts.TargetUnitCount)
	assert.Equal(t, uint64(7), opts.RandomSeed)
	assert.Equal(t, 5000, opts.MaxGridCells)
	assert.Equal(t, map[string]float64{"S": 2, "M": 1}, opts.SizeDistribution)
	assert.True(t, opts.Refresh)
	assert.Equal(t, pipeline.DefaultAccessCorridorWidth, opts.AccessCorridorWidth)
}

func TestOptionFlagsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.toml")
	require.NoError(t, os.WriteFile(path, []byte("unit_depth = 3.0\nwall_clearance = 0.5\n"), 0644))

	opts, err := parseOptionFlags(t, "--config", path, "--wall-clearance", "0.4")
	require.NoError(t, err)
	assert.Equal(t, 3.0, opts.UnitDepth, "file value kept")
	assert.Equal(t, 0.4, opts.WallClearance, "flag wins over file")
}

func TestOptionFlagsErrors(t *testing.T) {
	_, err := parseOptionFlags(t, "--sizes", "M=lots")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))

	_, err = parseOptionFlags(t, "--unit-depth", "-1")
	assert.True(t, errors.IsInvalid(err))

	_, err = parseOptionFlags(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestConfigCommand(t *testing.T) {
	c, out := testCLI(t)
	require.NoError(t, execute(t, c, "config", "--unit-depth", "3", "--strategy", "greedy_rectangle"))
	assert.Contains(t, out.String(), "greedy_rectangle")

	path := filepath.Join(t.TempDir(), "opts.toml")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0644))
	opts, err := pipeline.LoadOptionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, opts.UnitDepth)
}
