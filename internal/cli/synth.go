package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxplan/pkg/floorplan"
	"github.com/matzehuels/boxplan/pkg/layout"
	"github.com/matzehuels/boxplan/pkg/observability"
	"github.com/matzehuels/boxplan/pkg/pipeline"
)

const layoutSuffix = ".layout.json"

// synthFlags holds the synth command's flags.
type synthFlags struct {
	output  string
	outDir  string
	cache   string
	noCache bool
	timings bool
	opts    optionFlags
}

// synthCommand creates the synth command for turning floor plans into
// layouts. Several plans (one per floor) run in parallel through
// [pipeline.Runner.RunBatch]; the first failure cancels the rest.
//
// Default behaviour:
//   - output: <plan>.layout.json next to each plan
//   - cache: the local file cache under the user cache dir
//   - options: built-in defaults, see "boxplan config"
func (c *CLI) synthCommand() *cobra.Command {
	var f synthFlags

	cmd := &cobra.Command{
		Use:   "synth PLAN...",
		Short: "Synthesize storage layouts from floor plans",
		Long: `Synthesize a storage layout for each floor plan (JSON or YAML).

Each layout is written next to its plan as <name>.layout.json unless
--output or --out-dir says otherwise. Use "-o -" to print to stdout.`,
		Example: `  boxplan synth floor.json
  boxplan synth ground.yaml first.yaml --out-dir layouts/
  boxplan synth floor.json --config storage.toml --unit-depth 3 --sizes S=2,M=1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.output != "" && len(args) > 1 {
				return fmt.Errorf("--output takes a single plan; use --out-dir for %d plans", len(args))
			}
			opts, err := f.opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runSynth(cmd, args, opts, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (\"-\" for stdout)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "directory for layout files")
	cmd.Flags().StringVar(&f.cache, "cache", "", "cache location: directory, redis:// or mongodb:// URL")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.timings, "timings", false, "print wall time per pipeline stage")
	f.opts.bind(cmd.Flags())
	return cmd
}

// runSynth loads every plan, runs the batch and writes one layout per plan.
// A plan that fails to load aborts the run before any synthesis starts.
func (c *CLI) runSynth(cmd *cobra.Command, paths []string, opts pipeline.Options, f synthFlags) error {
	ctx := cmd.Context()
	plans := make([]floorplan.Plan, len(paths))
	for i, p := range paths {
		plan, report, err := floorplan.LoadPlan(p)
		if err != nil {
			return err
		}
		if n := report.Skipped(); n > 0 {
			c.Logger.Warn("skipped malformed records", "plan", p, "count", n)
		}
		plans[i] = plan
	}
	c.Logger.Debug("options", "resolved", describeOptions(opts))

	runner, err := c.newRunner(ctx, f.cache, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	rec := observability.NewRecorder()
	runner.Hooks = observability.Multi(runner.Hooks, rec)

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Synthesizing %d %s...", len(plans), plural(len(plans), "floor", "floors")))
	spin.Start()
	outcomes, err := runner.RunBatch(ctx, plans, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	for i, o := range outcomes {
		out := outputPath(paths[i], f.output, f.outDir)
		if out == "-" {
			data, err := layout.Marshal(o.Layout)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, string(data))
			continue
		}
		if err := writeLayout(o.Layout, out); err != nil {
			return err
		}
		printSuccess(c.Out, "%s", filepath.Base(paths[i]))
		printStats(c.Out, o.Layout.Stats, o.CacheHit)
		printFile(c.Out, out)
	}
	if f.timings {
		fmt.Fprintln(c.Out, stageTable(rec.Stages()))
	}
	if f.output != "-" {
		prog.done(fmt.Sprintf("Synthesized %d %s", len(outcomes), plural(len(outcomes), "floor", "floors")))
		printNextStep(c.Out, "Browse the result", "boxplan inspect "+outputPath(paths[0], f.output, f.outDir))
	}
	return nil
}

// outputPath picks where a plan's layout goes. An explicit --output wins;
// otherwise the plan's base name gets the layout suffix and lands in outDir,
// or next to the plan when outDir is empty.
func outputPath(input, output, outDir string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + layoutSuffix
	if outDir != "" {
		return filepath.Join(outDir, base)
	}
	return filepath.Join(filepath.Dir(input), base)
}

// writeLayout writes r to path, creating the parent directory if needed.
func writeLayout(r layout.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return layout.WriteFile(r, path)
}

// plural returns one when n is 1 and many otherwise.
func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
