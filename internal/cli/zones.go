package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxplan/pkg/floorplan"
)

// zonesCommand creates the zones command, which stops the pipeline after
// zone extraction and prints a table of the zones found. Results are cached
// separately from full layouts.
func (c *CLI) zonesCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
		loc     string
		opts    optionFlags
	)

	cmd := &cobra.Command{
		Use:   "zones PLAN",
		Short: "Show the placement zones extracted from a floor plan",
		Long: `Repair walls, rasterize the plan and extract placement zones without
placing any units. Useful for tuning clearances and the extraction strategy.`,
		Example: `  boxplan zones floor.json
  boxplan zones floor.json --strategy greedy_rectangle --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			plan, report, err := floorplan.LoadPlan(args[0])
			if err != nil {
				return err
			}
			if n := report.Skipped(); n > 0 {
				c.Logger.Warn("skipped malformed records", "plan", args[0], "count", n)
			}

			runner, err := c.newRunner(cmd.Context(), loc, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			out, err := runner.RunZones(cmd.Context(), plan, o)
			if err != nil {
				return err
			}
			zr := out.Zones

			if asJSON {
				data, err := json.MarshalIndent(zr, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(c.Out, string(data))
				return nil
			}

			if len(zr.Zones) == 0 {
				printWarning(c.Out, "No zones found")
				return nil
			}
			fmt.Fprintln(c.Out, zoneTable(zr.Zones, nil))
			printDetail(c.Out, "%d %s · %.2f m² usable · %s", len(zr.Zones), plural(len(zr.Zones), "zone", "zones"), zr.UsableArea, zr.Strategy)
			if zr.Fallback {
				printWarning(c.Out, "No zone met the minimum size; using the largest free rectangle")
			}
			if n := len(zr.SyntheticWalls); n > 0 {
				printDetail(c.Out, "%d synthetic %s bridged wall gaps", n, plural(n, "wall", "walls"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print zones as JSON")
	cmd.Flags().StringVar(&loc, "cache", "", "cache location: directory, redis:// or mongodb:// URL")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	opts.bind(cmd.Flags())
	return cmd
}
