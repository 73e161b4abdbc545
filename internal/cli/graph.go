package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxplan/pkg/layout"
)

// graphCommand creates the graph command for rendering a layout file's
// hierarchy. Rendering uses the embedded Graphviz build, so no dot binary
// needs to be installed.
//
// Default behaviour:
//   - format: SVG (DOT with --dot)
//   - output: the layout path with .layout.json replaced by the extension
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		dot    bool
	)

	cmd := &cobra.Command{
		Use:   "graph LAYOUT",
		Short: "Render the zone, cluster and corridor hierarchy of a layout",
		Long: `Render a layout file as a graph: zones contain clusters, corridors hang
off the clusters they serve. Writes SVG by default, or DOT with --dot.`,
		Example: `  boxplan graph floor.layout.json
  boxplan graph floor.layout.json --dot -o floor.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}

			src := layout.ToDOT(r)
			data := []byte(src)
			ext := ".svg"
			if dot {
				ext = ".dot"
			} else {
				data, err = layout.RenderSVG(cmd.Context(), src)
				if err != nil {
					return err
				}
			}

			if output == "" {
				output = strings.TrimSuffix(strings.TrimSuffix(args[0], ".json"), ".layout") + ext
			}
			if output == "-" {
				_, err := c.Out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			if len(r.Zones) > 0 {
				fmt.Fprintln(c.Out, zoneTable(r.Zones, r.Clusters))
			}
			printSuccess(c.Out, "Rendered %d zones, %d clusters, %d corridors", len(r.Zones), len(r.Clusters), len(r.Corridors))
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (\"-\" for stdout)")
	cmd.Flags().BoolVar(&dot, "dot", false, "write Graphviz DOT instead of SVG")
	return cmd
}
