package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxplan/pkg/pipeline"
)

// configCommand creates the config command. It resolves options exactly
// like synth does and prints them as TOML, so the output can be saved and
// passed back through --config.
func (c *CLI) configCommand() *cobra.Command {
	var opts optionFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective synthesis options as TOML",
		Long: `Print the options a synth run would use, after merging defaults,
the --config file and flags. The output is a valid --config file.`,
		Example: `  boxplan config > boxplan.toml
  boxplan config -c boxplan.toml --unit-depth 3 --strategy greedy_rectangle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			text, err := pipeline.WriteOptions(resolved)
			if err != nil {
				return err
			}
			fmt.Fprint(c.Out, text)
			return nil
		},
	}

	opts.bind(cmd.Flags())
	return cmd
}
