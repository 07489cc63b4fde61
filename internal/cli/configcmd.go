package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCommand creates the config command, which prints the effective
// configuration after defaults, file and environment are merged.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			src := cfg.Path
			if src == "" {
				src = "defaults"
			}
			fmt.Fprintln(c.Out, StyleDim.Render("# source: "+src))
			fmt.Fprint(c.Out, cfg.String())
			return nil
		},
	}
}
