package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// exploreCommand creates the explore command for browsing a galaxy in the
// terminal.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags galaxyFlags
		fog   bool
	)

	cmd := &cobra.Command{
		Use:   "explore [catalog|layout.json]",
		Short: "Browse a galaxy interactively in the terminal",
		Long: `Browse a galaxy interactively in the terminal.

Moving the cursor hovers a star and highlights its knowledge chain; enter pins
the selection so it survives further movement, esc clears it and f toggles
fog, which hides every star outside the chain and the focused cluster.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fog") {
				fog = c.config().Render.Fog
			}
			return c.runExplore(cmd.Context(), args[0], fog, &flags)
		},
	}

	cmd.Flags().BoolVar(&fog, "fog", false, "start with fog enabled (default from config)")
	flags.register(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, fog bool, flags *galaxyFlags) error {
	p, err := c.loadPositioned(ctx, input, flags)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(NewExploreModel(p.Graph, fog), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
