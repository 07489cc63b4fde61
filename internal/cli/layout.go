package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgalaxy/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning a galaxy.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  galaxyFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [catalog]",
		Short: "Compute star positions for a catalog",
		Long: `Compute star positions for a catalog.

The layout command builds the galaxy and commits a position for every node:
the root at the center, cluster hubs at their authored anchors, and every
other star in the radial band of its layer, spread by golden-angle spacing and
relaxed so stars of one band do not overlap. The output is a layout.json file
(same format as 'render -f json') that 'render', 'chain', 'explore' and 'serve'
accept in place of the catalog.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <catalog>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout builds the catalog, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, flags *galaxyFlags) error {
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	p, err := c.loadPositioned(ctx, input, flags)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := pipeline.Positioned(p.Graph, p.Layout)
	if err != nil {
		return err
	}
	if output == "" {
		output = basePath(input) + ".layout.json"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	out := c.printer()
	out.success("Layout complete")
	out.file(output)
	out.stats(p.Graph.NodeCount(), p.Graph.EdgeCount(), p.Cached)
	out.detail("scale %.2f · quality %.2f · seed %d", p.Layout.Scale, p.Layout.Quality, p.Layout.Seed)
	out.newline()
	out.nextStep("Render", appName+" render "+output)
	return nil
}
