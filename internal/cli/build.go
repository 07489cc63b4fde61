package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgalaxy/pkg/graph"
)

// buildCommand creates the build command for classifying a catalog.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output string
		flags  galaxyFlags
	)

	cmd := &cobra.Command{
		Use:   "build [catalog]",
		Short: "Classify a catalog into an unpositioned galaxy graph",
		Long: `Classify a catalog into an unpositioned galaxy graph.

The build command reads a catalog (TOML, YAML or JSON), joins it with the
solved-problem dataset when one is configured, and writes the classified
graph: every node with its cluster, mastery, brightness, tier and layer, and
every prerequisite and related-work edge that resolved. Relations naming
unknown ids are dropped and counted.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], output, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <catalog>.graph.json)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input, output string, flags *galaxyFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Building galaxy...")
	spinner.Start()

	b, cacheHit, err := runner.BuildWithCacheInfo(ctx, c.options(input, flags))
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = basePath(input) + ".graph.json"
	}
	if err := graph.WriteGalaxyFile(b.Graph, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	out := c.printer()
	out.success("Build complete")
	out.file(output)
	out.stats(b.Graph.NodeCount(), b.Graph.EdgeCount(), cacheHit)
	if b.DroppedEdges > 0 {
		out.warning("%d relations named unknown ids and were dropped", b.DroppedEdges)
	}
	out.newline()
	out.nextStep("Layout", appName+" layout "+input)
	return nil
}
