package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgalaxy/pkg/core/render"
	"github.com/matzehuels/skillgalaxy/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command that are
// not shared with the other galaxy commands.
type renderOpts struct {
	output   string  // output file (single format) or base path
	formats  string  // comma-separated formats
	style    string  // visual style: "galaxy", "simple" or "nodelink"
	fog      bool    // start the document with fog enabled
	labels   bool    // label every star
	title    string  // heading above the galaxy
	pngScale float64 // rasterization factor for PNG
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts  renderOpts
		flags galaxyFlags
	)

	cmd := &cobra.Command{
		Use:   "render [catalog|layout.json]",
		Short: "Render a galaxy to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a galaxy to SVG, PNG, PDF, DOT or JSON.

The input is either a catalog, which is built and laid out first, or a
layout.json written by 'layout'. SVG output is interactive: hovering or
clicking a star highlights its full knowledge chain, Escape clears, and "f"
toggles fog. PNG and PDF are rasterized from the same SVG; DOT pins every
node at its computed position.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, args[0], &opts, &flags)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", "", "visual style: galaxy, simple, nodelink (default from config)")
	cmd.Flags().BoolVar(&opts.fog, "fog", false, "start with fog enabled")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label every star")
	cmd.Flags().StringVar(&opts.title, "title", "", "heading above the galaxy")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", pipeline.DefaultPNGScale, "PNG rasterization factor")
	flags.register(cmd)

	return cmd
}

// runRender produces every requested format and writes one file per format.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input string, ro *renderOpts, flags *galaxyFlags) error {
	formats, err := render.ParseFormats(ro.formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(input, flags)
	opts.Formats = formats
	opts.Labels = ro.labels
	opts.Title = ro.title
	opts.PNGScale = ro.pngScale
	if ro.style != "" {
		opts.Style = ro.style
	}
	if cmd.Flags().Changed("fog") {
		opts.Fog = ro.fog
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering galaxy...")
	spinner.Start()

	artifacts, nodes, edges, cached, err := c.renderInput(ctx, runner, input, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered galaxy", "formats", formats)

	paths, err := writeArtifacts(artifacts, formats, ro.output, input)
	if err != nil {
		return err
	}

	out := c.printer()
	out.success("Render complete")
	for _, p := range paths {
		out.file(p)
	}
	out.stats(nodes, edges, cached)
	if slices.Contains(formats, render.FormatSVG) {
		out.newline()
		out.nextStep("Explore", appName+" serve "+input)
	}
	return nil
}

// renderInput runs the whole pipeline for a catalog, or only the render
// stage for a layout file.
func (c *CLI) renderInput(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (map[string][]byte, int, int, bool, error) {
	p, ok, err := readLayoutFile(input)
	if err != nil {
		return nil, 0, 0, false, err
	}
	if ok {
		artifacts, hit, err := runner.RenderWithCacheInfo(ctx, p.Graph, p.Layout, opts)
		if err != nil {
			return nil, 0, 0, false, err
		}
		return artifacts, p.Graph.NodeCount(), p.Graph.EdgeCount(), hit, nil
	}

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, 0, 0, false, err
	}
	if res.DroppedEdges > 0 {
		c.Logger.Warn("unresolved relations dropped", "count", res.DroppedEdges)
	}
	ci := res.CacheInfo
	return res.Artifacts, res.Stats.NodeCount, res.Stats.EdgeCount, ci.BuildHit && ci.LayoutHit && ci.RenderHit, nil
}

// outputBase derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has a
// format extension (.svg, .pdf, etc.), it strips that extension.
func outputBase(output, input string) string {
	if output == "" {
		return basePath(input)
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each format to <base>.<format>. A single format
// with an explicit output path is written to that path unchanged. JSON
// output derived from the input name is written as <base>.layout.json so it
// cannot overwrite a JSON catalog.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	base := outputBase(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return nil, fmt.Errorf("missing %s output", format)
		}
		var path string
		switch {
		case len(formats) == 1 && output != "":
			path = output
		case format == render.FormatJSON:
			path = base + ".layout.json"
		default:
			path = base + "." + format
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
