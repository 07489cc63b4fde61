package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/render"
	"github.com/matzehuels/skillgalaxy/pkg/core/render/nodelink"
	"github.com/matzehuels/skillgalaxy/pkg/core/render/sink"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
)

// Render generates output artifacts in the requested formats from a
// positioned graph. The SVG is rendered once and shared by the PNG and PDF
// conversions; all other formats render concurrently. info is embedded in
// JSON output when non-nil.
func Render(ctx context.Context, g *galaxy.Graph, info *graph.LayoutInfo, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	var svg []byte
	if slices.ContainsFunc(opts.Formats, render.NeedsSVG) {
		var err error
		if svg, err = renderSVG(ctx, g, opts); err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		eg.Go(func() error {
			data, err := renderFormat(ctx, format, g, info, svg, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, g *galaxy.Graph, info *graph.LayoutInfo, svg []byte, opts Options) ([]byte, error) {
	switch format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, opts.PNGScale)
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Labels, Pinned: g.Placed()})), nil
	case render.FormatJSON:
		gx := graph.FromGalaxy(g)
		gx.Layout = info
		return graph.Marshal(gx)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// renderSVG draws the interactive galaxy, or for the nodelink style a static
// Graphviz drawing pinned to the computed positions.
func renderSVG(ctx context.Context, g *galaxy.Graph, opts Options) ([]byte, error) {
	if opts.Style == graph.StyleNodeLink {
		dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Labels, Pinned: true})
		return nodelink.RenderSVG(ctx, dot, true)
	}
	style, err := sink.StyleByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.Option{
		sink.WithStyle(style),
		sink.WithFog(opts.Fog),
	}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return sink.RenderSVG(g, svgOpts...)
}
