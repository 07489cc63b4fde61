package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
	"github.com/matzehuels/skillgalaxy/pkg/pipeline"
)

// galaxyFlags are the flags shared by every command that builds and lays
// out a galaxy. Zero values mean "use the config".
type galaxyFlags struct {
	proficiency string
	width       float64
	height      float64
	iterations  int
	seed        uint64
	refresh     bool
	noCache     bool
}

func (f *galaxyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.proficiency, "proficiency", "", "solved-problem dataset: JSON file or http(s) URL")
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "collision relaxation passes (default from config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "layout jitter seed (default from config)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached graphs and proficiency data")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options merges config defaults with the flags into pipeline options.
func (c *CLI) options(catalogPath string, f *galaxyFlags) pipeline.Options {
	cfg := c.config()
	opts := pipeline.Options{
		CatalogPath:     catalogPath,
		ProficiencyFile: cfg.Proficiency.File,
		ProficiencyURL:  cfg.Proficiency.URL,
		ProficiencyTTL:  cfg.ProficiencyTTL(),
		Refresh:         f.refresh,
		Width:           cfg.Layout.Width,
		Height:          cfg.Layout.Height,
		Iterations:      cfg.Layout.Iterations,
		Seed:            cfg.Layout.Seed,
		Style:           cfg.Render.Style,
		Fog:             cfg.Render.Fog,
		Logger:          c.Logger,
	}
	if p := f.proficiency; p != "" {
		if isURL(p) {
			opts.ProficiencyURL, opts.ProficiencyFile = p, ""
		} else {
			opts.ProficiencyFile, opts.ProficiencyURL = p, ""
		}
	}
	if f.width != 0 {
		opts.Width = f.width
	}
	if f.height != 0 {
		opts.Height = f.height
	}
	if f.iterations != 0 {
		opts.Iterations = f.iterations
	}
	if f.seed != 0 {
		opts.Seed = f.seed
	}
	return opts
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// =============================================================================
// Input Loading
// =============================================================================

// positioned is a laid-out galaxy ready to render, query or serve.
type positioned struct {
	Graph  *galaxy.Graph
	Layout graph.LayoutInfo
	Cached bool
}

// loadPositioned accepts either a layout JSON written by the layout command
// or a catalog, which is built and laid out on the fly.
func (c *CLI) loadPositioned(ctx context.Context, input string, f *galaxyFlags) (*positioned, error) {
	if p, ok, err := readLayoutFile(input); err != nil || ok {
		return p, err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(input, f)
	b, buildHit, err := runner.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	if b.DroppedEdges > 0 {
		c.Logger.Warn("unresolved relations dropped", "count", b.DroppedEdges)
	}
	g, info, layoutHit, err := runner.LayoutWithCacheInfo(ctx, b, opts)
	if err != nil {
		return nil, err
	}
	return &positioned{Graph: g, Layout: info, Cached: buildHit && layoutHit}, nil
}

// readLayoutFile reports ok=false when path is not a positioned galaxy
// document, so JSON catalogs fall through to the pipeline.
func readLayoutFile(path string) (*positioned, bool, error) {
	if filepath.Ext(path) != ".json" {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	var probe struct {
		Positioned bool `json:"positioned"`
	}
	if json.Unmarshal(data, &probe) != nil || !probe.Positioned {
		return nil, false, nil
	}
	gx, err := graph.UnmarshalGalaxy(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode layout %s: %w", path, err)
	}
	g, err := graph.ToGalaxy(gx)
	if err != nil {
		return nil, false, fmt.Errorf("load layout %s: %w", path, err)
	}
	p := &positioned{Graph: g, Cached: true}
	if gx.Layout != nil {
		p.Layout = *gx.Layout
	}
	return p, true, nil
}
