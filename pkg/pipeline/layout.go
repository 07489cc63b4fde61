package pipeline

import (
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/layout"
	"github.com/matzehuels/skillgalaxy/pkg/graph"
)

// Layout commits positions for every node of g and reports how they were
// computed. g must not have been laid out before.
func Layout(g *galaxy.Graph, opts Options) (graph.LayoutInfo, error) {
	opts.SetLayoutDefaults()
	lo := opts.LayoutOptions()

	res, err := layout.Apply(g, lo)
	if err != nil {
		return graph.LayoutInfo{}, err
	}

	for _, grp := range res.Groups {
		if grp.Quality < 1 {
			opts.Logger.Debug("overlapping group",
				"cluster", grp.Cluster,
				"layer", grp.Layer,
				"size", grp.Size,
				"quality", grp.Quality)
		}
	}

	return graph.LayoutInfo{
		Width:      lo.Width,
		Height:     lo.Height,
		Scale:      res.Scale,
		Seed:       lo.Seed,
		Iterations: res.Iterations,
		Quality:    res.Quality,
	}, nil
}

// Positioned serializes a laid-out graph together with its layout info.
func Positioned(g *galaxy.Graph, info graph.LayoutInfo) ([]byte, error) {
	gx := graph.FromGalaxy(g)
	gx.Layout = &info
	return graph.Marshal(gx)
}
