package render

import "github.com/matzehuels/skillgalaxy/pkg/core/galaxy"

// palette is used for clusters that author no colors. Pairs are
// (primary, secondary).
var palette = [][2]string{
	{"#4cc9f0", "#4361ee"},
	{"#f72585", "#b5179e"},
	{"#ffd166", "#f4a261"},
	{"#06d6a0", "#118ab2"},
	{"#c77dff", "#7b2cbf"},
	{"#ff8c42", "#d64933"},
}

// RootColor is the fill of the root node.
const RootColor = "#ffffff"

// ClusterColors returns the primary and secondary color of every cluster
// in g. Missing colors come from a fixed palette in cluster order, so the
// assignment is stable across renders.
func ClusterColors(g *galaxy.Graph) map[string][2]string {
	out := map[string][2]string{galaxy.CoreCluster: {RootColor, RootColor}}
	for i, c := range g.Clusters() {
		p := palette[i%len(palette)]
		if c.Primary != "" {
			p[0] = c.Primary
		}
		if c.Secondary != "" {
			p[1] = c.Secondary
		}
		out[c.ID] = p
	}
	return out
}
