package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/render"
)

// pointsPerInch converts layout units (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes mastery, tier and layer in node labels.
	// When false, only the node name is shown.
	Detailed bool

	// Pinned emits committed positions so neato keeps them.
	Pinned bool
}

// ToDOT converts a galaxy to Graphviz DOT format.
func ToDOT(g *galaxy.Graph, opts Options) string {
	colors := render.ClusterColors(g)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, fixedsize=false];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	if opts.Pinned {
		buf.WriteString("  splines=true;\n")
		buf.WriteString("  overlap=true;\n")
	}
	buf.WriteString("\n")

	if root, ok := g.Root(); ok {
		fmt.Fprintf(&buf, "  %q [%s];\n", root.ID, strings.Join(fmtAttrs(root, colors, opts), ", "))
	}

	for _, c := range g.Clusters() {
		fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+c.ID)
		fmt.Fprintf(&buf, "    label=%q;\n", c.Label)
		fmt.Fprintf(&buf, "    color=%q;\n", colors[c.ID][0])
		buf.WriteString("    style=rounded;\n")
		for _, n := range g.NodesInCluster(c.ID) {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, colors, opts), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Kind == galaxy.EdgeRelated {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *galaxy.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\nmastery: %.2f\ntier: %s\nlayer: %s", name, n.Mastery, n.Tier, n.Layer)
}

func fmtAttrs(n *galaxy.Node, colors map[string][2]string, opts Options) []string {
	c := colors[n.Cluster]
	fill := c[0]
	if n.Kind == galaxy.KindPlaceholder {
		fill = "#ffffff10"
	}
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("color=%q", c[1]),
		fmt.Sprintf("width=%.2f", 2*n.Radius/pointsPerInch),
	}
	switch {
	case n.Kind == galaxy.KindPlaceholder:
		attrs = append(attrs, "style=\"filled,dashed\"", "fontcolor=grey")
	case n.Kind.IsPinned():
		attrs = append(attrs, "shape=doublecircle", "penwidth=2")
	case n.Tier == galaxy.TierExceptional:
		attrs = append(attrs, "penwidth=3")
	}
	if opts.Pinned && n.Placed() {
		// Graphviz's y axis points up.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.3f,%.3f!\"", n.X/pointsPerInch, -n.Y/pointsPerInch))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz. Pinned selects the
// neato engine so pos attributes are honored; otherwise dot is used.
func RenderSVG(ctx context.Context, dot string, pinned bool) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if pinned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
