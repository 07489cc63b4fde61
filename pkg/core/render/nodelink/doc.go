// Package nodelink renders a galaxy as a Graphviz node-link diagram.
//
// # Architecture
//
// Graphviz handles layout and drawing in one step, so the DOT text is the
// intermediate representation:
//
//	galaxy.Graph → ToDOT() → DOT → RenderSVG() → SVG
//
// Each authored cluster becomes a `subgraph cluster_<id>` block colored with
// the cluster's primary color. Prerequisite edges are solid, related edges
// dashed. Placeholders are drawn dashed and faint.
//
// # Layout Engines
//
// Without positions, the hierarchical dot engine arranges the knowledge flow
// top to bottom. When [Options.Pinned] is set every node carries its
// committed position as `pos="x,y!"` and [RenderSVG] switches to neato,
// which honors pinned positions. Neato does not draw cluster boxes.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Pinned: g.Placed()})
//	svg, err := nodelink.RenderSVG(ctx, dot, g.Placed())
//
// The pipeline's "nodelink" style renders through this package instead of
// the interactive galaxy sink.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
