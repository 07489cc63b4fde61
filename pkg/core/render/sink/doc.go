// Package sink renders a positioned galaxy as a self-contained, interactive
// SVG document.
//
// # Overview
//
// [RenderSVG] draws, back to front: a backdrop, one soft halo per cluster,
// the edges, the nodes ("stars") and their labels. The document embeds a
// JSON scene with every node's precomputed chain and overclock targets, plus
// a small script that applies the same partition as interact.State on hover
// and click: chain members get `highlight`, the rest `dim`, and with fog on,
// nodes outside the focused cluster get `fog`. Flow particles travel along
// active edges and from overclock targets back to the focus.
//
//	svg, err := sink.RenderSVG(g,
//	    sink.WithStyle(sink.Galaxy{}),
//	    sink.WithFog(true),
//	    sink.WithLabels(),
//	)
//
// # Styles
//
//   - [Galaxy]: dark background, glowing stars (default)
//   - [Simple]: light background, flat shapes; prints well
//
// Use [StyleByName] to resolve a style from configuration.
//
// # Static Snapshots
//
// [WithState] bakes an interaction snapshot into the markup, so a focused
// view survives conversion to PNG or PDF where no script runs.
package sink
