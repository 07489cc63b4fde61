// Package render holds the output formats shared by the galaxy renderers
// and the SVG to PNG/PDF conversion used by all of them.
//
// The renderers live in subpackages:
//
//   - sink: self-contained interactive SVG
//   - nodelink: Graphviz DOT and SVG via go-graphviz
//
// PNG and PDF are produced from SVG by shelling out to rsvg-convert:
//
//	png, err := render.ToPNG(ctx, svg, 2)
//	pdf, err := render.ToPDF(ctx, svg)
//
// These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package render
