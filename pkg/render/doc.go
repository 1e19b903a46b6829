// Package render provides maze visualizations.
//
// # Overview
//
// Three renderers share one input, a validated [maze.Maze]:
//
//   - [text]: ASCII walls with markers and hazards, and a box-drawing view of
//     the spanning tree
//   - [floorplan]: a top-down SVG of the board
//   - [nodelink]: the grid graph as a Graphviz diagram, tree edges solid
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both SVG renderers use them.
//
//	svg := floorplan.Render(m)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [text]: github.com/matzehuels/tiltmaze/pkg/render/text
// [floorplan]: github.com/matzehuels/tiltmaze/pkg/render/floorplan
// [nodelink]: github.com/matzehuels/tiltmaze/pkg/render/nodelink
package render
