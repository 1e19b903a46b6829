// Package nodelink renders the maze grid graph as a node-link diagram.
//
// # Overview
//
// Every cell is a node and every grid adjacency an edge. Spanning-tree
// edges, the open corridors, are drawn solid; the remaining grid edges are
// walls and are drawn dashed and grey, or omitted with [Options.TreeOnly].
// Start, End and hazard cells are filled in distinct colors.
//
// # Usage
//
// Convert a maze to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Layout
//
// Each grid row is pinned to one rank and nodes within a rank keep column
// order, so the dot layout reproduces the board shape.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
