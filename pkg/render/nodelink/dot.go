package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the tile archetype and rotation to node labels.
	Detailed bool

	// TreeOnly omits grid edges that are not corridors.
	TreeOnly bool
}

// ToDOT converts a maze to Graphviz DOT source.
func ToDOT(m *maze.Maze, opts Options) string {
	open := mapset.New[grid.EdgeKey]()
	for _, e := range m.Corridors {
		open.Put(e.Key())
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, width=0.6, height=0.4];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := 0; i < m.Size; i++ {
		ids := make([]string, m.Size)
		for j := 0; j < m.Size; j++ {
			c := m.Cell(i, j)
			ids[j] = strconv.Quote(nodeID(i, j))
			fmt.Fprintf(&buf, "  %s [%s];\n", ids[j], strings.Join(fmtAttrs(c, opts.Detailed), ", "))
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
	}

	buf.WriteString("\n")
	for i := 0; i < m.Size; i++ {
		for j := 0; j < m.Size; j++ {
			id := grid.Index(i, j, m.Size)
			if j+1 < m.Size {
				writeEdge(&buf, m, id, id+1, open.Has(grid.Key(id, id+1)), opts.TreeOnly)
			}
			if i+1 < m.Size {
				below := id + grid.NodeID(m.Size)
				writeEdge(&buf, m, id, below, open.Has(grid.Key(id, below)), opts.TreeOnly)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeEdge(buf *bytes.Buffer, m *maze.Maze, a, b grid.NodeID, corridor, treeOnly bool) {
	ra, ca := grid.Coord(a, m.Size)
	rb, cb := grid.Coord(b, m.Size)
	from, to := strconv.Quote(nodeID(ra, ca)), strconv.Quote(nodeID(rb, cb))
	switch {
	case corridor:
		fmt.Fprintf(buf, "  %s -- %s [penwidth=2];\n", from, to)
	case treeOnly:
		// Keep the layout square without drawing the wall.
		fmt.Fprintf(buf, "  %s -- %s [style=invis];\n", from, to)
	default:
		fmt.Fprintf(buf, "  %s -- %s [style=dashed, color=grey70];\n", from, to)
	}
}

func nodeID(row, col int) string { return fmt.Sprintf("%d,%d", row, col) }

func fmtLabel(c *maze.Cell, detailed bool) string {
	label := nodeID(c.Row, c.Col)
	switch {
	case c.IsStart:
		label = "S"
	case c.IsEnd:
		label = "E"
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s", label, c.Tile)
}

func fmtAttrs(c *maze.Cell, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(c, detailed))}
	switch {
	case c.IsStart:
		attrs = append(attrs, "fillcolor=palegreen")
	case c.IsEnd:
		attrs = append(attrs, "fillcolor=gold")
	case c.Hazard.Kind == hazard.PitfallHole:
		attrs = append(attrs, "fillcolor=grey20", "fontcolor=white")
	case c.Hazard.Kind == hazard.LethalWall:
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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

// normalizeViewBox replaces Graphviz's pt-based svg header with a pixel one
// anchored at the origin.
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

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
