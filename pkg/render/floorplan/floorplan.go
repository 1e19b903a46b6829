// Package floorplan renders a top-down SVG of a maze board.
//
// Each cell is a square floor tile. Walls are drawn as lines on the tile
// edges, lethal walls in red. Start and End tiles are tinted, pitfalls are
// drawn as holes, and [WithSolution] overlays the Start to End path.
//
//	svg := floorplan.Render(m, floorplan.WithCellSize(24), floorplan.WithSolution())
//
// The output is deterministic for a given maze and option set.
package floorplan

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
)

// DefaultCellSize is the tile edge length in pixels.
const DefaultCellSize = 32.0

const (
	colorFloor  = "#f4f1ea"
	colorStart  = "#9fd89f"
	colorEnd    = "#f2c94c"
	colorHole   = "#222222"
	colorWall   = "#333333"
	colorLethal = "#d7263d"
	colorPath   = "#2f80ed"
)

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	cell     float64
	margin   float64
	solution bool
	title    string
}

// WithCellSize sets the tile edge length in pixels.
func WithCellSize(px float64) Option {
	return func(r *renderer) {
		if px > 0 {
			r.cell = px
		}
	}
}

// WithSolution overlays the Start to End path.
func WithSolution() Option { return func(r *renderer) { r.solution = true } }

// WithTitle adds a <title> element.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// Render draws m as SVG.
func Render(m *maze.Maze, opts ...Option) []byte {
	r := renderer{cell: DefaultCellSize}
	for _, opt := range opts {
		opt(&r)
	}
	r.margin = r.cell / 2
	side := float64(m.Size)*r.cell + 2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		side, side, side, side)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}

	buf.WriteString(`  <g id="floor">` + "\n")
	for i := range m.Cells {
		r.renderTile(&buf, &m.Cells[i])
	}
	buf.WriteString("  </g>\n")

	if r.solution {
		r.renderSolution(&buf, m)
	}

	buf.WriteString(`  <g id="walls" stroke-linecap="square">` + "\n")
	for i := range m.Cells {
		r.renderWalls(&buf, m, &m.Cells[i])
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) origin(row, col int) (x, y float64) {
	return r.margin + float64(col)*r.cell, r.margin + float64(row)*r.cell
}

func (r *renderer) center(row, col int) (x, y float64) {
	x, y = r.origin(row, col)
	return x + r.cell/2, y + r.cell/2
}

func (r *renderer) renderTile(buf *bytes.Buffer, c *maze.Cell) {
	x, y := r.origin(c.Row, c.Col)
	fill := colorFloor
	switch {
	case c.IsStart:
		fill = colorStart
	case c.IsEnd:
		fill = colorEnd
	}
	fmt.Fprintf(buf, `    <rect id="cell-%d-%d" class="tile %s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		c.Row, c.Col, c.Tile.Archetype, x, y, r.cell, r.cell, fill)

	if c.Hazard.Kind == hazard.PitfallHole {
		cx, cy := r.center(c.Row, c.Col)
		fmt.Fprintf(buf, `    <circle class="pitfall" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			cx, cy, r.cell*0.3, colorHole)
	}
}

// renderWalls draws the left and top walls of c, plus its right and bottom
// walls on the board edge. Shared walls are drawn once, in red if either
// neighbor arms them.
func (r *renderer) renderWalls(buf *bytes.Buffer, m *maze.Maze, c *maze.Cell) {
	sides := []walls.Side{walls.Left, walls.Top}
	if c.Col == m.Size-1 {
		sides = append(sides, walls.Right)
	}
	if c.Row == m.Size-1 {
		sides = append(sides, walls.Bottom)
	}

	x, y := r.origin(c.Row, c.Col)
	for _, s := range sides {
		if !c.Walls.Has(s) {
			continue
		}
		x1, y1, x2, y2 := x, y, x, y
		switch s {
		case walls.Left:
			y2 += r.cell
		case walls.Top:
			x2 += r.cell
		case walls.Right:
			x1 += r.cell
			x2 += r.cell
			y2 += r.cell
		case walls.Bottom:
			y1 += r.cell
			y2 += r.cell
			x2 += r.cell
		}

		stroke, width, class := colorWall, r.cell/10, "wall"
		if lethal(m, c, s) {
			stroke, width, class = colorLethal, r.cell/6, "wall lethal"
		}
		fmt.Fprintf(buf, `    <line class="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
			class, x1, y1, x2, y2, stroke, width)
	}
}

func lethal(m *maze.Maze, c *maze.Cell, s walls.Side) bool {
	if c.Hazard.Kind == hazard.LethalWall && c.Hazard.Side == s {
		return true
	}
	dr, dc := s.Delta()
	if !m.InBounds(c.Row+dr, c.Col+dc) {
		return false
	}
	n := m.Cell(c.Row+dr, c.Col+dc)
	return n.Hazard.Kind == hazard.LethalWall && n.Hazard.Side == s.Opposite()
}

func (r *renderer) renderSolution(buf *bytes.Buffer, m *maze.Maze) {
	path := m.Solution()
	if len(path) < 2 {
		return
	}
	points := make([]string, len(path))
	for i, p := range path {
		x, y := r.center(p.Row, p.Col)
		points[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	fmt.Fprintf(buf, `  <polyline id="solution" points="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-linejoin="round" opacity="0.7"/>`+"\n",
		strings.Join(points, " "), colorPath, r.cell/8)
}
