// Package text renders mazes as plain text.
//
// [Render] draws walls with ASCII: each cell is three characters wide, walls
// are "+---+" and "|", and lethal walls use "#". Cell glyphs mark Start (S),
// End (E), pitfalls (O) and, with [WithSolution], the solution path (.).
//
//	+---+---+
//	| E     |
//	+---+   +
//	| O   S |
//	+---+---+
//
// [RenderTree] draws the spanning tree itself with box-drawing characters.
// It reads corridors directly, so an edge present means an open passage.
package text

import (
	"bytes"

	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
)

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	solution bool
}

// WithSolution marks the Start to End path.
func WithSolution() Option { return func(r *renderer) { r.solution = true } }

// Render draws m as ASCII art.
func Render(m *maze.Maze, opts ...Option) []byte {
	var r renderer
	for _, opt := range opts {
		opt(&r)
	}

	path := mapset.New[maze.Coord]()
	if r.solution {
		for _, c := range m.Solution() {
			path.Put(c)
		}
	}

	var buf bytes.Buffer
	for i := 0; i < m.Size; i++ {
		writeHorizontal(&buf, m, i)
		for j := 0; j < m.Size; j++ {
			buf.WriteByte(verticalGlyph(m, i, j))
			buf.WriteByte(' ')
			buf.WriteByte(cellGlyph(m.Cell(i, j), path))
			buf.WriteByte(' ')
		}
		buf.WriteByte(verticalGlyph(m, i, m.Size))
		buf.WriteByte('\n')
	}
	writeHorizontal(&buf, m, m.Size)
	return buf.Bytes()
}

// writeHorizontal draws the wall line above row i (or the bottom boundary
// when i == m.Size).
func writeHorizontal(buf *bytes.Buffer, m *maze.Maze, i int) {
	for j := 0; j < m.Size; j++ {
		buf.WriteByte('+')
		var wall, lethal bool
		if i < m.Size {
			wall, lethal = sideState(m, i, j, walls.Top)
		} else {
			wall, lethal = sideState(m, i-1, j, walls.Bottom)
		}
		switch {
		case lethal:
			buf.WriteString("###")
		case wall:
			buf.WriteString("---")
		default:
			buf.WriteString("   ")
		}
	}
	buf.WriteString("+\n")
}

// verticalGlyph returns the wall glyph left of column j in row i.
func verticalGlyph(m *maze.Maze, i, j int) byte {
	var wall, lethal bool
	if j < m.Size {
		wall, lethal = sideState(m, i, j, walls.Left)
	} else {
		wall, lethal = sideState(m, i, j-1, walls.Right)
	}
	switch {
	case lethal:
		return '#'
	case wall:
		return '|'
	}
	return ' '
}

// sideState reports whether side s of (i, j) is walled and whether either
// cell sharing that wall arms it.
func sideState(m *maze.Maze, i, j int, s walls.Side) (wall, lethal bool) {
	c := m.Cell(i, j)
	wall = c.Walls.Has(s)
	lethal = armed(c, s)
	dr, dc := s.Delta()
	if m.InBounds(i+dr, j+dc) {
		lethal = lethal || armed(m.Cell(i+dr, j+dc), s.Opposite())
	}
	return wall, lethal && wall
}

func armed(c *maze.Cell, s walls.Side) bool {
	return c.Hazard.Kind == hazard.LethalWall && c.Hazard.Side == s
}

func cellGlyph(c *maze.Cell, path mapset.Set[maze.Coord]) byte {
	switch {
	case c.IsStart:
		return 'S'
	case c.IsEnd:
		return 'E'
	case c.Hazard.Kind == hazard.PitfallHole:
		return 'O'
	case path.Has(c.Coord()):
		return '.'
	}
	return ' '
}

// treeGlyphs maps open corridor directions (Left=1, Right=2, Top=4,
// Bottom=8) to box-drawing runes.
var treeGlyphs = [16]rune{
	'·', '╴', '╶', '─',
	'╵', '┘', '└', '┴',
	'╷', '┐', '┌', '┬',
	'│', '┤', '├', '┼',
}

// RenderTree draws the spanning tree with one glyph per cell. Horizontal
// corridors are joined with '─' between glyphs.
func RenderTree(m *maze.Maze) []byte {
	open := mapset.New[grid.EdgeKey]()
	for _, e := range m.Corridors {
		open.Put(e.Key())
	}
	isCorridorOpen := func(i, j int, s walls.Side) bool {
		dr, dc := s.Delta()
		if !m.InBounds(i+dr, j+dc) {
			return false
		}
		return open.Has(grid.Key(grid.Index(i, j, m.Size), grid.Index(i+dr, j+dc, m.Size)))
	}

	var buf bytes.Buffer
	for i := 0; i < m.Size; i++ {
		for j := 0; j < m.Size; j++ {
			var mask int
			for bit, s := range walls.Sides {
				if isCorridorOpen(i, j, s) {
					mask |= 1 << bit
				}
			}
			buf.WriteRune(treeGlyphs[mask])
			if j+1 < m.Size {
				if isCorridorOpen(i, j, walls.Right) {
					buf.WriteRune('─')
				} else {
					buf.WriteByte(' ')
				}
			}
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
