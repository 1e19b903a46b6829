package maze

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/tile"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
)

// Neighbors returns the cells reachable from (row, col) in one move, in
// side order left, right, top, bottom.
func (m *Maze) Neighbors(row, col int) []Coord {
	c := m.Cell(row, col)
	out := make([]Coord, 0, 4)
	for _, s := range walls.Sides {
		if c.Walls.Has(s) {
			continue
		}
		dr, dc := s.Delta()
		out = append(out, Coord{Row: row + dr, Col: col + dc})
	}
	return out
}

// Solve returns the shortest corridor path from -> to, both ends included.
// A perfect maze has exactly one simple path, so this is also the only one.
// It returns nil when either end is off the board or to is unreachable.
func (m *Maze) Solve(from, to Coord) []Coord {
	if !m.InBounds(from.Row, from.Col) || !m.InBounds(to.Row, to.Col) {
		return nil
	}

	visited := mapset.New[Coord]()
	visited.Put(from)
	parent := make(map[Coord]Coord)
	queue := []Coord{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		for _, next := range m.Neighbors(cur.Row, cur.Col) {
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			parent[next] = cur
			queue = append(queue, next)
		}
	}

	if !visited.Has(to) {
		return nil
	}
	var path []Coord
	for c := to; c != from; c = parent[c] {
		path = append(path, c)
	}
	path = append(path, from)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Solution returns the path from Start to End.
func (m *Maze) Solution() []Coord { return m.Solve(m.Start, m.End) }

// DeadEnds returns every dead-end cell in row-major order, markers included.
func (m *Maze) DeadEnds() []Coord {
	var out []Coord
	for _, c := range m.Cells {
		if c.IsDeadEnd() {
			out = append(out, c.Coord())
		}
	}
	return out
}

// Stats summarizes a maze.
type Stats struct {
	Cells          int                    `json:"cells"`
	Corridors      int                    `json:"corridors"`
	DeadEnds       int                    `json:"dead_ends"`
	Pitfalls       int                    `json:"pitfalls"`
	LethalWalls    int                    `json:"lethal_walls"`
	SolutionLength int                    `json:"solution_length"` // moves from Start to End
	Tiles          map[tile.Archetype]int `json:"tiles"`
}

// Stats computes summary counts.
func (m *Maze) Stats() Stats {
	s := Stats{
		Cells:     len(m.Cells),
		Corridors: len(m.Corridors),
		Tiles:     make(map[tile.Archetype]int, len(tile.Archetypes)),
	}
	for _, c := range m.Cells {
		s.Tiles[c.Tile.Archetype]++
		if c.IsDeadEnd() {
			s.DeadEnds++
		}
		switch c.Hazard.Kind {
		case hazard.PitfallHole:
			s.Pitfalls++
		case hazard.LethalWall:
			s.LethalWalls++
		}
	}
	if path := m.Solution(); len(path) > 0 {
		s.SolutionLength = len(path) - 1
	}
	return s
}

// Validate re-checks the structural invariants of m. Generated mazes always
// pass; it exists for mazes loaded from storage.
func (m *Maze) Validate() error {
	n := m.Size * m.Size
	if len(m.Cells) != n {
		return invalid("expected %d cells, got %d", n, len(m.Cells))
	}
	if len(m.Corridors) != n-1 {
		return invalid("expected %d corridors, got %d", n-1, len(m.Corridors))
	}

	for idx, c := range m.Cells {
		if c.Row != idx/m.Size || c.Col != idx%m.Size {
			return invalid("cell %d has coordinates (%d,%d)", idx, c.Row, c.Col)
		}
		for _, s := range walls.Sides {
			dr, dc := s.Delta()
			r, col := c.Row+dr, c.Col+dc
			if !m.InBounds(r, col) {
				if !c.Walls.Has(s) {
					return invalid("cell (%d,%d) is open on its %s boundary", c.Row, c.Col, s)
				}
				continue
			}
			if c.Walls.Has(s) != m.Cell(r, col).Walls.Has(s.Opposite()) {
				return invalid("cell (%d,%d) disagrees with its %s neighbor", c.Row, c.Col, s)
			}
		}
		want, err := tile.Classify(c.Walls)
		if err != nil {
			return fmt.Errorf("cell (%d,%d): %w", c.Row, c.Col, err)
		}
		if want != c.Tile {
			return invalid("cell (%d,%d) has tile %s, walls imply %s", c.Row, c.Col, c.Tile, want)
		}
		switch c.Hazard.Kind {
		case hazard.None:
		case hazard.PitfallHole, hazard.LethalWall:
			if c.IsStart || c.IsEnd {
				return invalid("marker cell (%d,%d) carries a hazard", c.Row, c.Col)
			}
			if !c.IsDeadEnd() {
				return invalid("hazard on cell (%d,%d) with %d open sides", c.Row, c.Col, c.Walls.OpenSides())
			}
			if c.Hazard.Kind == hazard.LethalWall && !c.Walls.Has(c.Hazard.Side) {
				return invalid("cell (%d,%d) arms an open %s side", c.Row, c.Col, c.Hazard.Side)
			}
		default:
			return invalid("cell (%d,%d) has unknown hazard %d", c.Row, c.Col, int(c.Hazard.Kind))
		}
	}

	for _, e := range m.Corridors {
		if !grid.Adjacent(e.First, e.Second, m.Size) {
			return invalid("corridor %s joins non-adjacent cells", e)
		}
		ra, ca := grid.Coord(e.First, m.Size)
		rb, _ := grid.Coord(e.Second, m.Size)
		side := walls.Right
		if rb != ra {
			side = walls.Bottom
		}
		if m.Cell(ra, ca).Walls.Has(side) {
			return invalid("corridor %s is walled", e)
		}
	}

	if reached := m.reachable(); reached != n {
		return invalid("only %d of %d cells reachable from start", reached, n)
	}
	return nil
}

func (m *Maze) reachable() int {
	visited := mapset.New[Coord]()
	visited.Put(m.Start)
	queue := []Coord{m.Start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range m.Neighbors(cur.Row, cur.Col) {
			if !visited.Has(next) {
				visited.Put(next)
				queue = append(queue, next)
			}
		}
	}
	return visited.Size()
}

func invalid(format string, args ...any) error {
	return mazeerrors.New(mazeerrors.ErrCodeInvalidLevel, format, args...)
}
