package level

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/spantree"
)

// =============================================================================
// Conversion
// =============================================================================

// FromMaze converts a generated maze into a level. Empty palette entries use
// the defaults. ID and CreatedAt are left for the store to assign.
func FromMaze(m *maze.Maze, name string, p Palette) *Level {
	p = p.WithDefaults()
	l := &Level{
		Name:                 name,
		Size:                 m.Size,
		Seed:                 m.Seed,
		FloorHoleProbability: m.FloorHoleProbability,
		DeathWallProbability: m.DeathWallProbability,
		NextLevel:            m.NextLevel,
		Palette:              p,
		Start:                m.Start,
		End:                  m.End,
		Spawn:                m.Spawn,
		Cells:                make([]Cell, len(m.Cells)),
		Corridors:            make([]Corridor, len(m.Corridors)),
	}

	for i, c := range m.Cells {
		lc := Cell{
			Row:       c.Row,
			Col:       c.Col,
			Archetype: c.Tile.Archetype,
			Rotation:  c.Tile.Rotation,
			Prototype: p.Prototype(c.Tile.Archetype),
			Walls:     c.Walls,
			Open:      c.Walls.OpenSides(),
			Hazard:    c.Hazard.Kind,
			Start:     c.IsStart,
			End:       c.IsEnd,
			Position:  c.Position,
		}
		if c.Hazard.Kind == hazard.LethalWall {
			side := c.Hazard.Side
			lc.HazardSide = &side
			lc.Material = p.LethalWallMaterial
		}
		if c.IsEnd {
			lc.Material = p.FinishMaterial
		}
		l.Cells[i] = lc
	}
	for i, e := range m.Corridors {
		l.Corridors[i] = Corridor{From: int(e.First), To: int(e.Second)}
	}
	return l
}

// Options returns the generation options recorded in l.
func (l *Level) Options() maze.Options {
	return maze.Options{
		Size:                 l.Size,
		Seed:                 l.Seed,
		FloorHoleProbability: l.FloorHoleProbability,
		DeathWallProbability: l.DeathWallProbability,
		NextLevel:            l.NextLevel,
	}
}

// ToMaze rebuilds the maze described by l and checks that every stored cell
// agrees with the walls implied by its corridors.
func (l *Level) ToMaze() (*maze.Maze, error) {
	if err := mazeerrors.ValidateLevelName(l.Name); err != nil {
		return nil, err
	}
	if err := l.Options().Validate(); err != nil {
		return nil, err
	}
	if len(l.Cells) != l.Size*l.Size {
		return nil, invalid("expected %d cells, got %d", l.Size*l.Size, len(l.Cells))
	}

	edges := make([]grid.Edge, len(l.Corridors))
	for i, c := range l.Corridors {
		a, b := grid.NodeID(c.From), grid.NodeID(c.To)
		if a > b {
			a, b = b, a
		}
		edges[i] = grid.Edge{First: a, Second: b}
	}
	tree, err := spantree.FromEdges(l.Size, edges)
	if err != nil {
		return nil, mazeerrors.Wrap(mazeerrors.ErrCodeInvalidLevel, err, "corridors do not form a spanning tree")
	}

	hazards := make([]hazard.Hazard, len(l.Cells))
	for i, c := range l.Cells {
		h := hazard.Hazard{Kind: c.Hazard}
		if c.Hazard == hazard.LethalWall {
			if c.HazardSide == nil {
				return nil, invalid("cell (%d,%d) has a lethal wall without a side", c.Row, c.Col)
			}
			h.Side = *c.HazardSide
		}
		hazards[i] = h
	}

	m, err := maze.FromTree(l.Options(), tree, hazards)
	if err != nil {
		return nil, err
	}

	for i, c := range l.Cells {
		mc := m.Cells[i]
		if c.Row != mc.Row || c.Col != mc.Col {
			return nil, invalid("cell %d is stored as (%d,%d)", i, c.Row, c.Col)
		}
		if c.Walls != mc.Walls {
			return nil, invalid("cell (%d,%d) walls %s disagree with corridors (%s)", c.Row, c.Col, c.Walls, mc.Walls)
		}
		if c.Archetype != mc.Tile.Archetype || c.Rotation != mc.Tile.Rotation {
			return nil, invalid("cell (%d,%d) tile %s@%d disagrees with walls (%s)", c.Row, c.Col, c.Archetype, c.Rotation, mc.Tile)
		}
		if c.Start != mc.IsStart || c.End != mc.IsEnd {
			return nil, invalid("cell (%d,%d) has misplaced markers", c.Row, c.Col)
		}
	}
	return m, nil
}

func invalid(format string, args ...any) error {
	return mazeerrors.New(mazeerrors.ErrCodeInvalidLevel, format, args...)
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal encodes l as indented JSON.
func Marshal(l *Level) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON level. It does not validate the maze; call
// [Level.ToMaze] for that.
func Unmarshal(data []byte) (*Level, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes l as indented JSON to w.
func Write(l *Level, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON level from r.
func Read(r io.Reader) (*Level, error) {
	var l Level
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, mazeerrors.Wrap(mazeerrors.ErrCodeInvalidLevel, err, "decode level")
	}
	return &l, nil
}

// WriteFile writes l to path as JSON.
func WriteFile(l *Level, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(l, f)
}

// ReadFile reads a JSON level from path.
func ReadFile(path string) (*Level, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, mazeerrors.Wrap(mazeerrors.ErrCodeFileNotFound, err, "level file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
