// Package walls derives per-cell wall state from a spanning tree.
//
// A side of a cell has a wall when it lies on the grid boundary or when the
// grid edge to the neighbor on that side is not a tree corridor:
//
//	hasWall = boundary || !tree.IsCorridorOpen(cell, neighbor)
//
// [Derive] is the only place that predicate is evaluated. Renderers that draw
// the tree itself use [spantree.Tree.IsCorridorOpen] directly and never look
// at walls.
package walls

import (
	"fmt"

	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
	"github.com/matzehuels/tiltmaze/pkg/maze/spantree"
)

// Side names one of the four sides of a cell.
type Side int

const (
	Left Side = iota
	Right
	Top
	Bottom
)

// Sides lists every side in canonical order.
var Sides = [4]Side{Left, Right, Top, Bottom}

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// ParseSide is the inverse of [Side.String].
func ParseSide(name string) (Side, error) {
	for _, s := range Sides {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown side %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	v, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Valid reports whether s is one of the four sides.
func (s Side) Valid() bool { return s >= Left && s <= Bottom }

// Opposite returns the side facing s across a shared wall.
func (s Side) Opposite() Side {
	switch s {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	default:
		return Top
	}
}

// Delta returns the row and column offset of the neighbor on side s.
// Top is row-1, matching row 0 at the top of the grid.
func (s Side) Delta() (dRow, dCol int) {
	switch s {
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	case Top:
		return -1, 0
	default:
		return 1, 0
	}
}

// Walls is the wall configuration of one cell.
type Walls struct {
	Left   bool `json:"left" bson:"left"`
	Right  bool `json:"right" bson:"right"`
	Top    bool `json:"top" bson:"top"`
	Bottom bool `json:"bottom" bson:"bottom"`
}

// Has reports whether side s is walled.
func (w Walls) Has(s Side) bool {
	switch s {
	case Left:
		return w.Left
	case Right:
		return w.Right
	case Top:
		return w.Top
	case Bottom:
		return w.Bottom
	}
	return false
}

// With returns a copy of w with side s set to wall.
func (w Walls) With(s Side, wall bool) Walls {
	switch s {
	case Left:
		w.Left = wall
	case Right:
		w.Right = wall
	case Top:
		w.Top = wall
	case Bottom:
		w.Bottom = wall
	}
	return w
}

// Count returns the number of walled sides.
func (w Walls) Count() int {
	n := 0
	for _, s := range Sides {
		if w.Has(s) {
			n++
		}
	}
	return n
}

// OpenSides returns the number of sides without a wall.
func (w Walls) OpenSides() int { return 4 - w.Count() }

// IsDeadEnd reports whether exactly one side is open.
func (w Walls) IsDeadEnd() bool { return w.OpenSides() == 1 }

// Walled returns the walled sides in canonical order.
func (w Walls) Walled() []Side {
	out := make([]Side, 0, 4)
	for _, s := range Sides {
		if w.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// Mask packs w into four bits: Left=1, Right=2, Top=4, Bottom=8.
func (w Walls) Mask() uint8 {
	var m uint8
	for i, s := range Sides {
		if w.Has(s) {
			m |= 1 << i
		}
	}
	return m
}

// FromMask is the inverse of [Walls.Mask]. Bits above the low four are ignored.
func FromMask(m uint8) Walls {
	var w Walls
	for i, s := range Sides {
		w = w.With(s, m&(1<<i) != 0)
	}
	return w
}

// String renders w as the initials of its walled sides, e.g. "LT" or "-".
func (w Walls) String() string {
	b := make([]byte, 0, 4)
	for _, s := range Sides {
		if w.Has(s) {
			b = append(b, s.String()[0]-'a'+'A')
		}
	}
	if len(b) == 0 {
		return "-"
	}
	return string(b)
}

// Derive returns the walls of every cell of t in row-major order.
func Derive(t *spantree.Tree) []Walls {
	out := make([]Walls, 0, t.Size*t.Size)
	for i := 0; i < t.Size; i++ {
		for j := 0; j < t.Size; j++ {
			out = append(out, At(t, i, j))
		}
	}
	return out
}

// At returns the walls of the cell at (row, col).
func At(t *spantree.Tree, row, col int) Walls {
	var w Walls
	id := grid.Index(row, col, t.Size)
	for _, s := range Sides {
		dr, dc := s.Delta()
		r, c := row+dr, col+dc
		boundary := r < 0 || c < 0 || r >= t.Size || c >= t.Size
		w = w.With(s, boundary || !t.IsCorridorOpen(id, grid.Index(r, c, t.Size)))
	}
	return w
}
