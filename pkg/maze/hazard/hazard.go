// Package hazard places the start and end markers and assigns hazards to
// dead-end cells.
//
// Start is always the bottom-right cell and End the top-left one. Every other
// dead end is visited in row-major order and may receive a [PitfallHole] or,
// failing that, a [LethalWall] on one of its walled sides. Cells that are not
// dead ends consume no randomness, so the same seed and wall layout always
// yields the same hazards.
package hazard

import (
	"fmt"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
)

// Kind is the hazard type of a cell.
type Kind int

const (
	None Kind = iota
	PitfallHole
	LethalWall
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case PitfallHole:
		return "pitfall_hole"
	case LethalWall:
		return "lethal_wall"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{None, PitfallHole, LethalWall} {
		if k.String() == name {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown hazard %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < None || k > LethalWall {
		return nil, fmt.Errorf("invalid hazard kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text is None.
func (k *Kind) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = None
		return nil
	}
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Hazard is the hazard assigned to one cell. Side is meaningful only for
// LethalWall and always names a walled side.
type Hazard struct {
	Kind Kind
	Side walls.Side
}

// IsZero reports whether no hazard is assigned.
func (h Hazard) IsZero() bool { return h.Kind == None }

func (h Hazard) String() string {
	if h.Kind == LethalWall {
		return fmt.Sprintf("%s(%s)", h.Kind, h.Side)
	}
	return h.Kind.String()
}

// Probabilities configures hazard placement. Both values lie in [0, 1].
type Probabilities struct {
	FloorHole float64 `json:"floor_hole_probability" toml:"floor_hole_probability" bson:"floor_hole_probability"`
	DeathWall float64 `json:"death_wall_probability" toml:"death_wall_probability" bson:"death_wall_probability"`
}

// Validate rejects probabilities outside [0, 1] and NaN.
func (p Probabilities) Validate() error {
	if err := mazeerrors.ValidateProbability("floor hole probability", p.FloorHole); err != nil {
		return err
	}
	return mazeerrors.ValidateProbability("death wall probability", p.DeathWall)
}

// Coord is a (row, col) cell position.
type Coord struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Markers returns the fixed start and end cells of a size×size maze.
func Markers(size int) (start, end Coord) {
	return Coord{Row: size - 1, Col: size - 1}, Coord{Row: 0, Col: 0}
}

// Source is the randomness used by [Plan].
type Source = grid.Source

// Plan assigns hazards to the row-major cells of a size×size maze.
//
// For each dead end other than Start and End, one draw decides a pitfall.
// When that fails a second draw decides a lethal wall, and a third picks the
// side. A probability of 0 never fires, even on a draw of exactly 0.
func Plan(cells []walls.Walls, size int, p Probabilities, rng Source) []Hazard {
	start, end := Markers(size)
	out := make([]Hazard, len(cells))
	for idx, w := range cells {
		c := Coord{Row: idx / size, Col: idx % size}
		if c == start || c == end || !w.IsDeadEnd() {
			continue
		}
		if fires(p.FloorHole, rng.Float64()) {
			out[idx] = Hazard{Kind: PitfallHole}
			continue
		}
		if fires(p.DeathWall, rng.Float64()) {
			out[idx] = Hazard{Kind: LethalWall, Side: pickSide(w, rng)}
		}
	}
	return out
}

func fires(p, u float64) bool {
	return p > 0 && u <= p
}

// pickSide chooses uniformly among the walled sides of w.
func pickSide(w walls.Walls, rng Source) walls.Side {
	walled := w.Walled()
	i := int(rng.Float64() * float64(len(walled)))
	if i >= len(walled) {
		i = len(walled) - 1
	}
	return walled[i]
}
