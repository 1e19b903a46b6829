package tile

import (
	"errors"
	"fmt"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
)

// Archetype is a tile prototype shape.
type Archetype int

const (
	Crossroads Archetype = iota
	Single
	Double
	Corner
	Triple
)

// Archetypes lists every archetype.
var Archetypes = []Archetype{Crossroads, Single, Double, Corner, Triple}

var archetypeNames = map[Archetype]string{
	Crossroads: "crossroads",
	Single:     "single",
	Double:     "double",
	Corner:     "corner",
	Triple:     "triple",
}

func (a Archetype) String() string {
	if name, ok := archetypeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Archetype(%d)", int(a))
}

// ParseArchetype is the inverse of [Archetype.String].
func ParseArchetype(name string) (Archetype, error) {
	for a, n := range archetypeNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown archetype %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Archetype) MarshalText() ([]byte, error) {
	name, ok := archetypeNames[a]
	if !ok {
		return nil, fmt.Errorf("invalid archetype %d", int(a))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Archetype) UnmarshalText(text []byte) error {
	v, err := ParseArchetype(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// OpenSides returns how many sides of the archetype are open.
func (a Archetype) OpenSides() int {
	switch a {
	case Crossroads:
		return 4
	case Single:
		return 3
	case Double, Corner:
		return 2
	case Triple:
		return 1
	}
	return 0
}

// prototype returns the walls of the archetype at rotation 0.
func (a Archetype) prototype() walls.Walls {
	switch a {
	case Single:
		return walls.Walls{Left: true}
	case Double:
		return walls.Walls{Left: true, Right: true}
	case Corner:
		return walls.Walls{Right: true, Top: true}
	case Triple:
		return walls.Walls{Left: true, Right: true, Top: true}
	}
	return walls.Walls{}
}

// Rotation is a clockwise rotation about the vertical axis, in degrees.
type Rotation int

const (
	Rot0   Rotation = 0
	Rot90  Rotation = 90
	Rot180 Rotation = 180
	Rot270 Rotation = 270
)

// Valid reports whether r is a multiple of 90 in [0, 270].
func (r Rotation) Valid() bool {
	return r >= 0 && r < 360 && r%90 == 0
}

// Steps returns r as a number of quarter turns.
func (r Rotation) Steps() int { return int(r) / 90 }

// Plan is the tile placed in one cell.
type Plan struct {
	Archetype Archetype `json:"archetype" bson:"archetype"`
	Rotation  Rotation  `json:"rotation" bson:"rotation"`
}

func (p Plan) String() string {
	return fmt.Sprintf("%s@%d", p.Archetype, p.Rotation)
}

// Walls returns the wall configuration produced by rotating the archetype's
// prototype by p.Rotation. It is the inverse of [Classify].
func (p Plan) Walls() walls.Walls {
	w := p.Archetype.prototype()
	for range p.Rotation.Steps() {
		w = rotate(w)
	}
	return w
}

// rotate turns w one quarter clockwise: left → top → right → bottom → left.
func rotate(w walls.Walls) walls.Walls {
	return walls.Walls{
		Top:    w.Left,
		Right:  w.Top,
		Bottom: w.Right,
		Left:   w.Bottom,
	}
}

// ErrUnclassifiable indicates a wall configuration with no tile archetype.
var ErrUnclassifiable = errors.New("unclassifiable wall configuration")

// UnclassifiableError reports a cell whose walls match no archetype. Only the
// fully walled cell triggers it. It wraps [ErrUnclassifiable] and carries
// [mazeerrors.ErrCodeUnclassifiable].
type UnclassifiableError struct {
	Walls walls.Walls
}

func (e *UnclassifiableError) Error() string {
	return fmt.Sprintf("classify tile: %v: walls %s", ErrUnclassifiable, e.Walls)
}

// Unwrap returns ErrUnclassifiable.
func (e *UnclassifiableError) Unwrap() error { return ErrUnclassifiable }

// Code returns the structured error code.
func (e *UnclassifiableError) Code() mazeerrors.Code { return mazeerrors.ErrCodeUnclassifiable }

// table maps a wall mask (Left=1, Right=2, Top=4, Bottom=8) to its plan.
// The fully walled mask 15 is absent.
var table = map[uint8]Plan{
	0b0000: {Crossroads, Rot0},

	0b0001: {Single, Rot0},   // L
	0b0010: {Single, Rot180}, // R
	0b0100: {Single, Rot90},  // T
	0b1000: {Single, Rot270}, // B

	0b0011: {Double, Rot0},  // L R
	0b1100: {Double, Rot90}, // T B

	0b0110: {Corner, Rot0},   // R T
	0b1010: {Corner, Rot90},  // R B
	0b1001: {Corner, Rot180}, // L B
	0b0101: {Corner, Rot270}, // L T

	0b0111: {Triple, Rot0},   // L R T
	0b1110: {Triple, Rot90},  // R T B
	0b1011: {Triple, Rot180}, // L R B
	0b1101: {Triple, Rot270}, // L T B
}

// Classify returns the archetype and rotation for w.
func Classify(w walls.Walls) (Plan, error) {
	p, ok := table[w.Mask()]
	if !ok {
		return Plan{}, &UnclassifiableError{Walls: w}
	}
	return p, nil
}

// ClassifyAll classifies every cell, stopping at the first failure. The error
// names the row-major index of the offending cell.
func ClassifyAll(cells []walls.Walls) ([]Plan, error) {
	out := make([]Plan, len(cells))
	for i, w := range cells {
		p, err := Classify(w)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Configurations returns every classifiable wall configuration, ordered by mask.
func Configurations() []walls.Walls {
	out := make([]walls.Walls, 0, len(table))
	for m := uint8(0); m < 16; m++ {
		if _, ok := table[m]; ok {
			out = append(out, walls.FromMask(m))
		}
	}
	return out
}
