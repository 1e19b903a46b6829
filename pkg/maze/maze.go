package maze

import (
	"fmt"
	"math/rand/v2"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/spantree"
	"github.com/matzehuels/tiltmaze/pkg/maze/tile"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
)

// seedSalt decorrelates the two PCG state words derived from one seed.
const seedSalt = 0x7173_6d61_7a65

// Coord is a (row, col) cell position.
type Coord = hazard.Coord

// Vec3 is a world-space offset. Y is up.
type Vec3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Options configures one generation.
type Options struct {
	Size                 int
	Seed                 uint64 // 0 picks a random seed
	FloorHoleProbability float64
	DeathWallProbability float64
	NextLevel            string // level loaded after End; empty means none
}

// Probabilities returns the hazard probabilities of o.
func (o Options) Probabilities() hazard.Probabilities {
	return hazard.Probabilities{FloorHole: o.FloorHoleProbability, DeathWall: o.DeathWallProbability}
}

// Validate checks size and probabilities.
func (o Options) Validate() error {
	if err := mazeerrors.ValidateSize(o.Size); err != nil {
		return err
	}
	return o.Probabilities().Validate()
}

// Cell is the generated state of one grid cell.
type Cell struct {
	Row      int
	Col      int
	Walls    walls.Walls
	Tile     tile.Plan
	Hazard   hazard.Hazard
	IsStart  bool
	IsEnd    bool
	Position Vec3
}

// Coord returns the cell's position in the grid.
func (c Cell) Coord() Coord { return Coord{Row: c.Row, Col: c.Col} }

// IsDeadEnd reports whether the cell has exactly one open side.
func (c Cell) IsDeadEnd() bool { return c.Walls.IsDeadEnd() }

// Maze is a generated level.
type Maze struct {
	Size                 int
	Seed                 uint64
	FloorHoleProbability float64
	DeathWallProbability float64
	NextLevel            string

	Cells     []Cell // row-major
	Start     Coord
	End       Coord
	Spawn     Vec3
	Corridors []grid.Edge
}

// Generate builds a maze from opts, seeding its own randomness source.
func Generate(opts Options) (*Maze, error) {
	if opts.Seed == 0 {
		opts.Seed = RandomSeed()
	}
	return GenerateWith(opts, NewSource(opts.Seed))
}

// RandomSeed returns a non-zero seed.
func RandomSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}

// NewSource returns the deterministic source [Generate] uses for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedSalt))
}

// GenerateWith builds a maze drawing all randomness from rng. opts.Seed is
// recorded on the result but not used to seed anything.
func GenerateWith(opts Options, rng grid.Source) (*Maze, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration, "randomness source is nil")
	}

	g, err := grid.Build(opts.Size, rng)
	if err != nil {
		return nil, err
	}
	tree, err := spantree.Compute(g)
	if err != nil {
		return nil, fmt.Errorf("compute spanning tree: %w", err)
	}
	return assemble(opts, tree, rng)
}

// FromTree rebuilds a maze from stored corridors. Hazards are taken from
// hazards (row-major, may be nil) instead of being drawn.
func FromTree(opts Options, tree *spantree.Tree, hazards []hazard.Hazard) (*Maze, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if tree.Size != opts.Size {
		return nil, mazeerrors.New(mazeerrors.ErrCodeInvalidLevel, "tree size %d does not match size %d", tree.Size, opts.Size)
	}
	if hazards != nil && len(hazards) != opts.Size*opts.Size {
		return nil, mazeerrors.New(mazeerrors.ErrCodeInvalidLevel, "expected %d hazards, got %d", opts.Size*opts.Size, len(hazards))
	}
	m, err := build(opts, tree, func([]walls.Walls) []hazard.Hazard { return hazards })
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func assemble(opts Options, tree *spantree.Tree, rng grid.Source) (*Maze, error) {
	return build(opts, tree, func(ws []walls.Walls) []hazard.Hazard {
		return hazard.Plan(ws, opts.Size, opts.Probabilities(), rng)
	})
}

func build(opts Options, tree *spantree.Tree, planHazards func([]walls.Walls) []hazard.Hazard) (*Maze, error) {
	size := opts.Size
	ws := walls.Derive(tree)
	plans, err := tile.ClassifyAll(ws)
	if err != nil {
		return nil, fmt.Errorf("classify tiles: %w", err)
	}
	hazards := planHazards(ws)

	start, end := hazard.Markers(size)
	m := &Maze{
		Size:                 size,
		Seed:                 opts.Seed,
		FloorHoleProbability: opts.FloorHoleProbability,
		DeathWallProbability: opts.DeathWallProbability,
		NextLevel:            opts.NextLevel,
		Cells:                make([]Cell, len(ws)),
		Start:                start,
		End:                  end,
		Spawn:                SpawnOffset(size),
		Corridors:            tree.Edges,
	}
	for idx, w := range ws {
		row, col := idx/size, idx%size
		c := Cell{
			Row:      row,
			Col:      col,
			Walls:    w,
			Tile:     plans[idx],
			IsStart:  row == start.Row && col == start.Col,
			IsEnd:    row == end.Row && col == end.Col,
			Position: TileOffset(row, col, size),
		}
		if hazards != nil {
			c.Hazard = hazards[idx]
		}
		m.Cells[idx] = c
	}
	return m, nil
}

// TileOffset returns the world offset of cell (row, col) on a size×size board.
// Columns run along -X and rows along +Z, centered on the origin.
func TileOffset(row, col, size int) Vec3 {
	half := float64(size) / 2
	return Vec3{
		X: -float64(col) + half - 0.5,
		Y: 0,
		Z: float64(row) - half + 0.5,
	}
}

// SpawnOffset returns where the ball is placed: the center of the Start cell.
func SpawnOffset(size int) Vec3 {
	half := float64(size) / 2
	return Vec3{X: -half + 0.5, Y: 0, Z: half - 0.5}
}

// Cell returns the cell at (row, col). It panics when out of range.
func (m *Maze) Cell(row, col int) *Cell {
	if !m.InBounds(row, col) {
		panic(fmt.Sprintf("maze: cell (%d,%d) out of range for size %d", row, col, m.Size))
	}
	return &m.Cells[row*m.Size+col]
}

// InBounds reports whether (row, col) lies on the board.
func (m *Maze) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < m.Size && col < m.Size
}

// StartCell returns the Start cell.
func (m *Maze) StartCell() *Cell { return m.Cell(m.Start.Row, m.Start.Col) }

// EndCell returns the End cell.
func (m *Maze) EndCell() *Cell { return m.Cell(m.End.Row, m.End.Col) }
