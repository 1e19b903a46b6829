package level

import (
	"time"

	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/tile"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
)

// Level is the serialized form of a generated maze.
type Level struct {
	ID   string `json:"id,omitempty" bson:"-"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`

	// Generation inputs. Seed is excluded from bson because it may not fit
	// in an int64; stores persist it separately.
	Size                 int     `json:"size" bson:"size"`
	Seed                 uint64  `json:"seed" bson:"-"`
	FloorHoleProbability float64 `json:"floor_hole_probability" bson:"floor_hole_probability"`
	DeathWallProbability float64 `json:"death_wall_probability" bson:"death_wall_probability"`
	NextLevel            string  `json:"next_level,omitempty" bson:"next_level,omitempty"`

	Palette   Palette    `json:"palette" bson:"palette"`
	Start     maze.Coord `json:"start" bson:"start"`
	End       maze.Coord `json:"end" bson:"end"`
	Spawn     maze.Vec3  `json:"spawn" bson:"spawn"`
	Cells     []Cell     `json:"cells" bson:"cells"`
	Corridors []Corridor `json:"corridors" bson:"corridors"`

	CreatedAt time.Time `json:"created_at,omitzero" bson:"created_at,omitempty"`
}

// Cell is one board cell.
type Cell struct {
	Row       int            `json:"row" bson:"row"`
	Col       int            `json:"col" bson:"col"`
	Archetype tile.Archetype `json:"archetype" bson:"archetype"`
	Rotation  tile.Rotation  `json:"rotation" bson:"rotation"`
	Prototype string         `json:"prototype" bson:"prototype"`
	Walls     walls.Walls    `json:"walls" bson:"walls"`
	Open      int            `json:"open" bson:"open"`

	Hazard     hazard.Kind `json:"hazard,omitempty" bson:"hazard,omitempty"`
	HazardSide *walls.Side `json:"hazard_side,omitempty" bson:"hazard_side,omitempty"`
	Material   string      `json:"material,omitempty" bson:"material,omitempty"`

	Start    bool      `json:"start,omitempty" bson:"start,omitempty"`
	End      bool      `json:"end,omitempty" bson:"end,omitempty"`
	Position maze.Vec3 `json:"position" bson:"position"`
}

// Corridor is an open passage between two adjacent cells, by row-major index.
type Corridor struct {
	From int `json:"from" bson:"from"`
	To   int `json:"to" bson:"to"`
}

// Summary is the listing view of a stored level.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Size      int       `json:"size" bson:"size"`
	Seed      uint64    `json:"seed" bson:"-"`
	NextLevel string    `json:"next_level,omitempty" bson:"next_level,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Summarize returns the listing view of l.
func (l *Level) Summarize() Summary {
	return Summary{
		ID:        l.ID,
		Name:      l.Name,
		Size:      l.Size,
		Seed:      l.Seed,
		NextLevel: l.NextLevel,
		CreatedAt: l.CreatedAt,
	}
}

// Cell returns the cell at (row, col), or nil when out of range.
func (l *Level) Cell(row, col int) *Cell {
	if row < 0 || col < 0 || row >= l.Size || col >= l.Size {
		return nil
	}
	idx := row*l.Size + col
	if idx >= len(l.Cells) {
		return nil
	}
	return &l.Cells[idx]
}
