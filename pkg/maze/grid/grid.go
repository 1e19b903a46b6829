package grid

import (
	"errors"
	"fmt"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
)

// ErrInvalidSize is returned by [Build] when size is less than 1.
// The returned error also carries [mazeerrors.ErrCodeInvalidConfiguration].
var ErrInvalidSize = errors.New("grid size must be at least 1")

// Source is the randomness consumed by maze generation. *rand.Rand from
// math/rand/v2 satisfies it. Callers that need reproducible output seed one
// Source and thread it through the whole pipeline.
type Source interface {
	Uint64() uint64
	Float64() float64
}

// NodeID identifies a cell. It equals row*size+col.
type NodeID int

// Node is a grid cell. It carries identity only.
type Node struct {
	ID NodeID
}

// Edge connects two grid-adjacent nodes. First is always the smaller id:
// Second == First+1 for a right edge and Second == First+size for a down edge.
type Edge struct {
	First  NodeID
	Second NodeID
	Weight uint64
}

// Graph is the full grid graph. It is never mutated after [Build] returns.
type Graph struct {
	Size  int
	Nodes []Node
	Edges []Edge
}

// Build constructs the size×size grid graph, drawing one weight per edge from rng.
//
// For size >= 1 the graph has size² nodes and 2·size·(size-1) edges and is
// connected. Size less than 1 returns an invalid-configuration error wrapping
// [ErrInvalidSize].
func Build(size int, rng Source) (*Graph, error) {
	if size < 1 {
		return nil, mazeerrors.Wrap(mazeerrors.ErrCodeInvalidConfiguration, ErrInvalidSize, "build grid of size %d", size)
	}
	if rng == nil {
		return nil, mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration, "build grid: randomness source is nil")
	}

	g := &Graph{
		Size:  size,
		Nodes: make([]Node, 0, size*size),
		Edges: make([]Edge, 0, ExpectedEdges(size)),
	}

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			id := Index(i, j, size)
			g.Nodes = append(g.Nodes, Node{ID: id})

			if i+1 < size {
				g.Edges = append(g.Edges, Edge{First: id, Second: id + NodeID(size), Weight: rng.Uint64()})
			}
			if j+1 < size {
				g.Edges = append(g.Edges, Edge{First: id, Second: id + 1, Weight: rng.Uint64()})
			}
		}
	}

	return g, nil
}

// ExpectedEdges returns 2·size·(size-1), the edge count of a size×size grid graph.
func ExpectedEdges(size int) int {
	if size < 1 {
		return 0
	}
	return 2 * size * (size - 1)
}

// Index returns the node id of the cell at (row, col).
func Index(row, col, size int) NodeID {
	return NodeID(row*size + col)
}

// Coord returns the (row, col) of a node id.
func Coord(id NodeID, size int) (row, col int) {
	return int(id) / size, int(id) % size
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Adjacent reports whether a and b are horizontal or vertical neighbors.
func (g *Graph) Adjacent(a, b NodeID) bool {
	return Adjacent(a, b, g.Size)
}

// Adjacent reports whether a and b are horizontal or vertical neighbors on a
// size×size grid.
func Adjacent(a, b NodeID, size int) bool {
	if a > b {
		a, b = b, a
	}
	if a < 0 || int(b) >= size*size {
		return false
	}
	if b-a == NodeID(size) {
		return true
	}
	ra, _ := Coord(a, size)
	rb, _ := Coord(b, size)
	return b-a == 1 && ra == rb
}

// Neighbors returns the ids of the grid-adjacent cells of id in the order
// left, right, top, bottom, skipping sides that leave the grid.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	row, col := Coord(id, g.Size)
	out := make([]NodeID, 0, 4)
	if col > 0 {
		out = append(out, id-1)
	}
	if col+1 < g.Size {
		out = append(out, id+1)
	}
	if row > 0 {
		out = append(out, id-NodeID(g.Size))
	}
	if row+1 < g.Size {
		out = append(out, id+NodeID(g.Size))
	}
	return out
}

// Key returns a canonical key for the edge between a and b, independent of
// argument order. It is used for membership sets over edges.
func Key(a, b NodeID) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{First: a, Second: b}
}

// EdgeKey identifies an undirected edge by its endpoints, smaller first.
type EdgeKey struct {
	First  NodeID
	Second NodeID
}

// Key returns the canonical key of e.
func (e Edge) Key() EdgeKey { return Key(e.First, e.Second) }

// String returns "first-second" for debugging.
func (e Edge) String() string { return fmt.Sprintf("%d-%d", e.First, e.Second) }
