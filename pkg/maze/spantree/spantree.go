package spantree

import (
	"cmp"
	"slices"

	"github.com/spakin/disjoint"
	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
)

// Tree is a minimum spanning tree over a grid graph. Edges are in acceptance
// order. A Tree is read-only once returned.
type Tree struct {
	Size  int
	Edges []grid.Edge

	corridors mapset.Set[grid.EdgeKey]
}

// Compute returns the minimum spanning tree of g.
//
// The result has exactly g.NodeCount()-1 edges. A disconnected g returns a
// *DisconnectedError.
func Compute(g *grid.Graph) (*Tree, error) {
	sorted := sortedEdges(g.Edges)

	sets := make([]*disjoint.Element, g.NodeCount())
	for _, n := range g.Nodes {
		sets[n.ID] = disjoint.NewElement()
	}

	expected := max(g.NodeCount()-1, 0)
	accepted := make([]grid.Edge, 0, expected)
	for _, e := range sorted {
		a, b := sets[e.First], sets[e.Second]
		if a.Find() == b.Find() {
			continue
		}
		disjoint.Union(a, b)
		accepted = append(accepted, e)
	}

	if len(accepted) < expected {
		return nil, &DisconnectedError{
			Accepted:   len(accepted),
			Expected:   expected,
			Components: countRoots(sets),
		}
	}
	return newTree(g.Size, accepted), nil
}

// FromEdges rebuilds a Tree from stored corridor edges, for example when
// loading a saved level. It verifies that the edges form a spanning tree of
// the size×size grid: every edge joins adjacent cells and no edge closes a cycle.
func FromEdges(size int, edges []grid.Edge) (*Tree, error) {
	n := size * size
	sets := make([]*disjoint.Element, n)
	for i := range sets {
		sets[i] = disjoint.NewElement()
	}

	for _, e := range edges {
		if !grid.Adjacent(e.First, e.Second, size) {
			return nil, &InvalidEdgeError{Edge: e}
		}
		a, b := sets[e.First], sets[e.Second]
		if a.Find() == b.Find() {
			return nil, &InvalidEdgeError{Edge: e, Cycle: true}
		}
		disjoint.Union(a, b)
	}

	if len(edges) != n-1 {
		return nil, &DisconnectedError{
			Accepted:   len(edges),
			Expected:   n - 1,
			Components: countRoots(sets),
		}
	}
	return newTree(size, edges), nil
}

func newTree(size int, edges []grid.Edge) *Tree {
	corridors := mapset.New[grid.EdgeKey]()
	for _, e := range edges {
		corridors.Put(e.Key())
	}
	return &Tree{Size: size, Edges: edges, corridors: corridors}
}

// sortedEdges returns a copy of edges stable-sorted ascending by weight.
func sortedEdges(edges []grid.Edge) []grid.Edge {
	sorted := slices.Clone(edges)
	slices.SortStableFunc(sorted, func(a, b grid.Edge) int {
		return cmp.Compare(a.Weight, b.Weight)
	})
	return sorted
}

func countRoots(sets []*disjoint.Element) int {
	roots := mapset.New[*disjoint.Element]()
	for _, s := range sets {
		roots.Put(s.Find())
	}
	return roots.Size()
}

// IsCorridorOpen reports whether the grid edge between a and b is in the tree.
// Non-adjacent pairs are never open.
func (t *Tree) IsCorridorOpen(a, b grid.NodeID) bool {
	return t.corridors.Has(grid.Key(a, b))
}

// EdgeCount returns the number of tree edges.
func (t *Tree) EdgeCount() int { return len(t.Edges) }
