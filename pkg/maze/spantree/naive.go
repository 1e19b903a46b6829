package spantree

import (
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
)

// ComputeNaive is the list-of-sets formulation of [Compute]: each edge scans
// the list of node sets to find its endpoints' sets. It is O(E·V) and exists
// so tests can check that [Compute] accepts exactly the same edges.
func ComputeNaive(g *grid.Graph) []grid.Edge {
	subsets := make([]map[grid.NodeID]struct{}, 0, g.NodeCount())
	for _, n := range g.Nodes {
		subsets = append(subsets, map[grid.NodeID]struct{}{n.ID: {}})
	}

	find := func(id grid.NodeID) int {
		for i, s := range subsets {
			if _, ok := s[id]; ok {
				return i
			}
		}
		return -1
	}

	var accepted []grid.Edge
	for _, e := range sortedEdges(g.Edges) {
		fi, si := find(e.First), find(e.Second)
		if fi == si {
			continue
		}
		for id := range subsets[si] {
			subsets[fi][id] = struct{}{}
		}
		subsets = append(subsets[:si], subsets[si+1:]...)
		accepted = append(accepted, e)
	}
	return accepted
}
