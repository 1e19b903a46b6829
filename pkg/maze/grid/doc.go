// Package grid builds the weighted grid graph that seeds maze generation.
//
// # Overview
//
// A grid graph over an N×N board has one node per cell and one undirected edge
// per pair of horizontally or vertically adjacent cells. Diagonal neighbors are
// never connected. Each edge carries an independently drawn random weight that
// is meaningful only as an ordering key for the spanning tree engine in
// [github.com/matzehuels/tiltmaze/pkg/maze/spantree].
//
// # Identity
//
// Node ids are row-major: the cell at (row, col) has id row*size+col. Use
// [Index] and [Coord] to convert. Every edge is stored exactly once with
// First < Second; there are no duplicate reverse edges.
//
// # Emission Order
//
// [Build] walks cells in row-major order and, for each cell, emits the down
// edge before the right edge. The spanning tree engine stable-sorts by weight,
// so this order is the tie-break for equal weights and must not change.
//
//	rng := rand.New(rand.NewPCG(42, 42))
//	g, err := grid.Build(8, rng)
//	// g.NodeCount() == 64, g.EdgeCount() == 112
package grid
