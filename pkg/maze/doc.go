// Package maze generates playable perfect-maze levels.
//
// # Pipeline
//
// [Generate] runs the full pipeline once, synchronously:
//
//  1. [grid.Build] creates the size×size grid graph with random edge weights.
//  2. [spantree.Compute] reduces it to a minimum spanning tree.
//  3. [walls.Derive] turns tree membership into per-cell walls.
//  4. [tile.ClassifyAll] picks an archetype and rotation for each cell.
//  5. [hazard.Plan] assigns pitfalls and lethal walls to dead ends.
//
// The graph and tree are discarded afterwards. Only the tree edges are kept,
// as [Maze.Corridors], for debug rendering.
//
// # Randomness
//
// A single [grid.Source] is threaded through every stage. [Generate] seeds a
// PCG source from [Options.Seed], picking a random seed when it is zero and
// recording the one it used, so any maze can be regenerated exactly. Use
// [GenerateWith] to supply a source directly. Sources are never shared
// between calls.
//
// # Coordinates
//
// Cells are addressed by (row, col) with row 0 at the top. Start is the
// bottom-right cell and End the top-left one. [Cell.Position] is the world
// offset an engine uses to place the tile, centered on the board origin.
package maze
