// Package level defines the serialized form of a generated maze.
//
// # Overview
//
// A [Level] is what an engine needs to build the board: one entry per cell
// naming the tile prototype, its rotation, the world position, and any
// hazard or marker material. It also carries the spanning-tree corridors and
// the generation inputs (size, seed, probabilities), so a stored level can be
// turned back into a [maze.Maze] with [Level.ToMaze] and re-validated.
//
// Levels are JSON documents for files, the HTTP API, and the cache. The
// Mongo store nests them in a record with bson tags from this package.
//
//	m, _ := maze.Generate(maze.Options{Size: 10, Seed: 7})
//	l := level.FromMaze(m, "intro", level.DefaultPalette())
//	data, _ := level.Marshal(l)
//
// # Palette
//
// [Palette] maps tile archetypes to prototype identifiers and names the two
// materials an engine swaps in: the finish marker at End and the lethal wall
// material. Empty entries fall back to [DefaultPalette].
//
// # Transitions
//
// [Transition] decides what happens when the ball touches a lethal wall,
// drops into a pitfall, or reaches End: reload the current level, advance to
// [Level.NextLevel], or stay when there is no next level.
package level
