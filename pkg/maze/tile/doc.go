// Package tile classifies cell wall configurations into tile archetypes.
//
// # Archetypes
//
// An archetype names a tile prototype by its shape, independent of
// orientation. Names count walls, not openings:
//
//   - [Triple]: three walls, one opening (dead end)
//   - [Corner]: two walls on adjacent sides
//   - [Double]: two walls on opposite sides (straight corridor)
//   - [Single]: one wall
//   - [Crossroads]: no walls
//
// # Rotation
//
// Each archetype has one prototype at rotation 0. Rotating it clockwise in
// 90° steps (viewed from above: left → top → right → bottom) produces every
// other member of its class. [Classify] picks the rotation from a fixed
// table over the 4-bit wall mask, and [Plan.Walls] applies the rotation to the
// prototype, so the two are inverse over all 15 classifiable configurations.
//
// The fully walled cell cannot be reached from a spanning tree and has no
// archetype. [Classify] returns an [*UnclassifiableError] for it.
package tile
