// Package spantree reduces a grid graph to its minimum spanning tree.
//
// # Algorithm
//
// [Compute] is Kruskal's algorithm. Edges are stable-sorted ascending by
// weight, so equal weights keep the order in which the grid builder emitted
// them. A disjoint-set forest (one element per node id, stored in a flat slice
// indexed by id) tracks connectivity: an edge is accepted and its endpoint
// sets merged when the endpoints lie in different sets, and skipped otherwise.
//
// Acceptance depends only on set membership, never on the set representation,
// so the result is identical to the quadratic list-of-sets formulation kept in
// [ComputeNaive] as a test oracle.
//
// # Corridors
//
// A tree edge between two adjacent cells is an open corridor. [Tree.IsCorridorOpen]
// answers membership in O(1). Wall derivation lives in
// [github.com/matzehuels/tiltmaze/pkg/maze/walls], which is the only place the
// opposite predicate (wall present) is defined.
//
// # Failure
//
// A connected input of V nodes always yields V-1 edges. A disconnected input
// cannot come from the grid builder, but if one is passed the engine returns a
// [*DisconnectedError] instead of a partial forest.
package spantree
