// Package pkg provides the core libraries for Tiltmaze level generation.
//
// # Overview
//
// Tiltmaze turns a seed into a perfect maze for a tilt-the-board ball game:
// every cell is reachable and there is exactly one path between any two
// cells. The pkg directory is organized into these areas:
//
//  1. [maze] - Domain logic (grid graph, spanning tree, walls, tiles, hazards)
//  2. [level] - The serialized level document and scene transitions
//  3. [render] - Text, floorplan SVG, and Graphviz node-link output
//  4. [pipeline] - Orchestration (generate → render) with caching
//  5. [cache], [store] - Infrastructure (file/Redis cache, memory/file/Mongo level store)
//  6. [config] - Campaign files
//
// # Architecture
//
// The typical data flow through Tiltmaze:
//
//	Options (size, seed, hazard probabilities)
//	         ↓
//	    [maze/grid] package (weighted grid graph)
//	         ↓
//	    [maze/spantree] package (Kruskal minimum spanning tree)
//	         ↓
//	    [maze/walls], [maze/tile], [maze/hazard] (per-cell plans)
//	         ↓
//	    [level] package (JSON/BSON level document)
//	         ↓
//	    TXT/JSON/DOT/SVG/PNG/PDF output
//
// # Quick Start
//
// Generate a level and print it:
//
//	import (
//	    "os"
//	    "github.com/matzehuels/tiltmaze/pkg/maze"
//	    "github.com/matzehuels/tiltmaze/pkg/render/text"
//	)
//
//	m, err := maze.Generate(maze.Options{Size: 10, Seed: 42, FloorHoleProbability: 0.2})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(text.Render(m, text.WithSolution()))
//
// With caching and multiple formats, use the pipeline runner:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Size:    10,
//	    Formats: []string{"json", "svg"},
//	})
//
// [maze]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/maze
// [maze/grid]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/maze/grid
// [maze/spantree]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/maze/spantree
// [maze/walls]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/maze/walls
// [maze/tile]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/maze/tile
// [maze/hazard]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/maze/hazard
// [level]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/level
// [render]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/tiltmaze/pkg/config
package pkg
