package maze_test

import (
	"fmt"

	"github.com/matzehuels/tiltmaze/pkg/maze"
)

func ExampleGenerate() {
	m, err := maze.Generate(maze.Options{Size: 5, Seed: 42})
	if err != nil {
		panic(err)
	}
	s := m.Stats()
	fmt.Println("cells:", s.Cells)
	fmt.Println("corridors:", s.Corridors)
	fmt.Println("start:", m.Start, "end:", m.End)
	fmt.Println("solvable:", len(m.Solution()) > 0)
	// Output:
	// cells: 25
	// corridors: 24
	// start: (4,4) end: (0,0)
	// solvable: true
}

func ExampleTileOffset() {
	fmt.Println(maze.TileOffset(0, 0, 4))
	fmt.Println(maze.SpawnOffset(4))
	// Output:
	// {1.5 0 -1.5}
	// {-1.5 0 1.5}
}
