package text

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/maze/grid"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/spantree"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
)

// hook is a 2×2 maze: End at top-left, a corridor across the top, down the
// right side, and back along the bottom to a dead end at (1,0).
func hook(t testing.TB, hazards []hazard.Hazard) *maze.Maze {
	t.Helper()
	tree, err := spantree.FromEdges(2, []grid.Edge{
		{First: 0, Second: 1}, {First: 1, Second: 3}, {First: 2, Second: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	m, err := maze.FromTree(maze.Options{Size: 2}, tree, hazards)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		hazards []hazard.Hazard
		opts    []Option
		want    string
	}{
		{
			name: "plain",
			want: `+---+---+
| E     |
+---+   +
|     S |
+---+---+
`,
		},
		{
			name: "solution",
			opts: []Option{WithSolution()},
			want: `+---+---+
| E   . |
+---+   +
|     S |
+---+---+
`,
		},
		{
			name:    "pitfall",
			hazards: []hazard.Hazard{{}, {}, {Kind: hazard.PitfallHole}, {}},
			want: `+---+---+
| E     |
+---+   +
| O   S |
+---+---+
`,
		},
		{
			name:    "lethal top",
			hazards: []hazard.Hazard{{}, {}, {Kind: hazard.LethalWall, Side: walls.Top}, {}},
			want: `+---+---+
| E     |
+###+   +
|     S |
+---+---+
`,
		},
		{
			name:    "lethal left",
			hazards: []hazard.Hazard{{}, {}, {Kind: hazard.LethalWall, Side: walls.Left}, {}},
			want: `+---+---+
| E     |
+---+   +
#     S |
+---+---+
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Render(hook(t, tt.hazards), tt.opts...))
			if got != tt.want {
				t.Errorf("Render:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderTree(t *testing.T) {
	got := string(RenderTree(hook(t, nil)))
	want := "╶─┐\n╶─┘\n"
	if got != want {
		t.Errorf("RenderTree:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderDimensions(t *testing.T) {
	m, err := maze.Generate(maze.Options{Size: 9, Seed: 4, FloorHoleProbability: 0.5, DeathWallProbability: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(Render(m)), "\n"), "\n")
	if len(lines) != 2*9+1 {
		t.Fatalf("%d lines", len(lines))
	}
	for i, line := range lines {
		if len(line) != 4*9+1 {
			t.Errorf("line %d has width %d", i, len(line))
		}
	}
	if strings.Count(string(Render(m)), "S") != 1 || strings.Count(string(Render(m)), "E") != 1 {
		t.Error("expected exactly one start and one end glyph")
	}

	tree := strings.Split(strings.TrimSuffix(string(RenderTree(m)), "\n"), "\n")
	if len(tree) != 9 {
		t.Errorf("tree has %d rows", len(tree))
	}
}

func ExampleRenderTree() {
	m, _ := maze.Generate(maze.Options{Size: 2, Seed: 1})
	out := RenderTree(m)
	fmt.Println(strings.Count(string(out), "\n"))
	// Output: 2
}
