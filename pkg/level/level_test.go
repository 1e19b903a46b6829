package level

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/tile"
)

func generate(t *testing.T, opts maze.Options) *maze.Maze {
	t.Helper()
	m, err := maze.Generate(opts)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestFromMaze(t *testing.T) {
	m := generate(t, maze.Options{Size: 8, Seed: 21, DeathWallProbability: 1, NextLevel: "level-2"})
	l := FromMaze(m, "intro", Palette{Triple: "DeadEnd"})

	if l.Name != "intro" || l.Size != 8 || l.Seed != 21 || l.NextLevel != "level-2" {
		t.Errorf("header = %+v", l.Summarize())
	}
	if len(l.Cells) != 64 || len(l.Corridors) != 63 {
		t.Fatalf("%d cells, %d corridors", len(l.Cells), len(l.Corridors))
	}
	if l.Palette.Single != DefaultSingle {
		t.Errorf("palette not defaulted: %+v", l.Palette)
	}

	lethal := 0
	for _, c := range l.Cells {
		if c.Archetype == tile.Triple && c.Prototype != "DeadEnd" {
			t.Errorf("triple cell uses prototype %q", c.Prototype)
		}
		if c.Open != c.Walls.OpenSides() {
			t.Errorf("(%d,%d) open=%d", c.Row, c.Col, c.Open)
		}
		switch {
		case c.End:
			if c.Material != DefaultFinishMaterial {
				t.Errorf("end cell material = %q", c.Material)
			}
		case c.Hazard == hazard.LethalWall:
			lethal++
			if c.HazardSide == nil || !c.Walls.Has(*c.HazardSide) {
				t.Errorf("(%d,%d) lethal wall side invalid", c.Row, c.Col)
			}
			if c.Material != DefaultLethalWallMaterial {
				t.Errorf("(%d,%d) material = %q", c.Row, c.Col, c.Material)
			}
		default:
			if c.Material != "" {
				t.Errorf("(%d,%d) unexpected material %q", c.Row, c.Col, c.Material)
			}
		}
	}
	if lethal == 0 {
		t.Error("expected lethal walls with probability 1")
	}
}

func TestRoundTrip(t *testing.T) {
	m := generate(t, maze.Options{Size: 7, Seed: 5, FloorHoleProbability: 0.4, DeathWallProbability: 0.4})
	l := FromMaze(m, "round-trip", DefaultPalette())

	data, err := Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l, back) {
		t.Error("level changed across JSON round trip")
	}

	rebuilt, err := back.ToMaze()
	if err != nil {
		t.Fatalf("ToMaze: %v", err)
	}
	if !reflect.DeepEqual(m.Cells, rebuilt.Cells) {
		t.Error("rebuilt maze cells differ")
	}
}

func TestJSONShape(t *testing.T) {
	m := generate(t, maze.Options{Size: 3, Seed: 1, FloorHoleProbability: 1})
	data, err := Marshal(FromMaze(m, "", DefaultPalette()))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"archetype": "`, `"prototype": "Template`, `"position": {`, `"corridors": [`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s", want)
		}
	}
	if strings.Contains(s, `"name"`) {
		t.Error("empty name should be omitted")
	}
}

func TestToMazeRejectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *Level)
	}{
		{"wall flipped", func(l *Level) { l.Cells[4].Walls.Left = !l.Cells[4].Walls.Left }},
		{"rotation changed", func(l *Level) { l.Cells[0].Rotation = (l.Cells[0].Rotation + 90) % 360 }},
		{"corridor dropped", func(l *Level) { l.Corridors = l.Corridors[1:] }},
		{"cell dropped", func(l *Level) { l.Cells = l.Cells[1:] }},
		{"hazard on start", func(l *Level) { l.Cells[len(l.Cells)-1].Hazard = hazard.PitfallHole }},
		{"lethal without side", func(l *Level) { l.Cells[1].Hazard = hazard.LethalWall; l.Cells[1].HazardSide = nil }},
		{"hazard off dead end", func(l *Level) {
			for i := range l.Cells {
				c := &l.Cells[i]
				if !c.Start && !c.End && c.Open > 1 {
					c.Hazard = hazard.PitfallHole
					return
				}
			}
		}},
		{"bad name", func(l *Level) { l.Name = "../etc" }},
		{"size one", func(l *Level) { l.Size = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := generate(t, maze.Options{Size: 4, Seed: 9})
			l := FromMaze(m, "ok", DefaultPalette())
			tt.mutate(l)
			_, err := l.ToMaze()
			if err == nil {
				t.Fatal("expected error")
			}
			code := mazeerrors.GetCode(err)
			if code != mazeerrors.ErrCodeInvalidLevel && code != mazeerrors.ErrCodeInvalidConfiguration {
				t.Errorf("code = %q for %v", code, err)
			}
		})
	}
}

func TestFiles(t *testing.T) {
	m := generate(t, maze.Options{Size: 5, Seed: 3})
	l := FromMaze(m, "file", DefaultPalette())
	path := filepath.Join(t.TempDir(), "file.json")
	if err := WriteFile(l, path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Seed != l.Seed || len(back.Cells) != len(l.Cells) {
		t.Error("file round trip lost data")
	}

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !mazeerrors.Is(err, mazeerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	_, err = Read(bytes.NewReader([]byte("{")))
	if !mazeerrors.Is(err, mazeerrors.ErrCodeInvalidLevel) {
		t.Errorf("malformed JSON error = %v", err)
	}
}

func TestTransition(t *testing.T) {
	last := &Level{}
	chained := &Level{NextLevel: "level-2"}
	tests := []struct {
		level *Level
		event Event
		want  Outcome
	}{
		{chained, TouchLethalWall, Outcome{Action: ReloadCurrent}},
		{chained, FallInHole, Outcome{Action: ReloadCurrent}},
		{chained, ReachEnd, Outcome{Action: Advance, Next: "level-2"}},
		{last, ReachEnd, Outcome{Action: Stay}},
		{last, TouchLethalWall, Outcome{Action: ReloadCurrent}},
	}
	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			if got := Transition(tt.level, tt.event); got != tt.want {
				t.Errorf("Transition = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPalettePrototype(t *testing.T) {
	p := DefaultPalette()
	want := map[tile.Archetype]string{
		tile.Single:     "TemplateSingle",
		tile.Double:     "TemplateDouble",
		tile.Triple:     "TemplateTriple",
		tile.Crossroads: "TemplateCrossroads",
		tile.Corner:     "TemplateCorner",
	}
	for a, name := range want {
		if got := p.Prototype(a); got != name {
			t.Errorf("Prototype(%s) = %q, want %q", a, got, name)
		}
	}
}
