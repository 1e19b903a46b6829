// Package config loads campaign files.
//
// A campaign is a TOML file listing named levels and the order they are
// played in. Each level may set its own size, seed, and hazard
// probabilities; anything it leaves out comes from [defaults]. The
// [palette] table overrides prototype and material identifiers for every
// level.
//
//	[defaults]
//	size = 10
//	floor_hole_probability = 0.1
//
//	[palette]
//	triple = "DeadEnd"
//
//	[[level]]
//	name = "intro"
//	size = 6
//	seed = 42
//	next = "caves"
//
//	[[level]]
//	name = "caves"
//	death_wall_probability = 0.3
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/maze"
)

// DefaultSize is used when neither a level nor [defaults] sets a size.
const DefaultSize = 10

// Campaign is a parsed campaign file.
type Campaign struct {
	Defaults Defaults      `toml:"defaults"`
	Palette  level.Palette `toml:"palette"`
	Levels   []LevelSpec   `toml:"level"`
}

// Defaults apply to every level that does not override them.
type Defaults struct {
	Size                 int     `toml:"size"`
	FloorHoleProbability float64 `toml:"floor_hole_probability"`
	DeathWallProbability float64 `toml:"death_wall_probability"`
}

// LevelSpec describes one level. Zero Size and nil probabilities inherit
// from [Defaults]. Seed 0 picks a random seed at generation time.
type LevelSpec struct {
	Name                 string   `toml:"name"`
	Size                 int      `toml:"size"`
	Seed                 uint64   `toml:"seed"`
	FloorHoleProbability *float64 `toml:"floor_hole_probability"`
	DeathWallProbability *float64 `toml:"death_wall_probability"`
	Next                 string   `toml:"next"`
}

// Load reads and validates the campaign file at path.
func Load(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mazeerrors.Wrap(mazeerrors.ErrCodeFileNotFound, err, "campaign file %s", path)
	}
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates campaign TOML.
func Parse(data []byte) (*Campaign, error) {
	var c Campaign
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, mazeerrors.Wrap(mazeerrors.ErrCodeInvalidConfiguration, err, "decode campaign")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks level names, sizes, probabilities, and next references.
func (c *Campaign) Validate() error {
	if len(c.Levels) == 0 {
		return mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration, "campaign has no levels")
	}

	seen := make(map[string]bool, len(c.Levels))
	for i, l := range c.Levels {
		if l.Name == "" {
			return mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration, "level %d has no name", i+1)
		}
		if err := mazeerrors.ValidateLevelName(l.Name); err != nil {
			return err
		}
		if seen[l.Name] {
			return mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration, "duplicate level %q", l.Name)
		}
		seen[l.Name] = true
	}

	for _, l := range c.Levels {
		if l.Next != "" && !seen[l.Next] {
			return mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration, "level %q: next level %q does not exist", l.Name, l.Next)
		}
		if err := c.Options(l).Validate(); err != nil {
			return fmt.Errorf("level %q: %w", l.Name, err)
		}
	}
	return nil
}

// Level returns the level named name.
func (c *Campaign) Level(name string) (LevelSpec, bool) {
	i := slices.IndexFunc(c.Levels, func(l LevelSpec) bool { return l.Name == name })
	if i < 0 {
		return LevelSpec{}, false
	}
	return c.Levels[i], true
}

// Options resolves l against the campaign defaults.
func (c *Campaign) Options(l LevelSpec) maze.Options {
	opts := maze.Options{
		Size:                 l.Size,
		Seed:                 l.Seed,
		FloorHoleProbability: c.Defaults.FloorHoleProbability,
		DeathWallProbability: c.Defaults.DeathWallProbability,
		NextLevel:            l.Next,
	}
	if opts.Size == 0 {
		opts.Size = c.Defaults.Size
	}
	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if l.FloorHoleProbability != nil {
		opts.FloorHoleProbability = *l.FloorHoleProbability
	}
	if l.DeathWallProbability != nil {
		opts.DeathWallProbability = *l.DeathWallProbability
	}
	return opts
}

// Chain returns level names starting at from and following next links.
// It stops at the end of the chain or before revisiting a level.
func (c *Campaign) Chain(from string) []string {
	var out []string
	visited := make(map[string]bool)
	for name := from; name != "" && !visited[name]; {
		l, ok := c.Level(name)
		if !ok {
			break
		}
		visited[name] = true
		out = append(out, name)
		name = l.Next
	}
	return out
}

// First returns the name of the first declared level.
func (c *Campaign) First() string {
	if len(c.Levels) == 0 {
		return ""
	}
	return c.Levels[0].Name
}
