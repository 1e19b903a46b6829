// Package pipeline runs level generation and rendering for every entry point.
//
// The CLI, the campaign builder and the HTTP API all go through a [Runner],
// so defaults, validation and caching behave the same everywhere.
//
// # Stages
//
//  1. Generate: build a maze from size, seed and hazard probabilities and
//     wrap it as a [level.Level] document
//  2. Render: produce artifacts (txt, tree, json, dot, svg, png, pdf)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Size:    12,
//	    Seed:    42,
//	    Formats: []string{"txt", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(string(result.Artifacts["txt"]))
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tiltmaze/pkg/cache"
	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/maze"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Campaigns
// =============================================================================

const (
	// DefaultSize is the maze edge length when none is given.
	DefaultSize = 10

	// DefaultFloorHoleProbability and DefaultDeathWallProbability disable
	// hazards unless asked for.
	DefaultFloorHoleProbability = 0.0
	DefaultDeathWallProbability = 0.0

	// DefaultPNGScale is the rsvg-convert zoom for PNG output.
	DefaultPNGScale = 2.0

	// MaxCellSize bounds the floorplan tile edge in pixels.
	MaxCellSize = 512.0
)

// Visualization types.
const (
	VizTypeFloorplan = "floorplan"
	VizTypeNodelink  = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeFloorplan

// Output formats.
const (
	FormatTXT  = "txt"
	FormatTree = "tree"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{FormatTXT}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTXT:  true,
	FormatTree: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeFloorplan: true,
	VizTypeNodelink:  true,
}

// contentTypes maps formats to MIME types for HTTP responses.
var contentTypes = map[string]string{
	FormatTXT:  "text/plain; charset=utf-8",
	FormatTree: "text/plain; charset=utf-8",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It is also the JSON body of
// POST /v1/levels.
type Options struct {
	// Generate options
	Name                 string        `json:"name,omitempty"`
	Size                 int           `json:"size,omitempty"`
	Seed                 uint64        `json:"seed,omitempty"` // 0 picks a random seed
	FloorHoleProbability float64       `json:"floor_hole_probability,omitempty"`
	DeathWallProbability float64       `json:"death_wall_probability,omitempty"`
	NextLevel            string        `json:"next_level,omitempty"`
	Palette              level.Palette `json:"palette,omitzero"`
	Refresh              bool          `json:"refresh,omitempty"`

	// Render options
	VizType  string   `json:"viz_type,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Solution bool     `json:"solution,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // nodelink: label cells with their tile
	CellSize float64  `json:"cell_size,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Level *level.Level
	Maze  *maze.Maze

	// LevelHash is the content hash of the level document.
	LevelHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and maze statistics.
type Stats struct {
	Maze         maze.Stats
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	GenerateHit bool
	RenderHit   bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return mazeerrors.New(mazeerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: txt, tree, json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return mazeerrors.New(mazeerrors.ErrCodeInvalidVizType,
			"invalid viz_type: %q (must be one of: floorplan, nodelink)", vizType)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetGenerateDefaults sets default values for generation.
func (o *Options) SetGenerateDefaults() {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForGenerate applies generation defaults and validates the inputs.
func (o *Options) ValidateForGenerate() error {
	o.SetGenerateDefaults()
	if err := mazeerrors.ValidateSize(o.Size); err != nil {
		return err
	}
	if err := mazeerrors.ValidateProbability("floor_hole_probability", o.FloorHoleProbability); err != nil {
		return err
	}
	if err := mazeerrors.ValidateProbability("death_wall_probability", o.DeathWallProbability); err != nil {
		return err
	}
	if err := mazeerrors.ValidateLevelName(o.Name); err != nil {
		return err
	}
	return mazeerrors.ValidateLevelName(o.NextLevel)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies render defaults and validates them.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if math.IsNaN(o.CellSize) || o.CellSize < 0 || o.CellSize > MaxCellSize {
		return mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration,
			"cell_size must be between 0 and %g, got %g", MaxCellSize, o.CellSize)
	}
	return ValidateFormats(o.Formats)
}

// IsNodelink reports whether the graph view is selected.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// MazeOptions returns the generator options.
func (o *Options) MazeOptions() maze.Options {
	return maze.Options{
		Size:                 o.Size,
		Seed:                 o.Seed,
		FloorHoleProbability: o.FloorHoleProbability,
		DeathWallProbability: o.DeathWallProbability,
		NextLevel:            o.NextLevel,
	}
}

// LevelKeyOpts returns cache key options for generation.
func (o *Options) LevelKeyOpts() cache.LevelKeyOpts {
	return cache.LevelKeyOpts{
		Size:                 o.Size,
		Seed:                 o.Seed,
		FloorHoleProbability: o.FloorHoleProbability,
		DeathWallProbability: o.DeathWallProbability,
		NextLevel:            o.NextLevel,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, VizType: o.VizType}
	switch format {
	case FormatJSON, FormatTree:
		k.VizType = ""
	case FormatTXT:
		k.VizType, k.Solution = "", o.Solution
	case FormatDOT:
		k.VizType, k.Detailed = VizTypeNodelink, o.Detailed
	default:
		if o.IsNodelink() {
			k.Detailed = o.Detailed
		} else {
			k.Solution, k.CellSize = o.Solution, o.CellSize
		}
	}
	return k
}
