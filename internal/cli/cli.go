// Package cli implements the tiltmaze command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tiltmaze/pkg/buildinfo"
	"github.com/matzehuels/tiltmaze/pkg/cache"
	"github.com/matzehuels/tiltmaze/pkg/pipeline"
	"github.com/matzehuels/tiltmaze/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tiltmaze"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives command results (maze text, listings). Status lines from
	// the ui helpers always go to stdout.
	out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Tiltmaze generates tilt-maze levels",
		Long: `Tiltmaze generates perfect mazes for tilt-the-board ball games.

Each level is a spanning tree over a square grid, dressed with tile
prototypes, a start and an end marker, and optional hazards (pitfall
holes and lethal walls) on dead ends. Levels render to text, SVG, PNG,
PDF, and Graphviz, can be chained into campaigns, served over HTTP, or
played right in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.campaignCommand())
	root.AddCommand(c.levelsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openLevelStore opens the file-backed level store under levelsDir.
func openLevelStore() (*store.FileStore, error) {
	dir, err := levelsDir()
	if err != nil {
		return nil, err
	}
	return store.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tiltmaze/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// levelsDir returns the saved level directory (~/.local/share/tiltmaze/levels/).
func levelsDir() (string, error) {
	return store.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// addGenerateFlags binds the maze generation flags shared by generate and play.
func addGenerateFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVar(&opts.Size, "size", pipeline.DefaultSize, "maze edge length in cells")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().Float64Var(&opts.FloorHoleProbability, "floor-hole", pipeline.DefaultFloorHoleProbability, "probability of a pitfall hole on a dead end")
	cmd.Flags().Float64Var(&opts.DeathWallProbability, "death-wall", pipeline.DefaultDeathWallProbability, "probability of a lethal wall on a dead end")
	cmd.Flags().StringVar(&opts.NextLevel, "next", "", "level loaded after the end is reached")
	cmd.Flags().StringVar(&opts.Name, "name", "", "level name")
}

// addRenderFlags binds the output flags shared by generate, render, and campaign.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options, formats *string) {
	cmd.Flags().StringVarP(formats, "format", "f", "", "output format(s): txt (default), json, tree, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", pipeline.DefaultVizType, "visualization type: floorplan, nodelink")
	cmd.Flags().BoolVar(&opts.Solution, "solution", false, "mark the path from start to end")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodelink cells with their tile")
	cmd.Flags().Float64Var(&opts.CellSize, "cell-size", 0, "floorplan cell size in pixels (0 uses the default)")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if formats := pipeline.ParseFormats(s); len(formats) > 0 {
		return formats
	}
	return append([]string(nil), pipeline.DefaultFormats...)
}
