package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/pipeline"
	"github.com/matzehuels/tiltmaze/pkg/store"
)

// renderCommand creates the render command for re-rendering a saved level.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <level.json|id>",
		Short: "Render a saved level",
		Long: `Render a saved level to one or more formats.

The argument is either a level JSON file (from 'generate -f json') or the
id or name of a level in the level store (from 'generate --save'). The
level is validated before rendering, so hand-edited files that break the
maze invariants are rejected.`,
		Example: `  tiltmaze render intro.json -f svg --solution
  tiltmaze render 3f2a… -t nodelink -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateVizType(opts.VizType); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	addRenderFlags(cmd, &opts, &formatsStr)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.ValidArgsFunction = completeLevelRefs(true)

	return cmd
}

// runRender loads the level and renders it.
func (c *CLI) runRender(ctx context.Context, ref string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", ref))
	spinner.Start()

	l, base, err := loadLevel(ctx, ref)
	if err != nil {
		spinner.StopWithError("Could not load level")
		return err
	}
	spinner.SetMessage(fmt.Sprintf("Rendering %s...", opts.VizType))

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, nil, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	written, err := c.writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		base:      base,
		output:    output,
	})
	if err != nil {
		return err
	}
	if len(written) > 0 {
		printSuccess("Rendered %s", levelTitle(l.Name, l.Seed))
		for _, path := range written {
			printFile(path)
		}
		if cacheHit {
			printDetail("all outputs from cache")
		}
	}
	return nil
}

// loadLevel reads a level from a file or, when ref is not a file, from the
// level store by id or name. The second result is a base path for outputs.
func loadLevel(ctx context.Context, ref string) (*level.Level, string, error) {
	if _, err := os.Stat(ref); err == nil {
		l, err := level.ReadFile(ref)
		if err != nil {
			return nil, "", err
		}
		return l, basePath("", ref), nil
	}
	if filepath.Ext(ref) == ".json" {
		return nil, "", fmt.Errorf("level file %s does not exist", ref)
	}

	s, err := openLevelStore()
	if err != nil {
		return nil, "", fmt.Errorf("open level store: %w", err)
	}
	defer s.Close()

	l, err := store.Resolve(ctx, s, ref)
	if err != nil {
		return nil, "", err
	}
	return l, levelBase(l.Name, l.Seed), nil
}
