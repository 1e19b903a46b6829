package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiltmaze/pkg/pipeline"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		save       bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a maze level",
		Long: `Generate a maze level and render it.

The maze is a random spanning tree over a size×size grid. Start is the
bottom-right cell and End the top-left one. Dead ends may receive a pitfall
hole (--floor-hole) or a lethal wall (--death-wall).

The same seed and options always produce the same level. With --seed 0 (the
default) a random seed is picked and printed so the level can be replayed.

A single text format is written to stdout unless -o is given. Other formats
are written next to the level name, or to -o.`,
		Example: `  tiltmaze generate --size 12 --seed 42
  tiltmaze generate --floor-hole 0.3 -f svg,json -o levels/intro
  tiltmaze generate -t nodelink -f svg --detailed --save --name intro`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateVizType(opts.VizType); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, output, noCache, save)
		},
	}

	addGenerateFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &formatsStr)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&save, "save", false, "save the level to the level store")

	return cmd
}

// runGenerate generates, renders, and writes one level.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache, save bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d×%d maze...", opts.Size, opts.Size))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	written, err := c.writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		base:      levelBase(opts.Name, result.Level.Seed),
		output:    output,
	})
	if err != nil {
		return err
	}

	if len(written) > 0 {
		printSuccess("Generated %s", levelTitle(result.Level.Name, result.Level.Seed))
		for _, path := range written {
			printFile(path)
		}
		printStats(result.Stats.Maze, result.Level.Seed, result.CacheInfo.GenerateHit)
	}

	if save {
		s, err := openLevelStore()
		if err != nil {
			return fmt.Errorf("open level store: %w", err)
		}
		defer s.Close()
		if err := s.Save(ctx, result.Level); err != nil {
			return fmt.Errorf("save level: %w", err)
		}
		printSuccess("Saved level %s", StyleHighlight.Render(result.Level.ID))
		printNextStep("Play it", appName+" play "+result.Level.ID)
	}
	return nil
}
