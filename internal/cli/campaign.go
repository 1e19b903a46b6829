package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiltmaze/pkg/config"
	"github.com/matzehuels/tiltmaze/pkg/pipeline"
)

// campaignCommand creates the campaign command.
func (c *CLI) campaignCommand() *cobra.Command {
	var (
		formatsStr string
		outDir     string
		start      string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "campaign <levels.toml>",
		Short: "Generate every level of a campaign",
		Long: `Generate every level of a campaign file.

A campaign is a TOML file of named levels linked by 'next'. Each level is
written to <dir>/<name>.<format>; JSON is always included so the levels can
be played or re-rendered later.

With --level, generation starts at that level and follows the next chain
instead of generating every declared level.`,
		Example: `  tiltmaze campaign campaign.toml
  tiltmaze campaign campaign.toml --level caves -f json,svg -o build/levels`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if !slices.Contains(opts.Formats, pipeline.FormatJSON) {
				opts.Formats = append(opts.Formats, pipeline.FormatJSON)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateVizType(opts.VizType); err != nil {
				return err
			}
			return c.runCampaign(cmd.Context(), args[0], start, outDir, opts, noCache)
		},
	}

	addRenderFlags(cmd, &opts, &formatsStr)
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (default: campaign file name)")
	cmd.Flags().StringVar(&start, "level", "", "generate only this level and the levels after it")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runCampaign generates the selected campaign levels in order.
func (c *CLI) runCampaign(ctx context.Context, path, start, outDir string, opts pipeline.Options, noCache bool) error {
	campaign, err := config.Load(path)
	if err != nil {
		return err
	}

	names, err := campaignLevels(campaign, start)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = strings.TrimSuffix(path, filepath.Ext(path))
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	for i, name := range names {
		entry, _ := campaign.Level(name)
		levelOpts := campaignOptions(campaign, entry, opts)
		levelOpts.Logger = c.Logger

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %s (%d/%d)...", name, i+1, len(names)))
		spinner.Start()
		result, err := runner.Execute(ctx, levelOpts)
		if err != nil {
			spinner.StopWithError("Generation failed")
			return fmt.Errorf("level %q: %w", name, err)
		}
		spinner.Stop()

		written, err := c.writeArtifacts(artifactWriteParams{
			artifacts: result.Artifacts,
			formats:   levelOpts.Formats,
			base:      filepath.Join(outDir, name),
			noStdout:  true,
		})
		if err != nil {
			return fmt.Errorf("level %q: %w", name, err)
		}

		printSuccess("Generated %s", levelTitle(name, result.Level.Seed))
		for _, p := range written {
			printFile(p)
		}
		printStats(result.Stats.Maze, result.Level.Seed, result.CacheInfo.GenerateHit)
		if entry.Seed == 0 {
			printWarning("%s has no fixed seed; pin seed = %d to reproduce it", name, result.Level.Seed)
		}
	}
	prog.done(fmt.Sprintf("Generated %d levels into %s", len(names), outDir))
	return nil
}

// campaignLevels returns the levels to generate: every declared level, or
// the next chain starting at start.
func campaignLevels(c *config.Campaign, start string) ([]string, error) {
	if start == "" {
		names := make([]string, len(c.Levels))
		for i, l := range c.Levels {
			names[i] = l.Name
		}
		return names, nil
	}
	if _, ok := c.Level(start); !ok {
		return nil, fmt.Errorf("campaign has no level %q", start)
	}
	return c.Chain(start), nil
}

// campaignOptions resolves a campaign level into pipeline options, keeping
// the render settings from base.
func campaignOptions(c *config.Campaign, entry config.LevelSpec, base pipeline.Options) pipeline.Options {
	m := c.Options(entry)
	opts := base
	opts.Formats = slices.Clone(base.Formats)
	opts.Name = entry.Name
	opts.Size = m.Size
	opts.Seed = m.Seed
	opts.FloorHoleProbability = m.FloorHoleProbability
	opts.DeathWallProbability = m.DeathWallProbability
	opts.NextLevel = m.NextLevel
	opts.Palette = c.Palette
	return opts
}
