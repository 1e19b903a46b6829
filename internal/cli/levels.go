package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/render/text"
	"github.com/matzehuels/tiltmaze/pkg/store"
)

// levelsCommand creates the level store management command.
func (c *CLI) levelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Manage saved levels",
		Long: `Manage levels saved with 'generate --save'.

Levels are stored as JSON files under ~/.local/share/tiltmaze/levels
($XDG_DATA_HOME is honored). Commands that take a level accept its id or
its name; a name refers to the newest level with that name.`,
	}

	cmd.AddCommand(c.levelsListCommand())
	cmd.AddCommand(c.levelsShowCommand())
	cmd.AddCommand(c.levelsDeleteCommand())

	return cmd
}

// levelsListCommand creates the "levels list" subcommand.
func (c *CLI) levelsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved levels, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openLevelStore()
			if err != nil {
				return fmt.Errorf("open level store: %w", err)
			}
			defer s.Close()

			summaries, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printInfo("No saved levels")
				printNextStep("Save one", appName+" generate --save --name intro")
				return nil
			}
			fmt.Fprintln(c.out, levelTable(summaries, time.Now()))
			return nil
		},
	}
}

// levelsShowCommand creates the "levels show" subcommand.
func (c *CLI) levelsShowCommand() *cobra.Command {
	var (
		asJSON   bool
		solution bool
	)
	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a saved level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := resolveStored(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return level.Write(l, c.out)
			}

			m, err := l.ToMaze()
			if err != nil {
				return err
			}
			printKeyValue("ID", l.ID)
			if l.Name != "" {
				printKeyValue("Name", l.Name)
			}
			printKeyValue("Size", strconv.Itoa(l.Size))
			printKeyValue("Seed", strconv.FormatUint(l.Seed, 10))
			if l.NextLevel != "" {
				printKeyValue("Next", l.NextLevel)
			}
			printKeyValue("Created", l.CreatedAt.Local().Format(time.DateTime))
			printStats(m.Stats(), l.Seed, false)
			printNewline()

			var opts []text.Option
			if solution {
				opts = append(opts, text.WithSolution())
			}
			_, err = c.out.Write(text.Render(m, opts...))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the level document as JSON")
	cmd.Flags().BoolVar(&solution, "solution", false, "mark the path from start to end")
	cmd.ValidArgsFunction = completeLevelRefs(false)
	return cmd
}

// levelsDeleteCommand creates the "levels delete" subcommand.
func (c *CLI) levelsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <id|name>",
		Aliases:           []string{"rm"},
		Short:             "Delete a saved level",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLevelRefs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openLevelStore()
			if err != nil {
				return fmt.Errorf("open level store: %w", err)
			}
			defer s.Close()

			l, err := store.Resolve(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			if err := s.Delete(cmd.Context(), l.ID); err != nil {
				return err
			}
			printSuccess("Deleted %s (%s)", levelTitle(l.Name, l.Seed), l.ID)
			return nil
		},
	}
}

// resolveStored loads a level from the file store by id or name.
func resolveStored(ctx context.Context, ref string) (*level.Level, error) {
	s, err := openLevelStore()
	if err != nil {
		return nil, fmt.Errorf("open level store: %w", err)
	}
	defer s.Close()
	return store.Resolve(ctx, s, ref)
}

// levelTable renders summaries as a bordered table.
func levelTable(summaries []level.Summary, now time.Time) string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		name := s.Name
		if name == "" {
			name = "-"
		}
		next := s.NextLevel
		if next == "" {
			next = "-"
		}
		rows[i] = []string{s.ID, name, strconv.Itoa(s.Size), strconv.FormatUint(s.Seed, 10), next, formatRelativeTime(s.CreatedAt, now)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Size", "Seed", "Next", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorGreen)
			case col == 0 || col == 5:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
