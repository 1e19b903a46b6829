package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tiltmaze/pkg/config"
	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/maze/hazard"
	"github.com/matzehuels/tiltmaze/pkg/maze/walls"
	"github.com/matzehuels/tiltmaze/pkg/pipeline"
	"github.com/matzehuels/tiltmaze/pkg/render/text"
)

// Play styles
var (
	ballStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	boardStyle  = lipgloss.NewStyle().Foreground(colorGray)
	lethalStyle = lipgloss.NewStyle().Foreground(colorRed)
	holeStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	finishStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

const ballGlyph = "●"

// =============================================================================
// Command
// =============================================================================

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		campaignPath string
		start        string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "play [level.json|id]",
		Short: "Play a level in the terminal",
		Long: `Play a level in the terminal.

Roll the ball with the arrow keys (or hjkl / wasd) from S to E. Falling into
a hole (O) or rolling into a lethal wall (#) restarts the level. Reaching E
loads the next level when the level names one.

Without an argument a level is generated from the flags, or from the
campaign given with --campaign. Next levels come from the campaign, or from
the level store when no campaign is given.`,
		Example: `  tiltmaze play
  tiltmaze play intro.json
  tiltmaze play --campaign campaign.toml --level caves
  tiltmaze play --size 8 --floor-hole 0.5 --death-wall 0.5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return c.runPlay(cmd.Context(), ref, campaignPath, start, opts)
		},
	}

	addGenerateFlags(cmd, &opts)
	cmd.Flags().StringVar(&campaignPath, "campaign", "", "campaign file used for the first and next levels")
	cmd.Flags().StringVar(&start, "level", "", "campaign level to start at (default: first declared)")
	cmd.ValidArgsFunction = completeLevelRefs(true)

	return cmd
}

// runPlay picks the first level and runs the game until the player quits.
func (c *CLI) runPlay(ctx context.Context, ref, campaignPath, start string, opts pipeline.Options) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var campaign *config.Campaign
	if campaignPath != "" {
		if campaign, err = config.Load(campaignPath); err != nil {
			return err
		}
	}

	next := func(name string) (*level.Level, error) {
		if campaign == nil {
			return resolveStored(ctx, name)
		}
		entry, ok := campaign.Level(name)
		if !ok {
			return nil, fmt.Errorf("campaign has no level %q", name)
		}
		l, _, err := runner.Generate(ctx, campaignOptions(campaign, entry, pipeline.Options{Logger: c.Logger}))
		return l, err
	}

	var first *level.Level
	switch {
	case ref != "":
		first, _, err = loadLevel(ctx, ref)
	case campaign != nil:
		if start == "" {
			start = campaign.First()
		}
		first, err = next(start)
	default:
		opts.Logger = c.Logger
		first, _, err = runner.Generate(ctx, opts)
	}
	if err != nil {
		return err
	}

	model, err := newPlayModel(first, next)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}
	if m, ok := final.(playModel); ok {
		printInfo("Cleared %d level(s) with %d restart(s)", m.cleared, m.restarts)
	}
	return nil
}

// =============================================================================
// Game - ball movement and hazard collisions
// =============================================================================

// game is one level in play.
type game struct {
	level *level.Level
	maze  *maze.Maze
	ball  maze.Coord
}

func newGame(l *level.Level) (*game, error) {
	m, err := l.ToMaze()
	if err != nil {
		return nil, err
	}
	return &game{level: l, maze: m, ball: m.Start}, nil
}

// reset puts the ball back on Start.
func (g *game) reset() { g.ball = g.maze.Start }

// move rolls the ball one cell toward side s. It reports the event the move
// triggered; a blocked move triggers nothing. Rolling into a wall is lethal
// when the wall is armed by either cell that shares it.
func (g *game) move(s walls.Side) (level.Event, bool) {
	cur := g.maze.Cell(g.ball.Row, g.ball.Col)
	dr, dc := s.Delta()
	row, col := g.ball.Row+dr, g.ball.Col+dc

	if cur.Walls.Has(s) {
		if armed(cur, s) || (g.maze.InBounds(row, col) && armed(g.maze.Cell(row, col), s.Opposite())) {
			return level.TouchLethalWall, true
		}
		return 0, false
	}

	g.ball = maze.Coord{Row: row, Col: col}
	next := g.maze.Cell(row, col)
	switch {
	case next.Hazard.Kind == hazard.PitfallHole:
		return level.FallInHole, true
	case next.IsEnd:
		return level.ReachEnd, true
	}
	return 0, false
}

func armed(c *maze.Cell, s walls.Side) bool {
	return c.Hazard.Kind == hazard.LethalWall && c.Hazard.Side == s
}

// =============================================================================
// playModel - bubbletea front end
// =============================================================================

// levelLoadedMsg carries the result of loading the next level.
type levelLoadedMsg struct {
	level *level.Level
	err   error
}

// playModel is the bubbletea model for the play command.
type playModel struct {
	game *game
	next func(name string) (*level.Level, error)

	status   string
	finished bool // End reached with no next level
	loading  bool

	cleared  int
	restarts int
}

func newPlayModel(l *level.Level, next func(string) (*level.Level, error)) (playModel, error) {
	g, err := newGame(l)
	if err != nil {
		return playModel{}, err
	}
	return playModel{game: g, next: next, status: "Roll to " + finishStyle.Render("E")}, nil
}

var keySides = map[string]walls.Side{
	"left": walls.Left, "h": walls.Left, "a": walls.Left,
	"right": walls.Right, "l": walls.Right, "d": walls.Right,
	"up": walls.Top, "k": walls.Top, "w": walls.Top,
	"down": walls.Bottom, "j": walls.Bottom, "s": walls.Bottom,
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.loading {
				m.game.reset()
				m.finished = false
				m.status = "Restarted"
			}
			return m, nil
		}
		side, ok := keySides[key]
		if !ok || m.loading || m.finished {
			return m, nil
		}
		if event, hit := m.game.move(side); hit {
			return m.apply(event)
		}
	case levelLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.finished = true
			m.status = lethalStyle.Render("Could not load next level: " + msg.err.Error())
			return m, nil
		}
		g, err := newGame(msg.level)
		if err != nil {
			m.finished = true
			m.status = lethalStyle.Render("Next level is invalid: " + err.Error())
			return m, nil
		}
		m.game = g
		m.status = "Entered " + levelTitle(msg.level.Name, msg.level.Seed)
	}
	return m, nil
}

// apply performs the scene change for event.
func (m playModel) apply(event level.Event) (tea.Model, tea.Cmd) {
	outcome := level.Transition(m.game.level, event)
	switch outcome.Action {
	case level.ReloadCurrent:
		m.restarts++
		m.game.reset()
		if event == level.FallInHole {
			m.status = holeStyle.Render("Fell into a hole.") + " Back to start."
		} else {
			m.status = lethalStyle.Render("Touched a lethal wall.") + " Back to start."
		}
	case level.Advance:
		m.cleared++
		m.loading = true
		m.status = "Loading " + outcome.Next + "..."
		name, next := outcome.Next, m.next
		return m, func() tea.Msg {
			l, err := next(name)
			return levelLoadedMsg{level: l, err: err}
		}
	case level.Stay:
		m.cleared++
		m.finished = true
		m.status = finishStyle.Render("Level complete!") + " Press q to quit or r to replay."
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder

	l := m.game.level
	title := "Tiltmaze"
	if l.Name != "" {
		title += " · " + l.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d×%d  seed %d", l.Size, l.Size, l.Seed)))
	b.WriteString("\n\n")
	b.WriteString(m.board())
	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("←↑↓→/hjkl move  r restart  q quit"))
	b.WriteString(helpStyle.Render(fmt.Sprintf("   cleared %d  restarts %d", m.cleared, m.restarts)))
	b.WriteString("\n")
	return b.String()
}

// board draws the maze with the ball on it.
func (m playModel) board() string {
	g := m.game
	lines := strings.Split(strings.TrimRight(string(text.Render(g.maze)), "\n"), "\n")

	var b strings.Builder
	for i, line := range lines {
		ballCol := -1
		if i == 2*g.ball.Row+1 {
			ballCol = 4*g.ball.Col + 2
		}
		for j := 0; j < len(line); j++ {
			ch := line[j : j+1]
			switch {
			case j == ballCol:
				b.WriteString(ballStyle.Render(ballGlyph))
			case ch == "#":
				b.WriteString(lethalStyle.Render(ch))
			case ch == "O":
				b.WriteString(holeStyle.Render(ch))
			case ch == "E":
				b.WriteString(finishStyle.Render(ch))
			default:
				b.WriteString(boardStyle.Render(ch))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
