package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/studytree/pkg/pgn"
	"github.com/matzehuels/studytree/pkg/pipeline"
)

// List styles
var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// GameListModel - Interactive game selection
// =============================================================================

// GameListModel is the bubbletea model for choosing a game of a multi-game
// PGN file.
type GameListModel struct {
	Games    []*pgn.Game
	Cursor   int
	Selected int // 1-based index of the chosen game, 0 until enter
	Height   int
	Offset   int
}

// NewGameListModel creates a new game list model.
func NewGameListModel(games []*pgn.Game) GameListModel {
	return GameListModel{
		Games:  games,
		Height: 15,
	}
}

func (m GameListModel) Init() tea.Cmd {
	return nil
}

func (m GameListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Games)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Games) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Cursor + 1
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m GameListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Game"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Games))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, gameRow(i+1, m.Games[i])...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, gameHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Games))))

	return b.String()
}

// pickGame lets the user choose a game of input and returns its 1-based
// index, or 0 if the selection was aborted. A single-game file needs no
// choice.
func (c *CLI) pickGame(input string) (int, error) {
	src, err := pipeline.ReadSource(input)
	if err != nil {
		return 0, err
	}
	games, err := pipeline.Parse(src, input)
	if err != nil {
		return 0, err
	}
	if len(games) == 1 {
		return 1, nil
	}

	final, err := tea.NewProgram(NewGameListModel(games)).Run()
	if err != nil {
		return 0, fmt.Errorf("game picker: %w", err)
	}
	return final.(GameListModel).Selected, nil
}

// =============================================================================
// Game Rows
// =============================================================================

var gameHeaders = []string{"#", "Event", "White", "Black", "Result", "Plies"}

// gameRow returns the table cells describing game number n.
func gameRow(n int, g *pgn.Game) []string {
	return []string{
		strconv.Itoa(n),
		tagOrDash(g.Tags.Get("Event")),
		tagOrDash(g.Tags.Get("White")),
		tagOrDash(g.Tags.Get("Black")),
		tagOrDash(g.Result),
		strconv.Itoa(g.MainlinePlies()),
	}
}

func tagOrDash(s string) string {
	if s == "" || s == "?" {
		return "—"
	}
	return s
}
