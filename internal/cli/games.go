package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/studytree/pkg/pgn"
	"github.com/matzehuels/studytree/pkg/pipeline"
)

// gamesCommand creates the games command, which lists the games of a PGN
// file so that one can be chosen with --game.
func (c *CLI) gamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "games [study.pgn]",
		Short: "List the games of a PGN file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pipeline.ReadSource(args[0])
			if err != nil {
				return err
			}
			games, err := pipeline.Parse(src, args[0])
			if err != nil {
				return err
			}
			c.Logger.Debug("listed games", "source", args[0], "games", len(games))

			fmt.Println(gamesTable(games))
			printNextStep("Render a game", fmt.Sprintf("%s render %s --game N", appName, args[0]))
			return nil
		},
	}
}

// gamesTable renders games as a bordered table.
func gamesTable(games []*pgn.Game) string {
	rows := make([][]string, len(games))
	for i, g := range games {
		rows[i] = gameRow(i+1, g)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(gameHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 0 || col == len(gameHeaders)-1 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
