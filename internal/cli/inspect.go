package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/studytree/pkg/dag"
	perrors "github.com/matzehuels/studytree/pkg/errors"
	"github.com/matzehuels/studytree/pkg/graph"
	"github.com/matzehuels/studytree/pkg/pipeline"
)

// maxLabelWidth truncates long runs in the inspect table.
const maxLabelWidth = 60

type inspectOpts struct {
	game    int
	ids     string
	noCache bool
}

// inspectCommand creates the inspect command, which prints the runs of a
// study without writing any file.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{game: pipeline.DefaultGame, ids: pipeline.DefaultIDs}

	cmd := &cobra.Command{
		Use:   "inspect [study.pgn|graph.json]",
		Short: "Print the runs of a study as a table",
		Long: `Print the runs of a study as a table.

The input is either a PGN file or a graph exported with --format json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.game, "game", opts.game, "game to inspect from a multi-game file (1-based)")
	cmd.Flags().StringVar(&opts.ids, "ids", opts.ids, "node identifiers: uuid or counter")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts inspectOpts) error {
	g, cached, err := c.loadGraph(ctx, input, opts)
	if err != nil {
		return err
	}

	if name, ok := g.Meta()["name"].(string); ok && name != "" {
		printKeyValue("Study", name)
	}
	if result, ok := g.Meta()["Result"].(string); ok && result != "" {
		printKeyValue("Result", result)
	}
	fmt.Println(runTable(g))
	printStats(pipeline.GraphStats(g), cached)
	return nil
}

// loadGraph reads an exported graph or builds one from a PGN file.
func (c *CLI) loadGraph(ctx context.Context, input string, opts inspectOpts) (*dag.DAG, bool, error) {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		g, err := graph.ReadGraphFile(input)
		if err != nil {
			return nil, false, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read graph %s", input)
		}
		return g, false, nil
	}

	logger := c.Logger
	if !c.Verbose() {
		logger = quietLogger(c.Logger)
	}
	runner, err := c.newRunner(opts.noCache, logger)
	if err != nil {
		return nil, false, err
	}
	defer runner.Close()

	result, err := runner.Prepare(ctx, pipeline.Options{
		Input:  input,
		Game:   opts.game,
		IDs:    opts.ids,
		Logger: logger,
	})
	if err != nil {
		return nil, false, err
	}
	return result.Graph, result.CacheInfo.GraphHit, nil
}

// runTable renders one row per run in registration order. The start of the
// study is left out.
func runTable(g *dag.DAG) string {
	var rows [][]string
	for _, n := range g.Nodes() {
		if n.IsRoot() {
			continue
		}
		rows = append(rows, []string{
			n.ID,
			strconv.Itoa(n.Row),
			strconv.Itoa(n.Weight),
			strconv.Itoa(g.OutDegree(n.ID)),
			truncate(n.Label, maxLabelWidth),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Depth", "Moves", "Branches", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return tableHeaderStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			case col == 4:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorCyan)
		}).
		Render()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
