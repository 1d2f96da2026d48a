package pipeline

import (
	"github.com/matzehuels/studytree/pkg/dag"
	perrors "github.com/matzehuels/studytree/pkg/errors"
	"github.com/matzehuels/studytree/pkg/pgn"
	"github.com/matzehuels/studytree/pkg/study"
)

// NewIDGenerator returns the identifier generator registered under name.
func NewIDGenerator(name string) (study.IDGenerator, error) {
	switch name {
	case IDsUUID, "":
		return study.UUIDs(), nil
	case IDsCounter:
		return study.NewCounter("n"), nil
	}
	return nil, ValidateIDs(name)
}

// Build converts a game into its study graph.
func Build(g *pgn.Game, opts Options) (*dag.DAG, error) {
	ids, err := NewIDGenerator(opts.IDs)
	if err != nil {
		return nil, err
	}
	b := study.NewBuilder(
		study.WithIDs(ids),
		study.WithPalette(opts.Visual.Palette()),
	)
	d, err := b.Build(g)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "build study graph")
	}
	return d, nil
}

// statsOf fills the size fields of Stats from g.
func statsOf(g *dag.DAG, s *Stats) {
	s.Runs = max(g.NodeCount()-1, 0)
	s.Edges = g.EdgeCount()
	s.Moves = g.TotalWeight()
	s.Depth = g.MaxRow()
}

// GraphStats returns the size statistics of g. Timing fields are zero.
func GraphStats(g *dag.DAG) Stats {
	var s Stats
	statsOf(g, &s)
	return s
}
