package study

import (
	"fmt"

	"github.com/matzehuels/studytree/pkg/dag"
	"github.com/matzehuels/studytree/pkg/pgn"
)

// Sink receives the nodes and edges of a study graph. Each node is added
// exactly once, and an edge is added only after both of its endpoints.
// *dag.DAG implements Sink.
type Sink interface {
	AddNode(dag.Node) error
	AddEdge(dag.Edge) error
}

var _ Sink = (*dag.DAG)(nil)

// Metadata keys set on run nodes.
const (
	MetaFirstPly = "first_ply" // ply of the run's first move
	MetaLastPly  = "last_ply"  // ply of the run's last move
	MetaComments = "comments"  // number of commented moves
	MetaBranches = "branches"  // number of lines continuing the run
	MetaIntro    = "intro"     // comment written before the line's first move
)

// Option configures a Builder.
type Option func(*Builder)

// WithIDs sets the identifier generator. The default is NewCounter("n").
func WithIDs(ids IDGenerator) Option {
	return func(b *Builder) { b.ids = ids }
}

// WithPalette overrides the accent colors of annotated moves.
func WithPalette(p Palette) Option {
	return func(b *Builder) { b.palette = p }
}

// Builder turns a game's move tree into a graph of runs.
//
// A Builder is not safe for concurrent use; its identifier generator is
// shared by every build it performs.
type Builder struct {
	ids     IDGenerator
	palette Palette
}

// NewBuilder returns a Builder configured with opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.ids == nil {
		b.ids = NewCounter("n")
	}
	return b
}

// Build converts a game into a new graph. The graph always starts with a
// sentinel node of kind dag.NodeKindRoot with an empty label; a game
// without moves yields the sentinel alone. The sentinel's title is the
// comment written before the first move.
func (b *Builder) Build(g *pgn.Game) (*dag.DAG, error) {
	d := dag.New(gameMeta(g))

	root := dag.Node{
		ID:   b.ids.NextID(),
		Kind: dag.NodeKindRoot,
	}
	if g.Root != nil {
		root.Title = g.Root.Comment
	}
	if err := d.AddNode(root); err != nil {
		return nil, fmt.Errorf("add root: %w", err)
	}

	// The starting position is the first branch point: alternatives to the
	// first move hang off the sentinel next to the main line.
	var starts []*pgn.Position
	if g.Root != nil {
		starts = g.Root.Variations
	}
	for _, start := range starts {
		if err := b.BuildFrom(d, start, root.ID, root.Row); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// frame is a pending subtree: the position its run starts at and the node
// it hangs from.
type frame struct {
	start    *pgn.Position
	parentID string
	row      int
}

// BuildFrom adds the runs of the subtree starting at start to sink. The
// first run is attached to parentID unless parentID is empty; row is the
// depth of parentID. Runs are registered in pre-order, and the children of
// every branch point in the order of its variations.
func (b *Builder) BuildFrom(sink Sink, start *pgn.Position, parentID string, row int) error {
	if start == nil {
		return nil
	}

	stack := []frame{{start: start, parentID: parentID, row: row}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id, run, err := b.addRun(sink, f)
		if err != nil {
			return err
		}

		next := run.Continuations()
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, frame{start: next[i], parentID: id, row: f.row + 1})
		}
	}
	return nil
}

func (b *Builder) addRun(sink Sink, f frame) (string, Run, error) {
	run := Compact(f.start)
	first, last := run.First(), run.Last()
	color := b.palette.Color(AnnotationOf(first))

	n := dag.Node{
		ID:     b.ids.NextID(),
		Label:  Label(run),
		Title:  Title(run),
		Weight: len(run),
		Row:    f.row + 1,
		Color:  color,
		Kind:   dag.NodeKindRun,
		Meta: dag.Metadata{
			MetaFirstPly: first.Ply,
			MetaLastPly:  last.Ply,
			MetaComments: run.Comments(),
			MetaBranches: len(last.Variations),
		},
	}
	if first.StartingComment != "" {
		n.Meta[MetaIntro] = first.StartingComment
	}
	if err := sink.AddNode(n); err != nil {
		return "", nil, fmt.Errorf("add run %q: %w", n.Label, err)
	}

	if f.parentID != "" {
		e := dag.Edge{
			From:  f.parentID,
			To:    n.ID,
			Label: entry(first, true),
			Color: color,
		}
		if err := sink.AddEdge(e); err != nil {
			return "", nil, fmt.Errorf("link run %q: %w", n.Label, err)
		}
	}
	return n.ID, run, nil
}

// Build converts a game with a default Builder.
func Build(g *pgn.Game) (*dag.DAG, error) {
	return NewBuilder().Build(g)
}

func gameMeta(g *pgn.Game) dag.Metadata {
	meta := dag.Metadata{"name": g.Name()}
	for _, tag := range g.Tags {
		meta[tag.Name] = tag.Value
	}
	if g.Result != "" {
		meta["Result"] = g.Result
	}
	return meta
}
