package dag

import (
	"errors"
	"slices"
	"strconv"
	"testing"
)

func studyGraph(t *testing.T) *DAG {
	t.Helper()
	g := New(nil)
	nodes := []Node{
		{ID: "root", Kind: NodeKindRoot},
		{ID: "a", Label: "1. e4 e5", Weight: 2, Row: 1},
		{ID: "b", Label: "2. Nf3 Nc6", Weight: 2, Row: 2},
		{ID: "c", Label: "2. Bc4", Weight: 1, Row: 2},
		{ID: "d", Label: "2...Bc5", Weight: 1, Row: 3},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	edges := []Edge{
		{From: "root", To: "a"},
		{From: "a", To: "b"},
		{From: "a", To: "c"},
		{From: "c", To: "d"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e.From, e.To, err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New(nil)

	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "x"}); err != nil {
		t.Fatalf("AddNode(x): %v", err)
	}
	if err := g.AddNode(Node{ID: "x", Label: "again"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(duplicate) = %v, want ErrDuplicateNodeID", err)
	}

	n, ok := g.Node("x")
	if !ok {
		t.Fatal("Node(x) not found")
	}
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
	if n.Label != "" {
		t.Errorf("duplicate AddNode overwrote node: label %q", n.Label)
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddNode(Node{ID: "c", Row: 1})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
		{"valid", Edge{From: "a", To: "b"}, nil},
		{"second parent", Edge{From: "c", To: "b"}, ErrMultipleParents},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge(%s->%s) = %v, want %v", tt.edge.From, tt.edge.To, err, tt.want)
			}
		})
	}

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if g.Edges()[0].Meta == nil {
		t.Error("edge Meta should be initialized")
	}
}

func TestRegistrationOrder(t *testing.T) {
	g := studyGraph(t)

	want := []string{"root", "a", "b", "c", "d"}
	if got := NodeIDs(g.Nodes()); !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
	if got := g.Children("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Children(a) = %v, want [b c]", got)
	}
	if got := NodeIDs(g.NodesInRow(2)); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("NodesInRow(2) = %v, want [b c]", got)
	}

	var targets []string
	for _, e := range g.Edges() {
		targets = append(targets, e.To)
	}
	if !slices.Equal(targets, []string{"a", "b", "c", "d"}) {
		t.Errorf("edge targets = %v", targets)
	}
}

func TestQueries(t *testing.T) {
	g := studyGraph(t)

	if r := g.Root(); r == nil || r.ID != "root" {
		t.Errorf("Root() = %v, want root", r)
	}
	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"root"}) {
		t.Errorf("Sources() = %v, want [root]", got)
	}
	if got := NodeIDs(g.Sinks()); !slices.Equal(got, []string{"b", "d"}) {
		t.Errorf("Sinks() = %v, want [b d]", got)
	}
	if got := g.TotalWeight(); got != 6 {
		t.Errorf("TotalWeight() = %d, want 6", got)
	}
	if got := g.MaxRow(); got != 3 {
		t.Errorf("MaxRow() = %d, want 3", got)
	}
	if got := g.RowCount(); got != 4 {
		t.Errorf("RowCount() = %d, want 4", got)
	}
	if got := g.OutDegree("a"); got != 2 {
		t.Errorf("OutDegree(a) = %d, want 2", got)
	}
	if got := g.InDegree("root"); got != 0 {
		t.Errorf("InDegree(root) = %d, want 0", got)
	}
	if got := g.Parents("d"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("Parents(d) = %v, want [c]", got)
	}
}

func TestEmptyGraph(t *testing.T) {
	g := New(nil)
	if g.Root() != nil {
		t.Error("Root() of empty graph should be nil")
	}
	if g.MaxRow() != 0 || g.RowCount() != 0 {
		t.Errorf("MaxRow/RowCount = %d/%d, want 0/0", g.MaxRow(), g.RowCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := studyGraph(t).Validate(); err != nil {
		t.Errorf("Validate(study) = %v", err)
	}

	skip := New(nil)
	_ = skip.AddNode(Node{ID: "a"})
	_ = skip.AddNode(Node{ID: "b", Row: 2})
	_ = skip.AddEdge(Edge{From: "a", To: "b"})
	if err := skip.Validate(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("Validate(skip) = %v, want ErrNonConsecutiveRows", err)
	}

	loop := New(nil)
	_ = loop.AddNode(Node{ID: "a"})
	_ = loop.AddEdge(Edge{From: "a", To: "a"})
	if err := loop.Validate(); err == nil {
		t.Error("Validate(self loop) = nil, want error")
	}
}

func TestDetectCyclesDeep(t *testing.T) {
	g := New(nil)
	const depth = 100000
	prev := ""
	for i := range depth {
		id := "n" + strconv.Itoa(i)
		_ = g.AddNode(Node{ID: id, Row: i})
		if prev != "" {
			_ = g.AddEdge(Edge{From: prev, To: id})
		}
		prev = id
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate(chain) = %v", err)
	}
}

func TestNodeKind(t *testing.T) {
	if NodeKindRoot.String() != "root" || NodeKindRun.String() != "run" {
		t.Errorf("String() = %q, %q", NodeKindRoot, NodeKindRun)
	}
	if !(Node{Kind: NodeKindRoot}).IsRoot() {
		t.Error("IsRoot() = false for root")
	}
}
