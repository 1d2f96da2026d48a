package graph

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/matzehuels/studytree/pkg/dag"
)

// =============================================================================
// Constants
// =============================================================================

// Node kinds as they appear in serialized graphs.
const (
	KindRun  = "run"
	KindRoot = "root"
)

// =============================================================================
// Graph - Study Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for study graphs.
// It is written by the json output format and read back by the inspect
// command, so that a rendered study can be examined without the PGN.
//
// Nodes and edges keep the order in which the builder registered them:
// import → export → re-import produces identical files.
type Graph struct {
	Meta  map[string]any `json:"meta,omitempty"`
	Nodes []Node         `json:"nodes"`
	Edges []Edge         `json:"edges"`
}

// =============================================================================
// Node
// =============================================================================

// Node is one run of moves, or the sentinel start of the study.
type Node struct {
	ID     string         `json:"id"`
	Label  string         `json:"label,omitempty"`
	Title  string         `json:"title,omitempty"` // Tooltip with comments
	Weight int            `json:"weight,omitempty"`
	Row    int            `json:"row,omitempty"`
	Color  string         `json:"color,omitempty"`
	Kind   string         `json:"kind,omitempty"` // "root" or "run" (default)
	Meta   map[string]any `json:"meta,omitempty"`
}

// IsRoot returns true if this is the start of the study.
func (n *Node) IsRoot() bool { return n.Kind == KindRoot }

// =============================================================================
// Edge
// =============================================================================

// Edge represents a branch from one run to the next.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a DAG to its serialization format.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Graph{
		Meta:  copyMeta(g.Meta()),
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeFromDAG(n)
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To, Label: e.Label, Color: e.Color}
	}
	return out
}

// ToDAG converts a Graph to a DAG.
// Returns an error if the structure violates DAG constraints.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New(copyMeta(gj.Meta))

	for _, nj := range gj.Nodes {
		kind, err := parseKind(nj.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nj.ID, err)
		}
		n := dag.Node{
			ID:     nj.ID,
			Label:  nj.Label,
			Title:  nj.Title,
			Weight: nj.Weight,
			Row:    nj.Row,
			Color:  nj.Color,
			Kind:   kind,
			Meta:   copyMeta(nj.Meta),
		}
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.Edges {
		e := dag.Edge{From: ej.From, To: ej.To, Label: ej.Label, Color: ej.Color}
		if err := d.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeFromDAG(n *dag.Node) Node {
	node := Node{
		ID:     n.ID,
		Label:  n.Label,
		Title:  n.Title,
		Weight: n.Weight,
		Row:    n.Row,
		Color:  n.Color,
		Meta:   copyMeta(n.Meta),
	}
	if n.IsRoot() {
		node.Kind = KindRoot
	}
	return node
}

func parseKind(s string) (dag.NodeKind, error) {
	switch s {
	case "", KindRun:
		return dag.NodeKindRun, nil
	case KindRoot:
		return dag.NodeKindRoot, nil
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
// Empty maps become nil so they are omitted from the output.
func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}
