package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Nodes are registered exactly once.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrMultipleParents is returned by [DAG.AddEdge] when the To node
	// already has an incoming edge. A study graph is a tree.
	ErrMultipleParents = errors.New("node already has a parent")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonConsecutiveRows is returned by [DAG.Validate] when an edge
	// connects nodes that are not in adjacent rows (From.Row+1 != To.Row).
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// Cycles are detected using depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. The study builder records game tags and run statistics here.
// Metadata maps are never nil after they have been added to a graph.
type Metadata map[string]any

// NodeKind distinguishes the sentinel start node from run nodes.
type NodeKind int

const (
	// NodeKindRun represents one compacted run of moves.
	NodeKindRun NodeKind = iota
	// NodeKindRoot represents the start of the study. It carries no moves.
	NodeKindRoot
)

// String returns "run" or "root".
func (k NodeKind) String() string {
	if k == NodeKindRoot {
		return "root"
	}
	return "run"
}

// Node is one vertex of a study graph.
//
// The zero value is not usable - ID must be set before adding to a DAG.
type Node struct {
	ID     string // Unique identifier, no meaning beyond identity
	Label  string // Compact one-line move list
	Title  string // Multi-line tooltip with comments
	Weight int    // Number of moves in the run (0 for the root)
	Row    int    // Depth from the root (0 = root)
	Color  string // Accent color ("#rrggbb") or empty
	Kind   NodeKind
	Meta   Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// IsRoot reports whether the node is the sentinel start node.
func (n Node) IsRoot() bool { return n.Kind == NodeKindRoot }

// Edge is a directed transition from a run to one of the runs that
// continue it.
type Edge struct {
	From  string   // Source node ID
	To    string   // Target node ID
	Label string   // First move of the target run
	Color string   // Accent color ("#rrggbb") or empty
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a write-once directed acyclic graph of study runs. Nodes and edges
// are kept in registration order so that renderers and exports are
// deterministic for a given build.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	rows     map[int][]*Node     // row -> nodes in that row
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		rows:     make(map[int][]*Node),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode registers a node and indexes it by its Row.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists. The node's Meta field is
// automatically initialized to an empty map if nil.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node)
	d.rows[node.Row] = append(d.rows[node.Row], node)
	return nil
}

// AddEdge registers a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist,
// ErrUnknownTargetNode if the To node doesn't exist, or ErrMultipleParents
// if To already has a parent. The edge's Meta field is automatically
// initialized to an empty map if nil.
//
// AddEdge does not validate that From.Row+1 == To.Row - use Validate
// to check this constraint after building the graph.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if len(d.incoming[e.To]) > 0 {
		return ErrMultipleParents
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Nodes returns all nodes in registration order. The returned slice contains
// pointers to the actual node structs; callers must treat them as read-only.
func (d *DAG) Nodes() []*Node { return slices.Clone(d.order) }

// Edges returns a copy of all edges in registration order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of the runs that continue the node, in the order
// the edges were added. Returns nil for a leaf or unknown node.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node.
// In a study graph this is at most one node.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
// Returns 0 if the node doesn't exist.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
// Returns 0 if the node doesn't exist.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Root returns the first registered node of kind NodeKindRoot, or nil.
func (d *DAG) Root() *Node {
	for _, n := range d.order {
		if n.IsRoot() {
			return n
		}
	}
	return nil
}

// NodesInRow returns all nodes at the given depth in registration order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowCount returns the number of distinct rows (depths) in the graph.
func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs returns all row indices in sorted ascending order.
func (d *DAG) RowIDs() []int {
	return slices.Sorted(maps.Keys(d.rows))
}

// MaxRow returns the highest row index, or 0 if the graph is empty.
func (d *DAG) MaxRow() int {
	if len(d.rows) == 0 {
		return 0
	}
	rowIDs := d.RowIDs()
	return rowIDs[len(rowIDs)-1]
}

// Sources returns nodes with no incoming edges in registration order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.order {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges in registration order.
// In a study graph these are the runs that end a line.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, n := range d.order {
		if len(d.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// TotalWeight returns the sum of all node weights, i.e. the number of moves
// in the study.
func (d *DAG) TotalWeight() int {
	total := 0
	for _, n := range d.order {
		total += n.Weight
	}
	return total
}

// Validate checks graph integrity and returns nil if valid.
// It verifies two constraints:
//
//  1. All edges connect existing nodes in consecutive rows (From.Row+1 == To.Row)
//  2. The graph is acyclic (no directed cycles exist)
//
// Returns ErrInvalidEdgeEndpoint if an edge references a missing node,
// ErrNonConsecutiveRows if edges don't connect adjacent rows, or
// ErrGraphHasCycle if a cycle is detected.
func (d *DAG) Validate() error {
	if err := d.validateEdgeConsistency(); err != nil {
		return err
	}
	return d.detectCycles()
}

func (d *DAG) validateEdgeConsistency() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if dst.Row != src.Row+1 {
			return ErrNonConsecutiveRows
		}
	}
	return nil
}

// detectCycles walks the graph iteratively so that very deep studies do not
// grow the goroutine stack.
func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int
	}

	color := make(map[string]int, len(d.nodes))
	for _, start := range d.order {
		if color[start.ID] != white {
			continue
		}
		stack := []frame{{id: start.ID}}
		color[start.ID] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := d.outgoing[top.id]
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// NodeIDs extracts the ID from each node in a slice.
// Returns a new slice containing the IDs in the same order as the input.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
