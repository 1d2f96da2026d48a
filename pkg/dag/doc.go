// Package dag provides the write-once graph that a chess study is turned
// into.
//
// # Overview
//
// Every node of the graph is a run: a chain of moves with no alternatives,
// collapsed into a single vertex with a short [Node.Label], a longer
// [Node.Title] and a [Node.Weight] equal to the number of moves. Edges lead
// from a run to each line that continues it. A sentinel node of kind
// [NodeKindRoot] marks the start of the study.
//
// The graph is a tree, organized into rows by depth: the root is row 0,
// the main line's first run is row 1, and every edge connects consecutive
// rows.
//
// # Basic Usage
//
// Create a graph with [New], register nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "n1", Kind: dag.NodeKindRoot})
//	g.AddNode(dag.Node{ID: "n2", Label: "1. e4 e5", Weight: 2, Row: 1})
//	g.AddEdge(dag.Edge{From: "n1", To: "n2", Label: "1. e4"})
//
// Nodes and edges are never modified or removed once added. [DAG.Nodes] and
// [DAG.Edges] return them in registration order, which makes every export
// of the same build byte-for-byte reproducible.
//
// Use [DAG.Validate] to verify structural integrity before rendering.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. A graph is built and
// rendered by a single goroutine.
package dag
