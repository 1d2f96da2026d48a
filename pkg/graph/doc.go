// Package graph provides the JSON serialization format for study graphs.
//
// The json output format of the render command writes this format, and the
// inspect command reads it back. Graphs use a simple node-link layout:
//
//	{
//	  "meta": {"name": "Italian Game", "Event": "Opening study"},
//	  "nodes": [
//	    {"id": "n1", "kind": "root"},
//	    {"id": "n2", "label": "1. e4 e5 2. Nf3", "weight": 3, "row": 1}
//	  ],
//	  "edges": [{"from": "n1", "to": "n2", "label": "1. e4"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("study.json")   // File → DAG
//	graph.WriteGraphFile(g, "study.json")       // DAG → File
//	data, _ := graph.MarshalGraph(g)            // DAG → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//
// Node and edge order is the order of registration, which for graphs built
// from a study is a pre-order walk of the variation tree. Metadata values
// survive a round trip as their JSON types, so integers come back as
// float64.
package graph
