// Package study turns the move tree of a chess study into a graph of runs.
//
// # Runs
//
// A run is a maximal chain of moves without alternatives. [Compact] follows
// a line from a starting position until it reaches a branch point (two or
// more continuations) or the end of the line. Each run becomes one node of
// a [dag.DAG]; every continuation of its last position starts a child run.
//
// # Labels
//
// [Label] renders a run the way it is written in a book:
//
//	1. e4 e5 2. Nf3 Nc6
//	2...Nc6 3. Bb5 a6?!
//
// A run that starts with the second player's move opens with the move number
// and an ellipsis. [Title] uses the same entries but puts every full move on
// its own line and adds each comment as an indented line followed by a blank
// line; it is meant for tooltips.
//
// # Annotations
//
// The six move-assessment NAGs ($1-$6, or the suffixes ! ? !! ?? !? ?!) map
// to an [Annotation] with a glyph and an accent color. Only the first NAG of
// a move is consulted. A run's color is the color of its first move, and the
// edge leading into it uses the same color.
//
// # Building
//
//	b := study.NewBuilder(study.WithIDs(study.UUIDs()))
//	g, err := b.Build(game)
//
// [Builder.Build] registers a sentinel root node with an empty label and
// then every run in pre-order. The traversal uses an explicit stack, so the
// depth of a study is bounded only by memory. Identifiers come from an
// injected [IDGenerator]: [NewCounter] for reproducible output and tests,
// [UUIDs] for globally unique ones.
//
// [dag.DAG]: github.com/matzehuels/studytree/pkg/dag
package study
