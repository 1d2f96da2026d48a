package study

import "github.com/matzehuels/studytree/pkg/pgn"

// Run is a chain of consecutive positions without alternatives. Every
// position except the last has exactly one continuation; the last one is a
// leaf or a branch point.
type Run []*pgn.Position

// Compact collects the run that starts at start: it follows single
// continuations until it reaches a position with zero or several. A start
// that is itself a leaf or branch point yields a run of length one, and a
// nil start yields an empty run.
func Compact(start *pgn.Position) Run {
	if start == nil {
		return nil
	}
	run := Run{start}
	for p := start; len(p.Variations) == 1; {
		p = p.Variations[0]
		run = append(run, p)
	}
	return run
}

// First returns the first position, or nil for an empty run.
func (r Run) First() *pgn.Position {
	if len(r) == 0 {
		return nil
	}
	return r[0]
}

// Last returns the position the run ends at, or nil for an empty run.
func (r Run) Last() *pgn.Position {
	if len(r) == 0 {
		return nil
	}
	return r[len(r)-1]
}

// Continuations returns the lines that follow the run, main line first.
func (r Run) Continuations() []*pgn.Position {
	if last := r.Last(); last != nil {
		return last.Variations
	}
	return nil
}

// Comments returns the number of positions in the run with a comment.
func (r Run) Comments() int {
	n := 0
	for _, p := range r {
		if p.Comment != "" {
			n++
		}
	}
	return n
}
