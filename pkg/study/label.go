package study

import (
	"strconv"
	"strings"

	"github.com/matzehuels/studytree/pkg/pgn"
)

// entry formats one move: "12. e4!" for a first-player move, "e5" for a
// reply, or "12...e5" for a reply that opens a line.
func entry(p *pgn.Position, resumed bool) string {
	var b strings.Builder
	n := strconv.Itoa(p.FullMoveNumber())
	switch {
	case !p.IsSecondPlayerMove():
		b.WriteString(n)
		b.WriteString(". ")
	case resumed:
		b.WriteString(n)
		b.WriteString("...")
	}
	b.WriteString(p.MoveText())
	b.WriteString(AnnotationOf(p).Glyph())
	return b.String()
}

// Label returns the one-line move list of a run, e.g. "1. e4 e5 2. Nf3" or
// "2...Nc6 3. Bb5".
func Label(run Run) string {
	parts := make([]string, len(run))
	for i, p := range run {
		parts[i] = entry(p, i == 0)
	}
	return strings.Join(parts, " ")
}

// Title returns the tooltip text of a run. The entries match Label: only a
// reply opening the run is written "12...e5". Each first-player move starts
// a new line, so a move pair shares one line, and every comment follows its
// move on its own indented line and a blank line.
func Title(run Run) string {
	var b strings.Builder
	lineStart := true
	for i, p := range run {
		second := p.IsSecondPlayerMove()
		if !second && !lineStart {
			b.WriteByte('\n')
			lineStart = true
		}
		if !lineStart {
			b.WriteByte(' ')
		}
		b.WriteString(entry(p, i == 0))
		lineStart = false

		if p.Comment != "" {
			b.WriteString("\n  ")
			b.WriteString(p.Comment)
			b.WriteString("\n\n")
			lineStart = true
		}
	}
	return b.String()
}
