package pgn

import "strings"

// NAG is a Numeric Annotation Glyph code as written with `$n` in PGN.
// Suffix glyphs such as "!?" are converted to their NAG on input.
type NAG int

// Standard move-assessment NAGs.
const (
	NAGNull        NAG = 0
	NAGGood        NAG = 1 // !
	NAGMistake     NAG = 2 // ?
	NAGBrilliant   NAG = 3 // !!
	NAGBlunder     NAG = 4 // ??
	NAGSpeculative NAG = 5 // !?
	NAGDubious     NAG = 6 // ?!
)

var suffixNAGs = map[string]NAG{
	"!":  NAGGood,
	"?":  NAGMistake,
	"!!": NAGBrilliant,
	"??": NAGBlunder,
	"!?": NAGSpeculative,
	"?!": NAGDubious,
}

// Position is one node of a game's move tree: the position reached after
// Move was played. The root of a game has no move.
//
// Positions are built by the parser and are not modified afterwards.
type Position struct {
	// Move is the move in Standard Algebraic Notation ("Nf3", "exd5", "O-O").
	// It is empty for the root.
	Move string

	// NAGs holds the annotation codes attached to the move, in source order.
	NAGs []NAG

	// Comment is the text of the comments that follow the move.
	Comment string

	// StartingComment is a comment written before the first move of a
	// variation, e.g. "( {Also possible} 2... Nc6 )".
	StartingComment string

	// Variations are the continuations from this position. Index 0 is the
	// main line.
	Variations []*Position

	// Ply counts half-moves from the standard starting position; the root
	// of a game without a FEN tag has ply 0.
	Ply int

	parent *Position
}

// Parent returns the position before this move, or nil for the root.
func (p *Position) Parent() *Position { return p.parent }

// Next returns the main continuation, or nil at the end of a line.
func (p *Position) Next() *Position {
	if len(p.Variations) == 0 {
		return nil
	}
	return p.Variations[0]
}

// MoveText returns the SAN text of the move that reached this position.
func (p *Position) MoveText() string { return p.Move }

// IsRoot reports whether p is a game's starting position.
func (p *Position) IsRoot() bool { return p.parent == nil }

// IsLeaf reports whether the line ends at p.
func (p *Position) IsLeaf() bool { return len(p.Variations) == 0 }

// IsBranch reports whether the study diverges at p.
func (p *Position) IsBranch() bool { return len(p.Variations) >= 2 }

// IsSecondPlayerMove reports whether the move was played by Black, i.e. it
// is a reply within a full move rather than the start of a new one.
func (p *Position) IsSecondPlayerMove() bool { return p.Ply%2 == 0 }

// FullMoveNumber returns the move number printed for this move:
// 12 for both "12. e4" and "12... e5".
func (p *Position) FullMoveNumber() int { return (p.Ply-1)/2 + 1 }

// Tag is a single PGN tag pair.
type Tag struct {
	Name  string
	Value string
}

// Tags holds a game's tag pairs in source order.
type Tags []Tag

// Get returns the value of the first tag with the given name, or "".
func (t Tags) Get(name string) string {
	for _, tag := range t {
		if tag.Name == name {
			return tag.Value
		}
	}
	return ""
}

// Game is a parsed PGN game.
type Game struct {
	Tags   Tags
	Root   *Position
	Result string
}

// FirstPosition returns the position after the first move of the main line,
// or nil if the game has no moves.
func (g *Game) FirstPosition() *Position {
	if g.Root == nil {
		return nil
	}
	return g.Root.Next()
}

// MainlinePlies returns the number of moves on the main line.
func (g *Game) MainlinePlies() int {
	n := 0
	for p := g.FirstPosition(); p != nil; p = p.Next() {
		n++
	}
	return n
}

// Name returns a short human-readable description of the game built from
// its Event, White and Black tags.
func (g *Game) Name() string {
	var parts []string
	if ev := g.Tags.Get("Event"); ev != "" && ev != "?" {
		parts = append(parts, ev)
	}
	white, black := g.Tags.Get("White"), g.Tags.Get("Black")
	if (white != "" && white != "?") || (black != "" && black != "?") {
		parts = append(parts, orUnknown(white)+" - "+orUnknown(black))
	}
	if len(parts) == 0 {
		return "untitled"
	}
	return strings.Join(parts, ": ")
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
