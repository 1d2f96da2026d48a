// Package pgn reads chess studies written in Portable Game Notation.
//
// # Overview
//
// A PGN document holds one or more games. Each game has a tag section
// (`[Event "..."]`) followed by movetext: moves in Standard Algebraic
// Notation, move numbers, `{comments}`, `$n` annotation codes (NAGs),
// `!`/`?` suffix glyphs, parenthesised alternative lines and a result.
//
// [Parse] and [ParseAll] turn movetext into a tree of [Position] values.
// The tree root is the position before the first move; every other node
// carries the move that reached it. A position's Variations are ordered:
// index 0 is the main continuation and later entries are the alternatives
// in the order they appear in the source.
//
//	game, err := pgn.Parse(f)
//	if err != nil {
//	    return err
//	}
//	for p := game.FirstPosition(); p != nil; p = p.Next() {
//	    fmt.Println(p.FullMoveNumber(), p.MoveText())
//	}
//
// # Scope
//
// The reader is syntactic. Moves are checked against the SAN grammar but
// never against a board, so illegal-but-well-formed moves are accepted.
// A game that starts from a `FEN` tag gets its move numbers and side to
// move from the FEN's active-color and full-move fields.
//
// # Errors
//
// Malformed documents produce a [errors.ParseError] carrying the 1-based
// line and column of the offending token.
//
// [errors.ParseError]: github.com/matzehuels/studytree/pkg/errors
package pgn
