package pgn

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	perrors "github.com/matzehuels/studytree/pkg/errors"
)

// ErrNoGames is returned by [Parse] when the input contains no game at all.
// A game with tags but no moves is not an error.
var ErrNoGames = errors.New("no games found")

// sanRe accepts Standard Algebraic Notation moves, including castling with
// letters or digits, promotions with or without "=", and null moves.
var sanRe = regexp.MustCompile(`^(?:[NBRQK][a-h]?[1-8]?x?[a-h][1-8]|[a-h](?:x[a-h])?[1-8](?:=?[NBRQ])?|O-O(?:-O)?|0-0(?:-0)?|--|Z0)[+#]?$`)

// Parse reads the first game from r. Later games are not examined.
func Parse(r io.Reader) (*Game, error) {
	p, err := newParser(r)
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, ErrNoGames
	}
	return p.parseGame()
}

// ParseAll reads every game from r. An empty input yields an empty slice.
func ParseAll(r io.Reader) ([]*Game, error) {
	p, err := newParser(r)
	if err != nil {
		return nil, err
	}
	var games []*Game
	for p.tok.kind != tokEOF {
		g, err := p.parseGame()
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", len(games)+1, err)
		}
		games = append(games, g)
	}
	return games, nil
}

type parser struct {
	sc  *scanner
	tok token
}

func newParser(r io.Reader) (*parser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	p := &parser{sc: newScanner(string(data))}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.sc.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return p.sc.errorf(t.line, t.col, format, args...)
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.tok
	if t.kind != kind {
		return t, p.errorf(t, "expected %s, found %s", kind, t.kind)
	}
	return t, p.advance()
}

func (p *parser) parseGame() (*Game, error) {
	start := p.tok
	g := &Game{}
	if err := p.parseTags(g); err != nil {
		return nil, err
	}

	ply, err := startingPly(g.Tags)
	if err != nil {
		return nil, p.errorf(start, "%v", err)
	}
	g.Root = &Position{Ply: ply}

	if err := p.parseMovetext(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *parser) parseTags(g *Game) error {
	for p.tok.kind == tokTagOpen {
		if err := p.advance(); err != nil {
			return err
		}
		name, err := p.expect(tokSymbol)
		if err != nil {
			return err
		}
		value, err := p.expect(tokString)
		if err != nil {
			return err
		}
		if _, err := p.expect(tokTagClose); err != nil {
			return err
		}
		g.Tags = append(g.Tags, Tag{Name: name.text, Value: value.text})
	}
	return nil
}

// parseMovetext builds the move tree. current is the position the next move
// is played from; fresh is true until the first move of the game or of the
// innermost open variation has been read.
func (p *parser) parseMovetext(g *Game) error {
	current := g.Root
	fresh := true
	var (
		stack   []*Position
		pending string
	)

	for {
		t := p.tok
		switch t.kind {
		case tokEOF:
			if len(stack) > 0 {
				return p.errorf(t, "unterminated variation")
			}
			return nil

		case tokTagOpen:
			// A new game starts without a result terminating this one.
			if len(stack) > 0 {
				return p.errorf(t, "unterminated variation")
			}
			return nil

		case tokAsterisk:
			if len(stack) > 0 {
				return p.errorf(t, "result inside variation")
			}
			g.Result = "*"
			return p.advance()

		case tokSymbol:
			switch {
			case isResult(t.text):
				if len(stack) > 0 {
					return p.errorf(t, "result inside variation")
				}
				g.Result = t.text
				return p.advance()
			case isMoveNumber(t.text):
				// Move numbers are recomputed from the ply count.
			case sanRe.MatchString(t.text):
				pos := &Position{
					Move:            t.text,
					Ply:             current.Ply + 1,
					StartingComment: pending,
					parent:          current,
				}
				pending = ""
				current.Variations = append(current.Variations, pos)
				current = pos
				fresh = false
			default:
				return p.errorf(t, "invalid move %q", t.text)
			}

		case tokPeriod:
			// Part of a move number indication.

		case tokNAG:
			n, err := strconv.Atoi(t.text)
			if err != nil || n > 255 {
				return p.errorf(t, "invalid NAG $%s", t.text)
			}
			if !fresh {
				current.NAGs = append(current.NAGs, NAG(n))
			}

		case tokGlyph:
			if nag, ok := suffixNAGs[t.text]; ok && !fresh {
				current.NAGs = append(current.NAGs, nag)
			}

		case tokComment:
			switch {
			case !fresh:
				current.Comment = joinComment(current.Comment, t.text)
			case len(stack) == 0:
				g.Root.Comment = joinComment(g.Root.Comment, t.text)
			default:
				pending = joinComment(pending, t.text)
			}

		case tokOpen:
			if fresh {
				return p.errorf(t, "variation before any move")
			}
			stack = append(stack, current)
			current = current.parent
			fresh = true
			pending = ""

		case tokClose:
			if len(stack) == 0 {
				return p.errorf(t, "unexpected ')'")
			}
			current = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			fresh = false
			pending = ""

		default:
			return p.errorf(t, "unexpected %s in movetext", t.kind)
		}

		if err := p.advance(); err != nil {
			return err
		}
	}
}

func isResult(s string) bool {
	return s == "1-0" || s == "0-1" || s == "1/2-1/2"
}

func isMoveNumber(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func joinComment(existing, text string) string {
	if text == "" {
		return existing
	}
	if existing == "" {
		return text
	}
	return existing + " " + text
}

// startingPly derives the ply of a game's root from its FEN tag. Games
// without a FEN start at ply 0 (White to move, move 1).
func startingPly(tags Tags) (int, error) {
	fen := strings.TrimSpace(tags.Get("FEN"))
	if fen == "" {
		return 0, nil
	}
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return 0, fmt.Errorf("invalid FEN tag %q", fen)
	}

	offset := 0
	switch fields[1] {
	case "w":
	case "b":
		offset = 1
	default:
		return 0, fmt.Errorf("invalid FEN active color %q", fields[1])
	}

	fullmove := 1
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid FEN fullmove number %q", fields[5])
		}
		fullmove = n
	}
	return (fullmove-1)*2 + offset, nil
}

// IsParseError reports whether err was caused by malformed PGN.
func IsParseError(err error) bool {
	var pe *perrors.ParseError
	return errors.As(err, &pe)
}
