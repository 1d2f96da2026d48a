package pgn

import (
	"fmt"
	"regexp"
	"strings"

	perrors "github.com/matzehuels/studytree/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokTagOpen
	tokTagClose
	tokString
	tokSymbol
	tokPeriod
	tokNAG
	tokGlyph
	tokComment
	tokOpen
	tokClose
	tokAsterisk
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokTagOpen:
		return "'['"
	case tokTagClose:
		return "']'"
	case tokString:
		return "string"
	case tokSymbol:
		return "symbol"
	case tokPeriod:
		return "'.'"
	case tokNAG:
		return "NAG"
	case tokGlyph:
		return "annotation glyph"
	case tokComment:
		return "comment"
	case tokOpen:
		return "'('"
	case tokClose:
		return "')'"
	case tokAsterisk:
		return "'*'"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// scanner splits PGN text into tokens. It walks the input with a byte
// cursor and tracks 1-based line and column numbers for error reporting.
type scanner struct {
	src  string
	pos  int
	line int
	col  int
}

func newScanner(src string) *scanner {
	src = strings.TrimPrefix(src, "\ufeff")
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) errorf(line, col int, format string, args ...any) error {
	return &perrors.ParseError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

func (s *scanner) peekByte() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

// skipSpace skips whitespace and "%" escape lines, which are only
// recognised in the first column.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()
		case c == '%' && s.col == 1:
			s.skipLine()
		default:
			return
		}
	}
}

func (s *scanner) skipLine() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.advance()
	}
}

func isSymbolStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSymbolChar(c byte) bool {
	return isSymbolStart(c) || strings.IndexByte("_+#=:-/", c) >= 0
}

// next returns the next token.
func (s *scanner) next() (token, error) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, line: s.line, col: s.col}, nil
	}

	line, col := s.line, s.col
	tok := func(kind tokenKind, text string) (token, error) {
		return token{kind: kind, text: text, line: line, col: col}, nil
	}

	c := s.peekByte()
	switch {
	case c == '[':
		s.advance()
		return tok(tokTagOpen, "[")
	case c == ']':
		s.advance()
		return tok(tokTagClose, "]")
	case c == '(':
		s.advance()
		return tok(tokOpen, "(")
	case c == ')':
		s.advance()
		return tok(tokClose, ")")
	case c == '.':
		s.advance()
		return tok(tokPeriod, ".")
	case c == '*':
		s.advance()
		return tok(tokAsterisk, "*")
	case c == '"':
		text, err := s.scanString()
		if err != nil {
			return token{}, err
		}
		return tok(tokString, text)
	case c == '{':
		text, err := s.scanBraceComment()
		if err != nil {
			return token{}, err
		}
		return tok(tokComment, text)
	case c == ';':
		s.advance()
		start := s.pos
		s.skipLine()
		return tok(tokComment, strings.TrimSpace(s.src[start:s.pos]))
	case c == '$':
		s.advance()
		start := s.pos
		for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
			s.advance()
		}
		if s.pos == start {
			return token{}, s.errorf(line, col, "expected digits after '$'")
		}
		return tok(tokNAG, s.src[start:s.pos])
	case c == '!' || c == '?':
		start := s.pos
		for s.pos < len(s.src) && (s.src[s.pos] == '!' || s.src[s.pos] == '?') {
			s.advance()
		}
		return tok(tokGlyph, s.src[start:s.pos])
	case isSymbolStart(c) || c == '-':
		start := s.pos
		for s.pos < len(s.src) && isSymbolChar(s.src[s.pos]) {
			s.advance()
		}
		return tok(tokSymbol, s.src[start:s.pos])
	default:
		return token{}, s.errorf(line, col, "unexpected character %q", c)
	}
}

func (s *scanner) scanString() (string, error) {
	line, col := s.line, s.col
	s.advance() // opening quote
	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.advance()
		switch c {
		case '\\':
			if s.pos < len(s.src) {
				b.WriteByte(s.advance())
			}
		case '"':
			return b.String(), nil
		case '\n':
			return "", s.errorf(line, col, "unterminated string")
		default:
			b.WriteByte(c)
		}
	}
	return "", s.errorf(line, col, "unterminated string")
}

func (s *scanner) scanBraceComment() (string, error) {
	line, col := s.line, s.col
	s.advance() // opening brace
	start := s.pos
	for s.pos < len(s.src) {
		if s.src[s.pos] == '}' {
			text := s.src[start:s.pos]
			s.advance()
			return normalizeComment(text), nil
		}
		s.advance()
	}
	return "", s.errorf(line, col, "unterminated comment")
}

// commandRe matches embedded commands such as [%clk 0:03:00] or
// [%eval 0.17] that online exports put inside comments.
var commandRe = regexp.MustCompile(`\[%[^\]]*\]`)

// normalizeComment strips embedded commands and collapses the line breaks
// that PGN writers insert to wrap long comments.
func normalizeComment(text string) string {
	text = commandRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}
