package pgn

import (
	"errors"
	"strings"
	"testing"

	perrors "github.com/matzehuels/studytree/pkg/errors"
)

func mustParse(t *testing.T, src string) *Game {
	t.Helper()
	g, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return g
}

func mainline(g *Game) []string {
	var moves []string
	for p := g.FirstPosition(); p != nil; p = p.Next() {
		moves = append(moves, p.MoveText())
	}
	return moves
}

func TestParseMainline(t *testing.T) {
	g := mustParse(t, `[Event "Ruy Lopez"]
[White "Alice"]
[Black "Bob"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 *`)

	if got := g.Tags.Get("Event"); got != "Ruy Lopez" {
		t.Errorf("Event = %q, want %q", got, "Ruy Lopez")
	}
	if g.Result != "*" {
		t.Errorf("Result = %q, want *", g.Result)
	}

	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6"}
	got := mainline(g)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("mainline = %v, want %v", got, want)
	}
	if g.MainlinePlies() != 6 {
		t.Errorf("MainlinePlies = %d, want 6", g.MainlinePlies())
	}
	if g.Name() != "Ruy Lopez: Alice - Bob" {
		t.Errorf("Name = %q", g.Name())
	}
}

func TestParseMoveNumbering(t *testing.T) {
	g := mustParse(t, "1. e4 e5 2. Nf3 *")

	tests := []struct {
		move   string
		second bool
		number int
	}{
		{"e4", false, 1},
		{"e5", true, 1},
		{"Nf3", false, 2},
	}

	p := g.FirstPosition()
	for _, tt := range tests {
		if p == nil {
			t.Fatalf("line ended before %s", tt.move)
		}
		if p.MoveText() != tt.move {
			t.Errorf("move = %q, want %q", p.MoveText(), tt.move)
		}
		if p.IsSecondPlayerMove() != tt.second {
			t.Errorf("%s: IsSecondPlayerMove = %v, want %v", tt.move, p.IsSecondPlayerMove(), tt.second)
		}
		if p.FullMoveNumber() != tt.number {
			t.Errorf("%s: FullMoveNumber = %d, want %d", tt.move, p.FullMoveNumber(), tt.number)
		}
		p = p.Next()
	}
}

func TestParseVariations(t *testing.T) {
	g := mustParse(t, "1. e4 e5 2. Nf3 (2. Bc4 Nf6 (2... Bc5 3. c3)) 2... Nc6 *")

	e5 := g.FirstPosition().Next()
	if e5.MoveText() != "e5" {
		t.Fatalf("second move = %q, want e5", e5.MoveText())
	}
	if !e5.IsBranch() {
		t.Fatalf("e5 should be a branch point, has %d variations", len(e5.Variations))
	}
	if e5.Variations[0].MoveText() != "Nf3" || e5.Variations[1].MoveText() != "Bc4" {
		t.Errorf("variations = %q, %q; want Nf3, Bc4", e5.Variations[0].MoveText(), e5.Variations[1].MoveText())
	}

	bc4 := e5.Variations[1]
	if len(bc4.Variations) != 2 {
		t.Fatalf("Bc4 variations = %d, want 2", len(bc4.Variations))
	}
	if bc4.Variations[0].MoveText() != "Nf6" || bc4.Variations[1].MoveText() != "Bc5" {
		t.Errorf("Bc4 replies = %q, %q; want Nf6, Bc5", bc4.Variations[0].MoveText(), bc4.Variations[1].MoveText())
	}
	c3 := bc4.Variations[1].Next()
	if c3 == nil || c3.MoveText() != "c3" || c3.FullMoveNumber() != 3 {
		t.Errorf("nested continuation = %+v, want 3. c3", c3)
	}

	nc6 := e5.Variations[0].Next()
	if nc6 == nil || nc6.MoveText() != "Nc6" {
		t.Fatalf("mainline after Nf3 = %v, want Nc6", nc6)
	}
	if !nc6.IsLeaf() {
		t.Error("Nc6 should be a leaf")
	}
	if nc6.Parent() != e5.Variations[0] {
		t.Error("Nc6 parent should be Nf3")
	}
}

func TestParseAnnotations(t *testing.T) {
	g := mustParse(t, "1. e4! e5?? 2. Nf3 $4 $1 Nc6!? 3. Bb5?! a6 $14 *")

	want := map[string][]NAG{
		"e4":  {NAGGood},
		"e5":  {NAGBlunder},
		"Nf3": {NAGBlunder, NAGGood},
		"Nc6": {NAGSpeculative},
		"Bb5": {NAGDubious},
		"a6":  {NAG(14)},
	}
	for p := g.FirstPosition(); p != nil; p = p.Next() {
		w := want[p.MoveText()]
		if len(p.NAGs) != len(w) {
			t.Errorf("%s: NAGs = %v, want %v", p.MoveText(), p.NAGs, w)
			continue
		}
		for i := range w {
			if p.NAGs[i] != w[i] {
				t.Errorf("%s: NAGs = %v, want %v", p.MoveText(), p.NAGs, w)
			}
		}
	}
}

func TestParseComments(t *testing.T) {
	g := mustParse(t, `{A short study} 1. e4 {Best by test.
  Played in most games} e5 ( {The Sicilian} 1... c5 ; sharp
) 2. Nf3 {[%clk 0:03:00] develops} *`)

	if g.Root.Comment != "A short study" {
		t.Errorf("root comment = %q", g.Root.Comment)
	}
	e4 := g.FirstPosition()
	if e4.Comment != "Best by test. Played in most games" {
		t.Errorf("e4 comment = %q", e4.Comment)
	}
	c5 := e4.Variations[1]
	if c5.StartingComment != "The Sicilian" {
		t.Errorf("c5 starting comment = %q", c5.StartingComment)
	}
	if c5.Comment != "sharp" {
		t.Errorf("c5 comment = %q", c5.Comment)
	}
	nf3 := e4.Next().Next()
	if nf3.Comment != "develops" {
		t.Errorf("Nf3 comment = %q, want clock command stripped", nf3.Comment)
	}
}

func TestParseFENStart(t *testing.T) {
	g := mustParse(t, `[SetUp "1"]
[FEN "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 3 12"]

12... Nf6 13. d4 exd4 *`)

	nf6 := g.FirstPosition()
	if !nf6.IsSecondPlayerMove() || nf6.FullMoveNumber() != 12 {
		t.Errorf("Nf6: second=%v number=%d, want true 12", nf6.IsSecondPlayerMove(), nf6.FullMoveNumber())
	}
	d4 := nf6.Next()
	if d4.IsSecondPlayerMove() || d4.FullMoveNumber() != 13 {
		t.Errorf("d4: second=%v number=%d, want false 13", d4.IsSecondPlayerMove(), d4.FullMoveNumber())
	}
}

func TestParseSpecialMoves(t *testing.T) {
	g := mustParse(t, "1. e4 d5 2. exd5 Qxd5 3. O-O-O 0-0 4. e8=Q+ Rxe8# 5. a8N -- 1-0")
	if got := len(mainline(g)); got != 10 {
		t.Errorf("moves = %d, want 10", got)
	}
	if g.Result != "1-0" {
		t.Errorf("Result = %q, want 1-0", g.Result)
	}
}

func TestParseEmptyStudy(t *testing.T) {
	g := mustParse(t, `[Event "Empty"]

*`)
	if g.FirstPosition() != nil {
		t.Error("FirstPosition should be nil for a study without moves")
	}
	if g.MainlinePlies() != 0 {
		t.Errorf("MainlinePlies = %d, want 0", g.MainlinePlies())
	}
}

func TestParseNoGames(t *testing.T) {
	_, err := Parse(strings.NewReader("  \n% escape line\n"))
	if !errors.Is(err, ErrNoGames) {
		t.Errorf("Parse(empty) error = %v, want ErrNoGames", err)
	}

	games, err := ParseAll(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseAll(empty): %v", err)
	}
	if len(games) != 0 {
		t.Errorf("ParseAll(empty) = %d games, want 0", len(games))
	}
}

func TestParseAll(t *testing.T) {
	src := `[Event "Chapter 1"]

1. e4 e5 *

[Event "Chapter 2"]

1. d4 d5 2. c4 1/2-1/2

[Event "Chapter 3"]
1. c4`

	games, err := ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("games = %d, want 3", len(games))
	}
	wantPlies := []int{2, 3, 1}
	for i, g := range games {
		if g.MainlinePlies() != wantPlies[i] {
			t.Errorf("game %d plies = %d, want %d", i+1, g.MainlinePlies(), wantPlies[i])
		}
	}
	if games[1].Result != "1/2-1/2" {
		t.Errorf("game 2 result = %q", games[1].Result)
	}

	first, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if first.Tags.Get("Event") != "Chapter 1" {
		t.Errorf("Parse should return the first game, got %q", first.Tags.Get("Event"))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantCol  int
		wantMsg  string
	}{
		{"unterminated variation", "1. e4 (1. d4", 1, 13, "unterminated variation"},
		{"unexpected close", "1. e4 )", 1, 7, "unexpected ')'"},
		{"variation before move", "( 1. e4 )", 1, 1, "variation before any move"},
		{"unterminated comment", "1. e4 {oops", 1, 7, "unterminated comment"},
		{"invalid move", "1. e4 e5\n2. Xx9", 2, 4, `invalid move "Xx9"`},
		{"unterminated tag", `[Event "x`, 1, 8, "unterminated string"},
		{"bad tag", `[Event x]`, 1, 8, "expected string"},
		{"bad fen", "[FEN \"8/8/8/8/8/8/8/8 x - - 0 1\"]\n1. e4", 1, 1, "invalid FEN"},
		{"result in variation", "1. e4 (1. d4 1-0)", 1, 14, "result inside variation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *perrors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a ParseError", err)
			}
			if !IsParseError(err) {
				t.Error("IsParseError = false")
			}
			if pe.Line != tt.wantLine || pe.Column != tt.wantCol {
				t.Errorf("position = %d:%d, want %d:%d (%v)", pe.Line, pe.Column, tt.wantLine, tt.wantCol, err)
			}
			if !strings.Contains(pe.Message, tt.wantMsg) {
				t.Errorf("message = %q, want to contain %q", pe.Message, tt.wantMsg)
			}
		})
	}
}
