package syntax

import (
	"errors"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"quartz/report"
)

func tokenStrings(toks []Token) []string {
	strs := make([]string, len(toks))
	for i, tok := range toks {
		strs[i] = tok.String()
	}

	return strs
}

func TestTokenizeExit(t *testing.T) {
	toks, err := Tokenize("exit(42);")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"EXIT", "OPEN_PAREN", `INT_LIT("42")`, "CLOSE_PAREN", "ENDL"}
	if diff := pretty.Diff(tokenStrings(toks), want); len(diff) > 0 {
		t.Errorf("tokens differ: %v", diff)
	}
}

func TestTokenizeAllKinds(t *testing.T) {
	src := "var x1: int = (a + 2) - b * c / d;\nif (x1) { exit(0); }"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}

	want := []int{
		TOK_VAR, TOK_IDENT, TOK_COLON, TOK_INT, TOK_ASSIGN, TOK_LPAREN, TOK_IDENT,
		TOK_PLUS, TOK_INTLIT, TOK_RPAREN, TOK_MINUS, TOK_IDENT, TOK_STAR, TOK_IDENT,
		TOK_DIV, TOK_IDENT, TOK_SEMI,
		TOK_IF, TOK_LPAREN, TOK_IDENT, TOK_RPAREN, TOK_LBRACE, TOK_EXIT, TOK_LPAREN,
		TOK_INTLIT, TOK_RPAREN, TOK_SEMI, TOK_RBRACE,
	}

	got := make([]int, len(toks))
	for i, tok := range toks {
		got[i] = tok.Kind
	}

	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("kinds differ: %v", diff)
	}

	if toks[1].Value != "x1" {
		t.Errorf("identifier payload = %q", toks[1].Value)
	}
}

func TestTokenPositions(t *testing.T) {
	toks, err := Tokenize("exit(1);\n  var\tabc")
	if err != nil {
		t.Fatal(err)
	}

	want := [][2]int{{1, 1}, {1, 5}, {1, 6}, {1, 7}, {1, 8}, {2, 3}, {2, 7}}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, tok := range toks {
		if tok.Line != want[i][0] || tok.Col != want[i][1] {
			t.Errorf("token %d (%s) at %d:%d, want %d:%d", i, tok, tok.Line, tok.Col, want[i][0], want[i][1])
		}
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	src := "var x: int = 3;\n{ var y: int = x * 2; if (y) exit(y - 6); }\nexit(x);"

	first, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		again, err := Tokenize(src)
		if err != nil {
			t.Fatal(err)
		}

		if diff := pretty.Diff(first, again); len(diff) > 0 {
			t.Fatalf("run %d differs: %v", i, diff)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	toks, err := Tokenize(" \n\t ")
	if err != nil {
		t.Fatal(err)
	}

	if len(toks) != 0 {
		t.Errorf("got %v, want no tokens", toks)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src       string
		msg       string
		line, col int
	}{
		{"exit(12ab);", "identifiers must not begin with a digit", 1, 6},
		{"exit(1);\n  $", "unexpected character `$`", 2, 3},
		{"var x_y", "unexpected character `_`", 1, 6},
		{"exit(1) ?", "unexpected character `?`", 1, 9},
	}

	for _, test := range tests {
		_, err := Tokenize(test.src)
		if err == nil {
			t.Errorf("%q: expected an error", test.src)
			continue
		}

		var lce *report.LocalCompileError
		if !errors.As(err, &lce) {
			t.Errorf("%q: got %T, want *report.LocalCompileError", test.src, err)
			continue
		}

		if lce.Stage != report.StageLex {
			t.Errorf("%q: stage = %d", test.src, lce.Stage)
		}

		if !strings.Contains(lce.Message, test.msg) {
			t.Errorf("%q: message %q does not contain %q", test.src, lce.Message, test.msg)
		}

		if lce.Span.StartLine != test.line || lce.Span.StartCol != test.col {
			t.Errorf("%q: error at %d:%d, want %d:%d", test.src, lce.Span.StartLine, lce.Span.StartCol, test.line, test.col)
		}
	}
}

func TestNextTokenErrorToken(t *testing.T) {
	_, err := Tokenize("#")

	var lce *report.LocalCompileError
	if !errors.As(err, &lce) {
		t.Fatalf("got %v", err)
	}

	if lce.Near != `ERROR("#")` {
		t.Errorf("near = %q", lce.Near)
	}
}
