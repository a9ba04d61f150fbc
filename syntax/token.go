package syntax

import (
	"fmt"
	"unicode/utf8"

	"quartz/report"
)

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  This is only set for identifiers,
	// integer literals, and error tokens.
	Value string

	// The line and column of the first character of the token.  Both are
	// one-indexed.
	Line, Col int
}

// Enumeration of token kinds.
const (
	TOK_INTLIT = iota
	TOK_IDENT

	TOK_EXIT
	TOK_VAR
	TOK_INT
	TOK_IF

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_SEMI
	TOK_COLON
	TOK_ASSIGN

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV

	TOK_EOF
	TOK_ERR
)

// kindNames maps token kinds to the names used to display them.
var kindNames = map[int]string{
	TOK_INTLIT: "INT_LIT",
	TOK_IDENT:  "IDENTIFIER",
	TOK_EXIT:   "EXIT",
	TOK_VAR:    "VAR",
	TOK_INT:    "VAR_INT",
	TOK_IF:     "IF",
	TOK_LPAREN: "OPEN_PAREN",
	TOK_RPAREN: "CLOSE_PAREN",
	TOK_LBRACE: "OPEN_CURLY",
	TOK_RBRACE: "CLOSE_CURLY",
	TOK_SEMI:   "ENDL",
	TOK_COLON:  "COLON",
	TOK_ASSIGN: "EQUALS",
	TOK_PLUS:   "PLUS",
	TOK_MINUS:  "MINUS",
	TOK_STAR:   "STAR",
	TOK_DIV:    "FSLASH",
	TOK_EOF:    "EOF",
	TOK_ERR:    "ERROR",
}

// KindName returns the display name of a token kind: eg. `OPEN_PAREN`.
func KindName(kind int) string {
	if name, ok := kindNames[kind]; ok {
		return name
	}

	return fmt.Sprintf("KIND(%d)", kind)
}

// kindText maps token kinds with fixed spellings to their source text.
var kindText = map[int]string{
	TOK_EXIT:   "exit",
	TOK_VAR:    "var",
	TOK_INT:    "int",
	TOK_IF:     "if",
	TOK_LPAREN: "(",
	TOK_RPAREN: ")",
	TOK_LBRACE: "{",
	TOK_RBRACE: "}",
	TOK_SEMI:   ";",
	TOK_COLON:  ":",
	TOK_ASSIGN: "=",
	TOK_PLUS:   "+",
	TOK_MINUS:  "-",
	TOK_STAR:   "*",
	TOK_DIV:    "/",
}

// describeKind returns a short description of a token kind for use in error
// messages: the quoted spelling if it has one and its name otherwise.
func describeKind(kind int) string {
	switch kind {
	case TOK_INTLIT:
		return "integer literal"
	case TOK_IDENT:
		return "identifier"
	case TOK_EOF:
		return "end of file"
	}

	if text, ok := kindText[kind]; ok {
		return "`" + text + "`"
	}

	return KindName(kind)
}

// Text returns the source text of the token.
func (t Token) Text() string {
	if text, ok := kindText[t.Kind]; ok {
		return text
	}

	return t.Value
}

// Span returns the text span covered by the token.
func (t Token) Span() *report.TextSpan {
	return report.NewSpanAt(t.Line, t.Col, utf8.RuneCountInString(t.Text()))
}

// String renders the token as its kind name followed by its payload, if any:
// eg. `INT_LIT("42")`.
func (t Token) String() string {
	if t.Value == "" {
		return KindName(t.Kind)
	}

	return fmt.Sprintf("%s(%q)", KindName(t.Kind), t.Value)
}
