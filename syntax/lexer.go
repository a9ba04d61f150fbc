package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"quartz/report"
)

// Lexer is responsible for tokenizing a source file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	// The position of the next rune to be read.
	line, col int

	// The position of the first rune of the token being built.
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
		line:    1,
		col:     1,
	}
}

// Tokenize converts the whole of src into a sequence of tokens.  The returned
// sequence does not end with an EOF token.  Lexing stops at the first error.
func Tokenize(src string) ([]Token, error) {
	l := NewLexer(bufio.NewReader(strings.NewReader(src)))

	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		if tok.Kind == TOK_EOF {
			return toks, nil
		}

		toks = append(toks, *tok)
	}
}

// NextToken retrieves the next token from the input file.  If the file has
// ended, this will be an EOF token.  If the input contains an invalid
// character, an error token holding that character is returned along with the
// lexical error.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		default:
			if unicode.IsLetter(c) {
				return l.lexIdentOrKeyword()
			} else if isDecimalDigit(c) {
				return l.lexIntLit()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return &Token{Kind: TOK_EOF, Line: l.line, Col: l.col}, nil
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[rune]int{
	'+': TOK_PLUS,
	'-': TOK_MINUS,
	'*': TOK_STAR,
	'/': TOK_DIV,

	'=': TOK_ASSIGN,

	'(': TOK_LPAREN,
	')': TOK_RPAREN,
	'{': TOK_LBRACE,
	'}': TOK_RBRACE,
	';': TOK_SEMI,
	':': TOK_COLON,
}

// lexPunctOrOper lexes a punctuation or operator symbol.  All symbols in
// Quartz are a single character long.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	c, err := l.eat()
	if err != nil {
		return nil, err
	}

	kind, ok := symbolPatterns[c]
	if !ok {
		tok := l.makeToken(TOK_ERR)
		return tok, report.RaiseNear(
			report.StageLex,
			tok.Span(),
			tok.String(),
			"unexpected character `%c`",
			c,
		)
	}

	tok := l.makeToken(kind)
	tok.Value = ""
	return tok, nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"exit": TOK_EXIT,
	"var":  TOK_VAR,
	"int":  TOK_INT,
	"if":   TOK_IF,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	if _, err := l.eat(); err != nil {
		return nil, err
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !unicode.IsLetter(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	if kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		tok := l.makeToken(kind)
		tok.Value = ""
		return tok, nil
	}

	return l.makeToken(TOK_IDENT), nil
}

// -----------------------------------------------------------------------------

// lexIntLit lexes an integer literal: a run of decimal digits.
func (l *Lexer) lexIntLit() (*Token, error) {
	l.mark()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if isDecimalDigit(c) {
			l.eat()
			continue
		}

		if unicode.IsLetter(c) {
			tok := l.makeToken(TOK_INTLIT)
			return nil, report.RaiseNear(
				report.StageLex,
				tok.Span(),
				tok.String(),
				"identifiers must not begin with a digit",
			)
		}

		break
	}

	return l.makeToken(TOK_INTLIT), nil
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Line:  l.startLine,
		Col:   l.startCol,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)
	l.tokBuff.WriteRune(c)

	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
