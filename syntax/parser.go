package syntax

import (
	"fmt"

	"quartz/arena"
	"quartz/ast"
	"quartz/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is the parser for a Quartz source file.  It acts as a state machine
// that moves over the token sequence produced by the lexer, deciding what to
// parse based on the token it is currently positioned over and its context
// (implicit from the callstack of parsing functions): it is a recursive
// descent parser.  All parsing functions assume that they begin with the
// parser centered on the first token of their production and must consume all
// tokens (including the last) of their production, leaving the parser on the
// next token.  Parsers are created once per file.
type Parser struct {
	// The tree the parser allocates nodes in.
	tree *ast.Tree

	// The token sequence being parsed and the index of the next token.
	toks []Token
	ndx  int

	// tok is the current token the parser is positioned on.
	tok *Token

	// lookbehind is the token immediately before the current token.
	lookbehind *Token
}

// NewParser creates a new parser over toks which allocates nodes in tree.
func NewParser(toks []Token, tree *ast.Tree) *Parser {
	p := &Parser{tree: tree, toks: toks}
	p.next()
	return p
}

// Parse parses a token sequence into a program whose nodes are allocated in a.
// The arena must be initialized and must outlive every use of the program.
func Parse(toks []Token, a *arena.Arena) (*ast.Program, error) {
	return NewParser(toks, ast.NewTree(a)).ParseProgram()
}

// program := {stmt} EOF ;
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{Tree: p.tree}

	for !p.has(TOK_EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		if stmt.Empty() {
			return nil, p.rejectWithMsg("invalid statement")
		}

		prog.Stmts = append(prog.Stmts, stmt)
	}

	return prog, nil
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.  Once the token sequence is
// exhausted, the parser sits on an EOF token placed just past the last token.
func (p *Parser) next() {
	p.lookbehind = p.tok

	if p.ndx < len(p.toks) {
		p.tok = &p.toks[p.ndx]
		p.ndx++
		return
	}

	if p.tok != nil && p.tok.Kind == TOK_EOF {
		return
	}

	eof := &Token{Kind: TOK_EOF, Line: 1, Col: 1}
	if p.tok != nil {
		span := p.tok.Span()
		eof.Line = span.EndLine
		eof.Col = span.EndCol + 1
	}

	p.tok = eof
}

// has returns whether the parser is on a token of the given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// want asserts that the parser is on a token of the given kind, moves the
// parser forward, and returns the matched token.
func (p *Parser) want(kind int) (*Token, error) {
	if !p.has(kind) {
		return nil, p.reject(describeKind(kind))
	}

	p.next()
	return p.lookbehind, nil
}

// -----------------------------------------------------------------------------

// reject produces an error indicating that the parser expected something other
// than the current token.
func (p *Parser) reject(expected string) error {
	return p.rejectWithMsg("expected %s, got %s", expected, p.tok)
}

// rejectWithMsg produces an error on the current token with the given
// message.
func (p *Parser) rejectWithMsg(msg string, a ...interface{}) error {
	return report.RaiseNear(
		report.StageParse,
		p.tok.Span(),
		p.tok.String(),
		"%s",
		fmt.Sprintf(msg, a...),
	)
}

// allocError converts an error allocating a node into a parse error on the
// most recently consumed token.
func (p *Parser) allocError(err error) error {
	tok := p.lookbehind
	if tok == nil {
		tok = p.tok
	}

	return report.Wrap(report.StageParse, tok.Span(), err, "failed to allocate syntax tree node")
}
