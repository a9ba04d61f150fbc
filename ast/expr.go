package ast

import (
	"fmt"

	"quartz/report"
)

// Enumeration of expression kinds.  The zero kind marks the absence of an
// expression.
const (
	ExprNone = iota
	ExprIntLit
	ExprIdent
	ExprParen
	ExprBinary
)

// ExprRef is a tagged reference to an expression node in a Tree.  The zero
// reference refers to no expression: the parser returns it when no term can be
// parsed.
type ExprRef struct {
	// The kind of the referenced expression.  This must be one of the
	// enumerated expression kinds.
	Kind int

	index int32
}

// Valid returns whether the reference refers to an expression.
func (r ExprRef) Valid() bool {
	return r.Kind != ExprNone
}

// IsTerm returns whether the referenced expression is a term: an integer
// literal, an identifier, or a parenthesized expression.
func (r ExprRef) IsTerm() bool {
	switch r.Kind {
	case ExprIntLit, ExprIdent, ExprParen:
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------

// IntLit is an integer literal term.
type IntLit struct {
	ASTBase

	// The digits of the literal as they appear in source.
	Value string
}

// Ident is an identifier term.
type Ident struct {
	ASTBase

	Name string
}

// Paren is a parenthesized expression.
type Paren struct {
	ASTBase

	Inner ExprRef
}

// Enumeration of binary operators.
const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv
)

// opSymbols maps binary operators to their source symbols.
var opSymbols = map[int]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
}

// OpSymbol returns the source symbol of a binary operator.
func OpSymbol(op int) string {
	return opSymbols[op]
}

// Binary is a binary operator application.
type Binary struct {
	ASTBase

	// The operator being applied.  This must be one of the enumerated binary
	// operators.
	Op int

	Lhs, Rhs ExprRef
}

// -----------------------------------------------------------------------------

// NewIntLit adds an integer literal to the tree.
func (t *Tree) NewIntLit(value string, span *report.TextSpan) (ExprRef, error) {
	ndx, err := alloc(t.intLits, IntLit{ASTBase: NewASTBaseOn(span), Value: value})
	return newExprRef(ExprIntLit, ndx, err)
}

// NewIdent adds an identifier to the tree.
func (t *Tree) NewIdent(name string, span *report.TextSpan) (ExprRef, error) {
	ndx, err := alloc(t.idents, Ident{ASTBase: NewASTBaseOn(span), Name: name})
	return newExprRef(ExprIdent, ndx, err)
}

// NewParen adds a parenthesized expression to the tree.
func (t *Tree) NewParen(inner ExprRef, span *report.TextSpan) (ExprRef, error) {
	ndx, err := alloc(t.parens, Paren{ASTBase: NewASTBaseOn(span), Inner: inner})
	return newExprRef(ExprParen, ndx, err)
}

// NewBinary adds a binary operator application to the tree.  Its span covers
// both of its operands.
func (t *Tree) NewBinary(op int, lhs, rhs ExprRef) (ExprRef, error) {
	base := NewASTBaseOn(nil)
	if start, end := t.ExprSpan(lhs), t.ExprSpan(rhs); start != nil && end != nil {
		base = NewASTBaseOver(start, end)
	}

	ndx, err := alloc(t.binaries, Binary{ASTBase: base, Op: op, Lhs: lhs, Rhs: rhs})
	return newExprRef(ExprBinary, ndx, err)
}

// -----------------------------------------------------------------------------

// IntLit returns the integer literal referred to by r.
func (t *Tree) IntLit(r ExprRef) *IntLit {
	t.checkExpr(r, ExprIntLit)
	return t.intLits.Get(int(r.index))
}

// Ident returns the identifier referred to by r.
func (t *Tree) Ident(r ExprRef) *Ident {
	t.checkExpr(r, ExprIdent)
	return t.idents.Get(int(r.index))
}

// Paren returns the parenthesized expression referred to by r.
func (t *Tree) Paren(r ExprRef) *Paren {
	t.checkExpr(r, ExprParen)
	return t.parens.Get(int(r.index))
}

// Binary returns the binary operator application referred to by r.
func (t *Tree) Binary(r ExprRef) *Binary {
	t.checkExpr(r, ExprBinary)
	return t.binaries.Get(int(r.index))
}

// ExprSpan returns the span of the expression referred to by r.
func (t *Tree) ExprSpan(r ExprRef) *report.TextSpan {
	switch r.Kind {
	case ExprIntLit:
		return t.IntLit(r).Span()
	case ExprIdent:
		return t.Ident(r).Span()
	case ExprParen:
		return t.Paren(r).Span()
	case ExprBinary:
		return t.Binary(r).Span()
	default:
		return nil
	}
}

func (t *Tree) checkExpr(r ExprRef, kind int) {
	if r.Kind != kind {
		panic(fmt.Sprintf("ast: expression of kind %d used as kind %d", r.Kind, kind))
	}
}
