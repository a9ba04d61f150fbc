package ast

import (
	"fmt"

	"quartz/report"
)

// Enumeration of statement kinds.  The zero kind is the empty statement: a
// parse placeholder which never appears in a complete program.
const (
	StmtEmpty = iota
	StmtExit
	StmtVarDecl
	StmtScope
	StmtIf
)

// StmtRef is a tagged reference to a statement node in a Tree.
type StmtRef struct {
	// The kind of the referenced statement.  This must be one of the
	// enumerated statement kinds.
	Kind int

	index int32
}

// Empty returns whether r is the empty statement.
func (r StmtRef) Empty() bool {
	return r.Kind == StmtEmpty
}

// -----------------------------------------------------------------------------

// Exit is an `exit(e);` statement.
type Exit struct {
	ASTBase

	// The exit status of the program.
	Expr ExprRef
}

// VarDecl is a `var x: int = e;` statement.
type VarDecl struct {
	ASTBase

	Name string

	// The declared type name: always `int` in a well-formed program.
	TypeName string

	// The initializer of the variable.
	Init ExprRef
}

// Scope is a `{ ... }` block.
type Scope struct {
	ASTBase

	Stmts []StmtRef
}

// If is an `if (cond) stmt` statement.
type If struct {
	ASTBase

	Cond ExprRef
	Then StmtRef
}

// -----------------------------------------------------------------------------

// NewExit adds an exit statement to the tree.
func (t *Tree) NewExit(expr ExprRef, span *report.TextSpan) (StmtRef, error) {
	ndx, err := alloc(t.exits, Exit{ASTBase: NewASTBaseOn(span), Expr: expr})
	return newStmtRef(StmtExit, ndx, err)
}

// NewVarDecl adds a variable declaration to the tree.
func (t *Tree) NewVarDecl(name, typeName string, init ExprRef, span *report.TextSpan) (StmtRef, error) {
	ndx, err := alloc(t.varDecls, VarDecl{
		ASTBase:  NewASTBaseOn(span),
		Name:     name,
		TypeName: typeName,
		Init:     init,
	})
	return newStmtRef(StmtVarDecl, ndx, err)
}

// NewScope adds a scope to the tree.
func (t *Tree) NewScope(stmts []StmtRef, span *report.TextSpan) (StmtRef, error) {
	ndx, err := alloc(t.scopes, Scope{ASTBase: NewASTBaseOn(span), Stmts: stmts})
	return newStmtRef(StmtScope, ndx, err)
}

// NewIf adds an if statement to the tree.
func (t *Tree) NewIf(cond ExprRef, then StmtRef, span *report.TextSpan) (StmtRef, error) {
	ndx, err := alloc(t.ifs, If{ASTBase: NewASTBaseOn(span), Cond: cond, Then: then})
	return newStmtRef(StmtIf, ndx, err)
}

// -----------------------------------------------------------------------------

// Exit returns the exit statement referred to by r.
func (t *Tree) Exit(r StmtRef) *Exit {
	t.checkStmt(r, StmtExit)
	return t.exits.Get(int(r.index))
}

// VarDecl returns the variable declaration referred to by r.
func (t *Tree) VarDecl(r StmtRef) *VarDecl {
	t.checkStmt(r, StmtVarDecl)
	return t.varDecls.Get(int(r.index))
}

// Scope returns the scope referred to by r.
func (t *Tree) Scope(r StmtRef) *Scope {
	t.checkStmt(r, StmtScope)
	return t.scopes.Get(int(r.index))
}

// If returns the if statement referred to by r.
func (t *Tree) If(r StmtRef) *If {
	t.checkStmt(r, StmtIf)
	return t.ifs.Get(int(r.index))
}

// StmtSpan returns the span of the statement referred to by r.
func (t *Tree) StmtSpan(r StmtRef) *report.TextSpan {
	switch r.Kind {
	case StmtExit:
		return t.Exit(r).Span()
	case StmtVarDecl:
		return t.VarDecl(r).Span()
	case StmtScope:
		return t.Scope(r).Span()
	case StmtIf:
		return t.If(r).Span()
	default:
		return nil
	}
}

func (t *Tree) checkStmt(r StmtRef, kind int) {
	if r.Kind != kind {
		panic(fmt.Sprintf("ast: statement of kind %d used as kind %d", r.Kind, kind))
	}
}
