// Package ast defines the abstract syntax tree of a Quartz program.  Nodes are
// stored in arena-backed slabs owned by a Tree and link to each other through
// tagged references rather than pointers.  A tree is built once by the parser,
// read once by a generator, and dies with the arena it was allocated in.
package ast

import (
	"quartz/arena"
	"quartz/report"
)

// ASTBase is the base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// Program is the root of a Quartz syntax tree: an ordered list of top-level
// statements along with the tree storing them.
type Program struct {
	// The tree holding every node of the program.
	Tree *Tree

	// The top-level statements of the program in source order.
	Stmts []StmtRef
}

// Tree stores the nodes of a single syntax tree.  There is one slab per node
// kind, all charged against the same arena.
type Tree struct {
	intLits  *arena.Slab[IntLit]
	idents   *arena.Slab[Ident]
	parens   *arena.Slab[Paren]
	binaries *arena.Slab[Binary]

	exits    *arena.Slab[Exit]
	varDecls *arena.Slab[VarDecl]
	scopes   *arena.Slab[Scope]
	ifs      *arena.Slab[If]
}

// NewTree creates a new tree whose nodes are allocated in a.  The arena must
// be initialized before any nodes are added.
func NewTree(a *arena.Arena) *Tree {
	return &Tree{
		intLits:  arena.NewSlab[IntLit](a),
		idents:   arena.NewSlab[Ident](a),
		parens:   arena.NewSlab[Paren](a),
		binaries: arena.NewSlab[Binary](a),
		exits:    arena.NewSlab[Exit](a),
		varDecls: arena.NewSlab[VarDecl](a),
		scopes:   arena.NewSlab[Scope](a),
		ifs:      arena.NewSlab[If](a),
	}
}

// alloc places v in the slab s and returns its index.
func alloc[T any](s *arena.Slab[T], v T) (int32, error) {
	h, err := s.Alloc(v)
	if err != nil {
		return 0, err
	}

	return int32(h.Index()), nil
}

// newExprRef builds a reference to a freshly allocated expression, returning
// the zero reference if the allocation failed.
func newExprRef(kind int, ndx int32, err error) (ExprRef, error) {
	if err != nil {
		return ExprRef{}, err
	}

	return ExprRef{Kind: kind, index: ndx}, nil
}

// newStmtRef is the statement equivalent of newExprRef.
func newStmtRef(kind int, ndx int32, err error) (StmtRef, error) {
	if err != nil {
		return StmtRef{}, err
	}

	return StmtRef{Kind: kind, index: ndx}, nil
}
