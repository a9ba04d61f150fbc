package ast

import (
	"errors"
	"testing"

	"quartz/arena"
	"quartz/report"
)

func newTestTree(t *testing.T, size int) *Tree {
	t.Helper()

	a := arena.New(size)
	if err := a.Init(); err != nil {
		t.Fatal(err)
	}

	return NewTree(a)
}

// exprChecker returns a function that unwraps the result of an expression
// constructor, failing the test on error.
func exprChecker(t *testing.T) func(ExprRef, error) ExprRef {
	return func(r ExprRef, err error) ExprRef {
		t.Helper()

		if err != nil {
			t.Fatal(err)
		}

		return r
	}
}

// stmtChecker is the statement equivalent of exprChecker.
func stmtChecker(t *testing.T) func(StmtRef, error) StmtRef {
	return func(r StmtRef, err error) StmtRef {
		t.Helper()

		if err != nil {
			t.Fatal(err)
		}

		return r
	}
}

func TestBuildAndPrint(t *testing.T) {
	tree := newTestTree(t, 4096)
	mustExpr, mustStmt := exprChecker(t), stmtChecker(t)
	span := report.NewSpanAt(1, 1, 1)

	one := mustExpr(tree.NewIntLit("1", span))
	two := mustExpr(tree.NewIntLit("2", span))
	three := mustExpr(tree.NewIntLit("3", span))
	mul := mustExpr(tree.NewBinary(OpMul, two, three))
	add := mustExpr(tree.NewBinary(OpAdd, one, mul))

	decl := mustStmt(tree.NewVarDecl("x", "int", add, span))
	x := mustExpr(tree.NewIdent("x", span))
	paren := mustExpr(tree.NewParen(x, span))
	exit := mustStmt(tree.NewExit(paren, span))
	scope := mustStmt(tree.NewScope([]StmtRef{decl, exit}, span))
	ifStmt := mustStmt(tree.NewIf(one, scope, span))
	empty := mustStmt(tree.NewScope(nil, span))

	prog := &Program{Tree: tree, Stmts: []StmtRef{ifStmt, empty}}

	want := "(if 1 (scope (var x int (+ 1 (* 2 3))) (exit (paren x))))\n(scope)\n"
	if got := Print(prog); got != want {
		t.Errorf("Print:\n got: %q\nwant: %q", got, want)
	}

	if !one.IsTerm() || !paren.IsTerm() || add.IsTerm() {
		t.Error("IsTerm misclassifies expressions")
	}

	if tree.Binary(add).Op != OpAdd || tree.Binary(add).Rhs != mul {
		t.Error("binary links lost")
	}

	if got := PrintStmt(tree, decl); got != "(var x int (+ 1 (* 2 3)))" {
		t.Errorf("PrintStmt(decl) = %q", got)
	}

	if got := PrintStmt(tree, StmtRef{}); got != "(empty)" {
		t.Errorf("PrintStmt(empty) = %q", got)
	}
}

func TestBinarySpan(t *testing.T) {
	tree := newTestTree(t, 1024)
	mustExpr := exprChecker(t)

	lhs := mustExpr(tree.NewIntLit("10", report.NewSpanAt(1, 6, 2)))
	rhs := mustExpr(tree.NewIdent("y", report.NewSpanAt(1, 11, 1)))
	bin := mustExpr(tree.NewBinary(OpSub, lhs, rhs))

	span := tree.ExprSpan(bin)
	if span == nil || span.StartCol != 6 || span.EndCol != 11 {
		t.Fatalf("binary span = %+v", span)
	}

	unplaced := mustExpr(tree.NewIntLit("1", nil))
	if span := tree.ExprSpan(mustExpr(tree.NewBinary(OpAdd, unplaced, lhs))); span != nil {
		t.Errorf("binary over an unplaced operand has span %+v", *span)
	}
}

func TestZeroRefs(t *testing.T) {
	var e ExprRef
	if e.Valid() || e.IsTerm() {
		t.Error("zero expression reference is valid")
	}

	var s StmtRef
	if !s.Empty() {
		t.Error("zero statement reference is not empty")
	}
}

func TestTreeOutOfMemory(t *testing.T) {
	tree := newTestTree(t, 1)

	if _, err := tree.NewIntLit("1", nil); !errors.Is(err, arena.ErrOutOfMemory) {
		t.Fatalf("got %v, want ErrOutOfMemory", err)
	}
}

func TestWrongKindPanics(t *testing.T) {
	tree := newTestTree(t, 1024)
	lit := exprChecker(t)(tree.NewIntLit("1", nil))

	defer func() {
		if recover() == nil {
			t.Fatal("reading a literal as an identifier did not panic")
		}
	}()

	tree.Ident(lit)
}
