package ast

import (
	"strings"
)

// Print renders a program as a list of S-expressions, one top-level statement
// per line: eg. `var x: int = 1 + 2 * 3;` prints as `(var x int (+ 1 (* 2 3)))`.
func Print(prog *Program) string {
	sb := &strings.Builder{}
	for _, stmt := range prog.Stmts {
		printStmt(sb, prog.Tree, stmt)
		sb.WriteRune('\n')
	}

	return sb.String()
}

// PrintStmt renders a single statement as an S-expression.
func PrintStmt(t *Tree, r StmtRef) string {
	sb := &strings.Builder{}
	printStmt(sb, t, r)
	return sb.String()
}

// -----------------------------------------------------------------------------

func printStmt(sb *strings.Builder, t *Tree, r StmtRef) {
	switch r.Kind {
	case StmtExit:
		sb.WriteString("(exit ")
		printExpr(sb, t, t.Exit(r).Expr)
		sb.WriteRune(')')
	case StmtVarDecl:
		vd := t.VarDecl(r)
		sb.WriteString("(var ")
		sb.WriteString(vd.Name)
		sb.WriteRune(' ')
		sb.WriteString(vd.TypeName)
		sb.WriteRune(' ')
		printExpr(sb, t, vd.Init)
		sb.WriteRune(')')
	case StmtScope:
		sb.WriteString("(scope")
		for _, stmt := range t.Scope(r).Stmts {
			sb.WriteRune(' ')
			printStmt(sb, t, stmt)
		}
		sb.WriteRune(')')
	case StmtIf:
		ifStmt := t.If(r)
		sb.WriteString("(if ")
		printExpr(sb, t, ifStmt.Cond)
		sb.WriteRune(' ')
		printStmt(sb, t, ifStmt.Then)
		sb.WriteRune(')')
	default:
		sb.WriteString("(empty)")
	}
}

func printExpr(sb *strings.Builder, t *Tree, r ExprRef) {
	switch r.Kind {
	case ExprIntLit:
		sb.WriteString(t.IntLit(r).Value)
	case ExprIdent:
		sb.WriteString(t.Ident(r).Name)
	case ExprParen:
		sb.WriteString("(paren ")
		printExpr(sb, t, t.Paren(r).Inner)
		sb.WriteRune(')')
	case ExprBinary:
		bin := t.Binary(r)
		sb.WriteRune('(')
		sb.WriteString(OpSymbol(bin.Op))
		sb.WriteRune(' ')
		printExpr(sb, t, bin.Lhs)
		sb.WriteRune(' ')
		printExpr(sb, t, bin.Rhs)
		sb.WriteRune(')')
	default:
		sb.WriteString("<none>")
	}
}
