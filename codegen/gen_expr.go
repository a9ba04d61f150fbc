package codegen

import (
	"fmt"
	"strconv"

	"quartz/ast"
	"quartz/report"
)

// genExpr generates an expression, leaving its value pushed on the stack.
func (g *Generator) genExpr(expr ast.ExprRef) error {
	switch expr.Kind {
	case ast.ExprIntLit:
		{
			lit := g.tree.IntLit(expr)

			// literals must fit in a 64 bit immediate
			if _, err := strconv.ParseUint(lit.Value, 10, 64); err != nil {
				return report.Raise(report.StageGenerate, lit.Span(), "integer literal out of range: %s", lit.Value)
			}

			g.emit("mov rax, %s", lit.Value)
			g.push("rax")
		}
	case ast.ExprIdent:
		{
			ident := g.tree.Ident(expr)

			v, ok := g.stack.lookup(ident.Name)
			if !ok {
				return report.Raise(report.StageGenerate, ident.Span(), "undeclared variable: %s", ident.Name)
			}

			g.push(fmtStackOperand(g.stack.offsetOf(v)))
		}
	case ast.ExprParen:
		return g.genExpr(g.tree.Paren(expr).Inner)
	case ast.ExprBinary:
		return g.genBinary(g.tree.Binary(expr))
	default:
		return report.Raise(report.StageGenerate, nil, "missing expression")
	}

	return nil
}

// genBinary generates a binary operator application.  The right operand is
// evaluated before the left so that the left operand ends up on top of the
// stack and is popped into rax.
func (g *Generator) genBinary(bin *ast.Binary) error {
	if err := g.genExpr(bin.Rhs); err != nil {
		return err
	}

	if err := g.genExpr(bin.Lhs); err != nil {
		return err
	}

	g.pop("rax")
	g.pop("rbx")

	switch bin.Op {
	case ast.OpAdd:
		g.emit("add rax, rbx")
	case ast.OpSub:
		g.emit("sub rax, rbx")
	case ast.OpMul:
		g.emit("imul rbx")
	case ast.OpDiv:
		g.emit("mov rdx, 0")
		g.emit("div rbx")
	}

	g.push("rax")
	return nil
}

// fmtStackOperand formats a memory operand addressing the slot offset bytes
// above the top of the stack.
func fmtStackOperand(offset int) string {
	return fmt.Sprintf("QWORD [rsp + %d]", offset)
}
