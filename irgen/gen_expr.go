package irgen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"quartz/ast"
	"quartz/report"
)

// genExpr generates an expression and returns its i64 value.
func (g *Generator) genExpr(expr ast.ExprRef) (value.Value, error) {
	switch expr.Kind {
	case ast.ExprIntLit:
		{
			lit := g.tree.IntLit(expr)

			val, err := constant.NewIntFromString(types.I64, lit.Value)
			if err != nil {
				return nil, report.Wrap(report.StageGenerate, lit.Span(), err, "invalid integer literal")
			}

			return val, nil
		}
	case ast.ExprIdent:
		{
			ident := g.tree.Ident(expr)

			varPtr, ok := g.lookup(ident.Name)
			if !ok {
				return nil, report.Raise(report.StageGenerate, ident.Span(), "undeclared variable: %s", ident.Name)
			}

			return g.block.NewLoad(types.I64, varPtr), nil
		}
	case ast.ExprParen:
		return g.genExpr(g.tree.Paren(expr).Inner)
	case ast.ExprBinary:
		return g.genBinary(g.tree.Binary(expr))
	default:
		return nil, report.Raise(report.StageGenerate, nil, "missing expression")
	}
}

// genBinary generates a binary operator application.  As in the assembly
// backend, the right operand is evaluated first.
func (g *Generator) genBinary(bin *ast.Binary) (value.Value, error) {
	rhs, err := g.genExpr(bin.Rhs)
	if err != nil {
		return nil, err
	}

	lhs, err := g.genExpr(bin.Lhs)
	if err != nil {
		return nil, err
	}

	switch bin.Op {
	case ast.OpAdd:
		return g.block.NewAdd(lhs, rhs), nil
	case ast.OpSub:
		return g.block.NewSub(lhs, rhs), nil
	case ast.OpMul:
		return g.block.NewMul(lhs, rhs), nil
	default:
		return g.block.NewUDiv(lhs, rhs), nil
	}
}

// constInt returns an integer constant of the given type.
func constInt(typ *types.IntType, x int64) *constant.Int {
	return constant.NewInt(typ, x)
}
