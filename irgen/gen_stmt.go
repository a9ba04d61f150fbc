package irgen

import (
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"quartz/ast"
	"quartz/report"
)

// genStmt generates a statement.
func (g *Generator) genStmt(stmt ast.StmtRef) error {
	switch stmt.Kind {
	case ast.StmtExit:
		return g.genExit(g.tree.Exit(stmt))
	case ast.StmtVarDecl:
		return g.genVarDecl(g.tree.VarDecl(stmt))
	case ast.StmtScope:
		return g.genScope(g.tree.Scope(stmt).Stmts)
	case ast.StmtIf:
		return g.genIf(g.tree.If(stmt))
	default:
		return report.Raise(report.StageGenerate, nil, "unexpected empty statement")
	}
}

// genExit generates an exit statement.  Since `exit` never returns, the
// current block is terminated and generation continues in a fresh block.
func (g *Generator) genExit(exit *ast.Exit) error {
	val, err := g.genExpr(exit.Expr)
	if err != nil {
		return err
	}

	g.block.NewCall(g.exitFunc, g.block.NewTrunc(val, types.I32))
	g.block.NewUnreachable()

	g.block = g.appendBlock()
	return nil
}

// genVarDecl generates a variable declaration.
func (g *Generator) genVarDecl(vd *ast.VarDecl) error {
	if _, ok := g.localScopes[len(g.localScopes)-1][vd.Name]; ok {
		return report.Raise(report.StageGenerate, vd.Span(), "identifier already defined: %s", vd.Name)
	}

	init, err := g.genExpr(vd.Init)
	if err != nil {
		return err
	}

	varPtr := g.varBlock.NewAlloca(types.I64)
	g.block.NewStore(init, varPtr)
	g.defineLocal(vd.Name, varPtr)
	return nil
}

// genScope generates a list of statements in a new local scope.
func (g *Generator) genScope(stmts []ast.StmtRef) error {
	g.pushScope()
	defer g.popScope()

	for _, stmt := range stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}

	return nil
}

// genIf generates an if statement.
func (g *Generator) genIf(ifStmt *ast.If) error {
	cond, err := g.genExpr(ifStmt.Cond)
	if err != nil {
		return err
	}

	thenBlock := g.appendBlock()
	exitBlock := g.appendBlock()

	isTrue := g.block.NewICmp(enum.IPredNE, cond, constInt(types.I64, 0))
	g.block.NewCondBr(isTrue, thenBlock, exitBlock)

	g.block = thenBlock
	if err := g.genScope([]ast.StmtRef{ifStmt.Then}); err != nil {
		return err
	}

	// Jump to the exit block if the body is not already terminated.
	if g.block.Term == nil {
		g.block.NewBr(exitBlock)
	}

	g.block = exitBlock
	return nil
}
