package codegen

import (
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

// genStmts generates a list of statements in order.  The first statement
// following an exit in the same list is reported as unreachable; it is still
// generated.
func (g *Generator) genStmts(stmts []ast.StmtRef) error {
	exited := false
	for _, stmt := range stmts {
		if exited {
			g.warnings = append(g.warnings, report.Raise(report.StageGenerate, g.tree.StmtSpan(stmt), "unreachable statement"))
			exited = false
		} else if stmt.Kind == ast.StmtExit {
			exited = true
		}

		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}

	return nil
}

// genExit generates an exit statement: the value of its expression becomes
// the exit status of the process.
func (g *Generator) genExit(exit *ast.Exit) error {
	if err := g.genExpr(exit.Expr); err != nil {
		return err
	}

	g.emit("mov rax, 60")
	g.pop("rdi")
	g.emit("syscall")
	return nil
}

// genVarDecl generates a variable declaration.  The slot the initializer is
// pushed to becomes the variable's storage.
func (g *Generator) genVarDecl(vd *ast.VarDecl) error {
	if g.stack.definedInScope(vd.Name) {
		return report.Raise(report.StageGenerate, vd.Span(), "identifier already defined: %s", vd.Name)
	}

	loc := g.stack.size
	if err := g.genExpr(vd.Init); err != nil {
		return err
	}

	g.stack.declare(vd.Name, loc)
	return nil
}

// genScope generates a list of statements in a new scope, popping the
// variables declared in that scope once the statements have been generated.
func (g *Generator) genScope(stmts []ast.StmtRef) error {
	g.stack.pushScope()

	if err := g.genStmts(stmts); err != nil {
		return err
	}

	if n := g.stack.popScope(); n > 0 {
		g.emit("add rsp, %d", 8*n)
	}

	return nil
}

// genIf generates an if statement.  Its body is generated in its own scope so
// that a declaration in an unbraced body cannot outlive the jump around it.
func (g *Generator) genIf(ifStmt *ast.If) error {
	if err := g.genExpr(ifStmt.Cond); err != nil {
		return err
	}

	g.pop("rax")
	g.emit("test rax, rax")

	label := g.newLabel()
	g.emit("jz %s", label)

	if err := g.genScope([]ast.StmtRef{ifStmt.Then}); err != nil {
		return err
	}

	g.emitLabel(label)
	return nil
}
