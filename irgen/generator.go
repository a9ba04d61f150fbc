// Package irgen converts a Quartz syntax tree into an LLVM IR module.  Every
// variable is an i64 stack allocation and `exit` is lowered to a call to the C
// library's exit function.
package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"quartz/ast"
)

// Generator is responsible for converting a Quartz AST into LLVM IR.
// Generators are created once per program.
type Generator struct {
	// tree stores the nodes of the program being converted.
	tree *ast.Tree

	// prog is the program being converted.
	prog *ast.Program

	// mod is the LLVM module being generated.
	mod *ir.Module

	// exitFunc is the external declaration of `exit`.
	exitFunc *ir.Func

	// mainFunc is the function the program's statements are generated into.
	mainFunc *ir.Func

	// varBlock is the entry block of main: all variables are allocated in it.
	varBlock *ir.Block

	// block stores the current block being generated.
	block *ir.Block

	// localScopes is the stack of local scopes used during generation.  Each
	// scope maps variable names to their allocations.
	localScopes []map[string]value.Value
}

// NewGenerator creates a new generator for the given program.
func NewGenerator(prog *ast.Program) *Generator {
	return &Generator{
		tree: prog.Tree,
		prog: prog,
		mod:  ir.NewModule(),
	}
}

// Generate converts a program into an LLVM module.
func Generate(prog *ast.Program) (*ir.Module, error) {
	return NewGenerator(prog).Generate()
}

// Generate runs the generator.  A generator can only be run once.
func (g *Generator) Generate() (*ir.Module, error) {
	g.exitFunc = g.mod.NewFunc("exit", types.Void, ir.NewParam("status", types.I32))
	g.mainFunc = g.mod.NewFunc("main", types.I32)

	g.varBlock = g.mainFunc.NewBlock("entry")
	firstBlock := g.appendBlock()
	g.block = firstBlock

	g.pushScope()
	for _, stmt := range g.prog.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return nil, err
		}
	}
	g.popScope()

	// Programs which fall off the end exit successfully.
	if g.block.Term == nil {
		g.block.NewRet(constInt(types.I32, 0))
	}

	// All allocations are placed before the first code block.
	g.varBlock.NewBr(firstBlock)

	return g.mod, nil
}

// -----------------------------------------------------------------------------

// appendBlock adds a new block to the end of main.
func (g *Generator) appendBlock() *ir.Block {
	return g.mainFunc.NewBlock(fmt.Sprintf("bb%d", len(g.mainFunc.Blocks)))
}

// pushScope pushes a new local scope.
func (g *Generator) pushScope() {
	g.localScopes = append(g.localScopes, make(map[string]value.Value))
}

// popScope pops the innermost local scope.
func (g *Generator) popScope() {
	g.localScopes = g.localScopes[:len(g.localScopes)-1]
}

// defineLocal defines a variable in the innermost scope.  It returns false if
// a variable with the same name is already defined there.
func (g *Generator) defineLocal(name string, val value.Value) bool {
	scope := g.localScopes[len(g.localScopes)-1]
	if _, ok := scope[name]; ok {
		return false
	}

	scope[name] = val
	return true
}

// lookup finds the allocation of the innermost visible variable named name.
func (g *Generator) lookup(name string) (value.Value, bool) {
	for i := len(g.localScopes) - 1; i >= 0; i-- {
		if val, ok := g.localScopes[i][name]; ok {
			return val, true
		}
	}

	return nil, false
}
