// Package codegen converts a Quartz syntax tree into NASM assembly for x86-64
// Linux.  The generated code is a plain stack machine: every expression leaves
// its value in a single 8 byte slot on the runtime stack and every variable is
// the slot its initializer was pushed to.
package codegen

import (
	"fmt"
	"strings"

	"quartz/ast"
	"quartz/report"
)

// Generator is responsible for converting a Quartz AST into assembly text.
// Generators are created once per program.
type Generator struct {
	// tree stores the nodes of the program being converted.
	tree *ast.Tree

	// prog is the program being converted.
	prog *ast.Program

	// sb accumulates the generated assembly.
	sb *strings.Builder

	// stack is the compile-time model of the runtime stack.
	stack *Stack

	// labelCounter is used to mint unique jump labels.
	labelCounter int

	// warnings collects the non-fatal problems found while generating.
	warnings []*report.LocalCompileError
}

// NewGenerator creates a new generator for the given program.
func NewGenerator(prog *ast.Program) *Generator {
	return &Generator{
		tree:  prog.Tree,
		prog:  prog,
		sb:    &strings.Builder{},
		stack: &Stack{},
	}
}

// Generate converts a program into assembly text.
func Generate(prog *ast.Program) (string, error) {
	return NewGenerator(prog).Generate()
}

// Generate runs the generator.  A generator can only be run once.
func (g *Generator) Generate() (string, error) {
	g.sb.WriteString("global _start\n")
	g.sb.WriteString("_start:\n")

	if err := g.genStmts(g.prog.Stmts); err != nil {
		return "", err
	}

	// Programs which fall off the end exit successfully.
	g.emit("mov rax, 60")
	g.emit("mov rdi, 0")
	g.emit("syscall")

	return g.sb.String(), nil
}

// Warnings returns the warnings produced by the last call to Generate.
func (g *Generator) Warnings() []*report.LocalCompileError {
	return g.warnings
}

// -----------------------------------------------------------------------------

// emit writes a single instruction.
func (g *Generator) emit(format string, args ...interface{}) {
	g.sb.WriteString("    ")
	fmt.Fprintf(g.sb, format, args...)
	g.sb.WriteRune('\n')
}

// emitLabel writes a label definition.
func (g *Generator) emitLabel(label string) {
	g.sb.WriteString(label)
	g.sb.WriteString(":\n")
}

// newLabel mints a new unique label.
func (g *Generator) newLabel() string {
	label := fmt.Sprintf("label%d", g.labelCounter)
	g.labelCounter++
	return label
}

// push pushes a register or memory operand onto the stack.
func (g *Generator) push(operand string) {
	g.emit("push %s", operand)
	g.stack.size++
}

// pop pops the top of the stack into a register.
func (g *Generator) pop(reg string) {
	g.emit("pop %s", reg)
	g.stack.size--
}
