// Package vm simulates the subset of x86-64 NASM assembly emitted by the
// code generator so that compiled programs can be run and their exit
// statuses checked without an assembler, a linker or a Linux host.
package vm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Enumeration of supported instructions.
const (
	OpMov = iota
	OpPush
	OpPop
	OpAdd
	OpSub
	OpImul
	OpDiv
	OpTest
	OpJz
	OpJmp
	OpSyscall
)

// mnemonics maps instruction mnemonics to their ops and operand counts.
var mnemonics = map[string]struct {
	op, nOperands int
}{
	"mov":     {OpMov, 2},
	"push":    {OpPush, 1},
	"pop":     {OpPop, 1},
	"add":     {OpAdd, 2},
	"sub":     {OpSub, 2},
	"imul":    {OpImul, 1},
	"div":     {OpDiv, 1},
	"test":    {OpTest, 2},
	"jz":      {OpJz, 1},
	"jmp":     {OpJmp, 1},
	"syscall": {OpSyscall, 0},
}

// Enumeration of registers.
const (
	RAX = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	RSP
	numRegisters
)

var registerNames = map[string]int{
	"rax": RAX,
	"rbx": RBX,
	"rcx": RCX,
	"rdx": RDX,
	"rsi": RSI,
	"rdi": RDI,
	"rsp": RSP,
}

// Enumeration of operand kinds.
const (
	OperandReg = iota
	OperandImm
	OperandMem
	OperandLabel
)

// Operand is a single instruction operand.
type Operand struct {
	// The kind of the operand.  This must be one of the enumerated operand
	// kinds.
	Kind int

	// The register of a register operand.
	Reg int

	// The value of an immediate operand or the displacement from rsp of a
	// memory operand.
	Imm int64

	// The target of a label operand.
	Label string
}

// Instr is a single decoded instruction.
type Instr struct {
	Op       int
	Operands []Operand

	// The source line the instruction was read from.
	Line int
}

// Program is a loaded assembly program.
type Program struct {
	Instrs []Instr

	// Labels maps label names to the index of the instruction they precede.
	Labels map[string]int

	// Entry is the index of the first instruction to execute.
	Entry int
}

// ErrUnknownLabel is returned when a jump targets a label that is never
// defined.
var ErrUnknownLabel = errors.New("unknown label")

// Load parses assembly text into a program.
func Load(asm string) (*Program, error) {
	prog := &Program{Labels: make(map[string]int)}

	for i, raw := range strings.Split(asm, "\n") {
		lineNo := i + 1

		line := raw
		if ndx := strings.IndexRune(line, ';'); ndx >= 0 {
			line = line[:ndx]
		}
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		// Directives have no effect on execution.
		if fields := strings.Fields(line); fields[0] == "global" || fields[0] == "section" {
			continue
		}

		if strings.HasSuffix(line, ":") {
			label := strings.TrimSuffix(line, ":")
			if _, exists := prog.Labels[label]; exists {
				return nil, fmt.Errorf("duplicate label '%s' on line %d", label, lineNo)
			}

			prog.Labels[label] = len(prog.Instrs)
			continue
		}

		instr, err := parseInstr(line, lineNo)
		if err != nil {
			return nil, err
		}

		prog.Instrs = append(prog.Instrs, instr)
	}

	for _, instr := range prog.Instrs {
		for _, operand := range instr.Operands {
			if operand.Kind != OperandLabel {
				continue
			}

			if _, ok := prog.Labels[operand.Label]; !ok {
				return nil, fmt.Errorf("line %d: %w: %s", instr.Line, ErrUnknownLabel, operand.Label)
			}
		}
	}

	if entry, ok := prog.Labels["_start"]; ok {
		prog.Entry = entry
	}

	return prog, nil
}

// parseInstr parses a single instruction line.
func parseInstr(line string, lineNo int) (Instr, error) {
	mnemonic, rest, _ := strings.Cut(line, " ")
	mnemonic = strings.ToLower(mnemonic)

	info, ok := mnemonics[mnemonic]
	if !ok {
		return Instr{}, fmt.Errorf("unknown instruction on line %d: %s", lineNo, mnemonic)
	}

	var rawOperands []string
	if rest = strings.TrimSpace(rest); rest != "" {
		rawOperands = strings.Split(rest, ",")
	}

	if len(rawOperands) != info.nOperands {
		return Instr{}, fmt.Errorf("%s expects %d operands on line %d", mnemonic, info.nOperands, lineNo)
	}

	instr := Instr{Op: info.op, Line: lineNo}
	for _, raw := range rawOperands {
		var (
			operand Operand
			err     error
		)

		if info.op == OpJz || info.op == OpJmp {
			operand = Operand{Kind: OperandLabel, Label: strings.TrimSpace(raw)}
		} else if operand, err = parseOperand(raw, lineNo); err != nil {
			return Instr{}, err
		}

		instr.Operands = append(instr.Operands, operand)
	}

	return instr, nil
}

// parseOperand parses a register, immediate or memory operand.
func parseOperand(raw string, lineNo int) (Operand, error) {
	text := strings.ToLower(strings.TrimSpace(raw))

	if reg, ok := registerNames[text]; ok {
		return Operand{Kind: OperandReg, Reg: reg}, nil
	}

	if strings.HasPrefix(text, "qword") || strings.HasPrefix(text, "[") {
		return parseMemOperand(strings.TrimSpace(strings.TrimPrefix(text, "qword")), lineNo)
	}

	imm, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Literals beyond the signed range still fit in a register.
		uimm, uerr := strconv.ParseUint(text, 10, 64)
		if uerr != nil {
			return Operand{}, fmt.Errorf("invalid operand on line %d: %s", lineNo, raw)
		}

		imm = int64(uimm)
	}

	return Operand{Kind: OperandImm, Imm: imm}, nil
}

// parseMemOperand parses a memory operand of the form `[rsp]` or
// `[rsp + N]`.  Only rsp-relative addressing is supported.
func parseMemOperand(text string, lineNo int) (Operand, error) {
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return Operand{}, fmt.Errorf("invalid memory operand on line %d: %s", lineNo, text)
	}

	inner := strings.TrimSpace(text[1 : len(text)-1])
	base, disp, hasDisp := strings.Cut(inner, "+")

	if strings.TrimSpace(base) != "rsp" {
		return Operand{}, fmt.Errorf("unsupported base register on line %d: %s", lineNo, base)
	}

	operand := Operand{Kind: OperandMem}
	if hasDisp {
		n, err := strconv.ParseInt(strings.TrimSpace(disp), 0, 64)
		if err != nil {
			return Operand{}, fmt.Errorf("invalid displacement on line %d: %s", lineNo, disp)
		}

		operand.Imm = n
	}

	return operand, nil
}
