package vm

import (
	"errors"
	"fmt"
	"math/bits"
)

// Faults raised while executing a program.
var (
	ErrDivideByZero   = errors.New("division by zero")
	ErrDivideOverflow = errors.New("quotient does not fit in 64 bits")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrBadAddress     = errors.New("memory access outside the stack")
	ErrBadSyscall     = errors.New("unsupported system call")
	ErrBadOperand     = errors.New("invalid operand")
	ErrStepLimit      = errors.New("step limit exceeded")
	ErrFellOffEnd     = errors.New("execution ran past the last instruction")
)

// The syscall number of exit on x86-64 Linux.
const sysExit = 60

// Default limits of a machine.
const (
	DefaultStackSlots = 1 << 16
	DefaultMaxSteps   = 1_000_000
)

// Result is the outcome of running a program to completion.
type Result struct {
	// The exit status of the process: the low byte of rdi at exit.
	ExitCode int

	// The full value of rdi at exit.
	Status uint64

	// The number of instructions executed.
	Steps int
}

// Machine executes a loaded program.  The stack is modelled as an array of 8
// byte slots with rsp holding a byte address into it.  Machines are not safe
// for concurrent use.
type Machine struct {
	prog *Program

	regs  [numRegisters]uint64
	stack []uint64
	zf    bool
	pc    int
	steps int

	// MaxSteps bounds the number of instructions Run will execute.
	MaxSteps int
}

// NewMachine creates a machine ready to run prog from its entry point.
func NewMachine(prog *Program) *Machine {
	m := &Machine{
		prog:     prog,
		stack:    make([]uint64, DefaultStackSlots),
		pc:       prog.Entry,
		MaxSteps: DefaultMaxSteps,
	}

	m.regs[RSP] = uint64(len(m.stack) * 8)
	return m
}

// Run loads and executes asm, returning its result.
func Run(asm string) (*Result, error) {
	prog, err := Load(asm)
	if err != nil {
		return nil, err
	}

	return NewMachine(prog).Run()
}

// Run executes the program until it exits or faults.
func (m *Machine) Run() (*Result, error) {
	for {
		if m.pc >= len(m.prog.Instrs) {
			return nil, ErrFellOffEnd
		}

		if m.steps >= m.MaxSteps {
			return nil, fmt.Errorf("%w: %d instructions", ErrStepLimit, m.MaxSteps)
		}

		instr := m.prog.Instrs[m.pc]
		m.pc++
		m.steps++

		result, err := m.step(instr)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", instr.Line, err)
		} else if result != nil {
			return result, nil
		}
	}
}

// Register returns the current value of a register.
func (m *Machine) Register(reg int) uint64 {
	return m.regs[reg]
}

// -----------------------------------------------------------------------------

// step executes a single instruction.  It returns a result if the instruction
// ended the program.
func (m *Machine) step(instr Instr) (*Result, error) {
	ops := instr.Operands

	switch instr.Op {
	case OpMov:
		val, err := m.read(ops[1])
		if err != nil {
			return nil, err
		}

		return nil, m.writeReg(ops[0], val)
	case OpPush:
		val, err := m.read(ops[0])
		if err != nil {
			return nil, err
		}

		return nil, m.push(val)
	case OpPop:
		val, err := m.pop()
		if err != nil {
			return nil, err
		}

		return nil, m.writeReg(ops[0], val)
	case OpAdd, OpSub:
		lhs, err := m.read(ops[0])
		if err != nil {
			return nil, err
		}

		rhs, err := m.read(ops[1])
		if err != nil {
			return nil, err
		}

		if instr.Op == OpAdd {
			return nil, m.writeReg(ops[0], lhs+rhs)
		}

		return nil, m.writeReg(ops[0], lhs-rhs)
	case OpImul:
		src, err := m.read(ops[0])
		if err != nil {
			return nil, err
		}

		m.regs[RDX], m.regs[RAX] = mulSigned(m.regs[RAX], src)
	case OpDiv:
		src, err := m.read(ops[0])
		if err != nil {
			return nil, err
		}

		if src == 0 {
			return nil, ErrDivideByZero
		} else if m.regs[RDX] >= src {
			return nil, ErrDivideOverflow
		}

		m.regs[RAX], m.regs[RDX] = bits.Div64(m.regs[RDX], m.regs[RAX], src)
	case OpTest:
		lhs, err := m.read(ops[0])
		if err != nil {
			return nil, err
		}

		rhs, err := m.read(ops[1])
		if err != nil {
			return nil, err
		}

		m.zf = lhs&rhs == 0
	case OpJz:
		if m.zf {
			m.pc = m.prog.Labels[ops[0].Label]
		}
	case OpJmp:
		m.pc = m.prog.Labels[ops[0].Label]
	case OpSyscall:
		if m.regs[RAX] != sysExit {
			return nil, fmt.Errorf("%w: %d", ErrBadSyscall, m.regs[RAX])
		}

		return &Result{
			ExitCode: int(m.regs[RDI] & 0xff),
			Status:   m.regs[RDI],
			Steps:    m.steps,
		}, nil
	}

	return nil, nil
}

// mulSigned returns the high and low words of the signed 128 bit product of a
// and b.
func mulSigned(a, b uint64) (hi, lo uint64) {
	hi, lo = bits.Mul64(a, b)

	if int64(a) < 0 {
		hi -= b
	}

	if int64(b) < 0 {
		hi -= a
	}

	return
}

// -----------------------------------------------------------------------------

// read returns the value of a register, immediate or memory operand.
func (m *Machine) read(op Operand) (uint64, error) {
	switch op.Kind {
	case OperandReg:
		return m.regs[op.Reg], nil
	case OperandImm:
		return uint64(op.Imm), nil
	case OperandMem:
		slot, err := m.slotAt(m.regs[RSP] + uint64(op.Imm))
		if err != nil {
			return 0, err
		}

		return m.stack[slot], nil
	default:
		return 0, ErrBadOperand
	}
}

// writeReg stores val in a register operand.
func (m *Machine) writeReg(op Operand, val uint64) error {
	if op.Kind != OperandReg {
		return ErrBadOperand
	}

	m.regs[op.Reg] = val
	return nil
}

// push pushes val onto the stack.
func (m *Machine) push(val uint64) error {
	if m.regs[RSP] < 8 {
		return ErrStackOverflow
	}

	slot, err := m.slotAt(m.regs[RSP] - 8)
	if err != nil {
		return err
	}

	m.regs[RSP] -= 8
	m.stack[slot] = val
	return nil
}

// pop pops the top of the stack.
func (m *Machine) pop() (uint64, error) {
	if m.regs[RSP] >= uint64(len(m.stack)*8) {
		return 0, ErrStackUnderflow
	}

	slot, err := m.slotAt(m.regs[RSP])
	if err != nil {
		return 0, err
	}

	m.regs[RSP] += 8
	return m.stack[slot], nil
}

// slotAt converts a byte address into a stack slot index.
func (m *Machine) slotAt(addr uint64) (int, error) {
	if addr%8 != 0 || addr >= uint64(len(m.stack)*8) {
		return 0, fmt.Errorf("%w: %#x", ErrBadAddress, addr)
	}

	return int(addr / 8), nil
}
