package codegen

// Variable is a variable living on the runtime stack.
type Variable struct {
	Name string

	// The depth of the virtual stack at the moment the variable's value was
	// pushed: ie. the number of slots beneath it.
	Location int
}

// Stack tracks the state of the runtime stack at compile time: how many
// slots are pushed and which of them hold named variables.  Variables are
// kept in declaration order and the scope marks record how many of them
// existed when each scope was entered.
type Stack struct {
	size  int
	vars  []Variable
	marks []int
}

// Size returns the number of 8 byte slots currently pushed.
func (s *Stack) Size() int {
	return s.size
}

// lookup finds the innermost visible variable with the given name.
func (s *Stack) lookup(name string) (Variable, bool) {
	for i := len(s.vars) - 1; i >= 0; i-- {
		if s.vars[i].Name == name {
			return s.vars[i], true
		}
	}

	return Variable{}, false
}

// definedInScope returns whether a variable with the given name has been
// declared in the innermost scope.
func (s *Stack) definedInScope(name string) bool {
	for _, v := range s.vars[s.currentMark():] {
		if v.Name == name {
			return true
		}
	}

	return false
}

// declare records a variable whose value sits at the given location.
func (s *Stack) declare(name string, loc int) {
	s.vars = append(s.vars, Variable{Name: name, Location: loc})
}

// offsetOf returns the byte offset of v from the top of the stack.
func (s *Stack) offsetOf(v Variable) int {
	return 8 * (s.size - v.Location - 1)
}

// pushScope enters a new scope.
func (s *Stack) pushScope() {
	s.marks = append(s.marks, len(s.vars))
}

// popScope leaves the innermost scope, discarding its variables.  It returns
// the number of variables discarded: the caller is responsible for popping
// their slots.
func (s *Stack) popScope() int {
	mark := s.currentMark()
	s.marks = s.marks[:len(s.marks)-1]

	n := len(s.vars) - mark
	s.vars = s.vars[:mark]
	s.size -= n

	return n
}

// currentMark returns the number of variables declared outside the innermost
// scope.
func (s *Stack) currentMark() int {
	if len(s.marks) == 0 {
		return 0
	}

	return s.marks[len(s.marks)-1]
}
