package emitter

import "github.com/cubent-lang/cubent/internal/ast"

// typeStack is the compile-time mirror of the runtime Stack: it tracks
// the CubentType of each value an opcode would push, so every opcode
// handler can check its operands before any line is emitted.
type typeStack struct {
	types []ast.CubentType
}

func newTypeStack() *typeStack {
	return &typeStack{}
}

func (s *typeStack) push(t ast.CubentType) {
	s.types = append(s.types, t)
}

func (s *typeStack) pop() (ast.CubentType, bool) {
	if len(s.types) == 0 {
		return "", false
	}
	t := s.types[len(s.types)-1]
	s.types = s.types[:len(s.types)-1]
	return t, true
}

func (s *typeStack) peek() (ast.CubentType, bool) {
	if len(s.types) == 0 {
		return "", false
	}
	return s.types[len(s.types)-1], true
}

func (s *typeStack) empty() bool { return len(s.types) == 0 }
func (s *typeStack) len() int    { return len(s.types) }
