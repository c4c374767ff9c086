// Package scope implements the Emitter's lexical scope: a stack of
// frames, each mapping a variable name to its
// CubentType, with lookup walking from the innermost frame outward.
//
// Rather than a parent-pointer chain of heap-allocated nodes (the design
// that shape brings unnecessary ownership complexity),
// frames live in a flat arena-backed slice and "parenting" is just
// "everything below this stack index", mirroring the arena-plus-
// stack-index approach instead.
package scope

import "github.com/cubent-lang/cubent/internal/ast"

type frame map[string]ast.CubentType

// Scope is a stack of frames. The zero value is an empty scope with no
// frames; Push must be called before Declare.
type Scope struct {
	frames []frame
}

// New returns a scope with a single empty frame, as the Emitter does on
// entry to a UserFunction.
func New() *Scope {
	s := &Scope{}
	s.Push()
	return s
}

// Push opens a new, innermost frame (e.g. entering a function body or an
// if-block's child scope).
func (s *Scope) Push() {
	s.frames = append(s.frames, make(frame))
}

// Pop discards the innermost frame.
func (s *Scope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Declare binds name to typ in the innermost frame. It fails if name is
// already present in that frame ("Declaration succeeds iff the
// name is absent from the innermost frame").
func (s *Scope) Declare(name string, typ ast.CubentType) bool {
	top := s.frames[len(s.frames)-1]
	if _, exists := top[name]; exists {
		return false
	}
	top[name] = typ
	return true
}

// Lookup walks from the innermost frame outward and returns the type
// bound to name, if any.
func (s *Scope) Lookup(name string) (ast.CubentType, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if typ, ok := s.frames[i][name]; ok {
			return typ, true
		}
	}
	return "", false
}

// Names returns every variable name visible from the innermost frame
// outward, for "did you mean" suggestions on an undeclared-variable
// error. Shadowed names are only listed once (innermost wins).
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for i := len(s.frames) - 1; i >= 0; i-- {
		for name := range s.frames[i] {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// Child creates a new Scope that sees everything currently visible in s
// (the enclosing scope) under one additional fresh frame, the way a
// DO_IF helper function inherits a child scope from its caller:
// variables declared inside don't leak out, but outer variables stay
// visible.
func (s *Scope) Child() *Scope {
	child := &Scope{frames: make([]frame, len(s.frames), len(s.frames)+1)}
	copy(child.frames, s.frames)
	child.Push()
	return child
}
