package ast

import (
	"fmt"
	"strings"
)

// Parameter is one ordered (name, type) pair of a function signature.
type Parameter struct {
	Name string
	Type CubentType
}

// Function is a tagged union of UserFunction and ExternalFunction.
// Exactly one of the two pointer fields is non-nil; a plain struct with
// two nilable fields avoids an interface and type switch at every call
// site that only cares about one variant.
type Function struct {
	User     *UserFunction
	External *ExternalFunction
}

// QualifiedPath returns the function's dotted path regardless of variant.
func (f Function) QualifiedPath() []string {
	if f.User != nil {
		return f.User.QualifiedPath
	}
	return f.External.QualifiedPath
}

// Parameters returns the ordered parameter list regardless of variant.
func (f Function) Parameters() []Parameter {
	if f.User != nil {
		return f.User.Parameters
	}
	return f.External.Parameters
}

// ReturnType returns the declared return type regardless of variant.
func (f Function) ReturnType() CubentType {
	if f.User != nil {
		return f.User.ReturnType
	}
	return f.External.ReturnType
}

// UserFunction is a function whose body Cubent compiles into an
// .mcfunction file.
type UserFunction struct {
	QualifiedPath []string
	Parameters    []Parameter
	ReturnType    CubentType
	Body          []Command
	File          string
}

// ExternalFunction is a function declared with `mcfunction "ns:path" name(...)`
// whose body already exists as an engine function file; Cubent only
// needs its signature to type-check calls against it.
type ExternalFunction struct {
	QualifiedPath []string
	Parameters    []Parameter
	ReturnType    CubentType
	EngineLocation string // "ns:path"
}

// SimpleName returns the last element of a qualified path.
func SimpleName(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

// JoinPath renders a qualified path the way diagnostics and generated
// store names want it: dot-joined.
func JoinPath(path []string) string {
	return strings.Join(path, ".")
}

// FunctionTable maps a qualified path to its Function descriptor. Keys
// are unique: a second declaration of the same path is a ScopeError at
// the call site that tries to register it.
type FunctionTable struct {
	byPath map[string]Function
	order  []string

	// LoadHooks holds the qualified paths of every UserFunction declared
	// inside a `load { }` block, in declaration order.
	LoadHooks [][]string
}

// NewFunctionTable returns an empty table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{byPath: make(map[string]Function)}
}

// Declare registers fn under its qualified path. It returns an error if
// the path is already taken.
func (t *FunctionTable) Declare(fn Function) error {
	key := JoinPath(fn.QualifiedPath())
	if _, exists := t.byPath[key]; exists {
		return fmt.Errorf("function %q already declared", key)
	}
	t.byPath[key] = fn
	t.order = append(t.order, key)
	return nil
}

// Lookup returns the function registered under path, if any.
func (t *FunctionTable) Lookup(path []string) (Function, bool) {
	fn, ok := t.byPath[JoinPath(path)]
	return fn, ok
}

// Paths returns every declared qualified path, in declaration order.
func (t *FunctionTable) Paths() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of declared functions.
func (t *FunctionTable) Len() int { return len(t.order) }

// ImportMap maps an alias to the qualified path it stands for, scoped to
// a single source file.
type ImportMap struct {
	byAlias map[string][]string
}

// NewImportMap returns an empty import map.
func NewImportMap() *ImportMap {
	return &ImportMap{byAlias: make(map[string][]string)}
}

// Declare registers alias -> path. It returns an error if alias is
// already bound in this file.
func (m *ImportMap) Declare(alias string, path []string) error {
	if _, exists := m.byAlias[alias]; exists {
		return fmt.Errorf("import alias %q already declared in this file", alias)
	}
	m.byAlias[alias] = path
	return nil
}

// Resolve returns the qualified path bound to alias, if any.
func (m *ImportMap) Resolve(alias string) ([]string, bool) {
	path, ok := m.byAlias[alias]
	return path, ok
}

// Aliases returns every alias declared in this file, in no particular
// order. Used for "did you mean" suggestions when an alias is misspelled.
func (m *ImportMap) Aliases() []string {
	out := make([]string, 0, len(m.byAlias))
	for alias := range m.byAlias {
		out = append(out, alias)
	}
	return out
}
