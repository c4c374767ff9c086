// Package emitter implements the stack-based type-checking
// and lowering pass that turns a UserFunction's IR into the textual
// commands of its .mcfunction file, synthesizing helper functions for
// nested if-blocks along the way.
package emitter

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/scope"
	"github.com/cubent-lang/cubent/internal/token"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Output is one emitted function file, relative to the datapack root.
type Output struct {
	Path  string
	Lines []string
}

// Emitter lowers every UserFunction in a FunctionTable into Output
// files. One Emitter instance handles a whole compilation: it owns the
// deterministic helper-naming RNG (seeded from the build UUID, per
// and accumulates every Output produced, including helpers.
type Emitter struct {
	table     *ast.FunctionTable
	buildUUID string
	rng       *rand.Rand

	outputs []Output
	errs    []*cerr.Error
}

// New returns an Emitter for one compilation. buildUUID seeds the
// helper-name RNG so that, for a fixed buildUUID, helper function names
// are reproducible across runs.
func New(table *ast.FunctionTable, buildUUID string) *Emitter {
	return &Emitter{
		table:     table,
		buildUUID: buildUUID,
		rng:       rand.New(rand.NewSource(seedFromUUID(buildUUID))),
	}
}

func seedFromUUID(uuid string) int64 {
	var seed int64
	for i := 0; i < len(uuid); i++ {
		seed = seed*131 + int64(uuid[i])
	}
	if seed == 0 {
		seed = 1
	}
	return seed
}

// EmitAll lowers every UserFunction registered in the table, in
// FunctionTable declaration order (a deterministic discovery
// order so helper names are reproducible), and returns every Output
// file produced plus any errors encountered. A non-empty error slice
// means the compile must be aborted.
func (e *Emitter) EmitAll() ([]Output, []*cerr.Error) {
	for _, path := range e.table.Paths() {
		fn, _ := e.table.Lookup(splitPath(path))
		if fn.User == nil {
			continue
		}
		e.emitUserFunction(fn.User)
	}
	return e.outputs, e.errs
}

func splitPath(dotted string) []string {
	return strings.Split(dotted, ".")
}

// fnCtx carries the per-function state threaded through every opcode
// handler: the compile-time type stack, the lexical scope, the data
// store name, the output lines accumulated so far, and the enclosing
// function (for GET_ARG bounds and error context).
type fnCtx struct {
	fn       *ast.UserFunction
	storeFS  string
	scope    *scope.Scope
	stack    *typeStack
	lines    []string
	funcName string
}

func (e *Emitter) emitUserFunction(fn *ast.UserFunction) {
	dottedNS, simpleName := splitNamespace(fn.QualifiedPath)
	storeFS := e.buildUUID + "." + dottedNS + ":" + simpleName

	ctx := &fnCtx{
		fn:       fn,
		storeFS:  storeFS,
		scope:    scope.New(),
		stack:    newTypeStack(),
		funcName: ast.JoinPath(fn.QualifiedPath),
	}
	ctx.emit("scoreboard objectives add cubent.scoreboard dummy")
	ctx.emit("data modify storage %s Stack set value []", storeFS)
	ctx.emit("execute unless data storage %s Variables run data modify storage %s Variables set value {}", storeFS, storeFS)

	for _, param := range fn.Parameters {
		ctx.scope.Declare(param.Name, param.Type)
	}

	exitPos := token.Position{}
	if len(fn.Body) > 0 {
		exitPos = fn.Body[len(fn.Body)-1].Position
	}
	e.emitBlock(ctx, fn.Body)

	if !ctx.stack.empty() {
		e.addErrorAt(ctx, exitPos, "compile-time stack not empty at function exit (%d residual value(s))", ctx.stack.len())
	}

	path := "data/" + dottedNS + "/functions/" + simpleName + ".mcfunction"
	e.outputs = append(e.outputs, Output{Path: path, Lines: ctx.lines})
}

func splitNamespace(path []string) (dottedNS, simpleName string) {
	simpleName = path[len(path)-1]
	dottedNS = strings.Join(path[:len(path)-1], ".")
	return
}

func (c *fnCtx) emit(format string, args ...interface{}) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

// slotFor returns the Variables.<slot> key for a declared variable.
// Cubent identifiers are already valid NBT path segments, so the
// variable's own name is used directly.
func (c *fnCtx) slotFor(name string) string { return name }

// notFoundErr builds the ScopeError for a reference to an undeclared
// variable, with a fuzzy "did you mean" suggestion when one is close.
func (c *fnCtx) notFoundErr(pos token.Position, name string) *cerr.Error {
	err := cerr.NewScope(pos, "undefined variable %q", name)
	if best := suggestVariableName(name, c.scope); best != "" {
		err = err.WithSuggestion(best)
	}
	return err
}

func (e *Emitter) addErr(ctx *fnCtx, err *cerr.Error) {
	e.errs = append(e.errs, err.At(ctx.fn.File, ctx.funcName))
}

func (e *Emitter) addErrorAt(ctx *fnCtx, pos token.Position, format string, args ...interface{}) {
	e.addErr(ctx, cerr.NewType(pos, format, args...))
}

// suggestFunctionName returns the declared qualified path with the
// smallest Levenshtein distance to path, for "undefined function"
// ScopeErrors.
func (e *Emitter) suggestFunctionName(path []string) string {
	return closestByDistance(ast.JoinPath(path), e.table.Paths())
}

// suggestVariableName returns the visible variable name with the
// smallest Levenshtein distance to name, for "undefined variable"
// ScopeErrors.
func suggestVariableName(name string, s *scope.Scope) string {
	return closestByDistance(name, s.Names())
}

// closestByDistance returns the candidate with the smallest Levenshtein
// distance to name, or "" when there are no candidates.
func closestByDistance(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
