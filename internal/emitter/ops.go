package emitter

import (
	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/cerr"
)

var arithmeticMnemonic = map[ast.Op]string{
	ast.OpAdd: "+=",
	ast.OpSub: "-=",
	ast.OpMul: "*=",
	ast.OpDiv: "/=",
}

// emitArithmetic implements ADD/SUB/MUL/DIV: both operands must be one
// of the scoreboard-backed whole-number kinds (Byte/Short/Int/Long);
// the result is always Int, since the scoreboard itself only ever
// holds one integer width.
func (e *Emitter) emitArithmetic(ctx *fnCtx, cmd ast.Command) {
	b, okB := ctx.stack.pop()
	a, okA := ctx.stack.pop()
	if !okA || !okB {
		e.addErrorAt(ctx, cmd.Position, "%s is missing an operand", cmd.Op)
		return
	}
	if !a.Integral() || !b.Integral() {
		e.addErrorAt(ctx, cmd.Position, "%s requires two whole-number operands, got %s and %s", cmd.Op, a, b)
		return
	}

	readScoreAndPop(ctx, "2")
	readScoreAndPop(ctx, "1")
	ctx.emit("scoreboard players operation 1 cubent.scoreboard %s 2 cubent.scoreboard", arithmeticMnemonic[cmd.Op])
	ctx.emit("data modify storage %s Stack append value {Value:0}", ctx.storeFS)
	ctx.emit("execute store result storage %s Stack[-1].Value int 1 run scoreboard players get 1 cubent.scoreboard", ctx.storeFS)

	ctx.stack.push(ast.TInt)
}

// readScoreAndPop reads Stack[-1].Value into the named scoreboard
// score and removes that stack slot, the shared first half of every
// binary numeric/boolean opcode.
func readScoreAndPop(ctx *fnCtx, score string) {
	ctx.emit("execute store result score %s cubent.scoreboard run data get storage %s Stack[-1].Value", score, ctx.storeFS)
	ctx.emit("data remove storage %s Stack[-1]", ctx.storeFS)
}

// emitEquality implements EQ/NEQ. Both operands must be numeric or
// both Boolean (comparable via the scoreboard); String/Any/Compound
// equality is not supported by this implementation (see DESIGN.md).
func (e *Emitter) emitEquality(ctx *fnCtx, cmd ast.Command) {
	b, okB := ctx.stack.pop()
	a, okA := ctx.stack.pop()
	if !okA || !okB {
		e.addErrorAt(ctx, cmd.Position, "%s is missing an operand", cmd.Op)
		return
	}
	comparable := (a.Numeric() && b.Numeric()) || (a == ast.TBoolean && b == ast.TBoolean)
	if !comparable {
		e.addErrorAt(ctx, cmd.Position, "%s requires two numeric or two Boolean operands, got %s and %s", cmd.Op, a, b)
		return
	}

	readScoreAndPop(ctx, "2")
	readScoreAndPop(ctx, "1")
	ctx.emit("data modify storage %s Stack append value {Value:false}", ctx.storeFS)
	if cmd.Op == ast.OpEq {
		ctx.emit("execute store success storage %s Stack[-1].Value byte 1 if score 1 cubent.scoreboard = 2 cubent.scoreboard", ctx.storeFS)
	} else {
		ctx.emit("execute store success storage %s Stack[-1].Value byte 1 unless score 1 cubent.scoreboard = 2 cubent.scoreboard", ctx.storeFS)
	}

	ctx.stack.push(ast.TBoolean)
}

// emitLogical implements OR/AND over two Boolean operands, using the
// scoreboard's 0/1 representation directly: product is AND, and a
// clamped sum is OR.
func (e *Emitter) emitLogical(ctx *fnCtx, cmd ast.Command) {
	b, okB := ctx.stack.pop()
	a, okA := ctx.stack.pop()
	if !okA || !okB {
		e.addErrorAt(ctx, cmd.Position, "%s is missing an operand", cmd.Op)
		return
	}
	if a != ast.TBoolean || b != ast.TBoolean {
		e.addErrorAt(ctx, cmd.Position, "%s requires two Boolean operands, got %s and %s", cmd.Op, a, b)
		return
	}

	readScoreAndPop(ctx, "2")
	readScoreAndPop(ctx, "1")
	ctx.emit("data modify storage %s Stack append value {Value:false}", ctx.storeFS)
	if cmd.Op == ast.OpAnd {
		ctx.emit("scoreboard players operation 1 cubent.scoreboard *= 2 cubent.scoreboard")
		ctx.emit("execute store result storage %s Stack[-1].Value byte 1 run scoreboard players get 1 cubent.scoreboard", ctx.storeFS)
	} else {
		ctx.emit("scoreboard players operation 1 cubent.scoreboard += 2 cubent.scoreboard")
		ctx.emit("execute store success storage %s Stack[-1].Value byte 1 if score 1 cubent.scoreboard matches 1..", ctx.storeFS)
	}

	ctx.stack.push(ast.TBoolean)
}

// emitCall implements CALL. Arguments were evaluated left-to-right, so
// the last parameter's value is on top of the runtime Stack; each
// conversion/move therefore processes parameters from last to first
// and uses `insert 0` (rather than `append`) when filling the shared
// Arguments list, so index i of Arguments ends up holding parameter
// i's value regardless of push order. See DESIGN.md for why this
// departs from a literal top-to-bottom append.
func (e *Emitter) emitCall(ctx *fnCtx, cmd ast.Command) {
	fn, ok := e.table.Lookup(cmd.QualifiedPath)
	if !ok {
		err := ast.JoinPath(cmd.QualifiedPath)
		suggestion := e.suggestFunctionName(cmd.QualifiedPath)
		scopeErr := cerr.NewScope(cmd.Position, "call to undefined function %q", err)
		if suggestion != "" {
			scopeErr = scopeErr.WithSuggestion(suggestion)
		}
		e.addErr(ctx, scopeErr)
		// Drop the already-pushed argument types so later checks in
		// this same block don't cascade off a corrupted stack depth.
		for i := 0; i < cmd.Argc; i++ {
			ctx.stack.pop()
		}
		return
	}

	params := fn.Parameters()
	if len(params) != cmd.Argc {
		e.addErrorAt(ctx, cmd.Position, "%s expects %d argument(s), got %d", ast.JoinPath(cmd.QualifiedPath), len(params), cmd.Argc)
		for i := 0; i < cmd.Argc; i++ {
			ctx.stack.pop()
		}
		return
	}

	ctx.emit("data modify storage cubent:storage Arguments set value []")
	failed := false
	for i := cmd.Argc - 1; i >= 0; i-- {
		argType, ok := ctx.stack.pop()
		if !ok {
			failed = true
			continue
		}
		if !convert(ctx, argType, params[i].Type) {
			e.addErrorAt(ctx, cmd.Position, "argument %d of %s expects %s, got %s", i, ast.JoinPath(cmd.QualifiedPath), params[i].Type, argType)
			failed = true
		}
		ctx.emit("data modify storage cubent:storage Arguments insert 0 from storage %s Stack[-1]", ctx.storeFS)
		ctx.emit("data remove storage %s Stack[-1]", ctx.storeFS)
	}
	if failed {
		return
	}

	ctx.emit("function %s", engineTarget(fn, cmd.QualifiedPath))

	if fn.ReturnType() != ast.Void {
		ctx.stack.push(fn.ReturnType())
	}
}

func engineTarget(fn ast.Function, path []string) string {
	if fn.External != nil {
		return fn.External.EngineLocation
	}
	dottedNS, simpleName := splitNamespace(path)
	return dottedNS + ":" + simpleName
}
