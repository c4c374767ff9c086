package emitter

import "github.com/cubent-lang/cubent/internal/ast"

// emitBlock lowers a linear command stream in order, threading ctx's
// compile-time stack and scope through every opcode.
func (e *Emitter) emitBlock(ctx *fnCtx, body []ast.Command) {
	for _, cmd := range body {
		e.emitCommand(ctx, cmd)
	}
}

func (e *Emitter) emitCommand(ctx *fnCtx, cmd ast.Command) {
	switch cmd.Op {
	case ast.OpLoad:
		e.emitLoad(ctx, cmd)
	case ast.OpDeclareVar:
		e.emitDeclareVar(ctx, cmd)
	case ast.OpGetVar:
		e.emitGetVar(ctx, cmd)
	case ast.OpSetVar:
		e.emitSetVar(ctx, cmd)
	case ast.OpGetProp:
		e.emitGetProp(ctx, cmd)
	case ast.OpSetProp:
		e.emitSetProp(ctx, cmd)
	case ast.OpCall:
		e.emitCall(ctx, cmd)
	case ast.OpGetArg:
		e.emitGetArg(ctx, cmd)
	case ast.OpDoIf:
		e.emitDoIf(ctx, cmd)
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		e.emitArithmetic(ctx, cmd)
	case ast.OpEq, ast.OpNeq:
		e.emitEquality(ctx, cmd)
	case ast.OpOr, ast.OpAnd:
		e.emitLogical(ctx, cmd)
	}
}

func (e *Emitter) emitLoad(ctx *fnCtx, cmd ast.Command) {
	ctx.emit("data modify storage %s Stack append value {Value:%s}", ctx.storeFS, renderLiteral(cmd.LoadType, cmd.LoadLiteral))
	ctx.stack.push(cmd.LoadType)
}

// emitDeclareVar implements the DECLARE_VAR opcode under this
// implementation's resolution of its Open Question: declare-and-assign
// are folded into one opcode, since the grammar has no bare
// declaration without an initializer. It requires the top of stack to
// be non-Void and binds it in the innermost scope frame.
func (e *Emitter) emitDeclareVar(ctx *fnCtx, cmd ast.Command) {
	typ, ok := ctx.stack.pop()
	if !ok {
		e.addErrorAt(ctx, cmd.Position, "declaration of %q has no value to assign", cmd.Name)
		return
	}
	if typ == ast.Void {
		e.addErrorAt(ctx, cmd.Position, "cannot declare %q with a Void value", cmd.Name)
		return
	}
	if !ctx.scope.Declare(cmd.Name, typ) {
		e.addErrorAt(ctx, cmd.Position, "%q is already declared in this scope", cmd.Name)
		return
	}
	slot := ctx.slotFor(cmd.Name)
	ctx.emit("data modify storage %s Variables.%s set from storage %s Stack[-1]", ctx.storeFS, slot, ctx.storeFS)
	ctx.emit("data remove storage %s Stack[-1]", ctx.storeFS)
}

func (e *Emitter) emitGetVar(ctx *fnCtx, cmd ast.Command) {
	typ, ok := ctx.scope.Lookup(cmd.Name)
	if !ok {
		e.addErr(ctx, ctx.notFoundErr(cmd.Position, cmd.Name))
		return
	}
	slot := ctx.slotFor(cmd.Name)
	ctx.emit("data modify storage %s Stack append from storage %s Variables.%s", ctx.storeFS, ctx.storeFS, slot)
	ctx.stack.push(typ)
}

func (e *Emitter) emitSetVar(ctx *fnCtx, cmd ast.Command) {
	valueType, ok := ctx.stack.pop()
	if !ok {
		e.addErrorAt(ctx, cmd.Position, "assignment to %q has no value", cmd.Name)
		return
	}
	declType, ok := ctx.scope.Lookup(cmd.Name)
	if !ok {
		e.addErr(ctx, ctx.notFoundErr(cmd.Position, cmd.Name))
		return
	}
	if !convert(ctx, valueType, declType) {
		e.addErrorAt(ctx, cmd.Position, "cannot assign %s to %q of type %s", valueType, cmd.Name, declType)
		return
	}
	slot := ctx.slotFor(cmd.Name)
	ctx.emit("data modify storage %s Variables.%s set from storage %s Stack[-1]", ctx.storeFS, slot, ctx.storeFS)
	ctx.emit("data remove storage %s Stack[-1]", ctx.storeFS)
}

// emitGetProp and emitSetProp implement GET_PROP/SET_PROP. Today none
// of the ten fully-supported primitive types declare any named
// property, and Compound (the one type that plausibly would) is a
// reserved, unimplemented type, so both opcodes always fail type
// checking in this implementation; see DESIGN.md for the resolved
// ambiguity this follows from.
func (e *Emitter) emitGetProp(ctx *fnCtx, cmd ast.Command) {
	owner, ok := ctx.stack.pop()
	if !ok {
		e.addErrorAt(ctx, cmd.Position, "property access %q has no owner value", cmd.Name)
		return
	}
	e.addErrorAt(ctx, cmd.Position, "type %s has no property %q", owner, cmd.Name)
}

func (e *Emitter) emitSetProp(ctx *fnCtx, cmd ast.Command) {
	owner, ok1 := ctx.stack.pop()
	_, ok2 := ctx.stack.pop()
	if !ok1 || !ok2 {
		e.addErrorAt(ctx, cmd.Position, "property assignment %q is missing an operand", cmd.Name)
		return
	}
	e.addErrorAt(ctx, cmd.Position, "type %s has no property %q", owner, cmd.Name)
}

func (e *Emitter) emitGetArg(ctx *fnCtx, cmd ast.Command) {
	if cmd.ArgIndex < 0 || cmd.ArgIndex >= len(ctx.fn.Parameters) {
		e.addErrorAt(ctx, cmd.Position, "argument index %d out of range for %d parameter(s)", cmd.ArgIndex, len(ctx.fn.Parameters))
		return
	}
	param := ctx.fn.Parameters[cmd.ArgIndex]
	ctx.emit("data modify storage %s Stack append from storage cubent:storage Arguments[%d]", ctx.storeFS, cmd.ArgIndex)
	ctx.stack.push(param.Type)
}

func (e *Emitter) emitDoIf(ctx *fnCtx, cmd ast.Command) {
	condType, ok := ctx.stack.pop()
	if !ok {
		e.addErrorAt(ctx, cmd.Position, "if condition has no value")
		return
	}
	if condType != ast.TBoolean && !convert(ctx, condType, ast.TBoolean) {
		e.addErrorAt(ctx, cmd.Position, "if condition must be convertible to Boolean, got %s", condType)
		return
	}
	ctx.emit("execute store result score 1 cubent.scoreboard run data get storage %s Stack[-1].Value", ctx.storeFS)
	ctx.emit("data remove storage %s Stack[-1]", ctx.storeFS)

	helperName := e.freshHelperName()
	ctx.emit("execute if score 1 cubent.scoreboard matches 1 run function %s:%s", e.buildUUID, helperName)

	e.emitHelper(ctx, helperName, cmd.Block)
}

// emitHelper compiles one DO_IF's body into its own sibling
// .mcfunction file. It shares the enclosing function's data store (so
// reads and writes of outer variables still land where the caller
// expects) and inherits a child scope, but starts with its own empty
// compile-time type stack, since the runtime Stack is already empty by
// the time control reaches it.
func (e *Emitter) emitHelper(ctx *fnCtx, name string, body []ast.Command) {
	helperCtx := &fnCtx{
		fn:       ctx.fn,
		storeFS:  ctx.storeFS,
		scope:    ctx.scope.Child(),
		stack:    newTypeStack(),
		funcName: ctx.funcName,
	}
	e.emitBlock(helperCtx, body)

	if !helperCtx.stack.empty() {
		pos := ctx.fn.Body[0].Position
		if len(body) > 0 {
			pos = body[len(body)-1].Position
		}
		e.addErrorAt(ctx, pos, "compile-time stack not empty at end of if-block (%d residual value(s))", helperCtx.stack.len())
	}

	path := "data/" + e.buildUUID + "/functions/" + name + ".mcfunction"
	e.outputs = append(e.outputs, Output{Path: path, Lines: helperCtx.lines})
}
