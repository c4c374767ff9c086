package emitter

import (
	"strings"

	"github.com/cubent-lang/cubent/internal/ast"
)

// nbtSuffix maps a numeric CubentType to the literal suffix Minecraft's
// NBT parser expects on that kind's literal form.
var nbtSuffix = map[ast.CubentType]string{
	ast.TByte:  "B",
	ast.TShort: "S",
	ast.TLong:  "L",
	ast.TFloat: "F",
}

// nbtTypeWord maps a numeric CubentType to the lowercase type word used
// in `execute store result ... <word> 1 run ...`.
var nbtTypeWord = map[ast.CubentType]string{
	ast.TByte:   "byte",
	ast.TShort:  "short",
	ast.TInt:    "int",
	ast.TLong:   "long",
	ast.TFloat:  "float",
	ast.TDouble: "double",
}

// renderLiteral renders a LOAD operand's value the way it must appear
// inside a `{Value:<...>}` wrapper.
func renderLiteral(typ ast.CubentType, body string) string {
	switch typ {
	case ast.TBoolean:
		return body
	case ast.TByte, ast.TShort, ast.TLong, ast.TFloat:
		return body + nbtSuffix[typ]
	case ast.TInt, ast.TDouble:
		return body
	case ast.TString:
		return renderStringLiteral(body)
	default:
		return body
	}
}

// renderStringLiteral quotes a decoded string value for NBT: single
// quotes by default, falling back to double quotes when the value
// itself contains a single quote but no double quote (so the escaping
// stays minimal either way).
func renderStringLiteral(value string) string {
	if strings.Contains(value, "'") && !strings.Contains(value, `"`) {
		escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
		return `"` + escaped + `"`
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}

// convert emits the lines needed to coerce the value currently sitting
// at Stack[-1] from source to target, returning ok=false if no such
// coercion exists (identical types and anything paired with Any always
// succeed with no lines emitted).
func convert(ctx *fnCtx, source, target ast.CubentType) (ok bool) {
	if source == target || source == ast.Any || target == ast.Any {
		return true
	}
	if !source.Numeric() && source != ast.TBoolean {
		return false
	}
	if target.Numeric() {
		word := nbtTypeWord[target]
		ctx.emit("execute store result storage %s Stack[-1].Value %s 1 run data get storage %s Stack[-1].Value",
			ctx.storeFS, word, ctx.storeFS)
		return true
	}
	if target == ast.TBoolean {
		ctx.emit("execute store result score 1 cubent.scoreboard run data get storage %s Stack[-1].Value", ctx.storeFS)
		ctx.emit("execute if score 1 cubent.scoreboard matches 1.. run data modify storage %s Stack[-1].Value set value true", ctx.storeFS)
		ctx.emit("execute if score 1 cubent.scoreboard matches ..0 run data modify storage %s Stack[-1].Value set value false", ctx.storeFS)
		return true
	}
	return false
}

