package emitter

import (
	"testing"

	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/scope"
)

func TestRenderLiteral(t *testing.T) {
	tests := []struct {
		typ  ast.CubentType
		body string
		want string
	}{
		{ast.TBoolean, "true", "true"},
		{ast.TBoolean, "false", "false"},
		{ast.TByte, "5", "5B"},
		{ast.TShort, "5", "5S"},
		{ast.TLong, "5", "5L"},
		{ast.TFloat, "5.5", "5.5F"},
		{ast.TInt, "5", "5"},
		{ast.TDouble, "5.5", "5.5"},
		{ast.TString, "hi", "'hi'"},
	}
	for _, tt := range tests {
		if got := renderLiteral(tt.typ, tt.body); got != tt.want {
			t.Errorf("renderLiteral(%s, %q) = %q, want %q", tt.typ, tt.body, got, tt.want)
		}
	}
}

func TestRenderStringLiteral_QuoteSelection(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"no_quotes", "hello", "'hello'"},
		{"single_quote_falls_back_to_double", "it's", `"it's"`},
		{"double_quote_stays_single", `say "hi"`, `'say "hi"'`},
		{"both_quotes_stays_single", `it's "fine"`, `'it\'s "fine"'`},
		{"backslash_escaped", `a\b`, `'a\\b'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderStringLiteral(tt.value); got != tt.want {
				t.Errorf("renderStringLiteral(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func newTestCtx() *fnCtx {
	return &fnCtx{
		fn:      &ast.UserFunction{QualifiedPath: []string{"test"}, File: "test.cubent"},
		storeFS: "build.test:f",
		scope:   scope.New(),
		stack:   newTypeStack(),
	}
}

func TestConvert_SameTypeOrAnyIsNoOp(t *testing.T) {
	ctx := newTestCtx()
	if ok := convert(ctx, ast.TInt, ast.TInt); !ok {
		t.Errorf("convert(Int, Int) = false, want true")
	}
	if len(ctx.lines) != 0 {
		t.Errorf("convert(Int, Int) emitted lines, want none: %v", ctx.lines)
	}

	if ok := convert(ctx, ast.TString, ast.Any); !ok {
		t.Errorf("convert(String, Any) = false, want true")
	}
	if ok := convert(ctx, ast.Any, ast.TBoolean); !ok {
		t.Errorf("convert(Any, Boolean) = false, want true")
	}
}

func TestConvert_NumericToNumericEmitsStoreResult(t *testing.T) {
	ctx := newTestCtx()
	if ok := convert(ctx, ast.TInt, ast.TDouble); !ok {
		t.Fatalf("convert(Int, Double) = false, want true")
	}
	if len(ctx.lines) != 1 {
		t.Fatalf("convert(Int, Double) emitted %d lines, want 1: %v", len(ctx.lines), ctx.lines)
	}
	want := "execute store result storage build.test:f Stack[-1].Value double 1 run data get storage build.test:f Stack[-1].Value"
	if ctx.lines[0] != want {
		t.Errorf("line = %q, want %q", ctx.lines[0], want)
	}
}

func TestConvert_NumericToBooleanEmitsBothBranches(t *testing.T) {
	ctx := newTestCtx()
	if ok := convert(ctx, ast.TInt, ast.TBoolean); !ok {
		t.Fatalf("convert(Int, Boolean) = false, want true")
	}
	if len(ctx.lines) != 3 {
		t.Fatalf("convert(Int, Boolean) emitted %d lines, want 3: %v", len(ctx.lines), ctx.lines)
	}
	wantTrue := "execute if score 1 cubent.scoreboard matches 1.. run data modify storage build.test:f Stack[-1].Value set value true"
	wantFalse := "execute if score 1 cubent.scoreboard matches ..0 run data modify storage build.test:f Stack[-1].Value set value false"
	if ctx.lines[1] != wantTrue {
		t.Errorf("true-branch line = %q, want %q", ctx.lines[1], wantTrue)
	}
	if ctx.lines[2] != wantFalse {
		t.Errorf("false-branch line = %q, want %q", ctx.lines[2], wantFalse)
	}
}

func TestConvert_StringToNumericFails(t *testing.T) {
	ctx := newTestCtx()
	if ok := convert(ctx, ast.TString, ast.TInt); ok {
		t.Errorf("convert(String, Int) = true, want false")
	}
	if len(ctx.lines) != 0 {
		t.Errorf("a failed convert() should not emit lines: %v", ctx.lines)
	}
}

func TestConvert_BooleanToNumericEmitsStoreResult(t *testing.T) {
	ctx := newTestCtx()
	if ok := convert(ctx, ast.TBoolean, ast.TInt); !ok {
		t.Fatalf("convert(Boolean, Int) = false, want true")
	}
	if len(ctx.lines) != 1 {
		t.Fatalf("convert(Boolean, Int) emitted %d lines, want 1: %v", len(ctx.lines), ctx.lines)
	}
}
