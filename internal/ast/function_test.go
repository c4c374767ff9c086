package ast

import "testing"

func TestFunctionTable_DeclareAndLookup(t *testing.T) {
	table := NewFunctionTable()

	fn := Function{User: &UserFunction{
		QualifiedPath: []string{"math", "add"},
		Parameters:    []Parameter{{Name: "a", Type: TInt}, {Name: "b", Type: TInt}},
		ReturnType:    TInt,
		File:          "math.cubent",
	}}
	if err := table.Declare(fn); err != nil {
		t.Fatalf("Declare() = %v, want nil", err)
	}

	got, ok := table.Lookup([]string{"math", "add"})
	if !ok {
		t.Fatalf("Lookup() did not find the declared function")
	}
	if got.ReturnType() != TInt {
		t.Errorf("ReturnType() = %s, want Int", got.ReturnType())
	}
	if len(got.Parameters()) != 2 {
		t.Errorf("Parameters() has %d entries, want 2", len(got.Parameters()))
	}

	if err := table.Declare(fn); err == nil {
		t.Fatalf("Declare() of a duplicate path returned nil, want an error")
	}

	if _, ok := table.Lookup([]string{"math", "sub"}); ok {
		t.Fatalf("Lookup() found an undeclared function")
	}
}

func TestFunctionTable_PathsPreservesDeclarationOrder(t *testing.T) {
	table := NewFunctionTable()
	paths := [][]string{{"a"}, {"b"}, {"c"}}
	for _, p := range paths {
		table.Declare(Function{User: &UserFunction{QualifiedPath: p, ReturnType: Void}})
	}
	got := table.Paths()
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Paths()[%d] = %q, want %q", i, got[i], w)
		}
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
}

func TestFunction_ExternalVariant(t *testing.T) {
	fn := Function{External: &ExternalFunction{
		QualifiedPath:  []string{"vanilla", "give"},
		Parameters:     []Parameter{{Name: "item", Type: TString}},
		ReturnType:     Void,
		EngineLocation: "minecraft:give_item",
	}}
	if got := JoinPath(fn.QualifiedPath()); got != "vanilla.give" {
		t.Errorf("QualifiedPath() joined = %q, want %q", got, "vanilla.give")
	}
	if fn.ReturnType() != Void {
		t.Errorf("ReturnType() = %s, want Void", fn.ReturnType())
	}
}

func TestImportMap_DeclareAndResolve(t *testing.T) {
	m := NewImportMap()
	if err := m.Declare("u", []string{"minecraft", "util"}); err != nil {
		t.Fatalf("Declare() = %v, want nil", err)
	}
	if err := m.Declare("u", []string{"other", "path"}); err == nil {
		t.Fatalf("Declare() of a duplicate alias returned nil, want an error")
	}
	path, ok := m.Resolve("u")
	if !ok || JoinPath(path) != "minecraft.util" {
		t.Fatalf("Resolve(%q) = %v, %v; want minecraft.util, true", "u", path, ok)
	}
	if _, ok := m.Resolve("missing"); ok {
		t.Fatalf("Resolve() found an undeclared alias")
	}
	aliases := m.Aliases()
	if len(aliases) != 1 || aliases[0] != "u" {
		t.Errorf("Aliases() = %v, want [u]", aliases)
	}
}

func TestSimpleNameAndJoinPath(t *testing.T) {
	if got := SimpleName([]string{"a", "b", "c"}); got != "c" {
		t.Errorf("SimpleName() = %q, want %q", got, "c")
	}
	if got := SimpleName(nil); got != "" {
		t.Errorf("SimpleName(nil) = %q, want empty", got)
	}
	if got := JoinPath([]string{"a", "b", "c"}); got != "a.b.c" {
		t.Errorf("JoinPath() = %q, want %q", got, "a.b.c")
	}
}
