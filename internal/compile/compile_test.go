package compile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %q: %v", name, err)
	}
}

func TestCompile_SingleFileProducesOneOutput(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.cubent", `
		function add(a: Int, b: Int): Int {
			var sum = a + b;
		}
	`)

	res := Compile([]string{dir}, "deadbeef00000000")
	if !res.Ok() {
		t.Fatalf("Compile() returned errors: %v", res.Errors)
	}
	if len(res.Outputs) != 1 {
		t.Fatalf("got %d outputs, want 1: %v", len(res.Outputs), res.Outputs)
	}
	if _, ok := res.Sources[filepath.Join(dir, "main.cubent")]; !ok {
		t.Errorf("Sources does not record the parsed file's text")
	}
}

func TestCompile_MultipleFilesShareOneFunctionTable(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.cubent", `
		namespace math {
			function add(a: Int, b: Int): Int {
				var sum = a + b;
			}
		}
	`)
	writeSource(t, dir, "b.cubent", `
		import math.add;
		function f(): Void {
			var r = add(1, 2);
		}
	`)

	res := Compile([]string{dir}, "deadbeef00000000")
	if !res.Ok() {
		t.Fatalf("Compile() returned errors: %v", res.Errors)
	}
	if len(res.Outputs) != 2 {
		t.Fatalf("got %d outputs, want 2: %v", len(res.Outputs), res.Outputs)
	}
}

func TestCompile_ParseErrorAbortsBeforeEmit(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "broken.cubent", `function broken( { }`)

	res := Compile([]string{dir}, "deadbeef00000000")
	if res.Ok() {
		t.Fatalf("expected Compile() to report a parse error")
	}
	if len(res.Outputs) != 0 {
		t.Errorf("got %d outputs, want 0 since parsing failed: %v", len(res.Outputs), res.Outputs)
	}
}

func TestCompile_OnlyExternalsCollected(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.cubent", `
		mcfunction "minecraft:tick" onTick(): Void;
	`)

	res := Compile([]string{dir}, "deadbeef00000000")
	if !res.Ok() {
		t.Fatalf("Compile() returned errors: %v", res.Errors)
	}
	if len(res.Externals) != 1 {
		t.Fatalf("got %d externals, want 1: %v", len(res.Externals), res.Externals)
	}
	if res.Externals[0].EngineLocation != "minecraft:tick" {
		t.Errorf("EngineLocation = %q, want %q", res.Externals[0].EngineLocation, "minecraft:tick")
	}
	if len(res.Outputs) != 0 {
		t.Errorf("got %d outputs, want 0 for an external-only source file: %v", len(res.Outputs), res.Outputs)
	}
}

func TestCompile_LoadHooksPropagateFromTable(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.cubent", `
		load {
			function init(): Void { }
		}
	`)

	res := Compile([]string{dir}, "deadbeef00000000")
	if !res.Ok() {
		t.Fatalf("Compile() returned errors: %v", res.Errors)
	}
	if len(res.LoadHooks) != 1 {
		t.Fatalf("got %d load hooks, want 1: %v", len(res.LoadHooks), res.LoadHooks)
	}
}

func TestCompile_IgnoresNonCubentFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "README.md", "not a source file")
	writeSource(t, dir, "main.cubent", `
		function f(): Void { }
	`)

	res := Compile([]string{dir}, "deadbeef00000000")
	if !res.Ok() {
		t.Fatalf("Compile() returned errors: %v", res.Errors)
	}
	if len(res.Outputs) != 1 {
		t.Fatalf("got %d outputs, want 1 (README.md should be skipped): %v", len(res.Outputs), res.Outputs)
	}
}

func TestCompile_DiscoveryOrderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "z.cubent", `function z(): Void { }`)
	writeSource(t, dir, "a.cubent", `function a(): Void { }`)

	resultA := Compile([]string{dir}, "deadbeef00000000")
	resultB := Compile([]string{dir}, "deadbeef00000000")
	if !resultA.Ok() || !resultB.Ok() {
		t.Fatalf("Compile() returned errors: %v / %v", resultA.Errors, resultB.Errors)
	}
	if len(resultA.Outputs) != len(resultB.Outputs) {
		t.Fatalf("output counts differ between runs")
	}
	for i := range resultA.Outputs {
		if resultA.Outputs[i].Path != resultB.Outputs[i].Path {
			t.Errorf("output %d path differs between identical runs: %q vs %q", i, resultA.Outputs[i].Path, resultB.Outputs[i].Path)
		}
	}
}
