package datapack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/emitter"
)

func TestAssemble_WritesFunctionsAndPackMeta(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	outputs := []emitter.Output{
		{Path: "data/demo/functions/main.mcfunction", Lines: []string{"say hi", "say bye"}},
	}
	err := Assemble(outputs, Options{
		OutDir:      outDir,
		PackFormat:  48,
		Description: "a test pack",
	})
	if err != nil {
		t.Fatalf("Assemble() returned an error: %v", err)
	}

	content, readErr := os.ReadFile(filepath.Join(outDir, "data/demo/functions/main.mcfunction"))
	if readErr != nil {
		t.Fatalf("reading compiled function: %v", readErr)
	}
	want := "say hi\nsay bye\n"
	if string(content) != want {
		t.Errorf("function file = %q, want %q", content, want)
	}

	metaRaw, readErr := os.ReadFile(filepath.Join(outDir, "pack.mcmeta"))
	if readErr != nil {
		t.Fatalf("reading pack.mcmeta: %v", readErr)
	}
	var meta packMcmeta
	if jsonErr := json.Unmarshal(metaRaw, &meta); jsonErr != nil {
		t.Fatalf("pack.mcmeta is not valid JSON: %v", jsonErr)
	}
	if meta.Pack.PackFormat != 48 || meta.Pack.Description != "a test pack" {
		t.Errorf("pack.mcmeta = %+v, want PackFormat 48, Description %q", meta, "a test pack")
	}
}

func TestAssemble_NoLoadHooksWritesNoTag(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	err := Assemble(nil, Options{OutDir: outDir, PackFormat: 48})
	if err != nil {
		t.Fatalf("Assemble() returned an error: %v", err)
	}
	tagPath := filepath.Join(outDir, "data", "minecraft", "tags", "function", "load.json")
	if _, statErr := os.Stat(tagPath); !os.IsNotExist(statErr) {
		t.Errorf("load.json exists at %q, want it absent with no load hooks", tagPath)
	}
}

func TestAssemble_LoadHooksProduceLoadTag(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	err := Assemble(nil, Options{
		OutDir:     outDir,
		PackFormat: 48,
		LoadHooks:  [][]string{{"load", "init"}},
	})
	if err != nil {
		t.Fatalf("Assemble() returned an error: %v", err)
	}

	raw, readErr := os.ReadFile(filepath.Join(outDir, "data", "minecraft", "tags", "function", "load.json"))
	if readErr != nil {
		t.Fatalf("reading load.json: %v", readErr)
	}
	var tag loadTag
	if jsonErr := json.Unmarshal(raw, &tag); jsonErr != nil {
		t.Fatalf("load.json is not valid JSON: %v", jsonErr)
	}
	if len(tag.Values) != 1 || tag.Values[0] != "load:init" {
		t.Errorf("load.json values = %v, want [\"load:init\"]", tag.Values)
	}
}

func TestAssemble_CopiesExternalFunctionFile(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(srcDir, "minecraft", "functions"), 0o755); err != nil {
		t.Fatalf("setting up source tree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "minecraft", "functions", "tick.mcfunction"), []byte("say tick\n"), 0o644); err != nil {
		t.Fatalf("writing source mcfunction: %v", err)
	}

	outDir := filepath.Join(dir, "out")
	err := Assemble(nil, Options{
		OutDir:     outDir,
		PackFormat: 48,
		SourceDirs: []string{srcDir},
		Externals: []ast.ExternalFunction{
			{EngineLocation: "minecraft:tick"},
		},
	})
	if err != nil {
		t.Fatalf("Assemble() returned an error: %v", err)
	}

	content, readErr := os.ReadFile(filepath.Join(outDir, "data", "minecraft", "functions", "tick.mcfunction"))
	if readErr != nil {
		t.Fatalf("reading copied external function: %v", readErr)
	}
	if string(content) != "say tick\n" {
		t.Errorf("copied external function = %q, want %q", content, "say tick\n")
	}
}

func TestAssemble_MissingExternalFunctionFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	err := Assemble(nil, Options{
		OutDir:     outDir,
		PackFormat: 48,
		SourceDirs: []string{filepath.Join(dir, "src")},
		Externals:  []ast.ExternalFunction{{EngineLocation: "minecraft:missing"}},
	})
	if err == nil {
		t.Fatalf("expected an error for a missing external mcfunction source, got none")
	}
	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Errorf("output directory was written despite a failed assemble")
	}
}

func TestAssemble_MissingIconIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	err := Assemble(nil, Options{
		OutDir:     outDir,
		PackFormat: 48,
		IconPath:   filepath.Join(dir, "does-not-exist.png"),
	})
	if err != nil {
		t.Fatalf("a missing icon should not fail the build, got: %v", err)
	}
	if _, statErr := os.Stat(outDir); statErr != nil {
		t.Errorf("output directory was not written despite icon failure being non-fatal: %v", statErr)
	}
	if _, statErr := os.Stat(filepath.Join(outDir, "pack.png")); !os.IsNotExist(statErr) {
		t.Errorf("pack.png exists despite the source icon being missing")
	}
}

func TestAssemble_ReplacesExistingOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("pre-creating output dir: %v", err)
	}
	stale := filepath.Join(outDir, "stale.txt")
	if err := os.WriteFile(stale, []byte("old build"), 0o644); err != nil {
		t.Fatalf("writing stale file: %v", err)
	}

	err := Assemble(nil, Options{OutDir: outDir, PackFormat: 48})
	if err != nil {
		t.Fatalf("Assemble() returned an error: %v", err)
	}
	if _, statErr := os.Stat(stale); !os.IsNotExist(statErr) {
		t.Errorf("stale file from a previous build survived: %q", stale)
	}
}
