// Package datapack assembles a compiled Cubent program into an
// on-disk Minecraft datapack: the compiled function files, copies of
// external mcfunction sources, the pack metadata, the icon, and the
// generated load-function tag. The output directory is written to a
// sibling temp directory and swapped into place with os.Rename so a
// failed build never leaves a half-written pack at the target path.
package datapack

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/emitter"
	"github.com/cubent-lang/cubent/internal/token"
)

// Options configures one Assemble call.
type Options struct {
	OutDir      string
	PackFormat  int
	Description string
	IconPath    string // optional; "" means no icon is written
	SourceDirs  []string
	LoadHooks   [][]string
	Externals   []ast.ExternalFunction
}

// Assemble writes outputs and every ambient datapack file into a fresh
// directory at opts.OutDir, replacing anything already there.
func Assemble(outputs []emitter.Output, opts Options) *cerr.Error {
	tmpDir, err := os.MkdirTemp(filepath.Dir(opts.OutDir), ".cubent-build-*")
	if err != nil {
		return cerr.NewIO(token.Position{}, err, "failed to create a build staging directory")
	}
	defer os.RemoveAll(tmpDir)

	if err := writeFunctions(tmpDir, outputs); err != nil {
		return err
	}
	if err := writePackMeta(tmpDir, opts.PackFormat, opts.Description); err != nil {
		return err
	}
	if err := writeLoadTag(tmpDir, opts.LoadHooks); err != nil {
		return err
	}
	if err := copyExternals(tmpDir, opts.SourceDirs, opts.Externals); err != nil {
		return err
	}
	copyIcon(tmpDir, opts.IconPath)

	if err := os.RemoveAll(opts.OutDir); err != nil {
		return cerr.NewIO(token.Position{}, err, "failed to remove previous output at %q", opts.OutDir)
	}
	if err := os.Rename(tmpDir, opts.OutDir); err != nil {
		return cerr.NewIO(token.Position{}, err, "failed to move build output into place at %q", opts.OutDir)
	}
	return nil
}

func writeFunctions(root string, outputs []emitter.Output) *cerr.Error {
	for _, out := range outputs {
		full := filepath.Join(root, out.Path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return cerr.NewIO(token.Position{}, err, "failed to create directory for %q", out.Path)
		}
		content := strings.Join(out.Lines, "\n") + "\n"
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return cerr.NewIO(token.Position{}, err, "failed to write %q", out.Path)
		}
	}
	return nil
}

type packMcmeta struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

func writePackMeta(root string, packFormat int, description string) *cerr.Error {
	meta := packMcmeta{}
	meta.Pack.PackFormat = packFormat
	meta.Pack.Description = description
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return cerr.NewIO(token.Position{}, err, "failed to encode pack.mcmeta")
	}
	if err := os.WriteFile(filepath.Join(root, "pack.mcmeta"), data, 0o644); err != nil {
		return cerr.NewIO(token.Position{}, err, "failed to write pack.mcmeta")
	}
	return nil
}

type loadTag struct {
	Values []string `json:"values"`
}

// writeLoadTag generates data/minecraft/tags/function/load.json
// referencing every UserFunction declared inside a `load { }` block.
func writeLoadTag(root string, hooks [][]string) *cerr.Error {
	if len(hooks) == 0 {
		return nil
	}
	tag := loadTag{}
	for _, path := range hooks {
		dottedNS, simpleName := splitPath(path)
		tag.Values = append(tag.Values, dottedNS+":"+simpleName)
	}
	data, err := json.MarshalIndent(tag, "", "  ")
	if err != nil {
		return cerr.NewIO(token.Position{}, err, "failed to encode load.json")
	}
	dir := filepath.Join(root, "data", "minecraft", "tags", "function")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cerr.NewIO(token.Position{}, err, "failed to create %q", dir)
	}
	if err := os.WriteFile(filepath.Join(dir, "load.json"), data, 0o644); err != nil {
		return cerr.NewIO(token.Position{}, err, "failed to write load.json")
	}
	return nil
}

func splitPath(path []string) (dottedNS, simpleName string) {
	simpleName = path[len(path)-1]
	dottedNS = strings.Join(path[:len(path)-1], ".")
	return
}

// copyExternals copies every source-provided mcfunction file named by
// an ExternalFunction's engine location into its place under the
// output tree, searching each source root in order for a matching
// "<path-with-colon-as-slash>.mcfunction" file.
func copyExternals(root string, sourceDirs []string, externals []ast.ExternalFunction) *cerr.Error {
	for _, ext := range externals {
		rel := engineLocationToRelPath(ext.EngineLocation)
		src, found := findUnder(sourceDirs, rel)
		if !found {
			return cerr.NewIO(token.Position{}, nil, "no source mcfunction file found for %q", ext.EngineLocation)
		}
		dst := filepath.Join(root, "data", filepath.FromSlash(rel))
		if err := copyFile(src, dst); err != nil {
			return cerr.NewIO(token.Position{}, err, "failed to copy external function %q", ext.EngineLocation)
		}
	}
	return nil
}

func engineLocationToRelPath(loc string) string {
	ns := loc
	path := loc
	if idx := strings.IndexByte(loc, ':'); idx >= 0 {
		ns = loc[:idx]
		path = loc[idx+1:]
	}
	return ns + "/functions/" + path + ".mcfunction"
}

func findUnder(sourceDirs []string, rel string) (string, bool) {
	for _, dir := range sourceDirs {
		candidate := filepath.Join(dir, filepath.FromSlash(rel))
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// copyIcon copies the project's pack.png, if one is configured. A
// failure here is non-fatal to the build: it's reported to stderr, but
// Assemble proceeds and produces a pack with no icon.
func copyIcon(root, iconPath string) {
	if iconPath == "" {
		return
	}
	if err := copyFile(iconPath, filepath.Join(root, "pack.png")); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to copy icon %q; continuing without one: %v\n", iconPath, err)
	}
}
