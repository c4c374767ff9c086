// Package compile is the top-level driver that turns a tree of .cubent
// source files into the compiled .mcfunction outputs the datapack
// assembler writes to disk: it discovers sources, runs the Lexer and
// Parser over each one into a shared function table, then runs the
// Emitter once every file has been parsed.
package compile

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/emitter"
	"github.com/cubent-lang/cubent/internal/parser"
)

// Result is everything one compilation produced.
type Result struct {
	Outputs   []emitter.Output
	LoadHooks [][]string
	Externals []ast.ExternalFunction
	Errors    []*cerr.Error

	// Sources maps each parsed file's path to its text, so the caller
	// can render a caret diagnostic for any Error.
	Sources map[string]string
}

// Ok reports whether the compile produced zero errors.
func (r Result) Ok() bool { return len(r.Errors) == 0 }

// Compile discovers every ".cubent" file under the given source roots
// (in lexicographic order within and across roots, so a fixed build
// UUID always yields identical output), parses them into one shared
// function table, and — only if parsing produced no errors — emits
// every declared function.
func Compile(sourceDirs []string, buildUUID string) Result {
	files, readErr := discover(sourceDirs)
	if readErr != nil {
		return Result{Errors: []*cerr.Error{readErr}}
	}

	table := ast.NewFunctionTable()
	sources := make(map[string]string, len(files))
	var errs []*cerr.Error

	for _, f := range files {
		sources[f.path] = f.text
		res := parser.ParseFile(f.path, f.text, table)
		errs = append(errs, res.Errors...)
	}

	if len(errs) > 0 {
		return Result{Errors: errs, Sources: sources}
	}

	em := emitter.New(table, buildUUID)
	outputs, emitErrs := em.EmitAll()
	errs = append(errs, emitErrs...)

	return Result{
		Outputs:   outputs,
		LoadHooks: table.LoadHooks,
		Externals: externals(table),
		Errors:    errs,
		Sources:   sources,
	}
}

func externals(table *ast.FunctionTable) []ast.ExternalFunction {
	var out []ast.ExternalFunction
	for _, path := range table.Paths() {
		fn, _ := table.Lookup(strings.Split(path, "."))
		if fn.External != nil {
			out = append(out, *fn.External)
		}
	}
	return out
}

type sourceFile struct {
	path string
	text string
}

// discover walks every source root looking for ".cubent" files,
// reading each one, and returns them sorted by path so discovery order
// is stable regardless of the underlying filesystem's directory
// iteration order.
func discover(sourceDirs []string) ([]sourceFile, *cerr.Error) {
	var files []sourceFile
	for _, dir := range sourceDirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".cubent" {
				return nil
			}
			text, readErr := readFile(path)
			if readErr != nil {
				return readErr
			}
			files = append(files, sourceFile{path: path, text: text})
			return nil
		})
		if err != nil {
			return nil, cerr.NewIO(tokenZero(), err, "failed to read source directory %q", dir)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })
	return files, nil
}
