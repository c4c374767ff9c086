// Package parser implements Cubent's recursive-descent parser: it
// consumes lexemes from internal/lexer and produces, for each declared
// function, a linear IR (internal/ast) plus a global function table and
// a per-file import alias map.
package parser

import (
	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/lexer"
	"github.com/cubent-lang/cubent/internal/token"
)

// Parser holds the state for parsing a single source file. The function
// table it declares into is shared and lives for the whole compilation;
// the import map and namespace prefix are local to this file.
type Parser struct {
	lex   *lexer.Lexer
	file  string
	input string

	functions *ast.FunctionTable
	imports   *ast.ImportMap

	nsPrefix []string

	// funcName names the function currently being parsed, for error
	// context; empty outside a function body.
	funcName string

	// params maps the enclosing function's parameter names to their
	// index, so Primary can distinguish GET_ARG from GET_VAR.
	params map[string]int

	errors []*cerr.Error
}

// Result is everything ParseFile produces for one source file.
type Result struct {
	Imports *ast.ImportMap
	Errors  []*cerr.Error
}

// ParseFile parses source (from file) and declares every function it
// finds into table. Parsing continues past a malformed statement (via
// synchronize) to collect as many errors as possible, but the caller
// should treat any non-empty Result.Errors as a failed compile per
// ("every error aborts the current compile").
func ParseFile(file, source string, table *ast.FunctionTable) Result {
	p := &Parser{
		lex:       lexer.New(source),
		file:      file,
		input:     source,
		functions: table,
		imports:   ast.NewImportMap(),
	}
	p.parseFile()
	return Result{Imports: p.imports, Errors: p.errors}
}

func (p *Parser) current() token.Lexeme { return p.lex.Peek() }
func (p *Parser) advance() token.Lexeme { return p.lex.Next() }

func (p *Parser) isKeyword(kw string) bool {
	cur := p.current()
	return cur.Kind == token.Keyword && cur.Body == kw
}

func (p *Parser) isPunct(text string) bool {
	cur := p.current()
	return cur.Kind == token.Punctuation && cur.Body == text
}

// parseFile implements: file := { import } , { block } , EOF
func (p *Parser) parseFile() {
	for p.isKeyword("import") {
		p.parseImport()
	}

	for !p.current().IsEOF() {
		switch {
		case p.isKeyword("namespace"):
			p.parseNamespace()
		case p.isKeyword("load"):
			p.parseLoadBlock()
		case p.isKeyword("tick"):
			p.advance() // tick_block := "tick"; accepted, produces nothing.
		case p.isKeyword("function"), p.isKeyword("mcfunction"):
			// A struct declared outside any namespace is qualified by
			// its bare name, the same as p.qualify would do with an
			// empty nsPrefix.
			p.parseStructs(false)
		default:
			p.addError(p.unexpected("'namespace', 'load', 'tick', 'function', or 'mcfunction'"))
			p.synchronize()
		}
	}
}

// parseImport implements:
//
//	import := "import" , ident , { "." , ident } , [ "as" , ident ] , ";"
func (p *Parser) parseImport() {
	p.advance() // "import"

	first, ok := p.expectIdentifier()
	if !ok {
		p.synchronize()
		return
	}
	path := []string{first}
	for p.isPunct(".") {
		p.advance()
		seg, ok := p.expectIdentifier()
		if !ok {
			p.synchronize()
			return
		}
		path = append(path, seg)
	}

	alias := ast.SimpleName(path)
	if p.isKeyword("as") {
		p.advance()
		a, ok := p.expectIdentifier()
		if !ok {
			p.synchronize()
			return
		}
		alias = a
	}

	if !p.expectPunct(";") {
		p.synchronize()
		return
	}

	if err := p.imports.Declare(alias, path); err != nil {
		p.addError(cerr.NewScope(p.current().Position, "%s", err).At(p.file, ""))
	}
}

// parseNamespace implements:
//
//	namespace := "namespace" , ident , { "." , ident } , "{" , { struct } , "}"
func (p *Parser) parseNamespace() {
	p.advance() // "namespace"

	first, ok := p.expectIdentifier()
	if !ok {
		p.synchronize()
		return
	}
	prefix := []string{first}
	for p.isPunct(".") {
		p.advance()
		seg, ok := p.expectIdentifier()
		if !ok {
			p.synchronize()
			return
		}
		prefix = append(prefix, seg)
	}

	if !p.expectPunct("{") {
		p.synchronize()
		return
	}

	p.nsPrefix = prefix
	p.parseStructs(false)
	p.nsPrefix = nil

	p.expectPunct("}")
}

// parseLoadBlock implements: load blocks may contain function
// declarations, each of which is also registered as a load hook.
func (p *Parser) parseLoadBlock() {
	p.advance() // "load"
	if !p.expectPunct("{") {
		p.synchronize()
		return
	}

	p.nsPrefix = []string{"load"}
	p.parseStructs(true)
	p.nsPrefix = nil

	p.expectPunct("}")
}

// parseStructs implements: { struct } where struct := function | mcfunction
func (p *Parser) parseStructs(asLoadHook bool) {
	for {
		switch {
		case p.isKeyword("function"):
			p.parseFunction(asLoadHook)
		case p.isKeyword("mcfunction"):
			p.parseMcfunction()
		default:
			return
		}
	}
}

func (p *Parser) qualify(name string) []string {
	path := make([]string, 0, len(p.nsPrefix)+1)
	path = append(path, p.nsPrefix...)
	path = append(path, name)
	return path
}

// parseParams implements: params := "(" , [ param , { "," , param } ] , ")"
func (p *Parser) parseParams() []ast.Parameter {
	if !p.expectPunct("(") {
		return nil
	}
	var params []ast.Parameter
	if !p.isPunct(")") {
		for {
			name, ok := p.expectIdentifier()
			if !ok {
				break
			}
			if !p.expectPunct(":") {
				break
			}
			typ, ok := p.expectTypeName()
			if !ok {
				break
			}
			params = append(params, ast.Parameter{Name: name, Type: ast.CubentType(typ)})
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	p.expectPunct(")")
	return params
}

// parseFunction implements:
//
//	function := "function" , ident , params , ":" , type , "{" , { stmt } , "}"
func (p *Parser) parseFunction(asLoadHook bool) []string {
	p.advance() // "function"

	name, ok := p.expectIdentifier()
	if !ok {
		p.synchronize()
		return nil
	}
	params := p.parseParams()

	if !p.expectPunct(":") {
		p.synchronize()
		return nil
	}
	retType, ok := p.expectTypeName()
	if !ok {
		p.synchronize()
		return nil
	}

	path := p.qualify(name)

	p.funcName = ast.JoinPath(path)
	p.params = make(map[string]int, len(params))
	for i, param := range params {
		p.params[param.Name] = i
	}

	if !p.expectPunct("{") {
		p.funcName = ""
		p.params = nil
		p.synchronize()
		return nil
	}

	body := p.parseStmts()
	p.expectPunct("}")

	p.funcName = ""
	p.params = nil

	fn := ast.Function{User: &ast.UserFunction{
		QualifiedPath: path,
		Parameters:    params,
		ReturnType:    ast.CubentType(retType),
		Body:          body,
		File:          p.file,
	}}
	if err := p.functions.Declare(fn); err != nil {
		p.addError(cerr.NewScope(token.Position{}, "%s", err).At(p.file, ast.JoinPath(path)))
	} else if asLoadHook {
		p.functions.LoadHooks = append(p.functions.LoadHooks, path)
	}
	return path
}

// parseMcfunction implements:
//
//	mcfunction := "mcfunction" , string , ident , params , ":" , type , ";"
func (p *Parser) parseMcfunction() {
	p.advance() // "mcfunction"

	locTok := p.current()
	if locTok.Kind != token.String {
		p.addError(p.unexpected("a string literal engine location"))
		p.synchronize()
		return
	}
	p.advance()
	location := lexer.UnescapeString(locTok.Body)

	name, ok := p.expectIdentifier()
	if !ok {
		p.synchronize()
		return
	}
	params := p.parseParams()

	if !p.expectPunct(":") {
		p.synchronize()
		return
	}
	retType, ok := p.expectTypeName()
	if !ok {
		p.synchronize()
		return
	}
	if !p.expectPunct(";") {
		p.synchronize()
		return
	}

	path := p.qualify(name)
	fn := ast.Function{External: &ast.ExternalFunction{
		QualifiedPath:  path,
		Parameters:     params,
		ReturnType:     ast.CubentType(retType),
		EngineLocation: location,
	}}
	if err := p.functions.Declare(fn); err != nil {
		p.addError(cerr.NewScope(locTok.Position, "%s", err).At(p.file, ""))
	}
}
