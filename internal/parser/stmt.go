package parser

import (
	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/token"
)

// parseStmts implements the { stmt } repetition inside a function or
// if-block body.
func (p *Parser) parseStmts() []ast.Command {
	var body []ast.Command
	for !p.isPunct("}") && !p.current().IsEOF() {
		body = append(body, p.parseStmt()...)
	}
	return body
}

// parseStmt implements: stmt := var_decl | if_stmt | call_stmt | assign_stmt
func (p *Parser) parseStmt() []ast.Command {
	switch {
	case p.isKeyword("var"):
		return p.parseVarDecl()
	case p.isKeyword("if"):
		return p.parseIfStmt()
	case p.current().Kind == token.Identifier:
		return p.parseIdentifierLedStmt()
	default:
		p.addError(p.unexpected("a statement"))
		p.synchronize()
		return nil
	}
}

// parseVarDecl implements: var_decl := "var" , ident , "=" , expr , ";"
func (p *Parser) parseVarDecl() []ast.Command {
	pos := p.current().Position
	p.advance() // "var"

	name, ok := p.expectIdentifier()
	if !ok {
		p.synchronize()
		return nil
	}
	if !p.expectPunct("=") {
		p.synchronize()
		return nil
	}
	value := p.parseExpr()
	if !p.expectPunct(";") {
		p.synchronize()
		return nil
	}

	out := make([]ast.Command, 0, len(value)+1)
	out = append(out, value...)
	out = append(out, ast.Command{Op: ast.OpDeclareVar, Name: name, Position: pos})
	return out
}

// parseIfStmt implements:
//
//	if_stmt := "if" , "(" , expr , ")" , "{" , { stmt } , "}"
func (p *Parser) parseIfStmt() []ast.Command {
	pos := p.current().Position
	p.advance() // "if"

	if !p.expectPunct("(") {
		p.synchronize()
		return nil
	}
	cond := p.parseExpr()
	if !p.expectPunct(")") {
		p.synchronize()
		return nil
	}
	if !p.expectPunct("{") {
		p.synchronize()
		return nil
	}
	block := p.parseStmts()
	p.expectPunct("}")

	out := make([]ast.Command, 0, len(cond)+1)
	out = append(out, cond...)
	out = append(out, ast.Command{Op: ast.OpDoIf, Block: block, Position: pos})
	return out
}

// parseIdentifierLedStmt disambiguates call_stmt from assign_stmt: both
// start with an identifier; the following token (already the next
// lookahead once the identifier is consumed) decides which production
// applies.
//
//	call_stmt   := import_alias , "(" , [ expr , { "," , expr } ] , ")" , ";"
//	assign_stmt := ident , { "." , ident } , "=" , expr , ";"
func (p *Parser) parseIdentifierLedStmt() []ast.Command {
	first := p.current()
	p.advance()

	if p.isPunct("(") {
		call := p.finishCall(first)
		if !p.expectPunct(";") {
			p.synchronize()
			return nil
		}
		return call
	}

	return p.parseAssignStmt(first)
}

// parseAssignStmt implements assign_stmt given that its leading
// identifier has already been consumed into first.
func (p *Parser) parseAssignStmt(first token.Lexeme) []ast.Command {
	path := []string{first.Body}
	for p.isPunct(".") {
		p.advance()
		seg, ok := p.expectIdentifier()
		if !ok {
			p.synchronize()
			return nil
		}
		path = append(path, seg)
	}

	if !p.expectPunct("=") {
		p.synchronize()
		return nil
	}
	value := p.parseExpr()
	if !p.expectPunct(";") {
		p.synchronize()
		return nil
	}

	out := make([]ast.Command, 0, len(value)+len(path))
	out = append(out, value...)
	out = append(out, assignTarget(path, first.Position)...)
	return out
}

// assignTarget implements the assignment emission rule:
// "Assignment to a.b.c = expr emits: evaluate expr, then GET_VAR(a),
// GET_PROP(b), SET_PROP(c)". For a bare `x = expr` (path length 1) the
// target is the variable itself, emitted as SET_VAR.
func assignTarget(path []string, pos token.Position) []ast.Command {
	if len(path) == 1 {
		return []ast.Command{{Op: ast.OpSetVar, Name: path[0], Position: pos}}
	}

	out := make([]ast.Command, 0, len(path))
	out = append(out, ast.Command{Op: ast.OpGetVar, Name: path[0], Position: pos})
	for _, seg := range path[1 : len(path)-1] {
		out = append(out, ast.Command{Op: ast.OpGetProp, Name: seg, Position: pos})
	}
	out = append(out, ast.Command{Op: ast.OpSetProp, Name: path[len(path)-1], Position: pos})
	return out
}
