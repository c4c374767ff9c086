package parser

import (
	"strings"

	"github.com/cubent-lang/cubent/internal/ast"
	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/lexer"
	"github.com/cubent-lang/cubent/internal/token"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// parseExpr is the entry point into the four-level precedence ladder
// the grammar describes. Each level is left-associative; levels are
// ordered lowest-to-highest exactly as specified: {||, &&}, {==, !=},
// {*, /}, {+, -} — note that +/- bind *tighter* than */ here, the
// inverse of conventional precedence. This ordering is retained as-is:
// existing source depends on it.
func (p *Parser) parseExpr() []ast.Command {
	return p.parseOrAnd()
}

func (p *Parser) parseOrAnd() []ast.Command {
	lhs := p.parseEqNeq()
	for {
		switch {
		case p.isPunct("||"):
			lhs = p.combine(lhs, ast.OpOr, p.parseEqNeq)
		case p.isPunct("&&"):
			lhs = p.combine(lhs, ast.OpAnd, p.parseEqNeq)
		default:
			return lhs
		}
	}
}

func (p *Parser) parseEqNeq() []ast.Command {
	lhs := p.parseMulDiv()
	for {
		switch {
		case p.isPunct("=="):
			lhs = p.combine(lhs, ast.OpEq, p.parseMulDiv)
		case p.isPunct("!="):
			lhs = p.combine(lhs, ast.OpNeq, p.parseMulDiv)
		default:
			return lhs
		}
	}
}

func (p *Parser) parseMulDiv() []ast.Command {
	lhs := p.parseAddSub()
	for {
		switch {
		case p.isPunct("*"):
			lhs = p.combine(lhs, ast.OpMul, p.parseAddSub)
		case p.isPunct("/"):
			lhs = p.combine(lhs, ast.OpDiv, p.parseAddSub)
		default:
			return lhs
		}
	}
}

func (p *Parser) parseAddSub() []ast.Command {
	lhs := p.parsePrimary()
	for {
		switch {
		case p.isPunct("+"):
			lhs = p.combine(lhs, ast.OpAdd, p.parsePrimary)
		case p.isPunct("-"):
			lhs = p.combine(lhs, ast.OpSub, p.parsePrimary)
		default:
			return lhs
		}
	}
}

// combine consumes the current operator token, parses the right-hand
// operand with next, and appends the binary opcode after both operand
// command streams, producing postfix IR.
func (p *Parser) combine(lhs []ast.Command, op ast.Op, next func() []ast.Command) []ast.Command {
	opTok := p.current()
	p.advance()
	rhs := next()
	out := make([]ast.Command, 0, len(lhs)+len(rhs)+1)
	out = append(out, lhs...)
	out = append(out, rhs...)
	out = append(out, ast.Command{Op: op, Position: opTok.Position})
	return out
}

// parsePrimary implements the Primary production: an
// identifier (resolved as an import-alias call, a parameter GET_ARG, or
// a variable GET_VAR) or a literal.
func (p *Parser) parsePrimary() []ast.Command {
	cur := p.current()

	switch cur.Kind {
	case token.Identifier:
		p.advance()
		if p.isPunct("(") {
			return p.finishCall(cur)
		}
		if idx, ok := p.params[cur.Body]; ok {
			return []ast.Command{{Op: ast.OpGetArg, ArgIndex: idx, Position: cur.Position}}
		}
		return []ast.Command{{Op: ast.OpGetVar, Name: cur.Body, Position: cur.Position}}

	case token.Boolean:
		p.advance()
		return []ast.Command{{Op: ast.OpLoad, LoadType: ast.TBoolean, LoadLiteral: cur.Body, Position: cur.Position}}

	case token.Byte, token.Short, token.Long, token.Float:
		p.advance()
		typ, lit := stripNumericSuffix(cur)
		return []ast.Command{{Op: ast.OpLoad, LoadType: typ, LoadLiteral: lit, Position: cur.Position}}

	case token.Int:
		p.advance()
		return []ast.Command{{Op: ast.OpLoad, LoadType: ast.TInt, LoadLiteral: cur.Body, Position: cur.Position}}

	case token.Double:
		p.advance()
		lit := strings.TrimSuffix(strings.TrimSuffix(cur.Body, "d"), "D")
		return []ast.Command{{Op: ast.OpLoad, LoadType: ast.TDouble, LoadLiteral: lit, Position: cur.Position}}

	case token.String:
		p.advance()
		decoded := lexer.UnescapeString(cur.Body)
		return []ast.Command{{Op: ast.OpLoad, LoadType: ast.TString, LoadLiteral: decoded, Position: cur.Position}}

	default:
		p.addError(p.unexpected("an expression"))
		p.synchronize()
		return nil
	}
}

var suffixes = map[ast.CubentType]string{
	ast.TByte:  "b",
	ast.TShort: "s",
	ast.TLong:  "l",
	ast.TFloat: "f",
}

func stripNumericSuffix(cur token.Lexeme) (ast.CubentType, string) {
	var typ ast.CubentType
	switch cur.Kind {
	case token.Byte:
		typ = ast.TByte
	case token.Short:
		typ = ast.TShort
	case token.Long:
		typ = ast.TLong
	case token.Float:
		typ = ast.TFloat
	}
	lit := cur.Body
	if suffix, ok := suffixes[typ]; ok && len(lit) > 0 {
		lit = strings.TrimSuffix(strings.TrimSuffix(lit, suffix), strings.ToUpper(suffix))
	}
	return typ, lit
}

// finishCall implements the call production reached from Primary: the
// identifier already consumed (aliasTok) must be a declared import
// alias in this file; "(" is the current token.
func (p *Parser) finishCall(aliasTok token.Lexeme) []ast.Command {
	path, ok := p.imports.Resolve(aliasTok.Body)
	if !ok {
		p.addError(p.undefinedAliasError(aliasTok))
	}

	p.advance() // "("
	var args [][]ast.Command
	if !p.isPunct(")") {
		for {
			args = append(args, p.parseExpr())
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	p.expectPunct(")")

	out := make([]ast.Command, 0)
	for _, a := range args {
		out = append(out, a...)
	}
	out = append(out, ast.Command{Op: ast.OpCall, QualifiedPath: path, Argc: len(args), Position: aliasTok.Position})
	return out
}

func (p *Parser) undefinedAliasError(aliasTok token.Lexeme) *cerr.Error {
	err := cerr.NewScope(aliasTok.Position, "undefined function %q (no matching import)", aliasTok.Body).
		At(p.file, p.funcName)
	if best := closestAlias(aliasTok.Body, p.imports); best != "" {
		err = err.WithSuggestion(best)
	}
	return err
}

// closestAlias suggests the declared import alias with the smallest
// Levenshtein distance to name (lithammer/fuzzysearch's
// LevenshteinDistance), so a typo in an import alias gets a "did you
// mean" hint instead of a bare error. It returns "" only when the file
// declares no aliases.
func closestAlias(name string, imports *ast.ImportMap) string {
	best, bestDist := "", -1
	for _, alias := range imports.Aliases() {
		if d := fuzzy.LevenshteinDistance(name, alias); bestDist < 0 || d < bestDist {
			best, bestDist = alias, d
		}
	}
	return best
}
