package parser

import (
	"fmt"

	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/token"
)

// syntaxf raises a SyntaxError at the current token.
func (p *Parser) syntaxf(format string, args ...interface{}) *cerr.Error {
	return cerr.NewSyntax(p.current().Position, format, args...).At(p.file, p.funcName)
}

func (p *Parser) unexpected(expected string) *cerr.Error {
	got := p.current()
	return p.syntaxf("expected %s, got %s %q", expected, got.Kind, got.Body)
}

// expectKeyword consumes the current token if it is the keyword kw,
// otherwise records a SyntaxError and returns false.
func (p *Parser) expectKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.advance()
		return true
	}
	p.addError(p.unexpected(fmt.Sprintf("keyword %q", kw)))
	return false
}

// expectPunct consumes the current token if its body matches text,
// otherwise records a SyntaxError and returns false.
func (p *Parser) expectPunct(text string) bool {
	if p.isPunct(text) {
		p.advance()
		return true
	}
	p.addError(p.unexpected(fmt.Sprintf("%q", text)))
	return false
}

func (p *Parser) expectIdentifier() (string, bool) {
	cur := p.current()
	if cur.Kind == token.Identifier {
		p.advance()
		return cur.Body, true
	}
	p.addError(p.unexpected("an identifier"))
	return "", false
}

func (p *Parser) expectTypeName() (string, bool) {
	cur := p.current()
	if cur.Kind == token.TypeName {
		p.advance()
		return cur.Body, true
	}
	p.addError(p.unexpected("a type name"))
	return "", false
}

func (p *Parser) addError(err *cerr.Error) {
	p.errors = append(p.errors, err)
}

// synchronize skips tokens until the next likely statement/declaration
// boundary, so one malformed statement doesn't prevent the rest of the
// file from being checked for further errors in the same pass.
func (p *Parser) synchronize() {
	for {
		cur := p.current()
		if cur.IsEOF() {
			return
		}
		if cur.Kind == token.Punctuation && (cur.Body == ";" || cur.Body == "}") {
			p.advance()
			return
		}
		if cur.Kind == token.Keyword {
			switch cur.Body {
			case "namespace", "import", "function", "mcfunction", "var", "if", "load", "tick":
				return
			}
		}
		p.advance()
	}
}
