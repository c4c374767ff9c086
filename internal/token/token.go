// Package token defines the lexeme and position types shared by the
// lexer, parser, and emitter.
package token

import "fmt"

// Kind identifies the lexical category of a Lexeme.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	Keyword
	TypeName
	Identifier

	Byte
	Boolean
	Short
	Int
	Long
	Float
	Double
	String

	Punctuation
)

var kindNames = [...]string{
	EOF:         "EOF",
	ILLEGAL:     "ILLEGAL",
	Keyword:     "Keyword",
	TypeName:    "TypeName",
	Identifier:  "Identifier",
	Byte:        "Byte",
	Boolean:     "Boolean",
	Short:       "Short",
	Int:         "Int",
	Long:        "Long",
	Float:       "Float",
	Double:      "Double",
	String:      "String",
	Punctuation: "Punctuation",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords is the set of reserved words of the Cubent language.
var Keywords = map[string]bool{
	"namespace": true,
	"import":    true,
	"as":        true,
	"function":  true,
	"mcfunction": true,
	"var":       true,
	"if":        true,
	"else":      true,
	"load":      true,
	"tick":      true,
}

// TypeNames is the set of reserved type names, including the ones the
// Emitter does not yet fully support (they still lex as TypeName so the
// parser can accept them in positions that only need a type token).
var TypeNames = map[string]bool{
	"Void":      true,
	"Any":       true,
	"Byte":      true,
	"Boolean":   true,
	"Short":     true,
	"Int":       true,
	"Long":      true,
	"Float":     true,
	"Double":    true,
	"String":    true,
	"List":      true,
	"Compound":  true,
	"ByteArray": true,
	"IntArray":  true,
	"LongArray": true,
}

// Position is a zero-based source location used only for diagnostics.
type Position struct {
	Offset uint32
	Line   uint32
	Column uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Lexeme is a single scanned token.
type Lexeme struct {
	Kind     Kind
	Position Position
	Body     string

	// Detail carries a short, human-readable reason for ILLEGAL lexemes
	// (invalid numeric range, unterminated string, unknown escape). It is
	// empty for every well-formed lexeme.
	Detail string
}

func (l Lexeme) String() string {
	return fmt.Sprintf("%s(%q)@%s", l.Kind, l.Body, l.Position)
}

// IsEOF reports whether the lexeme marks end of input.
func (l Lexeme) IsEOF() bool { return l.Kind == EOF }
