// Package cerr defines Cubent's structured compile-error taxonomy as a
// single error type with a Kind discriminator, carrying enough
// position and context to render a caret diagnostic.
package cerr

import (
	"fmt"

	"github.com/cubent-lang/cubent/internal/token"
)

// Kind is one member of the compiler's error taxonomy.
type Kind string

const (
	Lexical Kind = "LexicalError"
	Syntax  Kind = "SyntaxError"
	Scope   Kind = "ScopeError"
	Type    Kind = "TypeError"
	IO      Kind = "IOError"
	Config  Kind = "ConfigError"
)

// Error is a structured compile error: a Kind, a message, a source
// position, and enough context (file, enclosing function) for the
// top-level driver to render a caret diagnostic.
type Error struct {
	Kind     Kind
	Message  string
	Position token.Position
	File     string
	Function string
	Cause    error

	// suggestion holds an optional fuzzy-matched "did you mean" hint; see
	// WithSuggestion.
	suggestion string
}

// WithSuggestion attaches a "did you mean" hint to e and returns e.
func (e *Error) WithSuggestion(name string) *Error {
	if name != "" {
		e.suggestion = fmt.Sprintf("did you mean %q?", name)
	}
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.As/errors.Is to see through to Cause.
func (e *Error) Unwrap() error { return e.Cause }

// At returns a copy of e with File and Function filled in, the way the
// top-level driver supplements errors bubbled up from the Lexer, Parser,
// or Emitter, which do not know which file/function they are working on.
func (e *Error) At(file, function string) *Error {
	cp := *e
	cp.File = file
	cp.Function = function
	return &cp
}

// New constructs a bare Error of the given kind at pos.
func New(kind Kind, pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Position: pos, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given kind wrapping cause.
func Wrap(kind Kind, pos token.Position, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Position: pos, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func NewLexical(pos token.Position, format string, args ...interface{}) *Error {
	return New(Lexical, pos, format, args...)
}

func NewSyntax(pos token.Position, format string, args ...interface{}) *Error {
	return New(Syntax, pos, format, args...)
}

func NewScope(pos token.Position, format string, args ...interface{}) *Error {
	return New(Scope, pos, format, args...)
}

func NewType(pos token.Position, format string, args ...interface{}) *Error {
	return New(Type, pos, format, args...)
}

func NewIO(pos token.Position, cause error, format string, args ...interface{}) *Error {
	return Wrap(IO, pos, cause, format, args...)
}

func NewConfig(format string, args ...interface{}) *Error {
	return New(Config, token.Position{}, format, args...)
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	ce, ok := err.(*Error)
	return ok && ce.Kind == kind
}
