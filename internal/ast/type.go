// Package ast holds the intermediate representation the Parser produces
// and the Emitter consumes: function descriptors, the IR opcode stream,
// and the small set of primitive Cubent types.
package ast

// CubentType is a value from the language's fixed type enumeration.
// Only the primitive ten (everything except List/Compound/ByteArray/
// IntArray/LongArray) are fully supported by the Emitter; the remainder
// are reserved names the lexer and parser accept. The Emitter has no
// check of its own for them: arithmetic, equality and logical opcodes
// reject them like any other unsupported operand type, but a value of a
// reserved type can still be declared, assigned, or passed to a
// parameter of the same type.
type CubentType string

const (
	Void      CubentType = "Void"
	Any       CubentType = "Any"
	TByte     CubentType = "Byte"
	TBoolean  CubentType = "Boolean"
	TShort    CubentType = "Short"
	TInt      CubentType = "Int"
	TLong     CubentType = "Long"
	TFloat    CubentType = "Float"
	TDouble   CubentType = "Double"
	TString   CubentType = "String"
	TList     CubentType = "List"
	TCompound CubentType = "Compound"
	TByteArr  CubentType = "ByteArray"
	TIntArr   CubentType = "IntArray"
	TLongArr  CubentType = "LongArray"
)

// Numeric reports whether t is one of the Emitter's numeric kinds.
func (t CubentType) Numeric() bool {
	switch t {
	case TByte, TShort, TInt, TLong, TFloat, TDouble:
		return true
	default:
		return false
	}
}

// Integral reports whether t is one of the whole-number kinds the
// Emitter backs with a scoreboard score (Byte/Short/Int/Long), as
// opposed to Float/Double which only ever live in data storage.
func (t CubentType) Integral() bool {
	switch t {
	case TByte, TShort, TInt, TLong:
		return true
	default:
		return false
	}
}

// Reserved reports whether t is a type name the lexer/parser accept but
// that the Emitter does not implement operations over.
func (t CubentType) Reserved() bool {
	switch t {
	case TList, TCompound, TByteArr, TIntArr, TLongArr:
		return true
	default:
		return false
	}
}

// Primitive reports whether t is one of the ten fully-supported types.
func (t CubentType) Primitive() bool {
	return t != "" && !t.Reserved()
}

func (t CubentType) String() string { return string(t) }
