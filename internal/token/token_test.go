package token

import "testing"

func TestKind_String(t *testing.T) {
	if got := Identifier.String(); got != "Identifier" {
		t.Errorf("Identifier.String() = %q, want %q", got, "Identifier")
	}
	if got := Kind(999).String(); got != "Kind(999)" {
		t.Errorf("Kind(999).String() = %q, want %q", got, "Kind(999)")
	}
}

func TestPosition_String(t *testing.T) {
	pos := Position{Line: 3, Column: 7}
	if got := pos.String(); got != "3:7" {
		t.Errorf("Position.String() = %q, want %q", got, "3:7")
	}
}

func TestLexeme_IsEOF(t *testing.T) {
	if !(Lexeme{Kind: EOF}).IsEOF() {
		t.Errorf("IsEOF() = false for an EOF lexeme")
	}
	if (Lexeme{Kind: Identifier}).IsEOF() {
		t.Errorf("IsEOF() = true for a non-EOF lexeme")
	}
}

func TestLexeme_String(t *testing.T) {
	l := Lexeme{Kind: Identifier, Body: "count", Position: Position{Line: 1, Column: 1}}
	want := `Identifier("count")@1:1`
	if got := l.String(); got != want {
		t.Errorf("Lexeme.String() = %q, want %q", got, want)
	}
}

func TestKeywordsAndTypeNamesAreDisjoint(t *testing.T) {
	for kw := range Keywords {
		if TypeNames[kw] {
			t.Errorf("%q is listed as both a keyword and a type name", kw)
		}
	}
}
