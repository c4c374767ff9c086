package cerr

import (
	"errors"
	"testing"

	"github.com/cubent-lang/cubent/internal/token"
)

func TestError_Error(t *testing.T) {
	e := NewType(token.Position{Line: 3, Column: 5}, "expected %s, got %s", "Int", "String")
	want := "TypeError: expected Int, got String"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_Error_WithCause(t *testing.T) {
	cause := errors.New("disk full")
	e := NewIO(token.Position{}, cause, "failed to write %q", "out.mcfunction")
	want := `IOError: failed to write "out.mcfunction" (caused by: disk full)`
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	e := NewIO(token.Position{}, cause, "oops")
	if !errors.Is(e, cause) {
		t.Errorf("errors.Is(e, cause) = false, want true")
	}
}

func TestError_At(t *testing.T) {
	e := NewScope(token.Position{}, "undefined variable %q", "x")
	e2 := e.At("main.cubent", "math.add")
	if e2.File != "main.cubent" || e2.Function != "math.add" {
		t.Errorf("At() did not set File/Function: %+v", e2)
	}
	if e.File != "" || e.Function != "" {
		t.Errorf("At() mutated the receiver in place: %+v", e)
	}
}

func TestError_WithSuggestion(t *testing.T) {
	e := NewScope(token.Position{}, "undefined variable %q", "counnt")
	e.WithSuggestion("count")
	if e.Detail() != `did you mean "count"?` {
		t.Errorf("Detail() = %q, want did-you-mean hint", e.Detail())
	}

	e2 := NewScope(token.Position{}, "undefined variable %q", "zzz")
	e2.WithSuggestion("")
	if e2.Detail() != "" {
		t.Errorf("Detail() = %q, want empty when no suggestion given", e2.Detail())
	}
}

func TestIs(t *testing.T) {
	e := NewType(token.Position{}, "bad type")
	if !Is(e, Type) {
		t.Errorf("Is(e, Type) = false, want true")
	}
	if Is(e, Scope) {
		t.Errorf("Is(e, Scope) = true, want false")
	}
	if Is(errors.New("plain"), Type) {
		t.Errorf("Is() on a non-*Error returned true")
	}
}
