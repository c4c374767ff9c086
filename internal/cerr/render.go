package cerr

import (
	"fmt"
	"strings"
)

// Render formats e as a caret diagnostic:
//
//	Error at line L, column C in file '<abs path>', function '<dotted>': <msg>
//	    <offending source line, trimmed>
//	         ^
//
// source is the full text of e.File, used to extract the offending line;
// it may be empty if unavailable, in which case only the header line is
// rendered.
func Render(e *Error, source string) string {
	// e.Position is zero-based; line and column are bumped by one only
	// here, at the point of human-facing display.
	displayLine := int(e.Position.Line) + 1
	displayCol := int(e.Position.Column) + 1

	var b strings.Builder
	fmt.Fprintf(&b, "Error at line %d, column %d in file '%s', function '%s': %s",
		displayLine, displayCol, e.File, e.Function, e.Message)

	if e.Detail() != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail())
	}

	if source == "" {
		return b.String()
	}

	lines := strings.Split(source, "\n")
	lineNo := displayLine
	if lineNo < 1 || lineNo > len(lines) {
		return b.String()
	}
	raw := lines[lineNo-1]
	trimmed := strings.TrimRight(raw, " \t\r")

	col := displayCol
	if col < 1 {
		col = 1
	}
	if col > len(trimmed)+1 {
		col = len(trimmed) + 1
	}

	b.WriteByte('\n')
	b.WriteString("    ")
	b.WriteString(trimmed)
	b.WriteByte('\n')
	b.WriteString("    ")
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteByte('^')

	return b.String()
}

// Detail returns a short suggestion appended to the message (e.g. a
// fuzzy-matched "did you mean" hint); empty unless WithSuggestion was
// used to build e.
func (e *Error) Detail() string { return e.suggestion }
