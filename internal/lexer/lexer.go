// Package lexer scans Cubent source text into a lazy sequence of
// token.Lexeme values with one-token lookahead.
package lexer

import (
	"strconv"
	"strings"

	"github.com/cubent-lang/cubent/internal/token"
)

// ASCII classification tables: precompute the hot-path character
// classes once instead of branching on every byte.
var (
	isSpace    [128]bool
	isDigit    [128]bool
	isAlpha    [128]bool
	isAlphaNum [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isSpace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
		isDigit[i] = ch >= '0' && ch <= '9'
		isAlpha[i] = (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		isAlphaNum[i] = isAlpha[i] || isDigit[i]
	}
}

// Lexer scans a full source buffer on demand. It is not safe for
// concurrent use; each source file gets its own Lexer.
type Lexer struct {
	input string
	pos   int // byte offset of the next unread byte
	line  uint32
	col   uint32

	lookahead  *token.Lexeme
	reachedEOF bool
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Peek returns the next lexeme without consuming it. Calling Peek
// repeatedly returns the same lexeme until Next is called.
func (l *Lexer) Peek() token.Lexeme {
	if l.lookahead == nil {
		tok := l.scan()
		l.lookahead = &tok
	}
	return *l.lookahead
}

// Next consumes and returns the next lexeme. Once EOF has been returned,
// subsequent calls keep returning EOF.
func (l *Lexer) Next() token.Lexeme {
	tok := l.Peek()
	l.lookahead = nil
	return tok
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *Lexer) byteAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() byte {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) here() token.Position {
	return token.Position{Offset: uint32(l.pos), Line: l.line, Column: l.col}
}

// scan performs the actual classification, in
// strict precedence order on the next non-whitespace byte.
func (l *Lexer) scan() token.Lexeme {
	if l.reachedEOF {
		return token.Lexeme{Kind: token.EOF, Position: l.here()}
	}

	l.skipWhitespaceAndComments()

	if l.atEnd() {
		l.reachedEOF = true
		return token.Lexeme{Kind: token.EOF, Position: l.here()}
	}

	start := l.here()
	ch := l.byteAt(0)

	switch {
	case ch == '=':
		return l.scanCombinable(start, '=', "==")
	case ch == '!':
		return l.scanCombinable(start, '=', "!=")
	case ch == '|':
		return l.scanCombinable(start, '|', "||")
	case ch == '&':
		return l.scanCombinable(start, '&', "&&")
	case isDigit[ch] || (ch == '.' && l.byteAt(1) < 128 && isDigit[l.byteAt(1)]):
		// A '.' starts a number only when a digit follows it; otherwise
		// it is the separator of a dotted name.
		return l.scanNumber(start)
	case ch == '"' || ch == '\'':
		return l.scanString(start)
	case ch < 128 && isAlpha[ch]:
		return l.scanIdentifier(start)
	default:
		l.advance()
		return token.Lexeme{Kind: token.Punctuation, Position: start, Body: string(ch)}
	}
}

// scanCombinable consumes the current byte, then combines it with a
// following second byte if it matches, producing the two-byte token;
// otherwise it emits the lone byte as a single-character Punctuation
// lexeme per the fallback rule ("!" has no meaning on its own,
// but the lexer still emits it — the Parser rejects it later).
func (l *Lexer) scanCombinable(start token.Position, second byte, combined string) token.Lexeme {
	first := l.advance()
	if l.byteAt(0) == second {
		l.advance()
		return token.Lexeme{Kind: token.Punctuation, Position: start, Body: combined}
	}
	return token.Lexeme{Kind: token.Punctuation, Position: start, Body: string(first)}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		if l.atEnd() {
			return
		}
		ch := l.byteAt(0)
		if ch < 128 && isSpace[ch] {
			l.advance()
			continue
		}
		if ch == '/' && l.byteAt(1) == '/' {
			for !l.atEnd() && l.byteAt(0) != '\n' {
				l.advance()
			}
			continue
		}
		if ch == '/' && l.byteAt(1) == '*' {
			l.advance()
			l.advance()
			for !l.atEnd() {
				if l.byteAt(0) == '*' && l.byteAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
			continue
		}
		return
	}
}

// scanNumber implements the numeric literal rules: digits,
// optional single '.', then an optional case-insensitive type suffix.
func (l *Lexer) scanNumber(start token.Position) token.Lexeme {
	startPos := l.pos
	sawDot := false

	for !l.atEnd() {
		ch := l.byteAt(0)
		if ch < 128 && isDigit[ch] {
			l.advance()
			continue
		}
		if ch == '.' && !sawDot {
			sawDot = true
			l.advance()
			continue
		}
		break
	}

	digits := l.input[startPos:l.pos]

	suffix := byte(0)
	if !l.atEnd() {
		suffix = l.byteAt(0)
	}

	switch lower(suffix) {
	case 'b':
		l.advance()
		return l.finishSuffixed(start, digits, sawDot, token.Byte, validByte)
	case 's':
		l.advance()
		return l.finishSuffixed(start, digits, sawDot, token.Short, validShort)
	case 'l':
		l.advance()
		return l.finishSuffixed(start, digits, sawDot, token.Long, validLong)
	case 'f':
		l.advance()
		return l.finishSuffixed(start, digits, sawDot, token.Float, validFloat)
	case 'd':
		l.advance()
		return l.finishSuffixed(start, digits, sawDot, token.Double, nil)
	default:
		return l.finishUnsuffixed(start, digits, sawDot)
	}
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func (l *Lexer) finishSuffixed(start token.Position, digits string, sawDot bool, kind token.Kind, validate func(digits string) bool) token.Lexeme {
	if kind != token.Double && kind != token.Float && sawDot {
		return token.Lexeme{Kind: token.ILLEGAL, Position: start, Body: digits + suffixLetter(kind),
			Detail: kind.String() + " literal cannot have a fractional part"}
	}
	if validate != nil && !validate(digits) {
		return token.Lexeme{Kind: token.ILLEGAL, Position: start, Body: digits + suffixLetter(kind),
			Detail: kind.String() + " literal out of range: " + digits}
	}
	return token.Lexeme{Kind: kind, Position: start, Body: digits + suffixLetter(kind)}
}

func suffixLetter(kind token.Kind) string {
	switch kind {
	case token.Byte:
		return "b"
	case token.Short:
		return "s"
	case token.Long:
		return "l"
	case token.Float:
		return "f"
	case token.Double:
		return "d"
	default:
		return ""
	}
}

// validByte retains a bit-compatible range check:
// it adds 128 to the (always non-negative, since the grammar has no
// unary minus) literal value and requires the result fit in an unsigned
// byte, i.e. the literal itself must be in [0,127].
func validByte(digits string) bool {
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return false
	}
	shifted := v + 128
	return shifted >= 0 && shifted <= 255
}

func validShort(digits string) bool {
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return false
	}
	return v >= -32768 && v <= 32767
}

func validLong(digits string) bool {
	_, err := strconv.ParseInt(digits, 10, 64)
	return err == nil
}

func validFloat(digits string) bool {
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return false
	}
	if v < 0 {
		v = -v
	}
	return v <= 3.4e38
}

func (l *Lexer) finishUnsuffixed(start token.Position, digits string, sawDot bool) token.Lexeme {
	if sawDot {
		return token.Lexeme{Kind: token.Double, Position: start, Body: digits}
	}
	if _, err := strconv.ParseInt(digits, 10, 32); err == nil {
		return token.Lexeme{Kind: token.Int, Position: start, Body: digits}
	}
	return token.Lexeme{Kind: token.ILLEGAL, Position: start, Body: digits,
		Detail: "integer literal out of Int range: " + digits}
}

// scanString implements the string literal rules. Unescaping is
// deferred to the Parser; the lexeme body includes the delimiters and
// raw escape bytes.
func (l *Lexer) scanString(start token.Position) token.Lexeme {
	startPos := l.pos
	quote := l.advance()

	var detail string
	valid := true

	for {
		if l.atEnd() {
			valid = false
			detail = "unterminated string literal"
			break
		}
		ch := l.byteAt(0)
		if ch == quote {
			l.advance()
			break
		}
		if ch == '\n' || ch == '\r' {
			valid = false
			detail = "unterminated string literal (unescaped newline)"
			break
		}
		if ch == '\\' {
			l.advance()
			if l.atEnd() {
				valid = false
				detail = "unterminated string literal"
				break
			}
			esc := l.byteAt(0)
			if esc != '\\' && esc != '"' && esc != '\'' {
				valid = false
				detail = "unknown escape sequence \\" + string(esc)
			}
			l.advance()
			continue
		}
		l.advance()
	}

	body := l.input[startPos:l.pos]
	if !valid {
		return token.Lexeme{Kind: token.ILLEGAL, Position: start, Body: body, Detail: detail}
	}
	return token.Lexeme{Kind: token.String, Position: start, Body: body}
}

// scanIdentifier implements the identifier rule plus the
// post-classification into Keyword/TypeName/Boolean/Identifier.
func (l *Lexer) scanIdentifier(start token.Position) token.Lexeme {
	startPos := l.pos
	for !l.atEnd() {
		ch := l.byteAt(0)
		if ch >= 128 || !isAlphaNum[ch] {
			break
		}
		l.advance()
	}
	word := l.input[startPos:l.pos]

	switch {
	case word == "true" || word == "false":
		return token.Lexeme{Kind: token.Boolean, Position: start, Body: word}
	case token.Keywords[word]:
		return token.Lexeme{Kind: token.Keyword, Position: start, Body: word}
	case token.TypeNames[word]:
		return token.Lexeme{Kind: token.TypeName, Position: start, Body: word}
	default:
		return token.Lexeme{Kind: token.Identifier, Position: start, Body: word}
	}
}

// UnescapeString strips the surrounding delimiters from a raw String
// lexeme body and resolves \\, \", \' escapes. It is exported for the
// Parser, which owns unescaping.
func UnescapeString(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	inner := raw[1 : len(raw)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
