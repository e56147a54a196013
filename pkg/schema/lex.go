package schema

import (
	"unicode"

	"github.com/otfgen/otfgen/pkg/source"
)

// tokenKind identifies the lexical class of a token (the token's span is
// kept beside it in the token struct), tailored to this schema language's fixed, small token set rather than
// being generic over an arbitrary rule table.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokDoc    // `/// ...` line, text already stripped of the leading slashes
	tokLBrace // {
	tokRBrace // }
	tokLParen // (
	tokRParen // )
	tokLBrack // [
	tokRBrack // ]
	tokLAngle // <
	tokRAngle // >
	tokColon
	tokColonColon
	tokComma
	tokEquals
	tokHash
	tokDotDot
	tokBang
)

type token struct {
	kind tokenKind
	text string
	span source.Span
}

// lexer tokenizes a schema document. It is purely mechanical: anything it
// cannot make sense of becomes a SyntaxError at the call site, never a
// panic: a lexical error is always a value the caller can report, never a
// crash.
type lexer struct {
	file *source.File
	src  []rune
	pos  int
}

func newLexer(file *source.File) *lexer {
	return &lexer{file: file, src: file.Contents()}
}

func (l *lexer) peekByte() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}

	return l.src[l.pos], true
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// skipWhitespaceAndComments advances past whitespace and `//`-style line
// comments that are not doc comments (`///`).
func (l *lexer) skipWhitespaceAndComments() {
	for {
		r, ok := l.peekByte()
		if !ok {
			return
		}

		if unicode.IsSpace(r) {
			l.pos++
			continue
		}

		if r == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' && !(l.pos+2 < len(l.src) && l.src[l.pos+2] == '/') {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}

			continue
		}

		return
	}
}

// next returns the next token, or a SyntaxError if the input cannot be
// tokenized at the current position.
func (l *lexer) next() (token, *source.SyntaxError) {
	l.skipWhitespaceAndComments()

	start := l.pos

	r, ok := l.peekByte()
	if !ok {
		return token{kind: tokEOF, span: source.NewSpan(start, start)}, nil
	}

	switch {
	case r == '/' && l.pos+2 < len(l.src) && l.src[l.pos+1] == '/' && l.src[l.pos+2] == '/':
		l.pos += 3
		// A doc line may have a leading space before its text.
		if p, ok := l.peekByte(); ok && p == ' ' {
			l.pos++
		}

		textStart := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}

		text := string(l.src[textStart:l.pos])

		return token{kind: tokDoc, text: text, span: source.NewSpan(start, l.pos)}, nil
	case isIdentStart(r):
		for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
			l.pos++
		}

		return token{kind: tokIdent, text: string(l.src[start:l.pos]), span: source.NewSpan(start, l.pos)}, nil
	case unicode.IsDigit(r):
		// Support decimal and 0x-prefixed hex literals.
		if r == '0' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
			l.pos += 2
			for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
				l.pos++
			}
		}

		return token{kind: tokInt, text: string(l.src[start:l.pos]), span: source.NewSpan(start, l.pos)}, nil
	case r == '.':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '.' {
			l.pos += 2
			return token{kind: tokDotDot, span: source.NewSpan(start, l.pos)}, nil
		}
	case r == ':':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == ':' {
			l.pos += 2
			return token{kind: tokColonColon, span: source.NewSpan(start, l.pos)}, nil
		}

		l.pos++

		return token{kind: tokColon, span: source.NewSpan(start, l.pos)}, nil
	}

	single := map[rune]tokenKind{
		'{': tokLBrace, '}': tokRBrace,
		'(': tokLParen, ')': tokRParen,
		'[': tokLBrack, ']': tokRBrack,
		'<': tokLAngle, '>': tokRAngle,
		',': tokComma, '=': tokEquals,
		'#': tokHash, '!': tokBang,
	}

	if kind, ok := single[r]; ok {
		l.pos++
		return token{kind: kind, span: source.NewSpan(start, l.pos)}, nil
	}

	return token{}, l.file.SyntaxError(source.NewSpan(start, start+1), "unexpected character")
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
