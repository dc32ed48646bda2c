package carray

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "EOF"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokPunct:
		return "punctuation"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

type token struct {
	kind tokenKind
	text string
	line int
}

// lexer splits C source into identifiers, integer literals and single
// punctuation characters. Comments, string literals, character literals
// and preprocessor line continuations are consumed without producing
// tokens, so every byte of input is visited once.
type lexer struct {
	src  []byte
	pos  int
	line int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, line: 1}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) next() token {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '\\' && l.peekByte(1) == '\n':
			l.line++
			l.pos += 2
		case c == '\\' && l.peekByte(1) == '\r' && l.peekByte(2) == '\n':
			l.line++
			l.pos += 3
		case c == '/' && l.peekByte(1) == '/':
			l.skipLineComment()
		case c == '/' && l.peekByte(1) == '*':
			l.skipBlockComment()
		case c == '"' || c == '\'':
			l.skipQuoted(c)
		case isIdentStart(c):
			return l.scanWhile(tokIdent, isIdentChar)
		case isDigit(c):
			// Literal runs include suffixes and anything glued to them, so
			// "1e5" or "0b11" surface as one malformed number.
			return l.scanWhile(tokNumber, isIdentChar)
		default:
			l.pos++
			return token{kind: tokPunct, text: string(c), line: l.line}
		}
	}
	return token{kind: tokEOF, line: l.line}
}

func (l *lexer) scanWhile(kind tokenKind, accept func(byte) bool) token {
	start := l.pos
	for l.pos < len(l.src) && accept(l.src[l.pos]) {
		l.pos++
	}
	return token{kind: kind, text: string(l.src[start:l.pos]), line: l.line}
}

func (l *lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) skipBlockComment() {
	l.pos += 2
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peekByte(1) == '/' {
			l.pos += 2
			return
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

func (l *lexer) skipQuoted(quote byte) {
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case quote:
			l.pos++
			return
		case '\n':
			// Unterminated literal; stop at end of line.
			return
		}
		l.pos++
	}
}
