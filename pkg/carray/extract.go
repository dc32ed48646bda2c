// Package carray pulls the literal bytes out of a C array initializer,
// e.g. the embedded WAD in a generated source file, so they can be written
// back to a raw binary.
package carray

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
)

// RangeError reports an initializer value outside [0,255]
type RangeError struct {
	Literal string
	Value   int64
	Line    int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value out of byte range: %s (line %d)", e.Literal, e.Line)
}

// Is makes RangeError match ErrOutOfRangeValue
func (e *RangeError) Is(target error) bool {
	return target == perrors.ErrOutOfRangeValue
}

// Extract returns the bytes enumerated in the initializer of the array
// named name, in source order. The declaration must look like
//
//	name[...] = { ... };
//
// with any whitespace, comments or nested braces in between. Literals
// may be hexadecimal (0x prefix) or decimal; any value outside [0,255]
// aborts the whole extraction.
func Extract(text []byte, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty array name", perrors.ErrArrayNotFound)
	}

	toks := tokenize(text)
	for i, tok := range toks {
		if tok.kind != tokIdent || tok.text != name {
			continue
		}
		body, ok := matchDeclaration(toks, i+1)
		if !ok {
			continue
		}
		return parseBody(body)
	}

	return nil, fmt.Errorf("%w: '%s'", perrors.ErrArrayNotFound, name)
}

func tokenize(text []byte) []token {
	lx := newLexer(text)
	var toks []token
	for {
		tok := lx.next()
		if tok.kind == tokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func isPunct(tok token, c string) bool {
	return tok.kind == tokPunct && tok.text == c
}

// matchDeclaration matches "[...]... = { body };" starting at toks[i] and
// returns the body tokens between the outer braces.
func matchDeclaration(toks []token, i int) ([]token, bool) {
	// One or more bracketed dimensions
	dims := 0
	for i < len(toks) && isPunct(toks[i], "[") {
		i++
		for i < len(toks) && !isPunct(toks[i], "]") {
			if isPunct(toks[i], ";") || isPunct(toks[i], "{") || isPunct(toks[i], "}") {
				return nil, false
			}
			i++
		}
		if i == len(toks) {
			return nil, false
		}
		i++
		dims++
	}
	if dims == 0 {
		return nil, false
	}

	if i >= len(toks) || !isPunct(toks[i], "=") {
		return nil, false
	}
	i++
	if i >= len(toks) || !isPunct(toks[i], "{") {
		return nil, false
	}
	i++

	start := i
	depth := 0
	for ; i < len(toks); i++ {
		switch {
		case isPunct(toks[i], "{"):
			depth++
		case isPunct(toks[i], "}"):
			if depth == 0 {
				if i+1 < len(toks) && isPunct(toks[i+1], ";") {
					return toks[start:i], true
				}
				return nil, false
			}
			depth--
		}
	}
	return nil, false
}

func parseBody(body []token) ([]byte, error) {
	out := make([]byte, 0, len(body)/2)
	for i, tok := range body {
		if tok.kind != tokNumber {
			continue
		}

		literal := tok.text
		negative := i > 0 && isPunct(body[i-1], "-")
		if negative {
			literal = "-" + literal
		}

		value, err := parseLiteral(tok.text)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
				return nil, &RangeError{Literal: literal, Line: tok.line}
			}
			return nil, fmt.Errorf("%w: %q (line %d)", perrors.ErrInvalidLiteral, literal, tok.line)
		}

		v := int64(value)
		if negative {
			v = -v
		}
		if v < 0 || v > 255 {
			return nil, &RangeError{Literal: literal, Value: v, Line: tok.line}
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// parseLiteral parses a C integer literal, ignoring u/U/l/L suffixes.
// Decimal literals with a leading zero are read as decimal.
func parseLiteral(text string) (uint64, error) {
	digits := strings.TrimRight(text, "uUlL")
	if digits == "" {
		return 0, strconv.ErrSyntax
	}
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return strconv.ParseUint(digits[2:], 16, 63)
	}
	return strconv.ParseUint(digits, 10, 63)
}
