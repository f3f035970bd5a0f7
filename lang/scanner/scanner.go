// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner implements the scanner that tokenizes source files for
// the parser to consume.
package scanner

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gabrielbrunop/tenda/lang/token"
)

// Token combines the token kind with its value.
type Token struct {
	Kind  token.Token
	Value token.Value
}

// Span returns the source span of the token.
func (t Token) Span() token.Span { return t.Value.Span }

// Scan tokenizes src, registered as source under the given handle, and
// returns the ordered token sequence terminated by an EOF token. On lexical
// errors the token slice is still returned along with the ErrorList; the
// first error of each contiguous failure region is reported and scanning
// resumes at the next valid character.
func Scan(source *token.Source, src []byte) ([]Token, error) {
	var s Scanner
	s.Init(source, src, nil)

	var toks []Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	s.errors.Sort()
	return toks, s.errors.Err()
}

// Scanner tokenizes source files for the parser to consume.
type Scanner struct {
	// immutable state after Init
	source *token.Source
	src    []byte
	err    func(kind ErrKind, span token.Span, msg string)

	// mutable scanning state
	errors      ErrorList
	sb          strings.Builder // writes to Builder never fail, so errors are ignored
	invalidByte byte            // when cur==RuneError due to failed utf8 decode, this is the invalid byte
	cur         rune            // current character
	off         int             // character offset in bytes of cur
	roff        int             // reading offset in bytes (position after current character)
	last        token.Token     // last emitted token, for newline collapsing
	suppressed  bool            // true while inside a contiguous failure region
}

// Init initializes the scanner to tokenize a new source. It panics if the
// source size is not the same as the length of the src slice. The errHandler
// may be nil, in which case errors are only collected in the scanner's list.
func (s *Scanner) Init(source *token.Source, src []byte, errHandler func(ErrKind, token.Span, string)) {
	if source.Size() != len(src) {
		panic(fmt.Sprintf("source size (%d) does not match src len (%d)", source.Size(), len(src)))
	}

	s.source = source
	s.src = src
	s.err = errHandler

	s.errors = s.errors[:0]
	s.sb.Reset()
	s.invalidByte = 0
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.last = token.ILLEGAL
	s.suppressed = false

	s.advance()
}

// read the next Unicode char into s.cur; s.cur < 0 means end-of-input.
func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}

	s.off = s.roff

	// fast path if the rune is an ASCII char, no decoding necessary
	s.invalidByte = 0
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		// not ASCII
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.invalidByte = s.src[s.roff]
		}
	}
	s.roff += w
	s.cur = r
}

// peek returns the byte following the most recently read character without
// advancing the scanner. If the scanner is at EOF, peek returns 0.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// advance only if the current char matches any of the specified ones.
func (s *Scanner) advanceIf(matches ...byte) bool {
	for _, m := range matches {
		if s.cur == rune(m) {
			s.advance()
			return true
		}
	}
	return false
}

func (s *Scanner) span(start int) token.Span {
	return token.Span{Start: start, End: s.off, Source: s.source.ID}
}

func (s *Scanner) error(kind ErrKind, start int, msg string) {
	if s.suppressed {
		return
	}
	s.suppressed = true
	span := s.span(start)
	if span.End <= span.Start {
		span.End = span.Start + 1
		if span.End > len(s.src) {
			span.End = len(s.src)
		}
	}
	s.errors.Add(kind, span, s.source.Position(start), msg)
	if s.err != nil {
		s.err(kind, span, msg)
	}
}

func (s *Scanner) errorf(kind ErrKind, start int, format string, args ...any) {
	s.error(kind, start, fmt.Sprintf(format, args...))
}

// emit fills the token with its kind and value; successfully emitting a
// token ends any in-flight failure region.
func (s *Scanner) emit(kind token.Token, start int, raw string) Token {
	s.suppressed = false
	s.last = kind
	return Token{Kind: kind, Value: token.Value{Raw: raw, Span: s.span(start)}}
}

// Scan returns the next token in the source. Newline tokens are emitted
// only when the previously emitted token is not itself a newline; blank
// line runs collapse to a single token.
func (s *Scanner) Scan() Token {
	for {
		s.skipWhitespace()

		start := s.off

		switch cur := s.cur; {
		case cur == '\n' || cur == ';':
			s.advance()
			if s.last == token.NEWLINE || s.last == token.ILLEGAL {
				// collapse runs and drop leading separators
				continue
			}
			return s.emit(token.NEWLINE, start, string(cur))

		case isLetter(cur):
			// keywords and identifiers
			lit := s.ident()
			kind := token.LookupKw(lit)
			tok := s.emit(kind, start, lit)
			if kind == token.IDENT {
				tok.Value.Str = lit
			}
			return tok

		case isDecimal(cur):
			return s.number()

		case cur == '"':
			s.advance()
			return s.shortString(start)

		case cur == '/' && s.peek() == '/':
			s.lineComment()
			continue

		case cur == '/' && s.peek() == '*':
			s.blockComment(start)
			continue

		default:
			s.advance() // always make progress
			switch cur {
			case '(':
				return s.emit(token.LPAREN, start, "(")
			case ')':
				return s.emit(token.RPAREN, start, ")")
			case '[':
				return s.emit(token.LBRACK, start, "[")
			case ']':
				return s.emit(token.RBRACK, start, "]")
			case '{':
				return s.emit(token.LBRACE, start, "{")
			case '}':
				return s.emit(token.RBRACE, start, "}")
			case ',':
				return s.emit(token.COMMA, start, ",")
			case '.':
				return s.emit(token.DOT, start, ".")
			case ':':
				return s.emit(token.COLON, start, ":")
			case '+':
				return s.emit(token.PLUS, start, "+")
			case '*':
				return s.emit(token.STAR, start, "*")
			case '/':
				return s.emit(token.SLASH, start, "/")
			case '%':
				return s.emit(token.PERCENT, start, "%")
			case '^':
				return s.emit(token.CARET, start, "^")
			case '=':
				return s.emit(token.EQ, start, "=")
			case '-':
				if s.advanceIf('>') {
					return s.emit(token.ARROW, start, "->")
				}
				return s.emit(token.MINUS, start, "-")
			case '>':
				if s.advanceIf('=') {
					return s.emit(token.GE, start, ">=")
				}
				return s.emit(token.GT, start, ">")
			case '<':
				if s.advanceIf('=') {
					return s.emit(token.LE, start, "<=")
				}
				return s.emit(token.LT, start, "<")
			case -1:
				return s.emit(token.EOF, start, "")
			default:
				if cur == utf8.RuneError && s.invalidByte > 0 {
					cur = rune(s.invalidByte)
					s.invalidByte = 0
				}
				s.errorf(UnexpectedChar, start, "caractere inesperado: %q", cur)
				continue
			}
		}
	}
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) lineComment() {
	for s.cur != '\n' && s.cur != -1 {
		s.advance()
	}
}

func (s *Scanner) blockComment(start int) {
	// consume the '/' and '*'
	s.advance()
	s.advance()
	for s.cur != -1 {
		if s.cur == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
	_ = start // an unterminated block comment silently ends at EOF
}

func (s *Scanner) skipWhitespace() {
	for s.cur == ' ' || s.cur == '\t' || s.cur == '\r' {
		s.advance()
	}
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9' ||
		rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}
