package scanner

import (
	"unicode/utf8"

	"github.com/gabrielbrunop/tenda/lang/token"
)

var simpleEscapes = [...]byte{
	'0':  0,
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// shortString scans a double-quoted string literal whose opening quote has
// already been consumed. An embedded newline is an error; the literal must
// be closed on the same line.
func (s *Scanner) shortString(start int) Token {
	s.sb.Reset()

	for {
		cur := s.cur
		if cur == '\n' || cur < 0 {
			s.error(UnexpectedStringEOL, start, "fim de linha inesperado em texto")
			break
		}
		s.advance()
		if cur == '"' {
			break
		}
		if cur == '\\' {
			if rn, ok := s.escape(); ok {
				s.sb.WriteRune(rn)
			}
			continue
		}
		s.sb.WriteRune(cur)
	}

	tok := s.emit(token.STRING, start, string(s.src[start:s.off]))
	tok.Value.Str = s.sb.String()
	return tok
}

// escape parses an escape sequence, the leading backslash already consumed.
// It returns the decoded rune and true, or false if the sequence is invalid
// (the error has then been reported).
func (s *Scanner) escape() (rune, bool) {
	start := s.off - 1 // include the backslash

	cur := s.cur
	switch cur {
	case '0', 'a', 'b', 'e', 'f', 'n', 'r', 't', 'v', '\\', '\'', '"':
		s.advance()
		return rune(simpleEscapes[cur]), true

	case 'x':
		s.advance()
		v, ok := s.hexDigits(2, InvalidHexEscape, "sequência de escape hexadecimal inválida")
		return rune(v), ok

	case 'u':
		s.advance()
		v, ok := s.hexDigits(4, InvalidUnicodeEscape, "sequência de escape unicode inválida")
		if !ok {
			return 0, false
		}
		if !utf8.ValidRune(rune(v)) {
			s.error(InvalidUnicodeEscape, start, "sequência de escape unicode inválida")
			return 0, false
		}
		return rune(v), true

	case 'U':
		s.advance()
		v, ok := s.hexDigits(8, InvalidUnicodeEscape, "sequência de escape unicode inválida")
		if !ok {
			return 0, false
		}
		if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
			s.error(InvalidUnicodeEscape, start, "sequência de escape unicode inválida")
			return 0, false
		}
		return rune(v), true

	case '1', '2', '3', '4', '5', '6', '7':
		// exactly three octal digits encoding a byte
		var v uint32
		for i := 0; i < 3; i++ {
			if s.cur < '0' || s.cur > '7' {
				s.error(InvalidOctalEscape, start, "sequência de escape octal inválida")
				return 0, false
			}
			v = v*8 + uint32(s.cur-'0')
			s.advance()
		}
		if v > 0xff {
			s.error(InvalidOctalEscape, start, "sequência de escape octal inválida")
			return 0, false
		}
		return rune(v), true

	default:
		if cur < 0 {
			s.error(UnexpectedStringEOL, start, "fim de linha inesperado em texto")
			return 0, false
		}
		s.errorf(UnknownEscape, start, "sequência de escape desconhecida: \\%c", cur)
		s.advance()
		return 0, false
	}
}

// hexDigits reads exactly n hexadecimal digits.
func (s *Scanner) hexDigits(n int, kind ErrKind, msg string) (uint32, bool) {
	var v uint32
	for i := 0; i < n; i++ {
		if !isHexadecimal(s.cur) {
			s.error(kind, s.off, msg)
			return 0, false
		}
		v = v*16 + uint32(digitVal(s.cur))
		s.advance()
	}
	return v, true
}
