package token

// Value is the value of a token, the raw (uninterpreted) text of the token
// and, depending on its kind, the decoded literal payload.
type Value struct {
	Raw  string  // uninterpreted lexeme
	Num  float64 // number literal value
	Str  string  // decoded string literal or identifier name
	Span Span
}

// Literal returns the raw text of a token that carries a value, or the
// empty string for punctuation and keywords.
func (tok Token) Literal(v Value) string {
	switch tok {
	case IDENT, NUMBER, STRING:
		return v.Raw
	}
	return ""
}
