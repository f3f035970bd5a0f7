package parser

import (
	"github.com/gabrielbrunop/tenda/lang/scanner"
	"github.com/gabrielbrunop/tenda/lang/token"
)

// The token buffer gives the parser arbitrary lookahead over the scanner
// output with a scoped newline-suppression counter: while the counter is
// positive (inside parenthesized expressions, literals, argument and
// parameter lists), Newline tokens are invisible; block interiors save and
// clear the counter so their statements see separators again.

// skipIgnored advances the cursor past newline tokens that are currently
// suppressed.
func (p *parser) skipIgnored() {
	for p.ignoreNewlines > 0 && p.toks[p.i].Kind == token.NEWLINE {
		p.i++
	}
}

// peek returns the next visible token without consuming it.
func (p *parser) peek() scanner.Token {
	p.skipIgnored()
	return p.toks[p.i]
}

// next consumes and returns the next visible token. The EOF token is
// sticky: it is returned forever once reached.
func (p *parser) next() scanner.Token {
	p.skipIgnored()
	t := p.toks[p.i]
	if t.Kind != token.EOF {
		p.i++
	}
	return t
}

// peekAt returns the n-th visible token ahead (0 == peek()).
func (p *parser) peekAt(n int) scanner.Token {
	i := p.i
	for {
		for p.ignoreNewlines > 0 && p.toks[i].Kind == token.NEWLINE {
			i++
		}
		if n == 0 || p.toks[i].Kind == token.EOF {
			return p.toks[i]
		}
		n--
		i++
	}
}

// consumeOneOf consumes and returns the next visible token if its kind is
// one of kinds.
func (p *parser) consumeOneOf(kinds ...token.Token) (scanner.Token, bool) {
	t := p.peek()
	for _, k := range kinds {
		if t.Kind == k {
			return p.next(), true
		}
	}
	return scanner.Token{}, false
}

// checkSequence returns true if the next visible tokens match kinds in
// order, without consuming anything.
func (p *parser) checkSequence(kinds ...token.Token) bool {
	for n, k := range kinds {
		if p.peekAt(n).Kind != k {
			return false
		}
	}
	return true
}

// consumeSequence consumes the next visible tokens if they match kinds in
// order, returning the first of them.
func (p *parser) consumeSequence(kinds ...token.Token) (scanner.Token, bool) {
	if !p.checkSequence(kinds...) {
		return scanner.Token{}, false
	}
	first := p.next()
	for range kinds[1:] {
		p.next()
	}
	return first, true
}

// skipNewlines consumes a run of visible newline tokens.
func (p *parser) skipNewlines() {
	for p.toks[p.i].Kind == token.NEWLINE {
		p.i++
	}
}

// ignoringNewlines increments the suppression counter and returns the
// release function; acquired after the opening delimiter of a
// parenthesized expression, a list or map literal, or an argument or
// parameter list.
func (p *parser) ignoringNewlines() func() {
	p.ignoreNewlines++
	return func() { p.ignoreNewlines-- }
}

// haltIgnoringNewlines clears the suppression counter and returns the
// restore function; acquired when entering a block body so its interior
// sees statement separators again.
func (p *parser) haltIgnoringNewlines() func() {
	saved := p.ignoreNewlines
	p.ignoreNewlines = 0
	return func() { p.ignoreNewlines = saved }
}
