package parser

import (
	"fmt"

	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/token"
)

// parseExpr parses a full expression. Newlines are invisible only inside
// parentheses, list and map literals and argument lists; elsewhere a
// newline ends the expression.
func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

// assignment is right-associative; the target must be a variable or an
// access expression.
func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseOr()

	if eq, ok := p.consumeOneOf(token.EQ); ok {
		value := p.parseAssignment()
		if !ast.IsAssignable(expr) {
			p.error(InvalidAssignmentTarget, eq.Span(),
				"o valor à esquerda do '=' não é um valor válido para receber atribuições")
			return &ast.BadExpr{Range: expr.Span().Extend(value.Span())}
		}
		return &ast.AssignExpr{
			Range:  expr.Span().Extend(value.Span()),
			Target: expr,
			Value:  value,
		}
	}
	return expr
}

func (p *parser) parseOr() ast.Expr {
	expr := p.parseAnd()
	for {
		op, ok := p.consumeOneOf(token.OR)
		if !ok {
			return expr
		}
		rhs := p.parseAnd()
		expr = &ast.BinOpExpr{Left: expr, Op: op.Kind, OpRange: op.Span(), Right: rhs}
	}
}

func (p *parser) parseAnd() ast.Expr {
	expr := p.parseEquality()
	for {
		op, ok := p.consumeOneOf(token.AND)
		if !ok {
			return expr
		}
		rhs := p.parseEquality()
		expr = &ast.BinOpExpr{Left: expr, Op: op.Kind, OpRange: op.Span(), Right: rhs}
	}
}

// equality level: é, tem, não é, não tem. Non-chainable: a second
// equality-level operator at the same nesting level is rejected with its
// own span.
func (p *parser) parseEquality() ast.Expr {
	expr := p.parseComparison()

	op, ok := p.consumeEqualityOp()
	if !ok {
		return expr
	}
	rhs := p.parseComparison()
	expr = &ast.BinOpExpr{Left: expr, Op: op.synth, OpRange: op.span, Right: rhs}

	if second, chained := p.consumeEqualityOp(); chained {
		p.error(InvalidChaining, second.span,
			fmt.Sprintf("o operador '%s' não pode ser encadeado", second.synth))
		panic(errPanicMode)
	}
	return expr
}

type equalityOp struct {
	synth token.Token // IS, HAS, NOTIS or NOTHAS
	span  token.Span
}

func (p *parser) consumeEqualityOp() (equalityOp, bool) {
	if t, ok := p.consumeOneOf(token.IS); ok {
		return equalityOp{synth: token.IS, span: t.Span()}, true
	}
	if t, ok := p.consumeOneOf(token.HAS); ok {
		return equalityOp{synth: token.HAS, span: t.Span()}, true
	}
	if t, ok := p.consumeSequence(token.NOT, token.HAS); ok {
		return equalityOp{synth: token.NOTHAS, span: t.Span()}, true
	}
	if t, ok := p.consumeSequence(token.NOT, token.IS); ok {
		return equalityOp{synth: token.NOTIS, span: t.Span()}, true
	}
	return equalityOp{}, false
}

// comparison level: < <= > >=. Non-chainable: the second operator is
// diagnosed with its own span.
func (p *parser) parseComparison() ast.Expr {
	expr := p.parseRange()

	op, ok := p.consumeOneOf(token.LT, token.LE, token.GT, token.GE)
	if !ok {
		return expr
	}
	rhs := p.parseRange()
	expr = &ast.BinOpExpr{Left: expr, Op: op.Kind, OpRange: op.Span(), Right: rhs}

	if second := p.peek(); second.Kind.IsComparison() {
		p.error(InvalidChaining, second.Span(),
			fmt.Sprintf("o operador '%s' não pode ser encadeado", second.Kind))
		panic(errPanicMode)
	}
	return expr
}

// range level: `até`, arity two.
func (p *parser) parseRange() ast.Expr {
	lhs := p.parseTerm()

	if op, ok := p.consumeOneOf(token.UNTIL); ok {
		rhs := p.parseTerm()
		return &ast.BinOpExpr{Left: lhs, Op: op.Kind, OpRange: op.Span(), Right: rhs}
	}
	return lhs
}

func (p *parser) parseTerm() ast.Expr {
	expr := p.parseFactor()
	for {
		op, ok := p.consumeOneOf(token.PLUS, token.MINUS)
		if !ok {
			return expr
		}
		rhs := p.parseFactor()
		expr = &ast.BinOpExpr{Left: expr, Op: op.Kind, OpRange: op.Span(), Right: rhs}
	}
}

func (p *parser) parseFactor() ast.Expr {
	expr := p.parseExponent()
	for {
		op, ok := p.consumeOneOf(token.STAR, token.SLASH, token.PERCENT)
		if !ok {
			return expr
		}
		rhs := p.parseExponent()
		expr = &ast.BinOpExpr{Left: expr, Op: op.Kind, OpRange: op.Span(), Right: rhs}
	}
}

func (p *parser) parseExponent() ast.Expr {
	expr := p.parseUnary()
	for {
		op, ok := p.consumeOneOf(token.CARET)
		if !ok {
			return expr
		}
		rhs := p.parseUnary()
		expr = &ast.BinOpExpr{Left: expr, Op: op.Kind, OpRange: op.Span(), Right: rhs}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if op, ok := p.consumeOneOf(token.MINUS, token.NOT); ok {
		rhs := p.parseUnary()
		return &ast.UnaryOpExpr{Op: op.Kind, OpRange: op.Span(), Right: rhs}
	}
	return p.parseCall()
}

// call/access postfix chain.
func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.LPAREN:
			p.next()
			expr = p.finishCall(expr)
		case token.LBRACK:
			p.next()
			expr = p.finishAccess(expr)
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(fn ast.Expr) ast.Expr {
	release := p.ignoringNewlines()
	defer release()

	var args []ast.Expr
	if p.peek().Kind != token.RPAREN {
		for {
			args = append(args, p.parseExpr())
			if _, ok := p.consumeOneOf(token.COMMA); !ok {
				break
			}
		}
	}
	rparen := p.expectClosing(token.RPAREN, MissingParen)

	return &ast.CallExpr{
		Range: fn.Span().Extend(rparen.Span()),
		Fn:    fn,
		Args:  args,
	}
}

func (p *parser) finishAccess(prefix ast.Expr) ast.Expr {
	index := p.parseExpr()
	rbrack := p.expectClosing(token.RBRACK, MissingBracket)

	return &ast.AccessExpr{
		Range:  prefix.Span().Extend(rbrack.Span()),
		Prefix: prefix,
		Index:  index,
	}
}

func (p *parser) parsePrimary() ast.Expr {
	switch t := p.peek(); t.Kind {
	case token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NIL:
		p.next()
		return &ast.LiteralExpr{
			Kind:  t.Kind,
			Range: t.Span(),
			Raw:   t.Value.Raw,
			Num:   t.Value.Num,
			Str:   t.Value.Str,
		}

	case token.IDENT:
		p.next()
		var expr ast.Expr = &ast.VarExpr{
			Range: t.Span(),
			Name:  t.Value.Str,
			Uid:   token.NextUID(),
		}
		// dotted identifier access desugars to string-indexed access
		for {
			if _, ok := p.consumeOneOf(token.DOT); !ok {
				return expr
			}
			field := p.expect(token.IDENT)
			expr = &ast.AccessExpr{
				Range:  expr.Span().Extend(field.Span()),
				Prefix: expr,
				Index: &ast.LiteralExpr{
					Kind:  token.STRING,
					Range: field.Span(),
					Raw:   field.Value.Raw,
					Str:   field.Value.Str,
				},
			}
		}

	case token.LPAREN:
		p.next()
		release := p.ignoringNewlines()
		defer release()
		expr := p.parseExpr()
		rparen := p.expectClosing(token.RPAREN, MissingParen)
		return &ast.GroupExpr{Range: t.Span().Extend(rparen.Span()), Expr: expr}

	case token.LBRACK:
		return p.parseListExpr()

	case token.LBRACE:
		return p.parseMapExpr()

	case token.FUNCTION:
		return p.parseFuncExpr()

	case token.IF:
		return p.parseCondExpr()

	case token.EOF:
		p.error(UnexpectedEOI, t.Span(), "fim inesperado de entrada")
		panic(errPanicMode)

	default:
		p.next()
		p.error(UnexpectedToken, t.Span(),
			fmt.Sprintf("símbolo inesperado: %s", t.Kind.GoString()))
		panic(errPanicMode)
	}
}

func (p *parser) parseListExpr() ast.Expr {
	lbrack := p.expect(token.LBRACK)
	release := p.ignoringNewlines()
	defer release()

	var elems []ast.Expr
	if p.peek().Kind != token.RBRACK {
		for {
			elems = append(elems, p.parseExpr())
			if _, ok := p.consumeOneOf(token.COMMA); !ok {
				break
			}
		}
	}
	rbrack := p.expectClosing(token.RBRACK, MissingBracket)

	return &ast.ListExpr{Range: lbrack.Span().Extend(rbrack.Span()), Elems: elems}
}

// parseMapExpr parses an associative array literal; keys are number or
// string literals only.
func (p *parser) parseMapExpr() ast.Expr {
	lbrace := p.expect(token.LBRACE)
	release := p.ignoringNewlines()
	defer release()

	var items []*ast.KeyVal
	if p.peek().Kind != token.RBRACE {
		for {
			key, ok := p.consumeOneOf(token.NUMBER, token.STRING)
			if !ok {
				t := p.next()
				p.error(UnexpectedToken, t.Span(),
					fmt.Sprintf("símbolo inesperado: %s (chave de dicionário precisa ser literal de número ou texto)", t.Kind.GoString()))
				panic(errPanicMode)
			}
			p.expectClosing(token.COLON, MissingColon)
			value := p.parseExpr()
			items = append(items, &ast.KeyVal{
				Key: &ast.LiteralExpr{
					Kind:  key.Kind,
					Range: key.Span(),
					Raw:   key.Value.Raw,
					Num:   key.Value.Num,
					Str:   key.Value.Str,
				},
				Value: value,
			})
			if _, ok := p.consumeOneOf(token.COMMA); !ok {
				break
			}
		}
	}
	rbrace := p.expectClosing(token.RBRACE, MissingBrace)

	return &ast.MapExpr{Range: lbrace.Span().Extend(rbrace.Span()), Items: items}
}

func (p *parser) parseFuncExpr() ast.Expr {
	fn := p.expect(token.FUNCTION)
	params := p.parseParams()
	body := p.parseFuncBody()

	return &ast.FuncExpr{
		Range:  fn.Span().Extend(body.Span()),
		Uid:    token.NextUID(),
		Params: params,
		Body:   body,
	}
}

// parseCondExpr parses the conditional expression form
// `se COND então EXPR senão EXPR`.
func (p *parser) parseCondExpr() ast.Expr {
	ifTok := p.expect(token.IF)
	cond := p.parseAssignment()
	p.expect(token.THEN)
	then := p.parseAssignment()
	p.expect(token.ELSE)
	orElse := p.parseAssignment()

	return &ast.CondExpr{
		Range:  ifTok.Span().Extend(orElse.Span()),
		Cond:   cond,
		Then:   then,
		OrElse: orElse,
	}
}
