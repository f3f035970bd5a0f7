package parser

import (
	"fmt"

	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/scanner"
	"github.com/gabrielbrunop/tenda/lang/token"
)

// parseDeclStmt parses a local declaration `seja NAME = EXPR`, or the
// function-declaration form `seja NAME(PARAMS) = faça BLOCK fim` (the body
// may also be a plain expression, which is an implicit return).
func (p *parser) parseDeclStmt() ast.Stmt {
	let := p.expect(token.LET)
	name := p.expect(token.IDENT)

	if p.peek().Kind == token.LPAREN {
		params := p.parseParams()
		p.expect(token.EQ)

		var body *ast.Block
		if p.peek().Kind == token.DO {
			p.next()
			var end scanner.Token
			body, end = p.parseBlock(scopeFunction, token.END)
			body.Range = body.Range.Extend(end.Span())
		} else {
			// an expression body is an implicit return
			expr := p.parseExpr()
			body = &ast.Block{
				Range: expr.Span(),
				Stmts: []ast.Stmt{&ast.Return{Range: expr.Span(), Value: expr}},
			}
		}
		return &ast.FunctionDecl{
			Range:     let.Span().Extend(body.Span()),
			Name:      name.Value.Str,
			NameRange: name.Span(),
			Uid:       token.NextUID(),
			Params:    params,
			Body:      body,
		}
	}

	p.expect(token.EQ)
	value := p.parseExpr()
	return &ast.LocalDecl{
		Range:     let.Span().Extend(value.Span()),
		Name:      name.Value.Str,
		NameRange: name.Span(),
		Uid:       token.NextUID(),
		Value:     value,
	}
}

func (p *parser) parseIfStmt() ast.Stmt {
	ifTok := p.expect(token.IF)
	cond := p.parseExpr()
	p.expect(token.THEN)
	then, endTok := p.parseBlock(scopeIf, token.END, token.ELSE)

	var elseBlk *ast.Block
	end := endTok
	if endTok.Kind == token.ELSE {
		elseBlk, end = p.parseBlock(scopeElse, token.END)
	}

	return &ast.Cond{
		Range: ifTok.Span().Extend(end.Span()),
		Cond:  cond,
		Then:  then,
		Else:  elseBlk,
	}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	while := p.expect(token.WHILE)
	cond := p.parseExpr()
	p.expect(token.DO)
	body, end := p.parseBlock(scopeLoop, token.END)

	return &ast.While{
		Range: while.Span().Extend(end.Span()),
		Cond:  cond,
		Body:  body,
	}
}

func (p *parser) parseForEachStmt() ast.Stmt {
	forTok := p.expect(token.FOR)
	p.expect(token.EACH)
	name := p.expect(token.IDENT)
	p.expect(token.IN)
	iterable := p.parseExpr()
	p.expect(token.DO)
	body, end := p.parseBlock(scopeLoop, token.END)

	return &ast.ForEach{
		Range: forTok.Span().Extend(end.Span()),
		Item: &ast.Param{
			Name:  name.Value.Str,
			Range: name.Span(),
			Uid:   token.NextUID(),
		},
		Iterable: iterable,
		Body:     body,
	}
}

func (p *parser) parseFuncDeclStmt() ast.Stmt {
	fn := p.expect(token.FUNCTION)
	name := p.expect(token.IDENT)
	params := p.parseParams()
	body := p.parseFuncBody()

	return &ast.FunctionDecl{
		Range:     fn.Span().Extend(body.Span()),
		Name:      name.Value.Str,
		NameRange: name.Span(),
		Uid:       token.NextUID(),
		Params:    params,
		Body:      body,
	}
}

// parseFuncBody parses a function body: either a block closed by `fim`
// (optionally preceded by `faça`), or an
// `->` arrow followed by an expression, which desugars to a single return.
func (p *parser) parseFuncBody() *ast.Block {
	if arrow, ok := p.consumeOneOf(token.ARROW); ok {
		expr := p.parseExpr()
		span := arrow.Span().Extend(expr.Span())
		return &ast.Block{
			Range: span,
			Stmts: []ast.Stmt{&ast.Return{Range: span, Value: expr}},
		}
	}

	if p.peek().Kind == token.DO {
		p.next()
	}
	body, end := p.parseBlock(scopeFunction, token.END)
	body.Range = body.Range.Extend(end.Span())
	return body
}

// parseParams parses a parenthesized, comma-separated parameter list.
// Parameter names must be distinct.
func (p *parser) parseParams() []*ast.Param {
	p.expect(token.LPAREN)
	release := p.ignoringNewlines()
	defer release()

	var params []*ast.Param
	if p.peek().Kind != token.RPAREN {
		for {
			name := p.expect(token.IDENT)
			dup := false
			for _, prev := range params {
				if prev.Name == name.Value.Str {
					dup = true
					break
				}
			}
			if dup {
				p.error(DuplicateParameter, name.Span(),
					fmt.Sprintf("parâmetro '%s' duplicado na função", name.Value.Str))
			} else {
				params = append(params, &ast.Param{
					Name:  name.Value.Str,
					Range: name.Span(),
					Uid:   token.NextUID(),
				})
			}
			if _, ok := p.consumeOneOf(token.COMMA); !ok {
				break
			}
		}
	}
	p.expectClosing(token.RPAREN, MissingParen)
	return params
}

func (p *parser) parseReturnStmt() ast.Stmt {
	ret := p.expect(token.RETURN)
	if !p.inScope(scopeFunction) {
		p.error(IllegalReturn, ret.Span(), "retorno fora de uma função")
	}

	stmt := &ast.Return{Range: ret.Span()}
	switch p.peek().Kind {
	case token.NEWLINE, token.EOF, token.END, token.ELSE:
	default:
		stmt.Value = p.parseExpr()
		stmt.Range = stmt.Range.Extend(stmt.Value.Span())
	}
	return stmt
}

func (p *parser) parseBreakStmt() ast.Stmt {
	brk := p.expect(token.FOR)
	if !p.inScope(scopeLoop) {
		p.error(IllegalBreak, brk.Span(), "'para' fora de uma estrutura de repetição")
	}
	return &ast.Break{Range: brk.Span()}
}

func (p *parser) parseContinueStmt() ast.Stmt {
	cont := p.expect(token.CONTINUE)
	if !p.inScope(scopeLoop) {
		p.error(IllegalContinue, cont.Span(), "'continua' fora de uma estrutura de repetição")
	}
	return &ast.Continue{Range: cont.Span()}
}
