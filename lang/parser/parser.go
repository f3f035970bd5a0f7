// Package parser implements the parser that transforms source code into an
// abstract syntax tree (AST). After building the statement list it invokes
// the closure annotator, so a successful parse returns an AST that is ready
// for evaluation.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/resolver"
	"github.com/gabrielbrunop/tenda/lang/scanner"
	"github.com/gabrielbrunop/tenda/lang/token"
)

// ParseFiles is a helper function that parses the source files and returns
// the ASTs along with any error encountered. Sources are registered in ss
// for position reporting.
func ParseFiles(ctx context.Context, ss *token.SourceSet, files ...string) ([]*ast.Chunk, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var p parser
	res := make([]*ast.Chunk, 0, len(files))
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			p.errors.Add(UnexpectedEOI, token.Span{}, token.Position{Filename: file}, err.Error())
			continue
		}

		ch, err := ParseChunk(ctx, ss, file, b)
		if err != nil {
			var el ErrorList
			if errors.As(err, &el) {
				p.errors = append(p.errors, el...)
				continue
			}
			return nil, err
		}
		res = append(res, ch)
	}
	p.errors.Sort()
	return res, p.errors.Err()
}

// ParseChunk parses a single chunk from a slice of bytes and returns the
// AST and any error encountered. The source is registered in ss under name
// for position reporting. Lexical errors abort the parse and are returned
// as a scanner.ErrorList; parse errors are returned as an ErrorList. On
// success the chunk has been annotated with closure information.
func ParseChunk(ctx context.Context, ss *token.SourceSet, name string, src []byte) (*ast.Chunk, error) {
	source := ss.Add(name, src)
	toks, err := scanner.Scan(source, src)
	if err != nil {
		return nil, err
	}

	var p parser
	p.init(source, toks)
	ch := p.parseChunk()
	ch.Name = name
	if err := p.errors.Err(); err != nil {
		return nil, err
	}

	resolver.Annotate(ch)
	return ch, nil
}

// parser parses a token sequence and generates an AST.
type parser struct {
	source *token.Source
	toks   []scanner.Token
	errors ErrorList

	i              int // cursor into toks
	ignoreNewlines int // scoped newline-suppression counter
	scopes         []blockScope
}

func (p *parser) init(source *token.Source, toks []scanner.Token) {
	p.source = source
	p.toks = toks
	p.i = 0
	p.ignoreNewlines = 0
	p.scopes = p.scopes[:0]
}

var errPanicMode = errors.New("panic")

func (p *parser) parseChunk() *ast.Chunk {
	var chunk ast.Chunk

	p.skipNewlines()
	start := p.peek().Span()

	var list []ast.Stmt
	for p.peek().Kind != token.EOF {
		if stmt := p.parseStmt(); stmt != nil {
			list = append(list, stmt)
		}
	}

	end := start
	if len(list) > 0 {
		end = list[len(list)-1].Span()
	}
	chunk.Block = &ast.Block{Range: start.Extend(end), Stmts: list}
	chunk.EOF = p.peek().Span()
	return &chunk
}

// parseStmt parses a single statement, recovering from a parse panic by
// synchronizing to the next statement boundary and producing a BadStmt for
// the interval.
func (p *parser) parseStmt() (stmt ast.Stmt) {
	start := p.peek().Span()

	defer func() {
		if err := recover(); err != nil {
			if err == errPanicMode {
				stmt = &ast.BadStmt{Range: start.Extend(p.syncAfterError())}
				return
			}
			panic(err)
		}
	}()

	switch t := p.peek(); t.Kind {
	case token.LET:
		stmt = p.parseDeclStmt()
	case token.IF:
		stmt = p.parseIfStmt()
	case token.WHILE:
		stmt = p.parseWhileStmt()
	case token.FOR:
		if p.checkSequence(token.FOR, token.EACH) {
			stmt = p.parseForEachStmt()
		} else {
			stmt = p.parseBreakStmt()
		}
	case token.FUNCTION:
		if p.peekAt(1).Kind == token.IDENT {
			stmt = p.parseFuncDeclStmt()
		} else {
			stmt = &ast.ExprStmt{Expr: p.parseExpr()}
		}
	case token.RETURN:
		stmt = p.parseReturnStmt()
	case token.CONTINUE:
		stmt = p.parseContinueStmt()
	default:
		stmt = &ast.ExprStmt{Expr: p.parseExpr()}
	}

	// a statement is terminated by a newline, end-of-file or a
	// block-terminating keyword.
	switch t := p.peek(); t.Kind {
	case token.NEWLINE:
		p.skipNewlines()
	case token.EOF, token.END, token.ELSE:
		// the enclosing block owns those
	default:
		p.errorExpected(t, "fim de instrução")
		panic(errPanicMode)
	}
	return stmt
}

// parseBlock parses the interior of a block up to one of the end tokens,
// which is consumed. It returns the block and the end token that closed it.
// The scope is entered for the duration of the block and the
// newline-suppression counter is cleared for its interior.
func (p *parser) parseBlock(scope blockScope, endToks ...token.Token) (*ast.Block, scanner.Token) {
	releaseScope := p.enterScope(scope)
	defer releaseScope()
	restore := p.haltIgnoringNewlines()
	defer restore()

	p.skipNewlines()
	start := p.peek().Span()

	var list []ast.Stmt
	for {
		t := p.peek()
		for _, end := range endToks {
			if t.Kind == end {
				blk := &ast.Block{Range: start, Stmts: list}
				if len(list) > 0 {
					blk.Range = start.Extend(list[len(list)-1].Span())
				}
				return blk, p.next()
			}
		}
		if t.Kind == token.EOF {
			p.error(UnexpectedEOI, t.Span(), "fim inesperado de entrada")
			panic(errPanicMode)
		}
		if stmt := p.parseStmt(); stmt != nil {
			list = append(list, stmt)
		}
	}
}

// expect consumes and returns the current token if it is one of the
// expected kinds, otherwise it reports an error and panics with
// errPanicMode which gets recovered at the statement level, resulting in a
// BadStmt.
func (p *parser) expect(toks ...token.Token) scanner.Token {
	t := p.peek()
	for _, want := range toks {
		if t.Kind == want {
			return p.next()
		}
	}

	var buf strings.Builder
	for i, want := range toks {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(want.GoString())
	}
	lbl := buf.String()
	if len(toks) > 1 {
		lbl = "um de " + lbl
	}
	p.errorExpected(t, lbl)
	panic(errPanicMode)
}

// expectClosing is like expect for a single closing delimiter, reporting
// the specific missing-delimiter error kind.
func (p *parser) expectClosing(want token.Token, kind ErrKind) scanner.Token {
	t := p.peek()
	if t.Kind == want {
		return p.next()
	}
	if t.Kind == token.EOF {
		p.error(UnexpectedEOI, t.Span(), "fim inesperado de entrada")
	} else {
		p.error(kind, t.Span(), fmt.Sprintf("esperado %s", want.GoString()))
	}
	panic(errPanicMode)
}

func (p *parser) error(kind ErrKind, span token.Span, msg string) {
	p.errors.Add(kind, span, p.source.SpanPosition(span), msg)
}

func (p *parser) errorExpected(t scanner.Token, what string) {
	kind := UnexpectedToken
	msg := fmt.Sprintf("símbolo inesperado: esperado %s, encontrado %s", what, t.Kind.GoString())
	if t.Kind == token.EOF {
		kind = UnexpectedEOI
		msg = "fim inesperado de entrada: esperado " + what
	}
	p.error(kind, t.Span(), msg)
}

// syncAfterError skips tokens until a statement boundary: past the next
// visible newline, or at a block-terminating token.
func (p *parser) syncAfterError() token.Span {
	p.ignoreNewlines = 0
	for {
		switch t := p.peek(); t.Kind {
		case token.EOF, token.END, token.ELSE:
			return t.Span()
		case token.NEWLINE:
			p.skipNewlines()
			return p.peek().Span()
		default:
			p.next()
		}
	}
}
