// Package resolver implements the closure annotator, the post-parse pass
// that determines which bindings are captured by nested functions and which
// free variables each function closes over.
//
// # Captures
//
// A reference is "free" in a function body if the function neither declares
// the name as a parameter nor as a local before the reference. Free
// references tie the inner function to the enclosing declaration of the
// same name: that declaration becomes "captured" and must be stored in a
// shared cell at evaluation time, so that assignments in any scope are
// observed by every closure referencing it.
//
// # Shadowing
//
// A local declaration shadows the name from that declaration onward within
// its block; function parameters shadow the outer name for the body; a
// function declaration shadows its own name within its body; a for-each
// loop binds its item for the duration of its body only.
//
// The pass runs in two phases: phase 1 collects capture records
// (inner function, free reference, enclosing declaration, name) and phase 2
// flips the Captured flags and assembles each function's FreeVars list,
// deduplicated preserving first occurrence.
package resolver

import (
	"context"

	"github.com/gabrielbrunop/tenda/lang/ast"
)

// AnnotateFiles annotates every chunk in place. The pass is pure and
// produces no errors: undefined references are a runtime concern in this
// language.
func AnnotateFiles(ctx context.Context, chunks ...*ast.Chunk) {
	for _, ch := range chunks {
		Annotate(ch)
	}
}

// Annotate computes the closure information of the chunk in place.
func Annotate(ch *ast.Chunk) {
	if ch.Block == nil {
		return
	}
	caps := capturesInStmts(ch.Block.Stmts)
	a := annotator{caps: caps}
	for _, s := range ch.Block.Stmts {
		a.stmt(s)
	}
}

// annotator is the phase 2 walk, flipping flags with the capture set in
// hand.
type annotator struct {
	caps captureList
}

func (a *annotator) stmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		a.expr(stmt.Expr)

	case *ast.LocalDecl:
		if a.caps.capturesDecl(stmt.Uid) {
			stmt.Captured = true
		}
		a.expr(stmt.Value)

	case *ast.FunctionDecl:
		if a.caps.capturesDecl(stmt.Uid) {
			stmt.Captured = true
		}
		stmt.FreeVars = a.caps.freeVarsOf(stmt.Uid)
		for _, param := range stmt.Params {
			if a.caps.capturesDecl(param.Uid) {
				param.Captured = true
			}
		}
		a.block(stmt.Body)

	case *ast.Cond:
		a.expr(stmt.Cond)
		a.block(stmt.Then)
		if stmt.Else != nil {
			a.block(stmt.Else)
		}

	case *ast.While:
		a.expr(stmt.Cond)
		a.block(stmt.Body)

	case *ast.ForEach:
		if a.caps.capturesDecl(stmt.Item.Uid) {
			stmt.Item.Captured = true
		}
		a.expr(stmt.Iterable)
		a.block(stmt.Body)

	case *ast.Block:
		a.block(stmt)

	case *ast.Return:
		if stmt.Value != nil {
			a.expr(stmt.Value)
		}

	case *ast.Break, *ast.Continue, *ast.BadStmt:
		// nothing to annotate
	}
}

func (a *annotator) block(b *ast.Block) {
	for _, s := range b.Stmts {
		a.stmt(s)
	}
}

func (a *annotator) expr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.VarExpr:
		if a.caps.isFreeRef(expr.Uid) {
			expr.Captured = true
		}

	case *ast.FuncExpr:
		expr.FreeVars = a.caps.freeVarsOf(expr.Uid)
		for _, param := range expr.Params {
			if a.caps.capturesDecl(param.Uid) {
				param.Captured = true
			}
		}
		a.block(expr.Body)

	case *ast.CallExpr:
		a.expr(expr.Fn)
		for _, arg := range expr.Args {
			a.expr(arg)
		}

	case *ast.AccessExpr:
		a.expr(expr.Prefix)
		a.expr(expr.Index)

	case *ast.AssignExpr:
		a.expr(expr.Target)
		a.expr(expr.Value)

	case *ast.ListExpr:
		for _, e := range expr.Elems {
			a.expr(e)
		}

	case *ast.MapExpr:
		for _, kv := range expr.Items {
			a.expr(kv.Value)
		}

	case *ast.BinOpExpr:
		a.expr(expr.Left)
		a.expr(expr.Right)

	case *ast.UnaryOpExpr:
		a.expr(expr.Right)

	case *ast.CondExpr:
		a.expr(expr.Cond)
		a.expr(expr.Then)
		a.expr(expr.OrElse)

	case *ast.GroupExpr:
		a.expr(expr.Expr)

	case *ast.LiteralExpr, *ast.BadExpr:
		// nothing to annotate
	}
}
