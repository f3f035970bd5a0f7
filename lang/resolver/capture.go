package resolver

import "github.com/gabrielbrunop/tenda/lang/ast"

// A capture records that a nested function (innerFn) contains a free
// reference (freeRef, a variable node uid) to an enclosing declaration
// (enclosingDecl, a declaration uid) of the given name.
type capture struct {
	innerFn       uint64
	freeRef       uint64
	enclosingDecl uint64
	name          string
}

type captureList []capture

func (l captureList) capturesDecl(declUid uint64) bool {
	for _, c := range l {
		if c.enclosingDecl == declUid {
			return true
		}
	}
	return false
}

func (l captureList) isFreeRef(refUid uint64) bool {
	for _, c := range l {
		if c.freeRef == refUid {
			return true
		}
	}
	return false
}

// freeVarsOf returns the names the function closes over, deduplicated
// preserving first occurrence.
func (l captureList) freeVarsOf(fnUid uint64) []string {
	var names []string
	seen := make(map[string]bool)
	for _, c := range l {
		if c.innerFn == fnUid && !seen[c.name] {
			seen[c.name] = true
			names = append(names, c.name)
		}
	}
	return names
}

// A freeRef pairs the uid of a free variable reference with the uid of the
// innermost function it appears in.
type freeRef struct {
	ref     uint64
	innerFn uint64
}

// capturesInStmts is phase 1: it collects every capture record of the
// statement list. For each declaration site, the later siblings and all
// nested function bodies are inspected for free references to the declared
// name.
func capturesInStmts(stmts []ast.Stmt) captureList {
	var caps captureList
	for i, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *ast.LocalDecl:
			for _, ref := range freeRefsInSiblings(stmts[i+1:], stmt.Name) {
				caps = append(caps, capture{ref.innerFn, ref.ref, stmt.Uid, stmt.Name})
			}
			caps = append(caps, capturesInExpr(stmt.Value)...)

		case *ast.FunctionDecl:
			for _, ref := range freeRefsInSiblings(stmts[i+1:], stmt.Name) {
				caps = append(caps, capture{ref.innerFn, ref.ref, stmt.Uid, stmt.Name})
			}
			caps = append(caps, capturesInStmts(stmt.Body.Stmts)...)
			for _, param := range stmt.Params {
				for _, ref := range freeRefsInSiblings(stmt.Body.Stmts, param.Name) {
					caps = append(caps, capture{ref.innerFn, ref.ref, param.Uid, param.Name})
				}
			}

		case *ast.Cond:
			caps = append(caps, capturesInStmts(stmt.Then.Stmts)...)
			if stmt.Else != nil {
				caps = append(caps, capturesInStmts(stmt.Else.Stmts)...)
			}
			caps = append(caps, capturesInExpr(stmt.Cond)...)

		case *ast.While:
			caps = append(caps, capturesInStmts(stmt.Body.Stmts)...)
			caps = append(caps, capturesInExpr(stmt.Cond)...)

		case *ast.ForEach:
			caps = append(caps, capturesInStmts(stmt.Body.Stmts)...)
			for _, ref := range freeRefsInSiblings(stmt.Body.Stmts, stmt.Item.Name) {
				caps = append(caps, capture{ref.innerFn, ref.ref, stmt.Item.Uid, stmt.Item.Name})
			}
			caps = append(caps, capturesInExpr(stmt.Iterable)...)

		case *ast.Block:
			caps = append(caps, capturesInStmts(stmt.Stmts)...)

		case *ast.ExprStmt:
			caps = append(caps, capturesInExpr(stmt.Expr)...)

		case *ast.Return:
			if stmt.Value != nil {
				caps = append(caps, capturesInExpr(stmt.Value)...)
			}
		}
	}
	return caps
}

func capturesInExpr(expr ast.Expr) captureList {
	var caps captureList
	switch expr := expr.(type) {
	case *ast.FuncExpr:
		caps = append(caps, capturesInStmts(expr.Body.Stmts)...)
		for _, param := range expr.Params {
			for _, ref := range freeRefsInSiblings(expr.Body.Stmts, param.Name) {
				caps = append(caps, capture{ref.innerFn, ref.ref, param.Uid, param.Name})
			}
		}

	case *ast.BinOpExpr:
		caps = append(caps, capturesInExpr(expr.Left)...)
		caps = append(caps, capturesInExpr(expr.Right)...)

	case *ast.UnaryOpExpr:
		caps = append(caps, capturesInExpr(expr.Right)...)

	case *ast.CondExpr:
		caps = append(caps, capturesInExpr(expr.Cond)...)
		caps = append(caps, capturesInExpr(expr.Then)...)
		caps = append(caps, capturesInExpr(expr.OrElse)...)

	case *ast.CallExpr:
		for _, arg := range expr.Args {
			caps = append(caps, capturesInExpr(arg)...)
		}
		caps = append(caps, capturesInExpr(expr.Fn)...)

	case *ast.AccessExpr:
		caps = append(caps, capturesInExpr(expr.Index)...)
		caps = append(caps, capturesInExpr(expr.Prefix)...)

	case *ast.AssignExpr:
		caps = append(caps, capturesInExpr(expr.Target)...)
		caps = append(caps, capturesInExpr(expr.Value)...)

	case *ast.ListExpr:
		for _, e := range expr.Elems {
			caps = append(caps, capturesInExpr(e)...)
		}

	case *ast.MapExpr:
		for _, kv := range expr.Items {
			caps = append(caps, capturesInExpr(kv.Value)...)
		}

	case *ast.GroupExpr:
		caps = append(caps, capturesInExpr(expr.Expr)...)
	}
	return caps
}

// freeRefsInSiblings scans the statements that follow a declaration of
// name (or the body of a loop binding it) for free references to that
// name inside nested functions, stopping at a shadowing declaration.
func freeRefsInSiblings(stmts []ast.Stmt, name string) []freeRef {
	var refs []freeRef
	for _, stmt := range stmts {
		if declares(stmt, name) {
			break
		}
		refs = append(refs, freeRefsInStmt(stmt, name)...)
	}
	return refs
}

func declares(stmt ast.Stmt, name string) bool {
	switch stmt := stmt.(type) {
	case *ast.LocalDecl:
		return stmt.Name == name
	case *ast.FunctionDecl:
		return stmt.Name == name
	}
	return false
}

// freeRefsInStmt collects the free references to name inside the nested
// function bodies of stmt. References outside a nested function are not
// free with respect to any outer declaration.
func freeRefsInStmt(stmt ast.Stmt, name string) []freeRef {
	switch stmt := stmt.(type) {
	case *ast.FunctionDecl:
		if stmt.Name == name || paramsShadow(stmt.Params, name) {
			return nil
		}
		return freeRefsInFnBody(stmt.Body.Stmts, name, stmt.Uid)

	case *ast.LocalDecl:
		if stmt.Name == name {
			return nil
		}
		return freeRefsInExpr(stmt.Value, name)

	case *ast.Cond:
		refs := freeRefsInExpr(stmt.Cond, name)
		refs = append(refs, freeRefsInSiblings(stmt.Then.Stmts, name)...)
		if stmt.Else != nil {
			refs = append(refs, freeRefsInSiblings(stmt.Else.Stmts, name)...)
		}
		return refs

	case *ast.While:
		refs := freeRefsInExpr(stmt.Cond, name)
		return append(refs, freeRefsInSiblings(stmt.Body.Stmts, name)...)

	case *ast.ForEach:
		refs := freeRefsInExpr(stmt.Iterable, name)
		if stmt.Item.Name != name {
			refs = append(refs, freeRefsInSiblings(stmt.Body.Stmts, name)...)
		}
		return refs

	case *ast.Block:
		return freeRefsInSiblings(stmt.Stmts, name)

	case *ast.Return:
		if stmt.Value != nil {
			return freeRefsInExpr(stmt.Value, name)
		}

	case *ast.ExprStmt:
		return freeRefsInExpr(stmt.Expr, name)
	}
	return nil
}

func freeRefsInExpr(expr ast.Expr, name string) []freeRef {
	switch expr := expr.(type) {
	case *ast.FuncExpr:
		if paramsShadow(expr.Params, name) {
			return nil
		}
		return freeRefsInFnBody(expr.Body.Stmts, name, expr.Uid)

	case *ast.BinOpExpr:
		refs := freeRefsInExpr(expr.Left, name)
		return append(refs, freeRefsInExpr(expr.Right, name)...)

	case *ast.UnaryOpExpr:
		return freeRefsInExpr(expr.Right, name)

	case *ast.CondExpr:
		refs := freeRefsInExpr(expr.Cond, name)
		refs = append(refs, freeRefsInExpr(expr.Then, name)...)
		return append(refs, freeRefsInExpr(expr.OrElse, name)...)

	case *ast.CallExpr:
		var refs []freeRef
		for _, arg := range expr.Args {
			refs = append(refs, freeRefsInExpr(arg, name)...)
		}
		return append(refs, freeRefsInExpr(expr.Fn, name)...)

	case *ast.AccessExpr:
		refs := freeRefsInExpr(expr.Index, name)
		return append(refs, freeRefsInExpr(expr.Prefix, name)...)

	case *ast.AssignExpr:
		refs := freeRefsInExpr(expr.Target, name)
		return append(refs, freeRefsInExpr(expr.Value, name)...)

	case *ast.ListExpr:
		var refs []freeRef
		for _, e := range expr.Elems {
			refs = append(refs, freeRefsInExpr(e, name)...)
		}
		return refs

	case *ast.MapExpr:
		var refs []freeRef
		for _, kv := range expr.Items {
			refs = append(refs, freeRefsInExpr(kv.Value, name)...)
		}
		return refs

	case *ast.GroupExpr:
		return freeRefsInExpr(expr.Expr, name)
	}
	return nil
}

// freeRefsInFnBody collects the references to name inside the body of the
// function identified by fnUid, stopping at shadowing declarations. Nested
// functions that redeclare the name (as a parameter or function name) cut
// the search; other nested functions attribute their references to the
// deeper function.
func freeRefsInFnBody(stmts []ast.Stmt, name string, fnUid uint64) []freeRef {
	var refs []freeRef
	for _, stmt := range stmts {
		if declares(stmt, name) {
			break
		}
		refs = append(refs, freeRefsInFnStmt(stmt, name, fnUid)...)
	}
	return refs
}

func freeRefsInFnStmt(stmt ast.Stmt, name string, fnUid uint64) []freeRef {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		return refsOf(varRefsInExpr(stmt.Expr, name), fnUid)

	case *ast.FunctionDecl:
		if paramsShadow(stmt.Params, name) {
			return nil
		}
		return freeRefsInFnBody(stmt.Body.Stmts, name, stmt.Uid)

	case *ast.LocalDecl:
		return refsOf(varRefsInExpr(stmt.Value, name), fnUid)

	case *ast.Cond:
		refs := refsOf(varRefsInExpr(stmt.Cond, name), fnUid)
		refs = append(refs, freeRefsInFnBody(stmt.Then.Stmts, name, fnUid)...)
		if stmt.Else != nil {
			refs = append(refs, freeRefsInFnBody(stmt.Else.Stmts, name, fnUid)...)
		}
		return refs

	case *ast.While:
		refs := refsOf(varRefsInExpr(stmt.Cond, name), fnUid)
		return append(refs, freeRefsInFnBody(stmt.Body.Stmts, name, fnUid)...)

	case *ast.ForEach:
		refs := refsOf(varRefsInExpr(stmt.Iterable, name), fnUid)
		if stmt.Item.Name != name {
			refs = append(refs, freeRefsInFnBody(stmt.Body.Stmts, name, fnUid)...)
		}
		return refs

	case *ast.Block:
		return freeRefsInFnBody(stmt.Stmts, name, fnUid)

	case *ast.Return:
		if stmt.Value != nil {
			return refsOf(varRefsInExpr(stmt.Value, name), fnUid)
		}
	}
	return nil
}

func refsOf(uids []uint64, fnUid uint64) []freeRef {
	refs := make([]freeRef, 0, len(uids))
	for _, uid := range uids {
		refs = append(refs, freeRef{ref: uid, innerFn: fnUid})
	}
	return refs
}

// varRefsInExpr collects the uids of variable references to name in the
// expression, descending into nested functions unless they shadow the
// name.
func varRefsInExpr(expr ast.Expr, name string) []uint64 {
	switch expr := expr.(type) {
	case *ast.VarExpr:
		if expr.Name == name {
			return []uint64{expr.Uid}
		}

	case *ast.BinOpExpr:
		refs := varRefsInExpr(expr.Left, name)
		return append(refs, varRefsInExpr(expr.Right, name)...)

	case *ast.UnaryOpExpr:
		return varRefsInExpr(expr.Right, name)

	case *ast.CondExpr:
		refs := varRefsInExpr(expr.Cond, name)
		refs = append(refs, varRefsInExpr(expr.Then, name)...)
		return append(refs, varRefsInExpr(expr.OrElse, name)...)

	case *ast.CallExpr:
		var refs []uint64
		for _, arg := range expr.Args {
			refs = append(refs, varRefsInExpr(arg, name)...)
		}
		return append(refs, varRefsInExpr(expr.Fn, name)...)

	case *ast.AccessExpr:
		refs := varRefsInExpr(expr.Index, name)
		return append(refs, varRefsInExpr(expr.Prefix, name)...)

	case *ast.AssignExpr:
		refs := varRefsInExpr(expr.Target, name)
		return append(refs, varRefsInExpr(expr.Value, name)...)

	case *ast.ListExpr:
		var refs []uint64
		for _, e := range expr.Elems {
			refs = append(refs, varRefsInExpr(e, name)...)
		}
		return refs

	case *ast.MapExpr:
		var refs []uint64
		for _, kv := range expr.Items {
			refs = append(refs, varRefsInExpr(kv.Value, name)...)
		}
		return refs

	case *ast.GroupExpr:
		return varRefsInExpr(expr.Expr, name)

	case *ast.FuncExpr:
		if paramsShadow(expr.Params, name) {
			return nil
		}
		return varRefsInStmts(expr.Body.Stmts, name)
	}
	return nil
}

func varRefsInStmts(stmts []ast.Stmt, name string) []uint64 {
	var refs []uint64
	for _, stmt := range stmts {
		if declares(stmt, name) {
			break
		}
		refs = append(refs, varRefsInStmt(stmt, name)...)
	}
	return refs
}

func varRefsInStmt(stmt ast.Stmt, name string) []uint64 {
	switch stmt := stmt.(type) {
	case *ast.LocalDecl:
		return varRefsInExpr(stmt.Value, name)

	case *ast.FunctionDecl:
		if paramsShadow(stmt.Params, name) {
			return nil
		}
		return varRefsInStmts(stmt.Body.Stmts, name)

	case *ast.ExprStmt:
		return varRefsInExpr(stmt.Expr, name)

	case *ast.Cond:
		refs := varRefsInExpr(stmt.Cond, name)
		refs = append(refs, varRefsInStmts(stmt.Then.Stmts, name)...)
		if stmt.Else != nil {
			refs = append(refs, varRefsInStmts(stmt.Else.Stmts, name)...)
		}
		return refs

	case *ast.While:
		refs := varRefsInExpr(stmt.Cond, name)
		return append(refs, varRefsInStmts(stmt.Body.Stmts, name)...)

	case *ast.ForEach:
		refs := varRefsInExpr(stmt.Iterable, name)
		if stmt.Item.Name != name {
			refs = append(refs, varRefsInStmts(stmt.Body.Stmts, name)...)
		}
		return refs

	case *ast.Block:
		return varRefsInStmts(stmt.Stmts, name)

	case *ast.Return:
		if stmt.Value != nil {
			return varRefsInExpr(stmt.Value, name)
		}
	}
	return nil
}

func paramsShadow(params []*ast.Param, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}
