package runtime

import (
	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/platform"
	"github.com/gabrielbrunop/tenda/lang/token"
)

// Runtime evaluates annotated ASTs against a stack of frames. Evaluation
// is strictly single-threaded and synchronous; ordering between observable
// effects is exactly program order.
type Runtime struct {
	stack    *Stack
	platform platform.Platform
}

// New returns a runtime backed by the given platform, with an empty global
// frame.
func New(p platform.Platform) *Runtime {
	return &Runtime{stack: NewStack(), platform: p}
}

// GlobalEnv returns the environment of the global frame, where built-in
// bindings are installed.
func (r *Runtime) GlobalEnv() Environment { return r.stack.Global().Env() }

// Platform returns the platform handle.
func (r *Runtime) Platform() platform.Platform { return r.platform }

// Eval evaluates each top-level statement of the chunk in order and
// returns the value of the last one, or a structured *Error.
func (r *Runtime) Eval(ch *ast.Chunk) (Value, error) {
	if ch.Block == nil {
		return Nil, nil
	}
	return r.interpretStmts(ch.Block.Stmts)
}

// interpretStmts evaluates the statements in order, short-circuiting when
// a control-transfer flag is raised, and returns the last value produced.
func (r *Runtime) interpretStmts(stmts []ast.Stmt) (Value, error) {
	last := Nil
	for _, stmt := range stmts {
		v, err := r.interpretStmt(stmt)
		if err != nil {
			return nil, err
		}
		last = v

		if r.stack.HasReturnValue() || r.stack.HasBreak() || r.stack.HasContinue() {
			break
		}
	}
	return last, nil
}

// interpretStmt evaluates one statement. A raised error whose span is
// unset receives the span of the statement; an error that already carries
// a span is not overwritten.
func (r *Runtime) interpretStmt(stmt ast.Stmt) (Value, error) {
	var v Value
	var err error

	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		v, err = r.evalExpr(stmt.Expr)
	case *ast.LocalDecl:
		v, err = r.visitLocalDecl(stmt)
	case *ast.FunctionDecl:
		v, err = r.visitFunctionDecl(stmt)
	case *ast.Cond:
		v, err = r.visitCond(stmt)
	case *ast.While:
		v, err = r.visitWhile(stmt)
	case *ast.ForEach:
		v, err = r.visitForEach(stmt)
	case *ast.Block:
		v, err = r.visitBlock(stmt)
	case *ast.Return:
		v, err = r.visitReturn(stmt)
	case *ast.Break:
		r.stack.SetBreak(true)
		v = Nil
	case *ast.Continue:
		r.stack.SetContinue(true)
		v = Nil
	default:
		v = Nil
	}

	if err != nil {
		if e, ok := err.(*Error); ok && !e.Span.IsValid() {
			e.Span = stmt.Span()
		}
		return nil, err
	}
	return v, nil
}

func (r *Runtime) visitBlock(b *ast.Block) (Value, error) {
	r.stack.Push(NewFrame())
	_, err := r.interpretStmts(b.Stmts)
	r.stack.Pop()
	if err != nil {
		return nil, err
	}
	return Nil, nil
}

func (r *Runtime) visitReturn(stmt *ast.Return) (Value, error) {
	value := Nil
	if stmt.Value != nil {
		v, err := r.evalExpr(stmt.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	r.stack.SetReturnValue(NewCell(value))
	return Nil, nil
}

func (r *Runtime) visitCond(stmt *ast.Cond) (Value, error) {
	cond, err := r.evalExpr(stmt.Cond)
	if err != nil {
		return nil, err
	}
	if cond.Truth() {
		if _, err := r.visitBlock(stmt.Then); err != nil {
			return nil, err
		}
	} else if stmt.Else != nil {
		if _, err := r.visitBlock(stmt.Else); err != nil {
			return nil, err
		}
	}
	return Nil, nil
}

func (r *Runtime) visitWhile(stmt *ast.While) (Value, error) {
	for {
		cond, err := r.evalExpr(stmt.Cond)
		if err != nil {
			return nil, err
		}
		if !cond.Truth() || r.stack.HasBreak() || r.stack.HasReturnValue() {
			break
		}
		if _, err := r.visitBlock(stmt.Body); err != nil {
			return nil, err
		}
		r.stack.SetContinue(false)
	}
	r.stack.SetBreak(false)
	return Nil, nil
}

func (r *Runtime) visitForEach(stmt *ast.ForEach) (Value, error) {
	iterable, err := r.evalExpr(stmt.Iterable)
	if err != nil {
		return nil, err
	}

	loopBody := func(item Value) (stop bool, err error) {
		frame := NewFrame()
		cell := NewCell(item)
		if stmt.Item.Captured {
			cell = NewSharedCell(item)
		}
		frame.Env().Define(stmt.Item.Name, cell)

		r.stack.Push(frame)
		_, err = r.interpretStmts(stmt.Body.Stmts)
		r.stack.Pop()
		if err != nil {
			return false, err
		}

		if r.stack.HasBreak() || r.stack.HasReturnValue() {
			return true, nil
		}
		r.stack.SetContinue(false)
		return false, nil
	}

	switch it := iterable.(type) {
	case *List:
		// iterate the snapshot taken at loop entry; reentrant mutation
		// affects the live list only
		snapshot := make([]Value, len(it.Elems))
		copy(snapshot, it.Elems)
		for _, item := range snapshot {
			stop, err := loopBody(item)
			if err != nil {
				return nil, err
			}
			if stop {
				break
			}
		}

	case Range:
		// lazily counted, ascending, inclusive of both endpoints
		for i := it.From; i <= it.To; i++ {
			stop, err := loopBody(Number(i))
			if err != nil {
				return nil, err
			}
			if stop {
				break
			}
		}

	default:
		return nil, newErrorf(NotIterable, stmt.Iterable.Span(),
			"não é possível iterar sobre um valor do tipo '%s'", iterable.Kind())
	}

	r.stack.SetBreak(false)
	return Nil, nil
}

func (r *Runtime) visitLocalDecl(stmt *ast.LocalDecl) (Value, error) {
	value, err := r.evalExpr(stmt.Value)
	if err != nil {
		return nil, err
	}

	cell := NewCell(value)
	if stmt.Captured {
		cell = NewSharedCell(value)
	}
	if err := r.stack.Define(stmt.Name, cell); err != nil {
		return nil, newErrorf(AlreadyDeclared, stmt.NameRange,
			"variável identificada por '%s' já está declarada neste escopo", stmt.Name).
			withHelp("declare a variável com outro nome ou use `=` para atribuir um novo valor a ela")
	}
	return Nil, nil
}

func (r *Runtime) visitFunctionDecl(stmt *ast.FunctionDecl) (Value, error) {
	fn := r.createFunction(stmt.Name, stmt.Params, stmt.Body, stmt.Span())

	cell := NewCell(fn)
	if stmt.Captured {
		cell = NewSharedCell(fn)
	}
	if err := r.stack.Define(stmt.Name, cell); err != nil {
		return nil, newErrorf(AlreadyDeclared, stmt.NameRange,
			"variável identificada por '%s' já está declarada neste escopo", stmt.Name).
			withHelp("declare a função com outro nome")
	}
	return Nil, nil
}

// createFunction builds a Function value, snapshotting from every active
// frame each Shared cell that is not shadowed by one of the new function's
// parameters. Owned bindings are deliberately not copied: they cannot
// escape their scope.
func (r *Runtime) createFunction(name string, params []*ast.Param, body *ast.Block, site token.Span) *Function {
	captured := NewEnvironment()
	r.stack.Frames(func(f *Frame) {
		f.Env().Each(func(bname string, c ValueCell) {
			if !c.IsShared() {
				return
			}
			for _, p := range params {
				if p.Name == bname {
					return
				}
			}
			captured.Define(bname, c)
		})
	})

	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = Param{Name: p.Name, Captured: p.Captured}
	}
	return NewFunction(name, ps, captured, body, site)
}

// CallFunction calls fn with the given argument values. It is exported so
// built-ins can invoke user functions through the evaluator handle. On
// error, a stack-trace frame with the function name is appended to the
// error on the way up; the first frame carries the error's own span when
// it has one, every later frame the call site.
func (r *Runtime) CallFunction(fn *Function, args []Value, callSite token.Span) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, newErrorf(WrongNumberOfArguments, callSite,
			"número de argumentos incorreto: esperado %d, encontrado %d", len(fn.Params), len(args))
	}

	named := make([]NamedArg, len(args))
	for i, arg := range args {
		named[i] = NamedArg{Param: fn.Params[i], Value: arg}
	}

	r.stack.Push(NewFrameFrom(fn.Env.Clone()))

	var result Value
	var err error
	if fn.Native != nil {
		result, err = fn.Native(named, r, fn.Env)
	} else {
		for _, arg := range named {
			cell := NewCell(arg.Value)
			if arg.Param.Captured {
				cell = NewSharedCell(arg.Value)
			}
			// the frame is fresh, parameter names are distinct
			r.stack.innermost().Env().Define(arg.Param.Name, cell)
		}

		_, err = r.visitBlock(fn.Body)
		if err == nil {
			result = Nil
			if c, ok := r.stack.ConsumeReturnValue(); ok {
				result = c.Value()
			}
		}
	}

	r.stack.Pop()

	if err != nil {
		if e, ok := err.(*Error); ok {
			site := callSite
			if len(e.Stack) == 0 && e.Span.IsValid() {
				site = e.Span
			}
			e.Stack = append(e.Stack, StackFrame{Function: fn.Name, Span: site})
		}
		return nil, err
	}
	return result, nil
}
