package runtime

import (
	"fmt"

	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/token"
)

// Param is a function parameter: its name and whether it is captured by a
// nested function (in which case the argument is bound in a Shared cell).
type Param struct {
	Name     string
	Captured bool
}

// NamedArg pairs a parameter with the argument value bound to it, in
// declaration order.
type NamedArg struct {
	Param Param
	Value Value
}

// NativeFn is the implementation contract of a built-in function: it
// receives the ordered (parameter, value) pairs, the evaluator handle (so
// built-ins can invoke user functions) and the captured environment, and
// returns a value or a runtime error.
type NativeFn func(args []NamedArg, rt *Runtime, env Environment) (Value, error)

// Function is a callable value: a user function closing over its captured
// environment snapshot, or a native built-in. Functions compare by their
// process-unique id.
type Function struct {
	id     uint64
	Name   string // declaration name, empty for anonymous functions
	Params []Param
	Env    Environment // captured Shared cells, by name
	Body   *ast.Block  // nil for native functions
	Native NativeFn    // nil for user functions
	Site   token.Span  // declaration site, zero for native functions
}

// NewFunction returns a user function value with a fresh identity.
func NewFunction(name string, params []Param, env Environment, body *ast.Block, site token.Span) *Function {
	return &Function{
		id:     token.NextUID(),
		Name:   name,
		Params: params,
		Env:    env,
		Body:   body,
		Site:   site,
	}
}

// NewNative returns a built-in function value with a fresh identity.
func NewNative(name string, params []string, fn NativeFn) *Function {
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = Param{Name: p}
	}
	return &Function{
		id:     token.NextUID(),
		Name:   name,
		Params: ps,
		Env:    NewEnvironment(),
		Native: fn,
	}
}

func (f *Function) Kind() Kind     { return KindFunction }
func (f *Function) String() string { return fmt.Sprintf("<função %#x>", f.id) }
func (f *Function) Truth() bool    { return true }
