package ast

import (
	"fmt"

	"github.com/gabrielbrunop/tenda/lang/token"
)

// Unwrap the expression inside a grouping. It unwraps multiple GroupExpr
// recursively until it reaches a non-GroupExpr.
func Unwrap(e Expr) Expr {
	if ge, ok := e.(*GroupExpr); ok {
		return Unwrap(ge.Expr)
	}
	return e
}

// IsAssignable returns true if e can be the target of an assignment, which
// is only the case for variables and access expressions.
func IsAssignable(e Expr) bool {
	switch Unwrap(e).(type) {
	case *VarExpr, *AccessExpr:
		return true
	default:
		return false
	}
}

type (
	// BadExpr represents a bad expression that failed to parse.
	BadExpr struct {
		Range token.Span
	}

	// LiteralExpr represents a number, string, boolean or nil literal.
	LiteralExpr struct {
		Kind  token.Token // NUMBER, STRING, TRUE, FALSE or NIL
		Range token.Span
		Raw   string  // uninterpreted text
		Num   float64 // for NUMBER
		Str   string  // for STRING
	}

	// VarExpr represents a variable reference. Captured is filled by the
	// annotator.
	VarExpr struct {
		Range    token.Span
		Name     string
		Uid      uint64
		Captured bool
	}

	// GroupExpr represents an expression wrapped in parentheses.
	GroupExpr struct {
		Range token.Span
		Expr  Expr
	}

	// ListExpr represents a list literal.
	ListExpr struct {
		Range token.Span
		Elems []Expr
	}

	// KeyVal is a single literal-keyed entry of an associative array
	// literal. The key is a number or string literal only.
	KeyVal struct {
		Key   *LiteralExpr
		Value Expr
	}

	// MapExpr represents an associative array literal.
	MapExpr struct {
		Range token.Span
		Items []*KeyVal
	}

	// FuncExpr represents an anonymous function literal. FreeVars is filled
	// by the annotator.
	FuncExpr struct {
		Range    token.Span
		Uid      uint64
		Params   []*Param
		Body     *Block
		FreeVars []string
	}

	// CallExpr represents a function call, e.g. f(x, y).
	CallExpr struct {
		Range token.Span
		Fn    Expr
		Args  []Expr
	}

	// AccessExpr represents a subscript expression, e.g. x[y]. Dotted field
	// access desugars to an AccessExpr with a string-literal index.
	AccessExpr struct {
		Range  token.Span
		Prefix Expr
		Index  Expr
	}

	// AssignExpr represents an assignment, e.g. x = y or x[i] = y. Target is
	// a *VarExpr or *AccessExpr, possibly wrapped in a *GroupExpr (see
	// Unwrap).
	AssignExpr struct {
		Range  token.Span
		Target Expr
		Value  Expr
	}

	// BinOpExpr represents a binary expression, e.g. x + y.
	BinOpExpr struct {
		Left    Expr
		Op      token.Token
		OpRange token.Span
		Right   Expr
	}

	// UnaryOpExpr represents a unary operator expression, e.g. -x or não x.
	UnaryOpExpr struct {
		Op      token.Token
		OpRange token.Span
		Right   Expr
	}

	// CondExpr represents a conditional expression,
	// se COND então EXPR senão EXPR.
	CondExpr struct {
		Range  token.Span
		Cond   Expr
		Then   Expr
		OrElse Expr
	}
)

func (n *BadExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad expr!", nil) }
func (n *BadExpr) Span() token.Span              { return n.Range }
func (n *BadExpr) Walk(v Visitor)                {}
func (n *BadExpr) expr()                         {}

func (n *LiteralExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.Kind.String()+" "+n.Raw, nil)
}
func (n *LiteralExpr) Span() token.Span { return n.Range }
func (n *LiteralExpr) Walk(v Visitor)   {}
func (n *LiteralExpr) expr()            {}

func (n *VarExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name, nil) }
func (n *VarExpr) Span() token.Span              { return n.Range }
func (n *VarExpr) Walk(v Visitor)                {}
func (n *VarExpr) expr()                         {}

func (n *GroupExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "(expr)", nil) }
func (n *GroupExpr) Span() token.Span              { return n.Range }
func (n *GroupExpr) Walk(v Visitor)                { Walk(v, n.Expr) }
func (n *GroupExpr) expr()                         {}

func (n *ListExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "list", map[string]int{"elems": len(n.Elems)})
}
func (n *ListExpr) Span() token.Span { return n.Range }
func (n *ListExpr) Walk(v Visitor) {
	for _, e := range n.Elems {
		Walk(v, e)
	}
}
func (n *ListExpr) expr() {}

func (n *MapExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "map", map[string]int{"keyvals": len(n.Items)})
}
func (n *MapExpr) Span() token.Span { return n.Range }
func (n *MapExpr) Walk(v Visitor) {
	for _, kv := range n.Items {
		Walk(v, kv.Key)
		Walk(v, kv.Value)
	}
}
func (n *MapExpr) expr() {}

func (n *FuncExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "fn", map[string]int{"params": len(n.Params)})
}
func (n *FuncExpr) Span() token.Span { return n.Range }
func (n *FuncExpr) Walk(v Visitor)   { Walk(v, n.Body) }
func (n *FuncExpr) expr()            {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() token.Span { return n.Range }
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, e := range n.Args {
		Walk(v, e)
	}
}
func (n *CallExpr) expr() {}

func (n *AccessExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr[index]", nil) }
func (n *AccessExpr) Span() token.Span              { return n.Range }
func (n *AccessExpr) Walk(v Visitor) {
	Walk(v, n.Prefix)
	Walk(v, n.Index)
}
func (n *AccessExpr) expr() {}

func (n *AssignExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "assign", nil) }
func (n *AssignExpr) Span() token.Span              { return n.Range }
func (n *AssignExpr) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Value)
}
func (n *AssignExpr) expr() {}

func (n *BinOpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Op.GoString(), nil)
}
func (n *BinOpExpr) Span() token.Span {
	return n.Left.Span().Extend(n.Right.Span())
}
func (n *BinOpExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinOpExpr) expr() {}

func (n *UnaryOpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unary "+n.Op.GoString(), nil)
}
func (n *UnaryOpExpr) Span() token.Span {
	return n.OpRange.Extend(n.Right.Span())
}
func (n *UnaryOpExpr) Walk(v Visitor) { Walk(v, n.Right) }
func (n *UnaryOpExpr) expr()          {}

func (n *CondExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "se expr", nil) }
func (n *CondExpr) Span() token.Span              { return n.Range }
func (n *CondExpr) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	Walk(v, n.OrElse)
}
func (n *CondExpr) expr() {}
