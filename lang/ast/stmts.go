package ast

import (
	"fmt"

	"github.com/gabrielbrunop/tenda/lang/token"
)

type (
	// Param is a binding site introduced by a function signature or a
	// for-each loop variable. Captured is filled by the annotator.
	Param struct {
		Name     string
		Range    token.Span
		Uid      uint64
		Captured bool
	}

	// BadStmt represents a bad statement that failed to parse.
	BadStmt struct {
		Range token.Span
	}

	// ExprStmt represents an expression used as a statement.
	ExprStmt struct {
		Expr Expr
	}

	// LocalDecl represents a local declaration, e.g. seja x = 1. Captured is
	// filled by the annotator.
	LocalDecl struct {
		Range     token.Span
		Name      string
		NameRange token.Span
		Uid       uint64
		Captured  bool
		Value     Expr
	}

	// FunctionDecl represents a named function declaration, e.g.
	// função soma(a, b) ... fim. Captured and FreeVars are filled by the
	// annotator.
	FunctionDecl struct {
		Range     token.Span
		Name      string
		NameRange token.Span
		Uid       uint64
		Captured  bool
		Params    []*Param
		Body      *Block
		FreeVars  []string
	}

	// Cond represents a conditional statement, e.g. se ... então ... fim.
	Cond struct {
		Range token.Span
		Cond  Expr
		Then  *Block
		Else  *Block // may be nil
	}

	// While represents a while loop, e.g. enquanto ... faça ... fim.
	While struct {
		Range token.Span
		Cond  Expr
		Body  *Block
	}

	// ForEach represents a for-each loop, e.g. para cada x em ... faça ...
	// fim.
	ForEach struct {
		Range    token.Span
		Item     *Param
		Iterable Expr
		Body     *Block
	}

	// Return represents a return statement, with an optional value.
	Return struct {
		Range token.Span
		Value Expr // may be nil
	}

	// Break represents a break statement (the 'para' keyword used alone).
	Break struct {
		Range token.Span
	}

	// Continue represents a continue statement.
	Continue struct {
		Range token.Span
	}
)

func (n *BadStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad stmt!", nil) }
func (n *BadStmt) Span() token.Span              { return n.Range }
func (n *BadStmt) Walk(v Visitor)                {}
func (n *BadStmt) stmt()                         {}

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() token.Span              { return n.Expr.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.Expr) }
func (n *ExprStmt) stmt()                         {}

func (n *LocalDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, "decl "+n.Name, nil)
}
func (n *LocalDecl) Span() token.Span { return n.Range }
func (n *LocalDecl) Walk(v Visitor)   { Walk(v, n.Value) }
func (n *LocalDecl) stmt()            {}

func (n *FunctionDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, "fn decl "+n.Name, map[string]int{"params": len(n.Params)})
}
func (n *FunctionDecl) Span() token.Span { return n.Range }
func (n *FunctionDecl) Walk(v Visitor)   { Walk(v, n.Body) }
func (n *FunctionDecl) stmt()            {}

func (n *Cond) Format(f fmt.State, verb rune) {
	lbl := "se"
	if n.Else != nil {
		lbl += " senão"
	}
	format(f, verb, n, lbl, nil)
}
func (n *Cond) Span() token.Span { return n.Range }
func (n *Cond) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *Cond) stmt() {}

func (n *While) Format(f fmt.State, verb rune) { format(f, verb, n, "enquanto", nil) }
func (n *While) Span() token.Span              { return n.Range }
func (n *While) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *While) stmt() {}

func (n *ForEach) Format(f fmt.State, verb rune) {
	format(f, verb, n, "para cada "+n.Item.Name, nil)
}
func (n *ForEach) Span() token.Span { return n.Range }
func (n *ForEach) Walk(v Visitor) {
	Walk(v, n.Iterable)
	Walk(v, n.Body)
}
func (n *ForEach) stmt() {}

func (n *Return) Format(f fmt.State, verb rune) {
	var exprCount int
	if n.Value != nil {
		exprCount = 1
	}
	format(f, verb, n, "retorna", map[string]int{"expr": exprCount})
}
func (n *Return) Span() token.Span { return n.Range }
func (n *Return) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *Return) stmt() {}

func (n *Break) Format(f fmt.State, verb rune) { format(f, verb, n, "para", nil) }
func (n *Break) Span() token.Span              { return n.Range }
func (n *Break) Walk(v Visitor)                {}
func (n *Break) stmt()                         {}

func (n *Continue) Format(f fmt.State, verb rune) { format(f, verb, n, "continua", nil) }
func (n *Continue) Span() token.Span              { return n.Range }
func (n *Continue) Walk(v Visitor)                {}
func (n *Continue) stmt()                         {}
