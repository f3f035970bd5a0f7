package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielbrunop/tenda/internal/runtest"
	"github.com/gabrielbrunop/tenda/lang/ast"
)

func TestCaptureOfOuterLocal(t *testing.T) {
	ch := runtest.Parse(t, `
seja x = 1
função f()
  retorna x
fim
`)
	decl := ch.Block.Stmts[0].(*ast.LocalDecl)
	fn := ch.Block.Stmts[1].(*ast.FunctionDecl)

	assert.True(t, decl.Captured)
	assert.Equal(t, []string{"x"}, fn.FreeVars)

	ret := fn.Body.Stmts[0].(*ast.Return)
	v := ret.Value.(*ast.VarExpr)
	assert.True(t, v.Captured)
}

func TestNonCapturedLocal(t *testing.T) {
	ch := runtest.Parse(t, `
seja x = 1
seja y = x + 1
`)
	declX := ch.Block.Stmts[0].(*ast.LocalDecl)
	declY := ch.Block.Stmts[1].(*ast.LocalDecl)
	assert.False(t, declX.Captured)
	assert.False(t, declY.Captured)

	v := declY.Value.(*ast.BinOpExpr).Left.(*ast.VarExpr)
	assert.False(t, v.Captured)
}

func TestParameterCapturedByNestedFunction(t *testing.T) {
	ch := runtest.Parse(t, `
função cria_somador(x)
  função somador(y)
    retorna x + y
  fim
  retorna somador
fim
`)
	outer := ch.Block.Stmts[0].(*ast.FunctionDecl)
	require.Len(t, outer.Params, 1)
	assert.True(t, outer.Params[0].Captured, "parameter x is captured by somador")

	inner := outer.Body.Stmts[0].(*ast.FunctionDecl)
	assert.Equal(t, []string{"x"}, inner.FreeVars)
	assert.False(t, inner.Params[0].Captured)
}

func TestParameterShadowsOuterName(t *testing.T) {
	ch := runtest.Parse(t, `
seja x = 1
função f(x)
  retorna x
fim
`)
	decl := ch.Block.Stmts[0].(*ast.LocalDecl)
	fn := ch.Block.Stmts[1].(*ast.FunctionDecl)
	assert.False(t, decl.Captured, "the parameter shadows the outer x")
	assert.Empty(t, fn.FreeVars)
}

func TestLocalShadowsFromDeclarationOnward(t *testing.T) {
	ch := runtest.Parse(t, `
seja x = 1
função f()
  seja x = 2
  retorna x
fim
`)
	decl := ch.Block.Stmts[0].(*ast.LocalDecl)
	fn := ch.Block.Stmts[1].(*ast.FunctionDecl)
	assert.False(t, decl.Captured, "f declares its own x")
	assert.Empty(t, fn.FreeVars)
}

func TestCaptureOfLaterMutatedBinding(t *testing.T) {
	ch := runtest.Parse(t, `
seja x = 1
seja f() = faça
  seja g() = faça retorna x fim
  retorna g
fim
`)
	decl := ch.Block.Stmts[0].(*ast.LocalDecl)
	assert.True(t, decl.Captured)

	// the capture is attributed to the innermost function referencing x
	f := ch.Block.Stmts[1].(*ast.FunctionDecl)
	assert.Empty(t, f.FreeVars)

	g := f.Body.Stmts[0].(*ast.FunctionDecl)
	assert.Equal(t, []string{"x"}, g.FreeVars)
}

func TestForEachItemCaptured(t *testing.T) {
	ch := runtest.Parse(t, `
seja fs = []
para cada i em 1 até 3 faça
  Lista.insira(fs, função() -> i)
fim
`)
	loop := ch.Block.Stmts[1].(*ast.ForEach)
	assert.True(t, loop.Item.Captured)
}

func TestForEachItemNotCapturedWithoutClosure(t *testing.T) {
	ch := runtest.Parse(t, `
seja s = 0
para cada i em 1 até 3 faça
  s = s + i
fim
`)
	loop := ch.Block.Stmts[1].(*ast.ForEach)
	assert.False(t, loop.Item.Captured)
}

func TestAnonymousFunctionFreeVars(t *testing.T) {
	ch := runtest.Parse(t, `
seja a = 1
seja b = 2
seja f = função() -> a + b + a
`)
	declF := ch.Block.Stmts[2].(*ast.LocalDecl)
	fn := declF.Value.(*ast.FuncExpr)
	assert.Equal(t, []string{"a", "b"}, fn.FreeVars, "deduplicated, first occurrence order")
}

// closure soundness: every variable reference in a function body whose
// name is in the function's free-var list has its captured flag set
func TestClosureSoundness(t *testing.T) {
	ch := runtest.Parse(t, `
seja x = 1
seja y = 2
função f()
  seja z = x
  retorna z + y + x
fim
`)
	fn := ch.Block.Stmts[2].(*ast.FunctionDecl)
	free := make(map[string]bool)
	for _, name := range fn.FreeVars {
		free[name] = true
	}
	require.NotEmpty(t, free)

	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitExit {
			return nil
		}
		if v, ok := n.(*ast.VarExpr); ok && free[v.Name] {
			assert.True(t, v.Captured, "reference to %s", v.Name)
		}
		return visit
	}
	ast.Walk(visit, fn.Body)

	assert.True(t, ch.Block.Stmts[0].(*ast.LocalDecl).Captured)
	assert.True(t, ch.Block.Stmts[1].(*ast.LocalDecl).Captured)
}

func TestConditionalBranchesAnalyzed(t *testing.T) {
	ch := runtest.Parse(t, `
seja x = 1
se verdadeiro então
  seja f = função() -> x
fim
`)
	decl := ch.Block.Stmts[0].(*ast.LocalDecl)
	assert.True(t, decl.Captured)
}
