package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielbrunop/tenda/internal/runtest"
	"github.com/gabrielbrunop/tenda/lang/runtime"
)

func num(v float64) runtime.Value { return runtime.Number(v) }

func TestClosureCapturesLaterMutatedBinding(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja x = 1
seja f() = faça
  seja g() = faça retorna x fim
  retorna g
fim
seja h = f()
x = 999
seja r = h()
`)
	assert.Equal(t, num(999), runtest.Global(t, rt, "r"))
}

func TestForEachSumsRangeInclusive(t *testing.T) {
	_, rt := runtest.Eval(t, "seja s = 0 ; para cada i em 1 até 5 faça s = s + i fim")
	assert.Equal(t, num(15), runtest.Global(t, rt, "s"))
}

func TestBreakExitsInnermostLoopOnly(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja total = 0
para cada i em [1,2,3] faça
  enquanto verdadeiro faça total = total + 1 ; para fim
  total = total + 10
fim
`)
	assert.Equal(t, num(33), runtest.Global(t, rt, "total"))
}

func TestListIsSharedMutable(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja a = [1,2,3]
seja b = a
b[0] = 99
seja primeiro = a[0]
`)
	assert.Equal(t, num(99), runtest.Global(t, rt, "primeiro"))
}

func TestShortCircuitSuppressesSideEffects(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja x = 0
seja inc() = faça x = x + 1 ; retorna verdadeiro fim
falso e inc()
`)
	assert.Equal(t, num(0), runtest.Global(t, rt, "x"))
}

func TestDivisionByZero(t *testing.T) {
	e := runtest.EvalErr(t, "1 / 0")
	assert.Equal(t, runtime.DivisionByZero, e.Kind)
}

func TestShortCircuitReturnsDecidingOperand(t *testing.T) {
	v, _ := runtest.Eval(t, `0 ou "padrão"`)
	assert.Equal(t, runtime.String("padrão"), v)

	v, _ = runtest.Eval(t, `Nada e 1`)
	assert.Equal(t, runtime.Nil, v)

	v, _ = runtest.Eval(t, `5 ou 7`)
	assert.Equal(t, num(5), v, "the deciding operand is returned uncoerced")

	v, _ = runtest.Eval(t, `0 e 7`)
	assert.Equal(t, num(0), v)
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want runtime.Value
	}{
		{"(1 + 2) + (3 + 4) + 5", num(15)},
		{"2 * 3 ^ 2", num(18)},
		{"10 % 3", num(1)},
		{"-5 + 1", num(-4)},
		{"7 / 2", num(3.5)},
		{"2 ^ 10", num(1024)},
		{`"a" + "b"`, runtime.String("ab")},
		{`"n = " + 4`, runtime.String("n = 4")},
		{`1 + " um"`, runtime.String("1 um")},
		{"não verdadeiro", runtime.Boolean(false)},
		{"não 0", runtime.Boolean(true)},
		{"1 é 1", runtime.Boolean(true)},
		{`1 é "1"`, runtime.Boolean(false)},
		{"1 não é 2", runtime.Boolean(true)},
		{`[1,2] é [1,2]`, runtime.Boolean(true)},
		{`[1,2] tem 2`, runtime.Boolean(true)},
		{`[1,2] não tem 3`, runtime.Boolean(true)},
		{`{ "a": 1 } tem "a"`, runtime.Boolean(true)},
		{`{ "a": 1 } não tem "b"`, runtime.Boolean(true)},
		{`"abc" < "abd"`, runtime.Boolean(true)},
		{"2 >= 2", runtime.Boolean(true)},
		{"(se verdadeiro então 1 senão 2)", num(1)},
		{"(se 0 então 1 senão 2)", num(2)},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			v, _ := runtest.Eval(t, c.src)
			assert.True(t, runtime.Equal(c.want, v), "want %s, got %s", c.want, v)
		})
	}
}

func TestTypeErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind runtime.ErrKind
	}{
		{`1 - "a"`, runtime.TypeMismatch},
		{`[1] * 2`, runtime.TypeMismatch},
		{`1 < "a"`, runtime.TypeMismatch},
		{`-"a"`, runtime.UnexpectedType},
		{`verdadeiro()`, runtime.UnexpectedType},
		{`1.5 até 3`, runtime.InvalidRangeBounds},
		{`1 até infinito`, runtime.InvalidRangeBounds},
		{`1 tem 2`, runtime.TypeMismatch},
		{`Nada + Nada`, runtime.TypeMismatch},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e := runtest.EvalErr(t, c.src)
			assert.Equal(t, c.kind, e.Kind)
		})
	}
}

func TestIndexing(t *testing.T) {
	v, _ := runtest.Eval(t, `[10, 20, 30][1]`)
	assert.Equal(t, num(20), v)

	v, _ = runtest.Eval(t, `"texto"[1]`)
	assert.Equal(t, runtime.String("e"), v)

	v, _ = runtest.Eval(t, `{ "a": 1, 2: "b" }[2]`)
	assert.Equal(t, runtime.String("b"), v)

	v, _ = runtest.Eval(t, "seja m = { \"a\": { \"b\": 7 } }\nm.a.b")
	assert.Equal(t, num(7), v)
}

func TestIndexingErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind runtime.ErrKind
	}{
		{`[1][1]`, runtime.IndexOutOfBounds},
		{`[1][-1]`, runtime.InvalidIndex},
		{`[1][0.5]`, runtime.InvalidIndex},
		{`[1]["a"]`, runtime.UnexpectedType},
		{`"ab"[5]`, runtime.IndexOutOfBounds},
		{`{ "a": 1 }["b"]`, runtime.AssociativeArrayKeyNotFound},
		{`{ "a": 1 }[1.5]`, runtime.InvalidAssociativeArrayKey},
		{`5[0]`, runtime.WrongIndexType},
		{`seja s = "abc"
s[0] = "z"`, runtime.ImmutableString},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e := runtest.EvalErr(t, c.src)
			assert.Equal(t, c.kind, e.Kind)
		})
	}
}

func TestAssignmentToContainers(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja m = { "a": 1 }
m["b"] = 2
m["a"] = 10
seja soma = m["a"] + m["b"]
`)
	assert.Equal(t, num(12), runtest.Global(t, rt, "soma"))
}

func TestScopeShadowing(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja x = 1
se verdadeiro então
  seja x = 2
  x = 3
fim
`)
	// the inner declaration shadows; the outer binding is untouched
	assert.Equal(t, num(1), runtest.Global(t, rt, "x"))
}

func TestAlreadyDeclaredInSameScope(t *testing.T) {
	e := runtest.EvalErr(t, "seja x = 1\nseja x = 2")
	assert.Equal(t, runtime.AlreadyDeclared, e.Kind)
}

func TestUndefinedReference(t *testing.T) {
	e := runtest.EvalErr(t, "desconhecida + 1")
	assert.Equal(t, runtime.UndefinedReference, e.Kind)
	assert.NotEmpty(t, e.Help)
}

func TestAssignToUndefined(t *testing.T) {
	e := runtest.EvalErr(t, "inexistente = 1")
	assert.Equal(t, runtime.UndefinedReference, e.Kind)
}

func TestWrongNumberOfArguments(t *testing.T) {
	e := runtest.EvalErr(t, "função f(a, b)\n  retorna a\nfim\nf(1)")
	assert.Equal(t, runtime.WrongNumberOfArguments, e.Kind)
}

func TestReturnUnwindsToCallBoundaryOnly(t *testing.T) {
	_, rt := runtest.Eval(t, `
função f()
  se verdadeiro então
    se verdadeiro então
      retorna 1
    fim
  fim
  retorna 2
fim
seja r = f()
seja depois = 10
`)
	assert.Equal(t, num(1), runtest.Global(t, rt, "r"))
	assert.Equal(t, num(10), runtest.Global(t, rt, "depois"), "execution continues after the call")
}

func TestReturnInsideLoop(t *testing.T) {
	_, rt := runtest.Eval(t, `
função primeiro_par(xs)
  para cada x em xs faça
    se x % 2 é 0 então
      retorna x
    fim
  fim
  retorna Nada
fim
seja r = primeiro_par([3, 5, 8, 9])
`)
	assert.Equal(t, num(8), runtest.Global(t, rt, "r"))
}

func TestContinueSkipsIteration(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja s = 0
para cada i em 1 até 5 faça
  se i % 2 é 0 então
    continua
  fim
  s = s + i
fim
`)
	assert.Equal(t, num(9), runtest.Global(t, rt, "s")) // 1 + 3 + 5
}

func TestWhileLoop(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja i = 0
enquanto i < 10 faça
  i = i + 1
fim
`)
	assert.Equal(t, num(10), runtest.Global(t, rt, "i"))
}

func TestEmptyRangeIteratesNothing(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja n = 0
para cada i em 5 até 1 faça
  n = n + 1
fim
`)
	assert.Equal(t, num(0), runtest.Global(t, rt, "n"))
}

func TestNotIterable(t *testing.T) {
	e := runtest.EvalErr(t, "para cada i em 1.5 faça i fim")
	assert.Equal(t, runtime.NotIterable, e.Kind)
}

func TestMutationDuringIterationUsesSnapshot(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja xs = [1, 2, 3]
seja n = 0
para cada x em xs faça
  Lista.insira(xs, x)
  n = n + 1
fim
seja tamanho = Lista.tamanho(xs)
`)
	assert.Equal(t, num(3), runtest.Global(t, rt, "n"), "iterates the snapshot taken at loop entry")
	assert.Equal(t, num(6), runtest.Global(t, rt, "tamanho"))
}

func TestClosureMutationVisibility(t *testing.T) {
	_, rt := runtest.Eval(t, `
seja x = 0
seja incrementa() = faça x = x + 1 fim
seja lê() = faça retorna x fim
incrementa()
incrementa()
seja r = lê()
`)
	assert.Equal(t, num(2), runtest.Global(t, rt, "r"))
}

func TestCounterClosures(t *testing.T) {
	_, rt := runtest.Eval(t, `
função cria_contador()
  seja n = 0
  função incrementa()
    n = n + 1
    retorna n
  fim
  retorna incrementa
fim
seja c1 = cria_contador()
seja c2 = cria_contador()
c1()
c1()
seja a = c1()
seja b = c2()
`)
	assert.Equal(t, num(3), runtest.Global(t, rt, "a"))
	assert.Equal(t, num(1), runtest.Global(t, rt, "b"), "each call gets fresh captured state")
}

func TestFunctionEqualityByIdentity(t *testing.T) {
	v, _ := runtest.Eval(t, `
seja f = função() -> 1
seja g = função() -> 1
seja mesmo = f é f
seja distinto = f é g
mesmo e não distinto
`)
	assert.Equal(t, runtime.Boolean(true), v)
}

func TestStackTraceOnError(t *testing.T) {
	e := runtest.EvalErr(t, `
função interna()
  retorna 1 / 0
fim
função externa()
  retorna interna()
fim
externa()
`)
	assert.Equal(t, runtime.DivisionByZero, e.Kind)
	require.Len(t, e.Stack, 2)
	assert.Equal(t, "interna", e.Stack[0].Function)
	assert.Equal(t, "externa", e.Stack[1].Function)
}

func TestErrorSpanIsSet(t *testing.T) {
	e := runtest.EvalErr(t, "seja x = 1\n1 / 0")
	assert.True(t, e.Span.IsValid())
}

func TestLastStatementValueIsResult(t *testing.T) {
	v, _ := runtest.Eval(t, "seja x = 41\nx + 1")
	assert.Equal(t, num(42), v)
}

func TestEvaluationDeterminism(t *testing.T) {
	src := `
seja acc = []
para cada i em 1 até 4 faça
  Lista.insira(acc, i * i)
fim
acc
`
	a, _ := runtest.Eval(t, src)
	b, _ := runtest.Eval(t, src)
	assert.True(t, runtime.Equal(a, b))
	assert.Equal(t, "[1, 4, 9, 16]", a.String())
}

func TestDateArithmetic(t *testing.T) {
	v, _ := runtest.Eval(t, `
seja agora = Data.agora()
seja depois = agora + 1000
depois > agora
`)
	assert.Equal(t, runtime.Boolean(true), v)

	v, _ = runtest.Eval(t, `
seja agora = Data.agora()
(agora + 1000) - 1000 é agora
`)
	assert.Equal(t, runtime.Boolean(true), v)
}
