package runtime

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumberDisplay(t *testing.T) {
	assert.Equal(t, "1", Number(1).String())
	assert.Equal(t, "1.5", Number(1.5).String())
	assert.Equal(t, "-0.25", Number(-0.25).String())
	assert.Equal(t, "infinito", Number(math.Inf(1)).String())
	assert.Equal(t, "-infinito", Number(math.Inf(-1)).String())
	assert.Equal(t, "NaN", Number(math.NaN()).String())
}

func TestStringDisplay(t *testing.T) {
	assert.Equal(t, `"olá"`, String("olá").String())
	assert.Equal(t, `"a\nb"`, String("a\nb").String())
	assert.Equal(t, `"aspas \""`, String(`aspas "`).String())
	assert.Equal(t, "olá", DisplayRaw(String("olá")))
}

func TestContainerDisplay(t *testing.T) {
	l := NewList([]Value{Number(1), String("a"), Nil})
	assert.Equal(t, `[1, "a", Nada]`, l.String())

	m := NewAssocArray(2)
	m.Set(StringKey("a"), Number(1))
	m.Set(NumberKey(2), String("b"))
	assert.Equal(t, `{ "a": 1, 2: "b" }`, m.String())

	assert.Equal(t, "{  }", NewAssocArray(0).String())
	assert.Equal(t, "1 até 3", Range{From: 1, To: 3}.String())
	assert.Equal(t, "Nada", Nil.String())
}

func TestCyclicListDisplayTerminates(t *testing.T) {
	l := NewList([]Value{Number(1)})
	l.Elems = append(l.Elems, l)
	assert.Equal(t, "[1, [...]]", l.String())
}

func TestTruthiness(t *testing.T) {
	assert.False(t, Number(0).Truth())
	assert.True(t, Number(0.1).Truth())
	assert.False(t, Nil.Truth())
	assert.True(t, Boolean(true).Truth())
	assert.False(t, Boolean(false).Truth())
	assert.True(t, String("").Truth())
	assert.True(t, NewList(nil).Truth())
}

func TestEquality(t *testing.T) {
	assert.True(t, Equal(Number(1), Number(1)))
	assert.False(t, Equal(Number(1), String("1")))
	assert.True(t, Equal(Nil, Nil))
	assert.True(t, Equal(
		NewList([]Value{Number(1), NewList([]Value{Number(2)})}),
		NewList([]Value{Number(1), NewList([]Value{Number(2)})}),
	))
	assert.True(t, Equal(Range{1, 5}, Range{1, 5}))
	assert.False(t, Equal(Range{1, 5}, Range{1, 6}))

	a := NewAssocArray(2)
	a.Set(StringKey("x"), Number(1))
	a.Set(StringKey("y"), Number(2))
	b := NewAssocArray(2)
	b.Set(StringKey("y"), Number(2))
	b.Set(StringKey("x"), Number(1))
	assert.True(t, Equal(a, b), "order does not affect equality")

	f := NewNative("f", nil, nil)
	g := NewNative("f", nil, nil)
	assert.True(t, Equal(f, f))
	assert.False(t, Equal(f, g))
}

func TestAssocArrayOrderAndOps(t *testing.T) {
	m := NewAssocArray(0)
	m.Set(StringKey("b"), Number(1))
	m.Set(NumberKey(1), Number(2))
	m.Set(StringKey("a"), Number(3))
	m.Set(StringKey("b"), Number(10)) // update keeps position

	var order []string
	m.Entries(func(k Key, v Value) bool {
		order = append(order, k.String())
		return true
	})
	assert.Equal(t, []string{"b", "1", "a"}, order)
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get(StringKey("b"))
	assert.True(t, ok)
	assert.Equal(t, Number(10), v)

	assert.True(t, m.Delete(NumberKey(1)))
	assert.False(t, m.Delete(NumberKey(1)))
	assert.Equal(t, 2, m.Len())
	v, ok = m.Get(StringKey("a"))
	assert.True(t, ok)
	assert.Equal(t, Number(3), v)

	// string and number keys are distinct
	m.Set(StringKey("1"), Number(7))
	assert.False(t, m.Has(NumberKey(1)))
	assert.True(t, m.Has(StringKey("1")))
}

func TestValueCells(t *testing.T) {
	owned := NewCell(Number(1))
	assert.False(t, owned.IsShared())
	assert.Equal(t, Number(1), owned.Value())

	shared := NewSharedCell(Number(1))
	alias := shared
	env := NewEnvironment()
	env.Define("x", shared)
	env.Set("x", NewCell(Number(2)))
	assert.Equal(t, Number(2), alias.Value(), "assignments are visible through every shared cell")
}

func TestEnvironmentSetSemantics(t *testing.T) {
	env := NewEnvironment()
	env.Set("a", NewCell(Number(1)))
	env.Set("a", NewCell(Number(2))) // owned: replaced
	c, _ := env.Get("a")
	assert.Equal(t, Number(2), c.Value())

	sh := NewSharedCell(Number(3))
	env.Define("b", sh)
	env.Set("b", NewCell(Number(4))) // shared: written through
	assert.Equal(t, Number(4), sh.Value())

	// Define replaces without writing through
	env.Define("b", NewCell(Number(5)))
	assert.Equal(t, Number(4), sh.Value())
	c, _ = env.Get("b")
	assert.Equal(t, Number(5), c.Value())
}

func TestDateDisplayAndArithmetic(t *testing.T) {
	d := NewDate(time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-05-17T12:00:00Z", d.String())

	shifted := d.AddMillis(1500)
	assert.True(t, d.Before(shifted))
	assert.Equal(t, d.Millis+1500, shifted.Millis)

	parsed, err := ParseISODate("2024-05-17T12:00:00Z")
	assert.NoError(t, err)
	assert.True(t, Equal(d, parsed))

	_, err = ParseISODate("não é uma data")
	assert.Error(t, err)

	zoned := NewDate(time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("", -3*3600)))
	assert.Equal(t, "2024-01-02T03:04:05-03:00", zoned.String())
}
