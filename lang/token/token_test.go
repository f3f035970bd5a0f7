package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKw(t *testing.T) {
	assert.Equal(t, LET, LookupKw("seja"))
	assert.Equal(t, FOR, LookupKw("para"))
	assert.Equal(t, TRUE, LookupKw("verdadeiro"))
	assert.Equal(t, NIL, LookupKw("Nada"))
	assert.Equal(t, IDENT, LookupKw("nada")) // case-sensitive
	assert.Equal(t, IDENT, LookupKw("x"))
	assert.Equal(t, IDENT, LookupKw("função_")) // not the keyword
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "'+'", PLUS.GoString())
	assert.Equal(t, "'='", EQ.GoString())
	assert.Equal(t, "seja", LET.GoString())
	assert.Equal(t, "EOF", EOF.GoString())
}

func TestPredicates(t *testing.T) {
	assert.True(t, NUMBER.IsLiteral())
	assert.True(t, NIL.IsLiteral())
	assert.False(t, IDENT.IsLiteral())

	assert.True(t, LT.IsComparison())
	assert.True(t, GE.IsComparison())
	assert.False(t, EQ.IsComparison())

	assert.True(t, IS.IsEquality())
	assert.True(t, NOTHAS.IsEquality())
	assert.False(t, LT.IsEquality())
}

func TestSpanExtend(t *testing.T) {
	a := Span{Start: 2, End: 5, Source: 1}
	b := Span{Start: 8, End: 12, Source: 1}
	assert.Equal(t, Span{Start: 2, End: 12, Source: 1}, a.Extend(b))
	assert.Equal(t, Span{Start: 2, End: 12, Source: 1}, b.Extend(a))

	var zero Span
	assert.Equal(t, a, zero.Extend(a))
	assert.Equal(t, a, a.Extend(zero))
}

func TestSourceSetPositions(t *testing.T) {
	ss := NewSourceSet()
	src := []byte("seja x = 1\nseja y = 2\n")
	s := ss.Add("main.tnd", src)

	require.NotZero(t, s.ID)
	assert.Equal(t, len(src), s.Size())

	pos := s.Position(0)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 1, pos.Column)

	pos = s.Position(11) // first byte of second line
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 1, pos.Column)

	pos = s.Position(16) // 'y'
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 6, pos.Column)

	// same name, distinct identity
	s2 := ss.Add("main.tnd", src)
	assert.NotEqual(t, s.ID, s2.ID)
	assert.Same(t, s, ss.Source(s.ID))
}

func TestNextUIDMonotonic(t *testing.T) {
	a, b, c := NextUID(), NextUID(), NextUID()
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}
