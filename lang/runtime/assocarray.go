package runtime

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
)

// Key is an associative array key, either an integer or a string.
type Key struct {
	Str   string
	Num   int64
	IsNum bool
}

// StringKey returns a string key.
func StringKey(s string) Key { return Key{Str: s} }

// NumberKey returns an integer key.
func NumberKey(n int64) Key { return Key{Num: n, IsNum: true} }

func (k Key) String() string {
	if k.IsNum {
		return fmt.Sprintf("%d", k.Num)
	}
	return k.Str
}

// display returns the key as written in a literal: strings quoted, numbers
// bare.
func (k Key) display() string {
	if k.IsNum {
		return fmt.Sprintf("%d", k.Num)
	}
	return `"` + EscapeSpecialChars(k.Str) + `"`
}

// AssocArray is a shared mutable insertion-ordered mapping from keys to
// values. The entry order is kept in a slice; lookups go through a swiss
// table index.
type AssocArray struct {
	keys  []Key
	vals  []Value
	index *swiss.Map[Key, int]
}

// NewAssocArray returns an associative array with capacity for at least
// size entries.
func NewAssocArray(size int) *AssocArray {
	if size < 1 {
		size = 1
	}
	return &AssocArray{index: swiss.NewMap[Key, int](uint32(size))}
}

func (a *AssocArray) Kind() Kind { return KindAssocArray }
func (a *AssocArray) String() string {
	if len(a.keys) == 0 {
		return "{  }"
	}
	if inFlight[a] {
		return "{...}"
	}
	inFlight[a] = true
	defer delete(inFlight, a)

	var sb strings.Builder
	sb.WriteString("{ ")
	for i, k := range a.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.display())
		sb.WriteString(": ")
		sb.WriteString(a.vals[i].String())
	}
	sb.WriteString(" }")
	return sb.String()
}
func (a *AssocArray) Truth() bool { return true }

// Len returns the number of entries.
func (a *AssocArray) Len() int { return len(a.keys) }

// Get returns the value stored under k.
func (a *AssocArray) Get(k Key) (Value, bool) {
	i, ok := a.index.Get(k)
	if !ok {
		return nil, false
	}
	return a.vals[i], true
}

// Has reports whether k is present.
func (a *AssocArray) Has(k Key) bool {
	_, ok := a.index.Get(k)
	return ok
}

// Set inserts or updates the entry for k. Insertion order is preserved on
// update.
func (a *AssocArray) Set(k Key, v Value) {
	if i, ok := a.index.Get(k); ok {
		a.vals[i] = v
		return
	}
	a.index.Put(k, len(a.keys))
	a.keys = append(a.keys, k)
	a.vals = append(a.vals, v)
}

// Delete removes the entry for k, preserving the order of the remaining
// entries. It reports whether the key was present.
func (a *AssocArray) Delete(k Key) bool {
	i, ok := a.index.Get(k)
	if !ok {
		return false
	}
	a.keys = append(a.keys[:i], a.keys[i+1:]...)
	a.vals = append(a.vals[:i], a.vals[i+1:]...)
	a.index.Delete(k)
	for j := i; j < len(a.keys); j++ {
		a.index.Put(a.keys[j], j)
	}
	return true
}

// Entries calls fn for each entry in insertion order until fn returns
// false.
func (a *AssocArray) Entries(fn func(k Key, v Value) bool) {
	for i, k := range a.keys {
		if !fn(k, a.vals[i]) {
			return
		}
	}
}

// equal reports structural equality regardless of insertion order.
func (a *AssocArray) equal(b *AssocArray) bool {
	if len(a.keys) != len(b.keys) {
		return false
	}
	for i, k := range a.keys {
		bv, ok := b.Get(k)
		if !ok || !Equal(a.vals[i], bv) {
			return false
		}
	}
	return true
}
