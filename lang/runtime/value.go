// Package runtime implements the tree-walking evaluator: the runtime value
// model, the environment stack with owned and shared value cells, and the
// visitor that interprets an annotated AST.
package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gabrielbrunop/tenda/lang/token"
)

// Kind identifies the runtime type of a Value.
type Kind int8

// List of value kinds.
const (
	KindNumber Kind = iota
	KindBoolean
	KindString
	KindFunction
	KindRange
	KindList
	KindAssocArray
	KindDate
	KindNil
)

var kindNames = [...]string{
	KindNumber:     "número",
	KindBoolean:    "lógico",
	KindString:     "texto",
	KindFunction:   "função",
	KindRange:      "intervalo",
	KindList:       "lista",
	KindAssocArray: "dicionário",
	KindDate:       "data",
	KindNil:        "Nada",
}

func (k Kind) String() string { return kindNames[k] }

// Value is the runtime representation of any value of the language. Lists
// and associative arrays are shared mutable (held by pointer); every other
// kind is copied by value.
type Value interface {
	// Kind reports the runtime type of the value.
	Kind() Kind

	// String returns the display form of the value. Strings display quoted
	// with their escape sequences restored to source form.
	String() string

	// Truth converts the value to a boolean: falso, nil and numeric zero
	// are false, everything else is true.
	Truth() bool
}

type (
	// Number is a 64-bit IEEE-754 number.
	Number float64

	// Boolean is a boolean value.
	Boolean bool

	// String is an immutable UTF-8 string.
	String string

	// Range is an inclusive integer interval iterated in ascending order
	// (empty if From > To).
	Range struct {
		From, To int64
	}

	// List is a shared mutable ordered sequence of values.
	List struct {
		Elems []Value
	}

	// nilValue is the single nil value.
	nilValue struct{}
)

// Nil is the nil value.
var Nil Value = nilValue{}

func (v Number) Kind() Kind { return KindNumber }
func (v Number) String() string {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return token.PositiveInfinityName
	case math.IsInf(f, -1):
		return token.NegativeInfinityName
	case math.IsNaN(f):
		return token.NaNName
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
func (v Number) Truth() bool { return float64(v) != 0 }

func (v Boolean) Kind() Kind { return KindBoolean }
func (v Boolean) String() string {
	if v {
		return "verdadeiro"
	}
	return "falso"
}
func (v Boolean) Truth() bool { return bool(v) }

func (v String) Kind() Kind     { return KindString }
func (v String) String() string { return `"` + EscapeSpecialChars(string(v)) + `"` }
func (v String) Truth() bool    { return true }

func (v Range) Kind() Kind { return KindRange }
func (v Range) String() string {
	return fmt.Sprintf("%d até %d", v.From, v.To)
}
func (v Range) Truth() bool { return true }

// NewList returns a list value holding the given elements.
func NewList(elems []Value) *List { return &List{Elems: elems} }

func (v *List) Kind() Kind { return KindList }
func (v *List) String() string {
	if inFlight[v] {
		return "[...]"
	}
	inFlight[v] = true
	defer delete(inFlight, v)

	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range v.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
func (v *List) Truth() bool { return true }

func (nilValue) Kind() Kind     { return KindNil }
func (nilValue) String() string { return "Nada" }
func (nilValue) Truth() bool    { return false }

// inFlight tracks the containers being displayed, guarding against
// infinite recursion through reference cycles. Evaluation is strictly
// single-threaded so a plain map suffices.
var inFlight = make(map[Value]bool)

// DisplayRaw returns the display form of v, except that a top-level string
// displays its raw content without quotes. This is the form used by string
// concatenation and by the print built-in.
func DisplayRaw(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.String()
}

// Equal reports structural equality of two values. Functions compare by
// identity; cross-kind comparisons are always unequal, never an error.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Number:
		return a == b.(Number)
	case Boolean:
		return a == b.(Boolean)
	case String:
		return a == b.(String)
	case Range:
		return a == b.(Range)
	case Date:
		return a == b.(Date)
	case nilValue:
		return true
	case *Function:
		return a.id == b.(*Function).id
	case *List:
		bl := b.(*List)
		if len(a.Elems) != len(bl.Elems) {
			return false
		}
		for i, e := range a.Elems {
			if !Equal(e, bl.Elems[i]) {
				return false
			}
		}
		return true
	case *AssocArray:
		return a.equal(b.(*AssocArray))
	}
	return false
}

// EscapeSpecialChars restores the escape sequences of s to their source
// form.
func EscapeSpecialChars(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, c := range s {
		switch c {
		case 0:
			sb.WriteString(`\0`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		case 0x1b:
			sb.WriteString(`\e`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\'':
			sb.WriteString(`\'`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\x%02X`, c)
				break
			}
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
