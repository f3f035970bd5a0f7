package runtime

import (
	"fmt"

	"github.com/gabrielbrunop/tenda/lang/token"
)

// ErrKind identifies the kind of a runtime error.
type ErrKind int8

// List of runtime error kinds.
const (
	DivisionByZero ErrKind = iota
	TypeMismatch
	UnexpectedType
	UndefinedReference
	AlreadyDeclared
	WrongNumberOfArguments
	IndexOutOfBounds
	WrongIndexType
	InvalidRangeBounds
	InvalidIndex
	InvalidAssociativeArrayKey
	AssociativeArrayKeyNotFound
	NotIterable
	InvalidArgument
	ImmutableString
	InvalidTimestamp
	DateISOParseError
	InvalidTimeZone
	InvalidValueForConversion
)

// NoSpan is the zero span, used by built-ins that have no source location
// of their own; the evaluator fills in the current statement span during
// propagation.
var NoSpan = token.Span{}

// A StackFrame is one entry of a runtime error's stack trace: the called
// function's name (empty for anonymous functions) and the call-site span.
type StackFrame struct {
	Function string
	Span     token.Span
}

// Error is a structured runtime error: a kind, the primary span, a
// human-readable message, optional help text and the stack trace of call
// sites ordered from innermost to outermost.
type Error struct {
	Kind  ErrKind
	Span  token.Span
	Msg   string
	Help  string
	Stack []StackFrame
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Msg }

// NewError returns a runtime error with the given kind, span and message.
// The span may be zero, in which case the error receives the span of the
// current statement during propagation.
func NewError(kind ErrKind, span token.Span, msg string) *Error {
	return &Error{Kind: kind, Span: span, Msg: msg}
}

// NewErrorf is NewError with a formatted message.
func NewErrorf(kind ErrKind, span token.Span, format string, args ...any) *Error {
	return NewError(kind, span, fmt.Sprintf(format, args...))
}

func newError(kind ErrKind, span token.Span, msg string) *Error {
	return NewError(kind, span, msg)
}

func newErrorf(kind ErrKind, span token.Span, format string, args ...any) *Error {
	return newError(kind, span, fmt.Sprintf(format, args...))
}

func (e *Error) withHelp(help string) *Error {
	e.Help = help
	return e
}
