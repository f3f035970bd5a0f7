package parser

import (
	"fmt"
	"sort"

	"github.com/gabrielbrunop/tenda/lang/token"
)

// ErrKind identifies the kind of a parse error.
type ErrKind int8

// List of parse error kinds.
const (
	UnexpectedEOI ErrKind = iota
	UnexpectedToken
	MissingParen
	MissingBracket
	MissingBrace
	MissingColon
	InvalidAssignmentTarget
	IllegalReturn
	IllegalBreak
	IllegalContinue
	DuplicateParameter
	InvalidChaining
)

// Error is a parse error: a kind, the offending span and a readable
// message.
type Error struct {
	Kind ErrKind
	Span token.Span
	Pos  token.Position
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos.Filename != "" || e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrorList is a list of *Error. The zero value is ready to use.
type ErrorList []*Error

// Add appends an error to the list.
func (l *ErrorList) Add(kind ErrKind, span token.Span, pos token.Position, msg string) {
	*l = append(*l, &Error{Kind: kind, Span: span, Pos: pos, Msg: msg})
}

// Sort orders the list by source, then offset.
func (l ErrorList) Sort() {
	sort.Slice(l, func(i, j int) bool {
		if l[i].Span.Source != l[j].Span.Source {
			return l[i].Span.Source < l[j].Span.Source
		}
		return l[i].Span.Start < l[j].Span.Start
	})
}

// Err returns an error equivalent to the list, or nil if it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Error implements the error interface.
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Unwrap returns the individual errors of the list.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
