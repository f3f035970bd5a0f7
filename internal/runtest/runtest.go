// Package runtest provides the helpers shared by package tests: scanning,
// parsing and evaluating inline sources, and comparing multi-line output.
package runtest

import (
	"context"
	"testing"
	"time"

	"github.com/kylelemons/godebug/diff"

	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/parser"
	"github.com/gabrielbrunop/tenda/lang/platform"
	"github.com/gabrielbrunop/tenda/lang/prelude"
	"github.com/gabrielbrunop/tenda/lang/runtime"
	"github.com/gabrielbrunop/tenda/lang/token"
)

// FakeTime is the fixed clock of the test platform.
var FakeTime = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

// Parse parses src (including the closure annotation pass), failing the
// test on errors.
func Parse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	ch, err := parser.ParseChunk(context.Background(), token.NewSourceSet(), "test.tnd", []byte(src))
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	return ch
}

// ParseErr parses src and returns its parse errors, failing the test if it
// parses cleanly.
func ParseErr(t *testing.T, src string) parser.ErrorList {
	t.Helper()
	_, err := parser.ParseChunk(context.Background(), token.NewSourceSet(), "test.tnd", []byte(src))
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	el, ok := err.(parser.ErrorList)
	if !ok {
		t.Fatalf("expected a parser.ErrorList, got %T: %s", err, err)
	}
	return el
}

// NewRuntime returns a runtime over a fake platform with the prelude
// installed, along with the platform.
func NewRuntime() (*runtime.Runtime, *platform.Fake) {
	p := &platform.Fake{Time: FakeTime}
	rt := runtime.New(p)
	prelude.Install(rt)
	return rt, p
}

// Eval parses and evaluates src, returning the value of the last top-level
// statement and the runtime (so globals can be inspected). It fails the
// test on any error.
func Eval(t *testing.T, src string) (runtime.Value, *runtime.Runtime) {
	t.Helper()
	ch := Parse(t, src)
	rt, _ := NewRuntime()
	v, err := rt.Eval(ch)
	if err != nil {
		t.Fatalf("eval error: %s", err)
	}
	return v, rt
}

// EvalErr parses and evaluates src, returning the runtime error it must
// produce.
func EvalErr(t *testing.T, src string) *runtime.Error {
	t.Helper()
	ch := Parse(t, src)
	rt, _ := NewRuntime()
	if _, err := rt.Eval(ch); err != nil {
		e, ok := err.(*runtime.Error)
		if !ok {
			t.Fatalf("expected a *runtime.Error, got %T: %s", err, err)
		}
		return e
	}
	t.Fatalf("expected a runtime error")
	return nil
}

// Global returns the value of a global binding.
func Global(t *testing.T, rt *runtime.Runtime, name string) runtime.Value {
	t.Helper()
	c, ok := rt.GlobalEnv().Get(name)
	if !ok {
		t.Fatalf("global %q is not defined", name)
	}
	return c.Value()
}

// DiffOutput fails the test with a line diff when got differs from want.
func DiffOutput(t *testing.T, want, got string) {
	t.Helper()
	if patch := diff.Diff(want, got); patch != "" {
		t.Errorf("output differs:\n%s", patch)
	}
}
