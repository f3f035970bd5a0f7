package maincmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gabrielbrunop/tenda/lang/parser"
	"github.com/gabrielbrunop/tenda/lang/platform"
	"github.com/gabrielbrunop/tenda/lang/prelude"
	"github.com/gabrielbrunop/tenda/lang/runtime"
	"github.com/gabrielbrunop/tenda/lang/token"
	"github.com/mna/mainer"
)

// Run implements the run command: it parses and evaluates the source
// files in order, against a shared global frame.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var loc *time.Location
	if c.Config.Timezone != "" {
		l, err := time.LoadLocation(c.Config.Timezone)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "fuso horário inválido: %s\n", c.Config.Timezone)
			return err
		}
		loc = l
	}

	p := &platform.OS{Loc: loc, Out: stdio.Stdout, In: stdio.Stdin}
	return RunFiles(ctx, stdio, p, args...)
}

// RunFiles parses and evaluates the source files against the given
// platform.
func RunFiles(ctx context.Context, stdio mainer.Stdio, p platform.Platform, files ...string) error {
	ss := token.NewSourceSet()
	chunks, err := parser.ParseFiles(ctx, ss, files...)
	if err != nil {
		printPhaseError(stdio, err)
		return err
	}

	rt := runtime.New(p)
	prelude.Install(rt)

	for _, ch := range chunks {
		if _, err := rt.Eval(ch); err != nil {
			printRuntimeError(stdio, ss, err)
			return err
		}
	}
	return nil
}

// printRuntimeError renders a runtime error with its position, optional
// help and stack trace, innermost call first.
func printRuntimeError(stdio mainer.Stdio, ss *token.SourceSet, err error) {
	e, ok := err.(*runtime.Error)
	if !ok {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return
	}

	fmt.Fprintf(stdio.Stderr, "%s: erro: %s\n", ss.Position(e.Span), e.Msg)
	if e.Help != "" {
		fmt.Fprintf(stdio.Stderr, "  ajuda: %s\n", e.Help)
	}
	for _, fr := range e.Stack {
		name := fr.Function
		if name == "" {
			name = "<função anônima>"
		}
		fmt.Fprintf(stdio.Stderr, "  em %s (%s)\n", name, ss.Position(fr.Span))
	}
}
