package maincmd

import (
	"context"
	"fmt"

	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/parser"
	"github.com/gabrielbrunop/tenda/lang/scanner"
	"github.com/gabrielbrunop/tenda/lang/token"
	"github.com/mna/mainer"
)

// Parse implements the parse command.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, "", args...)
}

// ParseFiles parses the source files and prints the resulting ASTs.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, nodeFmt string, files ...string) error {
	printer := ast.Printer{
		Output:    stdio.Stdout,
		Positions: true,
		NodeFmt:   nodeFmt,
	}
	ss := token.NewSourceSet()
	chunks, err := parser.ParseFiles(ctx, ss, files...)
	for _, ch := range chunks {
		if perr := printer.Print(ch); perr != nil {
			fmt.Fprintln(stdio.Stderr, perr)
			return perr
		}
	}
	if err != nil {
		printPhaseError(stdio, err)
	}
	return err
}

// printPhaseError prints scanner or parser error lists, one per line.
func printPhaseError(stdio mainer.Stdio, err error) {
	switch err := err.(type) {
	case parser.ErrorList:
		for _, e := range err {
			fmt.Fprintf(stdio.Stderr, "%s\n", e)
		}
	default:
		scanner.PrintError(stdio.Stderr, err)
	}
}
