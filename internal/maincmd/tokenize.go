package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gabrielbrunop/tenda/lang/scanner"
	"github.com/gabrielbrunop/tenda/lang/token"
	"github.com/mna/mainer"
)

// Tokenize implements the tokenize command.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles tokenizes the source files and prints the tokens, one per
// line, with their byte spans.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	ss := token.NewSourceSet()

	var firstErr error
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		source := ss.Add(file, b)
		toks, err := scanner.Scan(source, b)
		for _, tok := range toks {
			sp := tok.Span()
			fmt.Fprintf(stdio.Stdout, "%s:%d:%d: %s", file, sp.Start, sp.End, tok.Kind)
			if lit := tok.Kind.Literal(tok.Value); lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			scanner.PrintError(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
