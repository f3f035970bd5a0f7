package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/parser"
	"github.com/gabrielbrunop/tenda/lang/token"
	"github.com/mna/mainer"
)

// Annotate implements the annotate command: it parses the files (which
// runs the closure annotator) and prints the capture information of every
// declaration and function.
func (c *Cmd) Annotate(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return AnnotateFiles(ctx, stdio, args...)
}

// AnnotateFiles parses the source files and prints, for each function, its
// free variables, and for each captured binding site, its name and span.
func AnnotateFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	ss := token.NewSourceSet()
	chunks, err := parser.ParseFiles(ctx, ss, files...)
	for _, ch := range chunks {
		fmt.Fprintf(stdio.Stdout, "%s:\n", ch.Name)
		printCaptures(stdio, ch)
	}
	if err != nil {
		printPhaseError(stdio, err)
	}
	return err
}

func printCaptures(stdio mainer.Stdio, ch *ast.Chunk) {
	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitExit {
			return nil
		}
		switch n := n.(type) {
		case *ast.FunctionDecl:
			fmt.Fprintf(stdio.Stdout, "  função %s livres=[%s] capturada=%t\n",
				n.Name, strings.Join(n.FreeVars, ", "), n.Captured)
			for _, p := range n.Params {
				if p.Captured {
					fmt.Fprintf(stdio.Stdout, "    parâmetro capturado: %s [%d:%d]\n",
						p.Name, p.Range.Start, p.Range.End)
				}
			}
		case *ast.FuncExpr:
			fmt.Fprintf(stdio.Stdout, "  função anônima [%d:%d] livres=[%s]\n",
				n.Range.Start, n.Range.End, strings.Join(n.FreeVars, ", "))
		case *ast.LocalDecl:
			if n.Captured {
				fmt.Fprintf(stdio.Stdout, "  variável capturada: %s [%d:%d]\n",
					n.Name, n.NameRange.Start, n.NameRange.End)
			}
		case *ast.ForEach:
			if n.Item.Captured {
				fmt.Fprintf(stdio.Stdout, "  item de repetição capturado: %s [%d:%d]\n",
					n.Item.Name, n.Item.Range.Start, n.Item.Range.End)
			}
		}
		return visit
	}
	ast.Walk(visit, ch)
}
