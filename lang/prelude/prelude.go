// Package prelude installs the built-in bindings into a runtime's global
// frame: the top-level escreva/exiba/leia functions, the Lista, Texto,
// Matemática and Data modules, and the infinito/NaN constants.
//
// Built-ins follow the evaluator contract: they receive the ordered
// (parameter, value) pairs, the evaluator handle and the captured
// environment. Recoverable failures are reported as associative arrays
// ({"erro": {"tipo": KIND}} on failure, {"valor": V} on success, or a
// plain error object); contract violations raise runtime errors.
package prelude

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gabrielbrunop/tenda/lang/runtime"
)

// Install defines every prelude binding in the runtime's global
// environment.
func Install(rt *runtime.Runtime) {
	env := rt.GlobalEnv()

	env.Set("infinito", runtime.NewCell(runtime.Number(math.Inf(1))))
	env.Set("NaN", runtime.NewCell(runtime.Number(math.NaN())))

	env.Set("exiba", runtime.NewCell(fn("exiba", []string{"texto"},
		func(args []runtime.NamedArg, rt *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
			fmt.Fprintln(rt.Platform().Stdout(), runtime.DisplayRaw(args[0].Value))
			return runtime.Nil, nil
		})))

	env.Set("escreva", runtime.NewCell(fn("escreva", []string{"texto"},
		func(args []runtime.NamedArg, rt *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
			fmt.Fprint(rt.Platform().Stdout(), runtime.DisplayRaw(args[0].Value))
			return runtime.Nil, nil
		})))

	env.Set("leia", runtime.NewCell(fn("leia", []string{"texto"},
		func(args []runtime.NamedArg, rt *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
			fmt.Fprint(rt.Platform().Stdout(), runtime.DisplayRaw(args[0].Value))
			line, err := rt.Platform().ReadLine()
			if err != nil {
				return runtime.String(""), nil
			}
			return runtime.String(line), nil
		})))

	env.Set("Lista", runtime.NewCell(listModule()))
	env.Set("Texto", runtime.NewCell(textModule()))
	env.Set("Matemática", runtime.NewCell(mathModule()))
	env.Set("Data", runtime.NewCell(dateModule()))
}

func fn(name string, params []string, impl runtime.NativeFn) *runtime.Function {
	return runtime.NewNative(name, params, impl)
}

// module builds an associative array of named bindings, in order.
func module(entries ...moduleEntry) *runtime.AssocArray {
	m := runtime.NewAssocArray(len(entries))
	for _, e := range entries {
		m.Set(runtime.StringKey(e.name), e.value)
	}
	return m
}

type moduleEntry struct {
	name  string
	value runtime.Value
}

func entry(name string, v runtime.Value) moduleEntry { return moduleEntry{name: name, value: v} }

func modFn(mod, name string, params []string, impl runtime.NativeFn) moduleEntry {
	return entry(name, fn(mod+"."+name, params, impl))
}

// errObject builds the conventional failure result:
// { "erro": { "tipo": kind } }.
func errObject(kind string) *runtime.AssocArray {
	inner := runtime.NewAssocArray(1)
	inner.Set(runtime.StringKey("tipo"), runtime.String(kind))
	outer := runtime.NewAssocArray(1)
	outer.Set(runtime.StringKey("erro"), inner)
	return outer
}

// valueObject builds the conventional success result: { "valor": v }.
func valueObject(v runtime.Value) *runtime.AssocArray {
	outer := runtime.NewAssocArray(1)
	outer.Set(runtime.StringKey("valor"), v)
	return outer
}

func wantList(arg runtime.NamedArg) (*runtime.List, error) {
	if l, ok := arg.Value.(*runtime.List); ok {
		return l, nil
	}
	return nil, argError(arg, runtime.KindList)
}

func wantString(arg runtime.NamedArg) (runtime.String, error) {
	if s, ok := arg.Value.(runtime.String); ok {
		return s, nil
	}
	return "", argError(arg, runtime.KindString)
}

func wantNumber(arg runtime.NamedArg) (float64, error) {
	if n, ok := arg.Value.(runtime.Number); ok {
		return float64(n), nil
	}
	return 0, argError(arg, runtime.KindNumber)
}

func wantFunction(arg runtime.NamedArg) (*runtime.Function, error) {
	if f, ok := arg.Value.(*runtime.Function); ok {
		return f, nil
	}
	return nil, argError(arg, runtime.KindFunction)
}

func argError(arg runtime.NamedArg, want runtime.Kind) error {
	return runtime.NewErrorf(runtime.UnexpectedType, runtime.NoSpan,
		"esperado valor de tipo '%s' para o parâmetro '%s', encontrado '%s'",
		want, arg.Param.Name, arg.Value.Kind())
}

func listModule() *runtime.AssocArray {
	return module(
		modFn("Lista", "tamanho", []string{"lista"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				l, err := wantList(args[0])
				if err != nil {
					return nil, err
				}
				return runtime.Number(len(l.Elems)), nil
			}),
		modFn("Lista", "insira", []string{"lista", "valor"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				l, err := wantList(args[0])
				if err != nil {
					return nil, err
				}
				l.Elems = append(l.Elems, args[1].Value)
				return l, nil
			}),
		modFn("Lista", "remova_por_índice", []string{"lista", "índice"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				l, err := wantList(args[0])
				if err != nil {
					return nil, err
				}
				n, err := wantNumber(args[1])
				if err != nil {
					return nil, err
				}
				i := int(n)
				if n != math.Trunc(n) || i < 0 || i >= len(l.Elems) {
					return nil, runtime.NewErrorf(runtime.IndexOutOfBounds, runtime.NoSpan,
						"índice fora dos limites: índice %d, tamanho %d", i, len(l.Elems))
				}
				removed := l.Elems[i]
				l.Elems = append(l.Elems[:i], l.Elems[i+1:]...)
				return removed, nil
			}),
		modFn("Lista", "contém", []string{"lista", "valor"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				l, err := wantList(args[0])
				if err != nil {
					return nil, err
				}
				for _, e := range l.Elems {
					if runtime.Equal(e, args[1].Value) {
						return runtime.Boolean(true), nil
					}
				}
				return runtime.Boolean(false), nil
			}),
		modFn("Lista", "inverta", []string{"lista"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				l, err := wantList(args[0])
				if err != nil {
					return nil, err
				}
				for i, j := 0, len(l.Elems)-1; i < j; i, j = i+1, j-1 {
					l.Elems[i], l.Elems[j] = l.Elems[j], l.Elems[i]
				}
				return l, nil
			}),
		modFn("Lista", "transforma", []string{"lista", "função"},
			func(args []runtime.NamedArg, rt *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				l, err := wantList(args[0])
				if err != nil {
					return nil, err
				}
				f, err := wantFunction(args[1])
				if err != nil {
					return nil, err
				}
				mapped := make([]runtime.Value, 0, len(l.Elems))
				for _, e := range l.Elems {
					v, err := rt.CallFunction(f, []runtime.Value{e}, runtime.NoSpan)
					if err != nil {
						return nil, err
					}
					mapped = append(mapped, v)
				}
				return runtime.NewList(mapped), nil
			}),
	)
}

func textModule() *runtime.AssocArray {
	return module(
		modFn("Texto", "tamanho", []string{"texto"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				s, err := wantString(args[0])
				if err != nil {
					return nil, err
				}
				return runtime.Number(len([]rune(string(s)))), nil
			}),
		modFn("Texto", "para_maiúsculas", []string{"texto"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				s, err := wantString(args[0])
				if err != nil {
					return nil, err
				}
				return runtime.String(strings.ToUpper(string(s))), nil
			}),
		modFn("Texto", "para_minúsculas", []string{"texto"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				s, err := wantString(args[0])
				if err != nil {
					return nil, err
				}
				return runtime.String(strings.ToLower(string(s))), nil
			}),
		modFn("Texto", "divida", []string{"texto", "separador"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				s, err := wantString(args[0])
				if err != nil {
					return nil, err
				}
				sep, err := wantString(args[1])
				if err != nil {
					return nil, err
				}
				parts := strings.Split(string(s), string(sep))
				elems := make([]runtime.Value, len(parts))
				for i, p := range parts {
					elems[i] = runtime.String(p)
				}
				return runtime.NewList(elems), nil
			}),
		modFn("Texto", "contém", []string{"texto", "busca"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				s, err := wantString(args[0])
				if err != nil {
					return nil, err
				}
				sub, err := wantString(args[1])
				if err != nil {
					return nil, err
				}
				return runtime.Boolean(strings.Contains(string(s), string(sub))), nil
			}),
		modFn("Texto", "para_número", []string{"texto"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				s, err := wantString(args[0])
				if err != nil {
					return nil, err
				}
				n, perr := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
				if perr != nil {
					return errObject("CONVERSÃO_INVÁLIDA"), nil
				}
				return valueObject(runtime.Number(n)), nil
			}),
	)
}

func mathModule() *runtime.AssocArray {
	num1 := func(name string, f func(float64) float64) moduleEntry {
		return modFn("Matemática", name, []string{"número"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				n, err := wantNumber(args[0])
				if err != nil {
					return nil, err
				}
				return runtime.Number(f(n)), nil
			})
	}
	num2 := func(name string, f func(float64, float64) float64) moduleEntry {
		return modFn("Matemática", name, []string{"x", "y"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				x, err := wantNumber(args[0])
				if err != nil {
					return nil, err
				}
				y, err := wantNumber(args[1])
				if err != nil {
					return nil, err
				}
				return runtime.Number(f(x, y)), nil
			})
	}

	return module(
		entry("pi", runtime.Number(math.Pi)),
		num1("absoluto", math.Abs),
		num1("raiz_quadrada", math.Sqrt),
		num1("piso", math.Floor),
		num1("teto", math.Ceil),
		num1("arredonda", math.Round),
		num1("trunca", math.Trunc),
		num2("máximo", math.Max),
		num2("mínimo", math.Min),
		num2("potência", math.Pow),
	)
}

func dateModule() *runtime.AssocArray {
	return module(
		modFn("Data", "agora", nil,
			func(_ []runtime.NamedArg, rt *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				return runtime.NewDate(rt.Platform().Now()), nil
			}),
		modFn("Data", "de_iso", []string{"texto"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				s, err := wantString(args[0])
				if err != nil {
					return nil, err
				}
				d, perr := runtime.ParseISODate(string(s))
				if perr != nil {
					return errObject("ISO_INVÁLIDA"), nil
				}
				return d, nil
			}),
		modFn("Data", "para_iso", []string{"data"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				d, ok := args[0].Value.(runtime.Date)
				if !ok {
					return nil, argError(args[0], runtime.KindDate)
				}
				return runtime.String(d.String()), nil
			}),
		modFn("Data", "de_timestamp", []string{"timestamp"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				n, err := wantNumber(args[0])
				if err != nil {
					return nil, err
				}
				if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
					return nil, runtime.NewErrorf(runtime.InvalidTimestamp, runtime.NoSpan,
						"timestamp inválido: %s", runtime.Number(n))
				}
				return runtime.Date{Millis: int64(n)}, nil
			}),
		modFn("Data", "para_timestamp", []string{"data"},
			func(args []runtime.NamedArg, _ *runtime.Runtime, _ runtime.Environment) (runtime.Value, error) {
				d, ok := args[0].Value.(runtime.Date)
				if !ok {
					return nil, argError(args[0], runtime.KindDate)
				}
				return runtime.Number(d.Millis), nil
			}),
	)
}
