package runtime

import (
	"math"

	"github.com/gabrielbrunop/tenda/lang/ast"
	"github.com/gabrielbrunop/tenda/lang/token"
)

func (r *Runtime) evalExpr(expr ast.Expr) (Value, error) {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		return literalValue(expr), nil
	case *ast.VarExpr:
		return r.visitVariable(expr)
	case *ast.GroupExpr:
		return r.evalExpr(expr.Expr)
	case *ast.ListExpr:
		return r.visitList(expr)
	case *ast.MapExpr:
		return r.visitMap(expr)
	case *ast.FuncExpr:
		return r.createFunction("", expr.Params, expr.Body, expr.Span()), nil
	case *ast.CallExpr:
		return r.visitCall(expr)
	case *ast.AccessExpr:
		return r.visitAccess(expr)
	case *ast.AssignExpr:
		return r.visitAssign(expr)
	case *ast.BinOpExpr:
		return r.visitBinary(expr)
	case *ast.UnaryOpExpr:
		return r.visitUnary(expr)
	case *ast.CondExpr:
		return r.visitCondExpr(expr)
	default:
		return Nil, nil
	}
}

func literalValue(lit *ast.LiteralExpr) Value {
	switch lit.Kind {
	case token.NUMBER:
		return Number(lit.Num)
	case token.STRING:
		return String(lit.Str)
	case token.TRUE:
		return Boolean(true)
	case token.FALSE:
		return Boolean(false)
	default:
		return Nil
	}
}

func (r *Runtime) visitVariable(expr *ast.VarExpr) (Value, error) {
	if c, ok := r.stack.Lookup(expr.Name); ok {
		return c.Value(), nil
	}
	return nil, newErrorf(UndefinedReference, expr.Span(),
		"a variável identificada por '%s' não está definida neste escopo", expr.Name).
		withHelp("você precisa definir a variável '" + expr.Name + "' antes de usá-la: `seja " + expr.Name + " = ...`")
}

func (r *Runtime) visitList(expr *ast.ListExpr) (Value, error) {
	elems := make([]Value, 0, len(expr.Elems))
	for _, e := range expr.Elems {
		v, err := r.evalExpr(e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return NewList(elems), nil
}

func (r *Runtime) visitMap(expr *ast.MapExpr) (Value, error) {
	arr := NewAssocArray(len(expr.Items))
	for _, kv := range expr.Items {
		key, err := r.resolveKey(literalValue(kv.Key), kv.Key.Span())
		if err != nil {
			return nil, err
		}
		value, err := r.evalExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		arr.Set(key, value)
	}
	return arr, nil
}

func (r *Runtime) visitCondExpr(expr *ast.CondExpr) (Value, error) {
	cond, err := r.evalExpr(expr.Cond)
	if err != nil {
		return nil, err
	}
	if cond.Truth() {
		return r.evalExpr(expr.Then)
	}
	return r.evalExpr(expr.OrElse)
}

func (r *Runtime) visitCall(expr *ast.CallExpr) (Value, error) {
	callee, err := r.evalExpr(expr.Fn)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(expr.Args))
	for _, a := range expr.Args {
		v, err := r.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(*Function)
	if !ok {
		return nil, newErrorf(UnexpectedType, expr.Span(),
			"não é possível chamar um valor de tipo '%s' como função", callee.Kind())
	}
	return r.CallFunction(fn, args, expr.Span())
}

func (r *Runtime) visitUnary(expr *ast.UnaryOpExpr) (Value, error) {
	rhs, err := r.evalExpr(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case token.MINUS:
		n, ok := rhs.(Number)
		if !ok {
			return nil, newErrorf(UnexpectedType, expr.Span(),
				"não é possível negar valor de tipo '%s'; esperado '%s'", rhs.Kind(), KindNumber)
		}
		return Number(-float64(n)), nil
	default: // token.NOT
		return Boolean(!rhs.Truth()), nil
	}
}

func (r *Runtime) visitBinary(expr *ast.BinOpExpr) (Value, error) {
	lhs, err := r.evalExpr(expr.Left)
	if err != nil {
		return nil, err
	}

	// short-circuit operators return the deciding operand uncoerced
	switch expr.Op {
	case token.AND:
		if lhs.Truth() {
			return r.evalExpr(expr.Right)
		}
		return lhs, nil
	case token.OR:
		if lhs.Truth() {
			return lhs, nil
		}
		return r.evalExpr(expr.Right)
	}

	rhs, err := r.evalExpr(expr.Right)
	if err != nil {
		return nil, err
	}

	span := expr.Span()
	switch expr.Op {
	case token.PLUS:
		switch l := lhs.(type) {
		case Number:
			switch rv := rhs.(type) {
			case Number:
				return Number(float64(l) + float64(rv)), nil
			case Date:
				return rv.AddMillis(int64(l)), nil
			}
		case String:
			return String(string(l) + DisplayRaw(rhs)), nil
		case *List:
			if rl, ok := rhs.(*List); ok {
				elems := make([]Value, 0, len(l.Elems)+len(rl.Elems))
				elems = append(elems, l.Elems...)
				elems = append(elems, rl.Elems...)
				return NewList(elems), nil
			}
		case Date:
			if n, ok := rhs.(Number); ok {
				return l.AddMillis(int64(n)), nil
			}
		}
		if rs, ok := rhs.(String); ok {
			return String(DisplayRaw(lhs) + string(rs)), nil
		}
		return nil, r.typeMismatch(span, lhs, rhs,
			"não é possível somar '%s' e '%s'")

	case token.MINUS:
		switch l := lhs.(type) {
		case Number:
			switch rv := rhs.(type) {
			case Number:
				return Number(float64(l) - float64(rv)), nil
			case Date:
				return rv.AddMillis(-int64(l)), nil
			}
		case Date:
			if n, ok := rhs.(Number); ok {
				return l.AddMillis(-int64(n)), nil
			}
		}
		return nil, r.typeMismatch(span, lhs, rhs,
			"não é possível subtrair '%s' de '%s'")

	case token.STAR:
		if l, lok := lhs.(Number); lok {
			if rv, rok := rhs.(Number); rok {
				return Number(float64(l) * float64(rv)), nil
			}
		}
		return nil, r.typeMismatch(span, lhs, rhs,
			"não é possível multiplicar '%s' por '%s'")

	case token.SLASH:
		if l, lok := lhs.(Number); lok {
			if rv, rok := rhs.(Number); rok {
				if float64(rv) == 0 {
					return nil, newError(DivisionByZero, span, "divisão por zero não é permitida")
				}
				return Number(float64(l) / float64(rv)), nil
			}
		}
		return nil, r.typeMismatch(span, lhs, rhs,
			"não é possível dividir '%s' por '%s'")

	case token.CARET:
		if l, lok := lhs.(Number); lok {
			if rv, rok := rhs.(Number); rok {
				return Number(math.Pow(float64(l), float64(rv))), nil
			}
		}
		return nil, r.typeMismatch(span, lhs, rhs,
			"não é possível elevar '%s' à potência de '%s'")

	case token.PERCENT:
		if l, lok := lhs.(Number); lok {
			if rv, rok := rhs.(Number); rok {
				return Number(math.Mod(float64(l), float64(rv))), nil
			}
		}
		return nil, r.typeMismatch(span, lhs, rhs,
			"não é possível encontrar o resto da divisão de '%s' por '%s'")

	case token.IS:
		return Boolean(Equal(lhs, rhs)), nil

	case token.NOTIS:
		return Boolean(!Equal(lhs, rhs)), nil

	case token.LT, token.LE, token.GT, token.GE:
		return r.compare(expr.Op, lhs, rhs, span)

	case token.UNTIL:
		return r.makeRange(lhs, rhs, span)

	case token.HAS, token.NOTHAS:
		has, err := r.contains(lhs, rhs, span, expr.Op == token.HAS)
		if err != nil {
			return nil, err
		}
		return has, nil
	}

	return nil, r.typeMismatch(span, lhs, rhs, "operação inválida para os tipos '%s' e '%s'")
}

func (r *Runtime) compare(op token.Token, lhs, rhs Value, span token.Span) (Value, error) {
	var cmp int // -1, 0 or 1
	switch l := lhs.(type) {
	case Number:
		rv, ok := rhs.(Number)
		if !ok {
			return nil, r.compareMismatch(op, lhs, rhs, span)
		}
		switch {
		case float64(l) < float64(rv):
			cmp = -1
		case float64(l) > float64(rv):
			cmp = 1
		}
	case String:
		rv, ok := rhs.(String)
		if !ok {
			return nil, r.compareMismatch(op, lhs, rhs, span)
		}
		switch {
		case l < rv:
			cmp = -1
		case l > rv:
			cmp = 1
		}
	case Date:
		rv, ok := rhs.(Date)
		if !ok {
			return nil, r.compareMismatch(op, lhs, rhs, span)
		}
		switch {
		case l.Before(rv):
			cmp = -1
		case rv.Before(l):
			cmp = 1
		}
	default:
		return nil, r.compareMismatch(op, lhs, rhs, span)
	}

	switch op {
	case token.LT:
		return Boolean(cmp < 0), nil
	case token.LE:
		return Boolean(cmp <= 0), nil
	case token.GT:
		return Boolean(cmp > 0), nil
	default:
		return Boolean(cmp >= 0), nil
	}
}

var compareOpNames = map[token.Token]string{
	token.LT: "menor que",
	token.LE: "menor ou igual a",
	token.GT: "maior que",
	token.GE: "maior ou igual a",
}

func (r *Runtime) compareMismatch(op token.Token, lhs, rhs Value, span token.Span) error {
	return newErrorf(TypeMismatch, span,
		"não é possível aplicar a operação de '%s' para '%s' e '%s'",
		compareOpNames[op], lhs.Kind(), rhs.Kind())
}

func (r *Runtime) makeRange(lhs, rhs Value, span token.Span) (Value, error) {
	l, lok := lhs.(Number)
	rv, rok := rhs.(Number)
	if !lok || !rok {
		return nil, r.typeMismatch(span, lhs, rhs,
			"não é possível criar um intervalo entre '%s' e '%s'")
	}
	for _, bound := range []float64{float64(l), float64(rv)} {
		if math.IsInf(bound, 0) || math.IsNaN(bound) || bound != math.Trunc(bound) {
			return nil, newErrorf(InvalidRangeBounds, span,
				"limites de intervalo precisam ser números inteiros finitos: encontrado '%s'", Number(bound))
		}
	}
	return Range{From: int64(l), To: int64(rv)}, nil
}

func (r *Runtime) contains(lhs, rhs Value, span token.Span, want bool) (Value, error) {
	switch l := lhs.(type) {
	case *List:
		for _, e := range l.Elems {
			if Equal(e, rhs) {
				return Boolean(want), nil
			}
		}
		return Boolean(!want), nil
	case *AssocArray:
		key, err := r.resolveKey(rhs, span)
		if err != nil {
			return nil, err
		}
		return Boolean(l.Has(key) == want), nil
	}
	msg := "não é possível verificar se '%s' contém '%s'"
	if !want {
		msg = "não é possível verificar se '%s' não contém '%s'"
	}
	return nil, r.typeMismatch(span, lhs, rhs, msg)
}

func (r *Runtime) typeMismatch(span token.Span, lhs, rhs Value, format string) error {
	return newErrorf(TypeMismatch, span, format, lhs.Kind(), rhs.Kind())
}

// resolveKey converts a value to an associative array key: a string, or a
// finite integral number.
func (r *Runtime) resolveKey(v Value, span token.Span) (Key, error) {
	switch v := v.(type) {
	case String:
		return StringKey(string(v)), nil
	case Number:
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return Key{}, newErrorf(InvalidAssociativeArrayKey, span,
				"chave de dicionário precisa ser número inteiro ou texto: encontrado '%s'", v)
		}
		return NumberKey(int64(f)), nil
	}
	return Key{}, newErrorf(InvalidAssociativeArrayKey, span,
		"chave de dicionário precisa ser número inteiro ou texto: encontrado '%s'", v.Kind())
}

// resolveIndex evaluates an index expression to a non-negative integer.
func (r *Runtime) resolveIndex(expr ast.Expr) (int, error) {
	v, err := r.evalExpr(expr)
	if err != nil {
		return 0, err
	}
	n, ok := v.(Number)
	if !ok {
		return 0, newErrorf(UnexpectedType, expr.Span(),
			"não é possível indexar com '%s'; esperado '%s'", v.Kind(), KindNumber)
	}
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || f < 0 {
		return 0, newErrorf(InvalidIndex, expr.Span(),
			"índice de lista precisa ser um número inteiro positivo e finito: encontrado '%s'", n)
	}
	return int(f), nil
}

func (r *Runtime) visitAccess(expr *ast.AccessExpr) (Value, error) {
	prefix, err := r.evalExpr(expr.Prefix)
	if err != nil {
		return nil, err
	}

	switch p := prefix.(type) {
	case *List:
		i, err := r.resolveIndex(expr.Index)
		if err != nil {
			return nil, err
		}
		if i >= len(p.Elems) {
			return nil, newErrorf(IndexOutOfBounds, expr.Index.Span(),
				"índice fora dos limites: índice %d, tamanho %d", i, len(p.Elems)).
				withHelp("verifique se o índice está dentro dos limites da lista antes de tentar acessá-lo")
		}
		return p.Elems[i], nil

	case String:
		i, err := r.resolveIndex(expr.Index)
		if err != nil {
			return nil, err
		}
		runes := []rune(string(p))
		if i >= len(runes) {
			return nil, newErrorf(IndexOutOfBounds, expr.Index.Span(),
				"índice fora dos limites: índice %d, tamanho %d", i, len(runes)).
				withHelp("verifique o tamanho do texto antes de tentar acessar uma posição nele")
		}
		return String(runes[i]), nil

	case *AssocArray:
		idx, err := r.evalExpr(expr.Index)
		if err != nil {
			return nil, err
		}
		key, err := r.resolveKey(idx, expr.Index.Span())
		if err != nil {
			return nil, err
		}
		v, ok := p.Get(key)
		if !ok {
			return nil, newErrorf(AssociativeArrayKeyNotFound, expr.Index.Span(),
				"chave de dicionário não encontrada: '%s'", key)
		}
		return v, nil
	}

	return nil, newErrorf(WrongIndexType, expr.Span(),
		"não é possível acessar um valor do tipo '%s'", prefix.Kind())
}

func (r *Runtime) visitAssign(expr *ast.AssignExpr) (Value, error) {
	switch target := ast.Unwrap(expr.Target).(type) {
	case *ast.VarExpr:
		value, err := r.evalExpr(expr.Value)
		if err != nil {
			return nil, err
		}
		if err := r.stack.Assign(target.Name, NewCell(value)); err != nil {
			return nil, newErrorf(UndefinedReference, expr.Span(),
				"a variável identificada por '%s' não está definida neste escopo", target.Name).
				withHelp("talvez você queria definir a variável '" + target.Name + "': `seja " + target.Name + " = ...`")
		}
		return value, nil

	case *ast.AccessExpr:
		prefix, err := r.evalExpr(target.Prefix)
		if err != nil {
			return nil, err
		}

		switch p := prefix.(type) {
		case *List:
			value, err := r.evalExpr(expr.Value)
			if err != nil {
				return nil, err
			}
			i, err := r.resolveIndex(target.Index)
			if err != nil {
				return nil, err
			}
			if i >= len(p.Elems) {
				return nil, newErrorf(IndexOutOfBounds, target.Index.Span(),
					"índice fora dos limites: índice %d, tamanho %d", i, len(p.Elems)).
					withHelp("se a sua intenção era adicionar um novo elemento à lista, use `Lista.insira`")
			}
			p.Elems[i] = value
			return value, nil

		case *AssocArray:
			value, err := r.evalExpr(expr.Value)
			if err != nil {
				return nil, err
			}
			idx, err := r.evalExpr(target.Index)
			if err != nil {
				return nil, err
			}
			key, err := r.resolveKey(idx, target.Index.Span())
			if err != nil {
				return nil, err
			}
			p.Set(key, value)
			return value, nil

		case String:
			return nil, newError(ImmutableString, expr.Span(),
				"textos são imutáveis e não podem ser modificados").
				withHelp("em vez de tentar modificar o texto, você pode criar um novo texto concatenando o texto original com o novo texto: `texto = texto + ...`")
		}

		return nil, newErrorf(WrongIndexType, target.Span(),
			"não é possível acessar um valor do tipo '%s'", prefix.Kind())
	}

	// the parser guarantees the target is a variable or access expression
	return nil, newError(UnexpectedType, expr.Span(),
		"o valor à esquerda do '=' não é um valor válido para receber atribuições")
}
