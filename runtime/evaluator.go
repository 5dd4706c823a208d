package runtime

import (
	"math"
	"strings"

	"github.com/rendergo/jinja/nodes"
)

// evalExpr evaluates a single expression node to a Value. This is
// component D (spec.md §4.D): binary/unary/ternary/select/test/filter/
// call/member/slice dispatch. Grounded on the teacher's
// runtime/evaluator.go switch-over-node-type shape, retargeted at the
// node contract of spec.md §6.
func (interp *Interpreter) evalExpr(node nodes.Node, env *Environment) (Value, error) {
	switch n := node.(type) {
	case *nodes.IntegerLiteral:
		return Integer{Val: n.Value}, nil
	case *nodes.FloatLiteral:
		return Float{Val: n.Value}, nil
	case *nodes.StringLiteral:
		return String{Val: n.Value}, nil
	case *nodes.ArrayLiteral:
		items, err := interp.evalList(n.Values, env)
		if err != nil {
			return nil, err
		}
		return Array{Items: items}, nil
	case *nodes.TupleLiteral:
		items, err := interp.evalList(n.Values, env)
		if err != nil {
			return nil, err
		}
		return Tuple{Items: items}, nil
	case *nodes.ObjectLiteral:
		return interp.evalObjectLiteral(n, env)
	case *nodes.Identifier:
		return env.lookupVariable(n.Name), nil
	case *nodes.MemberExpression:
		return interp.evalMember(n, env)
	case *nodes.SliceExpression:
		return interp.evalSlice(n, env)
	case *nodes.CallExpression:
		return interp.evalCall(n, env)
	case *nodes.BinaryExpression:
		return interp.evalBinary(n, env)
	case *nodes.UnaryExpression:
		return interp.evalUnary(n, env)
	case *nodes.FilterExpression:
		return interp.evalFilterExpr(n, env)
	case *nodes.TestExpression:
		return interp.evalTest(n, env)
	case *nodes.SelectExpression:
		return interp.evalSelect(n, env)
	case *nodes.Ternary:
		return interp.evalTernary(n, env)
	case *nodes.KeywordArgumentExpression:
		return interp.evalExpr(n.Value, env)
	case *nodes.SpreadExpression:
		return interp.evalExpr(n.Argument, env)
	default:
		return nil, newError(KindSyntax, node.Pos(), "unknown node type %s", node.Type())
	}
}

func (interp *Interpreter) evalList(exprs []nodes.Node, env *Environment) ([]Value, error) {
	out := make([]Value, len(exprs))
	for i, e := range exprs {
		v, err := interp.evalExpr(e, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (interp *Interpreter) evalObjectLiteral(n *nodes.ObjectLiteral, env *Environment) (Value, error) {
	obj := NewObject()
	for i, keyNode := range n.Keys {
		var key string
		switch k := keyNode.(type) {
		case *nodes.StringLiteral:
			key = k.Value
		case *nodes.Identifier:
			key = k.Name
		default:
			v, err := interp.evalExpr(keyNode, env)
			if err != nil {
				return nil, err
			}
			s, ok := v.(String)
			if !ok {
				return nil, typeErrorf("object literal keys must be strings")
			}
			key = s.Val
		}
		val, err := interp.evalExpr(n.Values[i], env)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	return obj, nil
}

// ---- Member access & slicing ----

func (interp *Interpreter) evalMember(n *nodes.MemberExpression, env *Environment) (Value, error) {
	obj, err := interp.evalExpr(n.Object, env)
	if err != nil {
		return nil, err
	}

	if n.Computed {
		prop, err := interp.evalExpr(n.Property, env)
		if err != nil {
			return nil, err
		}
		return memberAccess(obj, prop)
	}

	ident, ok := n.Property.(*nodes.Identifier)
	if !ok {
		return nil, typeErrorf("member property must be an identifier")
	}
	return memberAccess(obj, String{Val: ident.Name})
}

// memberAccess implements spec.md §4.D's member-access rules: Object
// checks its data map then its builtins; Array/String accept an
// integer index (negative from the end) or a string builtin name.
// Missing members yield Undefined, never an error.
func memberAccess(receiver, prop Value) (Value, error) {
	switch r := receiver.(type) {
	case *Object:
		if key, ok := prop.(String); ok {
			if v, found := r.Get(key.Val); found {
				return v, nil
			}
			if b, found := r.Builtins()[key.Val]; found {
				return b, nil
			}
			return Undefined{Name: key.Val}, nil
		}
		return nil, typeErrorf("object key must be a string")
	case KeywordArguments:
		return memberAccess(r.Object, prop)
	case Array:
		return sequenceMember(r.Items, r.Builtins(), prop)
	case Tuple:
		return sequenceMember(r.Items, r.Builtins(), prop)
	case String:
		return stringMember(r, prop)
	case Undefined:
		return Undefined{}, nil
	default:
		if key, ok := prop.(String); ok {
			if b, found := receiver.Builtins()[key.Val]; found {
				return b, nil
			}
			return Undefined{Name: key.Val}, nil
		}
		return Undefined{}, nil
	}
}

func sequenceMember(items []Value, builtins map[string]Value, prop Value) (Value, error) {
	switch p := prop.(type) {
	case Integer:
		idx := normalizeIndex(int(p.Val), len(items))
		if idx < 0 || idx >= len(items) {
			return Undefined{}, nil
		}
		return items[idx], nil
	case String:
		if b, found := builtins[p.Val]; found {
			return b, nil
		}
		return Undefined{Name: p.Val}, nil
	default:
		return nil, typeErrorf("invalid index type for sequence")
	}
}

func stringMember(s String, prop Value) (Value, error) {
	switch p := prop.(type) {
	case Integer:
		runes := s.Runes()
		idx := normalizeIndex(int(p.Val), len(runes))
		if idx < 0 || idx >= len(runes) {
			return Undefined{}, nil
		}
		return String{Val: string(runes[idx])}, nil
	case String:
		if b, found := s.Builtins()[p.Val]; found {
			return b, nil
		}
		return Undefined{Name: p.Val}, nil
	default:
		return nil, typeErrorf("invalid index type for string")
	}
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		return length + i
	}
	return i
}

func (interp *Interpreter) evalSlice(n *nodes.SliceExpression, env *Environment) (Value, error) {
	obj, err := interp.evalExpr(n.Object, env)
	if err != nil {
		return nil, err
	}

	bound := func(node nodes.Node) (*int, error) {
		if node == nil {
			return nil, nil
		}
		v, err := interp.evalExpr(node, env)
		if err != nil {
			return nil, err
		}
		if _, isUndef := v.(Undefined); isUndef {
			return nil, nil
		}
		iv, ok := v.(Integer)
		if !ok {
			return nil, typeErrorf("slice bounds must be integers")
		}
		i := int(iv.Val)
		return &i, nil
	}

	start, err := bound(n.Start)
	if err != nil {
		return nil, err
	}
	stop, err := bound(n.Stop)
	if err != nil {
		return nil, err
	}
	step, err := bound(n.Step)
	if err != nil {
		return nil, err
	}

	switch r := obj.(type) {
	case Array:
		idxs := sliceIndices(len(r.Items), start, stop, step)
		out := make([]Value, len(idxs))
		for i, idx := range idxs {
			out[i] = r.Items[idx]
		}
		return Array{Items: out}, nil
	case Tuple:
		idxs := sliceIndices(len(r.Items), start, stop, step)
		out := make([]Value, len(idxs))
		for i, idx := range idxs {
			out[i] = r.Items[idx]
		}
		return Tuple{Items: out}, nil
	case String:
		runes := r.Runes()
		idxs := sliceIndices(len(runes), start, stop, step)
		out := make([]rune, len(idxs))
		for i, idx := range idxs {
			out[i] = runes[idx]
		}
		return String{Val: string(out)}, nil
	default:
		return nil, typeErrorf("cannot slice value of type %s", obj.TypeName())
	}
}

// sliceIndices computes the Python-semantics index sequence for
// x[start:stop:step] over a sequence of the given length.
func sliceIndices(length int, start, stop, step *int) []int {
	st := 1
	if step != nil {
		st = *step
	}
	if st == 0 {
		st = 1
	}

	var lo, hi int
	if st > 0 {
		lo, hi = 0, length
	} else {
		lo, hi = -1, length-1
	}

	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	resolve := func(v int) int {
		if v < 0 {
			v += length
		}
		return v
	}

	var startIdx, stopIdx int
	if st > 0 {
		if start == nil {
			startIdx = 0
		} else {
			startIdx = clamp(resolve(*start), 0, length)
		}
		if stop == nil {
			stopIdx = length
		} else {
			stopIdx = clamp(resolve(*stop), 0, length)
		}
	} else {
		if start == nil {
			startIdx = length - 1
		} else {
			startIdx = clamp(resolve(*start), lo, hi)
		}
		if stop == nil {
			stopIdx = -1
		} else {
			stopIdx = clamp(resolve(*stop), lo, hi)
		}
	}

	var out []int
	if st > 0 {
		for i := startIdx; i < stopIdx; i += st {
			out = append(out, i)
		}
	} else {
		for i := startIdx; i > stopIdx; i += st {
			out = append(out, i)
		}
	}
	return out
}

// ---- Calls ----

func (interp *Interpreter) evalCall(n *nodes.CallExpression, env *Environment) (Value, error) {
	callee, err := interp.evalExpr(n.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(Function)
	if !ok {
		return nil, typeErrorf("attempted to call a non-function value of type %s", callee.TypeName())
	}

	args, err := interp.evalCallArgs(n.Args, env)
	if err != nil {
		return nil, err
	}
	return fn.Call(args, env)
}

// evalCallArgs evaluates a call's argument list: positional args
// first (spreads inline an Array), then keyword args, which must
// follow all positional arguments; if any kwargs are present they are
// collapsed into a single trailing KeywordArguments value.
func (interp *Interpreter) evalCallArgs(argNodes []nodes.Node, env *Environment) ([]Value, error) {
	var positional []Value
	kwargs := NewObject()
	seenKeyword := false

	for _, a := range argNodes {
		switch arg := a.(type) {
		case *nodes.KeywordArgumentExpression:
			seenKeyword = true
			v, err := interp.evalExpr(arg.Value, env)
			if err != nil {
				return nil, err
			}
			kwargs.Set(arg.Key.Name, v)
		case *nodes.SpreadExpression:
			if seenKeyword {
				return nil, valueErrorf("positional argument follows keyword argument")
			}
			v, err := interp.evalExpr(arg.Argument, env)
			if err != nil {
				return nil, err
			}
			seq, ok := v.(Array)
			if !ok {
				return nil, typeErrorf("spread argument must be an array")
			}
			positional = append(positional, seq.Items...)
		default:
			if seenKeyword {
				return nil, valueErrorf("positional argument follows keyword argument")
			}
			v, err := interp.evalExpr(a, env)
			if err != nil {
				return nil, err
			}
			positional = append(positional, v)
		}
	}

	if len(kwargs.Keys) > 0 {
		positional = append(positional, KeywordArguments{Object: kwargs})
	}
	return positional, nil
}

// ---- Unary / ternary / select ----

func (interp *Interpreter) evalUnary(n *nodes.UnaryExpression, env *Environment) (Value, error) {
	arg, err := interp.evalExpr(n.Argument, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator.Value {
	case "not":
		return Boolean{Val: !arg.Truthy()}, nil
	case "-":
		switch v := arg.(type) {
		case Integer:
			return Integer{Val: -v.Val}, nil
		case Float:
			return Float{Val: -v.Val}, nil
		default:
			return nil, typeErrorf("unary '-' requires a number, got %s", arg.TypeName())
		}
	default:
		return nil, typeErrorf("unknown unary operator %s", n.Operator.Value)
	}
}

func (interp *Interpreter) evalTernary(n *nodes.Ternary, env *Environment) (Value, error) {
	cond, err := interp.evalExpr(n.Test, env)
	if err != nil {
		return nil, err
	}
	if cond.Truthy() {
		return interp.evalExpr(n.TrueExpr, env)
	}
	return interp.evalExpr(n.FalseExpr, env)
}

func (interp *Interpreter) evalSelect(n *nodes.SelectExpression, env *Environment) (Value, error) {
	test, err := interp.evalExpr(n.Test, env)
	if err != nil {
		return nil, err
	}
	if test.Truthy() {
		return interp.evalExpr(n.Value, env)
	}
	return Undefined{}, nil
}

func (interp *Interpreter) evalTest(n *nodes.TestExpression, env *Environment) (Value, error) {
	operand, err := interp.evalExpr(n.Operand, env)
	if err != nil {
		return nil, err
	}
	testFn, ok := env.lookupTest(n.Name)
	if !ok {
		return nil, newError(KindSyntax, n.Pos(), "unknown test %q", n.Name)
	}
	args, err := interp.evalList(n.Args, env)
	if err != nil {
		return nil, err
	}
	result, err := testFn(operand, args)
	if err != nil {
		return nil, err
	}
	if n.Negate {
		result = !result
	}
	return Boolean{Val: result}, nil
}

// ---- Binary operators ----

func (interp *Interpreter) evalBinary(n *nodes.BinaryExpression, env *Environment) (Value, error) {
	op := n.Operator.Value

	left, err := interp.evalExpr(n.Left, env)
	if err != nil {
		return nil, err
	}

	// and/or short-circuit and return the Python-style operand value,
	// not a coerced Boolean.
	if op == "and" {
		if !left.Truthy() {
			return left, nil
		}
		return interp.evalExpr(n.Right, env)
	}
	if op == "or" {
		if left.Truthy() {
			return left, nil
		}
		return interp.evalExpr(n.Right, env)
	}

	right, err := interp.evalExpr(n.Right, env)
	if err != nil {
		return nil, err
	}

	return evalBinaryOp(op, left, right)
}

func evalBinaryOp(op string, left, right Value) (Value, error) {
	_, leftUndef := left.(Undefined)
	_, rightUndef := right.(Undefined)
	if leftUndef || rightUndef {
		switch op {
		case "in":
			return Boolean{Val: false}, nil
		case "not in":
			return Boolean{Val: true}, nil
		default:
			return nil, typeErrorf("Unknown operator %s between %s and %s", op, left.TypeName(), right.TypeName())
		}
	}

	if _, ok := left.(Null); ok {
		return nil, typeErrorf("Unknown operator %s between %s and %s", op, left.TypeName(), right.TypeName())
	}
	if _, ok := right.(Null); ok {
		return nil, typeErrorf("Unknown operator %s between %s and %s", op, left.TypeName(), right.TypeName())
	}

	switch op {
	case "==":
		return Boolean{Val: LooseEquals(left, right)}, nil
	case "!=":
		return Boolean{Val: !LooseEquals(left, right)}, nil
	case "~":
		return String{Val: left.String() + right.String()}, nil
	case "in":
		return evalIn(left, right)
	case "not in":
		v, err := evalIn(left, right)
		if err != nil {
			return nil, err
		}
		return Boolean{Val: !v.(Boolean).Val}, nil
	}

	lf, lnum := asNumber(left)
	rf, rnum := asNumber(right)
	if lnum && rnum {
		return numericBinary(op, left, right, lf, rf)
	}

	if arr, ok := left.(Array); ok {
		if op == "+" {
			if rarr, ok := right.(Array); ok {
				return Array{Items: append(append([]Value{}, arr.Items...), rarr.Items...)}, nil
			}
		}
	}

	if op == "+" {
		_, lIsStr := left.(String)
		_, rIsStr := right.(String)
		if lIsStr || rIsStr {
			return String{Val: left.String() + right.String()}, nil
		}
	}

	return nil, typeErrorf("Unknown operator %s between %s and %s", op, left.TypeName(), right.TypeName())
}

func numericBinary(op string, left, right Value, lf, rf float64) (Value, error) {
	_, lInt := left.(Integer)
	_, rInt := right.(Integer)
	bothInt := lInt && rInt

	switch op {
	case "+":
		if bothInt {
			return Integer{Val: left.(Integer).Val + right.(Integer).Val}, nil
		}
		return Float{Val: lf + rf}, nil
	case "-":
		if bothInt {
			return Integer{Val: left.(Integer).Val - right.(Integer).Val}, nil
		}
		return Float{Val: lf - rf}, nil
	case "*":
		if bothInt {
			return Integer{Val: left.(Integer).Val * right.(Integer).Val}, nil
		}
		return Float{Val: lf * rf}, nil
	case "/":
		return Float{Val: lf / rf}, nil
	case "//":
		if bothInt {
			li, ri := left.(Integer).Val, right.(Integer).Val
			if ri == 0 {
				return nil, valueErrorf("integer division by zero")
			}
			q := li / ri
			if li%ri != 0 && (li < 0) != (ri < 0) {
				q--
			}
			return Integer{Val: q}, nil
		}
		return Float{Val: math.Floor(lf / rf)}, nil
	case "%":
		if bothInt {
			ri := right.(Integer).Val
			if ri == 0 {
				return nil, valueErrorf("integer modulo by zero")
			}
			return Integer{Val: left.(Integer).Val % ri}, nil
		}
		return Float{Val: math.Mod(lf, rf)}, nil
	case "<":
		return Boolean{Val: lf < rf}, nil
	case "<=":
		return Boolean{Val: lf <= rf}, nil
	case ">":
		return Boolean{Val: lf > rf}, nil
	case ">=":
		return Boolean{Val: lf >= rf}, nil
	}
	return nil, typeErrorf("Unknown operator %s between %s and %s", op, left.TypeName(), right.TypeName())
}

func evalIn(needle, haystack Value) (Value, error) {
	switch h := haystack.(type) {
	case Array:
		for _, item := range h.Items {
			if LooseEquals(needle, item) {
				return Boolean{Val: true}, nil
			}
		}
		return Boolean{Val: false}, nil
	case Tuple:
		for _, item := range h.Items {
			if LooseEquals(needle, item) {
				return Boolean{Val: true}, nil
			}
		}
		return Boolean{Val: false}, nil
	case String:
		n, ok := needle.(String)
		if !ok {
			return nil, typeErrorf("'in' requires a string needle for a string haystack")
		}
		return Boolean{Val: strings.Contains(h.Val, n.Val)}, nil
	case *Object:
		n, ok := needle.(String)
		if !ok {
			return nil, typeErrorf("'in' requires a string needle for an object haystack")
		}
		_, exists := h.Values[n.Val]
		return Boolean{Val: exists}, nil
	default:
		return nil, typeErrorf("'in' unsupported for haystack of type %s", haystack.TypeName())
	}
}

// evalFilterExpr evaluates `operand | name(args...)` by delegating to
// the filter registry (component E, runtime/filters.go).
func (interp *Interpreter) evalFilterExpr(n *nodes.FilterExpression, env *Environment) (Value, error) {
	operand, err := interp.evalExpr(n.Operand, env)
	if err != nil {
		return nil, err
	}
	args, err := interp.evalCallArgs(n.Args, env)
	if err != nil {
		return nil, err
	}
	return interp.applyFilter(n.Name, operand, args, env)
}
