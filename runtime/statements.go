package runtime

import (
	"strings"

	"github.com/rendergo/jinja/nodes"
)

// evalBlock evaluates a statement list in sequence, accumulating
// stringified output and skipping Null/Undefined results (spec.md
// §4.F). It is the sole place a break/continue signal threads
// upward — component F, grounded on the teacher's macro.go body
// rendering together with the control-flow redesign of spec.md §9.
func (interp *Interpreter) evalBlock(stmts []nodes.Node, env *Environment) (blockResult, error) {
	var out strings.Builder
	for _, stmt := range stmts {
		res, err := interp.evalStmt(stmt, env)
		if err != nil {
			return blockResult{}, err
		}
		out.WriteString(res.text)
		if res.signal != signalNormal {
			return blockResult{text: out.String(), signal: res.signal}, nil
		}
	}
	return blockResult{text: out.String()}, nil
}

func (interp *Interpreter) evalStmt(stmt nodes.Node, env *Environment) (blockResult, error) {
	switch s := stmt.(type) {
	case *nodes.Program:
		return interp.evalBlock(s.Body, env)
	case *nodes.Comment:
		return blockResult{}, nil
	case *nodes.Break:
		return blockResult{signal: signalBreak}, nil
	case *nodes.Continue:
		return blockResult{signal: signalContinue}, nil
	case *nodes.If:
		return interp.evalIf(s, env)
	case *nodes.For:
		return interp.evalFor(s, env)
	case *nodes.SetStatement:
		return interp.evalSet(s, env)
	case *nodes.Macro:
		return interp.evalMacroDef(s, env)
	case *nodes.CallStatement:
		return interp.evalCallStatement(s, env)
	case *nodes.FilterStatement:
		return interp.evalFilterStatement(s, env)
	default:
		// Expression statements (bare `{{ expr }}` output nodes) are
		// represented as plain expression nodes mixed into a body; any
		// Expr reaching here is rendered and skipped if Null/Undefined.
		if expr, ok := stmt.(nodes.Expr); ok {
			v, err := interp.evalExpr(expr, env)
			if err != nil {
				return blockResult{}, err
			}
			return blockResult{text: renderValue(v)}, nil
		}
		return blockResult{}, newError(KindSyntax, stmt.Pos(), "unknown node type %s", stmt.Type())
	}
}

// renderValue stringifies a value for template output, skipping
// Null/Undefined per spec.md §4.F.
func renderValue(v Value) string {
	switch v.(type) {
	case Null, Undefined:
		return ""
	default:
		return v.String()
	}
}

func (interp *Interpreter) evalIf(s *nodes.If, env *Environment) (blockResult, error) {
	test, err := interp.evalExpr(s.Test, env)
	if err != nil {
		return blockResult{}, err
	}
	if test.Truthy() {
		return interp.evalBlock(s.Body, env)
	}
	return interp.evalBlock(s.Alternate, env)
}

// evalFor implements spec.md §4.F's For contract: a child scope, loop
// metadata, SelectExpression pre-filtering, destructuring bind, and
// break/continue handling confined to this frame.
func (interp *Interpreter) evalFor(s *nodes.For, env *Environment) (blockResult, error) {
	loopEnv := env.Child()

	items, err := interp.resolveForItems(s.Iterable, s.LoopVar, loopEnv)
	if err != nil {
		return blockResult{}, err
	}

	if len(items) == 0 {
		return interp.evalBlock(s.DefaultBlock, env)
	}

	var out strings.Builder
	for i, item := range items {
		iterEnv := loopEnv.Child()
		if err := bindLoopVar(iterEnv, s.LoopVar, item); err != nil {
			return blockResult{}, err
		}
		iterEnv.setVariable("loop", buildLoopObject(i, len(items), items))

		res, err := interp.evalBlock(s.Body, iterEnv)
		if err != nil {
			return blockResult{}, err
		}
		out.WriteString(res.text)
		if res.signal == signalBreak {
			break
		}
		// signalContinue: nothing extra to do, loop proceeds.
	}
	return blockResult{text: out.String()}, nil
}

// resolveForItems evaluates the iterable, applying a SelectExpression
// filter per-candidate when present (`for x in xs if cond`). Each
// candidate is bound under the for-loop's own LoopVar pattern in a
// per-iteration subscope before the condition is evaluated, so `cond`
// can reference the loop variable the way Jinja allows.
func (interp *Interpreter) resolveForItems(iterable nodes.Expr, loopVar nodes.Node, env *Environment) ([]Value, error) {
	sel, ok := iterable.(*nodes.SelectExpression)
	if !ok {
		return interp.evalIterable(iterable, env)
	}

	candidates, err := interp.evalIterable(sel.Value, env)
	if err != nil {
		return nil, err
	}
	var out []Value
	for _, c := range candidates {
		sub := env.Child()
		if err := bindLoopVar(sub, loopVar, c); err != nil {
			return nil, err
		}
		cond, err := interp.evalExpr(sel.Test, sub)
		if err != nil {
			return nil, err
		}
		if cond.Truthy() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (interp *Interpreter) evalIterable(expr nodes.Node, env *Environment) ([]Value, error) {
	v, err := interp.evalExpr(expr, env)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case Array:
		return val.Items, nil
	case Tuple:
		return val.Items, nil
	case *Object:
		out := make([]Value, len(val.Keys))
		for i, k := range val.Keys {
			out[i] = String{Val: k}
		}
		return out, nil
	case String:
		runes := val.Runes()
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = String{Val: string(r)}
		}
		return out, nil
	default:
		return nil, typeErrorf("value of type %s is not iterable", v.TypeName())
	}
}

func bindLoopVar(env *Environment, loopVar nodes.Node, item Value) error {
	switch lv := loopVar.(type) {
	case *nodes.Identifier:
		env.setVariable(lv.Name, item)
		return nil
	case *nodes.TupleLiteral:
		return destructure(env, lv.Values, item)
	default:
		return typeErrorf("invalid loop variable pattern")
	}
}

func destructure(env *Environment, names []nodes.Node, item Value) error {
	var items []Value
	switch v := item.(type) {
	case Array:
		items = v.Items
	case Tuple:
		items = v.Items
	default:
		return typeErrorf("cannot destructure a value of type %s", item.TypeName())
	}
	if len(items) != len(names) {
		return arityErrorf("cannot unpack %d values into %d names", len(items), len(names))
	}
	for i, n := range names {
		ident, ok := n.(*nodes.Identifier)
		if !ok {
			return typeErrorf("destructuring target must be an identifier")
		}
		env.setVariable(ident.Name, items[i])
	}
	return nil
}

// buildLoopObject constructs the `loop` object exposed inside a For
// body, matching spec.md §4.F's field list exactly.
func buildLoopObject(index, length int, items []Value) *Object {
	loop := NewObject()
	loop.Set("index", Integer{Val: int64(index + 1)})
	loop.Set("index0", Integer{Val: int64(index)})
	loop.Set("revindex", Integer{Val: int64(length-index)})
	loop.Set("revindex0", Integer{Val: int64(length-index-1)})
	loop.Set("first", Boolean{Val: index == 0})
	loop.Set("last", Boolean{Val: index == length-1})
	loop.Set("length", Integer{Val: int64(length)})
	if index > 0 {
		loop.Set("previtem", items[index-1])
	} else {
		loop.Set("previtem", Undefined{})
	}
	if index < length-1 {
		loop.Set("nextitem", items[index+1])
	} else {
		loop.Set("nextitem", Undefined{})
	}
	return loop
}

// evalSet implements spec.md §4.F's Set contract across all three
// assignee shapes.
func (interp *Interpreter) evalSet(s *nodes.SetStatement, env *Environment) (blockResult, error) {
	var value Value
	if s.Value != nil {
		v, err := interp.evalExpr(s.Value, env)
		if err != nil {
			return blockResult{}, err
		}
		value = v
	} else {
		res, err := interp.evalBlock(s.Body, env)
		if err != nil {
			return blockResult{}, err
		}
		value = String{Val: res.text}
	}

	switch assignee := s.Assignee.(type) {
	case *nodes.Identifier:
		env.setVariable(assignee.Name, value)
	case *nodes.TupleLiteral:
		items, ok := valueAsItems(value)
		if !ok {
			return blockResult{}, typeErrorf("cannot destructure a value of type %s", value.TypeName())
		}
		if len(items) != len(assignee.Values) {
			return blockResult{}, arityErrorf("cannot unpack %d values into %d names", len(items), len(assignee.Values))
		}
		for i, n := range assignee.Values {
			ident, ok := n.(*nodes.Identifier)
			if !ok {
				return blockResult{}, typeErrorf("destructuring target must be an identifier")
			}
			env.setVariable(ident.Name, items[i])
		}
	case *nodes.MemberExpression:
		target, err := interp.evalExpr(assignee.Object, env)
		if err != nil {
			return blockResult{}, err
		}
		obj, ok := target.(*Object)
		if !ok {
			return blockResult{}, typeErrorf("cannot assign a member on a value of type %s", target.TypeName())
		}
		ident, ok := assignee.Property.(*nodes.Identifier)
		if !ok {
			return blockResult{}, typeErrorf("member assignment key must be an identifier")
		}
		obj.Set(ident.Name, value)
	default:
		return blockResult{}, typeErrorf("invalid assignment target")
	}
	return blockResult{}, nil
}

func valueAsItems(v Value) ([]Value, bool) {
	switch t := v.(type) {
	case Array:
		return t.Items, true
	case Tuple:
		return t.Items, true
	default:
		return nil, false
	}
}

func (interp *Interpreter) evalMacroDef(s *nodes.Macro, env *Environment) (blockResult, error) {
	macro := newMacro(s, interp)
	env.setVariable(s.Name, Function{Name: s.Name, Call: macro.invoke})
	return blockResult{}, nil
}

// evalCallStatement implements `{% call macro(args) %} body {% endcall %}`
// (spec.md §4.F): a `caller` function is bound into a scope visible to
// the invoked macro, which renders `body` when the macro evaluates
// `caller()`.
func (interp *Interpreter) evalCallStatement(s *nodes.CallStatement, env *Environment) (blockResult, error) {
	callee, err := interp.evalExpr(s.Call.Callee, env)
	if err != nil {
		return blockResult{}, err
	}
	target, ok := callee.(Function)
	if !ok {
		return blockResult{}, typeErrorf("call target is not a function")
	}

	callSiteEnv := env.Child()
	callerFn := Function{Name: "caller", Call: func(callerArgs []Value, callerEnv *Environment) (Value, error) {
		bodyEnv := env.Child()
		for i, p := range s.CallerArgs {
			if i < len(callerArgs) {
				bodyEnv.setVariable(p.Name, callerArgs[i])
			} else {
				bodyEnv.setVariable(p.Name, Undefined{Name: p.Name})
			}
		}
		res, err := interp.evalBlock(s.Body, bodyEnv)
		if err != nil {
			return nil, err
		}
		return String{Val: res.text}, nil
	}}
	callSiteEnv.setVariable("caller", callerFn)

	args, err := interp.evalCallArgs(s.Call.Args, callSiteEnv)
	if err != nil {
		return blockResult{}, err
	}

	v, err := target.Call(args, callSiteEnv)
	if err != nil {
		return blockResult{}, err
	}
	return blockResult{text: renderValue(v)}, nil
}

func (interp *Interpreter) evalFilterStatement(s *nodes.FilterStatement, env *Environment) (blockResult, error) {
	res, err := interp.evalBlock(s.Body, env)
	if err != nil {
		return blockResult{}, err
	}
	args, err := interp.evalCallArgs(s.Filter.Args, env)
	if err != nil {
		return blockResult{}, err
	}
	v, err := interp.applyFilter(s.Filter.Name, String{Val: res.text}, args, env)
	if err != nil {
		return blockResult{}, err
	}
	return blockResult{text: renderValue(v)}, nil
}
