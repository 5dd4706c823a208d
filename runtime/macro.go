package runtime

import "github.com/rendergo/jinja/nodes"

// macro is the runtime representation of a `{% macro %}` definition
// (spec.md §4.F). Grounded on the teacher's runtime/macro.go
// Macro/MacroArgument split, simplified: this dialect has no
// variadic/keyword-only parameter kinds, and closures are over the
// call site rather than the definition site (spec.md §9), so there is
// no MacroCaller/MacroNamespace registry to carry along.
type macro struct {
	name     string
	params   []*nodes.Identifier
	defaults []nodes.Expr
	body     []nodes.Node
	interp   *Interpreter
}

func newMacro(def *nodes.Macro, interp *Interpreter) *macro {
	return &macro{
		name:     def.Name,
		params:   def.Args,
		defaults: def.Defaults,
		body:     def.Body,
		interp:   interp,
	}
}

// invoke binds positional arguments, falls back to kwargs by name,
// then falls back to the declared default expression (evaluated in
// the call scope), and renders the macro body. callSiteEnv is the
// environment active where the macro was called — per spec.md §9 the
// macro's body scope is a child of the call site, not of the
// environment where `{% macro %}` was defined.
func (m *macro) invoke(args []Value, callSiteEnv *Environment) (Value, error) {
	bodyEnv := callSiteEnv.Child()

	positional, kwargs := splitKwargs(args)
	firstDefault := len(m.params) - len(m.defaults)

	for i, p := range m.params {
		if i < len(positional) {
			bodyEnv.setVariable(p.Name, positional[i])
			continue
		}
		if kwargs != nil {
			if v, ok := kwargs.Get(p.Name); ok {
				bodyEnv.setVariable(p.Name, v)
				continue
			}
		}
		if i >= firstDefault {
			def := m.defaults[i-firstDefault]
			v, err := m.interp.evalExpr(def, bodyEnv)
			if err != nil {
				return nil, err
			}
			bodyEnv.setVariable(p.Name, v)
			continue
		}
		return nil, arityErrorf("macro %q missing required argument %q", m.name, p.Name)
	}

	res, err := m.interp.evalBlock(m.body, bodyEnv)
	if err != nil {
		return nil, err
	}
	return String{Val: res.text}, nil
}
