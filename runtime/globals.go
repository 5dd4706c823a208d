package runtime

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// setupGlobals seeds env with the constants and global functions
// spec.md §6 lists as the public API surface, and installs the
// built-in test registry (component B).
func setupGlobals(env *Environment) {
	registerBuiltinTests(env)

	env.setVariable("false", Boolean{Val: false})
	env.setVariable("true", Boolean{Val: true})
	env.setVariable("none", Null{})
	env.setVariable("False", Boolean{Val: false})
	env.setVariable("True", Boolean{Val: true})
	env.setVariable("None", Null{})

	env.setVariable("range", Function{Name: "range", Call: rangeGlobal})
	env.setVariable("strftime_now", Function{Name: "strftime_now", Call: strftimeNowGlobal})
	env.setVariable("raise_exception", Function{Name: "raise_exception", Call: raiseExceptionGlobal})
	env.setVariable("namespace", Function{Name: "namespace", Call: namespaceGlobal})
}

// SetupGlobals is the exported entry point spec.md §6 names.
func SetupGlobals(env *Environment) { setupGlobals(env) }

// rangeGlobal implements Python's range(stop) / range(start, stop) /
// range(start, stop, step). It is a peripheral global per spec.md §1;
// kept minimal on purpose.
func rangeGlobal(args []Value, env *Environment) (Value, error) {
	pos, _ := splitKwargs(args)
	ints := make([]int64, len(pos))
	for i, a := range pos {
		iv, ok := a.(Integer)
		if !ok {
			return nil, typeErrorf("range() arguments must be integers")
		}
		ints[i] = iv.Val
	}

	var start, stop, step int64 = 0, 0, 1
	switch len(ints) {
	case 1:
		stop = ints[0]
	case 2:
		start, stop = ints[0], ints[1]
	case 3:
		start, stop, step = ints[0], ints[1], ints[2]
		if step == 0 {
			return nil, valueErrorf("range() step argument must not be zero")
		}
	default:
		return nil, arityErrorf("range() expected 1 to 3 arguments, got %d", len(ints))
	}

	var items []Value
	if step > 0 {
		for i := start; i < stop; i += step {
			items = append(items, Integer{Val: i})
		}
	} else {
		for i := start; i > stop; i += step {
			items = append(items, Integer{Val: i})
		}
	}
	return Array{Items: items}, nil
}

// strftimeNowGlobal formats the current time with a C-strftime
// directive string, backed by github.com/ncruces/go-strftime (already
// present, as an indirect dependency of a sqlite driver, elsewhere in
// this dependency family — see DESIGN.md).
func strftimeNowGlobal(args []Value, env *Environment) (Value, error) {
	pos, _ := splitKwargs(args)
	if len(pos) != 1 {
		return nil, arityErrorf("strftime_now(format) requires exactly one argument")
	}
	format, ok := pos[0].(String)
	if !ok {
		return nil, typeErrorf("strftime_now() format must be a string")
	}
	return String{Val: strftime.Format(format.Val, time.Now())}, nil
}

// raiseExceptionGlobal always fails, used by templates that want to
// assert on an unreachable branch.
func raiseExceptionGlobal(args []Value, env *Environment) (Value, error) {
	pos, _ := splitKwargs(args)
	msg := "template raised an exception"
	if len(pos) > 0 {
		msg = pos[0].String()
	}
	return nil, valueErrorf("%s", msg)
}

// namespaceGlobal returns a fresh Object, or echoes the single
// argument it was given (spec.md §6).
func namespaceGlobal(args []Value, env *Environment) (Value, error) {
	pos, kw := splitKwargs(args)
	if len(pos) > 0 {
		if obj, ok := pos[0].(*Object); ok {
			return obj, nil
		}
		return nil, typeErrorf("namespace() argument must be a mapping")
	}
	if kw != nil {
		return kw, nil
	}
	return NewObject(), nil
}
