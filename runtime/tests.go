package runtime

// registerBuiltinTests installs the test registry spec.md §4.D names:
// boolean, callable, odd, even, false, true, none, string, number,
// integer, iterable, mapping, lower, upper, defined, undefined,
// equalto/eq.
func registerBuiltinTests(env *Environment) {
	env.RegisterTest("boolean", func(v Value, args []Value) (bool, error) {
		_, ok := v.(Boolean)
		return ok, nil
	})
	env.RegisterTest("callable", func(v Value, args []Value) (bool, error) {
		_, ok := v.(Function)
		return ok, nil
	})
	env.RegisterTest("odd", func(v Value, args []Value) (bool, error) {
		i, ok := v.(Integer)
		if !ok {
			return false, typeErrorf("'odd' requires an integer")
		}
		return i.Val%2 != 0, nil
	})
	env.RegisterTest("even", func(v Value, args []Value) (bool, error) {
		i, ok := v.(Integer)
		if !ok {
			return false, typeErrorf("'even' requires an integer")
		}
		return i.Val%2 == 0, nil
	})
	env.RegisterTest("false", func(v Value, args []Value) (bool, error) {
		b, ok := v.(Boolean)
		return ok && !b.Val, nil
	})
	env.RegisterTest("true", func(v Value, args []Value) (bool, error) {
		b, ok := v.(Boolean)
		return ok && b.Val, nil
	})
	env.RegisterTest("none", func(v Value, args []Value) (bool, error) {
		_, ok := v.(Null)
		return ok, nil
	})
	env.RegisterTest("string", func(v Value, args []Value) (bool, error) {
		_, ok := v.(String)
		return ok, nil
	})
	env.RegisterTest("number", func(v Value, args []Value) (bool, error) {
		_, ok := asNumber(v)
		_, isBool := v.(Boolean)
		return ok && !isBool, nil
	})
	env.RegisterTest("integer", func(v Value, args []Value) (bool, error) {
		_, ok := v.(Integer)
		return ok, nil
	})
	env.RegisterTest("iterable", func(v Value, args []Value) (bool, error) {
		switch v.(type) {
		case String, Array, Tuple:
			return true, nil
		}
		return false, nil
	})
	env.RegisterTest("mapping", func(v Value, args []Value) (bool, error) {
		_, ok := v.(*Object)
		return ok, nil
	})
	env.RegisterTest("lower", func(v Value, args []Value) (bool, error) {
		s, ok := v.(String)
		if !ok {
			return false, typeErrorf("'lower' requires a string")
		}
		return s.Val == lowerCaser.String(s.Val) && s.Val != upperCaser.String(s.Val), nil
	})
	env.RegisterTest("upper", func(v Value, args []Value) (bool, error) {
		s, ok := v.(String)
		if !ok {
			return false, typeErrorf("'upper' requires a string")
		}
		return s.Val == upperCaser.String(s.Val) && s.Val != lowerCaser.String(s.Val), nil
	})
	env.RegisterTest("defined", func(v Value, args []Value) (bool, error) {
		_, ok := v.(Undefined)
		return !ok, nil
	})
	env.RegisterTest("undefined", func(v Value, args []Value) (bool, error) {
		_, ok := v.(Undefined)
		return ok, nil
	})
	equalTo := func(v Value, args []Value) (bool, error) {
		if len(args) != 1 {
			return false, arityErrorf("'equalto' requires exactly one argument")
		}
		return LooseEquals(v, args[0]), nil
	}
	env.RegisterTest("equalto", equalTo)
	env.RegisterTest("eq", equalTo)
}
