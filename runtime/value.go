package runtime

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value is the runtime's tagged variant: every value flowing through
// the evaluator is one of the concrete types below. Dispatch is by a
// type switch over these concrete types, never by a type hierarchy — mirrors spec.md's
// "closed tagged variant" instruction rather than the teacher's
// reflect.Kind-driven interface{} model.
type Value interface {
	// TypeName returns the stable tag used in error messages, e.g.
	// "IntegerValue".
	TypeName() string
	// Truthy reports this value's boolean coercion under Python
	// truthiness rules (spec.md §3).
	Truthy() bool
	// String renders the value the way it appears in output.
	String() string
	// Builtins returns the per-type method/attribute table. Returned
	// fresh each call because some builtins (methods) close over the
	// receiver.
	Builtins() map[string]Value
}

// Integer is a 64-bit signed whole number.
type Integer struct{ Val int64 }

func (Integer) TypeName() string       { return "IntegerValue" }
func (i Integer) Truthy() bool         { return i.Val != 0 }
func (i Integer) String() string       { return strconv.FormatInt(i.Val, 10) }
func (i Integer) Builtins() map[string]Value {
	return numericBuiltins(i)
}

// Float is a 64-bit floating point number. It stringifies with a
// trailing ".0" when it holds an integral value, matching Python.
type Float struct{ Val float64 }

func (Float) TypeName() string { return "FloatValue" }
func (f Float) Truthy() bool   { return f.Val != 0 }
func (f Float) String() string {
	if f.Val == float64(int64(f.Val)) {
		return strconv.FormatInt(int64(f.Val), 10) + ".0"
	}
	return strconv.FormatFloat(f.Val, 'g', -1, 64)
}
func (f Float) Builtins() map[string]Value { return numericBuiltins(f) }

// String is a Unicode string; iteration is by code point.
type String struct{ Val string }

func (String) TypeName() string       { return "StringValue" }
func (s String) Truthy() bool         { return s.Val != "" }
func (s String) String() string       { return s.Val }
func (s String) Builtins() map[string]Value { return stringBuiltins(s) }

// Runes returns the string's code points.
func (s String) Runes() []rune { return []rune(s.Val) }

// Len returns the string's code point count.
func (s String) Len() int { return utf8.RuneCountInString(s.Val) }

// Boolean is a true/false value.
type Boolean struct{ Val bool }

func (Boolean) TypeName() string { return "BooleanValue" }
func (b Boolean) Truthy() bool   { return b.Val }
func (b Boolean) String() string {
	if b.Val {
		return "True"
	}
	return "False"
}
func (b Boolean) Builtins() map[string]Value { return boolBuiltins(b) }

// Null is the explicit absence value (Jinja's `none`).
type Null struct{}

func (Null) TypeName() string            { return "NullValue" }
func (Null) Truthy() bool                { return false }
func (Null) String() string              { return "" }
func (Null) Builtins() map[string]Value  { return map[string]Value{} }

// Undefined marks a variable that was never bound. Distinct from
// Null throughout the evaluator.
type Undefined struct{ Name string }

func (Undefined) TypeName() string           { return "UndefinedValue" }
func (Undefined) Truthy() bool               { return false }
func (Undefined) String() string             { return "" }
func (Undefined) Builtins() map[string]Value { return map[string]Value{} }

// Array is a mutable, order-preserving list.
type Array struct{ Items []Value }

func (Array) TypeName() string { return "ArrayValue" }
func (a Array) Truthy() bool   { return len(a.Items) > 0 }
func (a Array) String() string {
	parts := make([]string, len(a.Items))
	for i, v := range a.Items {
		parts[i] = reprOf(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a Array) Builtins() map[string]Value { return arrayBuiltins(a.Items) }

// Tuple is identical to Array except for its tag; it participates in
// destructuring assignment.
type Tuple struct{ Items []Value }

func (Tuple) TypeName() string { return "TupleValue" }
func (t Tuple) Truthy() bool   { return len(t.Items) > 0 }
func (t Tuple) String() string {
	parts := make([]string, len(t.Items))
	for i, v := range t.Items {
		parts[i] = reprOf(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t Tuple) Builtins() map[string]Value { return arrayBuiltins(t.Items) }

// Object is an insertion-ordered string-keyed mapping.
type Object struct {
	Keys   []string
	Values map[string]Value
}

// NewObject returns an empty, ready-to-use Object.
func NewObject() *Object {
	return &Object{Values: map[string]Value{}}
}

func (*Object) TypeName() string { return "ObjectValue" }
func (o *Object) Truthy() bool   { return len(o.Keys) > 0 }
func (o *Object) String() string {
	parts := make([]string, len(o.Keys))
	for i, k := range o.Keys {
		parts[i] = reprString(k) + ": " + reprOf(o.Values[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (o *Object) Builtins() map[string]Value { return objectBuiltins(o) }

// Get returns the value stored at key, or (Undefined, false).
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.Values[key]
	if !ok {
		return Undefined{Name: key}, false
	}
	return v, true
}

// Set writes key=value, appending key to the insertion order if new.
func (o *Object) Set(key string, value Value) {
	if _, exists := o.Values[key]; !exists {
		o.Keys = append(o.Keys, key)
	}
	o.Values[key] = value
}

// KeywordArguments is a distinguished Object subtype marking a kwargs
// payload appended to a call's positional arguments.
type KeywordArguments struct{ *Object }

func (KeywordArguments) TypeName() string { return "KeywordArgumentsValue" }

// Function is a callable value. Positional holds already-evaluated
// arguments (a trailing KeywordArguments value if the call site
// supplied kwargs); env is the scope active at the call site.
type Function struct {
	Name string
	Call func(positional []Value, env *Environment) (Value, error)
}

func (Function) TypeName() string { return "FunctionValue" }
func (Function) Truthy() bool     { return true }
func (f Function) String() string {
	if f.Name != "" {
		return "<function " + f.Name + ">"
	}
	return "<function>"
}
func (Function) Builtins() map[string]Value { return map[string]Value{} }

// reprOf renders a value the way it would appear nested inside a
// container's own String(), e.g. quoting strings.
func reprOf(v Value) string {
	if s, ok := v.(String); ok {
		return reprString(s.Val)
	}
	return v.String()
}

func reprString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

// LooseEquals implements Jinja/Python-style `==`: numeric kinds
// compare across Integer/Float/Boolean by numeric value; everything
// else compares structurally within the same tag.
func LooseEquals(a, b Value) bool {
	if af, aok := asNumber(a); aok {
		if bf, bok := asNumber(b); bok {
			return af == bf
		}
		return false
	}
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av.Val == bv.Val
	case Null:
		_, ok := b.(Null)
		return ok
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !LooseEquals(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !LooseEquals(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || len(av.Keys) != len(bv.Keys) {
			return false
		}
		for _, k := range av.Keys {
			bval, exists := bv.Values[k]
			if !exists || !LooseEquals(av.Values[k], bval) {
				return false
			}
		}
		return true
	}
	return false
}

// asNumber reports the numeric value of Integer/Float/Boolean
// receivers, used by LooseEquals and arithmetic promotion.
func asNumber(v Value) (float64, bool) {
	switch n := v.(type) {
	case Integer:
		return float64(n.Val), true
	case Float:
		return n.Val, true
	case Boolean:
		if n.Val {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// TypeError is returned when an operator, filter, or builtin receives
// a value of a type it cannot handle.
type TypeError struct{ Message string }

func (e *TypeError) Error() string { return e.Message }

func typeErrorf(format string, args ...interface{}) error {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}
