package runtime

import (
	"fmt"
	"math"
	"reflect"
)

// FromHost lifts an arbitrary Go value into the runtime's Value tagged
// variant (spec.md §4.C). Integer-looking numbers become Integer,
// fractional numbers become Float, slices/arrays become Array, maps
// become Object (insertion order is not meaningful for a Go map, so
// keys are emitted in the map's natural iteration order), funcs
// become Function, and nil becomes Null.
//
// Grounded on the teacher's reflect.Kind-switch coercion helpers in
// runtime/environment.go, retargeted at the new Value variants.
func FromHost(v interface{}) Value {
	if v == nil {
		return Null{}
	}
	if val, ok := v.(Value); ok {
		return val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer{Val: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer{Val: int64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return Integer{Val: int64(f)}
		}
		return Float{Val: f}
	case reflect.String:
		return String{Val: rv.String()}
	case reflect.Bool:
		return Boolean{Val: rv.Bool()}
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromHost(rv.Index(i).Interface())
		}
		return Array{Items: items}
	case reflect.Map:
		obj := NewObject()
		for _, key := range rv.MapKeys() {
			obj.Set(keyString(key), FromHost(rv.MapIndex(key).Interface()))
		}
		return obj
	case reflect.Func:
		return hostFunc(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return FromHost(rv.Elem().Interface())
	default:
		return Undefined{}
	}
}

// keyString stringifies an Object key. Go map keys need not be
// strings (spec.md's Object only models string keys), so a non-string
// key is formatted via fmt.Sprint rather than discarded — a
// map[int]string with keys 1 and 2 must not collapse onto the same
// Object key.
func keyString(rv reflect.Value) string {
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(rv.Interface())
}

// hostFunc adapts a Go function value into a runtime Function by
// converting each positional Value back to the matching Go type via
// reflection, then converting the result forward again.
func hostFunc(rv reflect.Value) Value {
	return Function{Call: func(positional []Value, env *Environment) (Value, error) {
		t := rv.Type()
		args := make([]reflect.Value, 0, len(positional))
		for i, p := range positional {
			if i >= t.NumIn() && !t.IsVariadic() {
				break
			}
			args = append(args, reflect.ValueOf(toHost(p)))
		}
		results := rv.Call(args)
		if len(results) == 0 {
			return Null{}, nil
		}
		return FromHost(results[0].Interface()), nil
	}}
}

// toHost converts a Value back into a plain Go value, the inverse of
// FromHost for the common scalar cases. Used only when bridging to
// host-provided Go functions.
func toHost(v Value) interface{} {
	switch t := v.(type) {
	case Integer:
		return t.Val
	case Float:
		return t.Val
	case String:
		return t.Val
	case Boolean:
		return t.Val
	case Null, Undefined:
		return nil
	case Array:
		out := make([]interface{}, len(t.Items))
		for i, it := range t.Items {
			out[i] = toHost(it)
		}
		return out
	case *Object:
		out := map[string]interface{}{}
		for _, k := range t.Keys {
			out[k] = toHost(t.Values[k])
		}
		return out
	default:
		return v
	}
}
