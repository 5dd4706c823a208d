package runtime

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// stringCollator gives locale-aware ordering to the `sort` filter's
// string path instead of raw byte comparison, grounded on
// sambeau-basil's golang.org/x/text usage elsewhere in this pack.
var stringCollator = collate.New(language.Und)

// applyFilter is the filter registry (spec.md §4.E): dispatch by
// receiver type and filter name, in both the identifier form (args is
// empty) and the call form (args holds evaluated positional/kwargs
// values, grounded on the teacher's FilterFunc dispatch-table shape
// in runtime/filters.go).
func (interp *Interpreter) applyFilter(name string, operand Value, args []Value, env *Environment) (Value, error) {
	if v, ok, err := universalFilter(name, operand, args); ok || err != nil {
		return v, err
	}

	switch receiver := operand.(type) {
	case Array:
		return arrayFilter(name, receiver.Items, args)
	case Tuple:
		return arrayFilter(name, receiver.Items, args)
	case String:
		return stringFilter(name, receiver, args)
	case Integer:
		return numericFilter(name, operand, args)
	case Float:
		return numericFilter(name, operand, args)
	case *Object:
		return objectFilter(name, receiver, args)
	case Boolean:
		return booleanFilter(name, receiver, args)
	default:
		return nil, valueErrorf("unknown filter %q for receiver type %s", name, operand.TypeName())
	}
}

func universalFilter(name string, operand Value, args []Value) (Value, bool, error) {
	switch name {
	case "tojson":
		pos, kw := splitKwargs(args)
		indentV := kwargOr(kw, "indent", argOr(pos, 0, Null{}))
		indent := 0
		if iv, ok := indentV.(Integer); ok {
			indent = int(iv.Val)
		}
		s, err := toJSON(operand, indent)
		if err != nil {
			return nil, true, err
		}
		return String{Val: s}, true, nil
	case "default", "d":
		pos, kw := splitKwargs(args)
		fallback := kwargOr(kw, "value", argOr(pos, 0, String{Val: ""}))
		boolean := kwargOr(kw, "boolean", argOr(pos, 1, Boolean{Val: false}))
		if _, isUndef := operand.(Undefined); isUndef {
			return fallback, true, nil
		}
		if boolean.Truthy() && !operand.Truthy() {
			return fallback, true, nil
		}
		return operand, true, nil
	}
	return nil, false, nil
}

// ---- Array / Tuple filters ----

func arrayFilter(name string, items []Value, args []Value) (Value, error) {
	switch name {
	case "list":
		return Array{Items: items}, nil
	case "first":
		if len(items) == 0 {
			return Undefined{}, nil
		}
		return items[0], nil
	case "last":
		if len(items) == 0 {
			return Undefined{}, nil
		}
		return items[len(items)-1], nil
	case "length":
		return Integer{Val: int64(len(items))}, nil
	case "reverse":
		out := make([]Value, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return Array{Items: out}, nil
	case "sort":
		return sortArray(items)
	case "join":
		pos, kw := splitKwargs(args)
		sep := kwargOr(kw, "sep", argOr(pos, 0, String{Val: ""}))
		sepS, ok := sep.(String)
		if !ok {
			return nil, typeErrorf("join separator must be a string")
		}
		parts := make([]string, len(items))
		for i, v := range items {
			parts[i] = v.String()
		}
		return String{Val: strings.Join(parts, sepS.Val)}, nil
	case "unique":
		var out []Value
		for _, v := range items {
			dup := false
			for _, seen := range out {
				if LooseEquals(v, seen) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, v)
			}
		}
		return Array{Items: out}, nil
	case "string":
		s, err := toJSON(Array{Items: items}, 0)
		if err != nil {
			return nil, err
		}
		return String{Val: s}, nil
	case "selectattr":
		return selectReject(items, args, true)
	case "rejectattr":
		return selectReject(items, args, false)
	case "map":
		return mapFilter(items, args)
	default:
		return nil, valueErrorf("unknown filter %q for array receiver", name)
	}
}

// sortArray sorts by numeric value for numeric items, or
// locale-aware for strings; mixed types are a type error.
func sortArray(items []Value) (Value, error) {
	if len(items) == 0 {
		return Array{Items: items}, nil
	}
	if _, ok := items[0].(String); ok {
		strs := make([]string, len(items))
		for i, v := range items {
			s, ok := v.(String)
			if !ok {
				return nil, typeErrorf("cannot sort a mixed-type array")
			}
			strs[i] = s.Val
		}
		sortStrings(strs)
		out := make([]Value, len(strs))
		for i, s := range strs {
			out[i] = String{Val: s}
		}
		return Array{Items: out}, nil
	}

	nums := make([]float64, len(items))
	for i, v := range items {
		n, ok := asNumber(v)
		if !ok {
			return nil, typeErrorf("cannot sort a mixed-type array")
		}
		nums[i] = n
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return nums[idx[i]] < nums[idx[j]] })
	out := make([]Value, len(items))
	for i, j := range idx {
		out[i] = items[j]
	}
	return Array{Items: out}, nil
}

func selectReject(items []Value, args []Value, keepOnTrue bool) (Value, error) {
	pos, _ := splitKwargs(args)
	if len(pos) == 0 {
		return nil, arityErrorf("selectattr/rejectattr requires an attribute name")
	}
	attrName, ok := pos[0].(String)
	if !ok {
		return nil, typeErrorf("selectattr/rejectattr attribute name must be a string")
	}
	var testName string
	var testArgs []Value
	if len(pos) > 1 {
		tn, ok := pos[1].(String)
		if !ok {
			return nil, typeErrorf("selectattr/rejectattr test name must be a string")
		}
		testName = tn.Val
		testArgs = pos[2:]
	}

	var out []Value
	for _, item := range items {
		obj, ok := item.(*Object)
		if !ok {
			return nil, typeErrorf("selectattr/rejectattr items must be objects")
		}
		attr, _ := obj.Get(attrName.Val)

		var truthy bool
		if testName == "" {
			truthy = attr.Truthy()
		} else {
			fn, found := builtinTestByName(testName)
			if !found {
				return nil, valueErrorf("unknown test %q", testName)
			}
			r, err := fn(attr, testArgs)
			if err != nil {
				return nil, err
			}
			truthy = r
		}
		if truthy == keepOnTrue {
			out = append(out, item)
		}
	}
	return Array{Items: out}, nil
}

// builtinTestByName gives selectattr/rejectattr access to the same
// test implementations the `is` operator uses, without requiring an
// Environment (these are pure functions of value+args).
func builtinTestByName(name string) (TestFunc, bool) {
	root := NewEnvironment(nil)
	registerBuiltinTests(root)
	return root.lookupTest(name)
}

func mapFilter(items []Value, args []Value) (Value, error) {
	pos, kw := splitKwargs(args)
	attr := kwargOr(kw, "attribute", argOr(pos, 0, Null{}))
	attrS, ok := attr.(String)
	if !ok {
		return nil, typeErrorf("map() requires an attribute= argument")
	}
	fallback := kwargOr(kw, "default", Undefined{})

	out := make([]Value, len(items))
	for i, item := range items {
		obj, ok := item.(*Object)
		if !ok {
			return nil, typeErrorf("map() items must be objects")
		}
		v, found := obj.Get(attrS.Val)
		if !found {
			v = fallback
		}
		out[i] = v
	}
	return Array{Items: out}, nil
}

// ---- String filters ----

func stringFilter(name string, s String, args []Value) (Value, error) {
	switch name {
	case "length":
		return Integer{Val: int64(s.Len())}, nil
	case "upper":
		return String{Val: upperCaser.String(s.Val)}, nil
	case "lower":
		return String{Val: lowerCaser.String(s.Val)}, nil
	case "title":
		return String{Val: TitleCase(s.Val)}, nil
	case "capitalize":
		return String{Val: Capitalize(s.Val)}, nil
	case "trim":
		return String{Val: strings.TrimSpace(s.Val)}, nil
	case "indent":
		return indentFilter(s.Val, args)
	case "join":
		return joinStringFilter(s, args)
	case "replace":
		pos, kw := splitKwargs(args)
		if len(pos) < 2 {
			return nil, typeErrorf("replace requires old and new arguments")
		}
		oldS, ok1 := pos[0].(String)
		newS, ok2 := pos[1].(String)
		if !ok1 || !ok2 {
			return nil, typeErrorf("replace requires string arguments")
		}
		count := kwargOr(kw, "count", argOr(pos, 2, Null{}))
		return stringReplace(s.Val, oldS.Val, newS.Val, count), nil
	case "int":
		pos, kw := splitKwargs(args)
		fallback := kwargOr(kw, "default", argOr(pos, 0, Integer{Val: 0}))
		if i, err := strconv.ParseInt(strings.TrimSpace(s.Val), 10, 64); err == nil {
			return Integer{Val: i}, nil
		}
		return fallback, nil
	case "float":
		pos, kw := splitKwargs(args)
		fallback := kwargOr(kw, "default", argOr(pos, 0, Float{Val: 0}))
		if f, err := strconv.ParseFloat(strings.TrimSpace(s.Val), 64); err == nil {
			return Float{Val: f}, nil
		}
		return fallback, nil
	case "string":
		return s, nil
	default:
		return nil, valueErrorf("unknown filter %q for string receiver", name)
	}
}

// indentFilter implements spec.md's indent(width=4, first=False,
// blank=False): every line gets width spaces prefixed, except the
// first line unless first=True, and blank lines unless blank=True.
func indentFilter(text string, args []Value) (Value, error) {
	pos, kw := splitKwargs(args)
	widthV := kwargOr(kw, "width", argOr(pos, 0, Integer{Val: 4}))
	firstV := kwargOr(kw, "first", argOr(pos, 1, Boolean{Val: false}))
	blankV := kwargOr(kw, "blank", argOr(pos, 2, Boolean{Val: false}))

	width := 4
	if wi, ok := widthV.(Integer); ok {
		width = int(wi.Val)
	}
	pad := strings.Repeat(" ", width)
	first := firstV.Truthy()
	blank := blankV.Truthy()

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 && !first {
			continue
		}
		if line == "" && !blank {
			continue
		}
		lines[i] = pad + line
	}
	return String{Val: strings.Join(lines, "\n")}, nil
}

func joinStringFilter(s String, args []Value) (Value, error) {
	pos, kw := splitKwargs(args)
	sep := kwargOr(kw, "sep", argOr(pos, 0, String{Val: ""}))
	sepS, ok := sep.(String)
	if !ok {
		return nil, typeErrorf("join separator must be a string")
	}
	runes := s.Runes()
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return String{Val: strings.Join(parts, sepS.Val)}, nil
}

// ---- Numeric filters ----

func numericFilter(name string, v Value, args []Value) (Value, error) {
	switch name {
	case "abs":
		switch n := v.(type) {
		case Integer:
			if n.Val < 0 {
				return Integer{Val: -n.Val}, nil
			}
			return n, nil
		case Float:
			if n.Val < 0 {
				return Float{Val: -n.Val}, nil
			}
			return n, nil
		}
	case "int":
		f, _ := asNumber(v)
		return Integer{Val: int64(f)}, nil
	case "float":
		f, _ := asNumber(v)
		return Float{Val: f}, nil
	}
	return nil, valueErrorf("unknown filter %q for numeric receiver", name)
}

// ---- Object filters ----

func objectFilter(name string, o *Object, args []Value) (Value, error) {
	switch name {
	case "items":
		return objectItems(o), nil
	case "length":
		return Integer{Val: int64(len(o.Keys))}, nil
	default:
		return nil, valueErrorf("unknown filter %q for object receiver", name)
	}
}

// ---- Boolean filters ----

func booleanFilter(name string, b Boolean, args []Value) (Value, error) {
	switch name {
	case "bool":
		return b, nil
	case "int":
		if b.Val {
			return Integer{Val: 1}, nil
		}
		return Integer{Val: 0}, nil
	case "float":
		if b.Val {
			return Float{Val: 1}, nil
		}
		return Float{Val: 0}, nil
	case "string":
		return String{Val: b.String()}, nil
	default:
		return nil, valueErrorf("unknown filter %q for boolean receiver", name)
	}
}
