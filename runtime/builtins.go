package runtime

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser and lowerCaser give Unicode-correct casing (word
// boundaries beyond ASCII) instead of the deprecated strings.Title,
// grounded on sambeau-basil's golang.org/x/text usage.
var titleCaser = cases.Title(language.Und)
var lowerCaser = cases.Lower(language.Und)
var upperCaser = cases.Upper(language.Und)

func fn(name string, call func(args []Value, env *Environment) (Value, error)) Value {
	return Function{Name: name, Call: func(positional []Value, env *Environment) (Value, error) {
		return call(positional, env)
	}}
}

// splitKwargs separates a trailing KeywordArguments payload (if any)
// from plain positional arguments.
func splitKwargs(args []Value) ([]Value, *Object) {
	if len(args) == 0 {
		return args, nil
	}
	if kw, ok := args[len(args)-1].(KeywordArguments); ok {
		return args[:len(args)-1], kw.Object
	}
	return args, nil
}

func argOr(args []Value, i int, fallback Value) Value {
	if i < len(args) {
		return args[i]
	}
	return fallback
}

func kwargOr(kw *Object, name string, fallback Value) Value {
	if kw == nil {
		return fallback
	}
	if v, ok := kw.Get(name); ok {
		return v
	}
	return fallback
}

// stringBuiltins implements the string method table of spec.md §4.A.
func stringBuiltins(s String) map[string]Value {
	text := s.Val
	return map[string]Value{
		"length": Integer{Val: int64(s.Len())},
		"upper":  fn("upper", func(args []Value, env *Environment) (Value, error) {
			return String{Val: upperCaser.String(text)}, nil
		}),
		"lower": fn("lower", func(args []Value, env *Environment) (Value, error) {
			return String{Val: lowerCaser.String(text)}, nil
		}),
		"strip": fn("strip", func(args []Value, env *Environment) (Value, error) {
			return String{Val: strings.TrimSpace(text)}, nil
		}),
		"lstrip": fn("lstrip", func(args []Value, env *Environment) (Value, error) {
			return String{Val: strings.TrimLeft(text, " \t\r\n\v\f")}, nil
		}),
		"rstrip": fn("rstrip", func(args []Value, env *Environment) (Value, error) {
			return String{Val: strings.TrimRight(text, " \t\r\n\v\f")}, nil
		}),
		"title": fn("title", func(args []Value, env *Environment) (Value, error) {
			return String{Val: TitleCase(text)}, nil
		}),
		"capitalize": fn("capitalize", func(args []Value, env *Environment) (Value, error) {
			return String{Val: Capitalize(text)}, nil
		}),
		"startswith": fn("startswith", func(args []Value, env *Environment) (Value, error) {
			return stringAffix(text, args, strings.HasPrefix)
		}),
		"endswith": fn("endswith", func(args []Value, env *Environment) (Value, error) {
			return stringAffix(text, args, strings.HasSuffix)
		}),
		"split": fn("split", func(args []Value, env *Environment) (Value, error) {
			pos, kw := splitKwargs(args)
			sep := kwargOr(kw, "sep", argOr(pos, 0, Null{}))
			maxsplit := kwargOr(kw, "maxsplit", argOr(pos, 1, Integer{Val: -1}))
			return stringSplit(text, sep, maxsplit)
		}),
		"replace": fn("replace", func(args []Value, env *Environment) (Value, error) {
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
			return stringReplace(text, oldS.Val, newS.Val, count), nil
		}),
	}
}

func stringAffix(text string, args []Value, check func(s, prefix string) bool) (Value, error) {
	if len(args) == 0 {
		return nil, typeErrorf("expected a string or tuple of strings")
	}
	switch v := args[0].(type) {
	case String:
		return Boolean{Val: check(text, v.Val)}, nil
	case Tuple:
		for _, item := range v.Items {
			s, ok := item.(String)
			if !ok {
				return nil, typeErrorf("startswith/endswith tuple elements must be strings")
			}
			if check(text, s.Val) {
				return Boolean{Val: true}, nil
			}
		}
		return Boolean{Val: false}, nil
	default:
		return nil, typeErrorf("expected a string or tuple of strings")
	}
}

// stringSplit implements spec.md's split contract: whitespace-run
// splitting when sep is Null, literal splitting otherwise, with
// maxsplit folding the remainder back together as the last element.
func stringSplit(text string, sepV Value, maxV Value) (Value, error) {
	maxsplit := -1
	if mi, ok := maxV.(Integer); ok {
		maxsplit = int(mi.Val)
	}

	if _, isNull := sepV.(Null); isNull {
		fields := splitWhitespace(text, maxsplit)
		out := make([]Value, len(fields))
		for i, f := range fields {
			out[i] = String{Val: f}
		}
		return Array{Items: out}, nil
	}

	sep, ok := sepV.(String)
	if !ok {
		return nil, typeErrorf("split separator must be a string or none")
	}
	if sep.Val == "" {
		return nil, valueErrorf("empty separator")
	}
	var parts []string
	if maxsplit < 0 {
		parts = strings.Split(text, sep.Val)
	} else {
		parts = strings.SplitN(text, sep.Val, maxsplit+1)
	}
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = String{Val: p}
	}
	return Array{Items: out}, nil
}

// splitWhitespace mimics Python str.split() with no separator: leading
// whitespace is trimmed, runs of whitespace separate fields, and once
// maxsplit fields have been produced the remainder (including
// interior and trailing whitespace) becomes the final field.
func splitWhitespace(text string, maxsplit int) []string {
	var fields []string
	i := 0
	runes := []rune(text)
	n := len(runes)
	skipSpace := func() {
		for i < n && isPySpace(runes[i]) {
			i++
		}
	}
	skipSpace()
	for i < n {
		if maxsplit >= 0 && len(fields) == maxsplit {
			fields = append(fields, string(runes[i:]))
			return fields
		}
		start := i
		for i < n && !isPySpace(runes[i]) {
			i++
		}
		fields = append(fields, string(runes[start:i]))
		skipSpace()
	}
	return fields
}

func isPySpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func stringReplace(text, old, new string, countV Value) Value {
	count := -1
	if ci, ok := countV.(Integer); ok {
		count = int(ci.Val)
	}
	if count < 0 {
		return String{Val: strings.Replace(text, old, new, -1)}
	}
	return String{Val: strings.Replace(text, old, new, count)}
}

// TitleCase title-cases each whitespace-separated word, matching
// Jinja's `title` filter/builtin.
func TitleCase(s string) string {
	words := strings.Fields(s)
	// strings.Fields loses the original spacing; Jinja's title filter
	// is commonly applied to already-normalized text, so fold on runs
	// of whitespace the same way split() does conceptually, but keep
	// the original separators by operating on the raw string instead.
	_ = words
	var b strings.Builder
	atWordStart := true
	for _, r := range s {
		if isPySpace(r) {
			atWordStart = true
			b.WriteRune(r)
			continue
		}
		if atWordStart {
			b.WriteString(titleCaser.String(string(r)))
			atWordStart = false
		} else {
			b.WriteString(lowerCaser.String(string(r)))
		}
	}
	return b.String()
}

// Capitalize upper-cases the first code point and lower-cases the
// rest, matching Python str.capitalize().
func Capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return titleCaser.String(string(runes[0])) + lowerCaser.String(string(runes[1:]))
}

// numericBuiltins implements the small builtin set numbers expose.
func numericBuiltins(v Value) map[string]Value {
	return map[string]Value{}
}

func boolBuiltins(b Boolean) map[string]Value {
	return map[string]Value{}
}

// arrayBuiltins implements the shared Array/Tuple method table.
func arrayBuiltins(items []Value) map[string]Value {
	return map[string]Value{
		"length": Integer{Val: int64(len(items))},
	}
}

// objectBuiltins implements the Object method table: get/keys/values/items.
func objectBuiltins(o *Object) map[string]Value {
	return map[string]Value{
		"length": Integer{Val: int64(len(o.Keys))},
		"get": fn("get", func(args []Value, env *Environment) (Value, error) {
			pos, kw := splitKwargs(args)
			if len(pos) == 0 {
				return nil, typeErrorf("get requires a key argument")
			}
			key, ok := pos[0].(String)
			if !ok {
				return nil, typeErrorf("get key must be a string")
			}
			fallback := kwargOr(kw, "default", argOr(pos, 1, Null{}))
			if v, ok := o.Get(key.Val); ok {
				return v, nil
			}
			return fallback, nil
		}),
		"keys": fn("keys", func(args []Value, env *Environment) (Value, error) {
			out := make([]Value, len(o.Keys))
			for i, k := range o.Keys {
				out[i] = String{Val: k}
			}
			return Array{Items: out}, nil
		}),
		"values": fn("values", func(args []Value, env *Environment) (Value, error) {
			out := make([]Value, len(o.Keys))
			for i, k := range o.Keys {
				out[i] = o.Values[k]
			}
			return Array{Items: out}, nil
		}),
		"items": fn("items", func(args []Value, env *Environment) (Value, error) {
			return objectItems(o), nil
		}),
	}
}

func objectItems(o *Object) Value {
	out := make([]Value, len(o.Keys))
	for i, k := range o.Keys {
		out[i] = Array{Items: []Value{String{Val: k}, o.Values[k]}}
	}
	return Array{Items: out}
}

// sortStrings sorts string values in place with the locale-aware
// stringCollator; there is no byte-order fallback.
func sortStrings(vals []string) {
	sort.Slice(vals, func(i, j int) bool {
		return stringCollator.CompareString(vals[i], vals[j]) < 0
	})
}
