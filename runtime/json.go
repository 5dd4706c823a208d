package runtime

import (
	"strconv"
	"strings"
)

// toJSON renders v as JSON text (spec.md §4.G). indent<=0 means the
// flat form (", "-separated); indent>0 means indent spaces per depth
// level with a trailing newline-free final brace, matching Python's
// json.dumps(value, indent=N) layout that `tojson` is built to mimic.
//
// Hand-rolled rather than built on encoding/json: see DESIGN.md for
// why — briefly, we need to keep the Integer/Float distinction,
// render Undefined as null, and reject Function with a typed error,
// none of which Marshal gives us without first losing information by
// roundtripping through interface{}.
func toJSON(v Value, indent int) (string, error) {
	var b strings.Builder
	if err := writeJSON(&b, v, indent, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(b *strings.Builder, v Value, indent, depth int) error {
	switch val := v.(type) {
	case Null, Undefined:
		b.WriteString("null")
	case Integer:
		b.WriteString(strconv.FormatInt(val.Val, 10))
	case Float:
		b.WriteString(val.String())
	case Boolean:
		if val.Val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case String:
		writeJSONString(b, val.Val)
	case Array:
		return writeJSONSeq(b, val.Items, indent, depth, '[', ']')
	case Tuple:
		return writeJSONSeq(b, val.Items, indent, depth, '[', ']')
	case *Object:
		return writeJSONObject(b, val, indent, depth)
	case KeywordArguments:
		return writeJSONObject(b, val.Object, indent, depth)
	case Function:
		return typeErrorf("cannot serialize a function to JSON")
	default:
		return typeErrorf("cannot serialize value of type %s to JSON", v.TypeName())
	}
	return nil
}

func writeJSONSeq(b *strings.Builder, items []Value, indent, depth int, open, close byte) error {
	b.WriteByte(open)
	if len(items) == 0 {
		b.WriteByte(close)
		return nil
	}
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
			if indent <= 0 {
				b.WriteByte(' ')
			}
		}
		writeJSONNewlineIndent(b, indent, depth+1)
		if err := writeJSON(b, item, indent, depth+1); err != nil {
			return err
		}
	}
	writeJSONNewlineIndent(b, indent, depth)
	b.WriteByte(close)
	return nil
}

func writeJSONObject(b *strings.Builder, obj *Object, indent, depth int) error {
	b.WriteByte('{')
	if len(obj.Keys) == 0 {
		b.WriteByte('}')
		return nil
	}
	for i, k := range obj.Keys {
		if i > 0 {
			b.WriteByte(',')
			if indent <= 0 {
				b.WriteByte(' ')
			}
		}
		writeJSONNewlineIndent(b, indent, depth+1)
		writeJSONString(b, k)
		b.WriteString(": ")
		if err := writeJSON(b, obj.Values[k], indent, depth+1); err != nil {
			return err
		}
	}
	writeJSONNewlineIndent(b, indent, depth)
	b.WriteByte('}')
	return nil
}

func writeJSONNewlineIndent(b *strings.Builder, indent, depth int) {
	if indent <= 0 {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", indent*depth))
}

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString("\\u")
				b.WriteString(hexPad(r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

func hexPad(r rune) string {
	const hexDigits = "0123456789abcdef"
	out := [4]byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && r > 0; i-- {
		out[i] = hexDigits[r&0xF]
		r >>= 4
	}
	return string(out[:])
}
