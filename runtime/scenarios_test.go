package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rendergo/jinja/parser"
	"github.com/rendergo/jinja/runtime"
)

func renderWith(t *testing.T, template string, context map[string]interface{}) string {
	t.Helper()
	program, err := parser.Parse(template)
	require.NoError(t, err, "parse %q", template)
	out, err := runtime.ExecuteProgram(program, context)
	require.NoError(t, err, "render %q", template)
	return out
}

func TestScenarioTruthyAndOr(t *testing.T) {
	require.Equal(t, "x", renderWith(t, "{{ 0 or 'x' }}", nil))
	require.Equal(t, "x", renderWith(t, "{{ [] or 'x' }}", nil))
	require.Equal(t, "z", renderWith(t, "{{ 'y' and 'z' }}", nil))
}

func TestScenarioForWithElse(t *testing.T) {
	tmpl := "{% for x in xs %}{{ x }}{% else %}none{% endfor %}"
	require.Equal(t, "none", renderWith(t, tmpl, map[string]interface{}{"xs": []interface{}{}}))
	require.Equal(t, "12", renderWith(t, tmpl, map[string]interface{}{"xs": []interface{}{1, 2}}))
}

func TestScenarioMacroDefaultsAndCaller(t *testing.T) {
	tmpl := "{% macro m(a, b=2) %}{{ a }}-{{ b }}-{{ caller() }}{% endmacro %}{% call m(1) %}hi{% endcall %}"
	require.Equal(t, "1-2-hi", renderWith(t, tmpl, nil))
}

func TestScenarioSliceWithNegativeStep(t *testing.T) {
	require.Equal(t, "edcba", renderWith(t, `{{ "abcde"[::-1] }}`, nil))
	require.Equal(t, "23", renderWith(t, "{{ [1,2,3,4][1:3] | join }}", nil))
}

func TestScenarioDestructuringFor(t *testing.T) {
	tmpl := "{% for k, v in items %}{{ k }}={{ v }};{% endfor %}"
	items := []interface{}{
		[]interface{}{"a", 1},
		[]interface{}{"b", 2},
	}
	require.Equal(t, "a=1;b=2;", renderWith(t, tmpl, map[string]interface{}{"items": items}))
}

func TestScenarioDefaultFilter(t *testing.T) {
	require.Equal(t, "-", renderWith(t, `{{ missing | default("-") }}`, nil))
	require.Equal(t, "-", renderWith(t, `{{ 0 | default("-", true) }}`, nil))
	require.Equal(t, "0", renderWith(t, `{{ 0 | default("-") }}`, nil))
}

func TestLoopMetadataInvariant(t *testing.T) {
	tmpl := "{% for x in xs %}{{ loop.index0 }}+{{ loop.revindex0 }}+1=={{ loop.length }};{% endfor %}"
	out := renderWith(t, tmpl, map[string]interface{}{"xs": []interface{}{"a", "b", "c"}})
	require.Equal(t, "0+2+1==3;1+1+1==3;2+0+1==3;", out)
}

func TestUndefinedLookup(t *testing.T) {
	require.Equal(t, "fb", renderWith(t, `{{ undefined_var or "fb" }}`, nil))
	require.Equal(t, "False", renderWith(t, "{{ undefined_var is defined }}", nil))
}

func TestIfElifElse(t *testing.T) {
	tmpl := "{% if n == 1 %}one{% elif n == 2 %}two{% else %}many{% endif %}"
	require.Equal(t, "one", renderWith(t, tmpl, map[string]interface{}{"n": 1}))
	require.Equal(t, "two", renderWith(t, tmpl, map[string]interface{}{"n": 2}))
	require.Equal(t, "many", renderWith(t, tmpl, map[string]interface{}{"n": 3}))
}

func TestBreakContinue(t *testing.T) {
	tmpl := "{% for x in xs %}{% if x == 3 %}{% break %}{% endif %}{{ x }}{% endfor %}"
	require.Equal(t, "12", renderWith(t, tmpl, map[string]interface{}{"xs": []interface{}{1, 2, 3, 4}}))

	tmpl2 := "{% for x in xs %}{% if x == 2 %}{% continue %}{% endif %}{{ x }}{% endfor %}"
	require.Equal(t, "134", renderWith(t, tmpl2, map[string]interface{}{"xs": []interface{}{1, 2, 3, 4}}))
}

func TestSetStatementBlockForm(t *testing.T) {
	tmpl := "{% set greeting %}Hello, {{ name }}!{% endset %}{{ greeting | upper }}"
	require.Equal(t, "HELLO, WORLD!", renderWith(t, tmpl, map[string]interface{}{"name": "world"}))
}

func TestToJSONFilter(t *testing.T) {
	// A single-key object sidesteps Go's unordered map iteration so the
	// rendered JSON text is deterministic to assert on exactly.
	out := renderWith(t, "{{ data | tojson }}", map[string]interface{}{
		"data": map[string]interface{}{"count": 3},
	})
	require.Equal(t, `{"count": 3}`, out)
}

func TestSelectattrAndMap(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"name": "a", "active": true},
		map[string]interface{}{"name": "b", "active": false},
		map[string]interface{}{"name": "c", "active": true},
	}
	tmpl := "{{ items | selectattr('active') | map(attribute='name') | join(',') }}"
	require.Equal(t, "a,c", renderWith(t, tmpl, map[string]interface{}{"items": items}))
}
