package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rendergo/jinja/parser"
	"github.com/rendergo/jinja/runtime"
)

func renderErr(t *testing.T, template string, context map[string]interface{}) (string, error) {
	t.Helper()
	program, err := parser.Parse(template)
	require.NoError(t, err, "parse %q", template)
	return runtime.ExecuteProgram(program, context)
}

func TestSetStatementExpressionForm(t *testing.T) {
	require.Equal(t, "6", renderWith(t, "{% set total = 1 + 2 + 3 %}{{ total }}", nil))
}

func TestSetDestructuring(t *testing.T) {
	require.Equal(t, "1-2", renderWith(t, "{% set a, b = pair %}{{ a }}-{{ b }}", map[string]interface{}{
		"pair": []interface{}{1, 2},
	}))
}

func TestForLoopScopeDoesNotLeak(t *testing.T) {
	tmpl := "{% for x in [1,2] %}{% set y = x * 2 %}{{ y }}{% endfor %}{{ y is defined }}"
	require.Equal(t, "24False", renderWith(t, tmpl, nil))
}

func TestNestedForLoops(t *testing.T) {
	tmpl := "{% for x in [1,2] %}{% for y in [3,4] %}{{ x }}{{ y }};{% endfor %}{% endfor %}"
	require.Equal(t, "13;14;23;24;", renderWith(t, tmpl, nil))
}

func TestFilterBlockStatement(t *testing.T) {
	tmpl := "{% filter upper %}hi {{ name }}{% endfilter %}"
	require.Equal(t, "HI THERE", renderWith(t, tmpl, map[string]interface{}{"name": "there"}))
}

func TestMacroArityError(t *testing.T) {
	tmpl := "{% macro m(a) %}{{ a }}{% endmacro %}{{ m() }}"
	_, err := renderErr(t, tmpl, nil)
	require.Error(t, err)
}
