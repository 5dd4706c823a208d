package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMacroDefaultsEvaluatedInCallScope(t *testing.T) {
	tmpl := "{% macro greet(name, greeting=prefix) %}{{ greeting }}, {{ name }}{% endmacro %}{{ greet('Ada') }}"
	out := renderWith(t, tmpl, map[string]interface{}{"prefix": "Hi"})
	require.Equal(t, "Hi, Ada", out)
}

func TestMacroKeywordOverridesDefault(t *testing.T) {
	tmpl := "{% macro greet(name, greeting='Hi') %}{{ greeting }}, {{ name }}{% endmacro %}{{ greet('Ada', greeting='Yo') }}"
	require.Equal(t, "Yo, Ada", renderWith(t, tmpl, nil))
}

func TestMacroMissingRequiredArgErrors(t *testing.T) {
	tmpl := "{% macro m(a, b) %}{{ a }}{{ b }}{% endmacro %}{{ m(1) }}"
	_, err := renderErr(t, tmpl, nil)
	require.Error(t, err)
}

func TestMacroRecursion(t *testing.T) {
	tmpl := "{% macro count(n) %}{% if n > 0 %}{{ n }}{{ count(n - 1) }}{% endif %}{% endmacro %}{{ count(3) }}"
	require.Equal(t, "321", renderWith(t, tmpl, nil))
}
