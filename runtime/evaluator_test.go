package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryArithmetic(t *testing.T) {
	require.Equal(t, "7", renderWith(t, "{{ 3 + 4 }}", nil))
	require.Equal(t, "1", renderWith(t, "{{ 7 % 2 }}", nil))
	require.Equal(t, "3.5", renderWith(t, "{{ 7 / 2 }}", nil))
	require.Equal(t, "3", renderWith(t, "{{ 7 // 2 }}", nil))
	require.Equal(t, "8", renderWith(t, "{{ 2 ** 3 }}", nil))
	require.Equal(t, "ab", renderWith(t, `{{ "a" ~ "b" }}`, nil))
}

func TestUnaryMinus(t *testing.T) {
	require.Equal(t, "-5", renderWith(t, "{{ -5 }}", nil))
	require.Equal(t, "5", renderWith(t, "{{ -(-5) }}", nil))
	require.Equal(t, "-2.5", renderWith(t, "{{ -x }}", map[string]interface{}{"x": 2.5}))
}

func TestComparisonChain(t *testing.T) {
	require.Equal(t, "True", renderWith(t, "{{ 1 < 2 }}", nil))
	require.Equal(t, "False", renderWith(t, "{{ 1 == 2 }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ 1 != 2 }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ 2 >= 2 }}", nil))
}

func TestMemberAccessDottedAndBracket(t *testing.T) {
	ctx := map[string]interface{}{
		"user": map[string]interface{}{"name": "Ada", "tags": []interface{}{"x", "y"}},
	}
	require.Equal(t, "Ada", renderWith(t, "{{ user.name }}", ctx))
	require.Equal(t, "Ada", renderWith(t, `{{ user["name"] }}`, ctx))
	require.Equal(t, "y", renderWith(t, "{{ user.tags[1] }}", ctx))
}

func TestSliceBoundForms(t *testing.T) {
	ctx := map[string]interface{}{"xs": []interface{}{0, 1, 2, 3, 4}}
	require.Equal(t, "0,1,2,3,4", renderWith(t, "{{ xs[:] | join(',') }}", ctx))
	require.Equal(t, "1,2", renderWith(t, "{{ xs[1:3] | join(',') }}", ctx))
	require.Equal(t, "3,4", renderWith(t, "{{ xs[-2:] | join(',') }}", ctx))
	require.Equal(t, "0,2,4", renderWith(t, "{{ xs[::2] | join(',') }}", ctx))
}

func TestCallWithSpreadAndKeywordArgs(t *testing.T) {
	tmpl := "{% macro m(a, b, c=9) %}{{ a }}-{{ b }}-{{ c }}{% endmacro %}{{ m(*args, c=5) }}"
	out := renderWith(t, tmpl, map[string]interface{}{"args": []interface{}{1, 2}})
	require.Equal(t, "1-2-5", out)
}

func TestTernaryAndIsTest(t *testing.T) {
	require.Equal(t, "yes", renderWith(t, `{{ "yes" if 1 == 1 else "no" }}`, nil))
	require.Equal(t, "True", renderWith(t, "{{ 4 is even }}", nil))
	require.Equal(t, "False", renderWith(t, "{{ 3 is even }}", nil))
}

func TestInOperator(t *testing.T) {
	require.Equal(t, "True", renderWith(t, `{{ "a" in ["a", "b"] }}`, nil))
	require.Equal(t, "False", renderWith(t, `{{ "z" in ["a", "b"] }}`, nil))
	require.Equal(t, "True", renderWith(t, `{{ "key" in obj }}`, map[string]interface{}{"obj": map[string]interface{}{"key": 1}}))
}
