package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTestsAgainstScalars(t *testing.T) {
	require.Equal(t, "True", renderWith(t, "{{ 3 is odd }}", nil))
	require.Equal(t, "False", renderWith(t, "{{ 4 is odd }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ none is none }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ 'abc' is string }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ 5 is number }}", nil))
	require.Equal(t, "False", renderWith(t, "{{ true is number }}", nil))
}

func TestIsEqualtoAndNegation(t *testing.T) {
	require.Equal(t, "True", renderWith(t, "{{ 3 is equalto(3) }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ 3 is eq(3) }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ 3 is not equalto(4) }}", nil))
}

func TestIsLowerUpper(t *testing.T) {
	require.Equal(t, "True", renderWith(t, "{{ 'abc' is lower }}", nil))
	require.Equal(t, "False", renderWith(t, "{{ 'ABC' is lower }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ 'ABC' is upper }}", nil))
}

func TestIsDefinedUndefined(t *testing.T) {
	require.Equal(t, "False", renderWith(t, "{{ missing is defined }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ missing is undefined }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ x is defined }}", map[string]interface{}{"x": 1}))
}

func TestIsIterableMapping(t *testing.T) {
	require.Equal(t, "True", renderWith(t, "{{ [1,2] is iterable }}", nil))
	require.Equal(t, "True", renderWith(t, "{{ obj is mapping }}", map[string]interface{}{"obj": map[string]interface{}{"a": 1}}))
	require.Equal(t, "False", renderWith(t, "{{ 1 is mapping }}", nil))
}
