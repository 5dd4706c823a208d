package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToJSONScalars(t *testing.T) {
	s, err := toJSON(Integer{Val: 3}, 0)
	require.NoError(t, err)
	require.Equal(t, "3", s)

	s, err = toJSON(String{Val: "hi\n"}, 0)
	require.NoError(t, err)
	require.Equal(t, `"hi\n"`, s)

	s, err = toJSON(Null{}, 0)
	require.NoError(t, err)
	require.Equal(t, "null", s)

	s, err = toJSON(Undefined{Name: "x"}, 0)
	require.NoError(t, err)
	require.Equal(t, "null", s)
}

func TestToJSONArrayFlat(t *testing.T) {
	s, err := toJSON(Array{Items: []Value{Integer{Val: 1}, Integer{Val: 2}}}, 0)
	require.NoError(t, err)
	require.Equal(t, "[1, 2]", s)
}

func TestToJSONObjectIndented(t *testing.T) {
	o := NewObject()
	o.Set("a", Integer{Val: 1})
	s, err := toJSON(o, 2)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": 1\n}", s)
}

func TestToJSONRejectsFunction(t *testing.T) {
	_, err := toJSON(Function{Name: "f"}, 0)
	require.Error(t, err)
}
