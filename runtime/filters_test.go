package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultFilter(t *testing.T) {
	interp := &Interpreter{Log: defaultLogger}
	env := NewRootEnvironment().Child()

	v, err := interp.applyFilter("default", Undefined{Name: "missing"}, []Value{String{Val: "-"}}, env)
	require.NoError(t, err)
	require.Equal(t, "-", v.String())

	v, err = interp.applyFilter("default", Integer{Val: 0}, []Value{String{Val: "-"}, Boolean{Val: true}}, env)
	require.NoError(t, err)
	require.Equal(t, "-", v.String())

	v, err = interp.applyFilter("default", Integer{Val: 0}, []Value{String{Val: "-"}}, env)
	require.NoError(t, err)
	require.Equal(t, "0", v.String())
}

func TestArraySortAndUnique(t *testing.T) {
	interp := &Interpreter{Log: defaultLogger}
	env := NewRootEnvironment().Child()

	items := []Value{Integer{Val: 3}, Integer{Val: 1}, Integer{Val: 2}}
	v, err := interp.applyFilter("sort", Array{Items: items}, nil, env)
	require.NoError(t, err)
	sorted := v.(Array).Items
	require.Equal(t, int64(1), sorted[0].(Integer).Val)
	require.Equal(t, int64(2), sorted[1].(Integer).Val)
	require.Equal(t, int64(3), sorted[2].(Integer).Val)

	dup := []Value{Integer{Val: 1}, Integer{Val: 1}, Integer{Val: 2}}
	v, err = interp.applyFilter("unique", Array{Items: dup}, nil, env)
	require.NoError(t, err)
	require.Len(t, v.(Array).Items, 2)
}

func TestStringFiltersRoundTrip(t *testing.T) {
	interp := &Interpreter{Log: defaultLogger}
	env := NewRootEnvironment().Child()

	v, err := interp.applyFilter("upper", String{Val: "abc"}, nil, env)
	require.NoError(t, err)
	require.Equal(t, "ABC", v.String())

	v, err = interp.applyFilter("title", String{Val: "hello world"}, nil, env)
	require.NoError(t, err)
	require.Equal(t, "Hello World", v.String())

	v, err = interp.applyFilter("trim", String{Val: "  pad  "}, nil, env)
	require.NoError(t, err)
	require.Equal(t, "pad", v.String())
}

func TestTojsonFilter(t *testing.T) {
	interp := &Interpreter{Log: defaultLogger}
	env := NewRootEnvironment().Child()

	v, err := interp.applyFilter("tojson", Array{Items: []Value{Integer{Val: 1}, Integer{Val: 2}}}, nil, env)
	require.NoError(t, err)
	require.Equal(t, "[1, 2]", v.String())
}

func TestAbsFilter(t *testing.T) {
	interp := &Interpreter{Log: defaultLogger}
	env := NewRootEnvironment().Child()

	v, err := interp.applyFilter("abs", Integer{Val: -5}, nil, env)
	require.NoError(t, err)
	require.Equal(t, int64(5), v.(Integer).Val)
}
