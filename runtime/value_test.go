package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthiness(t *testing.T) {
	require.False(t, Integer{Val: 0}.Truthy())
	require.True(t, Integer{Val: 1}.Truthy())
	require.False(t, String{Val: ""}.Truthy())
	require.True(t, String{Val: "x"}.Truthy())
	require.False(t, Array{}.Truthy())
	require.True(t, Array{Items: []Value{Integer{Val: 1}}}.Truthy())
	require.False(t, Null{}.Truthy())
	require.False(t, Undefined{}.Truthy())
	require.False(t, NewObject().Truthy())
}

func TestLooseEqualsCrossType(t *testing.T) {
	require.True(t, LooseEquals(Integer{Val: 1}, Float{Val: 1.0}))
	require.True(t, LooseEquals(Integer{Val: 1}, Boolean{Val: true}))
	require.True(t, LooseEquals(Integer{Val: 0}, Boolean{Val: false}))
	require.False(t, LooseEquals(Integer{Val: 2}, Boolean{Val: true}))
	require.True(t, LooseEquals(String{Val: "a"}, String{Val: "a"}))
	require.False(t, LooseEquals(String{Val: "a"}, String{Val: "b"}))
}

func TestFloatStringKeepsTrailingZero(t *testing.T) {
	require.Equal(t, "1.0", Float{Val: 1.0}.String())
	require.Equal(t, "1.5", Float{Val: 1.5}.String())
}

func TestObjectInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", Integer{Val: 2})
	o.Set("a", Integer{Val: 1})
	require.Equal(t, []string{"b", "a"}, o.Keys)
}
