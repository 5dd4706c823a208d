package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rendergo/jinja/nodes"
	"github.com/rendergo/jinja/parser"
)

func TestParseIfElifElse(t *testing.T) {
	prog, err := parser.Parse("{% if a %}x{% elif b %}y{% else %}z{% endif %}")
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)
	ifNode, ok := prog.Body[0].(*nodes.If)
	require.True(t, ok)
	require.Len(t, ifNode.Alternate, 1)
	elif, ok := ifNode.Alternate[0].(*nodes.If)
	require.True(t, ok)
	require.Len(t, elif.Alternate, 1)
}

func TestParseForWithSelectAndElse(t *testing.T) {
	prog, err := parser.Parse("{% for x in xs if x %}{{ x }}{% else %}none{% endfor %}")
	require.NoError(t, err)
	forNode, ok := prog.Body[0].(*nodes.For)
	require.True(t, ok)
	require.IsType(t, &nodes.SelectExpression{}, forNode.Iterable)
	require.Len(t, forNode.DefaultBlock, 1)
}

func TestParseForDestructuring(t *testing.T) {
	prog, err := parser.Parse("{% for k, v in items %}{{ k }}{% endfor %}")
	require.NoError(t, err)
	forNode := prog.Body[0].(*nodes.For)
	require.IsType(t, &nodes.TupleLiteral{}, forNode.LoopVar)
}

func TestParseCallBlockWithArgs(t *testing.T) {
	prog, err := parser.Parse("{% call(x) wrap() %}body{% endcall %}")
	require.NoError(t, err)
	call, ok := prog.Body[0].(*nodes.CallStatement)
	require.True(t, ok)
	require.Len(t, call.CallerArgs, 1)
	require.Equal(t, "x", call.CallerArgs[0].Name)
}

func TestParseFilterBlock(t *testing.T) {
	prog, err := parser.Parse("{% filter upper %}hi{% endfilter %}")
	require.NoError(t, err)
	f, ok := prog.Body[0].(*nodes.FilterStatement)
	require.True(t, ok)
	require.Equal(t, "upper", f.Filter.Name)
}

func TestParseSliceAllForms(t *testing.T) {
	prog, err := parser.Parse("{{ xs[1:3:2] }}")
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)
	require.IsType(t, &nodes.SliceExpression{}, prog.Body[0])
}

func TestParseSetBlockForm(t *testing.T) {
	prog, err := parser.Parse("{% set x %}hi{% endset %}")
	require.NoError(t, err)
	s, ok := prog.Body[0].(*nodes.SetStatement)
	require.True(t, ok)
	require.Nil(t, s.Value)
	require.Len(t, s.Body, 1)
}

func TestParseUnknownTagErrors(t *testing.T) {
	_, err := parser.Parse("{% bogus %}x{% endbogus %}")
	require.Error(t, err)
}

func TestParseTrailingTokensError(t *testing.T) {
	_, err := parser.Parse("{% endif %}")
	require.Error(t, err)
}
