package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rendergo/jinja/lexer"
)

func tokenTypes(toks []lexer.Token) []lexer.TokenType {
	var out []lexer.TokenType
	for _, tok := range toks {
		out = append(out, tok.Type)
	}
	return out
}

func TestTokenizeTextAndVariable(t *testing.T) {
	toks, err := lexer.Tokenize("Hi {{ name }}!")
	require.NoError(t, err)
	require.Equal(t, []lexer.TokenType{
		lexer.TokenText, lexer.TokenVariableStart, lexer.TokenName,
		lexer.TokenVariableEnd, lexer.TokenText, lexer.TokenEOF,
	}, tokenTypes(toks))
	require.Equal(t, "Hi ", toks[0].Value)
	require.Equal(t, "name", toks[2].Value)
	require.Equal(t, "!", toks[4].Value)
}

func TestTokenizeCommentsAreDropped(t *testing.T) {
	toks, err := lexer.Tokenize("a{# drop me #}b")
	require.NoError(t, err)
	require.Equal(t, []lexer.TokenType{lexer.TokenText, lexer.TokenText, lexer.TokenEOF}, tokenTypes(toks))
	require.Equal(t, "a", toks[0].Value)
	require.Equal(t, "b", toks[1].Value)
}

func TestTokenizeUnterminatedComment(t *testing.T) {
	_, err := lexer.Tokenize("a{# never closes")
	require.Error(t, err)
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := lexer.Tokenize(`{{ "a\nb" }}`)
	require.NoError(t, err)
	require.Equal(t, "a\nb", toks[1].Value)
}

func TestTokenizeOperatorLongestMatchFirst(t *testing.T) {
	toks, err := lexer.Tokenize("{{ a == b }}")
	require.NoError(t, err)
	require.Equal(t, lexer.TokenOperator, toks[2].Type)
	require.Equal(t, "==", toks[2].Value)
}

func TestTokenizeNumberForms(t *testing.T) {
	toks, err := lexer.Tokenize("{{ 42 }}{{ 3.14 }}")
	require.NoError(t, err)
	require.Equal(t, lexer.TokenInt, toks[1].Type)
	require.Equal(t, "42", toks[1].Value)
	require.Equal(t, lexer.TokenFloat, toks[4].Type)
	require.Equal(t, "3.14", toks[4].Value)
}

func TestTokenizeBlockTags(t *testing.T) {
	toks, err := lexer.Tokenize("{% if x %}y{% endif %}")
	require.NoError(t, err)
	require.Equal(t, lexer.TokenBlockStart, toks[0].Type)
	require.Equal(t, "if", toks[1].Value)
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	_, err := lexer.Tokenize("{{ @ }}")
	require.Error(t, err)
}

func TestTokenStreamPeekPastEnd(t *testing.T) {
	toks, err := lexer.Tokenize("{{ x }}")
	require.NoError(t, err)
	ts := lexer.NewTokenStream(toks)
	for ts.Peek().Type != lexer.TokenEOF {
		ts.Next()
	}
	require.Equal(t, lexer.TokenEOF, ts.Peek().Type)
	require.Equal(t, lexer.TokenEOF, ts.PeekN(5).Type)
}
