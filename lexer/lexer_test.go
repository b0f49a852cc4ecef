package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"justina/token"
)

func scanAll(t *testing.T, src string) []token.Lex {
	t.Helper()
	toks, err := New(src).Scan()
	require.NoError(t, err)
	return toks
}

func TestScanIdentifiersAndKeywordsLikeText(t *testing.T) {
	toks := scanAll(t, "var count")
	require.Len(t, toks, 3) // "var", "count", EOF
	require.Equal(t, token.LexIdentifier, toks[0].Kind)
	require.Equal(t, "var", toks[0].Text)
	require.Equal(t, token.LexIdentifier, toks[1].Kind)
	require.Equal(t, "count", toks[1].Text)
	require.Equal(t, token.LexEOF, toks[2].Kind)
}

func TestScanIntLiteralDecimal(t *testing.T) {
	toks := scanAll(t, "42")
	require.Equal(t, token.LexIntLiteral, toks[0].Kind)
	require.EqualValues(t, 42, toks[0].IntVal)
}

func TestScanIntLiteralHexAndBinary(t *testing.T) {
	toks := scanAll(t, "0xFF")
	require.Equal(t, token.LexIntLiteral, toks[0].Kind)
	require.EqualValues(t, 255, toks[0].IntVal)

	toks = scanAll(t, "0b101")
	require.Equal(t, token.LexIntLiteral, toks[0].Kind)
	require.EqualValues(t, 5, toks[0].IntVal)
}

func TestScanFloatLiteralWithExponent(t *testing.T) {
	toks := scanAll(t, "1.5e2")
	require.Equal(t, token.LexFloatLiteral, toks[0].Kind)
	require.InDelta(t, 150.0, toks[0].FloatVal, 0.001)
}

func TestScanStringLiteralWithEscapes(t *testing.T) {
	toks := scanAll(t, `"he said \"hi\""`)
	require.Equal(t, token.LexStringLiteral, toks[0].Kind)
	require.Equal(t, `he said "hi"`, toks[0].StrVal)
}

func TestScanStringLiteralTooLongFails(t *testing.T) {
	long := ""
	for i := 0; i < 61; i++ {
		long += "a"
	}
	_, err := New(`"` + long + `"`).Scan()
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeLexStringTooLong, lerr.Code)
}

func TestScanUnterminatedStringFails(t *testing.T) {
	_, err := New(`"unterminated`).Scan()
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeLexUnterminatedString, lerr.Code)
}

func TestScanOperatorsLongestMatchFirst(t *testing.T) {
	toks := scanAll(t, ">>=")
	require.Equal(t, token.LexTerminal, toks[0].Kind)
	require.Equal(t, token.TermShrAssign, toks[0].Term)
	require.Equal(t, token.LexEOF, toks[1].Kind)
}

func TestScanSkipsLineAndBlockComments(t *testing.T) {
	toks := scanAll(t, "1 // trailing comment\n+ /* block */ 2")
	require.Len(t, toks, 4) // 1, +, 2, EOF
	require.Equal(t, token.LexIntLiteral, toks[0].Kind)
	require.Equal(t, token.LexTerminal, toks[1].Kind)
	require.Equal(t, token.TermPlus, toks[1].Term)
	require.Equal(t, token.LexIntLiteral, toks[2].Kind)
}

func TestScanUnterminatedBlockCommentFails(t *testing.T) {
	_, err := New("1 /* never closes").Scan()
	require.Error(t, err)
}
