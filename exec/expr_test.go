package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"justina/parser"
	"justina/symbols"
	"justina/token"
)

func newTestEngine() *Engine {
	scopes := symbols.NewScopes()
	prog := token.NewBuffer(0)
	imm := token.NewBuffer(0)
	p := parser.NewState(scopes, prog, imm)
	return NewEngine(scopes, p, prog, nil, nil, nil)
}

// evalSource parses src as one statement into a fresh buffer and evaluates
// its expression tokens directly, independent of the command dispatcher —
// exercising parseExpr/evalExpr's precedence climbing in isolation.
func evalSource(t *testing.T, e *Engine, src string) (int32, float32, token.ValueType) {
	t.Helper()
	buf := token.NewBuffer(0)
	e.Parser.Target = buf
	require.NoError(t, e.Parser.ParseStatement(src+";"))

	rd := token.NewReader(buf, 0)
	require.Equal(t, token.KindReservedWord, rd.Kind())
	rd.ReadResWord()

	v, err := e.evalExpr(rd)
	require.NoError(t, err)
	return v.Long, v.Flt, v.Kind
}

func TestPrecedenceMultiplyBindsTighterThanAdd(t *testing.T) {
	e := newTestEngine()
	l, _, kind := evalSource(t, e, "2+3*4")
	require.Equal(t, token.ValueLong, kind)
	require.EqualValues(t, 14, l)
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	e := newTestEngine()
	l, _, _ := evalSource(t, e, "(2+3)*4")
	require.EqualValues(t, 20, l)
}

func TestUnaryMinusOnFloat(t *testing.T) {
	e := newTestEngine()
	_, f, kind := evalSource(t, e, "-1.5")
	require.Equal(t, token.ValueFloat, kind)
	require.InDelta(t, -1.5, f, 1e-6)
}

func TestPowerIsRightAssociative(t *testing.T) {
	e := newTestEngine()
	// 2**3**2 must read as 2**(3**2) = 2**9 = 512, not (2**3)**2 = 64.
	l, _, _ := evalSource(t, e, "2**3**2")
	require.EqualValues(t, 512, l)
}

func TestComparisonProducesLongBoolEvenForFloatOperands(t *testing.T) {
	e := newTestEngine()
	l, _, kind := evalSource(t, e, "1.5 < 2.5")
	require.Equal(t, token.ValueLong, kind)
	require.EqualValues(t, 1, l)
}

func TestDivisionByZeroIsError(t *testing.T) {
	e := newTestEngine()
	buf := token.NewBuffer(0)
	e.Parser.Target = buf
	require.NoError(t, e.Parser.ParseStatement("1/0;"))

	rd := token.NewReader(buf, 0)
	rd.ReadResWord()
	_, err := e.evalExpr(rd)
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeDivByZero, lerr.Code)
}

func TestBitwiseOperatorsRejectFloatOperands(t *testing.T) {
	e := newTestEngine()
	buf := token.NewBuffer(0)
	e.Parser.Target = buf
	require.NoError(t, e.Parser.ParseStatement("1.5 & 2;"))

	rd := token.NewReader(buf, 0)
	rd.ReadResWord()
	_, err := e.evalExpr(rd)
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeIntegerExpected, lerr.Code)
}

func TestLogicalAndShortCircuitIsNotRequiredButProducesBool(t *testing.T) {
	e := newTestEngine()
	l, _, kind := evalSource(t, e, "1 && 0")
	require.Equal(t, token.ValueLong, kind)
	require.EqualValues(t, 0, l)
}
