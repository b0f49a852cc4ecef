package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"justina/symbols"
	"justina/token"
)

func newTestState() *State {
	scopes := symbols.NewScopes()
	prog := token.NewBuffer(0)
	imm := token.NewBuffer(0)
	return NewState(scopes, prog, imm)
}

func TestParseStatementBareExpressionEmitsResNone(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement("1+2;"))

	rd := token.NewReader(s.ProgBuf, 0)
	require.Equal(t, token.KindReservedWord, rd.Kind())
	code, _, isBlock := rd.ReadResWord()
	require.Equal(t, token.ResNone, code)
	require.False(t, isBlock)
	require.Equal(t, token.KindConstant, rd.Kind())
}

func TestParseStatementEmptyStatementEmitsNothing(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement(";"))
	require.Zero(t, s.ProgBuf.Len())
}

func TestParseIfEndBlockLinkageRoundTrips(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement("if 1;"))
	ifPos := s.BlockStack[len(s.BlockStack)-1].OpenPos

	require.NoError(t, s.ParseStatement("end;"))
	endPos := s.ProgBuf.ReadStep(ifPos)

	require.Equal(t, ifPos, s.ProgBuf.ReadStep(endPos))
	require.Empty(t, s.BlockStack)
}

func TestParseEndWithoutMatchingBlockFails(t *testing.T) {
	s := newTestState()
	err := s.ParseStatement("end;")
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeUnmatchedBlock, lerr.Code)
}

func TestParseBreakOutsideLoopFails(t *testing.T) {
	s := newTestState()
	err := s.ParseStatement("break;")
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeNoOpenLoop, lerr.Code)
}

func TestParseBreakInsideForSucceeds(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement("for i = 1, 3;"))
	require.NoError(t, s.ParseStatement("break;"))
	require.NoError(t, s.ParseStatement("end;"))
}

func TestParseReturnOutsideFunctionFails(t *testing.T) {
	s := newTestState()
	err := s.ParseStatement("return;")
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeNoOpenFunction, lerr.Code)
}

func TestParseNestedFunctionDefinitionFails(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement("function f()"))
	err := s.ParseStatement("function g()")
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeCommandNotAllowedHere, lerr.Code)
}

func TestParseVarRedeclarationFails(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement("var x = 1;"))
	err := s.ParseStatement("var x = 2;")
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeVarRedeclared, lerr.Code)
}

// At top level an unresolved bare name is auto-created as a user variable
// (needed for immediate-mode control variables like a bare `for i=1,3`)
// rather than rejected.
func TestParseTopLevelUndeclaredVariableAutoCreatesUserVar(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement("y;"))

	uIdx, ok := s.Scopes.UserNames.Lookup("y")
	require.True(t, ok)
	_, ok = s.Scopes.User.Lookup(uIdx)
	require.True(t, ok)
}

// Inside a function body every name must already be a declared parameter
// or local — there is no auto-create fallback there.
func TestParseUndeclaredVariableInsideFunctionFails(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement("function f();"))
	err := s.ParseStatement("y;")
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeVarUndeclared, lerr.Code)
}

func TestParseUnmatchedCloseParenFails(t *testing.T) {
	s := newTestState()
	err := s.ParseStatement("1);")
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeUnmatchedParen, lerr.Code)
}

func TestInternConstStringDedupesByValue(t *testing.T) {
	s := newTestState()
	a := s.internConstString("hello")
	b := s.internConstString("world")
	c := s.internConstString("hello")

	require.Equal(t, a, c)
	require.NotEqual(t, a, b)
	require.Equal(t, "hello", s.ConstString(a))
	require.Equal(t, "world", s.ConstString(b))
}

func TestParseArrayDeclarationWithoutInitializerZeroFills(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.ParseStatement("var a(3);"))

	nameIdx, ok := s.Scopes.ProgramNames.Lookup("a")
	require.True(t, ok)
	slot, ok := s.Scopes.Global.Lookup(nameIdx)
	require.True(t, ok)
	arr := s.Scopes.Global.Values[slot].Arr
	require.NotNil(t, arr)
	require.EqualValues(t, 3, arr.ElemCount())
}
