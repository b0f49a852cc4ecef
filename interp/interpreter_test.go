package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"justina/token"
)

func TestNewWithZeroConfigProducesUsableInterpreter(t *testing.T) {
	ip := New(Config{})
	require.NotNil(t, ip.Scopes)
	require.NotNil(t, ip.Parser)
	require.NotNil(t, ip.Engine)
	require.NoError(t, ip.LoadStatement("var a = 1;"))
}

func TestNewHonorsExplicitProgramBufferCap(t *testing.T) {
	ip := New(Config{ProgramBufferBytes: 4})
	err := ip.LoadStatement("var a = 1;")
	require.ErrorIs(t, err, token.ErrBufferFull)
}

func TestLoadStatementAppendsToProgramBuffer(t *testing.T) {
	ip := New(Config{})
	require.NoError(t, ip.LoadStatement("var a = 1;"))
	require.NotZero(t, len(ip.ProgramBytes()))
}

func TestLoadStatementThenRunProgramRecordsLastResult(t *testing.T) {
	ip := New(Config{})
	require.NoError(t, ip.LoadStatement("var a = 1;"))
	require.NoError(t, ip.LoadStatement("var b = 2;"))
	require.NoError(t, ip.LoadStatement("a + b;"))
	require.NoError(t, ip.RunProgram())

	v, ok := ip.Engine.LastResult(0)
	require.True(t, ok)
	require.Equal(t, token.ValueLong, v.Kind)
	require.EqualValues(t, 3, v.Long)
	require.True(t, ip.CountersZero())
}

func TestExecImmediateDiscardsTokensAfterRunning(t *testing.T) {
	ip := New(Config{})
	require.NoError(t, ip.ExecImmediate("1+1;"))
	v, ok := ip.Engine.LastResult(0)
	require.True(t, ok)
	require.EqualValues(t, 2, v.Long)
	lenAfterFirst := len(ip.immBuf.Bytes())

	// ExecImmediate resets the scratch buffer up front each call, so an
	// identical second statement leaves the buffer the same size rather
	// than accumulating.
	require.NoError(t, ip.ExecImmediate("1+1;"))
	require.Equal(t, lenAfterFirst, len(ip.immBuf.Bytes()))
}

func TestResetProgramClearsProgramBufferAndNames(t *testing.T) {
	ip := New(Config{})
	require.NoError(t, ip.LoadStatement("var a = 1;"))
	require.NotZero(t, len(ip.ProgramBytes()))

	ip.ResetProgram()
	require.Zero(t, len(ip.ProgramBytes()))

	// The name is gone from the program scope, so it can be redeclared
	// without a "var redeclared" error.
	require.NoError(t, ip.LoadStatement("var a = 2;"))
}

func TestCountersZeroOnFreshInterpreter(t *testing.T) {
	ip := New(Config{})
	require.True(t, ip.CountersZero())
}

func TestRunProgramPropagatesExecutionError(t *testing.T) {
	ip := New(Config{})
	require.NoError(t, ip.LoadStatement("1/0;"))
	err := ip.RunProgram()
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeDivByZero, lerr.Code)
}
