package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferAppendTerminalRoundTrip(t *testing.T) {
	b := NewBuffer(0)
	pos, err := b.AppendTerminal(KindTerminal1, 5)
	require.NoError(t, err)
	require.Equal(t, 0, pos)

	r := NewReader(b, pos)
	require.False(t, r.AtEnd())
	require.Equal(t, KindTerminal1, r.Kind())
	group, index := r.ReadTerminal()
	require.Equal(t, KindTerminal1, group)
	require.Equal(t, byte(5), index)
	require.True(t, r.AtEnd())
}

func TestBufferAppendBuiltinRoundTrip(t *testing.T) {
	b := NewBuffer(0)
	pos, err := b.AppendBuiltin(42)
	require.NoError(t, err)

	r := NewReader(b, pos)
	require.Equal(t, KindBuiltinFunc, r.Kind())
	require.Equal(t, byte(42), r.ReadBuiltin())
}

func TestBufferAppendUserFuncRoundTrip(t *testing.T) {
	b := NewBuffer(0)
	pos, err := b.AppendUserFunc(7)
	require.NoError(t, err)

	r := NewReader(b, pos)
	require.Equal(t, KindUserFunc, r.Kind())
	require.Equal(t, byte(7), r.ReadUserFunc())
}

func TestBufferAppendVariableRoundTrip(t *testing.T) {
	b := NewBuffer(0)
	typ := MakeTypeByte(ScopeGlobal, false, false, false, ValueLong)
	pos, err := b.AppendVariable(typ, 3, 9)
	require.NoError(t, err)

	r := NewReader(b, pos)
	require.Equal(t, KindVariable, r.Kind())
	gotTyp, nameIdx, valIdx := r.ReadVariable()
	require.Equal(t, typ, gotTyp)
	require.Equal(t, byte(3), nameIdx)
	require.Equal(t, byte(9), valIdx)
}

func TestBufferAppendConstantRoundTrip(t *testing.T) {
	b := NewBuffer(0)
	var payload [4]byte
	payload[0] = 0x2a
	pos, err := b.AppendConstant(ValueLong, payload)
	require.NoError(t, err)

	r := NewReader(b, pos)
	require.Equal(t, KindConstant, r.Kind())
	vt, gotPayload := r.ReadConstant()
	require.Equal(t, ValueLong, vt)
	require.Equal(t, payload, gotPayload)
}

func TestBufferAppendResWordBlockPatchStep(t *testing.T) {
	b := NewBuffer(0)
	ifPos, err := b.AppendResWord(ResIf, true)
	require.NoError(t, err)

	endPos, err := b.AppendResWord(ResEnd, true)
	require.NoError(t, err)

	b.PatchStep(ifPos, endPos)
	b.PatchStep(endPos, ifPos)

	require.Equal(t, endPos, b.ReadStep(ifPos))
	require.Equal(t, ifPos, b.ReadStep(endPos))

	r := NewReader(b, ifPos)
	code, stepPos, isBlock := r.ReadResWord()
	require.Equal(t, ResIf, code)
	require.Equal(t, ifPos, stepPos)
	require.True(t, isBlock)
	require.Equal(t, endPos, r.Pos())
}

func TestBufferOverflowReturnsErrBufferFull(t *testing.T) {
	b := NewBuffer(1) // smaller than any record
	_, err := b.AppendTerminal(KindTerminal1, 0)
	require.NoError(t, err) // exactly 1 byte, fits

	_, err = b.AppendBuiltin(0)
	require.ErrorIs(t, err, ErrBufferFull)
}

func TestReaderSeekTo(t *testing.T) {
	b := NewBuffer(0)
	p1, _ := b.AppendTerminal(KindTerminal1, 1)
	p2, _ := b.AppendTerminal(KindTerminal2, 2)

	r := NewReader(b, p1)
	_, _ = r.ReadTerminal()
	require.Equal(t, p2, r.Pos())

	r.SeekTo(p1)
	require.Equal(t, p1, r.Pos())
}
