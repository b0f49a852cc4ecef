package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"

	"justina/token"
	"justina/value"
)

func TestVarTableDeclareAndLookup(t *testing.T) {
	vt := NewVarTable(token.ScopeGlobal)
	typ := token.MakeTypeByte(token.ScopeGlobal, false, false, false, token.ValueLong)

	slot, err := vt.Declare(0, value.Long(5), typ)
	require.NoError(t, err)
	require.Zero(t, slot)

	gotSlot, ok := vt.Lookup(0)
	require.True(t, ok)
	require.Equal(t, slot, gotSlot)
	require.Equal(t, int32(5), vt.Values[gotSlot].Long)
}

func TestVarTableDeclareRedeclarationFails(t *testing.T) {
	vt := NewVarTable(token.ScopeGlobal)
	typ := token.MakeTypeByte(token.ScopeGlobal, false, false, false, token.ValueLong)

	_, err := vt.Declare(0, value.Long(1), typ)
	require.NoError(t, err)

	_, err = vt.Declare(0, value.Long(2), typ)
	require.Error(t, err)
	var lerr *token.LangError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, token.CodeVarRedeclared, lerr.Code)
}

func TestVarTableClearThenRedeclareSucceeds(t *testing.T) {
	vt := NewVarTable(token.ScopeUser)
	typ := token.MakeTypeByte(token.ScopeUser, false, false, false, token.ValueLong)

	_, err := vt.Declare(0, value.Long(1), typ)
	require.NoError(t, err)

	vt.Clear()

	slot, err := vt.Declare(0, value.Long(2), typ)
	require.NoError(t, err)
	require.Zero(t, slot)
	require.Equal(t, int32(2), vt.Values[slot].Long)
}

func TestScopesResetProgramPreservesUserVars(t *testing.T) {
	s := NewScopes()
	typ := token.MakeTypeByte(token.ScopeUser, false, false, false, token.ValueLong)

	userIdx, err := s.UserNames.Intern("u")
	require.NoError(t, err)
	_, err = s.User.Declare(userIdx, value.Long(42), typ)
	require.NoError(t, err)

	globalIdx, err := s.ProgramNames.Intern("g")
	require.NoError(t, err)
	globalTyp := token.MakeTypeByte(token.ScopeGlobal, false, false, false, token.ValueLong)
	_, err = s.Global.Declare(globalIdx, value.Long(7), globalTyp)
	require.NoError(t, err)

	s.ResetProgram()

	_, ok := s.Global.Lookup(globalIdx)
	require.False(t, ok, "global variables must be cleared by ResetProgram")

	gotUserSlot, ok := s.User.Lookup(userIdx)
	require.True(t, ok, "user variables must survive ResetProgram")
	require.Equal(t, int32(42), s.User.Values[gotUserSlot].Long)
}

func TestScopesClearUserVars(t *testing.T) {
	s := NewScopes()
	typ := token.MakeTypeByte(token.ScopeUser, false, false, false, token.ValueLong)
	idx, err := s.UserNames.Intern("u")
	require.NoError(t, err)
	_, err = s.User.Declare(idx, value.Long(1), typ)
	require.NoError(t, err)

	s.ClearUserVars()

	_, ok := s.User.Lookup(idx)
	require.False(t, ok)
}
