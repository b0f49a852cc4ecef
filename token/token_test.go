package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeTypeByteRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		isArray bool
		isConst bool
		isRef   bool
		vt      ValueType
	}{
		{"plain global long", ScopeGlobal, false, false, false, ValueLong},
		{"const local float", ScopeLocal, false, true, false, ValueFloat},
		{"array static string", ScopeStatic, true, false, false, ValueString},
		{"ref param", ScopeParam, false, false, true, ValueLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := MakeTypeByte(tt.scope, tt.isArray, tt.isConst, tt.isRef, tt.vt)
			require.Equal(t, tt.scope, tb.Scope())
			require.Equal(t, tt.isArray, tb.IsArray())
			require.Equal(t, tt.isConst, tb.IsConstant())
			require.Equal(t, tt.isRef, tb.IsRef())
			require.Equal(t, tt.vt, tb.ValueType())
		})
	}
}

func TestTypeByteWithValueType(t *testing.T) {
	tb := MakeTypeByte(ScopeGlobal, false, false, false, ValueLong)
	tb2 := tb.WithValueType(ValueFloat)

	require.Equal(t, ValueFloat, tb2.ValueType())
	require.Equal(t, ScopeGlobal, tb2.Scope(), "WithValueType must not disturb the scope bits")
}

func TestTypeByteWithScope(t *testing.T) {
	tb := MakeTypeByte(ScopeLocal, true, true, false, ValueString)
	tb2 := tb.WithScope(ScopeGlobal)

	require.Equal(t, ScopeGlobal, tb2.Scope())
	require.True(t, tb2.IsArray())
	require.True(t, tb2.IsConstant())
	require.Equal(t, ValueString, tb2.ValueType())
}

func TestKindIsTerminal(t *testing.T) {
	require.True(t, KindTerminal1.IsTerminal())
	require.True(t, KindTerminal2.IsTerminal())
	require.True(t, KindTerminal3.IsTerminal())
	require.False(t, KindVariable.IsTerminal())
	require.False(t, KindReservedWord.IsTerminal())
}

func TestValueTypeString(t *testing.T) {
	require.Equal(t, "long", ValueLong.String())
	require.Equal(t, "float", ValueFloat.String())
	require.Equal(t, "string", ValueString.String())
	require.Equal(t, "array", ValueArray.String())
	require.Equal(t, "ref", ValueRef.String())
	require.Equal(t, "none", ValueNone.String())
}
