package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOperatorByNameCoversEveryOperator(t *testing.T) {
	for i, op := range Operators {
		idx, ok := OperatorByName[op.Name]
		require.True(t, ok, "operator %q missing from OperatorByName", op.Name)
		require.Equal(t, i, idx)
	}
}

func TestOperatorDefFlagAccessors(t *testing.T) {
	plusIdx := OperatorByName["+"]
	require.False(t, Operators[plusIdx].RightToLeft())
	require.False(t, Operators[plusIdx].IsOpLong())
	require.False(t, Operators[plusIdx].IsResLong())

	assignIdx := OperatorByName["="]
	require.True(t, Operators[assignIdx].RightToLeft())

	bitAndIdx := OperatorByName["&"]
	require.True(t, Operators[bitAndIdx].IsOpLong())

	eqIdx := OperatorByName["=="]
	require.True(t, Operators[eqIdx].IsResLong())
}

func TestIsAssignment(t *testing.T) {
	require.True(t, IsAssignment(TermAssign))
	require.True(t, IsAssignment(TermShrAssign))
	require.True(t, IsAssignment(TermPlusAssign))
	require.False(t, IsAssignment(TermPlus))
	require.False(t, IsAssignment(TermLess))
}

func TestLongestMatchPrefersLongerSpelling(t *testing.T) {
	// The lexer relies on OperatorByName containing both ">>=" and ">>" and
	// ">" so its longest-match-first scan can distinguish them.
	_, hasShrAssign := OperatorByName[">>="]
	_, hasShr := OperatorByName[">>"]
	_, hasGt := OperatorByName[">"]
	require.True(t, hasShrAssign)
	require.True(t, hasShr)
	require.True(t, hasGt)
}
