package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"justina/token"
	"justina/value"
)

func TestLastResultDepthIndexesBackFromMostRecent(t *testing.T) {
	e := newTestEngine()
	for i := int32(1); i <= 3; i++ {
		e.recordLastResult(value.Long(i))
	}

	v, ok := e.LastResult(0)
	require.True(t, ok)
	require.EqualValues(t, 3, v.Long)

	v, ok = e.LastResult(1)
	require.True(t, ok)
	require.EqualValues(t, 2, v.Long)

	_, ok = e.LastResult(3)
	require.False(t, ok)
}

func TestLastResultCapsAtEightEntries(t *testing.T) {
	e := newTestEngine()
	for i := int32(0); i < 10; i++ {
		e.recordLastResult(value.Long(i))
	}
	require.Len(t, e.lastResults, 8)
	v, ok := e.LastResult(0)
	require.True(t, ok)
	require.EqualValues(t, 9, v.Long)
	v, ok = e.LastResult(7)
	require.True(t, ok)
	require.EqualValues(t, 2, v.Long)
}

func TestClearArenaFreesTrackedIntermediateStrings(t *testing.T) {
	e := newTestEngine()
	e.NewIntermediateString("temp")
	require.Equal(t, 1, e.Counters.Get(token.ScopeUnresolved, value.ObjIntermediateString))

	e.clearArena()
	require.Equal(t, 0, e.Counters.Get(token.ScopeUnresolved, value.ObjIntermediateString))
	require.Empty(t, e.arena)
}

func TestNewIntermediateStringOfEmptyStringIsUntracked(t *testing.T) {
	e := newTestEngine()
	s := e.NewIntermediateString("")
	require.Nil(t, s)
	require.Empty(t, e.arena)
}

func TestCurrentFrameNilAtTopLevel(t *testing.T) {
	e := newTestEngine()
	require.Nil(t, e.currentFrame())
}
