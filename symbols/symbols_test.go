package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamesInternAssignsStableIndices(t *testing.T) {
	n := NewNames()
	idx1, err := n.Intern("count")
	require.NoError(t, err)
	require.Zero(t, idx1)

	idx2, err := n.Intern("total")
	require.NoError(t, err)
	require.Equal(t, 1, idx2)

	idx1Again, err := n.Intern("count")
	require.NoError(t, err)
	require.Equal(t, idx1, idx1Again, "re-interning the same name must return the same index")

	require.Equal(t, 2, n.Len())
	require.Equal(t, "count", n.Name(idx1))
}

func TestNamesInternTooLongFails(t *testing.T) {
	n := NewNames()
	_, err := n.Intern("thisNameIsWayTooLong")
	require.Error(t, err)
}

func TestNamesLookupMissingReturnsFalse(t *testing.T) {
	n := NewNames()
	_, ok := n.Lookup("nope")
	require.False(t, ok)
}
