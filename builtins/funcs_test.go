package builtins

import (
	"testing"

	"github.com/stretchr/testify/require"

	"justina/value"
)

// fakeHost is a minimal Host for exercising builtin implementations without
// pulling in the execution engine.
type fakeHost struct {
	millis int64
	last []value.Value
	printed []string
}

func (h *fakeHost) NewIntermediateString(s string) *value.StringObj {
	if s == "" {
		return nil
	}
	return &value.StringObj{Bytes: []byte(s)}
}
func (h *fakeHost) FreeIntermediateString(s *value.StringObj) {}
func (h *fakeHost) Print(s string) { h.printed = append(h.printed, s) }
func (h *fakeHost) DebugPrint(s string) { h.printed = append(h.printed, s) }
func (h *fakeHost) FormatValue(v value.Value) string { return "" }
func (h *fakeHost) Millis() int64 { return h.millis }
func (h *fakeHost) LastResult(depth int) (value.Value, bool) {
	idx := len(h.last) - 1 - depth
	if idx < 0 || idx >= len(h.last) {
		return value.Value{}, false
	}
	return h.last[idx], true
}

func TestByNameCoversEveryTableEntry(t *testing.T) {
	for _, d := range Table {
		idx, ok := ByName[d.Name]
		require.True(t, ok, "missing ByName entry for %q", d.Name)
		require.Equal(t, d.Name, Table[idx].Name)
	}
}

func TestBiAbs(t *testing.T) {
	h := &fakeHost{}
	v, err := biAbs(h, []value.Value{value.Long(-5)})
	require.NoError(t, err)
	require.EqualValues(t, 5, v.Long)

	v, err = biAbs(h, []value.Value{value.Float(-2.5)})
	require.NoError(t, err)
	require.InDelta(t, 2.5, v.Flt, 1e-6)
}

func TestBiSgn(t *testing.T) {
	h := &fakeHost{}
	cases := []struct {
		in value.Value
		want int32
	}{
		{value.Long(5), 1},
		{value.Long(-5), -1},
		{value.Long(0), 0},
	}
	for _, c := range cases {
		v, err := biSgn(h, []value.Value{c.in})
		require.NoError(t, err)
		require.Equal(t, c.want, v.Long)
	}
}

func TestBiSqrtNegativeIsError(t *testing.T) {
	h := &fakeHost{}
	_, err := biSqrt(h, []value.Value{value.Long(-1)})
	require.Error(t, err)
}

func TestBiMinMax(t *testing.T) {
	h := &fakeHost{}
	v, err := biMin(h, []value.Value{value.Long(3), value.Long(7)})
	require.NoError(t, err)
	require.EqualValues(t, 3, v.Long)

	v, err = biMax(h, []value.Value{value.Long(3), value.Long(7)})
	require.NoError(t, err)
	require.EqualValues(t, 7, v.Long)
}

func TestBiLenAscChar(t *testing.T) {
	h := &fakeHost{}
	s := value.Str(&value.StringObj{Bytes: []byte("hello")})

	v, err := biLen(h, []value.Value{s})
	require.NoError(t, err)
	require.EqualValues(t, 5, v.Long)

	v, err = biAsc(h, []value.Value{s})
	require.NoError(t, err)
	require.EqualValues(t, 'h', v.Long)

	v, err = biChar(h, []value.Value{value.Long('A')})
	require.NoError(t, err)
	require.Equal(t, "A", v.Str.String())
}

func TestBiLenEmptyStringIsNilStringObj(t *testing.T) {
	h := &fakeHost{}
	v, err := biLen(h, []value.Value{value.Str(nil)})
	require.NoError(t, err)
	require.EqualValues(t, 0, v.Long)
}

func TestBiLeftRightMid(t *testing.T) {
	h := &fakeHost{}
	s := value.Str(&value.StringObj{Bytes: []byte("abcdef")})

	v, err := biLeft(h, []value.Value{s, value.Long(3)})
	require.NoError(t, err)
	require.Equal(t, "abc", v.Str.String())

	v, err = biRight(h, []value.Value{s, value.Long(2)})
	require.NoError(t, err)
	require.Equal(t, "ef", v.Str.String())

	v, err = biMid(h, []value.Value{s, value.Long(2), value.Long(3)})
	require.NoError(t, err)
	require.Equal(t, "bcd", v.Str.String())

	v, err = biMid(h, []value.Value{s, value.Long(4)})
	require.NoError(t, err)
	require.Equal(t, "def", v.Str.String())
}

func TestBiLeftClampsOutOfRangeCount(t *testing.T) {
	h := &fakeHost{}
	s := value.Str(&value.StringObj{Bytes: []byte("ab")})
	v, err := biLeft(h, []value.Value{s, value.Long(100)})
	require.NoError(t, err)
	require.Equal(t, "ab", v.Str.String())

	v, err = biLeft(h, []value.Value{s, value.Long(-1)})
	require.NoError(t, err)
	require.Equal(t, "", v.Str.String())
}

func TestBiUpperLower(t *testing.T) {
	h := &fakeHost{}
	s := value.Str(&value.StringObj{Bytes: []byte("MixedCase")})

	v, err := biUpper(h, []value.Value{s})
	require.NoError(t, err)
	require.Equal(t, "MIXEDCASE", v.Str.String())

	v, err = biLower(h, []value.Value{s})
	require.NoError(t, err)
	require.Equal(t, "mixedcase", v.Str.String())
}

func TestBiDimsAndUbound(t *testing.T) {
	h := &fakeHost{}
	arr := &value.ArrayObj{Dims: [3]byte{3, 4, 0}, NDims: 2}
	arr.Elements = make([]value.Value, arr.ElemCount()+1)
	av := value.Arr(arr)

	v, err := biDims(h, []value.Value{av})
	require.NoError(t, err)
	require.EqualValues(t, 2, v.Long)

	v, err = biUbound(h, []value.Value{av, value.Long(2)})
	require.NoError(t, err)
	require.EqualValues(t, 4, v.Long)

	_, err = biUbound(h, []value.Value{av, value.Long(3)})
	require.Error(t, err)
}

func TestBiDimsRejectsNonArray(t *testing.T) {
	h := &fakeHost{}
	_, err := biDims(h, []value.Value{value.Long(1)})
	require.Error(t, err)
}

func TestBiMillis(t *testing.T) {
	h := &fakeHost{millis: 4242}
	v, err := biMillis(h, nil)
	require.NoError(t, err)
	require.EqualValues(t, 4242, v.Long)
}

func TestBiLastDefaultsToMostRecent(t *testing.T) {
	h := &fakeHost{last: []value.Value{value.Long(1), value.Long(2), value.Long(3)}}

	v, err := biLast(h, nil)
	require.NoError(t, err)
	require.EqualValues(t, 3, v.Long)

	v, err = biLast(h, []value.Value{value.Long(1)})
	require.NoError(t, err)
	require.EqualValues(t, 2, v.Long)
}

func TestBiLastWithNoHistoryReturnsZero(t *testing.T) {
	h := &fakeHost{}
	v, err := biLast(h, nil)
	require.NoError(t, err)
	require.EqualValues(t, 0, v.Long)
}

func TestBiFmtNum(t *testing.T) {
	h := &fakeHost{}
	v, err := biFmtNum(h, []value.Value{value.Float(3.14159), value.Long(0), value.Long(2)})
	require.NoError(t, err)
	require.Equal(t, "3.14", v.Str.String())
}

func TestBiNl(t *testing.T) {
	h := &fakeHost{}
	v, err := biNl(h, nil)
	require.NoError(t, err)
	require.Equal(t, "\n", v.Str.String())
}
