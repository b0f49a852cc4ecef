// Package value implements the tagged value representation, the owned
// heap objects (strings, arrays), and the per-scope heap-object counters.
// Grounded on Justina.h's Val union and object-count fields, reimplemented
// with ownership expressed by Go pointers instead of raw addresses.
package value

import (
	"justina/token"
)

// Value is the tagged value carried on the evaluation stack and stored in
// variable slots. Exactly one of the fields is meaningful, selected by
// Kind; Str and Arr are owned by whichever slot currently holds the Value
// unless Kind is Ref, in which case Ref points at a non-owned source slot.
type Value struct {
	Kind token.ValueType
	Long int32
	Flt float32
	Str *StringObj
	Arr *ArrayObj
	Ref *Ref
}

// Ref is a non-owning back-reference to a caller's value slot, used for
// by-reference parameter passing. It is always shorter-lived than the slot it
// points to: the call frame that created it is torn down before the
// caller's frame can be, which is what makes the back-reference safe
// without shared ownership.
type Ref struct {
	Target *Value
	Type *token.TypeByte
}

// StringObj is a heap-owned byte string. The empty string is never
// represented by a StringObj — it is the nil *StringObj: the empty string
// is represented by a null pointer, never a zero-length heap string.
type StringObj struct {
	Bytes []byte
}

func (s *StringObj) String() string {
	if s == nil {
 return ""
	}
	return string(s.Bytes)
}

// MaxStringLen is the source-literal cap on string literals. Heap strings
// produced at runtime (concatenation results) are not checked against it,
// and there is no runtime string-too-long error code.
const MaxStringLen = 60

// ArrayObj is a heap-owned array: up to three dimensions, row-major,
// element 0 reserved as a header slot, so the 1-based linear-index
// arithmetic carries over unchanged even though Go slices already track
// their own length.
type ArrayObj struct {
	Dims [3]byte
	NDims byte
	Elements []Value // index 0 is the header placeholder, 1..N hold data
}

// ElemCount returns the total number of addressable elements (excluding
// the header slot).
func (a *ArrayObj) ElemCount() int {
	n := 1
	for i := 0; i < int(a.NDims); i++ {
 n *= int(a.Dims[i])
	}
	return n
}

// LinearIndex computes the 1-based row-major linear index:
// ((i0-1)*d1 + (i1-1))*d2 + (i2-1) + 1, generalized to however many
// dimensions the array actually has.
func (a *ArrayObj) LinearIndex(subs []int) int {
	idx := 0
	for d := 0; d < int(a.NDims); d++ {
 idx = idx*int(a.Dims[d]) + (subs[d] - 1)
	}
	return idx + 1
}

func Long(v int32) Value { return Value{Kind: token.ValueLong, Long: v} }
func Float(v float32) Value { return Value{Kind: token.ValueFloat, Flt: v} }
func Str(s *StringObj) Value {
	return Value{Kind: token.ValueString, Str: s}
}
func Arr(a *ArrayObj) Value { return Value{Kind: token.ValueArray, Arr: a} }

// IsTruthy implements the language's notion of truth for use in if/while/
// for test expressions and logical operators: any nonzero number is true;
// a non-empty string is true.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case token.ValueLong:
 return v.Long != 0
	case token.ValueFloat:
 return v.Flt != 0
	case token.ValueString:
 return v.Str != nil && len(v.Str.Bytes) > 0
	default:
 return false
	}
}

// AsFloat widens a numeric value to float32; it returns 0 when called on a
// non-numeric value, which callers must guard against with a type check
// first before relying on the promoted result.
func (v Value) AsFloat() float32 {
	switch v.Kind {
	case token.ValueLong:
 return float32(v.Long)
	case token.ValueFloat:
 return v.Flt
	default:
 return 0
	}
}

func (v Value) IsNumeric() bool {
	return v.Kind == token.ValueLong || v.Kind == token.ValueFloat
}
