// Package token defines the lexical and syntactic vocabulary of the Justina
// language: token kinds, the binary record layouts used by the program
// token buffer, the reserved-word and terminal-operator tables, and the
// family of parse/exec error codes.
package token

import "fmt"

// Kind identifies which of the fixed token categories a record belongs to.
// The low 4 bits of every record's first byte hold one of these values;
// the terminal groups exist purely so that terminals (operators and
// punctuation) can enumerate more than sixteen distinct codes while still
// fitting kind+index into a single byte (index goes in the high nibble).
type Kind byte

const (
	KindNone Kind = iota
	KindReservedWord
	KindBuiltinFunc
	KindUserFunc
	KindConstant
	KindVariable
	KindGenericName

	// Terminal tokens occupy exactly one byte (kind in low nibble, index in
	// high nibble), so terminal codes above 15 spill into the next group.
	KindTerminal1
	KindTerminal2
	KindTerminal3
)

// IsTerminal reports whether k is one of the three terminal groups.
func (k Kind) IsTerminal() bool {
	return k == KindTerminal1 || k == KindTerminal2 || k == KindTerminal3
}

// ValueType is a value's type tag. A variable's TypeByte keeps only its low
// two bits (none/long/float/string); ValueArray and ValueRef do not fit
// there, and array/reference-ness is carried by TypeByte's flag bits.
type ValueType byte

const (
	ValueNone ValueType = iota
	ValueLong
	ValueFloat
	ValueString
	ValueArray
	ValueRef
)

func (vt ValueType) String() string {
	switch vt {
	case ValueLong:
 return "long"
	case ValueFloat:
 return "float"
	case ValueString:
 return "string"
	case ValueArray:
 return "array"
	case ValueRef:
 return "ref"
	default:
 return "none"
	}
}

// Scope identifies which of the four variable scopes a name/value slot
// belongs to.
type Scope byte

const (
	ScopeUnresolved Scope = iota
	ScopeParam
	ScopeLocal
	ScopeStatic
	ScopeGlobal
	ScopeUser
)

func (s Scope) String() string {
	switch s {
	case ScopeParam:
 return "param"
	case ScopeLocal:
 return "local"
	case ScopeStatic:
 return "static"
	case ScopeGlobal:
 return "global"
	case ScopeUser:
 return "user"
	default:
 return "unresolved"
	}
}

// TypeByte packs a variable's scope, array/constant/reference flags and
// value type into a single byte, grounded on Justina.h's
// var_scopeMask/value_typeMask constants (reimplemented here as named
// accessor methods instead of raw bit masks scattered through call sites).
type TypeByte byte

const (
	scopeShift = 5
	scopeMask = 0x07 << scopeShift
	flagArray = 1 << 4
	flagConstant = 1 << 3
	flagRef = 1 << 2
	valueMask = 0x03
)

func MakeTypeByte(scope Scope, isArray, isConst, isRef bool, vt ValueType) TypeByte {
	var b TypeByte
	b |= TypeByte(scope) << scopeShift
	if isArray {
 b |= flagArray
	}
	if isConst {
 b |= flagConstant
	}
	if isRef {
 b |= flagRef
	}
	b |= TypeByte(vt) & valueMask
	return b
}

func (t TypeByte) Scope() Scope { return Scope((byte(t) & scopeMask) >> scopeShift) }
func (t TypeByte) IsArray() bool { return t&flagArray != 0 }
func (t TypeByte) IsConstant() bool { return t&flagConstant != 0 }
func (t TypeByte) IsRef() bool { return t&flagRef != 0 }
func (t TypeByte) ValueType() ValueType { return ValueType(t & valueMask) }

func (t TypeByte) WithValueType(vt ValueType) TypeByte {
	return (t &^ valueMask) | TypeByte(vt)&valueMask
}

func (t TypeByte) WithScope(s Scope) TypeByte {
	return (t &^ scopeMask) | TypeByte(s)<<scopeShift
}

func (t TypeByte) String() string {
	return fmt.Sprintf("{scope:%s array:%v const:%v ref:%v vtype:%s}",
		t.Scope(), t.IsArray(), t.IsConstant(), t.IsRef(), t.ValueType())
}
