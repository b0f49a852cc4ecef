package parser

import (
	"justina/symbols"
	"justina/token"
	"justina/value"
)

// DeclKind distinguishes the four declaration commands, which share almost
// all of their parsing logic.
type DeclKind byte

const (
	DeclVar DeclKind = iota
	DeclConst
	DeclStatic
	DeclLocal
)

// ParsedDecl is one name in a declaration list, already split into its
// scalar/array shape and optional literal initializer(s) by the caller
// (statement.go), which has already consumed the raw Lex tokens.
type ParsedDecl struct {
	Name string
	Dims []int // nil for a scalar
	ScalarInit *value.Value
	ArrayInit []value.Value // literal fill values, array decls only
}

// ParseDeclaration declares each name in decls in the scope dictated by
// kind and the parser's current function-nesting state, emitting the
// matching token.Kind record for each initializer so the execution engine
// re-derives the same values when it first runs the declaring statement.
func (s *State) ParseDeclaration(kind DeclKind, decls []ParsedDecl) error {
	for _, d := range decls {
 if err := s.declareOne(kind, d); err != nil {
 return err
 }
	}
	return nil
}

func (s *State) declareOne(kind DeclKind, d ParsedDecl) error {
	isArray := d.Dims != nil
	isConst := kind == DeclConst

	vt := token.ValueLong
	var initial value.Value
	switch {
	case isArray:
 vt = token.ValueArray
 initial = value.Arr(makeArrayObj(d.Dims, d.ArrayInit))
	case d.ScalarInit != nil:
 vt = d.ScalarInit.Kind
 initial = *d.ScalarInit
	default:
 initial = value.Long(0)
	}

	switch kind {
	case DeclLocal:
 return s.declareLocal(d.Name, isArray, isConst, vt, d.Dims)
	case DeclStatic:
 return s.declareInTable(d.Name, s.Scopes.ProgramNames, s.Scopes.Static, token.ScopeStatic, isArray, isConst, vt, initial)
	case DeclConst:
 return s.declareInTable(d.Name, s.Scopes.ProgramNames, s.Scopes.Global, token.ScopeGlobal, isArray, true, vt, initial)
	default: // DeclVar
 return s.declareInTable(d.Name, s.Scopes.ProgramNames, s.Scopes.Global, token.ScopeGlobal, isArray, isConst, vt, initial)
	}
}

func (s *State) declareInTable(name string, names *symbols.Names, table *symbols.VarTable, scope token.Scope, isArray, isConst bool, vt token.ValueType, initial value.Value) error {
	nameIdx, err := names.Intern(name)
	if err != nil {
 return err
	}
	typ := token.MakeTypeByte(scope, isArray, isConst, false, vt)
	slot, err := table.Declare(nameIdx, initial, typ)
	if err != nil {
 return err
	}
	return s.emitVarRef(typ, slot)
}

// declareLocal allocates a parameter/local slot in the current function's
// name table; the actual storage is a per-call frame the exec package
// allocates, so only the slot index and declared type are recorded here.
func (s *State) declareLocal(name string, isArray, isConst bool, vt token.ValueType, dims []int) error {
	if s.FuncDef == nil {
 return token.NewParseError(token.CodeCommandNotAllowedHere, "local declaration outside a function")
	}
	slot, err := s.FuncDef.LocalNames.Intern(name)
	if err != nil {
 return err
	}
	typ := token.MakeTypeByte(token.ScopeLocal, isArray, isConst, false, vt)
	if slot == len(s.FuncDef.LocalTypes) {
 s.FuncDef.LocalTypes = append(s.FuncDef.LocalTypes, typ)
 var packed [3]byte
 for i, d := range dims {
 if i < 3 {
 packed[i] = byte(d)
 }
 }
 s.FuncDef.LocalArrayDims = append(s.FuncDef.LocalArrayDims, packed)
 s.FuncDef.LocalArrayNDims = append(s.FuncDef.LocalArrayNDims, byte(len(dims)))
 s.FuncDef.LocalCount++
	} else {
 return token.NewParseError(token.CodeVarRedeclared, "local variable redeclared: "+name)
	}
	return s.emitVarRef(typ, slot)
}

// makeArrayObj builds the initial ArrayObj for an array declaration. A
// single literal initializer is broadcast to every element; with no
// initializer every element is the zero value of its (long) type. Element
// 0 is a header placeholder reserved for 1-based subscript arithmetic.
func makeArrayObj(dims []int, initVals []value.Value) *value.ArrayObj {
	a := &value.ArrayObj{NDims: byte(len(dims))}
	for i, d := range dims {
 if i < 3 {
 a.Dims[i] = byte(d)
 }
	}
	n := a.ElemCount()
	a.Elements = make([]value.Value, n+1)
	fill := value.Long(0)
	if len(initVals) > 0 {
 fill = initVals[0]
	}
	for i := 1; i <= n; i++ {
 a.Elements[i] = fill
	}
	return a
}
