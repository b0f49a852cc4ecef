package symbols

import (
	"justina/token"
	"justina/value"
)

// VarTable holds the value and type-byte arrays for one scope that lives
// for a well-defined lifetime: global and static variables live for the
// program's lifetime, user variables persist across program loads.
// Local/parameter variables are NOT stored here — they are allocated per
// call frame by the exec package, since their lifetime is the call, not
// the program.
type VarTable struct {
	Scope  token.Scope
	Values []value.Value
	Types  []token.TypeByte
	// Names maps an interned program/user-variable name index to this
	// table's slot index, so the same NameIndex can resolve differently
	// per scope.
	Names map[int]int
}

func NewVarTable(scope token.Scope) *VarTable {
	return &VarTable{Scope: scope, Names: make(map[int]int)}
}

// Declare creates a new slot for nameIndex (error if already declared in
// this table — "redeclaration error").
func (t *VarTable) Declare(nameIndex int, initial value.Value, typ token.TypeByte) (slot int, err error) {
	if _, exists := t.Names[nameIndex]; exists {
 return 0, token.NewParseError(token.CodeVarRedeclared, "variable redeclared")
	}
	slot = len(t.Values)
	t.Values = append(t.Values, initial)
	t.Types = append(t.Types, typ)
	t.Names[nameIndex] = slot
	return slot, nil
}

func (t *VarTable) Lookup(nameIndex int) (slot int, ok bool) {
	slot, ok = t.Names[nameIndex]
	return
}

func (t *VarTable) Clear() {
	t.Values = nil
	t.Types = nil
	t.Names = make(map[int]int)
}

// Scopes bundles the program-lifetime scopes (global, static, user) and
// the interned name tables, forming the full symbol-tables component. One
// Scopes value belongs to exactly one Interpreter — never a global static,
// so multiple interpreters can coexist.
type Scopes struct {
	ProgramNames *Names // program variable + function names (cleared on program reset)
	UserNames    *Names // user variable names (persist across resets)
	FuncNames    *Names // user function names

	Global *VarTable
	Static *VarTable
	User   *VarTable

	Funcs []FuncEntry // indexed by FuncNames index
}

func NewScopes() *Scopes {
	return &Scopes{
		ProgramNames: NewNames(),
		UserNames:    NewNames(),
		FuncNames:    NewNames(),
		Global:       NewVarTable(token.ScopeGlobal),
		Static:       NewVarTable(token.ScopeStatic),
		User:         NewVarTable(token.ScopeUser),
	}
}

// ResetProgram clears everything tied to a loaded program (global/static
// variables, program names, function table) while leaving user variables
// untouched — user variables persist across program loads unless
// explicitly cleared.
func (s *Scopes) ResetProgram() {
	s.ProgramNames = NewNames()
	s.FuncNames = NewNames()
	s.Global.Clear()
	s.Static.Clear()
	s.Funcs = nil
}

// ClearUserVars drops all user variables.
func (s *Scopes) ClearUserVars() {
	s.User.Clear()
}
