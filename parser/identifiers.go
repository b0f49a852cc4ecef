package parser

import (
	"justina/builtins"
	"justina/token"
	"justina/value"
)

// resolveIdentifier runs the candidate recognizer chain for a bare
// identifier appearing where an expression value is expected: built-in
// function, user function (only one whose header has already been parsed),
// then variable. A name that matches none of these is an undeclared-
// identifier error, not a silent
// generic-name fallback, since the core language has no "maybe it's
// declared later as a plain name" escape hatch the way reserved words do.
func (s *State) resolveIdentifier(name string) error {
	if idx, ok := builtins.ByName[name]; ok {
 return s.emitBuiltinCall(idx)
	}
	if _, ok := s.Scopes.FuncNames.Lookup(name); ok {
 return s.emitUserFuncCall(name)
	}
	return s.resolveVariable(name)
}

func (s *State) emitBuiltinCall(idx int) error {
	if _, err := s.Target.AppendBuiltin(byte(idx)); err != nil {
 return err
	}
	s.emitFuncNameGroup()
	return nil
}

// emitUserFuncCall appends a user-function reference record. The caller has
// already confirmed name is a known, already-parsed function (see
// DESIGN.md's note on the forward-reference simplification: a call to a
// function whose header has not yet been parsed is not recognized as a
// function call at all, and falls through to resolveVariable's undeclared-
// identifier error instead).
func (s *State) emitUserFuncCall(name string) error {
	idx, _ := s.Scopes.FuncNames.Lookup(name)
	if _, err := s.Target.AppendUserFunc(byte(idx)); err != nil {
 return err
	}
	s.emitFuncNameGroup()
	return nil
}

// resolveVariable looks a bare name up through the scope-search order:
// local/parameter (innermost, function body only), then function-static,
// then global, then (last) the standalone user-variable scope — the one
// scope whose lifetime outlives a program load. A name that resolves
// nowhere and isn't inside a function body is auto-created as a user
// variable (a bare `for i = 1, 3` or `x = x + 1` at top level works without
// a prior `var`, matching an immediate-mode control/scratch variable);
// inside a function body every name must be an already-declared parameter
// or local.
func (s *State) resolveVariable(name string) error {
	if s.FuncDef != nil {
 if slot, ok := s.FuncDef.LocalNames.Lookup(name); ok {
 return s.emitVarRef(s.FuncDef.LocalTypes[slot], slot)
 }
	}
	if nameIdx, ok := s.Scopes.ProgramNames.Lookup(name); ok {
 if slot, ok := s.Scopes.Static.Lookup(nameIdx); ok {
 return s.emitVarRef(s.Scopes.Static.Types[slot], slot)
 }
 if slot, ok := s.Scopes.Global.Lookup(nameIdx); ok {
 return s.emitVarRef(s.Scopes.Global.Types[slot], slot)
 }
	}
	if uIdx, ok := s.Scopes.UserNames.Lookup(name); ok {
 if slot, ok := s.Scopes.User.Lookup(uIdx); ok {
 return s.emitVarRef(s.Scopes.User.Types[slot], slot)
 }
	}
	if s.FuncDef != nil {
 return token.NewParseError(token.CodeVarUndeclared, "undeclared identifier: "+name)
	}
	return s.declareUserVar(name)
}

// declareUserVar auto-creates a user variable the first time a top-level
// statement references an undeclared name, the one declaration-free path
// into symbols.Scopes.User (every `var`/`const`/`static`/`local` form
// targets a different scope).
func (s *State) declareUserVar(name string) error {
	uIdx, err := s.Scopes.UserNames.Intern(name)
	if err != nil {
 return err
	}
	typ := token.MakeTypeByte(token.ScopeUser, false, false, false, token.ValueLong)
	slot, err := s.Scopes.User.Declare(uIdx, value.Long(0), typ)
	if err != nil {
 return err
	}
	return s.emitVarRef(typ, slot)
}

func (s *State) emitVarRef(typ token.TypeByte, slot int) error {
	if _, err := s.Target.AppendVariable(typ, byte(slot), byte(slot)); err != nil {
 return err
	}
	s.emitVariableGroup()
	return nil
}
