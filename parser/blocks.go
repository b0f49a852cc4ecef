package parser

import (
	"justina/symbols"
	"justina/token"
)

// ParseFunctionStart opens a `function name(params...)` definition: it
// declares the function's name (rejecting a second definition of the same
// name), opens a fresh local-name table
// for its parameters, and pushes a function block onto the block stack.
// paramNames/paramIsArray/paramIsRef describe the declared parameter list;
// the caller (statement.go) has already parsed the parenthesized parameter
// list. A parameter cannot be both: array arguments are already bound to
// the caller's own ArrayObj pointer, so "&" only applies to scalars.
func (s *State) ParseFunctionStart(name string, paramNames []string, paramIsArray []bool, paramIsRef []bool) error {
	if s.FuncDef != nil {
 return token.NewParseError(token.CodeCommandNotAllowedHere, "nested function definitions are not allowed")
	}
	idx, ok := s.Scopes.FuncNames.Lookup(name)
	if ok && s.Scopes.Funcs[idx].Defined {
 return token.NewParseError(token.CodeFuncRedefined, "function redefined: "+name)
	}
	if !ok {
 var err error
 idx, err = s.Scopes.FuncNames.Intern(name)
 if err != nil {
 return err
 }
 s.Scopes.Funcs = append(s.Scopes.Funcs, symbols.FuncEntry{NameIndex: idx})
	}

	pos, err := s.Target.AppendResWord(token.ResFunction, true)
	if err != nil {
 return err
	}
	s.openBlock(token.BlockFunctionStart, token.ResFunction, pos)

	fd := &FuncDefState{FuncIdx: idx, LocalNames: symbols.NewNames()}
	s.FuncDef = fd
	for i, pname := range paramNames {
 slot, err := fd.LocalNames.Intern(pname)
 if err != nil {
 return err
 }
 isArr := paramIsArray[i]
 isRef := paramIsRef[i]
 typ := token.MakeTypeByte(token.ScopeParam, isArr, false, isRef, token.ValueLong)
 fd.LocalTypes = append(fd.LocalTypes, typ)
 fd.LocalArrayDims = append(fd.LocalArrayDims, [3]byte{})
 fd.LocalArrayNDims = append(fd.LocalArrayNDims, 0)
 if isArr {
 fd.ArrayParams |= 1 << uint(slot)
 }
 if isRef {
 fd.RefParams |= 1 << uint(slot)
 }
 fd.ParamCount++
	}

	s.Scopes.Funcs[idx].StartToken = s.Target.Len()
	s.Scopes.Funcs[idx].MinArgs = len(paramNames)
	s.Scopes.Funcs[idx].MaxArgs = len(paramNames)
	s.Scopes.Funcs[idx].ArrayParams = fd.ArrayParams
	s.Scopes.Funcs[idx].RefParams = fd.RefParams
	s.Scopes.Funcs[idx].ParamCount = fd.ParamCount
	s.emitStmtStartGroup()
	return nil
}

// ParseIfStart opens an `if` block.
func (s *State) ParseIfStart() error {
	pos, err := s.Target.AppendResWord(token.ResIf, true)
	if err != nil {
 return err
	}
	s.openBlock(token.BlockIfStart, token.ResIf, pos)
	s.emitStmtStartGroup()
	return nil
}

// ParseElseifOrElse appends an elseif/else record, patches the previous
// link in the if-chain to point here, and records this position as the new
// chain tail so a later `end` (or the next elseif/else) can continue the
// chain.
func (s *State) ParseElseifOrElse(isElse bool) error {
	blk := s.topBlock()
	if blk == nil || blk.Kind != token.BlockIfStart {
 return token.NewParseError(token.CodeBlockSequenceError, "elseif/else without matching if")
	}
	if blk.HasElse {
 return token.NewParseError(token.CodeBlockSequenceError, "else/elseif after else")
	}
	code := token.ResElseif
	if isElse {
 code = token.ResElse
 blk.HasElse = true
	}
	pos, err := s.Target.AppendResWord(code, true)
	if err != nil {
 return err
	}
	s.Target.PatchStep(blk.LastPos, pos)
	blk.LastPos = pos
	s.emitStmtStartGroup()
	return nil
}

// ParseWhileStart opens a `while` block.
func (s *State) ParseWhileStart() error {
	pos, err := s.Target.AppendResWord(token.ResWhile, true)
	if err != nil {
 return err
	}
	s.openBlock(token.BlockWhileStart, token.ResWhile, pos)
	s.emitStmtStartGroup()
	return nil
}

// ParseForStart opens a `for` block.
// The loop-control clauses themselves (control-variable assignment, final
// value and optional step) are parsed by statement.go as one comma-separated
// expression list right after this call; ParseForStart only records the
// block-linkage entry.
func (s *State) ParseForStart() error {
	pos, err := s.Target.AppendResWord(token.ResFor, true)
	if err != nil {
 return err
	}
	s.openBlock(token.BlockForStart, token.ResFor, pos)
	s.emitStmtStartGroup()
	return nil
}

// ParseEnd closes the innermost open block, patching its ToTokenStep chain
// so execution can jump from the opening/elseif/else record to just past
// `end`, and patching `end`'s own back-link to the block's start (the
// execution engine follows it for while/for to re-test the loop condition
// without a table lookup).
func (s *State) ParseEnd() error {
	blk := s.topBlock()
	if blk == nil {
 return token.NewParseError(token.CodeUnmatchedBlock, "end without matching block")
	}
	s.popBlock()

	pos, err := s.Target.AppendResWord(token.ResEnd, true)
	if err != nil {
 return err
	}
	s.Target.PatchStep(blk.LastPos, pos)
	// end's own link points back to the block's opening record for every
	// block kind; only while/for loops follow it at run time.
	s.Target.PatchStep(pos, blk.OpenPos)
	if blk.Kind == token.BlockFunctionStart {
 entry := &s.Scopes.Funcs[s.FuncDef.FuncIdx]
 entry.Defined = true
 entry.LocalCount = s.FuncDef.LocalCount
 entry.LocalTypes = s.FuncDef.LocalTypes
 entry.LocalArrayDims = s.FuncDef.LocalArrayDims
 entry.LocalArrayNDims = s.FuncDef.LocalArrayNDims
 s.FuncDef = nil
	}
	s.emitStmtStartGroup()
	return nil
}

// ParseBreakContinue emits a break/continue record; the execution engine
// resolves which enclosing loop it targets at run time by walking its own
// flow-control stack, so the parser only needs to check one is actually open.
func (s *State) ParseBreakContinue(isBreak bool) error {
	if !s.hasOpenLoop() {
 return token.NewParseError(token.CodeNoOpenLoop, "break/continue outside a loop")
	}
	code := token.ResContinue
	if isBreak {
 code = token.ResBreak
	}
	_, err := s.Target.AppendResWord(code, false)
	s.emitStmtStartGroup()
	return err
}

func (s *State) hasOpenLoop() bool {
	for i := len(s.BlockStack) - 1; i >= 0; i-- {
 k := s.BlockStack[i].Kind
 if k == token.BlockWhileStart || k == token.BlockForStart {
 return true
 }
 if k == token.BlockFunctionStart {
 return false // a loop in an enclosing function is not "ours"
 }
	}
	return false
}

// ParseReturn emits a return record; any return expression is parsed by
// statement.go immediately after.
func (s *State) ParseReturn() error {
	if s.FuncDef == nil {
 return token.NewParseError(token.CodeNoOpenFunction, "return outside a function")
	}
	_, err := s.Target.AppendResWord(token.ResReturn, false)
	s.emitStmtStartGroup()
	return err
}
