package exec

import (
	"justina/symbols"
	"justina/token"
	"justina/value"
)

// callUserFunc implements a user-function call: it builds a fresh call
// frame sized from the function's declared parameter/local signature,
// binds arguments, runs the function body as an ordinary (recursive) Go
// call, tears the frame's local heap objects down, and returns the
// function's result (zero if no `return` supplied a value).
func (e *Engine) callUserFunc(funcIdx int, args []operand) (value.Value, error) {
	if funcIdx < 0 || funcIdx >= len(e.Scopes.Funcs) {
 return value.Value{}, token.NewExecError(token.CodeFuncUndefined, "unknown function")
	}
	entry := e.Scopes.Funcs[funcIdx]
	if len(args) < entry.MinArgs || len(args) > entry.MaxArgs {
 return value.Value{}, token.NewExecError(token.CodeFuncArgCountWrong, "wrong argument count")
	}

	total := len(entry.LocalTypes)
	frame := &CallFrame{
 FuncIdx: funcIdx,
 Locals: make([]value.Value, total),
 Types: entry.LocalTypes,
	}

	for i := 0; i < entry.ParamCount; i++ {
 typ := entry.LocalTypes[i]
 if i >= len(args) {
 frame.Locals[i] = zeroValue(typ.ValueType())
 continue
 }
 switch {
 case typ.IsArray():
 frame.Locals[i] = args[i].val // shared *ArrayObj pointer: "by reference" for free
 case typ.IsRef():
 if args[i].slot == nil {
 return value.Value{}, token.NewExecError(token.CodeVariableNameExpected, "reference parameter requires a variable argument")
 }
 srcType := args[i].typ
 frame.Locals[i] = value.Value{Kind: token.ValueRef, Ref: &value.Ref{Target: args[i].slot, Type: &srcType}}
 default:
 e.storeScalar(&frame.Locals[i], token.ScopeParam, args[i].val)
 }
	}
	for i := entry.ParamCount; i < total; i++ {
 typ := entry.LocalTypes[i]
 if typ.IsArray() {
 dims := entry.LocalArrayDims[i][:entry.LocalArrayNDims[i]]
 arr := e.Counters.NewOwnedArray(token.ScopeLocal, dims)
 zero := zeroValue(typ.ValueType())
 for k := 1; k < len(arr.Elements); k++ {
 arr.Elements[k] = zero
 }
 frame.Locals[i] = value.Arr(arr)
 } else {
 frame.Locals[i] = zeroValue(typ.ValueType())
 }
	}

	e.calls = append(e.calls, frame)
	rd := token.NewReader(e.Prog, entry.StartToken)
	returned, retVal, err := e.runFrom(rd)
	e.teardownFrame(frame, entry)
	e.calls = e.calls[:len(e.calls)-1]
	if err != nil {
 return value.Value{}, err
	}
	if !returned {
 return value.Long(0), nil
	}
	return retVal, nil
}

func zeroValue(vt token.ValueType) value.Value {
	switch vt {
	case token.ValueFloat:
 return value.Float(0)
	case token.ValueString:
 return value.Str(nil)
	default:
 return value.Long(0)
	}
}

// teardownFrame frees every heap object the call frame still owns: scalar
// strings directly, and array elements plus the array header itself for
// each array local. Reference parameters (array arguments) are skipped —
// the frame never owned that ArrayObj.
func (e *Engine) teardownFrame(frame *CallFrame, entry symbols.FuncEntry) {
	for i, v := range frame.Locals {
 typ := entry.LocalTypes[i]
 isParam := i < entry.ParamCount
 switch {
 case typ.IsArray():
 if isParam {
 continue // caller's array, not ours to free
 }
 if v.Arr == nil {
 continue
 }
 for k := 1; k < len(v.Arr.Elements); k++ {
 el := v.Arr.Elements[k]
 if el.Kind == token.ValueString && el.Str != nil {
 e.Counters.FreeString(token.ScopeLocal, value.ObjString, el.Str)
 }
 }
 e.Counters.FreeArray(token.ScopeLocal, v.Arr)
 case v.Kind == token.ValueString && v.Str != nil:
 scope := token.ScopeLocal
 if isParam {
 scope = token.ScopeParam
 }
 e.Counters.FreeString(scope, value.ObjString, v.Str)
 }
	}
}
