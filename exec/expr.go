package exec

import (
	"math"

	"justina/builtins"
	"justina/token"
	"justina/value"
)

// operand is the result of evaluating one operand or sub-expression: a
// value, and — when the operand names an assignable location (a plain
// variable or an array element) — a pointer to that location plus the
// scope/type-byte needed to store back into it correctly.
type operand struct {
	val value.Value
	slot *value.Value
	scope token.Scope
	typ token.TypeByte
}

var operatorLookup = func() map[token.TermCode]token.OperatorDef {
	m := make(map[token.TermCode]token.OperatorDef, len(token.Operators))
	for _, o := range token.Operators {
 m[o.Code] = o
	}
	return m
}()

// decodeTerm inverts parser.emitOperator's kind-overflow encoding: a
// terminal's logical TermCode is index, shifted by 16 per terminal group
// past the first, so that more than sixteen operator codes still fit one
// index byte per group.
func decodeTerm(group token.Kind, index byte) token.TermCode {
	switch group {
	case token.KindTerminal1:
 return token.TermCode(index)
	case token.KindTerminal2:
 return token.TermCode(int(index) + 16)
	case token.KindTerminal3:
 return token.TermCode(int(index) + 32)
	default:
 return token.TermCode(255)
	}
}

// peekTermCode reports the TermCode at rd's current position without
// consuming it, or false if the current token isn't a terminal.
func peekTermCode(rd *token.Reader) (token.TermCode, bool) {
	if rd.AtEnd() || !rd.Kind().IsTerminal() {
 return 0, false
	}
	pos := rd.Pos()
	group, idx := rd.ReadTerminal()
	rd.SeekTo(pos)
	return decodeTerm(group, idx), true
}

func int32FromPayload(b [4]byte) int32 {
	return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

func float32FromPayload(b [4]byte) float32 {
	return math.Float32frombits(uint32(int32FromPayload(b)))
}

// evalExpr evaluates one expression starting at rd's current position and
// returns just its value, for callers that have no use for an lvalue (if/
// while/for test expressions, print/cout/dbout/input argument lists).
func (e *Engine) evalExpr(rd *token.Reader) (value.Value, error) {
	op, err := e.parseExpr(rd, 0)
	if err != nil {
 return value.Value{}, err
	}
	return op.val, nil
}

// parseExpr is precedence-climbing evaluation driven directly off the
// token stream, using Go's own call stack in place of the original's
// explicit evaluation stack: readOperand recurses for prefix operators and
// parenthesized sub-expressions, and the loop below recurses once per
// right-hand operand at the next-higher minimum priority. minPrio is the
// lowest infix/postfix priority this call is willing to consume; a caller
// climbing from a tighter-binding prefix operator passes that operator's
// own priority so a looser-binding infix operator is left for an outer
// call to consume instead.
func (e *Engine) parseExpr(rd *token.Reader, minPrio int) (operand, error) {
	left, err := e.readOperand(rd)
	if err != nil {
 return operand{}, err
	}
	for {
 tc, ok := peekTermCode(rd)
 if !ok {
 break
 }
 // Comma/semicolon/parens are never infix/postfix operators at this
 // level: the grammar positions that can follow a completed operand
 // with a '(' (array subscripts, call argument lists) are already
 // consumed directly by readOperand/readArgList before control
 // returns here, so token.Operators' own "(" infix-priority entry
 // (used only inside those two call sites) must not be reached.
 if tc == token.TermLeftPar || tc == token.TermRightPar || tc == token.TermComma || tc == token.TermSemicolon {
 break
 }
 op, ok := operatorLookup[tc]
 if !ok {
 break
 }
 if op.InfixPriority == 0 && op.PostfixPriority > 0 {
 if op.PostfixPriority < minPrio {
 break
 }
 rd.ReadTerminal()
 left, err = e.applyPostfix(left, tc)
 if err != nil {
 return operand{}, err
 }
 continue
 }
 if op.InfixPriority == 0 || op.InfixPriority < minPrio {
 break
 }
 rd.ReadTerminal()
 nextMin := op.InfixPriority
 if !op.RightToLeft() {
 nextMin++
 }
 right, err := e.parseExpr(rd, nextMin)
 if err != nil {
 return operand{}, err
 }
 if token.IsAssignment(tc) {
 left, err = e.applyAssignment(left, tc, right)
 } else {
 left, err = e.applyBinary(left, tc, right)
 }
 if err != nil {
 return operand{}, err
 }
	}
	return left, nil
}

// readOperand reads one primary operand: a prefix operator applied to a
// nested operand, a parenthesized sub-expression, a constant, a variable
// (with an optional array subscript), or a built-in/user function call.
func (e *Engine) readOperand(rd *token.Reader) (operand, error) {
	if rd.AtEnd() {
 return operand{}, token.NewExecError(token.CodeIncompleteExpression, "expression expected")
	}
	switch rd.Kind() {
	case token.KindConstant:
 vt, payload := rd.ReadConstant()
 switch vt {
 case token.ValueLong:
 return operand{val: value.Long(int32FromPayload(payload))}, nil
 case token.ValueFloat:
 return operand{val: value.Float(float32FromPayload(payload))}, nil
 case token.ValueString:
 idx := int(int32FromPayload(payload))
 s := e.Parser.ConstString(idx)
 return operand{val: value.Str(e.newParsedConstString(s))}, nil
 default:
 return operand{}, token.NewExecError(token.CodeTypeMismatch, "unrecognized constant")
 }

	case token.KindVariable:
 typ, _, slotIdx := rd.ReadVariable()
 if typ.IsArray() {
 slot := e.varSlot(typ.Scope(), int(slotIdx))
 return e.readArraySubscript(rd, slot, typ)
 }
 slot, scope := e.resolveVarSlot(typ, int(slotIdx))
 return operand{val: *slot, slot: slot, scope: scope, typ: typ}, nil

	case token.KindBuiltinFunc:
 idx := int(rd.ReadBuiltin())
 args, err := e.readArgList(rd)
 if err != nil {
 return operand{}, err
 }
 if idx < 0 || idx >= len(builtins.Table) {
 return operand{}, token.NewExecError(token.CodeFuncUndefined, "unknown built-in function")
 }
 def := builtins.Table[idx]
 if len(args) < def.MinArgs || len(args) > def.MaxArgs {
 return operand{}, token.NewExecError(token.CodeFuncArgCountWrong, "wrong argument count for "+def.Name)
 }
 vals := make([]value.Value, len(args))
 for i, a := range args {
 vals[i] = a.val
 }
 v, err := def.Impl(e, vals)
 if err != nil {
 return operand{}, err
 }
 return operand{val: v}, nil

	case token.KindUserFunc:
 funcIdx := int(rd.ReadUserFunc())
 args, err := e.readArgList(rd)
 if err != nil {
 return operand{}, err
 }
 v, err := e.callUserFunc(funcIdx, args)
 if err != nil {
 return operand{}, err
 }
 return operand{val: v}, nil

	case token.KindTerminal1, token.KindTerminal2, token.KindTerminal3:
 group, idx := rd.ReadTerminal()
 tc := decodeTerm(group, idx)
 if tc == token.TermLeftPar {
 inner, err := e.parseExpr(rd, 0)
 if err != nil {
 return operand{}, err
 }
 if ctc, ok := peekTermCode(rd); !ok || ctc != token.TermRightPar {
 return operand{}, token.NewExecError(token.CodeTokenExpected, "')' expected")
 }
 rd.ReadTerminal()
 return inner, nil
 }
 op, ok := operatorLookup[tc]
 if !ok || op.PrefixPriority == 0 {
 return operand{}, token.NewExecError(token.CodeOperatorNotAllowed, "operator not allowed here")
 }
 inner, err := e.parseExpr(rd, op.PrefixPriority)
 if err != nil {
 return operand{}, err
 }
 return e.applyPrefix(tc, inner)

	default:
 return operand{}, token.NewExecError(token.CodeIncompleteExpression, "expression expected")
	}
}

func (e *Engine) readArraySubscript(rd *token.Reader, slot *value.Value, typ token.TypeByte) (operand, error) {
	if tc, ok := peekTermCode(rd); !ok || tc != token.TermLeftPar {
 return operand{}, token.NewExecError(token.CodeTokenExpected, "'(' expected after array name")
	}
	rd.ReadTerminal()
	var subs []int
	for {
 v, err := e.evalExpr(rd)
 if err != nil {
 return operand{}, err
 }
 if !v.IsNumeric() {
 return operand{}, token.NewExecError(token.CodeArraySubscriptNonNumeric, "array subscript must be numeric")
 }
 subs = append(subs, int(v.AsFloat()))
 if tc, ok := peekTermCode(rd); ok && tc == token.TermComma {
 rd.ReadTerminal()
 continue
 }
 break
	}
	if tc, ok := peekTermCode(rd); !ok || tc != token.TermRightPar {
 return operand{}, token.NewExecError(token.CodeTokenExpected, "')' expected")
	}
	rd.ReadTerminal()

	arr := slot.Arr
	if arr == nil || len(subs) != int(arr.NDims) {
 return operand{}, token.NewExecError(token.CodeArrayDimCountInvalid, "wrong number of array subscripts")
	}
	for d, s := range subs {
 if s < 1 || s > int(arr.Dims[d]) {
 return operand{}, token.NewExecError(token.CodeArraySubscriptOutOfBounds, "array subscript out of bounds")
 }
	}
	linIdx := arr.LinearIndex(subs)
	elemSlot := &arr.Elements[linIdx]
	return operand{val: *elemSlot, slot: elemSlot, scope: typ.Scope(), typ: typ}, nil
}

// readArgList reads a parenthesized, comma-separated argument list (for a
// built-in or user-function call): the opening '(' is expected to be the
// current token. Each argument is kept as a full operand, not just its
// value, so a reference-parameter callee (see callUserFunc) can bind
// straight to the caller's own slot when the argument is a bare variable.
func (e *Engine) readArgList(rd *token.Reader) ([]operand, error) {
	if tc, ok := peekTermCode(rd); !ok || tc != token.TermLeftPar {
 return nil, token.NewExecError(token.CodeTokenExpected, "'(' expected after function name")
	}
	rd.ReadTerminal()
	if tc, ok := peekTermCode(rd); ok && tc == token.TermRightPar {
 rd.ReadTerminal()
 return nil, nil
	}
	var args []operand
	for {
 op, err := e.parseExpr(rd, 0)
 if err != nil {
 return nil, err
 }
 args = append(args, op)
 if tc, ok := peekTermCode(rd); ok && tc == token.TermComma {
 rd.ReadTerminal()
 continue
 }
 break
	}
	if tc, ok := peekTermCode(rd); !ok || tc != token.TermRightPar {
 return nil, token.NewExecError(token.CodeTokenExpected, "')' expected")
	}
	rd.ReadTerminal()
	return args, nil
}

func (e *Engine) applyPrefix(tc token.TermCode, v operand) (operand, error) {
	switch tc {
	case token.TermPlus:
 if !v.val.IsNumeric() {
 return operand{}, token.NewExecError(token.CodeNumberExpected, "'+' requires a number")
 }
 return v, nil
	case token.TermMinus:
 switch v.val.Kind {
 case token.ValueLong:
 return operand{val: value.Long(-v.val.Long)}, nil
 case token.ValueFloat:
 return operand{val: value.Float(-v.val.Flt)}, nil
 default:
 return operand{}, token.NewExecError(token.CodeNumberExpected, "'-' requires a number")
 }
	case token.TermNot:
 return operand{val: boolValue(!v.val.IsTruthy())}, nil
	case token.TermBitCompl:
 iv, err := requireLong(v.val)
 if err != nil {
 return operand{}, err
 }
 return operand{val: value.Long(^iv)}, nil
	case token.TermIncr, token.TermDecr:
 if v.slot == nil {
 return operand{}, token.NewExecError(token.CodeVariableNameExpected, "++/-- requires a variable")
 }
 delta := int32(1)
 if tc == token.TermDecr {
 delta = -1
 }
 nv := addDelta(v.val, delta)
 e.storeScalar(v.slot, v.scope, nv)
 return operand{val: nv, slot: v.slot, scope: v.scope, typ: v.typ}, nil
	default:
 return operand{}, token.NewExecError(token.CodeOperatorNotAllowed, "operator not allowed as prefix")
	}
}

func (e *Engine) applyPostfix(v operand, tc token.TermCode) (operand, error) {
	if v.slot == nil {
 return operand{}, token.NewExecError(token.CodeVariableNameExpected, "++/-- requires a variable")
	}
	old := v.val
	delta := int32(1)
	if tc == token.TermDecr {
 delta = -1
	}
	nv := addDelta(old, delta)
	e.storeScalar(v.slot, v.scope, nv)
	return operand{val: old, slot: v.slot, scope: v.scope, typ: v.typ}, nil
}

func addDelta(v value.Value, delta int32) value.Value {
	if v.Kind == token.ValueFloat {
 return value.Float(v.Flt + float32(delta))
	}
	return value.Long(v.Long + delta)
}

func boolValue(b bool) value.Value {
	if b {
 return value.Long(1)
	}
	return value.Long(0)
}

func requireLong(v value.Value) (int32, error) {
	if v.Kind != token.ValueLong {
 return 0, token.NewExecError(token.CodeIntegerExpected, "integer operand required")
	}
	return v.Long, nil
}

// applyBinary performs one infix operator's work: type-check, promote
// integer to float when the operator isn't integer-only and one side is
// float, compute, and for `+` on two strings produce a concatenated
// intermediate string instead.
func (e *Engine) applyBinary(left operand, tc token.TermCode, right operand) (operand, error) {
	op := operatorLookup[tc]

	if tc == token.TermPlus && left.val.Kind == token.ValueString && right.val.Kind == token.ValueString {
 joined := left.val.Str.String() + right.val.Str.String()
 return operand{val: value.Str(e.newParsedConstString(joined))}, nil
	}

	if !left.val.IsNumeric() || !right.val.IsNumeric() {
 return operand{}, token.NewExecError(token.CodeNumberExpected, "operator "+op.Name+" requires numbers")
	}

	if op.IsOpLong() {
 a, err := requireLong(left.val)
 if err != nil {
 return operand{}, err
 }
 b, err := requireLong(right.val)
 if err != nil {
 return operand{}, err
 }
 res, err := intBinary(tc, a, b)
 if err != nil {
 return operand{}, err
 }
 return operand{val: value.Long(res)}, nil
	}

	bothLong := left.val.Kind == token.ValueLong && right.val.Kind == token.ValueLong
	if bothLong && !op.IsResLong() {
 res, overflow, err := intArith(tc, left.val.Long, right.val.Long)
 if err != nil {
 return operand{}, err
 }
 if overflow {
 return operand{}, token.NewExecError(token.CodeOverflow, "integer overflow")
 }
 return operand{val: value.Long(res)}, nil
	}

	a, b := left.val.AsFloat(), right.val.AsFloat()
	if op.IsResLong() {
 res, err := floatCompare(tc, a, b)
 if err != nil {
 return operand{}, err
 }
 return operand{val: boolValue(res)}, nil
	}
	res, err := floatArith(tc, a, b)
	if err != nil {
 return operand{}, err
	}
	if math.IsNaN(float64(res)) {
 return operand{}, token.NewExecError(token.CodeUndefinedResult, "undefined result")
	}
	if math.IsInf(float64(res), 0) {
 return operand{}, token.NewExecError(token.CodeOverflow, "overflow")
	}
	return operand{val: value.Float(res)}, nil
}

func intBinary(tc token.TermCode, a, b int32) (int32, error) {
	switch tc {
	case token.TermBitAnd:
 return a & b, nil
	case token.TermBitOr:
 return a | b, nil
	case token.TermBitXor:
 return a ^ b, nil
	case token.TermShl:
 return a << uint32(b), nil
	case token.TermShr:
 return a >> uint32(b), nil
	case token.TermMod:
 if b == 0 {
 return 0, token.NewExecError(token.CodeDivByZero, "division by zero")
 }
 return a % b, nil
	case token.TermAnd:
 return boolValue(a != 0 && b != 0).Long, nil
	case token.TermOr:
 return boolValue(a != 0 || b != 0).Long, nil
	case token.TermEq:
 return boolValue(a == b).Long, nil
	case token.TermNotEq:
 return boolValue(a != b).Long, nil
	case token.TermLess:
 return boolValue(a < b).Long, nil
	case token.TermGreater:
 return boolValue(a > b).Long, nil
	case token.TermLessEq:
 return boolValue(a <= b).Long, nil
	case token.TermGreaterEq:
 return boolValue(a >= b).Long, nil
	default:
 return 0, token.NewExecError(token.CodeOperatorNotAllowed, "operator not supported here")
	}
}

func intArith(tc token.TermCode, a, b int32) (res int32, overflow bool, err error) {
	switch tc {
	case token.TermPlus:
 return a + b, false, nil
	case token.TermMinus:
 return a - b, false, nil
	case token.TermMult:
 return a * b, false, nil
	case token.TermDiv:
 if b == 0 {
 return 0, false, token.NewExecError(token.CodeDivByZero, "division by zero")
 }
 return a / b, false, nil
	case token.TermPow:
 return int32(math.Pow(float64(a), float64(b))), false, nil
	default:
 return 0, false, token.NewExecError(token.CodeOperatorNotAllowed, "operator not supported here")
	}
}

func floatArith(tc token.TermCode, a, b float32) (float32, error) {
	switch tc {
	case token.TermPlus:
 return a + b, nil
	case token.TermMinus:
 return a - b, nil
	case token.TermMult:
 return a * b, nil
	case token.TermDiv:
 if b == 0 {
 return 0, token.NewExecError(token.CodeDivByZero, "division by zero")
 }
 return a / b, nil
	case token.TermPow:
 return float32(math.Pow(float64(a), float64(b))), nil
	default:
 return 0, token.NewExecError(token.CodeOperatorNotAllowed, "operator not supported here")
	}
}

func floatCompare(tc token.TermCode, a, b float32) (bool, error) {
	switch tc {
	case token.TermEq:
 return a == b, nil
	case token.TermNotEq:
 return a != b, nil
	case token.TermLess:
 return a < b, nil
	case token.TermGreater:
 return a > b, nil
	case token.TermLessEq:
 return a <= b, nil
	case token.TermGreaterEq:
 return a >= b, nil
	case token.TermAnd:
 return a != 0 && b != 0, nil
	case token.TermOr:
 return a != 0 || b != 0, nil
	default:
 return false, token.NewExecError(token.CodeOperatorNotAllowed, "operator not supported here")
	}
}

// applyAssignment implements `=` and the compound assignment operators:
// both write into left's slot, deleting any prior string object it held
// and accounting for the scope in the heap counter. Pure `=` is the only
// operator allowed to change a scalar variable's stored type.
func (e *Engine) applyAssignment(left operand, tc token.TermCode, right operand) (operand, error) {
	if left.slot == nil {
 return operand{}, token.NewExecError(token.CodeVariableNameExpected, "assignment target must be a variable")
	}
	newVal := right.val
	if tc != token.TermAssign {
 base, err := compoundBase(tc)
 if err != nil {
 return operand{}, err
 }
 combined, err := e.applyBinary(left, base, right)
 if err != nil {
 return operand{}, err
 }
 newVal = combined.val
	}
	if left.typ.IsConstant() {
 return operand{}, token.NewExecError(token.CodeVarIsConstant, "cannot assign to a constant")
	}
	if left.typ.IsArray() {
 // array elements keep the array's declared type; a plain
 // assignment casts the right-hand value instead of overwriting it.
 newVal = castTo(newVal, left.typ.ValueType())
	}
	e.storeScalar(left.slot, left.scope, newVal)
	return operand{val: newVal, slot: left.slot, scope: left.scope, typ: left.typ}, nil
}

func compoundBase(tc token.TermCode) (token.TermCode, error) {
	switch tc {
	case token.TermPlusAssign:
 return token.TermPlus, nil
	case token.TermMinusAssign:
 return token.TermMinus, nil
	case token.TermMultAssign:
 return token.TermMult, nil
	case token.TermDivAssign:
 return token.TermDiv, nil
	case token.TermModAssign:
 return token.TermMod, nil
	case token.TermBitAndAssign:
 return token.TermBitAnd, nil
	case token.TermBitOrAssign:
 return token.TermBitOr, nil
	case token.TermBitXorAssign:
 return token.TermBitXor, nil
	case token.TermShlAssign:
 return token.TermShl, nil
	case token.TermShrAssign:
 return token.TermShr, nil
	default:
 return 0, token.NewExecError(token.CodeOperatorNotAllowed, "unknown compound assignment")
	}
}

func castTo(v value.Value, vt token.ValueType) value.Value {
	switch vt {
	case token.ValueLong:
 if v.Kind == token.ValueFloat {
 return value.Long(int32(v.Flt))
 }
 return v
	case token.ValueFloat:
 if v.Kind == token.ValueLong {
 return value.Float(float32(v.Long))
 }
 return v
	default:
 return v
	}
}

// varSlot resolves a variable's (scope, slot) pair to the actual storage
// address: the current call frame's locals for parameters/locals, or the
// relevant program-lifetime VarTable otherwise.
func (e *Engine) varSlot(scope token.Scope, slot int) *value.Value {
	switch scope {
	case token.ScopeParam, token.ScopeLocal:
 frame := e.currentFrame()
 return &frame.Locals[slot]
	case token.ScopeStatic:
 return &e.Scopes.Static.Values[slot]
	case token.ScopeUser:
 return &e.Scopes.User.Values[slot]
	default: // ScopeGlobal
 return &e.Scopes.Global.Values[slot]
	}
}

// resolveVarSlot resolves a variable's declared type byte and local slot
// index to its actual storage address and the scope that owns it. A
// reference-parameter local (typ.IsRef()) holds a value.Ref instead of a
// real value; in that case this follows the reference through to the
// caller's own slot and scope, so reads and writes through the parameter
// reach the caller's variable directly.
func (e *Engine) resolveVarSlot(typ token.TypeByte, slot int) (*value.Value, token.Scope) {
	v := e.varSlot(typ.Scope(), slot)
	if typ.IsRef() && v.Kind == token.ValueRef && v.Ref != nil {
 return v.Ref.Target, v.Ref.Type.Scope()
	}
	return v, typ.Scope()
}

// storeScalar writes newVal into slot, freeing any string object slot
// previously owned and duplicating newVal's string bytes into a freshly
// owned StringObj accounted against scope. Chosen over tracking precise ownership transfer from the
// evaluation arena, for simplicity (see DESIGN.md).
func (e *Engine) storeScalar(slot *value.Value, scope token.Scope, newVal value.Value) {
	if slot.Kind == token.ValueString && slot.Str != nil {
 e.Counters.FreeString(scope, value.ObjString, slot.Str)
	}
	if newVal.Kind == token.ValueString && newVal.Str != nil {
 newVal.Str = e.Counters.NewOwnedString(scope, value.ObjString, newVal.Str.Bytes)
	}
	*slot = newVal
}

func (e *Engine) newParsedConstString(s string) *value.StringObj {
	obj := e.Counters.NewOwnedString(token.ScopeUnresolved, value.ObjParsedConstString, []byte(s))
	return e.track(value.ObjParsedConstString, obj)
}
