package exec

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"justina/internal/hostio"
	"justina/token"
	"justina/value"
)

// ctl is the statement dispatcher's control-transfer result: most commands
// just fall through to the next statement, but return/end-of-function need
// to unwind the current runFrom loop.
type ctl byte

const (
	ctlNone ctl = iota
	ctlReturn
	ctlFunctionEnd
)

// Run executes the durable program buffer from the beginning — the
// top-level "run a loaded program" entry point.
func (e *Engine) Run() error {
	rd := token.NewReader(e.Prog, 0)
	_, _, err := e.runFrom(rd)
	return err
}

// RunImmediate executes one already-parsed immediate-mode statement
// sitting in buf starting at pos — the REPL's per-statement execution path.
func (e *Engine) RunImmediate(buf *token.Buffer, pos int) error {
	rd := token.NewReader(buf, pos)
	_, _, err := e.runFrom(rd)
	return err
}

// runFrom executes statements starting at rd's current position until the
// buffer is exhausted, a `return` is executed, or the matching `end` of a
// function call is reached. It owns its own flow-control (blocks) stack,
// since control flow never crosses a function-call boundary.
func (e *Engine) runFrom(rd *token.Reader) (returned bool, retVal value.Value, err error) {
	savedBlocks := e.blocks
	e.blocks = nil
	defer func() { e.blocks = savedBlocks }()

	for !rd.AtEnd() {
 if e.quitting || e.stopped {
 return false, value.Value{}, nil
 }
 switch e.Flags.Poll() {
 case hostio.RequestAbort:
 return false, value.Value{}, token.NewExecError(token.EventAbort, "statement aborted")
 case hostio.RequestKill:
 e.quitting = true
 return false, value.Value{}, token.NewExecError(token.EventKill, "interpreter killed")
 case hostio.RequestStop:
 e.stopped = true
 return false, value.Value{}, nil
 }
 if rd.Kind() != token.KindReservedWord {
 return false, value.Value{}, token.NewExecError(token.CodeCommandNotAllowedHere, "expected a statement")
 }
 code, stepPos, _ := rd.ReadResWord()
 c, val, serr := e.execCommand(rd, code, stepPos)
 e.clearArena()
 if serr != nil {
 return false, value.Value{}, serr
 }
 switch c {
 case ctlReturn:
 return true, val, nil
 case ctlFunctionEnd:
 return false, value.Value{}, nil
 }
	}
	return false, value.Value{}, nil
}

func (e *Engine) execCommand(rd *token.Reader, code token.ResWordCode, stepPos int) (ctl, value.Value, error) {
	switch code {
	case token.ResNone:
 v, err := e.evalExpr(rd)
 if err != nil {
 return ctlNone, value.Value{}, err
 }
 e.recordLastResult(v)
 return ctlNone, value.Value{}, nil

	case token.ResVar, token.ResConst, token.ResStatic, token.ResLocal:
 for rd.Kind() == token.KindVariable {
 rd.ReadVariable()
 }
 return ctlNone, value.Value{}, nil

	case token.ResFunction:
 target := e.Prog.ReadStep(stepPos)
 rd.SeekTo(target + endRecordLen)
 return ctlNone, value.Value{}, nil

	case token.ResIf:
 e.blocks = append(e.blocks, blockCtx{kind: token.BlockIfStart, openPos: stepPos})
 test, err := e.evalExpr(rd)
 if err != nil {
 return ctlNone, value.Value{}, err
 }
 blk := &e.blocks[len(e.blocks)-1]
 if test.IsTruthy() {
 blk.resolved = true
 } else {
 rd.SeekTo(e.Prog.ReadStep(stepPos))
 }
 return ctlNone, value.Value{}, nil

	case token.ResElseif:
 blk := &e.blocks[len(e.blocks)-1]
 if blk.resolved {
 rd.SeekTo(e.Prog.ReadStep(stepPos))
 return ctlNone, value.Value{}, nil
 }
 test, err := e.evalExpr(rd)
 if err != nil {
 return ctlNone, value.Value{}, err
 }
 if test.IsTruthy() {
 blk.resolved = true
 } else {
 rd.SeekTo(e.Prog.ReadStep(stepPos))
 }
 return ctlNone, value.Value{}, nil

	case token.ResElse:
 blk := &e.blocks[len(e.blocks)-1]
 if blk.resolved {
 rd.SeekTo(e.Prog.ReadStep(stepPos))
 return ctlNone, value.Value{}, nil
 }
 blk.resolved = true
 return ctlNone, value.Value{}, nil

	case token.ResWhile:
 if top := e.topLoopReentry(stepPos, token.BlockWhileStart); top == nil {
 e.blocks = append(e.blocks, blockCtx{kind: token.BlockWhileStart, openPos: stepPos})
 }
 test, err := e.evalExpr(rd)
 if err != nil {
 return ctlNone, value.Value{}, err
 }
 if !test.IsTruthy() {
 e.blocks = e.blocks[:len(e.blocks)-1]
 rd.SeekTo(e.Prog.ReadStep(stepPos) + endRecordLen)
 }
 return ctlNone, value.Value{}, nil

	case token.ResFor:
 return ctlNone, value.Value{}, e.execFor(rd, stepPos)

	case token.ResEnd:
 return e.execEnd(rd, stepPos)

	case token.ResBreak:
 return ctlNone, value.Value{}, e.execBreak(rd)

	case token.ResContinue:
 return ctlNone, value.Value{}, e.execContinue(rd)

	case token.ResReturn:
 v := value.Long(0)
 if !rd.AtEnd() && rd.Kind() != token.KindReservedWord {
 var err error
 v, err = e.evalExpr(rd)
 if err != nil {
 return ctlNone, value.Value{}, err
 }
 }
 return ctlReturn, v, nil

	case token.ResPrint, token.ResCout, token.ResDbout:
 return ctlNone, value.Value{}, e.execOutput(rd, code)

	case token.ResInput:
 return ctlNone, value.Value{}, e.execInput(rd)

	case token.ResDispFmt, token.ResFloatFmt, token.ResIntFmt, token.ResDispMode:
 return ctlNone, value.Value{}, e.execDisplayConfig(rd, code)

	case token.ResStop:
 e.stopped = true
 return ctlNone, value.Value{}, nil

	case token.ResQuit:
 e.quitting = true
 if !rd.AtEnd() && rd.Kind() != token.KindReservedWord {
 v, err := e.evalExpr(rd)
 if err == nil && v.Kind == token.ValueLong {
 e.quitCode = int(v.Long)
 }
 }
 return ctlNone, value.Value{}, nil

	default:
 return ctlNone, value.Value{}, token.NewExecError(token.CodeCommandNotAllowedHere, "unimplemented command")
	}
}

// endRecordLen is the byte length of an `end` (or any other block-command)
// record; ResEnd is always parsed with isBlock=true (record.go's
// recLenResWordBlk), so after jumping to its position a caller must add
// this to land just past it.
const endRecordLen = 4

func (e *Engine) topLoopReentry(stepPos int, kind token.BlockKind) *blockCtx {
	if len(e.blocks) == 0 {
 return nil
	}
	top := &e.blocks[len(e.blocks)-1]
	if top.openPos == stepPos && top.kind == kind {
 return top
	}
	return nil
}

// execFor implements for-loop semantics: a control variable assignment, an
// optional final-value expression, and an optional step expression
// (defaulting to 1), separated by commas exactly like a print/cout
// argument list — parsed once at loop entry, not re-read on each
// iteration.
func (e *Engine) execFor(rd *token.Reader, stepPos int) error {
	if ctx := e.topLoopReentry(stepPos, token.BlockForStart); ctx != nil {
 e.advanceForControlVar(ctx)
 if e.forTestPasses(ctx) {
 rd.SeekTo(ctx.bodyPos)
 } else {
 e.blocks = e.blocks[:len(e.blocks)-1]
 rd.SeekTo(e.Prog.ReadStep(stepPos) + endRecordLen)
 }
 return nil
	}

	initOp, err := e.parseExpr(rd, 0)
	if err != nil {
 return err
	}
	if initOp.slot == nil {
 return token.NewExecError(token.CodeVariableNameExpected, "for-loop control variable expected")
	}
	newCtx := blockCtx{kind: token.BlockForStart, openPos: stepPos, slot: initOp.slot, ctrlType: initOp.typ}

	if tc, ok := peekTermCode(rd); ok && tc == token.TermComma {
 rd.ReadTerminal()
 finalOp, err := e.parseExpr(rd, 0)
 if err != nil {
 return err
 }
 newCtx.final = finalOp.val
 newCtx.hasFinal = true
	}
	if tc, ok := peekTermCode(rd); ok && tc == token.TermComma {
 rd.ReadTerminal()
 stepOp, err := e.parseExpr(rd, 0)
 if err != nil {
 return err
 }
 newCtx.step = stepOp.val
	} else {
 newCtx.step = value.Long(1)
	}

	newCtx.bodyPos = rd.Pos()
	e.blocks = append(e.blocks, newCtx)
	if !e.forTestPasses(&newCtx) {
 e.blocks = e.blocks[:len(e.blocks)-1]
 rd.SeekTo(e.Prog.ReadStep(stepPos) + endRecordLen)
	}
	return nil
}

// advanceForControlVar adds ctx.step to the control variable, preserving
// its original storage type rather than the type it may have been
// promoted to for the comparison.
func (e *Engine) advanceForControlVar(ctx *blockCtx) {
	if ctx.ctrlType.ValueType() == token.ValueLong {
 ctx.slot.Long += int32(ctx.step.AsFloat())
	} else {
 ctx.slot.Flt += ctx.step.AsFloat()
	}
}

// forTestPasses compares the control variable against the final value as
// float regardless of either side's declared type (a documented
// simplification of int-or-float test-type determination),
// taking the step's sign to decide whether the loop counts up or down. A
// zero step always passes the test.
func (e *Engine) forTestPasses(ctx *blockCtx) bool {
	if !ctx.hasFinal {
 return true
	}
	cur := ctx.slot.AsFloat()
	final := ctx.final.AsFloat()
	step := ctx.step.AsFloat()
	if step < 0 {
 return cur >= final
	}
	if step > 0 {
 return cur <= final
	}
	return true
}

func (e *Engine) execEnd(rd *token.Reader, stepPos int) (ctl, value.Value, error) {
	if len(e.blocks) == 0 {
 return ctlFunctionEnd, value.Value{}, nil
	}
	blk := e.blocks[len(e.blocks)-1]
	switch blk.kind {
	case token.BlockIfStart:
 e.blocks = e.blocks[:len(e.blocks)-1]
	case token.BlockWhileStart, token.BlockForStart:
 rd.SeekTo(e.Prog.ReadStep(stepPos))
	}
	return ctlNone, value.Value{}, nil
}

func (e *Engine) execBreak(rd *token.Reader) error {
	idx := e.nearestLoopIdx()
	if idx < 0 {
 return token.NewExecError(token.CodeNoOpenLoop, "break outside a loop")
	}
	loopStepPos := e.blocks[idx].openPos
	e.blocks = e.blocks[:idx]
	rd.SeekTo(e.Prog.ReadStep(loopStepPos) + endRecordLen)
	return nil
}

func (e *Engine) execContinue(rd *token.Reader) error {
	idx := e.nearestLoopIdx()
	if idx < 0 {
 return token.NewExecError(token.CodeNoOpenLoop, "continue outside a loop")
	}
	e.blocks = e.blocks[:idx+1]
	rd.SeekTo(e.blocks[idx].openPos)
	return nil
}

func (e *Engine) nearestLoopIdx() int {
	for i := len(e.blocks) - 1; i >= 0; i-- {
 if e.blocks[i].kind == token.BlockWhileStart || e.blocks[i].kind == token.BlockForStart {
 return i
 }
	}
	return -1
}

func (e *Engine) execOutput(rd *token.Reader, code token.ResWordCode) error {
	var parts []string
	for {
 v, err := e.evalExpr(rd)
 if err != nil {
 return err
 }
 parts = append(parts, e.FormatValue(v))
 if rd.Kind() == token.KindTerminal1 || rd.Kind() == token.KindTerminal2 || rd.Kind() == token.KindTerminal3 {
 pos := rd.Pos()
 if tc, ok := peekTermCode(rd); ok && tc == token.TermComma {
 rd.ReadTerminal()
 continue
 }
 rd.SeekTo(pos)
 }
 break
	}
	text := strings.Join(parts, " ")
	if code == token.ResPrint {
 text += "\n"
	}
	if code == token.ResDbout {
 e.DebugPrint(text)
	} else {
 e.Print(text)
	}
	return nil
}

func (e *Engine) execInput(rd *token.Reader) error {
	if rd.Kind() != token.KindVariable {
 return token.NewExecError(token.CodeVariableNameExpected, "input requires a variable target")
	}
	typ, _, slotIdx := rd.ReadVariable()
	slot, scope := e.resolveVarSlot(typ, int(slotIdx))

	reader := bufio.NewReader(e.In)
	line, _ := reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")

	if iv, err := strconv.ParseInt(line, 10, 32); err == nil {
 e.storeScalar(slot, scope, value.Long(int32(iv)))
	} else if fv, err := strconv.ParseFloat(line, 32); err == nil {
 e.storeScalar(slot, scope, value.Float(float32(fv)))
	} else {
 e.storeScalar(slot, scope, value.Str(&value.StringObj{Bytes: []byte(line)}))
	}
	return nil
}

func (e *Engine) execDisplayConfig(rd *token.Reader, code token.ResWordCode) error {
	var args []value.Value
	for {
 v, err := e.evalExpr(rd)
 if err != nil {
 return err
 }
 args = append(args, v)
 if tc, ok := peekTermCode(rd); ok && tc == token.TermComma {
 rd.ReadTerminal()
 continue
 }
 break
	}
	switch code {
	case token.ResFloatFmt, token.ResDispFmt:
 if len(args) >= 1 {
 e.Display.FloatWidth = int(args[0].AsFloat())
 }
 if len(args) >= 2 {
 e.Display.FloatPrecision = int(args[1].AsFloat())
 }
	case token.ResIntFmt:
 if len(args) >= 1 && args[0].Kind == token.ValueLong && args[0].Long == 16 {
 e.Display.IntBase = 16
 } else if len(args) >= 1 {
 e.Display.IntBase = 10
 }
	case token.ResDispMode:
 if len(args) >= 1 {
 e.Display.CompactMode = args[0].IsTruthy()
 }
	}
	return nil
}

// FormatValue renders v per the engine's current display configuration
// (integer base and float precision); used by print/cout/dbout.
func (e *Engine) FormatValue(v value.Value) string {
	switch v.Kind {
	case token.ValueLong:
 if e.Display.IntBase == 16 {
 return fmt.Sprintf("%x", v.Long)
 }
 return strconv.FormatInt(int64(v.Long), 10)
	case token.ValueFloat:
 prec := e.Display.FloatPrecision
 if prec <= 0 {
 prec = 6
 }
 return strconv.FormatFloat(float64(v.Flt), 'f', prec, 32)
	case token.ValueString:
 return v.Str.String()
	case token.ValueArray:
 return "[array]"
	default:
 return ""
	}
}
