// Package exec is the tree-walking execution engine: it drives straight off
// the binary token stream the parser produced. There is no separate compile pass and no
// AST — the same buffer the parser appended records to is read back, one
// record at a time, by Engine.
package exec

import (
	"fmt"
	"io"
	"time"

	"justina/internal/hostio"
	"justina/parser"
	"justina/symbols"
	"justina/token"
	"justina/value"
)

// blockCtx is the engine's runtime flow-control stack entry: one per
// currently open if/while/for block the engine is executing through,
// built as execution enters each block header — a separate, runtime-only
// structure from the parser's parse-time BlockStack
// (justina/parser.State.BlockStack), since execution order and parse
// order are not the same thing once loops repeat.
type blockCtx struct {
	kind token.BlockKind

	openPos int // if/while/for header record position, for break/continue/retest

	// if-chain bookkeeping
	resolved bool // a branch of this if/elseif/.../else chain has already run

	// for-loop bookkeeping, evaluated once at loop entry:
	// a pointer to the control variable's slot and its original type byte
	// (the control variable keeps its original storage type across
	// iterations even though the loop test compares as float), the final
	// value and step, and the body's start position so a retest can jump
	// straight to it without re-reading the clause tokens.
	slot *value.Value
	ctrlType token.TypeByte
	final value.Value
	step value.Value
	hasFinal bool
	bodyPos int
}

// CallFrame is one user-function activation: the function's index and its
// parameter/local value slots and types. Function calls are implemented as ordinary Go function calls in this
// engine (Engine.callUserFunc recurses), so the invariant that the
// caller's evaluation-stack depth is restored on return is satisfied
// automatically by Go's own call-stack unwinding rather than needing
// explicit bookkeeping — there is no separate save/restore step.
type CallFrame struct {
	FuncIdx int
	Locals []value.Value
	Types []token.TypeByte
}

// arenaEntry is one heap string the engine allocated for the lifetime of a
// single statement (an intermediate expression result, or a freshly
// re-parsed string constant) and will free in bulk once the statement
// finishes, rather than tracking its precise expiry point mid-expression
// (see DESIGN.md's note on this simplification relative to the original's
// per-evalStack-level immediate free).
type arenaEntry struct {
	kind value.ObjKind
	str *value.StringObj
}

// DisplayConfig holds the dispfmt/floatFmt/intFmt/dispMode settings.
// FormatValue reads only IntBase and FloatPrecision; FloatWidth,
// FloatFormat and CompactMode are stored but do not change its output.
type DisplayConfig struct {
	FloatWidth int
	FloatPrecision int
	FloatFormat byte // 'f', 'e', 'g'
	IntBase int // 10 or 16
	CompactMode bool // dispMode: compact vs. verbose separators
}

// Engine is one running interpreter instance. Every piece of mutable state
// it needs lives on this struct, never in a package-level global, so
// multiple interpreters can coexist in one process.
type Engine struct {
	Scopes *symbols.Scopes
	Parser *parser.State
	Prog *token.Buffer

	Counters *value.Counters

	Out io.Writer
	Dbg io.Writer
	In io.Reader

	Display DisplayConfig

	// Flags is the housekeeping app-flags word: the run loop polls it at
	// every statement boundary so a host goroutine can request
	// abort/kill/stop/console-reset without the core needing its own
	// signal-handling machinery.
	Flags *hostio.Flags

	blocks []blockCtx
	calls []*CallFrame
	arena []arenaEntry

	lastResults []value.Value // ring buffer consulted by the last builtin

	startedAt time.Time

	stopped bool
	quitCode int
	quitting bool
}

// NewEngine creates an Engine bound to scopes/parser state and the program
// buffer execution reads from.
func NewEngine(scopes *symbols.Scopes, p *parser.State, prog *token.Buffer, out, dbg io.Writer, in io.Reader) *Engine {
	return &Engine{
 Scopes: scopes,
 Parser: p,
 Prog: prog,
 Counters: value.NewCounters(),
 Out: out,
 Dbg: dbg,
 In: in,
 Display: DisplayConfig{FloatWidth: 0, FloatPrecision: 6, FloatFormat: 'f', IntBase: 10},
 Flags: hostio.New(),
 startedAt: time.Now(),
	}
}

// --- builtins.Host implementation ---

func (e *Engine) NewIntermediateString(s string) *value.StringObj {
	obj := e.Counters.NewOwnedString(token.ScopeUnresolved, value.ObjIntermediateString, []byte(s))
	return e.track(value.ObjIntermediateString, obj)
}

func (e *Engine) FreeIntermediateString(s *value.StringObj) {
	// No-op: this engine reclaims intermediate strings in bulk at the end
	// of the statement that created them (see arenaEntry), rather than at
	// the precise point they are last read, so an explicit early free has
	// nothing additional to do.
}

func (e *Engine) Print(s string) {
	if e.Out != nil {
 fmt.Fprint(e.Out, s)
	}
}

func (e *Engine) DebugPrint(s string) {
	if e.Dbg != nil {
 fmt.Fprint(e.Dbg, s)
	}
}

func (e *Engine) Millis() int64 {
	return time.Since(e.startedAt).Milliseconds()
}

func (e *Engine) LastResult(depth int) (value.Value, bool) {
	n := len(e.lastResults)
	if depth < 0 || depth >= n {
 return value.Value{}, false
	}
	return e.lastResults[n-1-depth], true
}

func (e *Engine) track(kind value.ObjKind, s *value.StringObj) *value.StringObj {
	if s != nil {
 e.arena = append(e.arena, arenaEntry{kind: kind, str: s})
	}
	return s
}

func (e *Engine) clearArena() {
	for _, a := range e.arena {
 e.Counters.FreeString(token.ScopeUnresolved, a.kind, a.str)
	}
	e.arena = e.arena[:0]
}

func (e *Engine) recordLastResult(v value.Value) {
	const maxLast = 8
	e.lastResults = append(e.lastResults, v)
	if len(e.lastResults) > maxLast {
 e.lastResults = e.lastResults[len(e.lastResults)-maxLast:]
	}
}

// currentFrame returns the innermost active call frame, or nil at top
// level.
func (e *Engine) currentFrame() *CallFrame {
	if len(e.calls) == 0 {
 return nil
	}
	return e.calls[len(e.calls)-1]
}
