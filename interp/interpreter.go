// Package interp encapsulates all interpreter state in a single Interpreter
// value, so a host program can run more than one instance. It wires
// justina/symbols, justina/parser, and justina/exec into one object with no
// package-level state anywhere underneath it.
package interp

import (
	"io"

	"justina/exec"
	"justina/parser"
	"justina/symbols"
	"justina/token"
)

const (
	defaultProgramBytes = 1 << 16 // fixed-size program buffer budget
	defaultImmediateBytes = 1 << 12
)

// Config configures a new Interpreter. Zero-value fields fall back to the
// same defaults New would pick without a Config at all.
type Config struct {
	ProgramBufferBytes int
	ImmediateBufferBytes int
	Out io.Writer
	Dbg io.Writer
	In io.Reader
}

// Interpreter is one independent Justina instance: its own symbol tables,
// program/immediate token buffers, parser state, and execution engine.
// Nothing here is shared across Interpreter values.
type Interpreter struct {
	Scopes *symbols.Scopes
	Parser *parser.State
	Engine *exec.Engine

	progBuf *token.Buffer
	immBuf *token.Buffer
}

// New creates a fresh Interpreter ready to load or immediately execute
// statements.
func New(cfg Config) *Interpreter {
	progBytes := cfg.ProgramBufferBytes
	if progBytes == 0 {
 progBytes = defaultProgramBytes
	}
	immBytes := cfg.ImmediateBufferBytes
	if immBytes == 0 {
 immBytes = defaultImmediateBytes
	}
	scopes := symbols.NewScopes()
	progBuf := token.NewBuffer(progBytes)
	immBuf := token.NewBuffer(immBytes)
	pState := parser.NewState(scopes, progBuf, immBuf)
	engine := exec.NewEngine(scopes, pState, progBuf, cfg.Out, cfg.Dbg, cfg.In)

	return &Interpreter{
 Scopes: scopes,
 Parser: pState,
 Engine: engine,
 progBuf: progBuf,
 immBuf: immBuf,
	}
}

// LoadStatement parses one statement's source text into the durable program
// buffer, building up a loaded program one statement at a time.
func (ip *Interpreter) LoadStatement(src string) error {
	ip.Parser.Target = ip.progBuf
	return ip.Parser.ParseStatement(src)
}

// RunProgram executes the durable program buffer from its start.
func (ip *Interpreter) RunProgram() error {
	return ip.Engine.Run()
}

// ExecImmediate parses and immediately executes one statement in the scratch
// immediate-mode buffer, discarding its tokens afterward. This is the
// REPL's single per-line unit of work.
func (ip *Interpreter) ExecImmediate(src string) error {
	ip.immBuf.Reset()
	ip.Parser.Target = ip.immBuf
	pos := ip.immBuf.Len()
	if err := ip.Parser.ParseStatement(src); err != nil {
 return err
	}
	return ip.Engine.RunImmediate(ip.immBuf, pos)
}

// ResetProgram clears the loaded program (global/static variables, program
// names, function table) while preserving user variables, matching
// symbols.Scopes.ResetProgram's contract; it also empties both token
// buffers since their contents reference the cleared name tables.
func (ip *Interpreter) ResetProgram() {
	ip.Scopes.ResetProgram()
	ip.progBuf.Reset()
	ip.immBuf.Reset()
}

// ProgramBytes returns the raw bytes of the durable program token buffer,
// for tooling that inspects the parsed token stream directly (cmd/justina's
// `tokens` subcommand).
func (ip *Interpreter) ProgramBytes() []byte {
	return ip.progBuf.Bytes()
}

// CountersZero reports whether every heap-object counter has returned to
// zero, the leak-freedom invariant required after a program reset or a
// completed top-level statement.
func (ip *Interpreter) CountersZero() bool {
	return ip.Engine.Counters.Zero()
}
