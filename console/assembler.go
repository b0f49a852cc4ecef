// Package console implements the line-assembly loop: the host feeds
// characters; the core assembles a statement (respecting string literals,
// single-line comments starting with //, multi-line comments /*... */, and
// semicolon separators), then hands the completed statement to the parser.
package console

import (
	"bufio"
	"io"

	"justina/interp"
)

// Assembler reads characters from an io.Reader, splits them into complete
// statements, and feeds each one to an Interpreter as soon as it is ready —
// the single read-assemble-dispatch loop both the REPL and program-load
// paths share.
type Assembler struct {
	src *bufio.Reader
	ip *interp.Interpreter

	// PromptFunc, when set, is called with true before reading the first
	// character of a new statement and false while a statement is still
	// incomplete (a ">>> "/"... " style prompt switch).
	PromptFunc func(freshStatement bool)
}

func NewAssembler(src io.Reader, ip *interp.Interpreter) *Assembler {
	return &Assembler{src: bufio.NewReader(src), ip: ip}
}

// scanState tracks the assembler's position inside the statement it is
// currently accumulating: plain code, inside a string literal (and whether
// the previous byte was the literal's one escape character), inside a
// single-line comment, or inside a multi-line comment.
type scanState int

const (
	stateCode scanState = iota
	stateString
	stateStringEscape
	stateLineComment
	stateBlockComment
	stateBlockCommentStar
)

// ReadStatement accumulates characters until it has one complete statement
// (a semicolon reached in stateCode, comments and string-literal bodies
// never counting as terminators) and returns its source text with the
// terminating semicolon included, ready for Interpreter.ParseStatement.
// Returns io.EOF once the stream is exhausted with no further statement
// text pending.
func (a *Assembler) ReadStatement() (string, error) {
	var buf []byte
	state := stateCode
	freshPrompt := true

	for {
 if a.PromptFunc != nil {
 a.PromptFunc(freshPrompt)
 }
 freshPrompt = false

 b, err := a.src.ReadByte()
 if err != nil {
 if len(buf) > 0 {
 return string(buf), nil
 }
 return "", err
 }

 switch state {
 case stateCode:
 switch {
 case b == '"':
 state = stateString
 case b == '/' && a.peekIs('/'):
 a.src.ReadByte()
 state = stateLineComment
 continue // comment text itself is not part of the statement
 case b == '/' && a.peekIs('*'):
 a.src.ReadByte()
 state = stateBlockComment
 continue
 case b == ';':
 buf = append(buf, b)
 return string(buf), nil
 }
 buf = append(buf, b)

 case stateString:
 buf = append(buf, b)
 switch b {
 case '\\':
 state = stateStringEscape
 case '"':
 state = stateCode
 }

 case stateStringEscape:
 buf = append(buf, b)
 state = stateString

 case stateLineComment:
 if b == '\n' {
 state = stateCode
 }
 // comment bytes are dropped, not appended

 case stateBlockComment:
 if b == '*' {
 state = stateBlockCommentStar
 }

 case stateBlockCommentStar:
 switch b {
 case '/':
 state = stateCode
 case '*':
 // stay in stateBlockCommentStar
 default:
 state = stateBlockComment
 }
 }
	}
}

func (a *Assembler) peekIs(want byte) bool {
	b, err := a.src.Peek(1)
	return err == nil && len(b) == 1 && b[0] == want
}

// RunREPL drives the read-assemble-execute loop for interactive use: each
// completed statement is parsed and immediately executed, with errors
// reported to onError rather than aborting the loop.
func (a *Assembler) RunREPL(onError func(error)) {
	for {
 stmt, err := a.ReadStatement()
 if stmt != "" {
 if perr := a.ip.ExecImmediate(stmt); perr != nil && onError != nil {
 onError(perr)
 }
 }
 if err != nil {
 return
 }
	}
}

// LoadProgram reads the entire stream as a multi-statement program, loading
// each statement into the durable program buffer without executing it.
func (a *Assembler) LoadProgram() error {
	for {
 stmt, err := a.ReadStatement()
 if stmt != "" {
 if perr := a.ip.LoadStatement(stmt); perr != nil {
 return perr
 }
 }
 if err != nil {
 if err == io.EOF {
 return nil
 }
 return err
 }
	}
}
