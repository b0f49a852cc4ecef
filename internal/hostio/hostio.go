// Package hostio implements a housekeeping contract between the interpreter
// core and its host: a single status word the core reports on every
// housekeeping tick, and a small set of request flags the host can set back
// (kill/abort/stop/console-reset) that the core polls at statement
// boundaries. Character-wait loops (console input) do not poll.
package hostio

import "sync/atomic"

// Status is the core's reported state, carried to the host on each
// housekeeping tick.
type Status byte

const (
	StatusIdle Status = iota
	StatusParsing
	StatusExecuting
	StatusStopped
	StatusError
)

// Request is one of the flags a host can set to interrupt the core.
type Request byte

const (
	RequestNone Request = iota
	RequestAbort
	RequestKill
	RequestStop
	RequestConsoleReset
)

// Flags is the shared, concurrency-safe word a host goroutine writes to and
// the core's polling points read from. One Flags belongs to one Interpreter so multiple interpreters running
// in the same process never share polling state.
type Flags struct {
	status atomic.Int32
	request atomic.Int32
}

func New() *Flags { return &Flags{} }

func (f *Flags) SetStatus(s Status) { f.status.Store(int32(s)) }
func (f *Flags) Status() Status { return Status(f.status.Load()) }

// Request returns the currently pending host request, if any.
func (f *Flags) Request() Request { return Request(f.request.Load()) }

// RequestAbort/RequestKill/RequestStop/RequestConsoleReset let a host
// goroutine (e.g. a signal handler, or a REPL watching for Ctrl-C) ask the
// core to interrupt at its next poll point.
func (f *Flags) RequestAbortFlag() { f.request.Store(int32(RequestAbort)) }
func (f *Flags) RequestKillFlag() { f.request.Store(int32(RequestKill)) }
func (f *Flags) RequestStopFlag() { f.request.Store(int32(RequestStop)) }
func (f *Flags) RequestConsoleResetFlag() { f.request.Store(int32(RequestConsoleReset)) }

// ClearRequest resets the pending request after the core has consumed it.
func (f *Flags) ClearRequest() { f.request.Store(int32(RequestNone)) }

// Hook is the shape of a periodic callback that returns the currently
// pending request so the caller can act on it without a second round trip.
// The core does not invoke a Hook; it calls Flags.Poll directly.
type Hook func() Request

// Poll reports f's pending request and clears it. Its only caller in the
// core is exec.Engine.runFrom, once before each statement;
// console.Assembler's read loop does not poll.
func (f *Flags) Poll() Request {
	r := f.Request()
	if r != RequestNone {
 f.ClearRequest()
	}
	return r
}
