// Package builtins implements the built-in function table and
// implementations: a small table of {min-args, max-args,
// scalar/array-bitmap-for-first-eight-args} entries, each backed by a Go
// function. SD-card/stream-I/O and WiFi/TCP built-ins are external
// collaborators and are not reimplemented here; the functions below are
// the core-language built-ins (math, string, array, type and formatting
// helpers) that the execution engine itself depends on.
package builtins

import (
	"justina/value"
)

// Def is one entry of the built-in function table: name, argument-count
// range, and a bitmap (bit i => argument i must be an array). The
// execution engine checks the argument count against MinArgs/MaxArgs when
// the call runs; neither the parser nor the engine checks ArrayArgs, and
// the parser checks neither count nor pattern.
type Def struct {
	Name string
	MinArgs int
	MaxArgs int
	ArrayArgs uint8 // bit i (0-based, first 8 args only) => must be array
	Impl func(h Host, args []value.Value) (value.Value, error)
}

// Host is the narrow interface built-in implementations need from the
// execution engine: heap accounting and the host-facing I/O and
// formatting hooks that calls out as external collaborators.
// exec.Engine implements this interface; builtins never imports exec,
// keeping the dependency one-directional.
type Host interface {
	NewIntermediateString(s string) *value.StringObj
	FreeIntermediateString(s *value.StringObj)
	Print(s string)
	DebugPrint(s string)
	FormatValue(v value.Value) string
	Millis() int64
	LastResult(depth int) (value.Value, bool)
}

// Table is indexed by the same order used when the parser assigns a
// built-in's INTFN token index, so the index recorded in the token buffer
// is a stable lookup key at execution time.
var Table = []Def{
	{"abs", 1, 1, 0, biAbs},
	{"sgn", 1, 1, 0, biSgn},
	{"sqrt", 1, 1, 0, biSqrt},
	{"sin", 1, 1, 0, biSin},
	{"cos", 1, 1, 0, biCos},
	{"tan", 1, 1, 0, biTan},
	{"min", 2, 2, 0, biMin},
	{"max", 2, 2, 0, biMax},
	{"len", 1, 1, 0, biLen},
	{"asc", 1, 1, 0, biAsc},
	{"char", 1, 1, 0, biChar},
	{"left", 2, 2, 0, biLeft},
	{"right", 2, 2, 0, biRight},
	{"mid", 2, 3, 0, biMid},
	{"upper", 1, 1, 0, biUpper},
	{"lower", 1, 1, 0, biLower},
	{"valueType", 1, 1, 0, biValueType},
	{"dims", 1, 1, 1 /*arg0 is array*/, biDims},
	{"ubound", 2, 2, 1, biUbound},
	{"millis", 0, 0, 0, biMillis},
	{"last", 0, 1, 0, biLast},
	{"fmtNum", 2, 4, 0, biFmtNum},
	{"nl", 0, 0, 0, biNl},
}

// ByName indexes Table by function name for the parser's recognizer.
var ByName = func() map[string]int {
	m := make(map[string]int, len(Table))
	for i, d := range Table {
 m[d.Name] = i
	}
	return m
}()
