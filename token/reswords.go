package token

// ResWordCode identifies a specific reserved word (command). The set here
// is the core command surface; the original Justina interpreter's
// _resWords[] table (see DESIGN.md) additionally carries debugger,
// breakpoint, file-transfer and TCP commands that are out of scope for the
// hard core.
type ResWordCode byte

const (
	ResNone ResWordCode = iota
	ResVar
	ResConst
	ResStatic
	ResLocal
	ResFunction
	ResIf
	ResElseif
	ResElse
	ResWhile
	ResFor
	ResEnd
	ResBreak
	ResContinue
	ResReturn
	ResInput
	ResPrint
	ResCout
	ResDbout
	ResDispFmt
	ResFloatFmt
	ResIntFmt
	ResDispMode
	ResStop
	ResQuit
)

// BlockKind classifies a reserved word's role in block linkage: whether it
// opens, continues, or closes a block, and which loop/function the parser
// must find when validating it.
type BlockKind byte

const (
	BlockNone BlockKind = iota
	BlockFunctionStart
	BlockIfStart
	BlockIfMid // elseif/else
	BlockWhileStart
	BlockForStart
	BlockEnd // closes innermost open block, of whichever kind
	BlockBreakContinue
	BlockReturn
)

// ResWordDef is one entry of the reserved-word table: name, command code,
// min/max argument count and block-linkage role. Grounded on Justina.h's
// ResWordDef/CmdBlockDef structs, collapsed into a single Go struct (tagged
// struct rather than C unions).
type ResWordDef struct {
	Name string
	Code ResWordCode
	MinArgs int
	MaxArgs int
	Block BlockKind
}

// ResWords is the reserved-word table, consulted by the parser's
// reserved-word recognizer (first in the candidate chain).
var ResWords = []ResWordDef{
	{"var", ResVar, 1, 15, BlockNone},
	{"const", ResConst, 1, 15, BlockNone},
	{"static", ResStatic, 1, 15, BlockNone},
	{"local", ResLocal, 1, 15, BlockNone},
	{"function", ResFunction, 1, 1, BlockFunctionStart},
	{"if", ResIf, 1, 1, BlockIfStart},
	{"elseif", ResElseif, 1, 1, BlockIfMid},
	{"else", ResElse, 0, 0, BlockIfMid},
	{"while", ResWhile, 1, 1, BlockWhileStart},
	{"for", ResFor, 1, 3, BlockForStart},
	{"end", ResEnd, 0, 0, BlockEnd},
	{"break", ResBreak, 0, 0, BlockBreakContinue},
	{"continue", ResContinue, 0, 0, BlockBreakContinue},
	{"return", ResReturn, 0, 1, BlockReturn},
	{"input", ResInput, 1, 2, BlockNone},
	{"print", ResPrint, 1, 15, BlockNone},
	{"cout", ResCout, 1, 15, BlockNone},
	{"dbout", ResDbout, 1, 15, BlockNone},
	{"dispfmt", ResDispFmt, 1, 3, BlockNone},
	{"floatFmt", ResFloatFmt, 1, 3, BlockNone},
	{"intFmt", ResIntFmt, 1, 3, BlockNone},
	{"dispMode", ResDispMode, 1, 1, BlockNone},
	{"stop", ResStop, 0, 0, BlockNone},
	{"quit", ResQuit, 0, 1, BlockNone},
}

// ResWordByName indexes ResWords by name for the parser's recognizer.
var ResWordByName = func() map[string]int {
	m := make(map[string]int, len(ResWords))
	for i, r := range ResWords {
		m[r.Name] = i
	}
	return m
}()
