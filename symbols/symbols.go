// Package symbols implements the interned name tables for program
// variables, user variables, and user functions. Grounded on a reserved-word
// lookup-table idiom, generalized from a fixed compile-time map into
// growable runtime tables since Justina's names are assigned as the
// program is parsed.
package symbols

import (
	"justina/token"
)

const MaxNameLen = 15

// Names is a simple interning table: each distinct name is assigned a
// stable index on first use, and repeated lookups return the same index.
// Program-variable names are shared across global, static, and
// local/parameter variables of that name — resolution picks the correct
// slot by scope, so Names only tracks the text, never the scope.
type Names struct {
	byIndex []string
	byName map[string]int
}

func NewNames() *Names {
	return &Names{byName: make(map[string]int)}
}

// Intern returns the stable index for name, creating an entry if needed.
// Returns an error if name exceeds MaxNameLen.
func (n *Names) Intern(name string) (int, error) {
	if idx, ok := n.byName[name]; ok {
 return idx, nil
	}
	if len(name) > MaxNameLen {
 return 0, token.NewParseError(token.CodeLexIdentifierTooLong, "identifier too long: "+name)
	}
	idx := len(n.byIndex)
	n.byIndex = append(n.byIndex, name)
	n.byName[name] = idx
	return idx, nil
}

// Lookup returns the index of name if already interned.
func (n *Names) Lookup(name string) (int, bool) {
	idx, ok := n.byName[name]
	return idx, ok
}

func (n *Names) Name(idx int) string { return n.byIndex[idx] }

func (n *Names) Len() int { return len(n.byIndex) }

// VarSlot is a program-variable name slot: one name may be shared by (at
// most) one global, one per-function static, and one per-function
// local/parameter variable at a time.
type VarSlot struct {
	NameIndex int
	HasGlobal bool
	GlobalIdx int // index into the global value array, when HasGlobal
}

// FuncEntry tracks a user function's declared signature, populated when its
// `function` header is parsed and marked Defined at the matching `end`. A
// call written before the header is not recognized as a function call, so
// no entry is created from a call site.
type FuncEntry struct {
	NameIndex int
	Defined bool
	MinArgs int
	MaxArgs int
	ArrayParams uint16 // bit i set => parameter i is declared as an array
	RefParams uint16 // bit i set => parameter i is declared "&name" (by reference)
	StartToken int // token buffer offset of the first token after `)`
	LocalCount int
	ParamCount int

	// LocalTypes/LocalArrayDims/LocalArrayNDims are parallel, indexed by
	// the same local-name slot order the function's body assigns
	// (parameters first, then locals in declaration order): the execution
	// engine needs a non-array local's declared value type and a local
	// array's declared dimensions to build each call frame, since that
	// storage doesn't exist until the call happens.
	// Parameter array dimensions are left zero here since a parameter
	// array is always bound to the caller's own array object instead of
	// being freshly allocated.
	LocalTypes []token.TypeByte
	LocalArrayDims [][3]byte
	LocalArrayNDims []byte
}
