package value

import "justina/token"

// ObjKind distinguishes which kind of heap object a counter tracks.
type ObjKind int

const (
	ObjString ObjKind = iota
	ObjArray
	ObjIdentifierName
	ObjIntermediateString
	ObjParsedConstString
	ObjLastResultString
	objKindCount
)

// Counters tracks one counter per (scope × kind) pair, the primary leak
// detector: counters are incremented on allocation and decremented on
// delete, and a non-zero counter after teardown is a diagnosable error.
// Scope-less kinds (identifier names, intermediate/parsed-constant/
// last-result strings) use token.ScopeUnresolved as a fixed bucket.
type Counters struct {
	counts [6][objKindCount]int // indexed by token.Scope, then ObjKind
}

func NewCounters() *Counters { return &Counters{} }

func (c *Counters) Inc(scope token.Scope, kind ObjKind) {
	c.counts[scope][kind]++
}

func (c *Counters) Dec(scope token.Scope, kind ObjKind) {
	c.counts[scope][kind]--
}

func (c *Counters) Get(scope token.Scope, kind ObjKind) int {
	return c.counts[scope][kind]
}

// Zero reports whether every counter has returned to zero — the invariant
// required after any successful reset or statement teardown.
func (c *Counters) Zero() bool {
	for _, row := range c.counts {
 for _, n := range row {
 if n != 0 {
 return false
 }
 }
	}
	return true
}

// Leaks returns every nonzero (scope, kind) pair, for diagnostics.
func (c *Counters) Leaks() map[string]int {
	out := map[string]int{}
	scopeNames := []token.Scope{
 token.ScopeUnresolved, token.ScopeParam, token.ScopeLocal,
 token.ScopeStatic, token.ScopeGlobal, token.ScopeUser,
	}
	kindNames := map[ObjKind]string{
 ObjString: "string", ObjArray: "array", ObjIdentifierName: "identifier-name",
 ObjIntermediateString: "intermediate-string", ObjParsedConstString: "parsed-const-string",
 ObjLastResultString: "last-result-string",
	}
	for _, s := range scopeNames {
 for k, name := range kindNames {
 if n := c.counts[s][k]; n != 0 {
 out[s.String()+"/"+name] = n
 }
 }
	}
	return out
}

// NewOwnedString allocates a heap string object and accounts it against
// scope/kind. Passing an empty byte slice still returns a nil StringObj
// and does not touch the counter — the empty string is represented as a null
// pointer, never a zero-length heap string.
func (c *Counters) NewOwnedString(scope token.Scope, kind ObjKind, s []byte) *StringObj {
	if len(s) == 0 {
 return nil
	}
	c.Inc(scope, kind)
	return &StringObj{Bytes: append([]byte(nil), s...)}
}

// FreeString releases a previously-owned string object, decrementing its
// counter. Safe to call with a nil object (the empty-string case).
func (c *Counters) FreeString(scope token.Scope, kind ObjKind, s *StringObj) {
	if s == nil {
 return
	}
	c.Dec(scope, kind)
}

// NewOwnedArray allocates a heap array object and accounts it.
func (c *Counters) NewOwnedArray(scope token.Scope, dims []byte) *ArrayObj {
	a := &ArrayObj{NDims: byte(len(dims))}
	copy(a.Dims[:], dims)
	a.Elements = make([]Value, a.ElemCount()+1) // +1 for header slot
	c.Inc(scope, ObjArray)
	return a
}

func (c *Counters) FreeArray(scope token.Scope, a *ArrayObj) {
	if a == nil {
 return
	}
	c.Dec(scope, ObjArray)
}
