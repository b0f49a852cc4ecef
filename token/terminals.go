package token

// TermCode identifies a terminal token: an operator or a piece of
// punctuation (comma, semicolon, parentheses). Terminals are packed
// kind+index into a single byte, so
// TermCode values above 15 spill into KindTerminal2/KindTerminal3 purely as
// an encoding detail; the logical operator table below is flat.
type TermCode byte

const (
	TermAssign TermCode = iota
	TermPlusAssign
	TermMinusAssign
	TermMultAssign
	TermDivAssign
	TermModAssign
	TermBitAndAssign
	TermBitOrAssign
	TermBitXorAssign
	TermShlAssign
	TermShrAssign

	TermLess
	TermGreater
	TermLessEq
	TermGreaterEq
	TermNotEq
	TermEq

	TermPlus
	TermMinus
	TermMult
	TermDiv
	TermMod
	TermPow
	TermIncr
	TermDecr
	TermAnd
	TermOr
	TermNot

	TermBitCompl
	TermShl
	TermShr
	TermBitAnd
	TermBitOr
	TermBitXor

	termOpRangeEnd = TermBitXor

	TermComma TermCode = iota
	TermSemicolon
	TermLeftPar
	TermRightPar
)

// Associativity flags, grounded on Justina.h's op_RtoL/op_long/res_long bits.
const (
	AssocRightToLeft = 1 << iota
	OpLong // both operands must be integer; result is integer
	ResLong // operands may be float, but result is always integer
)

// OperatorDef is one entry of the terminal/operator table: the three
// priority levels (0 = "not usable in that position"), associativity and
// type-restriction flags. Grounded on Justina.h's TerminalDef struct and
// the _terminals[] table in JustinaMain.cpp (see DESIGN.md for the exact
// priority values carried over).
type OperatorDef struct {
	Name string
	Code TermCode
	PrefixPriority int
	InfixPriority int
	PostfixPriority int
	Flags int
}

func (d OperatorDef) RightToLeft() bool { return d.Flags&AssocRightToLeft != 0 }
func (d OperatorDef) IsOpLong() bool { return d.Flags&OpLong != 0 }
func (d OperatorDef) IsResLong() bool { return d.Flags&ResLong != 0 }

// Operators is the terminal/operator table, in the priority order carried
// over from the original Justina interpreter's _terminals[] (higher number
// binds tighter).
var Operators = []OperatorDef{
	{"=", TermAssign, 0, 1, 0, AssocRightToLeft},
	{"+=", TermPlusAssign, 0, 1, 0, AssocRightToLeft},
	{"-=", TermMinusAssign, 0, 1, 0, AssocRightToLeft},
	{"*=", TermMultAssign, 0, 1, 0, AssocRightToLeft},
	{"/=", TermDivAssign, 0, 1, 0, AssocRightToLeft},
	{"%=", TermModAssign, 0, 1, 0, AssocRightToLeft},
	{"&=", TermBitAndAssign, 0, 1, 0, AssocRightToLeft},
	{"|=", TermBitOrAssign, 0, 1, 0, AssocRightToLeft},
	{"^=", TermBitXorAssign, 0, 1, 0, AssocRightToLeft},
	{"<<=", TermShlAssign, 0, 1, 0, AssocRightToLeft},
	{">>=", TermShrAssign, 0, 1, 0, AssocRightToLeft},

	{"&", TermBitAnd, 0, 6, 0, OpLong},
	{"^", TermBitXor, 0, 5, 0, OpLong},
	{"|", TermBitOr, 0, 4, 0, OpLong},

	{"&&", TermAnd, 0, 3, 0, ResLong},
	{"||", TermOr, 0, 2, 0, ResLong},
	{"!", TermNot, 12, 0, 0, ResLong},
	{"~", TermBitCompl, 12, 0, 0, OpLong},

	{"==", TermEq, 0, 7, 0, ResLong},
	{"!=", TermNotEq, 0, 7, 0, ResLong},
	{"<", TermLess, 0, 8, 0, ResLong},
	{">", TermGreater, 0, 8, 0, ResLong},
	{"<=", TermLessEq, 0, 8, 0, ResLong},
	{">=", TermGreaterEq, 0, 8, 0, ResLong},

	{"<<", TermShl, 0, 9, 0, OpLong},
	{">>", TermShr, 0, 9, 0, OpLong},

	{"+", TermPlus, 12, 10, 0, 0},
	{"-", TermMinus, 12, 10, 0, 0},
	{"*", TermMult, 0, 11, 0, 0},
	{"/", TermDiv, 0, 11, 0, 0},
	{"%", TermMod, 0, 11, 0, OpLong},
	{"**", TermPow, 0, 13, 0, AssocRightToLeft},

	{"++", TermIncr, 14, 0, 15, 0},
	{"--", TermDecr, 14, 0, 15, 0},

	{",", TermComma, 0, 0, 0, 0},
	{";", TermSemicolon, 0, 0, 0, 0},
	{"(", TermLeftPar, 0, 16, 0, 0},
	{")", TermRightPar, 0, 0, 0, 0},
}

// OperatorByName indexes Operators by literal spelling for the lexer's
// longest-match terminal scan.
var OperatorByName = func() map[string]int {
	m := make(map[string]int, len(Operators))
	for i, o := range Operators {
		m[o.Name] = i
	}
	return m
}()

// IsAssignment reports whether a terminal code is a pure or compound
// assignment operator (the only operators allowed to change a scalar
// variable's stored type).
func IsAssignment(c TermCode) bool {
	return c >= TermAssign && c <= TermShrAssign
}
