package parser

import (
	"justina/token"
)

// seqGroup is a deliberately simplified stand-in for the original
// interpreter's 7-bit "last token group" classifier (see DESIGN.md): rather
// than track every one of the original's fine-grained group codes, this
// parser keeps just enough state to answer the one question that actually
// matters for recognizing token fixity and catching the most common
// sequencing mistakes: "given what came immediately before, is the next
// operator a prefix, an infix/postfix, or disallowed outright?"
type seqGroup byte

const (
	grpStmtStart seqGroup = iota
	grpOperator // a prefix or infix operator was just emitted
	grpComma // a comma or open-paren was just emitted (expression about to start)
	grpOpenParen
	grpValueOrCloseParen // a literal, variable, or ")" was just emitted — a value is available
	grpFuncName // a built-in/user function name was just emitted, "(" expected next
	grpVariable
)

// canStartPrefix reports whether an operator may appear as a prefix
// operator given the preceding token's group: prefix operators are legal at
// statement start, right after another operator, or right after a comma or
// open paren — anywhere a new sub-expression is expected to begin.
func canStartPrefix(prev seqGroup) bool {
	switch prev {
	case grpStmtStart, grpOperator, grpComma, grpOpenParen:
 return true
	default:
 return false
	}
}

// canStartInfixOrPostfix reports whether an operator may appear as an infix
// or postfix operator given the preceding token's group: these require a
// completed value (a literal, a variable, or a closing paren) immediately
// before them.
func canStartInfixOrPostfix(prev seqGroup) bool {
	return prev == grpValueOrCloseParen || prev == grpVariable
}

// resolveFixity decides whether the operator at opIdx in token.Operators
// should be parsed as a prefix, infix, or postfix occurrence, given the
// parser's current sequence-group state, and reports an error when neither
// a prefix nor infix/postfix reading is syntactically valid in the current
// sequence.
func (s *State) resolveFixity(op token.OperatorDef) (isPrefix bool, err error) {
	prefixOK := op.PrefixPriority > 0 && canStartPrefix(s.lastGroup)
	infixOK := (op.InfixPriority > 0 || op.PostfixPriority > 0) && canStartInfixOrPostfix(s.lastGroup)

	switch {
	case prefixOK && !infixOK:
 return true, nil
	case infixOK && !prefixOK:
 return false, nil
	case prefixOK && infixOK:
 // Ambiguous only for +/- (both prefix and infix priorities are
 // nonzero); previous-token context already resolved it above, so
 // this arm is unreachable for the current operator table, but is
 // kept as a defensive tie-break favoring infix (the far more
 // common reading) rather than panicking.
 return false, nil
	default:
 return false, token.NewParseError(token.CodeOperatorNotAllowed, "operator not allowed here: "+op.Name)
	}
}

// emitOperator appends a terminal record for a recognized operator/
// punctuation token and updates the sequence-group classifier.
func (s *State) emitOperator(term token.TermCode) error {
	idx := int(term)
	group := token.KindTerminal1
	if idx > 15 {
 group = token.KindTerminal2
 idx -= 16
	}
	if idx > 15 {
 group = token.KindTerminal3
 idx -= 16
	}
	if _, err := s.Target.AppendTerminal(group, byte(idx)); err != nil {
 return err
	}

	switch term {
	case token.TermComma:
 s.lastGroup = grpComma
	case token.TermLeftPar:
 s.lastGroup = grpOpenParen
	case token.TermRightPar:
 s.lastGroup = grpValueOrCloseParen
	default:
 s.lastGroup = grpOperator
	}
	return nil
}

// emitValueGroup updates the sequence-group classifier after a literal constant,
// variable reference, or value-yielding function call has been appended —
// all three make a completed value available for a following infix/postfix
// operator.
func (s *State) emitValueGroup() {
	s.lastGroup = grpValueOrCloseParen
}

func (s *State) emitVariableGroup() {
	s.lastGroup = grpVariable
}

func (s *State) emitFuncNameGroup() {
	s.lastGroup = grpFuncName
}

func (s *State) emitStmtStartGroup() {
	s.lastGroup = grpStmtStart
}
