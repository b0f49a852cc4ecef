package parser

import (
	"math"

	"justina/lexer"
	"justina/token"
	"justina/value"
)

var operatorByCode = func() map[token.TermCode]token.OperatorDef {
	m := make(map[token.TermCode]token.OperatorDef, len(token.Operators))
	for _, o := range token.Operators {
 m[o.Code] = o
	}
	return m
}()

// cursor walks a statement's lexed tokens; it is a thin helper so the
// various sub-parsers (declarations, block headers, expressions) can share
// one lookahead/consume protocol without threading an index by hand.
type cursor struct {
	toks []token.Lex
	pos int
}

func (c *cursor) peek() token.Lex {
	if c.pos >= len(c.toks) {
 return token.Lex{Kind: token.LexEOF}
	}
	return c.toks[c.pos]
}

func (c *cursor) next() token.Lex {
	t := c.peek()
	if c.pos < len(c.toks) {
 c.pos++
	}
	return t
}

func (c *cursor) atStmtEnd() bool {
	t := c.peek()
	return t.Kind == token.LexEOF || (t.Kind == token.LexTerminal && t.Term == token.TermSemicolon)
}

// ParseStatement is the parser's entry point, called once per statement
// text. It tokenizes src, recognizes a leading reserved word
// if present, and otherwise parses src as a bare expression statement: a
// synthetic ResNone record precedes its tokens so the execution engine can
// dispatch it like any other command and capture its value as the
// interpreter's last result.
func (s *State) ParseStatement(src string) error {
	s.ResetStatement()
	lx := lexer.New(src)
	toks, err := lx.Scan()
	if err != nil {
 return err
	}
	c := &cursor{toks: toks}

	first := c.peek()
	if first.Kind == token.LexIdentifier {
 if rwIdx, ok := token.ResWordByName[first.Text]; ok {
 c.next()
 return s.parseCommand(token.ResWords[rwIdx], c)
 }
	}
	if c.atStmtEnd() {
 return nil
	}
	if _, err := s.Target.AppendResWord(token.ResNone, false); err != nil {
 return err
	}
	s.emitStmtStartGroup()
	return s.parseExpression(c)
}

// parseCommand dispatches a recognized reserved word to its handler.
func (s *State) parseCommand(rw token.ResWordDef, c *cursor) error {
	switch rw.Code {
	case token.ResVar, token.ResConst, token.ResStatic, token.ResLocal:
 return s.parseDeclCommand(rw.Code, c)
	case token.ResFunction:
 return s.parseFunctionHeader(c)
	case token.ResIf:
 if err := s.ParseIfStart(); err != nil {
 return err
 }
 return s.parseExpression(c)
	case token.ResElseif:
 if err := s.ParseElseifOrElse(false); err != nil {
 return err
 }
 return s.parseExpression(c)
	case token.ResElse:
 return s.ParseElseifOrElse(true)
	case token.ResWhile:
 if err := s.ParseWhileStart(); err != nil {
 return err
 }
 return s.parseExpression(c)
	case token.ResFor:
 if err := s.ParseForStart(); err != nil {
 return err
 }
 return s.parseExpression(c)
	case token.ResEnd:
 return s.ParseEnd()
	case token.ResBreak:
 return s.ParseBreakContinue(true)
	case token.ResContinue:
 return s.ParseBreakContinue(false)
	case token.ResReturn:
 if err := s.ParseReturn(); err != nil {
 return err
 }
 if c.atStmtEnd() {
 return nil
 }
 return s.parseExpression(c)
	default:
 // print/cout/dbout/input/dispfmt/floatFmt/intFmt/dispMode/stop/quit:
 // a plain reserved-word record followed by a comma-separated
 // expression argument list, dispatched identically by the
 // execution engine's command switch.
 if _, err := s.Target.AppendResWord(rw.Code, false); err != nil {
 return err
 }
 s.emitStmtStartGroup()
 if c.atStmtEnd() {
 return nil
 }
 return s.parseExpression(c)
	}
}

// parseDeclCommand parses a var/const/static/local comma-separated
// declaration list.
func (s *State) parseDeclCommand(code token.ResWordCode, c *cursor) error {
	var kind DeclKind
	switch code {
	case token.ResVar:
 kind = DeclVar
	case token.ResConst:
 kind = DeclConst
	case token.ResStatic:
 kind = DeclStatic
	case token.ResLocal:
 kind = DeclLocal
	}

	var decls []ParsedDecl
	for {
 d, err := s.parseOneDecl(c)
 if err != nil {
 return err
 }
 decls = append(decls, d)
 if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermComma {
 c.next()
 continue
 }
 break
	}
	if _, err := s.Target.AppendResWord(code, false); err != nil {
 return err
	}
	return s.ParseDeclaration(kind, decls)
}

func (s *State) parseOneDecl(c *cursor) (ParsedDecl, error) {
	nameTok := c.next()
	if nameTok.Kind != token.LexIdentifier {
 return ParsedDecl{}, token.NewParseErrorAt(token.CodeVariableNameExpected, "variable name expected", nameTok.Pos)
	}
	d := ParsedDecl{Name: nameTok.Text}

	if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermLeftPar {
 // array dimension list: name(dim1[,dim2[,dim3]])
 c.next()
 for {
 dimTok := c.next()
 if dimTok.Kind != token.LexIntLiteral {
 return ParsedDecl{}, token.NewParseErrorAt(token.CodeArrayDimCountInvalid, "integer array dimension expected", dimTok.Pos)
 }
 d.Dims = append(d.Dims, int(dimTok.IntVal))
 if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermComma {
 c.next()
 continue
 }
 break
 }
 closeTok := c.next()
 if closeTok.Kind != token.LexTerminal || closeTok.Term != token.TermRightPar {
 return ParsedDecl{}, token.NewParseErrorAt(token.CodeTokenExpected, "')' expected", closeTok.Pos)
 }
 if len(d.Dims) > 3 {
 return ParsedDecl{}, token.NewParseError(token.CodeArrayDimCountInvalid, "at most 3 array dimensions")
 }
	}

	if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermAssign {
 c.next()
 v, err := s.parseOneLiteral(c)
 if err != nil {
 return ParsedDecl{}, err
 }
 if d.Dims != nil {
 // An array initializer is a single literal broadcast to every
 // element (there is no brace-delimited per-element list form).
 d.ArrayInit = []value.Value{v}
 } else {
 d.ScalarInit = &v
 }
	}
	return d, nil
}

func (s *State) parseOneLiteral(c *cursor) (value.Value, error) {
	neg := false
	if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermMinus {
 c.next()
 neg = true
	}
	t := c.next()
	switch t.Kind {
	case token.LexIntLiteral:
 v := t.IntVal
 if neg {
 v = -v
 }
 return value.Long(v), nil
	case token.LexFloatLiteral:
 v := t.FloatVal
 if neg {
 v = -v
 }
 return value.Float(v), nil
	case token.LexStringLiteral:
 if neg {
 return value.Value{}, token.NewParseErrorAt(token.CodeTypeMismatch, "'-' not allowed before a string literal", t.Pos)
 }
 if t.StrVal == "" {
 return value.Str(nil), nil
 }
 return value.Str(&value.StringObj{Bytes: []byte(t.StrVal)}), nil
	default:
 return value.Value{}, token.NewParseErrorAt(token.CodeTokenExpected, "literal value expected", t.Pos)
	}
}

// parseFunctionHeader parses `function name(p1, p2[], p3)`.
func (s *State) parseFunctionHeader(c *cursor) error {
	nameTok := c.next()
	if nameTok.Kind != token.LexIdentifier {
 return token.NewParseErrorAt(token.CodeIdentifierExpected, "function name expected", nameTok.Pos)
	}
	open := c.next()
	if open.Kind != token.LexTerminal || open.Term != token.TermLeftPar {
 return token.NewParseErrorAt(token.CodeTokenExpected, "'(' expected", open.Pos)
	}
	var names []string
	var isArr []bool
	var isRef []bool
	if !(c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermRightPar) {
 for {
 ref := false
 if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermBitAnd {
 c.next()
 ref = true
 }
 pTok := c.next()
 if pTok.Kind != token.LexIdentifier {
 return token.NewParseErrorAt(token.CodeVariableNameExpected, "parameter name expected", pTok.Pos)
 }
 arr := false
 if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermLeftPar {
 c.next()
 closeTok := c.next()
 if closeTok.Kind != token.LexTerminal || closeTok.Term != token.TermRightPar {
 return token.NewParseErrorAt(token.CodeTokenExpected, "')' expected after '(' in parameter", closeTok.Pos)
 }
 arr = true
 }
 if ref && arr {
 return token.NewParseErrorAt(token.CodeTokenNotAllowed, "array parameters are already passed by reference; '&' is not allowed here", pTok.Pos)
 }
 names = append(names, pTok.Text)
 isArr = append(isArr, arr)
 isRef = append(isRef, ref)
 if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermComma {
 c.next()
 continue
 }
 break
 }
	}
	closeTok := c.next()
	if closeTok.Kind != token.LexTerminal || closeTok.Term != token.TermRightPar {
 return token.NewParseErrorAt(token.CodeTokenExpected, "')' expected", closeTok.Pos)
	}
	return s.ParseFunctionStart(nameTok.Text, names, isArr, isRef)
}

// parseExpression parses a comma-separated list of one or more expressions
// (an argument list for print/cout/dbout/input/return, or a single test
// expression for if/while/for) directly into the token buffer, resolving
// operator fixity and identifier kind as it goes. It never builds a tree —
// precedence is resolved later, at execution time.
func (s *State) parseExpression(c *cursor) error {
	for {
 if err := s.parseOneExpr(c); err != nil {
 return err
 }
 if c.peek().Kind == token.LexTerminal && c.peek().Term == token.TermComma && len(s.ParenStack) == 0 {
 c.next()
 if err := s.emitOperator(token.TermComma); err != nil {
 return err
 }
 continue
 }
 break
	}
	if !c.atStmtEnd() {
 t := c.peek()
 return token.NewParseErrorAt(token.CodeTokenNotAllowed, "unexpected token", t.Pos)
	}
	return nil
}

// parseOneExpr consumes one expression's worth of tokens (stopping at a
// top-level comma, semicolon, or EOF), emitting a record per token.
func (s *State) parseOneExpr(c *cursor) error {
	consumedAny := false
	for {
 t := c.peek()
 if t.Kind == token.LexEOF {
 break
 }
 if t.Kind == token.LexTerminal && t.Term == token.TermSemicolon {
 break
 }
 if t.Kind == token.LexTerminal && t.Term == token.TermComma && len(s.ParenStack) == 0 {
 break
 }
 c.next()
 consumedAny = true
 if err := s.emitToken(t); err != nil {
 return err
 }
	}
	if !consumedAny {
 return token.NewParseErrorAt(token.CodeIncompleteExpression, "expression expected", c.peek().Pos)
	}
	return nil
}

func (s *State) emitToken(t token.Lex) error {
	switch t.Kind {
	case token.LexIdentifier:
 return s.resolveIdentifier(t.Text)
	case token.LexIntLiteral:
 return s.emitConstant(token.ValueLong, int32Payload(t.IntVal))
	case token.LexFloatLiteral:
 return s.emitConstant(token.ValueFloat, float32Payload(t.FloatVal))
	case token.LexStringLiteral:
 return s.emitStringConstant(t.StrVal)
	case token.LexTerminal:
 return s.emitTerminalToken(t.Term, t.Pos)
	default:
 return token.NewParseErrorAt(token.CodeTokenNotAllowed, "illegal token", t.Pos)
	}
}

func (s *State) emitTerminalToken(term token.TermCode, pos int) error {
	switch term {
	case token.TermLeftPar:
 entry := ParenEntry{}
 switch s.lastGroup {
 case grpFuncName:
 entry.IsFuncCall = true
 case grpVariable:
 entry.IsArraySub = true
 }
 s.ParenStack = append(s.ParenStack, entry)
 return s.emitOperator(token.TermLeftPar)
	case token.TermRightPar:
 if len(s.ParenStack) == 0 {
 return token.NewParseErrorAt(token.CodeUnmatchedParen, "unmatched ')'", pos)
 }
 s.ParenStack = s.ParenStack[:len(s.ParenStack)-1]
 return s.emitOperator(token.TermRightPar)
	case token.TermComma:
 if len(s.ParenStack) > 0 {
 s.ParenStack[len(s.ParenStack)-1].ArgCount++
 }
 return s.emitOperator(token.TermComma)
	default:
 op, ok := operatorByCode[term]
 if !ok {
 return token.NewParseErrorAt(token.CodeTokenNotAllowed, "unknown operator", pos)
 }
 // Fixity itself isn't stored in the token stream: the execution
 // engine re-derives prefix-vs-infix from where the operator falls
 // in its precedence-climbing walk (operand position means prefix),
 // so the parser only needs to validate that at least one reading
 // is legal here.
 if _, err := s.resolveFixity(op); err != nil {
 return err
 }
 return s.emitOperator(term)
	}
}

func (s *State) emitConstant(vt token.ValueType, payload [4]byte) error {
	if _, err := s.Target.AppendConstant(vt, payload); err != nil {
 return err
	}
	s.emitValueGroup()
	return nil
}

// emitStringConstant interns str into the parser's constant string pool and
// emits a CONST record whose payload is the pool index (record.go's "or a
// string-table index" case).
func (s *State) emitStringConstant(str string) error {
	idx := s.internConstString(str)
	if _, err := s.Target.AppendConstant(token.ValueString, int32Payload(int32(idx))); err != nil {
 return err
	}
	s.emitValueGroup()
	return nil
}

func int32Payload(v int32) [4]byte {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return b
}

func float32Payload(f float32) [4]byte {
	return int32Payload(int32(math.Float32bits(f)))
}
