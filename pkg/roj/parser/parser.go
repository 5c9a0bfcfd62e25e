// Package parser builds an AST from Roj source with a backtracking
// recursive-descent parser.
//
// Every production takes a position in the materialized token slice and
// either returns a subtree with the position after it, or no match with the
// position untouched. No match is how alternatives are tried; it never
// escapes ParseProgram. Structural violations record a hard error instead,
// which aborts the whole parse.
package parser

import (
	"github.com/sambeau/roj/pkg/roj/ast"
	"github.com/sambeau/roj/pkg/roj/errors"
	"github.com/sambeau/roj/pkg/roj/lexer"
)

// Parser represents the parser
type Parser struct {
	l      *lexer.Lexer
	tokens []lexer.Token
	err    *errors.RojError
}

// result is the outcome of a production: a subtree and the position after
// it, or no match (node == nil).
type result struct {
	node ast.Node
	next int
}

var noMatch = result{}

func (r result) ok() bool { return r.node != nil }

// New creates a parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// ParseProgram tokenizes the whole input and parses it. On error no tree is
// returned and the error is a *errors.RojError of class lex or parse.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	tokens, err := p.l.Tokenize()
	if err != nil {
		return nil, err
	}
	p.tokens = tokens
	p.err = nil

	eof := tokens[len(tokens)-1]
	if tokens[0].Type == lexer.EOF {
		// whitespace and comments only
		return &ast.Program{Token: eof, Body: ast.NullLiteral(eof)}, nil
	}

	res := p.parseSuite(0)
	if p.err == nil && !res.ok() {
		p.fail("PARSE-0008", p.tok(0), map[string]any{"Got": describe(p.tok(0))})
	}
	if p.err == nil && p.tok(res.next).Type != lexer.EOF {
		p.fail("PARSE-0002", p.tok(res.next), map[string]any{"Got": describe(p.tok(res.next))})
	}
	if p.err != nil {
		return nil, p.error()
	}

	return &ast.Program{Token: eof, Body: res.node}, nil
}

func (p *Parser) error() *errors.RojError {
	if name := p.l.Filename(); name != "" {
		return p.err.WithFile(name)
	}
	return p.err
}

// fail records a hard error at tok. Only the first error is kept; anything
// after it is cascading noise.
func (p *Parser) fail(code string, tok lexer.Token, data map[string]any) result {
	if p.err == nil {
		p.err = errors.NewWithPosition(code, tok.Line, tok.Column, data)
	}
	return noMatch
}

// expect returns the position after tok(pos) if it has type t, or records an
// "expected" error.
func (p *Parser) expect(pos int, t lexer.TokenType) (int, bool) {
	if p.tok(pos).Type != t {
		p.fail("PARSE-0001", p.tok(pos), map[string]any{
			"Expected": "'" + t.String() + "'",
			"Got":      describe(p.tok(pos)),
		})
		return pos, false
	}
	return pos + 1, true
}

// tok returns the token at pos; positions past the end read as EOF.
func (p *Parser) tok(pos int) lexer.Token {
	if pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[pos]
}

// describe renders a token for error messages.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.STRING:
		return `"` + tok.Literal + `"`
	}
	return tok.Literal
}

// parseSuite parses ';'-separated statements.
//
// A separator right before EOF stands for a trailing Null statement. A
// separator followed by anything else that is not a statement (end, else)
// is consumed and ends the suite.
func (p *Parser) parseSuite(pos int) result {
	first := p.parseStatement(pos)
	if !first.ok() {
		return noMatch
	}

	node, pos := first.node, first.next
	for p.err == nil && p.tok(pos).Type == lexer.SEMICOLON {
		sep := p.tok(pos)
		pos++

		if p.tok(pos).Type == lexer.EOF {
			node = &ast.BinaryOp{Token: sep, Left: node, Right: ast.NullLiteral(sep)}
			break
		}

		right := p.parseStatement(pos)
		if !right.ok() {
			break
		}
		node = &ast.BinaryOp{Token: sep, Left: node, Right: right.node}
		pos = right.next
	}

	if p.err != nil {
		return noMatch
	}
	return result{node: node, next: pos}
}

// parseStatement tries the statement alternatives in order: I/O, control,
// assignment, compound, expression.
func (p *Parser) parseStatement(pos int) result {
	alternatives := []func(int) result{
		p.parseIOStatement,
		p.parseControlStatement,
		p.parseAssignment,
		p.parseCompoundStatement,
		p.parseExpression,
	}

	for _, alt := range alternatives {
		if res := alt(pos); res.ok() || p.err != nil {
			return res
		}
	}
	return noMatch
}

// parseIOStatement parses `read name` (and readint/readfloat/readbool) or `out expr`.
func (p *Parser) parseIOStatement(pos int) result {
	tok := p.tok(pos)

	switch tok.Type {
	case lexer.READ, lexer.READINT, lexer.READFLOAT, lexer.READBOOL:
		target := p.tok(pos + 1)
		if target.Type != lexer.IDENT {
			return p.fail("PARSE-0003", target, map[string]any{
				"Keyword": tok.Literal,
				"Got":     describe(target),
			})
		}
		variable := &ast.Variable{Token: target, Name: target.Literal}
		return result{node: &ast.UnaryOp{Token: tok, Operand: variable}, next: pos + 2}

	case lexer.OUT:
		operand := p.parseExpression(pos + 1)
		if !operand.ok() {
			return p.fail("PARSE-0004", p.tok(pos+1), map[string]any{"Got": describe(p.tok(pos + 1))})
		}
		return result{node: &ast.UnaryOp{Token: tok, Operand: operand.node}, next: operand.next}
	}

	return noMatch
}

// parseControlStatement parses stop, jumpover, and halt/return with an
// optional operand that defaults to Null.
func (p *Parser) parseControlStatement(pos int) result {
	tok := p.tok(pos)

	switch tok.Type {
	case lexer.STOP, lexer.JUMPOVER:
		return result{node: &ast.UnaryOp{Token: tok}, next: pos + 1}

	case lexer.HALT, lexer.RETURN:
		operand := p.parseExpression(pos + 1)
		if p.err != nil {
			return noMatch
		}
		if !operand.ok() {
			operand = result{node: ast.NullLiteral(tok), next: pos + 1}
		}
		return result{node: &ast.UnaryOp{Token: tok, Operand: operand.node}, next: operand.next}
	}

	return noMatch
}

// parseAssignment parses `name = value` where value is another assignment
// or an expression.
func (p *Parser) parseAssignment(pos int) result {
	name, assign := p.tok(pos), p.tok(pos+1)
	if name.Type != lexer.IDENT || assign.Type != lexer.ASSIGN {
		return noMatch
	}

	value := p.parseAssignment(pos + 2)
	if !value.ok() && p.err == nil {
		value = p.parseExpression(pos + 2)
	}
	if !value.ok() {
		return p.fail("PARSE-0006", p.tok(pos+2), map[string]any{"After": "=", "Got": describe(p.tok(pos + 2))})
	}

	target := &ast.Variable{Token: name, Name: name.Literal}
	return result{node: &ast.BinaryOp{Token: assign, Left: target, Right: value.node}, next: value.next}
}

// parseCompoundStatement parses while and if.
func (p *Parser) parseCompoundStatement(pos int) result {
	switch p.tok(pos).Type {
	case lexer.WHILE:
		return p.parseWhile(pos)
	case lexer.IF:
		return p.parseIf(pos)
	}
	return noMatch
}

// parseBlock parses `do <suite> end` starting at pos.
func (p *Parser) parseBlock(pos int) result {
	pos, ok := p.expect(pos, lexer.DO)
	if !ok {
		return noMatch
	}

	body := p.parseSuite(pos)
	if !body.ok() {
		return p.fail("PARSE-0007", p.tok(pos), map[string]any{"After": "do", "Got": describe(p.tok(pos))})
	}

	next, ok := p.expect(body.next, lexer.END)
	if !ok {
		return noMatch
	}
	return result{node: body.node, next: next}
}

// parseCondition parses the expression following a while or if keyword.
func (p *Parser) parseCondition(pos int) result {
	keyword := p.tok(pos)
	cond := p.parseExpression(pos + 1)
	if !cond.ok() {
		return p.fail("PARSE-0006", p.tok(pos+1), map[string]any{"After": keyword.Literal, "Got": describe(p.tok(pos + 1))})
	}
	return cond
}

func (p *Parser) parseWhile(pos int) result {
	tok := p.tok(pos)

	cond := p.parseCondition(pos)
	if !cond.ok() {
		return noMatch
	}
	body := p.parseBlock(cond.next)
	if !body.ok() {
		return noMatch
	}

	return result{
		node: &ast.CompoundStatement{Token: tok, Left: cond.node, Right: body.node},
		next: body.next,
	}
}

func (p *Parser) parseIf(pos int) result {
	tok := p.tok(pos)

	cond := p.parseCondition(pos)
	if !cond.ok() {
		return noMatch
	}
	then := p.parseBlock(cond.next)
	if !then.ok() {
		return noMatch
	}

	// without an else the branch node is synthesized so both shapes match
	branches := &ast.CompoundStatement{
		Token: lexer.Token{Type: lexer.ELSE, Literal: "else", Line: tok.Line, Column: tok.Column},
		Left:  then.node,
	}
	next := then.next

	if elseTok := p.tok(next); elseTok.Type == lexer.ELSE {
		otherwise := p.parseBlock(next + 1)
		if !otherwise.ok() {
			return noMatch
		}
		branches.Token = elseTok
		branches.Right = otherwise.node
		next = otherwise.next
	}

	return result{
		node: &ast.CompoundStatement{Token: tok, Left: cond.node, Right: branches},
		next: next,
	}
}

// parseExpression is the entry to the expression cascade.
func (p *Parser) parseExpression(pos int) result {
	return p.parseOr(pos)
}

func (p *Parser) parseOr(pos int) result {
	return p.parseLeftAssoc(pos, p.parseAnd, lexer.OR)
}

func (p *Parser) parseAnd(pos int) result {
	return p.parseLeftAssoc(pos, p.parseNot, lexer.AND)
}

// parseNot parses `not` prefixes, right-recursively.
func (p *Parser) parseNot(pos int) result {
	tok := p.tok(pos)
	if tok.Type != lexer.NOT {
		return p.parseComparison(pos)
	}

	operand := p.parseNot(pos + 1)
	if !operand.ok() {
		return p.missingOperand(tok, pos+1)
	}
	return result{node: &ast.UnaryOp{Token: tok, Operand: operand.node}, next: operand.next}
}

// parseComparison parses at most one comparison operator; comparisons do not chain.
func (p *Parser) parseComparison(pos int) result {
	left := p.parseAdditive(pos)
	if !left.ok() {
		return noMatch
	}

	op := p.tok(left.next)
	switch op.Type {
	case lexer.EQ, lexer.NOT_EQ, lexer.GT, lexer.LT, lexer.GT_EQ, lexer.LT_EQ:
	default:
		return left
	}

	right := p.parseAdditive(left.next + 1)
	if !right.ok() {
		return p.missingOperand(op, left.next+1)
	}
	return result{node: &ast.BinaryOp{Token: op, Left: left.node, Right: right.node}, next: right.next}
}

func (p *Parser) parseAdditive(pos int) result {
	return p.parseLeftAssoc(pos, p.parseMultiplicative, lexer.PLUS, lexer.MINUS)
}

func (p *Parser) parseMultiplicative(pos int) result {
	return p.parseLeftAssoc(pos, p.parsePower, lexer.ASTERISK, lexer.SLASH)
}

// parsePower is left-associative like every other binary level: 2^3^2 is (2^3)^2.
func (p *Parser) parsePower(pos int) result {
	return p.parseLeftAssoc(pos, p.parseAtom, lexer.CARET)
}

// parseLeftAssoc parses `operand (op operand)*`, nesting the accumulated
// tree as the left child on every iteration.
func (p *Parser) parseLeftAssoc(pos int, operand func(int) result, ops ...lexer.TokenType) result {
	left := operand(pos)
	if !left.ok() {
		return noMatch
	}

	for {
		op := p.tok(left.next)
		if !isOneOf(op.Type, ops) {
			return left
		}

		right := operand(left.next + 1)
		if !right.ok() {
			return p.missingOperand(op, left.next+1)
		}
		left = result{
			node: &ast.BinaryOp{Token: op, Left: left.node, Right: right.node},
			next: right.next,
		}
	}
}

// parseAtom parses a signed atom, a literal, a variable or a parenthesized expression.
func (p *Parser) parseAtom(pos int) result {
	tok := p.tok(pos)

	switch tok.Type {
	case lexer.PLUS, lexer.MINUS:
		operand := p.parseAtom(pos + 1)
		if !operand.ok() {
			return p.missingOperand(tok, pos+1)
		}
		return result{node: &ast.UnaryOp{Token: tok, Operand: operand.node}, next: operand.next}

	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.BOOL, lexer.NULL:
		return result{node: &ast.Literal{Token: tok, Value: tok.Value}, next: pos + 1}

	case lexer.IDENT:
		return result{node: &ast.Variable{Token: tok, Name: tok.Literal}, next: pos + 1}

	case lexer.LPAREN:
		inner := p.parseExpression(pos + 1)
		if !inner.ok() {
			return p.missingOperand(tok, pos+1)
		}
		if p.tok(inner.next).Type != lexer.RPAREN {
			return p.fail("PARSE-0005", p.tok(inner.next), map[string]any{"Line": tok.Line, "Column": tok.Column})
		}
		return result{node: inner.node, next: inner.next + 1}
	}

	return noMatch
}

// missingOperand records that the operator at op has nothing to apply to.
// Once an operator is consumed no other alternative can match, so this is
// a hard error rather than a no match.
func (p *Parser) missingOperand(op lexer.Token, pos int) result {
	return p.fail("PARSE-0006", p.tok(pos), map[string]any{"After": op.Literal, "Got": describe(p.tok(pos))})
}

func isOneOf(t lexer.TokenType, types []lexer.TokenType) bool {
	for _, candidate := range types {
		if t == candidate {
			return true
		}
	}
	return false
}
